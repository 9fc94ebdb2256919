package commands

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/leapstack-labs/jsonsql/internal/engine"
	"github.com/leapstack-labs/jsonsql/pkg/core"
	"github.com/leapstack-labs/jsonsql/pkg/dialect"
)

// Generate output formats.
const (
	FormatSQL   = "sql"
	FormatGoose = "goose"
)

// watchDebounce coalesces the bursts of events editors produce on save.
const watchDebounce = 100 * time.Millisecond

// GenerateOptions holds options for the generate command.
type GenerateOptions struct {
	File   string
	Watch  bool
	Out    string
	Format string
}

// NewGenerateCommand creates the generate command.
func NewGenerateCommand() *cobra.Command {
	opts := &GenerateOptions{}

	cmd := &cobra.Command{
		Use:     "generate",
		Aliases: []string{"gen"},
		Short:   "Generate CREATE TABLE and INSERT statements from JSON",
		Long: `Generate a SQL script from a JSON document.

The root object becomes one table. Nested objects and non-empty arrays become
child tables named <parent>_<key>, linked to their parent through a
<parent>_id foreign key. Arrays are shaped from their first element.

One section is written per selected dialect, in the order sqlite, mysql,
postgres. Use --insert to add the document's values as INSERT statements.`,
		Example: `  # SQLite schema from a file
  jsonsql generate -f user.json --sqlite

  # Schema and data for every dialect, reading stdin
  cat user.json | jsonsql generate --sqlite --mysql --postgres --insert

  # MySQL with a custom root table and charset
  jsonsql generate -f user.json --mysql -t users --character utf8mb4 --collate utf8mb4_unicode_ci

  # goose migrations, one file per dialect
  jsonsql generate -f user.json --sqlite --postgres --format goose --out migrations

  # Regenerate whenever the file changes
  jsonsql generate -f user.json --sqlite --watch`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runGenerate(cmd, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.File, "file", "f", "", "JSON input file (default: stdin)")
	cmd.Flags().StringP("table", "t", core.DefaultTableName, "Root table name")
	cmd.Flags().Bool("sqlite", false, "Generate SQLite statements")
	cmd.Flags().Bool("mysql", false, "Generate MySQL statements")
	cmd.Flags().Bool("postgres", false, "Generate Postgres statements")
	cmd.Flags().Bool("insert", false, "Also generate INSERT statements")
	cmd.Flags().String("character", core.DefaultCharset, "MySQL character set")
	cmd.Flags().String("collate", core.DefaultCollate, "MySQL collation")
	cmd.Flags().String("engine", core.DefaultEngine, "MySQL storage engine")
	cmd.Flags().Bool("strict", false, "Reject null values instead of typing them as text")
	cmd.Flags().String("identifiers", string(core.IdentifiersRaw), "Identifier mode (raw|quoted|normalized)")
	cmd.Flags().Int("text-width", 0, "Text column width (0 keeps the dialect default)")
	cmd.Flags().Bool("no-if-not-exists", false, "Emit CREATE TABLE without IF NOT EXISTS")
	cmd.Flags().Bool("no-dates", false, "Treat ISO 8601 date-time strings as plain text")
	cmd.Flags().BoolVar(&opts.Watch, "watch", false, "Regenerate when the input file changes")
	cmd.Flags().StringVar(&opts.Out, "out", "", "Write to this file (sql) or directory (goose) instead of stdout")
	cmd.Flags().StringVar(&opts.Format, "format", FormatSQL, "Output format (sql|goose)")

	_ = cmd.RegisterFlagCompletionFunc("identifiers", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		modes := make([]string, 0, len(core.IdentifierModes))
		for _, m := range core.IdentifierModes {
			modes = append(modes, string(m))
		}
		return modes, cobra.ShellCompDirectiveNoFileComp
	})
	_ = cmd.RegisterFlagCompletionFunc("format", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return []string{FormatSQL, FormatGoose}, cobra.ShellCompDirectiveNoFileComp
	})

	return cmd
}

func runGenerate(cmd *cobra.Command, opts *GenerateOptions) error {
	if opts.Format != FormatSQL && opts.Format != FormatGoose {
		return fmt.Errorf("unknown format %q (expected %s or %s)", opts.Format, FormatSQL, FormatGoose)
	}
	if opts.Watch && (opts.File == "" || opts.File == "-") {
		return fmt.Errorf("--watch requires --file")
	}

	cc, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}
	if len(cc.Cfg.Dialects) == 0 {
		return fmt.Errorf("no dialect selected: %w\nHint: Use --sqlite, --mysql or --postgres, or set dialects in jsonsql.yaml", dialect.ErrDialectRequired)
	}

	eng, err := cc.NewEngine(nil)
	if err != nil {
		return err
	}

	if !opts.Watch {
		return generateOnce(cmd, cc, eng, opts)
	}
	return watchFile(cmd.Context(), cc, opts.File, func() {
		if err := generateOnce(cmd, cc, eng, opts); err != nil {
			cc.Renderer.Error(err.Error())
		}
	})
}

// generateOnce reads the document, runs every dialect pass and writes the
// successful sections. The joined error of failed passes is returned after
// the others have been written.
func generateOnce(cmd *cobra.Command, cc *CommandContext, eng *engine.Engine, opts *GenerateOptions) error {
	doc, source, err := cc.ReadDocument(cmd, opts.File)
	if err != nil {
		return err
	}

	results, err := eng.Generate(doc)
	if err != nil {
		return err
	}
	for _, res := range results {
		if res.Err != nil {
			cc.Logger.Warn("dialect pass failed", slog.String("dialect", res.Dialect.Name), slog.Any("error", res.Err))
			continue
		}
		cc.Logger.Debug("dialect pass complete",
			slog.String("dialect", res.Dialect.Name),
			slog.String("source", source),
			slog.Int("tables", len(res.Schema)),
			slog.Int("inserts", len(res.Inserts)))
	}

	now := time.Now()
	switch {
	case opts.Format == FormatGoose && opts.Out != "":
		paths, err := engine.SaveMigrations(opts.Out, results, now)
		for _, p := range paths {
			cc.Renderer.StatusLine(p, "success", "")
		}
		if err != nil {
			return err
		}
	case opts.Out != "":
		var buf bytes.Buffer
		if err := writeResults(&buf, results, eng, opts.Format, now); err != nil {
			return err
		}
		if dir := filepath.Dir(opts.Out); dir != "." && dir != "" {
			if err := os.MkdirAll(dir, 0750); err != nil {
				return fmt.Errorf("failed to create output directory: %w", err)
			}
		}
		if err := os.WriteFile(opts.Out, buf.Bytes(), 0600); err != nil {
			return fmt.Errorf("failed to write %s: %w", opts.Out, err)
		}
		cc.Renderer.StatusLine(opts.Out, "success", "")
	default:
		var buf bytes.Buffer
		if err := writeResults(&buf, results, eng, opts.Format, now); err != nil {
			return err
		}
		cc.Renderer.SQL(buf.String())
	}

	return engine.Errors(results)
}

func writeResults(buf *bytes.Buffer, results []engine.Result, eng *engine.Engine, format string, now time.Time) error {
	if format == FormatGoose {
		return engine.WriteMigrations(buf, results, now)
	}
	return engine.WriteScript(buf, results, eng.Insert())
}

// watchFile calls regenerate once, then again after every debounced write
// or create event on path, until ctx is done.
func watchFile(ctx context.Context, cc *CommandContext, path string, regenerate func()) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer func() { _ = watcher.Close() }()

	// Editors often replace the file on save, so watch its directory.
	if err := watcher.Add(filepath.Dir(abs)); err != nil {
		return fmt.Errorf("failed to watch %s: %w", path, err)
	}

	regenerate()
	cc.Renderer.Muted(fmt.Sprintf("Watching %s for changes (Ctrl+C to stop)", path))

	// Debounce timer
	var debounceTimer *time.Timer
	changed := make(chan struct{}, 1)
	defer func() {
		if debounceTimer != nil {
			debounceTimer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != abs {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			if debounceTimer != nil {
				debounceTimer.Stop()
			}
			debounceTimer = time.AfterFunc(watchDebounce, func() {
				select {
				case changed <- struct{}{}:
				default:
				}
			})
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			if errors.Is(err, fsnotify.ErrEventOverflow) {
				cc.Logger.Warn("watch event overflow", slog.Any("error", err))
				continue
			}
			return fmt.Errorf("watch error: %w", err)
		case <-changed:
			cc.Logger.Debug("change detected", slog.String("path", path))
			regenerate()
		}
	}
}

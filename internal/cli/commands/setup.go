package commands

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/jsonsql/internal/cli/config"
	"github.com/leapstack-labs/jsonsql/internal/cli/output"
	"github.com/leapstack-labs/jsonsql/internal/engine"
	"github.com/leapstack-labs/jsonsql/internal/state"
	"github.com/leapstack-labs/jsonsql/pkg/document"
)

// stdinSource labels documents read from standard input.
const stdinSource = "stdin"

// CommandContext holds common dependencies for CLI commands.
type CommandContext struct {
	Cfg      *config.Config
	Logger   *slog.Logger
	Renderer *output.Renderer
}

// NewCommandContext creates a CommandContext with logger and renderer.
func NewCommandContext(cmd *cobra.Command) (*CommandContext, error) {
	cfg := getConfig()
	logger := config.GetLogger(cmd.Context())

	mode, err := output.ParseMode(cfg.OutputFormat)
	if err != nil {
		return nil, err
	}
	r := output.NewRenderer(cmd.OutOrStdout(), cmd.ErrOrStderr(), mode)

	return &CommandContext{
		Cfg:      cfg,
		Logger:   logger,
		Renderer: r,
	}, nil
}

// Helper functions shared across commands

// getConfig returns the current configuration, or the defaults when none
// was loaded.
func getConfig() *config.Config {
	if cfg := config.GetCurrentConfig(); cfg != nil {
		return cfg
	}
	return config.Default()
}

// NewEngine creates an engine from the current configuration.
func (c *CommandContext) NewEngine(store state.Store) (*engine.Engine, error) {
	opts, err := c.Cfg.Options()
	if err != nil {
		return nil, err
	}
	return engine.New(engine.Config{
		Dialects:  c.Cfg.Dialects,
		TableName: c.Cfg.Table,
		Insert:    c.Cfg.Insert,
		Options:   opts,
		Logger:    c.Logger,
		Store:     store,
	})
}

// ReadDocument parses the JSON document at path, or standard input when
// path is empty or "-". It returns the document and a label for its source.
func (c *CommandContext) ReadDocument(cmd *cobra.Command, path string) (*document.Object, string, error) {
	var (
		r      io.Reader
		source string
	)
	if path == "" || path == "-" {
		r, source = cmd.InOrStdin(), stdinSource
	} else {
		f, err := os.Open(path) //nolint:gosec // reading user-provided input file
		if err != nil {
			return nil, path, fmt.Errorf("failed to open input: %w", err)
		}
		defer func() { _ = f.Close() }()
		r, source = f, path
	}

	doc, err := document.Parse(r, c.Cfg.ParseOptions())
	if err != nil {
		return nil, source, fmt.Errorf("%s: %w", source, err)
	}
	c.Logger.Debug("document parsed", slog.String("source", source), slog.Int("members", doc.Len()))
	return doc, source, nil
}

// OpenStore opens and migrates the run history database.
// The caller must close the returned store.
func (c *CommandContext) OpenStore() (*state.SQLiteStore, error) {
	// Ensure state directory exists
	stateDir := filepath.Dir(c.Cfg.StatePath)
	if stateDir != "." && stateDir != "" {
		if err := os.MkdirAll(stateDir, 0750); err != nil {
			return nil, fmt.Errorf("failed to create state directory: %w", err)
		}
	}

	store := state.NewSQLiteStore(c.Logger)
	if err := store.Open(c.Cfg.StatePath); err != nil {
		return nil, err
	}
	if err := store.Migrate(); err != nil {
		_ = store.Close()
		return nil, err
	}
	return store, nil
}

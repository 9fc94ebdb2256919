package commands

import (
	"errors"
	"fmt"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/leapstack-labs/jsonsql/internal/cli/output"
	"github.com/leapstack-labs/jsonsql/internal/engine"
	"github.com/leapstack-labs/jsonsql/internal/state"
)

// ApplyOptions holds options for the apply command.
type ApplyOptions struct {
	File        string
	Targets     []string
	Migrate     bool
	NoHistory   bool
	Concurrency int
}

// ApplyTargetOutput is the JSON form of one target's apply result.
type ApplyTargetOutput struct {
	Target     string `json:"target"`
	Dialect    string `json:"dialect"`
	RunID      string `json:"run_id,omitempty"`
	Statements int    `json:"statements"`
	Migration  int64  `json:"migration,omitempty"`
	Migrated   bool   `json:"migrated"`
	DurationMS int64  `json:"duration_ms"`
	Error      string `json:"error,omitempty"`
}

// NewApplyCommand creates the apply command.
func NewApplyCommand() *cobra.Command {
	opts := &ApplyOptions{}

	cmd := &cobra.Command{
		Use:   "apply",
		Short: "Create the inferred tables in configured databases",
		Long: `Generate the script for each target's dialect and execute it.

Targets are defined under targets in jsonsql.yaml. Each target runs on one
connection inside one transaction, so a failing statement rolls the whole
target back. Independent targets run concurrently.

With --migrate the CREATE TABLE statements are applied as a goose migration,
recorded in goose_db_version, before any inserts run.

Every target run is recorded in the run history unless --no-history is set.`,
		Example: `  # Create the tables in every configured target
  jsonsql apply -f user.json

  # Load the data into one target
  jsonsql apply -f user.json --target local --insert

  # Version the schema with goose
  jsonsql apply -f user.json --target warehouse --migrate`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runApply(cmd, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.File, "file", "f", "", "JSON input file (default: stdin)")
	cmd.Flags().StringSliceVar(&opts.Targets, "target", nil, "Target to apply to (repeatable, default: all targets)")
	cmd.Flags().StringP("table", "t", "main", "Root table name")
	cmd.Flags().Bool("insert", false, "Also insert the document's values")
	cmd.Flags().Bool("strict", false, "Reject null values instead of typing them as text")
	cmd.Flags().BoolVar(&opts.Migrate, "migrate", false, "Apply the schema as a goose migration")
	cmd.Flags().BoolVar(&opts.NoHistory, "no-history", false, "Do not record the run in the history")
	cmd.Flags().IntVar(&opts.Concurrency, "concurrency", 0, "Maximum targets applied at once (0 = all)")
	cmd.Flags().String("state", "", "Path to the run history database")

	_ = cmd.RegisterFlagCompletionFunc("target", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return getConfig().TargetNames(), cobra.ShellCompDirectiveNoFileComp
	})

	return cmd
}

func runApply(cmd *cobra.Command, opts *ApplyOptions) error {
	cc, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}

	names := opts.Targets
	if len(names) == 0 {
		names = cc.Cfg.TargetNames()
	}
	if len(names) == 0 {
		return fmt.Errorf("no targets configured\nHint: Define targets in jsonsql.yaml (see jsonsql init)")
	}
	targets := make([]engine.Target, 0, len(names))
	for _, name := range names {
		t, err := cc.Cfg.Target(name)
		if err != nil {
			return err
		}
		targets = append(targets, engine.Target{Name: name, Config: *t})
	}

	var store state.Store
	if !opts.NoHistory {
		s, err := cc.OpenStore()
		if err != nil {
			return err
		}
		defer func() { _ = s.Close() }()
		store = s
	}

	eng, err := cc.NewEngine(store)
	if err != nil {
		return err
	}

	doc, source, err := cc.ReadDocument(cmd, opts.File)
	if err != nil {
		return err
	}

	results, applyErr := eng.Apply(cmd.Context(), doc, targets, engine.ApplyOptions{
		Insert:      cc.Cfg.Insert,
		Migrate:     opts.Migrate,
		Source:      source,
		Concurrency: opts.Concurrency,
	})

	if err := renderApply(cc.Renderer, results); err != nil {
		return errors.Join(applyErr, err)
	}
	return applyErr
}

func renderApply(r *output.Renderer, results []engine.ApplyResult) error {
	if r.EffectiveMode() == output.ModeJSON {
		out := make([]ApplyTargetOutput, 0, len(results))
		for _, res := range results {
			o := ApplyTargetOutput{
				Target:     res.Target,
				Dialect:    res.Dialect,
				RunID:      res.RunID,
				Statements: res.Statements,
				Migration:  res.Migration,
				Migrated:   res.Migrated,
				DurationMS: res.Duration.Milliseconds(),
			}
			if res.Err != nil {
				o.Error = res.Err.Error()
			}
			out = append(out, o)
		}
		return r.JSON(out)
	}

	rows := make([]table.Row, 0, len(results))
	failed := 0
	for _, res := range results {
		status := "ok"
		if res.Err != nil {
			status = "failed"
			failed++
		}
		migration := "-"
		if res.Migration != 0 {
			migration = fmt.Sprintf("%d", res.Migration)
			if !res.Migrated {
				migration += " (already applied)"
			}
		}
		runID := res.RunID
		if runID == "" {
			runID = "-"
		}
		rows = append(rows, table.Row{res.Target, res.Dialect, status, res.Statements, migration, res.Duration.Round(time.Millisecond), runID})
	}
	renderTable(r, table.Row{"Target", "Dialect", "Status", "Statements", "Migration", "Duration", "Run"}, rows)

	if failed == 0 {
		r.Success(fmt.Sprintf("Applied to %d target(s)", len(results)))
	} else {
		r.Error(fmt.Sprintf("%d of %d target(s) failed", failed, len(results)))
	}
	return nil
}

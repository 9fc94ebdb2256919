package commands

import (
	"fmt"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/leapstack-labs/jsonsql/internal/cli/output"
	"github.com/leapstack-labs/jsonsql/internal/state"
)

// NewHistoryCommand creates the history command.
func NewHistoryCommand() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recorded apply runs",
		Long:  `List the apply runs recorded in the run history database, newest first.`,
		Example: `  # Last 20 runs
  jsonsql history

  # Every run as JSON
  jsonsql history --limit 0 -o json`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cc, err := NewCommandContext(cmd)
			if err != nil {
				return err
			}

			store, err := cc.OpenStore()
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			runs, err := store.ListRuns(limit)
			if err != nil {
				return err
			}

			r := cc.Renderer
			if r.EffectiveMode() == output.ModeJSON {
				if runs == nil {
					runs = []*state.Run{}
				}
				return r.JSON(runs)
			}
			renderHistory(r, runs)
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 20, "Maximum runs to show (0 = all)")
	cmd.Flags().String("state", "", "Path to the run history database")

	return cmd
}

func renderHistory(r *output.Renderer, runs []*state.Run) {
	rows := make([]table.Row, 0, len(runs))
	for _, run := range runs {
		migration := "-"
		if run.Migration != 0 {
			migration = fmt.Sprintf("%d", run.Migration)
		}
		duration := "-"
		if run.FinishedAt != nil {
			duration = run.Duration().Round(time.Millisecond).String()
		}
		rows = append(rows, table.Row{
			run.ID, run.StartedAt.Local().Format(time.DateTime), run.Target, run.Dialect, run.Table,
			string(run.Status), run.Statements, migration, duration, truncate(run.Error, 60),
		})
	}
	renderTable(r, table.Row{"Run", "Started", "Target", "Dialect", "Table", "Status", "Statements", "Migration", "Duration", "Error"}, rows)
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return fmt.Sprintf("%s...", s[:n])
}

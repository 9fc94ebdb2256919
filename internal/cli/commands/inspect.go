package commands

import (
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/leapstack-labs/jsonsql/internal/cli/output"
	"github.com/leapstack-labs/jsonsql/pkg/schema"
)

// InspectOutput is the JSON form of a table plan.
type InspectOutput struct {
	Source string          `json:"source"`
	Table  string          `json:"table"`
	Tables []*schema.Table `json:"tables"`
}

// NewInspectCommand creates the inspect command.
func NewInspectCommand() *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "inspect",
		Short: "Show the table plan inferred from a JSON document",
		Long: `Show the tables jsonsql would create for a JSON document, without
rendering SQL: every table with its parent, JSON path and the kind of each
column. The plan is the same for every dialect.`,
		Example: `  # Show the plan as a table
  jsonsql inspect -f user.json

  # Machine-readable plan
  jsonsql inspect -f user.json -o json`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cc, err := NewCommandContext(cmd)
			if err != nil {
				return err
			}
			eng, err := cc.NewEngine(nil)
			if err != nil {
				return err
			}

			doc, source, err := cc.ReadDocument(cmd, file)
			if err != nil {
				return err
			}
			tables, err := eng.Plan(doc)
			if err != nil {
				return err
			}

			r := cc.Renderer
			if r.EffectiveMode() == output.ModeJSON {
				return r.JSON(InspectOutput{Source: source, Table: eng.TableName(), Tables: tables})
			}
			renderPlan(r, tables)
			return nil
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "JSON input file (default: stdin)")
	cmd.Flags().StringP("table", "t", "main", "Root table name")
	cmd.Flags().Bool("strict", false, "Reject null values instead of typing them as text")
	cmd.Flags().String("identifiers", "raw", "Identifier mode (raw|quoted|normalized)")
	cmd.Flags().Bool("no-dates", false, "Treat ISO 8601 date-time strings as plain text")

	return cmd
}

func renderPlan(r *output.Renderer, tables []*schema.Table) {
	r.Header(2, "Tables")
	rows := make([]table.Row, 0, len(tables))
	for _, t := range tables {
		cols := make([]string, 0, len(t.Columns)+1)
		if fk := t.ForeignKey(); fk != "" {
			cols = append(cols, fk+" (parent)")
		}
		for _, c := range t.Columns {
			cols = append(cols, c.Name+" "+c.Kind.String())
		}
		parent := t.Parent
		if parent == "" {
			parent = "-"
		}
		rows = append(rows, table.Row{t.Name, parent, t.Path, strings.Join(cols, ", ")})
	}
	renderTable(r, table.Row{"Table", "Parent", "Path", "Columns"}, rows)
}

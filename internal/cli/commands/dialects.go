package commands

import (
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/leapstack-labs/jsonsql/internal/cli/output"
	"github.com/leapstack-labs/jsonsql/pkg/core"
	"github.com/leapstack-labs/jsonsql/pkg/dialect"
)

// DialectInfo describes one registered dialect.
type DialectInfo struct {
	Name         string `json:"name"`
	DisplayName  string `json:"display_name"`
	PrimaryKey   string `json:"primary_key"`
	Text         string `json:"text"`
	Integer      string `json:"integer"`
	Float        string `json:"float"`
	Boolean      string `json:"boolean"`
	Date         string `json:"date"`
	True         string `json:"true"`
	False        string `json:"false"`
	EmptyInsert  string `json:"empty_insert"`
	TableOptions bool   `json:"table_options"`
}

// NewDialectsCommand creates the dialects command.
func NewDialectsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "dialects",
		Short: "List supported SQL dialects",
		Long:  `List the registered SQL dialects and the fragments each one uses for column types and literals.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cc, err := NewCommandContext(cmd)
			if err != nil {
				return err
			}

			opts := core.DefaultOptions()
			infos := make([]DialectInfo, 0)
			for _, name := range dialect.List() {
				d, _ := dialect.Get(name)
				infos = append(infos, DialectInfo{
					Name:         d.Name,
					DisplayName:  d.DisplayName,
					PrimaryKey:   d.PrimaryKey,
					Text:         d.TextType(0),
					Integer:      d.Types.Integer,
					Float:        d.Types.Float,
					Boolean:      d.Types.Boolean,
					Date:         d.Types.Date,
					True:         d.BoolLiteral(true),
					False:        d.BoolLiteral(false),
					EmptyInsert:  d.EmptyInsert,
					TableOptions: d.TableSuffix(opts.MySQL) != "",
				})
			}

			r := cc.Renderer
			if r.EffectiveMode() == output.ModeJSON {
				return r.JSON(infos)
			}

			rows := make([]table.Row, 0, len(infos))
			for _, info := range infos {
				rows = append(rows, table.Row{
					info.Name, info.PrimaryKey, info.Text, info.Date,
					info.True + "/" + info.False, info.TableOptions,
				})
			}
			renderTable(r, table.Row{"Dialect", "Primary key", "Text", "Date", "Booleans", "Table options"}, rows)
			return nil
		},
	}
}

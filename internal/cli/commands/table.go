package commands

import (
	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/leapstack-labs/jsonsql/internal/cli/output"
)

// renderTable writes rows as a markdown table when the effective mode is
// markdown and as a boxed table otherwise.
func renderTable(r *output.Renderer, header table.Row, rows []table.Row) {
	if len(rows) == 0 {
		r.Println("(0 rows)")
		return
	}

	t := table.NewWriter()
	t.SetOutputMirror(r.Writer())
	t.AppendHeader(header)
	t.AppendRows(rows)

	if r.EffectiveMode() == output.ModeMarkdown {
		t.RenderMarkdown()
		return
	}
	t.SetStyle(table.StyleLight)
	t.Render()
}

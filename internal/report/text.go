package report

import (
	"io"

	"github.com/olekukonko/tablewriter"
)

// WriteText renders t as an aligned plain-text table with one column per
// tool, headed by the raw tool names.
func WriteText(w io.Writer, t *Table) {
	table := tablewriter.NewWriter(w)
	table.SetAutoFormatHeaders(false)
	table.SetAutoWrapText(false)
	table.SetBorder(false)
	table.SetHeader(append([]string{"Benchmark"}, t.Columns...))

	alignment := []int{tablewriter.ALIGN_LEFT}
	for range t.Columns {
		alignment = append(alignment, tablewriter.ALIGN_RIGHT)
	}
	table.SetColumnAlignment(alignment)
	table.SetHeaderAlignment(tablewriter.ALIGN_RIGHT)

	for _, row := range t.Rows {
		line := []string{row.TestCase}
		for _, c := range row.Cells {
			line = append(line, c.String())
		}
		table.Append(line)
	}
	table.Render()
}

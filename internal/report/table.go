// Package report aggregates persisted samples into comparison tables.
package report

import (
	"strconv"

	"github.com/antoninbas/rewritebench/internal/store"
	"github.com/antoninbas/rewritebench/internal/tool"
)

// MillisecondsPerSecond converts the on-disk unit to the displayed one.
const MillisecondsPerSecond = 1000

// Absent is how a cell without measurements is rendered.
const Absent = "-"

// Cell is the mean of one record's timings, in seconds.
type Cell struct {
	Mean    float64
	Present bool
}

func (c Cell) String() string {
	if !c.Present {
		return Absent
	}
	return strconv.FormatFloat(c.Mean, 'f', 1, 64)
}

// Aggregate returns the mean of timings divided by scale. A record that is
// missing or has no timings yields an absent cell.
func Aggregate(rec *store.Record, scale float64) Cell {
	if rec == nil || len(rec.Timings) == 0 {
		return Cell{}
	}
	var sum float64
	for _, v := range rec.Timings {
		sum += v
	}
	return Cell{Mean: sum / float64(len(rec.Timings)) / scale, Present: true}
}

type Options struct {
	// Columns lists the tools to show, in order. Empty means every tool in
	// the result set, in lexical order.
	Columns []string
	Sort    SortMode
	// Scale divides the stored milliseconds. Zero means
	// MillisecondsPerSecond.
	Scale float64
	// DisplayNames overrides the typeset header of a tool.
	DisplayNames map[string]string
}

type Row struct {
	TestCase string
	Cells    []Cell
}

type Table struct {
	Columns []string
	// Headers holds the display name of each column.
	Headers []string
	Rows    []Row
}

// Build aggregates every test case of rs against the selected tools.
func Build(rs *store.ResultSet, opts Options) *Table {
	scale := opts.Scale
	if scale == 0 {
		scale = MillisecondsPerSecond
	}
	columns := opts.Columns
	if len(columns) == 0 {
		columns = rs.Tools()
	}
	t := &Table{Columns: columns}
	for _, c := range columns {
		t.Headers = append(t.Headers, displayName(c, opts.DisplayNames))
	}
	names := rs.TestCases()
	opts.Sort.Sort(names)
	for _, name := range names {
		row := Row{TestCase: name}
		for _, c := range columns {
			rec, _ := rs.Get(name, c)
			row.Cells = append(row.Cells, Aggregate(rec, scale))
		}
		t.Rows = append(t.Rows, row)
	}
	return t
}

func displayName(column string, overrides map[string]string) string {
	if name, ok := overrides[column]; ok && name != "" {
		return name
	}
	if id, err := tool.Parse(column); err == nil {
		return id.DisplayName()
	}
	return column
}

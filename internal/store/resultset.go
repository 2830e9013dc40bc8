package store

import (
	"sort"

	"github.com/antoninbas/rewritebench/internal/tool"
)

// ResultSet indexes records by test case and tool. Adding a record for an
// existing pair replaces the previous one.
type ResultSet struct {
	records map[string]map[string]*Record
}

func NewResultSet() *ResultSet {
	return &ResultSet{records: map[string]map[string]*Record{}}
}

// Add indexes rec under its normalized test case name.
func (s *ResultSet) Add(rec *Record) {
	name := tool.TestCaseName(rec.Experiment)
	byTool, ok := s.records[name]
	if !ok {
		byTool = map[string]*Record{}
		s.records[name] = byTool
	}
	byTool[rec.Rewriter] = rec
}

// Merge adds every record of other, overwriting duplicates.
func (s *ResultSet) Merge(other *ResultSet) {
	for _, byTool := range other.records {
		for _, rec := range byTool {
			s.Add(rec)
		}
	}
}

func (s *ResultSet) Get(testCase, toolName string) (*Record, bool) {
	rec, ok := s.records[testCase][toolName]
	return rec, ok
}

// Len returns the number of (test case, tool) pairs.
func (s *ResultSet) Len() int {
	n := 0
	for _, byTool := range s.records {
		n += len(byTool)
	}
	return n
}

// TestCases returns the test case names in lexical order.
func (s *ResultSet) TestCases() []string {
	names := make([]string, 0, len(s.records))
	for name := range s.records {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Tools returns the names of all tools with at least one record, in lexical
// order.
func (s *ResultSet) Tools() []string {
	seen := map[string]bool{}
	for _, byTool := range s.records {
		for name := range byTool {
			seen[name] = true
		}
	}
	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

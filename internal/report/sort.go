package report

import (
	"fmt"
	"sort"
	"strings"
)

// SortMode orders the rows of a table by test case name.
type SortMode int

const (
	// Lexical compares names byte by byte: case1, case10, case2.
	Lexical SortMode = iota
	// Human compares digit runs by value: case1, case2, case10.
	Human
)

func ParseSortMode(s string) (SortMode, error) {
	switch s {
	case "", "lexical":
		return Lexical, nil
	case "human":
		return Human, nil
	}
	return 0, fmt.Errorf("unknown sort mode '%s' (expected lexical or human)", s)
}

func (m SortMode) String() string {
	if m == Human {
		return "human"
	}
	return "lexical"
}

// Sort sorts names in place.
func (m SortMode) Sort(names []string) {
	if m == Human {
		sort.SliceStable(names, func(i, j int) bool { return humanLess(names[i], names[j]) })
		return
	}
	sort.Strings(names)
}

// chunks splits s into alternating non-digit and digit runs, starting with a
// (possibly empty) non-digit run.
func chunks(s string) []string {
	var out []string
	start, digits := 0, false
	for i := 0; i < len(s); i++ {
		d := s[i] >= '0' && s[i] <= '9'
		if d != digits {
			out = append(out, s[start:i])
			start, digits = i, d
		}
	}
	return append(out, s[start:])
}

func compareNumeric(a, b string) int {
	ta, tb := strings.TrimLeft(a, "0"), strings.TrimLeft(b, "0")
	if len(ta) != len(tb) {
		if len(ta) < len(tb) {
			return -1
		}
		return 1
	}
	return strings.Compare(ta, tb)
}

func humanLess(a, b string) bool {
	ca, cb := chunks(a), chunks(b)
	for i := 0; i < len(ca) && i < len(cb); i++ {
		var c int
		if i%2 == 1 {
			c = compareNumeric(ca[i], cb[i])
		} else {
			c = strings.Compare(ca[i], cb[i])
		}
		if c != 0 {
			return c < 0
		}
	}
	if len(ca) != len(cb) {
		return len(ca) < len(cb)
	}
	// Equal values such as 7 and 007 still need a total order.
	return a < b
}

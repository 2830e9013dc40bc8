// Package tool describes the rewriting engines the harness knows how to
// drive: their identifiers, how they are invoked and how they report timings.
package tool

import (
	"errors"
	"fmt"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
)

var ErrInvalidToolID = errors.New("invalid tool identifier")

// ID identifies a rewriter. The zero value is not a valid ID.
type ID int

const (
	Innermost ID = iota + 1
	Sabre
	Jitty
	JittyC
)

// Family groups the tools that share a binary.
type Family string

const (
	Merc  Family = "merc"
	MCRL2 Family = "mcrl2"
)

type descriptor struct {
	name      string
	display   string
	family    Family
	binary    string
	extension string
	pattern   *regexp.Regexp
}

var descriptors = map[ID]descriptor{
	Innermost: {
		name:      "innermost",
		display:   "Innermost (s)",
		family:    Merc,
		binary:    "merc-rewrite",
		extension: ".rec",
		pattern:   regexp.MustCompile(`Innermost rewrite took ([0-9]+) ms`),
	},
	Sabre: {
		name:      "sabre",
		display:   "Sabre (s)",
		family:    Merc,
		binary:    "merc-rewrite",
		extension: ".rec",
		pattern:   regexp.MustCompile(`Sabre rewrite took ([0-9]+) ms`),
	},
	Jitty: {
		name:      "jitty",
		display:   "Jitty (s)",
		family:    MCRL2,
		binary:    "mcrl2rewrite",
		extension: ".dataspec",
		pattern:   regexp.MustCompile(`rewriting: ([0-9]+) milliseconds\.`),
	},
	JittyC: {
		name:      "jittyc",
		display:   "JittyC (s)",
		family:    MCRL2,
		binary:    "mcrl2rewrite",
		extension: ".dataspec",
		pattern:   regexp.MustCompile(`rewriting: ([0-9]+) milliseconds\.`),
	},
}

// Parse returns the ID named s. Unknown names are a configuration error.
func Parse(s string) (ID, error) {
	for id, d := range descriptors {
		if d.name == s {
			return id, nil
		}
	}
	return 0, fmt.Errorf("%w '%s' (expected one of %s)", ErrInvalidToolID, s, strings.Join(Names(), ", "))
}

// Names returns the known tool names in lexicographic order.
func Names() []string {
	names := make([]string, 0, len(descriptors))
	for _, d := range descriptors {
		names = append(names, d.name)
	}
	sort.Strings(names)
	return names
}

func (id ID) Valid() bool {
	_, ok := descriptors[id]
	return ok
}

func (id ID) String() string {
	if d, ok := descriptors[id]; ok {
		return d.name
	}
	return fmt.Sprintf("tool(%d)", int(id))
}

// DisplayName is the column header used in typeset tables.
func (id ID) DisplayName() string {
	return descriptors[id].display
}

func (id ID) Family() Family {
	return descriptors[id].family
}

// Binary is the executable name without any platform suffix.
func (id ID) Binary() string {
	return descriptors[id].binary
}

// Extension is the file suffix of the corpus inputs consumed by the tool.
func (id ID) Extension() string {
	return descriptors[id].extension
}

// Pattern matches one line of tool output and captures a duration in
// milliseconds.
func (id ID) Pattern() *regexp.Regexp {
	return descriptors[id].pattern
}

// Args returns the arguments that make the tool rewrite input once.
func (id ID) Args(input string) []string {
	switch id.Family() {
	case MCRL2:
		return []string{"-v", "--timings", "--rewriter=" + id.String(), input, ExpressionsPath(input)}
	default:
		return []string{"rewrite", id.String(), input}
	}
}

// ExpressionsPath returns the file holding the terms to rewrite for an mcrl2
// data specification.
func ExpressionsPath(dataspec string) string {
	return strings.TrimSuffix(dataspec, filepath.Ext(dataspec)) + ".expressions"
}

// ResultsFileName is the default name of the record file written for id when
// the output location is a directory.
func (id ID) ResultsFileName() string {
	return fmt.Sprintf("%s_%s_results.json", id.Family(), id)
}

// LogFileName is the default log file name for a run of id.
func (id ID) LogFileName() string {
	return fmt.Sprintf("%s_benchmark_%s.log", id.Family(), id)
}

var caseSuffixes = []string{".dataspec", ".expressions", ".rec"}

// TestCaseName derives the benchmark name from an input path so that the
// inputs of different tools join on the same name.
func TestCaseName(path string) string {
	name := filepath.Base(path)
	for _, suffix := range caseSuffixes {
		if strings.HasSuffix(name, suffix) {
			return strings.TrimSuffix(name, suffix)
		}
	}
	return name
}

// Package extract pulls timing measurements out of tool output.
package extract

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
)

// Extractor matches output lines against a pattern with a single capture
// group holding a duration in milliseconds.
type Extractor struct {
	pattern *regexp.Regexp
}

func New(pattern *regexp.Regexp) (*Extractor, error) {
	if pattern == nil {
		return nil, errors.New("nil pattern")
	}
	if n := pattern.NumSubexp(); n != 1 {
		return nil, fmt.Errorf("pattern %q must have exactly one capture group, has %d", pattern, n)
	}
	return &Extractor{pattern: pattern}, nil
}

// MustNew is New for patterns known at compile time.
func MustNew(pattern *regexp.Regexp) *Extractor {
	e, err := New(pattern)
	if err != nil {
		panic(err)
	}
	return e
}

// Extract returns every measurement found in lines, in order of appearance.
// A line may contribute more than one measurement.
func (e *Extractor) Extract(lines []string) []float64 {
	var ms []float64
	for _, line := range lines {
		for _, m := range e.pattern.FindAllStringSubmatch(line, -1) {
			v, err := strconv.ParseFloat(m[1], 64)
			if err != nil || v < 0 {
				continue
			}
			ms = append(ms, v)
		}
	}
	return ms
}

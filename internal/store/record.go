// Package store persists benchmark samples as JSON Lines, one record per
// (test case, tool) pair, and loads them back into result sets.
package store

import (
	"encoding/json"
	"errors"
	"fmt"
)

var ErrMalformedRecord = errors.New("malformed record")

// Record holds the timings, in milliseconds, collected for one test case and
// one tool. Records are never modified once written.
type Record struct {
	Experiment string    `json:"experiment"`
	Rewriter   string    `json:"rewriter"`
	Timings    []float64 `json:"timings"`
	RunID      string    `json:"run_id,omitempty"`
	Revision   string    `json:"revision,omitempty"`
}

// UnmarshalJSON also accepts the benchmark_name key written by older
// harness versions.
func (r *Record) UnmarshalJSON(data []byte) error {
	type plain Record
	var aux struct {
		plain
		BenchmarkName string `json:"benchmark_name"`
	}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	*r = Record(aux.plain)
	if r.Experiment == "" {
		r.Experiment = aux.BenchmarkName
	}
	return nil
}

func (r *Record) validate() error {
	if r.Experiment == "" {
		return errors.New("missing experiment name")
	}
	if r.Rewriter == "" {
		return errors.New("missing rewriter")
	}
	for _, v := range r.Timings {
		if v < 0 {
			return fmt.Errorf("negative timing %v", v)
		}
	}
	return nil
}

func parseRecord(line string) (*Record, error) {
	var rec Record
	if err := json.Unmarshal([]byte(line), &rec); err != nil {
		return nil, err
	}
	if err := rec.validate(); err != nil {
		return nil, err
	}
	return &rec, nil
}

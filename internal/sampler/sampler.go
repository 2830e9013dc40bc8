// Package sampler repeats a tool invocation to collect the timings of one
// test case.
package sampler

import (
	"context"
	"time"

	"k8s.io/klog/v2"

	"github.com/antoninbas/rewritebench/internal/extract"
	"github.com/antoninbas/rewritebench/internal/runner"
	"github.com/antoninbas/rewritebench/internal/store"
	"github.com/antoninbas/rewritebench/internal/tool"
)

const (
	DefaultRepetitions = 5
	DefaultTimeout     = 600 * time.Second
)

type Sampler struct {
	Runner    runner.Runner
	Extractor *extract.Extractor
	// Repetitions is the maximum number of runs per test case.
	Repetitions int
	// Timeout is the wall-clock budget of a single run.
	Timeout time.Duration
	// RunID and Revision are copied into every record.
	RunID    string
	Revision string
}

func New(r runner.Runner, id tool.ID) *Sampler {
	return &Sampler{
		Runner:      r,
		Extractor:   extract.MustNew(id.Pattern()),
		Repetitions: DefaultRepetitions,
		Timeout:     DefaultTimeout,
	}
}

// Sample runs cmd up to Repetitions times and returns the record holding every
// timing found in the output.
//
// Sampling of the test case stops early when a run times out, when it cannot
// be started, or when it fails without printing a timing; the timings already
// collected are kept. Timings printed by a run that timed out are discarded.
// A run that printed a timing counts as successful whatever its exit code.
//
// If ctx is cancelled, Sample returns ctx's error and no record.
func (s *Sampler) Sample(ctx context.Context, testCase string, id tool.ID, cmd runner.Command) (*store.Record, error) {
	rec := &store.Record{
		Experiment: testCase,
		Rewriter:   id.String(),
		Timings:    []float64{},
		RunID:      s.RunID,
		Revision:   s.Revision,
	}
	for i := 1; i <= s.Repetitions; i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		res, err := s.Runner.Run(ctx, cmd, s.Timeout)
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		if err != nil {
			klog.Errorf("Benchmark %s crashed in run %d/%d: %v", testCase, i, s.Repetitions, err)
			break
		}
		if klog.V(2).Enabled() {
			for _, line := range res.Lines {
				klog.Info(line)
			}
		}
		if res.Status == runner.TimedOut {
			klog.Errorf("Benchmark %s timed out in run %d/%d: %v", testCase, i, s.Repetitions, res.Err())
			break
		}
		timings := s.Extractor.Extract(res.Lines)
		for _, ms := range timings {
			klog.Infof("Benchmark %s timing %v milliseconds", testCase, ms)
		}
		rec.Timings = append(rec.Timings, timings...)
		if len(timings) == 0 && res.Status == runner.Failed {
			klog.Errorf("Benchmark %s crashed in run %d/%d: %v", testCase, i, s.Repetitions, res.Err())
			break
		}
		if len(timings) == 0 {
			klog.Warningf("Benchmark %s printed no timing in run %d/%d", testCase, i, s.Repetitions)
		}
	}
	return rec, nil
}

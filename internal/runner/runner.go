// Package runner executes external commands under a wall-clock budget and
// captures their output line by line.
package runner

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"
)

var (
	ErrProcessTimeout = errors.New("process timed out")
	ErrProcessFailure = errors.New("process failed")
)

// Status is the outcome of a completed process.
type Status int

const (
	Succeeded Status = iota
	Failed
	TimedOut
)

func (s Status) String() string {
	switch s {
	case Succeeded:
		return "succeeded"
	case Failed:
		return "failed"
	case TimedOut:
		return "timed out"
	}
	return fmt.Sprintf("status(%d)", int(s))
}

type Command struct {
	Path string
	Args []string
	// Dir is the working directory; empty means the current one.
	Dir string
}

func (c Command) String() string {
	return strings.Join(append([]string{c.Path}, c.Args...), " ")
}

// Result holds what a process left behind. Lines contains standard output
// followed by standard error; the relative order of the two streams is lost.
type Result struct {
	Lines    []string
	ExitCode int
	Status   Status
	Duration time.Duration
}

// Err returns nil for a successful run, otherwise an error wrapping
// ErrProcessTimeout or ErrProcessFailure.
func (r *Result) Err() error {
	switch r.Status {
	case TimedOut:
		return fmt.Errorf("%w after %s", ErrProcessTimeout, r.Duration.Round(time.Millisecond))
	case Failed:
		return fmt.Errorf("%w with exit code %d", ErrProcessFailure, r.ExitCode)
	}
	return nil
}

// Runner runs one command to completion. Implementations never retry.
type Runner interface {
	// Run returns an error only if the command could not be started or ctx
	// was cancelled; timeouts and non-zero exits are reported in the Result.
	Run(ctx context.Context, cmd Command, timeout time.Duration) (*Result, error)
}

// Func adapts a function to the Runner interface.
type Func func(ctx context.Context, cmd Command, timeout time.Duration) (*Result, error)

func (f Func) Run(ctx context.Context, cmd Command, timeout time.Duration) (*Result, error) {
	return f(ctx, cmd, timeout)
}

// Exec is the Runner backed by os/exec.
type Exec struct {
	// WaitDelay bounds how long output pipes are drained after the process
	// has been killed. Zero means one second.
	WaitDelay time.Duration
}

func NewExec() *Exec {
	return &Exec{}
}

func (e *Exec) Run(ctx context.Context, command Command, timeout time.Duration) (*Result, error) {
	runCtx := ctx
	if timeout > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(runCtx, command.Path, command.Args...)
	cmd.Dir = command.Dir
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	cmd.WaitDelay = e.WaitDelay
	if cmd.WaitDelay == 0 {
		cmd.WaitDelay = time.Second
	}
	killProcessGroup(cmd)

	start := time.Now()
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("failed to start '%s': %w", command, err)
	}
	waitErr := cmd.Wait()

	result := &Result{
		Lines:    append(splitLines(stdout.Bytes()), splitLines(stderr.Bytes())...),
		Duration: time.Since(start),
	}
	if cmd.ProcessState != nil {
		result.ExitCode = cmd.ProcessState.ExitCode()
	}

	switch {
	case ctx.Err() != nil:
		return result, fmt.Errorf("'%s' interrupted: %w", command, ctx.Err())
	case errors.Is(runCtx.Err(), context.DeadlineExceeded):
		result.Status = TimedOut
	case waitErr != nil:
		var exitErr *exec.ExitError
		if !errors.As(waitErr, &exitErr) && !errors.Is(waitErr, exec.ErrWaitDelay) {
			return result, fmt.Errorf("failed to wait for '%s': %w", command, waitErr)
		}
		if result.ExitCode != 0 {
			result.Status = Failed
		}
	}
	return result, nil
}

func splitLines(b []byte) []string {
	var lines []string
	s := bufio.NewScanner(bytes.NewReader(b))
	s.Buffer(make([]byte, 0, 64*1024), len(b)+1)
	for s.Scan() {
		lines = append(lines, strings.TrimRight(s.Text(), "\r"))
	}
	return lines
}

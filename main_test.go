package main

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/antoninbas/rewritebench/internal/runner"
	"github.com/antoninbas/rewritebench/internal/sampler"
	"github.com/antoninbas/rewritebench/internal/store"
	"github.com/antoninbas/rewritebench/internal/tool"
)

func TestSuiteDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "suite.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
timeout: 5m
tools:
  sabre:
    repetitions: 3
    display: "Sabre (s)"
  jitty:
    timeout: 20m
    version: ">=202407.0.0"
`), 0644))
	suite, err := parseSuite(path)
	require.NoError(t, err)

	flags := &ToolConfiguration{Timeout: "10m", Repetitions: 5}
	testCases := []struct {
		id            tool.ID
		expectTimeout string
		expectReps    int
		expectVersion string
	}{
		{tool.Sabre, "5m", 3, ""},
		{tool.Jitty, "20m", 5, ">=202407.0.0"},
		{tool.Innermost, "5m", 5, ""},
	}
	for _, tCase := range testCases {
		c := suite.forTool(tCase.id, flags)
		assert.Equal(t, tCase.expectTimeout, c.Timeout, tCase.id.String())
		assert.Equal(t, tCase.expectReps, c.Repetitions, tCase.id.String())
		assert.Equal(t, tCase.expectVersion, c.Version, tCase.id.String())
	}
	assert.Equal(t, map[string]string{"sabre": "Sabre (s)"}, suite.displayNames())

	d, err := suite.forTool(tool.Jitty, flags).timeout()
	require.NoError(t, err)
	assert.Equal(t, 20*time.Minute, d)
}

func TestSuiteErrors(t *testing.T) {
	dir := t.TempDir()
	unknownTool := filepath.Join(dir, "unknown.yaml")
	require.NoError(t, os.WriteFile(unknownTool, []byte("tools:\n  aterm: {}\n"), 0644))
	_, err := parseSuite(unknownTool)
	assert.ErrorIs(t, err, tool.ErrInvalidToolID)

	unknownField := filepath.Join(dir, "field.yaml")
	require.NoError(t, os.WriteFile(unknownField, []byte("benchtime: 1s\n"), 0644))
	_, err = parseSuite(unknownField)
	assert.Error(t, err)

	suite, err := parseSuite("")
	require.NoError(t, err)
	assert.Empty(t, suite.Tools)

	_, err = (&ToolConfiguration{Timeout: "soon"}).timeout()
	assert.Error(t, err)
	_, err = (&ToolConfiguration{Timeout: "0s"}).timeout()
	assert.Error(t, err)
}

func TestBenchmark(t *testing.T) {
	var commands []runner.Command
	fake := runner.Func(func(_ context.Context, cmd runner.Command, _ time.Duration) (*runner.Result, error) {
		commands = append(commands, cmd)
		input := cmd.Args[len(cmd.Args)-1]
		switch tool.TestCaseName(input) {
		case "hang":
			return &runner.Result{Status: runner.TimedOut, ExitCode: -1}, nil
		case "crash":
			return &runner.Result{Lines: []string{"thread 'main' panicked"}, Status: runner.Failed, ExitCode: 101}, nil
		}
		return &runner.Result{Lines: []string{fmt.Sprintf("Innermost rewrite took %d ms", 1000*len(commands))}}, nil
	})

	s := sampler.New(fake, tool.Innermost)
	s.Repetitions = 2
	var buf bytes.Buffer
	inputs := []string{"rec/add8.rec", "rec/hang.rec", "rec/crash.rec"}
	n, err := benchmark(context.Background(), s, tool.Innermost, "/bin/merc-rewrite", inputs, store.NewWriter(&buf))
	require.NoError(t, err)
	assert.Equal(t, 3, n)
	assert.Len(t, commands, 4)
	assert.Equal(t, []string{"rewrite", "innermost", "rec/add8.rec"}, commands[0].Args)

	d := store.NewDecoder(&buf)
	expect := map[string][]float64{"add8": {1000, 2000}, "hang": {}, "crash": {}}
	for range inputs {
		rec, err := d.Next()
		require.NoError(t, err)
		assert.Equal(t, "innermost", rec.Rewriter)
		assert.Equal(t, expect[rec.Experiment], rec.Timings, rec.Experiment)
	}
}

func TestBenchmarkInterrupted(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	fake := runner.Func(func(context.Context, runner.Command, time.Duration) (*runner.Result, error) {
		cancel()
		return &runner.Result{Lines: []string{"Sabre rewrite took 5 ms"}}, nil
	})
	var buf bytes.Buffer
	n, err := benchmark(ctx, sampler.New(fake, tool.Sabre), tool.Sabre, "merc-rewrite", []string{"a.rec", "b.rec"}, store.NewWriter(&buf))
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 0, n)
	assert.Empty(t, buf.String())
}

func TestCorpus(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"b.rec", "a.rec", "a.dataspec", "a.expressions", "c.dataspec", "notes.txt"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), nil, 0644))
	}
	require.NoError(t, os.Mkdir(filepath.Join(dir, "d.rec"), 0755))

	inputs, err := corpus(dir, tool.Sabre)
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(dir, "a.rec"), filepath.Join(dir, "b.rec")}, inputs)

	inputs, err = corpus(dir, tool.JittyC)
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(dir, "a.dataspec")}, inputs)

	_, err = corpus(filepath.Join(dir, "missing"), tool.Sabre)
	assert.Error(t, err)
}

func TestRunPreflight(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("PATH", "")
	output := filepath.Join(dir, "out")

	cmd := newRootCommand()
	cmd.SetArgs([]string{"run", dir, "aterm", dir, output})
	assert.ErrorIs(t, cmd.Execute(), tool.ErrInvalidToolID)

	cmd = newRootCommand()
	cmd.SetArgs([]string{"run", dir, "sabre", dir, output})
	assert.ErrorIs(t, cmd.Execute(), tool.ErrBinaryNotFound)

	_, err := os.Stat(output)
	assert.True(t, os.IsNotExist(err), "no output must be created before pre-flight checks pass")
}

func TestTableCommand(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "a.json")
	b := filepath.Join(dir, "b.json")
	require.NoError(t, os.WriteFile(a, []byte(
		`{"experiment":"foo","rewriter":"A","timings":[1000,3000]}`+"\n"+
			`{"experiment":"bar","rewriter":"A","timings":[500]}`+"\n"), 0644))
	require.NoError(t, os.WriteFile(b, []byte(
		`{"experiment":"foo","rewriter":"B","timings":[4000]}`+"\n"), 0644))

	var out bytes.Buffer
	cmd := newRootCommand()
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"table", a, b})
	require.NoError(t, cmd.Execute())

	var rows [][]string
	for _, line := range strings.Split(out.String(), "\n") {
		var cells []string
		for _, c := range strings.Split(line, "|") {
			if c = strings.TrimSpace(c); c != "" {
				cells = append(cells, c)
			}
		}
		if len(cells) == 3 {
			rows = append(rows, cells)
		}
	}
	assert.Equal(t, [][]string{
		{"Benchmark", "A", "B"},
		{"bar", "0.5", "-"},
		{"foo", "2.0", "4.0"},
	}, rows)

	out.Reset()
	cmd = newRootCommand()
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"table", "--format", "latex", "--standalone=false", "--columns", "B,A", dir})
	require.NoError(t, cmd.Execute())
	assert.Contains(t, out.String(), "Benchmark & B & A \\\\\n")
	assert.Contains(t, out.String(), "bar & - & 0.5 \\\\\n")

	bad := filepath.Join(dir, "c.json")
	require.NoError(t, os.WriteFile(bad, []byte("garbage\n"), 0644))
	out.Reset()
	cmd = newRootCommand()
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"table", dir})
	assert.ErrorIs(t, cmd.Execute(), store.ErrMalformedRecord)
	assert.Contains(t, out.String(), "foo")

	cmd = newRootCommand()
	cmd.SetArgs([]string{"table", "--format", "html", a})
	assert.Error(t, cmd.Execute())
}

package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"k8s.io/klog/v2"

	"github.com/antoninbas/rewritebench/internal/runner"
	"github.com/antoninbas/rewritebench/internal/sampler"
	"github.com/antoninbas/rewritebench/internal/source"
	"github.com/antoninbas/rewritebench/internal/store"
	"github.com/antoninbas/rewritebench/internal/tool"
)

const versionTimeout = 30 * time.Second

type runOptions struct {
	flagConfiguration ToolConfiguration
	configPath        string
	appendResults     bool
	sourceDir         string
	build             bool
}

func newRunCommand() *cobra.Command {
	o := &runOptions{}
	cmd := &cobra.Command{
		Use:   "run <tool-dir> <tool> <corpus-dir> <output>",
		Short: "Run one tool over every input of the corpus and record its timings",
		Long: fmt.Sprintf(`Run one tool over every input of the corpus and record its timings.

<tool> is one of: %s.
<output> is a result file, or a directory in which <family>_<tool>_results.json
is created.`, strings.Join(tool.Names(), ", ")),
		Args: cobra.ExactArgs(4),
		RunE: func(cmd *cobra.Command, args []string) error {
			return o.run(cmd.Context(), args[0], args[1], args[2], args[3])
		},
	}
	flags := cmd.Flags()
	flags.StringVar(&o.flagConfiguration.Timeout, "timeout", "10m", "wall-clock budget of a single tool run")
	flags.IntVar(&o.flagConfiguration.Repetitions, "repetitions", sampler.DefaultRepetitions, "maximum number of runs per input")
	flags.StringVar(&o.flagConfiguration.Version, "version-requirement", "", "semver range the tool version must satisfy")
	flags.StringVar(&o.configPath, "config", "", "suite configuration file")
	flags.BoolVar(&o.appendResults, "append", false, "append to the result file instead of truncating it")
	flags.StringVar(&o.sourceDir, "source", "", "git checkout of the tool, used to record its revision and to find target/release")
	flags.BoolVar(&o.build, "build", false, "build merc-rewrite with cargo in the --source checkout first")
	return cmd
}

func (o *runOptions) run(ctx context.Context, toolDir, toolName, corpusDir, output string) error {
	id, err := tool.Parse(toolName)
	if err != nil {
		return err
	}

	suite, err := parseSuite(o.configPath)
	if err != nil {
		return err
	}
	conf := suite.forTool(id, &o.flagConfiguration)
	timeout, err := conf.timeout()
	if err != nil {
		return err
	}
	if conf.Repetitions <= 0 {
		return fmt.Errorf("repetitions must be positive, got %d", conf.Repetitions)
	}

	r := runner.NewExec()
	if o.build {
		if err := o.buildTool(ctx, r, id); err != nil {
			return err
		}
	}

	searchDirs := []string{toolDir}
	if o.sourceDir != "" {
		searchDirs = append(searchDirs, filepath.Join(o.sourceDir, "target", "release"))
	}
	bin, err := tool.Locate(id, searchDirs...)
	if err != nil {
		return err
	}

	if conf.Version != "" {
		if err := checkVersion(ctx, r, bin, conf.Version); err != nil {
			return err
		}
	}

	s := sampler.New(r, id)
	s.Repetitions = conf.Repetitions
	s.Timeout = timeout
	s.RunID = uuid.NewString()
	if o.sourceDir != "" {
		rev, err := source.Open(o.sourceDir)
		if err != nil {
			return err
		}
		if rev.Dirty {
			klog.Warningf("%s has uncommitted changes", o.sourceDir)
		}
		s.Revision = rev.String()
	}

	inputs, err := corpus(corpusDir, id)
	if err != nil {
		return err
	}

	w, err := store.Create(store.ResolvePath(output, id.ResultsFileName()), o.appendResults)
	if err != nil {
		return err
	}
	defer w.Close()
	if err := logToFile(filepath.Join(filepath.Dir(w.Path()), id.LogFileName())); err != nil {
		return err
	}

	klog.Infof("Run %s: %s %s, %d inputs, %d repetitions, timeout %s", s.RunID, bin, id, len(inputs), s.Repetitions, s.Timeout)
	n, err := benchmark(ctx, s, id, bin, inputs, w)
	klog.Infof("Wrote %d records to %s", n, w.Path())
	return err
}

// benchmark samples every input in turn and appends one record per input to
// w. It stops between inputs when ctx is cancelled.
func benchmark(ctx context.Context, s *sampler.Sampler, id tool.ID, bin string, inputs []string, w *store.Writer) (int, error) {
	n := 0
	for _, input := range inputs {
		if err := ctx.Err(); err != nil {
			return n, fmt.Errorf("benchmark interrupted: %w", err)
		}
		name := tool.TestCaseName(input)
		klog.Infof("Benchmarking %s", input)

		rec, err := s.Sample(ctx, name, id, runner.Command{Path: bin, Args: id.Args(input)})
		if err != nil {
			return n, fmt.Errorf("benchmark interrupted during %s: %w", name, err)
		}
		if err := w.Write(rec); err != nil {
			return n, err
		}
		n++
	}
	return n, nil
}

// corpus lists the inputs of id in dir. For mcrl2 tools, inputs without a
// matching .expressions file are skipped.
func corpus(dir string, id tool.ID) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("unable to read the corpus: %w", err)
	}
	var inputs []string
	for _, e := range entries {
		if e.IsDir() || filepath.Ext(e.Name()) != id.Extension() {
			continue
		}
		path := filepath.Join(dir, e.Name())
		if id.Family() == tool.MCRL2 {
			if _, err := os.Stat(tool.ExpressionsPath(path)); err != nil {
				klog.Warningf("Skipping %s: %v", path, err)
				continue
			}
		}
		inputs = append(inputs, path)
	}
	if len(inputs) == 0 {
		klog.Warningf("No %s inputs found in %s", id.Extension(), dir)
	}
	return inputs, nil
}

func (o *runOptions) buildTool(ctx context.Context, r runner.Runner, id tool.ID) error {
	if id.Family() != tool.Merc {
		klog.Warningf("--build is only supported for merc tools, ignoring it for %s", id)
		return nil
	}
	if o.sourceDir == "" {
		return errors.New("--build requires --source")
	}
	cmd := runner.Command{
		Path: "cargo",
		Args: []string{"build", "--profile", "bench", "--bin", id.Binary()},
		Dir:  o.sourceDir,
	}
	klog.Infof("Building %s", id.Binary())
	res, err := r.Run(ctx, cmd, 0)
	if err != nil {
		return err
	}
	if err := res.Err(); err != nil {
		for _, line := range res.Lines {
			klog.Info(line)
		}
		return fmt.Errorf("failed to run '%s': %w", cmd, err)
	}
	return nil
}

func checkVersion(ctx context.Context, r runner.Runner, bin, requirement string) error {
	res, err := r.Run(ctx, runner.Command{Path: bin, Args: []string{"--version"}}, versionTimeout)
	if err != nil {
		return err
	}
	if err := res.Err(); err != nil {
		return fmt.Errorf("failed to query the version of %s: %w", bin, err)
	}
	version := tool.ParseVersion(res.Lines)
	if !tool.VersionRequired(requirement, version) {
		return fmt.Errorf("%w: %s reports '%s', required '%s'", tool.ErrVersionMismatch, bin, version, requirement)
	}
	klog.Infof("%s version %s satisfies %s", bin, version, requirement)
	return nil
}

// logToFile makes klog write to path as well as stderr, unless the user
// already chose a log destination.
func logToFile(path string) error {
	if f := klogFlags.Lookup("log_file"); f == nil || f.Value.String() != "" {
		return nil
	}
	for name, value := range map[string]string{
		"log_file":        path,
		"logtostderr":     "false",
		"alsologtostderr": "true",
	} {
		if err := klogFlags.Set(name, value); err != nil {
			return err
		}
	}
	return nil
}

package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"k8s.io/klog/v2"

	"github.com/antoninbas/rewritebench/internal/report"
	"github.com/antoninbas/rewritebench/internal/store"
)

type tableOptions struct {
	format     string
	sortMode   string
	columns    []string
	standalone bool
	configPath string
}

func newTableCommand() *cobra.Command {
	o := &tableOptions{}
	cmd := &cobra.Command{
		Use:   "table <results>...",
		Short: "Render the mean time per benchmark and tool from result files or directories",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return o.run(cmd.OutOrStdout(), args)
		},
	}
	flags := cmd.Flags()
	flags.StringVar(&o.format, "format", "text", "output format: text or latex")
	flags.StringVar(&o.sortMode, "sort", "lexical", "row order: lexical or human")
	flags.StringSliceVar(&o.columns, "columns", nil, "tools to show, in order (default: all, sorted)")
	flags.BoolVar(&o.standalone, "standalone", true, "wrap latex output in a compilable document")
	flags.StringVar(&o.configPath, "config", "", "suite configuration file providing display names")
	return cmd
}

func (o *tableOptions) run(w io.Writer, paths []string) error {
	if o.format != "text" && o.format != "latex" {
		return fmt.Errorf("unknown format '%s' (expected text or latex)", o.format)
	}
	sortMode, err := report.ParseSortMode(o.sortMode)
	if err != nil {
		return err
	}
	suite, err := parseSuite(o.configPath)
	if err != nil {
		return err
	}

	rs, loadErr := store.Load(paths...)
	if loadErr != nil {
		klog.Errorf("Some results could not be loaded: %v", loadErr)
	}

	t := report.Build(rs, report.Options{
		Columns:      o.columns,
		Sort:         sortMode,
		DisplayNames: suite.displayNames(),
	})
	if o.format == "latex" {
		if err := report.WriteLaTeX(w, t, o.standalone); err != nil {
			return err
		}
	} else {
		report.WriteText(w, t)
	}
	if loadErr != nil {
		return fmt.Errorf("table is incomplete: %w", loadErr)
	}
	return nil
}

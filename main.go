// rewritebench measures term-rewriting engines on the REC corpus and renders
// comparison tables from the recorded timings.
package main

import (
	"context"
	goflag "flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"k8s.io/klog/v2"
)

var klogFlags = goflag.NewFlagSet("klog", goflag.ExitOnError)

func init() {
	klog.InitFlags(klogFlags)
}

func newRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           "rewritebench",
		Short:         "Benchmark term-rewriting engines and tabulate the results",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().AddGoFlagSet(klogFlags)
	root.AddCommand(newRunCommand(), newTableCommand())
	return root
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := newRootCommand().ExecuteContext(ctx)
	stop()
	if err != nil {
		klog.Error(err)
		klog.Flush()
		os.Exit(1)
	}
	klog.Flush()
}

package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"croissant/internal/watcher"
)

var watchCmd = &cobra.Command{
	Use:   "watch <file>",
	Short: "Re-run a batch file whenever it changes",
	Long: `Evaluate a request file, then evaluate it again every time it is written,
until interrupted. Rapid successive writes are coalesced using
watch.debounceMs from the configuration.

Failures in a run are reported and watching continues.

Examples:
  croissant watch requests.txt
  croissant watch requests.yaml --format json`,
	Args: cobra.ExactArgs(1),
	RunE: runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	a := current
	path := args[0]
	out := cmd.OutOrStdout()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	rerun := func() {
		report, err := a.runBatchFile(ctx, path)
		if err != nil {
			if ctx.Err() == nil {
				reportError(cmd.ErrOrStderr(), err)
			}
			return
		}
		if err := a.renderReport(out, report); err != nil {
			a.logger.Error("rendering report", "error", err)
		}
		if err := report.Err(); err != nil {
			a.logger.Warn("batch had failures", "error", err)
		}
	}

	w, err := watcher.New(path, watcher.Config{DebounceMs: a.cfg.Watch.DebounceMs}, a.logger,
		func(string, []watcher.Event) { rerun() })
	if err != nil {
		return err
	}
	defer w.Close()

	rerun()
	fmt.Fprintf(cmd.ErrOrStderr(), "Watching %s (Ctrl-C to stop)\n", w.Path())

	if err := w.Run(ctx); err != nil && err != context.Canceled {
		return err
	}
	return nil
}

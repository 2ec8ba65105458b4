package main

import (
	"context"
	"fmt"
	"io"
	"path/filepath"

	"github.com/spf13/cobra"

	"croissant/internal/batch"
	"croissant/internal/chain"
	"croissant/internal/output"
	"croissant/internal/paths"
)

var batchCmd = &cobra.Command{
	Use:   "batch <file>",
	Short: "Evaluate every request in a file",
	Long: `Evaluate every request in a file and print a report.

Supported files:
  *.json        {"requests": [{"a": 5, "b": 3, "op": "-"}]}
  *.yaml, *.yml the same shape in YAML
  *.toml        [[requests]] tables with a, b and op
  anything else one expression per line; blank lines and # comments skipped

A trailing .gz or .zst suffix is decompressed first. Entries may use
"expr" instead of a, b and op.

Exit status is 1 when any request failed (malformed, division by zero, or
unhandled with --strict).

Examples:
  croissant batch requests.txt
  croissant batch requests.yaml.gz --format json
  croissant batch requests.toml --strict --chain +,-`,
	Args: cobra.ExactArgs(1),
	RunE: runBatch,
}

func init() {
	rootCmd.AddCommand(batchCmd)
}

func runBatch(cmd *cobra.Command, args []string) error {
	report, err := current.runBatchFile(cmd.Context(), args[0])
	if err != nil {
		return err
	}
	if err := current.renderReport(cmd.OutOrStdout(), report); err != nil {
		return err
	}
	return report.Err()
}

// runBatchFile loads path and evaluates it through a fresh chain.
func (a *app) runBatchFile(ctx context.Context, path string) (*batch.Report, error) {
	items, err := batch.LoadFile(path)
	if err != nil {
		return nil, err
	}

	ch, err := a.buildChain(chain.Discard)
	if err != nil {
		return nil, err
	}
	runner, err := batch.NewRunner(ch, batch.Options{
		Strict: a.cfg.Strict,
		Style:  a.cfg.Output.Style,
		Source: a.displayPath(path),
		Logger: a.logger,
	})
	if err != nil {
		return nil, err
	}

	if ctx == nil {
		ctx = context.Background()
	}
	return runner.Run(ctx, items)
}

// displayPath names path relative to the working directory when it lies
// inside it.
func (a *app) displayPath(path string) string {
	abs, err := filepath.Abs(path)
	if err != nil {
		return paths.NormalizePath(path)
	}
	return paths.NormalizePath(paths.Rel(a.workDir, abs))
}

func (a *app) renderReport(w io.Writer, report *batch.Report) error {
	if a.format() == output.FormatHuman {
		st := newStyles(w, useColor(a.cfg.Output.Color, w))
		_, err := fmt.Fprint(w, formatReportHuman(report, st))
		return err
	}
	return output.Write(w, report, a.format())
}

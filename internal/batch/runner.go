package batch

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"croissant/internal/chain"
	"croissant/internal/errors"
	"croissant/internal/slogutil"
)

// Options configures a Runner.
type Options struct {
	// Strict reports requests no handler claimed as failures.
	Strict bool
	// Style selects the result line format ("standard" or "legacy").
	Style string
	// Source names the request file in the report.
	Source string
	Logger *slog.Logger
}

// Runner evaluates items through a chain.
type Runner struct {
	chain  *chain.Chain
	format chain.Formatter
	opts   Options
	logger *slog.Logger

	now   func() time.Time
	newID func() string
}

// NewRunner creates a runner for ch.
func NewRunner(ch *chain.Chain, opts Options) (*Runner, error) {
	format, err := chain.FormatterFor(opts.Style)
	if err != nil {
		return nil, err
	}
	if opts.Style == "" {
		opts.Style = chain.StyleStandard
	}

	logger := opts.Logger
	if logger == nil {
		logger = slogutil.NewDiscardLogger()
	}

	return &Runner{
		chain:  ch,
		format: format,
		opts:   opts,
		logger: logger,
		now:    time.Now,
		newID:  func() string { return uuid.New().String() },
	}, nil
}

// Run evaluates every item in order. It stops early only when ctx is done,
// returning the partial report together with the context error.
func (r *Runner) Run(ctx context.Context, items []Item) (*Report, error) {
	start := r.now()
	report := &Report{
		RunID:     r.newID(),
		Source:    r.opts.Source,
		StartedAt: start.UTC(),
		Chain:     operatorNames(r.chain.Operators()),
		Strict:    r.opts.Strict,
		Style:     r.opts.Style,
	}
	logger := r.logger.With("run_id", report.RunID)
	logger.Debug("batch started", "source", r.opts.Source, "items", len(items))

	for _, item := range items {
		if err := ctx.Err(); err != nil {
			report.DurationMs = r.now().Sub(start).Milliseconds()
			logger.Warn("batch interrupted", "completed", report.Stats.Total, "items", len(items))
			return report, err
		}
		report.add(r.evaluate(item))
	}

	report.DurationMs = r.now().Sub(start).Milliseconds()
	logger.Info("batch complete",
		"total", report.Stats.Total,
		"handled", report.Stats.Handled,
		"unhandled", report.Stats.Unhandled,
		"failed", report.Stats.Failed,
	)
	return report, nil
}

func (r *Runner) evaluate(item Item) Line {
	line := Line{Line: item.Line, Expr: item.Expr}
	if item.Err != nil {
		return failed(line, item.Err)
	}

	res, err := r.chain.Evaluate(item.Request)
	switch {
	case err == nil:
		value := res.Value
		line.Status = StatusHandled
		line.Value = &value
		line.Output = r.format(res)
		return line
	case errors.HasCode(err, errors.UnhandledOperator) && !r.opts.Strict:
		line.Status = StatusUnhandled
		return line
	}
	return failed(line, err)
}

func failed(line Line, err error) Line {
	line.Status = StatusFailed
	line.Code = string(errors.CodeOf(err))
	line.Error = err.Error()
	return line
}

func operatorNames(ops []chain.Operator) []string {
	names := make([]string, len(ops))
	for i, op := range ops {
		names[i] = string(op)
	}
	return names
}

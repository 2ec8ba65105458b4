package main

import (
	"strings"

	"github.com/spf13/cobra"

	"croissant/internal/batch"
	"croissant/internal/chain"
	"croissant/internal/errors"
	"croissant/internal/output"
)

var evalCmd = &cobra.Command{
	Use:   "eval <expression>",
	Short: "Evaluate one request through the chain",
	Long: `Evaluate a single "<a> <op> <b>" request through the configured chain.

The handler that owns the operator prints the result. A request no handler
claims prints nothing, unless --strict is set.

An argument starting with a minus sign and a digit reads as a flag, so put
expressions with negative operands after "--".

Examples:
  croissant eval "5 - 3"               # prints 5-3= 2
  croissant eval 5 - 3 --style legacy  # prints 5+3= 2
  croissant eval "7 * 6" --chain +,-   # dropped, prints nothing
  croissant eval "9 / 0" --format json
  croissant eval -- "-4 - 2"           # prints -4-2= -6
  croissant eval --strict -- 5 - -3    # prints 5--3= 8`,
	Args: cobra.MinimumNArgs(1),
	RunE: runEval,
}

func init() {
	evalCmd.SetFlagErrorFunc(negativeOperandHint)
	rootCmd.AddCommand(evalCmd)
}

// negativeOperandHint turns "unknown shorthand flag: '4' in -4" into an
// INVALID_INPUT error that points at "--".
func negativeOperandHint(cmd *cobra.Command, err error) error {
	const prefix = "unknown shorthand flag: '"
	msg := err.Error()
	if !strings.HasPrefix(msg, prefix) || len(msg) <= len(prefix) {
		return err
	}
	if c := msg[len(prefix)]; c < '0' || c > '9' {
		return err
	}
	return errors.Wrap(errors.InvalidInput,
		`negative operands must follow "--", e.g. croissant eval -- "-4 - 2"`, err)
}

func runEval(cmd *cobra.Command, args []string) error {
	a := current
	expr := strings.Join(args, " ")

	req, err := chain.ParseRequest(expr)
	if err != nil {
		return err
	}

	if a.format() != output.FormatHuman {
		return evalStructured(cmd, a, expr, req)
	}

	formatter, err := chain.FormatterFor(a.cfg.Output.Style)
	if err != nil {
		return err
	}
	ch, err := a.buildChain(chain.WriterSink(cmd.OutOrStdout(), formatter))
	if err != nil {
		return err
	}

	if a.cfg.Strict {
		_, err := ch.Evaluate(req)
		return err
	}

	handled, err := ch.Handle(req)
	if err != nil {
		return err
	}
	if !handled {
		a.logger.Info("request dropped", "request", req.String(), "chain", ch.String())
	}
	return nil
}

// evalStructured runs the request as a one-line batch so machine formats get
// the same shape as batch reports.
func evalStructured(cmd *cobra.Command, a *app, expr string, req chain.Request) error {
	ch, err := a.buildChain(chain.Discard)
	if err != nil {
		return err
	}
	runner, err := batch.NewRunner(ch, batch.Options{
		Strict: a.cfg.Strict,
		Style:  a.cfg.Output.Style,
		Logger: a.logger,
	})
	if err != nil {
		return err
	}

	report, err := runner.Run(cmd.Context(), []batch.Item{{Line: 1, Expr: expr, Request: req}})
	if err != nil {
		return errors.Wrap(errors.InternalError, "evaluating request", err)
	}
	if err := output.Write(cmd.OutOrStdout(), report, a.format()); err != nil {
		return err
	}
	return report.Err()
}

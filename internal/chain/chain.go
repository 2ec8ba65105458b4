package chain

import (
	"log/slog"
	"strings"

	"croissant/internal/errors"
	"croissant/internal/slogutil"
)

// Builder assembles handlers into a linear chain. Operators are linked in
// the order they were added; the first one added becomes the head.
type Builder struct {
	sink   Sink
	ops    []Operator
	logger *slog.Logger
}

// NewBuilder creates a builder whose handlers emit to sink.
func NewBuilder(sink Sink) *Builder {
	return &Builder{sink: sink}
}

// Use appends operators to the chain.
func (b *Builder) Use(ops ...Operator) *Builder {
	b.ops = append(b.ops, ops...)
	return b
}

// WithLogger sets the logger every handler reports its hops to.
func (b *Builder) WithLogger(logger *slog.Logger) *Builder {
	b.logger = logger
	return b
}

// Build links the handlers. Linking from the tail fixes every successor at
// construction, so the chain is acyclic and never changes afterwards.
func (b *Builder) Build() (*Chain, error) {
	logger := b.logger
	if logger == nil {
		logger = slogutil.NewDiscardLogger()
	}

	ops := append([]Operator(nil), b.ops...)
	var next Handler
	for i := len(ops) - 1; i >= 0; i-- {
		v, err := newVariant(ops[i], b.sink, next)
		if err != nil {
			return nil, err
		}
		v.core().logger = logger
		next = v
	}

	return &Chain{head: next, ops: ops, sink: b.sink}, nil
}

// Build is shorthand for NewBuilder(sink).Use(ops...).Build().
func Build(sink Sink, ops ...Operator) (*Chain, error) {
	return NewBuilder(sink).Use(ops...).Build()
}

// Chain is an assembled, immutable handler chain.
type Chain struct {
	head Handler
	ops  []Operator
	sink Sink
}

// Handle dispatches req to the head of the chain. An empty chain drops every
// request.
func (c *Chain) Handle(req Request) (bool, error) {
	if c == nil || c.head == nil {
		return false, nil
	}
	return c.head.Handle(req)
}

// Evaluate dispatches req and returns the emitted result. Unlike Handle it
// treats an unclaimed request as an UNHANDLED_OPERATOR error. The chain's own
// sink still receives the result.
func (c *Chain) Evaluate(req Request) (Result, error) {
	var got *Result
	capture := func(r Result) { got = &r }

	var (
		handled bool
		err     error
	)
	if c != nil {
		if head, ok := c.head.(variant); ok {
			handled, err = head.core().dispatch(req, Tee(c.sink, capture))
		}
	}
	if err != nil {
		return Result{}, err
	}
	if !handled || got == nil {
		return Result{}, errors.Newf(errors.UnhandledOperator, "no handler in chain [%s] for %q", c.String(), string(req.Operator())).
			WithDetails(map[string]interface{}{"request": req.String()})
	}
	return *got, nil
}

// Len returns the number of handlers.
func (c *Chain) Len() int {
	if c == nil {
		return 0
	}
	return len(c.ops)
}

// Operators returns the handler symbols in dispatch order.
func (c *Chain) Operators() []Operator {
	if c == nil {
		return nil
	}
	return append([]Operator(nil), c.ops...)
}

// Handles reports whether some handler in the chain owns op.
func (c *Chain) Handles(op Operator) bool {
	for _, o := range c.Operators() {
		if o == op {
			return true
		}
	}
	return false
}

// String renders the dispatch order, e.g. "+ - * /".
func (c *Chain) String() string {
	ops := c.Operators()
	parts := make([]string, len(ops))
	for i, op := range ops {
		parts[i] = string(op)
	}
	return strings.Join(parts, " ")
}

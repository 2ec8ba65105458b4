package chain

import (
	"log/slog"

	"croissant/internal/errors"
	"croissant/internal/slogutil"
)

// Handler processes a request or forwards it to its successor.
//
// Handle reports whether some handler in the chain claimed the request.
// An unclaimed request returns (false, nil) and produces no output.
type Handler interface {
	Handle(req Request) (bool, error)
}

// operatorHandler is the shared implementation behind every variant: it owns
// one operator symbol and an exclusive link to the next handler.
type operatorHandler struct {
	name   string
	op     Operator
	apply  func(a, b int) (int, error)
	sink   Sink
	next   Handler
	logger *slog.Logger
}

// Handle computes and emits the result when the operator matches,
// otherwise forwards the request unchanged.
func (h *operatorHandler) Handle(req Request) (bool, error) {
	return h.dispatch(req, h.sink)
}

// dispatch is Handle with the sink chosen per call. Successors built by this
// package receive the same sink; foreign handlers are reached via Handle.
func (h *operatorHandler) dispatch(req Request, emit Sink) (bool, error) {
	if req.Operator() != h.op {
		switch next := h.next.(type) {
		case nil:
			h.logger.Debug("request dropped", "handler", h.name, "request", req.String())
			return false, nil
		case variant:
			h.logger.Debug("forwarding request", "handler", h.name, "request", req.String())
			return next.core().dispatch(req, emit)
		default:
			h.logger.Debug("forwarding request", "handler", h.name, "request", req.String())
			return next.Handle(req)
		}
	}

	value, err := h.apply(req.A(), req.B())
	if err != nil {
		h.logger.Debug("request failed", "handler", h.name, "request", req.String(), "error", err.Error())
		return true, err
	}

	h.logger.Debug("request handled", "handler", h.name, "request", req.String(), "result", value)
	if emit != nil {
		emit(Result{Request: req, Value: value})
	}
	return true, nil
}

// Operator returns the symbol this handler is responsible for.
func (h *operatorHandler) Operator() Operator { return h.op }

// Name returns the handler's variant name, e.g. "SubtractHandler".
func (h *operatorHandler) Name() string { return h.name }

func newOperatorHandler(name string, op Operator, apply func(a, b int) (int, error), sink Sink, next Handler) *operatorHandler {
	return &operatorHandler{
		name:   name,
		op:     op,
		apply:  apply,
		sink:   sink,
		next:   next,
		logger: slogutil.NewDiscardLogger(),
	}
}

// AddHandler handles "+".
type AddHandler struct{ *operatorHandler }

// SubtractHandler handles "-".
type SubtractHandler struct{ *operatorHandler }

// MultiplyHandler handles "*".
type MultiplyHandler struct{ *operatorHandler }

// DivideHandler handles "/". Division truncates toward zero; a zero divisor
// fails with DIVISION_BY_ZERO and emits nothing.
type DivideHandler struct{ *operatorHandler }

// NewAddHandler creates an AddHandler that forwards to next.
func NewAddHandler(sink Sink, next Handler) *AddHandler {
	return &AddHandler{newOperatorHandler("AddHandler", Add, func(a, b int) (int, error) {
		return a + b, nil
	}, sink, next)}
}

// NewSubtractHandler creates a SubtractHandler that forwards to next.
func NewSubtractHandler(sink Sink, next Handler) *SubtractHandler {
	return &SubtractHandler{newOperatorHandler("SubtractHandler", Subtract, func(a, b int) (int, error) {
		return a - b, nil
	}, sink, next)}
}

// NewMultiplyHandler creates a MultiplyHandler that forwards to next.
func NewMultiplyHandler(sink Sink, next Handler) *MultiplyHandler {
	return &MultiplyHandler{newOperatorHandler("MultiplyHandler", Multiply, func(a, b int) (int, error) {
		return a * b, nil
	}, sink, next)}
}

// NewDivideHandler creates a DivideHandler that forwards to next.
func NewDivideHandler(sink Sink, next Handler) *DivideHandler {
	return &DivideHandler{newOperatorHandler("DivideHandler", Divide, func(a, b int) (int, error) {
		if b == 0 {
			return 0, errors.Newf(errors.DivisionByZero, "%d / %d", a, b)
		}
		return a / b, nil
	}, sink, next)}
}

// NewHandler is the factory method for handler variants.
func NewHandler(op Operator, sink Sink, next Handler) (Handler, error) {
	h, err := newVariant(op, sink, next)
	if err != nil {
		return nil, err
	}
	return h, nil
}

// variant is a concrete handler that exposes its shared core.
type variant interface {
	Handler
	core() *operatorHandler
}

func newVariant(op Operator, sink Sink, next Handler) (variant, error) {
	switch op {
	case Add:
		return NewAddHandler(sink, next), nil
	case Subtract:
		return NewSubtractHandler(sink, next), nil
	case Multiply:
		return NewMultiplyHandler(sink, next), nil
	case Divide:
		return NewDivideHandler(sink, next), nil
	default:
		return nil, errors.Newf(errors.InvalidOperator, "no handler for operator %q", string(op))
	}
}

func (h *operatorHandler) core() *operatorHandler { return h }

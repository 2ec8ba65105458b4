// Package chain implements a chain of responsibility over integer arithmetic
// requests. Each handler owns one operator symbol; a request enters at the
// head and is forwarded unchanged until a handler claims it or the chain ends.
package chain

import (
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	"croissant/internal/errors"
)

// Operator is an arithmetic operator symbol.
type Operator string

const (
	Add      Operator = "+"
	Subtract Operator = "-"
	Multiply Operator = "*"
	Divide   Operator = "/"
)

// Operators returns the known operators in their default chain order.
func Operators() []Operator {
	return []Operator{Add, Subtract, Multiply, Divide}
}

// Valid reports whether op is one of the known symbols.
func (op Operator) Valid() bool {
	switch op {
	case Add, Subtract, Multiply, Divide:
		return true
	default:
		return false
	}
}

// ParseOperator converts a symbol to an Operator.
func ParseOperator(s string) (Operator, error) {
	op := Operator(strings.TrimSpace(s))
	if !op.Valid() {
		return "", errors.Newf(errors.InvalidOperator, "operator %q is not one of + - * /", s)
	}
	return op, nil
}

// Request is an immutable pair of operands and an operator.
type Request struct {
	a  int
	b  int
	op Operator
}

// NewRequest validates op and returns a Request.
func NewRequest(a, b int, op Operator) (Request, error) {
	if !op.Valid() {
		return Request{}, errors.Newf(errors.InvalidOperator, "operator %q is not one of + - * /", string(op))
	}
	return Request{a: a, b: b, op: op}, nil
}

// ParseRequest parses an infix expression such as "5 - 3" or "5*3".
// Operands may carry a sign: "-4 - -2" is 4 subtracted by -2.
func ParseRequest(expr string) (Request, error) {
	s := strings.TrimSpace(expr)
	if s == "" {
		return Request{}, errors.New(errors.InvalidInput, "empty expression")
	}

	// The operator is the first symbol after the left operand, so skip a
	// leading sign and the digits that follow it.
	i := 0
	if s[0] == '+' || s[0] == '-' {
		i++
	}
	for i < len(s) && s[i] >= '0' && s[i] <= '9' {
		i++
	}
	left := strings.TrimSpace(s[:i])
	rest := strings.TrimSpace(s[i:])
	if left == "" || rest == "" {
		return Request{}, errors.Newf(errors.InvalidInput, "expression %q is not of the form <a> <op> <b>", expr)
	}

	a, err := strconv.Atoi(left)
	if err != nil {
		return Request{}, errors.Wrap(errors.InvalidInput, fmt.Sprintf("left operand %q", left), err)
	}

	sym, size := utf8.DecodeRuneInString(rest)
	op, err := ParseOperator(string(sym))
	if err != nil {
		return Request{}, err
	}

	right := strings.TrimSpace(rest[size:])
	b, err := strconv.Atoi(right)
	if err != nil {
		return Request{}, errors.Wrap(errors.InvalidInput, fmt.Sprintf("right operand %q", right), err)
	}

	return Request{a: a, b: b, op: op}, nil
}

// A returns the left operand.
func (r Request) A() int { return r.a }

// B returns the right operand.
func (r Request) B() int { return r.b }

// Operator returns the operator symbol.
func (r Request) Operator() Operator { return r.op }

// String renders the request as "a op b".
func (r Request) String() string {
	return fmt.Sprintf("%d %s %d", r.a, r.op, r.b)
}

// Result is what a handler emits after computing a request.
type Result struct {
	Request Request
	Value   int
}

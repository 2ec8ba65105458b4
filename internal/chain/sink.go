package chain

import (
	"fmt"
	"io"
	"sync"

	"croissant/internal/errors"
)

// Sink receives the result of every request a handler claims.
type Sink func(Result)

// Discard is a Sink that drops results.
func Discard(Result) {}

// Formatter renders a result as one line of text.
type Formatter func(Result) string

// StandardFormat renders "<a><op><b>= <result>", e.g. "5-3= 2".
func StandardFormat(r Result) string {
	return fmt.Sprintf("%d%s%d= %d", r.Request.A(), r.Request.Operator(), r.Request.B(), r.Value)
}

// LegacyFormat reproduces the original exercise output, where subtraction
// was printed with a "+" separator ("5+3= 2").
func LegacyFormat(r Result) string {
	sep := string(r.Request.Operator())
	if r.Request.Operator() == Subtract {
		sep = "+"
	}
	return fmt.Sprintf("%d%s%d= %d", r.Request.A(), sep, r.Request.B(), r.Value)
}

// Output styles accepted by FormatterFor.
const (
	StyleStandard = "standard"
	StyleLegacy   = "legacy"
)

// FormatterFor returns the formatter for a named style.
func FormatterFor(style string) (Formatter, error) {
	switch style {
	case "", StyleStandard:
		return StandardFormat, nil
	case StyleLegacy:
		return LegacyFormat, nil
	default:
		return nil, errors.Newf(errors.ConfigInvalid, "unknown output style %q (want %s or %s)", style, StyleStandard, StyleLegacy)
	}
}

// WriterSink writes each result to w as a formatted line.
func WriterSink(w io.Writer, format Formatter) Sink {
	if format == nil {
		format = StandardFormat
	}
	return func(r Result) {
		_, _ = fmt.Fprintln(w, format(r))
	}
}

// Collector records results in the order they were emitted.
type Collector struct {
	mu      sync.Mutex
	results []Result
}

// Sink returns a Sink that appends to the collector.
func (c *Collector) Sink() Sink {
	return func(r Result) {
		c.mu.Lock()
		defer c.mu.Unlock()
		c.results = append(c.results, r)
	}
}

// Results returns a copy of the recorded results.
func (c *Collector) Results() []Result {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]Result(nil), c.results...)
}

// Len returns the number of recorded results.
func (c *Collector) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.results)
}

// Reset drops all recorded results.
func (c *Collector) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.results = nil
}

// Tee fans a result out to every sink in order.
func Tee(sinks ...Sink) Sink {
	return func(r Result) {
		for _, s := range sinks {
			if s != nil {
				s(r)
			}
		}
	}
}

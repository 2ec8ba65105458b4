package chain

import (
	"bytes"
	"testing"

	"pgregory.net/rapid"
)

func operatorGen() *rapid.Generator[Operator] {
	return rapid.SampledFrom(Operators())
}

// TestSubtract_Property proves any "-" request emits a-b.
func TestSubtract_Property(t *testing.T) {
	t.Parallel()

	rapid.Check(t, func(rt *rapid.T) {
		a := rapid.IntRange(-1_000_000, 1_000_000).Draw(rt, "a")
		b := rapid.IntRange(-1_000_000, 1_000_000).Draw(rt, "b")

		var c Collector
		ch, err := Build(c.Sink(), Operators()...)
		if err != nil {
			rt.Fatalf("Build: %v", err)
		}

		req, _ := NewRequest(a, b, Subtract)
		if _, err := ch.Handle(req); err != nil {
			rt.Fatalf("Handle: %v", err)
		}

		results := c.Results()
		if len(results) != 1 || results[0].Value != a-b {
			rt.Fatalf("results = %+v, want one result %d", results, a-b)
		}
	})
}

// TestUnmatched_Property proves a request whose operator is absent from the
// chain is dropped without output or error.
func TestUnmatched_Property(t *testing.T) {
	t.Parallel()

	rapid.Check(t, func(rt *rapid.T) {
		missing := operatorGen().Draw(rt, "missing")

		var others []Operator
		for _, op := range Operators() {
			if op != missing {
				others = append(others, op)
			}
		}
		ops := rapid.SliceOf(rapid.SampledFrom(others)).Draw(rt, "ops")

		var out bytes.Buffer
		ch, err := Build(WriterSink(&out, StandardFormat), ops...)
		if err != nil {
			rt.Fatalf("Build: %v", err)
		}

		req, _ := NewRequest(rapid.Int().Draw(rt, "a"), rapid.Int().Draw(rt, "b"), missing)
		handled, err := ch.Handle(req)
		if err != nil || handled || out.Len() != 0 {
			rt.Fatalf("Handle = (%v, %v) output %q, want dropped", handled, err, out.String())
		}
	})
}

// TestOrderIndependence_Property proves the emitted output does not depend on
// where the single matching handler sits.
func TestOrderIndependence_Property(t *testing.T) {
	t.Parallel()

	rapid.Check(t, func(rt *rapid.T) {
		ops := rapid.Permutation(Operators()).Draw(rt, "ops")
		op := operatorGen().Draw(rt, "op")
		a := rapid.IntRange(-10_000, 10_000).Draw(rt, "a")
		b := rapid.IntRange(1, 10_000).Draw(rt, "b")
		req, _ := NewRequest(a, b, op)

		var ordered, shuffled bytes.Buffer
		base, _ := Build(WriterSink(&ordered, StandardFormat), Operators()...)
		perm, _ := Build(WriterSink(&shuffled, StandardFormat), ops...)

		if _, err := base.Handle(req); err != nil {
			rt.Fatalf("base Handle: %v", err)
		}
		if _, err := perm.Handle(req); err != nil {
			rt.Fatalf("permuted Handle: %v", err)
		}

		if ordered.String() != shuffled.String() {
			rt.Fatalf("output %q differs from %q for order %v", shuffled.String(), ordered.String(), ops)
		}
	})
}

// TestIdempotence_Property proves handling the same request twice produces
// the same output both times.
func TestIdempotence_Property(t *testing.T) {
	t.Parallel()

	rapid.Check(t, func(rt *rapid.T) {
		ops := rapid.SliceOf(operatorGen()).Draw(rt, "ops")
		op := operatorGen().Draw(rt, "op")
		a := rapid.IntRange(-10_000, 10_000).Draw(rt, "a")
		b := rapid.IntRange(-10_000, 10_000).Draw(rt, "b")
		req, _ := NewRequest(a, b, op)

		var out bytes.Buffer
		ch, _ := Build(WriterSink(&out, StandardFormat), ops...)

		h1, err1 := ch.Handle(req)
		first := out.String()
		out.Reset()
		h2, err2 := ch.Handle(req)
		second := out.String()

		if h1 != h2 || (err1 == nil) != (err2 == nil) || first != second {
			rt.Fatalf("second call (%v, %v, %q) differs from first (%v, %v, %q)", h2, err2, second, h1, err1, first)
		}
	})
}

// TestSingleEmission_Property proves at most one handler emits for a request,
// and only when the chain owns its operator.
func TestSingleEmission_Property(t *testing.T) {
	t.Parallel()

	rapid.Check(t, func(rt *rapid.T) {
		ops := rapid.SliceOf(operatorGen()).Draw(rt, "ops")
		op := operatorGen().Draw(rt, "op")
		req, _ := NewRequest(1, 1, op)

		var c Collector
		ch, _ := Build(c.Sink(), ops...)
		if _, err := ch.Handle(req); err != nil {
			rt.Fatalf("Handle: %v", err)
		}

		if c.Len() > 1 {
			rt.Fatalf("request emitted %d results, want at most one", c.Len())
		}
		if (c.Len() == 1) != ch.Handles(op) {
			rt.Fatalf("emitted %d results but Handles(%s) = %v", c.Len(), op, ch.Handles(op))
		}
	})
}

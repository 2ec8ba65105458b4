// Package morse prints text as Morse code. What a dot or a dash looks like
// is decided by a Signal, so the same Printer can write symbols, syllables
// or anything else a Signal chooses to emit.
package morse

import (
	"io"
	"strings"

	"croissant/internal/errors"
)

// Signal renders the four Morse primitives.
type Signal interface {
	Dot() error
	Dash() error
	// Space ends a letter.
	Space() error
	// WordGap separates words.
	WordGap() error
}

// Signal names accepted by SignalFor.
const (
	SignalText  = "text"
	SignalVoice = "voice"
)

type writerSignal struct {
	w                         io.Writer
	dot, dash, space, wordGap string
}

func (s *writerSignal) write(text string) error {
	if _, err := io.WriteString(s.w, text); err != nil {
		return errors.Wrap(errors.InternalError, "writing morse signal", err)
	}
	return nil
}

func (s *writerSignal) Dot() error     { return s.write(s.dot) }
func (s *writerSignal) Dash() error    { return s.write(s.dash) }
func (s *writerSignal) Space() error   { return s.write(s.space) }
func (s *writerSignal) WordGap() error { return s.write(s.wordGap) }

// TextSignal writes the conventional ".", "-" notation.
type TextSignal struct{ writerSignal }

// NewTextSignal creates a TextSignal writing to w.
func NewTextSignal(w io.Writer) *TextSignal {
	return &TextSignal{writerSignal{w: w, dot: ".", dash: "-", space: " ", wordGap: "/ "}}
}

// VoiceSignal writes the spoken "di"/"dah" form.
type VoiceSignal struct{ writerSignal }

// NewVoiceSignal creates a VoiceSignal writing to w.
func NewVoiceSignal(w io.Writer) *VoiceSignal {
	return &VoiceSignal{writerSignal{w: w, dot: "di", dash: "dah", space: " ", wordGap: "| "}}
}

// SignalFor returns the named signal writing to w.
func SignalFor(name string, w io.Writer) (Signal, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", SignalText:
		return NewTextSignal(w), nil
	case SignalVoice:
		return NewVoiceSignal(w), nil
	}
	return nil, errors.Newf(errors.InvalidInput, "unknown morse signal %q (want text or voice)", name)
}

// Signals lists the names SignalFor accepts.
func Signals() []string {
	return []string{SignalText, SignalVoice}
}

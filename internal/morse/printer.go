package morse

import (
	"fmt"
	"unicode"

	"croissant/internal/errors"
)

var codes = map[rune]string{
	'A': ".-", 'B': "-...", 'C': "-.-.", 'D': "-..", 'E': ".",
	'F': "..-.", 'G': "--.", 'H': "....", 'I': "..", 'J': ".---",
	'K': "-.-", 'L': ".-..", 'M': "--", 'N': "-.", 'O': "---",
	'P': ".--.", 'Q': "--.-", 'R': ".-.", 'S': "...", 'T': "-",
	'U': "..-", 'V': "...-", 'W': ".--", 'X': "-..-", 'Y': "-.--",
	'Z': "--..",

	'0': "-----", '1': ".----", '2': "..---", '3': "...--", '4': "....-",
	'5': ".....", '6': "-....", '7': "--...", '8': "---..", '9': "----.",

	'.': ".-.-.-", ',': "--..--", '?': "..--..", '/': "-..-.",
}

// Encode returns the dot/dash pattern for r. Letters are case-insensitive.
func Encode(r rune) (string, bool) {
	code, ok := codes[unicode.ToUpper(r)]
	return code, ok
}

// Printer spells text through a Signal.
type Printer struct {
	signal Signal
}

// NewPrinter creates a printer emitting through signal.
func NewPrinter(signal Signal) *Printer {
	return &Printer{signal: signal}
}

// Encode returns the dot/dash pattern for r.
func (p *Printer) Encode(r rune) (string, bool) {
	return Encode(r)
}

// Letter emits one rune followed by a letter gap. A space emits a word gap.
// A rune without a code emits nothing.
func (p *Printer) Letter(r rune) error {
	if r == ' ' {
		return p.signal.WordGap()
	}

	code, ok := Encode(r)
	if !ok {
		return errors.Newf(errors.UnsupportedCharacter, "no morse code for %q", r).
			WithDetails(map[string]interface{}{"rune": fmt.Sprintf("%U", r)})
	}

	for _, sym := range code {
		var err error
		if sym == '.' {
			err = p.signal.Dot()
		} else {
			err = p.signal.Dash()
		}
		if err != nil {
			return err
		}
	}
	return p.signal.Space()
}

// Print emits every rune of text in order and stops at the first rune that
// cannot be encoded.
func (p *Printer) Print(text string) error {
	for i, r := range text {
		if err := p.Letter(r); err != nil {
			if errors.HasCode(err, errors.UnsupportedCharacter) {
				return errors.Wrap(errors.UnsupportedCharacter, fmt.Sprintf("printing %q at byte %d", text, i), err)
			}
			return err
		}
	}
	return nil
}

// Package weapon separates what a fighter does from the weapon doing it.
// A Fighter only knows the Weapon interface, so weapons can be swapped at
// runtime without touching the fighter.
package weapon

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"croissant/internal/errors"
)

// Weapon is the implementation side: every weapon knows how to attack and
// how to be repaired.
type Weapon interface {
	Name() string
	Attack() error
	Repair() error
}

type armament struct {
	name string
	out  io.Writer
}

func (a *armament) Name() string { return a.name }

func (a *armament) Attack() error { return a.say("attack") }

func (a *armament) Repair() error { return a.say("repair") }

func (a *armament) say(action string) error {
	if _, err := fmt.Fprintf(a.out, "(%s) %s\n", a.name, action); err != nil {
		return errors.Wrap(errors.InternalError, "writing weapon action", err)
	}
	return nil
}

// Sword is a melee weapon.
type Sword struct{ armament }

// NewSword creates a sword reporting to out.
func NewSword(out io.Writer) *Sword { return &Sword{armament{name: "Sword", out: out}} }

// Bow is a ranged weapon.
type Bow struct{ armament }

// NewBow creates a bow reporting to out.
func NewBow(out io.Writer) *Bow { return &Bow{armament{name: "Bow", out: out}} }

// Axe is a heavy melee weapon.
type Axe struct{ armament }

// NewAxe creates an axe reporting to out.
func NewAxe(out io.Writer) *Axe { return &Axe{armament{name: "Axe", out: out}} }

var registry = map[string]func(io.Writer) Weapon{
	"sword": func(w io.Writer) Weapon { return NewSword(w) },
	"bow":   func(w io.Writer) Weapon { return NewBow(w) },
	"axe":   func(w io.Writer) Weapon { return NewAxe(w) },
}

// Names lists the weapons NewWeapon knows, sorted.
func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// NewWeapon creates the named weapon (case-insensitive).
func NewWeapon(name string, out io.Writer) (Weapon, error) {
	ctor, ok := registry[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return nil, errors.Newf(errors.UnknownWeapon, "unknown weapon %q (known: %s)", name, strings.Join(Names(), ", "))
	}
	return ctor(out), nil
}

package weapon

import (
	"strings"

	"croissant/internal/errors"
)

// Action is something a fighter can do with its weapon.
type Action string

const (
	ActionAttack Action = "attack"
	ActionRepair Action = "repair"
)

// ParseAction resolves an action name.
func ParseAction(s string) (Action, error) {
	switch a := Action(strings.ToLower(strings.TrimSpace(s))); a {
	case ActionAttack, ActionRepair:
		return a, nil
	}
	return "", errors.Newf(errors.InvalidInput, "unknown action %q (want attack or repair)", s)
}

// Fighter is the abstraction side: it delegates every action to whatever
// weapon it currently holds.
type Fighter struct {
	weapon Weapon
}

// NewFighter creates a fighter holding w.
func NewFighter(w Weapon) *Fighter {
	return &Fighter{weapon: w}
}

// Weapon returns the weapon currently held.
func (f *Fighter) Weapon() Weapon {
	return f.weapon
}

// Equip swaps the held weapon.
func (f *Fighter) Equip(w Weapon) {
	f.weapon = w
}

// Attack attacks with the held weapon.
func (f *Fighter) Attack() error {
	if err := f.armed(); err != nil {
		return err
	}
	return f.weapon.Attack()
}

// Repair repairs the held weapon.
func (f *Fighter) Repair() error {
	if err := f.armed(); err != nil {
		return err
	}
	return f.weapon.Repair()
}

// Perform runs actions in order and stops at the first failure.
func (f *Fighter) Perform(actions ...Action) error {
	for _, a := range actions {
		var err error
		switch a {
		case ActionAttack:
			err = f.Attack()
		case ActionRepair:
			err = f.Repair()
		default:
			err = errors.Newf(errors.InvalidInput, "unknown action %q", string(a))
		}
		if err != nil {
			return err
		}
	}
	return nil
}

func (f *Fighter) armed() error {
	if f.weapon == nil {
		return errors.New(errors.UnknownWeapon, "fighter holds no weapon")
	}
	return nil
}

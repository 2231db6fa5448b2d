package inventory

import (
	"errors"
	"fmt"
)

// MaxSpellPower is the largest spell power a valid weapon may carry.
const MaxSpellPower = 1<<31 - 1

// Weapon is an equippable item that modifies attack damage.
//
// Invariant: a weapon with zero SpellPower still adds its material bonus to melee damage.
type Weapon struct {
	Material   Material `json:"material" yaml:"material"`
	SpellPower int      `json:"spell_power" yaml:"spell_power"`
}

// NewWeapon returns a weapon of the given material and spell power.
func NewWeapon(material Material, spellPower int) *Weapon {
	return &Weapon{Material: material, SpellPower: spellPower}
}

// BonusDamage returns the physical damage the weapon adds to a melee attack.
// A nil weapon contributes nothing.
//
// Postcondition: Returns Material.Bonus(), or 0 for a nil receiver.
func (w *Weapon) BonusDamage() int {
	if w == nil {
		return 0
	}
	return w.Material.Bonus()
}

// BonusSpellDamage returns the spell power the weapon lends to magic attacks.
// A nil weapon contributes nothing.
//
// Postcondition: Returns SpellPower, or 0 for a nil receiver.
func (w *Weapon) BonusSpellDamage() int {
	if w == nil {
		return 0
	}
	return w.SpellPower
}

// Clone returns a deep copy of w; nil stays nil.
func (w *Weapon) Clone() *Weapon {
	if w == nil {
		return nil
	}
	cp := *w
	return &cp
}

// Validate checks that the Weapon satisfies its invariants.
//
// Postcondition: returns nil iff the material is known and SpellPower is in [0, MaxSpellPower].
func (w *Weapon) Validate() error {
	var errs []error
	if !w.Material.Valid() {
		errs = append(errs, fmt.Errorf("material %d is not valid", int(w.Material)))
	}
	if w.SpellPower < 0 || w.SpellPower > MaxSpellPower {
		errs = append(errs, fmt.Errorf("spell_power must be in [0, %d], got %d", MaxSpellPower, w.SpellPower))
	}
	if len(errs) > 0 {
		return fmt.Errorf("weapon validation failed: %w", errors.Join(errs...))
	}
	return nil
}

// String returns a short description such as "Iron weapon (spell power 4)".
func (w *Weapon) String() string {
	if w == nil {
		return "bare hands"
	}
	if w.SpellPower == 0 {
		return fmt.Sprintf("%s weapon", w.Material)
	}
	return fmt.Sprintf("%s weapon (spell power %d)", w.Material, w.SpellPower)
}

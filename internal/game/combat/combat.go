// Package combat implements the attack resolution model for duel: the shared
// Entity stat block, the Combatant capability and its archetypes.
package combat

import (
	"errors"
	"fmt"
	"math"

	"github.com/cory-johannsen/duel/internal/game/inventory"
)

// MaxStat is the largest value accepted for any stat, endurance or magic power.
const MaxStat = 1<<31 - 1

// Archetype identifies a concrete Combatant variant.
type Archetype int

const (
	ArchetypeMonster Archetype = iota
	ArchetypeFighter
	ArchetypeMage
)

// String returns the archetype name used as the JSON tag for player combatants.
func (a Archetype) String() string {
	switch a {
	case ArchetypeFighter:
		return "Fighter"
	case ArchetypeMage:
		return "Mage"
	case ArchetypeMonster:
		return "Monster"
	default:
		return "Unknown"
	}
}

// Entity is the physical stat block shared by every combatant.
//
// Invariant: LifePoints >= 0 and only decreases through TakeDamage. Once
// LifePoints reaches 0 the entity is dead and must not act or be targeted.
type Entity struct {
	Name       string            `json:"name" yaml:"name"`
	LifePoints int               `json:"life_points" yaml:"life_points"`
	Dexterity  int               `json:"dexterity" yaml:"dexterity"`
	Strength   int               `json:"strength" yaml:"strength"`
	Weapon     *inventory.Weapon `json:"weapon" yaml:"weapon"`
}

// TakeDamage reduces LifePoints by amount, flooring at zero. Negative amounts
// are treated as zero.
//
// Postcondition: LifePoints == max(0, old - amount); returns old - LifePoints.
func (e *Entity) TakeDamage(amount int) int {
	if amount < 0 {
		amount = 0
	}
	before := e.LifePoints
	e.LifePoints -= amount
	if e.LifePoints < 0 {
		e.LifePoints = 0
	}
	return before - e.LifePoints
}

// Heal adds amount to LifePoints of a living entity. Dead entities stay dead.
// LifePoints saturates at math.MaxInt.
//
// Postcondition: Returns the life points actually restored (0 when dead or amount <= 0).
func (e *Entity) Heal(amount int) int {
	if !e.IsAlive() || amount <= 0 {
		return 0
	}
	before := e.LifePoints
	e.LifePoints = addSat(e.LifePoints, amount)
	return e.LifePoints - before
}

// IsAlive reports whether the entity still has life points.
//
// Postcondition: Returns true iff LifePoints > 0.
func (e *Entity) IsAlive() bool { return e.LifePoints > 0 }

// Clone returns a deep copy of e, including its weapon.
func (e *Entity) Clone() Entity {
	cp := *e
	cp.Weapon = e.Weapon.Clone()
	return cp
}

// Validate checks the stat block invariants.
//
// Postcondition: Returns nil iff every numeric stat is in [0, MaxStat] and the weapon, if any, is valid.
func (e *Entity) Validate() error {
	var errs []error
	for _, s := range []struct {
		name  string
		value int
	}{
		{"life_points", e.LifePoints},
		{"dexterity", e.Dexterity},
		{"strength", e.Strength},
	} {
		if err := CheckStat(s.name, s.value); err != nil {
			errs = append(errs, err)
		}
	}
	if e.Weapon != nil {
		if err := e.Weapon.Validate(); err != nil {
			errs = append(errs, err)
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("entity %q: %w", e.Name, errors.Join(errs...))
	}
	return nil
}

// CheckStat reports an error unless value is in [0, MaxStat].
func CheckStat(name string, value int) error {
	if value < 0 || value > MaxStat {
		return fmt.Errorf("%s must be in [0, %d], got %d", name, MaxStat, value)
	}
	return nil
}

// addSat returns a+b for non-negative operands, saturating at math.MaxInt.
func addSat(a, b int) int {
	if b > 0 && a > math.MaxInt-b {
		return math.MaxInt
	}
	return a + b
}

// mulSat returns a*b for non-negative operands, saturating at math.MaxInt.
func mulSat(a, b int) int {
	if a <= 0 || b <= 0 {
		return 0
	}
	if a > math.MaxInt/b {
		return math.MaxInt
	}
	return a * b
}

// Combatant is anything that can attack and be attacked, backed by an owned Entity.
// The variant set is closed: *Fighter, *Mage and *Monster.
type Combatant interface {
	// Entity returns the combatant's own stat block; mutations are visible to the combatant.
	Entity() *Entity
	// AttackDamage returns the damage this combatant deals before evasion.
	AttackDamage() int
	// Archetype identifies the concrete variant.
	Archetype() Archetype
}

// BaseDamage is the default attack formula: strength plus the weapon's material bonus.
//
// Postcondition: Returns e.Strength + e.Weapon.BonusDamage(), saturating at math.MaxInt.
func BaseDamage(e *Entity) int {
	return addSat(e.Strength, e.Weapon.BonusDamage())
}

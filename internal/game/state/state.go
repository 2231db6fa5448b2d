// Package state defines GameState, the unit of persistence for a duel: one
// player combatant (Fighter or Mage) and one enemy Monster.
package state

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"reflect"

	"github.com/cory-johannsen/duel/internal/game/combat"
)

// GameState pairs the player with the enemy.
//
// Invariant: Player is a *combat.Fighter or a *combat.Mage; Enemy is non-nil.
type GameState struct {
	Player combat.Combatant
	Enemy  *combat.Monster
}

// New returns a GameState for player and enemy.
//
// Precondition: player must be a *combat.Fighter or *combat.Mage.
func New(player combat.Combatant, enemy *combat.Monster) *GameState {
	return &GameState{Player: player, Enemy: enemy}
}

// Terminal reports whether either side has been defeated.
func (g *GameState) Terminal() bool {
	return !g.Player.Entity().IsAlive() || !g.Enemy.Entity().IsAlive()
}

// Validate checks the structural invariants of g.
//
// Postcondition: Returns nil iff the player archetype is allowed and both stat blocks are valid.
func (g *GameState) Validate() error {
	var errs []error
	switch p := g.Player.(type) {
	case *combat.Fighter:
		if p == nil {
			errs = append(errs, errors.New("player fighter is nil"))
		} else if err := combat.CheckStat("fighter endurance", p.Endurance); err != nil {
			errs = append(errs, err)
		}
	case *combat.Mage:
		if p == nil {
			errs = append(errs, errors.New("player mage is nil"))
		} else if err := combat.CheckStat("mage magic_power", p.MagicPower); err != nil {
			errs = append(errs, err)
		}
	case nil:
		errs = append(errs, errors.New("player is missing"))
	default:
		errs = append(errs, fmt.Errorf("player archetype %T is not allowed", g.Player))
	}
	if len(errs) == 0 {
		if err := g.Player.Entity().Validate(); err != nil {
			errs = append(errs, fmt.Errorf("player: %w", err))
		}
	}
	if g.Enemy == nil {
		errs = append(errs, errors.New("enemy is missing"))
	} else if err := g.Enemy.Entity().Validate(); err != nil {
		errs = append(errs, fmt.Errorf("enemy: %w", err))
	}
	return errors.Join(errs...)
}

// Clone returns a deep copy of g; mutating the copy never affects g.
func (g *GameState) Clone() *GameState {
	cp := &GameState{}
	switch p := g.Player.(type) {
	case *combat.Fighter:
		cp.Player = combat.NewFighter(p.Stats.Clone(), p.Endurance)
	case *combat.Mage:
		cp.Player = combat.NewMage(p.Stats.Clone(), p.MagicPower)
	}
	if g.Enemy != nil {
		cp.Enemy = combat.NewMonster(g.Enemy.Stats.Clone())
	}
	return cp
}

// Equal reports structural equality: same archetype, same stats, same weapons.
func (g *GameState) Equal(other *GameState) bool {
	if g == nil || other == nil {
		return g == other
	}
	return reflect.DeepEqual(g.Player, other.Player) && reflect.DeepEqual(g.Enemy, other.Enemy)
}

type wireState struct {
	Player map[string]json.RawMessage `json:"player"`
	Enemy  *combat.Monster            `json:"enemy"`
}

// MarshalJSON encodes g with the player as a union keyed by archetype name:
//
//	{"player":{"Fighter":{"entity":{...},"endurance":4}},"enemy":{"entity":{...}}}
func (g *GameState) MarshalJSON() ([]byte, error) {
	switch g.Player.(type) {
	case *combat.Fighter, *combat.Mage:
	default:
		return nil, fmt.Errorf("cannot marshal player archetype %T", g.Player)
	}
	body, err := json.Marshal(g.Player)
	if err != nil {
		return nil, fmt.Errorf("marshalling player: %w", err)
	}
	return json.Marshal(wireState{
		Player: map[string]json.RawMessage{g.Player.Archetype().String(): body},
		Enemy:  g.Enemy,
	})
}

type wireInput struct {
	Player map[string]json.RawMessage `json:"player"`
	Enemy  json.RawMessage            `json:"enemy"`
}

// UnmarshalJSON decodes the union written by MarshalJSON and validates the result.
//
// Postcondition: On success g satisfies Validate; exactly one archetype key was
// present and every combatant carried an entity.
func (g *GameState) UnmarshalJSON(data []byte) error {
	var w wireInput
	if err := decodeStrict(data, &w); err != nil {
		return fmt.Errorf("decoding game state: %w", err)
	}
	if len(w.Player) != 1 {
		return fmt.Errorf("player must have exactly one archetype key, got %d", len(w.Player))
	}

	var player combat.Combatant
	for tag, body := range w.Player {
		if err := requireEntity("player "+tag, body); err != nil {
			return err
		}
		switch tag {
		case combat.ArchetypeFighter.String():
			f := &combat.Fighter{}
			if err := decodeStrict(body, f); err != nil {
				return fmt.Errorf("decoding fighter: %w", err)
			}
			player = f
		case combat.ArchetypeMage.String():
			m := &combat.Mage{}
			if err := decodeStrict(body, m); err != nil {
				return fmt.Errorf("decoding mage: %w", err)
			}
			player = m
		default:
			return fmt.Errorf("unknown player archetype %q", tag)
		}
	}

	if err := requireEntity("enemy", w.Enemy); err != nil {
		return err
	}
	enemy := &combat.Monster{}
	if err := decodeStrict(w.Enemy, enemy); err != nil {
		return fmt.Errorf("decoding enemy: %w", err)
	}

	decoded := GameState{Player: player, Enemy: enemy}
	if err := decoded.Validate(); err != nil {
		return fmt.Errorf("invalid game state: %w", err)
	}
	*g = decoded
	return nil
}

// requireEntity fails unless body is an object with a non-null "entity" key.
func requireEntity(role string, body json.RawMessage) error {
	var fields map[string]json.RawMessage
	if len(body) > 0 {
		if err := json.Unmarshal(body, &fields); err != nil {
			return fmt.Errorf("decoding %s: %w", role, err)
		}
	}
	if fields == nil {
		return fmt.Errorf("%s is missing", role)
	}
	e, ok := fields["entity"]
	if !ok || string(bytes.TrimSpace(e)) == "null" {
		return fmt.Errorf("%s entity is missing", role)
	}
	return nil
}

func decodeStrict(data []byte, v any) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}

// Encode returns the canonical indented JSON form of g.
func Encode(g *GameState) ([]byte, error) {
	return json.MarshalIndent(g, "", "  ")
}

// Decode parses and validates a GameState from its canonical JSON form.
func Decode(data []byte) (*GameState, error) {
	g := &GameState{}
	if err := json.Unmarshal(data, g); err != nil {
		return nil, err
	}
	return g, nil
}

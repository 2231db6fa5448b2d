package state

import (
	_ "embed"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/cory-johannsen/duel/internal/game/combat"
)

//go:embed roster.yaml
var defaultRosterYAML []byte

// Roster holds the starting stat blocks for a freshly created GameState.
type Roster struct {
	Fighter combat.Fighter `yaml:"fighter"`
	Mage    combat.Mage    `yaml:"mage"`
	Enemy   combat.Monster `yaml:"enemy"`
}

// DefaultRoster parses the roster embedded in the binary.
//
// Postcondition: Returns a roster whose every entity validates, or an error.
func DefaultRoster() (*Roster, error) {
	return ParseRoster(defaultRosterYAML)
}

// ParseRoster parses a roster from YAML.
func ParseRoster(data []byte) (*Roster, error) {
	var r Roster
	if err := yaml.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("parsing roster: %w", err)
	}
	for _, e := range []*combat.Entity{r.Fighter.Entity(), r.Mage.Entity(), r.Enemy.Entity()} {
		if err := e.Validate(); err != nil {
			return nil, fmt.Errorf("roster: %w", err)
		}
	}
	return &r, nil
}

// NewGameState builds a GameState whose player has the named archetype
// ("fighter" or "mage", case-insensitive). The roster is not shared with the result.
//
// Postcondition: Returns a valid GameState or an error for an unknown archetype.
func (r *Roster) NewGameState(archetype string) (*GameState, error) {
	enemy := combat.NewMonster(r.Enemy.Stats.Clone())
	switch strings.ToLower(archetype) {
	case "fighter":
		return New(combat.NewFighter(r.Fighter.Stats.Clone(), r.Fighter.Endurance), enemy), nil
	case "mage":
		return New(combat.NewMage(r.Mage.Stats.Clone(), r.Mage.MagicPower), enemy), nil
	default:
		return nil, fmt.Errorf("archetype must be one of [fighter, mage], got %q", archetype)
	}
}

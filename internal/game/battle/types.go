package battle

import (
	"fmt"

	"github.com/cory-johannsen/duel/internal/game/combat"
	"github.com/cory-johannsen/duel/internal/game/dice"
)

// Outcome is the battle state machine: Ongoing until a terminal state is reached.
type Outcome int

const (
	Ongoing Outcome = iota
	PlayerWon
	EnemyWon
	PlayerFled
)

// String returns a human-readable outcome label.
func (o Outcome) String() string {
	switch o {
	case Ongoing:
		return "ongoing"
	case PlayerWon:
		return "player won"
	case EnemyWon:
		return "enemy won"
	case PlayerFled:
		return "player fled"
	default:
		return "unknown"
	}
}

// Terminal reports whether o ends the battle.
func (o Outcome) Terminal() bool { return o != Ongoing }

// Action identifies what the player does on their turn.
// The zero value (ActionUnknown) is intentionally invalid.
type Action int

const (
	ActionUnknown Action = iota
	ActionAttack
	ActionHeal
	ActionFlee
)

// String returns the human-readable name of the Action.
func (a Action) String() string {
	switch a {
	case ActionAttack:
		return "attack"
	case ActionHeal:
		return "heal"
	case ActionFlee:
		return "flee"
	default:
		return "unknown"
	}
}

// TurnEvent records one resolved action.
type TurnEvent struct {
	Turn   int
	Action Action
	Actor  string
	Target string
	// Result is set for ActionAttack.
	Result combat.AttackResult
	// Healed is set for ActionHeal.
	Healed int
	// Roll and Fled are set for ActionFlee.
	Roll *dice.RollResult
	Fled bool
}

// Summary returns a one-line plain-text description of the event.
func (ev TurnEvent) Summary() string {
	switch ev.Action {
	case ActionHeal:
		return fmt.Sprintf("%s heals for %d life points.", ev.Actor, ev.Healed)
	case ActionFlee:
		if ev.Fled {
			return fmt.Sprintf("%s flees the fight.", ev.Actor)
		}
		return fmt.Sprintf("%s tries to flee but fails.", ev.Actor)
	}
	switch ev.Result.Kind {
	case combat.Miss:
		return fmt.Sprintf("%s attacks %s but misses.", ev.Actor, ev.Target)
	case combat.TargetDefeated:
		return fmt.Sprintf("%s hits %s for %d damage and defeats them.", ev.Actor, ev.Target, ev.Result.Amount)
	default:
		return fmt.Sprintf("%s hits %s for %d damage.", ev.Actor, ev.Target, ev.Result.Amount)
	}
}

// Package battle runs a duel between the player and the enemy of a GameState:
// player first, enemy second, every turn, until one side is defeated.
package battle

import (
	"context"
	"fmt"
	"slices"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/cory-johannsen/duel/internal/game/combat"
	"github.com/cory-johannsen/duel/internal/game/dice"
	"github.com/cory-johannsen/duel/internal/game/state"
)

//go:generate mockgen -destination=mock/mock_presenter.go -package=battlemock github.com/cory-johannsen/duel/internal/game/battle Presenter

// Presenter is the user-facing side of a battle. All calls are synchronous.
type Presenter interface {
	// ReportTurn shows one resolved action.
	ReportTurn(ev TurnEvent)
	// ReportOutcome shows the terminal outcome after turns turns.
	ReportOutcome(outcome Outcome, turns int)
	// Narrate shows free-form flavor text produced by hooks.
	Narrate(text string)
	// ChooseAction picks the player's action from options, which always contains ActionAttack.
	ChooseAction(player combat.Combatant, options []Action) (Action, error)
	// AwaitContinue blocks until the user acknowledges the finished turn.
	// A non-nil error aborts the battle before the next turn starts.
	AwaitContinue() error
}

// Hooks observe a battle and may return flavor text. Empty strings are ignored.
type Hooks interface {
	OnTurn(ev TurnEvent) string
	OnOutcome(outcome Outcome, turns int) string
}

// Options configures a Battle.
type Options struct {
	// Evader decides evasion for every attack. Required.
	Evader combat.Evader
	// Roller throws the difficulty die for flee attempts. Required.
	Roller *dice.Roller
	// Difficulty selects the flee die; empty means dice.Normal.
	Difficulty dice.Difficulty
	// Presenter receives every event. Required.
	Presenter Presenter
	// Hooks is optional.
	Hooks Hooks
	// Logger is optional; nil disables logging.
	Logger *zap.Logger
}

// Result summarises a finished (or aborted) battle.
type Result struct {
	ID      uuid.UUID
	Outcome Outcome
	Turns   int
	Log     []TurnEvent
	State   *state.GameState
}

// Battle exclusively owns its GameState for the duration of the encounter.
type Battle struct {
	ID      uuid.UUID
	state   *state.GameState
	opts    Options
	logger  *zap.Logger
	outcome Outcome
	turn    int
	log     []TurnEvent
}

// New creates a battle over gs. A GameState in which a side is already
// defeated starts in the matching terminal outcome (the enemy is checked first).
//
// Precondition: gs must satisfy gs.Validate(); opts.Evader, opts.Roller and opts.Presenter must be non-nil.
// Postcondition: Returns a Battle whose Outcome reflects gs.
func New(gs *state.GameState, opts Options) *Battle {
	if opts.Difficulty == "" {
		opts.Difficulty = dice.Normal
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	b := &Battle{ID: uuid.New(), state: gs, opts: opts}
	b.logger = logger.With(zap.String("battle_id", b.ID.String()))
	b.outcome = b.evaluate()
	return b
}

// Outcome returns the current state of the battle.
func (b *Battle) Outcome() Outcome { return b.outcome }

// Turns returns the number of turns started so far.
func (b *Battle) Turns() int { return b.turn }

// State returns the GameState the battle mutates.
func (b *Battle) State() *state.GameState { return b.state }

func (b *Battle) evaluate() Outcome {
	switch {
	case !b.state.Enemy.Entity().IsAlive():
		return PlayerWon
	case !b.state.Player.Entity().IsAlive():
		return EnemyWon
	default:
		return Ongoing
	}
}

// AvailableActions returns the actions offered to the player this turn.
//
// Postcondition: ActionAttack is always first; ActionHeal only for a mage with a positive heal amount.
func (b *Battle) AvailableActions() []Action {
	opts := []Action{ActionAttack}
	if m, ok := b.state.Player.(*combat.Mage); ok && m.HealAmount() > 0 {
		opts = append(opts, ActionHeal)
	}
	return append(opts, ActionFlee)
}

// Turn executes one full turn and returns the resulting outcome.
// Terminal outcomes are absorbing: Turn on a finished battle does nothing.
//
// The only error source is the presenter's action choice, which happens
// before anything is mutated; once the player acts the turn always completes.
func (b *Battle) Turn() (Outcome, error) {
	if b.outcome != Ongoing {
		return b.outcome, nil
	}

	options := b.AvailableActions()
	action, err := b.opts.Presenter.ChooseAction(b.state.Player, options)
	if err != nil {
		return b.outcome, fmt.Errorf("choosing action: %w", err)
	}
	if !slices.Contains(options, action) {
		return b.outcome, fmt.Errorf("action %s is not available", action)
	}

	b.turn++
	player, enemy := b.state.Player, b.state.Enemy

	switch action {
	case ActionHeal:
		mage := player.(*combat.Mage)
		healed := mage.Heal()
		b.report(TurnEvent{Turn: b.turn, Action: ActionHeal, Actor: mage.Stats.Name, Target: mage.Stats.Name, Healed: healed})
	case ActionFlee:
		roll, fled := b.opts.Difficulty.Throw(b.opts.Roller)
		b.report(TurnEvent{Turn: b.turn, Action: ActionFlee, Actor: player.Entity().Name, Roll: &roll, Fled: fled})
		if fled {
			b.outcome = PlayerFled
			return b.outcome, nil
		}
	default:
		b.attack(player, enemy.Entity())
	}

	if !enemy.Entity().IsAlive() {
		b.outcome = PlayerWon
		return b.outcome, nil
	}

	b.attack(enemy, player.Entity())
	if !player.Entity().IsAlive() {
		b.outcome = EnemyWon
	}
	return b.outcome, nil
}

func (b *Battle) attack(attacker combat.Combatant, target *combat.Entity) {
	r := combat.Attack(attacker, target, b.opts.Evader)
	b.logger.Debug("attack resolved",
		zap.Int("turn", b.turn),
		zap.String("attacker", r.Attacker),
		zap.String("target", r.Target),
		zap.Stringer("result", r.Kind),
		zap.Int("amount", r.Amount),
		zap.Int("target_life_points", target.LifePoints),
	)
	b.report(TurnEvent{Turn: b.turn, Action: ActionAttack, Actor: r.Attacker, Target: r.Target, Result: r})
}

func (b *Battle) report(ev TurnEvent) {
	b.log = append(b.log, ev)
	b.opts.Presenter.ReportTurn(ev)
	if b.opts.Hooks != nil {
		if text := b.opts.Hooks.OnTurn(ev); text != "" {
			b.opts.Presenter.Narrate(text)
		}
	}
}

// Run plays turns until the battle reaches a terminal outcome, then reports it.
// ctx is only observed between turns; a started turn always completes.
//
// Postcondition: On nil error Result.Outcome is terminal. On error the Result
// describes the battle as far as it got.
func (b *Battle) Run(ctx context.Context) (Result, error) {
	b.logger.Info("battle started",
		zap.String("player", b.state.Player.Entity().Name),
		zap.Stringer("archetype", b.state.Player.Archetype()),
		zap.String("enemy", b.state.Enemy.Entity().Name),
	)

	for b.outcome == Ongoing {
		if err := ctx.Err(); err != nil {
			return b.result(), fmt.Errorf("battle interrupted: %w", err)
		}
		if _, err := b.Turn(); err != nil {
			return b.result(), err
		}
		if b.outcome == Ongoing {
			if err := b.opts.Presenter.AwaitContinue(); err != nil {
				return b.result(), fmt.Errorf("awaiting continuation: %w", err)
			}
		}
	}

	b.opts.Presenter.ReportOutcome(b.outcome, b.turn)
	if b.opts.Hooks != nil {
		if text := b.opts.Hooks.OnOutcome(b.outcome, b.turn); text != "" {
			b.opts.Presenter.Narrate(text)
		}
	}
	b.logger.Info("battle finished",
		zap.Stringer("outcome", b.outcome),
		zap.Int("turns", b.turn),
	)
	return b.result(), nil
}

func (b *Battle) result() Result {
	return Result{
		ID:      b.ID,
		Outcome: b.outcome,
		Turns:   b.turn,
		Log:     slices.Clone(b.log),
		State:   b.state,
	}
}

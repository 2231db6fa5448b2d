package scripting

import (
	lua "github.com/yuin/gopher-lua"

	"github.com/cory-johannsen/duel/internal/game/battle"
)

// Hook names looked up in the loaded scripts.
const (
	HookOnTurn    = "on_turn"
	HookOnOutcome = "on_outcome"
)

// BattleHooks adapts a Manager to battle.Hooks. A hook that returns a string
// produces narration; any other return value is ignored.
type BattleHooks struct {
	m *Manager
}

var _ battle.Hooks = BattleHooks{}

// NewBattleHooks wraps m.
//
// Precondition: m must be non-nil.
func NewBattleHooks(m *Manager) BattleHooks { return BattleHooks{m: m} }

// OnTurn calls on_turn(ev) where ev has the fields turn, action, actor, target,
// result, amount, healed, fled and, for flee attempts, roll.
func (h BattleHooks) OnTurn(ev battle.TurnEvent) string {
	if !h.m.HasHook(HookOnTurn) {
		return ""
	}
	t := h.m.NewTable()
	t.RawSetString("turn", lua.LNumber(ev.Turn))
	t.RawSetString("action", lua.LString(ev.Action.String()))
	t.RawSetString("actor", lua.LString(ev.Actor))
	t.RawSetString("target", lua.LString(ev.Target))
	t.RawSetString("result", lua.LString(ev.Result.Kind.String()))
	t.RawSetString("amount", lua.LNumber(ev.Result.Amount))
	t.RawSetString("healed", lua.LNumber(ev.Healed))
	t.RawSetString("fled", lua.LBool(ev.Fled))
	if ev.Roll != nil {
		t.RawSetString("roll", lua.LNumber(ev.Roll.Total()))
	}
	ret, _ := h.m.CallHook(HookOnTurn, t)
	return narration(ret)
}

// OnOutcome calls on_outcome(outcome, turns).
func (h BattleHooks) OnOutcome(outcome battle.Outcome, turns int) string {
	ret, _ := h.m.CallHook(HookOnOutcome, lua.LString(outcome.String()), lua.LNumber(turns))
	return narration(ret)
}

func narration(v lua.LValue) string {
	if s, ok := v.(lua.LString); ok {
		return string(s)
	}
	return ""
}

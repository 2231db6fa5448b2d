package scripting

import (
	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"
)

// RegisterModules installs the duel global table into L:
//
//	duel.roll(expr)   -> total, dice   rolls a dice expression such as "2d6+1"
//	duel.log(msg)                      writes msg to the structured log at info level
//
// Precondition: L must be from NewSandboxedState.
// Postcondition: duel global is defined in L.
func (m *Manager) RegisterModules(L *lua.LState) {
	mod := L.NewTable()
	L.SetFuncs(mod, map[string]lua.LGFunction{
		"roll": m.luaRoll,
		"log":  m.luaLog,
	})
	L.SetGlobal("duel", mod)
}

func (m *Manager) luaRoll(L *lua.LState) int {
	expr := L.CheckString(1)
	res, err := m.roller.RollExpr(expr)
	if err != nil {
		L.ArgError(1, err.Error())
		return 0
	}
	faces := L.NewTable()
	for _, d := range res.Dice {
		faces.Append(lua.LNumber(d))
	}
	L.Push(lua.LNumber(res.Total()))
	L.Push(faces)
	return 2
}

func (m *Manager) luaLog(L *lua.LState) int {
	m.logger.Info("scripting: lua", zap.String("msg", L.CheckString(1)))
	return 0
}

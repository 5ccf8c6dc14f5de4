package scripting

import (
	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"
)

// RegisterModules installs the engine table into L:
//
//	engine.log.debug(msg) / info / warn / error
//	engine.dice.roll(expr)   -> {total=, dice={...}, modifier=} or nil
//
// Precondition: L must come from NewSandboxedState.
func (m *Manager) RegisterModules(L *lua.LState, key string) {
	engine := L.NewTable()
	L.SetField(engine, "log", m.newLogModule(L, key))
	L.SetField(engine, "dice", m.newDiceModule(L))
	L.SetGlobal("engine", engine)
}

func (m *Manager) newLogModule(L *lua.LState, key string) *lua.LTable {
	mod := L.NewTable()
	levels := map[string]func(string, ...zap.Field){
		"debug": m.logger.Debug,
		"info":  m.logger.Info,
		"warn":  m.logger.Warn,
		"error": m.logger.Error,
	}
	for name, logFn := range levels {
		logFn := logFn
		L.SetField(mod, name, L.NewFunction(func(L *lua.LState) int {
			logFn("script: "+L.CheckString(1), zap.String("vm", key))
			return 0
		}))
	}
	return mod
}

func (m *Manager) newDiceModule(L *lua.LState) *lua.LTable {
	mod := L.NewTable()
	L.SetField(mod, "roll", L.NewFunction(func(L *lua.LState) int {
		res, err := m.roller.RollExpr(L.CheckString(1))
		if err != nil {
			m.logger.Warn("script: bad dice expression", zap.Error(err))
			L.Push(lua.LNil)
			return 1
		}
		t := L.NewTable()
		t.RawSetString("total", lua.LNumber(res.Total()))
		t.RawSetString("modifier", lua.LNumber(res.Modifier))
		ds := L.NewTable()
		for _, d := range res.Dice {
			ds.Append(lua.LNumber(d))
		}
		t.RawSetString("dice", ds)
		L.Push(t)
		return 1
	}))
	return mod
}

package scripting

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"

	"github.com/cory-johannsen/pokebattle/internal/game/dice"
)

// GlobalKey is the VM consulted when a trainer has no scripts of its own.
const GlobalKey = "__global__"

// ChooseAttackHook is the Lua function a strategy script defines.
const ChooseAttackHook = "choose_attack"

// CreatureInfo is the snapshot of a creature passed to Lua.
type CreatureInfo struct {
	Name     string
	Element  string
	Level    int
	HP       int
	Gauge    int
	GaugeMax int
	Attacks  []string
	// Costs maps each attack name to the gauge it depletes.
	Costs map[string]int
}

type vm struct {
	mu     sync.Mutex
	L      *lua.LState
	cancel context.CancelFunc
	limit  int
}

// Manager owns one sandboxed LState per trainer plus an optional global VM.
// An LState is single-threaded, so each VM is guarded by its own mutex;
// different trainers' scripts run concurrently.
type Manager struct {
	mu     sync.RWMutex
	vms    map[string]*vm
	roller *dice.Roller
	logger *zap.Logger
}

// NewManager creates an empty Manager.
//
// Precondition: roller and logger must be non-nil.
func NewManager(roller *dice.Roller, logger *zap.Logger) *Manager {
	if roller == nil {
		panic("scripting: NewManager requires a non-nil roller")
	}
	if logger == nil {
		panic("scripting: NewManager requires a non-nil logger")
	}
	return &Manager{
		vms:    make(map[string]*vm),
		roller: roller,
		logger: logger,
	}
}

// LoadTrainer loads every *.lua file in scriptDir into a fresh VM for trainer.
// Trainer names are case-insensitive. A previous VM for the same trainer is
// closed and replaced.
func (m *Manager) LoadTrainer(trainer, scriptDir string, instLimit int) error {
	return m.loadInto(strings.ToLower(trainer), scriptDir, instLimit)
}

// LoadGlobal loads scriptDir into the fallback VM.
func (m *Manager) LoadGlobal(scriptDir string, instLimit int) error {
	return m.loadInto(GlobalKey, scriptDir, instLimit)
}

// LoadTree loads root's own *.lua files as the global VM and each
// subdirectory as the VM of the trainer it is named after.
//
// Postcondition: Returns the number of VMs loaded, or the first load error.
func (m *Manager) LoadTree(root string, instLimit int) (int, error) {
	entries, err := os.ReadDir(root)
	if err != nil {
		return 0, fmt.Errorf("scripting: reading script root %q: %w", root, err)
	}
	loaded := 0
	hasGlobal := false
	for _, e := range entries {
		if e.IsDir() {
			if err := m.LoadTrainer(e.Name(), filepath.Join(root, e.Name()), instLimit); err != nil {
				return loaded, err
			}
			loaded++
			continue
		}
		if filepath.Ext(e.Name()) == ".lua" {
			hasGlobal = true
		}
	}
	if hasGlobal {
		if err := m.LoadGlobal(root, instLimit); err != nil {
			return loaded, err
		}
		loaded++
	}
	return loaded, nil
}

func (m *Manager) loadInto(key, scriptDir string, instLimit int) error {
	entries, err := os.ReadDir(scriptDir)
	if err != nil {
		return fmt.Errorf("scripting: reading script dir %q for %q: %w", scriptDir, key, err)
	}

	var luaFiles []string
	for _, e := range entries {
		if !e.IsDir() && filepath.Ext(e.Name()) == ".lua" {
			luaFiles = append(luaFiles, filepath.Join(scriptDir, e.Name()))
		}
	}
	sort.Strings(luaFiles)

	L, cancel := NewSandboxedState(instLimit)
	m.RegisterModules(L, key)
	for _, path := range luaFiles {
		if err := L.DoFile(path); err != nil {
			cancel()
			L.Close()
			return fmt.Errorf("scripting: loading %q for %q: %w", path, key, err)
		}
	}

	m.mu.Lock()
	old := m.vms[key]
	m.vms[key] = &vm{L: L, cancel: cancel, limit: instLimit}
	m.mu.Unlock()

	if old != nil {
		old.mu.Lock()
		old.cancel()
		old.L.Close()
		old.mu.Unlock()
	}
	m.logger.Debug("scripting: vm loaded",
		zap.String("vm", key),
		zap.Int("files", len(luaFiles)),
	)
	return nil
}

// Has reports whether a VM is loaded for trainer (not counting the fallback).
func (m *Manager) Has(trainer string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.vms[strings.ToLower(trainer)]
	return ok
}

// Close shuts down every VM.
func (m *Manager) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	for key, v := range m.vms {
		v.mu.Lock()
		v.cancel()
		v.L.Close()
		v.mu.Unlock()
		delete(m.vms, key)
	}
}

func (m *Manager) lookup(trainer string) (*vm, string) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	key := strings.ToLower(trainer)
	if v, ok := m.vms[key]; ok {
		return v, key
	}
	return m.vms[GlobalKey], GlobalKey
}

// CallHook calls the named global function in trainer's VM, falling back to
// the global VM. Returns (LNil, nil) when no VM or no such function exists.
// Lua runtime errors, including an exhausted instruction budget, are logged
// at warn and never propagated.
//
// Postcondition: Returns the hook's first return value, or LNil.
func (m *Manager) CallHook(trainer, hook string, args ...lua.LValue) (lua.LValue, error) {
	return m.call(trainer, hook, func(*lua.LState) []lua.LValue { return args }), nil
}

// call is CallHook with arguments built inside the VM lock, for values such
// as tables that belong to a specific LState.
func (m *Manager) call(trainer, hook string, args func(L *lua.LState) []lua.LValue) lua.LValue {
	v, key := m.lookup(trainer)
	if v == nil {
		m.logger.Debug("scripting: no VM for trainer",
			zap.String("trainer", trainer),
			zap.String("hook", hook),
		)
		return lua.LNil
	}

	v.mu.Lock()
	defer v.mu.Unlock()

	fn := v.L.GetGlobal(hook)
	if fn.Type() != lua.LTFunction {
		return lua.LNil
	}

	v.cancel()
	v.cancel = arm(v.L, v.limit)

	var callArgs []lua.LValue
	if args != nil {
		callArgs = args(v.L)
	}
	if err := v.L.CallByParam(lua.P{Fn: fn, NRet: 1, Protect: true}, callArgs...); err != nil {
		m.logger.Warn("scripting: Lua runtime error",
			zap.String("vm", key),
			zap.String("hook", hook),
			zap.Error(err),
		)
		return lua.LNil
	}
	ret := v.L.Get(-1)
	v.L.Pop(1)
	return ret
}

// ChooseAttack asks trainer's choose_attack(attacker, defender) hook for a
// move name.
//
// Postcondition: Returns (name, true) when the hook returned a non-empty
// string, ("", false) otherwise.
func (m *Manager) ChooseAttack(trainer string, attacker, defender CreatureInfo) (string, bool) {
	ret := m.call(trainer, ChooseAttackHook, func(L *lua.LState) []lua.LValue {
		return []lua.LValue{creatureTable(L, attacker), creatureTable(L, defender)}
	})
	s, ok := ret.(lua.LString)
	if !ok || s == "" {
		return "", false
	}
	return string(s), true
}

func creatureTable(L *lua.LState, c CreatureInfo) *lua.LTable {
	t := L.NewTable()
	t.RawSetString("name", lua.LString(c.Name))
	t.RawSetString("element", lua.LString(c.Element))
	t.RawSetString("level", lua.LNumber(c.Level))
	t.RawSetString("hp", lua.LNumber(c.HP))
	t.RawSetString("gauge", lua.LNumber(c.Gauge))
	t.RawSetString("gauge_max", lua.LNumber(c.GaugeMax))
	attacks := L.NewTable()
	for _, a := range c.Attacks {
		attacks.Append(lua.LString(a))
	}
	t.RawSetString("attacks", attacks)
	costs := L.NewTable()
	for name, cost := range c.Costs {
		costs.RawSetString(name, lua.LNumber(cost))
	}
	t.RawSetString("costs", costs)
	return t
}

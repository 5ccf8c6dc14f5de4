package battle

import (
	"sync"

	"github.com/cory-johannsen/pokebattle/internal/game/dice"
	"github.com/cory-johannsen/pokebattle/internal/game/pokemon"
	"github.com/cory-johannsen/pokebattle/internal/scripting"
)

// Strategy picks the move an attacker uses against a defender.
type Strategy interface {
	// ChooseAttack returns one of attacker's move names.
	//
	// Precondition: attacker and defender are non-nil.
	ChooseAttack(owner string, attacker, defender *pokemon.Creature) string
}

// StrategyFunc adapts a plain function to Strategy.
type StrategyFunc func(owner string, attacker, defender *pokemon.Creature) string

// ChooseAttack calls f.
func (f StrategyFunc) ChooseAttack(owner string, attacker, defender *pokemon.Creature) string {
	return f(owner, attacker, defender)
}

// FirstMove cycles through each attacker's moves in declaration order,
// starting with the first. The zero value is ready for use. It keeps a cursor
// for every attacker it has seen, so use a fresh one per battle.
type FirstMove struct {
	mu   sync.Mutex
	next map[string]int
}

// ChooseAttack implements Strategy.
func (f *FirstMove) ChooseAttack(_ string, attacker, _ *pokemon.Creature) string {
	moves := attacker.Attacks()
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.next == nil {
		f.next = make(map[string]int)
	}
	i := f.next[attacker.ID()]
	f.next[attacker.ID()] = (i + 1) % len(moves)
	return moves[i]
}

// RandomMove picks uniformly among the attacker's moves using src.
type RandomMove struct {
	src dice.Source
}

// NewRandomMove creates a RandomMove strategy.
//
// Precondition: src must be non-nil.
func NewRandomMove(src dice.Source) *RandomMove {
	if src == nil {
		panic("battle: NewRandomMove requires a non-nil source")
	}
	return &RandomMove{src: src}
}

// ChooseAttack implements Strategy.
func (r *RandomMove) ChooseAttack(_ string, attacker, _ *pokemon.Creature) string {
	moves := attacker.Attacks()
	return moves[r.src.Intn(len(moves))]
}

// ScriptedStrategy asks the owner's choose_attack Lua hook and falls back
// when the hook is missing, fails, or names a move the attacker lacks.
type ScriptedStrategy struct {
	scripts  *scripting.Manager
	fallback Strategy
}

// NewScriptedStrategy creates a ScriptedStrategy.
//
// Precondition: scripts and fallback must be non-nil.
func NewScriptedStrategy(scripts *scripting.Manager, fallback Strategy) *ScriptedStrategy {
	if scripts == nil {
		panic("battle: NewScriptedStrategy requires a non-nil script manager")
	}
	if fallback == nil {
		panic("battle: NewScriptedStrategy requires a non-nil fallback")
	}
	return &ScriptedStrategy{scripts: scripts, fallback: fallback}
}

// ChooseAttack implements Strategy.
func (s *ScriptedStrategy) ChooseAttack(owner string, attacker, defender *pokemon.Creature) string {
	name, ok := s.scripts.ChooseAttack(owner, Info(attacker), Info(defender))
	if ok {
		if mv, known := attacker.Species().Move(name); known {
			return mv.Name
		}
	}
	return s.fallback.ChooseAttack(owner, attacker, defender)
}

// Info snapshots c for a script.
func Info(c *pokemon.Creature) scripting.CreatureInfo {
	attacks := c.Attacks()
	costs := make(map[string]int, len(attacks))
	for _, name := range attacks {
		if mv, ok := c.Species().Move(name); ok {
			costs[name] = mv.Depletion
		}
	}
	return scripting.CreatureInfo{
		Name:     c.Name(),
		Element:  c.Element().String(),
		Level:    c.Level(),
		HP:       c.HP(),
		Gauge:    c.Gauge(),
		GaugeMax: c.GaugeMax(),
		Attacks:  attacks,
		Costs:    costs,
	}
}

package pokemon

import (
	"errors"
	"fmt"
	"math"
)

var (
	// ErrUnknownAttack is returned when the attacker's species has no move
	// with the requested name.
	ErrUnknownAttack = errors.New("unknown attack")
	// ErrNoDefender is returned when an attack has no target.
	ErrNoDefender = errors.New("no defender")
)

// AttackResult records one resolved attack.
type AttackResult struct {
	AttackerID string
	DefenderID string
	Move       Move
	// Roll is the raw two-tier damage roll before multiplier and weight.
	Roll       int
	Multiplier float64
	Damage     int
	DefenderHP int
	// Fainted reports whether the defender ended at or below zero HP.
	Fainted    bool
	GaugeAfter int
	// Healed reports whether the attacker's conditional self-heal applied.
	Healed  bool
	AfterHP int
}

// Multiplier returns the attacker's type multiplier against opponent under
// the configured matching mode.
func (c *Creature) Multiplier(opponent *Creature) float64 {
	return c.species.Multiplier(opponent.Element(), c.rules.Matching)
}

// DamageAgainst computes floor(multiplier × roll × weight) against opponent,
// where roll is CalculateDamage(Gauge(), GaugeMax()).
func (c *Creature) DamageAgainst(opponent *Creature, weight float64) int {
	mult := c.Multiplier(opponent)
	c.mu.Lock()
	gauge := c.gauge
	c.mu.Unlock()
	return weigh(mult, c.CalculateDamage(gauge, c.species.GaugeMax), weight)
}

func weigh(mult float64, roll int, weight float64) int {
	return int(math.Floor(mult * float64(roll) * weight))
}

// Attack resolves the named move against defender:
//
//  1. damage = floor(multiplier × roll(gauge, max) × weight)
//  2. defender.GotHit(damage)
//  3. gauge -= depletion, through the capped setter
//  4. ShouldHeal(heal)
//
// Attacker and defender are locked for the whole exchange, in ID order.
//
// Postcondition: Returns the populated result, or wraps ErrNoDefender /
// ErrUnknownAttack with no state changed.
func (c *Creature) Attack(move string, defender *Creature) (AttackResult, error) {
	if defender == nil {
		return AttackResult{}, fmt.Errorf("%s using %q: %w", c.name, move, ErrNoDefender)
	}
	mv, ok := c.species.Move(move)
	if !ok {
		return AttackResult{}, fmt.Errorf("%s cannot use %q: %w", c.name, move, ErrUnknownAttack)
	}

	unlock := lockPair(c, defender)
	defer unlock()

	mult := c.species.Multiplier(defender.species.Element, c.rules.Matching)
	roll := c.CalculateDamage(c.gauge, c.species.GaugeMax)
	damage := weigh(mult, roll, mv.Weight)

	c.emit(Event{Action: ActionAttack, Target: defender.name, Move: mv.Name, Amount: damage})
	defender.gotHit(damage)
	c.setGauge(c.gauge - mv.Depletion)
	healed := c.shouldHeal(mv.Heal)

	return AttackResult{
		AttackerID: c.id,
		DefenderID: defender.id,
		Move:       mv,
		Roll:       roll,
		Multiplier: mult,
		Damage:     damage,
		DefenderHP: defender.hp,
		Fainted:    defender.hp <= 0,
		GaugeAfter: c.gauge,
		Healed:     healed,
		AfterHP:    c.hp,
	}, nil
}

// lockPair locks a and b in ID order and returns the matching unlock.
// A creature attacking itself is locked once.
func lockPair(a, b *Creature) func() {
	if a == b {
		a.mu.Lock()
		return a.mu.Unlock
	}
	first, second := a, b
	if b.id < a.id {
		first, second = b, a
	}
	first.mu.Lock()
	second.mu.Lock()
	return func() {
		second.mu.Unlock()
		first.mu.Unlock()
	}
}

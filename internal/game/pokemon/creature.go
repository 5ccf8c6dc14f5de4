package pokemon

import (
	"fmt"
	"sync"

	"github.com/google/uuid"
)

// HealThreshold is the HP below which ShouldHeal applies, and the HP that
// LevelUp heals past.
const HealThreshold = 100

// Creature is one live creature. All exported methods are safe for
// concurrent use; each call holds the creature's lock for its duration.
type Creature struct {
	mu      sync.Mutex
	id      string
	name    string
	level   int
	hp      int
	gauge   int
	attacks []string
	species *Species
	rules   *Rules
}

// New creates a creature of element e with the species' initial gauge and
// fixed food, cry and attacks.
//
// Precondition: rules must be non-nil.
// Postcondition: Returns a creature with a fresh unique ID, or an error if e
// is not a valid element.
func New(rules *Rules, e Element, name string, level, hp int) (*Creature, error) {
	if rules == nil {
		panic("pokemon: New requires non-nil rules")
	}
	sp := SpeciesFor(e)
	if sp == nil {
		return nil, fmt.Errorf("creating %q: unknown element %d", name, int(e))
	}
	c := &Creature{
		id:      uuid.New().String(),
		name:    name,
		level:   level,
		hp:      hp,
		gauge:   sp.GaugeInitial,
		species: sp,
		rules:   rules,
	}
	for _, m := range sp.Moves {
		c.attacks = append(c.attacks, m.Name)
	}
	return c, nil
}

func mustNew(rules *Rules, e Element, name string, level, hp int) *Creature {
	c, err := New(rules, e, name, level, hp)
	if err != nil {
		panic(err)
	}
	return c
}

// NewFire creates a Fire creature.
func NewFire(rules *Rules, name string, level, hp int) *Creature {
	return mustNew(rules, Fire, name, level, hp)
}

// NewWater creates a Water creature.
func NewWater(rules *Rules, name string, level, hp int) *Creature {
	return mustNew(rules, Water, name, level, hp)
}

// NewGrass creates a Grass creature.
func NewGrass(rules *Rules, name string, level, hp int) *Creature {
	return mustNew(rules, Grass, name, level, hp)
}

// NewElectric creates an Electric creature.
func NewElectric(rules *Rules, name string, level, hp int) *Creature {
	return mustNew(rules, Electric, name, level, hp)
}

// Identity and species accessors. These never change after New, so they take no lock.
func (c *Creature) ID() string        { return c.id }
func (c *Creature) Name() string      { return c.name }
func (c *Creature) Element() Element  { return c.species.Element }
func (c *Creature) Species() *Species { return c.species }
func (c *Creature) Food() string      { return c.species.Food }
func (c *Creature) Cry() string       { return c.species.Cry }
func (c *Creature) GaugeName() string { return c.species.GaugeName }
func (c *Creature) GaugeMax() int     { return c.species.GaugeMax }

// Attacks returns a copy of the creature's attack names.
func (c *Creature) Attacks() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]string, len(c.attacks))
	copy(out, c.attacks)
	return out
}

func (c *Creature) Level() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.level
}

func (c *Creature) SetLevel(level int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.level = level
}

func (c *Creature) HP() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.hp
}

func (c *Creature) SetHP(hp int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.hp = hp
}

func (c *Creature) Gauge() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.gauge
}

// SetGauge writes the resource gauge.
//
// Postcondition: gauge == min(v, GaugeMax) for capped species, gauge == v
// otherwise. There is no lower bound.
func (c *Creature) SetGauge(v int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.setGauge(v)
}

func (c *Creature) setGauge(v int) {
	if c.species.Capped && v > c.species.GaugeMax {
		v = c.species.GaugeMax
	}
	c.gauge = v
}

// Fainted reports whether HP is at or below zero. It is informational only.
func (c *Creature) Fainted() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.hp <= 0
}

// String returns "Pokemon: <name> Level: <level> HP: <hp>".
func (c *Creature) String() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.describe()
}

func (c *Creature) describe() string {
	return fmt.Sprintf("Pokemon: %s Level: %d HP: %d", c.name, c.level, c.hp)
}

func (c *Creature) emit(e Event) {
	e.ActorID = c.id
	e.Actor = c.name
	e.HP = c.hp
	c.rules.Sink.Emit(e)
}

// Eats restores the species' EatHP hit points and EatGauge gauge, the latter
// through the capped setter.
func (c *Creature) Eats() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.setGauge(c.gauge + c.species.EatGauge)
	c.hp += c.species.EatHP
	c.emit(Event{Action: ActionEats, Target: c.species.Food, Amount: c.species.EatHP})
}

// Speaks emits the creature's cry. No state changes.
func (c *Creature) Speaks() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.emit(Event{Action: ActionSpeaks, Target: c.species.Cry})
}

// FeedBonus is the HP gained when fed the creature's own type label.
const FeedBonus = 20

// Feed offers food to the creature. Only food equal to the type label
// ("Fire", "Water", ...) is accepted, compared exactly; the species' Food
// preference plays no part.
//
// Postcondition: HP increases by FeedBonus iff food == Element().String().
func (c *Creature) Feed(food string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if food == c.species.Element.String() {
		c.hp += FeedBonus
		c.emit(Event{Action: ActionFeed, Target: food, Amount: FeedBonus})
		return
	}
	c.emit(Event{Action: ActionSpit, Target: food})
}

// LevelUp raises the level by one, then heals in steps of 10 while HP is at
// or below HealThreshold.
//
// Postcondition: Level increases by exactly 1; HP > HealThreshold, or HP is
// unchanged if it already was.
func (c *Creature) LevelUp() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.level++
	before := c.hp
	for c.hp <= HealThreshold {
		c.hp += 10
	}
	c.emit(Event{Action: ActionLevelUp, Amount: c.level})
	if c.hp != before {
		c.emit(Event{Action: ActionHeal, Amount: c.hp - before})
	}
}

// GotHit subtracts damage from HP without clamping. Emits ActionFainted when
// the result is at or below zero, ActionHit otherwise.
func (c *Creature) GotHit(damage int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gotHit(damage)
}

func (c *Creature) gotHit(damage int) {
	c.hp -= damage
	if c.hp <= 0 {
		c.emit(Event{Action: ActionFainted, Amount: damage})
		return
	}
	c.emit(Event{Action: ActionHit, Amount: damage})
}

// ShouldHeal adds amount to HP when HP is below HealThreshold and reports
// whether it did. There is no cap, so HP may exceed the threshold.
func (c *Creature) ShouldHeal(amount int) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.shouldHeal(amount)
}

func (c *Creature) shouldHeal(amount int) bool {
	if c.hp < HealThreshold {
		c.hp += amount
		c.emit(Event{Action: ActionHeal, Amount: amount})
		return true
	}
	c.emit(Event{Action: ActionFullyHealed})
	return false
}

// CalculateDamage rolls the two-tier damage roll for power against limit.
//
// Postcondition: Returns a value in [10, 20] when power > limit/2, otherwise
// in [1, 10].
func (c *Creature) CalculateDamage(power, limit int) int {
	return c.rules.Roller.Tiered(power, limit).Total()
}

package pokemon

import "strings"

// DefaultMultiplier applies when the defender's type has no table entry.
const DefaultMultiplier = 1.0

// Move is one named attack with its fixed weight, gauge depletion and
// conditional self-heal.
type Move struct {
	Name      string
	Weight    float64
	Depletion int
	Heal      int
}

// Species holds everything an elemental variant fixes at construction.
// Species values are shared and must not be mutated.
type Species struct {
	Element      Element
	Food         string
	Cry          string
	GaugeName    string
	GaugeInitial int
	GaugeMax     int
	// Capped reports whether gauge writes clamp at GaugeMax.
	Capped bool
	// EatHP and EatGauge are the amounts restored by Eats.
	EatHP    int
	EatGauge int
	// Multipliers is keyed by lower-case defender type label.
	Multipliers map[string]float64
	Moves       []Move
}

// Move looks up a move by name. Matching ignores case and spaces, so
// "FireLash", "fire lash" and "Fire Lash" are the same move.
//
// Postcondition: Returns (move, true) if found, or (Move{}, false) otherwise.
func (s *Species) Move(name string) (Move, bool) {
	want := moveKey(name)
	for _, m := range s.Moves {
		if moveKey(m.Name) == want {
			return m, true
		}
	}
	return Move{}, false
}

// MoveNames returns the move names in declaration order.
func (s *Species) MoveNames() []string {
	out := make([]string, len(s.Moves))
	for i, m := range s.Moves {
		out[i] = m.Name
	}
	return out
}

// Multiplier returns the table entry for the defender label under matching,
// or DefaultMultiplier.
func (s *Species) Multiplier(defender Element, matching TypeMatching) float64 {
	if m, ok := s.Multipliers[matching.key(defender.String())]; ok {
		return m
	}
	return DefaultMultiplier
}

func moveKey(name string) string {
	return strings.ToLower(strings.ReplaceAll(name, " ", ""))
}

// FireSpecies burns temperature.
var FireSpecies = &Species{
	Element:      Fire,
	Food:         "Charcoal",
	Cry:          "Roar",
	GaugeName:    "temperature",
	GaugeInitial: 194,
	GaugeMax:     500,
	Capped:       true,
	EatHP:        30,
	EatGauge:     100,
	Multipliers:  map[string]float64{"water": 2.0, "electric": 1.5, "fire": 1.2, "grass": 2.5},
	Moves: []Move{
		{Name: "Inferno", Weight: 1.5, Depletion: 100, Heal: 30},
		{Name: "Fire Lash", Weight: 1.0, Depletion: 50, Heal: 10},
		{Name: "Flame Thrower", Weight: 0.5, Depletion: 25, Heal: 5},
		{Name: "Pyro Ball", Weight: 1.0, Depletion: 50, Heal: 15},
	},
}

// WaterSpecies spends hydration.
var WaterSpecies = &Species{
	Element:      Water,
	Food:         "Fish",
	Cry:          "Splash",
	GaugeName:    "hydration",
	GaugeInitial: 1300,
	GaugeMax:     2500,
	Capped:       true,
	EatHP:        30,
	EatGauge:     100,
	Multipliers:  map[string]float64{"water": 1.2, "electric": 2.0, "fire": 2.5, "grass": 1.5},
	Moves: []Move{
		{Name: "Surf", Weight: 1.5, Depletion: 100, Heal: 30},
		{Name: "Rain Dance", Weight: 1.0, Depletion: 50, Heal: 10},
		{Name: "Hydro Pump", Weight: 1.2, Depletion: 50, Heal: 25},
		{Name: "Hydro Canon", Weight: 1.0, Depletion: 50, Heal: 12},
	},
}

// GrassSpecies spends chlorophyll.
var GrassSpecies = &Species{
	Element:      Grass,
	Food:         "Berries",
	Cry:          "Rustle",
	GaugeName:    "chlorophyll",
	GaugeInitial: 600,
	GaugeMax:     1000,
	Capped:       true,
	EatHP:        30,
	EatGauge:     100,
	Multipliers:  map[string]float64{"water": 1.5, "electric": 2.5, "fire": 2.0, "grass": 1.2},
	Moves: []Move{
		{Name: "Leaf Storm", Weight: 1.5, Depletion: 100, Heal: 30},
		{Name: "Solar Beam", Weight: 1.0, Depletion: 50, Heal: 10},
		{Name: "Leech Seed", Weight: 0.5, Depletion: 25, Heal: 5},
		{Name: "Leave Blade", Weight: 1.0, Depletion: 50, Heal: 15},
	},
}

// ElectricSpecies spends voltage. Its gauge is not clamped at GaugeMax and
// eating restores no voltage.
var ElectricSpecies = &Species{
	Element:      Electric,
	Food:         "Candy",
	Cry:          "Zap",
	GaugeName:    "voltage",
	GaugeInitial: 3590,
	GaugeMax:     5000,
	Capped:       false,
	EatHP:        10,
	EatGauge:     0,
	Multipliers:  map[string]float64{"water": 2.5, "electric": 1.2, "fire": 1.5, "grass": 2.0},
	Moves: []Move{
		{Name: "Volt Tackle", Weight: 1.5, Depletion: 100, Heal: 30},
		{Name: "Electro Ball", Weight: 1.0, Depletion: 50, Heal: 5},
		{Name: "Thunder", Weight: 1.2, Depletion: 200, Heal: 15},
		{Name: "Thunder Punch", Weight: 1.0, Depletion: 100, Heal: 10},
	},
}

// SpeciesFor returns the species for e, or nil for an unknown element.
func SpeciesFor(e Element) *Species {
	switch e {
	case Fire:
		return FireSpecies
	case Water:
		return WaterSpecies
	case Grass:
		return GrassSpecies
	case Electric:
		return ElectricSpecies
	default:
		return nil
	}
}

// Package trainer groups creatures under named trainers and gym owners, and
// loads trainer rosters from YAML.
package trainer

import "github.com/cory-johannsen/pokebattle/internal/game/pokemon"

// Owner is the capability shared by Trainer and GymOwner.
type Owner interface {
	Name() string
	Pokemons() []*pokemon.Creature
}

// Trainer references an ordered collection of creatures. It does not own the
// creatures' lifecycle; the same creature may appear under several trainers.
type Trainer struct {
	name     string
	pokemons []*pokemon.Creature
}

// New creates a Trainer over pokemons. The slice is referenced, not copied.
func New(name string, pokemons []*pokemon.Creature) *Trainer {
	return &Trainer{name: name, pokemons: pokemons}
}

func (t *Trainer) Name() string { return t.name }

func (t *Trainer) SetName(name string) { t.name = name }

// Pokemons returns the trainer's creatures in order.
func (t *Trainer) Pokemons() []*pokemon.Creature { return t.pokemons }

func (t *Trainer) SetPokemons(pokemons []*pokemon.Creature) { t.pokemons = pokemons }

// GymOwner is a Trainer tied to a town.
type GymOwner struct {
	*Trainer
	town string
}

// NewGymOwner creates a GymOwner. The town cannot change afterwards.
func NewGymOwner(name, town string, pokemons []*pokemon.Creature) *GymOwner {
	return &GymOwner{Trainer: New(name, pokemons), town: town}
}

func (g *GymOwner) Town() string { return g.town }

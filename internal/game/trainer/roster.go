package trainer

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/cory-johannsen/pokebattle/internal/game/pokemon"
)

// CreatureSpec describes one creature in a roster file.
type CreatureSpec struct {
	Name    string `yaml:"name"`
	Element string `yaml:"element"`
	Level   int    `yaml:"level"`
	HP      int    `yaml:"hp"`
}

// Roster is a trainer definition loaded from YAML. A non-empty Town makes
// the trainer a gym owner.
type Roster struct {
	Name     string         `yaml:"name"`
	Town     string         `yaml:"town"`
	Pokemons []CreatureSpec `yaml:"pokemons"`
}

// Validate checks the roster's invariants.
//
// Postcondition: Returns nil iff Name is non-empty, at least one creature is
// listed, and every creature has a name, a known element and level >= 1;
// returns an error on the first violation otherwise.
func (r *Roster) Validate() error {
	if r.Name == "" {
		return fmt.Errorf("roster: name must not be empty")
	}
	if len(r.Pokemons) == 0 {
		return fmt.Errorf("roster %q: at least one pokemon is required", r.Name)
	}
	for i, p := range r.Pokemons {
		if p.Name == "" {
			return fmt.Errorf("roster %q: pokemon %d: name must not be empty", r.Name, i)
		}
		if _, err := pokemon.ParseElement(p.Element); err != nil {
			return fmt.Errorf("roster %q: pokemon %q: %w", r.Name, p.Name, err)
		}
		if p.Level < 1 {
			return fmt.Errorf("roster %q: pokemon %q: level must be >= 1", r.Name, p.Name)
		}
	}
	return nil
}

// IsGym reports whether the roster describes a gym owner.
func (r *Roster) IsGym() bool { return r.Town != "" }

// Build constructs fresh creatures for the roster and returns the Trainer,
// or a *GymOwner when Town is set.
//
// Precondition: r must have passed Validate; rules must be non-nil.
func (r *Roster) Build(rules *pokemon.Rules) (Owner, error) {
	mons := make([]*pokemon.Creature, 0, len(r.Pokemons))
	for _, p := range r.Pokemons {
		el, err := pokemon.ParseElement(p.Element)
		if err != nil {
			return nil, fmt.Errorf("roster %q: %w", r.Name, err)
		}
		c, err := pokemon.New(rules, el, p.Name, p.Level, p.HP)
		if err != nil {
			return nil, fmt.Errorf("roster %q: %w", r.Name, err)
		}
		mons = append(mons, c)
	}
	if r.IsGym() {
		return NewGymOwner(r.Name, r.Town, mons), nil
	}
	return New(r.Name, mons), nil
}

// LoadRosterFromBytes parses and validates a single roster.
func LoadRosterFromBytes(data []byte) (*Roster, error) {
	var r Roster
	if err := yaml.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("parsing roster YAML: %w", err)
	}
	if err := r.Validate(); err != nil {
		return nil, err
	}
	return &r, nil
}

// LoadRosters reads every *.yaml file in dir in lexicographic order.
//
// Precondition: dir must be a readable directory.
// Postcondition: Returns all rosters, or an error naming the first file that
// failed to read, parse or validate.
func LoadRosters(dir string) ([]*Roster, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading roster dir %q: %w", dir, err)
	}

	var names []string
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".yaml") {
			continue
		}
		names = append(names, e.Name())
	}
	sort.Strings(names)

	rosters := make([]*Roster, 0, len(names))
	for _, name := range names {
		path := filepath.Join(dir, name)
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading %q: %w", path, err)
		}
		r, err := LoadRosterFromBytes(data)
		if err != nil {
			return nil, fmt.Errorf("loading %q: %w", path, err)
		}
		rosters = append(rosters, r)
	}
	return rosters, nil
}

package trainer

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/cory-johannsen/pokebattle/internal/game/pokemon"
)

// Registry indexes trainers by case-insensitive name.
// All methods are safe for concurrent use.
type Registry struct {
	mu     sync.RWMutex
	owners map[string]Owner
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{owners: make(map[string]Owner)}
}

// Register adds o.
//
// Postcondition: Returns an error if a trainer with the same name exists.
func (r *Registry) Register(o Owner) error {
	key := strings.ToLower(o.Name())
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.owners[key]; exists {
		return fmt.Errorf("trainer %q already registered", o.Name())
	}
	r.owners[key] = o
	return nil
}

// Get looks up a trainer by name.
func (r *Registry) Get(name string) (Owner, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	o, ok := r.owners[strings.ToLower(name)]
	return o, ok
}

// All returns every registered trainer sorted by name.
//
// Postcondition: Returns a non-nil slice (may be empty).
func (r *Registry) All() []Owner {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Owner, 0, len(r.owners))
	for _, o := range r.owners {
		out = append(out, o)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name() < out[j].Name() })
	return out
}

// Len returns the number of registered trainers.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.owners)
}

// RegisterRosters builds each roster with rules and registers the result.
//
// Postcondition: Returns the first build or registration error; trainers
// registered before the failure remain registered.
func (r *Registry) RegisterRosters(rosters []*Roster, rules *pokemon.Rules) error {
	for _, ro := range rosters {
		o, err := ro.Build(rules)
		if err != nil {
			return err
		}
		if err := r.Register(o); err != nil {
			return err
		}
	}
	return nil
}

package pokemon_test

import (
	"go.uber.org/zap"

	"github.com/cory-johannsen/pokebattle/internal/game/dice"
	"github.com/cory-johannsen/pokebattle/internal/game/pokemon"
)

// fixedSrc always returns v, clamped into [0, n).
type fixedSrc struct{ v int }

func (f fixedSrc) Intn(n int) int {
	if f.v >= n {
		return n - 1
	}
	return f.v
}

// newRules accepts *testing.T and *rapid.T alike.
func newRules(t interface{ Helper() }, src dice.Source, matching pokemon.TypeMatching) (*pokemon.Rules, *pokemon.Recorder) {
	t.Helper()
	rec := &pokemon.Recorder{}
	roller := dice.NewLoggedRoller(src, zap.NewNop())
	return pokemon.NewRules(roller, rec, matching), rec
}

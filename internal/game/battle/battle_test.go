package battle_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
	"pgregory.net/rapid"

	"github.com/cory-johannsen/pokebattle/internal/game/battle"
	"github.com/cory-johannsen/pokebattle/internal/game/dice"
	"github.com/cory-johannsen/pokebattle/internal/game/pokemon"
	"github.com/cory-johannsen/pokebattle/internal/game/trainer"
)

// fixedSrc always returns v, clamped into [0, n).
type fixedSrc struct{ v int }

func (f fixedSrc) Intn(n int) int {
	if f.v >= n {
		return n - 1
	}
	return f.v
}

// maxRules rolls the top of every tier: 20 high, 10 low.
func maxRules() *pokemon.Rules {
	roller := dice.NewLoggedRoller(fixedSrc{v: 100}, zap.NewNop())
	return pokemon.NewRules(roller, nil, pokemon.MatchNormalized)
}

func TestRun_SingleKnockout(t *testing.T) {
	rules := maxRules()
	ash := trainer.New("Ash", []*pokemon.Creature{pokemon.NewFire(rules, "Charmander", 5, 50)})
	erika := trainer.New("Erika", []*pokemon.Creature{pokemon.NewGrass(rules, "Oddish", 3, 30)})

	res, err := battle.New(battle.Side{Owner: ash}, battle.Side{Owner: erika}, 0, zap.NewNop()).Run(context.Background())
	require.NoError(t, err)

	// Inferno, low tier: floor(2.5 × 10 × 1.5) = 37 against 30 HP.
	require.Len(t, res.Events, 1)
	ev := res.Events[0]
	assert.Equal(t, 1, ev.Round)
	assert.Equal(t, "Ash", ev.Owner)
	assert.Equal(t, "Inferno", ev.Result.Move.Name)
	assert.Equal(t, 37, ev.Result.Damage)
	assert.True(t, ev.Benched)
	assert.Equal(t, "Ash's Charmander used Inferno on Oddish for 37 damage. Oddish fainted!", ev.Narrative)

	assert.Equal(t, 1, res.Rounds)
	assert.False(t, res.Draw())
	assert.Equal(t, "Ash", res.Winner.Name())
	// Attacker was under the heal threshold: 50 + 30.
	assert.Equal(t, 80, ash.Pokemons()[0].HP())
}

func TestRun_ReplacementFightsBackSameRound(t *testing.T) {
	rules := maxRules()
	ash := trainer.New("Ash", []*pokemon.Creature{pokemon.NewFire(rules, "Charmander", 5, 200)})
	misty := trainer.New("Misty", []*pokemon.Creature{
		pokemon.NewGrass(rules, "Oddish", 3, 10),
		pokemon.NewWater(rules, "Squirt", 4, 10),
	})

	res, err := battle.New(battle.Side{Owner: ash}, battle.Side{Owner: misty}, 10, zap.NewNop()).Run(context.Background())
	require.NoError(t, err)
	require.GreaterOrEqual(t, len(res.Events), 2)

	assert.Equal(t, "Oddish", res.Events[0].Defender)
	assert.True(t, res.Events[0].Benched)

	// Squirt steps in and answers with Surf, high tier: floor(2.5 × 20 × 1.5).
	second := res.Events[1]
	assert.Equal(t, 1, second.Round)
	assert.Equal(t, "Squirt", second.Attacker)
	assert.Equal(t, "Charmander", second.Defender)
	assert.Equal(t, 75, second.Result.Damage)
	assert.False(t, second.Benched)
}

func TestRun_DrawAtRoundLimit(t *testing.T) {
	rules := maxRules()
	a := trainer.New("Volt", []*pokemon.Creature{pokemon.NewElectric(rules, "Pika", 9, 100000)})
	b := trainer.New("Surge", []*pokemon.Creature{pokemon.NewElectric(rules, "Raichu", 9, 100000)})

	res, err := battle.New(battle.Side{Owner: a}, battle.Side{Owner: b}, 3, zap.NewNop()).Run(context.Background())
	require.NoError(t, err)
	assert.True(t, res.Draw())
	assert.Nil(t, res.Winner)
	assert.Equal(t, 3, res.Rounds)
	assert.Len(t, res.Events, 6)
	for i, ev := range res.Events {
		assert.Equal(t, i/2+1, ev.Round)
	}
	assert.Equal(t, "Volt", res.Events[0].Owner)
	assert.Equal(t, "Surge", res.Events[1].Owner)
}

func TestRun_DecidedBeforeFirstRound(t *testing.T) {
	rules := maxRules()
	fainted := pokemon.NewWater(rules, "Squirt", 1, 0)
	ash := trainer.New("Ash", []*pokemon.Creature{pokemon.NewFire(rules, "Charmander", 5, 50)})
	gary := trainer.New("Gary", []*pokemon.Creature{fainted})

	res, err := battle.New(battle.Side{Owner: ash}, battle.Side{Owner: gary}, 0, zap.NewNop()).Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, res.Rounds)
	assert.Empty(t, res.Events)
	assert.Equal(t, "Ash", res.Winner.Name())
}

func TestRun_BothSidesEmptyIsDraw(t *testing.T) {
	res, err := battle.New(
		battle.Side{Owner: trainer.New("A", nil)},
		battle.Side{Owner: trainer.New("B", nil)},
		0, zap.NewNop(),
	).Run(context.Background())
	require.NoError(t, err)
	assert.True(t, res.Draw())
	assert.Equal(t, 0, res.Rounds)
}

func TestRun_GymOwnerCanWin(t *testing.T) {
	rules := maxRules()
	brock := trainer.NewGymOwner("Brock", "Pewter City", []*pokemon.Creature{pokemon.NewWater(rules, "Starmie", 20, 300)})
	ash := trainer.New("Ash", []*pokemon.Creature{pokemon.NewFire(rules, "Charmander", 5, 40)})

	res, err := battle.New(battle.Side{Owner: ash}, battle.Side{Owner: brock}, 0, zap.NewNop()).Run(context.Background())
	require.NoError(t, err)
	require.NotNil(t, res.Winner)
	gym, ok := res.Winner.(*trainer.GymOwner)
	require.True(t, ok)
	assert.Equal(t, "Pewter City", gym.Town())
}

func TestRun_CancelledContext(t *testing.T) {
	rules := maxRules()
	ash := trainer.New("Ash", []*pokemon.Creature{pokemon.NewFire(rules, "Charmander", 5, 500)})
	gary := trainer.New("Gary", []*pokemon.Creature{pokemon.NewWater(rules, "Squirt", 5, 500)})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	res, err := battle.New(battle.Side{Owner: ash}, battle.Side{Owner: gary}, 0, zap.NewNop()).Run(ctx)
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.Canceled))
	assert.Empty(t, res.Events)
}

func TestRun_CancelledContextLogsAbort(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	rules := maxRules()
	ash := trainer.New("Ash", []*pokemon.Creature{pokemon.NewFire(rules, "Charmander", 5, 500)})
	gary := trainer.New("Gary", []*pokemon.Creature{pokemon.NewWater(rules, "Squirt", 5, 500)})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := battle.New(battle.Side{Owner: ash}, battle.Side{Owner: gary}, 0, zap.New(core)).Run(ctx)
	require.Error(t, err)

	assert.Equal(t, 1, logs.FilterMessage("battle started").Len())
	aborted := logs.FilterMessage("battle aborted").All()
	require.Len(t, aborted, 1)
	assert.EqualValues(t, 1, aborted[0].ContextMap()["round"])
	assert.Zero(t, logs.FilterMessage("battle finished").Len())
}

func TestRun_UnknownMoveIsError(t *testing.T) {
	rules := maxRules()
	bogus := battle.StrategyFunc(func(string, *pokemon.Creature, *pokemon.Creature) string { return "Splash" })
	ash := trainer.New("Ash", []*pokemon.Creature{pokemon.NewFire(rules, "Charmander", 5, 50)})
	gary := trainer.New("Gary", []*pokemon.Creature{pokemon.NewWater(rules, "Squirt", 5, 50)})

	_, err := battle.New(battle.Side{Owner: ash, Strategy: bogus}, battle.Side{Owner: gary}, 0, zap.NewNop()).Run(context.Background())
	require.Error(t, err)
	assert.True(t, errors.Is(err, pokemon.ErrUnknownAttack))
}

func TestRun_LogsStartAndFinish(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	rules := maxRules()
	ash := trainer.New("Ash", []*pokemon.Creature{pokemon.NewFire(rules, "Charmander", 5, 50)})
	erika := trainer.New("Erika", []*pokemon.Creature{pokemon.NewGrass(rules, "Oddish", 3, 30)})

	_, err := battle.New(battle.Side{Owner: ash}, battle.Side{Owner: erika}, 0, zap.New(core)).Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, logs.FilterMessage("battle started").Len())
	assert.Equal(t, 1, logs.FilterMessage("battle exchange").Len())
	finished := logs.FilterMessage("battle finished").All()
	require.Len(t, finished, 1)
	assert.Equal(t, "Ash", finished[0].ContextMap()["winner"])
}

func TestNew_Preconditions(t *testing.T) {
	ash := trainer.New("Ash", nil)
	assert.Panics(t, func() { battle.New(battle.Side{}, battle.Side{Owner: ash}, 0, zap.NewNop()) })
	assert.Panics(t, func() { battle.New(battle.Side{Owner: ash}, battle.Side{}, 0, zap.NewNop()) })
	assert.Panics(t, func() { battle.New(battle.Side{Owner: ash}, battle.Side{Owner: ash}, 0, nil) })
}

// TestRun_Property checks round and bench bookkeeping for random rosters.
func TestRun_Property(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		seed := rapid.Int64Range(1, 1<<40).Draw(rt, "seed")
		roller := dice.NewLoggedRoller(dice.NewSeededSource(seed), zap.NewNop())
		rules := pokemon.NewRules(roller, nil, pokemon.MatchNormalized)

		roster := func(label string) []*pokemon.Creature {
			n := rapid.IntRange(0, 3).Draw(rt, label+"_size")
			out := make([]*pokemon.Creature, n)
			for i := range out {
				e := rapid.SampledFrom(pokemon.Elements).Draw(rt, label+"_element")
				hp := rapid.IntRange(1, 150).Draw(rt, label+"_hp")
				c, err := pokemon.New(rules, e, label, 1, hp)
				if err != nil {
					rt.Fatalf("creating creature: %v", err)
				}
				out[i] = c
			}
			return out
		}
		a := trainer.New("A", roster("a"))
		b := trainer.New("B", roster("b"))
		maxRounds := rapid.IntRange(1, 30).Draw(rt, "max_rounds")

		res, err := battle.New(battle.Side{Owner: a}, battle.Side{Owner: b}, maxRounds, zap.NewNop()).Run(context.Background())
		if err != nil {
			rt.Fatalf("unexpected error: %v", err)
		}
		if res.Rounds > maxRounds {
			rt.Fatalf("rounds %d exceeds limit %d", res.Rounds, maxRounds)
		}
		if len(res.Events) > 2*res.Rounds {
			rt.Fatalf("%d events in %d rounds", len(res.Events), res.Rounds)
		}
		benched := 0
		for _, ev := range res.Events {
			if ev.Benched {
				benched++
			}
		}
		if benched > len(a.Pokemons())+len(b.Pokemons()) {
			rt.Fatalf("benched %d of %d creatures", benched, len(a.Pokemons())+len(b.Pokemons()))
		}
		if res.Winner != nil {
			loser := a
			if res.Winner.Name() == "A" {
				loser = b
			}
			for _, c := range loser.Pokemons() {
				if c.HP() > 0 {
					rt.Fatalf("loser %s still has %s at %d HP", loser.Name(), c.Name(), c.HP())
				}
			}
		}
	})
}

// Package battle runs trainer-versus-trainer battles: each round the two
// active creatures trade one attack each until one side has nothing left to
// send out.
package battle

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/cory-johannsen/pokebattle/internal/game/pokemon"
	"github.com/cory-johannsen/pokebattle/internal/game/trainer"
)

// DefaultMaxRounds bounds a battle when no limit is configured.
const DefaultMaxRounds = 100

// Side is one participant: a trainer and how it picks moves.
type Side struct {
	Owner    trainer.Owner
	Strategy Strategy
}

// RoundEvent records one resolved attack.
type RoundEvent struct {
	Round    int
	Owner    string
	Attacker string
	Defender string
	Result   pokemon.AttackResult
	// Benched reports that the defender fainted and left the battle.
	Benched   bool
	Narrative string
}

// Result is the outcome of Run.
type Result struct {
	// Winner is nil on a draw.
	Winner trainer.Owner
	Rounds int
	Events []RoundEvent
}

// Draw reports whether neither side won.
func (r Result) Draw() bool { return r.Winner == nil }

// Battle holds the state of a single battle. A Battle is run once and is not
// safe for concurrent use; the creatures it drives are.
type Battle struct {
	challenger Side
	opponent   Side
	maxRounds  int
	logger     *zap.Logger
	benched    map[string]bool
}

// New creates a battle between challenger and opponent. A nil Strategy
// defaults to FirstMove; maxRounds <= 0 defaults to DefaultMaxRounds.
//
// Precondition: both Owners and logger must be non-nil.
func New(challenger, opponent Side, maxRounds int, logger *zap.Logger) *Battle {
	if challenger.Owner == nil || opponent.Owner == nil {
		panic("battle: New requires two non-nil owners")
	}
	if logger == nil {
		panic("battle: New requires a non-nil logger")
	}
	if challenger.Strategy == nil {
		challenger.Strategy = &FirstMove{}
	}
	if opponent.Strategy == nil {
		opponent.Strategy = &FirstMove{}
	}
	if maxRounds <= 0 {
		maxRounds = DefaultMaxRounds
	}
	return &Battle{
		challenger: challenger,
		opponent:   opponent,
		maxRounds:  maxRounds,
		logger:     logger,
		benched:    make(map[string]bool),
	}
}

// Active returns the first creature of o with HP above zero that has not
// been benched, or nil.
func (b *Battle) Active(o trainer.Owner) *pokemon.Creature {
	for _, c := range o.Pokemons() {
		if c == nil || b.benched[c.ID()] {
			continue
		}
		if c.HP() > 0 {
			return c
		}
	}
	return nil
}

// decided reports whether the battle is over and, if so, who won.
func (b *Battle) decided() (trainer.Owner, bool) {
	ch := b.Active(b.challenger.Owner) != nil
	op := b.Active(b.opponent.Owner) != nil
	switch {
	case ch && op:
		return nil, false
	case ch:
		return b.challenger.Owner, true
	case op:
		return b.opponent.Owner, true
	default:
		return nil, true
	}
}

// Run plays rounds until one side has no active creature or the round limit
// is reached. In each round the challenger's active creature attacks first;
// a defender at or below zero HP is benched immediately, and the replacement
// fights back in the same round.
//
// Postcondition: Returns the result so far and a non-nil error if ctx is
// cancelled or a strategy names a move the attacker does not know.
func (b *Battle) Run(ctx context.Context) (Result, error) {
	var res Result
	b.logger.Info("battle started",
		zap.String("challenger", b.challenger.Owner.Name()),
		zap.String("opponent", b.opponent.Owner.Name()),
		zap.Int("max_rounds", b.maxRounds),
	)

	turns := [2][2]Side{
		{b.challenger, b.opponent},
		{b.opponent, b.challenger},
	}
	for round := 1; round <= b.maxRounds; round++ {
		if winner, done := b.decided(); done {
			res.Winner = winner
			b.finish(res)
			return res, nil
		}
		if err := ctx.Err(); err != nil {
			b.logger.Info("battle aborted",
				zap.Int("round", round),
				zap.Int("attacks", len(res.Events)),
				zap.Error(err),
			)
			return res, fmt.Errorf("battle: round %d: %w", round, err)
		}
		res.Rounds = round
		for _, turn := range turns {
			ev, ok, err := b.exchange(round, turn[0], turn[1])
			if err != nil {
				return res, err
			}
			if !ok {
				break
			}
			res.Events = append(res.Events, ev)
		}
	}
	res.Winner, _ = b.decided()
	b.finish(res)
	return res, nil
}

// exchange resolves one attack from attacker's active creature on
// defender's. ok is false when either side has nobody left.
func (b *Battle) exchange(round int, attacker, defender Side) (RoundEvent, bool, error) {
	atk := b.Active(attacker.Owner)
	def := b.Active(defender.Owner)
	if atk == nil || def == nil {
		return RoundEvent{}, false, nil
	}
	owner := attacker.Owner.Name()
	move := attacker.Strategy.ChooseAttack(owner, atk, def)
	r, err := atk.Attack(move, def)
	if err != nil {
		return RoundEvent{}, false, fmt.Errorf("battle: round %d: %s: %w", round, owner, err)
	}
	ev := RoundEvent{
		Round:    round,
		Owner:    owner,
		Attacker: atk.Name(),
		Defender: def.Name(),
		Result:   r,
	}
	ev.Narrative = fmt.Sprintf("%s's %s used %s on %s for %d damage.", owner, atk.Name(), r.Move.Name, def.Name(), r.Damage)
	if r.Fainted {
		b.benched[def.ID()] = true
		ev.Benched = true
		ev.Narrative += fmt.Sprintf(" %s fainted!", def.Name())
	}
	b.logger.Debug("battle exchange",
		zap.Int("round", round),
		zap.String("owner", owner),
		zap.String("attacker", atk.Name()),
		zap.String("defender", def.Name()),
		zap.String("move", r.Move.Name),
		zap.Int("damage", r.Damage),
		zap.Int("defender_hp", r.DefenderHP),
	)
	return ev, true, nil
}

func (b *Battle) finish(res Result) {
	winner := "draw"
	if res.Winner != nil {
		winner = res.Winner.Name()
	}
	b.logger.Info("battle finished",
		zap.String("winner", winner),
		zap.Int("rounds", res.Rounds),
		zap.Int("attacks", len(res.Events)),
	)
}

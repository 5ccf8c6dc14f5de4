package pokemon

import "github.com/cory-johannsen/pokebattle/internal/game/dice"

// Rules carries the collaborators every creature needs: the damage roller,
// the narration sink and the type-matching mode.
type Rules struct {
	Roller   *dice.Roller
	Sink     EventSink
	Matching TypeMatching
}

// NewRules builds Rules. A nil sink is replaced with NopSink.
//
// Precondition: roller must be non-nil.
func NewRules(roller *dice.Roller, sink EventSink, matching TypeMatching) *Rules {
	if roller == nil {
		panic("pokemon: NewRules requires a non-nil roller")
	}
	if sink == nil {
		sink = NopSink{}
	}
	return &Rules{Roller: roller, Sink: sink, Matching: matching}
}

package pokemon

import (
	"sync"

	"go.uber.org/zap"
)

// Action names the kind of narration event.
type Action string

const (
	ActionSpeaks      Action = "speaks"
	ActionEats        Action = "eats"
	ActionFeed        Action = "feed"
	ActionSpit        Action = "spit"
	ActionLevelUp     Action = "level_up"
	ActionHeal        Action = "heal"
	ActionFullyHealed Action = "fully_healed"
	ActionAttack      Action = "attack"
	ActionHit         Action = "hit"
	ActionFainted     Action = "fainted"
)

// Event is one structured narration record.
type Event struct {
	ActorID string
	Actor   string
	Action  Action
	// Target is the defender's name for attacks, the food for feeding, or
	// the move name on attack events when no defender applies.
	Target string
	Move   string
	// Amount is the damage dealt, HP healed or level reached.
	Amount int
	// HP is the actor's hit points after the event.
	HP int
}

// EventSink receives narration events. Emit is called while the emitting
// creature is locked; implementations must not call back into creatures.
type EventSink interface {
	Emit(Event)
}

// NopSink discards all events.
type NopSink struct{}

// Emit implements EventSink.
func (NopSink) Emit(Event) {}

// Recorder keeps every event in memory. It is safe for concurrent use.
type Recorder struct {
	mu     sync.Mutex
	events []Event
}

// Emit implements EventSink.
func (r *Recorder) Emit(e Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
}

// Events returns a snapshot of recorded events.
func (r *Recorder) Events() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Event, len(r.events))
	copy(out, r.events)
	return out
}

// Actions returns the recorded actions in order.
func (r *Recorder) Actions() []Action {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Action, len(r.events))
	for i, e := range r.events {
		out[i] = e.Action
	}
	return out
}

// Reset drops all recorded events.
func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = nil
}

// LogSink writes events to a zap logger at info level.
type LogSink struct {
	logger *zap.Logger
}

// NewLogSink creates a LogSink.
//
// Precondition: logger must be non-nil.
func NewLogSink(logger *zap.Logger) *LogSink {
	return &LogSink{logger: logger}
}

// Emit implements EventSink.
func (s *LogSink) Emit(e Event) {
	fields := []zap.Field{
		zap.String("actor", e.Actor),
		zap.String("action", string(e.Action)),
		zap.Int("amount", e.Amount),
		zap.Int("hp", e.HP),
	}
	if e.Target != "" {
		fields = append(fields, zap.String("target", e.Target))
	}
	if e.Move != "" {
		fields = append(fields, zap.String("move", e.Move))
	}
	s.logger.Info("battle event", fields...)
}

// MultiSink fans each event out to every sink in order.
type MultiSink []EventSink

// Emit implements EventSink.
func (m MultiSink) Emit(e Event) {
	for _, s := range m {
		s.Emit(e)
	}
}

package trace

import (
	"sync"
	"time"

	"github.com/funvibe/callinfer/internal/logging"
)

// Kind identifies a completion event.
type Kind string

const (
	RunStarted       Kind = "run-started"
	VariableFixed    Kind = "variable-fixed"
	VariableFailed   Kind = "variable-failed"
	ArgumentPrepared Kind = "argument-prepared"
	ArgumentAnalyzed Kind = "argument-analyzed"
	RunFinished      Kind = "run-finished"
)

// Event is one step of a completion run.
type Event struct {
	Kind    Kind
	Subject string
	Detail  string
	At      time.Time
}

// Tracer receives completion events. Implementations must not call back into
// the completer.
type Tracer interface {
	Record(e Event)
}

// Nop discards events.
type Nop struct{}

func (Nop) Record(Event) {}

// LogTracer prints events through the logging package at verbose level.
type LogTracer struct{}

func (LogTracer) Record(e Event) {
	if e.Detail == "" {
		logging.LogTrace(string(e.Kind), "%s", e.Subject)
		return
	}
	logging.LogTrace(string(e.Kind), "%s: %s", e.Subject, e.Detail)
}

// Multi fans an event out to several tracers in order.
type Multi []Tracer

func (m Multi) Record(e Event) {
	for _, t := range m {
		t.Record(e)
	}
}

// Recorder keeps events in memory.
type Recorder struct {
	mu     sync.Mutex
	events []Event
}

func (r *Recorder) Record(e Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
}

// Events returns a copy of the recorded events.
func (r *Recorder) Events() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	result := make([]Event, len(r.events))
	copy(result, r.events)
	return result
}

// OfKind returns the recorded events of kind k.
func (r *Recorder) OfKind(k Kind) []Event {
	var result []Event
	for _, e := range r.Events() {
		if e.Kind == k {
			result = append(result, e)
		}
	}
	return result
}

// Package event defines the messages mini-games send to the quest
// dispatcher. Mini-games only know this package; they never touch the
// tracker or the stage controller directly.
package event

import (
	"context"
	"time"
)

// Advance says how the quest moves on once a stage completes.
type Advance int

const (
	// OnNext waits for the visitor to acknowledge the completion.
	OnNext Advance = iota
	// Auto advances by itself after Completed.Delay.
	Auto
	// Terminal jumps straight to the final stage.
	Terminal
)

func (a Advance) String() string {
	switch a {
	case OnNext:
		return "on-next"
	case Auto:
		return "auto"
	case Terminal:
		return "terminal"
	default:
		return "unknown"
	}
}

// Event is either Revealed or Completed.
type Event interface {
	StageID() int
}

// Revealed asks for slots to be revealed without completing the stage,
// e.g. a single pickup in the driving game.
type Revealed struct {
	Stage   int
	Indices []int
}

// StageID implements Event.
func (e Revealed) StageID() int { return e.Stage }

// Completed is sent exactly once when a mini-game reaches its success
// condition.
type Completed struct {
	Stage   int
	Indices []int
	Advance Advance
	Delay   time.Duration // only for Auto
}

// StageID implements Event.
func (e Completed) StageID() int { return e.Stage }

// Sink consumes events.
type Sink interface {
	Emit(ctx context.Context, ev Event)
}

// SinkFunc adapts a function to Sink.
type SinkFunc func(ctx context.Context, ev Event)

// Emit calls f.
func (f SinkFunc) Emit(ctx context.Context, ev Event) { f(ctx, ev) }

// Recorder collects events in memory.
type Recorder struct {
	Events []Event
}

// Emit appends ev.
func (r *Recorder) Emit(_ context.Context, ev Event) {
	r.Events = append(r.Events, ev)
}

// Completions returns the Completed events seen so far.
func (r *Recorder) Completions() []Completed {
	var out []Completed
	for _, ev := range r.Events {
		if c, ok := ev.(Completed); ok {
			out = append(out, c)
		}
	}
	return out
}

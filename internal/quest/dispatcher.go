package quest

import (
	"context"

	"valentinequest/internal/logging"
	"valentinequest/internal/quest/event"
)

// dispatcher is the single consumer of mini-game events. It runs with the
// quest lock held.
type dispatcher struct {
	q *Quest
}

// Emit implements event.Sink.
func (d *dispatcher) Emit(ctx context.Context, ev event.Event) {
	q := d.q
	stage := Stage(ev.StageID())
	switch e := ev.(type) {
	case event.Revealed:
		q.tracker.RevealLetters(ctx, stage, e.Indices)

	case event.Completed:
		q.tracker.RevealLetters(ctx, stage, e.Indices)
		if !q.controller.complete(stage) {
			return
		}
		logging.Info("Session %s completed %s", q.h.key, stage)
		if stage != q.controller.Current() {
			return
		}
		switch e.Advance {
		case event.OnNext:
		case event.Auto:
			gen := q.generation
			q.scheduler.After(e.Delay, func() { q.autoAdvance(gen, stage) })
		case event.Terminal:
			if err := q.controller.GoToStage(ctx, StageFinal); err != nil {
				logging.Warn("Session %s could not finish the quest: %v", q.h.key, err)
			}
		}

	default:
		logging.Warn("Ignoring unknown event %T for session %s", ev, q.h.key)
	}
}

// autoAdvance fires from a timer after a scripted sequence. It only acts if
// the quest is still where it was when the timer was set.
func (q *Quest) autoAdvance(gen int, from Stage) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if gen != q.generation || q.controller.Current() != from {
		return
	}
	if err := q.controller.GoToStage(context.Background(), from+1); err != nil {
		logging.Warn("Session %s auto-advance from %s failed: %v", q.h.key, from, err)
	}
}

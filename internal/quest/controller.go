package quest

import (
	"context"
	"fmt"

	"valentinequest/internal/logging"
	"valentinequest/internal/metrics"
)

// initializer sets up a stage's mini-game. It runs at most once per quest
// lifetime.
type initializer func(ctx context.Context)

// Controller moves the quest forward one stage at a time. Each stage's
// status is tracked here rather than in per-game flags.
type Controller struct {
	h        *holder
	tracker  *Tracker
	active   Stage
	status   [StageCount]Status
	inits    map[Stage]initializer
	initRuns [StageCount]int
}

func newController(h *holder, t *Tracker, inits map[Stage]initializer) *Controller {
	return &Controller{h: h, tracker: t, inits: inits}
}

// Current returns the stage the visitor is on.
func (c *Controller) Current() Stage {
	return Stage(c.h.state.CurrentStage)
}

// GoToStage makes n the current stage: it persists the move, shows only
// n's view, toggles the tracker and runs n's initializer if it has not run
// yet. Re-entering the current stage is a no-op apart from the persist.
func (c *Controller) GoToStage(ctx context.Context, n Stage) error {
	if !n.Valid() {
		return fmt.Errorf("%w: %d", ErrUnknownStage, int(n))
	}
	prev := c.Current()
	if n < prev {
		return fmt.Errorf("%w: %s -> %s", ErrBackwardTransition, prev, n)
	}

	c.h.state.CurrentStage = int(n)
	c.h.persist(ctx)

	c.active = n
	c.tracker.setVisible(n.TrackerVisible())

	if c.status[n] == StatusUninitialized {
		c.status[n] = StatusActive
		if init, ok := c.inits[n]; ok {
			c.initRuns[n]++
			init(ctx)
		}
	}
	if n != prev {
		metrics.ObserveTransition(int(n))
		logging.Info("Session %s moved from %s to %s", c.h.key, prev, n)
	}
	return nil
}

// complete marks stage as done and reports whether it was not done before.
func (c *Controller) complete(stage Stage) bool {
	if !stage.Valid() || c.status[stage] == StatusCompleted {
		return false
	}
	c.status[stage] = StatusCompleted
	return true
}

// Status returns the lifecycle status of stage.
func (c *Controller) Status(stage Stage) Status {
	if !stage.Valid() {
		return StatusUninitialized
	}
	return c.status[stage]
}

// ActiveView returns the only stage whose view is shown.
func (c *Controller) ActiveView() Stage {
	return c.active
}

// Views reports, per stage, whether its view is shown. Exactly one entry is
// true.
func (c *Controller) Views() [StageCount]bool {
	var v [StageCount]bool
	v[c.active] = true
	return v
}

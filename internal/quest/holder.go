package quest

import (
	"context"

	"valentinequest/internal/logging"
	"valentinequest/internal/progress"
)

// holder owns the visitor's durable progress and writes it back to the
// store after every mutation.
type holder struct {
	key   string
	store progress.Store
	state progress.State
}

func (h *holder) load(ctx context.Context) bool {
	s, ok := h.store.Load(ctx, h.key)
	h.state = s
	return ok
}

// persist saves the current state. A failed write is logged and the quest
// carries on with its in-memory state.
func (h *holder) persist(ctx context.Context) {
	if err := h.store.Save(ctx, h.key, h.state); err != nil {
		logging.Warn("Failed to persist progress for session %s: %v", h.key, err)
	}
}

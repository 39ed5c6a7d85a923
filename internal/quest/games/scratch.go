package games

import (
	"context"

	"valentinequest/internal/quest/event"
)

// ScratchStage is the stage the scratch card belongs to.
const ScratchStage = 3

// ScratchConfig sizes the scratch grid. Threshold is the fraction of cells
// that must be cleared.
type ScratchConfig struct {
	Cols      int
	Rows      int
	Threshold float64
}

// DefaultScratchConfig returns a 20x10 card that reveals at 60%.
func DefaultScratchConfig() ScratchConfig {
	return ScratchConfig{Cols: 20, Rows: 10, Threshold: 0.6}
}

// Scratch is a scratch card. The pointer drags over the card and the client
// reports which grid cells were cleared.
type Scratch struct {
	cfg     ScratchConfig
	sink    event.Sink
	slots   []int
	cleared []bool
	count   int
	done    bool
}

// NewScratch returns a fully covered card.
func NewScratch(sink event.Sink, slots []int, cfg ScratchConfig) *Scratch {
	return &Scratch{cfg: cfg, sink: sink, slots: slots, cleared: make([]bool, cfg.Cols*cfg.Rows)}
}

// Clear marks cells as scratched and returns the cleared fraction. Unknown
// cells are ignored.
func (s *Scratch) Clear(ctx context.Context, cells []int) float64 {
	for _, c := range cells {
		if c < 0 || c >= len(s.cleared) || s.cleared[c] {
			continue
		}
		s.cleared[c] = true
		s.count++
	}
	cov := s.Coverage()
	if !s.done && cov >= s.cfg.Threshold {
		s.done = true
		s.sink.Emit(ctx, event.Completed{Stage: ScratchStage, Indices: s.slots, Advance: event.OnNext})
	}
	return cov
}

// Coverage is the fraction of cleared cells.
func (s *Scratch) Coverage() float64 {
	if len(s.cleared) == 0 {
		return 0
	}
	return float64(s.count) / float64(len(s.cleared))
}

// Done reports whether the card has been revealed.
func (s *Scratch) Done() bool { return s.done }

// ScratchView is the client-facing snapshot of the card.
type ScratchView struct {
	Cols     int     `json:"cols"`
	Rows     int     `json:"rows"`
	Coverage float64 `json:"coverage"`
	Done     bool    `json:"done"`
}

// View returns a snapshot.
func (s *Scratch) View() ScratchView {
	return ScratchView{Cols: s.cfg.Cols, Rows: s.cfg.Rows, Coverage: s.Coverage(), Done: s.done}
}

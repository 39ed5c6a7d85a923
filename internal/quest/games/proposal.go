package games

import (
	"context"

	"valentinequest/internal/quest/event"
)

// ProposalStage is the stage of the proposal animation.
const ProposalStage = 5

// ProposalConfig sets how far the pull control must travel.
type ProposalConfig struct {
	Threshold float64 // fraction of the track, 0..1
}

// DefaultProposalConfig requires a nearly full pull.
func DefaultProposalConfig() ProposalConfig {
	return ProposalConfig{Threshold: 0.9}
}

// Proposal is the draggable "pull" control. Pulling it far enough plays the
// final reveal and ends the quest.
type Proposal struct {
	cfg      ProposalConfig
	sink     event.Sink
	slots    []int
	pulled   float64
	accepted bool
}

// NewProposal returns a proposal with the control at rest.
func NewProposal(sink event.Sink, slots []int, cfg ProposalConfig) *Proposal {
	return &Proposal{cfg: cfg, sink: sink, slots: slots}
}

// Pull records how far the control was dragged and reports whether the
// proposal has been accepted.
func (p *Proposal) Pull(ctx context.Context, fraction float64) bool {
	fraction = min(max(fraction, 0), 1)
	if fraction > p.pulled {
		p.pulled = fraction
	}
	if !p.accepted && fraction >= p.cfg.Threshold {
		p.accepted = true
		p.sink.Emit(ctx, event.Completed{Stage: ProposalStage, Indices: p.slots, Advance: event.Terminal})
	}
	return p.accepted
}

// Accepted reports whether the pull completed.
func (p *Proposal) Accepted() bool { return p.accepted }

// ProposalView is the client-facing snapshot.
type ProposalView struct {
	Pulled   float64 `json:"pulled"`
	Accepted bool    `json:"accepted"`
}

// View returns a snapshot.
func (p *Proposal) View() ProposalView {
	return ProposalView{Pulled: p.pulled, Accepted: p.accepted}
}

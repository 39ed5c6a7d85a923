package quest

import (
	"valentinequest/internal/quest/games"
)

// View is the client-facing snapshot of a quest. Only the current stage's
// game is filled in.
type View struct {
	Stage          Stage             `json:"stage"`
	StageName      string            `json:"stageName"`
	ActiveView     Stage             `json:"activeView"`
	TrackerVisible bool              `json:"trackerVisible"`
	Slots          []SlotView        `json:"slots"`
	Revealed       []int             `json:"revealed"`
	Statuses       map[string]Status `json:"statuses"`
	CanNext        bool              `json:"canNext"`

	Driving  *games.DrivingView  `json:"driving,omitempty"`
	Puzzle   *games.PuzzleView   `json:"puzzle,omitempty"`
	Scratch  *games.ScratchView  `json:"scratch,omitempty"`
	Quiz     *games.QuizView     `json:"quiz,omitempty"`
	Proposal *games.ProposalView `json:"proposal,omitempty"`
	Photos   [][]string          `json:"photos,omitempty"`
}

// Snapshot renders the quest. Rendering consumes pending tracker pulses.
func (q *Quest) Snapshot() View {
	q.mu.Lock()
	defer q.mu.Unlock()

	cur := q.controller.Current()
	v := View{
		Stage:          cur,
		StageName:      cur.String(),
		ActiveView:     q.controller.ActiveView(),
		TrackerVisible: q.tracker.Visible(),
		Slots:          q.tracker.Render(),
		Revealed:       q.h.state.Clone().RevealedIndices,
		Statuses:       make(map[string]Status, StageCount),
	}
	for s := StageIntro; s <= StageFinal; s++ {
		v.Statuses[s.String()] = q.controller.Status(s)
	}
	switch cur {
	case StageDriving, StagePuzzle, StageScratch:
		v.CanNext = q.controller.Status(cur) == StatusCompleted
	}

	switch {
	case cur == StageDriving && q.driving != nil:
		dv := q.driving.View()
		v.Driving = &dv
	case cur == StagePuzzle && q.puzzle != nil:
		pv := q.puzzle.View()
		v.Puzzle = &pv
	case cur == StageScratch && q.scratch != nil:
		sv := q.scratch.View()
		v.Scratch = &sv
	case cur == StageQuiz:
		qv := q.quiz.View()
		v.Quiz = &qv
	case cur == StageProposal && q.proposal != nil:
		pv := q.proposal.View()
		v.Proposal = &pv
	case cur == StageFinal && q.photos != nil:
		v.Photos = q.photos.Rows()
	}
	return v
}

package quest

import (
	"context"
	"fmt"
	"sync"
	"time"

	"valentinequest/internal/logging"
	"valentinequest/internal/phrase"
	"valentinequest/internal/progress"
	"valentinequest/internal/quest/games"
)

// Options configures the mini-games of a quest.
type Options struct {
	Phrase        phrase.Phrase
	Scheduler     Scheduler
	Driving       games.DrivingConfig
	Puzzle        games.PuzzleConfig
	Scratch       games.ScratchConfig
	Quiz          games.QuizConfig
	Proposal      games.ProposalConfig
	PhotoManifest string
	PhotoColumns  int
}

// DefaultOptions returns the stock quest on real timers.
func DefaultOptions() Options {
	return Options{
		Phrase:       phrase.Default(),
		Scheduler:    TimerScheduler(),
		Driving:      games.DefaultDrivingConfig(),
		Puzzle:       games.DefaultPuzzleConfig(),
		Scratch:      games.DefaultScratchConfig(),
		Quiz:         games.DefaultQuizConfig(),
		Proposal:     games.DefaultProposalConfig(),
		PhotoColumns: 4,
	}
}

// Quest is one visitor's run through the stages. All methods are safe for
// concurrent use; they serialize on an internal lock, which stands in for
// the single UI thread of a browser page.
type Quest struct {
	mu         sync.Mutex
	opts       Options
	store      progress.Store
	key        string
	generation int
	lastAccess time.Time

	h          *holder
	tracker    *Tracker
	controller *Controller
	sink       *dispatcher

	driving  *games.Driving
	puzzle   *games.Puzzle
	scratch  *games.Scratch
	quiz     *games.Quiz
	proposal *games.Proposal
	photos   *games.PhotoMatrix
}

// New returns a quest for key that has not been booted yet.
func New(key string, store progress.Store, opts Options) *Quest {
	if opts.Scheduler == nil {
		opts.Scheduler = TimerScheduler()
	}
	if opts.Phrase.Len() == 0 {
		opts.Phrase = phrase.Default()
	}
	q := &Quest{opts: opts, store: store, key: key, lastAccess: time.Now()}
	q.reinit()
	return q
}

// reinit drops all page-lifetime state and starts over from the default
// progress. Nothing is persisted.
func (q *Quest) reinit() {
	q.generation++
	q.h = &holder{key: q.key, store: q.store, state: progress.Default()}
	q.tracker = newTracker(q.opts.Phrase, q.h)
	q.sink = &dispatcher{q: q}
	q.controller = newController(q.h, q.tracker, map[Stage]initializer{
		StageDriving:  q.initDriving,
		StagePuzzle:   q.initPuzzle,
		StageScratch:  q.initScratch,
		StageProposal: q.initProposal,
		StageFinal:    q.initPhotos,
	})
	q.driving, q.puzzle, q.scratch, q.proposal, q.photos = nil, nil, nil, nil, nil
	q.quiz = games.NewQuiz(q.sink, phrase.Assigned(int(StageQuiz)), q.opts.Quiz)
}

func (q *Quest) initDriving(ctx context.Context) {
	q.driving = games.NewDriving(ctx, q.sink, phrase.Assigned(int(StageDriving)), q.h.state.Revealed, q.opts.Driving)
}

func (q *Quest) initPuzzle(context.Context) {
	q.puzzle = games.NewPuzzle(q.sink, phrase.Assigned(int(StagePuzzle)), q.opts.Puzzle)
}

func (q *Quest) initScratch(context.Context) {
	q.scratch = games.NewScratch(q.sink, phrase.Assigned(int(StageScratch)), q.opts.Scratch)
}

func (q *Quest) initProposal(context.Context) {
	q.proposal = games.NewProposal(q.sink, phrase.Assigned(int(StageProposal)), q.opts.Proposal)
}

func (q *Quest) initPhotos(context.Context) {
	q.photos = games.NewPhotoMatrix(q.opts.PhotoManifest, q.opts.PhotoColumns)
	logging.Info("Session %s photo matrix has %d photos", q.key, len(q.photos.Photos))
}

// Boot loads saved progress and puts the visitor back on the stage they
// reached without replaying earlier ones.
func (q *Quest) Boot(ctx context.Context) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.touch()
	restored := q.h.load(ctx)
	q.tracker.settle()
	target := Stage(q.h.state.CurrentStage)
	q.h.state.CurrentStage = int(StageIntro)
	if restored {
		logging.Info("Restoring session %s to %s with %d letters", q.key, target, len(q.h.state.RevealedIndices))
	}
	return q.controller.GoToStage(ctx, target)
}

// GoToStage moves to stage n.
func (q *Quest) GoToStage(ctx context.Context, n Stage) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.touch()
	return q.controller.GoToStage(ctx, n)
}

// RevealLetters reveals slots on behalf of the current stage and returns
// the ones that were new.
func (q *Quest) RevealLetters(ctx context.Context, indices []int) []int {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.touch()
	return q.tracker.RevealLetters(ctx, q.controller.Current(), indices)
}

// Start leaves the intro.
func (q *Quest) Start(ctx context.Context) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.touch()
	if q.controller.Current() != StageIntro {
		return fmt.Errorf("%w: already past the intro", ErrWrongStage)
	}
	return q.controller.GoToStage(ctx, StageDriving)
}

// Next acknowledges a completed stage that waits for the visitor.
func (q *Quest) Next(ctx context.Context) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.touch()
	cur := q.controller.Current()
	switch cur {
	case StageDriving, StagePuzzle, StageScratch:
	default:
		return fmt.Errorf("%w: %s", ErrNoNextAction, cur)
	}
	if q.controller.Status(cur) != StatusCompleted {
		return fmt.Errorf("%w: %s", ErrStageNotComplete, cur)
	}
	return q.controller.GoToStage(ctx, cur+1)
}

func (q *Quest) expect(s Stage) error {
	if cur := q.controller.Current(); cur != s {
		return fmt.Errorf("%w: on %s, not %s", ErrWrongStage, cur, s)
	}
	return nil
}

// Drive reports the car position for one frame and returns the slots it
// revealed.
func (q *Quest) Drive(ctx context.Context, pos games.Point) ([]int, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.touch()
	if err := q.expect(StageDriving); err != nil {
		return nil, err
	}
	return q.driving.Step(ctx, pos), nil
}

// PlacePiece drops a puzzle piece on a board slot.
func (q *Quest) PlacePiece(ctx context.Context, piece, slot int) (bool, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.touch()
	if err := q.expect(StagePuzzle); err != nil {
		return false, err
	}
	return q.puzzle.Place(ctx, piece, slot)
}

// Scratch clears scratch card cells and returns the coverage.
func (q *Quest) Scratch(ctx context.Context, cells []int) (float64, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.touch()
	if err := q.expect(StageScratch); err != nil {
		return 0, err
	}
	return q.scratch.Clear(ctx, cells), nil
}

// AnswerQuiz submits a quiz attempt. A rejected attempt returns an error
// matching games.ErrQuizRejected and leaves progress untouched.
func (q *Quest) AnswerQuiz(ctx context.Context, text string, slider int) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.touch()
	if err := q.expect(StageQuiz); err != nil {
		return err
	}
	return q.quiz.Answer(ctx, text, slider)
}

// Pull drags the proposal control and reports whether it was accepted.
func (q *Quest) Pull(ctx context.Context, fraction float64) (bool, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.touch()
	if err := q.expect(StageProposal); err != nil {
		return false, err
	}
	return q.proposal.Pull(ctx, fraction), nil
}

// Photos returns the photo matrix rows, or nil before the final stage or
// when no manifest could be loaded.
func (q *Quest) Photos() [][]string {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.photos == nil {
		return nil
	}
	return q.photos.Rows()
}

// Reset erases saved progress and returns the quest to a fresh, unbooted
// intro. Pending timers from before the reset are ignored.
func (q *Quest) Reset(ctx context.Context) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	if err := q.store.Clear(ctx, q.key); err != nil {
		return fmt.Errorf("clear progress: %w", err)
	}
	q.reinit()
	logging.Info("Session %s progress reset", q.key)
	return nil
}

// Key returns the storage key of the quest.
func (q *Quest) Key() string { return q.key }

// LastAccess returns when the quest was last used.
func (q *Quest) LastAccess() time.Time {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.lastAccess
}

func (q *Quest) touch() { q.lastAccess = time.Now() }

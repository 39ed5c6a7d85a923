package games

import (
	"context"
	"errors"
	"strings"
	"time"

	"valentinequest/internal/quest/event"
)

// QuizStage is the stage the quiz belongs to.
const QuizStage = 4

// ErrQuizRejected is matched by every *RejectedError.
var ErrQuizRejected = errors.New("quiz answer rejected")

// QuizConfig holds the expected answers.
type QuizConfig struct {
	Answer        string        // free-text answer, compared trimmed and case-insensitively
	SliderMax     int           // the slider must be pushed all the way here
	SequenceDelay time.Duration // scripted sequence played before auto-advance
}

// DefaultQuizConfig returns the stock quiz.
func DefaultQuizConfig() QuizConfig {
	return QuizConfig{Answer: "forever", SliderMax: 100, SequenceDelay: 4 * time.Second}
}

// RejectedError says which of the two checks failed.
type RejectedError struct {
	TextOK   bool
	SliderOK bool
}

func (e *RejectedError) Error() string {
	switch {
	case !e.TextOK && !e.SliderOK:
		return "wrong answer and the slider is not at the maximum"
	case !e.TextOK:
		return "wrong answer"
	default:
		return "the slider is not at the maximum"
	}
}

// Is lets errors.Is match ErrQuizRejected.
func (e *RejectedError) Is(target error) bool { return target == ErrQuizRejected }

// Quiz checks a free-text answer and a slider value. Attempts are unlimited
// and a failed attempt changes nothing but the attempt counter.
type Quiz struct {
	cfg      QuizConfig
	sink     event.Sink
	slots    []int
	attempts int
	passed   bool
}

// NewQuiz returns an unanswered quiz.
func NewQuiz(sink event.Sink, slots []int, cfg QuizConfig) *Quiz {
	return &Quiz{cfg: cfg, sink: sink, slots: slots}
}

func normalizeAnswer(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Answer validates an attempt. Answering a passed quiz again is a no-op.
func (q *Quiz) Answer(ctx context.Context, text string, slider int) error {
	if q.passed {
		return nil
	}
	q.attempts++
	res := &RejectedError{
		TextOK:   normalizeAnswer(text) == normalizeAnswer(q.cfg.Answer),
		SliderOK: slider == q.cfg.SliderMax,
	}
	if !res.TextOK || !res.SliderOK {
		return res
	}
	q.passed = true
	q.sink.Emit(ctx, event.Completed{
		Stage:   QuizStage,
		Indices: q.slots,
		Advance: event.Auto,
		Delay:   q.cfg.SequenceDelay,
	})
	return nil
}

// Passed reports whether the quiz was answered correctly.
func (q *Quiz) Passed() bool { return q.passed }

// QuizView is the client-facing snapshot.
type QuizView struct {
	SliderMax int  `json:"sliderMax"`
	Attempts  int  `json:"attempts"`
	Passed    bool `json:"passed"`
}

// View returns a snapshot.
func (q *Quiz) View() QuizView {
	return QuizView{SliderMax: q.cfg.SliderMax, Attempts: q.attempts, Passed: q.passed}
}

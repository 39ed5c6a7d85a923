// Package quest ties the phrase tracker, the stage controller and the
// mini-games together for one visitor.
package quest

import (
	"errors"
	"fmt"
)

// Stage is a position in the linear quest.
type Stage int

const (
	StageIntro Stage = iota
	StageDriving
	StagePuzzle
	StageScratch
	StageQuiz
	StageProposal
	StageFinal
)

// StageCount is the number of stages, intro and final included.
const StageCount = int(StageFinal) + 1

var stageNames = [StageCount]string{"intro", "driving", "puzzle", "scratch", "quiz", "proposal", "final"}

var (
	ErrUnknownStage       = errors.New("unknown stage")
	ErrBackwardTransition = errors.New("stages only move forward")
	ErrWrongStage         = errors.New("action does not belong to the current stage")
	ErrStageNotComplete   = errors.New("current stage is not complete")
	ErrNoNextAction       = errors.New("current stage does not advance on next")
)

func (s Stage) String() string {
	if !s.Valid() {
		return fmt.Sprintf("stage(%d)", int(s))
	}
	return stageNames[s]
}

// Valid reports whether s is one of the quest stages.
func (s Stage) Valid() bool {
	return s >= StageIntro && s <= StageFinal
}

// TrackerVisible reports whether the letter tracker is shown during s.
func (s Stage) TrackerVisible() bool {
	return s >= StageDriving && s <= StageProposal
}

// Status is a stage's lifecycle within one page lifetime.
type Status int

const (
	StatusUninitialized Status = iota
	StatusActive
	StatusCompleted
)

func (s Status) String() string {
	switch s {
	case StatusUninitialized:
		return "uninitialized"
	case StatusActive:
		return "active"
	case StatusCompleted:
		return "completed"
	default:
		return "unknown"
	}
}

// MarshalText encodes the status by name.
func (s Status) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

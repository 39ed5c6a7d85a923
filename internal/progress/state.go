// Package progress persists the durable part of a visitor's quest: the
// stage they reached and the phrase slots already revealed.
package progress

import (
	"encoding/json"
	"errors"
	"fmt"
	"slices"

	"valentinequest/internal/phrase"
)

// FinalStage is the last stage of the quest.
const FinalStage = 6

// ErrInvalidState is returned by Decode for data that does not describe a
// valid progress state.
var ErrInvalidState = errors.New("invalid progress state")

// State is the serialized progress blob.
type State struct {
	CurrentStage    int   `json:"currentStage"`
	RevealedIndices []int `json:"revealedIndices"`
}

// Default is the state of a visitor with no saved progress.
func Default() State {
	return State{CurrentStage: 0, RevealedIndices: []int{}}
}

// Revealed reports whether slot i has been revealed.
func (s State) Revealed(i int) bool {
	_, found := slices.BinarySearch(s.RevealedIndices, i)
	return found
}

// Reveal adds i to the revealed set and reports whether it was new.
// Indices outside the phrase are ignored.
func (s *State) Reveal(i int) bool {
	if i < 0 || i >= phrase.Size {
		return false
	}
	pos, found := slices.BinarySearch(s.RevealedIndices, i)
	if found {
		return false
	}
	s.RevealedIndices = slices.Insert(s.RevealedIndices, pos, i)
	return true
}

// Clone returns a deep copy.
func (s State) Clone() State {
	out := State{CurrentStage: s.CurrentStage, RevealedIndices: slices.Clone(s.RevealedIndices)}
	if out.RevealedIndices == nil {
		out.RevealedIndices = []int{}
	}
	return out
}

// Equal compares two states as sets.
func (s State) Equal(o State) bool {
	return s.CurrentStage == o.CurrentStage && slices.Equal(s.Normalize().RevealedIndices, o.Normalize().RevealedIndices)
}

// Normalize sorts and deduplicates the revealed set.
func (s State) Normalize() State {
	out := s.Clone()
	slices.Sort(out.RevealedIndices)
	out.RevealedIndices = slices.Compact(out.RevealedIndices)
	return out
}

// Validate checks the stage range and that every index addresses a slot.
func (s State) Validate() error {
	if s.CurrentStage < 0 || s.CurrentStage > FinalStage {
		return fmt.Errorf("%w: stage %d out of range", ErrInvalidState, s.CurrentStage)
	}
	for _, i := range s.RevealedIndices {
		if i < 0 || i >= phrase.Size {
			return fmt.Errorf("%w: revealed index %d out of range", ErrInvalidState, i)
		}
	}
	return nil
}

// Encode serializes s.
func Encode(s State) ([]byte, error) {
	return json.Marshal(s.Normalize())
}

// Decode parses a stored blob. Both fields must be present.
func Decode(data []byte) (State, error) {
	var raw struct {
		CurrentStage    *int   `json:"currentStage"`
		RevealedIndices *[]int `json:"revealedIndices"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return State{}, fmt.Errorf("%w: %v", ErrInvalidState, err)
	}
	if raw.CurrentStage == nil || raw.RevealedIndices == nil {
		return State{}, fmt.Errorf("%w: missing field", ErrInvalidState)
	}
	s := State{CurrentStage: *raw.CurrentStage, RevealedIndices: *raw.RevealedIndices}.Normalize()
	if err := s.Validate(); err != nil {
		return State{}, err
	}
	return s, nil
}

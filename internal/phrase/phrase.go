// Package phrase holds the hidden phrase revealed over the course of the
// quest and the fixed mapping of stages to the slots they reveal.
package phrase

import (
	"slices"
	"strings"
	"unicode"
)

// Target is the phrase spelled out by the tracker.
const Target = "WILL YOU BE MY"

// Size is the number of revealable slots in Target.
const Size = 11

// Slot is one non-space character of the phrase.
type Slot struct {
	Char     rune
	GapAfter bool // a word boundary follows this slot
}

// Phrase is an immutable ordered list of slots.
type Phrase struct {
	slots []Slot
}

// New splits text into slots, dropping whitespace and marking the slot
// before each gap.
func New(text string) Phrase {
	var slots []Slot
	for _, r := range strings.TrimSpace(text) {
		if unicode.IsSpace(r) {
			if n := len(slots); n > 0 {
				slots[n-1].GapAfter = true
			}
			continue
		}
		slots = append(slots, Slot{Char: unicode.ToUpper(r)})
	}
	return Phrase{slots: slots}
}

// Default returns the phrase built from Target.
func Default() Phrase {
	return New(Target)
}

// Len returns the number of slots.
func (p Phrase) Len() int {
	return len(p.slots)
}

// Slots returns a copy of the slots in phrase order.
func (p Phrase) Slots() []Slot {
	return slices.Clone(p.slots)
}

// At returns the slot at index i.
func (p Phrase) At(i int) (Slot, bool) {
	if i < 0 || i >= len(p.slots) {
		return Slot{}, false
	}
	return p.slots[i], true
}

// Valid reports whether i addresses a slot.
func (p Phrase) Valid(i int) bool {
	return i >= 0 && i < len(p.slots)
}

// All returns every slot index in order.
func (p Phrase) All() []int {
	out := make([]int, len(p.slots))
	for i := range out {
		out[i] = i
	}
	return out
}

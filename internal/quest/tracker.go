package quest

import (
	"context"

	"valentinequest/internal/metrics"
	"valentinequest/internal/phrase"
)

// Placeholder is shown for slots not yet revealed.
const Placeholder = "♥"

// SlotView is one rendered tracker slot.
type SlotView struct {
	Index    int    `json:"index"`
	Char     string `json:"char"`
	Revealed bool   `json:"revealed"`
	Pulse    bool   `json:"pulse"`
	GapAfter bool   `json:"gapAfter"`
}

// Tracker reveals phrase slots and renders them in phrase order.
type Tracker struct {
	phrase  phrase.Phrase
	h       *holder
	shown   []bool // revealed as of the last render
	visible bool
}

func newTracker(p phrase.Phrase, h *holder) *Tracker {
	return &Tracker{phrase: p, h: h, shown: make([]bool, p.Len())}
}

// settle marks everything currently revealed as already shown, so letters
// restored from storage do not pulse.
func (t *Tracker) settle() {
	for i := range t.shown {
		t.shown[i] = t.h.state.Revealed(i)
	}
}

// RevealLetters reveals every index not yet revealed, persisting once if
// anything changed. It returns the newly revealed indices.
func (t *Tracker) RevealLetters(ctx context.Context, stage Stage, indices []int) []int {
	var added []int
	for _, i := range indices {
		if !t.phrase.Valid(i) {
			continue
		}
		if t.h.state.Reveal(i) {
			added = append(added, i)
		}
	}
	if len(added) > 0 {
		t.h.persist(ctx)
		metrics.ObserveReveal(int(stage), len(added))
	}
	return added
}

// Render returns the slots in phrase order. A slot pulses only on the first
// render after it went from hidden to revealed.
func (t *Tracker) Render() []SlotView {
	out := make([]SlotView, 0, t.phrase.Len())
	for i, slot := range t.phrase.Slots() {
		revealed := t.h.state.Revealed(i)
		v := SlotView{
			Index:    i,
			Char:     Placeholder,
			Revealed: revealed,
			Pulse:    revealed && !t.shown[i],
			GapAfter: slot.GapAfter,
		}
		if revealed {
			v.Char = string(slot.Char)
		}
		t.shown[i] = revealed
		out = append(out, v)
	}
	return out
}

// Visible reports whether the tracker is shown.
func (t *Tracker) Visible() bool { return t.visible }

func (t *Tracker) setVisible(v bool) { t.visible = v }

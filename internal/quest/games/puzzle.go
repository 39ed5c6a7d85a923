package games

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"

	"github.com/samber/lo"

	"valentinequest/internal/quest/event"
)

// PuzzleStage is the stage the jigsaw belongs to.
const PuzzleStage = 2

// ErrNoSuchPiece is returned for piece or slot numbers outside the board.
var ErrNoSuchPiece = errors.New("no such puzzle piece")

// PuzzleConfig sizes the board. Seed fixes the tray shuffle.
type PuzzleConfig struct {
	Rows int
	Cols int
	Seed uint64
}

// DefaultPuzzleConfig returns a 3x3 board.
func DefaultPuzzleConfig() PuzzleConfig {
	return PuzzleConfig{Rows: 3, Cols: 3, Seed: 14}
}

// Puzzle is a jigsaw: piece n belongs in board slot n. Pieces dropped on
// the wrong slot bounce back to the tray.
type Puzzle struct {
	cfg    PuzzleConfig
	sink   event.Sink
	slots  []int
	tray   []int
	placed []bool
	done   bool
}

// NewPuzzle shuffles the pieces into the tray.
func NewPuzzle(sink event.Sink, slots []int, cfg PuzzleConfig) *Puzzle {
	n := cfg.Rows * cfg.Cols
	tray := lo.Range(n)
	r := rand.New(rand.NewPCG(cfg.Seed, cfg.Seed^0x9e3779b97f4a7c15))
	r.Shuffle(len(tray), func(i, j int) { tray[i], tray[j] = tray[j], tray[i] })
	return &Puzzle{
		cfg:    cfg,
		sink:   sink,
		slots:  slots,
		tray:   tray,
		placed: make([]bool, n),
	}
}

// Place drops piece on slot and reports whether it stuck.
func (p *Puzzle) Place(ctx context.Context, piece, slot int) (bool, error) {
	n := len(p.placed)
	if piece < 0 || piece >= n || slot < 0 || slot >= n {
		return false, fmt.Errorf("%w: piece %d slot %d", ErrNoSuchPiece, piece, slot)
	}
	if p.placed[piece] {
		return piece == slot, nil
	}
	if piece != slot {
		return false, nil
	}
	p.placed[piece] = true
	p.tray = lo.Without(p.tray, piece)
	if len(p.tray) == 0 && !p.done {
		p.done = true
		p.sink.Emit(ctx, event.Completed{Stage: PuzzleStage, Indices: p.slots, Advance: event.OnNext})
	}
	return true, nil
}

// Done reports whether every piece is in place.
func (p *Puzzle) Done() bool { return p.done }

// PuzzleView is the client-facing snapshot of the board.
type PuzzleView struct {
	Rows   int    `json:"rows"`
	Cols   int    `json:"cols"`
	Tray   []int  `json:"tray"`
	Placed []bool `json:"placed"`
	Done   bool   `json:"done"`
}

// View returns a snapshot.
func (p *Puzzle) View() PuzzleView {
	return PuzzleView{
		Rows:   p.cfg.Rows,
		Cols:   p.cfg.Cols,
		Tray:   append([]int(nil), p.tray...),
		Placed: append([]bool(nil), p.placed...),
		Done:   p.done,
	}
}

package games

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"valentinequest/internal/quest/event"
)

var ctx = context.Background()

func TestDrivingCollectsEachItemOnce(t *testing.T) {
	rec := &event.Recorder{}
	d := NewDriving(ctx, rec, []int{0, 6, 2}, nil, DefaultDrivingConfig())
	items := d.View().Items
	require.Len(t, items, 3)

	// The render loop reports the same position for several frames.
	for range 5 {
		d.Step(ctx, items[0].Pos)
	}
	require.Len(t, rec.Events, 1)
	assert.Equal(t, event.Revealed{Stage: DrivingStage, Indices: []int{0}}, rec.Events[0])
	assert.False(t, d.Done())

	assert.Empty(t, d.Step(ctx, Point{}), "origin is away from the track")

	d.Step(ctx, items[1].Pos)
	got := d.Step(ctx, items[2].Pos)
	assert.Equal(t, []int{2}, got)
	assert.True(t, d.Done())

	done := rec.Completions()
	require.Len(t, done, 1)
	assert.Equal(t, []int{0, 6, 2}, done[0].Indices)
	assert.Equal(t, event.OnNext, done[0].Advance)

	d.Step(ctx, items[2].Pos)
	assert.Len(t, rec.Completions(), 1)
}

func TestDrivingPickupRadius(t *testing.T) {
	rec := &event.Recorder{}
	cfg := DefaultDrivingConfig()
	d := NewDriving(ctx, rec, []int{4}, nil, cfg)
	target := d.View().Items[0].Pos

	d.Step(ctx, Point{X: target.X + cfg.PickupRadius + 0.5, Z: target.Z})
	assert.Empty(t, rec.Events)
	d.Step(ctx, Point{X: target.X + cfg.PickupRadius - 0.5, Z: target.Z})
	assert.True(t, d.Done())
}

func TestDrivingRestoresRevealedItems(t *testing.T) {
	rec := &event.Recorder{}
	revealed := map[int]bool{0: true, 6: true}
	d := NewDriving(ctx, rec, []int{0, 6, 2}, func(i int) bool { return revealed[i] }, DefaultDrivingConfig())
	v := d.View()
	assert.Equal(t, 2, v.Collected)
	assert.False(t, v.Done)

	all := NewDriving(ctx, rec, []int{0, 6}, func(i int) bool { return revealed[i] }, DefaultDrivingConfig())
	assert.True(t, all.Done())
	assert.Len(t, rec.Completions(), 1)
}

func TestPuzzlePlacement(t *testing.T) {
	rec := &event.Recorder{}
	p := NewPuzzle(rec, []int{1, 3}, PuzzleConfig{Rows: 2, Cols: 2, Seed: 1})
	assert.ElementsMatch(t, []int{0, 1, 2, 3}, p.View().Tray)

	ok, err := p.Place(ctx, 0, 1)
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = p.Place(ctx, 4, 0)
	assert.ErrorIs(t, err, ErrNoSuchPiece)

	for i := range 4 {
		ok, err := p.Place(ctx, i, i)
		require.NoError(t, err)
		assert.True(t, ok)
	}
	assert.True(t, p.Done())
	assert.Empty(t, p.View().Tray)

	ok, err = p.Place(ctx, 2, 2)
	require.NoError(t, err)
	assert.True(t, ok)
	require.Len(t, rec.Completions(), 1)
	assert.Equal(t, []int{1, 3}, rec.Completions()[0].Indices)
}

func TestPuzzleShuffleIsSeeded(t *testing.T) {
	a := NewPuzzle(&event.Recorder{}, nil, DefaultPuzzleConfig())
	b := NewPuzzle(&event.Recorder{}, nil, DefaultPuzzleConfig())
	assert.Equal(t, a.View().Tray, b.View().Tray)
}

func TestScratchThreshold(t *testing.T) {
	rec := &event.Recorder{}
	s := NewScratch(rec, []int{7, 8}, ScratchConfig{Cols: 2, Rows: 2, Threshold: 0.75})

	assert.InDelta(t, 0.5, s.Clear(ctx, []int{0, 1, 1, -1, 99}), 1e-9)
	assert.False(t, s.Done())
	assert.InDelta(t, 0.75, s.Clear(ctx, []int{2}), 1e-9)
	assert.True(t, s.Done())
	s.Clear(ctx, []int{3})
	assert.Len(t, rec.Completions(), 1)
}

func TestQuizValidation(t *testing.T) {
	rec := &event.Recorder{}
	q := NewQuiz(rec, []int{10}, QuizConfig{Answer: "Forever", SliderMax: 100})

	cases := []struct {
		text     string
		slider   int
		textOK   bool
		sliderOK bool
	}{
		{"never", 100, false, true},
		{"forever", 99, true, false},
		{"nope", 0, false, false},
	}
	for _, c := range cases {
		err := q.Answer(ctx, c.text, c.slider)
		require.ErrorIs(t, err, ErrQuizRejected)
		var rej *RejectedError
		require.True(t, errors.As(err, &rej))
		assert.Equal(t, c.textOK, rej.TextOK)
		assert.Equal(t, c.sliderOK, rej.SliderOK)
	}
	assert.Empty(t, rec.Events)
	assert.Equal(t, 3, q.View().Attempts)

	require.NoError(t, q.Answer(ctx, "  FOREVER \n", 100))
	assert.True(t, q.Passed())
	require.NoError(t, q.Answer(ctx, "wrong", 0), "a passed quiz ignores further answers")

	done := rec.Completions()
	require.Len(t, done, 1)
	assert.Equal(t, event.Auto, done[0].Advance)
	assert.Equal(t, []int{10}, done[0].Indices)
}

func TestProposalPull(t *testing.T) {
	rec := &event.Recorder{}
	p := NewProposal(rec, []int{0, 1}, ProposalConfig{Threshold: 0.9})

	assert.False(t, p.Pull(ctx, 0.5))
	assert.False(t, p.Pull(ctx, -3))
	assert.InDelta(t, 0.5, p.View().Pulled, 1e-9)
	assert.True(t, p.Pull(ctx, 4))
	assert.True(t, p.Pull(ctx, 1))

	done := rec.Completions()
	require.Len(t, done, 1)
	assert.Equal(t, event.Terminal, done[0].Advance)
}

func TestLoadManifest(t *testing.T) {
	dir := t.TempDir()
	good := filepath.Join(dir, "photos.json")
	require.NoError(t, os.WriteFile(good, []byte(`["a.jpg","b.PNG","a.jpg","notes.txt","../x.jpg",""]`), 0o644))
	assert.Equal(t, []string{"a.jpg", "b.PNG"}, LoadManifest(good))

	bad := filepath.Join(dir, "bad.json")
	require.NoError(t, os.WriteFile(bad, []byte(`{"files":`), 0o644))
	assert.Empty(t, LoadManifest(bad))
	assert.Empty(t, LoadManifest(filepath.Join(dir, "missing.json")))
	assert.Empty(t, LoadManifest(""))
}

func TestPhotoMatrixRows(t *testing.T) {
	m := &PhotoMatrix{Photos: []string{"1.jpg", "2.jpg", "3.jpg", "4.jpg", "5.jpg"}, Columns: 2}
	assert.Equal(t, [][]string{{"1.jpg", "2.jpg"}, {"3.jpg", "4.jpg"}, {"5.jpg"}}, m.Rows())
	assert.Nil(t, (&PhotoMatrix{Columns: 2}).Rows())
	assert.Equal(t, 4, NewPhotoMatrix("", 0).Columns)
}

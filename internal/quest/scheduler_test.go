package quest

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"valentinequest/internal/progress"
)

func TestManualSchedulerRunsOnce(t *testing.T) {
	m := &ManualScheduler{}
	calls := 0
	m.After(time.Second, func() { calls++ })
	m.After(2*time.Second, func() { calls++ })
	assert.Equal(t, 2, m.Pending())

	m.Run()
	m.Run()
	assert.Equal(t, 2, calls)
	assert.Equal(t, 0, m.Pending())
	assert.Equal(t, []time.Duration{time.Second, 2 * time.Second}, m.Delays)
}

func TestTimerSchedulerAdvancesQuiz(t *testing.T) {
	defer goleak.VerifyNone(t)

	opts := DefaultOptions()
	opts.Quiz.SequenceDelay = 10 * time.Millisecond
	opts.PhotoManifest = filepath.Join(t.TempDir(), "none.json")
	q := New(uuid.NewString(), progress.NewMemoryStore(), opts)
	require.NoError(t, q.Boot(ctx))
	require.NoError(t, q.GoToStage(ctx, StageQuiz))

	require.NoError(t, q.AnswerQuiz(ctx, "forever", opts.Quiz.SliderMax))
	require.Eventually(t, func() bool {
		return q.Snapshot().Stage == StageProposal
	}, time.Second, 5*time.Millisecond)
}

package quest

import "time"

// Scheduler runs f once after d. Scheduled work is never cancelled; the
// callback itself checks whether it is still relevant.
type Scheduler interface {
	After(d time.Duration, f func())
}

type timerScheduler struct{}

func (timerScheduler) After(d time.Duration, f func()) {
	time.AfterFunc(d, f)
}

// TimerScheduler schedules on real timers.
func TimerScheduler() Scheduler { return timerScheduler{} }

// ManualScheduler queues callbacks until Run is called.
type ManualScheduler struct {
	pending []func()
	Delays  []time.Duration
}

// After queues f.
func (m *ManualScheduler) After(d time.Duration, f func()) {
	m.pending = append(m.pending, f)
	m.Delays = append(m.Delays, d)
}

// Run fires every queued callback once.
func (m *ManualScheduler) Run() {
	pending := m.pending
	m.pending = nil
	for _, f := range pending {
		f()
	}
}

// Pending returns the number of queued callbacks.
func (m *ManualScheduler) Pending() int { return len(m.pending) }

// Package timer tracks elapsed time for multi-stage command runs.
package timer

import "time"

// Timer measures the total runtime of a command and the runtime of its
// current stage. Stages are advanced explicitly with NewStage.
type Timer interface {
	// Start begins timing. Calling Start again resets the timer.
	Start()
	// NewStage marks the beginning of a new stage.
	NewStage()
	// GetTiming returns the total elapsed time and the elapsed time of the
	// current stage.
	GetTiming() (total, stage time.Duration)
}

type realTimer struct {
	startedAt time.Time
	stagedAt  time.Time
	now       func() time.Time
}

// New returns a Timer backed by the wall clock.
func New() Timer {
	return &realTimer{now: time.Now}
}

func (t *realTimer) Start() {
	t.startedAt = t.now()
	t.stagedAt = t.startedAt
}

func (t *realTimer) NewStage() {
	t.stagedAt = t.now()
}

func (t *realTimer) GetTiming() (time.Duration, time.Duration) {
	if t.startedAt.IsZero() {
		return 0, 0
	}

	current := t.now()

	return current.Sub(t.startedAt).Round(time.Millisecond),
		current.Sub(t.stagedAt).Round(time.Millisecond)
}

package models

import "time"

// Timer adjustment floors. Adjust never drops a duration below these.
const (
	MinPickTimerSeconds  = 10
	MinPhaseTimerSeconds = 60
)

func EpochMillis(t time.Time) int64 {
	return t.UnixMilli()
}

// TimerState is the shared countdown representation embedded by DraftState,
// DeckbuildingState and Round. All reads are pure given "now"; no goroutine
// ticks in the background — clients recompute remaining time on every poll.
type TimerState struct {
	StartedAt       *int64 `json:"startedAt"` // epoch ms, nil = never started
	PausedAt        *int64 `json:"pausedAt"`  // epoch ms, set while paused
	DurationSeconds int    `json:"durationSeconds"`
	IsPaused        bool   `json:"isPaused"`
}

// Elapsed returns whole seconds counted against the timer. While paused the
// clock is frozen at pausedAt.
func (t TimerState) Elapsed(now time.Time) int {
	if t.StartedAt == nil {
		return 0
	}
	var ms int64
	if t.IsPaused && t.PausedAt != nil {
		ms = *t.PausedAt - *t.StartedAt
	} else {
		ms = EpochMillis(now) - *t.StartedAt
	}
	if ms < 0 {
		ms = 0
	}
	return int(ms / 1000)
}

// Remaining returns duration minus elapsed, clamped at zero. A timer that was
// never started still has its full duration remaining.
func (t TimerState) Remaining(now time.Time) int {
	if t.StartedAt == nil {
		return t.DurationSeconds
	}
	remaining := t.DurationSeconds - t.Elapsed(now)
	if remaining < 0 {
		return 0
	}
	return remaining
}

func (t TimerState) IsRunning() bool {
	return t.StartedAt != nil && !t.IsPaused
}

func (t TimerState) IsExpired(now time.Time) bool {
	return t.StartedAt != nil && t.Remaining(now) == 0
}

// Start arms the timer if it has not been started yet. Starting an already
// running or paused timer is a no-op; use Resume for the latter.
func (t *TimerState) Start(now time.Time) {
	if t.StartedAt != nil {
		return
	}
	ms := EpochMillis(now)
	t.StartedAt = &ms
	t.PausedAt = nil
	t.IsPaused = false
}

// Pause freezes the countdown. A not-yet-started timer just keeps the paused
// flag so it will not auto-run when the state is synced.
func (t *TimerState) Pause(now time.Time) {
	if t.IsPaused {
		return
	}
	t.IsPaused = true
	if t.StartedAt != nil {
		ms := EpochMillis(now)
		t.PausedAt = &ms
	}
}

// Resume shifts startedAt forward by the time spent paused, so the remaining
// time is exactly what it was at the moment of the pause.
func (t *TimerState) Resume(now time.Time) {
	if !t.IsPaused {
		return
	}
	if t.StartedAt != nil && t.PausedAt != nil {
		shifted := *t.StartedAt + (EpochMillis(now) - *t.PausedAt)
		t.StartedAt = &shifted
	}
	t.PausedAt = nil
	t.IsPaused = false
}

// Adjust changes the duration by delta seconds, never dropping below floor.
func (t *TimerState) Adjust(delta, floor int) {
	t.DurationSeconds += delta
	if t.DurationSeconds < floor {
		t.DurationSeconds = floor
	}
}

// Reset clears the clock and restores the given default duration.
func (t *TimerState) Reset(durationSeconds int) {
	t.StartedAt = nil
	t.PausedAt = nil
	t.IsPaused = true
	t.DurationSeconds = durationSeconds
}

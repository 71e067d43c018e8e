package timer

import (
	"errors"
	"fmt"
	"time"
)

// DefaultDuration is the length of a mock test.
const DefaultDuration = 4 * time.Hour

// TickInterval is how often a running timer is ticked and persisted.
const TickInterval = time.Second

var ErrInvalidState = errors.New("invalid timer state")

// State is the persisted form of a MockTimer. Field names follow the
// quizTimerV1 layout.
type State struct {
	RemainingMs int64 `json:"remainingMs"`
	TotalMs     int64 `json:"totalMs,omitempty"`
	Paused      bool  `json:"paused"`
	LastTick    int64 `json:"lastTick"`
	IsMockTest  bool  `json:"isMockTest"`
}

// MockTimer is a countdown driven by wall-clock deltas. Each Tick
// subtracts the time elapsed since the previous tick, so a suspended
// process catches up on its next tick instead of drifting.
type MockTimer struct {
	total     time.Duration
	remaining time.Duration
	paused    bool
	lastTick  time.Time
	expired   bool
}

// New starts a running timer of length total at now.
func New(total time.Duration, now time.Time) *MockTimer {
	if total < 0 {
		total = 0
	}
	return &MockTimer{
		total:     total,
		remaining: total,
		lastTick:  now,
		expired:   total == 0,
	}
}

// Restore rebuilds a timer from persisted state. A running timer has the
// time since its last persisted tick subtracted; a paused one stays put.
// total is used when the state predates TotalMs.
func Restore(st State, total time.Duration, now time.Time) (*MockTimer, error) {
	if !st.IsMockTest || st.RemainingMs < 0 {
		return nil, fmt.Errorf("%w: remaining %d", ErrInvalidState, st.RemainingMs)
	}
	if st.TotalMs > 0 {
		total = time.Duration(st.TotalMs) * time.Millisecond
	}
	remaining := time.Duration(st.RemainingMs) * time.Millisecond
	if remaining > total {
		remaining = total
	}

	last := now
	if st.LastTick > 0 {
		last = time.UnixMilli(st.LastTick)
	}

	t := &MockTimer{
		total:     total,
		remaining: remaining,
		paused:    st.Paused,
		lastTick:  last,
	}
	if !t.paused {
		t.Tick(now)
	} else {
		t.lastTick = now
	}
	t.expired = t.remaining == 0
	return t, nil
}

// Tick folds the wall-clock delta since the last tick into the remaining
// time. It returns true exactly once: on the tick that reaches zero.
func (t *MockTimer) Tick(now time.Time) (expiredNow bool) {
	if t.expired {
		return false
	}
	if t.paused {
		t.lastTick = now
		return false
	}

	elapsed := now.Sub(t.lastTick)
	if elapsed < 0 {
		elapsed = 0
	}
	t.lastTick = now

	t.remaining -= elapsed
	if t.remaining <= 0 {
		t.remaining = 0
		t.expired = true
		return true
	}
	return false
}

// Pause stops the countdown after accounting for time elapsed so far.
// It reports expiry the same way Tick does.
func (t *MockTimer) Pause(now time.Time) (expiredNow bool) {
	if t.paused || t.expired {
		return false
	}
	expiredNow = t.Tick(now)
	t.paused = true
	return expiredNow
}

// Resume restarts the countdown from now.
func (t *MockTimer) Resume(now time.Time) {
	if !t.paused {
		return
	}
	t.paused = false
	t.lastTick = now
}

func (t *MockTimer) Remaining() time.Duration { return t.remaining }
func (t *MockTimer) Total() time.Duration     { return t.total }
func (t *MockTimer) Paused() bool             { return t.paused }
func (t *MockTimer) Expired() bool            { return t.expired }

// Elapsed is the time spent so far.
func (t *MockTimer) Elapsed() time.Duration {
	return t.total - t.remaining
}

// State returns the persisted form.
func (t *MockTimer) State() State {
	return State{
		RemainingMs: t.remaining.Milliseconds(),
		TotalMs:     t.total.Milliseconds(),
		Paused:      t.paused,
		LastTick:    t.lastTick.UnixMilli(),
		IsMockTest:  true,
	}
}

// Format renders the remaining time as hh:mm:ss.
func (t *MockTimer) Format() string {
	return Format(t.remaining)
}

// Format renders d as hh:mm:ss, truncating to whole seconds.
func Format(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	total := int64(d / time.Second)
	return fmt.Sprintf("%02d:%02d:%02d", total/3600, (total%3600)/60, total%60)
}

// Package fixtures provides deterministic fakes for detector and session tests.
package fixtures

import (
	"sort"
	"sync"
	"time"

	"github.com/eliteGoblin/focusd/display_mon/internal/domain"
)

// ManualScheduler is a domain.Scheduler whose timers only fire when told to.
type ManualScheduler struct {
	mu     sync.Mutex
	timers []*ManualTimer
}

// ManualTimer is a timer created by ManualScheduler.
type ManualTimer struct {
	Interval time.Duration

	fn        func()
	mu        sync.Mutex
	cancelled bool
}

// NewManualScheduler creates a scheduler with no timers.
func NewManualScheduler() *ManualScheduler {
	return &ManualScheduler{}
}

// Every registers fn; it runs on Fire or FireAll.
func (s *ManualScheduler) Every(interval time.Duration, fn func()) domain.Timer {
	s.mu.Lock()
	defer s.mu.Unlock()

	t := &ManualTimer{Interval: interval, fn: fn}
	s.timers = append(s.timers, t)
	return t
}

// Cancel stops the timer from firing again.
func (t *ManualTimer) Cancel() {
	t.mu.Lock()
	t.cancelled = true
	t.mu.Unlock()
}

// Cancelled reports whether Cancel was called.
func (t *ManualTimer) Cancelled() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.cancelled
}

func (t *ManualTimer) fire() bool {
	if t.Cancelled() {
		return false
	}
	t.fn()
	return true
}

// Active returns the live timers, shortest interval first.
func (s *ManualScheduler) Active() []*ManualTimer {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []*ManualTimer
	for _, t := range s.timers {
		if !t.Cancelled() {
			out = append(out, t)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Interval < out[j].Interval })
	return out
}

// Fire runs every live timer with the given interval once and returns how many ran.
func (s *ManualScheduler) Fire(interval time.Duration) int {
	fired := 0
	for _, t := range s.Active() {
		if t.Interval == interval && t.fire() {
			fired++
		}
	}
	return fired
}

// FireAll runs every live timer once.
func (s *ManualScheduler) FireAll() int {
	fired := 0
	for _, t := range s.Active() {
		if t.fire() {
			fired++
		}
	}
	return fired
}

var _ domain.Scheduler = (*ManualScheduler)(nil)

package daemon

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/eliteGoblin/focusd/display_mon/internal/domain"
)

// minTimerInterval guards time.NewTicker against non-positive intervals.
const minTimerInterval = time.Millisecond

// Loop runs repeating timers whose callbacks never overlap: every callback
// registered on one Loop runs while holding the loop's lock, so the detector
// tick and the stream flush behave as if driven by a single event thread.
type Loop struct {
	mu sync.Mutex // held for the duration of each callback

	tmu    sync.Mutex
	timers map[*loopTimer]struct{}
	closed bool
	wg     sync.WaitGroup
}

// NewLoop creates an empty loop.
func NewLoop() *Loop {
	return &Loop{timers: make(map[*loopTimer]struct{})}
}

// Every starts a repeating timer. The first call to fn happens one interval
// from now. On a closed loop the returned timer is already cancelled.
func (l *Loop) Every(interval time.Duration, fn func()) domain.Timer {
	if interval < minTimerInterval {
		interval = minTimerInterval
	}

	t := &loopTimer{loop: l, stop: make(chan struct{})}

	l.tmu.Lock()
	if l.closed {
		l.tmu.Unlock()
		t.cancelled.Store(true)
		return t
	}
	l.timers[t] = struct{}{}
	l.wg.Add(1)
	l.tmu.Unlock()

	go t.run(interval, fn)
	return t
}

// Close cancels every timer and waits for their goroutines to exit.
// It must not be called from a timer callback.
func (l *Loop) Close() {
	l.tmu.Lock()
	l.closed = true
	timers := make([]*loopTimer, 0, len(l.timers))
	for t := range l.timers {
		timers = append(timers, t)
	}
	l.tmu.Unlock()

	for _, t := range timers {
		t.Cancel()
	}
	l.wg.Wait()
}

func (l *Loop) forget(t *loopTimer) {
	l.tmu.Lock()
	delete(l.timers, t)
	l.tmu.Unlock()
}

type loopTimer struct {
	loop      *Loop
	stop      chan struct{}
	once      sync.Once
	cancelled atomic.Bool
}

func (t *loopTimer) run(interval time.Duration, fn func()) {
	defer t.loop.wg.Done()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-t.stop:
			return
		case <-ticker.C:
			t.loop.mu.Lock()
			if !t.cancelled.Load() {
				fn()
			}
			t.loop.mu.Unlock()
		}
	}
}

// Cancel is idempotent and does not wait. Once it returns no new
// invocation of the callback starts.
func (t *loopTimer) Cancel() {
	t.once.Do(func() {
		t.cancelled.Store(true)
		close(t.stop)
		t.loop.forget(t)
	})
}

// Ensure Loop implements domain.Scheduler.
var _ domain.Scheduler = (*Loop)(nil)

package daemon

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/eliteGoblin/focusd/display_mon/internal/domain"
	"github.com/eliteGoblin/focusd/display_mon/test/fixtures"
)

type recorder struct {
	mu     sync.Mutex
	states []domain.DisplayState
}

func (r *recorder) notify(s domain.DisplayState) {
	r.mu.Lock()
	r.states = append(r.states, s)
	r.mu.Unlock()
}

func (r *recorder) all() []domain.DisplayState {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]domain.DisplayState(nil), r.states...)
}

type detectorHarness struct {
	sched *fixtures.ManualScheduler
	topo  *fixtures.ScriptedTopology
	procs *fixtures.ScriptedProcesses
	rec   *recorder
	det   *Detector
}

func newDetectorHarness(builtin ...string) *detectorHarness {
	h := &detectorHarness{
		sched: fixtures.NewManualScheduler(),
		topo:  fixtures.NewScriptedTopology(),
		procs: fixtures.NewScriptedProcesses(),
		rec:   &recorder{},
	}
	h.det = NewDetector(DefaultDetectorConfig(), h.procs, h.topo,
		fixtures.StaticDenylists{FoldCase: true, Builtin: builtin},
		h.sched, h.rec.notify, zap.NewNop())
	return h
}

// TestDetector_Scenario walks the attach-monitor-then-share sequence
func TestDetector_Scenario(t *testing.T) {
	h := newDetectorHarness("zoom")
	interval := 500 * time.Millisecond

	h.det.Start(interval, nil)
	require.Len(t, h.rec.all(), 1)
	assert.Equal(t, domain.DisplayState{DisplayCount: 1}, h.rec.all()[0])

	h.topo.Set(domain.Topology{ExternalConnected: true, DisplayCount: 2})
	h.sched.Fire(interval)
	require.Len(t, h.rec.all(), 2)
	assert.Equal(t, domain.DisplayState{IsExternalConnected: true, DisplayCount: 2}, h.rec.all()[1])

	h.sched.Fire(interval)
	assert.Len(t, h.rec.all(), 2, "unchanged state must not notify")

	h.procs.SetRunning("launchd", "zoom")
	h.sched.Fire(interval)
	require.Len(t, h.rec.all(), 3)
	assert.Equal(t, domain.DisplayState{IsExternalConnected: true, DisplayCount: 2, IsScreenShared: true}, h.rec.all()[2])
}

// TestDetector_EdgeTriggered verifies repeated identical scans notify only once
func TestDetector_EdgeTriggered(t *testing.T) {
	h := newDetectorHarness()
	h.topo.Set(domain.Topology{ExternalConnected: true, DisplayCount: 3, Mirrored: true})

	h.det.Start(time.Second, nil)
	for i := 0; i < 10; i++ {
		h.sched.FireAll()
	}

	assert.Len(t, h.rec.all(), 1)
	assert.Equal(t, 11, h.topo.Scans())
}

// TestDetector_FloorOnZeroDisplays verifies an empty enumeration still reports one display
func TestDetector_FloorOnZeroDisplays(t *testing.T) {
	h := newDetectorHarness()
	h.topo.Set(domain.Topology{DisplayCount: 0})

	h.det.Start(time.Second, nil)
	h.topo.Set(domain.Topology{DisplayCount: -4})
	h.sched.FireAll()

	for _, s := range h.rec.all() {
		assert.GreaterOrEqual(t, s.DisplayCount, domain.MinDisplayCount)
	}
	assert.Equal(t, 1, h.det.Last().DisplayCount)
}

// TestDetector_DenylistUnion verifies custom names join the built-ins case-insensitively
func TestDetector_DenylistUnion(t *testing.T) {
	cases := []struct {
		running string
		shared  bool
	}{
		{"foo", true},
		{"FOO", true},
		{"zoom", true},
		{"Zoom", true},
		{"bar", false},
	}

	for _, tc := range cases {
		t.Run(tc.running, func(t *testing.T) {
			h := newDetectorHarness("zoom")
			h.procs.SetRunning(tc.running)

			h.det.Start(time.Second, []string{"foo"})

			assert.Equal(t, tc.shared, h.det.Last().IsScreenShared)
		})
	}
}

// TestDetector_StartIsIdempotent verifies a second Start keeps the first parameters
func TestDetector_StartIsIdempotent(t *testing.T) {
	h := newDetectorHarness()

	h.det.Start(time.Second, []string{"foo"})
	h.det.Start(5*time.Second, []string{"bar"})

	assert.Len(t, h.rec.all(), 1)
	assert.Equal(t, time.Second, h.det.PollInterval())
	assert.True(t, h.det.Denylist().Contains("foo"))
	assert.False(t, h.det.Denylist().Contains("bar"))
	assert.Len(t, h.sched.Active(), 1)
}

// TestDetector_StopIsIdempotent verifies Stop can be called repeatedly
func TestDetector_StopIsIdempotent(t *testing.T) {
	h := newDetectorHarness()

	h.det.Stop()
	h.det.Start(time.Second, nil)
	h.det.Stop()
	h.det.Stop()

	assert.False(t, h.det.Running())
	assert.Empty(t, h.sched.Active())
	assert.Zero(t, h.det.PollInterval())
}

// TestDetector_RestartAfterStopUsesNewDenylist verifies the denylist is swapped only via stop/start
func TestDetector_RestartAfterStopUsesNewDenylist(t *testing.T) {
	h := newDetectorHarness()
	h.procs.SetRunning("bar")

	h.det.Start(time.Second, []string{"foo"})
	assert.False(t, h.det.Last().IsScreenShared)

	h.det.Stop()
	h.det.Start(time.Second, []string{"bar"})

	assert.True(t, h.det.Last().IsScreenShared)
	assert.Len(t, h.rec.all(), 2)
}

// TestDetector_RestartNotifiesEvenIfUnchanged verifies Start always delivers the initial scan
func TestDetector_RestartNotifiesEvenIfUnchanged(t *testing.T) {
	h := newDetectorHarness()

	h.det.Start(time.Second, nil)
	h.det.Stop()
	h.det.Start(time.Second, nil)

	require.Len(t, h.rec.all(), 2)
	assert.Equal(t, h.rec.all()[0], h.rec.all()[1])
}

// TestDetector_StaleTimerIgnored verifies a timer from a previous run cannot notify
func TestDetector_StaleTimerIgnored(t *testing.T) {
	h := newDetectorHarness()
	h.det.Start(time.Second, nil)
	stale := h.det.timer

	h.det.Stop()
	h.det.Start(time.Second, nil)
	h.topo.Set(domain.Topology{ExternalConnected: true, DisplayCount: 2})

	// Call the stale callback directly; its generation no longer matches.
	h.det.tick(h.det.generation - 1)
	assert.Len(t, h.rec.all(), 2)
	assert.NotNil(t, stale)
}

// TestDetector_StopFromNotify verifies notify may stop the detector
func TestDetector_StopFromNotify(t *testing.T) {
	sched := fixtures.NewManualScheduler()
	var det *Detector
	calls := 0
	det = NewDetector(DefaultDetectorConfig(), fixtures.NewScriptedProcesses(), fixtures.NewScriptedTopology(),
		fixtures.StaticDenylists{}, sched, func(domain.DisplayState) {
			calls++
			det.Stop()
		}, zap.NewNop())

	det.Start(time.Second, nil)

	assert.Equal(t, 1, calls)
	assert.False(t, det.Running())
	assert.Empty(t, sched.Active())
}

// TestDetector_CloseBlocksStart verifies Start after Close is a no-op
func TestDetector_CloseBlocksStart(t *testing.T) {
	h := newDetectorHarness()
	h.det.Start(time.Second, nil)

	h.det.Close()
	h.det.Close()
	h.det.Start(time.Second, nil)

	assert.False(t, h.det.Running())
	assert.Len(t, h.rec.all(), 1)
}

// TestDetector_DefaultInterval verifies non-positive intervals fall back to the default
func TestDetector_DefaultInterval(t *testing.T) {
	h := newDetectorHarness()
	h.det.Start(0, nil)

	active := h.sched.Active()
	require.Len(t, active, 1)
	assert.Equal(t, DefaultPollInterval, active[0].Interval)
	assert.Equal(t, DefaultPollInterval, h.det.PollInterval())
}

// TestDetector_ProbeDoesNotNotify verifies Probe leaves detector state alone
func TestDetector_ProbeDoesNotNotify(t *testing.T) {
	h := newDetectorHarness("zoom")
	h.procs.SetRunning("zoom")
	h.topo.Set(domain.Topology{ExternalConnected: true, DisplayCount: 2})

	state := h.det.Probe(nil)

	assert.True(t, state.IsScreenShared)
	assert.Equal(t, 2, state.DisplayCount)
	assert.Empty(t, h.rec.all())
	assert.Equal(t, domain.DefaultDisplayState(), h.det.Last())
}

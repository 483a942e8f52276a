// Package daemon implements the display-state detector, its delivery stream
// and the host-facing session that ties them together.
package daemon

import (
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/eliteGoblin/focusd/display_mon/internal/domain"
)

// DefaultPollInterval is used when Start is given a non-positive interval.
const DefaultPollInterval = 2 * time.Second

// DetectorConfig holds detector configuration.
type DetectorConfig struct {
	PollInterval time.Duration // Fallback poll interval (default 2s)
}

// DefaultDetectorConfig returns default detector configuration.
func DefaultDetectorConfig() DetectorConfig {
	return DetectorConfig{
		PollInterval: DefaultPollInterval,
	}
}

// Detector polls the display topology and the process table and calls
// notify only when the composite DisplayState changes.
//
// Start always notifies once with the initial scan. After that, ticks are
// edge-triggered: an unchanged state produces no notification.
// notify may call Stop but must not call Start.
type Detector struct {
	config    DetectorConfig
	processes domain.ScreenShareScanner
	topology  domain.TopologyScanner
	denylists domain.DenylistProvider
	scheduler domain.Scheduler
	notify    func(domain.DisplayState)
	logger    *zap.Logger

	mu         sync.Mutex
	running    bool
	closed     bool
	generation uint64
	timer      domain.Timer
	deny       domain.Denylist
	interval   time.Duration

	// scanMu serializes the initial scan and ticks. last is written with
	// both scanMu and mu held, so either lock is enough to read it.
	scanMu sync.Mutex
	last   domain.DisplayState
}

// NewDetector creates a stopped detector.
func NewDetector(
	config DetectorConfig,
	processes domain.ScreenShareScanner,
	topology domain.TopologyScanner,
	denylists domain.DenylistProvider,
	scheduler domain.Scheduler,
	notify func(domain.DisplayState),
	logger *zap.Logger,
) *Detector {
	if config.PollInterval <= 0 {
		config.PollInterval = DefaultPollInterval
	}
	return &Detector{
		config:    config,
		processes: processes,
		topology:  topology,
		denylists: denylists,
		scheduler: scheduler,
		notify:    notify,
		logger:    logger,
		last:      domain.DefaultDisplayState(),
	}
}

// Start captures the denylist (built-ins plus custom), scans once, notifies
// with the result and arms the poll timer. It is a no-op while running or
// after Close. A non-positive pollInterval means the configured default.
func (d *Detector) Start(pollInterval time.Duration, custom []string) {
	d.mu.Lock()
	if d.running || d.closed {
		d.mu.Unlock()
		return
	}
	if pollInterval <= 0 {
		pollInterval = d.config.PollInterval
	}
	d.running = true
	d.generation++
	gen := d.generation
	d.deny = d.denylists.Denylist(custom)
	d.interval = pollInterval
	deny := d.deny
	d.mu.Unlock()

	d.scanMu.Lock()
	state := d.scan(deny)
	d.setLast(state)
	d.emit(state)
	d.scanMu.Unlock()

	d.mu.Lock()
	defer d.mu.Unlock()
	if !d.running || d.generation != gen {
		return // stopped from within the initial notification
	}
	d.timer = d.scheduler.Every(pollInterval, func() { d.tick(gen) })

	d.logger.Info("display detection started",
		zap.Duration("poll_interval", pollInterval),
		zap.Int("denylist_size", deny.Len()),
		zap.Bool("external", state.IsExternalConnected),
		zap.Int("displays", state.DisplayCount),
		zap.Bool("mirrored", state.IsMirrored),
		zap.Bool("shared", state.IsScreenShared))
}

// Stop cancels the poll timer. Idempotent.
func (d *Detector) Stop() {
	d.mu.Lock()
	if !d.running {
		d.mu.Unlock()
		return
	}
	d.running = false
	t := d.timer
	d.timer = nil
	d.mu.Unlock()

	if t != nil {
		t.Cancel()
	}
	d.logger.Info("display detection stopped")
}

// Close stops the detector for good. Idempotent; Start after Close is a no-op.
func (d *Detector) Close() {
	d.Stop()

	d.mu.Lock()
	d.closed = true
	d.mu.Unlock()
}

// Running reports whether the poll timer is armed.
func (d *Detector) Running() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.running
}

// PollInterval returns the interval in effect (zero when stopped).
func (d *Detector) PollInterval() time.Duration {
	d.mu.Lock()
	defer d.mu.Unlock()
	if !d.running {
		return 0
	}
	return d.interval
}

// Denylist returns the denylist captured by the current Start.
func (d *Detector) Denylist() domain.Denylist {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.deny
}

// Last returns the most recently delivered state.
func (d *Detector) Last() domain.DisplayState {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.last
}

// Probe runs one scan with built-ins plus custom, without touching the
// detector's state or notifying.
func (d *Detector) Probe(custom []string) domain.DisplayState {
	return d.scan(d.denylists.Denylist(custom))
}

func (d *Detector) tick(gen uint64) {
	d.mu.Lock()
	if !d.running || d.generation != gen {
		d.mu.Unlock()
		return
	}
	deny := d.deny
	d.mu.Unlock()

	d.scanMu.Lock()
	defer d.scanMu.Unlock()

	state := d.scan(deny)
	if state == d.last {
		return
	}

	d.logger.Debug("display state changed",
		zap.Bool("external", state.IsExternalConnected),
		zap.Int("displays", state.DisplayCount),
		zap.Bool("mirrored", state.IsMirrored),
		zap.Bool("shared", state.IsScreenShared))

	d.setLast(state)
	d.emit(state)
}

func (d *Detector) setLast(state domain.DisplayState) {
	d.mu.Lock()
	d.last = state
	d.mu.Unlock()
}

func (d *Detector) scan(deny domain.Denylist) domain.DisplayState {
	return domain.NewDisplayState(d.topology.Scan(), d.processes.ScreenShared(deny))
}

func (d *Detector) emit(state domain.DisplayState) {
	if d.notify != nil {
		d.notify(state)
	}
}

package domain

import "time"

// ProcessLister enumerates OS processes.
// Implementation: uses gopsutil for cross-platform support.
type ProcessLister interface {
	// Walk calls fn for every live process until fn returns false.
	// Processes that exit during the walk are skipped.
	Walk(fn func(ProcessInfo) bool) error
}

// ConnectorSource enumerates display connectors.
// Implementations: sysfs DRM and X11 RandR (Linux), DisplayConfig (Windows).
type ConnectorSource interface {
	// Name identifies the source in logs (e.g. "drm", "randr").
	Name() string

	// Connectors returns every connector the source can see.
	Connectors() ([]Connector, error)
}

// ScreenShareScanner decides whether screen sharing/recording is active.
type ScreenShareScanner interface {
	ScreenShared(deny Denylist) bool
}

// TopologyScanner reports the current display topology. It never fails;
// enumeration problems yield DefaultTopology.
type TopologyScanner interface {
	Scan() Topology
}

// DenylistProvider builds the effective denylist for a Start call.
type DenylistProvider interface {
	// Denylist returns the built-in names unioned with custom.
	Denylist(custom []string) Denylist
}

// Timer is a handle to a repeating task.
type Timer interface {
	// Cancel stops future invocations. Safe to call more than once.
	Cancel()
}

// Scheduler runs repeating tasks. The callback closure carries its own
// context; no global state is needed to reach the owner.
type Scheduler interface {
	Every(interval time.Duration, fn func()) Timer
}

// Sink receives delivered event payloads (wire JSON).
type Sink interface {
	Send(payload []byte)
}

// SinkFunc adapts a function to Sink.
type SinkFunc func(payload []byte)

// Send calls f(payload).
func (f SinkFunc) Send(payload []byte) { f(payload) }

// JournalEntry is one persisted, delivered event.
type JournalEntry struct {
	ID         uint
	ObservedAt time.Time
	State      DisplayState
}

// EventJournal persists delivered events for later inspection.
// Implementation: sqlite via gorm.
type EventJournal interface {
	// Append stores a delivered state.
	Append(state DisplayState, at time.Time) error

	// Recent returns up to limit entries, newest first.
	Recent(limit int) ([]JournalEntry, error)

	// Since returns entries observed at or after t, oldest first.
	Since(t time.Time) ([]JournalEntry, error)

	// Close releases the underlying database.
	Close() error
}

// InstanceRegistry records the running watch process so other invocations
// (status) can find it. Implementation: a JSON file written atomically.
type InstanceRegistry interface {
	// Register records the current process as the watcher.
	Register(inst Instance) error

	// Touch refreshes the heartbeat; a non-nil lastEvent replaces the stored one.
	Touch(lastEvent []byte) error

	// Get returns the recorded instance, or nil if none is registered.
	Get() (*Instance, error)

	// IsAlive reports whether the recorded process is still running.
	IsAlive() (bool, error)

	// Clear removes the record.
	Clear() error
}

// Package domain contains core business entities and interfaces.
// This is the innermost layer in Clean Architecture - no external dependencies.
package domain

import (
	"encoding/json"
	"sort"
	"strings"
)

// MinDisplayCount is the floor applied to every display count.
// A running session always has at least its primary display.
const MinDisplayCount = 1

// DisplayState is the composite display/session signal at one point in time.
// It is a comparable value type: two states are equal iff all fields match.
type DisplayState struct {
	IsExternalConnected bool
	DisplayCount        int
	IsMirrored          bool
	IsScreenShared      bool
}

// NewDisplayState builds a state from a topology and the screen-sharing flag.
func NewDisplayState(topo Topology, screenShared bool) DisplayState {
	return DisplayState{
		IsExternalConnected: topo.ExternalConnected,
		DisplayCount:        clampDisplayCount(topo.DisplayCount),
		IsMirrored:          topo.Mirrored,
		IsScreenShared:      screenShared,
	}
}

// DefaultDisplayState is the state assumed before any scan has run.
func DefaultDisplayState() DisplayState {
	return DisplayState{DisplayCount: MinDisplayCount}
}

// Equal reports structural equality.
func (s DisplayState) Equal(other DisplayState) bool {
	return s == other
}

// Topology is the output of a display topology scan.
type Topology struct {
	ExternalConnected bool
	DisplayCount      int
	Mirrored          bool
}

// DefaultTopology is returned when displays cannot be enumerated.
func DefaultTopology() Topology {
	return Topology{DisplayCount: MinDisplayCount}
}

// ConnectorKind classifies a display connector.
type ConnectorKind int

const (
	KindIgnored ConnectorKind = iota
	KindBuiltin
	KindExternal
	KindWireless
)

func (k ConnectorKind) String() string {
	switch k {
	case KindBuiltin:
		return "builtin"
	case KindExternal:
		return "external"
	case KindWireless:
		return "wireless"
	default:
		return "ignored"
	}
}

// Connector is a display output port as reported by the OS.
// Name carries the technology prefix (e.g. "eDP-1", "HDMI-A-1", "MIRACAST-2").
type Connector struct {
	Name      string
	Connected bool
}

// ProcessInfo identifies a live OS process.
type ProcessInfo struct {
	PID  int32
	Name string
}

// Denylist is a set of process names treated as evidence of screen sharing.
// When FoldCase is set, lookups ignore case.
type Denylist struct {
	names    map[string]struct{}
	foldCase bool
}

// NewDenylist builds a denylist. Blank entries are dropped and surrounding
// whitespace is trimmed.
func NewDenylist(foldCase bool, names ...string) Denylist {
	d := Denylist{names: make(map[string]struct{}, len(names)), foldCase: foldCase}
	for _, n := range names {
		d.add(n)
	}
	return d
}

// Union returns a new denylist holding the entries of d and names.
func (d Denylist) Union(names ...string) Denylist {
	out := Denylist{names: make(map[string]struct{}, len(d.names)+len(names)), foldCase: d.foldCase}
	for n := range d.names {
		out.names[n] = struct{}{}
	}
	for _, n := range names {
		out.add(n)
	}
	return out
}

func (d Denylist) add(name string) {
	name = strings.TrimSpace(name)
	if name == "" {
		return
	}
	d.names[d.key(name)] = struct{}{}
}

func (d Denylist) key(name string) string {
	if d.foldCase {
		return strings.ToLower(name)
	}
	return name
}

// Contains reports whether a process name is denylisted.
func (d Denylist) Contains(name string) bool {
	if len(d.names) == 0 {
		return false
	}
	_, ok := d.names[d.key(name)]
	return ok
}

// Len returns the number of distinct entries.
func (d Denylist) Len() int {
	return len(d.names)
}

// FoldCase reports whether lookups ignore case.
func (d Denylist) FoldCase() bool {
	return d.foldCase
}

// Names returns the entries sorted, in their stored (possibly folded) form.
func (d Denylist) Names() []string {
	out := make([]string, 0, len(d.names))
	for n := range d.names {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}

func clampDisplayCount(n int) int {
	if n < MinDisplayCount {
		return MinDisplayCount
	}
	return n
}

// Instance describes a running watch process.
// Persisted to a JSON file for cross-process discovery.
type Instance struct {
	PID            int             `json:"pid"`
	StartedAt      int64           `json:"started_at"`
	LastHeartbeat  int64           `json:"last_heartbeat"`
	PollIntervalMs int64           `json:"poll_interval_ms"`
	AppVersion     string          `json:"app_version,omitempty"`
	LastEvent      json.RawMessage `json:"last_event,omitempty"`
}

package fixtures

import (
	"sync"

	"github.com/eliteGoblin/focusd/display_mon/internal/domain"
)

// ScriptedTopology returns a settable topology and counts scans.
type ScriptedTopology struct {
	mu    sync.Mutex
	topo  domain.Topology
	scans int
}

// NewScriptedTopology starts with a single built-in display.
func NewScriptedTopology() *ScriptedTopology {
	return &ScriptedTopology{topo: domain.DefaultTopology()}
}

// Set changes what the next Scan returns.
func (s *ScriptedTopology) Set(topo domain.Topology) {
	s.mu.Lock()
	s.topo = topo
	s.mu.Unlock()
}

func (s *ScriptedTopology) Scan() domain.Topology {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.scans++
	return s.topo
}

// Scans returns how many times Scan was called.
func (s *ScriptedTopology) Scans() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.scans
}

// ScriptedProcesses is a fake process table matched against the denylist.
type ScriptedProcesses struct {
	mu       sync.Mutex
	running  []string
	lastDeny domain.Denylist
}

// NewScriptedProcesses creates a table with the given process names.
func NewScriptedProcesses(names ...string) *ScriptedProcesses {
	return &ScriptedProcesses{running: names}
}

// SetRunning replaces the process table.
func (s *ScriptedProcesses) SetRunning(names ...string) {
	s.mu.Lock()
	s.running = names
	s.mu.Unlock()
}

func (s *ScriptedProcesses) ScreenShared(deny domain.Denylist) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastDeny = deny
	for _, name := range s.running {
		if deny.Contains(name) {
			return true
		}
	}
	return false
}

// LastDenylist returns the denylist seen by the latest scan.
func (s *ScriptedProcesses) LastDenylist() domain.Denylist {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastDeny
}

// StaticDenylists unions a fixed built-in set with the custom names.
type StaticDenylists struct {
	FoldCase bool
	Builtin  []string
}

func (p StaticDenylists) Denylist(custom []string) domain.Denylist {
	return domain.NewDenylist(p.FoldCase, p.Builtin...).Union(custom...)
}

// RecordingSink stores every payload it receives.
type RecordingSink struct {
	mu       sync.Mutex
	payloads [][]byte
}

func (s *RecordingSink) Send(payload []byte) {
	s.mu.Lock()
	s.payloads = append(s.payloads, append([]byte(nil), payload...))
	s.mu.Unlock()
}

// Payloads returns the received payloads as strings.
func (s *RecordingSink) Payloads() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, len(s.payloads))
	for i, p := range s.payloads {
		out[i] = string(p)
	}
	return out
}

var (
	_ domain.TopologyScanner    = (*ScriptedTopology)(nil)
	_ domain.ScreenShareScanner = (*ScriptedProcesses)(nil)
	_ domain.DenylistProvider   = StaticDenylists{}
	_ domain.Sink               = (*RecordingSink)(nil)
)

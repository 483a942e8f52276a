// Package infra implements infrastructure concerns (processes, display connectors, journal).
package infra

import (
	"fmt"

	"github.com/shirou/gopsutil/v3/process"

	"github.com/eliteGoblin/focusd/display_mon/internal/domain"
)

// ProcessListerImpl implements domain.ProcessLister using gopsutil.
type ProcessListerImpl struct{}

// NewProcessLister creates a new process lister.
func NewProcessLister() domain.ProcessLister {
	return &ProcessListerImpl{}
}

// Walk visits every live process with a resolvable name.
func (pl *ProcessListerImpl) Walk(fn func(domain.ProcessInfo) bool) error {
	procs, err := process.Processes()
	if err != nil {
		return fmt.Errorf("list processes: %w", err)
	}

	for _, p := range procs {
		name, err := p.Name()
		if err != nil || name == "" {
			continue // Process may have exited
		}

		if !fn(domain.ProcessInfo{PID: p.Pid, Name: name}) {
			return nil
		}
	}

	return nil
}

// Ensure ProcessListerImpl implements domain.ProcessLister.
var _ domain.ProcessLister = (*ProcessListerImpl)(nil)

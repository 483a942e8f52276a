package infra

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/shirou/gopsutil/v3/process"

	"github.com/eliteGoblin/focusd/display_mon/internal/domain"
)

const instanceFileName = "instance.json"

// FileInstanceRegistry implements domain.InstanceRegistry with a JSON file.
type FileInstanceRegistry struct {
	path  string
	alive func(pid int) bool
	mu    sync.Mutex
}

// NewFileInstanceRegistry creates a registry at ~/.config/displaymon/instance.json.
func NewFileInstanceRegistry() (*FileInstanceRegistry, error) {
	dir, err := DataDir()
	if err != nil {
		return nil, err
	}
	return NewFileInstanceRegistryWithPath(filepath.Join(dir, instanceFileName)), nil
}

// NewFileInstanceRegistryWithPath creates a registry at a specific path (for testing).
func NewFileInstanceRegistryWithPath(path string) *FileInstanceRegistry {
	return &FileInstanceRegistry{path: path, alive: pidExists}
}

// Path returns the registry file path.
func (r *FileInstanceRegistry) Path() string {
	return r.path
}

// Register overwrites any previous record with inst.
func (r *FileInstanceRegistry) Register(inst domain.Instance) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if inst.LastHeartbeat == 0 {
		inst.LastHeartbeat = time.Now().Unix()
	}
	return r.atomicWrite(&inst)
}

// Touch updates the heartbeat and, when lastEvent is non-nil, the last event.
func (r *FileInstanceRegistry) Touch(lastEvent []byte) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	inst, err := r.read()
	if err != nil {
		return err
	}
	if inst == nil {
		return fmt.Errorf("no instance registered at %s", r.path)
	}

	inst.LastHeartbeat = time.Now().Unix()
	if lastEvent != nil {
		inst.LastEvent = append(json.RawMessage(nil), lastEvent...)
	}
	return r.atomicWrite(inst)
}

// Get returns the recorded instance; nil, nil when none exists.
func (r *FileInstanceRegistry) Get() (*domain.Instance, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.read()
}

// IsAlive checks the recorded PID. Not registered means not alive.
func (r *FileInstanceRegistry) IsAlive() (bool, error) {
	inst, err := r.Get()
	if err != nil || inst == nil {
		return false, err
	}
	return r.alive(inst.PID), nil
}

// Clear removes the registry file. Missing is not an error.
func (r *FileInstanceRegistry) Clear() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := os.Remove(r.path); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

func (r *FileInstanceRegistry) read() (*domain.Instance, error) {
	data, err := os.ReadFile(r.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	var inst domain.Instance
	if err := json.Unmarshal(data, &inst); err != nil {
		return nil, fmt.Errorf("corrupt instance file %s: %w", r.path, err)
	}
	return &inst, nil
}

// atomicWrite writes the record to a temp file and renames it into place.
func (r *FileInstanceRegistry) atomicWrite(inst *domain.Instance) error {
	data, err := json.Marshal(inst)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(r.path), 0755); err != nil {
		return err
	}

	tmpPath := fmt.Sprintf("%s.%d.tmp", r.path, os.Getpid())
	if err := os.WriteFile(tmpPath, data, 0600); err != nil {
		return err
	}
	if err := os.Rename(tmpPath, r.path); err != nil {
		os.Remove(tmpPath)
		return err
	}
	return nil
}

func pidExists(pid int) bool {
	if pid <= 0 {
		return false
	}
	ok, err := process.PidExists(int32(pid))
	return err == nil && ok
}

// Ensure FileInstanceRegistry implements domain.InstanceRegistry.
var _ domain.InstanceRegistry = (*FileInstanceRegistry)(nil)

//go:build !linux && !windows

package infra

import "github.com/eliteGoblin/focusd/display_mon/internal/domain"

// NewConnectorSource returns the platform's display connector source.
// Without DRM or DisplayConfig, only an X server (if any) can be asked.
func NewConnectorSource() domain.ConnectorSource {
	return NewRandRSource("")
}

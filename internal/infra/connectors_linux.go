package infra

import "github.com/eliteGoblin/focusd/display_mon/internal/domain"

// NewConnectorSource returns the platform's display connector source:
// sysfs DRM first, X11 RandR when sysfs shows nothing.
func NewConnectorSource() domain.ConnectorSource {
	return NewFallbackSource(NewDRMSource(DefaultDRMRoot), NewRandRSource(""))
}

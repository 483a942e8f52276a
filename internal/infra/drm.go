package infra

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/eliteGoblin/focusd/display_mon/internal/domain"
)

// DefaultDRMRoot is where the kernel exposes DRM connectors.
const DefaultDRMRoot = "/sys/class/drm"

// DRMSource reads connector status from sysfs (card<N>-<connector>/status).
type DRMSource struct {
	root string
}

// NewDRMSource creates a sysfs connector source rooted at root.
// An empty root means DefaultDRMRoot.
func NewDRMSource(root string) *DRMSource {
	if root == "" {
		root = DefaultDRMRoot
	}
	return &DRMSource{root: root}
}

func (s *DRMSource) Name() string {
	return "drm"
}

// Connectors lists card*-* entries. Entries without a readable status are skipped.
func (s *DRMSource) Connectors() ([]domain.Connector, error) {
	entries, err := os.ReadDir(s.root)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", s.root, err)
	}

	var out []domain.Connector
	for _, entry := range entries {
		connector, ok := connectorName(entry.Name())
		if !ok {
			continue
		}

		status, err := os.ReadFile(filepath.Join(s.root, entry.Name(), "status"))
		if err != nil {
			continue
		}

		out = append(out, domain.Connector{
			Name:      connector,
			Connected: strings.TrimSpace(string(status)) == "connected",
		})
	}

	return out, nil
}

// connectorName extracts "HDMI-A-1" from "card0-HDMI-A-1".
func connectorName(entry string) (string, bool) {
	if !strings.HasPrefix(entry, "card") {
		return "", false
	}
	_, connector, ok := strings.Cut(entry[len("card"):], "-")
	if !ok || connector == "" {
		return "", false
	}
	return connector, true
}

// Ensure DRMSource implements domain.ConnectorSource.
var _ domain.ConnectorSource = (*DRMSource)(nil)

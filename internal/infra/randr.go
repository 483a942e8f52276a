package infra

import (
	"fmt"

	"github.com/jezek/xgb"
	"github.com/jezek/xgb/randr"
	"github.com/jezek/xgb/xproto"

	"github.com/eliteGoblin/focusd/display_mon/internal/domain"
)

// RandRSource lists X11 outputs through the RandR extension.
// A connection is opened per call so a restarted X server is picked up.
type RandRSource struct {
	display string
}

// NewRandRSource creates a RandR source. An empty display means $DISPLAY.
func NewRandRSource(display string) *RandRSource {
	return &RandRSource{display: display}
}

func (s *RandRSource) Name() string {
	return "randr"
}

// Connectors returns every RandR output on the default screen.
func (s *RandRSource) Connectors() ([]domain.Connector, error) {
	conn, err := xgb.NewConnDisplay(s.display)
	if err != nil {
		return nil, fmt.Errorf("connect to X server: %w", err)
	}
	defer conn.Close()

	if err := randr.Init(conn); err != nil {
		return nil, fmt.Errorf("init randr: %w", err)
	}

	root := xproto.Setup(conn).DefaultScreen(conn).Root
	resources, err := randr.GetScreenResourcesCurrent(conn, root).Reply()
	if err != nil {
		return nil, fmt.Errorf("get screen resources: %w", err)
	}

	out := make([]domain.Connector, 0, len(resources.Outputs))
	for _, output := range resources.Outputs {
		info, err := randr.GetOutputInfo(conn, output, resources.ConfigTimestamp).Reply()
		if err != nil {
			continue
		}
		out = append(out, domain.Connector{
			Name:      string(info.Name),
			Connected: info.Connection == randr.ConnectionConnected,
		})
	}

	return out, nil
}

// Ensure RandRSource implements domain.ConnectorSource.
var _ domain.ConnectorSource = (*RandRSource)(nil)

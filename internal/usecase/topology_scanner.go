package usecase

import (
	"strings"

	"go.uber.org/zap"

	"github.com/eliteGoblin/focusd/display_mon/internal/domain"
)

// Connector name prefixes. Built-in is checked first so that
// "DISPLAYPORT_EMBEDDED" never falls through to an external prefix.
var (
	builtinPrefixes = []string{
		"eDP", "LVDS", "DSI",
		"INTERNAL", "DISPLAYPORT_EMBEDDED", "UDI_EMBEDDED", "PRIMARY",
	}
	wirelessPrefixes = []string{"MIRACAST"}
	externalPrefixes = []string{
		"HDMI", "DP", "DisplayPort", "VGA", "DVI",
		"HD15", "SVIDEO", "COMPOSITE", "COMPONENT", "D_JPN", "SDI",
		"DISPLAYPORT_EXTERNAL", "DISPLAYPORT_USB_TUNNEL", "UDI_EXTERNAL",
		"SDTVDONGLE", "INDIRECT_WIRED", "OTHER", "SECONDARY",
	}
)

// Classify maps a connector name to its kind by technology prefix.
func Classify(name string) domain.ConnectorKind {
	switch {
	case hasAnyPrefix(name, builtinPrefixes):
		return domain.KindBuiltin
	case hasAnyPrefix(name, wirelessPrefixes):
		return domain.KindWireless
	case hasAnyPrefix(name, externalPrefixes):
		return domain.KindExternal
	default:
		return domain.KindIgnored
	}
}

func hasAnyPrefix(s string, prefixes []string) bool {
	for _, p := range prefixes {
		if strings.HasPrefix(s, p) {
			return true
		}
	}
	return false
}

// TopologyScanner summarises display connectors into a Topology.
type TopologyScanner struct {
	source domain.ConnectorSource
	logger *zap.Logger
}

// NewTopologyScanner creates a scanner. A nil source always yields the default topology.
func NewTopologyScanner(source domain.ConnectorSource, logger *zap.Logger) *TopologyScanner {
	return &TopologyScanner{source: source, logger: logger}
}

// Scan never fails: an unreadable source gives DefaultTopology.
func (s *TopologyScanner) Scan() domain.Topology {
	if s.source == nil {
		return domain.DefaultTopology()
	}

	connectors, err := s.source.Connectors()
	if err != nil {
		s.logger.Debug("display enumeration failed",
			zap.String("source", s.source.Name()),
			zap.Error(err))
		return domain.DefaultTopology()
	}

	return Summarize(connectors)
}

// Summarize counts connected, recognised connectors.
// The count is floored at domain.MinDisplayCount.
func Summarize(connectors []domain.Connector) domain.Topology {
	topo := domain.Topology{}
	for _, c := range connectors {
		if !c.Connected {
			continue
		}

		kind := Classify(c.Name)
		if kind == domain.KindIgnored {
			continue
		}

		topo.DisplayCount++
		if kind != domain.KindBuiltin {
			topo.ExternalConnected = true
		}
		if kind == domain.KindWireless {
			topo.Mirrored = true
		}
	}

	if topo.DisplayCount < domain.MinDisplayCount {
		topo.DisplayCount = domain.MinDisplayCount
	}
	return topo
}

// Ensure TopologyScanner implements domain.TopologyScanner.
var _ domain.TopologyScanner = (*TopologyScanner)(nil)

package infra

import (
	"errors"
	"strings"

	"github.com/eliteGoblin/focusd/display_mon/internal/domain"
)

// FallbackSource asks each source in order and returns the first non-empty result.
type FallbackSource struct {
	sources []domain.ConnectorSource
}

// NewFallbackSource chains connector sources.
func NewFallbackSource(sources ...domain.ConnectorSource) *FallbackSource {
	return &FallbackSource{sources: sources}
}

func (s *FallbackSource) Name() string {
	names := make([]string, 0, len(s.sources))
	for _, src := range s.sources {
		names = append(names, src.Name())
	}
	return strings.Join(names, "+")
}

// Connectors returns the first source's connectors that is both error free
// and non-empty. If every source fails, the joined errors are returned.
func (s *FallbackSource) Connectors() ([]domain.Connector, error) {
	var errs []error
	for _, src := range s.sources {
		connectors, err := src.Connectors()
		if err != nil {
			errs = append(errs, err)
			continue
		}
		if len(connectors) > 0 {
			return connectors, nil
		}
	}

	if len(errs) == len(s.sources) && len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return nil, nil
}

// Ensure FallbackSource implements domain.ConnectorSource.
var _ domain.ConnectorSource = (*FallbackSource)(nil)

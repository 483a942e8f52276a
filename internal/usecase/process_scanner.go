// Package usecase contains application business logic.
package usecase

import (
	"go.uber.org/zap"

	"github.com/eliteGoblin/focusd/display_mon/internal/domain"
)

// ProcessScanner decides whether a denylisted process is running.
type ProcessScanner struct {
	lister domain.ProcessLister
	logger *zap.Logger
}

// NewProcessScanner creates a scanner over the given process lister.
func NewProcessScanner(lister domain.ProcessLister, logger *zap.Logger) *ProcessScanner {
	return &ProcessScanner{lister: lister, logger: logger}
}

// ScreenShared reports whether any running process is in deny.
// Enumeration failure counts as "not sharing".
func (s *ProcessScanner) ScreenShared(deny domain.Denylist) bool {
	if deny.Len() == 0 {
		return false
	}

	shared := false
	err := s.lister.Walk(func(p domain.ProcessInfo) bool {
		if deny.Contains(p.Name) {
			shared = true
			return false
		}
		return true
	})
	if err != nil {
		s.logger.Debug("process enumeration failed", zap.Error(err))
		return false
	}

	return shared
}

// Matches returns every running process that is in deny.
func (s *ProcessScanner) Matches(deny domain.Denylist) []domain.ProcessInfo {
	var found []domain.ProcessInfo
	err := s.lister.Walk(func(p domain.ProcessInfo) bool {
		if deny.Contains(p.Name) {
			found = append(found, p)
		}
		return true
	})
	if err != nil {
		s.logger.Debug("process enumeration failed", zap.Error(err))
		return nil
	}

	return found
}

// Ensure ProcessScanner implements domain.ScreenShareScanner.
var _ domain.ScreenShareScanner = (*ProcessScanner)(nil)

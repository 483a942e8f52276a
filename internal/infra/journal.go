package infra

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/pkg/errors"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/eliteGoblin/focusd/display_mon/internal/domain"
)

const (
	defaultJournalName = "displaymon.db"
	defaultDataDir     = ".config/displaymon"

	// DefaultRecentLimit is used when Recent is asked for a non-positive limit.
	DefaultRecentLimit = 20
)

// StateEvent is one delivered display event row.
type StateEvent struct {
	ID                         uint      `gorm:"primaryKey"`
	ObservedAt                 time.Time `gorm:"not null;index"`
	IsScreenMirrored           bool      `gorm:"not null"`
	IsExternalDisplayConnected bool      `gorm:"not null"`
	DisplayCount               int       `gorm:"not null"`
	IsScreenShared             bool      `gorm:"not null"`
	Payload                    string    `gorm:"not null"`
	CreatedAt                  time.Time `gorm:"autoCreateTime"`
}

func (e StateEvent) entry() domain.JournalEntry {
	return domain.JournalEntry{
		ID:         e.ID,
		ObservedAt: e.ObservedAt,
		State: domain.DisplayState{
			IsExternalConnected: e.IsExternalDisplayConnected,
			DisplayCount:        e.DisplayCount,
			IsMirrored:          e.IsScreenMirrored,
			IsScreenShared:      e.IsScreenShared,
		},
	}
}

// GormJournal implements domain.EventJournal on sqlite.
type GormJournal struct {
	db *gorm.DB
}

// DataDir returns ~/.config/displaymon, creating it if needed.
func DataDir() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}

	dir := filepath.Join(homeDir, defaultDataDir)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create data directory: %w", err)
	}
	return dir, nil
}

// DefaultJournalPath returns ~/.config/displaymon/displaymon.db.
func DefaultJournalPath() (string, error) {
	dir, err := DataDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, defaultJournalName), nil
}

// OpenJournal opens (and migrates) the journal at path.
// An empty path means DefaultJournalPath.
func OpenJournal(path string) (*GormJournal, error) {
	if path == "" {
		var err error
		path, err = DefaultJournalPath()
		if err != nil {
			return nil, err
		}
	}

	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open journal %s", path)
	}

	if err := db.AutoMigrate(&StateEvent{}); err != nil {
		return nil, errors.Wrap(err, "failed to migrate journal schema")
	}

	return &GormJournal{db: db}, nil
}

// Append stores a delivered state.
func (j *GormJournal) Append(state domain.DisplayState, at time.Time) error {
	ev := domain.EventFromState(state)
	row := &StateEvent{
		ObservedAt:                 at,
		IsScreenMirrored:           ev.IsScreenMirrored,
		IsExternalDisplayConnected: ev.IsExternalDisplayConnected,
		DisplayCount:               ev.DisplayCount,
		IsScreenShared:             ev.IsScreenShared,
		Payload:                    string(domain.EncodeEvent(state)),
	}
	if err := j.db.Create(row).Error; err != nil {
		return errors.Wrap(err, "failed to insert state event")
	}
	return nil
}

// Recent returns up to limit entries, newest first.
func (j *GormJournal) Recent(limit int) ([]domain.JournalEntry, error) {
	if limit <= 0 {
		limit = DefaultRecentLimit
	}

	var rows []StateEvent
	if err := j.db.Order("observed_at DESC, id DESC").Limit(limit).Find(&rows).Error; err != nil {
		return nil, errors.Wrap(err, "failed to query recent state events")
	}
	return entries(rows), nil
}

// Since returns entries observed at or after t, oldest first.
func (j *GormJournal) Since(t time.Time) ([]domain.JournalEntry, error) {
	var rows []StateEvent
	if err := j.db.Where("observed_at >= ?", t).Order("observed_at ASC, id ASC").Find(&rows).Error; err != nil {
		return nil, errors.Wrap(err, "failed to query state events")
	}
	return entries(rows), nil
}

// Close releases the underlying database.
func (j *GormJournal) Close() error {
	sqlDB, err := j.db.DB()
	if err != nil {
		return errors.Wrap(err, "failed to get underlying sql.DB")
	}
	return sqlDB.Close()
}

func entries(rows []StateEvent) []domain.JournalEntry {
	out := make([]domain.JournalEntry, len(rows))
	for i, r := range rows {
		out[i] = r.entry()
	}
	return out
}

// Ensure GormJournal implements domain.EventJournal.
var _ domain.EventJournal = (*GormJournal)(nil)

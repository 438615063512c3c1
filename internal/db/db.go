package db

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/balkashynov/shyft/internal/models"
)

// Archive is the SQLite mirror of finalized task attempts
type Archive struct {
	db *gorm.DB
}

// Open connects to the archive at path and runs migrations
func Open(path string) (*Archive, error) {
	// Ensure the directory exists
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create archive directory: %w", err)
	}

	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent), // Quiet by default
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to archive: %w", err)
	}

	if err := db.AutoMigrate(&models.ArchivedAttempt{}); err != nil {
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return &Archive{db: db}, nil
}

// Record stores every attempt of a finalized shift, replacing any earlier
// rows for the same shift id
func (a *Archive) Record(shiftID, sessionID string, attempts []models.TaskAttempt) error {
	rows := make([]models.ArchivedAttempt, 0, len(attempts))
	for i, at := range attempts {
		rows = append(rows, models.ArchivedAttempt{
			ShiftID:         shiftID,
			SessionID:       sessionID,
			Index:           i + 1,
			PlatformID:      at.PlatformID,
			Permalink:       at.Permalink,
			Response1ID:     at.Response1ID,
			Response2ID:     at.Response2ID,
			Rank:            at.Rank.String(),
			Justification:   at.Justification,
			StartedAt:       at.StartedAt,
			ResolvedAt:      at.ResolvedAt,
			DurationSeconds: int(at.Duration() / time.Second),
		})
	}

	return a.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("shift_id = ?", shiftID).Delete(&models.ArchivedAttempt{}).Error; err != nil {
			return err
		}
		if len(rows) == 0 {
			return nil
		}
		return tx.Create(&rows).Error
	})
}

// Search matches query case-insensitively against ids, permalinks, rank
// and justification text. Newest first; limit <= 0 means no limit.
func (a *Archive) Search(query string, limit int) ([]models.ArchivedAttempt, error) {
	like := "%" + strings.ToLower(strings.TrimSpace(query)) + "%"

	q := a.db.Where(
		"LOWER(platform_id) LIKE ? OR LOWER(permalink) LIKE ? OR LOWER(response_1_id) LIKE ? OR "+
			"LOWER(response_2_id) LIKE ? OR LOWER(rank) LIKE ? OR LOWER(justification) LIKE ? OR shift_id LIKE ?",
		like, like, like, like, like, like, like,
	).Order("resolved_at DESC, id DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}

	var rows []models.ArchivedAttempt
	if err := q.Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// ForShift returns the archived attempts of one shift in order
func (a *Archive) ForShift(shiftID string) ([]models.ArchivedAttempt, error) {
	var rows []models.ArchivedAttempt
	err := a.db.Where("shift_id = ?", shiftID).Order("position ASC").Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// DeleteShift removes the archived attempts of a shift and reports how many
func (a *Archive) DeleteShift(shiftID string) (int64, error) {
	res := a.db.Where("shift_id = ?", shiftID).Delete(&models.ArchivedAttempt{})
	return res.RowsAffected, res.Error
}

// Close closes the database connection
func (a *Archive) Close() error {
	if a == nil || a.db == nil {
		return nil
	}
	sqlDB, err := a.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

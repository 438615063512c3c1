package models

import (
	"time"
)

// ArchivedAttempt is the SQLite mirror of a finalized task attempt
type ArchivedAttempt struct {
	ID        uint      `gorm:"primarykey" json:"-"`
	CreatedAt time.Time `json:"archived_at"`

	ShiftID   string `gorm:"index;not null" json:"shift_id"`
	SessionID string `gorm:"index" json:"session_id"`
	Index     int    `gorm:"column:position;not null" json:"index"` // 1-based position within the shift

	PlatformID    string `json:"platform_id"`
	Permalink     string `json:"permalink"`
	Response1ID   string `gorm:"column:response_1_id" json:"response_1_id"`
	Response2ID   string `gorm:"column:response_2_id" json:"response_2_id"`
	Rank          string `json:"rank"`
	Justification string `json:"justification"`

	StartedAt       time.Time `json:"started_at"`
	ResolvedAt      time.Time `json:"resolved_at"`
	DurationSeconds int       `json:"duration_seconds"`
}

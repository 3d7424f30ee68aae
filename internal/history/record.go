// Package history persists the outcome of every download execution.
package history

import (
	"time"

	"vidsnatch/internal/progress"
)

// Record is one execution as stored in the history database.
type Record struct {
	ID              string         `gorm:"primaryKey"` // execution ID
	SourceURL       string         `gorm:"index"`
	MediaID         string         `gorm:"index"`
	Title           string
	Label           string
	State           progress.State `gorm:"not null;index"`
	OutputPath      string
	BytesDownloaded int64
	BytesTotal      *int64
	ErrorMessage    string
	CreatedAt       time.Time  `gorm:"autoCreateTime"`
	UpdatedAt       time.Time  `gorm:"autoUpdateTime"`
	FinishedAt      *time.Time `gorm:"index"`
}

// TableName keeps the table name stable across renames of the Go type.
func (Record) TableName() string {
	return "downloads"
}

// Repository stores and queries records.
type Repository interface {
	Create(r *Record) error
	Update(r *Record) error
	FindByID(id string) (*Record, error)
	Recent(limit int) ([]*Record, error)
	Close() error
}

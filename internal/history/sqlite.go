package history

import (
	"fmt"
	"path/filepath"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"vidsnatch/internal/dirs"
)

// SQLiteRepository implements Repository on a SQLite file.
type SQLiteRepository struct {
	db *gorm.DB
}

// NewSQLiteRepository opens (creating if needed) the database at path and migrates it.
func NewSQLiteRepository(path string) (*SQLiteRepository, error) {
	if path != ":memory:" {
		if err := dirs.Ensure(filepath.Dir(path)); err != nil {
			return nil, fmt.Errorf("create history directory: %w", err)
		}
	}
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("open history database: %w", err)
	}

	// executions report concurrently; sqlite tolerates one writer at a time
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("open history database: %w", err)
	}
	sqlDB.SetMaxOpenConns(1)

	if err := db.AutoMigrate(&Record{}); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("migrate history database: %w", err)
	}
	return &SQLiteRepository{db: db}, nil
}

func (r *SQLiteRepository) Create(rec *Record) error {
	return r.db.Create(rec).Error
}

func (r *SQLiteRepository) Update(rec *Record) error {
	return r.db.Save(rec).Error
}

// FindByID returns gorm.ErrRecordNotFound when no record has id.
func (r *SQLiteRepository) FindByID(id string) (*Record, error) {
	var rec Record
	if err := r.db.First(&rec, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &rec, nil
}

// Recent returns up to limit records, newest first.
func (r *SQLiteRepository) Recent(limit int) ([]*Record, error) {
	var recs []*Record
	q := r.db.Order("created_at DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	err := q.Find(&recs).Error
	return recs, err
}

func (r *SQLiteRepository) Close() error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// Package sqlstore persists records in a SQLite database through GORM.
package sqlstore

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/mamadbah2/poultry-api/internal/domain/apperrors"
	"github.com/mamadbah2/poultry-api/internal/domain/models"
)

// Record is the single table every entity is written to. The validated input is kept as
// a JSON document in Payload.
type Record struct {
	ID        int64     `gorm:"primaryKey;autoIncrement"`
	Entity    string    `gorm:"size:32;not null;index:idx_records_entity_created,priority:1"`
	Payload   string    `gorm:"type:text;not null"`
	CreatedAt time.Time `gorm:"not null;index:idx_records_entity_created,priority:2"`
}

// TableName pins the table name.
func (Record) TableName() string { return "records" }

// Repository implements the record store on top of GORM.
type Repository struct {
	db     *gorm.DB
	now    func() time.Time
	logger *zap.Logger
}

// NewRepository opens (or creates) the SQLite database at path and migrates the schema.
// Use ":memory:" for a throwaway database.
func NewRepository(path string, log *zap.Logger) (*Repository, error) {
	if log == nil {
		log = zap.NewNop()
	}

	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get sqlite connection: %w", err)
	}
	// SQLite allows one writer; an in-memory database also disappears with its connection.
	sqlDB.SetMaxOpenConns(1)

	if err := db.AutoMigrate(&Record{}); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("failed to migrate records table: %w", err)
	}

	log.Info("sqlite store ready", zap.String("path", path))

	return &Repository{db: db, now: time.Now, logger: log}, nil
}

// Store inserts doc as a new row.
func (r *Repository) Store(ctx context.Context, entity models.Entity, doc any) (models.Receipt, error) {
	payload, err := json.Marshal(doc)
	if err != nil {
		return models.Receipt{}, fmt.Errorf("encode %s document: %w", entity, err)
	}

	rec := Record{
		Entity:    entity.String(),
		Payload:   string(payload),
		CreatedAt: r.now().UTC(),
	}
	if err := r.db.WithContext(ctx).Create(&rec).Error; err != nil {
		return models.Receipt{}, apperrors.Storage("insert "+entity.String(), err)
	}

	return models.Receipt{ID: rec.ID, CreatedAt: rec.CreatedAt}, nil
}

// CountSince counts rows of entity created at or after since.
func (r *Repository) CountSince(ctx context.Context, entity models.Entity, since time.Time) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).
		Model(&Record{}).
		Where("entity = ? AND created_at >= ?", entity.String(), since.UTC()).
		Count(&n).Error
	if err != nil {
		return 0, apperrors.Storage("count "+entity.String(), err)
	}
	return n, nil
}

// Load decodes the stored document with the given id into dst.
func (r *Repository) Load(ctx context.Context, entity models.Entity, id int64, dst any) error {
	var rec Record
	err := r.db.WithContext(ctx).
		Where("id = ? AND entity = ?", id, entity.String()).
		First(&rec).Error
	if err != nil {
		return apperrors.Storage(fmt.Sprintf("load %s %d", entity, id), err)
	}
	return json.Unmarshal([]byte(rec.Payload), dst)
}

// Close releases the database handle.
func (r *Repository) Close() error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Rakhulsr/go-storefront/app/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// StorageEntryRepository is the MySQL storage driver. It satisfies
// storage.Storage.
type StorageEntryRepository struct {
	db *gorm.DB
}

func NewStorageEntryRepository(db *gorm.DB) *StorageEntryRepository {
	return &StorageEntryRepository{db: db}
}

func (r *StorageEntryRepository) GetItem(ctx context.Context, key string) (string, bool, error) {
	var entry models.StorageEntry
	err := r.db.WithContext(ctx).Where("`key` = ?", key).First(&entry).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to get storage entry %q: %w", key, err)
	}
	return entry.Value, true, nil
}

func (r *StorageEntryRepository) SetItem(ctx context.Context, key, value string) error {
	now := time.Now()
	entry := models.StorageEntry{Key: key, Value: value, CreatedAt: now, UpdatedAt: now}

	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&entry).Error
	if err != nil {
		return fmt.Errorf("failed to save storage entry %q: %w", key, err)
	}
	return nil
}

func (r *StorageEntryRepository) RemoveItem(ctx context.Context, key string) error {
	if err := r.db.WithContext(ctx).Where("`key` = ?", key).Delete(&models.StorageEntry{}).Error; err != nil {
		return fmt.Errorf("failed to delete storage entry %q: %w", key, err)
	}
	return nil
}

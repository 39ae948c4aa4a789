package models

import "time"

// StorageEntry backs the MySQL storage driver: one row per key.
type StorageEntry struct {
	Key       string `gorm:"size:191;primaryKey"`
	Value     string `gorm:"type:longtext;not null"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

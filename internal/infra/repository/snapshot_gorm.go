package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Snapshot はセッションごとのスナップショット行（key/value）。
type Snapshot struct {
	Key       string    `gorm:"primaryKey;type:varchar(191);column:key" json:"key"`
	Value     string    `gorm:"type:text;not null" json:"value"`
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime" json:"updated_at"`
}

func (Snapshot) TableName() string {
	return "snapshots"
}

// SnapshotGormKV は storage.KV のGORM実装。
type SnapshotGormKV struct {
	db *gorm.DB
}

// DI
func NewSnapshotGormKV(db *gorm.DB) *SnapshotGormKV {
	return &SnapshotGormKV{db: db}
}

func (r *SnapshotGormKV) Get(ctx context.Context, key string) (string, bool, error) {
	var row Snapshot

	err := r.db.WithContext(ctx).
		Where("key = ?", key).
		First(&row).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return row.Value, true, nil
}

// Set は同じキーなら上書き。
func (r *SnapshotGormKV) Set(ctx context.Context, key string, value string) error {
	row := Snapshot{
		Key:       key,
		Value:     value,
		UpdatedAt: time.Now(),
	}

	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "key"}},
			DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
		}).
		Create(&row).Error
}

// Remove は無いキーでもエラーにしない。
func (r *SnapshotGormKV) Remove(ctx context.Context, key string) error {
	return r.db.WithContext(ctx).
		Where("key = ?", key).
		Delete(&Snapshot{}).Error
}

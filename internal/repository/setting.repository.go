package repository

import (
	"context"
	"errors"

	"github.com/nimasrn/inbox-ledger/pkg/db"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SettingRepository is a plain key/value store kept next to the ledger tables.
type SettingRepository struct {
	*db.DB
}

func NewSettingRepository(db *db.DB) *SettingRepository {
	return &SettingRepository{
		db,
	}
}

func (r *SettingRepository) Get(ctx context.Context, key string) (string, error) {
	var entity SettingEntity
	err := r.Read(ctx).Where("setting_key = ?", key).First(&entity).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", ErrNotFound
		}
		return "", err
	}
	if entity.Value == nil {
		return "", nil
	}
	return *entity.Value, nil
}

func (r *SettingRepository) Set(ctx context.Context, key, value string) error {
	entity := &SettingEntity{Key: key, Value: &value}
	return r.Write(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "setting_key"}},
			DoUpdates: clause.AssignmentColumns([]string{"setting_value", "updated_at"}),
		}).
		Create(entity).
		Error
}

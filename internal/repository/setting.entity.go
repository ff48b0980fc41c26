package repository

import "time"

type SettingEntity struct {
	ID        int64     `db:"id"            gorm:"primaryKey;autoIncrement;column:id"`
	Key       string    `db:"setting_key"   gorm:"column:setting_key;not null;unique"`
	Value     *string   `db:"setting_value" gorm:"column:setting_value"`
	UpdatedAt time.Time `db:"updated_at"    gorm:"column:updated_at;autoUpdateTime"`
}

func (SettingEntity) TableName() string {
	return "settings"
}

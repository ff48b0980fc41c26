package repository

import (
	"time"

	"github.com/nimasrn/inbox-ledger/internal/model"
)

type ContactEntity struct {
	ID            int64      `db:"id"              gorm:"primaryKey;autoIncrement;column:id"`
	Phone         string     `db:"phone"           gorm:"column:phone;not null;unique"`
	Name          string     `db:"name"            gorm:"column:name;not null;default:''"`
	FolderPath    string     `db:"folder_path"     gorm:"column:folder_path;not null"`
	CreatedAt     time.Time  `db:"created_at"      gorm:"column:created_at;autoCreateTime"`
	LastContactAt *time.Time `db:"last_contact_at" gorm:"column:last_contact_at"`
}

func (ContactEntity) TableName() string {
	return "contacts"
}

func toContactEntity(m *model.Contact) *ContactEntity {
	if m == nil {
		return nil
	}
	return &ContactEntity{
		ID:            m.ID,
		Phone:         m.Phone,
		Name:          m.Name,
		FolderPath:    m.FolderPath,
		CreatedAt:     m.CreatedAt,
		LastContactAt: m.LastContactAt,
	}
}

func toContactModel(e *ContactEntity) *model.Contact {
	if e == nil {
		return nil
	}
	return &model.Contact{
		ID:            e.ID,
		Phone:         e.Phone,
		Name:          e.Name,
		FolderPath:    e.FolderPath,
		CreatedAt:     e.CreatedAt,
		LastContactAt: e.LastContactAt,
	}
}

type contactSummaryRow struct {
	ContactEntity
	TotalMessages int64 `gorm:"column:total_messages"`
	TotalExpenses int64 `gorm:"column:total_expenses"`
}

func toContactSummaries(rows []*contactSummaryRow) []*model.ContactSummary {
	out := make([]*model.ContactSummary, len(rows))
	for i, r := range rows {
		out[i] = &model.ContactSummary{
			Contact:       *toContactModel(&r.ContactEntity),
			TotalMessages: r.TotalMessages,
			TotalExpenses: r.TotalExpenses,
		}
	}
	return out
}

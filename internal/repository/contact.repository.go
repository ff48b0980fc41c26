package repository

import (
	"context"
	"errors"
	"time"

	"github.com/nimasrn/inbox-ledger/internal/model"
	"github.com/nimasrn/inbox-ledger/pkg/db"
	"gorm.io/gorm"
)

type ContactRepository struct {
	*db.DB
}

func NewContactRepository(db *db.DB) *ContactRepository {
	return &ContactRepository{
		db,
	}
}

func (r *ContactRepository) FindByPhone(ctx context.Context, phone string) (*model.Contact, error) {
	var entity ContactEntity
	err := r.Read(ctx).
		Where("phone = ?", phone).
		First(&entity).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return toContactModel(&entity), nil
}

// Create inserts a new contact. A concurrent insert of the same phone
// surfaces as ErrDuplicate.
func (r *ContactRepository) Create(ctx context.Context, c *model.Contact) (*model.Contact, error) {
	entity := toContactEntity(c)
	if entity.LastContactAt == nil {
		now := time.Now().UTC()
		entity.LastContactAt = &now
	}

	if err := r.Write(ctx).Create(entity).Error; err != nil {
		if isDuplicate(err) {
			return nil, ErrDuplicate
		}
		return nil, err
	}
	return toContactModel(entity), nil
}

// Touch stamps the last contact time and replaces the name when one is given.
func (r *ContactRepository) Touch(ctx context.Context, id int64, name string, at time.Time) error {
	updates := map[string]any{"last_contact_at": at}
	if name != "" {
		updates["name"] = name
	}

	result := r.Write(ctx).
		Model(&ContactEntity{}).
		Where("id = ?", id).
		Updates(updates)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *ContactRepository) List(ctx context.Context) ([]*model.ContactSummary, error) {
	var rows []*contactSummaryRow
	err := r.Read(ctx).
		Table("contacts AS c").
		Select(`
            c.*,
            (SELECT COUNT(*) FROM messages m WHERE m.contact_id = c.id) AS total_messages,
            (SELECT COUNT(*) FROM expenses e WHERE e.contact_id = c.id) AS total_expenses
        `).
		Order("c.last_contact_at DESC").
		Order("c.id DESC").
		Scan(&rows).
		Error
	if err != nil {
		return nil, err
	}
	return toContactSummaries(rows), nil
}

func (r *ContactRepository) Count(ctx context.Context) (int64, error) {
	var total int64
	err := r.Read(ctx).Model(&ContactEntity{}).Count(&total).Error
	return total, err
}

package repository

import (
	"context"
	"errors"

	"github.com/nimasrn/inbox-ledger/internal/model"
	"github.com/nimasrn/inbox-ledger/pkg/db"
	"gorm.io/gorm"
)

type ExpenseRepository struct {
	*db.DB
}

func NewExpenseRepository(db *db.DB) *ExpenseRepository {
	return &ExpenseRepository{
		db,
	}
}

func (r *ExpenseRepository) Create(ctx context.Context, e *model.Expense) (*model.Expense, error) {
	entity := toExpenseEntity(e)

	if err := r.Write(ctx).Create(entity).Error; err != nil {
		return nil, err
	}

	return toExpenseModel(entity), nil
}

func (r *ExpenseRepository) GetByID(ctx context.Context, id int64) (*model.Expense, error) {
	var entity ExpenseEntity
	err := r.Read(ctx).Where("id = ?", id).First(&entity).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return toExpenseModel(&entity), nil
}

// UpdateStatus sets status and observations on id. When from is non-empty the
// row only matches while it still holds that status. It returns the number of
// matched rows.
func (r *ExpenseRepository) UpdateStatus(ctx context.Context, id int64, status model.ExpenseStatus, observations *string, from model.ExpenseStatus) (int64, error) {
	q := r.Write(ctx).
		Model(&ExpenseEntity{}).
		Where("id = ?", id)
	if from != "" {
		q = q.Where("status = ?", string(from))
	}

	result := q.Updates(map[string]any{
		"status":       string(status),
		"observations": observations,
	})
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}

// ListPending returns pending expenses with contact and file details, newest first.
func (r *ExpenseRepository) ListPending(ctx context.Context) ([]*model.PendingExpense, error) {
	var rows []*pendingExpenseRow
	err := r.Read(ctx).
		Table("expenses AS e").
		Select(`
            e.*,
            COALESCE(c.name, '')      AS contact_name,
            c.phone                   AS contact_phone,
            COALESCE(m.file_name, '') AS file_name,
            COALESCE(m.file_path, '') AS file_path
        `).
		Joins("JOIN contacts AS c ON c.id = e.contact_id").
		Joins("LEFT JOIN messages AS m ON m.id = e.message_id").
		Where("e.status = ?", string(model.ExpenseStatusPending)).
		Order("e.registered_at DESC").
		Order("e.id DESC").
		Scan(&rows).
		Error
	if err != nil {
		return nil, err
	}
	return toPendingExpenseModels(rows), nil
}

func (r *ExpenseRepository) Count(ctx context.Context) (int64, error) {
	var total int64
	err := r.Read(ctx).Model(&ExpenseEntity{}).Count(&total).Error
	return total, err
}

func (r *ExpenseRepository) CountByStatus(ctx context.Context, status model.ExpenseStatus) (int64, error) {
	var total int64
	err := r.Read(ctx).
		Model(&ExpenseEntity{}).
		Where("status = ?", string(status)).
		Count(&total).
		Error
	return total, err
}

package repository

import (
	"time"

	"github.com/nimasrn/inbox-ledger/internal/model"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

type ExpenseEntity struct {
	ID           int64               `db:"id"            gorm:"primaryKey;autoIncrement;column:id"`
	MessageID    int64               `db:"message_id"    gorm:"column:message_id;not null;index"`
	ContactID    int64               `db:"contact_id"    gorm:"column:contact_id;not null;index"`
	Type         string              `db:"type"          gorm:"column:type;not null"`
	Amount       decimal.NullDecimal `db:"amount"        gorm:"column:amount;type:numeric"`
	Description  string              `db:"description"   gorm:"column:description;not null;default:''"`
	Category     string              `db:"category"      gorm:"column:category;not null;default:''"`
	ExpenseDate  *datatypes.Date     `db:"expense_date"  gorm:"column:expense_date"`
	RegisteredAt time.Time           `db:"registered_at" gorm:"column:registered_at;autoCreateTime"`
	Status       string              `db:"status"        gorm:"column:status;not null;default:pendente"`
	Observations *string             `db:"observations"  gorm:"column:observations"`
}

func (ExpenseEntity) TableName() string {
	return "expenses"
}

func toExpenseEntity(m *model.Expense) *ExpenseEntity {
	if m == nil {
		return nil
	}
	status := string(m.Status)
	if status == "" {
		status = string(model.ExpenseStatusPending)
	}
	return &ExpenseEntity{
		ID:           m.ID,
		MessageID:    m.MessageID,
		ContactID:    m.ContactID,
		Type:         m.Type,
		Amount:       m.Amount,
		Description:  m.Description,
		Category:     m.Category,
		ExpenseDate:  m.ExpenseDate,
		RegisteredAt: m.RegisteredAt,
		Status:       status,
		Observations: m.Observations,
	}
}

func toExpenseModel(e *ExpenseEntity) *model.Expense {
	if e == nil {
		return nil
	}
	return &model.Expense{
		ID:           e.ID,
		MessageID:    e.MessageID,
		ContactID:    e.ContactID,
		Type:         e.Type,
		Amount:       e.Amount,
		Description:  e.Description,
		Category:     e.Category,
		ExpenseDate:  e.ExpenseDate,
		RegisteredAt: e.RegisteredAt,
		Status:       model.ExpenseStatus(e.Status),
		Observations: e.Observations,
	}
}

type pendingExpenseRow struct {
	ExpenseEntity
	ContactName  string `gorm:"column:contact_name"`
	ContactPhone string `gorm:"column:contact_phone"`
	FileName     string `gorm:"column:file_name"`
	FilePath     string `gorm:"column:file_path"`
}

func toPendingExpenseModels(rows []*pendingExpenseRow) []*model.PendingExpense {
	out := make([]*model.PendingExpense, len(rows))
	for i, r := range rows {
		out[i] = &model.PendingExpense{
			Expense:      *toExpenseModel(&r.ExpenseEntity),
			ContactName:  r.ContactName,
			ContactPhone: r.ContactPhone,
			FileName:     r.FileName,
			FilePath:     r.FilePath,
		}
	}
	return out
}

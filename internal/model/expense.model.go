package model

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

type ExpenseStatus string

const (
	ExpenseStatusPending  ExpenseStatus = "pendente"
	ExpenseStatusApproved ExpenseStatus = "aprovado"
	ExpenseStatusRejected ExpenseStatus = "rejeitado"
)

func (s ExpenseStatus) Valid() bool {
	switch s {
	case ExpenseStatusPending, ExpenseStatusApproved, ExpenseStatusRejected:
		return true
	}
	return false
}

func (s ExpenseStatus) Terminal() bool {
	return s == ExpenseStatusApproved || s == ExpenseStatusRejected
}

// CanTransition reports whether the review workflow allows s -> next.
func (s ExpenseStatus) CanTransition(next ExpenseStatus) bool {
	return s == ExpenseStatusPending && next.Terminal()
}

// Expense types used by the inbound policies and manual creation.
const (
	ExpenseTypeReceipt   = "comprovante"
	ExpenseTypeManual    = "manual"
	ExpenseTypeTextValue = "texto_com_valor"
)

type Expense struct {
	ID           int64               `json:"id"`
	MessageID    int64               `json:"message_id"`
	ContactID    int64               `json:"contact_id"`
	Type         string              `json:"type"`
	Amount       decimal.NullDecimal `json:"amount"`
	Description  string              `json:"description"`
	Category     string              `json:"category"`
	ExpenseDate  *datatypes.Date     `json:"expense_date"`
	RegisteredAt time.Time           `json:"registered_at"`
	Status       ExpenseStatus       `json:"status"`
	Observations *string             `json:"observations"`
}

// PendingExpense is an expense joined with its contact and originating file.
type PendingExpense struct {
	Expense
	ContactName  string `json:"contact_name"`
	ContactPhone string `json:"contact_phone"`
	FileName     string `json:"file_name"`
	FilePath     string `json:"file_path"`
}

type ExpenseCreateRequest struct {
	MessageID   int64
	Type        string
	Amount      decimal.NullDecimal
	Description string
	Category    string
	ExpenseDate *time.Time
}

// ManualExpenseRequest creates a synthetic text message and an expense bound to it.
type ManualExpenseRequest struct {
	Phone       string
	Name        string
	Amount      decimal.NullDecimal
	Description string
	Category    string
	Type        string
	ExpenseDate *time.Time
}

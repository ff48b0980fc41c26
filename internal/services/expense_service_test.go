package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/nimasrn/inbox-ledger/internal/model"
	"github.com/nimasrn/inbox-ledger/internal/repository"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestExpenseService_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("denormalizes contact from message", func(t *testing.T) {
		expenses := new(MockExpenseRepository)
		messages := new(MockMessageRepository)
		date := time.Date(2024, 5, 10, 15, 30, 0, 0, time.UTC)
		messages.On("GetByID", ctx, int64(11)).Return(&model.Message{ID: 11, ContactID: 7}, nil)
		expenses.On("Create", ctx, mock.MatchedBy(func(e *model.Expense) bool {
			return e.MessageID == 11 && e.ContactID == 7 && e.Status == model.ExpenseStatusPending &&
				e.Amount.Valid && e.Amount.Decimal.Equal(decimal.RequireFromString("85.50")) &&
				e.ExpenseDate != nil && time.Time(*e.ExpenseDate).Equal(time.Date(2024, 5, 10, 0, 0, 0, 0, time.UTC))
		})).Return(&model.Expense{ID: 21, MessageID: 11, ContactID: 7, Type: "comprovante"}, nil)

		e, err := NewExpenseService(expenses, messages, true).Create(ctx, model.ExpenseCreateRequest{
			MessageID:   11,
			Type:        "comprovante",
			Amount:      decimal.NewNullDecimal(decimal.RequireFromString("85.50")),
			Category:    "combustivel",
			ExpenseDate: &date,
		})
		require.NoError(t, err)
		assert.Equal(t, int64(21), e.ID)
		expenses.AssertExpectations(t)
	})

	t.Run("unknown message creates no row", func(t *testing.T) {
		expenses := new(MockExpenseRepository)
		messages := new(MockMessageRepository)
		messages.On("GetByID", ctx, int64(999)).Return(nil, repository.ErrNotFound)

		_, err := NewExpenseService(expenses, messages, true).Create(ctx, model.ExpenseCreateRequest{MessageID: 999, Type: "manual"})
		assert.ErrorIs(t, err, ErrMessageNotFound)
		assert.ErrorIs(t, err, ErrNotFound)
		expenses.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("missing required fields", func(t *testing.T) {
		svc := NewExpenseService(new(MockExpenseRepository), new(MockMessageRepository), true)
		_, err := svc.Create(ctx, model.ExpenseCreateRequest{Type: "manual"})
		assert.ErrorIs(t, err, ErrInvalidInput)
		_, err = svc.Create(ctx, model.ExpenseCreateRequest{MessageID: 1, Type: "  "})
		assert.ErrorIs(t, err, ErrInvalidInput)
	})
}

func TestExpenseService_UpdateStatus_Strict(t *testing.T) {
	ctx := context.Background()
	note := "nota conferida"

	t.Run("pending to approved", func(t *testing.T) {
		expenses := new(MockExpenseRepository)
		expenses.On("GetByID", ctx, int64(21)).Return(&model.Expense{ID: 21, Status: model.ExpenseStatusPending}, nil)
		expenses.On("UpdateStatus", ctx, int64(21), model.ExpenseStatusApproved, &note, model.ExpenseStatusPending).Return(int64(1), nil)

		ok, err := NewExpenseService(expenses, new(MockMessageRepository), true).UpdateStatus(ctx, 21, model.ExpenseStatusApproved, &note)
		require.NoError(t, err)
		assert.True(t, ok)
		expenses.AssertExpectations(t)
	})

	t.Run("unknown id is a no-op", func(t *testing.T) {
		expenses := new(MockExpenseRepository)
		expenses.On("GetByID", ctx, int64(404)).Return(nil, repository.ErrNotFound)

		ok, err := NewExpenseService(expenses, new(MockMessageRepository), true).UpdateStatus(ctx, 404, model.ExpenseStatusRejected, nil)
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("terminal row is rejected", func(t *testing.T) {
		expenses := new(MockExpenseRepository)
		expenses.On("GetByID", ctx, int64(21)).Return(&model.Expense{ID: 21, Status: model.ExpenseStatusApproved}, nil)

		ok, err := NewExpenseService(expenses, new(MockMessageRepository), true).UpdateStatus(ctx, 21, model.ExpenseStatusRejected, nil)
		assert.False(t, ok)
		assert.ErrorIs(t, err, ErrInvalidTransition)
		assert.ErrorIs(t, err, ErrInvalidInput)
		expenses.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("concurrent review loses the guard", func(t *testing.T) {
		expenses := new(MockExpenseRepository)
		expenses.On("GetByID", ctx, int64(21)).Return(&model.Expense{ID: 21, Status: model.ExpenseStatusPending}, nil)
		expenses.On("UpdateStatus", ctx, int64(21), model.ExpenseStatusRejected, (*string)(nil), model.ExpenseStatusPending).Return(int64(0), nil)

		ok, err := NewExpenseService(expenses, new(MockMessageRepository), true).UpdateStatus(ctx, 21, model.ExpenseStatusRejected, nil)
		assert.False(t, ok)
		assert.ErrorIs(t, err, ErrInvalidTransition)
	})
}

func TestExpenseService_UpdateStatus_Permissive(t *testing.T) {
	ctx := context.Background()

	t.Run("writes over terminal rows", func(t *testing.T) {
		expenses := new(MockExpenseRepository)
		expenses.On("UpdateStatus", ctx, int64(21), model.ExpenseStatusPending, (*string)(nil), model.ExpenseStatus("")).Return(int64(1), nil)

		ok, err := NewExpenseService(expenses, new(MockMessageRepository), false).UpdateStatus(ctx, 21, model.ExpenseStatusPending, nil)
		require.NoError(t, err)
		assert.True(t, ok)
		expenses.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything)
	})

	t.Run("unknown id is a no-op", func(t *testing.T) {
		expenses := new(MockExpenseRepository)
		expenses.On("UpdateStatus", ctx, int64(404), model.ExpenseStatusApproved, (*string)(nil), model.ExpenseStatus("")).Return(int64(0), nil)

		ok, err := NewExpenseService(expenses, new(MockMessageRepository), false).UpdateStatus(ctx, 404, model.ExpenseStatusApproved, nil)
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("storage failure is distinguishable", func(t *testing.T) {
		expenses := new(MockExpenseRepository)
		expenses.On("UpdateStatus", ctx, int64(21), model.ExpenseStatusApproved, (*string)(nil), model.ExpenseStatus("")).Return(int64(0), errors.New("io"))

		ok, err := NewExpenseService(expenses, new(MockMessageRepository), false).UpdateStatus(ctx, 21, model.ExpenseStatusApproved, nil)
		assert.False(t, ok)
		assert.ErrorIs(t, err, ErrStorageUnavailable)
	})
}

func TestExpenseService_UpdateStatus_InvalidStatus(t *testing.T) {
	for _, strict := range []bool{true, false} {
		expenses := new(MockExpenseRepository)
		ok, err := NewExpenseService(expenses, new(MockMessageRepository), strict).
			UpdateStatus(context.Background(), 21, model.ExpenseStatus("pago"), nil)
		assert.False(t, ok)
		assert.ErrorIs(t, err, ErrInvalidInput)
		expenses.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything)
	}
}

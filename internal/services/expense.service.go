package services

import (
	"context"
	"strings"
	"time"

	"github.com/nimasrn/inbox-ledger/internal/model"
	"github.com/nimasrn/inbox-ledger/internal/repository"
	"github.com/nimasrn/inbox-ledger/pkg/logger"
	"github.com/nimasrn/inbox-ledger/pkg/prom"
	"github.com/pkg/errors"
	"gorm.io/datatypes"
)

type ExpenseRepository interface {
	Create(ctx context.Context, e *model.Expense) (*model.Expense, error)
	GetByID(ctx context.Context, id int64) (*model.Expense, error)
	UpdateStatus(ctx context.Context, id int64, status model.ExpenseStatus, observations *string, from model.ExpenseStatus) (int64, error)
	ListPending(ctx context.Context) ([]*model.PendingExpense, error)
}

type MessageReader interface {
	GetByID(ctx context.Context, id int64) (*model.Message, error)
}

type ExpenseService struct {
	expenseRepo       ExpenseRepository
	messageRepo       MessageReader
	strictTransitions bool
}

// NewExpenseService builds the expense ledger. With strictTransitions only
// pendente -> aprovado|rejeitado is accepted; otherwise any valid status can
// be written over any row.
func NewExpenseService(expenseRepo ExpenseRepository, messageRepo MessageReader, strictTransitions bool) *ExpenseService {
	return &ExpenseService{
		expenseRepo:       expenseRepo,
		messageRepo:       messageRepo,
		strictTransitions: strictTransitions,
	}
}

func (s *ExpenseService) Create(ctx context.Context, req model.ExpenseCreateRequest) (*model.Expense, error) {
	if req.MessageID <= 0 {
		return nil, errors.Wrap(ErrInvalidInput, "message id is required")
	}
	req.Type = strings.TrimSpace(req.Type)
	if req.Type == "" {
		return nil, errors.Wrap(ErrInvalidInput, "expense type is required")
	}

	msg, err := s.messageRepo.GetByID(ctx, req.MessageID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, errors.Wrapf(ErrMessageNotFound, "message %d", req.MessageID)
		}
		return nil, storageErr("get message", err)
	}

	e := &model.Expense{
		MessageID:   msg.ID,
		ContactID:   msg.ContactID,
		Type:        req.Type,
		Amount:      req.Amount,
		Description: req.Description,
		Category:    req.Category,
		Status:      model.ExpenseStatusPending,
	}
	if req.ExpenseDate != nil {
		d := datatypes.Date(truncateDay(*req.ExpenseDate))
		e.ExpenseDate = &d
	}

	created, err := s.expenseRepo.Create(ctx, e)
	if err != nil {
		return nil, storageErr("create expense", err)
	}

	prom.IncExpensesCreated(created.Type)
	logger.Info("expense created",
		"expense_id", created.ID,
		"message_id", created.MessageID,
		"contact_id", created.ContactID,
		"type", created.Type,
	)
	return created, nil
}

// UpdateStatus sets the review status of an expense. It reports false with a
// nil error when id matches no row.
func (s *ExpenseService) UpdateStatus(ctx context.Context, id int64, status model.ExpenseStatus, observations *string) (bool, error) {
	if !status.Valid() {
		return false, errors.Wrapf(ErrInvalidInput, "unknown expense status %q", status)
	}

	if !s.strictTransitions {
		n, err := s.expenseRepo.UpdateStatus(ctx, id, status, observations, "")
		if err != nil {
			return false, storageErr("update expense status", err)
		}
		if n > 0 {
			s.statusUpdated(id, status)
		}
		return n > 0, nil
	}

	current, err := s.expenseRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return false, nil
		}
		return false, storageErr("get expense", err)
	}
	if !current.Status.CanTransition(status) {
		return false, errors.Wrapf(ErrInvalidTransition, "%s -> %s", current.Status, status)
	}

	// guarded on the status just read so a concurrent review cannot be overwritten
	n, err := s.expenseRepo.UpdateStatus(ctx, id, status, observations, current.Status)
	if err != nil {
		return false, storageErr("update expense status", err)
	}
	if n == 0 {
		return false, errors.Wrapf(ErrInvalidTransition, "expense %d was reviewed concurrently", id)
	}
	s.statusUpdated(id, status)
	return true, nil
}

func (s *ExpenseService) statusUpdated(id int64, status model.ExpenseStatus) {
	prom.IncExpenseStatusUpdates(string(status))
	logger.Info("expense status updated", "expense_id", id, "status", status)
}

func (s *ExpenseService) ListPending(ctx context.Context) ([]*model.PendingExpense, error) {
	list, err := s.expenseRepo.ListPending(ctx)
	if err != nil {
		return nil, storageErr("list pending expenses", err)
	}
	return list, nil
}

func truncateDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

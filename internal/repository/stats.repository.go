package repository

import (
	"context"

	"github.com/nimasrn/inbox-ledger/internal/model"
	"github.com/nimasrn/inbox-ledger/pkg/db"
)

// StatsRepository answers the aggregate counters across all ledger tables.
type StatsRepository struct {
	contacts *ContactRepository
	messages *MessageRepository
	expenses *ExpenseRepository
}

func NewStatsRepository(db *db.DB) *StatsRepository {
	return &StatsRepository{
		contacts: NewContactRepository(db),
		messages: NewMessageRepository(db),
		expenses: NewExpenseRepository(db),
	}
}

func (r *StatsRepository) CountContacts(ctx context.Context) (int64, error) {
	return r.contacts.Count(ctx)
}

func (r *StatsRepository) CountMessages(ctx context.Context) (int64, error) {
	return r.messages.Count(ctx)
}

func (r *StatsRepository) CountMessagesByKind(ctx context.Context) (map[model.MessageKind]int64, error) {
	return r.messages.CountByKind(ctx)
}

func (r *StatsRepository) CountExpenses(ctx context.Context) (int64, error) {
	return r.expenses.Count(ctx)
}

func (r *StatsRepository) CountExpensesByStatus(ctx context.Context, status model.ExpenseStatus) (int64, error) {
	return r.expenses.CountByStatus(ctx, status)
}

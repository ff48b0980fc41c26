package services

import (
	"context"
	"time"

	"github.com/nimasrn/inbox-ledger/internal/files"
	"github.com/nimasrn/inbox-ledger/internal/model"
	"github.com/stretchr/testify/mock"
)

type MockContactRepository struct {
	mock.Mock
}

func (m *MockContactRepository) FindByPhone(ctx context.Context, phone string) (*model.Contact, error) {
	args := m.Called(ctx, phone)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Contact), args.Error(1)
}

func (m *MockContactRepository) Create(ctx context.Context, c *model.Contact) (*model.Contact, error) {
	args := m.Called(ctx, c)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Contact), args.Error(1)
}

func (m *MockContactRepository) Touch(ctx context.Context, id int64, name string, at time.Time) error {
	return m.Called(ctx, id, name, at).Error(0)
}

func (m *MockContactRepository) List(ctx context.Context) ([]*model.ContactSummary, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.ContactSummary), args.Error(1)
}

type MockFolderAllocator struct {
	mock.Mock
}

func (m *MockFolderAllocator) EnsureContactFolder(phone, name string) (string, error) {
	args := m.Called(phone, name)
	return args.String(0), args.Error(1)
}

type MockMessageRepository struct {
	mock.Mock
}

func (m *MockMessageRepository) Create(ctx context.Context, msg *model.Message) (*model.Message, error) {
	args := m.Called(ctx, msg)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Message), args.Error(1)
}

func (m *MockMessageRepository) GetByID(ctx context.Context, id int64) (*model.Message, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Message), args.Error(1)
}

func (m *MockMessageRepository) ListByPhone(ctx context.Context, phone string, limit int) ([]*model.Message, error) {
	args := m.Called(ctx, phone, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.Message), args.Error(1)
}

func (m *MockMessageRepository) FindByHash(ctx context.Context, hash string) ([]*model.Message, error) {
	args := m.Called(ctx, hash)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.Message), args.Error(1)
}

type MockContactUpserter struct {
	mock.Mock
}

func (m *MockContactUpserter) Upsert(ctx context.Context, phone, name string) (*model.Contact, error) {
	args := m.Called(ctx, phone, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Contact), args.Error(1)
}

type MockFileCommitter struct {
	mock.Mock
}

func (m *MockFileCommitter) Commit(ctx context.Context, phone, sourcePath, fileName string) (*files.StoredFile, error) {
	args := m.Called(ctx, phone, sourcePath, fileName)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*files.StoredFile), args.Error(1)
}

func (m *MockFileCommitter) Remove(path string) {
	m.Called(path)
}

type MockExpenseRepository struct {
	mock.Mock
}

func (m *MockExpenseRepository) Create(ctx context.Context, e *model.Expense) (*model.Expense, error) {
	args := m.Called(ctx, e)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Expense), args.Error(1)
}

func (m *MockExpenseRepository) GetByID(ctx context.Context, id int64) (*model.Expense, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Expense), args.Error(1)
}

func (m *MockExpenseRepository) UpdateStatus(ctx context.Context, id int64, status model.ExpenseStatus, observations *string, from model.ExpenseStatus) (int64, error) {
	args := m.Called(ctx, id, status, observations, from)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockExpenseRepository) ListPending(ctx context.Context) ([]*model.PendingExpense, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.PendingExpense), args.Error(1)
}

type MockStatsSource struct {
	mock.Mock
}

func (m *MockStatsSource) CountContacts(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockStatsSource) CountMessages(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockStatsSource) CountMessagesByKind(ctx context.Context) (map[model.MessageKind]int64, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[model.MessageKind]int64), args.Error(1)
}

func (m *MockStatsSource) CountExpenses(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockStatsSource) CountExpensesByStatus(ctx context.Context, status model.ExpenseStatus) (int64, error) {
	args := m.Called(ctx, status)
	return args.Get(0).(int64), args.Error(1)
}

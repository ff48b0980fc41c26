// Package ledger is the entry point for callers that receive WhatsApp events:
// it registers contacts, stores messages and attachments, and keeps the
// expense records derived from them.
package ledger

import (
	"context"
	"time"

	"github.com/nimasrn/inbox-ledger/internal/extractor"
	"github.com/nimasrn/inbox-ledger/internal/files"
	"github.com/nimasrn/inbox-ledger/internal/model"
	"github.com/nimasrn/inbox-ledger/internal/repository"
	"github.com/nimasrn/inbox-ledger/internal/services"
	"github.com/nimasrn/inbox-ledger/pkg/db"
	"github.com/nimasrn/inbox-ledger/pkg/prom"
	"github.com/pkg/errors"
)

type Options struct {
	StorageRoot         string
	StrictTransitions   bool
	MessageListMaxLimit int

	// StatsCache is optional; StatsCacheTTL <= 0 disables it.
	StatsCache    services.StatsCache
	StatsCacheTTL time.Duration
}

type Ledger struct {
	db       *db.DB
	folders  *files.Organizer
	settings *repository.SettingRepository

	contacts *services.ContactService
	messages *services.MessageService
	expenses *services.ExpenseService
	stats    *services.StatsService

	now func() time.Time
}

// New wires the ledger over an opened, migrated database and creates the
// storage root.
func New(database *db.DB, opts Options) (*Ledger, error) {
	if opts.StorageRoot == "" {
		return nil, errors.Wrap(model.ErrInvalidInput, "storage root is required")
	}

	contactRepo := repository.NewContactRepository(database)
	messageRepo := repository.NewMessageRepository(database)
	expenseRepo := repository.NewExpenseRepository(database)

	organizer := files.NewOrganizer(opts.StorageRoot, contactRepo)
	if err := organizer.Init(); err != nil {
		return nil, err
	}

	contacts := services.NewContactService(contactRepo, organizer)
	return &Ledger{
		db:       database,
		folders:  organizer,
		settings: repository.NewSettingRepository(database),
		contacts: contacts,
		messages: services.NewMessageService(messageRepo, contacts, organizer, opts.MessageListMaxLimit),
		expenses: services.NewExpenseService(expenseRepo, messageRepo, opts.StrictTransitions),
		stats: services.NewStatsService(repository.NewStatsRepository(database), opts.StorageRoot).
			WithCache(opts.StatsCache, opts.StatsCacheTTL),
		now: time.Now,
	}, nil
}

// RegisterContact upserts phone and returns the contact id.
func (l *Ledger) RegisterContact(ctx context.Context, phone, name string) (int64, error) {
	c, err := l.contacts.Upsert(ctx, phone, name)
	if err != nil {
		return 0, err
	}
	l.stats.Invalidate()
	return c.ID, nil
}

func (l *Ledger) RecordTextMessage(ctx context.Context, req model.TextMessageRequest) (int64, error) {
	msg, err := l.messages.RecordText(ctx, req)
	if err != nil {
		return 0, err
	}
	l.stats.Invalidate()
	return msg.ID, nil
}

// RecordFileMessage commits the attachment and stores its message. The
// source file is left in place for the caller to clean up.
func (l *Ledger) RecordFileMessage(ctx context.Context, req model.FileMessageRequest) (int64, error) {
	msg, err := l.recordFile(ctx, req)
	if err != nil {
		return 0, err
	}
	return msg.ID, nil
}

func (l *Ledger) recordFile(ctx context.Context, req model.FileMessageRequest) (*model.Message, error) {
	start := time.Now()
	msg, err := l.messages.RecordFile(ctx, req)
	if err != nil {
		return nil, err
	}
	prom.AddFileCommitDuration(time.Since(start).Seconds())
	l.stats.Invalidate()
	return msg, nil
}

func (l *Ledger) CreateExpense(ctx context.Context, req model.ExpenseCreateRequest) (int64, error) {
	e, err := l.expenses.Create(ctx, req)
	if err != nil {
		return 0, err
	}
	l.stats.Invalidate()
	return e.ID, nil
}

// UpdateExpenseStatus reports false with a nil error for an unknown id.
func (l *Ledger) UpdateExpenseStatus(ctx context.Context, id int64, status model.ExpenseStatus, observations *string) (bool, error) {
	ok, err := l.expenses.UpdateStatus(ctx, id, status, observations)
	if ok {
		l.stats.Invalidate()
	}
	return ok, err
}

func (l *Ledger) ListMessagesForContact(ctx context.Context, phone string, limit int) ([]*model.Message, error) {
	return l.messages.ListForContact(ctx, phone, limit)
}

// FindMessagesByHash returns the file messages whose stored bytes hash to hash.
func (l *Ledger) FindMessagesByHash(ctx context.Context, hash string) ([]*model.Message, error) {
	return l.messages.FindByHash(ctx, hash)
}

func (l *Ledger) ListPendingExpenses(ctx context.Context) ([]*model.PendingExpense, error) {
	return l.expenses.ListPending(ctx)
}

func (l *Ledger) ListContacts(ctx context.Context) ([]*model.ContactSummary, error) {
	return l.contacts.List(ctx)
}

func (l *Ledger) GetStats(ctx context.Context) (*model.Stats, error) {
	return l.stats.Get(ctx)
}

func (l *Ledger) ClassifyFileType(name string) files.Bucket {
	return files.Classify(name)
}

func (l *Ledger) ExtractExpenseHint(text string) extractor.Hint {
	return extractor.Extract(text)
}

func (l *Ledger) StorageRoot() string {
	return l.folders.Root()
}

// Ping checks the database connection.
func (l *Ledger) Ping(ctx context.Context) error {
	return l.db.Ping(ctx)
}

// Setting reads a value from the key/value settings table.
func (l *Ledger) Setting(ctx context.Context, key string) (string, error) {
	v, err := l.settings.Get(ctx, key)
	if errors.Is(err, repository.ErrNotFound) {
		return "", errors.Wrapf(model.ErrNotFound, "setting %s", key)
	}
	return v, err
}

func (l *Ledger) SetSetting(ctx context.Context, key, value string) error {
	if key == "" {
		return errors.Wrap(model.ErrInvalidInput, "setting key is required")
	}
	return l.settings.Set(ctx, key, value)
}

// Snapshot adapts the stats for the metrics collector.
func (l *Ledger) Snapshot(ctx context.Context) (prom.Snapshot, error) {
	st, err := l.stats.Get(ctx)
	if err != nil {
		return prom.Snapshot{}, err
	}
	byKind := make(map[string]int64, len(st.MessagesByKind))
	for k, n := range st.MessagesByKind {
		byKind[string(k)] = n
	}
	return prom.Snapshot{
		Contacts:        st.TotalContacts,
		Messages:        st.TotalMessages,
		Expenses:        st.TotalExpenses,
		PendingExpenses: st.PendingExpenses,
		MessagesByKind:  byKind,
	}, nil
}

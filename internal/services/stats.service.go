package services

import (
	"context"
	"encoding/json"
	"sync/atomic"
	"time"

	"github.com/nimasrn/inbox-ledger/internal/model"
	"github.com/nimasrn/inbox-ledger/pkg/logger"
)

const statsCacheKey = "stats"

type StatsSource interface {
	CountContacts(ctx context.Context) (int64, error)
	CountMessages(ctx context.Context) (int64, error)
	CountMessagesByKind(ctx context.Context) (map[model.MessageKind]int64, error)
	CountExpenses(ctx context.Context) (int64, error)
	CountExpensesByStatus(ctx context.Context, status model.ExpenseStatus) (int64, error)
}

// StatsCache is the subset of pkg/redis the aggregator needs.
type StatsCache interface {
	Get(key string) ([]byte, error)
	Set(key string, value []byte, ttl time.Duration) error
	Del(key string) error
}

type StatsService struct {
	source      StatsSource
	storageRoot string
	cache       StatsCache
	ttl         time.Duration

	// bumped by Invalidate; a Get only stores its result if no write
	// happened while it was counting
	generation atomic.Uint64
}

func NewStatsService(source StatsSource, storageRoot string) *StatsService {
	return &StatsService{
		source:      source,
		storageRoot: storageRoot,
	}
}

// WithCache serves Get from cache for up to ttl. A zero ttl disables caching.
func (s *StatsService) WithCache(cache StatsCache, ttl time.Duration) *StatsService {
	if ttl > 0 {
		s.cache = cache
		s.ttl = ttl
	}
	return s
}

func (s *StatsService) Get(ctx context.Context) (*model.Stats, error) {
	if st, ok := s.cached(); ok {
		return st, nil
	}

	gen := s.generation.Load()
	st, err := s.compute(ctx)
	if err != nil {
		return nil, err
	}

	if s.cache != nil && s.generation.Load() == gen {
		if b, err := json.Marshal(st); err == nil {
			if err := s.cache.Set(statsCacheKey, b, s.ttl); err != nil {
				logger.Warn("stats cache set failed", "error", err)
			}
		}
	}
	return st, nil
}

// Invalidate drops the cached stats after a write.
func (s *StatsService) Invalidate() {
	s.generation.Add(1)
	if s.cache == nil {
		return
	}
	if err := s.cache.Del(statsCacheKey); err != nil {
		logger.Warn("stats cache invalidate failed", "error", err)
	}
}

func (s *StatsService) cached() (*model.Stats, bool) {
	if s.cache == nil {
		return nil, false
	}
	b, err := s.cache.Get(statsCacheKey)
	if err != nil || len(b) == 0 {
		return nil, false
	}
	var st model.Stats
	if err := json.Unmarshal(b, &st); err != nil {
		logger.Warn("stats cache entry unreadable", "error", err)
		return nil, false
	}
	return &st, true
}

func (s *StatsService) compute(ctx context.Context) (*model.Stats, error) {
	var (
		st  = &model.Stats{StorageRoot: s.storageRoot}
		err error
	)
	if st.TotalContacts, err = s.source.CountContacts(ctx); err != nil {
		return nil, storageErr("count contacts", err)
	}
	if st.TotalMessages, err = s.source.CountMessages(ctx); err != nil {
		return nil, storageErr("count messages", err)
	}
	if st.MessagesByKind, err = s.source.CountMessagesByKind(ctx); err != nil {
		return nil, storageErr("count messages by kind", err)
	}
	if st.TotalExpenses, err = s.source.CountExpenses(ctx); err != nil {
		return nil, storageErr("count expenses", err)
	}
	if st.PendingExpenses, err = s.source.CountExpensesByStatus(ctx, model.ExpenseStatusPending); err != nil {
		return nil, storageErr("count pending expenses", err)
	}
	return st, nil
}

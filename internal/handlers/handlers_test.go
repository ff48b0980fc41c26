package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/nimasrn/inbox-ledger/internal/model"
	xhttp "github.com/nimasrn/inbox-ledger/pkg/http"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/valyala/fasthttp"
)

type MockPinger struct {
	mock.Mock
}

func (m *MockPinger) Ping(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

type MockStatsService struct {
	mock.Mock
}

func (m *MockStatsService) GetStats(ctx context.Context) (*model.Stats, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Stats), args.Error(1)
}

func setupTestContext(method, path string) *xhttp.RequestCtx {
	ctx := &fasthttp.RequestCtx{}
	ctx.Request.Header.SetMethod(method)
	ctx.Request.SetRequestURI(path)
	return ctx
}

func TestHealthHandler(t *testing.T) {
	t.Run("healthy", func(t *testing.T) {
		db := new(MockPinger)
		db.On("Ping", mock.Anything).Return(nil)

		ctx := setupTestContext("GET", "/health")
		NewHealthHandler(db).GetHealth(ctx)

		assert.Equal(t, fasthttp.StatusOK, ctx.Response.StatusCode())
		assert.Equal(t, "success", string(ctx.Response.Body()))
		db.AssertExpectations(t)
	})

	t.Run("database down", func(t *testing.T) {
		db := new(MockPinger)
		db.On("Ping", mock.Anything).Return(errors.New("connection refused"))

		ctx := setupTestContext("GET", "/health")
		NewHealthHandler(db).GetHealth(ctx)

		assert.Equal(t, fasthttp.StatusServiceUnavailable, ctx.Response.StatusCode())
	})
}

func TestStatsHandler(t *testing.T) {
	t.Run("returns stats as json", func(t *testing.T) {
		svc := new(MockStatsService)
		svc.On("GetStats", mock.Anything).Return(&model.Stats{
			TotalContacts:   2,
			TotalMessages:   5,
			TotalExpenses:   1,
			PendingExpenses: 1,
			MessagesByKind:  map[model.MessageKind]int64{model.MessageKindText: 4, model.MessageKindImage: 1},
			StorageRoot:     "/srv/storage",
		}, nil)

		ctx := setupTestContext("GET", "/stats")
		NewStatsHandler(svc).GetStats(ctx)

		require.Equal(t, fasthttp.StatusOK, ctx.Response.StatusCode())
		var got model.Stats
		require.NoError(t, json.Unmarshal(ctx.Response.Body(), &got))
		assert.Equal(t, int64(5), got.TotalMessages)
		assert.Equal(t, int64(4), got.MessagesByKind[model.MessageKindText])
		assert.Equal(t, "/srv/storage", got.StorageRoot)
	})

	t.Run("queries with a bounded context of its own", func(t *testing.T) {
		svc := new(MockStatsService)
		svc.On("GetStats", mock.MatchedBy(func(c context.Context) bool {
			if _, isRequest := c.(*fasthttp.RequestCtx); isRequest {
				return false
			}
			_, hasDeadline := c.Deadline()
			return hasDeadline
		})).Return(&model.Stats{}, nil)

		ctx := setupTestContext("GET", "/stats")
		NewStatsHandler(svc).GetStats(ctx)

		assert.Equal(t, fasthttp.StatusOK, ctx.Response.StatusCode())
		svc.AssertExpectations(t)
	})

	t.Run("storage failure", func(t *testing.T) {
		svc := new(MockStatsService)
		svc.On("GetStats", mock.Anything).Return(nil, model.ErrStorageUnavailable)

		ctx := setupTestContext("GET", "/stats")
		NewStatsHandler(svc).GetStats(ctx)

		assert.Equal(t, fasthttp.StatusInternalServerError, ctx.Response.StatusCode())
	})
}

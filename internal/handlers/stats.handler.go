package handlers

import (
	"context"
	"encoding/json"
	"time"

	"github.com/fasthttp/router"
	"github.com/nimasrn/inbox-ledger/internal/model"
	xhttp "github.com/nimasrn/inbox-ledger/pkg/http"
	"github.com/nimasrn/inbox-ledger/pkg/logger"
)

const statsTimeout = 5 * time.Second

type StatsService interface {
	GetStats(ctx context.Context) (*model.Stats, error)
}

type StatsHandler struct {
	stats StatsService
}

func RegisterStatsRoutes(e *router.Router, h *StatsHandler) {
	e.GET("/stats", h.GetStats)
}

func NewStatsHandler(stats StatsService) *StatsHandler {
	return &StatsHandler{
		stats: stats,
	}
}

func (h *StatsHandler) GetStats(ctx *xhttp.RequestCtx) {
	c, cancel := context.WithTimeout(context.Background(), statsTimeout)
	defer cancel()

	st, err := h.stats.GetStats(c)
	if err != nil {
		logger.Error("stats failed", "error", err)
		writeError(ctx, xhttp.StatusInternalServerError, "stats unavailable")
		return
	}
	writeJSON(ctx, xhttp.StatusOK, st)
}

func writeJSON(ctx *xhttp.RequestCtx, status int, v any) {
	b, err := json.Marshal(v)
	if err != nil {
		writeError(ctx, xhttp.StatusInternalServerError, "encode response")
		return
	}
	ctx.Response.Header.Set("Content-Type", "application/json; charset=utf-8")
	ctx.SetStatusCode(status)
	ctx.SetBody(b)
}

func writeError(ctx *xhttp.RequestCtx, status int, msg string) {
	b, _ := json.Marshal(map[string]string{"error": msg})
	ctx.Response.Header.Set("Content-Type", "application/json; charset=utf-8")
	ctx.SetStatusCode(status)
	ctx.SetBody(b)
}

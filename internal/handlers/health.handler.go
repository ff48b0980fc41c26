package handlers

import (
	"context"
	"time"

	"github.com/fasthttp/router"
	xhttp "github.com/nimasrn/inbox-ledger/pkg/http"
	"github.com/nimasrn/inbox-ledger/pkg/logger"
)

const healthTimeout = 2 * time.Second

type HealthService interface {
	Ping(ctx context.Context) error
}

type HealthHandler struct {
	db HealthService
}

func RegisterHealthRoutes(e *router.Router, h *HealthHandler) {
	e.GET("/health", h.GetHealth)
}

func NewHealthHandler(db HealthService) *HealthHandler {
	return &HealthHandler{
		db: db,
	}
}

func (h *HealthHandler) GetHealth(ctx *xhttp.RequestCtx) {
	c, cancel := context.WithTimeout(context.Background(), healthTimeout)
	defer cancel()

	if err := h.db.Ping(c); err != nil {
		logger.Warn("health check failed", "error", err)
		writeError(ctx, xhttp.StatusServiceUnavailable, "database unavailable")
		return
	}
	ctx.Response.SetBodyString("success")
}

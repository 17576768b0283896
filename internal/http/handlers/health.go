package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/bundasehat/screening-backend/internal/http/response"
	"github.com/bundasehat/screening-backend/internal/platform/apierr"
)

// Pinger reports whether a backing store is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

type HealthHandler struct {
	db Pinger
}

func NewHealthHandler(db Pinger) *HealthHandler {
	return &HealthHandler{db: db}
}

// GET /healthcheck
func (hh *HealthHandler) HealthCheck(c *gin.Context) {
	if hh.db != nil {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()
		if err := hh.db.Ping(ctx); err != nil {
			response.RespondAPIError(c, apierr.New(http.StatusServiceUnavailable, "database_unavailable", err))
			return
		}
	}
	response.RespondOK(c, "ok", nil)
}

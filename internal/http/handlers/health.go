package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

type HealthHandler struct {
	pings map[string]func(context.Context) error
}

// NewHealthHandler takes named dependency pings (db, redis). Nil ping
// functions are skipped so dev mode without redis still reports ready.
func NewHealthHandler(pings map[string]func(context.Context) error) *HealthHandler {
	return &HealthHandler{pings: pings}
}

func (h *HealthHandler) Healthz(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (h *HealthHandler) Readyz(ctx *gin.Context) {
	cctx, cancel := context.WithTimeout(ctx.Request.Context(), 1*time.Second)
	defer cancel()

	failures := gin.H{}

	for name, ping := range h.pings {
		if ping == nil {
			continue
		}

		if err := ping(cctx); err != nil {
			failures[name] = err.Error()
		}
	}

	if len(failures) > 0 {
		ctx.JSON(http.StatusServiceUnavailable, gin.H{"status": "not_ready", "failures": failures})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"status": "ready"})
}

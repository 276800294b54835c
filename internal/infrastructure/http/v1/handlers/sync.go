package handlers

import (
	"errors"
	"io"

	"github.com/gin-gonic/gin"

	"assettrack/internal/core/apperror"
	"assettrack/internal/domain/reconcile"
	"assettrack/internal/infrastructure/http/v1/dto"
	"assettrack/internal/infrastructure/http/v1/middleware"
)

// SyncHandler serves the reconciliation trigger endpoint.
type SyncHandler struct {
	*BaseHandler
	sync *reconcile.Service
}

// NewSyncHandler creates a sync handler.
func NewSyncHandler(syncSvc *reconcile.Service) *SyncHandler {
	return &SyncHandler{BaseHandler: NewBaseHandler(), sync: syncSvc}
}

// Trigger handles POST /api/sync.
// Runs a full reconciliation pass synchronously and reports its stats.
// An empty body or missing date targets the current civil date.
func (h *SyncHandler) Trigger(c *gin.Context) {
	// ContentLength is -1 for chunked bodies, so bind unconditionally and
	// treat only an empty body as the no-date default.
	var req dto.SyncRequest
	if c.Request.Body != nil {
		if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
			h.Error(c, apperror.NewValidation("invalid request body").WithDetail("error", err.Error()))
			return
		}
	}

	result, err := h.sync.Sync(c.Request.Context(), req.Date)
	if err != nil {
		middleware.ObserveSyncRun("error")
		h.Error(c, err)
		return
	}

	middleware.ObserveSyncRun("ok")
	h.OK(c, dto.FromSyncResult(result))
}

package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/narrativekit/storydesk-go/internal/application/services"
	"github.com/narrativekit/storydesk-go/internal/infrastructure/observability/logging"
	"github.com/narrativekit/storydesk-go/internal/infrastructure/observability/performance"
)

// StatusHandlers serves console health and interpreter counters.
type StatusHandlers struct {
	statusService *services.StatusService
	logger        *logging.ChanneledLogger
	perfTracker   *performance.Tracker
}

// NewStatusHandlers creates status handlers with injected dependencies
func NewStatusHandlers(statusService *services.StatusService, logger *logging.ChanneledLogger, perfTracker *performance.Tracker) *StatusHandlers {
	return &StatusHandlers{
		statusService: statusService,
		logger:        logger,
		perfTracker:   perfTracker,
	}
}

// GetStatus handles GET /api/v1/status
func (h *StatusHandlers) GetStatus(c *gin.Context) {
	marker := h.perfTracker.StartOperation("get_status_request")
	defer marker.Complete()

	report := h.statusService.Report(c.Request.Context())

	marker.SetSuccess(true)
	c.JSON(http.StatusOK, report)
}

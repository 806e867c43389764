package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/narrativekit/storydesk-go/internal/application/services"
	"github.com/narrativekit/storydesk-go/internal/domain/account"
	"github.com/narrativekit/storydesk-go/internal/infrastructure/observability/logging"
	"github.com/narrativekit/storydesk-go/internal/infrastructure/observability/performance"
)

// AccountHandlers serves the account selection surface: which upstream
// accounts the operator may act for and which one is active.
type AccountHandlers struct {
	accountService *services.AccountService
	logger         *logging.ChanneledLogger
	perfTracker    *performance.Tracker
}

// NewAccountHandlers creates account handlers with injected dependencies
func NewAccountHandlers(accountService *services.AccountService, logger *logging.ChanneledLogger, perfTracker *performance.Tracker) *AccountHandlers {
	return &AccountHandlers{
		accountService: accountService,
		logger:         logger,
		perfTracker:    perfTracker,
	}
}

// GetAccounts handles GET /api/v1/accounts - the persisted resolution
func (h *AccountHandlers) GetAccounts(c *gin.Context) {
	marker := h.perfTracker.StartOperation("get_accounts_request")
	defer marker.Complete()

	resolution, err := h.accountService.Current()
	if err != nil {
		if errors.Is(err, account.ErrNoResolution) {
			marker.SetSuccess(true)
			c.JSON(http.StatusOK, gin.H{
				"availableIds": []string{},
				"activeId":     "",
				"activeIndex":  0,
			})
			return
		}
		h.logger.Account().Error("Failed to read account resolution", "error", err.Error())
		marker.SetError(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to read account selection"})
		return
	}

	marker.SetSuccess(true)
	c.JSON(http.StatusOK, resolution)
}

// PostSwitch handles POST /api/v1/accounts/switch - selects the active
// account by index. An out-of-bounds index is a 422 and leaves the
// persisted selection untouched.
func (h *AccountHandlers) PostSwitch(c *gin.Context) {
	marker := h.perfTracker.StartOperation("post_account_switch_request")
	defer marker.Complete()

	var switchReq struct {
		Index *int `json:"index" binding:"required"`
	}

	if err := c.ShouldBindJSON(&switchReq); err != nil {
		h.logger.Account().Error("Switch request JSON binding failed", "error", err.Error())
		marker.SetSuccess(false)
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	resolution, err := h.accountService.Switch(*switchReq.Index)
	if err != nil {
		marker.SetError(err)
		switch {
		case errors.Is(err, account.ErrInvalidAccountIndex):
			c.JSON(http.StatusUnprocessableEntity, gin.H{
				"error":     "Account index out of range",
				"condition": "InvalidAccountIndex",
			})
		case errors.Is(err, account.ErrNoResolution):
			c.JSON(http.StatusConflict, gin.H{"error": "No identity has been resolved yet"})
		default:
			h.logger.Account().Error("Account switch failed", "error", err.Error())
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Account switch failed"})
		}
		return
	}

	marker.SetSuccess(true)
	c.JSON(http.StatusOK, resolution)
}

package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/narrativekit/storydesk-go/internal/application/services"
	"github.com/narrativekit/storydesk-go/internal/domain/entities/story"
	"github.com/narrativekit/storydesk-go/internal/infrastructure/observability/logging"
	"github.com/narrativekit/storydesk-go/internal/infrastructure/observability/performance"
)

// CastHandlers contains HTTP handlers for cast members nested under a
// scene.
type CastHandlers struct {
	castService *services.CastService
	logger      *logging.ChanneledLogger
	perfTracker *performance.Tracker
}

// NewCastHandlers creates cast handlers with injected dependencies
func NewCastHandlers(castService *services.CastService, logger *logging.ChanneledLogger, perfTracker *performance.Tracker) *CastHandlers {
	return &CastHandlers{
		castService: castService,
		logger:      logger,
		perfTracker: perfTracker,
	}
}

// GetCast handles GET /api/v1/scenes/:id/cast
func (h *CastHandlers) GetCast(c *gin.Context) {
	marker := h.perfTracker.StartOperation("get_cast_request")
	defer marker.Complete()

	members, err := h.castService.List(c.Request.Context(), c.Param("id"), includeDeleted(c))
	if err != nil {
		h.logger.Content().Error("Cast list failed", "sceneId", c.Param("id"), "error", err.Error())
		marker.SetError(err)
		respondUpstreamError(c, err)
		return
	}

	marker.SetSuccess(true)
	c.JSON(http.StatusOK, members)
}

// GetCastMember handles GET /api/v1/scenes/:id/cast/:castId
func (h *CastHandlers) GetCastMember(c *gin.Context) {
	marker := h.perfTracker.StartOperation("get_cast_member_request")
	defer marker.Complete()

	member, err := h.castService.Get(c.Request.Context(), c.Param("id"), c.Param("castId"))
	if err != nil {
		h.logger.Content().Error("Cast member fetch failed", "sceneId", c.Param("id"), "castId", c.Param("castId"), "error", err.Error())
		marker.SetError(err)
		respondUpstreamError(c, err)
		return
	}
	if member == nil {
		marker.SetSuccess(true)
		c.JSON(http.StatusNotFound, gin.H{"error": "cast member not found"})
		return
	}

	marker.SetSuccess(true)
	c.JSON(http.StatusOK, member)
}

// CreateCastMember handles POST /api/v1/scenes/:id/cast
func (h *CastHandlers) CreateCastMember(c *gin.Context) {
	marker := h.perfTracker.StartOperation("create_cast_member_request")
	defer marker.Complete()

	var member story.CastMember
	if err := c.ShouldBindJSON(&member); err != nil {
		marker.SetSuccess(false)
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}
	member.SceneID = c.Param("id")

	created, err := h.castService.Create(c.Request.Context(), &member)
	if err != nil {
		h.logger.Content().Error("Cast member create failed", "sceneId", member.SceneID, "error", err.Error())
		marker.SetError(err)
		respondUpstreamError(c, err)
		return
	}

	h.logger.Content().Info("Cast member created", "sceneId", created.SceneID, "castId", created.CastID)
	marker.SetSuccess(true)
	c.JSON(http.StatusCreated, created)
}

// UpdateCastMember handles PUT /api/v1/scenes/:id/cast/:castId
func (h *CastHandlers) UpdateCastMember(c *gin.Context) {
	marker := h.perfTracker.StartOperation("update_cast_member_request")
	defer marker.Complete()

	var member story.CastMember
	if err := c.ShouldBindJSON(&member); err != nil {
		marker.SetSuccess(false)
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}
	member.SceneID = c.Param("id")
	member.CastID = c.Param("castId")

	updated, err := h.castService.Update(c.Request.Context(), &member)
	if err != nil {
		h.logger.Content().Error("Cast member update failed", "sceneId", member.SceneID, "castId", member.CastID, "error", err.Error())
		marker.SetError(err)
		respondUpstreamError(c, err)
		return
	}

	marker.SetSuccess(true)
	c.JSON(http.StatusOK, updated)
}

// DeleteCastMember handles DELETE /api/v1/scenes/:id/cast/:castId
func (h *CastHandlers) DeleteCastMember(c *gin.Context) {
	marker := h.perfTracker.StartOperation("delete_cast_member_request")
	defer marker.Complete()

	if err := h.castService.Delete(c.Request.Context(), c.Param("id"), c.Param("castId")); err != nil {
		h.logger.Content().Error("Cast member delete failed", "sceneId", c.Param("id"), "castId", c.Param("castId"), "error", err.Error())
		marker.SetError(err)
		respondUpstreamError(c, err)
		return
	}

	h.logger.Content().Info("Cast member deleted", "sceneId", c.Param("id"), "castId", c.Param("castId"))
	marker.SetSuccess(true)
	c.JSON(http.StatusOK, gin.H{"success": true})
}

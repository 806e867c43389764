package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/narrativekit/storydesk-go/internal/application/services"
	"github.com/narrativekit/storydesk-go/internal/domain/entities/story"
	"github.com/narrativekit/storydesk-go/internal/infrastructure/observability/logging"
	"github.com/narrativekit/storydesk-go/internal/infrastructure/observability/performance"
)

// SceneHandlers contains HTTP handlers for scene operations
type SceneHandlers struct {
	sceneService *services.SceneService
	logger       *logging.ChanneledLogger
	perfTracker  *performance.Tracker
}

// NewSceneHandlers creates scene handlers with injected dependencies
func NewSceneHandlers(sceneService *services.SceneService, logger *logging.ChanneledLogger, perfTracker *performance.Tracker) *SceneHandlers {
	return &SceneHandlers{
		sceneService: sceneService,
		logger:       logger,
		perfTracker:  perfTracker,
	}
}

// GetScenes handles GET /api/v1/scenes
func (h *SceneHandlers) GetScenes(c *gin.Context) {
	marker := h.perfTracker.StartOperation("get_scenes_request")
	defer marker.Complete()

	scenes, err := h.sceneService.List(c.Request.Context(), includeDeleted(c))
	if err != nil {
		h.logger.Content().Error("Scene list failed", "error", err.Error())
		marker.SetError(err)
		respondUpstreamError(c, err)
		return
	}

	marker.SetSuccess(true)
	c.JSON(http.StatusOK, scenes)
}

// GetSceneByID handles GET /api/v1/scenes/:id
func (h *SceneHandlers) GetSceneByID(c *gin.Context) {
	marker := h.perfTracker.StartOperation("get_scene_request")
	defer marker.Complete()

	scene, err := h.sceneService.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.logger.Content().Error("Scene fetch failed", "sceneId", c.Param("id"), "error", err.Error())
		marker.SetError(err)
		respondUpstreamError(c, err)
		return
	}
	if scene == nil {
		marker.SetSuccess(true)
		c.JSON(http.StatusNotFound, gin.H{"error": "scene not found"})
		return
	}

	marker.SetSuccess(true)
	c.JSON(http.StatusOK, scene)
}

// CreateScene handles POST /api/v1/scenes
func (h *SceneHandlers) CreateScene(c *gin.Context) {
	marker := h.perfTracker.StartOperation("create_scene_request")
	defer marker.Complete()

	var scene story.Scene
	if err := c.ShouldBindJSON(&scene); err != nil {
		marker.SetSuccess(false)
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	created, err := h.sceneService.Create(c.Request.Context(), &scene)
	if err != nil {
		h.logger.Content().Error("Scene create failed", "error", err.Error())
		marker.SetError(err)
		respondUpstreamError(c, err)
		return
	}

	h.logger.Content().Info("Scene created", "sceneId", created.SceneID)
	marker.SetSuccess(true)
	c.JSON(http.StatusCreated, created)
}

// UpdateScene handles PUT /api/v1/scenes/:id
func (h *SceneHandlers) UpdateScene(c *gin.Context) {
	marker := h.perfTracker.StartOperation("update_scene_request")
	defer marker.Complete()

	var scene story.Scene
	if err := c.ShouldBindJSON(&scene); err != nil {
		marker.SetSuccess(false)
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}
	scene.SceneID = c.Param("id")

	updated, err := h.sceneService.Update(c.Request.Context(), &scene)
	if err != nil {
		h.logger.Content().Error("Scene update failed", "sceneId", scene.SceneID, "error", err.Error())
		marker.SetError(err)
		respondUpstreamError(c, err)
		return
	}

	marker.SetSuccess(true)
	c.JSON(http.StatusOK, updated)
}

// DeleteScene handles DELETE /api/v1/scenes/:id
func (h *SceneHandlers) DeleteScene(c *gin.Context) {
	marker := h.perfTracker.StartOperation("delete_scene_request")
	defer marker.Complete()

	if err := h.sceneService.Delete(c.Request.Context(), c.Param("id")); err != nil {
		h.logger.Content().Error("Scene delete failed", "sceneId", c.Param("id"), "error", err.Error())
		marker.SetError(err)
		respondUpstreamError(c, err)
		return
	}

	h.logger.Content().Info("Scene deleted", "sceneId", c.Param("id"))
	marker.SetSuccess(true)
	c.JSON(http.StatusOK, gin.H{"success": true})
}

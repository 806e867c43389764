package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/narrativekit/storydesk-go/internal/application/services"
	"github.com/narrativekit/storydesk-go/internal/domain/entities/story"
	"github.com/narrativekit/storydesk-go/internal/infrastructure/observability/logging"
	"github.com/narrativekit/storydesk-go/internal/infrastructure/observability/performance"
)

// StoryHandlers contains HTTP handlers for story operations, including
// the cast links joining stories to cast members.
type StoryHandlers struct {
	storyService *services.StoryService
	logger       *logging.ChanneledLogger
	perfTracker  *performance.Tracker
}

// NewStoryHandlers creates story handlers with injected dependencies
func NewStoryHandlers(storyService *services.StoryService, logger *logging.ChanneledLogger, perfTracker *performance.Tracker) *StoryHandlers {
	return &StoryHandlers{
		storyService: storyService,
		logger:       logger,
		perfTracker:  perfTracker,
	}
}

// GetStories handles GET /api/v1/stories
func (h *StoryHandlers) GetStories(c *gin.Context) {
	marker := h.perfTracker.StartOperation("get_stories_request")
	defer marker.Complete()

	stories, err := h.storyService.List(c.Request.Context(), includeDeleted(c))
	if err != nil {
		h.logger.Content().Error("Story list failed", "error", err.Error())
		marker.SetError(err)
		respondUpstreamError(c, err)
		return
	}

	marker.SetSuccess(true)
	c.JSON(http.StatusOK, stories)
}

// GetStoryByID handles GET /api/v1/stories/:id
func (h *StoryHandlers) GetStoryByID(c *gin.Context) {
	marker := h.perfTracker.StartOperation("get_story_request")
	defer marker.Complete()

	st, err := h.storyService.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.logger.Content().Error("Story fetch failed", "storyId", c.Param("id"), "error", err.Error())
		marker.SetError(err)
		respondUpstreamError(c, err)
		return
	}
	if st == nil {
		marker.SetSuccess(true)
		c.JSON(http.StatusNotFound, gin.H{"error": "story not found"})
		return
	}

	marker.SetSuccess(true)
	c.JSON(http.StatusOK, st)
}

// CreateStory handles POST /api/v1/stories
func (h *StoryHandlers) CreateStory(c *gin.Context) {
	marker := h.perfTracker.StartOperation("create_story_request")
	defer marker.Complete()

	var st story.Story
	if err := c.ShouldBindJSON(&st); err != nil {
		marker.SetSuccess(false)
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	created, err := h.storyService.Create(c.Request.Context(), &st)
	if err != nil {
		h.logger.Content().Error("Story create failed", "error", err.Error())
		marker.SetError(err)
		respondUpstreamError(c, err)
		return
	}

	h.logger.Content().Info("Story created", "storyId", created.StoryID)
	marker.SetSuccess(true)
	c.JSON(http.StatusCreated, created)
}

// UpdateStory handles PUT /api/v1/stories/:id
func (h *StoryHandlers) UpdateStory(c *gin.Context) {
	marker := h.perfTracker.StartOperation("update_story_request")
	defer marker.Complete()

	var st story.Story
	if err := c.ShouldBindJSON(&st); err != nil {
		marker.SetSuccess(false)
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}
	st.StoryID = c.Param("id")

	updated, err := h.storyService.Update(c.Request.Context(), &st)
	if err != nil {
		h.logger.Content().Error("Story update failed", "storyId", st.StoryID, "error", err.Error())
		marker.SetError(err)
		respondUpstreamError(c, err)
		return
	}

	marker.SetSuccess(true)
	c.JSON(http.StatusOK, updated)
}

// DeleteStory handles DELETE /api/v1/stories/:id
func (h *StoryHandlers) DeleteStory(c *gin.Context) {
	marker := h.perfTracker.StartOperation("delete_story_request")
	defer marker.Complete()

	if err := h.storyService.Delete(c.Request.Context(), c.Param("id")); err != nil {
		h.logger.Content().Error("Story delete failed", "storyId", c.Param("id"), "error", err.Error())
		marker.SetError(err)
		respondUpstreamError(c, err)
		return
	}

	h.logger.Content().Info("Story deleted", "storyId", c.Param("id"))
	marker.SetSuccess(true)
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// GetStoryCast handles GET /api/v1/stories/:id/cast
func (h *StoryHandlers) GetStoryCast(c *gin.Context) {
	marker := h.perfTracker.StartOperation("get_story_cast_request")
	defer marker.Complete()

	links, err := h.storyService.Cast(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.logger.Content().Error("Story cast list failed", "storyId", c.Param("id"), "error", err.Error())
		marker.SetError(err)
		respondUpstreamError(c, err)
		return
	}

	marker.SetSuccess(true)
	c.JSON(http.StatusOK, links)
}

// PostStoryCast handles POST /api/v1/stories/:id/cast
func (h *StoryHandlers) PostStoryCast(c *gin.Context) {
	marker := h.perfTracker.StartOperation("add_story_cast_request")
	defer marker.Complete()

	var link story.StoryCastLink
	if err := c.ShouldBindJSON(&link); err != nil {
		marker.SetSuccess(false)
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}
	link.StoryID = c.Param("id")

	created, err := h.storyService.AddCast(c.Request.Context(), &link)
	if err != nil {
		h.logger.Content().Error("Story cast link failed", "storyId", link.StoryID, "error", err.Error())
		marker.SetError(err)
		respondUpstreamError(c, err)
		return
	}

	h.logger.Content().Info("Story cast linked", "storyId", created.StoryID, "castId", created.CastID)
	marker.SetSuccess(true)
	c.JSON(http.StatusCreated, created)
}

// DeleteStoryCast handles DELETE /api/v1/stories/:id/cast/:castId
func (h *StoryHandlers) DeleteStoryCast(c *gin.Context) {
	marker := h.perfTracker.StartOperation("remove_story_cast_request")
	defer marker.Complete()

	if err := h.storyService.RemoveCast(c.Request.Context(), c.Param("id"), c.Param("castId")); err != nil {
		h.logger.Content().Error("Story cast unlink failed", "storyId", c.Param("id"), "castId", c.Param("castId"), "error", err.Error())
		marker.SetError(err)
		respondUpstreamError(c, err)
		return
	}

	h.logger.Content().Info("Story cast unlinked", "storyId", c.Param("id"), "castId", c.Param("castId"))
	marker.SetSuccess(true)
	c.JSON(http.StatusOK, gin.H{"success": true})
}

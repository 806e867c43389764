package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/narrativekit/storydesk-go/internal/application/services"
	"github.com/narrativekit/storydesk-go/internal/domain/entities/story"
	"github.com/narrativekit/storydesk-go/internal/infrastructure/observability/logging"
	"github.com/narrativekit/storydesk-go/internal/infrastructure/observability/performance"
)

// CharacterHandlers contains HTTP handlers for character operations
type CharacterHandlers struct {
	characterService *services.CharacterService
	logger           *logging.ChanneledLogger
	perfTracker      *performance.Tracker
}

// NewCharacterHandlers creates character handlers with injected dependencies
func NewCharacterHandlers(characterService *services.CharacterService, logger *logging.ChanneledLogger, perfTracker *performance.Tracker) *CharacterHandlers {
	return &CharacterHandlers{
		characterService: characterService,
		logger:           logger,
		perfTracker:      perfTracker,
	}
}

// GetCharacters handles GET /api/v1/characters
func (h *CharacterHandlers) GetCharacters(c *gin.Context) {
	marker := h.perfTracker.StartOperation("get_characters_request")
	defer marker.Complete()

	characters, err := h.characterService.List(c.Request.Context(), includeDeleted(c))
	if err != nil {
		h.logger.Content().Error("Character list failed", "error", err.Error())
		marker.SetError(err)
		respondUpstreamError(c, err)
		return
	}

	marker.SetSuccess(true)
	c.JSON(http.StatusOK, characters)
}

// GetCharacterByID handles GET /api/v1/characters/:id
func (h *CharacterHandlers) GetCharacterByID(c *gin.Context) {
	marker := h.perfTracker.StartOperation("get_character_request")
	defer marker.Complete()

	character, err := h.characterService.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.logger.Content().Error("Character fetch failed", "characterId", c.Param("id"), "error", err.Error())
		marker.SetError(err)
		respondUpstreamError(c, err)
		return
	}
	if character == nil {
		marker.SetSuccess(true)
		c.JSON(http.StatusNotFound, gin.H{"error": "character not found"})
		return
	}

	marker.SetSuccess(true)
	c.JSON(http.StatusOK, character)
}

// CreateCharacter handles POST /api/v1/characters
func (h *CharacterHandlers) CreateCharacter(c *gin.Context) {
	marker := h.perfTracker.StartOperation("create_character_request")
	defer marker.Complete()

	var character story.Character
	if err := c.ShouldBindJSON(&character); err != nil {
		marker.SetSuccess(false)
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	created, err := h.characterService.Create(c.Request.Context(), &character)
	if err != nil {
		h.logger.Content().Error("Character create failed", "error", err.Error())
		marker.SetError(err)
		respondUpstreamError(c, err)
		return
	}

	h.logger.Content().Info("Character created", "characterId", created.CharacterID)
	marker.SetSuccess(true)
	c.JSON(http.StatusCreated, created)
}

// UpdateCharacter handles PUT /api/v1/characters/:id
func (h *CharacterHandlers) UpdateCharacter(c *gin.Context) {
	marker := h.perfTracker.StartOperation("update_character_request")
	defer marker.Complete()

	var character story.Character
	if err := c.ShouldBindJSON(&character); err != nil {
		marker.SetSuccess(false)
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}
	character.CharacterID = c.Param("id")

	updated, err := h.characterService.Update(c.Request.Context(), &character)
	if err != nil {
		h.logger.Content().Error("Character update failed", "characterId", character.CharacterID, "error", err.Error())
		marker.SetError(err)
		respondUpstreamError(c, err)
		return
	}

	marker.SetSuccess(true)
	c.JSON(http.StatusOK, updated)
}

// DeleteCharacter handles DELETE /api/v1/characters/:id
func (h *CharacterHandlers) DeleteCharacter(c *gin.Context) {
	marker := h.perfTracker.StartOperation("delete_character_request")
	defer marker.Complete()

	if err := h.characterService.Delete(c.Request.Context(), c.Param("id")); err != nil {
		h.logger.Content().Error("Character delete failed", "characterId", c.Param("id"), "error", err.Error())
		marker.SetError(err)
		respondUpstreamError(c, err)
		return
	}

	h.logger.Content().Info("Character deleted", "characterId", c.Param("id"))
	marker.SetSuccess(true)
	c.JSON(http.StatusOK, gin.H{"success": true})
}

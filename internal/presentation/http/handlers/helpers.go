package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/narrativekit/storydesk-go/internal/infrastructure/upstream"
)

// respondUpstreamError translates a typed client failure into a console
// response. Upstream HTTP failures keep their status so the SPA can
// distinguish a 404 from a 409; transport failures become a 502.
func respondUpstreamError(c *gin.Context, err error) {
	var apiErr *upstream.APIError
	if errors.As(err, &apiErr) {
		c.JSON(apiErr.Status, gin.H{"error": apiErr.Snippet})
		return
	}
	c.JSON(http.StatusBadGateway, gin.H{"error": "story api request failed"})
}

// includeDeleted reads the soft-delete visibility flag off a list
// request.
func includeDeleted(c *gin.Context) bool {
	return c.Query("include_deleted") == "true"
}

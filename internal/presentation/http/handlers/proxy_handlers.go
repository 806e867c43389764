package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/narrativekit/storydesk-go/internal/infrastructure/proxy"
)

// ProxyHandlers relays /api/story/* requests to the story API verbatim.
type ProxyHandlers struct {
	forwarder *proxy.Forwarder
}

// NewProxyHandlers creates proxy handlers over the forwarder
func NewProxyHandlers(forwarder *proxy.Forwarder) *ProxyHandlers {
	return &ProxyHandlers{forwarder: forwarder}
}

// Forward handles ANY /api/story/*path
func (h *ProxyHandlers) Forward(c *gin.Context) {
	h.forwarder.Forward(c.Writer, c.Request, c.Param("path"))
}

package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/narrativekit/storydesk-go/internal/infrastructure/messaging"
	"github.com/narrativekit/storydesk-go/internal/infrastructure/observability/logging"
	"github.com/narrativekit/storydesk-go/pkg/config"
)

var activityUpgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Origin is enforced by the CORS layer; the feed carries no
	// credentials and no entity payloads.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// ActivityHandlers serves the live activity feed over websockets.
type ActivityHandlers struct {
	broadcaster *messaging.ActivityBroadcaster
	logger      *logging.ChanneledLogger
}

// NewActivityHandlers creates activity feed handlers
func NewActivityHandlers(broadcaster *messaging.ActivityBroadcaster, logger *logging.ChanneledLogger) *ActivityHandlers {
	return &ActivityHandlers{
		broadcaster: broadcaster,
		logger:      logger,
	}
}

// GetActivityFeed handles GET /api/v1/activity/ws - upgrades to a
// websocket and streams activity events until the client disconnects.
func (h *ActivityHandlers) GetActivityFeed(c *gin.Context) {
	conn, err := activityUpgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.System().Error("Activity feed upgrade failed", "error", err.Error())
		return
	}

	client := &messaging.ActivityClient{
		Conn: conn,
		Send: make(chan []byte, 64),
	}
	h.broadcaster.Register(client)

	go h.writePump(client)
	go h.readPump(client)
}

// writePump drains the client's send channel onto the wire and keeps
// the connection alive with pings.
func (h *ActivityHandlers) writePump(client *messaging.ActivityClient) {
	pingInterval := time.Duration(config.ActivityPingIntervalSeconds) * time.Second
	ticker := time.NewTicker(pingInterval)
	defer func() {
		ticker.Stop()
		client.Conn.Close()
	}()

	for {
		select {
		case message, ok := <-client.Send:
			client.Conn.SetWriteDeadline(time.Now().Add(config.ActivityWriteTimeout))
			if !ok {
				client.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := client.Conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}
		case <-ticker.C:
			client.Conn.SetWriteDeadline(time.Now().Add(config.ActivityWriteTimeout))
			if err := client.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// readPump discards inbound frames and unregisters on disconnect. The
// feed is one-way; reads exist only to notice the close.
func (h *ActivityHandlers) readPump(client *messaging.ActivityClient) {
	defer func() {
		h.broadcaster.Unregister(client)
		client.Conn.Close()
	}()

	client.Conn.SetReadLimit(512)
	for {
		if _, _, err := client.Conn.ReadMessage(); err != nil {
			return
		}
	}
}

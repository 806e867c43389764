package messaging

import (
	"encoding/json"
	"sync"

	"github.com/gorilla/websocket"

	"github.com/narrativekit/storydesk-go/internal/infrastructure/observability/logging"
)

// ActivityClient represents a single connected activity feed client.
type ActivityClient struct {
	Conn *websocket.Conn
	Send chan []byte
}

// ActivityBroadcaster manages all connected feed clients and fans out
// activity events. Late joiners receive a bounded replay of recent
// events so the feed is never blank after a reconnect.
type ActivityBroadcaster struct {
	clients    map[*ActivityClient]bool
	register   chan *ActivityClient
	unregister chan *ActivityClient
	events     chan ActivityEvent
	replay     [][]byte
	replaySize int
	mu         sync.RWMutex
	logger     *logging.ChanneledLogger
}

// NewActivityBroadcaster creates a broadcaster keeping replaySize
// recent events for late joiners.
func NewActivityBroadcaster(replaySize int, logger *logging.ChanneledLogger) *ActivityBroadcaster {
	if replaySize < 0 {
		replaySize = 0
	}
	return &ActivityBroadcaster{
		clients:    make(map[*ActivityClient]bool),
		register:   make(chan *ActivityClient),
		unregister: make(chan *ActivityClient),
		events:     make(chan ActivityEvent, 256),
		replaySize: replaySize,
		logger:     logger,
	}
}

// Run starts the broadcaster's main loop. This should be run as a goroutine.
func (b *ActivityBroadcaster) Run() {
	for {
		select {
		case client := <-b.register:
			b.mu.Lock()
			b.clients[client] = true
			for _, message := range b.replay {
				select {
				case client.Send <- message:
				default:
				}
			}
			count := len(b.clients)
			b.mu.Unlock()
			b.logger.System().Debug("Activity feed client registered", "clients", count)

		case client := <-b.unregister:
			b.mu.Lock()
			if _, ok := b.clients[client]; ok {
				delete(b.clients, client)
				close(client.Send)
			}
			count := len(b.clients)
			b.mu.Unlock()
			b.logger.System().Debug("Activity feed client unregistered", "clients", count)

		case event := <-b.events:
			b.fanOut(event)
		}
	}
}

// Register queues a client for registration.
func (b *ActivityBroadcaster) Register(client *ActivityClient) {
	b.register <- client
}

// Unregister queues a client for unregistration.
func (b *ActivityBroadcaster) Unregister(client *ActivityClient) {
	b.unregister <- client
}

// Publish queues an event for fan-out. The event is dropped when the
// queue is full rather than stall a request.
func (b *ActivityBroadcaster) Publish(event ActivityEvent) {
	select {
	case b.events <- event:
	default:
		b.logger.System().Warn("Activity event queue full, event dropped")
	}
}

// ClientCount reports the number of connected feed clients.
func (b *ActivityBroadcaster) ClientCount() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.clients)
}

func (b *ActivityBroadcaster) fanOut(event ActivityEvent) {
	message, err := json.Marshal(event)
	if err != nil {
		b.logger.System().Error("Failed to marshal activity event", "error", err)
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	b.replay = append(b.replay, message)
	if len(b.replay) > b.replaySize {
		b.replay = b.replay[len(b.replay)-b.replaySize:]
	}

	for client := range b.clients {
		select {
		case client.Send <- message:
		default:
		}
	}
}

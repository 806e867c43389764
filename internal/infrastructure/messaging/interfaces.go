// Package messaging defines interfaces for real-time communication.
package messaging

// ActivityPublisher accepts events for fan-out to connected feed
// clients. Implementations must never block the request path.
type ActivityPublisher interface {
	Publish(event ActivityEvent)
}

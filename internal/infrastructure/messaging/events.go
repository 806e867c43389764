package messaging

import "time"

// ActivityEvent is one upstream round trip as shown on the console's
// live activity feed.
type ActivityEvent struct {
	RequestID  string    `json:"requestId"`
	Method     string    `json:"method"`
	Endpoint   string    `json:"endpoint"`
	Status     int       `json:"status"`
	Outcome    string    `json:"outcome,omitempty"`
	AccountID  string    `json:"accountId,omitempty"`
	DurationMS int64     `json:"durationMs"`
	Timestamp  time.Time `json:"timestamp"`
}

package email

import (
	"sync"

	"github.com/narrativekit/storydesk-go/internal/infrastructure/observability/logging"
)

// Notifier raises operator alerts at most once per subject per process
// so a degraded condition cannot flood the inbox. A nil service means
// alerting is not configured and only the log line is emitted.
type Notifier struct {
	service Service
	logger  *logging.ChanneledLogger
	mu      sync.Mutex
	sent    map[string]bool
}

// NewNotifier creates a notifier over the given alert service.
func NewNotifier(service Service, logger *logging.ChanneledLogger) *Notifier {
	return &Notifier{
		service: service,
		logger:  logger,
		sent:    make(map[string]bool),
	}
}

// Alert logs and emails an operator alert. The email goes out off the
// request path.
func (n *Notifier) Alert(subject, detail string) {
	n.mu.Lock()
	already := n.sent[subject]
	n.sent[subject] = true
	n.mu.Unlock()

	if already {
		return
	}

	n.logger.Alert().Warn("Operator alert raised", "subject", subject, "detail", detail)

	if n.service == nil {
		return
	}

	go func() {
		if err := n.service.SendOperatorAlert(subject, detail); err != nil {
			n.logger.Alert().Error("Failed to send operator alert", "subject", subject, "error", err)
		}
	}()
}

// Enabled reports whether alert emails are configured.
func (n *Notifier) Enabled() bool {
	return n.service != nil
}

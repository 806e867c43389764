package services

import (
	"context"
	"time"

	"github.com/narrativekit/storydesk-go/internal/infrastructure/messaging"
	"github.com/narrativekit/storydesk-go/internal/infrastructure/observability/logging"
	"github.com/narrativekit/storydesk-go/internal/infrastructure/observability/performance"
	"github.com/narrativekit/storydesk-go/internal/infrastructure/upstream"
)

// StorePinger reports console store health.
type StorePinger interface {
	Ping() error
	ConnectionInfo() string
}

// StatusService aggregates console health for the status endpoint.
// The endpoint is unauthenticated, so the report carries reachability
// and counters only, never account or identity data.
type StatusService struct {
	client        *upstream.Client
	interp        *upstream.Interpreter
	store         StorePinger
	broadcaster   *messaging.ActivityBroadcaster
	perfTracker   *performance.Tracker
	logger        *logging.ChanneledLogger
	alertsEnabled bool
	startTime     time.Time
}

// NewStatusService creates a new status aggregation service
func NewStatusService(
	client *upstream.Client,
	interp *upstream.Interpreter,
	store StorePinger,
	broadcaster *messaging.ActivityBroadcaster,
	perfTracker *performance.Tracker,
	alertsEnabled bool,
	logger *logging.ChanneledLogger,
) *StatusService {
	return &StatusService{
		client:        client,
		interp:        interp,
		store:         store,
		broadcaster:   broadcaster,
		perfTracker:   perfTracker,
		logger:        logger,
		alertsEnabled: alertsEnabled,
		startTime:     time.Now(),
	}
}

// ComponentStatus is one dependency's health line.
type ComponentStatus struct {
	Healthy bool   `json:"healthy"`
	Detail  string `json:"detail,omitempty"`
}

// Status is the full console health report.
type Status struct {
	Status          string           `json:"status"`
	Uptime          string           `json:"uptime"`
	Upstream        ComponentStatus  `json:"upstream"`
	Store           ComponentStatus  `json:"store"`
	Interpreter     map[string]int64 `json:"interpreter"`
	ActivityClients int              `json:"activityClients"`
	AlertsEnabled   bool             `json:"alertsEnabled"`
	Performance     map[string]any   `json:"performance"`
}

// Report gathers the current health of every console dependency.
func (s *StatusService) Report(ctx context.Context) *Status {
	status := &Status{
		Status:          "healthy",
		Uptime:          time.Since(s.startTime).Round(time.Second).String(),
		Upstream:        ComponentStatus{Healthy: true},
		Store:           ComponentStatus{Healthy: true},
		Interpreter:     s.interp.Counters(),
		ActivityClients: s.broadcaster.ClientCount(),
		AlertsEnabled:   s.alertsEnabled,
		Performance:     s.perfTracker.GetOverallStats(),
	}

	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := s.client.Ping(pingCtx); err != nil {
		status.Status = "degraded"
		status.Upstream = ComponentStatus{Healthy: false, Detail: err.Error()}
		s.logger.System().Warn("Status check found upstream unreachable", "error", err)
	}

	status.Store.Detail = s.store.ConnectionInfo()
	if err := s.store.Ping(); err != nil {
		status.Status = "degraded"
		status.Store = ComponentStatus{Healthy: false, Detail: err.Error()}
		s.logger.System().Warn("Status check found store unhealthy", "error", err)
	}

	return status
}

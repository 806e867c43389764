// Package container provides dependency injection for all singleton services
package container

import (
	"fmt"

	"github.com/narrativekit/storydesk-go/internal/application/services"
	"github.com/narrativekit/storydesk-go/internal/domain/account"
	"github.com/narrativekit/storydesk-go/internal/infrastructure/email"
	"github.com/narrativekit/storydesk-go/internal/infrastructure/install"
	"github.com/narrativekit/storydesk-go/internal/infrastructure/messaging"
	"github.com/narrativekit/storydesk-go/internal/infrastructure/observability/logging"
	"github.com/narrativekit/storydesk-go/internal/infrastructure/observability/performance"
	"github.com/narrativekit/storydesk-go/internal/infrastructure/proxy"
	"github.com/narrativekit/storydesk-go/internal/infrastructure/upstream"
	"github.com/narrativekit/storydesk-go/pkg/config"
)

// ConsoleStore is the selection store plus the health surface the
// status endpoint reports on.
type ConsoleStore interface {
	account.Store
	Ping() error
	ConnectionInfo() string
}

// Container holds all singleton services and infrastructure dependencies
type Container struct {
	// Infrastructure
	Logger      *logging.ChanneledLogger
	PerfTracker *performance.Tracker
	Secrets     *install.Config
	Store       ConsoleStore
	Notifier    *email.Notifier
	Interpreter *upstream.Interpreter
	Client      *upstream.Client
	Forwarder   *proxy.Forwarder
	Broadcaster *messaging.ActivityBroadcaster

	// Application services (stateless singletons)
	AuthService      *services.AuthService
	AccountService   *services.AccountService
	CharacterService *services.CharacterService
	SceneService     *services.SceneService
	CastService      *services.CastService
	StoryService     *services.StoryService
	StatusService    *services.StatusService
}

// NewContainer creates and wires all singleton services
func NewContainer(consoleStore ConsoleStore, secrets *install.Config, logger *logging.ChanneledLogger) (*Container, error) {
	perfTracker := performance.NewTracker(nil)
	broadcaster := messaging.NewActivityBroadcaster(config.ActivityReplaySize, logger)

	var alertService email.Service
	if config.AlertsEnabled && secrets.ResendAPIKey != "" && config.AlertToEmail != "" {
		svc, err := email.NewService(secrets.ResendAPIKey, config.AlertFromEmail, config.AlertToEmail)
		if err != nil {
			return nil, fmt.Errorf("failed to configure alert email service: %w", err)
		}
		alertService = svc
	}
	notifier := email.NewNotifier(alertService, logger)

	accountService := services.NewAccountService(consoleStore, secrets, notifier, services.ClaimNames{
		AccountList: config.AccountListClaim,
		AccountID:   config.AccountIDClaim,
		Username:    config.UsernameClaim,
	}, logger)

	interp := upstream.NewInterpreter(logger)
	client, err := upstream.NewClient(upstream.ClientConfig{
		BaseURL:         config.StoryAPIURL,
		APIKey:          secrets.StoryAPIKey,
		Timeout:         config.UpstreamTimeout,
		MaxIdleConns:    config.UpstreamMaxIdleConns,
		IdleConnTimeout: config.UpstreamIdleConnTimeout,
		SlowThreshold:   config.SlowUpstreamThreshold,
	}, accountService, interp, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to build upstream client: %w", err)
	}
	client.SetActivityPublisher(broadcaster)

	forwarder, err := proxy.NewForwarder(proxy.Config{
		BaseURL:         config.StoryAPIURL,
		APIKey:          secrets.StoryAPIKey,
		Timeout:         config.UpstreamTimeout,
		MaxIdleConns:    config.UpstreamMaxIdleConns,
		IdleConnTimeout: config.UpstreamIdleConnTimeout,
		SlowThreshold:   config.SlowUpstreamThreshold,
	}, accountService, broadcaster, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to build forwarder: %w", err)
	}

	statusService := services.NewStatusService(client, interp, consoleStore,
		broadcaster, perfTracker, notifier.Enabled(), logger)

	return &Container{
		Logger:      logger,
		PerfTracker: perfTracker,
		Secrets:     secrets,
		Store:       consoleStore,
		Notifier:    notifier,
		Interpreter: interp,
		Client:      client,
		Forwarder:   forwarder,
		Broadcaster: broadcaster,

		AuthService:      services.NewAuthService(secrets, config.SessionTTL, logger),
		AccountService:   accountService,
		CharacterService: services.NewCharacterService(client),
		SceneService:     services.NewSceneService(client),
		CastService:      services.NewCastService(client),
		StoryService:     services.NewStoryService(client),
		StatusService:    statusService,
	}, nil
}

// Package install loads the operator-supplied installation secrets.
// Secrets stay out of the general config package so their values never
// reach the override log lines.
package install

import (
	"os"
	"strings"

	"github.com/narrativekit/storydesk-go/internal/infrastructure/observability/logging"
	"github.com/narrativekit/storydesk-go/internal/infrastructure/security"
)

// Config carries every secret the console needs at runtime. Empty
// fields mean the matching feature is off or degraded, not a crash.
type Config struct {
	JWTSecret       string
	AdminPassword   string
	StoryAPIKey     string
	IdentitySecret  string
	LibSQLAuthToken string
	ResendAPIKey    string

	// EphemeralSecret is set when no JWT_SECRET was supplied and a
	// process-local one was generated. Sessions then end on restart.
	EphemeralSecret bool
}

// Load reads the installation secrets from the environment and reports
// what is configured without ever logging a value.
func Load(logger *logging.ChanneledLogger) *Config {
	cfg := &Config{
		JWTSecret:       strings.TrimSpace(os.Getenv("JWT_SECRET")),
		AdminPassword:   os.Getenv("ADMIN_PASSWORD"),
		StoryAPIKey:     strings.TrimSpace(os.Getenv("STORY_API_KEY")),
		IdentitySecret:  strings.TrimSpace(os.Getenv("IDENTITY_JWT_SECRET")),
		LibSQLAuthToken: strings.TrimSpace(os.Getenv("LIBSQL_AUTH_TOKEN")),
		ResendAPIKey:    strings.TrimSpace(os.Getenv("RESEND_API_KEY")),
	}

	if cfg.JWTSecret == "" {
		generated, err := security.GenerateSecureKey(32)
		if err != nil {
			logger.Startup().Error("Failed to generate an ephemeral JWT secret", "error", err)
		} else {
			cfg.JWTSecret = generated
			cfg.EphemeralSecret = true
			logger.Startup().Warn("JWT_SECRET not set, generated an ephemeral secret, sessions will not survive restarts")
		}
	}
	if cfg.AdminPassword == "" {
		logger.Startup().Warn("ADMIN_PASSWORD not set, console logins are disabled")
	}
	if cfg.StoryAPIKey == "" {
		logger.Startup().Warn("STORY_API_KEY not set, upstream calls will go out without credentials")
	}
	if cfg.IdentitySecret == "" {
		logger.Startup().Warn("IDENTITY_JWT_SECRET not set, identity tokens cannot be verified")
	}

	logger.Startup().Info("Installation secrets loaded",
		"jwtSecret", presence(cfg.JWTSecret),
		"adminPassword", presence(cfg.AdminPassword),
		"storyApiKey", presence(cfg.StoryAPIKey),
		"identitySecret", presence(cfg.IdentitySecret),
		"libsqlAuthToken", presence(cfg.LibSQLAuthToken),
		"resendApiKey", presence(cfg.ResendAPIKey),
		"ephemeral", cfg.EphemeralSecret,
	)

	return cfg
}

func presence(value string) string {
	if value == "" {
		return "missing"
	}
	return "configured"
}

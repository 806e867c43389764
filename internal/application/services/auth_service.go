// Package services provides application-level orchestration services
package services

import (
	"slices"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"golang.org/x/crypto/bcrypt"

	"github.com/narrativekit/storydesk-go/internal/infrastructure/install"
	"github.com/narrativekit/storydesk-go/internal/infrastructure/observability/logging"
	"github.com/narrativekit/storydesk-go/internal/infrastructure/security"
)

// AuthService handles console authentication workflows and JWT operations
type AuthService struct {
	logger     *logging.ChanneledLogger
	secrets    *install.Config
	sessionTTL time.Duration
}

// NewAuthService creates a new authentication service
func NewAuthService(secrets *install.Config, sessionTTL time.Duration, logger *logging.ChanneledLogger) *AuthService {
	return &AuthService{
		logger:     logger,
		secrets:    secrets,
		sessionTTL: sessionTTL,
	}
}

// AuthResult holds authentication result data
type AuthResult struct {
	Token   string `json:"token"`
	Role    string `json:"role"`
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

// AuthenticateAdmin validates the console password and generates a
// session JWT. The configured password may be a bcrypt hash or, for
// transition setups, plaintext.
func (a *AuthService) AuthenticateAdmin(password string) *AuthResult {
	var role string

	if a.secrets.AdminPassword != "" {
		if err := bcrypt.CompareHashAndPassword([]byte(a.secrets.AdminPassword), []byte(password)); err == nil {
			role = "admin"
		}
	}

	// Fallback for plaintext passwords during transition/testing
	if role == "" && a.secrets.AdminPassword != "" && password == a.secrets.AdminPassword {
		role = "admin"
	}

	if role == "" {
		a.logger.LogAuthOperation("login", "admin", false, nil)
		return &AuthResult{Success: false, Error: "Invalid credentials"}
	}

	claims := jwt.MapClaims{
		"role": role,
		"type": "admin_auth",
		"exp":  time.Now().Add(a.sessionTTL).Unix(),
		"iat":  time.Now().Unix(),
	}

	token, err := a.GenerateJWT(claims, a.secrets.JWTSecret)
	if err != nil {
		a.logger.Auth().Error("Token generation failed", "error", err)
		return &AuthResult{Success: false, Error: "Token generation failed"}
	}

	a.logger.LogAuthOperation("login", "admin", true, nil)
	return &AuthResult{Token: token, Role: role, Success: true}
}

// GenerateJWT creates a JWT token with given claims
func (a *AuthService) GenerateJWT(claims jwt.MapClaims, jwtSecret string) (string, error) {
	if _, ok := claims["iat"]; !ok {
		claims["iat"] = time.Now().UTC().Unix()
	}
	if _, ok := claims["exp"]; !ok {
		claims["exp"] = time.Now().UTC().Add(a.sessionTTL).Unix()
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(jwtSecret))
}

// ValidateAdminToken checks if a token belongs to an admin user
func (a *AuthService) ValidateAdminToken(tokenString string) bool {
	return a.ValidateTokenWithRoles(tokenString, []string{"admin"})
}

// ValidateTokenWithRoles validates a token and checks if the role is in the allowed list
func (a *AuthService) ValidateTokenWithRoles(tokenString string, allowedRoles []string) bool {
	if tokenString == "" {
		return false
	}

	claims, err := security.ValidateJWT(tokenString, a.secrets.JWTSecret)
	if err != nil {
		return false
	}

	tokenType, ok := claims["type"].(string)
	if !ok || tokenType != "admin_auth" {
		return false
	}

	tokenRole, ok := claims["role"].(string)
	if !ok {
		return false
	}

	return slices.Contains(allowedRoles, tokenRole)
}

// SessionTTL reports the configured session lifetime.
func (a *AuthService) SessionTTL() time.Duration {
	return a.sessionTTL
}

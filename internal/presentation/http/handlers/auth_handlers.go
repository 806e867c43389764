// Package handlers provides HTTP request handlers for the presentation layer.
package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/narrativekit/storydesk-go/internal/application/services"
	"github.com/narrativekit/storydesk-go/internal/infrastructure/observability/logging"
	"github.com/narrativekit/storydesk-go/internal/infrastructure/observability/performance"
)

const authCookieName = "admin_auth"

// AuthHandlers contains all authentication-related HTTP handlers
type AuthHandlers struct {
	authService    *services.AuthService
	accountService *services.AccountService
	logger         *logging.ChanneledLogger
	perfTracker    *performance.Tracker
}

// NewAuthHandlers creates auth handlers with injected dependencies
func NewAuthHandlers(authService *services.AuthService, accountService *services.AccountService, logger *logging.ChanneledLogger, perfTracker *performance.Tracker) *AuthHandlers {
	return &AuthHandlers{
		authService:    authService,
		accountService: accountService,
		logger:         logger,
		perfTracker:    perfTracker,
	}
}

// PostLogin handles POST /api/v1/auth/login - console password authentication
func (h *AuthHandlers) PostLogin(c *gin.Context) {
	start := time.Now()
	marker := h.perfTracker.StartOperation("post_login_request")
	defer marker.Complete()

	var loginReq struct {
		Password string `json:"password" binding:"required"`
	}

	if err := c.ShouldBindJSON(&loginReq); err != nil {
		h.logger.Auth().Error("Login request JSON binding failed", "error", err.Error())
		marker.SetSuccess(false)
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	result := h.authService.AuthenticateAdmin(loginReq.Password)

	if !result.Success {
		h.logger.Auth().Warn("Login attempt failed", "error", result.Error, "duration", time.Since(start))
		marker.SetSuccess(false)
		c.JSON(http.StatusUnauthorized, gin.H{"error": result.Error})
		return
	}

	c.SetCookie(
		authCookieName,
		result.Token,
		int(h.authService.SessionTTL().Seconds()),
		"/",
		"",    // domain (empty for current domain)
		false, // secure (set to true in production)
		true,  // httpOnly
	)

	h.logger.Auth().Info("Login successful", "role", result.Role, "duration", time.Since(start))
	marker.SetSuccess(true)

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"role":    result.Role,
		"message": "Login successful",
	})
}

// PostLogout handles POST /api/v1/auth/logout - clears the session cookie
func (h *AuthHandlers) PostLogout(c *gin.Context) {
	marker := h.perfTracker.StartOperation("post_logout_request")
	defer marker.Complete()

	c.SetCookie(authCookieName, "", -1, "/", "", false, true)

	h.logger.Auth().Info("Logout completed")
	marker.SetSuccess(true)

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Logout successful",
	})
}

// GetAuthStatus handles GET /api/v1/auth/status - checks current authentication status
func (h *AuthHandlers) GetAuthStatus(c *gin.Context) {
	marker := h.perfTracker.StartOperation("get_auth_status_request")
	defer marker.Complete()

	token, authMethod := h.sessionToken(c)
	authenticated := token != "" && h.authService.ValidateAdminToken(token)
	if !authenticated {
		authMethod = ""
	}

	marker.SetSuccess(true)
	c.JSON(http.StatusOK, gin.H{
		"authenticated": authenticated,
		"method":        authMethod,
	})
}

// PostIdentity handles POST /api/v1/auth/identity - accepts an identity
// token from the external IdP and resolves the account scope it carries.
func (h *AuthHandlers) PostIdentity(c *gin.Context) {
	start := time.Now()
	marker := h.perfTracker.StartOperation("post_identity_request")
	defer marker.Complete()

	var identityReq struct {
		Token string `json:"token" binding:"required"`
	}

	if err := c.ShouldBindJSON(&identityReq); err != nil {
		h.logger.Auth().Error("Identity request JSON binding failed", "error", err.Error())
		marker.SetSuccess(false)
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	resolution, err := h.accountService.Resolve(identityReq.Token)
	if err != nil {
		h.logger.Auth().Warn("Identity resolution failed", "error", err.Error(), "duration", time.Since(start))
		marker.SetError(err)
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Identity token could not be resolved"})
		return
	}

	h.logger.Auth().Info("Identity resolved",
		"username", resolution.Username,
		"accounts", len(resolution.AvailableIDs),
		"duration", time.Since(start),
	)
	marker.SetSuccess(true)

	c.JSON(http.StatusOK, resolution)
}

// sessionToken pulls the session JWT from the bearer header or the
// session cookie, reporting which carried it.
func (h *AuthHandlers) sessionToken(c *gin.Context) (token, method string) {
	authHeader := c.GetHeader("Authorization")
	if len(authHeader) > 7 && authHeader[:7] == "Bearer " {
		return authHeader[7:], "bearer"
	}
	if cookie, err := c.Cookie(authCookieName); err == nil && cookie != "" {
		return cookie, "cookie"
	}
	return "", ""
}

// AuthMiddleware guards console routes behind a valid admin session.
func (h *AuthHandlers) AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, _ := h.sessionToken(c)
		if token == "" || !h.authService.ValidateAdminToken(token) {
			h.logger.Auth().Warn("Unauthorized access attempt", "path", c.Request.URL.Path)
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
			c.Abort()
			return
		}
		c.Next()
	}
}

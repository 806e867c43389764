// Package routes provides HTTP route configuration for the presentation layer.
package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/narrativekit/storydesk-go/internal/application/container"
	"github.com/narrativekit/storydesk-go/internal/presentation/http/handlers"
	"github.com/narrativekit/storydesk-go/internal/presentation/http/middleware"
)

// SetupRoutes configures all HTTP routes and middleware with dependency injection.
func SetupRoutes(container *container.Container) *gin.Engine {
	r := gin.Default()

	r.Use(middleware.CORSMiddleware())

	// Initialize handlers
	authHandlers := handlers.NewAuthHandlers(container.AuthService, container.AccountService, container.Logger, container.PerfTracker)
	accountHandlers := handlers.NewAccountHandlers(container.AccountService, container.Logger, container.PerfTracker)
	characterHandlers := handlers.NewCharacterHandlers(container.CharacterService, container.Logger, container.PerfTracker)
	sceneHandlers := handlers.NewSceneHandlers(container.SceneService, container.Logger, container.PerfTracker)
	castHandlers := handlers.NewCastHandlers(container.CastService, container.Logger, container.PerfTracker)
	storyHandlers := handlers.NewStoryHandlers(container.StoryService, container.Logger, container.PerfTracker)
	statusHandlers := handlers.NewStatusHandlers(container.StatusService, container.Logger, container.PerfTracker)
	activityHandlers := handlers.NewActivityHandlers(container.Broadcaster, container.Logger)
	proxyHandlers := handlers.NewProxyHandlers(container.Forwarder)

	api := r.Group("/api/v1")
	{
		// Authentication and identity routes
		auth := api.Group("/auth")
		{
			auth.POST("/login", authHandlers.PostLogin)
			auth.POST("/logout", authHandlers.PostLogout)
			auth.GET("/status", authHandlers.GetAuthStatus)
			auth.POST("/identity", authHandlers.AuthMiddleware(), authHandlers.PostIdentity)
		}

		// Console health
		api.GET("/status", statusHandlers.GetStatus)

		// Everything below requires a console session
		protected := api.Group("/")
		protected.Use(authHandlers.AuthMiddleware())
		{
			// Account selection
			protected.GET("/accounts", accountHandlers.GetAccounts)
			protected.POST("/accounts/switch", accountHandlers.PostSwitch)

			// Characters
			protected.GET("/characters", characterHandlers.GetCharacters)
			protected.POST("/characters", characterHandlers.CreateCharacter)
			protected.GET("/characters/:id", characterHandlers.GetCharacterByID)
			protected.PUT("/characters/:id", characterHandlers.UpdateCharacter)
			protected.DELETE("/characters/:id", characterHandlers.DeleteCharacter)

			// Scenes, with cast members nested under their scene
			protected.GET("/scenes", sceneHandlers.GetScenes)
			protected.POST("/scenes", sceneHandlers.CreateScene)
			protected.GET("/scenes/:id", sceneHandlers.GetSceneByID)
			protected.PUT("/scenes/:id", sceneHandlers.UpdateScene)
			protected.DELETE("/scenes/:id", sceneHandlers.DeleteScene)
			protected.GET("/scenes/:id/cast", castHandlers.GetCast)
			protected.POST("/scenes/:id/cast", castHandlers.CreateCastMember)
			protected.GET("/scenes/:id/cast/:castId", castHandlers.GetCastMember)
			protected.PUT("/scenes/:id/cast/:castId", castHandlers.UpdateCastMember)
			protected.DELETE("/scenes/:id/cast/:castId", castHandlers.DeleteCastMember)

			// Stories and their cast links
			protected.GET("/stories", storyHandlers.GetStories)
			protected.POST("/stories", storyHandlers.CreateStory)
			protected.GET("/stories/:id", storyHandlers.GetStoryByID)
			protected.PUT("/stories/:id", storyHandlers.UpdateStory)
			protected.DELETE("/stories/:id", storyHandlers.DeleteStory)
			protected.GET("/stories/:id/cast", storyHandlers.GetStoryCast)
			protected.POST("/stories/:id/cast", storyHandlers.PostStoryCast)
			protected.DELETE("/stories/:id/cast/:castId", storyHandlers.DeleteStoryCast)

			// Live activity feed
			protected.GET("/activity/ws", activityHandlers.GetActivityFeed)
		}
	}

	// Verbatim forwarding to the story API, behind the same session
	story := r.Group("/api/story")
	story.Use(authHandlers.AuthMiddleware())
	{
		story.Any("/*path", proxyHandlers.Forward)
	}

	return r
}

// Package startup prepares the application server
package startup

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/narrativekit/storydesk-go/internal/application/container"
	"github.com/narrativekit/storydesk-go/internal/infrastructure/install"
	"github.com/narrativekit/storydesk-go/internal/infrastructure/observability/logging"
	"github.com/narrativekit/storydesk-go/internal/infrastructure/persistence/store"
	"github.com/narrativekit/storydesk-go/internal/presentation/http/server"
	"github.com/narrativekit/storydesk-go/pkg/config"
)

// Initialize performs the complete console startup sequence
func Initialize() error {
	setupLogging()

	start := time.Now().UTC()

	// Step 1: Channeled logger
	logger, err := logging.NewChanneledLogger(&logging.LoggerConfig{
		OutputToFile:    true,
		OutputToConsole: true,
		LogDirectory:    config.LogDir,
		JSONFormat:      config.LogFormat == "json",
		DefaultLevel:    logging.ParseLevel(config.LogLevel),
		ChannelLevels:   make(map[logging.Channel]slog.Level),
	})
	if err != nil {
		return fmt.Errorf("failed to initialize logging: %w", err)
	}
	defer logger.Close()

	logger.Startup().Info("StoryDesk console starting",
		"port", config.Port,
		"upstream", config.StoryAPIURL,
	)

	// Step 2: Installation secrets
	secrets := install.Load(logger)

	// Step 3: Selection store
	consoleStore, err := store.NewSQLiteStore(store.Config{
		SQLitePath: config.StoreDBPath,
		LibSQLURL:  config.LibSQLURL,
		AuthToken:  secrets.LibSQLAuthToken,
	}, logger)
	if err != nil {
		return fmt.Errorf("failed to open selection store: %w", err)
	}
	defer consoleStore.Close()
	logger.Startup().Info("Selection store opened", "backend", consoleStore.ConnectionInfo())

	// Step 4: Dependency injection container
	appContainer, err := container.NewContainer(consoleStore, secrets, logger)
	if err != nil {
		return fmt.Errorf("failed to build container: %w", err)
	}
	logger.Startup().Info("Dependency injection container created with singleton services")

	// Step 5: Activity feed broadcaster
	go appContainer.Broadcaster.Run()
	logger.Startup().Info("Activity feed broadcaster started")

	// Step 6: HTTP server
	httpServer := server.New(config.Port, appContainer)
	logger.Startup().Info("HTTP server initialized", "port", config.Port)

	gracefulShutdown := make(chan os.Signal, 1)
	signal.Notify(gracefulShutdown, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		logger.System().Info("Starting HTTP server", "address", ":"+config.Port)
		if err := httpServer.Start(); err != nil {
			logger.System().Error("HTTP server failed", "error", err.Error())
		}
	}()

	logger.Startup().Info("Console startup complete",
		"totalDuration", time.Since(start),
		"port", config.Port,
	)

	// Wait for shutdown signal
	<-gracefulShutdown
	logger.Shutdown().Info("Shutdown signal received, starting graceful shutdown...")

	shutdownStart := time.Now()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	logger.Shutdown().Info("Stopping HTTP server...")
	if err := httpServer.Stop(shutdownCtx); err != nil {
		logger.Shutdown().Error("Error during server shutdown", "error", err.Error())
	} else {
		logger.Shutdown().Info("HTTP server stopped successfully")
	}

	logger.Shutdown().Info("Console shutdown complete",
		"totalUptime", time.Since(start),
		"shutdownDuration", time.Since(shutdownStart),
	)

	return nil
}

// setupLogging configures application logging
func setupLogging() {
	if os.Getenv("GIN_MODE") == "release" {
		gin.SetMode(gin.ReleaseMode)
	}
	log.SetFlags(log.LstdFlags | log.Lshortfile)
}

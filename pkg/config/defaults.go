// Package config provides centralized default values for StoryDesk
package config

import (
	"bufio"
	"log"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"
)

var envLoaded sync.Once

func loadEnvFile() {
	envLoaded.Do(func() {
		file, err := os.Open(".env")
		if err != nil {
			return
		}
		defer file.Close()

		log.Println("Loading configuration overrides from .env file...")
		scanner := bufio.NewScanner(file)
		for scanner.Scan() {
			line := strings.TrimSpace(scanner.Text())

			if line == "" || strings.HasPrefix(line, "#") {
				continue
			}

			parts := strings.SplitN(line, "=", 2)
			if len(parts) != 2 {
				continue
			}

			key := strings.TrimSpace(parts[0])
			value := strings.TrimSpace(parts[1])

			if os.Getenv(key) == "" {
				os.Setenv(key, value)
			}
		}
	})
}

func getEnvInt(key string, defaultValue int) int {
	if valStr := os.Getenv(key); valStr != "" {
		if val, err := strconv.Atoi(valStr); err == nil {
			if val != defaultValue {
				log.Printf("Config override: %s=%d (default: %d)", key, val, defaultValue)
			}
			return val
		}
	}
	return defaultValue
}

func getEnvString(key string, defaultValue string) string {
	if val := os.Getenv(key); val != "" {
		if val != defaultValue {
			log.Printf("Config override: %s=%s (default: %s)", key, val, defaultValue)
		}
		return val
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if valStr := os.Getenv(key); valStr != "" {
		if val, err := strconv.ParseBool(valStr); err == nil {
			if val != defaultValue {
				log.Printf("Config override: %s=%t (default: %t)", key, val, defaultValue)
			}
			return val
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if valStr := os.Getenv(key); valStr != "" {
		if val, err := time.ParseDuration(valStr); err == nil {
			if val != defaultValue {
				log.Printf("Config override: %s=%s (default: %s)", key, val, defaultValue)
			}
			return val
		}
	}
	return defaultValue
}

var (
	// Server Configuration
	Port               string
	ServerReadTimeout  time.Duration
	ServerWriteTimeout time.Duration
	ServerIdleTimeout  time.Duration

	// Upstream Story API
	StoryAPIURL             string
	UpstreamTimeout         time.Duration
	UpstreamMaxIdleConns    int
	UpstreamIdleConnTimeout time.Duration
	SlowUpstreamThreshold   time.Duration

	// Console Session
	SessionTTL time.Duration

	// Identity Claims
	AccountListClaim string
	AccountIDClaim   string
	UsernameClaim    string

	// Selection Store
	StoreDBPath              string
	LibSQLURL                string
	DBMaxOpenConns           int
	DBMaxIdleConns           int
	DBConnMaxLifetimeMinutes int
	DBConnMaxIdleMinutes     int

	// Activity Feed
	ActivityReplaySize          int
	ActivityWriteTimeout        time.Duration
	ActivityPingIntervalSeconds int

	// Logging
	LogLevel  string
	LogFormat string
	LogDir    string

	// CORS
	CORSAllowedOrigins []string

	// Operator Alerts
	AlertFromEmail string
	AlertToEmail   string
	AlertsEnabled  bool
)

func init() {
	loadEnvFile()

	// Server Configuration
	Port = getEnvString("PORT", "8080")
	ServerReadTimeout = getEnvDuration("SERVER_READ_TIMEOUT", 15*time.Second)
	ServerWriteTimeout = getEnvDuration("SERVER_WRITE_TIMEOUT", 15*time.Second)
	ServerIdleTimeout = getEnvDuration("SERVER_IDLE_TIMEOUT", 60*time.Second)

	// Upstream Story API
	StoryAPIURL = getEnvString("STORY_API_URL", "http://localhost:4000")
	UpstreamTimeout = getEnvDuration("UPSTREAM_TIMEOUT", 30*time.Second)
	UpstreamMaxIdleConns = getEnvInt("UPSTREAM_MAX_IDLE_CONNS", 16)
	UpstreamIdleConnTimeout = getEnvDuration("UPSTREAM_IDLE_CONN_TIMEOUT", 90*time.Second)
	SlowUpstreamThreshold = getEnvDuration("SLOW_UPSTREAM_THRESHOLD", 2*time.Second)

	// Console Session
	SessionTTL = time.Duration(getEnvInt("SESSION_TTL_HOURS", 24)) * time.Hour

	// Identity Claims
	AccountListClaim = getEnvString("ACCOUNT_LIST_CLAIM", "custom:account_ids")
	AccountIDClaim = getEnvString("ACCOUNT_ID_CLAIM", "custom:account_id")
	UsernameClaim = getEnvString("USERNAME_CLAIM", "preferred_username")

	// Selection Store
	StoreDBPath = getEnvString("STORE_DB_PATH", "storydesk.db")
	LibSQLURL = getEnvString("LIBSQL_URL", "")
	DBMaxOpenConns = getEnvInt("DB_MAX_OPEN_CONNS", 10)
	DBMaxIdleConns = getEnvInt("DB_MAX_IDLE_CONNS", 3)
	DBConnMaxLifetimeMinutes = getEnvInt("DB_CONN_MAX_LIFETIME_MINUTES", 30)
	DBConnMaxIdleMinutes = getEnvInt("DB_CONN_MAX_IDLE_MINUTES", 3)

	// Activity Feed
	ActivityReplaySize = getEnvInt("ACTIVITY_REPLAY_SIZE", 64)
	ActivityWriteTimeout = getEnvDuration("ACTIVITY_WRITE_TIMEOUT", 10*time.Second)
	ActivityPingIntervalSeconds = getEnvInt("ACTIVITY_PING_INTERVAL_SECONDS", 30)

	// Logging
	LogLevel = getEnvString("LOG_LEVEL", "info")
	LogFormat = getEnvString("LOG_FORMAT", "json")
	LogDir = getEnvString("LOG_DIR", "./log")

	// CORS
	CORSAllowedOrigins = strings.Split(getEnvString("CORS_ALLOWED_ORIGINS",
		"http://localhost:3000,http://localhost:5173"), ",")

	// Operator Alerts
	AlertFromEmail = getEnvString("ALERT_FROM_EMAIL", "")
	AlertToEmail = getEnvString("ALERT_TO_EMAIL", "")
	AlertsEnabled = getEnvBool("ALERTS_ENABLED", true)
}

package store

import (
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/narrativekit/storydesk-go/internal/domain/account"
	"github.com/narrativekit/storydesk-go/internal/infrastructure/observability/logging"
)

func quietLogger(t *testing.T) *logging.ChanneledLogger {
	t.Helper()
	logger, err := logging.NewChanneledLogger(&logging.LoggerConfig{
		OutputToFile:    false,
		OutputToConsole: false,
		DefaultLevel:    slog.LevelError,
		ChannelLevels:   map[logging.Channel]slog.Level{},
	})
	if err != nil {
		t.Fatalf("failed to build test logger: %v", err)
	}
	return logger
}

func TestSQLiteStoreRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.db")
	s, err := NewSQLiteStore(Config{SQLitePath: path}, quietLogger(t))
	if err != nil {
		t.Fatalf("failed to open store: %v", err)
	}
	defer s.Close()

	if err := s.Set(account.KeyActiveID, "acct-1"); err != nil {
		t.Fatalf("set failed: %v", err)
	}
	got, err := s.Get(account.KeyActiveID)
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if got != "acct-1" {
		t.Errorf("expected acct-1, got %q", got)
	}

	// Overwrite is last-write-wins
	if err := s.Set(account.KeyActiveID, "acct-2"); err != nil {
		t.Fatalf("second set failed: %v", err)
	}
	got, _ = s.Get(account.KeyActiveID)
	if got != "acct-2" {
		t.Errorf("expected overwrite to stick, got %q", got)
	}
}

func TestSQLiteStoreMissingKey(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.db")
	s, err := NewSQLiteStore(Config{SQLitePath: path}, quietLogger(t))
	if err != nil {
		t.Fatalf("failed to open store: %v", err)
	}
	defer s.Close()

	got, err := s.Get("never.set")
	if err != nil {
		t.Fatalf("expected missing key to be nil error, got %v", err)
	}
	if got != "" {
		t.Errorf("expected empty value for missing key, got %q", got)
	}
}

func TestSQLiteStoreSurvivesReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.db")
	logger := quietLogger(t)

	s, err := NewSQLiteStore(Config{SQLitePath: path}, logger)
	if err != nil {
		t.Fatalf("failed to open store: %v", err)
	}
	if err := s.Set(account.KeySelectedIndex, "2"); err != nil {
		t.Fatalf("set failed: %v", err)
	}
	s.Close()

	reopened, err := NewSQLiteStore(Config{SQLitePath: path}, logger)
	if err != nil {
		t.Fatalf("failed to reopen store: %v", err)
	}
	defer reopened.Close()

	got, err := reopened.Get(account.KeySelectedIndex)
	if err != nil {
		t.Fatalf("get after reopen failed: %v", err)
	}
	if got != "2" {
		t.Errorf("expected persisted index to survive reopen, got %q", got)
	}
}

func TestSQLiteStoreDelete(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.db")
	s, err := NewSQLiteStore(Config{SQLitePath: path}, quietLogger(t))
	if err != nil {
		t.Fatalf("failed to open store: %v", err)
	}
	defer s.Close()

	s.Set(account.KeyUsername, "maya")
	if err := s.Delete(account.KeyUsername); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	got, _ := s.Get(account.KeyUsername)
	if got != "" {
		t.Errorf("expected deleted key to read empty, got %q", got)
	}

	// Deleting a missing key is fine
	if err := s.Delete("never.set"); err != nil {
		t.Errorf("expected delete of missing key to succeed, got %v", err)
	}
}

func TestMemoryStoreMatchesContract(t *testing.T) {
	var s account.Store = NewMemoryStore()

	got, err := s.Get("missing")
	if err != nil || got != "" {
		t.Errorf("expected empty read for missing key, got %q, %v", got, err)
	}

	s.Set("k", "v1")
	s.Set("k", "v2")
	got, _ = s.Get("k")
	if got != "v2" {
		t.Errorf("expected last write to win, got %q", got)
	}

	s.Delete("k")
	got, _ = s.Get("k")
	if got != "" {
		t.Errorf("expected empty read after delete, got %q", got)
	}
}

package services

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"

	"github.com/narrativekit/storydesk-go/internal/infrastructure/messaging"
	"github.com/narrativekit/storydesk-go/internal/infrastructure/observability/performance"
	"github.com/narrativekit/storydesk-go/internal/infrastructure/persistence/store"
	"github.com/narrativekit/storydesk-go/internal/infrastructure/upstream"
)

func newStatusService(t *testing.T, upstreamURL string, memStore *store.MemoryStore) *StatusService {
	t.Helper()
	logger := quietLogger(t)
	interp := upstream.NewInterpreter(logger)
	client, err := upstream.NewClient(upstream.ClientConfig{
		BaseURL: upstreamURL,
		Timeout: 5 * time.Second,
	}, newAccountService(t, memStore), interp, logger)
	if err != nil {
		t.Fatalf("failed to build client: %v", err)
	}
	broadcaster := messaging.NewActivityBroadcaster(8, logger)
	return NewStatusService(client, interp, memStore, broadcaster,
		performance.NewTracker(nil), false, logger)
}

func TestStatusReportHealthy(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	svc := newStatusService(t, srv.URL, store.NewMemoryStore())

	report := svc.Report(context.Background())
	if report.Status != "healthy" {
		t.Errorf("expected healthy, got %q", report.Status)
	}
	if !report.Upstream.Healthy || !report.Store.Healthy {
		t.Errorf("expected both components healthy, got %+v", report)
	}
}

func TestStatusReportDegradedUpstream(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	svc := newStatusService(t, srv.URL, store.NewMemoryStore())

	report := svc.Report(context.Background())
	if report.Status != "degraded" {
		t.Errorf("expected degraded, got %q", report.Status)
	}
	if report.Upstream.Healthy {
		t.Error("expected unreachable upstream reported unhealthy")
	}
}

func TestStatusReportCarriesNoIdentityData(t *testing.T) {
	// The status endpoint answers without authentication, so the report
	// must never echo the resolved account scope or operator name.
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	memStore := store.NewMemoryStore()
	accountSvc := newAccountService(t, memStore)
	token := mintIdentityToken(t, jwt.MapClaims{
		"sub":                "sub-1",
		"preferred_username": "maya",
		"custom:account_ids": `["acct-secret-a","acct-secret-b"]`,
	})
	if _, err := accountSvc.Resolve(token); err != nil {
		t.Fatalf("resolve failed: %v", err)
	}

	svc := newStatusService(t, srv.URL, memStore)

	encoded, err := json.Marshal(svc.Report(context.Background()))
	if err != nil {
		t.Fatalf("failed to encode report: %v", err)
	}
	for _, leaked := range []string{"acct-secret", "maya", "availableIds", "activeId"} {
		if strings.Contains(string(encoded), leaked) {
			t.Errorf("status report leaks %q: %s", leaked, encoded)
		}
	}
}

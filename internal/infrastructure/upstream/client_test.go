package upstream

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/narrativekit/storydesk-go/internal/domain/entities/story"
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

type staticAccounts struct {
	id string
}

func (s staticAccounts) ActiveAccountID() (string, error) { return s.id, nil }

func newTestClient(t *testing.T, baseURL, accountID string) *Client {
	t.Helper()
	logger := quietLogger(t)
	client, err := NewClient(ClientConfig{
		BaseURL: baseURL,
		APIKey:  "test-key",
		Timeout: 5 * time.Second,
	}, staticAccounts{id: accountID}, NewInterpreter(logger), logger)
	if err != nil {
		t.Fatalf("failed to build client: %v", err)
	}
	return client
}

func TestClientInjectsHeaders(t *testing.T) {
	var captured http.Header
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		captured = r.Header.Clone()
		w.Write([]byte(`{"results": [], "statusCode": 200}`))
	}))
	defer server.Close()

	client := newTestClient(t, server.URL, "acct-1")
	if _, err := client.ListCharacters(context.Background(), false); err != nil {
		t.Fatalf("list failed: %v", err)
	}

	if got := captured.Get("Authorization"); got != "Bearer test-key" {
		t.Errorf("expected Bearer test-key, got %q", got)
	}
	if got := captured.Get("X-Account-Id"); got != "acct-1" {
		t.Errorf("expected account header acct-1, got %q", got)
	}
	if got := captured.Get("X-Request-Id"); len(got) != 26 {
		t.Errorf("expected a ULID request id, got %q", got)
	}
	if got := captured.Get("Accept"); got != "application/json" {
		t.Errorf("expected json accept header, got %q", got)
	}
}

func TestClientOmitsAccountHeaderWhenUnresolved(t *testing.T) {
	var captured http.Header
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		captured = r.Header.Clone()
		w.Write([]byte(`{"results": [], "statusCode": 200}`))
	}))
	defer server.Close()

	client := newTestClient(t, server.URL, "")
	if _, err := client.ListCharacters(context.Background(), false); err != nil {
		t.Fatalf("list failed: %v", err)
	}

	if _, present := captured["X-Account-Id"]; present {
		t.Errorf("expected no account header, got %q", captured.Get("X-Account-Id"))
	}
}

func TestClientOmitsAuthorizationWithoutKey(t *testing.T) {
	var captured http.Header
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		captured = r.Header.Clone()
		w.Write([]byte(`{"results": [], "statusCode": 200}`))
	}))
	defer server.Close()

	logger := quietLogger(t)
	client, err := NewClient(ClientConfig{
		BaseURL: server.URL,
		Timeout: 5 * time.Second,
	}, staticAccounts{}, NewInterpreter(logger), logger)
	if err != nil {
		t.Fatalf("failed to build client: %v", err)
	}

	if _, err := client.ListCharacters(context.Background(), false); err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if _, present := captured["Authorization"]; present {
		t.Errorf("expected no authorization header without a key, got %q", captured.Get("Authorization"))
	}
}

func TestClientCreateUsesPutAndUnwraps(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPut {
			t.Errorf("expected PUT, got %s", r.Method)
		}
		if r.URL.Path != "/character" {
			t.Errorf("expected /character, got %s", r.URL.Path)
		}
		if got := r.Header.Get("Content-Type"); got != "application/json" {
			t.Errorf("expected json content type, got %q", got)
		}
		var payload map[string]any
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			t.Errorf("failed to decode request body: %v", err)
		}
		if payload["name"] != "Villain" {
			t.Errorf("expected snake_case name field, got %v", payload)
		}
		w.Write([]byte(`{"results": [{"character_id": "` + otherUUID + `", "name": "Villain"}], "statusCode": 200}`))
	}))
	defer server.Close()

	client := newTestClient(t, server.URL, "acct-1")
	created, err := client.CreateCharacter(context.Background(), &story.Character{Name: "Villain"})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if created.CharacterID != otherUUID {
		t.Errorf("expected assigned id %s, got %s", otherUUID, created.CharacterID)
	}
}

func TestClientUpdateUsesPost(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("expected POST, got %s", r.Method)
		}
		if r.URL.Path != "/scene" {
			t.Errorf("expected /scene, got %s", r.URL.Path)
		}
		w.Write([]byte(`{"results": [{"scene_id": "` + sceneUUID + `", "name": "Renamed"}], "statusCode": 200}`))
	}))
	defer server.Close()

	client := newTestClient(t, server.URL, "acct-1")
	updated, err := client.UpdateScene(context.Background(), &story.Scene{SceneID: sceneUUID, Name: "Renamed"})
	if err != nil {
		t.Fatalf("update failed: %v", err)
	}
	if updated.Name != "Renamed" {
		t.Errorf("expected updated name, got %q", updated.Name)
	}
}

func TestClientListIncludeDeletedFlag(t *testing.T) {
	var queries []string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		queries = append(queries, r.URL.RawQuery)
		w.Write([]byte(`{"results": [], "statusCode": 200}`))
	}))
	defer server.Close()

	client := newTestClient(t, server.URL, "acct-1")
	if _, err := client.ListScenes(context.Background(), false); err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if _, err := client.ListScenes(context.Background(), true); err != nil {
		t.Fatalf("list failed: %v", err)
	}

	if queries[0] != "" {
		t.Errorf("expected no query by default, got %q", queries[0])
	}
	if queries[1] != "include_deleted=true" {
		t.Errorf("expected include_deleted flag, got %q", queries[1])
	}
}

func TestClientGetUnwrapsSingleton(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/scene/"+sceneUUID {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		w.Write([]byte(`{"results": [{"scene_id": "` + sceneUUID + `", "name": "Office"}], "statusCode": 200}`))
	}))
	defer server.Close()

	client := newTestClient(t, server.URL, "acct-1")
	scene, err := client.GetScene(context.Background(), sceneUUID)
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if scene == nil || scene.Name != "Office" {
		t.Errorf("expected scene Office, got %+v", scene)
	}
}

func TestClientStoryCastListStaysCollection(t *testing.T) {
	// The endpoint ends in the story id. A single link must still come
	// back as a one-element slice, not a bare object.
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"results": [{"story_id": "` + sceneUUID + `", "cast_id": "` + castUUID + `"}], "statusCode": 200}`))
	}))
	defer server.Close()

	client := newTestClient(t, server.URL, "acct-1")
	links, err := client.ListStoryCast(context.Background(), sceneUUID)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(links) != 1 {
		t.Fatalf("expected 1 link, got %d", len(links))
	}
	if links[0].CastID != castUUID {
		t.Errorf("expected cast id %s, got %s", castUUID, links[0].CastID)
	}
}

func TestClientDeleteSendsNoBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodDelete {
			t.Errorf("expected DELETE, got %s", r.Method)
		}
		body, _ := io.ReadAll(r.Body)
		if len(body) != 0 {
			t.Errorf("expected empty body, got %q", body)
		}
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	client := newTestClient(t, server.URL, "acct-1")
	if err := client.DeleteCharacter(context.Background(), otherUUID); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
}

func TestClientNon2xxReturnsAPIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"error": "no such character"}`))
	}))
	defer server.Close()

	client := newTestClient(t, server.URL, "acct-1")
	_, err := client.GetCharacter(context.Background(), otherUUID)
	if err == nil {
		t.Fatal("expected an error for 404")
	}

	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected an APIError, got %T: %v", err, err)
	}
	if apiErr.Status != http.StatusNotFound {
		t.Errorf("expected status 404, got %d", apiErr.Status)
	}
}

func TestClientJoinsBasePath(t *testing.T) {
	var path string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path = r.URL.Path
		w.Write([]byte(`{"results": [], "statusCode": 200}`))
	}))
	defer server.Close()

	client := newTestClient(t, server.URL+"/api/v1/", "acct-1")
	if _, err := client.ListStories(context.Background(), false); err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if path != "/api/v1/story" {
		t.Errorf("expected joined path /api/v1/story, got %q", path)
	}
}

func TestClientPing(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	client := newTestClient(t, server.URL, "acct-1")
	if err := client.Ping(context.Background()); err != nil {
		t.Errorf("expected any HTTP answer to count as reachable, got %v", err)
	}

	server.Close()
	if err := client.Ping(context.Background()); err == nil {
		t.Error("expected an error once the upstream is gone")
	}
}

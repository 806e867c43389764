package upstream

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/narrativekit/storydesk-go/internal/infrastructure/messaging"
	"github.com/narrativekit/storydesk-go/internal/infrastructure/observability/logging"
	"github.com/narrativekit/storydesk-go/internal/infrastructure/security"
)

// AccountSource supplies the active account id attached to every
// upstream call. An empty id means no account has been resolved yet;
// the call still goes out and the upstream's answer is relayed.
type AccountSource interface {
	ActiveAccountID() (string, error)
}

// ClientConfig carries the upstream coordinates and transport tuning.
type ClientConfig struct {
	BaseURL         string
	APIKey          string
	Timeout         time.Duration
	MaxIdleConns    int
	IdleConnTimeout time.Duration
	SlowThreshold   time.Duration
}

// Client is the typed story API client. It owns request construction
// per the upstream's conventions (creation via PUT to the collection,
// update via POST, snake_case wire fields), credential injection, and
// envelope interpretation.
type Client struct {
	baseURL       *url.URL
	apiKey        string
	httpClient    *http.Client
	interp        *Interpreter
	accounts      AccountSource
	logger        *logging.ChanneledLogger
	publisher     messaging.ActivityPublisher
	slowThreshold time.Duration
}

// SetActivityPublisher attaches the live activity feed. Calls made
// before a publisher is set are logged but not broadcast.
func (c *Client) SetActivityPublisher(publisher messaging.ActivityPublisher) {
	c.publisher = publisher
}

// NewClient builds a story API client over a pooled transport.
func NewClient(cfg ClientConfig, accounts AccountSource, interp *Interpreter, logger *logging.ChanneledLogger) (*Client, error) {
	base, err := url.Parse(cfg.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid story api url: %w", err)
	}

	transport := &http.Transport{
		MaxIdleConns:        cfg.MaxIdleConns,
		MaxIdleConnsPerHost: cfg.MaxIdleConns,
		IdleConnTimeout:     cfg.IdleConnTimeout,
	}

	return &Client{
		baseURL: base,
		apiKey:  cfg.APIKey,
		httpClient: &http.Client{
			Timeout:   cfg.Timeout,
			Transport: transport,
		},
		interp:        interp,
		accounts:      accounts,
		logger:        logger,
		slowThreshold: cfg.SlowThreshold,
	}, nil
}

// bodilessMethod reports whether a method carries no request body on
// the upstream wire.
func bodilessMethod(method string) bool {
	switch strings.ToUpper(method) {
	case http.MethodGet, http.MethodHead, http.MethodDelete:
		return true
	}
	return false
}

// Do performs one story API round trip and interprets the envelope per
// the declared cardinality. The payload is JSON-encoded unless the
// method is bodiless. Query values are appended to the endpoint.
func (c *Client) Do(ctx context.Context, method, endpoint string, payload any, query url.Values, card Cardinality) (json.RawMessage, error) {
	start := time.Now()
	requestID := security.GenerateULID()

	target := *c.baseURL
	target.Path = singleJoiningSlash(c.baseURL.Path, endpoint)
	if len(query) > 0 {
		target.RawQuery = query.Encode()
	}

	var body io.Reader
	if payload != nil && !bodilessMethod(method) {
		encoded, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("failed to encode %s %s payload: %w", method, endpoint, err)
		}
		body = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, target.String(), body)
	if err != nil {
		return nil, fmt.Errorf("failed to build %s %s: %w", method, endpoint, err)
	}

	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", requestID)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if accountID, err := c.accounts.ActiveAccountID(); err == nil && accountID != "" {
		req.Header.Set("X-Account-ID", accountID)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.LogError(logging.ChannelUpstream, method+" "+endpoint, err, map[string]any{
			"requestId": requestID,
		})
		return nil, fmt.Errorf("story api %s %s: %w", method, endpoint, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("story api %s %s: reading body: %w", method, endpoint, err)
	}

	duration := time.Since(start)
	c.logger.LogUpstreamCall(method, endpoint, resp.StatusCode, duration, requestID)
	if c.slowThreshold > 0 && duration > c.slowThreshold {
		c.logger.LogSlowUpstream(method, endpoint, duration, c.slowThreshold)
	}

	if c.publisher != nil {
		accountID, _ := c.accounts.ActiveAccountID()
		c.publisher.Publish(messaging.ActivityEvent{
			RequestID:  requestID,
			Method:     method,
			Endpoint:   endpoint,
			Status:     resp.StatusCode,
			AccountID:  accountID,
			DurationMS: duration.Milliseconds(),
			Timestamp:  time.Now().UTC(),
		})
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, newAPIError(method, endpoint, resp.StatusCode, raw)
	}

	if len(bytes.TrimSpace(raw)) == 0 {
		return nil, nil
	}

	return c.interp.Interpret(endpoint, method, raw, card), nil
}

// Ping reports upstream reachability. Any HTTP answer counts; only a
// transport-level failure is an error.
func (c *Client) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL.String(), nil)
	if err != nil {
		return err
	}
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("story api unreachable: %w", err)
	}
	io.Copy(io.Discard, resp.Body)
	resp.Body.Close()
	return nil
}

// singleJoiningSlash joins two URL paths with a single slash.
func singleJoiningSlash(a, b string) string {
	aSlash := strings.HasSuffix(a, "/")
	bSlash := strings.HasPrefix(b, "/")
	switch {
	case aSlash && bSlash:
		return a + b[1:]
	case !aSlash && !bSlash:
		return a + "/" + b
	}
	return a + b
}

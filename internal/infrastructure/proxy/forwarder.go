// Package proxy forwards raw console requests to the story API with
// credential injection. Responses come back verbatim: no envelope
// interpretation happens on this path.
package proxy

import (
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

// AccountSource supplies the active account id attached to forwarded
// requests.
type AccountSource interface {
	ActiveAccountID() (string, error)
}

// Config holds the forwarder's upstream coordinates and transport
// tuning.
type Config struct {
	BaseURL         string
	APIKey          string
	Timeout         time.Duration
	MaxIdleConns    int
	IdleConnTimeout time.Duration
	SlowThreshold   time.Duration
}

// Forwarder relays requests to the story API. Console credentials are
// stripped and the API key injected so browser-held tokens never reach
// the upstream.
type Forwarder struct {
	upstream      *url.URL
	apiKey        string
	client        *http.Client
	accounts      AccountSource
	publisher     messaging.ActivityPublisher
	logger        *logging.ChanneledLogger
	slowThreshold time.Duration
}

// isHopByHopHeader returns true for headers that should not be forwarded.
var hopByHopHeaders = map[string]bool{
	"connection":          true,
	"keep-alive":          true,
	"proxy-authenticate":  true,
	"proxy-authorization": true,
	"te":                  true,
	"trailer":             true,
	"transfer-encoding":   true,
	"upgrade":             true,
}

func isHopByHopHeader(name string) bool {
	return hopByHopHeaders[strings.ToLower(name)]
}

// strippedHeaders carry console credentials and never cross to the
// upstream.
var strippedHeaders = map[string]bool{
	"authorization": true,
	"cookie":        true,
}

func shouldStripHeader(name string) bool {
	return strippedHeaders[strings.ToLower(name)]
}

// NewForwarder creates a forwarder over a pooled transport.
func NewForwarder(cfg Config, accounts AccountSource, publisher messaging.ActivityPublisher, logger *logging.ChanneledLogger) (*Forwarder, error) {
	upstream, err := url.Parse(cfg.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid story api url: %w", err)
	}

	transport := &http.Transport{
		MaxIdleConns:        cfg.MaxIdleConns,
		MaxIdleConnsPerHost: cfg.MaxIdleConns,
		IdleConnTimeout:     cfg.IdleConnTimeout,
	}

	return &Forwarder{
		upstream: upstream,
		apiKey:   cfg.APIKey,
		client: &http.Client{
			Timeout:   cfg.Timeout,
			Transport: transport,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				return http.ErrUseLastResponse
			},
		},
		accounts:      accounts,
		publisher:     publisher,
		logger:        logger,
		slowThreshold: cfg.SlowThreshold,
	}, nil
}

func bodilessMethod(method string) bool {
	switch strings.ToUpper(method) {
	case http.MethodGet, http.MethodHead, http.MethodDelete:
		return true
	}
	return false
}

// Forward relays one request. The path is relative to the upstream
// base URL and arrives without the console's mount prefix.
func (f *Forwarder) Forward(w http.ResponseWriter, r *http.Request, path string) {
	start := time.Now()
	requestID := security.GenerateULID()

	target := *f.upstream
	target.Path = singleJoiningSlash(f.upstream.Path, path)
	target.RawQuery = r.URL.RawQuery

	var body io.Reader
	if r.Body != nil && !bodilessMethod(r.Method) {
		body = r.Body
	}

	upstreamReq, err := http.NewRequestWithContext(r.Context(), r.Method, target.String(), body)
	if err != nil {
		f.logger.LogError(logging.ChannelProxy, "build upstream request", err, map[string]any{
			"path":      path,
			"requestId": requestID,
		})
		writeJSONError(w, http.StatusInternalServerError, "failed to build upstream request")
		return
	}

	for key, values := range r.Header {
		if isHopByHopHeader(key) || shouldStripHeader(key) {
			continue
		}
		for _, value := range values {
			upstreamReq.Header.Add(key, value)
		}
	}

	if f.apiKey != "" {
		upstreamReq.Header.Set("Authorization", "Bearer "+f.apiKey)
	}
	upstreamReq.Header.Set("X-Request-ID", requestID)
	upstreamReq.Header.Set("X-Forwarded-For", "storydesk-console")

	accountID := ""
	if id, err := f.accounts.ActiveAccountID(); err == nil && id != "" {
		accountID = id
		upstreamReq.Header.Set("X-Account-ID", id)
	}

	f.logger.Proxy().Debug("Forwarding request",
		"method", r.Method,
		"path", path,
		"upstream", target.String(),
		"requestId", requestID,
	)

	resp, err := f.client.Do(upstreamReq)
	if err != nil {
		duration := time.Since(start)
		f.logger.LogError(logging.ChannelProxy, r.Method+" "+path, err, map[string]any{
			"requestId": requestID,
			"duration":  duration.String(),
		})
		writeJSONError(w, http.StatusBadGateway, "story api unreachable")
		f.publisher.Publish(messaging.ActivityEvent{
			RequestID:  requestID,
			Method:     r.Method,
			Endpoint:   path,
			Status:     http.StatusBadGateway,
			AccountID:  accountID,
			DurationMS: duration.Milliseconds(),
			Timestamp:  time.Now().UTC(),
		})
		return
	}
	defer resp.Body.Close()

	for key, values := range resp.Header {
		if isHopByHopHeader(key) {
			continue
		}
		for _, value := range values {
			w.Header().Add(key, value)
		}
	}

	w.WriteHeader(resp.StatusCode)
	bytesCopied, _ := io.Copy(w, resp.Body)

	duration := time.Since(start)
	f.logger.Proxy().Info("Proxy request complete",
		"method", r.Method,
		"path", path,
		"status", resp.StatusCode,
		"bytes", bytesCopied,
		"duration", duration.String(),
		"requestId", requestID,
	)
	if f.slowThreshold > 0 && duration > f.slowThreshold {
		f.logger.LogSlowUpstream(r.Method, path, duration, f.slowThreshold)
	}

	f.publisher.Publish(messaging.ActivityEvent{
		RequestID:  requestID,
		Method:     r.Method,
		Endpoint:   path,
		Status:     resp.StatusCode,
		AccountID:  accountID,
		DurationMS: duration.Milliseconds(),
		Timestamp:  time.Now().UTC(),
	})
}

func writeJSONError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
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

package upstream

import "fmt"

// snippetLimit bounds how much upstream body an error carries.
const snippetLimit = 256

// APIError describes a non-2xx story API response. The body snippet is
// truncated so errors stay loggable.
type APIError struct {
	Method   string
	Endpoint string
	Status   int
	Snippet  string
}

func (e *APIError) Error() string {
	if e.Snippet == "" {
		return fmt.Sprintf("story api %s %s: status %d", e.Method, e.Endpoint, e.Status)
	}
	return fmt.Sprintf("story api %s %s: status %d: %s", e.Method, e.Endpoint, e.Status, e.Snippet)
}

func newAPIError(method, endpoint string, status int, body []byte) *APIError {
	snippet := string(body)
	if len(snippet) > snippetLimit {
		snippet = snippet[:snippetLimit] + "..."
	}
	return &APIError{
		Method:   method,
		Endpoint: endpoint,
		Status:   status,
		Snippet:  snippet,
	}
}

// Package upstream implements the story API boundary: envelope
// interpretation, the typed client, and the error surface for non-2xx
// responses. The upstream wraps every success payload in
// {"results": ..., "statusCode": ...} and always uses an array for
// results regardless of semantic cardinality, so callers expecting one
// entity must infer intent from request context.
package upstream

import (
	"bytes"
	"encoding/json"
	"net/http"
	"regexp"
	"strings"

	"github.com/google/uuid"
)

// Envelope is the upstream wire wrapper. Only results is interpreted;
// statusCode and any extra fields ride along untouched.
type Envelope struct {
	Results    json.RawMessage `json:"results"`
	StatusCode int             `json:"statusCode"`
}

// Cardinality declares how many results a logical operation expects.
// Typed client operations state their intent; CardinalityAuto falls
// back to inferring it from the endpoint path and method.
type Cardinality int

const (
	CardinalityAuto Cardinality = iota
	CardinalitySingle
	CardinalityCollection
)

// Outcome classifies what interpretation did to a payload.
type Outcome string

const (
	OutcomeUnwrapped            Outcome = "unwrapped"              // one-element sequence collapsed to its element
	OutcomeCollection           Outcome = "collection"             // sequence passed through unchanged
	OutcomeEmpty                Outcome = "empty_collection"       // empty sequence passed through unchanged
	OutcomeRaw                  Outcome = "raw_passthrough"        // no results array present; payload already unwrapped
	OutcomeMultiResultSingleton Outcome = "singleton_multi_result" // several results where one was addressed
)

var uuidAnywhere = regexp.MustCompile(`[0-9a-fA-F]{8}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{12}`)

var uuidAtEnd = regexp.MustCompile(`(?:^|/)[0-9a-fA-F]{8}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{12}$`)

// extractUUIDs returns every 36-character UUID in the endpoint path,
// in order. Regex candidates are confirmed with a strict parse so a
// UUID-shaped run inside a longer token never counts.
func extractUUIDs(endpoint string) []string {
	candidates := uuidAnywhere.FindAllString(endpoint, -1)
	ids := candidates[:0]
	for _, candidate := range candidates {
		if uuid.Validate(candidate) == nil {
			ids = append(ids, candidate)
		}
	}
	return ids
}

// IsSingletonEndpoint reports whether the path addresses exactly one
// resource. Cast paths nest under a scene, so the UUID count decides:
// two ids address one member, one id addresses the scene's collection.
// Every other path is a singleton only when it ends in a UUID.
func IsSingletonEndpoint(endpoint string) bool {
	if strings.Contains(endpoint, "/cast/") {
		return len(extractUUIDs(endpoint)) == 2
	}
	return uuidAtEnd.MatchString(endpoint)
}

// ShouldUnwrap applies the cardinality rule to a sequence of n results:
// collapse to the single element only when n == 1 and either the method
// is a mutation that yields one entity (PUT create, POST update) or the
// endpoint addresses one resource.
func ShouldUnwrap(endpoint, method string, n int) bool {
	if n != 1 {
		return false
	}
	switch strings.ToUpper(method) {
	case http.MethodPut, http.MethodPost:
		return true
	}
	return IsSingletonEndpoint(endpoint)
}

// InterpretEnvelope decides whether a 2xx payload reaches the caller as
// a single object or as the original sequence. It never fails: payloads
// without a results array pass through as already unwrapped, and a
// multi-element sequence on a singleton request is returned unchanged
// and reported through the outcome.
func InterpretEnvelope(endpoint, method string, payload []byte, card Cardinality) (json.RawMessage, Outcome) {
	var env Envelope
	if err := json.Unmarshal(payload, &env); err != nil || env.Results == nil {
		return payload, OutcomeRaw
	}
	if bytes.Equal(bytes.TrimSpace(env.Results), []byte("null")) {
		// RawMessage stores a json null as literal bytes; treat it like
		// a missing key
		return payload, OutcomeRaw
	}

	if firstJSONByte(env.Results) != '[' {
		// results carried a bare object; nothing to infer
		return env.Results, OutcomeRaw
	}

	var elems []json.RawMessage
	if err := json.Unmarshal(env.Results, &elems); err != nil {
		return payload, OutcomeRaw
	}

	if len(elems) == 0 {
		return env.Results, OutcomeEmpty
	}

	unwrap := false
	switch card {
	case CardinalitySingle:
		unwrap = len(elems) == 1
	case CardinalityCollection:
		unwrap = false
	default:
		unwrap = ShouldUnwrap(endpoint, method, len(elems))
	}

	if unwrap {
		return elems[0], OutcomeUnwrapped
	}

	if len(elems) > 1 {
		singleAddressed := card == CardinalitySingle ||
			(card == CardinalityAuto && IsSingletonEndpoint(endpoint))
		if singleAddressed {
			return env.Results, OutcomeMultiResultSingleton
		}
	}

	return env.Results, OutcomeCollection
}

func firstJSONByte(raw json.RawMessage) byte {
	trimmed := bytes.TrimLeft(raw, " \t\r\n")
	if len(trimmed) == 0 {
		return 0
	}
	return trimmed[0]
}

package upstream

import (
	"encoding/json"
	"sync/atomic"

	"github.com/narrativekit/storydesk-go/internal/infrastructure/observability/logging"
)

// Interpreter applies envelope interpretation and keeps running
// counters for the status endpoint. The multi-result-singleton case is
// the one worth watching: it usually means upstream misbehavior or a
// tenancy surprise, and it is reported rather than raised.
type Interpreter struct {
	logger *logging.ChanneledLogger

	unwrapped            atomic.Int64
	collections          atomic.Int64
	empty                atomic.Int64
	raw                  atomic.Int64
	singletonMultiResult atomic.Int64
}

// NewInterpreter creates an interpreter logging on the upstream channel.
func NewInterpreter(logger *logging.ChanneledLogger) *Interpreter {
	return &Interpreter{logger: logger}
}

// Interpret classifies a 2xx payload and returns what the caller
// receives: a single object or the original sequence.
func (i *Interpreter) Interpret(endpoint, method string, payload []byte, card Cardinality) json.RawMessage {
	value, outcome := InterpretEnvelope(endpoint, method, payload, card)

	switch outcome {
	case OutcomeUnwrapped:
		i.unwrapped.Add(1)
	case OutcomeCollection:
		i.collections.Add(1)
	case OutcomeEmpty:
		i.empty.Add(1)
	case OutcomeRaw:
		i.raw.Add(1)
	case OutcomeMultiResultSingleton:
		i.singletonMultiResult.Add(1)
		i.logger.Upstream().Warn("Multiple results for singleton request",
			"endpoint", endpoint,
			"method", method,
		)
	}

	return value
}

// Counters reports interpretation totals since process start.
func (i *Interpreter) Counters() map[string]int64 {
	return map[string]int64{
		"unwrapped":             i.unwrapped.Load(),
		"collections":           i.collections.Load(),
		"emptyCollections":      i.empty.Load(),
		"rawPassthrough":        i.raw.Load(),
		"singletonMultiResults": i.singletonMultiResult.Load(),
	}
}

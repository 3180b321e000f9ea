// Package mqtt defines how analysis results are announced on a message
// broker. The transport lives in infra/mqtt.
package mqtt

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

// ErrNotConnected is returned when publishing on a closed connection.
var ErrNotConnected = errors.New("mqtt: not connected")

// Publisher sends a payload to a topic.
type Publisher interface {
	Publish(ctx context.Context, topic string, payload []byte) error
}

// Envelope wraps every published payload.
type Envelope struct {
	MessageID string          `json:"message_id"`
	Kind      string          `json:"kind"`
	Airfield  string          `json:"airfield"`
	RunID     string          `json:"run_id,omitempty"`
	Timestamp time.Time       `json:"timestamp"`
	Data      json.RawMessage `json:"data"`
}

// NewEnvelope marshals data into an envelope with a fresh message id.
func NewEnvelope(kind, airfield, runID string, data any, ts time.Time) (Envelope, error) {
	raw, err := json.Marshal(data)
	if err != nil {
		return Envelope{}, err
	}
	return Envelope{
		MessageID: uuid.NewString(),
		Kind:      kind,
		Airfield:  airfield,
		RunID:     runID,
		Timestamp: ts.UTC(),
		Data:      raw,
	}, nil
}

// Topic joins prefix, airfield and kind into "<prefix>/<airfield>/<kind>".
// Wildcard and separator characters in the airfield are replaced by '_'.
func Topic(prefix, airfield, kind string) string {
	safe := strings.Map(func(r rune) rune {
		switch r {
		case '/', '+', '#', ' ':
			return '_'
		}
		return r
	}, airfield)
	if safe == "" {
		safe = "_"
	}
	return strings.TrimSuffix(prefix, "/") + "/" + safe + "/" + kind
}

// PublishEnvelope marshals env and publishes it on the topic derived from
// prefix and the envelope's airfield and kind.
func PublishEnvelope(ctx context.Context, p Publisher, prefix string, env Envelope) error {
	payload, err := json.Marshal(env)
	if err != nil {
		return err
	}
	return p.Publish(ctx, Topic(prefix, env.Airfield, env.Kind), payload)
}

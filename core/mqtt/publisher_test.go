package mqtt

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type capture struct {
	topic   string
	payload []byte
}

func (c *capture) Publish(_ context.Context, topic string, payload []byte) error {
	c.topic = topic
	c.payload = payload
	return nil
}

func TestTopic(t *testing.T) {
	assert.Equal(t, "hangar/LFPB/analysis", Topic("hangar/", "LFPB", "analysis"))
	assert.Equal(t, "hangar/a_b_c/analysis", Topic("hangar", "a/b+c", "analysis"))
	assert.Equal(t, "hangar/_/schedule", Topic("hangar", "", "schedule"))
}

func TestPublishEnvelope(t *testing.T) {
	ts := time.Date(2024, 1, 1, 8, 0, 0, 0, time.UTC)
	env, err := NewEnvelope("analysis", "LFPB", "r1", map[string]int{"errors": 2}, ts)
	require.NoError(t, err)
	require.NotEmpty(t, env.MessageID)

	c := &capture{}
	require.NoError(t, PublishEnvelope(context.Background(), c, "hangar", env))
	assert.Equal(t, "hangar/LFPB/analysis", c.topic)

	var got Envelope
	require.NoError(t, json.Unmarshal(c.payload, &got))
	assert.Equal(t, env.MessageID, got.MessageID)
	assert.JSONEq(t, `{"errors":2}`, string(got.Data))
}

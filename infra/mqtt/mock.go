package mqtt

import (
	"context"
	"fmt"
	"sync"
)

// Message is a payload captured by MockPublisher.
type Message struct {
	Topic   string
	Payload []byte
}

// MockPublisher records published messages. Topics listed in FailTopics
// return an error.
type MockPublisher struct {
	mu         sync.Mutex
	Messages   []Message
	FailTopics map[string]bool
}

// NewMockPublisher creates a new MockPublisher.
func NewMockPublisher() *MockPublisher {
	return &MockPublisher{FailTopics: make(map[string]bool)}
}

// Publish records the message or returns an error if configured to fail.
func (m *MockPublisher) Publish(_ context.Context, topic string, payload []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailTopics[topic] {
		return fmt.Errorf("publish failed")
	}
	m.Messages = append(m.Messages, Message{Topic: topic, Payload: append([]byte(nil), payload...)})
	return nil
}

// Published returns a copy of the recorded messages.
func (m *MockPublisher) Published() []Message {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]Message(nil), m.Messages...)
}

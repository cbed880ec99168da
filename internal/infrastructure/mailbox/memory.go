package mailbox

import (
	"context"
	"sync"

	"github.com/example/abc-retail-cloud/internal/mailbox"
)

// Memory is an in-process Mailbox used by tests and single-node runs.
type Memory struct {
	mu       sync.Mutex
	messages [][]byte

	// Error injection for tests.
	SendErr    error
	ReceiveErr error
	PeekErr    error
}

func NewMemory() *Memory {
	return &Memory{}
}

func (m *Memory) Send(ctx context.Context, payload []byte) error {
	if m.SendErr != nil {
		return m.SendErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	buf := make([]byte, len(payload))
	copy(buf, payload)
	m.messages = append(m.messages, buf)
	return nil
}

func (m *Memory) Receive(ctx context.Context) ([]byte, error) {
	if m.ReceiveErr != nil {
		return nil, m.ReceiveErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.messages) == 0 {
		return nil, mailbox.ErrEmpty
	}
	msg := m.messages[0]
	m.messages = m.messages[1:]
	return msg, nil
}

func (m *Memory) Peek(ctx context.Context, max int) ([][]byte, error) {
	if m.PeekErr != nil {
		return nil, m.PeekErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if max > len(m.messages) {
		max = len(m.messages)
	}
	out := make([][]byte, max)
	copy(out, m.messages[:max])
	return out, nil
}

func (m *Memory) Length(ctx context.Context) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.messages), nil
}

func (m *Memory) Clear(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.messages = nil
	return nil
}

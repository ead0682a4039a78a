package services

import "sync"

// MockAuditPublisher records published events in memory for assertions in
// tests. It is safe for concurrent use.
type MockAuditPublisher struct {
	mu     sync.Mutex
	Events []AuditEvent

	// PublishError, when set, is returned by every Publish call to
	// simulate a broker failure.
	PublishError error
}

// NewMockAuditPublisher creates an empty mock publisher
func NewMockAuditPublisher() *MockAuditPublisher {
	return &MockAuditPublisher{}
}

// Publish records the event.
func (m *MockAuditPublisher) Publish(event AuditEvent) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.PublishError != nil {
		return m.PublishError
	}
	m.Events = append(m.Events, event)
	return nil
}

// Close is a no-op.
func (m *MockAuditPublisher) Close() error {
	return nil
}

// EventsOfType returns the recorded events matching the given type.
func (m *MockAuditPublisher) EventsOfType(eventType string) []AuditEvent {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []AuditEvent
	for _, e := range m.Events {
		if e.Type == eventType {
			out = append(out, e)
		}
	}
	return out
}

package season

import (
	"context"
	"sync"

	"github.com/mauv0809/fairway-oom/internal/oom"
)

var _ ResultsReader = (*MockReader)(nil)

// MockReader is a mock implementation of ResultsReader for testing.
// It is safe for concurrent use.
type MockReader struct {
	mu sync.Mutex

	ReadResultsFunc  func(ctx context.Context, societyID, eventID string) ([]oom.ResultRecord, error)
	ReadResultsCalls []string
}

// NewMockReader creates a new mock instance.
func NewMockReader() *MockReader {
	return &MockReader{}
}

func (m *MockReader) ReadResults(ctx context.Context, societyID, eventID string) ([]oom.ResultRecord, error) {
	m.mu.Lock()
	m.ReadResultsCalls = append(m.ReadResultsCalls, eventID)
	fn := m.ReadResultsFunc
	m.mu.Unlock()
	if fn != nil {
		return fn(ctx, societyID, eventID)
	}
	return []oom.ResultRecord{}, nil
}

// Calls returns the event ids read so far.
func (m *MockReader) Calls() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.ReadResultsCalls...)
}

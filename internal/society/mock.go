package society

import (
	"context"
	"sync"

	"github.com/mauv0809/fairway-oom/internal/oom"
)

var _ SocietyStore = (*MockStore)(nil)

// MockStore is a mock implementation of the SocietyStore interface for testing.
// It is safe for concurrent use.
type MockStore struct {
	mu sync.Mutex

	// Spies for method calls
	AddMemberFunc      func(ctx context.Context, societyID, name string, handicapIndex *float64) (oom.Member, error)
	GetRosterFunc      func(ctx context.Context, societyID string) (oom.Roster, error)
	CreateEventFunc    func(ctx context.Context, event oom.Event) (oom.Event, error)
	GetEventFunc       func(ctx context.Context, societyID, eventID string) (*oom.Event, error)
	ListEventsFunc     func(ctx context.Context, societyID string) ([]oom.Event, error)
	SetEventStatusFunc func(ctx context.Context, societyID, eventID string, status oom.EventStatus) error
	RecordScoreFunc    func(ctx context.Context, societyID, eventID string, rec oom.ScoreRecord) error
	DeleteScoreFunc    func(ctx context.Context, societyID, eventID, memberID string) error

	// Call records
	SetEventStatusCalls []struct {
		SocietyID string
		EventID   string
		Status    oom.EventStatus
	}
	RecordScoreCalls []struct {
		SocietyID string
		EventID   string
		Record    oom.ScoreRecord
	}
	CreateEventCalls []oom.Event
}

// NewMock creates a new mock instance.
func NewMock() *MockStore {
	return &MockStore{}
}

func (m *MockStore) AddMember(ctx context.Context, societyID, name string, handicapIndex *float64) (oom.Member, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.AddMemberFunc != nil {
		return m.AddMemberFunc(ctx, societyID, name, handicapIndex)
	}
	return oom.Member{ID: "member-1", Name: name, HandicapIndex: handicapIndex}, nil
}

func (m *MockStore) GetRoster(ctx context.Context, societyID string) (oom.Roster, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.GetRosterFunc != nil {
		return m.GetRosterFunc(ctx, societyID)
	}
	return oom.Roster{}, nil
}

func (m *MockStore) CreateEvent(ctx context.Context, event oom.Event) (oom.Event, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.CreateEventCalls = append(m.CreateEventCalls, event)
	if m.CreateEventFunc != nil {
		return m.CreateEventFunc(ctx, event)
	}
	if event.ID == "" {
		event.ID = "event-1"
	}
	return event, nil
}

func (m *MockStore) GetEvent(ctx context.Context, societyID, eventID string) (*oom.Event, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.GetEventFunc != nil {
		return m.GetEventFunc(ctx, societyID, eventID)
	}
	return nil, ErrNotFound
}

func (m *MockStore) ListEvents(ctx context.Context, societyID string) ([]oom.Event, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.ListEventsFunc != nil {
		return m.ListEventsFunc(ctx, societyID)
	}
	return []oom.Event{}, nil
}

func (m *MockStore) SetEventStatus(ctx context.Context, societyID, eventID string, status oom.EventStatus) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SetEventStatusCalls = append(m.SetEventStatusCalls, struct {
		SocietyID string
		EventID   string
		Status    oom.EventStatus
	}{societyID, eventID, status})
	if m.SetEventStatusFunc != nil {
		return m.SetEventStatusFunc(ctx, societyID, eventID, status)
	}
	return nil
}

func (m *MockStore) RecordScore(ctx context.Context, societyID, eventID string, rec oom.ScoreRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.RecordScoreCalls = append(m.RecordScoreCalls, struct {
		SocietyID string
		EventID   string
		Record    oom.ScoreRecord
	}{societyID, eventID, rec})
	if m.RecordScoreFunc != nil {
		return m.RecordScoreFunc(ctx, societyID, eventID, rec)
	}
	return nil
}

func (m *MockStore) DeleteScore(ctx context.Context, societyID, eventID, memberID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.DeleteScoreFunc != nil {
		return m.DeleteScoreFunc(ctx, societyID, eventID, memberID)
	}
	return nil
}

package notifier

import (
	"sync"

	"github.com/mauv0809/fairway-oom/internal/oom"
)

var _ Notifier = (*Mock)(nil)

// Mock is a mock implementation of the Notifier interface for testing.
// It is safe for concurrent use.
type Mock struct {
	mu sync.Mutex

	// Spies for send functions
	SendResultsNotificationFunc func(event oom.Event, results []oom.ResultRecord, dryRun bool) error
	SendSeasonStandingsFunc     func(title string, table []oom.SeasonEntry, dryRun bool) error

	// Call records
	SendResultsNotificationCalls []struct {
		Event   oom.Event
		Results []oom.ResultRecord
		DryRun  bool
	}
	SendSeasonStandingsCalls []struct {
		Title  string
		Table  []oom.SeasonEntry
		DryRun bool
	}
	FormatNotFoundCalls []string

	// Call records for format functions
	LastSeasonResponse  any
	LastResultsResponse any
}

// NewMock creates a new mock instance.
func NewMock() *Mock {
	return &Mock{}
}

// Reset clears all call records.
func (m *Mock) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SendResultsNotificationCalls = nil
	m.SendSeasonStandingsCalls = nil
	m.FormatNotFoundCalls = nil
	m.LastSeasonResponse = nil
	m.LastResultsResponse = nil
}

func (m *Mock) SendResultsNotification(event oom.Event, results []oom.ResultRecord, dryRun bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SendResultsNotificationCalls = append(m.SendResultsNotificationCalls, struct {
		Event   oom.Event
		Results []oom.ResultRecord
		DryRun  bool
	}{event, results, dryRun})
	if m.SendResultsNotificationFunc != nil {
		return m.SendResultsNotificationFunc(event, results, dryRun)
	}
	return nil
}

func (m *Mock) SendSeasonStandings(title string, table []oom.SeasonEntry, dryRun bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SendSeasonStandingsCalls = append(m.SendSeasonStandingsCalls, struct {
		Title  string
		Table  []oom.SeasonEntry
		DryRun bool
	}{title, table, dryRun})
	if m.SendSeasonStandingsFunc != nil {
		return m.SendSeasonStandingsFunc(title, table, dryRun)
	}
	return nil
}

func (m *Mock) FormatSeasonResponse(title string, table []oom.SeasonEntry) (any, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.LastSeasonResponse = map[string]any{"title": title, "entries": len(table)}
	return m.LastSeasonResponse, nil
}

func (m *Mock) FormatResultsResponse(event oom.Event, results []oom.ResultRecord) (any, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.LastResultsResponse = map[string]any{"event": event.ID, "results": len(results)}
	return m.LastResultsResponse, nil
}

func (m *Mock) FormatNotFoundResponse(query string) (any, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.FormatNotFoundCalls = append(m.FormatNotFoundCalls, query)
	return map[string]any{"not_found": query}, nil
}

package metrics

import "sync"

var _ Metrics = (*Mock)(nil)

// Mock is a mock implementation of the Metrics interface for testing.
// It is safe for concurrent use.
type Mock struct {
	mu                    sync.Mutex
	resultsPublished      int
	publishFailed         int
	resultsUnpublished    int
	resultDocsWritten     int
	seasonAggregations    int
	aggregationReadFailed int
	aggregationDurations  []float64
	slackNotifSent        int
	slackNotifFailed      int
	startupTime           float64
}

// NewMock creates a new mock instance.
func NewMock() *Mock {
	return &Mock{
		aggregationDurations: make([]float64, 0),
	}
}

func (m *Mock) IncResultsPublished() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.resultsPublished++
}

func (m *Mock) IncPublishFailed() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.publishFailed++
}

func (m *Mock) IncResultsUnpublished() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.resultsUnpublished++
}

func (m *Mock) AddResultDocsWritten(n int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.resultDocsWritten += n
}

func (m *Mock) IncSeasonAggregations() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.seasonAggregations++
}

func (m *Mock) IncAggregationReadFailed() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.aggregationReadFailed++
}

func (m *Mock) ObserveAggregationDuration(duration float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.aggregationDurations = append(m.aggregationDurations, duration)
}

func (m *Mock) IncSlackNotifSent() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.slackNotifSent++
}

func (m *Mock) IncSlackNotifFailed() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.slackNotifFailed++
}

func (m *Mock) SetStartupTime(duration float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.startupTime = duration
}

// ResultsPublished returns the number of times IncResultsPublished was called.
func (m *Mock) ResultsPublished() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.resultsPublished
}

// PublishFailed returns the number of times IncPublishFailed was called.
func (m *Mock) PublishFailed() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.publishFailed
}

// ResultsUnpublished returns the number of times IncResultsUnpublished was called.
func (m *Mock) ResultsUnpublished() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.resultsUnpublished
}

// ResultDocsWritten returns the sum passed to AddResultDocsWritten.
func (m *Mock) ResultDocsWritten() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.resultDocsWritten
}

// SeasonAggregations returns the number of times IncSeasonAggregations was called.
func (m *Mock) SeasonAggregations() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.seasonAggregations
}

// AggregationReadFailed returns the number of times IncAggregationReadFailed was called.
func (m *Mock) AggregationReadFailed() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.aggregationReadFailed
}

// AggregationDurations returns every observed aggregation duration.
func (m *Mock) AggregationDurations() []float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]float64(nil), m.aggregationDurations...)
}

// SlackNotifSent returns the number of times IncSlackNotifSent was called.
func (m *Mock) SlackNotifSent() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.slackNotifSent
}

// SlackNotifFailed returns the number of times IncSlackNotifFailed was called.
func (m *Mock) SlackNotifFailed() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.slackNotifFailed
}

var _ MetricsStore = (*MockStore)(nil)

// MockStore is an in-memory MetricsStore for testing.
type MockStore struct {
	mu     sync.Mutex
	counts map[string]int
}

// NewMockStore creates a new mock instance.
func NewMockStore() *MockStore {
	return &MockStore{counts: make(map[string]int)}
}

func (m *MockStore) Increment(key string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.counts[key]++
}

func (m *MockStore) GetAll() (map[string]int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make(map[string]int, len(m.counts))
	for k, v := range m.counts {
		out[k] = v
	}
	return out, nil
}

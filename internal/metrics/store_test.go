package metrics

import (
	"sync"
	"testing"

	"github.com/mauv0809/fairway-oom/internal/database"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestDB(t *testing.T) MetricsStore {
	t.Helper()
	db, teardown, err := database.InitDB(":memory:", "", "", "../../migrations")
	require.NoError(t, err)
	t.Cleanup(teardown)
	return New(db)
}

func TestIncrementAndGetAll(t *testing.T) {
	store := setupTestDB(t)

	metrics, err := store.GetAll()
	require.NoError(t, err)
	assert.Equal(t, map[string]int{
		KeyResultsPublished:   0,
		KeyResultsUnpublished: 0,
		KeyResultsRestored:    0,
	}, metrics)

	store.Increment(KeyResultsPublished)
	store.Increment(KeyResultsPublished)
	store.Increment(KeyResultsUnpublished)
	store.Increment("  ")
	store.Increment("backfill")
	metrics, err = store.GetAll()
	require.NoError(t, err)
	assert.Equal(t, map[string]int{
		KeyResultsPublished:   2,
		KeyResultsUnpublished: 1,
		KeyResultsRestored:    0,
		"backfill":            1,
	}, metrics)
}

func TestIncrement_Concurrent(t *testing.T) {
	store := setupTestDB(t)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			store.Increment(KeyResultsRestored)
		}()
	}
	wg.Wait()

	metrics, err := store.GetAll()
	require.NoError(t, err)
	assert.Equal(t, 20, metrics[KeyResultsRestored])
}

func TestService(t *testing.T) {
	reg := prometheus.NewRegistry()
	s := NewService(reg)

	s.IncResultsPublished()
	s.AddResultDocsWritten(4)
	s.AddResultDocsWritten(-1)
	s.IncAggregationReadFailed()
	s.ObserveAggregationDuration(0.2)

	families, err := reg.Gather()
	require.NoError(t, err)
	values := map[string]float64{}
	for _, mf := range families {
		m := mf.GetMetric()[0]
		switch {
		case m.GetCounter() != nil:
			values[mf.GetName()] = m.GetCounter().GetValue()
		case m.GetHistogram() != nil:
			values[mf.GetName()] = float64(m.GetHistogram().GetSampleCount())
		}
	}
	assert.Equal(t, 1.0, values["oom_results_published_total"])
	assert.Equal(t, 4.0, values["oom_result_documents_written_total"])
	assert.Equal(t, 1.0, values["oom_aggregation_read_failures_total"])
	assert.Equal(t, 1.0, values["oom_season_aggregation_duration_seconds"])
	assert.Equal(t, 0.0, values["oom_publish_failures_total"])
}

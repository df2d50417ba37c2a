package metrics

import "github.com/prometheus/client_golang/prometheus"

// Service holds all the Prometheus metrics for the application.
type Service struct {
	ResultsPublished      prometheus.Counter
	PublishFailed         prometheus.Counter
	ResultsUnpublished    prometheus.Counter
	ResultDocsWritten     prometheus.Counter
	SeasonAggregations    prometheus.Counter
	AggregationReadFailed prometheus.Counter
	AggregationDuration   prometheus.Histogram
	SlackNotifSent        prometheus.Counter
	SlackNotifFailed      prometheus.Counter
	StartupTimeSeconds    prometheus.Gauge
}

// Keys of the persistent counters.
const (
	KeyResultsPublished   = "results_published"
	KeyResultsUnpublished = "results_unpublished"
	KeyResultsRestored    = "results_restored"
)

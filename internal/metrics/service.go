package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var _ Metrics = (*Service)(nil)

// NewMetricsHandler returns an http.Handler for the given Gatherer.
// If no gatherer is provided, it uses the default one.
func NewMetricsHandler(gatherer ...prometheus.Gatherer) http.Handler {
	gath := prometheus.DefaultGatherer
	if len(gatherer) > 0 {
		gath = gatherer[0]
	}
	return promhttp.HandlerFor(gath, promhttp.HandlerOpts{})
}

// NewService creates and registers the Prometheus metrics.
// If no registerer is provided, it uses the default Prometheus registerer.
func NewService(registerer ...prometheus.Registerer) *Service {
	reg := prometheus.DefaultRegisterer
	if len(registerer) > 0 {
		reg = registerer[0]
	}

	s := &Service{
		ResultsPublished: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "oom_results_published_total",
			Help: "The total number of events whose results were published.",
		}),
		PublishFailed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "oom_publish_failures_total",
			Help: "The total number of publishes that failed to reach the ledger.",
		}),
		ResultsUnpublished: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "oom_results_unpublished_total",
			Help: "The total number of events whose results were withdrawn.",
		}),
		ResultDocsWritten: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "oom_result_documents_written_total",
			Help: "The total number of result documents written to the ledger.",
		}),
		SeasonAggregations: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "oom_season_aggregations_total",
			Help: "The total number of season standings computed.",
		}),
		AggregationReadFailed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "oom_aggregation_read_failures_total",
			Help: "The total number of event result reads skipped during aggregation.",
		}),
		AggregationDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "oom_season_aggregation_duration_seconds",
			Help:    "The duration of a season aggregation.",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}),
		SlackNotifSent: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "oom_slack_notifications_sent_total",
			Help: "The total number of Slack notifications successfully sent.",
		}),
		SlackNotifFailed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "oom_slack_notifications_failed_total",
			Help: "The total number of Slack notifications that failed to send.",
		}),
		StartupTimeSeconds: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "oom_startup_duration_seconds",
			Help: "The duration of the application startup in seconds.",
		}),
	}

	reg.MustRegister(
		s.ResultsPublished,
		s.PublishFailed,
		s.ResultsUnpublished,
		s.ResultDocsWritten,
		s.SeasonAggregations,
		s.AggregationReadFailed,
		s.AggregationDuration,
		s.SlackNotifSent,
		s.SlackNotifFailed,
		s.StartupTimeSeconds,
	)

	return s
}

func (s *Service) IncResultsPublished() {
	s.ResultsPublished.Inc()
}

func (s *Service) IncPublishFailed() {
	s.PublishFailed.Inc()
}

func (s *Service) IncResultsUnpublished() {
	s.ResultsUnpublished.Inc()
}

func (s *Service) AddResultDocsWritten(n int) {
	if n > 0 {
		s.ResultDocsWritten.Add(float64(n))
	}
}

func (s *Service) IncSeasonAggregations() {
	s.SeasonAggregations.Inc()
}

func (s *Service) IncAggregationReadFailed() {
	s.AggregationReadFailed.Inc()
}

func (s *Service) ObserveAggregationDuration(duration float64) {
	s.AggregationDuration.Observe(duration)
}

func (s *Service) IncSlackNotifSent() {
	s.SlackNotifSent.Inc()
}

func (s *Service) IncSlackNotifFailed() {
	s.SlackNotifFailed.Inc()
}

func (s *Service) SetStartupTime(duration float64) {
	s.StartupTimeSeconds.Set(duration)
}

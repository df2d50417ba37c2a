package processor

import (
	"github.com/mauv0809/fairway-oom/internal/metrics"
	"github.com/mauv0809/fairway-oom/internal/oom"
	"github.com/mauv0809/fairway-oom/internal/pubsub"
	"github.com/mauv0809/fairway-oom/internal/season"
)

// Processor orchestrates publishing results and building season standings.
type Processor struct {
	store      Store
	writer     ResultsWriter
	reader     season.ResultsReader
	aggregator *season.Aggregator
	pubsub     pubsub.PubSubClient
	notifier   Notifier
	metrics    metrics.Metrics
	counters   metrics.MetricsStore

	// AsyncNotify leaves Slack notifications to the Pub/Sub push handler instead of sending
	// them inline.
	AsyncNotify bool
}

// PublishOutcome describes a publish.
type PublishOutcome struct {
	EventID string             `json:"event_id"`
	Written int                `json:"written"`
	DryRun  bool               `json:"dry_run"`
	Results []oom.ResultRecord `json:"results"`
}

// ImportReport describes a bulk score import.
type ImportReport struct {
	Recorded int      `json:"recorded"`
	Unknown  []string `json:"unknown,omitempty"`
	Rejected []string `json:"rejected,omitempty"`
	// Suggestions lists likely members for unknown names.
	Suggestions map[string][]string `json:"suggestions,omitempty"`
}

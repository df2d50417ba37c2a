package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/mauv0809/fairway-oom/internal/config"
	"github.com/mauv0809/fairway-oom/internal/metrics"
	"github.com/mauv0809/fairway-oom/internal/notifier"
	"github.com/mauv0809/fairway-oom/internal/processor"
	"github.com/mauv0809/fairway-oom/internal/pubsub"
	"github.com/mauv0809/fairway-oom/internal/society"
)

type Server struct {
	Store          society.SocietyStore
	Processor      *processor.Processor
	Notifier       notifier.Notifier
	Metrics        metrics.Metrics
	MetricsHandler http.Handler
	Counters       metrics.MetricsStore
	PubSub         pubsub.PubSubClient
	Cfg            config.Config
	Router         chi.Router
}

package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/mauv0809/fairway-oom/internal/config"
	"github.com/mauv0809/fairway-oom/internal/http/handlers"
	"github.com/mauv0809/fairway-oom/internal/metrics"
	"github.com/mauv0809/fairway-oom/internal/notifier"
	"github.com/mauv0809/fairway-oom/internal/processor"
	"github.com/mauv0809/fairway-oom/internal/pubsub"
	"github.com/mauv0809/fairway-oom/internal/society"
)

func NewServer(store society.SocietyStore, proc *processor.Processor, notifier notifier.Notifier, metricsSvc metrics.Metrics, metricsHandler http.Handler, counters metrics.MetricsStore, pubsub pubsub.PubSubClient, cfg config.Config) *Server {
	server := &Server{
		Store:          store,
		Processor:      proc,
		Notifier:       notifier,
		Metrics:        metricsSvc,
		MetricsHandler: metricsHandler,
		Counters:       counters,
		PubSub:         pubsub,
		Cfg:            cfg,
		Router:         chi.NewRouter(),
	}

	server.routes()
	return server
}

func (s *Server) routes() {
	r := s.Router
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))
	r.Use(paramsMiddleware)
	r.Use(societyMiddleware(s.Cfg.SocietyID))

	r.Handle("/metrics", s.MetricsHandler)
	r.Get("/health", handlers.HealthCheckHandler())
	r.Get("/stats", handlers.StatsHandler(s.Counters))

	r.Route("/members", func(r chi.Router) {
		r.Get("/", handlers.ListMembersHandler(s.Store))
		r.Post("/", handlers.AddMemberHandler(s.Store))
	})

	r.Route("/events", func(r chi.Router) {
		r.Get("/", handlers.ListEventsHandler(s.Store))
		r.Post("/", handlers.CreateEventHandler(s.Store))
		r.Route("/{eventID}", func(r chi.Router) {
			r.Get("/", handlers.GetEventHandler(s.Store))
			r.Put("/scores/{memberID}", handlers.RecordScoreHandler(s.Store))
			r.Delete("/scores/{memberID}", handlers.DeleteScoreHandler(s.Store))
			r.Post("/scores/import", handlers.ImportScoresHandler(s.Processor))
			r.Get("/leaderboard", handlers.LeaderboardHandler(s.Processor))
			r.Post("/publish", handlers.PublishHandler(s.Processor))
			r.Post("/unpublish", handlers.UnpublishHandler(s.Processor))
			r.Get("/results", handlers.ResultsHandler(s.Processor))
			r.Get("/results/export", handlers.ExportResultsHandler(s.Processor))
			r.Post("/results/import", handlers.ImportResultsHandler(s.Processor))
		})
	})

	r.Route("/season", func(r chi.Router) {
		r.Get("/", handlers.SeasonHandler(s.Processor))
		r.Get("/preview", handlers.SeasonPreviewHandler(s.Processor))
		r.Get("/export.xlsx", handlers.SeasonExportHandler(s.Processor))
		r.Post("/announce", handlers.AnnounceSeasonHandler(s.Processor))
	})

	r.Post("/pubsub/results-published", handlers.ResultsPublishedHandler(s.Processor, s.PubSub))

	verified := func(h http.Handler) http.Handler {
		return Chain(h, limitBodyMiddleware(slackBodyLimit), slackVerifierMiddleware(s.Cfg.Slack.SigningSecret))
	}
	r.Method(http.MethodPost, "/slack/command/oom", verified(handlers.SeasonCommandHandler(s.Processor, s.Notifier)))
	r.Method(http.MethodPost, "/slack/command/results", verified(handlers.ResultsCommandHandler(s.Store, s.Processor, s.Notifier)))
	r.Method(http.MethodPost, "/slack/events", verified(handlers.SlackEventsHandler(s.Processor, s.Cfg)))
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.Router.ServeHTTP(w, r)
}

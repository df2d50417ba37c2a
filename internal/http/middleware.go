package http

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/fairway-oom/internal/http/handlers"
	"github.com/slack-go/slack"
)

// Middleware defines the standard signature for an HTTP middleware.
type Middleware func(http.Handler) http.Handler

// Chain combines multiple middlewares into a single handler.
// The middlewares are applied in the order they are passed.
func Chain(h http.Handler, middlewares ...Middleware) http.Handler {
	for i := len(middlewares) - 1; i >= 0; i-- {
		h = middlewares[i](h)
	}
	return h
}

// paramsMiddleware handles common query parameters like 'verbose' and 'dry_run'.
func paramsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		log.Info("incoming request", "method", r.Method, "url", r.URL.String())
		if r.URL.Query().Get("verbose") == "true" {
			raiseVerbosity()
			defer lowerVerbosity()
		}

		isDryRun := r.URL.Query().Get("dry_run") == "true"
		ctx := context.WithValue(r.Context(), handlers.DryRunKey, isDryRun)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// The log level is global, so overlapping verbose requests share one debug window: the first
// one in raises the level and the last one out restores it.
var verbosity struct {
	sync.Mutex
	requests  int
	baseLevel log.Level
}

func raiseVerbosity() {
	verbosity.Lock()
	defer verbosity.Unlock()
	if verbosity.requests == 0 {
		verbosity.baseLevel = log.GetLevel()
		log.SetLevel(log.DebugLevel)
	}
	verbosity.requests++
}

func lowerVerbosity() {
	verbosity.Lock()
	defer verbosity.Unlock()
	verbosity.requests--
	if verbosity.requests == 0 {
		log.SetLevel(verbosity.baseLevel)
	}
}

// slackBodyLimit caps Slack payloads; slash commands and event callbacks are a few KB.
const slackBodyLimit = 1 << 20

// limitBodyMiddleware caps the request body at n bytes.
func limitBodyMiddleware(n int64) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			r.Body = http.MaxBytesReader(w, r.Body, n)
			next.ServeHTTP(w, r)
		})
	}
}

// societyMiddleware scopes the request to ?society=, falling back to the configured default.
func societyMiddleware(defaultSociety string) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			societyID := r.URL.Query().Get("society")
			if societyID == "" {
				societyID = defaultSociety
			}
			ctx := context.WithValue(r.Context(), handlers.SocietyKey, societyID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// slackVerifierMiddleware rejects requests that are not signed with the Slack signing secret.
// Verification is skipped when no secret is configured.
func slackVerifierMiddleware(signingSecret string) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if signingSecret == "" {
				next.ServeHTTP(w, r)
				return
			}
			verifier, err := slack.NewSecretsVerifier(r.Header, signingSecret)
			if err != nil {
				log.Warn("Rejected unsigned Slack request", "error", err)
				http.Error(w, "Invalid Slack signature", http.StatusUnauthorized)
				return
			}
			body, err := io.ReadAll(r.Body)
			if err != nil {
				http.Error(w, "Failed to read request body", http.StatusBadRequest)
				return
			}
			r.Body = io.NopCloser(bytes.NewReader(body))
			if _, err := verifier.Write(body); err != nil {
				http.Error(w, "Failed to verify request", http.StatusInternalServerError)
				return
			}
			if err := verifier.Ensure(); err != nil {
				log.Warn("Rejected Slack request with bad signature", "error", err)
				http.Error(w, "Invalid Slack signature", http.StatusUnauthorized)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

package http

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/fairway-oom/internal/notifier"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChain_AppliesInOrder(t *testing.T) {
	var order []string
	tag := func(name string) Middleware {
		return func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				order = append(order, name)
				next.ServeHTTP(w, r)
			})
		}
	}
	h := Chain(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		order = append(order, "handler")
	}), tag("first"), tag("second"))

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, []string{"first", "second", "handler"}, order)
}

func TestLimitBodyMiddleware(t *testing.T) {
	h := Chain(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, err := io.ReadAll(r.Body); err != nil {
			http.Error(w, err.Error(), http.StatusRequestEntityTooLarge)
			return
		}
		w.WriteHeader(http.StatusOK)
	}), limitBodyMiddleware(8))

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/", strings.NewReader("short")))
	assert.Equal(t, http.StatusOK, rr.Code)

	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/", strings.NewReader("far too long for the limit")))
	assert.Equal(t, http.StatusRequestEntityTooLarge, rr.Code)
}

func TestSlackRoutesRejectUnsignedRequests(t *testing.T) {
	cfg := defaultConfig()
	cfg.Slack.SigningSecret = "shh"
	env, teardown := setupTestServer(t, notifier.NewMock(), cfg)
	defer teardown()

	for _, path := range []string{"/slack/command/oom", "/slack/command/results", "/slack/events"} {
		req := httptest.NewRequest(http.MethodPost, path, strings.NewReader("text=season"))
		rr := httptest.NewRecorder()
		env.server.ServeHTTP(rr, req)
		assert.Equal(t, http.StatusUnauthorized, rr.Code, path)
	}
}

func TestParamsMiddleware_OverlappingVerboseRequests(t *testing.T) {
	base := log.GetLevel()
	defer log.SetLevel(base)
	log.SetLevel(log.WarnLevel)

	entered := make(chan struct{})
	release := make(chan struct{})
	h := paramsMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		entered <- struct{}{}
		<-release
	}))

	var wg sync.WaitGroup
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/?verbose=true", nil))
		}()
	}
	<-entered
	<-entered
	require.Equal(t, log.DebugLevel, log.GetLevel())

	// The first request to finish must not drop the level while the other is still running.
	release <- struct{}{}
	assert.Eventually(t, func() bool {
		verbosity.Lock()
		defer verbosity.Unlock()
		return verbosity.requests == 1
	}, time.Second, time.Millisecond)
	assert.Equal(t, log.DebugLevel, log.GetLevel())

	release <- struct{}{}
	wg.Wait()
	assert.Equal(t, log.WarnLevel, log.GetLevel())
}

package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/fairway-oom/internal/ledger"
	"github.com/mauv0809/fairway-oom/internal/oom"
	"github.com/mauv0809/fairway-oom/internal/season"
	"github.com/mauv0809/fairway-oom/internal/society"
)

// ContextKey is a custom type to avoid key collisions in context.
type ContextKey string

const (
	DryRunKey  ContextKey = "dryRun"
	SocietyKey ContextKey = "society"
)

// IsDryRunFromContext is a helper to safely retrieve the dry_run flag from the request context.
func IsDryRunFromContext(r *http.Request) bool {
	dryRun, ok := r.Context().Value(DryRunKey).(bool)
	return ok && dryRun
}

// SocietyFromContext returns the society the request is scoped to.
func SocietyFromContext(r *http.Request) string {
	societyID, _ := r.Context().Value(SocietyKey).(string)
	return societyID
}

// requireSociety writes a 400 when the request is not scoped to a society.
func requireSociety(w http.ResponseWriter, r *http.Request) (string, bool) {
	societyID := SocietyFromContext(r)
	if societyID == "" {
		http.Error(w, "Missing society: pass ?society= or configure a default", http.StatusBadRequest)
		return "", false
	}
	return societyID, true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error("Failed to encode JSON response", "error", err)
	}
}

// writeError maps domain errors to HTTP status codes.
func writeError(w http.ResponseWriter, err error) {
	var perr *ledger.PersistenceError
	switch {
	case errors.Is(err, society.ErrNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, society.ErrInvalid), errors.Is(err, oom.ErrScoreModeMismatch), errors.Is(err, oom.ErrNoScore):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.As(err, &perr):
		log.Error("Ledger write failed", "error", err)
		http.Error(w, "The results store is unavailable and nothing was changed. Try again shortly. ("+err.Error()+")", http.StatusServiceUnavailable)
	default:
		log.Error("Request failed", "error", err)
		http.Error(w, "Internal error: "+err.Error(), http.StatusInternalServerError)
	}
}

// seasonOptions reads ?year= and ?oom= from the query. OOM-only is the default.
func seasonOptions(r *http.Request) season.Options {
	q := r.URL.Query()
	opts := season.Options{OOMOnly: true}
	if year, err := strconv.Atoi(q.Get("year")); err == nil {
		opts.Year = year
	}
	if v := strings.ToLower(q.Get("oom")); v == "false" || v == "0" || v == "all" {
		opts.OOMOnly = false
	}
	return opts
}

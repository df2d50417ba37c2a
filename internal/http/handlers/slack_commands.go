package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/fairway-oom/internal/notifier"
	"github.com/mauv0809/fairway-oom/internal/oom"
	"github.com/mauv0809/fairway-oom/internal/processor"
	"github.com/mauv0809/fairway-oom/internal/season"
	"github.com/mauv0809/fairway-oom/internal/society"
	"github.com/slack-go/slack"
)

// respondWithSlackMsg is a helper to format and write a Slack message as an HTTP response.
func respondWithSlackMsg(w http.ResponseWriter, msg slack.Message) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(msg); err != nil {
		log.Error("Failed to encode slack message to JSON", "error", err)
	}
}

func respondWithFormatted(w http.ResponseWriter, msg any, err error) {
	if err != nil {
		http.Error(w, "Failed to format response", http.StatusInternalServerError)
		log.Error("Failed to format slack response", "error", err)
		return
	}
	slackMsg, ok := msg.(slack.Message)
	if !ok {
		http.Error(w, "Invalid message format for Slack", http.StatusInternalServerError)
		log.Error("Failed to cast message to slack.Message")
		return
	}
	respondWithSlackMsg(w, slackMsg)
}

// parseSeasonText reads the text of the /oom command.
// Expected formats: "", "2024", "all", "2024 all"
func parseSeasonText(text string) season.Options {
	opts := season.Options{OOMOnly: true}
	for _, part := range strings.Fields(strings.ToLower(text)) {
		if part == "all" {
			opts.OOMOnly = false
			continue
		}
		if year, err := strconv.Atoi(part); err == nil {
			opts.Year = year
		}
	}
	return opts
}

// SeasonCommandHandler answers /oom with the season standings.
func SeasonCommandHandler(proc *processor.Processor, notifier notifier.Notifier) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			http.Error(w, "Error parsing form", http.StatusBadRequest)
			return
		}
		societyID, ok := requireSociety(w, r)
		if !ok {
			return
		}
		opts := parseSeasonText(r.FormValue("text"))
		log.Info("Received season command", "user", r.FormValue("user_name"), "year", opts.Year, "oomOnly", opts.OOMOnly)

		table, err := proc.Season(r.Context(), societyID, opts)
		if err != nil {
			http.Error(w, "Failed to build season standings", http.StatusInternalServerError)
			log.Error("Failed to build season standings", "error", err)
			return
		}
		msg, err := notifier.FormatSeasonResponse(processor.SeasonTitle(opts), table)
		respondWithFormatted(w, msg, err)
	}
}

// ResultsCommandHandler answers /results <event> with the published results of an event,
// matched by id or by name.
func ResultsCommandHandler(store society.SocietyStore, proc *processor.Processor, notifier notifier.Notifier) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			http.Error(w, "Error parsing form", http.StatusBadRequest)
			return
		}
		societyID, ok := requireSociety(w, r)
		if !ok {
			return
		}
		query := strings.TrimSpace(r.FormValue("text"))
		if query == "" {
			http.Error(w, "Event name is required.", http.StatusBadRequest)
			return
		}

		event, err := findEvent(r, store, societyID, query)
		if errors.Is(err, society.ErrNotFound) {
			log.Warn("Could not find event", "query", query)
			msg, err := notifier.FormatNotFoundResponse(query)
			respondWithFormatted(w, msg, err)
			return
		}
		if err != nil {
			http.Error(w, "Failed to look up event", http.StatusInternalServerError)
			log.Error("Failed to look up event", "error", err, "query", query)
			return
		}

		results, err := proc.EventResults(r.Context(), societyID, event.ID)
		if err != nil {
			http.Error(w, "Failed to read results", http.StatusInternalServerError)
			log.Error("Failed to read results", "error", err, "eventID", event.ID)
			return
		}
		msg, err := notifier.FormatResultsResponse(*event, results)
		respondWithFormatted(w, msg, err)
	}
}

// findEvent resolves an event by exact id first, then by case-insensitive name. Published events
// win over drafts and later dates over earlier ones.
func findEvent(r *http.Request, store society.SocietyStore, societyID, query string) (*oom.Event, error) {
	event, err := store.GetEvent(r.Context(), societyID, query)
	if err == nil {
		return event, nil
	}
	if !errors.Is(err, society.ErrNotFound) {
		return nil, err
	}
	events, err := store.ListEvents(r.Context(), societyID)
	if err != nil {
		return nil, err
	}
	var best *oom.Event
	for i := range events {
		e := &events[i]
		if !strings.EqualFold(strings.TrimSpace(e.Name), query) {
			continue
		}
		if best == nil || betterMatch(e, best) {
			best = e
		}
	}
	if best == nil {
		return nil, society.ErrNotFound
	}
	return best, nil
}

func betterMatch(a, b *oom.Event) bool {
	aPub, bPub := a.Status == oom.StatusPublished, b.Status == oom.StatusPublished
	if aPub != bPub {
		return aPub
	}
	return a.Date > b.Date
}

package handlers

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/fairway-oom/internal/config"
	"github.com/mauv0809/fairway-oom/internal/processor"
)

// SlackEventsHandler handles the Slack Events API. Mentioning the app in the configured channel
// posts the current Order of Merit there.
func SlackEventsHandler(proc *processor.Processor, cfg config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		bodyBytes, err := io.ReadAll(r.Body)
		if err != nil {
			log.Error("Failed to read request body", "error", err)
			http.Error(w, "Failed to read request body", http.StatusInternalServerError)
			return
		}

		var eventPayload struct {
			Type      string `json:"type"`
			Challenge string `json:"challenge,omitempty"`
			Event     struct {
				Type    string `json:"type"`
				Channel string `json:"channel,omitempty"`
				User    string `json:"user,omitempty"`
				Text    string `json:"text,omitempty"`
			} `json:"event,omitempty"`
		}
		if err := json.Unmarshal(bodyBytes, &eventPayload); err != nil {
			log.Error("Failed to unmarshal event payload", "error", err)
			http.Error(w, "Invalid JSON", http.StatusBadRequest)
			return
		}

		// Challenge verification for the initial webhook setup.
		if eventPayload.Type == "url_verification" {
			w.Header().Set("Content-Type", "text/plain")
			w.WriteHeader(http.StatusOK)
			w.Write([]byte(eventPayload.Challenge))
			return
		}

		if eventPayload.Type == "event_callback" && eventPayload.Event.Type == "app_mention" {
			if eventPayload.Event.Channel != cfg.Slack.ChannelID {
				log.Info("Ignoring mention from different channel", "channel", eventPayload.Event.Channel)
			} else if societyID := SocietyFromContext(r); societyID != "" {
				opts := parseSeasonText(eventPayload.Event.Text)
				// Errors are only logged so Slack does not retry.
				if _, err := proc.AnnounceSeason(r.Context(), societyID, opts, IsDryRunFromContext(r)); err != nil {
					log.Error("Failed to announce season", "error", err, "user", eventPayload.Event.User)
				}
			}
		}

		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	}
}

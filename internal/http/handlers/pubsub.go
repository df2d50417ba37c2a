package handlers

import (
	"encoding/base64"
	"encoding/json"
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/fairway-oom/internal/processor"
	"github.com/mauv0809/fairway-oom/internal/pubsub"
)

// ResultsPublishedHandler consumes results-published push deliveries and posts the results to
// Slack. Any 2xx acknowledges the message, so undecodable messages are acknowledged too.
func ResultsPublishedHandler(proc *processor.Processor, pubsubClient pubsub.PubSubClient) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var envelope pubsub.PushEnvelope
		if err := json.NewDecoder(r.Body).Decode(&envelope); err != nil {
			log.Error("Failed to decode push envelope", "error", err)
			http.Error(w, "Invalid push envelope", http.StatusBadRequest)
			return
		}
		rawData, err := base64.StdEncoding.DecodeString(envelope.Message.Data)
		if err != nil {
			log.Error("Failed to decode message data", "error", err, "messageID", envelope.Message.MessageID)
			http.Error(w, "Invalid message data", http.StatusBadRequest)
			return
		}
		var msg pubsub.ResultsMessage
		if err := pubsubClient.ProcessMessage(rawData, &msg); err != nil {
			http.Error(w, "Invalid message payload", http.StatusBadRequest)
			return
		}

		log.Info("Received results-published message", "societyID", msg.SocietyID, "eventID", msg.EventID, "count", msg.Count)
		if err := proc.NotifyResults(r.Context(), msg.SocietyID, msg.EventID, IsDryRunFromContext(r)); err != nil {
			// Returning 5xx makes Pub/Sub redeliver.
			log.Error("Failed to notify results", "error", err, "eventID", msg.EventID)
			http.Error(w, "Failed to notify results", http.StatusInternalServerError)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

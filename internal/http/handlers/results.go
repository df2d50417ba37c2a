package handlers

import (
	"fmt"
	"io"
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/mauv0809/fairway-oom/internal/export"
	"github.com/mauv0809/fairway-oom/internal/processor"
)

func PublishHandler(proc *processor.Processor) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		societyID, ok := requireSociety(w, r)
		if !ok {
			return
		}
		eventID := chi.URLParam(r, "eventID")
		outcome, err := proc.PublishEvent(r.Context(), societyID, eventID, IsDryRunFromContext(r))
		if err != nil {
			writeError(w, err)
			return
		}
		log.Info("Publish request handled", "societyID", societyID, "eventID", eventID, "written", outcome.Written, "dryRun", outcome.DryRun)
		writeJSON(w, http.StatusOK, outcome)
	}
}

func UnpublishHandler(proc *processor.Processor) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		societyID, ok := requireSociety(w, r)
		if !ok {
			return
		}
		eventID := chi.URLParam(r, "eventID")
		deleted, err := proc.UnpublishEvent(r.Context(), societyID, eventID, IsDryRunFromContext(r))
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"event_id": eventID, "deleted": deleted})
	}
}

func ResultsHandler(proc *processor.Processor) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		societyID, ok := requireSociety(w, r)
		if !ok {
			return
		}
		results, err := proc.EventResults(r.Context(), societyID, chi.URLParam(r, "eventID"))
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, results)
	}
}

// ExportResultsHandler downloads the JSON backup of an event's results.
func ExportResultsHandler(proc *processor.Processor) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		societyID, ok := requireSociety(w, r)
		if !ok {
			return
		}
		eventID := chi.URLParam(r, "eventID")
		backup, err := proc.ExportResults(r.Context(), societyID, eventID)
		if err != nil {
			writeError(w, err)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", "results-"+eventID+".json"))
		if err := export.WriteBackup(w, backup); err != nil {
			log.Error("Failed to write backup", "error", err, "eventID", eventID)
		}
	}
}

// ImportResultsHandler restores an event's results from a JSON backup. The event in the URL
// wins over the one named in the backup.
func ImportResultsHandler(proc *processor.Processor) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		societyID, ok := requireSociety(w, r)
		if !ok {
			return
		}
		backup, err := export.ReadBackup(io.LimitReader(r.Body, maxUploadBytes))
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		backup.EventID = chi.URLParam(r, "eventID")
		written, err := proc.RestoreResults(r.Context(), societyID, backup, IsDryRunFromContext(r))
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"event_id": backup.EventID, "written": written})
	}
}

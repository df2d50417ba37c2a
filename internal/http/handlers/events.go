package handlers

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/mauv0809/fairway-oom/internal/export"
	"github.com/mauv0809/fairway-oom/internal/oom"
	"github.com/mauv0809/fairway-oom/internal/processor"
	"github.com/mauv0809/fairway-oom/internal/society"
)

// maxUploadBytes bounds uploaded score sheets and backups.
const maxUploadBytes = 10 << 20

func ListEventsHandler(store society.SocietyStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		societyID, ok := requireSociety(w, r)
		if !ok {
			return
		}
		events, err := store.ListEvents(r.Context(), societyID)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, events)
	}
}

type createEventRequest struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Date        string `json:"date"`
	ScoringMode string `json:"scoring_mode"`
	OOMEligible *bool  `json:"oom_eligible"`
}

func CreateEventHandler(store society.SocietyStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		societyID, ok := requireSociety(w, r)
		if !ok {
			return
		}
		var req createEventRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "Invalid JSON body", http.StatusBadRequest)
			return
		}
		eligible := true
		if req.OOMEligible != nil {
			eligible = *req.OOMEligible
		}
		event, err := store.CreateEvent(r.Context(), oom.Event{
			ID:          req.ID,
			SocietyID:   societyID,
			Name:        req.Name,
			Date:        req.Date,
			ScoringMode: oom.ScoringMode(req.ScoringMode),
			OOMEligible: eligible,
		})
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, event)
	}
}

func GetEventHandler(store society.SocietyStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		societyID, ok := requireSociety(w, r)
		if !ok {
			return
		}
		event, err := store.GetEvent(r.Context(), societyID, chi.URLParam(r, "eventID"))
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, event)
	}
}

type scoreRequest struct {
	Gross      *float64 `json:"gross"`
	Net        *float64 `json:"net"`
	Stableford *float64 `json:"stableford"`
}

func RecordScoreHandler(store society.SocietyStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		societyID, ok := requireSociety(w, r)
		if !ok {
			return
		}
		var req scoreRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "Invalid JSON body", http.StatusBadRequest)
			return
		}
		rec := oom.ScoreRecord{
			MemberID:   chi.URLParam(r, "memberID"),
			Gross:      req.Gross,
			Net:        req.Net,
			Stableford: req.Stableford,
		}
		if err := store.RecordScore(r.Context(), societyID, chi.URLParam(r, "eventID"), rec); err != nil {
			writeError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func DeleteScoreHandler(store society.SocietyStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		societyID, ok := requireSociety(w, r)
		if !ok {
			return
		}
		if err := store.DeleteScore(r.Context(), societyID, chi.URLParam(r, "eventID"), chi.URLParam(r, "memberID")); err != nil {
			writeError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

// LeaderboardHandler previews the results of an event from its current scores.
func LeaderboardHandler(proc *processor.Processor) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		societyID, ok := requireSociety(w, r)
		if !ok {
			return
		}
		results, err := proc.PreviewResults(r.Context(), societyID, chi.URLParam(r, "eventID"))
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, results)
	}
}

// ImportScoresHandler records the scores of an uploaded XLSX score sheet.
func ImportScoresHandler(proc *processor.Processor) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		societyID, ok := requireSociety(w, r)
		if !ok {
			return
		}
		data, err := io.ReadAll(io.LimitReader(r.Body, maxUploadBytes))
		if err != nil {
			http.Error(w, "Failed to read request body", http.StatusBadRequest)
			return
		}
		rows, err := export.ParseScoreSheet(data)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		report, err := proc.ImportScores(r.Context(), societyID, chi.URLParam(r, "eventID"), rows, IsDryRunFromContext(r))
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, report)
	}
}

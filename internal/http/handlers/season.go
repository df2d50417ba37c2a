package handlers

import (
	"fmt"
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/fairway-oom/internal/export"
	"github.com/mauv0809/fairway-oom/internal/processor"
)

func SeasonHandler(proc *processor.Processor) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		societyID, ok := requireSociety(w, r)
		if !ok {
			return
		}
		table, err := proc.Season(r.Context(), societyID, seasonOptions(r))
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, table)
	}
}

// SeasonPreviewHandler returns the season table computed from current scores, counting draft
// events as if they were published.
func SeasonPreviewHandler(proc *processor.Processor) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		societyID, ok := requireSociety(w, r)
		if !ok {
			return
		}
		table, err := proc.PreviewSeason(r.Context(), societyID, seasonOptions(r))
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, table)
	}
}

// SeasonExportHandler downloads the season table as an XLSX workbook.
func SeasonExportHandler(proc *processor.Processor) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		societyID, ok := requireSociety(w, r)
		if !ok {
			return
		}
		opts := seasonOptions(r)
		table, err := proc.Season(r.Context(), societyID, opts)
		if err != nil {
			writeError(w, err)
			return
		}
		name := "order-of-merit.xlsx"
		if opts.Year != 0 {
			name = fmt.Sprintf("order-of-merit-%d.xlsx", opts.Year)
		}
		w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
		if err := export.WriteSeasonXLSX(w, table); err != nil {
			log.Error("Failed to write season workbook", "error", err)
		}
	}
}

// AnnounceSeasonHandler posts the season table to Slack.
func AnnounceSeasonHandler(proc *processor.Processor) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		societyID, ok := requireSociety(w, r)
		if !ok {
			return
		}
		table, err := proc.AnnounceSeason(r.Context(), societyID, seasonOptions(r), IsDryRunFromContext(r))
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"entries": len(table)})
	}
}

package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/fairway-oom/internal/society"
)

func ListMembersHandler(store society.SocietyStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		societyID, ok := requireSociety(w, r)
		if !ok {
			return
		}
		roster, err := store.GetRoster(r.Context(), societyID)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, roster)
	}
}

type addMemberRequest struct {
	Name          string   `json:"name"`
	HandicapIndex *float64 `json:"handicap_index"`
}

func AddMemberHandler(store society.SocietyStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		societyID, ok := requireSociety(w, r)
		if !ok {
			return
		}
		var req addMemberRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "Invalid JSON body", http.StatusBadRequest)
			return
		}
		member, err := store.AddMember(r.Context(), societyID, req.Name, req.HandicapIndex)
		if err != nil {
			writeError(w, err)
			return
		}
		log.Info("Member added", "societyID", societyID, "memberID", member.ID)
		writeJSON(w, http.StatusCreated, member)
	}
}

package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ickweb3/discord-predictions-bot/services"
)

type TournamentHandler struct {
	tournaments *services.TournamentService
	scoring     *services.ScoringService
}

func NewTournamentHandler(tournaments *services.TournamentService, scoring *services.ScoringService) *TournamentHandler {
	return &TournamentHandler{
		tournaments: tournaments,
		scoring:     scoring,
	}
}

// GetTournament returns one tournament with its round list:
// GET /tournaments/{tournamentID}
func (h *TournamentHandler) GetTournament(w http.ResponseWriter, r *http.Request) {
	t, err := h.tournaments.GetTournament(r.Context(), chi.URLParam(r, "tournamentID"))
	if err != nil {
		mapServiceErrorToHTTP(w, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, jsonResponse{"tournament": t}); err != nil {
		serverErrorResponse(w, err)
	}
}

// TournamentLeaderboard returns the aggregated standings:
// GET /tournaments/{tournamentID}/leaderboard
func (h *TournamentHandler) TournamentLeaderboard(w http.ResponseWriter, r *http.Request) {
	scores, err := h.scoring.TournamentLeaderboard(r.Context(), chi.URLParam(r, "tournamentID"))
	if err != nil {
		mapServiceErrorToHTTP(w, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, jsonResponse{"leaderboard": scores}); err != nil {
		serverErrorResponse(w, err)
	}
}

package handlers

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ickweb3/discord-predictions-bot/services"
)

type RoundHandler struct {
	tournaments *services.TournamentService
	predictions *services.PredictionService
	scoring     *services.ScoringService
}

func NewRoundHandler(
	tournaments *services.TournamentService,
	predictions *services.PredictionService,
	scoring *services.ScoringService,
) *RoundHandler {
	return &RoundHandler{
		tournaments: tournaments,
		predictions: predictions,
		scoring:     scoring,
	}
}

// ListRounds returns every round for a guild: GET /rounds?guild={id}
func (h *RoundHandler) ListRounds(w http.ResponseWriter, r *http.Request) {
	guildID := r.URL.Query().Get("guild")
	if guildID == "" {
		badRequestResponse(w, errors.New("missing guild query parameter"))
		return
	}

	rounds, err := h.tournaments.ListRounds(r.Context(), guildID)
	if err != nil {
		mapServiceErrorToHTTP(w, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, jsonResponse{"rounds": rounds}); err != nil {
		serverErrorResponse(w, err)
	}
}

// GetRound returns one round with its matches: GET /rounds/{roundID}
func (h *RoundHandler) GetRound(w http.ResponseWriter, r *http.Request) {
	round, err := h.tournaments.GetRound(r.Context(), chi.URLParam(r, "roundID"))
	if err != nil {
		mapServiceErrorToHTTP(w, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, jsonResponse{"round": round}); err != nil {
		serverErrorResponse(w, err)
	}
}

// RoundLeaderboard returns the ranked scores for one round:
// GET /rounds/{roundID}/leaderboard
func (h *RoundHandler) RoundLeaderboard(w http.ResponseWriter, r *http.Request) {
	scores, err := h.scoring.RoundLeaderboard(r.Context(), chi.URLParam(r, "roundID"))
	if err != nil {
		mapServiceErrorToHTTP(w, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, jsonResponse{"leaderboard": scores}); err != nil {
		serverErrorResponse(w, err)
	}
}

// UserPredictions returns a user's current picks for a round:
// GET /rounds/{roundID}/predictions/{userID}
func (h *RoundHandler) UserPredictions(w http.ResponseWriter, r *http.Request) {
	roundID := chi.URLParam(r, "roundID")

	// 404 for an unknown round, empty map for a user without picks.
	if _, err := h.tournaments.GetRound(r.Context(), roundID); err != nil {
		mapServiceErrorToHTTP(w, err)
		return
	}

	preds, err := h.predictions.GetUserPredictions(r.Context(), roundID, chi.URLParam(r, "userID"))
	if err != nil {
		mapServiceErrorToHTTP(w, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, jsonResponse{"predictions": preds}); err != nil {
		serverErrorResponse(w, err)
	}
}

package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/ickweb3/discord-predictions-bot/handlers"
)

// SetupRoutes assembles the read-only HTTP surface. All mutation goes
// through the Discord adapter; the API only exposes state and live
// leaderboard updates.
func SetupRoutes(
	router *chi.Mux,
	roundHandler *handlers.RoundHandler,
	tournamentHandler *handlers.TournamentHandler,
	webSocketHandler *handlers.WebSocketHandler,
) {
	router.Use(chiMiddleware.RequestID)
	router.Use(chiMiddleware.Logger)
	router.Use(chiMiddleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
	}))

	router.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	router.Route("/rounds", func(r chi.Router) {
		r.Get("/", roundHandler.ListRounds)
		r.Get("/{roundID}", roundHandler.GetRound)
		r.Get("/{roundID}/leaderboard", roundHandler.RoundLeaderboard)
		r.Get("/{roundID}/predictions/{userID}", roundHandler.UserPredictions)
	})

	router.Route("/tournaments", func(r chi.Router) {
		r.Get("/{tournamentID}", tournamentHandler.GetTournament)
		r.Get("/{tournamentID}/leaderboard", tournamentHandler.TournamentLeaderboard)
	})

	router.Get("/ws/rounds/{roundID}", webSocketHandler.ServeWs)
}

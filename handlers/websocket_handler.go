package handlers

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"

	"github.com/ickweb3/discord-predictions-bot/live"
	"github.com/ickweb3/discord-predictions-bot/services"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// TODO: restrict Origin once the frontend domain is fixed.
		return true
	},
}

type WebSocketHandler struct {
	hub         *live.Hub
	tournaments *services.TournamentService
}

func NewWebSocketHandler(hub *live.Hub, tournaments *services.TournamentService) *WebSocketHandler {
	return &WebSocketHandler{
		hub:         hub,
		tournaments: tournaments,
	}
}

// ServeWs subscribes the client to one round's live leaderboard updates:
// GET /ws/rounds/{roundID}
func (h *WebSocketHandler) ServeWs(w http.ResponseWriter, r *http.Request) {
	roundID := chi.URLParam(r, "roundID")

	if _, err := h.tournaments.GetRound(r.Context(), roundID); err != nil {
		mapServiceErrorToHTTP(w, err)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade already replied to the client.
		slog.Error("websocket upgrade failed", slog.String("round", roundID), slog.Any("error", err))
		return
	}

	h.hub.Join(conn, roundID)
}

package handlers_test

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ickweb3/discord-predictions-bot/handlers"
	"github.com/ickweb3/discord-predictions-bot/live"
	"github.com/ickweb3/discord-predictions-bot/models"
	"github.com/ickweb3/discord-predictions-bot/routes"
	"github.com/ickweb3/discord-predictions-bot/services"
	"github.com/ickweb3/discord-predictions-bot/store"
)

func newTestServer(t *testing.T) (*httptest.Server, *services.TournamentService, *services.PredictionService) {
	t.Helper()

	st, err := store.NewFileStore(t.TempDir())
	require.NoError(t, err)

	scoring := services.NewScoringService(st, st)
	tournaments := services.NewTournamentService(st, nil, nil, nil)
	predictions := services.NewPredictionService(st, st)

	hub := live.NewHub(slog.Default())
	go hub.Run()

	router := chi.NewRouter()
	routes.SetupRoutes(
		router,
		handlers.NewRoundHandler(tournaments, predictions, scoring),
		handlers.NewTournamentHandler(tournaments, scoring),
		handlers.NewWebSocketHandler(hub, tournaments),
	)

	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)
	return srv, tournaments, predictions
}

func getJSON(t *testing.T, url string, dst interface{}) int {
	t.Helper()
	resp, err := http.Get(url)
	require.NoError(t, err)
	defer resp.Body.Close()
	if dst != nil && resp.StatusCode == http.StatusOK {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(dst))
	}
	return resp.StatusCode
}

func TestGetRound(t *testing.T) {
	srv, tournaments, _ := newTestServer(t)
	ctx := context.Background()

	round, err := tournaments.CreateRound(ctx, "Round 1", "guild1", "")
	require.NoError(t, err)

	var body struct {
		Round models.Round `json:"round"`
	}
	status := getJSON(t, srv.URL+"/rounds/"+round.ID, &body)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "Round 1", body.Round.Name)

	status = getJSON(t, srv.URL+"/rounds/round_guild1_99", nil)
	assert.Equal(t, http.StatusNotFound, status)
}

func TestRoundLeaderboardEndpoint(t *testing.T) {
	srv, tournaments, predictions := newTestServer(t)
	ctx := context.Background()

	round, err := tournaments.CreateRound(ctx, "Round 1", "guild1", "")
	require.NoError(t, err)
	m, err := tournaments.AddMatch(ctx, round.ID, "A", "B")
	require.NoError(t, err)
	require.NoError(t, predictions.SubmitPrediction(ctx, round.ID, m.ID, "user1", models.OutcomeTeam1))
	require.NoError(t, tournaments.SetMatchResult(ctx, round.ID, 0, models.OutcomeTeam1))

	var body struct {
		Leaderboard []models.Score `json:"leaderboard"`
	}
	status := getJSON(t, srv.URL+"/rounds/"+round.ID+"/leaderboard", &body)
	assert.Equal(t, http.StatusOK, status)
	require.Len(t, body.Leaderboard, 1)
	assert.Equal(t, 100.0, body.Leaderboard[0].Percentage)
}

func TestListRoundsRequiresGuild(t *testing.T) {
	srv, _, _ := newTestServer(t)

	status := getJSON(t, srv.URL+"/rounds/", nil)
	assert.Equal(t, http.StatusBadRequest, status)
}

func TestUserPredictionsEndpoint(t *testing.T) {
	srv, tournaments, predictions := newTestServer(t)
	ctx := context.Background()

	round, err := tournaments.CreateRound(ctx, "Round 1", "guild1", "")
	require.NoError(t, err)
	m, err := tournaments.AddMatch(ctx, round.ID, "A", "B")
	require.NoError(t, err)
	require.NoError(t, predictions.SubmitPrediction(ctx, round.ID, m.ID, "user1", models.OutcomeTeam2))

	var body struct {
		Predictions map[string]models.Outcome `json:"predictions"`
	}
	status := getJSON(t, srv.URL+"/rounds/"+round.ID+"/predictions/user1", &body)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, models.OutcomeTeam2, body.Predictions[m.ID])

	status = getJSON(t, srv.URL+"/rounds/round_guild1_99/predictions/user1", nil)
	assert.Equal(t, http.StatusNotFound, status)
}

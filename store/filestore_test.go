package store

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ickweb3/discord-predictions-bot/models"
)

func TestNewFileStoreInitializesFiles(t *testing.T) {
	dir := t.TempDir()
	_, err := NewFileStore(dir)
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(dir, "tournaments.json"))
	require.NoError(t, err)

	var doc map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(data, &doc))
	assert.Contains(t, doc, "tournaments")
	assert.Contains(t, doc, "rounds")

	_, err = os.ReadFile(filepath.Join(dir, "predictions.json"))
	require.NoError(t, err)
}

func TestFileStoreRoundSurvivesReopen(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	st, err := NewFileStore(dir)
	require.NoError(t, err)

	round := &models.Round{
		ID:              "round_g_0",
		Name:            "Round 1",
		GuildID:         "g",
		CreatedAt:       time.Now().UTC().Truncate(time.Second),
		Matches:         []models.Match{{ID: "round_g_0_match_0", Team1: "A", Team2: "B"}},
		Active:          true,
		PredictionsOpen: true,
	}
	require.NoError(t, st.PutRound(ctx, round))

	reopened, err := NewFileStore(dir)
	require.NoError(t, err)

	got, err := reopened.GetRound(ctx, "round_g_0")
	require.NoError(t, err)
	assert.Equal(t, round.Name, got.Name)
	require.Len(t, got.Matches, 1)
	assert.Equal(t, "A", got.Matches[0].Team1)
}

func TestFileStoreNotFound(t *testing.T) {
	ctx := context.Background()
	st, err := NewFileStore(t.TempDir())
	require.NoError(t, err)

	_, err = st.GetRound(ctx, "missing")
	assert.True(t, errors.Is(err, ErrRoundNotFound))

	_, err = st.GetTournament(ctx, "missing")
	assert.True(t, errors.Is(err, ErrTournamentNotFound))

	_, _, err = st.FindRoundByMessage(ctx, "missing")
	assert.True(t, errors.Is(err, ErrMessageNotFound))
}

func TestFileStoreCounts(t *testing.T) {
	ctx := context.Background()
	st, err := NewFileStore(t.TempDir())
	require.NoError(t, err)

	n, err := st.CountRounds(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, n)

	require.NoError(t, st.PutRound(ctx, &models.Round{ID: "round_g_0", GuildID: "g"}))
	require.NoError(t, st.PutRound(ctx, &models.Round{ID: "round_g_1", GuildID: "g"}))
	// same id again replaces, not duplicates
	require.NoError(t, st.PutRound(ctx, &models.Round{ID: "round_g_1", GuildID: "g"}))

	n, err = st.CountRounds(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

func TestFileStorePredictionOverwrite(t *testing.T) {
	ctx := context.Background()
	st, err := NewFileStore(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, st.PutPrediction(ctx, "r1", "u1", "m1", models.OutcomeTeam1))
	require.NoError(t, st.PutPrediction(ctx, "r1", "u1", "m1", models.OutcomeTeam2))
	require.NoError(t, st.PutPrediction(ctx, "r1", "u2", "m1", models.OutcomeTeam1))

	mine, err := st.UserPredictions(ctx, "r1", "u1")
	require.NoError(t, err)
	assert.Equal(t, map[string]models.Outcome{"m1": models.OutcomeTeam2}, mine)

	all, err := st.RoundPredictions(ctx, "r1")
	require.NoError(t, err)
	assert.Len(t, all, 2)

	none, err := st.UserPredictions(ctx, "r1", "u3")
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestFileStoreFindRoundByMessage(t *testing.T) {
	ctx := context.Background()
	st, err := NewFileStore(t.TempDir())
	require.NoError(t, err)

	msgID := "msg-42"
	round := &models.Round{
		ID:      "round_g_0",
		GuildID: "g",
		Matches: []models.Match{
			{ID: "round_g_0_match_0"},
			{ID: "round_g_0_match_1", MessageID: &msgID},
		},
	}
	require.NoError(t, st.PutRound(ctx, round))

	got, idx, err := st.FindRoundByMessage(ctx, msgID)
	require.NoError(t, err)
	assert.Equal(t, "round_g_0", got.ID)
	assert.Equal(t, 1, idx)
}

func TestFileStoreDumps(t *testing.T) {
	ctx := context.Background()
	st, err := NewFileStore(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, st.PutTournament(ctx, &models.Tournament{ID: "tournament_g_0", GuildID: "g"}))
	require.NoError(t, st.PutRound(ctx, &models.Round{ID: "round_g_0", GuildID: "g"}))
	require.NoError(t, st.PutPrediction(ctx, "round_g_0", "u1", "m1", models.OutcomeTeam1))

	reg, err := st.DumpRegistry(ctx)
	require.NoError(t, err)
	assert.Len(t, reg.Tournaments, 1)
	assert.Len(t, reg.Rounds, 1)

	log, err := st.DumpPredictions(ctx)
	require.NoError(t, err)
	assert.Equal(t, models.OutcomeTeam1, log["round_g_0"]["u1"]["m1"])
}

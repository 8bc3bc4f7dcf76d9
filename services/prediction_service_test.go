package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ickweb3/discord-predictions-bot/models"
)

func TestSubmitPredictionOverwrites(t *testing.T) {
	ctx := context.Background()
	_, tournaments, predictions, _ := newTestServices(t)

	round, err := tournaments.CreateRound(ctx, "Finals", "guild1", "")
	require.NoError(t, err)
	m, err := tournaments.AddMatch(ctx, round.ID, "A", "B")
	require.NoError(t, err)

	require.NoError(t, predictions.SubmitPrediction(ctx, round.ID, m.ID, "user1", models.OutcomeTeam1))
	require.NoError(t, predictions.SubmitPrediction(ctx, round.ID, m.ID, "user1", models.OutcomeTeam2))

	got, err := predictions.GetUserPredictions(ctx, round.ID, "user1")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, models.OutcomeTeam2, got[m.ID])
}

func TestSubmitPredictionClosedRound(t *testing.T) {
	ctx := context.Background()
	_, tournaments, predictions, _ := newTestServices(t)

	round, err := tournaments.CreateRound(ctx, "Finals", "guild1", "")
	require.NoError(t, err)
	m, err := tournaments.AddMatch(ctx, round.ID, "A", "B")
	require.NoError(t, err)

	require.NoError(t, predictions.SubmitPrediction(ctx, round.ID, m.ID, "user1", models.OutcomeTeam1))
	require.NoError(t, tournaments.ClosePredictions(ctx, round.ID))

	err = predictions.SubmitPrediction(ctx, round.ID, m.ID, "user1", models.OutcomeTeam2)
	assert.True(t, errors.Is(err, ErrPredictionsClosed))

	// The rejected write must not have touched the stored pick.
	got, err := predictions.GetUserPredictions(ctx, round.ID, "user1")
	require.NoError(t, err)
	assert.Equal(t, models.OutcomeTeam1, got[m.ID])
}

func TestSubmitPredictionUnknownRound(t *testing.T) {
	_, _, predictions, _ := newTestServices(t)

	err := predictions.SubmitPrediction(context.Background(), "round_guild1_99", "m", "user1", models.OutcomeTeam1)
	assert.True(t, errors.Is(err, ErrRoundNotFound))
}

func TestSubmitPredictionInvalidOutcome(t *testing.T) {
	ctx := context.Background()
	_, tournaments, predictions, _ := newTestServices(t)

	round, err := tournaments.CreateRound(ctx, "Finals", "guild1", "")
	require.NoError(t, err)

	err = predictions.SubmitPrediction(ctx, round.ID, "m", "user1", models.Outcome("draw"))
	assert.True(t, errors.Is(err, ErrInvalidOutcome))
}

func TestGetUserPredictionsEmpty(t *testing.T) {
	ctx := context.Background()
	_, tournaments, predictions, _ := newTestServices(t)

	round, err := tournaments.CreateRound(ctx, "Finals", "guild1", "")
	require.NoError(t, err)

	got, err := predictions.GetUserPredictions(ctx, round.ID, "nobody")
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ickweb3/discord-predictions-bot/models"
	"github.com/ickweb3/discord-predictions-bot/store"
)

func newTestServices(t *testing.T) (*store.FileStore, *TournamentService, *PredictionService, *ScoringService) {
	t.Helper()
	st, err := store.NewFileStore(t.TempDir())
	require.NoError(t, err)
	return st,
		NewTournamentService(st, nil, nil, nil),
		NewPredictionService(st, st),
		NewScoringService(st, st)
}

func TestRoundLeaderboardMath(t *testing.T) {
	ctx := context.Background()
	_, tournaments, predictions, scoring := newTestServices(t)

	round, err := tournaments.CreateRound(ctx, "Quarterfinals", "guild1", "")
	require.NoError(t, err)

	m1, err := tournaments.AddMatch(ctx, round.ID, "NaVi", "G2")
	require.NoError(t, err)
	m2, err := tournaments.AddMatch(ctx, round.ID, "Vitality", "FaZe")
	require.NoError(t, err)
	m3, err := tournaments.AddMatch(ctx, round.ID, "Liquid", "Spirit")
	require.NoError(t, err)

	require.NoError(t, predictions.SubmitPrediction(ctx, round.ID, m1.ID, "user1", models.OutcomeTeam1))
	require.NoError(t, predictions.SubmitPrediction(ctx, round.ID, m2.ID, "user1", models.OutcomeTeam1))
	require.NoError(t, predictions.SubmitPrediction(ctx, round.ID, m3.ID, "user1", models.OutcomeTeam2))

	require.NoError(t, tournaments.SetMatchResult(ctx, round.ID, 0, models.OutcomeTeam1))
	require.NoError(t, tournaments.SetMatchResult(ctx, round.ID, 1, models.OutcomeTeam2))
	// m3 stays unresolved

	scores, err := scoring.RoundLeaderboard(ctx, round.ID)
	require.NoError(t, err)
	require.Len(t, scores, 1)
	assert.Equal(t, "user1", scores[0].UserID)
	assert.Equal(t, 1, scores[0].Correct)
	assert.Equal(t, 2, scores[0].Total)
	assert.Equal(t, 50.0, scores[0].Percentage)
}

func TestRoundLeaderboardExcludesUnscoredUsers(t *testing.T) {
	ctx := context.Background()
	_, tournaments, predictions, scoring := newTestServices(t)

	round, err := tournaments.CreateRound(ctx, "Group A", "guild1", "")
	require.NoError(t, err)

	m1, err := tournaments.AddMatch(ctx, round.ID, "A", "B")
	require.NoError(t, err)
	m2, err := tournaments.AddMatch(ctx, round.ID, "C", "D")
	require.NoError(t, err)

	// scorer predicted the resolved match, spectator only the pending one
	require.NoError(t, predictions.SubmitPrediction(ctx, round.ID, m1.ID, "scorer", models.OutcomeTeam1))
	require.NoError(t, predictions.SubmitPrediction(ctx, round.ID, m2.ID, "spectator", models.OutcomeTeam1))

	require.NoError(t, tournaments.SetMatchResult(ctx, round.ID, 0, models.OutcomeTeam1))

	scores, err := scoring.RoundLeaderboard(ctx, round.ID)
	require.NoError(t, err)
	require.Len(t, scores, 1)
	assert.Equal(t, "scorer", scores[0].UserID)
}

func TestRoundLeaderboardUnknownRound(t *testing.T) {
	_, _, _, scoring := newTestServices(t)

	_, err := scoring.RoundLeaderboard(context.Background(), "round_guild1_99")
	assert.True(t, errors.Is(err, ErrRoundNotFound))
}

func TestTournamentLeaderboardSumsBeforeDividing(t *testing.T) {
	ctx := context.Background()
	_, tournaments, predictions, scoring := newTestServices(t)

	tournament, err := tournaments.CreateTournament(ctx, "Major", "guild1")
	require.NoError(t, err)

	// Round 1: 4 resolved matches, user gets 3 right.
	round1, err := tournaments.CreateRound(ctx, "Round 1", "guild1", tournament.ID)
	require.NoError(t, err)
	r1Picks := []models.Outcome{models.OutcomeTeam1, models.OutcomeTeam1, models.OutcomeTeam1, models.OutcomeTeam2}
	r1Results := []models.Outcome{models.OutcomeTeam1, models.OutcomeTeam1, models.OutcomeTeam1, models.OutcomeTeam1}
	for idx := range r1Picks {
		m, err := tournaments.AddMatch(ctx, round1.ID, "T1", "T2")
		require.NoError(t, err)
		require.NoError(t, predictions.SubmitPrediction(ctx, round1.ID, m.ID, "user1", r1Picks[idx]))
		require.NoError(t, tournaments.SetMatchResult(ctx, round1.ID, idx, r1Results[idx]))
	}

	// Round 2: 2 resolved matches, user gets 1 right.
	round2, err := tournaments.CreateRound(ctx, "Round 2", "guild1", tournament.ID)
	require.NoError(t, err)
	r2Picks := []models.Outcome{models.OutcomeTeam1, models.OutcomeTeam2}
	r2Results := []models.Outcome{models.OutcomeTeam1, models.OutcomeTeam1}
	for idx := range r2Picks {
		m, err := tournaments.AddMatch(ctx, round2.ID, "T3", "T4")
		require.NoError(t, err)
		require.NoError(t, predictions.SubmitPrediction(ctx, round2.ID, m.ID, "user1", r2Picks[idx]))
		require.NoError(t, tournaments.SetMatchResult(ctx, round2.ID, idx, r2Results[idx]))
	}

	scores, err := scoring.TournamentLeaderboard(ctx, tournament.ID)
	require.NoError(t, err)
	require.Len(t, scores, 1)
	assert.Equal(t, 4, scores[0].Correct)
	assert.Equal(t, 6, scores[0].Total)
	// 4/6 summed is 66.7; averaging the per-round percentages would give
	// 62.5, which is exactly the bias the recompute avoids.
	assert.Equal(t, 66.7, scores[0].Percentage)
}

func TestTournamentLeaderboardSkipsMissingRounds(t *testing.T) {
	ctx := context.Background()
	st, tournaments, predictions, scoring := newTestServices(t)

	tournament, err := tournaments.CreateTournament(ctx, "Major", "guild1")
	require.NoError(t, err)

	round, err := tournaments.CreateRound(ctx, "Round 1", "guild1", tournament.ID)
	require.NoError(t, err)
	m, err := tournaments.AddMatch(ctx, round.ID, "A", "B")
	require.NoError(t, err)
	require.NoError(t, predictions.SubmitPrediction(ctx, round.ID, m.ID, "user1", models.OutcomeTeam1))
	require.NoError(t, tournaments.SetMatchResult(ctx, round.ID, 0, models.OutcomeTeam1))

	// Dangling round reference on the tournament side. Re-fetch first so
	// the real round link added by CreateRound is kept.
	tournament, err = tournaments.GetTournament(ctx, tournament.ID)
	require.NoError(t, err)
	tournament.RoundIDs = append(tournament.RoundIDs, "round_guild1_999")
	require.NoError(t, st.PutTournament(ctx, tournament))

	scores, err := scoring.TournamentLeaderboard(ctx, tournament.ID)
	require.NoError(t, err)
	require.Len(t, scores, 1)
	assert.Equal(t, 1, scores[0].Correct)
	assert.Equal(t, 1, scores[0].Total)
}

func TestTournamentLeaderboardUnknownTournament(t *testing.T) {
	_, _, _, scoring := newTestServices(t)

	_, err := scoring.TournamentLeaderboard(context.Background(), "tournament_guild1_99")
	assert.True(t, errors.Is(err, ErrTournamentNotFound))
}

func TestPercentageRoundsHalfToEven(t *testing.T) {
	assert.Equal(t, 6.2, percentage(1, 16))
	assert.Equal(t, 18.8, percentage(3, 16))
	assert.Equal(t, 50.0, percentage(1, 2))
	assert.Equal(t, 66.7, percentage(2, 3))
	assert.Equal(t, 0.0, percentage(0, 0))
}

func TestSortScoresOrdering(t *testing.T) {
	scores := []models.Score{
		{UserID: "first", Correct: 5, Total: 5, Percentage: 100.0},
		{UserID: "second", Correct: 4, Total: 4, Percentage: 100.0},
		{UserID: "third", Correct: 5, Total: 6, Percentage: 83.3},
	}

	sortScores(scores)

	// correct desc first, percentage desc only within equal correct
	assert.Equal(t, "first", scores[0].UserID)
	assert.Equal(t, "third", scores[1].UserID)
	assert.Equal(t, "second", scores[2].UserID)
}

func TestSortScoresTiebreakIsDeterministic(t *testing.T) {
	scores := []models.Score{
		{UserID: "zeta", Correct: 2, Total: 4, Percentage: 50.0},
		{UserID: "alpha", Correct: 2, Total: 4, Percentage: 50.0},
	}

	sortScores(scores)

	assert.Equal(t, "alpha", scores[0].UserID)
	assert.Equal(t, "zeta", scores[1].UserID)
}

package services

import (
	"context"
	"errors"
	"sort"
	"strconv"

	"github.com/ickweb3/discord-predictions-bot/models"
	"github.com/ickweb3/discord-predictions-bot/store"
)

// ScoringService computes leaderboards from the current state of the two
// collections. Nothing here is stored; every call recomputes from scratch.
type ScoringService struct {
	registry    store.RegistryStore
	predictions store.PredictionStore
}

func NewScoringService(registry store.RegistryStore, predictions store.PredictionStore) *ScoringService {
	return &ScoringService{
		registry:    registry,
		predictions: predictions,
	}
}

// RoundLeaderboard scores every user with at least one prediction in the
// round. Only matches with a recorded result count toward a user's total;
// a user whose predicted matches are all unresolved is left off the board
// entirely rather than shown as 0/0.
func (s *ScoringService) RoundLeaderboard(ctx context.Context, roundID string) ([]models.Score, error) {
	r, err := s.registry.GetRound(ctx, roundID)
	if err != nil {
		if errors.Is(err, store.ErrRoundNotFound) {
			return nil, ErrRoundNotFound
		}
		return nil, err
	}

	preds, err := s.predictions.RoundPredictions(ctx, roundID)
	if err != nil {
		return nil, err
	}

	scores := make([]models.Score, 0, len(preds))
	for userID, picks := range preds {
		var correct, total int
		for _, m := range r.Matches {
			if m.Result == nil {
				continue
			}
			pick, ok := picks[m.ID]
			if !ok {
				continue
			}
			total++
			if pick == *m.Result {
				correct++
			}
		}
		if total == 0 {
			continue
		}
		scores = append(scores, models.Score{
			UserID:     userID,
			Correct:    correct,
			Total:      total,
			Percentage: percentage(correct, total),
		})
	}

	sortScores(scores)
	return scores, nil
}

// TournamentLeaderboard sums correct and total per user across the
// tournament's rounds, then recomputes the percentage from the sums.
// Averaging per-round percentages would overweight small rounds, so the
// recompute is deliberate. Rounds that no longer resolve are skipped.
func (s *ScoringService) TournamentLeaderboard(ctx context.Context, tournamentID string) ([]models.Score, error) {
	t, err := s.registry.GetTournament(ctx, tournamentID)
	if err != nil {
		if errors.Is(err, store.ErrTournamentNotFound) {
			return nil, ErrTournamentNotFound
		}
		return nil, err
	}

	totals := make(map[string]*models.Score)
	for _, roundID := range t.RoundIDs {
		roundScores, err := s.RoundLeaderboard(ctx, roundID)
		if err != nil {
			if errors.Is(err, ErrRoundNotFound) {
				continue
			}
			return nil, err
		}
		for _, sc := range roundScores {
			agg, ok := totals[sc.UserID]
			if !ok {
				agg = &models.Score{UserID: sc.UserID}
				totals[sc.UserID] = agg
			}
			agg.Correct += sc.Correct
			agg.Total += sc.Total
		}
	}

	scores := make([]models.Score, 0, len(totals))
	for _, agg := range totals {
		agg.Percentage = percentage(agg.Correct, agg.Total)
		scores = append(scores, *agg)
	}

	sortScores(scores)
	return scores, nil
}

// percentage rounds to one decimal with ties going to the even digit
// (1/16 is 6.2, not 6.3), keeping scores identical to what the data files
// have always held.
func percentage(correct, total int) float64 {
	if total == 0 {
		return 0
	}
	pct := float64(correct) / float64(total) * 100
	rounded, _ := strconv.ParseFloat(strconv.FormatFloat(pct, 'f', 1, 64), 64)
	return rounded
}

// sortScores orders by correct desc, percentage desc, then user id asc so
// ties always come out in the same order.
func sortScores(scores []models.Score) {
	sort.Slice(scores, func(i, j int) bool {
		if scores[i].Correct != scores[j].Correct {
			return scores[i].Correct > scores[j].Correct
		}
		if scores[i].Percentage != scores[j].Percentage {
			return scores[i].Percentage > scores[j].Percentage
		}
		return scores[i].UserID < scores[j].UserID
	})
}

package services

import (
	"context"
	"errors"

	"github.com/ickweb3/discord-predictions-bot/models"
	"github.com/ickweb3/discord-predictions-bot/store"
)

// PredictionService records user predictions. One outcome per
// (round, user, match) key; a later submission overwrites the earlier one,
// so only the last choice before the round closes counts. There is no
// history, only current state.
type PredictionService struct {
	registry    store.RegistryStore
	predictions store.PredictionStore
}

func NewPredictionService(registry store.RegistryStore, predictions store.PredictionStore) *PredictionService {
	return &PredictionService{
		registry:    registry,
		predictions: predictions,
	}
}

// SubmitPrediction stores the user's pick for a match. The adapter has
// already resolved the match to its round; the ledger still rechecks the
// prediction window itself so a late signal can never slip through.
func (s *PredictionService) SubmitPrediction(ctx context.Context, roundID, matchID, userID string, pick models.Outcome) error {
	if !pick.Valid() {
		return ErrInvalidOutcome
	}

	r, err := s.registry.GetRound(ctx, roundID)
	if err != nil {
		if errors.Is(err, store.ErrRoundNotFound) {
			return ErrRoundNotFound
		}
		return err
	}
	if !r.PredictionsOpen {
		return ErrPredictionsClosed
	}

	return s.predictions.PutPrediction(ctx, roundID, userID, matchID, pick)
}

// GetUserPredictions returns the user's current picks for the round,
// keyed by match id. No predictions is an empty map, not an error.
func (s *PredictionService) GetUserPredictions(ctx context.Context, roundID, userID string) (map[string]models.Outcome, error) {
	return s.predictions.UserPredictions(ctx, roundID, userID)
}

package store

import (
	"context"
	"errors"

	"github.com/ickweb3/discord-predictions-bot/models"
)

var (
	ErrTournamentNotFound = errors.New("tournament not found")
	ErrRoundNotFound      = errors.New("round not found")
	ErrMessageNotFound    = errors.New("no match bound to message")
)

// RegistryStore persists tournaments and rounds. Get/Put work on whole
// records; callers doing read-modify-write are responsible for serializing
// concurrent writers (the services hold one mutex per collection).
type RegistryStore interface {
	GetTournament(ctx context.Context, id string) (*models.Tournament, error)
	PutTournament(ctx context.Context, t *models.Tournament) error
	GetRound(ctx context.Context, id string) (*models.Round, error)
	PutRound(ctx context.Context, r *models.Round) error
	ListRounds(ctx context.Context, guildID string) ([]*models.Round, error)

	// FindRoundByMessage scans rounds for the match bound to the given
	// surface message id and returns the round plus the match index.
	FindRoundByMessage(ctx context.Context, messageID string) (*models.Round, int, error)

	CountTournaments(ctx context.Context) (int, error)
	CountRounds(ctx context.Context) (int, error)

	DumpRegistry(ctx context.Context) (*models.Registry, error)
}

// PredictionStore persists the prediction log. PutPrediction replaces any
// previous outcome for the same (round, user, match) key.
type PredictionStore interface {
	PutPrediction(ctx context.Context, roundID, userID, matchID string, pick models.Outcome) error
	UserPredictions(ctx context.Context, roundID, userID string) (map[string]models.Outcome, error)
	RoundPredictions(ctx context.Context, roundID string) (map[string]map[string]models.Outcome, error)

	DumpPredictions(ctx context.Context) (models.PredictionLog, error)
}

// Store is the full backing store contract.
type Store interface {
	RegistryStore
	PredictionStore
}

package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/ickweb3/discord-predictions-bot/live"
	"github.com/ickweb3/discord-predictions-bot/models"
	"github.com/ickweb3/discord-predictions-bot/store"
)

// TournamentService owns creation and lifecycle of tournaments, rounds and
// matches. A single mutex serializes every read-modify-write against the
// registry collection so that concurrent admin commands cannot lose
// updates; expected load is a chat community, so one writer at a time is
// plenty.
type TournamentService struct {
	store   store.RegistryStore
	scoring *ScoringService
	hub     *live.Hub
	logger  *slog.Logger

	mu sync.Mutex
}

// NewTournamentService wires the manager. scoring and hub may be nil, in
// which case no live updates are pushed.
func NewTournamentService(st store.RegistryStore, scoring *ScoringService, hub *live.Hub, logger *slog.Logger) *TournamentService {
	if logger == nil {
		logger = slog.Default()
	}
	return &TournamentService{
		store:   st,
		scoring: scoring,
		hub:     hub,
		logger:  logger,
	}
}

// CreateTournament registers a new tournament for the guild. Ids are
// derived from the current collection size, matching the scheme the data
// files have always used.
func (s *TournamentService) CreateTournament(ctx context.Context, name, guildID string) (*models.Tournament, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	n, err := s.store.CountTournaments(ctx)
	if err != nil {
		return nil, err
	}

	t := &models.Tournament{
		ID:        fmt.Sprintf("tournament_%s_%d", guildID, n),
		Name:      name,
		GuildID:   guildID,
		CreatedAt: time.Now().UTC(),
		RoundIDs:  []string{},
		Active:    true,
	}
	if err := s.store.PutTournament(ctx, t); err != nil {
		return nil, err
	}
	return t, nil
}

// CreateRound registers a new round, optionally linked to a tournament.
// An unresolvable tournamentID is not an error: the round is still created
// standalone, only the back-link on the tournament side is skipped.
func (s *TournamentService) CreateRound(ctx context.Context, name, guildID, tournamentID string) (*models.Round, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	n, err := s.store.CountRounds(ctx)
	if err != nil {
		return nil, err
	}

	r := &models.Round{
		ID:              fmt.Sprintf("round_%s_%d", guildID, n),
		Name:            name,
		GuildID:         guildID,
		CreatedAt:       time.Now().UTC(),
		Matches:         []models.Match{},
		Active:          true,
		PredictionsOpen: true,
	}
	if tournamentID != "" {
		r.TournamentID = &tournamentID
	}

	// Round first, back-link second: a failed link must not leave the
	// tournament listing a round that was never persisted.
	if err := s.store.PutRound(ctx, r); err != nil {
		return nil, err
	}

	if tournamentID != "" {
		t, err := s.store.GetTournament(ctx, tournamentID)
		switch {
		case err == nil:
			t.RoundIDs = append(t.RoundIDs, r.ID)
			if err := s.store.PutTournament(ctx, t); err != nil {
				return nil, err
			}
		case errors.Is(err, store.ErrTournamentNotFound):
			s.logger.Warn("round created with unknown tournament",
				slog.String("round", r.ID), slog.String("tournament", tournamentID))
		default:
			return nil, err
		}
	}
	return r, nil
}

// AddMatch appends a match to the round. Match ids are deterministic,
// derived from the round id and the match ordinal, so users can refer to
// matches by number.
func (s *TournamentService) AddMatch(ctx context.Context, roundID, team1, team2 string) (*models.Match, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	r, err := s.getRound(ctx, roundID)
	if err != nil {
		return nil, err
	}

	m := models.Match{
		ID:    fmt.Sprintf("%s_match_%d", roundID, len(r.Matches)),
		Team1: team1,
		Team2: team2,
	}
	r.Matches = append(r.Matches, m)

	if err := s.store.PutRound(ctx, r); err != nil {
		return nil, err
	}
	return &m, nil
}

// AttachSurfaceMessage binds the chat message users react to onto a match.
// Metadata only; called once the adapter has posted the message.
func (s *TournamentService) AttachSurfaceMessage(ctx context.Context, roundID string, matchIndex int, messageID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	r, err := s.getRound(ctx, roundID)
	if err != nil {
		return err
	}
	if matchIndex < 0 || matchIndex >= len(r.Matches) {
		return ErrMatchIndexOutOfRange
	}

	r.Matches[matchIndex].MessageID = &messageID
	return s.store.PutRound(ctx, r)
}

// ClosePredictions ends the round's prediction window. Closing an already
// closed round is a no-op, as is closing a round that does not exist;
// callers that care check the round first.
func (s *TournamentService) ClosePredictions(ctx context.Context, roundID string) error {
	s.mu.Lock()
	r, err := s.getRound(ctx, roundID)
	if err != nil {
		s.mu.Unlock()
		if errors.Is(err, ErrRoundNotFound) {
			return nil
		}
		return err
	}

	r.PredictionsOpen = false
	if err := s.store.PutRound(ctx, r); err != nil {
		s.mu.Unlock()
		return err
	}
	s.mu.Unlock()

	s.broadcast(ctx, roundID, live.EventPredictionsClosed)
	return nil
}

// SetMatchResult records the winner of a match. An existing result is
// overwritten; corrections are allowed.
func (s *TournamentService) SetMatchResult(ctx context.Context, roundID string, matchIndex int, outcome models.Outcome) error {
	if !outcome.Valid() {
		return ErrInvalidOutcome
	}

	s.mu.Lock()
	r, err := s.getRound(ctx, roundID)
	if err != nil {
		s.mu.Unlock()
		return err
	}
	if matchIndex < 0 || matchIndex >= len(r.Matches) {
		s.mu.Unlock()
		return ErrMatchIndexOutOfRange
	}

	r.Matches[matchIndex].Result = &outcome
	if err := s.store.PutRound(ctx, r); err != nil {
		s.mu.Unlock()
		return err
	}
	s.mu.Unlock()

	s.broadcast(ctx, roundID, live.EventResultSet)
	return nil
}

func (s *TournamentService) GetRound(ctx context.Context, roundID string) (*models.Round, error) {
	return s.getRound(ctx, roundID)
}

func (s *TournamentService) GetTournament(ctx context.Context, tournamentID string) (*models.Tournament, error) {
	t, err := s.store.GetTournament(ctx, tournamentID)
	if err != nil {
		if errors.Is(err, store.ErrTournamentNotFound) {
			return nil, ErrTournamentNotFound
		}
		return nil, err
	}
	return t, nil
}

// ListRounds returns every round registered for the guild.
func (s *TournamentService) ListRounds(ctx context.Context, guildID string) ([]*models.Round, error) {
	return s.store.ListRounds(ctx, guildID)
}

// ResolveSurfaceMessage locates the round and match a reaction landed on.
func (s *TournamentService) ResolveSurfaceMessage(ctx context.Context, messageID string) (*models.Round, int, error) {
	r, idx, err := s.store.FindRoundByMessage(ctx, messageID)
	if err != nil {
		if errors.Is(err, store.ErrMessageNotFound) {
			return nil, 0, ErrMatchNotFound
		}
		return nil, 0, err
	}
	return r, idx, nil
}

func (s *TournamentService) getRound(ctx context.Context, roundID string) (*models.Round, error) {
	r, err := s.store.GetRound(ctx, roundID)
	if err != nil {
		if errors.Is(err, store.ErrRoundNotFound) {
			return nil, ErrRoundNotFound
		}
		return nil, err
	}
	return r, nil
}

// broadcast pushes the round's fresh leaderboard into its live room.
// Failures are logged and dropped; a missed push never fails the admin
// operation that triggered it.
func (s *TournamentService) broadcast(ctx context.Context, roundID, eventType string) {
	if s.hub == nil || s.scoring == nil {
		return
	}
	scores, err := s.scoring.RoundLeaderboard(ctx, roundID)
	if err != nil {
		s.logger.Error("leaderboard broadcast skipped",
			slog.String("round", roundID), slog.Any("error", err))
		return
	}
	s.hub.BroadcastToRoom(roundID, eventType, scores)
}

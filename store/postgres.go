package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/ickweb3/discord-predictions-bot/models"
)

// PostgresStore keeps tournaments and rounds as jsonb documents and
// predictions as plain rows with an upsert on the (round, user, match)
// key. Documents keep the same JSON shape as the file store, so the two
// backends stay interchangeable.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgresStore(ctx context.Context, db *sql.DB) (*PostgresStore, error) {
	s := &PostgresStore{db: db}
	if err := s.ensureSchema(ctx); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *PostgresStore) ensureSchema(ctx context.Context) error {
	const schema = `
		CREATE TABLE IF NOT EXISTS tournaments (
			id  TEXT PRIMARY KEY,
			doc JSONB NOT NULL
		);
		CREATE TABLE IF NOT EXISTS rounds (
			id  TEXT PRIMARY KEY,
			doc JSONB NOT NULL
		);
		CREATE TABLE IF NOT EXISTS predictions (
			round_id TEXT NOT NULL,
			user_id  TEXT NOT NULL,
			match_id TEXT NOT NULL,
			pick     TEXT NOT NULL,
			PRIMARY KEY (round_id, user_id, match_id)
		);`

	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}
	return nil
}

func getDoc[T any](ctx context.Context, db *sql.DB, table, id string, notFound error) (*T, error) {
	var raw []byte
	query := fmt.Sprintf(`SELECT doc FROM %s WHERE id = $1`, table)
	err := db.QueryRowContext(ctx, query, id).Scan(&raw)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, notFound
		}
		return nil, err
	}

	v := new(T)
	if err := json.Unmarshal(raw, v); err != nil {
		return nil, fmt.Errorf("decode %s %s: %w", table, id, err)
	}
	return v, nil
}

func putDoc(ctx context.Context, db *sql.DB, table, id string, v interface{}) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s %s: %w", table, id, err)
	}

	query := fmt.Sprintf(`
		INSERT INTO %s (id, doc) VALUES ($1, $2)
		ON CONFLICT (id) DO UPDATE SET doc = EXCLUDED.doc`, table)
	_, err = db.ExecContext(ctx, query, id, raw)
	return err
}

func (s *PostgresStore) GetTournament(ctx context.Context, id string) (*models.Tournament, error) {
	return getDoc[models.Tournament](ctx, s.db, "tournaments", id, ErrTournamentNotFound)
}

func (s *PostgresStore) PutTournament(ctx context.Context, t *models.Tournament) error {
	return putDoc(ctx, s.db, "tournaments", t.ID, t)
}

func (s *PostgresStore) GetRound(ctx context.Context, id string) (*models.Round, error) {
	return getDoc[models.Round](ctx, s.db, "rounds", id, ErrRoundNotFound)
}

func (s *PostgresStore) PutRound(ctx context.Context, r *models.Round) error {
	return putDoc(ctx, s.db, "rounds", r.ID, r)
}

func (s *PostgresStore) listRounds(ctx context.Context, query string, args ...interface{}) ([]*models.Round, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	rounds := make([]*models.Round, 0)
	for rows.Next() {
		var raw []byte
		if err := rows.Scan(&raw); err != nil {
			return nil, err
		}
		r := &models.Round{}
		if err := json.Unmarshal(raw, r); err != nil {
			return nil, fmt.Errorf("decode round: %w", err)
		}
		rounds = append(rounds, r)
	}
	return rounds, rows.Err()
}

func (s *PostgresStore) ListRounds(ctx context.Context, guildID string) ([]*models.Round, error) {
	return s.listRounds(ctx, `SELECT doc FROM rounds WHERE doc->>'guild_id' = $1`, guildID)
}

func (s *PostgresStore) FindRoundByMessage(ctx context.Context, messageID string) (*models.Round, int, error) {
	rounds, err := s.listRounds(ctx,
		`SELECT doc FROM rounds WHERE doc->'matches' @> $1::jsonb`,
		fmt.Sprintf(`[{"message_id": %q}]`, messageID))
	if err != nil {
		return nil, 0, err
	}
	for _, r := range rounds {
		for i := range r.Matches {
			if r.Matches[i].MessageID != nil && *r.Matches[i].MessageID == messageID {
				return r, i, nil
			}
		}
	}
	return nil, 0, ErrMessageNotFound
}

func (s *PostgresStore) count(ctx context.Context, table string) (int, error) {
	var n int
	query := fmt.Sprintf(`SELECT COUNT(*) FROM %s`, table)
	if err := s.db.QueryRowContext(ctx, query).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

func (s *PostgresStore) CountTournaments(ctx context.Context) (int, error) {
	return s.count(ctx, "tournaments")
}

func (s *PostgresStore) CountRounds(ctx context.Context) (int, error) {
	return s.count(ctx, "rounds")
}

func (s *PostgresStore) DumpRegistry(ctx context.Context) (*models.Registry, error) {
	reg := models.NewRegistry()

	rows, err := s.db.QueryContext(ctx, `SELECT doc FROM tournaments`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var raw []byte
		if err := rows.Scan(&raw); err != nil {
			return nil, err
		}
		t := &models.Tournament{}
		if err := json.Unmarshal(raw, t); err != nil {
			return nil, fmt.Errorf("decode tournament: %w", err)
		}
		reg.Tournaments[t.ID] = t
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	rounds, err := s.listRounds(ctx, `SELECT doc FROM rounds`)
	if err != nil {
		return nil, err
	}
	for _, r := range rounds {
		reg.Rounds[r.ID] = r
	}
	return reg, nil
}

func (s *PostgresStore) PutPrediction(ctx context.Context, roundID, userID, matchID string, pick models.Outcome) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO predictions (round_id, user_id, match_id, pick)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (round_id, user_id, match_id) DO UPDATE SET pick = EXCLUDED.pick`,
		roundID, userID, matchID, string(pick))
	return err
}

func (s *PostgresStore) UserPredictions(ctx context.Context, roundID, userID string) (map[string]models.Outcome, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT match_id, pick FROM predictions WHERE round_id = $1 AND user_id = $2`,
		roundID, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	preds := make(map[string]models.Outcome)
	for rows.Next() {
		var matchID, pick string
		if err := rows.Scan(&matchID, &pick); err != nil {
			return nil, err
		}
		preds[matchID] = models.Outcome(pick)
	}
	return preds, rows.Err()
}

func (s *PostgresStore) RoundPredictions(ctx context.Context, roundID string) (map[string]map[string]models.Outcome, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT user_id, match_id, pick FROM predictions WHERE round_id = $1`, roundID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	preds := make(map[string]map[string]models.Outcome)
	for rows.Next() {
		var userID, matchID, pick string
		if err := rows.Scan(&userID, &matchID, &pick); err != nil {
			return nil, err
		}
		if preds[userID] == nil {
			preds[userID] = make(map[string]models.Outcome)
		}
		preds[userID][matchID] = models.Outcome(pick)
	}
	return preds, rows.Err()
}

func (s *PostgresStore) DumpPredictions(ctx context.Context) (models.PredictionLog, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT round_id, user_id, match_id, pick FROM predictions`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	log := models.PredictionLog{}
	for rows.Next() {
		var roundID, userID, matchID, pick string
		if err := rows.Scan(&roundID, &userID, &matchID, &pick); err != nil {
			return nil, err
		}
		if log[roundID] == nil {
			log[roundID] = make(map[string]map[string]models.Outcome)
		}
		if log[roundID][userID] == nil {
			log[roundID][userID] = make(map[string]models.Outcome)
		}
		log[roundID][userID][matchID] = models.Outcome(pick)
	}
	return log, rows.Err()
}

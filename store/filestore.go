package store

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/ickweb3/discord-predictions-bot/models"
)

const (
	registryFile    = "tournaments.json"
	predictionsFile = "predictions.json"
)

// FileStore keeps both collections as JSON documents on disk, one file per
// collection, in the same layout the data files have always had. Every
// operation reads the file fresh and replaces it whole, so a read always
// reflects the latest write. Replacement goes through a temp file and
// rename to keep a crashed write from leaving a torn document behind.
type FileStore struct {
	registryPath    string
	predictionsPath string

	regMu  sync.Mutex
	predMu sync.Mutex
}

func NewFileStore(dataDir string) (*FileStore, error) {
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}

	fs := &FileStore{
		registryPath:    filepath.Join(dataDir, registryFile),
		predictionsPath: filepath.Join(dataDir, predictionsFile),
	}

	if _, err := os.Stat(fs.registryPath); os.IsNotExist(err) {
		if err := writeJSONFile(fs.registryPath, models.NewRegistry()); err != nil {
			return nil, err
		}
	}
	if _, err := os.Stat(fs.predictionsPath); os.IsNotExist(err) {
		if err := writeJSONFile(fs.predictionsPath, models.PredictionLog{}); err != nil {
			return nil, err
		}
	}

	return fs, nil
}

func writeJSONFile(path string, v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal %s: %w", filepath.Base(path), err)
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", filepath.Base(tmp), err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("replace %s: %w", filepath.Base(path), err)
	}
	return nil
}

func (s *FileStore) loadRegistry() (*models.Registry, error) {
	data, err := os.ReadFile(s.registryPath)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", registryFile, err)
	}
	reg := models.NewRegistry()
	if err := json.Unmarshal(data, reg); err != nil {
		return nil, fmt.Errorf("decode %s: %w", registryFile, err)
	}
	if reg.Tournaments == nil {
		reg.Tournaments = make(map[string]*models.Tournament)
	}
	if reg.Rounds == nil {
		reg.Rounds = make(map[string]*models.Round)
	}
	return reg, nil
}

func (s *FileStore) loadPredictions() (models.PredictionLog, error) {
	data, err := os.ReadFile(s.predictionsPath)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", predictionsFile, err)
	}
	log := models.PredictionLog{}
	if err := json.Unmarshal(data, &log); err != nil {
		return nil, fmt.Errorf("decode %s: %w", predictionsFile, err)
	}
	return log, nil
}

func (s *FileStore) GetTournament(ctx context.Context, id string) (*models.Tournament, error) {
	s.regMu.Lock()
	defer s.regMu.Unlock()

	reg, err := s.loadRegistry()
	if err != nil {
		return nil, err
	}
	t, ok := reg.Tournaments[id]
	if !ok {
		return nil, ErrTournamentNotFound
	}
	return t, nil
}

func (s *FileStore) PutTournament(ctx context.Context, t *models.Tournament) error {
	s.regMu.Lock()
	defer s.regMu.Unlock()

	reg, err := s.loadRegistry()
	if err != nil {
		return err
	}
	reg.Tournaments[t.ID] = t
	return writeJSONFile(s.registryPath, reg)
}

func (s *FileStore) GetRound(ctx context.Context, id string) (*models.Round, error) {
	s.regMu.Lock()
	defer s.regMu.Unlock()

	reg, err := s.loadRegistry()
	if err != nil {
		return nil, err
	}
	r, ok := reg.Rounds[id]
	if !ok {
		return nil, ErrRoundNotFound
	}
	return r, nil
}

func (s *FileStore) PutRound(ctx context.Context, r *models.Round) error {
	s.regMu.Lock()
	defer s.regMu.Unlock()

	reg, err := s.loadRegistry()
	if err != nil {
		return err
	}
	reg.Rounds[r.ID] = r
	return writeJSONFile(s.registryPath, reg)
}

func (s *FileStore) ListRounds(ctx context.Context, guildID string) ([]*models.Round, error) {
	s.regMu.Lock()
	defer s.regMu.Unlock()

	reg, err := s.loadRegistry()
	if err != nil {
		return nil, err
	}
	rounds := make([]*models.Round, 0)
	for _, r := range reg.Rounds {
		if r.GuildID == guildID {
			rounds = append(rounds, r)
		}
	}
	return rounds, nil
}

func (s *FileStore) FindRoundByMessage(ctx context.Context, messageID string) (*models.Round, int, error) {
	s.regMu.Lock()
	defer s.regMu.Unlock()

	reg, err := s.loadRegistry()
	if err != nil {
		return nil, 0, err
	}
	for _, r := range reg.Rounds {
		for i := range r.Matches {
			if r.Matches[i].MessageID != nil && *r.Matches[i].MessageID == messageID {
				return r, i, nil
			}
		}
	}
	return nil, 0, ErrMessageNotFound
}

func (s *FileStore) CountTournaments(ctx context.Context) (int, error) {
	s.regMu.Lock()
	defer s.regMu.Unlock()

	reg, err := s.loadRegistry()
	if err != nil {
		return 0, err
	}
	return len(reg.Tournaments), nil
}

func (s *FileStore) CountRounds(ctx context.Context) (int, error) {
	s.regMu.Lock()
	defer s.regMu.Unlock()

	reg, err := s.loadRegistry()
	if err != nil {
		return 0, err
	}
	return len(reg.Rounds), nil
}

func (s *FileStore) DumpRegistry(ctx context.Context) (*models.Registry, error) {
	s.regMu.Lock()
	defer s.regMu.Unlock()

	return s.loadRegistry()
}

func (s *FileStore) PutPrediction(ctx context.Context, roundID, userID, matchID string, pick models.Outcome) error {
	s.predMu.Lock()
	defer s.predMu.Unlock()

	log, err := s.loadPredictions()
	if err != nil {
		return err
	}
	if log[roundID] == nil {
		log[roundID] = make(map[string]map[string]models.Outcome)
	}
	if log[roundID][userID] == nil {
		log[roundID][userID] = make(map[string]models.Outcome)
	}
	log[roundID][userID][matchID] = pick
	return writeJSONFile(s.predictionsPath, log)
}

func (s *FileStore) UserPredictions(ctx context.Context, roundID, userID string) (map[string]models.Outcome, error) {
	s.predMu.Lock()
	defer s.predMu.Unlock()

	log, err := s.loadPredictions()
	if err != nil {
		return nil, err
	}
	preds := log[roundID][userID]
	if preds == nil {
		preds = make(map[string]models.Outcome)
	}
	return preds, nil
}

func (s *FileStore) RoundPredictions(ctx context.Context, roundID string) (map[string]map[string]models.Outcome, error) {
	s.predMu.Lock()
	defer s.predMu.Unlock()

	log, err := s.loadPredictions()
	if err != nil {
		return nil, err
	}
	preds := log[roundID]
	if preds == nil {
		preds = make(map[string]map[string]models.Outcome)
	}
	return preds, nil
}

func (s *FileStore) DumpPredictions(ctx context.Context) (models.PredictionLog, error) {
	s.predMu.Lock()
	defer s.predMu.Unlock()

	return s.loadPredictions()
}

package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/ickweb3/discord-predictions-bot/storage"
	"github.com/ickweb3/discord-predictions-bot/store"
)

// SnapshotService exports both collections as JSON and uploads them to
// object storage. Snapshots are keyed by timestamp; nothing is overwritten
// or pruned, old snapshots just accumulate in the bucket.
type SnapshotService struct {
	store    store.Store
	uploader storage.SnapshotUploader
	logger   *slog.Logger
}

func NewSnapshotService(st store.Store, uploader storage.SnapshotUploader, logger *slog.Logger) *SnapshotService {
	if logger == nil {
		logger = slog.Default()
	}
	return &SnapshotService{
		store:    st,
		uploader: uploader,
		logger:   logger,
	}
}

// Snapshot uploads the two collection documents under a shared timestamp
// prefix. Both uploads run concurrently; the first failure cancels the
// other.
func (s *SnapshotService) Snapshot(ctx context.Context) error {
	prefix := fmt.Sprintf("snapshots/%s", time.Now().UTC().Format("20060102T150405Z"))

	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		reg, err := s.store.DumpRegistry(gCtx)
		if err != nil {
			return fmt.Errorf("dump registry: %w", err)
		}
		return s.upload(gCtx, prefix+"/tournaments.json", reg)
	})

	g.Go(func() error {
		log, err := s.store.DumpPredictions(gCtx)
		if err != nil {
			return fmt.Errorf("dump predictions: %w", err)
		}
		return s.upload(gCtx, prefix+"/predictions.json", log)
	})

	if err := g.Wait(); err != nil {
		return err
	}
	s.logger.Info("snapshot uploaded", slog.String("prefix", prefix))
	return nil
}

func (s *SnapshotService) upload(ctx context.Context, key string, v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal %s: %w", key, err)
	}
	if _, err := s.uploader.Upload(ctx, key, "application/json", bytes.NewReader(data)); err != nil {
		return err
	}
	return nil
}

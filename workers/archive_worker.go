// workers/archive_worker.go
package workers

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"
)

const archiveBatchSize = 20

// Archiver stores snapshots of finished games.
type Archiver interface {
	ArchivePending(ctx context.Context, limit int) (int, error)
}

type ArchiveWorker struct {
	archiver Archiver
	interval time.Duration
}

func NewArchiveWorker(archiver Archiver, interval time.Duration) *ArchiveWorker {
	if interval <= 0 {
		interval = 30 * time.Second
	}
	return &ArchiveWorker{archiver: archiver, interval: interval}
}

func (w *ArchiveWorker) Start(ctx context.Context) {
	log.Info().Dur("interval", w.interval).Msg("starting archive worker")
	go w.run(ctx)
}

func (w *ArchiveWorker) run(ctx context.Context) {
	// Catch up on anything that finished while we were down.
	w.tick(ctx)

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			w.tick(ctx)
		case <-ctx.Done():
			log.Info().Msg("archive worker stopped")
			return
		}
	}
}

func (w *ArchiveWorker) tick(ctx context.Context) {
	for {
		n, err := w.archiver.ArchivePending(ctx, archiveBatchSize)
		if err != nil {
			log.Error().Err(err).Msg("archive batch failed")
			return
		}
		if n < archiveBatchSize || ctx.Err() != nil {
			return
		}
	}
}

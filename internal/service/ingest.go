package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"quipvid/internal/domain"
)

var errMissingID = errors.New("record has no id")

// IngestService runs one batch: fetch the feed, upsert every record, commit
// once at the end. A record that fails its upsert is logged and skipped; no
// single bad record aborts the batch.
type IngestService struct {
	source    Source
	store     ImportStore
	txManager TransactionManager
	publisher Publisher
	logger    *slog.Logger
}

func NewIngestService(
	source Source,
	store ImportStore,
	txManager TransactionManager,
	publisher Publisher,
	logger *slog.Logger,
) *IngestService {
	return &IngestService{
		source:    source,
		store:     store,
		txManager: txManager,
		publisher: publisher,
		logger:    logger.With("source", source.Name()),
	}
}

// Run executes the batch. The returned stats are valid even when err is
// non-nil, reflecting whatever happened before the failure.
func (s *IngestService) Run(ctx context.Context) (*domain.IngestStats, error) {
	startTime := time.Now()
	s.logger.Info("starting ingest")

	records, err := s.source.FetchVideos(ctx)
	if err != nil {
		return &domain.IngestStats{}, fmt.Errorf("fetch feed: %w", err)
	}

	stats := &domain.IngestStats{Fetched: len(records)}

	if len(records) == 0 {
		s.logger.Info("no records to process")
		stats.Duration = time.Since(startTime)
		return stats, nil
	}

	ids := make([]string, 0, len(records))
	for _, r := range records {
		if r.ID != "" {
			ids = append(ids, r.ID)
		}
	}
	existing, err := s.store.ExistingIDs(ctx, ids)
	if err != nil {
		return stats, fmt.Errorf("check existing ids: %w", err)
	}

	err = s.txManager.WithTransaction(ctx, func(txCtx context.Context) error {
		for i := range records {
			rec := &records[i]
			_, known := existing[rec.ID]

			if err := s.upsertRecord(txCtx, i, rec); err != nil {
				stats.Errors++
				s.logger.Warn("failed to upsert record, continuing",
					"id", rec.ID,
					"error", err,
				)
				continue
			}

			if known {
				stats.Updated++
			} else {
				stats.Inserted++
			}
			s.logger.Info("processed record",
				"index", i+1,
				"total", len(records),
				"id", rec.ID,
			)

			if s.publisher != nil {
				if err := s.publisher.Publish(txCtx, rec, !known); err != nil {
					stats.Errors++
					s.logger.Warn("failed to publish record event",
						"id", rec.ID,
						"error", err,
					)
				} else {
					stats.Published++
				}
			}
		}
		return nil
	})
	if err != nil {
		return stats, fmt.Errorf("commit batch: %w", err)
	}

	stats.Duration = time.Since(startTime)

	s.logger.Info("ingest completed",
		"fetched", stats.Fetched,
		"inserted", stats.Inserted,
		"updated", stats.Updated,
		"errors", stats.Errors,
		"published", stats.Published,
		"duration", stats.Duration,
	)

	return stats, nil
}

func (s *IngestService) upsertRecord(ctx context.Context, i int, rec *domain.VideoImport) error {
	if rec.ID == "" {
		return errMissingID
	}
	name := fmt.Sprintf("rec_%d", i)
	return s.txManager.WithSavepoint(ctx, name, func(spCtx context.Context) error {
		return s.store.Upsert(spCtx, rec)
	})
}

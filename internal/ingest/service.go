// Package ingest records completed matches: it sequences leaderboard
// cache invalidation, the durable append and the audit side-effect as one
// logical unit of work.
package ingest

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"example.com/br-admin/internal/game"
	"example.com/br-admin/internal/metrics"
)

var (
	ErrEmptyBatch      = errors.New("empty match batch")
	ErrMixedBatch      = errors.New("match batch spans multiple game ids")
	ErrIngestionFailed = errors.New("match ingestion failed")
)

// MatchLog is the durable match log store.
type MatchLog interface {
	AppendBatch(ctx context.Context, batch []game.MatchResult) error
}

// Invalidator evicts the cache keys a batch makes stale.
type Invalidator interface {
	InvalidateForMatches(ctx context.Context, batch []game.MatchResult)
}

// Audit records participant IPs downstream. Best-effort.
type Audit interface {
	RecordParticipantIPs(ctx context.Context, batch []game.MatchResult) error
}

type Service struct {
	log   MatchLog
	cache Invalidator
	audit Audit

	logger *slog.Logger
	met    *metrics.Metrics
}

func NewService(log MatchLog, cache Invalidator, audit Audit, logger *slog.Logger, met *metrics.Metrics) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		log:    log,
		cache:  cache,
		audit:  audit,
		logger: logger,
		met:    met,
	}
}

// Ingest records one completed match.
//
// Ordering is the contract: cache keys are evicted before the durable
// append, so readers can see a transient miss (which recomputes from the
// log) but never a stale hit. A failed append is returned as
// ErrIngestionFailed and not retried here; the cache may already be
// emptied at that point, which only costs a recompute on the next read.
func (s *Service) Ingest(ctx context.Context, batch []game.MatchResult) error {
	if err := validateBatch(batch); err != nil {
		return err
	}

	s.cache.InvalidateForMatches(ctx, batch)

	if err := s.log.AppendBatch(ctx, batch); err != nil {
		s.met.IngestFailures.Inc()
		return fmt.Errorf("%w: %v", ErrIngestionFailed, err)
	}
	s.met.BatchesIngested.Inc()
	s.met.RowsIngested.Add(float64(len(batch)))

	// Audit is best-effort: the match is already durably recorded.
	if err := s.audit.RecordParticipantIPs(ctx, batch); err != nil {
		s.met.AuditFailures.Inc()
		s.logger.Warn("participant ip audit failed", "gameId", batch[0].GameID, "error", err)
	}

	s.logger.Info("saved game data", "gameId", batch[0].GameID, "rows", len(batch))
	return nil
}

func validateBatch(batch []game.MatchResult) error {
	if len(batch) == 0 {
		return ErrEmptyBatch
	}
	gameID := batch[0].GameID
	for _, row := range batch[1:] {
		if row.GameID != gameID {
			return fmt.Errorf("%w: %q and %q", ErrMixedBatch, gameID, row.GameID)
		}
	}
	return nil
}

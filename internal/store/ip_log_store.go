package store

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"example.com/br-admin/internal/game"
)

// IPLogStore records which IP each participant of a match played from.
// It backs the best-effort audit side-effect of match ingestion; callers
// must not treat its failures as ingestion failures.
type IPLogStore struct {
	db *pgxpool.Pool
}

func NewIPLogStore(db *pgxpool.Pool) *IPLogStore {
	return &IPLogStore{db: db}
}

func (s *IPLogStore) RecordParticipantIPs(ctx context.Context, batch []game.MatchResult) error {
	now := time.Now().UTC()
	for _, r := range batch {
		if r.IP == "" {
			continue
		}
		_, err := s.db.Exec(ctx, `
			INSERT INTO ip_logs (game_id, user_id, username, region, ip, created_at)
			VALUES ($1, NULLIF($2, ''), $3, $4, $5, $6)
		`, r.GameID, r.UserID, r.Username, r.Region, r.IP, now)
		if err != nil {
			return fmt.Errorf("record participant ip: %w", err)
		}
	}
	return nil
}

package store

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"example.com/br-admin/internal/game"
)

type MatchStore struct {
	db *pgxpool.Pool
}

func NewMatchStore(db *pgxpool.Pool) *MatchStore {
	return &MatchStore{db: db}
}

var matchColumns = []string{
	"game_id", "user_id", "username", "player_id", "created_at",
	"region", "map_id", "map_seed",
	"team_mode", "team_count", "team_total", "team_id",
	"rank", "died", "kills", "damage_dealt", "damage_taken",
	"time_alive", "killer_id", "killed_ids",
}

// AppendBatch writes every row of a completed match as one durable write.
// Rows are immutable once written; there is no update path.
func (s *MatchStore) AppendBatch(ctx context.Context, batch []game.MatchResult) error {
	rows := make([][]any, 0, len(batch))
	for _, r := range batch {
		createdAt := r.CreatedAt
		if createdAt.IsZero() {
			createdAt = time.Now().UTC()
		}
		var userID *string
		if r.UserID != "" {
			userID = &r.UserID
		}
		rows = append(rows, []any{
			r.GameID, userID, r.Username, r.PlayerID, createdAt,
			r.Region, r.MapID, r.MapSeed,
			int(r.TeamMode), r.TeamCount, r.TeamTotal, r.TeamID,
			r.Rank, r.Died, r.Kills, r.DamageDealt, r.DamageTaken,
			r.TimeAlive, r.KillerID, r.KilledIDs,
		})
	}

	_, err := s.db.CopyFrom(ctx,
		pgx.Identifier{"match_data"},
		matchColumns,
		pgx.CopyFromRows(rows),
	)
	if err != nil {
		return fmt.Errorf("append match batch: %w", err)
	}
	return nil
}

// CountForGame reports how many rows exist for one match id.
func (s *MatchStore) CountForGame(ctx context.Context, gameID string) (int, error) {
	var n int
	err := s.db.QueryRow(ctx,
		`SELECT count(*) FROM match_data WHERE game_id = $1`,
		gameID,
	).Scan(&n)
	if err != nil {
		return 0, err
	}
	return n, nil
}

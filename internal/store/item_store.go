package store

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

type ItemStore struct {
	db *pgxpool.Pool
}

func NewItemStore(db *pgxpool.Pool) *ItemStore {
	return &ItemStore{db: db}
}

// Insert creates the (userID, itemType) grant if none exists. The
// uniqueness check and the write are one statement, so two concurrent
// grants for the same pair cannot both succeed: exactly one inserts,
// the other reports inserted=false.
func (s *ItemStore) Insert(ctx context.Context, userID, itemType, source string, timeAcquired time.Time) (bool, error) {
	tag, err := s.db.Exec(ctx, `
		INSERT INTO items (user_id, type, source, time_acquired)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (user_id, type) DO NOTHING
	`, userID, itemType, source, timeAcquired)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

// Delete removes the grant if present. Deleting zero rows is not an
// error: revoke is idempotent.
func (s *ItemStore) Delete(ctx context.Context, userID, itemType string) error {
	_, err := s.db.Exec(ctx,
		`DELETE FROM items WHERE user_id = $1 AND type = $2`,
		userID, itemType,
	)
	return err
}

// Has reports whether the grant exists; used by tests and tooling, the
// grant path itself relies on the conditional insert.
func (s *ItemStore) Has(ctx context.Context, userID, itemType string) (bool, error) {
	var exists bool
	err := s.db.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM items WHERE user_id = $1 AND type = $2)`,
		userID, itemType,
	).Scan(&exists)
	if err != nil {
		return false, err
	}
	return exists, nil
}

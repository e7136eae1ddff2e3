package store

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrUserNotFound = errors.New("user not found")

type UserStore struct {
	db *pgxpool.Pool
}

func NewUserStore(db *pgxpool.Pool) *UserStore {
	return &UserStore{db: db}
}

// FindIDBySlug resolves a public profile slug to the internal user id.
func (s *UserStore) FindIDBySlug(ctx context.Context, slug string) (string, error) {
	var id string
	err := s.db.QueryRow(ctx,
		`SELECT id FROM users WHERE slug = $1`,
		slug,
	).Scan(&id)

	if errors.Is(err, pgx.ErrNoRows) {
		return "", ErrUserNotFound
	}
	if err != nil {
		return "", err
	}
	return id, nil
}

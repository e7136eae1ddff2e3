// Package inventory grants and revokes cosmetic items for users. A user
// owns at most one instance of a given item type; the uniqueness is
// enforced by the store's conditional insert, not by a read-then-write.
package inventory

import (
	"context"
	"errors"
	"fmt"
	"time"

	"example.com/br-admin/internal/metrics"
	"example.com/br-admin/internal/store"
)

var (
	ErrUnknownItemType = errors.New("unknown item type")
	ErrUserNotFound    = errors.New("user not found")
	ErrAlreadyGranted  = errors.New("user already has item")
)

// DefaultSource is recorded when the caller names no grant source.
const DefaultSource = "daddy-has-privileges"

// ItemCatalog is the external item definition table.
type ItemCatalog interface {
	Exists(itemType string) bool
}

// Users resolves public slugs to user ids.
type Users interface {
	FindIDBySlug(ctx context.Context, slug string) (string, error)
}

// Items is the durable grant store.
type Items interface {
	Insert(ctx context.Context, userID, itemType, source string, timeAcquired time.Time) (bool, error)
	Delete(ctx context.Context, userID, itemType string) error
}

type Service struct {
	catalog ItemCatalog
	users   Users
	items   Items
	met     *metrics.Metrics
}

func NewService(catalog ItemCatalog, users Users, items Items, met *metrics.Metrics) *Service {
	return &Service{catalog: catalog, users: users, items: items, met: met}
}

// Grant creates one InventoryGrant for (user, itemType). Validation is
// all-or-nothing: any rejection leaves the store untouched.
func (s *Service) Grant(ctx context.Context, itemType, userSlug, source string) error {
	if !s.catalog.Exists(itemType) {
		s.met.GrantsTotal.WithLabelValues("unknown_item").Inc()
		return fmt.Errorf("%w: %q", ErrUnknownItemType, itemType)
	}
	if source == "" {
		source = DefaultSource
	}

	userID, err := s.users.FindIDBySlug(ctx, userSlug)
	if errors.Is(err, store.ErrUserNotFound) {
		s.met.GrantsTotal.WithLabelValues("user_not_found").Inc()
		return ErrUserNotFound
	}
	if err != nil {
		return err
	}

	inserted, err := s.items.Insert(ctx, userID, itemType, source, time.Now().UTC())
	if err != nil {
		return err
	}
	if !inserted {
		s.met.GrantsTotal.WithLabelValues("already_granted").Inc()
		return ErrAlreadyGranted
	}

	s.met.GrantsTotal.WithLabelValues("ok").Inc()
	return nil
}

// Revoke deletes the matching grant if present. Revoking an item the
// user never had still succeeds: removing zero rows is not an error.
func (s *Service) Revoke(ctx context.Context, itemType, userSlug string) error {
	userID, err := s.users.FindIDBySlug(ctx, userSlug)
	if errors.Is(err, store.ErrUserNotFound) {
		return ErrUserNotFound
	}
	if err != nil {
		return err
	}

	if err := s.items.Delete(ctx, userID, itemType); err != nil {
		return err
	}
	s.met.RevokesTotal.Inc()
	return nil
}

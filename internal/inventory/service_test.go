package inventory

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"example.com/br-admin/internal/metrics"
	"example.com/br-admin/internal/store"
)

type fakeCatalog struct{ items map[string]bool }

func (c fakeCatalog) Exists(t string) bool { return c.items[t] }

type fakeUsers struct{ bySlug map[string]string }

func (u fakeUsers) FindIDBySlug(_ context.Context, slug string) (string, error) {
	id, ok := u.bySlug[slug]
	if !ok {
		return "", store.ErrUserNotFound
	}
	return id, nil
}

type grantKey struct{ userID, itemType string }

// fakeItems mimics the store's conditional insert: check and write are
// one atomic step under the mutex, as the unique index makes them in
// Postgres.
type fakeItems struct {
	mu     sync.Mutex
	grants map[grantKey]string
}

func newFakeItems() *fakeItems {
	return &fakeItems{grants: make(map[grantKey]string)}
}

func (s *fakeItems) Insert(_ context.Context, userID, itemType, source string, _ time.Time) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	k := grantKey{userID, itemType}
	if _, exists := s.grants[k]; exists {
		return false, nil
	}
	s.grants[k] = source
	return true, nil
}

func (s *fakeItems) Delete(_ context.Context, userID, itemType string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.grants, grantKey{userID, itemType})
	return nil
}

func newTestService(items *fakeItems) *Service {
	catalog := fakeCatalog{items: map[string]bool{"outfitBase": true, "emote_happyface": true}}
	users := fakeUsers{bySlug: map[string]string{"olimpo": "u1", "kraken": "u2"}}
	return NewService(catalog, users, items, metrics.New(prometheus.NewRegistry()))
}

func TestService_Grant(t *testing.T) {
	cases := []struct {
		name string
		run  func(t *testing.T)
	}{
		{
			name: "first grant succeeds, second reports AlreadyGranted",
			run: func(t *testing.T) {
				items := newFakeItems()
				svc := newTestService(items)

				require.NoError(t, svc.Grant(context.Background(), "outfitBase", "olimpo", "promo"))
				err := svc.Grant(context.Background(), "outfitBase", "olimpo", "promo")
				require.ErrorIs(t, err, ErrAlreadyGranted)

				assert.Len(t, items.grants, 1)
			},
		},
		{
			name: "same item for another user is independent",
			run: func(t *testing.T) {
				items := newFakeItems()
				svc := newTestService(items)

				require.NoError(t, svc.Grant(context.Background(), "outfitBase", "olimpo", "promo"))
				require.NoError(t, svc.Grant(context.Background(), "outfitBase", "kraken", "promo"))
				assert.Len(t, items.grants, 2)
			},
		},
		{
			name: "unknown item type is rejected before any lookup",
			run: func(t *testing.T) {
				items := newFakeItems()
				svc := newTestService(items)

				err := svc.Grant(context.Background(), "outfitGhost", "olimpo", "promo")
				require.ErrorIs(t, err, ErrUnknownItemType)
				assert.Empty(t, items.grants)
			},
		},
		{
			name: "unresolvable slug is rejected",
			run: func(t *testing.T) {
				items := newFakeItems()
				svc := newTestService(items)

				err := svc.Grant(context.Background(), "outfitBase", "nobody", "promo")
				require.ErrorIs(t, err, ErrUserNotFound)
				assert.Empty(t, items.grants)
			},
		},
		{
			name: "empty source falls back to the default",
			run: func(t *testing.T) {
				items := newFakeItems()
				svc := newTestService(items)

				require.NoError(t, svc.Grant(context.Background(), "outfitBase", "olimpo", ""))
				assert.Equal(t, DefaultSource, items.grants[grantKey{"u1", "outfitBase"}])
			},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, tc.run)
	}
}

// The service itself performs no existence pre-check: both concurrent
// callers reach the store believing the grant is free, and the store's
// conditional insert decides. Exactly one wins; the loser gets
// AlreadyGranted rather than a duplicate row. This test pins that the
// race is resolved at the uniqueness constraint, not accidentally by
// timing.
func TestService_Grant_ConcurrentSameKey(t *testing.T) {
	items := newFakeItems()
	svc := newTestService(items)

	const attempts = 16
	errs := make([]error, attempts)
	var wg sync.WaitGroup
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errs[i] = svc.Grant(context.Background(), "outfitBase", "olimpo", "promo")
		}(i)
	}
	wg.Wait()

	var ok, already int
	for _, err := range errs {
		switch {
		case err == nil:
			ok++
		case errors.Is(err, ErrAlreadyGranted):
			already++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	assert.Equal(t, 1, ok, "exactly one concurrent grant may win")
	assert.Equal(t, attempts-1, already)
	assert.Len(t, items.grants, 1)
}

func TestService_Revoke(t *testing.T) {
	cases := []struct {
		name string
		run  func(t *testing.T)
	}{
		{
			name: "removes an existing grant",
			run: func(t *testing.T) {
				items := newFakeItems()
				svc := newTestService(items)

				require.NoError(t, svc.Grant(context.Background(), "outfitBase", "olimpo", "promo"))
				require.NoError(t, svc.Revoke(context.Background(), "outfitBase", "olimpo"))
				assert.Empty(t, items.grants)
			},
		},
		{
			name: "revoking an item the user never had still succeeds",
			run: func(t *testing.T) {
				items := newFakeItems()
				svc := newTestService(items)

				require.NoError(t, svc.Revoke(context.Background(), "outfitBase", "olimpo"))
				assert.Empty(t, items.grants)
			},
		},
		{
			name: "unknown user is rejected",
			run: func(t *testing.T) {
				svc := newTestService(newFakeItems())
				err := svc.Revoke(context.Background(), "outfitBase", "nobody")
				require.ErrorIs(t, err, ErrUserNotFound)
			},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, tc.run)
	}
}

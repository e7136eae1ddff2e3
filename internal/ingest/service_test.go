package ingest

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"example.com/br-admin/internal/game"
	"example.com/br-admin/internal/leaderboard"
	"example.com/br-admin/internal/metrics"
)

// recorder captures the observable order of side effects across fakes.
type recorder struct {
	mu     sync.Mutex
	events []string
}

func (r *recorder) add(e string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
}

type fakeCache struct {
	rec  *recorder
	fail error
}

func (c *fakeCache) Evict(_ context.Context, key string) error {
	if c.fail != nil {
		return c.fail
	}
	c.rec.add("evict:" + key)
	return nil
}

func (c *fakeCache) EvictAll(context.Context) error { return nil }

type fakeLog struct {
	rec     *recorder
	batches [][]game.MatchResult
	fail    error
}

func (l *fakeLog) AppendBatch(_ context.Context, batch []game.MatchResult) error {
	if l.fail != nil {
		return l.fail
	}
	l.rec.add("append")
	l.batches = append(l.batches, batch)
	return nil
}

type fakeAudit struct {
	rec     *recorder
	batches [][]game.MatchResult
	fail    error
}

func (a *fakeAudit) RecordParticipantIPs(_ context.Context, batch []game.MatchResult) error {
	if a.fail != nil {
		return a.fail
	}
	a.rec.add("audit")
	a.batches = append(a.batches, batch)
	return nil
}

type fixture struct {
	svc   *Service
	rec   *recorder
	cache *fakeCache
	log   *fakeLog
	audit *fakeAudit
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	rec := &recorder{}
	cache := &fakeCache{rec: rec}
	lg := &fakeLog{rec: rec}
	audit := &fakeAudit{rec: rec}
	met := metrics.New(prometheus.NewRegistry())
	inv := leaderboard.NewCoordinator(cache, nil, met)
	return &fixture{
		svc:   NewService(lg, inv, audit, nil, met),
		rec:   rec,
		cache: cache,
		log:   lg,
		audit: audit,
	}
}

func soloRow(gameID, userID string) game.MatchResult {
	return game.MatchResult{
		GameID:   gameID,
		UserID:   userID,
		Region:   "na",
		TeamMode: game.TeamModeSolo,
	}
}

func TestService_Ingest(t *testing.T) {
	cases := []struct {
		name string
		run  func(t *testing.T)
	}{
		{
			name: "empty batch is rejected before any side effect",
			run: func(t *testing.T) {
				f := newFixture(t)
				err := f.svc.Ingest(context.Background(), nil)
				require.ErrorIs(t, err, ErrEmptyBatch)
				assert.Empty(t, f.rec.events)
			},
		},
		{
			name: "mixed game ids are rejected before any side effect",
			run: func(t *testing.T) {
				f := newFixture(t)
				batch := []game.MatchResult{soloRow("m1", "u1"), soloRow("m2", "u2")}
				err := f.svc.Ingest(context.Background(), batch)
				require.ErrorIs(t, err, ErrMixedBatch)
				assert.Empty(t, f.rec.events)
			},
		},
		{
			name: "evicts exactly the derived keys, then appends, then audits",
			run: func(t *testing.T) {
				f := newFixture(t)
				batch := []game.MatchResult{
					soloRow("m1", "u1"),
					soloRow("m1", "u2"),
					soloRow("m1", "u3"),
				}

				require.NoError(t, f.svc.Ingest(context.Background(), batch))

				assert.Equal(t, []string{
					"evict:leaderboard:na:Solo",
					"evict:profile:u1",
					"evict:profile:u2",
					"evict:profile:u3",
					"append",
					"audit",
				}, f.rec.events)

				require.Len(t, f.log.batches, 1)
				assert.Len(t, f.log.batches[0], 3)
				require.Len(t, f.audit.batches, 1)
				assert.Equal(t, batch, f.audit.batches[0])
			},
		},
		{
			name: "append failure surfaces IngestionFailed with cache already evicted",
			run: func(t *testing.T) {
				f := newFixture(t)
				f.log.fail = errors.New("db down")

				err := f.svc.Ingest(context.Background(), []game.MatchResult{soloRow("m1", "u1")})
				require.ErrorIs(t, err, ErrIngestionFailed)

				// Eviction already ran: the next read recomputes from the
				// unchanged log, which is the accepted cost. No audit.
				assert.Equal(t, []string{"evict:leaderboard:na:Solo", "evict:profile:u1"}, f.rec.events)
				assert.Empty(t, f.audit.batches)
			},
		},
		{
			name: "cache store outage does not abort the durable write",
			run: func(t *testing.T) {
				f := newFixture(t)
				f.cache.fail = errors.New("redis unreachable")

				err := f.svc.Ingest(context.Background(), []game.MatchResult{soloRow("m1", "u1")})
				require.NoError(t, err)
				assert.Equal(t, []string{"append", "audit"}, f.rec.events)
			},
		},
		{
			name: "audit failure does not invalidate reported success",
			run: func(t *testing.T) {
				f := newFixture(t)
				f.audit.fail = errors.New("moderation service down")

				err := f.svc.Ingest(context.Background(), []game.MatchResult{soloRow("m1", "u1")})
				require.NoError(t, err)
				require.Len(t, f.log.batches, 1)
			},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, tc.run)
	}
}

func TestService_IngestSynthetic(t *testing.T) {
	t.Run("fills the documented default record", func(t *testing.T) {
		f := newFixture(t)

		row, err := f.svc.IngestSynthetic(context.Background(), SyntheticOverrides{})
		require.NoError(t, err)

		assert.NotEmpty(t, row.GameID)
		assert.Equal(t, MockUserID, row.UserID)
		assert.Equal(t, "na", row.Region)
		assert.Equal(t, game.TeamModeSolo, row.TeamMode)
		assert.Equal(t, 5, row.Kills)
		assert.Equal(t, 3, row.Rank)
		assert.Equal(t, 842, row.TimeAlive)
		assert.Equal(t, []int64{12543, 13587, 14298, 15321, 16754}, row.KilledIDs)

		require.Len(t, f.log.batches, 1)
		assert.Equal(t, row, f.log.batches[0][0])
	})

	t.Run("overrides replace only the named fields", func(t *testing.T) {
		f := newFixture(t)
		kills := 11
		region := "eu"

		row, err := f.svc.IngestSynthetic(context.Background(), SyntheticOverrides{
			Kills:  &kills,
			Region: &region,
		})
		require.NoError(t, err)
		assert.Equal(t, 11, row.Kills)
		assert.Equal(t, "eu", row.Region)
		assert.Equal(t, 3, row.Rank) // untouched default
	})

	t.Run("follows the eviction protocol but skips audit", func(t *testing.T) {
		f := newFixture(t)

		_, err := f.svc.IngestSynthetic(context.Background(), SyntheticOverrides{})
		require.NoError(t, err)

		require.GreaterOrEqual(t, len(f.rec.events), 2)
		assert.Equal(t, "evict:leaderboard:na:Solo", f.rec.events[0])
		assert.Equal(t, "append", f.rec.events[len(f.rec.events)-1])
		assert.Empty(t, f.audit.batches)
	})

	t.Run("fresh game id per call", func(t *testing.T) {
		f := newFixture(t)
		a, err := f.svc.IngestSynthetic(context.Background(), SyntheticOverrides{})
		require.NoError(t, err)
		b, err := f.svc.IngestSynthetic(context.Background(), SyntheticOverrides{})
		require.NoError(t, err)
		assert.NotEqual(t, a.GameID, b.GameID)
	})
}

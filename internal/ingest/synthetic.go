package ingest

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"example.com/br-admin/internal/game"
)

// MockUserID owns every synthetic row, so test data is trivially
// identifiable and deletable in the database.
const MockUserID = "00000000-0000-4000-8000-000000000001"

// SyntheticOverrides is the sparse partial record accepted by the test
// insert route. Nil fields keep the default value.
type SyntheticOverrides struct {
	Kills    *int           `json:"kills,omitempty"`
	Region   *string        `json:"region,omitempty"`
	TeamMode *game.TeamMode `json:"teamMode,omitempty"`
	Rank     *int           `json:"rank,omitempty"`
}

// syntheticDefault is the fixed record a synthetic insert starts from.
// Only the game id varies (fresh UUID per call).
func syntheticDefault() game.MatchResult {
	return game.MatchResult{
		GameID:      uuid.NewString(),
		UserID:      MockUserID,
		Username:    MockUserID,
		PlayerID:    9834,
		CreatedAt:   time.Now().UTC(),
		Region:      "na",
		MapID:       0,
		MapSeed:     9834567801234,
		TeamMode:    game.TeamModeSolo,
		TeamCount:   4,
		TeamTotal:   25,
		TeamID:      7,
		Rank:        3,
		Died:        true,
		Kills:       5,
		DamageDealt: 1247,
		DamageTaken: 862,
		TimeAlive:   842,
		KillerID:    18765,
		KilledIDs:   []int64{12543, 13587, 14298, 15321, 16754},
	}
}

// IngestSynthetic builds a single-row batch from the default record plus
// overrides and runs it through the normal ingestion protocol, minus the
// audit step: synthetic rows carry no real player IPs.
func (s *Service) IngestSynthetic(ctx context.Context, ov SyntheticOverrides) (game.MatchResult, error) {
	row := syntheticDefault()
	if ov.Kills != nil {
		row.Kills = *ov.Kills
	}
	if ov.Region != nil {
		row.Region = *ov.Region
	}
	if ov.TeamMode != nil {
		row.TeamMode = *ov.TeamMode
	}
	if ov.Rank != nil {
		row.Rank = *ov.Rank
	}

	batch := []game.MatchResult{row}
	s.cache.InvalidateForMatches(ctx, batch)

	if err := s.log.AppendBatch(ctx, batch); err != nil {
		s.met.IngestFailures.Inc()
		return game.MatchResult{}, fmt.Errorf("%w: %v", ErrIngestionFailed, err)
	}
	s.met.BatchesIngested.Inc()
	s.met.RowsIngested.Inc()

	s.logger.Info("inserted synthetic game", "gameId", row.GameID)
	return row, nil
}

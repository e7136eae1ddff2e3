// Package gameconfig owns the live, process-shared server configuration:
// the region routing table and the ordered game-mode table.
package gameconfig

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"example.com/br-admin/internal/game"
)

var (
	ErrInvalidMapName   = errors.New("invalid map name")
	ErrInvalidSlotIndex = errors.New("invalid mode slot index")
	ErrConfigPersist    = errors.New("mode table persist failed")
)

// MapCatalog is the external map definition table.
type MapCatalog interface {
	Exists(mapName string) bool
}

// ModeTablePersistence writes the whole mode table as one document and
// reads it back at process start.
type ModeTablePersistence interface {
	Save(ctx context.Context, modes []game.ModeSlot) error
	Load(ctx context.Context) ([]game.ModeSlot, bool, error)
}

// Store holds both tables. The region table lives only in memory; the
// mode table is write-through: every slot mutation re-persists the full
// table under the same lock, so a concurrent sibling-slot change can
// never be lost by the re-serialization.
type Store struct {
	rmu     sync.RWMutex
	regions map[string]json.RawMessage

	mmu   sync.Mutex
	modes []game.ModeSlot

	maps    MapCatalog
	persist ModeTablePersistence
}

// Load builds a Store from the persisted mode table, falling back to
// defaultModes when no document exists yet.
func Load(ctx context.Context, maps MapCatalog, persist ModeTablePersistence, defaultModes []game.ModeSlot) (*Store, error) {
	modes, found, err := persist.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load mode table: %w", err)
	}
	if !found {
		modes = append([]game.ModeSlot(nil), defaultModes...)
	}

	return &Store{
		regions: make(map[string]json.RawMessage),
		modes:   modes,
		maps:    maps,
		persist: persist,
	}, nil
}

// UpdateRegion replaces (or inserts) the routing entry for regionID.
// The payload is opaque to this service; readers observe the new entry
// on their next lookup.
func (s *Store) UpdateRegion(regionID string, data json.RawMessage) {
	s.rmu.Lock()
	defer s.rmu.Unlock()
	s.regions[regionID] = data
}

// Region returns the current routing entry for regionID.
func (s *Store) Region(regionID string) (json.RawMessage, bool) {
	s.rmu.RLock()
	defer s.rmu.RUnlock()
	data, ok := s.regions[regionID]
	return data, ok
}

// Regions returns a copy of the routing table.
func (s *Store) Regions() map[string]json.RawMessage {
	s.rmu.RLock()
	defer s.rmu.RUnlock()
	out := make(map[string]json.RawMessage, len(s.regions))
	for id, data := range s.regions {
		out[id] = data
	}
	return out
}

// SetGameMode replaces one slot of the mode table and persists the whole
// table before returning. The table is fixed-size: index must address an
// existing slot, the table is never grown here.
//
// On a persist failure the in-memory slot stays replaced and the caller
// gets ErrConfigPersist: memory may run ahead of durable storage, never
// behind it.
func (s *Store) SetGameMode(ctx context.Context, index int, mapName string, teamMode game.TeamMode, enabled bool) error {
	if !s.maps.Exists(mapName) {
		return fmt.Errorf("%w: %q", ErrInvalidMapName, mapName)
	}

	s.mmu.Lock()
	defer s.mmu.Unlock()

	if index < 0 || index >= len(s.modes) {
		return fmt.Errorf("%w: %d", ErrInvalidSlotIndex, index)
	}

	s.modes[index] = game.ModeSlot{
		MapName:  mapName,
		TeamMode: teamMode,
		Enabled:  enabled,
	}

	if err := s.persist.Save(ctx, s.modes); err != nil {
		return fmt.Errorf("%w: %v", ErrConfigPersist, err)
	}
	return nil
}

// Modes returns a copy of the mode table.
func (s *Store) Modes() []game.ModeSlot {
	s.mmu.Lock()
	defer s.mmu.Unlock()
	return append([]game.ModeSlot(nil), s.modes...)
}

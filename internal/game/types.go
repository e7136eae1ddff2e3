// Package game holds the shared domain types of the private admin surface:
// team modes, game-mode slots and per-player match results.
package game

import "time"

// TeamMode mirrors the game client's enum.
type TeamMode int

const (
	TeamModeSolo  TeamMode = 1
	TeamModeDuo   TeamMode = 2
	TeamModeSquad TeamMode = 4
)

func (m TeamMode) String() string {
	switch m {
	case TeamModeSolo:
		return "Solo"
	case TeamModeDuo:
		return "Duo"
	case TeamModeSquad:
		return "Squad"
	}
	return "Unknown"
}

// Valid reports whether m is one of the known modes.
func (m TeamMode) Valid() bool {
	return m == TeamModeSolo || m == TeamModeDuo || m == TeamModeSquad
}

// ModeSlot is one fixed-position entry of the live game-mode table.
type ModeSlot struct {
	MapName  string   `json:"mapName"`
	TeamMode TeamMode `json:"teamMode"`
	Enabled  bool     `json:"enabled"`
}

// MatchResult is one player's row of a completed match. Rows are written
// once through ingestion and never updated.
//
// UserID is empty for logged-out players; such rows still count for the
// per-mode leaderboards but have no profile aggregate.
type MatchResult struct {
	GameID    string    `json:"gameId"`
	UserID    string    `json:"userId"`
	Username  string    `json:"username"`
	PlayerID  int64     `json:"playerId"`
	CreatedAt time.Time `json:"createdAt"`

	Region  string `json:"region"`
	MapID   int    `json:"mapId"`
	MapSeed int64  `json:"mapSeed"`

	TeamMode  TeamMode `json:"teamMode"`
	TeamCount int      `json:"teamCount"`
	TeamTotal int      `json:"teamTotal"`
	TeamID    int      `json:"teamId"`

	Rank        int     `json:"rank"`
	Died        bool    `json:"died"`
	Kills       int     `json:"kills"`
	DamageDealt int     `json:"damageDealt"`
	DamageTaken int     `json:"damageTaken"`
	TimeAlive   int     `json:"timeAlive"`
	KillerID    int64   `json:"killerId"`
	KilledIDs   []int64 `json:"killedIds"`

	// IP is carried only for the audit side-effect; it is not part of
	// the durable match log.
	IP string `json:"ip,omitempty"`
}

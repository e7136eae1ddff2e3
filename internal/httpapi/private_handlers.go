// Package httpapi maps the private admin operations onto HTTP routes and
// translates service errors into status codes. The core semantics live in
// gameconfig, ingest, inventory and leaderboard; this layer only decodes,
// dispatches and codes the result.
package httpapi

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"example.com/br-admin/internal/game"
	"example.com/br-admin/internal/gameconfig"
	"example.com/br-admin/internal/ingest"
	"example.com/br-admin/internal/inventory"
	"example.com/br-admin/internal/leaderboard"
	"example.com/br-admin/internal/metrics"
)

type PrivateHandler struct {
	Config     *gameconfig.Store
	Ingest     *ingest.Service
	Inventory  *inventory.Service
	CacheAdmin *leaderboard.Admin

	Log *slog.Logger
	Met *metrics.Metrics
}

// RegisterRoutes mounts every private operation behind the internal-auth
// middleware.
func (h *PrivateHandler) RegisterRoutes(mux *http.ServeMux, secret []byte) {
	guard := InternalAuth(secret)

	route := func(pattern string, fn http.HandlerFunc) {
		mux.Handle("POST "+pattern, guard(fn))
	}

	route("/private/update_region", h.handleUpdateRegion)
	route("/private/set_game_mode", h.handleSetGameMode)
	route("/private/save_game", h.handleSaveGame)
	route("/private/give_item", h.handleGiveItem)
	route("/private/remove_item", h.handleRemoveItem)
	route("/private/clear_cache", h.handleClearCache)
	route("/private/test/insert_game", h.handleInsertGame)
}

type updateRegionRequest struct {
	RegionID string          `json:"regionId"`
	Data     json.RawMessage `json:"data"`
}

func (h *PrivateHandler) handleUpdateRegion(w http.ResponseWriter, r *http.Request) {
	var req updateRegionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.RegionID == "" {
		writeError(w, http.StatusBadRequest, "bad_request", "regionId and data are required")
		return
	}

	h.Config.UpdateRegion(req.RegionID, req.Data)
	writeJSON(w, http.StatusOK, struct{}{})
}

type setGameModeRequest struct {
	Index    int           `json:"index"`
	MapName  string        `json:"mapName"`
	TeamMode game.TeamMode `json:"teamMode"`
	Enabled  *bool         `json:"enabled"` // default true
}

func (h *PrivateHandler) handleSetGameMode(w http.ResponseWriter, r *http.Request) {
	var req setGameModeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", "invalid json")
		return
	}
	if !req.TeamMode.Valid() {
		writeError(w, http.StatusBadRequest, "bad_request", "invalid team mode")
		return
	}
	enabled := true
	if req.Enabled != nil {
		enabled = *req.Enabled
	}

	err := h.Config.SetGameMode(r.Context(), req.Index, req.MapName, req.TeamMode, enabled)
	switch {
	case errors.Is(err, gameconfig.ErrInvalidMapName):
		writeError(w, http.StatusBadRequest, "invalid_map_name", "Invalid map name")
	case errors.Is(err, gameconfig.ErrInvalidSlotIndex):
		writeError(w, http.StatusBadRequest, "invalid_mode_index", "Invalid mode index")
	case err != nil:
		h.Log.Warn("set_game_mode failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal", "Error processing request")
	default:
		writeJSON(w, http.StatusOK, struct{}{})
	}
}

type saveGameRequest struct {
	MatchData []game.MatchResult `json:"matchData"`
}

func (h *PrivateHandler) handleSaveGame(w http.ResponseWriter, r *http.Request) {
	var req saveGameRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", "invalid json")
		return
	}

	err := h.Ingest.Ingest(r.Context(), req.MatchData)
	switch {
	case errors.Is(err, ingest.ErrEmptyBatch):
		writeError(w, http.StatusBadRequest, "empty_batch", "Empty match data")
	case errors.Is(err, ingest.ErrMixedBatch):
		writeError(w, http.StatusBadRequest, "mixed_batch", "match data spans multiple games")
	case err != nil:
		h.Log.Warn("save_game failed", "error", err)
		writeError(w, http.StatusInternalServerError, "ingestion_failed", "Error processing request")
	default:
		writeJSON(w, http.StatusOK, struct{}{})
	}
}

type itemRequest struct {
	Item   string `json:"item"`
	Slug   string `json:"slug"`
	Source string `json:"source"`
}

func (h *PrivateHandler) handleGiveItem(w http.ResponseWriter, r *http.Request) {
	var req itemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Item == "" || req.Slug == "" {
		writeError(w, http.StatusBadRequest, "bad_request", "item and slug are required")
		return
	}

	err := h.Inventory.Grant(r.Context(), req.Item, req.Slug, req.Source)
	switch {
	case errors.Is(err, inventory.ErrUnknownItemType):
		writeError(w, http.StatusBadRequest, "invalid_item", "Invalid item type")
	case errors.Is(err, inventory.ErrUserNotFound):
		writeError(w, http.StatusNotFound, "user_not_found", "User not found")
	case errors.Is(err, inventory.ErrAlreadyGranted):
		writeError(w, http.StatusBadRequest, "already_granted", "User already has item")
	case err != nil:
		h.Log.Warn("give_item failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal", "Error processing request")
	default:
		writeJSON(w, http.StatusOK, map[string]bool{"success": true})
	}
}

func (h *PrivateHandler) handleRemoveItem(w http.ResponseWriter, r *http.Request) {
	var req itemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Item == "" || req.Slug == "" {
		writeError(w, http.StatusBadRequest, "bad_request", "item and slug are required")
		return
	}

	err := h.Inventory.Revoke(r.Context(), req.Item, req.Slug)
	switch {
	case errors.Is(err, inventory.ErrUserNotFound):
		writeError(w, http.StatusNotFound, "user_not_found", "User not found")
	case err != nil:
		h.Log.Warn("remove_item failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal", "Error processing request")
	default:
		writeJSON(w, http.StatusOK, map[string]bool{"success": true})
	}
}

func (h *PrivateHandler) handleClearCache(w http.ResponseWriter, r *http.Request) {
	if err := h.CacheAdmin.FlushAll(r.Context()); err != nil {
		h.Log.Warn("clear_cache failed", "error", err)
		writeError(w, http.StatusInternalServerError, "cache_eviction_failed", "Error clearing cache")
		return
	}
	h.Met.CacheFlushes.Inc()
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

func (h *PrivateHandler) handleInsertGame(w http.ResponseWriter, r *http.Request) {
	var ov ingest.SyntheticOverrides
	if err := json.NewDecoder(r.Body).Decode(&ov); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", "invalid json")
		return
	}

	row, err := h.Ingest.IngestSynthetic(r.Context(), ov)
	if err != nil {
		h.Log.Warn("test insert_game failed", "error", err)
		writeError(w, http.StatusInternalServerError, "ingestion_failed", "Error inserting game")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "gameId": row.GameID})
}

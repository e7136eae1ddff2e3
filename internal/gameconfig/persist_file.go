package gameconfig

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"example.com/br-admin/internal/game"
)

// configDocument is the on-disk shape of the server config. The durable
// format is one JSON document; partial updates are not supported, so the
// full table is always the unit of durability.
type configDocument struct {
	Modes []game.ModeSlot `json:"modes"`
}

// FileModeTable persists the mode table as a single JSON document on disk.
type FileModeTable struct {
	path string
}

func NewFileModeTable(path string) *FileModeTable {
	return &FileModeTable{path: path}
}

func (f *FileModeTable) Save(_ context.Context, modes []game.ModeSlot) error {
	b, err := json.MarshalIndent(configDocument{Modes: modes}, "", "  ")
	if err != nil {
		return err
	}

	// Write-then-rename so a crash mid-write never leaves a torn document.
	tmp := f.path + ".tmp"
	if err := os.WriteFile(tmp, b, 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	if err := os.Rename(tmp, f.path); err != nil {
		return fmt.Errorf("replace config: %w", err)
	}
	return nil
}

func (f *FileModeTable) Load(_ context.Context) ([]game.ModeSlot, bool, error) {
	b, err := os.ReadFile(f.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("read config: %w", err)
	}

	var doc configDocument
	if err := json.Unmarshal(b, &doc); err != nil {
		return nil, false, fmt.Errorf("parse config %s: %w", filepath.Base(f.path), err)
	}
	return doc.Modes, true, nil
}

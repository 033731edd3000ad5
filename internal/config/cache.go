package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/joshuadavidthomas/stravabar/internal/models"
)

// CacheSnapshot stores the last fetched snapshot for the next start.
func CacheSnapshot(snapshot models.ActivitySnapshot) error {
	path := SnapshotPath()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("caching snapshot: %w", err)
	}
	data, err := json.Marshal(snapshot)
	if err != nil {
		return fmt.Errorf("caching snapshot: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("caching snapshot: %w", err)
	}
	return nil
}

// LoadCachedSnapshot returns nil when there is no usable cache.
func LoadCachedSnapshot() *models.ActivitySnapshot {
	data, err := os.ReadFile(SnapshotPath())
	if err != nil {
		return nil
	}
	var snap models.ActivitySnapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil
	}
	return &snap
}

// ClearSnapshotCache removes the cached snapshot. It reports whether a
// file was removed.
func ClearSnapshotCache() bool {
	return os.Remove(SnapshotPath()) == nil
}

// FileCache implements fetch.Cache on top of the snapshot file.
type FileCache struct{}

func (FileCache) Save(snapshot models.ActivitySnapshot) error {
	return CacheSnapshot(snapshot)
}

func (FileCache) Load() *models.ActivitySnapshot {
	return LoadCachedSnapshot()
}

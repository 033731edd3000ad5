package config

import (
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
)

const appName = "stravabar"

// Each directory follows the XDG base directory spec unless its
// STRAVABAR_*_DIR variable is set.
func ConfigDir() string { return appDir("STRAVABAR_CONFIG_DIR", xdg.ConfigHome) }
func CacheDir() string  { return appDir("STRAVABAR_CACHE_DIR", xdg.CacheHome) }
func StateDir() string  { return appDir("STRAVABAR_STATE_DIR", xdg.StateHome) }

func appDir(env, base string) string {
	if v := os.Getenv(env); v != "" {
		return v
	}
	return filepath.Join(base, appName)
}

func ConfigFile() string     { return filepath.Join(ConfigDir(), "config.toml") }
func CredentialsDir() string { return filepath.Join(ConfigDir(), "credentials") }
func SnapshotPath() string   { return filepath.Join(CacheDir(), "snapshot.json") }
func LogFile() string        { return filepath.Join(StateDir(), appName+".log") }

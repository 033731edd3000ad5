// Package testenv isolates stravabar's on-disk state in tests.
package testenv

import "path/filepath"

// Dirs contains isolated directories for stravabar config/cache/state in tests.
type Dirs struct {
	Base   string
	Config string
	Cache  string
	State  string
}

// StravabarDirs returns conventional test directories rooted at base.
func StravabarDirs(base string) Dirs {
	return Dirs{
		Base:   base,
		Config: filepath.Join(base, "config"),
		Cache:  filepath.Join(base, "cache"),
		State:  filepath.Join(base, "state"),
	}
}

// Apply sets the STRAVABAR_*_DIR variables to isolated directories under
// base and clears the variables that would otherwise leak the host's
// Strava setup into a test.
func Apply(setenv func(string, string), base string) Dirs {
	dirs := StravabarDirs(base)
	setenv("STRAVABAR_CONFIG_DIR", dirs.Config)
	setenv("STRAVABAR_CACHE_DIR", dirs.Cache)
	setenv("STRAVABAR_STATE_DIR", dirs.State)
	for _, k := range []string{
		"STRAVA_CLIENT_ID", "STRAVA_CLIENT_SECRET", "STRAVA_REFRESH_TOKEN",
		"STRAVABAR_TEXT", "STRAVABAR_NO_COLOR", "NO_COLOR",
	} {
		setenv(k, "")
	}
	return dirs
}

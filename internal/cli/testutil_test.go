package cli

import (
	"bytes"
	"os"
	"testing"

	"github.com/joshuadavidthomas/stravabar/internal/config"
	"github.com/joshuadavidthomas/stravabar/internal/fetch"
	"github.com/joshuadavidthomas/stravabar/internal/testenv"
)

// isolate points every stravabar directory at a fresh temp dir and
// reloads the config from there.
func isolate(t *testing.T) testenv.Dirs {
	t.Helper()
	dirs := testenv.Apply(t.Setenv, t.TempDir())
	reloadConfig()
	t.Cleanup(reloadConfig)
	return dirs
}

// reloadConfig forces a config reload. Used by tests that modify
// STRAVABAR_CONFIG_DIR via t.Setenv before exercising commands.
func reloadConfig() {
	_, _ = config.Reload()
}

// captureOutput redirects command output to a buffer for the test.
func captureOutput(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	outWriter = &buf
	t.Cleanup(func() { outWriter = os.Stdout })
	return &buf
}

// setFlag sets a global flag variable for the duration of the test.
func setFlag(t *testing.T, p *bool, v bool) {
	t.Helper()
	old := *p
	*p = v
	t.Cleanup(func() { *p = old })
}

// stubProvider replaces the Strava client the commands build.
func stubProvider(t *testing.T, p fetch.Provider, err error) {
	t.Helper()
	old := newProvider
	newProvider = func(config.Config) (fetch.Provider, error) { return p, err }
	t.Cleanup(func() { newProvider = old })
}

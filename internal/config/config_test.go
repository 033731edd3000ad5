package config

import (
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/adrg/xdg"
	"github.com/joshuadavidthomas/stravabar/internal/models"
	"github.com/joshuadavidthomas/stravabar/internal/testenv"
)

// Helpers

func setupTempDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	testenv.Apply(t.Setenv, dir)
	// Reset global config so tests don't leak state.
	configMu.Lock()
	globalConfig = nil
	configMu.Unlock()
	t.Cleanup(func() {
		configMu.Lock()
		globalConfig = nil
		configMu.Unlock()
	})
	return dir
}

func writeTestFile(t *testing.T, path string, content []byte) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("MkdirAll(%s): %v", filepath.Dir(path), err)
	}
	if err := os.WriteFile(path, content, 0o644); err != nil {
		t.Fatalf("WriteFile(%s): %v", path, err)
	}
}

// DefaultConfig

func TestDefaultConfig_Values(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Widget.Text != "{CA:%b} {CD:.1f}km" {
		t.Errorf("Widget.Text = %q", cfg.Widget.Text)
	}
	if cfg.Widget.Refresh() != 30*time.Minute {
		t.Errorf("Widget.Refresh() = %v, want 30m", cfg.Widget.Refresh())
	}
	if cfg.Widget.Startup() != 10*time.Second {
		t.Errorf("Widget.Startup() = %v, want 10s", cfg.Widget.Startup())
	}
	if cfg.Widget.Detail() != 15*time.Second {
		t.Errorf("Widget.Detail() = %v, want 15s", cfg.Widget.Detail())
	}
	if cfg.Widget.Poll() != time.Second {
		t.Errorf("Widget.Poll() = %v, want 1s", cfg.Widget.Poll())
	}
	if cfg.Fetch.TimeoutDuration() != 30*time.Second {
		t.Errorf("Fetch.TimeoutDuration() = %v, want 30s", cfg.Fetch.TimeoutDuration())
	}
	if cfg.Fetch.RecentMonths != 3 {
		t.Errorf("Fetch.RecentMonths = %d, want 3", cfg.Fetch.RecentMonths)
	}
	if cfg.Strava.Sport != "run" || cfg.Strava.RedirectPort != 8089 {
		t.Errorf("Strava = %+v", cfg.Strava)
	}
	if cfg.Credentials.UseKeyring {
		t.Error("Credentials.UseKeyring should default to false")
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("DefaultConfig().Validate() = %v", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"zero refresh", func(c *Config) { c.Widget.RefreshInterval = 0 }, "widget.refresh_interval"},
		{"negative startup", func(c *Config) { c.Widget.StartupDelay = -1 }, "widget.startup_delay"},
		{"negative detail", func(c *Config) { c.Widget.DetailDisplayTimeout = -5 }, "widget.detail_display_timeout"},
		{"negative months", func(c *Config) { c.Fetch.RecentMonths = -1 }, "fetch.recent_months"},
		{"unknown sport", func(c *Config) { c.Strava.Sport = "curling" }, "strava.sport"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("Validate() = %v, want error mentioning %s", err, tt.want)
			}
		})
	}
}

func TestValidate_JoinsErrors(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Widget.RefreshInterval = -1
	cfg.Strava.Sport = ""
	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected error")
	}
	for _, want := range []string{"refresh_interval", "strava.sport"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("error %q missing %s", err, want)
		}
	}
}

// Load / Save

func TestLoad_MissingFile_ReturnsDefaults(t *testing.T) {
	dir := setupTempDir(t)
	cfg, err := Load(filepath.Join(dir, "nonexistent.toml"))
	if err != nil {
		t.Errorf("Load() error = %v, want nil for missing file", err)
	}
	if cfg != DefaultConfig() {
		t.Errorf("Load() = %+v, want defaults", cfg)
	}
}

func TestLoad_MalformedTOML_ReturnsDefaultsAndError(t *testing.T) {
	dir := setupTempDir(t)
	path := filepath.Join(dir, "bad.toml")
	writeTestFile(t, path, []byte("this is not valid [[[toml"))

	cfg, err := Load(path)
	if err == nil {
		t.Fatal("Load() should return an error for malformed TOML")
	}
	if !strings.Contains(err.Error(), "parsing config") {
		t.Errorf("error should contain 'parsing config', got: %v", err)
	}
	if cfg.Fetch.Timeout != DefaultConfig().Fetch.Timeout {
		t.Errorf("Fetch.Timeout = %v, want default", cfg.Fetch.Timeout)
	}
}

func TestLoad_PartialTOML_MergesWithDefaults(t *testing.T) {
	dir := setupTempDir(t)
	path := filepath.Join(dir, "partial.toml")
	writeTestFile(t, path, []byte(`
[widget]
text = "{CC} runs"

[strava]
sport = "ride"
`))

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Widget.Text != "{CC} runs" {
		t.Errorf("Widget.Text = %q", cfg.Widget.Text)
	}
	if cfg.Strava.Sport != "ride" {
		t.Errorf("Strava.Sport = %q, want ride", cfg.Strava.Sport)
	}
	if cfg.Widget.RefreshInterval != 1800 {
		t.Errorf("Widget.RefreshInterval = %d, want default 1800", cfg.Widget.RefreshInterval)
	}
	if cfg.Strava.APIURL != "https://www.strava.com/api/v3" {
		t.Errorf("Strava.APIURL = %q, want default", cfg.Strava.APIURL)
	}
}

func TestSave_Load_Roundtrip(t *testing.T) {
	dir := setupTempDir(t)
	path := filepath.Join(dir, "sub", "config.toml")

	original := DefaultConfig()
	original.Widget.Text = "{YD:,.0f} km this year"
	original.Widget.RefreshInterval = 600
	original.Fetch.RecentMonths = 6
	original.Strava.ClientID = "12345"
	original.Strava.ClientSecret = "shh"
	original.Credentials.UseKeyring = true

	if err := Save(original, path); err != nil {
		t.Fatalf("Save() error: %v", err)
	}
	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if loaded != original {
		t.Errorf("roundtrip mismatch:\n got %+v\nwant %+v", loaded, original)
	}
}

// Environment

func TestApplyEnvOverrides(t *testing.T) {
	setupTempDir(t)
	t.Setenv("STRAVA_CLIENT_ID", "env-id")
	t.Setenv("STRAVA_CLIENT_SECRET", "env-secret")
	t.Setenv("STRAVABAR_TEXT", "{CD:.0f}")

	cfg := applyEnvOverrides(DefaultConfig())
	if cfg.Strava.ClientID != "env-id" || cfg.Strava.ClientSecret != "env-secret" {
		t.Errorf("Strava = %+v", cfg.Strava)
	}
	if cfg.Widget.Text != "{CD:.0f}" {
		t.Errorf("Widget.Text = %q", cfg.Widget.Text)
	}
}

func TestLoad_EnvWinsOverFile(t *testing.T) {
	dir := setupTempDir(t)
	path := filepath.Join(dir, "config.toml")
	writeTestFile(t, path, []byte("[strava]\nclient_id = \"file-id\"\n"))
	t.Setenv("STRAVA_CLIENT_ID", "env-id")

	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Strava.ClientID != "env-id" {
		t.Errorf("ClientID = %q, want env-id", cfg.Strava.ClientID)
	}
}

func TestNoColor(t *testing.T) {
	setupTempDir(t)
	if NoColor() {
		t.Error("NoColor() = true with no variables set")
	}
	t.Setenv("STRAVABAR_NO_COLOR", "1")
	if !NoColor() {
		t.Error("NoColor() = false with STRAVABAR_NO_COLOR set")
	}
}

func TestLoadDotEnv_DoesNotOverrideEnvironment(t *testing.T) {
	dir := setupTempDir(t)
	writeTestFile(t, filepath.Join(dir, "config", ".env"),
		[]byte("STRAVA_CLIENT_ID=from-dotenv\nSTRAVA_REFRESH_TOKEN=dotenv-token\n"))
	t.Setenv("STRAVA_CLIENT_ID", "from-env")
	// t.Setenv registers cleanup; unset so godotenv sees it as absent.
	t.Setenv("STRAVA_REFRESH_TOKEN", "")
	_ = os.Unsetenv("STRAVA_REFRESH_TOKEN")

	if err := LoadDotEnv(); err != nil {
		t.Fatalf("LoadDotEnv() error: %v", err)
	}
	if got := os.Getenv("STRAVA_CLIENT_ID"); got != "from-env" {
		t.Errorf("STRAVA_CLIENT_ID = %q, want from-env", got)
	}
	if got := RefreshTokenFromEnv(); got != "dotenv-token" {
		t.Errorf("RefreshTokenFromEnv() = %q, want dotenv-token", got)
	}
}

func TestLoadDotEnv_NoFiles(t *testing.T) {
	setupTempDir(t)
	t.Chdir(t.TempDir())
	if err := LoadDotEnv(); err != nil {
		t.Errorf("LoadDotEnv() with no files = %v", err)
	}
}

// Global config

func TestGet_ReturnsDefaultWhenNotInitialized(t *testing.T) {
	setupTempDir(t)
	if Get() != DefaultConfig() {
		t.Error("Get() should return defaults when no config file exists")
	}
}

func TestReload_PicksUpChanges(t *testing.T) {
	setupTempDir(t)
	_ = Get()

	cfg := DefaultConfig()
	cfg.Widget.Text = "changed"
	if err := Save(cfg, ""); err != nil {
		t.Fatal(err)
	}
	if Get().Widget.Text == "changed" {
		t.Fatal("Get() should serve the cached config until Reload")
	}
	got, err := Reload()
	if err != nil {
		t.Fatal(err)
	}
	if got.Widget.Text != "changed" || Get().Widget.Text != "changed" {
		t.Errorf("Reload() did not pick up the saved config")
	}
}

func TestReload_MalformedTOML_ReturnsError(t *testing.T) {
	setupTempDir(t)
	writeTestFile(t, ConfigFile(), []byte("[widget\n"))
	if _, err := Reload(); err == nil {
		t.Error("Reload() should return an error for malformed TOML")
	}
}

func TestGetAndReload_NoConcurrentRace(t *testing.T) {
	setupTempDir(t)
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(2)
		go func() { defer wg.Done(); _ = Get() }()
		go func() { defer wg.Done(); _, _ = Reload() }()
	}
	wg.Wait()
}

func TestOverride_RestoresPrevious(t *testing.T) {
	setupTempDir(t)

	t.Run("inner", func(t *testing.T) {
		Override(t, func(c *Config) { c.Widget.Text = "override" })
		if got := Get(); got.Widget.Text != "override" || got.Widget.RefreshInterval != DefaultConfig().Widget.RefreshInterval {
			t.Errorf("Override did not apply the edit on top of the defaults: %+v", got.Widget)
		}
	})
	if Get().Widget.Text == "override" {
		t.Error("Override was not restored")
	}
}

// Paths

func TestDirs_EnvOverride(t *testing.T) {
	dirs := testenv.Apply(t.Setenv, t.TempDir())
	if ConfigDir() != dirs.Config || CacheDir() != dirs.Cache || StateDir() != dirs.State {
		t.Errorf("dirs = %s %s %s", ConfigDir(), CacheDir(), StateDir())
	}
	if ConfigFile() != filepath.Join(dirs.Config, "config.toml") {
		t.Errorf("ConfigFile() = %s", ConfigFile())
	}
	if LogFile() != filepath.Join(dirs.State, "stravabar.log") {
		t.Errorf("LogFile() = %s", LogFile())
	}
	if SnapshotPath() != filepath.Join(dirs.Cache, "snapshot.json") {
		t.Errorf("SnapshotPath() = %s", SnapshotPath())
	}
	if TokenPath() != filepath.Join(dirs.Config, "credentials", "strava", "oauth.json") {
		t.Errorf("TokenPath() = %s", TokenPath())
	}
}

func TestDirs_DefaultUseXDG(t *testing.T) {
	t.Setenv("STRAVABAR_CONFIG_DIR", "")
	t.Setenv("STRAVABAR_STATE_DIR", "")
	base := t.TempDir()

	oldConfig, oldState := xdg.ConfigHome, xdg.StateHome
	xdg.ConfigHome = filepath.Join(base, "xdg-config")
	xdg.StateHome = filepath.Join(base, "xdg-state")
	t.Cleanup(func() { xdg.ConfigHome, xdg.StateHome = oldConfig, oldState })

	if ConfigDir() != filepath.Join(base, "xdg-config", "stravabar") {
		t.Errorf("ConfigDir() = %s", ConfigDir())
	}
	if StateDir() != filepath.Join(base, "xdg-state", "stravabar") {
		t.Errorf("StateDir() = %s", StateDir())
	}
}

// Snapshot cache

func TestFileCache_Roundtrip(t *testing.T) {
	setupTempDir(t)
	var cache FileCache

	if cache.Load() != nil {
		t.Fatal("Load() on empty cache should be nil")
	}

	snap := models.ActivitySnapshot{
		Athlete:   "Jo",
		Sport:     "run",
		FetchedAt: time.Date(2026, time.March, 10, 9, 0, 0, 0, time.UTC),
		Current: models.Aggregate{
			Name:     "6 Runs",
			Date:     time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC),
			Distance: 42.0,
			Count:    6,
			Elapsed:  3*time.Hour + 30*time.Minute,
		},
	}
	if err := cache.Save(snap); err != nil {
		t.Fatalf("Save() error: %v", err)
	}

	got := cache.Load()
	if got == nil {
		t.Fatal("Load() returned nil after Save")
	}
	if got.Athlete != "Jo" || got.Current.Distance != 42.0 || got.Current.Elapsed != snap.Current.Elapsed {
		t.Errorf("Load() = %+v", got)
	}
	if !got.FetchedAt.Equal(snap.FetchedAt) {
		t.Errorf("FetchedAt = %v, want %v", got.FetchedAt, snap.FetchedAt)
	}

	if !ClearSnapshotCache() {
		t.Error("ClearSnapshotCache() = false, want true")
	}
	if ClearSnapshotCache() {
		t.Error("second ClearSnapshotCache() = true, want false")
	}
}

func TestLoadCachedSnapshot_MalformedJSON_ReturnsNil(t *testing.T) {
	setupTempDir(t)
	writeTestFile(t, SnapshotPath(), []byte("{not json"))
	if LoadCachedSnapshot() != nil {
		t.Error("expected nil for malformed cache")
	}
}

// Credentials

func TestWriteCredential_ReadCredential(t *testing.T) {
	setupTempDir(t)
	path := TokenPath()

	if data, err := ReadCredential(path); data != nil || err != nil {
		t.Fatalf("ReadCredential(missing) = %q, %v", data, err)
	}
	if err := WriteCredential(path, []byte(`{"refresh_token":"r"}`)); err != nil {
		t.Fatalf("WriteCredential() error: %v", err)
	}
	data, err := ReadCredential(path)
	if err != nil || string(data) != `{"refresh_token":"r"}` {
		t.Errorf("ReadCredential() = %q, %v", data, err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}
	if perm := info.Mode().Perm(); perm != 0o600 {
		t.Errorf("permissions = %o, want 600", perm)
	}
	entries, err := os.ReadDir(filepath.Dir(path))
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 {
		t.Errorf("credential dir holds %d entries, want only the token", len(entries))
	}

	if removed, err := DeleteCredential(path); !removed || err != nil {
		t.Errorf("DeleteCredential() = %v, %v", removed, err)
	}
	if removed, err := DeleteCredential(path); removed || err != nil {
		t.Errorf("DeleteCredential(missing) = %v, %v", removed, err)
	}
}

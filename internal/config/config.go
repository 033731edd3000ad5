package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/BurntSushi/toml"
)

// DefaultText is the bar template used when none is configured.
const DefaultText = "{CA:%b} {CD:.1f}km"

type WidgetConfig struct {
	Text                 string `toml:"text" json:"text" yaml:"text"`
	RefreshInterval      int    `toml:"refresh_interval" json:"refresh_interval" yaml:"refresh_interval"`
	StartupDelay         int    `toml:"startup_delay" json:"startup_delay" yaml:"startup_delay"`
	DetailDisplayTimeout int    `toml:"detail_display_timeout" json:"detail_display_timeout" yaml:"detail_display_timeout"`
	PollInterval         int    `toml:"poll_interval" json:"poll_interval" yaml:"poll_interval"`
	Foreground           string `toml:"foreground" json:"foreground" yaml:"foreground"`
}

// Interval values are stored in whole seconds.

func (w WidgetConfig) Refresh() time.Duration { return seconds(w.RefreshInterval) }
func (w WidgetConfig) Startup() time.Duration { return seconds(w.StartupDelay) }
func (w WidgetConfig) Detail() time.Duration  { return seconds(w.DetailDisplayTimeout) }
func (w WidgetConfig) Poll() time.Duration    { return seconds(w.PollInterval) }

type FetchConfig struct {
	Timeout      float64 `toml:"timeout" json:"timeout" yaml:"timeout"`
	RecentMonths int     `toml:"recent_months" json:"recent_months" yaml:"recent_months"`
}

func (f FetchConfig) TimeoutDuration() time.Duration {
	return time.Duration(f.Timeout * float64(time.Second))
}

type StravaConfig struct {
	ClientID     string `toml:"client_id" json:"client_id" yaml:"client_id"`
	ClientSecret string `toml:"client_secret" json:"-" yaml:"-"`
	Sport        string `toml:"sport" json:"sport" yaml:"sport"`
	APIURL       string `toml:"api_url" json:"api_url" yaml:"api_url"`
	RedirectPort int    `toml:"redirect_port" json:"redirect_port" yaml:"redirect_port"`
}

type CredentialsConfig struct {
	UseKeyring bool `toml:"use_keyring" json:"use_keyring" yaml:"use_keyring"`
}

type Config struct {
	Widget      WidgetConfig      `toml:"widget" json:"widget" yaml:"widget"`
	Fetch       FetchConfig       `toml:"fetch" json:"fetch" yaml:"fetch"`
	Strava      StravaConfig      `toml:"strava" json:"strava" yaml:"strava"`
	Credentials CredentialsConfig `toml:"credentials" json:"credentials" yaml:"credentials"`
}

func DefaultConfig() Config {
	return Config{
		Widget: WidgetConfig{
			Text:                 DefaultText,
			RefreshInterval:      1800,
			StartupDelay:         10,
			DetailDisplayTimeout: 15,
			PollInterval:         1,
			Foreground:           "#ffffff",
		},
		Fetch: FetchConfig{
			Timeout:      30.0,
			RecentMonths: 3,
		},
		Strava: StravaConfig{
			Sport:        "run",
			APIURL:       "https://www.strava.com/api/v3",
			RedirectPort: 8089,
		},
	}
}

// Sports lists the values accepted for strava.sport.
var Sports = []string{"run", "ride", "swim"}

// Validate reports settings the widget cannot run with.
func (c Config) Validate() error {
	var errs []error
	if c.Widget.RefreshInterval <= 0 {
		errs = append(errs, fmt.Errorf("widget.refresh_interval must be positive, got %d", c.Widget.RefreshInterval))
	}
	if c.Widget.StartupDelay < 0 {
		errs = append(errs, fmt.Errorf("widget.startup_delay must not be negative, got %d", c.Widget.StartupDelay))
	}
	if c.Widget.DetailDisplayTimeout < 0 {
		errs = append(errs, fmt.Errorf("widget.detail_display_timeout must not be negative, got %d", c.Widget.DetailDisplayTimeout))
	}
	if c.Fetch.RecentMonths < 0 {
		errs = append(errs, fmt.Errorf("fetch.recent_months must not be negative, got %d", c.Fetch.RecentMonths))
	}
	if !isSport(c.Strava.Sport) {
		errs = append(errs, fmt.Errorf("strava.sport must be one of %s, got %q", strings.Join(Sports, ", "), c.Strava.Sport))
	}
	return errors.Join(errs...)
}

func isSport(s string) bool {
	for _, sp := range Sports {
		if sp == s {
			return true
		}
	}
	return false
}

var (
	globalConfig *Config
	configMu     sync.RWMutex
)

// Get returns the process-wide config, loading it on first use.
func Get() Config {
	configMu.RLock()
	if c := globalConfig; c != nil {
		configMu.RUnlock()
		return *c
	}
	configMu.RUnlock()

	configMu.Lock()
	defer configMu.Unlock()
	if globalConfig != nil {
		return *globalConfig
	}
	c, _ := Load("")
	globalConfig = &c
	return c
}

func Reload() (Config, error) {
	configMu.Lock()
	defer configMu.Unlock()
	c, err := Load("")
	globalConfig = &c
	return c, err
}

// Load reads the config at path (the default location when empty). A
// missing file yields the defaults; a malformed one yields the defaults
// and an error.
func Load(path string) (Config, error) {
	if path == "" {
		path = ConfigFile()
	}
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		return applyEnvOverrides(cfg), nil
	}

	if _, err := toml.Decode(string(data), &cfg); err != nil {
		return applyEnvOverrides(DefaultConfig()), fmt.Errorf("parsing config %s: %w", path, err)
	}

	return applyEnvOverrides(cfg), nil
}

func Save(cfg Config, path string) error {
	if path == "" {
		path = ConfigFile()
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("saving config: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("saving config: %w", err)
	}
	defer func() { _ = f.Close() }()
	if err := toml.NewEncoder(f).Encode(cfg); err != nil {
		return fmt.Errorf("saving config: %w", err)
	}
	return nil
}

func applyEnvOverrides(cfg Config) Config {
	if v := os.Getenv("STRAVA_CLIENT_ID"); v != "" {
		cfg.Strava.ClientID = v
	}
	if v := os.Getenv("STRAVA_CLIENT_SECRET"); v != "" {
		cfg.Strava.ClientSecret = v
	}
	if v := os.Getenv("STRAVABAR_TEXT"); v != "" {
		cfg.Widget.Text = v
	}
	return cfg
}

// NoColor reports whether STRAVABAR_NO_COLOR or NO_COLOR is set.
func NoColor() bool {
	return os.Getenv("STRAVABAR_NO_COLOR") != "" || os.Getenv("NO_COLOR") != ""
}

// RefreshTokenFromEnv returns STRAVA_REFRESH_TOKEN, if set.
func RefreshTokenFromEnv() string {
	return os.Getenv("STRAVA_REFRESH_TOKEN")
}

func seconds(n int) time.Duration { return time.Duration(n) * time.Second }

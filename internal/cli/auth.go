package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/cli/browser"
	"github.com/spf13/cobra"
	"golang.org/x/oauth2"

	"github.com/joshuadavidthomas/stravabar/internal/config"
	"github.com/joshuadavidthomas/stravabar/internal/httpclient"
	"github.com/joshuadavidthomas/stravabar/internal/logging"
	"github.com/joshuadavidthomas/stravabar/internal/oauth"
	"github.com/joshuadavidthomas/stravabar/internal/prompt"
)

const appSettingsURL = "https://www.strava.com/settings/api"

// openBrowser and authorize are swapped out in tests.
var (
	openBrowser = browser.OpenURL
	authorize   = oauth.Authorize
)

var authCmd = &cobra.Command{
	Use:   "auth",
	Short: "Authorize stravabar to read your Strava activities",
	RunE: func(cmd *cobra.Command, args []string) error {
		showStatus, _ := cmd.Flags().GetBool("status")
		if showStatus {
			return authStatus()
		}
		if logout, _ := cmd.Flags().GetBool("logout"); logout {
			return authLogout()
		}

		cfg := config.Get()
		changed, err := ensureClientCredentials(&cfg)
		if errors.Is(err, prompt.ErrCancelled) {
			outln("Auth cancelled")
			return nil
		}
		if err != nil {
			return err
		}
		if changed {
			if err := saveCredentialsConfig(cfg); err != nil {
				return err
			}
		}

		if rt, _ := cmd.Flags().GetString("refresh-token"); rt != "" {
			if err := oauth.SaveToken(&oauth2.Token{RefreshToken: strings.TrimSpace(rt)}); err != nil {
				return fmt.Errorf("saving token: %w", err)
			}
			return authDone("refresh token saved")
		}

		hc := httpclient.New(cfg.Fetch.TimeoutDuration()).HTTPClient()
		tok, err := authorize(cmd.Context(), oauth.NewConfig(cfg.Strava), cfg.Strava.RedirectPort, hc, func(url string) error {
			if !quiet {
				outln("Open this URL to authorize stravabar:")
				outln()
				outln("  " + url)
				outln()
			}
			if err := openBrowser(url); err != nil {
				logging.FromContext(cmd.Context()).Debug("could not open browser", "err", err)
			}
			return nil
		})
		if err != nil {
			return fmt.Errorf("authorizing with Strava: %w", err)
		}
		if err := oauth.SaveToken(tok); err != nil {
			return fmt.Errorf("saving token: %w", err)
		}
		return authDone("authorized")
	},
}

func init() {
	authCmd.Flags().String("refresh-token", "", "Store this refresh token instead of running the browser flow")
	authCmd.Flags().Bool("status", false, "Show authentication status")
	authCmd.Flags().Bool("logout", false, "Forget the stored Strava token")
}

// ensureClientCredentials prompts for the Strava app's client id and
// secret when they are not configured. It reports whether cfg changed.
func ensureClientCredentials(cfg *config.Config) (bool, error) {
	changed := false
	if cfg.Strava.ClientID == "" {
		if !quiet {
			outln("Create an API application at " + appSettingsURL)
			outln("and set its authorization callback domain to localhost.")
			outln()
		}
		id, err := prompt.Default.Input(prompt.InputConfig{
			Title:       "Strava client ID",
			Description: "Shown on " + appSettingsURL,
			Validate:    prompt.ValidateClientID,
		})
		if err != nil {
			return false, err
		}
		cfg.Strava.ClientID = strings.TrimSpace(id)
		changed = true
	}
	if cfg.Strava.ClientSecret == "" {
		secret, err := prompt.Default.Input(prompt.InputConfig{
			Title:    "Strava client secret",
			Secret:   true,
			Validate: prompt.ValidateNotEmpty,
		})
		if err != nil {
			return false, err
		}
		cfg.Strava.ClientSecret = strings.TrimSpace(secret)
		changed = true
	}
	return changed, nil
}

// saveCredentialsConfig writes the client credentials into the config
// file, keeping whatever else the file already holds.
func saveCredentialsConfig(cfg config.Config) error {
	onDisk, _ := config.Load(config.ConfigFile())
	onDisk.Strava.ClientID = cfg.Strava.ClientID
	onDisk.Strava.ClientSecret = cfg.Strava.ClientSecret
	if err := config.Save(onDisk, config.ConfigFile()); err != nil {
		return err
	}
	_, err := config.Reload()
	return err
}

func authDone(msg string) error {
	if jsonOutput {
		return outJSON(map[string]any{
			"success": true,
			"message": msg,
			"path":    config.TokenPath(),
		})
	}
	if !quiet {
		out("✓ Strava %s, token stored in %s\n", msg, config.TokenPath())
	}
	return nil
}

func authStatus() error {
	_, src, err := oauth.LoadToken(config.Get())
	authenticated := err == nil

	if jsonOutput {
		return outJSON(map[string]any{
			"authenticated": authenticated,
			"source":        string(src),
		})
	}
	if !authenticated {
		outln("✗ Not authorized. Run `stravabar auth`.")
		return nil
	}
	out("✓ Authorized (token from %s)\n", src)
	return nil
}

func authLogout() error {
	removed, err := config.DeleteCredential(config.TokenPath())
	if err != nil {
		return fmt.Errorf("removing token: %w", err)
	}
	if jsonOutput {
		return outJSON(map[string]any{"removed": removed, "path": config.TokenPath()})
	}
	if quiet {
		return nil
	}
	if removed {
		outln("✓ Strava token removed")
	} else {
		outln("No stored token")
	}
	return nil
}

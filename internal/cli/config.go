package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
	"github.com/spf13/cobra"

	"github.com/joshuadavidthomas/stravabar/internal/config"
	"github.com/joshuadavidthomas/stravabar/internal/prompt"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration settings",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Display current settings",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.Get()
		cfgPath := config.ConfigFile()

		if jsonOutput {
			// The client secret is tagged out of JSON.
			return outJSON(map[string]any{
				"config": cfg,
				"path":   cfgPath,
			})
		}

		if quiet {
			outln(cfgPath)
			return nil
		}

		if cfg.Strava.ClientSecret != "" {
			cfg.Strava.ClientSecret = "********"
		}
		out("Config: %s\n\n", cfgPath)
		return toml.NewEncoder(outWriter).Encode(cfg)
	},
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Show directory paths",
	RunE: func(cmd *cobra.Command, args []string) error {
		paths := map[string]string{
			"config_dir":  config.ConfigDir(),
			"config_file": config.ConfigFile(),
			"cache_dir":   config.CacheDir(),
			"token_file":  config.TokenPath(),
			"log_file":    config.LogFile(),
		}
		if jsonOutput {
			return outJSON(paths)
		}
		if quiet {
			outln(config.ConfigDir())
			return nil
		}
		out("Config dir:    %s\n", paths["config_dir"])
		out("Config file:   %s\n", paths["config_file"])
		out("Cache dir:     %s\n", paths["cache_dir"])
		out("Token file:    %s\n", paths["token_file"])
		out("Log file:      %s\n", paths["log_file"])
		return nil
	},
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a default configuration file",
	RunE: func(cmd *cobra.Command, args []string) error {
		force, _ := cmd.Flags().GetBool("force")
		cfgPath := config.ConfigFile()

		if _, err := os.Stat(cfgPath); err == nil && !force {
			if jsonOutput {
				return fmt.Errorf("config file already exists: %s", cfgPath)
			}
			ok, err := prompt.Default.Confirm(prompt.ConfirmConfig{
				Title:       "Overwrite " + cfgPath + "?",
				Description: "The current settings will be replaced by the defaults.",
			})
			if errors.Is(err, prompt.ErrCancelled) || (err == nil && !ok) {
				outln("Init cancelled")
				return nil
			}
			if err != nil {
				return err
			}
		}

		cfg := config.DefaultConfig()
		if !jsonOutput {
			sport, err := prompt.Default.Select(prompt.SelectConfig{
				Title:   "Which sport should the bar track?",
				Options: sportOptions(),
				Default: cfg.Strava.Sport,
			})
			if errors.Is(err, prompt.ErrCancelled) {
				outln("Init cancelled")
				return nil
			}
			if err != nil {
				return err
			}
			cfg.Strava.Sport = sport
		}
		if err := cfg.Validate(); err != nil {
			return err
		}

		if err := config.Save(cfg, cfgPath); err != nil {
			return err
		}
		if _, err := config.Reload(); err != nil {
			return err
		}

		if jsonOutput {
			return outJSON(map[string]any{
				"success": true,
				"path":    cfgPath,
			})
		}
		out("✓ Wrote %s\n", cfgPath)
		return nil
	},
}

func sportOptions() []prompt.SelectOption {
	opts := make([]prompt.SelectOption, 0, len(config.Sports))
	for _, s := range config.Sports {
		opts = append(opts, prompt.SelectOption{Label: s, Value: s})
	}
	return opts
}

func init() {
	configInitCmd.Flags().BoolP("force", "f", false, "Overwrite without asking")

	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configPathCmd)
	configCmd.AddCommand(configInitCmd)
}

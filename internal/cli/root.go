package cli

import (
	"context"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
	"github.com/muesli/termenv"
	"github.com/spf13/cobra"

	"github.com/joshuadavidthomas/stravabar/internal/config"
	"github.com/joshuadavidthomas/stravabar/internal/logging"
)

// Set with -ldflags "-X .../internal/cli.version=...".
var version = "dev"

// Global flags.
var (
	jsonOutput bool
	noColor    bool
	verbose    bool
	quiet      bool
	refresh    bool
)

var rootCmd = &cobra.Command{
	Use:   "stravabar",
	Short: "Strava activity totals in your status bar",
	Long: `stravabar shows this month's Strava totals in a one-line bar and a
detail report with the year, all-time and recent months on demand.

Run without a subcommand to start the interactive bar.`,
	SilenceUsage:     true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) { prepare(cmd) },
	RunE: func(cmd *cobra.Command, args []string) error {
		if v, _ := cmd.Flags().GetBool("version"); v {
			out("stravabar %s\n", version)
			return nil
		}
		return runBar(cmd.Context())
	},
}

// prepare runs before every command. It loads .env and the config file
// and attaches the stderr logger to the command context. Problems with
// either file are logged and the defaults are used.
func prepare(cmd *cobra.Command) {
	if quiet {
		verbose = false
	}
	envErr := config.LoadDotEnv()
	noColor = noColor || config.NoColor()
	if noColor {
		lipgloss.SetColorProfile(termenv.Ascii)
	}

	logger := newConfiguredLogger()
	cmd.SetContext(logging.WithLogger(cmd.Context(), logger))
	if envErr != nil {
		logger.Warn("could not load .env file", "err", envErr)
	}

	cfg, err := config.Reload()
	switch {
	case err != nil:
		logger.Warn("config file is malformed, using defaults", "path", config.ConfigFile(), "err", err)
	default:
		if err := cfg.Validate(); err != nil {
			logger.Warn("config has invalid settings", "err", err)
		}
	}
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.BoolVarP(&jsonOutput, "json", "j", false, "Output as JSON")
	pf.BoolVar(&noColor, "no-color", false, "Disable colored output")
	pf.BoolVarP(&verbose, "verbose", "v", false, "Log debug detail")
	pf.BoolVarP(&quiet, "quiet", "q", false, "Only log errors and print less")
	pf.BoolVarP(&refresh, "refresh", "r", false, "Always fetch; fail instead of falling back to the cache")
	rootCmd.Flags().Bool("version", false, "Print the version")

	rootCmd.AddCommand(barCmd, onceCmd, reportCmd, dumpCmd, authCmd, configCmd, cacheCmd)
}

// ExecuteContext runs the command line. Commands reach ctx through
// cmd.Context().
func ExecuteContext(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

func isTerminal() bool {
	fd := os.Stdout.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

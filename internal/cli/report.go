package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/joshuadavidthomas/stravabar/internal/display"
	"github.com/joshuadavidthomas/stravabar/internal/format"
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Print the detail report",
	RunE: func(cmd *cobra.Command, args []string) error {
		outcome, err := fetchSnapshot(cmd.Context(), "Fetching from Strava")
		if err != nil {
			return err
		}

		report, err := format.Report(outcome.Snapshot)
		if err != nil {
			return fmt.Errorf("building report: %w", err)
		}
		if jsonOutput {
			return outJSON(map[string]any{
				"report": report,
				"cached": outcome.Cached,
			})
		}
		if isTerminal() {
			report = display.FitWidth(report, display.TerminalWidth())
		}
		outln(report)
		if outcome.Cached && !quiet {
			outln("(cached)")
		}
		return nil
	},
}

var dumpCmd = &cobra.Command{
	Use:   "dump",
	Short: "Print the fetched snapshot as JSON or YAML",
	RunE: func(cmd *cobra.Command, args []string) error {
		asYAML, _ := cmd.Flags().GetBool("yaml")

		outcome, err := fetchSnapshot(cmd.Context(), "Fetching from Strava")
		if err != nil {
			return err
		}

		if asYAML {
			return outYAML(outcome.Snapshot)
		}
		return outJSON(outcome)
	},
}

func init() {
	dumpCmd.Flags().Bool("yaml", false, "Output as YAML")
}

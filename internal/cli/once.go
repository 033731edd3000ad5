package cli

import (
	"context"
	"errors"
	"time"

	"github.com/spf13/cobra"

	"github.com/joshuadavidthomas/stravabar/internal/config"
	"github.com/joshuadavidthomas/stravabar/internal/display"
	"github.com/joshuadavidthomas/stravabar/internal/fetch"
	"github.com/joshuadavidthomas/stravabar/internal/logging"
)

var onceCmd = &cobra.Command{
	Use:   "once",
	Short: "Fetch once and print the bar text",
	Long:  "Fetch once and print the bar text. With --json, print a waybar custom module object instead.",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		outcome, err := fetchSnapshot(ctx, "Fetching from Strava")
		if err != nil {
			return err
		}

		cfg := config.Get()
		wb := display.BarOutput(logging.FromContext(ctx), cfg.Widget.Text, outcome.Snapshot, outcome.Cached)
		if jsonOutput {
			return display.OutputWaybar(outWriter, wb)
		}
		outln(wb.Text)
		return nil
	},
}

// fetchSnapshot runs one blocking fetch, with a spinner on a terminal.
// Unless --refresh is set, a failed fetch falls back to the cache and
// the error is logged instead of returned.
func fetchSnapshot(ctx context.Context, label string) (fetch.Outcome, error) {
	logger := logging.FromContext(ctx)
	cfg := config.Get()

	p, err := newProvider(cfg)
	if err != nil {
		if refresh {
			return fetch.Outcome{}, err
		}
		if cached := config.LoadCachedSnapshot(); cached != nil {
			logger.Warn("showing cached data", "err", err)
			return fetch.Outcome{Success: true, Snapshot: cached, Source: "cache", Cached: true, Error: err.Error()}, nil
		}
		return fetch.Outcome{}, err
	}

	start := time.Now()
	var outcome fetch.Outcome
	fetchOnce := func(ctx context.Context) error {
		outcome = fetch.FetchOnce(ctx, p, !refresh, pipelineConfig(cfg))
		return nil
	}

	if display.SpinnerShouldShow(quiet, jsonOutput, !isTerminal()) {
		err = display.Spin(ctx, label, fetchOnce)
	} else {
		err = fetchOnce(ctx)
	}
	if err != nil {
		return outcome, err
	}

	if !outcome.Success {
		msg := outcome.Error
		if msg == "" {
			msg = "fetch failed"
		}
		return outcome, errors.New(msg)
	}

	logger.Debug("fetch complete", "source", outcome.Source, "duration_ms", time.Since(start).Milliseconds())
	if outcome.Cached {
		logger.Warn("showing cached data", "err", outcome.Error)
	}
	return outcome, nil
}

package cli

import (
	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/joshuadavidthomas/stravabar/internal/config"
)

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Manage the cached snapshot",
}

var cacheShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show what is cached",
	RunE: func(cmd *cobra.Command, args []string) error {
		snap := config.LoadCachedSnapshot()
		if jsonOutput {
			entry := map[string]any{"path": config.SnapshotPath(), "cached": snap != nil}
			if snap != nil {
				entry["fetched_at"] = snap.FetchedAt
				entry["sport"] = snap.Sport
			}
			return outJSON(entry)
		}
		if snap == nil {
			outln("No cached snapshot")
			return nil
		}
		out("%s snapshot fetched %s\n", snap.Sport, humanize.Time(snap.FetchedAt))
		if !quiet {
			out("Path: %s\n", config.SnapshotPath())
		}
		return nil
	},
}

var cacheClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove the cached snapshot",
	RunE: func(cmd *cobra.Command, args []string) error {
		removed := config.ClearSnapshotCache()
		if jsonOutput {
			return outJSON(map[string]any{
				"success": true,
				"removed": removed,
			})
		}
		if quiet {
			return nil
		}
		if removed {
			outln("✓ Cache cleared")
		} else {
			outln("Cache was already empty")
		}
		return nil
	},
}

func init() {
	cacheCmd.AddCommand(cacheShowCmd)
	cacheCmd.AddCommand(cacheClearCmd)
}

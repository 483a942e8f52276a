// Package main is the CLI entry point for displaymon.
package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/eliteGoblin/focusd/display_mon/internal/config"
)

var (
	// Version info (set via ldflags)
	Version   = "0.1.0"
	Commit    = "dev"
	BuildTime = "unknown"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "displaymon",
		Short: "Display and screen-sharing state monitor",
		Long: `displaymon watches the display topology and the process table and reports
whether an external display is connected, how many displays are active,
whether the screen is mirrored and whether a screen-sharing app is running.

Events are printed to stdout as one JSON object per line.`,
		Version:      Version,
		SilenceUsage: true,
	}

	watchCmd := &cobra.Command{
		Use:   "watch",
		Short: "Stream display state changes until interrupted",
		Long: `Starts detection and prints every delivered state change as JSON.
The first event is the current state. Subsequent events are emitted only
when the state changes; rapid changes between deliveries are coalesced.`,
		RunE: runWatch,
	}
	config.AddFlags(watchCmd)

	scanCmd := &cobra.Command{
		Use:   "scan",
		Short: "Print the current display state once",
		RunE:  runScan,
	}
	config.AddFlags(scanCmd)
	scanCmd.Flags().BoolP("verbose", "v", false, "also print connectors and matched processes")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List built-in screen-sharing applications",
		RunE:  runList,
	}

	statusCmd := &cobra.Command{
		Use:   "status",
		Short: "Show whether a watch process is running",
		RunE:  runStatus,
	}

	historyCmd := &cobra.Command{
		Use:   "history",
		Short: "Show recently journaled events",
		RunE:  runHistory,
	}
	historyCmd.Flags().Int("limit", 20, "number of events to show")
	historyCmd.Flags().String(config.KeyJournalPath, "", "journal database path")

	versionCmd := &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Long:  `Prints version, commit, and build time. Use --json for machine-readable output.`,
		Run:   runVersion,
	}
	versionCmd.Flags().Bool("json", false, "Output version info as JSON")

	root.AddCommand(watchCmd, scanCmd, listCmd, statusCmd, historyCmd, versionCmd)
	return root
}

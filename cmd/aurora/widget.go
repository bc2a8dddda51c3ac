package main

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"github.com/aretw0/aurora/internal/platform"
)

var widgetCmd = &cobra.Command{
	Use:   "widget",
	Short: "Render the home widget from a read-only snapshot",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()

		reader, err := platform.OpenReader(ctx, cfg.Data.Dir, cfg.Options(slog.Default())...)
		if err != nil {
			fatal("Failed to open snapshot", err)
		}
		snap, err := reader.Read(ctx)
		if cerr := reader.Close(); cerr != nil {
			slog.Warn("failed to close snapshot reader", "error", cerr)
		}
		if err != nil {
			// Partial snapshots still render.
			slog.Warn("snapshot incomplete", "error", err)
		}

		now := time.Now()
		today := snap.Today(now)
		cards := snap.Pinned(now)
		if jsonOutput {
			printJSON(map[string]any{"today": today, "pinned": cards})
			return
		}

		fmt.Printf("Today (%d)\n", len(today))
		for _, t := range today {
			fmt.Printf("  %s  %s\n", t.Due.Local().Format("15:04"), t.Title)
		}
		for _, c := range cards {
			name := string(c.SmartList)
			if c.Category != nil {
				name = c.Category.Name
			}
			fmt.Printf("%s: %d\n", name, len(c.Tasks))
		}
	},
}

func init() {
	rootCmd.AddCommand(widgetCmd)
}

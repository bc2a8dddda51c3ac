package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/aretw0/aurora/internal/platform"
	"github.com/aretw0/aurora/pkg/adapters/lifecycle"
	"github.com/aretw0/aurora/pkg/core"
)

var watchPattern string

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Print changes made to the data directory by other processes",
	Long: `Watch reports slot files rewritten by another aurora process or edited by
hand. Only the fs backend can be watched. Stop with Ctrl+C.`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		opts := append(cfg.Options(slog.Default()), platform.WithReadOnly(true), platform.WithMustExist(true))
		backend, err := platform.Init(ctx, cfg.Data.Dir, opts...)
		if err != nil {
			fatal("Failed to open data directory", err)
		}
		defer backend.Close()

		watchable, ok := backend.(core.Watchable)
		if !ok {
			fatal("Cannot watch", fmt.Errorf("backend %s does not support watching", cfg.Data.Backend))
		}

		events, err := watchable.Watch(ctx, watchPattern)
		if err != nil {
			fatal("Failed to start watcher", err)
		}

		src := lifecycle.NewSource(events)
		if err := src.Start(ctx); err != nil {
			fatal("Failed to start event source", err)
		}

		slog.Info("watching", "dir", cfg.Data.Dir, "pattern", watchPattern)
		for le := range src.Events() {
			e, ok := le.(core.Event)
			if !ok {
				continue
			}
			if jsonOutput {
				printJSON(e)
				continue
			}
			fmt.Printf("%s %s\n", e.Timestamp.Format("15:04:05.000"), e)
		}
	},
}

func init() {
	watchCmd.Flags().StringVar(&watchPattern, "pattern", "*", "Glob of slot file names to watch")
	rootCmd.AddCommand(watchCmd)
}

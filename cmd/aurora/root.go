package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/aretw0/aurora/internal/config"
	"github.com/aretw0/aurora/internal/platform"
	"github.com/aretw0/aurora/pkg/adapters/lifecycle"
	"github.com/aretw0/aurora/pkg/store"
)

var (
	verbose    bool
	configFile string
	jsonOutput bool

	cfg *config.Config
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "aurora",
	Short: "Local data store for tasks, categories, journal and settings",
	Long: `Aurora keeps tasks, categories, a journal with a 30-day trash and home
screen settings in a private data directory. Every command loads the store,
applies one operation and flushes it before exiting.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		var err error
		cfg, err = config.Load(configFile, cmd.Flags())
		if err != nil {
			fatal("Failed to load configuration", err)
		}
		slog.SetDefault(cfg.NewLogger(os.Stderr, verbose))
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main().
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	flags.StringVar(&configFile, "config", "", "Config file (default ./aurora.yaml)")
	flags.BoolVar(&jsonOutput, "json", false, "Print results as JSON")
	flags.String("data", "", "Data directory")
	flags.String("backend", platform.AdapterFS, "Storage backend: fs, sqlite or memory")
	flags.String("format", "json", "Slot encoding for the fs backend: json or yaml")
	flags.Duration("debounce", 0, "Quiet period before a save fires")
	flags.Bool("dev-safety", true, "Sandbox the data directory under the temp dir for go run builds")
	flags.String("log-level", "info", "Log level: debug, info, warn or error")
	flags.String("log-format", "text", "Log format: text or json")
}

// withStore opens the store, runs fn and closes the store so every
// mutation is flushed before the process exits. Change events raised by fn
// are logged at debug level.
func withStore(fn func(ctx context.Context, s *store.Store) error) error {
	ctx := context.Background()

	s, err := platform.Open(ctx, cfg.Data.Dir, cfg.Options(slog.Default())...)
	if err != nil {
		return err
	}

	feedCtx, stopFeed := context.WithCancel(ctx)
	feed := lifecycle.Subscribe(feedCtx, s, 0)

	runErr := fn(ctx, s)
	stopFeed()
	for e := range feed.C {
		slog.Debug("change", "event", e.String())
	}
	if n := feed.Dropped(); n > 0 {
		slog.Debug("change events dropped", "count", n)
	}
	if err := s.Close(ctx); err != nil {
		slog.Error("failed to flush store", "error", err)
		if runErr == nil {
			runErr = err
		}
	}
	return runErr
}

func printJSON(v any) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		fatal("Failed to encode output", err)
	}
}

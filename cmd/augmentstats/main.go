package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"augmentstats/internal/config"
	"augmentstats/internal/logging"
	"augmentstats/internal/tracker"

	"github.com/spf13/cobra"
)

var (
	cfg       *config.Config
	logCloser io.Closer

	flagDBPath       string
	flagDatabaseURL  string
	flagLogLevel     string
	flagWorkers      int
	flagProgressAddr string
)

var rootCmd = &cobra.Command{
	Use:           "augmentstats",
	Short:         "Track Teamfight Tactics augment results from screenshots",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		config.LoadEnv()
		loaded, err := config.Load()
		if err != nil {
			return err
		}
		applyFlags(cmd, loaded)
		if err := loaded.Validate(); err != nil {
			return err
		}
		cfg = loaded

		logCloser, err = logging.Setup(logging.Options{Level: cfg.LogLevel, Pretty: true, File: cfg.LogFile})
		return err
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logCloser != nil {
			logCloser.Close()
		}
	},
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&flagDBPath, "db", "", "SQLite database path (env AUGMENT_DB_PATH)")
	pf.StringVar(&flagDatabaseURL, "database-url", "", "postgres:// or libsql:// URL (env AUGMENT_DATABASE_URL)")
	pf.StringVar(&flagLogLevel, "log-level", "", "log level: debug, info, warn, error (env AUGMENT_LOG_LEVEL)")
	pf.IntVar(&flagWorkers, "workers", 0, "screenshots analysed in parallel per game (env AUGMENT_WORKERS)")
	pf.StringVar(&flagProgressAddr, "progress-addr", "", "stream progress over websocket on this address (env AUGMENT_PROGRESS_ADDR)")
}

// applyFlags lets explicitly set flags override the environment.
func applyFlags(cmd *cobra.Command, c *config.Config) {
	flags := cmd.Flags()
	if flags.Changed("db") {
		c.DBPath = flagDBPath
	}
	if flags.Changed("database-url") {
		c.DatabaseURL = flagDatabaseURL
	}
	if flags.Changed("log-level") {
		c.LogLevel = flagLogLevel
	}
	if flags.Changed("workers") {
		c.Workers = flagWorkers
	}
	if flags.Changed("progress-addr") {
		c.ProgressAddr = flagProgressAddr
	}
}

// openTracker opens the configured store.
func openTracker(ctx context.Context) (*tracker.Tracker, error) {
	return tracker.Open(ctx, cfg)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

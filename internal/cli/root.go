// Package cli provides the command-line interface for erdscan.
package cli

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/raphaelgruber/erdscan/internal/config"
	"github.com/raphaelgruber/erdscan/internal/metrics"
	"github.com/raphaelgruber/erdscan/internal/service"
)

var (
	// Version is set at build time.
	Version = "0.1.0"

	// Global flags
	verbose      bool
	entitiesFile string

	// Global config, logger and stage timings
	cfg       config.Config
	logSink   *config.Logger
	logger    = slog.Default()
	collector = metrics.NewCollector()
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "erdscan",
	Short: "Scrape and rank schema tables",
	Long: `erdscan scrapes table and field definitions out of AL source trees,
validates the resulting entities document and ranks tables by how often
their names show up in other tables (importance) plus the importance of
the tables they are linked to (second importance).

Typical pipeline:
  erdscan scan ./BaseApp -o entities.json
  erdscan validate entities.json --prune
  erdscan score entities.json --top 20`,
	Version:       Version,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg = config.Load()
		if entitiesFile != "" {
			cfg.EntitiesFile = entitiesFile
		}

		// version and help don't need logging
		if cmd.Name() == "version" || cmd.Name() == "help" {
			return nil
		}

		level := cfg.LogLevel
		if verbose {
			level = slog.LevelDebug
		}
		logSink = config.SetupLogger(cfg.LogFile, level)
		logger = logSink.Logger
		collector = metrics.NewCollector()
		return nil
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// Timings and log cleanup run after every command, including failed ones.
func Execute() error {
	err := rootCmd.Execute()
	finish()
	return err
}

// finish prints --verbose timings and closes the log file opened by
// PersistentPreRunE. It is a no-op when no command got that far.
func finish() {
	if logSink == nil {
		return
	}
	if verbose {
		printTimings(rootCmd.ErrOrStderr(), collector.Snapshot())
	}
	if err := logSink.Close(); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to close log file: %v\n", err)
	}
	logSink = nil
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging and stage timings")
	rootCmd.PersistentFlags().StringVarP(&entitiesFile, "file", "f", "", "entities document (default $ERDSCAN_ENTITIES_FILE)")

	rootCmd.AddCommand(scanCmd)
	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(scoreCmd)
	rootCmd.AddCommand(topCmd)
	rootCmd.AddCommand(pathsCmd)
	rootCmd.AddCommand(syncCmd)
	rootCmd.AddCommand(versionCmd)
}

// documentPath picks the entities document: positional argument first,
// then --file, then the environment default.
func documentPath(args []string) string {
	if len(args) > 0 && args[0] != "" {
		return args[0]
	}
	return cfg.EntitiesFile
}

// entityService builds the document pipeline. graph may be nil for
// commands that never sync.
func entityService(graph service.GraphStore) *service.EntityService {
	return service.NewEntityService(logger, collector, graph)
}

func printTimings(w io.Writer, snap metrics.Snapshot) {
	fmt.Fprintf(w, "\nTimings (%.2fs):\n", snap.UptimeSeconds)
	for _, s := range snap.Stages {
		fmt.Fprintf(w, "  %-9s n=%-4d total=%dms avg=%.1fms max=%dms\n",
			s.Stage, s.Count, s.TotalTimeMs, s.AvgTimeMs, s.MaxTimeMs)
	}
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "erdscan %s\n", Version)
	},
}

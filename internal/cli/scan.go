package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/raphaelgruber/erdscan/internal/service"
)

var (
	scanOutput     string
	scanSuffix     string
	scanWorkers    int
	scanNoProgress bool
	scanDryRun     bool
)

var scanCmd = &cobra.Command{
	Use:   "scan <directory>",
	Short: "Scrape table definitions from an AL source tree",
	Long: `Recursively scan a directory for table files and write one entity per
table to the entities document. Table numbers become entity ids, table
names the entity names and field names the columns.

Examples:
  erdscan scan ./BaseApp
  erdscan scan ./BaseApp -o entities.yaml
  erdscan scan ./BaseApp --suffix .al --workers 16
  erdscan scan ./BaseApp --dry-run`,
	Args: cobra.ExactArgs(1),
	RunE: runScan,
}

func init() {
	scanCmd.Flags().StringVarP(&scanOutput, "output", "o", "", "output document (default $ERDSCAN_ENTITIES_FILE)")
	scanCmd.Flags().StringVar(&scanSuffix, "suffix", "", "table file suffix (default $ERDSCAN_TABLE_SUFFIX)")
	scanCmd.Flags().IntVarP(&scanWorkers, "workers", "w", 0, "parallel parsers (default $ERDSCAN_SCAN_WORKERS)")
	scanCmd.Flags().BoolVar(&scanNoProgress, "no-progress", false, "disable the progress bar")
	scanCmd.Flags().BoolVar(&scanDryRun, "dry-run", false, "scan without writing the document")
}

func runScan(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	dir := args[0]

	info, err := os.Stat(dir)
	if err != nil {
		return fmt.Errorf("scan %s: %w", dir, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("scan %s: not a directory", dir)
	}

	out := scanOutput
	if out == "" {
		out = cfg.EntitiesFile
	}
	opts := service.ScanOptions{
		Suffix:      scanSuffix,
		Concurrency: scanWorkers,
	}
	if opts.Suffix == "" {
		opts.Suffix = cfg.TableSuffix
	}
	if opts.Concurrency <= 0 {
		opts.Concurrency = cfg.ScanWorkers
	}

	svc := service.NewScanService(logger, collector)

	var result *service.ScanResult
	if !scanNoProgress && isTerminal(os.Stdout) {
		// log lines would tear the progress bar
		if logSink != nil {
			restore := logSink.MuteStderr()
			defer restore()
		}
		result, err = runScanProgress(ctx, svc, dir, opts)
	} else {
		result, err = svc.Scan(ctx, dir, opts)
	}
	if err != nil {
		return err
	}

	if scanDryRun {
		fmt.Fprint(cmd.OutOrStdout(), scanSummary(result, "(dry run)"))
		return nil
	}

	if err := entityService(nil).Save(out, result.Entities); err != nil {
		return err
	}
	fmt.Fprint(cmd.OutOrStdout(), scanSummary(result, out))
	return nil
}

func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

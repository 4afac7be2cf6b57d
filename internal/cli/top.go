package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/raphaelgruber/erdscan/internal/scoring"
)

var (
	topLimit int
	topPlain bool
)

var topCmd = &cobra.Command{
	Use:   "top [file]",
	Short: "Show the ranking of a scored document",
	Long: `Print entities of an already scored document ordered by second
importance (ties broken by name).

Examples:
  erdscan top
  erdscan top entities.json -n 50
  erdscan top -n 0 --plain`,
	Args: cobra.MaximumNArgs(1),
	RunE: runTop,
}

func init() {
	topCmd.Flags().IntVarP(&topLimit, "limit", "n", -1, "max results, 0 for all (default $ERDSCAN_TOP)")
	topCmd.Flags().BoolVar(&topPlain, "plain", false, "plain text output")
}

func runTop(cmd *cobra.Command, args []string) error {
	entities, err := entityService(nil).Load(documentPath(args))
	if err != nil {
		return err
	}

	if len(entities) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No entities found.")
		return nil
	}

	n := topLimit
	if n < 0 {
		n = cfg.Top
	}
	fmt.Fprint(cmd.OutOrStdout(), renderRanking(scoring.Rank(entities, n), topPlain || !isTerminal(os.Stdout)))
	return nil
}

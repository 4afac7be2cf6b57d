package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/raphaelgruber/erdscan/internal/graph"
)

var (
	pathsHops  int
	pathsLimit int
	pathsPlain bool
)

var pathsCmd = &cobra.Command{
	Use:   "paths [file]",
	Short: "Show how far links reach in k hops",
	Long: `Raise the link adjacency matrix of a scored document to the k-th power
and report, per entity, how many other entities are reachable in exactly
k link steps and how many k-step paths start there.

Examples:
  erdscan paths
  erdscan paths entities.json --hops 3 -n 10`,
	Args: cobra.MaximumNArgs(1),
	RunE: runPaths,
}

func init() {
	pathsCmd.Flags().IntVarP(&pathsHops, "hops", "k", 2, "link steps")
	pathsCmd.Flags().IntVarP(&pathsLimit, "limit", "n", -1, "max results, 0 for all (default $ERDSCAN_TOP)")
	pathsCmd.Flags().BoolVar(&pathsPlain, "plain", false, "plain text output")
}

func runPaths(cmd *cobra.Command, args []string) error {
	entities, err := entityService(nil).Load(documentPath(args))
	if err != nil {
		return err
	}

	reach, err := graph.ReachAt(entities, pathsHops)
	if err != nil {
		return fmt.Errorf("compute reach: %w", err)
	}

	n := pathsLimit
	if n < 0 {
		n = cfg.Top
	}
	if n > 0 && n < len(reach) {
		reach = reach[:n]
	}

	fmt.Fprint(cmd.OutOrStdout(), renderReach(reach, pathsHops, pathsPlain || !isTerminal(os.Stdout)))
	return nil
}

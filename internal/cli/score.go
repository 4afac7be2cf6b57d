package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/raphaelgruber/erdscan/internal/scoring"
)

var (
	scoreOutput      string
	scoreTop         int
	scoreNoSave      bool
	scoreEveryColumn bool
	scorePlain       bool
)

var scoreCmd = &cobra.Command{
	Use:   "score [file]",
	Short: "Compute importance and second importance",
	Long: `Link every table to the tables whose name fuzzily matches one of its
columns (or, failing that, its own longer name), count importance, then
propagate one hop to get second importance. The scored document replaces
the input unless --output or --no-save is given. Previous scores are
ignored.

Examples:
  erdscan score
  erdscan score entities.json --top 10
  erdscan score entities.json -o scored.yaml
  erdscan score --no-save --plain`,
	Args: cobra.MaximumNArgs(1),
	RunE: runScore,
}

func init() {
	scoreCmd.Flags().StringVarP(&scoreOutput, "output", "o", "", "write scored document here (default: overwrite input)")
	scoreCmd.Flags().IntVarP(&scoreTop, "top", "n", 0, "entities to print (default $ERDSCAN_TOP, -1 for none)")
	scoreCmd.Flags().BoolVar(&scoreNoSave, "no-save", false, "print the ranking without writing a document")
	scoreCmd.Flags().BoolVar(&scoreEveryColumn, "count-every-column", false, "count every matching column instead of once per table pair")
	scoreCmd.Flags().BoolVar(&scorePlain, "plain", false, "plain text output")
}

func runScore(cmd *cobra.Command, args []string) error {
	in := documentPath(args)
	out := scoreOutput
	if out == "" {
		out = in
	}
	if scoreNoSave {
		out = ""
	}

	var opts []scoring.Option
	if scoreEveryColumn {
		opts = append(opts, scoring.WithCountEveryColumn())
	}

	scored, stats, err := entityService(nil).ScoreFile(in, out, opts...)
	if err != nil {
		return err
	}

	w := cmd.OutOrStdout()
	n := scoreTop
	if n == 0 {
		n = cfg.Top
	}
	if n > 0 {
		fmt.Fprint(w, renderRanking(scoring.Rank(scored, n), scorePlain || !isTerminal(os.Stdout)))
	}

	fmt.Fprintf(w, "\nScored %d entities: %d links, %d linked, max importance %d, max second importance %d\n",
		stats.Entities, stats.Links, stats.Linked, stats.MaxImportance, stats.MaxSecondImportance)
	if out != "" {
		fmt.Fprintf(w, "Saved to %s\n", out)
	}
	return nil
}

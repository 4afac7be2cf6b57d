package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/raphaelgruber/erdscan/internal/validate"
)

// errBlockingIssues is returned when a document cannot be scored as is.
var errBlockingIssues = errors.New("document has blocking issues")

var (
	validatePrune  bool
	validateOutput string
	validateQuiet  bool
)

var validateCmd = &cobra.Command{
	Use:   "validate [file]",
	Short: "Check an entities document",
	Long: `Report entities with a missing id or name, missing or empty columns,
duplicate ids and links to unknown ids. Missing ids, duplicate ids and
unknown links are blocking and make the command fail.

With --prune, entities without columns are dropped and the document is
written back (or to --output).

Examples:
  erdscan validate
  erdscan validate entities.json --prune
  erdscan validate entities.json --prune -o pruned.json`,
	Args: cobra.MaximumNArgs(1),
	RunE: runValidate,
}

func init() {
	validateCmd.Flags().BoolVar(&validatePrune, "prune", false, "drop entities without columns and save")
	validateCmd.Flags().StringVarP(&validateOutput, "output", "o", "", "write pruned document here (default: overwrite input)")
	validateCmd.Flags().BoolVarP(&validateQuiet, "quiet", "q", false, "only print the summary")
}

func runValidate(cmd *cobra.Command, args []string) error {
	path := documentPath(args)
	svc := entityService(nil)

	entities, err := svc.Load(path)
	if err != nil {
		return err
	}

	report := svc.Validate(entities)
	w := cmd.OutOrStdout()

	if !validateQuiet {
		for _, issue := range report.Issues {
			fmt.Fprintln(w, issue.String())
		}
	}
	fmt.Fprintf(w, "%d entities, %d issues (missing id %d, missing name %d, missing columns %d, empty columns %d, duplicate id %d, dangling links %d)\n",
		report.Entities, len(report.Issues),
		report.Count(validate.MissingID),
		report.Count(validate.MissingName),
		report.Count(validate.MissingColumns),
		report.Count(validate.EmptyColumns),
		report.Count(validate.DuplicateID),
		report.Count(validate.DanglingLink),
	)

	if validatePrune {
		kept, dropped := validate.Prune(entities)
		out := validateOutput
		if out == "" {
			out = path
		}
		if err := svc.Save(out, kept); err != nil {
			return err
		}
		fmt.Fprintf(w, "Pruned %d entities without columns, %d kept -> %s\n", dropped, len(kept), out)
		report = svc.Validate(kept)
	}

	if report.Blocking() {
		return errBlockingIssues
	}
	return nil
}

package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/raphaelgruber/erdscan/internal/db"
	"github.com/raphaelgruber/erdscan/internal/models"
)

var (
	syncShow    int
	syncTimeout time.Duration
)

var syncCmd = &cobra.Command{
	Use:   "sync [file]",
	Short: "Push a scored document to SurrealDB",
	Long: `Replace the SurrealDB graph with the entities and links of a scored
document in a single transaction, recording a score run.

Connection settings come from SURREALDB_URL, SURREALDB_NAMESPACE,
SURREALDB_DATABASE, SURREALDB_USER, SURREALDB_PASS and SURREALDB_AUTH_LEVEL.

Examples:
  erdscan sync
  erdscan sync entities.json --show 10`,
	Args: cobra.MaximumNArgs(1),
	RunE: runSync,
}

func init() {
	syncCmd.Flags().IntVar(&syncShow, "show", 0, "read back and print the top n entities from the database")
	syncCmd.Flags().DurationVar(&syncTimeout, "timeout", 2*time.Minute, "overall timeout")
}

func runSync(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if syncTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, syncTimeout)
		defer cancel()
	}

	path := documentPath(args)

	client, err := db.NewClient(ctx, db.Config{
		URL:       cfg.SurrealDBURL,
		Namespace: cfg.SurrealDBNamespace,
		Database:  cfg.SurrealDBDatabase,
		Username:  cfg.SurrealDBUser,
		Password:  cfg.SurrealDBPass,
		AuthLevel: cfg.SurrealDBAuthLevel,
	}, logger)
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}
	defer func() {
		if err := client.Close(ctx); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: failed to close database: %v\n", err)
		}
	}()

	if err := client.InitSchema(ctx); err != nil {
		return fmt.Errorf("initialize schema: %w", err)
	}

	svc := entityService(client)
	entities, err := svc.Load(path)
	if err != nil {
		return err
	}

	run, err := svc.Sync(ctx, entities)
	if err != nil {
		return err
	}
	runID, err := models.RecordIDString(run.ID)
	if err != nil {
		return fmt.Errorf("run id: %w", err)
	}

	w := cmd.OutOrStdout()
	fmt.Fprintf(w, "Synced %s to run %s: %d entities, %d links (%s)\n",
		path, runID, run.Entities, run.Links, run.Created.Local().Format(time.DateTime))

	if syncShow > 0 {
		top, err := client.TopEntities(ctx, syncShow)
		if err != nil {
			return fmt.Errorf("read back ranking: %w", err)
		}
		fmt.Fprint(w, renderRanking(top, !isTerminal(os.Stdout)))
	}
	return nil
}

package db

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/surrealdb/surrealdb.go"
	surrealmodels "github.com/surrealdb/surrealdb.go/pkg/models"

	"github.com/raphaelgruber/erdscan/internal/models"
)

// entityRecord is the stored shape of a schema_entity with its outgoing
// links resolved.
type entityRecord struct {
	ID               surrealmodels.RecordID   `json:"id"`
	Name             string                   `json:"name"`
	Description      string                   `json:"description"`
	Columns          []string                 `json:"columns"`
	HasColumns       bool                     `json:"has_columns"`
	Importance       int                      `json:"importance"`
	SecondImportance int                      `json:"second_importance"`
	Linked           []surrealmodels.RecordID `json:"linked"`
}

func (r entityRecord) toEntity() (models.Entity, error) {
	id, err := models.RecordIDString(r.ID)
	if err != nil {
		return models.Entity{}, err
	}

	e := models.Entity{
		ID:               id,
		Name:             r.Name,
		Importance:       r.Importance,
		SecondImportance: r.SecondImportance,
		LinkedEntities:   make([]string, 0, len(r.Linked)),
	}
	if r.Description != "" {
		desc := r.Description
		e.Description = &desc
	}
	if r.HasColumns {
		e.Columns = models.WithColumns(r.Columns...)
	}
	for _, l := range r.Linked {
		lid, err := models.RecordIDString(l)
		if err != nil {
			return models.Entity{}, err
		}
		e.LinkedEntities = append(e.LinkedEntities, lid)
	}
	return e, nil
}

// SyncRun replaces the stored graph with a scored collection in a single
// transaction and returns the new run id.
func (c *Client) SyncRun(ctx context.Context, entities []models.Entity) (string, error) {
	runID := uuid.NewString()

	rows := make([]map[string]any, 0, len(entities))
	links := make([]map[string]any, 0)
	for _, e := range entities {
		description := ""
		if e.Description != nil {
			description = *e.Description
		}
		columns := e.ColumnNames()
		if columns == nil {
			columns = []string{}
		}
		rows = append(rows, map[string]any{
			"id":                e.ID,
			"name":              e.Name,
			"description":       description,
			"columns":           columns,
			"has_columns":       e.HasColumns(),
			"importance":        e.Importance,
			"second_importance": e.SecondImportance,
		})
		for pos, target := range e.LinkedEntities {
			links = append(links, map[string]any{
				"from":     e.ID,
				"to":       target,
				"position": pos,
			})
		}
	}

	sql := `
		BEGIN TRANSACTION;

		DELETE links_to;
		DELETE schema_entity;

		CREATE type::record("score_run", $run) SET
			entities = $entity_count,
			links = $link_count;

		FOR $e IN $entities {
			CREATE type::record("schema_entity", $e.id) SET
				name = $e.name,
				description = $e.description,
				columns = $e.columns,
				has_columns = $e.has_columns,
				importance = $e.importance,
				second_importance = $e.second_importance,
				run = type::record("score_run", $run);
		};

		FOR $l IN $links {
			RELATE type::record("schema_entity", $l.from)->links_to->type::record("schema_entity", $l.to) SET
				position = $l.position,
				run = type::record("score_run", $run);
		};

		COMMIT TRANSACTION;
	`

	c.logger.Info("syncing score run", "run", runID, "entities", len(rows), "links", len(links))
	_, err := surrealdb.Query[any](ctx, c.db, sql, map[string]any{
		"run":          runID,
		"entities":     rows,
		"links":        links,
		"entity_count": len(rows),
		"link_count":   len(links),
	})
	if err != nil {
		return "", fmt.Errorf("sync run: %w", wrapQueryError(err))
	}
	return runID, nil
}

// TopEntities returns stored entities ordered by second importance
// descending, then name. limit <= 0 returns all of them.
func (c *Client) TopEntities(ctx context.Context, limit int) ([]models.Entity, error) {
	limitClause := ""
	vars := map[string]any{}
	if limit > 0 {
		limitClause = "LIMIT $limit"
		vars["limit"] = limit
	}

	sql := fmt.Sprintf(`
		SELECT id, name, description, columns, has_columns, importance, second_importance,
			(SELECT out, position FROM links_to WHERE in = $parent.id ORDER BY position).out AS linked
		FROM schema_entity
		ORDER BY second_importance DESC, name ASC
		%s
	`, limitClause)

	results, err := surrealdb.Query[[]entityRecord](ctx, c.db, sql, vars)
	if err != nil {
		return nil, fmt.Errorf("top entities: %w", wrapQueryError(err))
	}
	if results == nil || len(*results) == 0 {
		return []models.Entity{}, nil
	}

	records := (*results)[0].Result
	entities := make([]models.Entity, 0, len(records))
	for _, r := range records {
		e, err := r.toEntity()
		if err != nil {
			return nil, fmt.Errorf("top entities: %w", err)
		}
		entities = append(entities, e)
	}
	return entities, nil
}

// GetRun retrieves a score run by id.
func (c *Client) GetRun(ctx context.Context, id string) (*models.ScoreRun, error) {
	results, err := surrealdb.Query[[]models.ScoreRun](ctx, c.db, `
		SELECT * FROM type::record("score_run", $id)
	`, map[string]any{"id": id})
	if err != nil {
		return nil, fmt.Errorf("get run: %w", wrapQueryError(err))
	}

	if results == nil || len(*results) == 0 || len((*results)[0].Result) == 0 {
		return nil, fmt.Errorf("get run %s: %w", id, ErrNotFound)
	}
	return &(*results)[0].Result[0], nil
}

// Package scoring links entities by fuzzy name matching and ranks them by
// importance.
//
// Scoring runs in two passes over the complete collection. The link pass
// compares every ordered pair of entities and counts the matches each entity
// takes part in (importance). The propagation pass adds the importance of
// every one-hop neighbour on top of an entity's own importance (second
// importance). Scores depend on the whole collection: scoring a subset yields
// different, lower values.
package scoring

import (
	"errors"
	"fmt"
	"unicode/utf8"

	"github.com/raphaelgruber/erdscan/internal/models"
	"github.com/raphaelgruber/erdscan/internal/similarity"
)

// Sentinel errors for scoring.
var (
	// ErrDuplicateID indicates two entities in the collection share an id.
	ErrDuplicateID = errors.New("duplicate entity id")

	// ErrUnknownEntity indicates a linkedEntities entry refers to an id that is
	// not part of the collection.
	ErrUnknownEntity = errors.New("unknown entity id")
)

// Options tunes a scoring run.
type Options struct {
	// CountEveryColumn makes every matching column of the other entity
	// increment both importances. By default a pair counts once, however many
	// columns match. Either way the link is recorded once.
	CountEveryColumn bool
}

// Option configures Options.
type Option func(*Options)

// WithCountEveryColumn enables Options.CountEveryColumn.
func WithCountEveryColumn() Option {
	return func(o *Options) {
		o.CountEveryColumn = true
	}
}

// Score computes importance, linkedEntities and second importance for every
// entity. The input is not modified; the result is an annotated copy in the
// same order. Previous scores and links on the input are ignored.
func Score(entities []models.Entity, opts ...Option) ([]models.Entity, error) {
	linked, err := Link(entities, opts...)
	if err != nil {
		return nil, err
	}
	return Propagate(linked)
}

// Link runs the link pass. For every ordered pair (entity, other):
//
//   - if entity's name matches a column of other, both importances grow by
//     one and entity links to other;
//   - otherwise, if entity's name matches other's name and is strictly
//     shorter, both importances grow by one and entity links to other.
//
// Self pairs are skipped. Entities without columns never match by column.
// SecondImportance is reset to zero on the result.
func Link(entities []models.Entity, opts ...Option) ([]models.Entity, error) {
	var o Options
	for _, opt := range opts {
		opt(&o)
	}

	if _, err := buildIndex(entities); err != nil {
		return nil, err
	}

	out := make([]models.Entity, len(entities))
	for i := range entities {
		out[i] = entities[i].Clone()
		out[i].Importance = 0
		out[i].LinkedEntities = []string{}
		out[i].SecondImportance = 0
	}

	for i := range out {
		entity := &out[i]
		nameLen := utf8.RuneCountInString(entity.Name)

		for j := range out {
			if i == j {
				continue
			}
			other := &out[j]

			if linkByColumn(entity, other, o.CountEveryColumn) {
				continue
			}

			if nameLen < utf8.RuneCountInString(other.Name) && similarity.Match(entity.Name, other.Name) {
				entity.Importance++
				other.Importance++
				entity.LinkedEntities = append(entity.LinkedEntities, other.ID)
			}
		}
	}

	return out, nil
}

// linkByColumn applies the column rule for one pair and reports whether any
// column of other matched entity's name.
func linkByColumn(entity, other *models.Entity, countEvery bool) bool {
	linked := false
	for _, column := range other.ColumnNames() {
		if !similarity.Match(entity.Name, column) {
			continue
		}
		if !linked {
			entity.LinkedEntities = append(entity.LinkedEntities, other.ID)
		}
		if !linked || countEvery {
			entity.Importance++
			other.Importance++
		}
		linked = true
		if !countEvery {
			break
		}
	}
	return linked
}

// Propagate runs the propagation pass over entities whose Importance and
// LinkedEntities are already set. Every entity starts at its own importance;
// each link e -> n then adds n's importance to e and e's importance to n.
// Importance values are read from a snapshot taken before any addition, so
// the result does not depend on iteration order.
func Propagate(entities []models.Entity) ([]models.Entity, error) {
	idx, err := buildIndex(entities)
	if err != nil {
		return nil, err
	}

	importance := make([]int, len(entities))
	second := make([]int, len(entities))
	for i, e := range entities {
		importance[i] = e.Importance
		second[i] = e.Importance
	}

	for i, e := range entities {
		for _, id := range e.LinkedEntities {
			j, ok := idx[id]
			if !ok {
				return nil, fmt.Errorf("%w: %q linked from %q", ErrUnknownEntity, id, e.ID)
			}
			second[i] += importance[j]
			second[j] += importance[i]
		}
	}

	out := make([]models.Entity, len(entities))
	for i := range entities {
		out[i] = entities[i].Clone()
		out[i].SecondImportance = second[i]
	}
	return out, nil
}

// buildIndex maps entity ids to their position in the collection.
func buildIndex(entities []models.Entity) (map[string]int, error) {
	idx := make(map[string]int, len(entities))
	for i, e := range entities {
		if prev, ok := idx[e.ID]; ok {
			return nil, fmt.Errorf("%w: %q at positions %d and %d", ErrDuplicateID, e.ID, prev, i)
		}
		idx[e.ID] = i
	}
	return idx, nil
}

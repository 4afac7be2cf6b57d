package scoring

import (
	"cmp"
	"slices"

	"github.com/raphaelgruber/erdscan/internal/models"
)

// Stats summarizes a scored collection.
type Stats struct {
	Entities            int
	Links               int
	Linked              int // entities with at least one outgoing link
	MaxImportance       int
	MaxSecondImportance int
}

// Summarize computes Stats for a scored collection.
func Summarize(entities []models.Entity) Stats {
	s := Stats{Entities: len(entities)}
	for _, e := range entities {
		s.Links += len(e.LinkedEntities)
		if len(e.LinkedEntities) > 0 {
			s.Linked++
		}
		s.MaxImportance = max(s.MaxImportance, e.Importance)
		s.MaxSecondImportance = max(s.MaxSecondImportance, e.SecondImportance)
	}
	return s
}

// Rank returns the n entities with the highest second importance, ordered
// descending. Ties are broken by name. n <= 0 returns every entity.
// The input slice is left untouched.
func Rank(entities []models.Entity, n int) []models.Entity {
	ranked := slices.Clone(entities)
	slices.SortStableFunc(ranked, func(a, b models.Entity) int {
		if c := cmp.Compare(b.SecondImportance, a.SecondImportance); c != 0 {
			return c
		}
		return cmp.Compare(a.Name, b.Name)
	})

	if n > 0 && n < len(ranked) {
		ranked = ranked[:n]
	}
	return ranked
}

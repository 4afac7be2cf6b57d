package graph

import (
	"cmp"
	"fmt"
	"slices"

	"github.com/raphaelgruber/erdscan/internal/models"
)

// Reach describes how far an entity's links extend at a given hop count.
type Reach struct {
	ID        string
	Name      string
	Reachable int // distinct other entities at exactly Hops steps
	Paths     int // number of Hops-step paths starting at the entity, capped at math.MaxInt
}

// ReachAt computes Reach for every entity at exactly hops link steps,
// ordered by Reachable then Paths, descending.
func ReachAt(entities []models.Entity, hops int) ([]Reach, error) {
	if hops < 1 {
		return nil, fmt.Errorf("hops must be at least 1, got %d", hops)
	}

	adj, err := Adjacency(entities)
	if err != nil {
		return nil, err
	}
	pow, err := Power(adj, hops)
	if err != nil {
		return nil, err
	}

	out := make([]Reach, len(entities))
	for i, e := range entities {
		r := Reach{ID: e.ID, Name: e.Name}
		for j, paths := range pow[i] {
			if paths == 0 {
				continue
			}
			r.Paths = SaturatingAdd(r.Paths, paths)
			if j != i {
				r.Reachable++
			}
		}
		out[i] = r
	}

	slices.SortStableFunc(out, func(a, b Reach) int {
		if c := cmp.Compare(b.Reachable, a.Reachable); c != 0 {
			return c
		}
		return cmp.Compare(b.Paths, a.Paths)
	})
	return out, nil
}

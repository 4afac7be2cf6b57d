// Package validate checks entity documents before and after scoring.
package validate

import (
	"fmt"

	"github.com/raphaelgruber/erdscan/internal/models"
)

// IssueKind classifies a validation finding.
type IssueKind string

const (
	MissingID      IssueKind = "missing_id"
	MissingName    IssueKind = "missing_name"
	MissingColumns IssueKind = "missing_columns"
	EmptyColumns   IssueKind = "empty_columns"
	DuplicateID    IssueKind = "duplicate_id"
	DanglingLink   IssueKind = "dangling_link"
)

// Issue is a single problem found on an entity.
type Issue struct {
	Kind     IssueKind
	Index    int // position in the document
	EntityID string
	Name     string
	Detail   string
}

func (i Issue) String() string {
	s := fmt.Sprintf("#%d %s (id=%q name=%q)", i.Index, i.Kind, i.EntityID, i.Name)
	if i.Detail != "" {
		s += ": " + i.Detail
	}
	return s
}

// Report lists every issue found, in document order.
type Report struct {
	Entities int
	Issues   []Issue
}

// Count returns the number of issues of the given kind.
func (r Report) Count(kind IssueKind) int {
	n := 0
	for _, i := range r.Issues {
		if i.Kind == kind {
			n++
		}
	}
	return n
}

// Blocking reports whether the document cannot be scored as is: scoring
// needs unique ids and resolvable links.
func (r Report) Blocking() bool {
	return r.Count(MissingID)+r.Count(DuplicateID)+r.Count(DanglingLink) > 0
}

// Validate inspects entities without modifying them.
func Validate(entities []models.Entity) Report {
	r := Report{Entities: len(entities)}

	seen := make(map[string]int, len(entities))
	for i, e := range entities {
		add := func(kind IssueKind, detail string) {
			r.Issues = append(r.Issues, Issue{Kind: kind, Index: i, EntityID: e.ID, Name: e.Name, Detail: detail})
		}

		if e.ID == "" {
			add(MissingID, "")
		} else if first, ok := seen[e.ID]; ok {
			add(DuplicateID, fmt.Sprintf("first seen at #%d", first))
		} else {
			seen[e.ID] = i
		}

		if e.Name == "" {
			add(MissingName, "")
		}

		switch {
		case !e.HasColumns():
			add(MissingColumns, "")
		case len(e.ColumnNames()) == 0:
			add(EmptyColumns, "")
		}
	}

	for i, e := range entities {
		for _, id := range e.LinkedEntities {
			if _, ok := seen[id]; !ok {
				r.Issues = append(r.Issues, Issue{
					Kind: DanglingLink, Index: i, EntityID: e.ID, Name: e.Name,
					Detail: fmt.Sprintf("links to unknown id %q", id),
				})
			}
		}
	}

	return r
}

// Prune drops entities with missing or empty columns. The result is a new
// slice; the number of dropped entities is returned alongside.
func Prune(entities []models.Entity) ([]models.Entity, int) {
	kept := make([]models.Entity, 0, len(entities))
	for _, e := range entities {
		if len(e.ColumnNames()) > 0 {
			kept = append(kept, e)
		}
	}
	return kept, len(entities) - len(kept)
}

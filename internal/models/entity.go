package models

import "slices"

// Entity is a schema table extracted from source definitions, together with
// the scores computed for it. JSON field names match the entities document
// read by the ERD tooling.
type Entity struct {
	ID          string    `json:"id" yaml:"id"`
	Name        string    `json:"name" yaml:"name"`
	Description *string   `json:"description,omitempty" yaml:"description,omitempty"`
	Columns     *[]string `json:"columns,omitempty" yaml:"columns,omitempty"`

	// Computed by scoring.
	Importance       int      `json:"importance" yaml:"importance"`
	LinkedEntities   []string `json:"linkedEntities" yaml:"linkedEntities"`
	SecondImportance int      `json:"second_importance" yaml:"second_importance"`
}

// ColumnNames returns the entity's columns, or nil when the entity has none.
// Absent and empty column lists are treated the same.
func (e Entity) ColumnNames() []string {
	if e.Columns == nil {
		return nil
	}
	return *e.Columns
}

// HasColumns reports whether the columns attribute is present at all.
func (e Entity) HasColumns() bool {
	return e.Columns != nil
}

// Clone returns a deep copy of the entity.
func (e Entity) Clone() Entity {
	out := e
	if e.Description != nil {
		d := *e.Description
		out.Description = &d
	}
	if e.Columns != nil {
		cols := slices.Clone(*e.Columns)
		out.Columns = &cols
	}
	out.LinkedEntities = slices.Clone(e.LinkedEntities)
	return out
}

// WithColumns returns a pointer suitable for Entity.Columns.
func WithColumns(cols ...string) *[]string {
	if cols == nil {
		cols = []string{}
	}
	return &cols
}

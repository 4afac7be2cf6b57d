package db

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	surrealmodels "github.com/surrealdb/surrealdb.go/pkg/models"

	"github.com/raphaelgruber/erdscan/internal/models"
)

func TestEntityRecordToEntity(t *testing.T) {
	r := entityRecord{
		ID:               surrealmodels.RecordID{Table: "schema_entity", ID: "18"},
		Name:             "Customer",
		Description:      "Customer master",
		Columns:          []string{"No."},
		HasColumns:       true,
		Importance:       2,
		SecondImportance: 5,
		Linked: []surrealmodels.RecordID{
			{Table: "schema_entity", ID: "36"},
		},
	}

	e, err := r.toEntity()
	require.NoError(t, err)

	desc := "Customer master"
	assert.Equal(t, models.Entity{
		ID:               "18",
		Name:             "Customer",
		Description:      &desc,
		Columns:          models.WithColumns("No."),
		Importance:       2,
		SecondImportance: 5,
		LinkedEntities:   []string{"36"},
	}, e)
}

func TestEntityRecordAbsentColumns(t *testing.T) {
	e, err := entityRecord{
		ID:      surrealmodels.RecordID{Table: "schema_entity", ID: "99"},
		Columns: []string{},
	}.toEntity()
	require.NoError(t, err)

	assert.Nil(t, e.Columns)
	assert.Nil(t, e.Description)
	assert.NotNil(t, e.LinkedEntities)
}

func TestEntityRecordNonStringID(t *testing.T) {
	_, err := entityRecord{ID: surrealmodels.RecordID{Table: "schema_entity", ID: 18}}.toEntity()
	assert.Error(t, err)
}

func TestWrapQueryErrorPassthrough(t *testing.T) {
	assert.Nil(t, wrapQueryError(nil))
	assert.NotErrorIs(t, wrapQueryError(assert.AnError), ErrNotFound)
}

package validate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/raphaelgruber/erdscan/internal/models"
)

func TestValidate(t *testing.T) {
	entities := []models.Entity{
		{ID: "18", Name: "Customer", Columns: models.WithColumns("No.")},
		{ID: "36", Name: "Sales Header", Columns: models.WithColumns()},
		{ID: "27", Name: "Item"},
		{ID: "", Name: "Anonymous", Columns: models.WithColumns("Code")},
		{ID: "18", Name: "", Columns: models.WithColumns("Code"), LinkedEntities: []string{"36", "404"}},
	}

	r := Validate(entities)
	assert.Equal(t, 5, r.Entities)
	assert.Equal(t, 1, r.Count(EmptyColumns))
	assert.Equal(t, 1, r.Count(MissingColumns))
	assert.Equal(t, 1, r.Count(MissingID))
	assert.Equal(t, 1, r.Count(MissingName))
	assert.Equal(t, 1, r.Count(DuplicateID))
	assert.Equal(t, 1, r.Count(DanglingLink))
	assert.True(t, r.Blocking())

	var dangling Issue
	for _, i := range r.Issues {
		if i.Kind == DanglingLink {
			dangling = i
		}
	}
	assert.Equal(t, 4, dangling.Index)
	assert.Contains(t, dangling.String(), `"404"`)
}

func TestValidateClean(t *testing.T) {
	r := Validate([]models.Entity{
		{ID: "18", Name: "Customer", Columns: models.WithColumns("No."), LinkedEntities: []string{"36"}},
		{ID: "36", Name: "Sales Header", Columns: models.WithColumns("Sell-to Customer No.")},
	})
	assert.Empty(t, r.Issues)
	assert.False(t, r.Blocking())
}

func TestValidateColumnIssuesAreNotBlocking(t *testing.T) {
	r := Validate([]models.Entity{{ID: "1", Name: "Item"}})
	require.Len(t, r.Issues, 1)
	assert.False(t, r.Blocking())
}

func TestPrune(t *testing.T) {
	entities := []models.Entity{
		{ID: "18", Name: "Customer", Columns: models.WithColumns("No.")},
		{ID: "36", Name: "Sales Header", Columns: models.WithColumns()},
		{ID: "27", Name: "Item"},
	}

	kept, dropped := Prune(entities)
	assert.Equal(t, 2, dropped)
	require.Len(t, kept, 1)
	assert.Equal(t, "18", kept[0].ID)
	assert.Len(t, entities, 3, "input untouched")
}

func TestIssueString(t *testing.T) {
	i := Issue{Kind: MissingName, Index: 2, EntityID: "5"}
	assert.Equal(t, `#2 missing_name (id="5" name="")`, i.String())
}

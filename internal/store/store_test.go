package store

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/raphaelgruber/erdscan/internal/models"
)

func sampleEntities() []models.Entity {
	desc := "Customer master data"
	return []models.Entity{
		{
			ID:               "18",
			Name:             "Customer",
			Description:      &desc,
			Columns:          models.WithColumns("No.", "Name"),
			Importance:       2,
			LinkedEntities:   []string{"36"},
			SecondImportance: 5,
		},
		{ID: "36", Name: "Sales Header", Columns: models.WithColumns(), LinkedEntities: []string{}},
		{ID: "99", Name: "No Columns", LinkedEntities: []string{}},
	}
}

func TestFormatFor(t *testing.T) {
	tests := []struct {
		path    string
		want    Format
		wantErr bool
	}{
		{"entities.json", FormatJSON, false},
		{"dir/Entities.JSON", FormatJSON, false},
		{"entities.yaml", FormatYAML, false},
		{"entities.yml", FormatYAML, false},
		{"entities.csv", "", true},
		{"entities", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			got, err := FormatFor(tt.path)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrUnsupportedFormat)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSaveLoad(t *testing.T) {
	for _, name := range []string{"entities.json", "entities.yaml"} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "out", name)
			want := sampleEntities()

			require.NoError(t, Save(path, want))

			got, err := Load(path)
			require.NoError(t, err)
			assert.Equal(t, want, got)

			assert.True(t, got[1].HasColumns(), "empty columns survive")
			assert.False(t, got[2].HasColumns(), "absent columns survive")
		})
	}
}

func TestSaveReplacesExisting(t *testing.T) {
	path := filepath.Join(t.TempDir(), "entities.json")
	require.NoError(t, os.WriteFile(path, []byte("stale"), 0644))

	require.NoError(t, Save(path, sampleEntities()[:1]))

	got, err := Load(path)
	require.NoError(t, err)
	require.Len(t, got, 1)

	leftovers, err := filepath.Glob(filepath.Join(filepath.Dir(path), ".*.tmp"))
	require.NoError(t, err)
	assert.Empty(t, leftovers)
}

func TestDecodeScraperOutput(t *testing.T) {
	// Documents written by the scraper carry no computed fields.
	data := []byte(`[
		{"id": "18", "name": "Customer", "columns": ["No.", "Name"]},
		{"id": "3", "name": "Payment Terms"}
	]`)

	got, err := Decode(data, FormatJSON)
	require.NoError(t, err)
	require.Len(t, got, 2)

	assert.Equal(t, []string{"No.", "Name"}, got[0].ColumnNames())
	assert.Nil(t, got[1].Columns)
	assert.Nil(t, got[1].LinkedEntities)
	assert.Zero(t, got[1].Importance)
}

func TestEncodeJSONFieldNames(t *testing.T) {
	data, err := Encode(sampleEntities()[:1], FormatJSON)
	require.NoError(t, err)

	s := string(data)
	assert.Contains(t, s, `"linkedEntities": [`)
	assert.Contains(t, s, `"second_importance": 5`)
	assert.Contains(t, s, "\n    {")
}

func TestDecodeEmpty(t *testing.T) {
	got, err := Decode([]byte("[]"), FormatJSON)
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.json"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

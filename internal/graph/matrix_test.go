package graph

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/raphaelgruber/erdscan/internal/models"
)

// fiveNode is a small link graph where every node links to itself.
var fiveNode = Matrix{
	{1, 0, 1, 0, 0},
	{1, 1, 0, 1, 0},
	{0, 0, 1, 1, 1},
	{0, 0, 0, 1, 0},
	{0, 0, 0, 0, 1},
}

func TestMultiply(t *testing.T) {
	a := Matrix{{1, 2, 3}, {4, 5, 6}}
	b := Matrix{{7, 8}, {9, 10}, {11, 12}}

	got, err := Multiply(a, b)
	require.NoError(t, err)
	assert.Equal(t, Matrix{{58, 64}, {139, 154}}, got)
}

func TestMultiplyDimensionMismatch(t *testing.T) {
	_, err := Multiply(Matrix{{1, 2}}, Matrix{{1, 2}})
	assert.ErrorIs(t, err, ErrDimensionMismatch)
}

func TestPower(t *testing.T) {
	sq, err := Multiply(fiveNode, fiveNode)
	require.NoError(t, err)
	cube, err := Multiply(sq, fiveNode)
	require.NoError(t, err)

	got, err := Power(fiveNode, 3)
	require.NoError(t, err)
	assert.Equal(t, cube, got)

	assert.Equal(t, Matrix{
		{1, 0, 3, 3, 3},
		{3, 1, 3, 4, 1},
		{0, 0, 1, 3, 3},
		{0, 0, 0, 1, 0},
		{0, 0, 0, 0, 1},
	}, got)

	id, err := Power(fiveNode, 0)
	require.NoError(t, err)
	assert.Equal(t, Identity(5), id)
}

func TestPowerErrors(t *testing.T) {
	_, err := Power(Matrix{{1, 2}}, 2)
	assert.ErrorIs(t, err, ErrDimensionMismatch)

	_, err = Power(Identity(2), -1)
	assert.Error(t, err)
}

func TestAdjacency(t *testing.T) {
	m, err := Adjacency([]models.Entity{
		{ID: "A", LinkedEntities: []string{"B", "C"}},
		{ID: "B", LinkedEntities: []string{"C"}},
		{ID: "C"},
	})
	require.NoError(t, err)
	assert.Equal(t, Matrix{
		{0, 1, 1},
		{0, 0, 1},
		{0, 0, 0},
	}, m)

	_, err = Adjacency([]models.Entity{{ID: "A", LinkedEntities: []string{"Z"}}})
	assert.ErrorIs(t, err, ErrUnknownEntity)
}

func TestSaturatingArithmetic(t *testing.T) {
	tests := []struct {
		name    string
		x, y    int
		wantAdd int
		wantMul int
	}{
		{"small", 3, 4, 7, 12},
		{"zero", 0, math.MaxInt, math.MaxInt, 0},
		{"add at limit", math.MaxInt - 1, 1, math.MaxInt, math.MaxInt - 1},
		{"add past limit", math.MaxInt, 1, math.MaxInt, math.MaxInt},
		{"mul past limit", 1 << 32, 1 << 32, 1 << 33, math.MaxInt},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantAdd, SaturatingAdd(tt.x, tt.y))
			assert.Equal(t, tt.wantMul, SaturatingMul(tt.x, tt.y))
		})
	}
}

func TestPowerSaturates(t *testing.T) {
	exact, err := Power(Matrix{{2}}, 62)
	require.NoError(t, err)
	assert.Equal(t, 1<<62, exact[0][0])

	capped, err := Power(Matrix{{2}}, 70)
	require.NoError(t, err)
	assert.Equal(t, math.MaxInt, capped[0][0])
}

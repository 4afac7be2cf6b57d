// Package graph analyses the link graph produced by scoring.
package graph

import (
	"errors"
	"fmt"
	"math"

	"github.com/raphaelgruber/erdscan/internal/models"
)

var (
	// ErrDimensionMismatch indicates matrices that cannot be multiplied.
	ErrDimensionMismatch = errors.New("matrix dimension mismatch")

	// ErrUnknownEntity indicates a link to an id outside the collection.
	ErrUnknownEntity = errors.New("unknown entity id")
)

// Matrix is a dense row-major matrix of non-negative counts. Arithmetic
// saturates at math.MaxInt, so a huge count never wraps to zero.
type Matrix [][]int

// NewMatrix returns a zero rows x cols matrix.
func NewMatrix(rows, cols int) Matrix {
	m := make(Matrix, rows)
	for i := range m {
		m[i] = make([]int, cols)
	}
	return m
}

// Identity returns the n x n identity matrix.
func Identity(n int) Matrix {
	m := NewMatrix(n, n)
	for i := range n {
		m[i][i] = 1
	}
	return m
}

// Rows returns the number of rows.
func (m Matrix) Rows() int { return len(m) }

// Cols returns the number of columns, 0 for an empty matrix.
func (m Matrix) Cols() int {
	if len(m) == 0 {
		return 0
	}
	return len(m[0])
}

// Multiply returns a x b.
func Multiply(a, b Matrix) (Matrix, error) {
	if a.Cols() != b.Rows() {
		return nil, fmt.Errorf("%w: %dx%d times %dx%d", ErrDimensionMismatch, a.Rows(), a.Cols(), b.Rows(), b.Cols())
	}

	out := NewMatrix(a.Rows(), b.Cols())
	for i := range a.Rows() {
		for k := range a.Cols() {
			if a[i][k] == 0 {
				continue
			}
			for j := range b.Cols() {
				out[i][j] = SaturatingAdd(out[i][j], SaturatingMul(a[i][k], b[k][j]))
			}
		}
	}
	return out, nil
}

// Power returns m^k for a square matrix and k >= 0. Entry (i, j) of the
// k-th power of an adjacency matrix counts the k-step paths from i to j.
func Power(m Matrix, k int) (Matrix, error) {
	if m.Rows() != m.Cols() {
		return nil, fmt.Errorf("%w: power of %dx%d", ErrDimensionMismatch, m.Rows(), m.Cols())
	}
	if k < 0 {
		return nil, fmt.Errorf("negative exponent %d", k)
	}

	result := Identity(m.Rows())
	base := m
	for k > 0 {
		var err error
		if k&1 == 1 {
			if result, err = Multiply(result, base); err != nil {
				return nil, err
			}
		}
		k >>= 1
		if k > 0 {
			if base, err = Multiply(base, base); err != nil {
				return nil, err
			}
		}
	}
	return result, nil
}

// Adjacency builds the 0/1 link matrix of a scored collection. Row and
// column i correspond to entities[i]; entry (i, j) is 1 when entity i links
// to entity j.
func Adjacency(entities []models.Entity) (Matrix, error) {
	idx := make(map[string]int, len(entities))
	for i, e := range entities {
		idx[e.ID] = i
	}

	m := NewMatrix(len(entities), len(entities))
	for i, e := range entities {
		for _, id := range e.LinkedEntities {
			j, ok := idx[id]
			if !ok {
				return nil, fmt.Errorf("%w: %q linked from %q", ErrUnknownEntity, id, e.ID)
			}
			m[i][j] = 1
		}
	}
	return m, nil
}

// SaturatingAdd returns x + y for non-negative operands, capped at math.MaxInt.
func SaturatingAdd(x, y int) int {
	if x > math.MaxInt-y {
		return math.MaxInt
	}
	return x + y
}

// SaturatingMul returns x * y for non-negative operands, capped at math.MaxInt.
func SaturatingMul(x, y int) int {
	if x == 0 || y == 0 {
		return 0
	}
	if x > math.MaxInt/y {
		return math.MaxInt
	}
	return x * y
}

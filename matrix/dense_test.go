// SPDX-License-Identifier: MIT
// Package matrix_test contains unit tests for Dense.
package matrix_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tomonatu8/envy-free-matching/matrix"
)

func TestNewDense_InvalidDimensions(t *testing.T) {
	t.Parallel()

	for _, shape := range [][2]int{{0, 1}, {1, 0}, {-1, 3}} {
		_, err := matrix.NewDense(shape[0], shape[1])
		require.ErrorIs(t, err, matrix.ErrInvalidDimensions, "shape %v", shape)
	}
}

func TestDense_AtSetBounds(t *testing.T) {
	t.Parallel()

	m, err := matrix.NewDense(2, 3)
	require.NoError(t, err)
	require.Equal(t, 2, m.Rows())
	require.Equal(t, 3, m.Cols())

	require.NoError(t, m.Set(1, 2, 0.75))
	v, err := m.At(1, 2)
	require.NoError(t, err)
	require.Equal(t, 0.75, v)

	_, err = m.At(2, 0)
	require.True(t, errors.Is(err, matrix.ErrOutOfRange))
	require.ErrorIs(t, m.Set(0, -1, 1), matrix.ErrOutOfRange)
}

func TestNewDenseFromRows(t *testing.T) {
	t.Parallel()

	m, err := matrix.NewDenseFromRows([][]float64{{1, 2}, {3, 4}, {5, 6}})
	require.NoError(t, err)
	require.Equal(t, 3, m.Rows())
	require.Equal(t, 2, m.Cols())

	row, err := m.Row(2)
	require.NoError(t, err)
	require.Equal(t, []float64{5, 6}, row)

	_, err = matrix.NewDenseFromRows([][]float64{{1, 2}, {3}})
	require.ErrorIs(t, err, matrix.ErrNonRectangular)

	_, err = matrix.NewDenseFromRows(nil)
	require.ErrorIs(t, err, matrix.ErrInvalidDimensions)
}

func TestDense_CloneIsDeep(t *testing.T) {
	t.Parallel()

	m, err := matrix.NewDenseFromRows([][]float64{{1, 2}})
	require.NoError(t, err)

	c := m.Clone()
	require.NoError(t, c.Set(0, 0, 9))

	v, err := m.At(0, 0)
	require.NoError(t, err)
	require.Equal(t, 1.0, v, "original must not observe writes to the clone")
	require.Equal(t, "[1, 2]\n", m.String())
}

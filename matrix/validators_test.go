// SPDX-License-Identifier: MIT
// Package matrix_test contains unit tests for the matrix validators.
package matrix_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tomonatu8/envy-free-matching/matrix"
)

// TestValidatePreferences covers nil inputs, valid data and each bad value class.
func TestValidatePreferences(t *testing.T) {
	t.Parallel()

	build := func(v float64) matrix.Matrix {
		m, err := matrix.NewDenseFromRows([][]float64{{0.5, 0.25}, {0, v}})
		require.NoError(t, err)
		return m
	}

	tests := []struct {
		name    string
		m       matrix.Matrix
		wantErr error
	}{
		{"nil", nil, matrix.ErrNilMatrix},
		{"valid", build(1), nil},
		{"zero ok", build(0), nil},
		{"nan", build(math.NaN()), matrix.ErrNaNInf},
		{"inf", build(math.Inf(1)), matrix.ErrNaNInf},
		{"negative", build(-0.1), matrix.ErrNegative},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			err := matrix.ValidatePreferences(tc.m)
			if tc.wantErr == nil {
				require.NoError(t, err)
				return
			}
			require.ErrorIs(t, err, tc.wantErr)
		})
	}
}

func TestValidateIndex(t *testing.T) {
	t.Parallel()

	m, err := matrix.NewDense(2, 2)
	require.NoError(t, err)

	require.NoError(t, matrix.ValidateIndex(m, 1, 1))
	require.ErrorIs(t, matrix.ValidateIndex(m, 2, 0), matrix.ErrOutOfRange)
	require.ErrorIs(t, matrix.ValidateIndex(m, 0, -1), matrix.ErrOutOfRange)
}

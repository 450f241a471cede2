// SPDX-License-Identifier: MIT
// Package: matrix
//
// Purpose:
//   - Provide a single source of truth for the checks applied to preference data.
//   - Keep consumers minimal by delegating nil/shape/value checks here.
//
// Determinism:
//   - All checks are pure and scan rows ascending, then columns ascending,
//     so the first reported offender is stable across runs.

package matrix

import (
	"fmt"
	"math"
)

// validatorErrorf wraps an underlying error with the given validator tag.
func validatorErrorf(tag string, err error) error {
	return fmt.Errorf("%s: %w", tag, err)
}

// ValidateNotNil ensures the matrix reference is non-nil.
// Complexity: O(1).
func ValidateNotNil(m Matrix) error {
	if m == nil {
		return validatorErrorf("ValidateNotNil", ErrNilMatrix)
	}

	return nil
}

// ValidateIndex ensures (i, j) addresses a cell of m. Assumes m is non-nil.
// Complexity: O(1).
func ValidateIndex(m Matrix, i, j int) error {
	if i < 0 || i >= m.Rows() || j < 0 || j >= m.Cols() {
		return validatorErrorf("ValidateIndex", fmt.Errorf("(%d,%d) in %dx%d: %w", i, j, m.Rows(), m.Cols(), ErrOutOfRange))
	}

	return nil
}

// ValidateValuation reports whether a single preference value is usable:
// finite and non-negative.
// Complexity: O(1).
func ValidateValuation(v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return ErrNaNInf
	}
	if v < 0 {
		return ErrNegative
	}

	return nil
}

// ValidatePreferences checks that m is non-nil and every entry is a finite,
// non-negative valuation.
//
// Errors: ErrNilMatrix, ErrNaNInf, ErrNegative (wrapped with the cell position).
// Complexity: O(r*c).
func ValidatePreferences(m Matrix) error {
	if err := ValidateNotNil(m); err != nil {
		return err
	}

	var (
		i, j int
		v    float64
		err  error
	)
	for i = 0; i < m.Rows(); i++ {
		for j = 0; j < m.Cols(); j++ {
			if v, err = m.At(i, j); err != nil {
				return err
			}
			if err = ValidateValuation(v); err != nil {
				return validatorErrorf("ValidatePreferences", fmt.Errorf("cell (%d,%d)=%g: %w", i, j, v, err))
			}
		}
	}

	return nil
}

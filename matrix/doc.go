// SPDX-License-Identifier: MIT
// Package matrix stores the agent×item preference matrix consumed by the
// matching engine and the group allocation scheduler.
//
// The package provides:
//
//   - Matrix: a minimal read/write interface over a rectangular float64 grid.
//   - Dense: a row-major implementation backed by a single flat slice.
//   - Validators: shape, finiteness and sign checks applied before any
//     valuation is scaled into integer weights.
//
// Rows are agents and columns are items. Both index spaces are dense integer
// ranges, so all lookups are O(1) with bounds checking on the public surface.
//
// Errors:
//
//	ErrInvalidDimensions - a requested shape has a non-positive side.
//	ErrOutOfRange        - a row or column index is outside the matrix.
//	ErrNonRectangular    - rows of a literal have different lengths.
//	ErrNilMatrix         - a nil Matrix was passed to a validator.
//	ErrNaNInf            - a NaN or ±Inf entry was found.
//	ErrNegative          - a negative valuation was found.
package matrix

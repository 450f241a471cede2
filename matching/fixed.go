package matching

import "fmt"

// FixedSizeMaxWeight returns the maximum total weight over all matchings of
// exactly k disjoint (row, column) pairs, and the ascending column indices
// used by the optimal matching.
//
// Contracts:
//   - weights is rectangular with rows ≤ columns (ErrRaggedWeights, ErrRowsExceedCols).
//   - 0 ≤ k ≤ rows (ErrBadCardinality).
//
// Errors from individual augmentations (ErrNoAugmentingPath, *InvariantError)
// are returned as-is; a partial matching is never reported as a result.
//
// Complexity: O(k · (n+m) · n·m).
func FixedSizeMaxWeight(weights [][]int64, k int) (int64, []int, error) {
	mt, err := NewMatcher(weights)
	if err != nil {
		return 0, nil, err
	}
	if k < 0 || k > mt.Rows() {
		return 0, nil, fmt.Errorf("%w: k=%d with %d rows", ErrBadCardinality, k, mt.Rows())
	}

	if err = mt.Grow(k); err != nil {
		return 0, nil, err
	}

	return mt.Weight(), mt.Columns(), nil
}

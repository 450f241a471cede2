// Package matching computes fixed-cardinality maximum-weight bipartite
// matchings by successive shortest augmenting paths.
//
// Given an n×m integer weight matrix (n ≤ m) and a target size k ≤ n, the
// engine grows a matching one pair at a time. Each step builds the residual
// graph of the current matching:
//
//	S ──0──▶ row i           for every unmatched row
//	row i ──(−w[i][j])──▶ j' for every pair not in the matching
//	j' ──(+w[i][j])──▶ row i for the matched pair (i, j)
//	j' ──0──▶ T              for every unmatched column
//
// and runs Bellman–Ford from S to T. Matched rows keep their forward arcs to
// columns matched elsewhere, so one path can chain several exchanges.
// Forward arcs carry negated weights, so the cheapest S→T path is the
// augmentation that increases total weight the most; traversing a reversed
// arc swaps a matched pair out and refunds its weight. Because each
// intermediate matching is optimal for its size, the residual graph never
// contains a negative cycle and the final matching is a global optimum among
// all matchings of exactly k pairs.
//
// Layers:
//
//   - Matcher: the incremental engine over [][]int64 weights (Augment, Assign).
//   - FixedSizeMaxWeight: k augmentations from the empty matching.
//   - Instance / ComputeMaxWeightMatching / Solve: adapters from an agent×item
//     preference matrix, scaling valuations to integers (Options.Scale) and
//     mapping local indices back to global agent and item ids.
//
// Determinism: rows are scanned ascending, then columns ascending, both when
// the residual graph is built and inside Bellman–Ford relaxation; only strict
// improvements replace a predecessor, so equal-weight alternatives resolve to
// the first one scanned.
//
// Complexity (per augmentation): O((n+m) · n·m) Bellman–Ford over n·m+n+m arcs.
// Total for size k: O(k · (n+m) · n·m).
package matching

import (
	"errors"
	"fmt"
	"math"
)

// Sentinel errors returned by the matching engine and its adapters.
var (
	// ErrRaggedWeights indicates that weight rows have different lengths.
	ErrRaggedWeights = errors.New("matching: weight rows have different lengths")

	// ErrRowsExceedCols indicates the n ≤ m precondition was violated.
	// Callers must reorder (transpose) the instance before calling.
	ErrRowsExceedCols = errors.New("matching: number of rows exceeds number of columns")

	// ErrBadCardinality indicates a target size outside [0, rows] (or below the
	// current matching size for incremental growth).
	ErrBadCardinality = errors.New("matching: target cardinality out of range")

	// ErrNoAugmentingPath indicates that S cannot reach T in the residual graph.
	// A smaller matching is never returned in its place.
	ErrNoAugmentingPath = errors.New("matching: no augmenting path")

	// ErrInvariant indicates that matched row/column counts diverged from the
	// matching size after an augmentation.
	ErrInvariant = errors.New("matching: structural invariant violated")

	// ErrWeightOverflow indicates weights too large for exact int64 path sums.
	ErrWeightOverflow = errors.New("matching: weights too large for exact shortest-path arithmetic")

	// ErrIndexOutOfRange indicates a row/column or agent/item index outside bounds.
	ErrIndexOutOfRange = errors.New("matching: index out of range")

	// ErrAlreadyMatched indicates an Assign on a row or column already in the matching.
	ErrAlreadyMatched = errors.New("matching: row or column already matched")

	// ErrDuplicateIndex indicates an agent or item listed twice.
	ErrDuplicateIndex = errors.New("matching: duplicate agent or item")

	// ErrNilPreferences indicates that a nil preference matrix was passed.
	ErrNilPreferences = errors.New("matching: preference matrix is nil")

	// ErrBadScale indicates a non-positive or non-finite scale factor.
	ErrBadScale = errors.New("matching: scale must be positive and finite")
)

// InvariantError reports the matched counts observed after an augmentation
// that should have produced a matching of Size pairs.
type InvariantError struct {
	Size        int    // expected number of pairs
	MatchedRows int    // rows with a partner
	MatchedCols int    // columns with a partner
	Detail      string // optional description of an inconsistent pair
}

func (e *InvariantError) Error() string {
	msg := fmt.Sprintf("matching: size %d but %d rows and %d columns matched", e.Size, e.MatchedRows, e.MatchedCols)
	if e.Detail != "" {
		msg += " (" + e.Detail + ")"
	}

	return msg
}

// Unwrap lets errors.Is(err, ErrInvariant) match.
func (e *InvariantError) Unwrap() error { return ErrInvariant }

// DefaultScale is the factor applied to real-valued preferences before they
// are truncated into integer weights.
const DefaultScale = 10_000_000

// Options configures the preference adapters.
//
// Scale – valuations are multiplied by Scale and truncated toward zero;
// utilities are divided by Scale on the way back. Default DefaultScale.
type Options struct {
	Scale float64
}

// Option represents a functional option for the preference adapters.
type Option func(*Options)

// WithScale overrides the valuation scale factor.
// Panics with ErrBadScale on a non-positive or non-finite factor.
func WithScale(scale float64) Option {
	return func(o *Options) {
		if !(scale > 0) || math.IsInf(scale, 0) {
			panic(ErrBadScale.Error())
		}
		o.Scale = scale
	}
}

// DefaultOptions returns the adapter defaults (Scale: DefaultScale).
func DefaultOptions() Options {
	return Options{Scale: DefaultScale}
}

// Pair is one (row, column) edge of a matching in local matrix coordinates.
type Pair struct {
	Row, Col int
}

// AgentItem is one matched (agent, item) edge in global ids.
type AgentItem struct {
	Agent, Item int
}

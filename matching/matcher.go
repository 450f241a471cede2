package matching

import (
	"errors"
	"fmt"
	"math"

	log "github.com/golang/glog"

	"github.com/tomonatu8/envy-free-matching/bellmanford"
)

// unmatched marks a row or column without partner in matchedLeft/matchedRight.
const unmatched = -1

// Matcher holds a matching over a fixed weight matrix and grows it one pair
// per Augment call. Each successful Augment leaves an optimal matching of the
// new size, provided the matching it started from was optimal for its own
// size (true from the empty matching, and for seeds that were optimal over a
// superset of columns).
//
// A Matcher is not safe for concurrent use.
type Matcher struct {
	weights      [][]int64 // read-only n×m weights
	n, m         int       // rows, columns
	matchedLeft  []int     // matchedLeft[i] = column of row i, or unmatched
	matchedRight []int     // matchedRight[j] = row of column j, or unmatched
	weight       int64     // total weight of the current matching
	size         int       // number of pairs in the current matching
}

// NewMatcher validates weights and returns a Matcher holding the empty matching.
//
// Preconditions:
//  1. All rows have the same length (ErrRaggedWeights).
//  2. rows ≤ columns (ErrRowsExceedCols).
//  3. max|w| · (rows+columns+2) fits in int64 (ErrWeightOverflow), which bounds
//     every residual path cost and every partial sum of the total weight.
//
// A matrix with zero rows is accepted and only admits k = 0.
func NewMatcher(weights [][]int64) (*Matcher, error) {
	n, m, err := shape(weights)
	if err != nil {
		return nil, err
	}
	if err = checkMagnitude(weights, n, m); err != nil {
		return nil, err
	}

	mt := &Matcher{
		weights:      weights,
		n:            n,
		m:            m,
		matchedLeft:  make([]int, n),
		matchedRight: make([]int, m),
	}
	mt.Reset()

	return mt, nil
}

// shape returns (rows, cols) after checking rectangularity and n ≤ m.
func shape(weights [][]int64) (int, int, error) {
	n := len(weights)
	if n == 0 {
		return 0, 0, nil
	}
	m := len(weights[0])
	for i, row := range weights {
		if len(row) != m {
			return 0, 0, fmt.Errorf("%w: row %d has %d columns, want %d", ErrRaggedWeights, i, len(row), m)
		}
	}
	if n > m {
		return 0, 0, fmt.Errorf("%w: %d rows, %d columns", ErrRowsExceedCols, n, m)
	}

	return n, m, nil
}

// checkMagnitude rejects weights whose path sums could overflow int64.
func checkMagnitude(weights [][]int64, n, m int) error {
	bound := int64(math.MaxInt64) / int64(n+m+2)
	for i := 0; i < n; i++ {
		for j := 0; j < m; j++ {
			w := weights[i][j]
			if w == math.MinInt64 || w > bound || -w > bound {
				return fmt.Errorf("%w: w[%d][%d]=%d exceeds %d", ErrWeightOverflow, i, j, w, bound)
			}
		}
	}

	return nil
}

// Reset drops every pair and returns to the empty matching.
func (mt *Matcher) Reset() {
	for i := range mt.matchedLeft {
		mt.matchedLeft[i] = unmatched
	}
	for j := range mt.matchedRight {
		mt.matchedRight[j] = unmatched
	}
	mt.weight = 0
	mt.size = 0
}

// Rows returns the number of rows.
func (mt *Matcher) Rows() int { return mt.n }

// Cols returns the number of columns.
func (mt *Matcher) Cols() int { return mt.m }

// Size returns the number of pairs in the current matching.
func (mt *Matcher) Size() int { return mt.size }

// Weight returns the total weight of the current matching.
func (mt *Matcher) Weight() int64 { return mt.weight }

// Assign adds (row, col) to the matching without any optimality check.
// It is meant for warm starts from a matching known to be optimal for its
// size; seeding an arbitrary matching voids the optimality of later Augments.
func (mt *Matcher) Assign(row, col int) error {
	if row < 0 || row >= mt.n || col < 0 || col >= mt.m {
		return fmt.Errorf("%w: pair (%d,%d) in %dx%d", ErrIndexOutOfRange, row, col, mt.n, mt.m)
	}
	if mt.matchedLeft[row] != unmatched || mt.matchedRight[col] != unmatched {
		return fmt.Errorf("%w: pair (%d,%d)", ErrAlreadyMatched, row, col)
	}
	mt.matchedLeft[row] = col
	mt.matchedRight[col] = row
	mt.weight += mt.weights[row][col]
	mt.size++

	return nil
}

// Residual builds the residual graph of the current matching.
//
// Node layout: rows [0, n), columns [n, n+m), source S = n+m, sink T = n+m+1.
// Arcs are emitted in a fixed order: S→rows ascending, then for each row
// ascending its arcs to columns ascending (or the reversed matched arc), then
// columns→T ascending.
func (mt *Matcher) Residual() bellmanford.Graph {
	var (
		n, m = mt.n, mt.m
		s, t = n + m, n + m + 1
		g    = bellmanford.NewGraph(n + m + 2)
		i, j int
	)

	// 1) S feeds every unmatched row.
	for i = 0; i < n; i++ {
		if mt.matchedLeft[i] == unmatched {
			g.AddArc(s, i, 0)
		}
	}

	// 2) Pair arcs: forward with negated weight, matched pair reversed with
	//    positive weight so that traversing it refunds the pair.
	for i = 0; i < n; i++ {
		for j = 0; j < m; j++ {
			if mt.matchedLeft[i] == j {
				g.AddArc(n+j, i, mt.weights[i][j])
				continue
			}
			g.AddArc(i, n+j, -mt.weights[i][j])
		}
	}

	// 3) Every unmatched column drains into T.
	for j = 0; j < m; j++ {
		if mt.matchedRight[j] == unmatched {
			g.AddArc(n+j, t, 0)
		}
	}

	return g
}

// Augment grows the matching by exactly one pair along the cheapest S→T path
// of the residual graph.
//
// Errors:
//   - ErrNoAugmentingPath if every row is matched or T is unreachable.
//   - *InvariantError if the resulting counts differ from the new size.
//   - bellmanford.ErrNegativeCycle (wrapped) if the current matching was not
//     optimal for its size, which only a bad Assign seed can cause.
func (mt *Matcher) Augment() error {
	if mt.size == mt.n {
		return fmt.Errorf("%w: all %d rows already matched", ErrNoAugmentingPath, mt.n)
	}

	n, m := mt.n, mt.m
	path, err := bellmanford.ShortestPath(mt.Residual(), n+m, n+m+1)
	if err != nil {
		if errors.Is(err, bellmanford.ErrUnreachable) {
			return fmt.Errorf("%w at size %d: %w", ErrNoAugmentingPath, mt.size, err)
		}
		return fmt.Errorf("matching: augment at size %d: %w", mt.size, err)
	}

	mt.apply(path.Nodes)
	mt.size++
	if err = mt.check(); err != nil {
		return err
	}

	if log.V(2) {
		log.Infof("matching: size %d weight %d via %v (cost %d)", mt.size, mt.weight, path.Nodes, path.Cost)
	}

	return nil
}

// Grow augments until the matching has k pairs.
func (mt *Matcher) Grow(k int) error {
	if k < mt.size || k > mt.n {
		return fmt.Errorf("%w: k=%d with %d rows and current size %d", ErrBadCardinality, k, mt.n, mt.size)
	}
	for mt.size < k {
		if err := mt.Augment(); err != nil {
			return err
		}
	}

	return nil
}

// apply walks an S→T path. Column→row arcs remove their pair first, then
// row→column arcs add theirs, so a column handed from one row to the next
// ends up owned by the earlier row on the path.
func (mt *Matcher) apply(nodes []int) {
	var (
		n    = mt.n
		s, t = mt.n + mt.m, mt.n + mt.m + 1
		k    int
		x, y int
	)

	for k = 0; k+1 < len(nodes); k++ {
		x, y = nodes[k], nodes[k+1]
		if x == s || y == t {
			continue
		}
		if x >= n && y < n {
			col, row := x-n, y
			mt.matchedLeft[row] = unmatched
			mt.matchedRight[col] = unmatched
			mt.weight -= mt.weights[row][col]
		}
	}

	for k = 0; k+1 < len(nodes); k++ {
		x, y = nodes[k], nodes[k+1]
		if x == s || y == t {
			continue
		}
		if x < n && y >= n {
			row, col := x, y-n
			mt.matchedLeft[row] = col
			mt.matchedRight[col] = row
			mt.weight += mt.weights[row][col]
		}
	}
}

// check verifies that exactly size rows and size columns are matched and that
// both directions agree.
func (mt *Matcher) check() error {
	var rows, cols int
	var detail string
	for i, j := range mt.matchedLeft {
		if j == unmatched {
			continue
		}
		rows++
		if mt.matchedRight[j] != i && detail == "" {
			detail = fmt.Sprintf("row %d→col %d but col %d→row %d", i, j, j, mt.matchedRight[j])
		}
	}
	for _, i := range mt.matchedRight {
		if i != unmatched {
			cols++
		}
	}

	if rows != mt.size || cols != mt.size || detail != "" {
		return &InvariantError{Size: mt.size, MatchedRows: rows, MatchedCols: cols, Detail: detail}
	}

	return nil
}

// Columns returns the matched column indices in ascending order.
func (mt *Matcher) Columns() []int {
	out := make([]int, 0, mt.size)
	for j, i := range mt.matchedRight {
		if i != unmatched {
			out = append(out, j)
		}
	}

	return out
}

// Pairs returns the matched pairs ordered by row.
func (mt *Matcher) Pairs() []Pair {
	out := make([]Pair, 0, mt.size)
	for i, j := range mt.matchedLeft {
		if j != unmatched {
			out = append(out, Pair{Row: i, Col: j})
		}
	}

	return out
}

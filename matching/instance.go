package matching

import (
	"fmt"
	"math"
	"sort"

	"github.com/tomonatu8/envy-free-matching/matrix"
)

// Assignment is a matching expressed in global agent and item ids.
type Assignment struct {
	Utility float64     // Weight / Scale
	Weight  int64       // total scaled integer weight
	Items   []int       // matched item ids, ascending
	Pairs   []AgentItem // matched (agent, item) edges, ordered by agent id
}

// Instance binds a Matcher to the agents and items behind its rows and
// columns. When there are more agents than items the matrix is transposed
// (items become rows) so the rows ≤ columns precondition always holds.
type Instance struct {
	agents     []int
	items      []int
	transposed bool
	scale      float64
	matcher    *Matcher
}

// NewInstance scales prefs restricted to agents×items into integer weights and
// prepares an empty matching over them.
//
// Errors: ErrNilPreferences, ErrIndexOutOfRange, ErrDuplicateIndex,
// matrix.ErrNaNInf / matrix.ErrNegative for unusable valuations, and
// ErrWeightOverflow when a scaled valuation does not fit.
func NewInstance(agents, items []int, prefs matrix.Matrix, opts ...Option) (*Instance, error) {
	cfg := DefaultOptions()
	for _, opt := range opts {
		opt(&cfg)
	}

	// 1) Validate inputs.
	if prefs == nil {
		return nil, ErrNilPreferences
	}
	if err := checkIDs("agent", agents, prefs.Rows()); err != nil {
		return nil, err
	}
	if err := checkIDs("item", items, prefs.Cols()); err != nil {
		return nil, err
	}

	// 2) Orient so that rows ≤ columns.
	transposed := len(agents) > len(items)

	// 3) Scale.
	weights, err := scaledWeights(agents, items, prefs, cfg.Scale, transposed)
	if err != nil {
		return nil, err
	}
	mt, err := NewMatcher(weights)
	if err != nil {
		return nil, err
	}

	return &Instance{
		agents:     agents,
		items:      items,
		transposed: transposed,
		scale:      cfg.Scale,
		matcher:    mt,
	}, nil
}

// checkIDs rejects ids outside [0, limit) and repeated ids. Seen-flags live in
// a slice indexed by id since both id spaces are dense.
func checkIDs(kind string, ids []int, limit int) error {
	seen := make([]bool, limit)
	for _, id := range ids {
		if id < 0 || id >= limit {
			return fmt.Errorf("%w: %s %d not in [0,%d)", ErrIndexOutOfRange, kind, id, limit)
		}
		if seen[id] {
			return fmt.Errorf("%w: %s %d", ErrDuplicateIndex, kind, id)
		}
		seen[id] = true
	}

	return nil
}

// scaledWeights builds the integer weight matrix. Rows are agents unless
// transposed, in which case rows are items.
func scaledWeights(agents, items []int, prefs matrix.Matrix, scale float64, transposed bool) ([][]int64, error) {
	rows, cols := len(agents), len(items)
	if transposed {
		rows, cols = cols, rows
	}

	weights := make([][]int64, rows)
	var (
		a, i int
		v, x float64
		err  error
	)
	for r := 0; r < rows; r++ {
		weights[r] = make([]int64, cols)
		for c := 0; c < cols; c++ {
			if transposed {
				a, i = agents[c], items[r]
			} else {
				a, i = agents[r], items[c]
			}
			if v, err = prefs.At(a, i); err != nil {
				return nil, err
			}
			if err = matrix.ValidateValuation(v); err != nil {
				return nil, fmt.Errorf("matching: preference (%d,%d)=%g: %w", a, i, v, err)
			}
			x = v * scale
			if x >= math.MaxInt64 {
				return nil, fmt.Errorf("%w: preference (%d,%d)=%g scaled by %g", ErrWeightOverflow, a, i, v, scale)
			}
			weights[r][c] = int64(x) // truncation toward zero
		}
	}

	return weights, nil
}

// Transposed reports whether items are the rows of the underlying matrix.
func (in *Instance) Transposed() bool { return in.transposed }

// Size returns the current number of matched pairs.
func (in *Instance) Size() int { return in.matcher.Size() }

// MaxSize returns the largest reachable matching size: min(agents, items).
func (in *Instance) MaxSize() int { return in.matcher.Rows() }

// Seed warm-starts the matching with known pairs. The pairs must form a
// matching that is optimal for its size over these agents and items, such as
// the optimum found earlier over a superset of the items.
func (in *Instance) Seed(pairs []AgentItem) error {
	for _, p := range pairs {
		a, i := position(in.agents, p.Agent), position(in.items, p.Item)
		if a < 0 || i < 0 {
			return fmt.Errorf("%w: seed pair (agent %d, item %d) not in instance", ErrIndexOutOfRange, p.Agent, p.Item)
		}
		row, col := a, i
		if in.transposed {
			row, col = i, a
		}
		if err := in.matcher.Assign(row, col); err != nil {
			return err
		}
	}

	return nil
}

// position returns the index of id in ids, or −1.
func position(ids []int, id int) int {
	for k, v := range ids {
		if v == id {
			return k
		}
	}

	return -1
}

// Grow augments until the matching has k pairs.
func (in *Instance) Grow(k int) error {
	return in.matcher.Grow(k)
}

// Assignment maps the current matching back to global ids.
func (in *Instance) Assignment() Assignment {
	pairs := in.matcher.Pairs()
	out := Assignment{
		Weight: in.matcher.Weight(),
		Items:  make([]int, 0, len(pairs)),
		Pairs:  make([]AgentItem, 0, len(pairs)),
	}
	out.Utility = float64(out.Weight) / in.scale

	for _, p := range pairs {
		ai := AgentItem{Agent: in.agents[p.Row], Item: in.items[p.Col]}
		if in.transposed {
			ai = AgentItem{Agent: in.agents[p.Col], Item: in.items[p.Row]}
		}
		out.Pairs = append(out.Pairs, ai)
		out.Items = append(out.Items, ai.Item)
	}

	sort.Ints(out.Items)
	sort.Slice(out.Pairs, func(x, y int) bool { return out.Pairs[x].Agent < out.Pairs[y].Agent })

	return out
}

// ComputeMaxWeightMatching matches the agents in left to the items in right
// with exactly k pairs of maximum total valuation.
//
// Contracts:
//   - len(left) ≤ len(right) (ErrRowsExceedCols); callers reorder otherwise,
//     or use Solve.
//   - 0 ≤ k ≤ len(left) (ErrBadCardinality).
//
// Calling it twice with identical arguments yields identical results.
func ComputeMaxWeightMatching(left, right []int, prefs matrix.Matrix, k int, opts ...Option) (Assignment, error) {
	if len(left) > len(right) {
		return Assignment{}, fmt.Errorf("%w: %d agents, %d items", ErrRowsExceedCols, len(left), len(right))
	}
	if k < 0 || k > len(left) {
		return Assignment{}, fmt.Errorf("%w: k=%d with %d agents", ErrBadCardinality, k, len(left))
	}

	return solve(left, right, prefs, k, opts)
}

// Solve is ComputeMaxWeightMatching without the orientation precondition:
// it transposes the instance when there are more agents than items.
// Requires 0 ≤ k ≤ min(len(agents), len(items)).
func Solve(agents, items []int, prefs matrix.Matrix, k int, opts ...Option) (Assignment, error) {
	if limit := min(len(agents), len(items)); k < 0 || k > limit {
		return Assignment{}, fmt.Errorf("%w: k=%d with %d agents and %d items", ErrBadCardinality, k, len(agents), len(items))
	}

	return solve(agents, items, prefs, k, opts)
}

func solve(agents, items []int, prefs matrix.Matrix, k int, opts []Option) (Assignment, error) {
	in, err := NewInstance(agents, items, prefs, opts...)
	if err != nil {
		return Assignment{}, err
	}
	if err = in.Grow(k); err != nil {
		return Assignment{}, err
	}

	return in.Assignment(), nil
}

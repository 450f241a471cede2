package allocation

import (
	"fmt"
	"time"

	log "github.com/golang/glog"

	"github.com/tomonatu8/envy-free-matching/matching"
	"github.com/tomonatu8/envy-free-matching/matrix"
)

// free marks an item that no group holds.
const free = -1

// RoundRobinByGroup allocates items [0, numItems) to numGroups groups of
// agents, growing every unfinished group's bundle by one item per round.
//
// Contracts:
//   - prefs is an agent×item matrix of finite, non-negative valuations with
//     at least numItems columns.
//   - len(groups) == numGroups; groups are non-empty and pairwise disjoint;
//     every agent id indexes a row of prefs.
//   - 0 ≤ capacity ≤ len(groups[p]) for every p, since a bundle of size r
//     needs r distinct agents to hold it.
//
// With numItems ≥ capacity·numGroups every bundle ends with exactly capacity
// items. With fewer items, the run stops as soon as the pool is empty, even
// in the middle of a round; groups later in that round keep their previous
// bundle.
//
// Errors: the sentinels above for invalid input (wrapped with context),
// *DiffError for a round that does not add exactly one item, and *StepError
// wrapping matching errors.
func RoundRobinByGroup(numItems, numGroups, capacity int, groups [][]int, prefs matrix.Matrix, opts ...Option) (Result, error) {
	cfg := DefaultOptions()
	for _, opt := range opts {
		opt(&cfg)
	}

	if err := validate(numItems, numGroups, capacity, groups, prefs); err != nil {
		return Result{}, err
	}

	s := newScheduler(numItems, capacity, groups, prefs, cfg)
	if err := s.run(); err != nil {
		return Result{}, err
	}

	return s.result(), nil
}

// validate checks every precondition before any state is built.
func validate(numItems, numGroups, capacity int, groups [][]int, prefs matrix.Matrix) error {
	if err := matrix.ValidatePreferences(prefs); err != nil {
		return fmt.Errorf("allocation: preferences: %w", err)
	}
	if numItems < 0 || numItems > prefs.Cols() {
		return fmt.Errorf("%w: %d items, preferences have %d columns", ErrBadItemCount, numItems, prefs.Cols())
	}
	if numGroups != len(groups) {
		return fmt.Errorf("%w: numGroups=%d, %d groups given", ErrGroupCount, numGroups, len(groups))
	}
	if capacity < 0 {
		return fmt.Errorf("%w: capacity %d", ErrBadCapacity, capacity)
	}

	member := make([]int, prefs.Rows())
	for a := range member {
		member[a] = free
	}
	for p, g := range groups {
		if len(g) == 0 {
			return fmt.Errorf("%w: group %d", ErrEmptyGroup, p)
		}
		if capacity > len(g) {
			return fmt.Errorf("%w: capacity %d exceeds %d agents of group %d", ErrBadCapacity, capacity, len(g), p)
		}
		for _, a := range g {
			if a < 0 || a >= len(member) {
				return fmt.Errorf("%w: agent %d of group %d not in [0,%d)", ErrAgentOutOfRange, a, p, len(member))
			}
			if member[a] != free {
				return fmt.Errorf("%w: agent %d in groups %d and %d", ErrOverlappingGroups, a, member[a], p)
			}
			member[a] = p
		}
	}

	return nil
}

// scheduler owns the allocation state of one run.
type scheduler struct {
	groups   [][]int
	prefs    matrix.Matrix
	capacity int
	opts     Options

	owner     []int // owner[item] = holding group, or free
	available int   // number of free items

	bundles   [][]int
	pairs     [][]matching.AgentItem
	utilities []float64

	round  int
	claims []Claim
}

func newScheduler(numItems, capacity int, groups [][]int, prefs matrix.Matrix, opts Options) *scheduler {
	s := &scheduler{
		groups:    groups,
		prefs:     prefs,
		capacity:  capacity,
		opts:      opts,
		owner:     make([]int, numItems),
		available: numItems,
		bundles:   make([][]int, len(groups)),
		pairs:     make([][]matching.AgentItem, len(groups)),
		utilities: make([]float64, len(groups)),
	}
	for i := range s.owner {
		s.owner[i] = free
	}
	for p := range s.bundles {
		s.bundles[p] = []int{}
	}

	return s
}

// run executes rounds until the pool is empty or every group is full.
func (s *scheduler) run() error {
	for s.available > 0 {
		active := s.active()
		if active == 0 {
			break
		}
		s.round++
		s.opts.Observer.OnRound(s.round, active)
		if log.V(1) {
			log.Infof("allocation: round %d, %d active groups, %d items available", s.round, active, s.available)
		}

		for p := range s.groups {
			if len(s.bundles[p]) == s.capacity {
				continue
			}
			if s.available == 0 {
				break
			}
			if err := s.step(p); err != nil {
				return err
			}
		}
	}

	return nil
}

// active counts groups below capacity.
func (s *scheduler) active() int {
	n := 0
	for _, b := range s.bundles {
		if len(b) < s.capacity {
			n++
		}
	}

	return n
}

// candidates lists the items group p may hold next: free items and its own,
// ascending.
func (s *scheduler) candidates(p int) []int {
	out := make([]int, 0, s.available+len(s.bundles[p]))
	for item, g := range s.owner {
		if g == free || g == p {
			out = append(out, item)
		}
	}

	return out
}

// step grows group p's bundle by one item.
func (s *scheduler) step(p int) error {
	k := len(s.bundles[p]) + 1
	cands := s.candidates(p)

	start := time.Now()
	asg, err := s.solve(p, cands, k)
	s.opts.Observer.OnMatch(p, time.Since(start))
	if err != nil {
		return &StepError{Round: s.round, Group: p, K: k, Err: err}
	}

	added, removed := diff(s.bundles[p], asg.Items)
	if len(added) != 1 || len(removed) != 0 {
		return &DiffError{Round: s.round, Group: p, Added: added, Removed: removed}
	}

	item := added[0]
	s.owner[item] = p
	s.available--
	s.bundles[p] = asg.Items
	s.pairs[p] = asg.Pairs
	s.utilities[p] = asg.Utility

	c := Claim{Round: s.round, Group: p, Item: item, Utility: asg.Utility}
	s.claims = append(s.claims, c)
	s.opts.Observer.OnClaim(c)
	if log.V(2) {
		log.Infof("allocation: round %d group %d claims item %d, bundle %v utility %.7f", s.round, p, item, asg.Items, asg.Utility)
	}

	return nil
}

// solve computes the size-k bundle of group p over cands. In incremental
// mode the previous pairs seed the matching: they were optimal over a
// superset of cands and lie inside it, so they stay optimal for size k−1.
func (s *scheduler) solve(p int, cands []int, k int) (matching.Assignment, error) {
	mopts := []matching.Option{matching.WithScale(s.opts.Scale)}
	if !s.opts.Incremental {
		return matching.Solve(s.groups[p], cands, s.prefs, k, mopts...)
	}

	in, err := matching.NewInstance(s.groups[p], cands, s.prefs, mopts...)
	if err != nil {
		return matching.Assignment{}, err
	}
	if err = in.Seed(s.pairs[p]); err != nil {
		return matching.Assignment{}, err
	}
	if err = in.Grow(k); err != nil {
		return matching.Assignment{}, err
	}

	return in.Assignment(), nil
}

// diff returns the items only in next and only in prev; both inputs ascending.
func diff(prev, next []int) (added, removed []int) {
	i, j := 0, 0
	for i < len(prev) && j < len(next) {
		switch {
		case prev[i] == next[j]:
			i++
			j++
		case prev[i] < next[j]:
			removed = append(removed, prev[i])
			i++
		default:
			added = append(added, next[j])
			j++
		}
	}
	removed = append(removed, prev[i:]...)
	added = append(added, next[j:]...)

	return added, removed
}

func (s *scheduler) result() Result {
	return Result{
		Bundles:   s.bundles,
		Utilities: s.utilities,
		Rounds:    s.round,
		Claims:    s.claims,
	}
}

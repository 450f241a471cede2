// Package allocation distributes indivisible items to groups of agents in
// rounds, using fixed-size maximum-weight matchings to pick each group's bundle.
//
// RoundRobinByGroup runs rounds r = 1, 2, …. In every round each group whose
// bundle is below capacity, in ascending group order, solves a size-r matching
// of its agents onto (available items ∪ its own bundle). The optimal size-r
// bundle must differ from the previous one by exactly one added item; that
// item leaves the pool. The run stops when the pool is empty or every group is
// at capacity.
//
// State is kept in index-addressed slices: owner[item] is the holding group
// or free, bundles[p] and utilities[p] are per group. The pool is mutated only
// by the scheduler, one group at a time.
//
// Candidate items are always listed in ascending id order, so ties between
// equally valued items resolve to the lowest id.
package allocation

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/tomonatu8/envy-free-matching/matching"
)

// Sentinel errors for invalid scheduler inputs and broken invariants.
var (
	// ErrGroupCount indicates numGroups disagrees with len(groups).
	ErrGroupCount = errors.New("allocation: number of groups does not match the partition")

	// ErrBadCapacity indicates a negative capacity or one larger than a group.
	ErrBadCapacity = errors.New("allocation: capacity out of range")

	// ErrBadItemCount indicates numItems is negative or exceeds the preference columns.
	ErrBadItemCount = errors.New("allocation: item count out of range")

	// ErrEmptyGroup indicates a group with no agents.
	ErrEmptyGroup = errors.New("allocation: empty group")

	// ErrAgentOutOfRange indicates an agent id outside the preference rows.
	ErrAgentOutOfRange = errors.New("allocation: agent out of range")

	// ErrOverlappingGroups indicates an agent listed in more than one group (or twice in one).
	ErrOverlappingGroups = errors.New("allocation: agent belongs to more than one group")

	// ErrDiffInvariant indicates a round whose new bundle is not the old one plus one item.
	ErrDiffInvariant = errors.New("allocation: bundle did not grow by exactly one item")

	// ErrNilObserver indicates WithObserver(nil).
	ErrNilObserver = errors.New("allocation: observer is nil")
)

// DiffError reports the items a group gained and lost in one round when that
// differs from exactly one gained and none lost.
type DiffError struct {
	Round   int
	Group   int
	Added   []int // in the new bundle only
	Removed []int // in the old bundle only
}

func (e *DiffError) Error() string {
	return fmt.Sprintf("allocation: round %d group %d: want 1 new item, got added=%v removed=%v",
		e.Round, e.Group, e.Added, e.Removed)
}

// Unwrap lets errors.Is(err, ErrDiffInvariant) match.
func (e *DiffError) Unwrap() error { return ErrDiffInvariant }

// StepError attaches round and group to a matching failure.
type StepError struct {
	Round int
	Group int
	K     int // requested matching size
	Err   error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("allocation: round %d group %d (k=%d): %v", e.Round, e.Group, e.K, e.Err)
}

func (e *StepError) Unwrap() error { return e.Err }

// Claim records one item taken by one group.
type Claim struct {
	Round   int
	Group   int
	Item    int
	Utility float64 // group utility after the claim
}

// Result is the outcome of a run.
type Result struct {
	Bundles   [][]int   // per group, ascending item ids
	Utilities []float64 // per group, value of its final bundle
	Rounds    int       // rounds in which at least one group was served
	Claims    []Claim   // every claim in order
}

// Observer receives scheduler events. Calls happen synchronously on the
// scheduler goroutine.
type Observer interface {
	// OnRound is called when round begins with active groups below capacity.
	OnRound(round, active int)
	// OnMatch is called after each matching solve, failed or not.
	OnMatch(group int, elapsed time.Duration)
	// OnClaim is called after a group takes an item.
	OnClaim(c Claim)
}

// NopObserver ignores every event.
type NopObserver struct{}

func (NopObserver) OnRound(int, int) {}

func (NopObserver) OnMatch(int, time.Duration) {}

func (NopObserver) OnClaim(Claim) {}

// Options configures RoundRobinByGroup.
//
// Incremental – seed each group's matching with its previous pairs instead
// of solving from the empty matching. Utilities are identical; the one-item
// diff then holds structurally.
// Observer – event sink, NopObserver by default.
// Scale – valuation scale forwarded to the matching adapter.
type Options struct {
	Incremental bool
	Observer    Observer
	Scale       float64
}

// Option represents a functional option for RoundRobinByGroup.
type Option func(*Options)

// WithIncremental enables warm-started matchings.
func WithIncremental() Option {
	return func(o *Options) {
		o.Incremental = true
	}
}

// WithObserver installs an event sink. Panics on nil.
func WithObserver(obs Observer) Option {
	return func(o *Options) {
		if obs == nil {
			panic(ErrNilObserver.Error())
		}
		o.Observer = obs
	}
}

// WithScale overrides the valuation scale (see matching.WithScale).
// Panics with matching.ErrBadScale on a non-positive or non-finite factor.
func WithScale(scale float64) Option {
	return func(o *Options) {
		if !(scale > 0) || math.IsInf(scale, 0) {
			panic(matching.ErrBadScale.Error())
		}
		o.Scale = scale
	}
}

// DefaultOptions returns recompute-from-scratch mode with no observer.
func DefaultOptions() Options {
	return Options{
		Observer: NopObserver{},
		Scale:    matching.DefaultScale,
	}
}

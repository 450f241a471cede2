// Package evaluate compares the bundles produced by an allocation from every
// group's point of view.
//
// The value group p assigns to a bundle B is the best total valuation p's
// agents can reach by splitting B among themselves, one item per agent:
// a maximum-weight matching of size min(|p|, |B|).
package evaluate

import (
	"errors"
	"fmt"

	log "github.com/golang/glog"

	"github.com/tomonatu8/envy-free-matching/matching"
	"github.com/tomonatu8/envy-free-matching/matrix"
)

// ErrShape indicates a different number of groups and bundles.
var ErrShape = errors.New("evaluate: groups and bundles differ in length")

// Valuations holds v[p][q], the value group p assigns to the bundle of group q.
type Valuations [][]float64

// Matrix computes the G×G valuation matrix of an allocation.
func Matrix(groups, bundles [][]int, prefs matrix.Matrix, opts ...matching.Option) (Valuations, error) {
	if len(groups) != len(bundles) {
		return nil, fmt.Errorf("%w: %d groups, %d bundles", ErrShape, len(groups), len(bundles))
	}

	v := make(Valuations, len(groups))
	for p, agents := range groups {
		v[p] = make([]float64, len(bundles))
		for q, bundle := range bundles {
			k := min(len(agents), len(bundle))
			asg, err := matching.Solve(agents, bundle, prefs, k, opts...)
			if err != nil {
				return nil, fmt.Errorf("evaluate: group %d on bundle of %d: %w", p, q, err)
			}
			v[p][q] = asg.Utility
		}
	}
	if log.V(1) {
		log.Infof("evaluate: valuations %v", v)
	}

	return v, nil
}

// Own returns v[p][p] for every group.
func (v Valuations) Own() []float64 {
	out := make([]float64, len(v))
	for p := range v {
		out[p] = v[p][p]
	}

	return out
}

// Next returns v[p][(p+1) mod G], the value each group assigns to its
// successor's bundle.
func (v Valuations) Next() []float64 {
	out := make([]float64, len(v))
	for p := range v {
		out[p] = v[p][(p+1)%len(v)]
	}

	return out
}

// Envy returns, per group, max over q≠p of v[p][q] − v[p][p]. A positive
// entry means the group prefers some other bundle to its own. With a single
// group the entry is 0.
func (v Valuations) Envy() []float64 {
	out := make([]float64, len(v))
	for p := range v {
		worst := 0.0
		first := true
		for q := range v[p] {
			if q == p {
				continue
			}
			if d := v[p][q] - v[p][p]; first || d > worst {
				worst, first = d, false
			}
		}
		out[p] = worst
	}

	return out
}

// EnvyFree reports whether no group values another bundle above its own.
func (v Valuations) EnvyFree() bool {
	for _, e := range v.Envy() {
		if e > 0 {
			return false
		}
	}

	return true
}

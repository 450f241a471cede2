// Package bellmanford implements the Bellman–Ford shortest-path algorithm.
//
// Notes on implementation choices:
//
//   - Arc endpoints are validated in one upfront scan (O(E)) so the hot loop
//     carries no bounds checks beyond the slice accesses themselves.
//   - Relaxation uses strict improvement only; the first arc that reaches a
//     node at its final distance keeps the predecessor slot.
//   - Distances are int64 and the caller bounds |path cost| below MaxInt64;
//     unreachable nodes are skipped, never added to.
package bellmanford

import (
	"fmt"
)

// Distances computes shortest distances from source to every node of g.
//
// Returns:
//
//   - dist: dist[v] is the minimum cost from source to v (Infinity if unreachable).
//   - prev: prev[v] is the predecessor of v on that path (NoPredecessor for the
//     source and for unreachable nodes).
//   - err:  ErrEmptyGraph, ErrNodeOutOfRange or ErrNegativeCycle.
//
// Complexity: O(V·E) time, O(V) space.
func Distances(g Graph, source int, opts ...Option) ([]int64, []int, error) {
	// 1) Build options.
	cfg := DefaultOptions()
	for _, opt := range opts {
		opt(&cfg)
	}

	// 2) Validate graph shape and source.
	if err := validate(g, source); err != nil {
		return nil, nil, err
	}

	// 3) Run relaxation passes.
	r := newRunner(g, cfg)
	r.init(source)
	if err := r.process(); err != nil {
		return nil, nil, err
	}

	return r.dist, r.prev, nil
}

// ShortestPath returns the minimum-cost path from source to target.
//
// Errors: everything Distances returns, plus ErrNodeOutOfRange for a bad
// target and ErrUnreachable when no path exists.
func ShortestPath(g Graph, source, target int, opts ...Option) (Path, error) {
	if target < 0 || target >= len(g) {
		return Path{}, fmt.Errorf("%w: target %d of %d nodes", ErrNodeOutOfRange, target, len(g))
	}

	dist, prev, err := Distances(g, source, opts...)
	if err != nil {
		return Path{}, err
	}
	if dist[target] == Infinity {
		return Path{}, fmt.Errorf("%w: %d→%d", ErrUnreachable, source, target)
	}

	nodes, err := walkBack(prev, source, target)
	if err != nil {
		return Path{}, err
	}

	return Path{Cost: dist[target], Nodes: nodes}, nil
}

// validate checks the graph is non-empty, source is a node and every arc
// lands on a node.
func validate(g Graph, source int) error {
	if len(g) == 0 {
		return ErrEmptyGraph
	}
	if source < 0 || source >= len(g) {
		return fmt.Errorf("%w: source %d of %d nodes", ErrNodeOutOfRange, source, len(g))
	}
	for u, arcs := range g {
		for _, a := range arcs {
			if a.To < 0 || a.To >= len(g) {
				return fmt.Errorf("%w: arc %d→%d", ErrNodeOutOfRange, u, a.To)
			}
		}
	}

	return nil
}

// walkBack follows predecessors from target to source and returns the path in
// forward order. A chain longer than V nodes can only come from a cycle in the
// predecessor graph, which Bellman–Ford produces only under a negative cycle.
func walkBack(prev []int, source, target int) ([]int, error) {
	nodes := make([]int, 0, 8)
	for v := target; ; v = prev[v] {
		nodes = append(nodes, v)
		if v == source {
			break
		}
		if prev[v] == NoPredecessor || len(nodes) > len(prev) {
			return nil, fmt.Errorf("%w: broken predecessor chain at node %d", ErrNegativeCycle, v)
		}
	}

	// Reverse in place: target…source → source…target.
	for i, j := 0, len(nodes)-1; i < j; i, j = i+1, j-1 {
		nodes[i], nodes[j] = nodes[j], nodes[i]
	}

	return nodes, nil
}

// runner holds the mutable state for a single Bellman–Ford execution.
type runner struct {
	g       Graph   // input graph; read-only
	options Options // configuration
	dist    []int64 // dist[v] = best known cost from source
	prev    []int   // prev[v] = predecessor on the best known path
}

func newRunner(g Graph, cfg Options) *runner {
	return &runner{
		g:       g,
		options: cfg,
		dist:    make([]int64, len(g)),
		prev:    make([]int, len(g)),
	}
}

// init sets every distance to Infinity except the source.
func (r *runner) init(source int) {
	for v := range r.dist {
		r.dist[v] = Infinity
		r.prev[v] = NoPredecessor
	}
	r.dist[source] = 0
}

// process runs up to V−1 passes, then the optional detection pass.
func (r *runner) process() error {
	n := len(r.g)
	for pass := 1; pass < n; pass++ {
		if !r.relaxAll() && r.options.EarlyExit {
			// Settled: no negative cycle can be reachable.
			return nil
		}
	}

	if r.options.CheckNegativeCycles && r.relaxAll() {
		return ErrNegativeCycle
	}

	return nil
}

// relaxAll performs one pass over all arcs and reports whether any distance improved.
func (r *runner) relaxAll() bool {
	var (
		updated bool
		u       int
		du, nd  int64
		a       Arc
	)
	for u = range r.g {
		du = r.dist[u]
		if du == Infinity {
			continue
		}
		for _, a = range r.g[u] {
			nd = du + a.Weight
			if nd < r.dist[a.To] {
				r.dist[a.To] = nd
				r.prev[a.To] = u
				updated = true
			}
		}
	}

	return updated
}

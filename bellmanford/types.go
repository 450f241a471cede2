// Package bellmanford defines core types and configuration options
// for the Bellman–Ford shortest-path algorithm on signed, integer-weighted graphs.
//
// Bellman–Ford computes minimum-cost paths from a single source node to every
// reachable node even when some arcs carry negative cost, which rules out the
// Dijkstra family. It relaxes every arc up to V−1 times and reports a
// negative cycle if a V-th pass still improves a distance.
//
// Graphs are index-addressed: nodes are the integers [0, V) and each node owns
// an ordered slice of outgoing arcs. Relaxation scans nodes ascending and arcs
// in insertion order, and only strictly shorter distances replace the current
// predecessor, so equal-cost alternatives resolve to the first one scanned.
//
// Complexity:
//
//	– Time:  O(V · E) worst case; O(k · E) when the k-th pass makes no update.
//	– Space: O(V) for distance and predecessor slices.
//
// Options:
//
//	– WithoutEarlyExit:       always run the full V−1 passes.
//	– WithNegativeCycleCheck: run (or skip) the extra detection pass (default on).
//
// Errors (sentinel):
//
//	– ErrEmptyGraph      if the graph has no nodes.
//	– ErrNodeOutOfRange  if the source, target or an arc endpoint is not a node.
//	– ErrUnreachable     if the target cannot be reached from the source.
//	– ErrNegativeCycle   if a negative cycle is reachable from the source.
//
// Example usage:
//
//	g := bellmanford.NewGraph(3)
//	g.AddArc(0, 1, 4)
//	g.AddArc(1, 2, -3)
//	path, err := bellmanford.ShortestPath(g, 0, 2)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(path.Cost, path.Nodes) // 1 [0 1 2]
package bellmanford

import (
	"errors"
	"math"
)

// Sentinel errors returned by the Bellman–Ford implementation.
var (
	// ErrEmptyGraph indicates that the graph has no nodes.
	ErrEmptyGraph = errors.New("bellmanford: graph has no nodes")

	// ErrNodeOutOfRange indicates that a node index is outside [0, V).
	ErrNodeOutOfRange = errors.New("bellmanford: node index out of range")

	// ErrUnreachable indicates that the target node is not reachable from the source.
	ErrUnreachable = errors.New("bellmanford: target unreachable from source")

	// ErrNegativeCycle indicates that a negative-cost cycle is reachable from the source,
	// so shortest distances are undefined.
	ErrNegativeCycle = errors.New("bellmanford: negative cycle reachable from source")
)

// Infinity marks an unreachable node in the distance slice.
const Infinity int64 = math.MaxInt64

// NoPredecessor marks a node without predecessor (the source, or unreachable nodes).
const NoPredecessor = -1

// Arc is a directed, weighted edge to node To.
type Arc struct {
	To     int   // head node index
	Weight int64 // signed cost of traversing the arc
}

// Graph is an adjacency list: Graph[u] holds the arcs leaving node u in
// insertion order.
type Graph [][]Arc

// NewGraph returns a graph with n nodes and no arcs.
func NewGraph(n int) Graph {
	return make(Graph, n)
}

// AddArc appends the arc u→v with the given weight. Endpoints are validated
// lazily by ShortestPath/Distances so construction stays allocation-only.
func (g Graph) AddArc(u, v int, w int64) {
	g[u] = append(g[u], Arc{To: v, Weight: w})
}

// Len returns the number of nodes.
func (g Graph) Len() int { return len(g) }

// ArcCount returns the total number of arcs.
func (g Graph) ArcCount() int {
	var n int
	for _, arcs := range g {
		n += len(arcs)
	}

	return n
}

// Path is a shortest path from source to target.
type Path struct {
	Cost  int64 // sum of arc weights along Nodes
	Nodes []int // node sequence, Nodes[0]==source, Nodes[len-1]==target
}

// Options configures the behavior of the Bellman–Ford algorithm.
//
// EarlyExit           – stop as soon as a full pass makes no relaxation (default true).
// CheckNegativeCycles – run one extra pass to detect reachable negative cycles (default true).
type Options struct {
	EarlyExit           bool
	CheckNegativeCycles bool
}

// Option represents a functional option for configuring Bellman–Ford.
type Option func(*Options)

// WithoutEarlyExit forces all V−1 relaxation passes even if distances settle earlier.
func WithoutEarlyExit() Option {
	return func(o *Options) {
		o.EarlyExit = false
	}
}

// WithNegativeCycleCheck enables or disables the detection pass.
// Disabling it is only safe when the caller guarantees the graph has no
// negative cycle reachable from the source.
func WithNegativeCycleCheck(enabled bool) Option {
	return func(o *Options) {
		o.CheckNegativeCycles = enabled
	}
}

// DefaultOptions returns an Options struct initialized with sensible defaults.
//
// Defaults:
//   - EarlyExit:           true.
//   - CheckNegativeCycles: true.
func DefaultOptions() Options {
	return Options{
		EarlyExit:           true,
		CheckNegativeCycles: true,
	}
}

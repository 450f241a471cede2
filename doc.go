// Package envyfree allocates indivisible items to groups of agents in
// rounds, choosing every group's bundle with an exact fixed-size
// maximum-weight bipartite matching, and measures how groups value each
// other's bundles.
//
// Packages, bottom-up:
//
//	matrix/      agent×item preference storage (Dense) and value checks
//	bellmanford/ single-source shortest paths with signed int64 arc costs
//	matching/    k-cardinality max-weight matching by successive shortest
//	             augmenting paths (Matcher, FixedSizeMaxWeight,
//	             ComputeMaxWeightMatching, Solve)
//	allocation/  round-robin group scheduler (RoundRobinByGroup)
//	evaluate/    cross-group bundle valuations and envy
//	experiment/  parallel random trials with reproducible seeds
//	cmd/envysim  CLI: run experiments, write CSV outcomes, print summaries
//
// Quick example, two groups of two agents and four items:
//
//	prefs, _ := matrix.NewDenseFromRows([][]float64{
//		{1.0, 0.125, 0.5, 0.25},
//		{0.25, 0.5, 0.75, 0.125},
//		{0.5, 1.0, 0.25, 0.125},
//		{0.125, 0.25, 0.5, 0.875},
//	})
//	res, _ := allocation.RoundRobinByGroup(4, 2, 2, [][]int{{0, 1}, {2, 3}}, prefs)
//	// res.Bundles == [[0 2] [1 3]], res.Utilities == [1.75 1.875]
//
//	go install github.com/tomonatu8/envy-free-matching/cmd/envysim@latest
package envyfree

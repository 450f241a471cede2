package allocation_test

import (
	"math"
	"math/rand"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/tomonatu8/envy-free-matching/allocation"
	"github.com/tomonatu8/envy-free-matching/matrix"
)

// twoByTwo is the 2 groups × 2 agents × 4 items fixture.
// Agent 0 likes item 0 best, agent 2 likes item 1 best.
func twoByTwo(t *testing.T) *matrix.Dense {
	t.Helper()
	prefs, err := matrix.NewDenseFromRows([][]float64{
		{1.0, 0.125, 0.5, 0.25},
		{0.25, 0.5, 0.75, 0.125},
		{0.5, 1.0, 0.25, 0.125},
		{0.125, 0.25, 0.5, 0.875},
	})
	require.NoError(t, err)

	return prefs
}

func randomPrefs(t *testing.T, seed int64, agents, items int) *matrix.Dense {
	t.Helper()
	rng := rand.New(rand.NewSource(seed))
	prefs, err := matrix.NewDense(agents, items)
	require.NoError(t, err)
	for a := 0; a < agents; a++ {
		for i := 0; i < items; i++ {
			require.NoError(t, prefs.Set(a, i, rng.Float64()))
		}
	}

	return prefs
}

func consecutiveGroups(numGroups, size int) [][]int {
	groups := make([][]int, numGroups)
	for p := range groups {
		groups[p] = make([]int, size)
		for j := range groups[p] {
			groups[p][j] = p*size + j
		}
	}

	return groups
}

// recorder is an Observer that keeps every event.
type recorder struct {
	rounds  [][2]int
	matches int
	claims  []allocation.Claim
}

func (r *recorder) OnRound(round, active int) { r.rounds = append(r.rounds, [2]int{round, active}) }
func (r *recorder) OnMatch(int, time.Duration) { r.matches++ }
func (r *recorder) OnClaim(c allocation.Claim) { r.claims = append(r.claims, c) }

type SchedulerSuite struct {
	suite.Suite
}

// TestEndToEnd walks the 2×2 fixture round by round.
func (s *SchedulerSuite) TestEndToEnd() {
	t := s.T()
	prefs := twoByTwo(t)
	groups := [][]int{{0, 1}, {2, 3}}

	rec := &recorder{}
	res, err := allocation.RoundRobinByGroup(4, 2, 2, groups, prefs, allocation.WithObserver(rec))
	require.NoError(t, err)

	require.Equal(t, [][]int{{0, 2}, {1, 3}}, res.Bundles)
	require.Equal(t, []float64{1.75, 1.875}, res.Utilities)
	require.Equal(t, 2, res.Rounds)
	require.Equal(t, []allocation.Claim{
		{Round: 1, Group: 0, Item: 0, Utility: 1.0},
		{Round: 1, Group: 1, Item: 1, Utility: 1.0},
		{Round: 2, Group: 0, Item: 2, Utility: 1.75},
		{Round: 2, Group: 1, Item: 3, Utility: 1.875},
	}, res.Claims)

	require.Equal(t, [][2]int{{1, 2}, {2, 2}}, rec.rounds)
	require.Equal(t, 4, rec.matches)
	require.Equal(t, res.Claims, rec.claims)
}

// TestIncrementalAgrees: warm-started runs reproduce recomputed runs.
func (s *SchedulerSuite) TestIncrementalAgrees() {
	t := s.T()
	for seed := int64(1); seed <= 10; seed++ {
		const groupsN, size, items = 3, 3, 12
		prefs := randomPrefs(t, seed, groupsN*size, items)
		groups := consecutiveGroups(groupsN, size)

		cold, err := allocation.RoundRobinByGroup(items, groupsN, size, groups, prefs)
		require.NoError(t, err)
		warm, err := allocation.RoundRobinByGroup(items, groupsN, size, groups, prefs, allocation.WithIncremental())
		require.NoError(t, err)

		require.Empty(t, cmp.Diff(cold, warm), "seed %d", seed)
	}
}

// TestTerminationAndDisjointness: with enough items every bundle fills up,
// bundles are disjoint and utilities never decrease.
func (s *SchedulerSuite) TestTerminationAndDisjointness() {
	t := s.T()
	cases := []struct{ groups, size, capacity, items int }{
		{2, 2, 2, 4},
		{2, 3, 3, 10},
		{4, 3, 2, 8},
		{3, 4, 4, 20},
		{1, 5, 5, 5},
	}
	for i, tc := range cases {
		prefs := randomPrefs(t, int64(100+i), tc.groups*tc.size, tc.items)
		res, err := allocation.RoundRobinByGroup(tc.items, tc.groups, tc.capacity,
			consecutiveGroups(tc.groups, tc.size), prefs, allocation.WithIncremental())
		require.NoError(t, err)

		seen := map[int]int{}
		for p, b := range res.Bundles {
			require.Len(t, b, tc.capacity)
			for _, item := range b {
				prev, dup := seen[item]
				require.False(t, dup, "item %d in groups %d and %d", item, prev, p)
				seen[item] = p
			}
		}
		require.Len(t, seen, tc.capacity*tc.groups)
		require.Equal(t, tc.capacity, res.Rounds)

		// One claim per group per round.
		require.Len(t, res.Claims, tc.capacity*tc.groups)
		last := make([]float64, tc.groups)
		for _, c := range res.Claims {
			require.GreaterOrEqual(t, c.Utility, last[c.Group])
			last[c.Group] = c.Utility
		}
		require.Equal(t, res.Utilities, last)
	}
}

// TestPoolDrainsMidRound: three items for two groups of capacity two.
func (s *SchedulerSuite) TestPoolDrainsMidRound() {
	t := s.T()
	prefs := randomPrefs(t, 5, 4, 3)

	res, err := allocation.RoundRobinByGroup(3, 2, 2, consecutiveGroups(2, 2), prefs)
	require.NoError(t, err)
	require.Len(t, res.Bundles[0], 2)
	require.Len(t, res.Bundles[1], 1)
	require.Len(t, res.Claims, 3)
	require.Equal(t, 2, res.Rounds)
}

// TestZeroCapacityAndNoItems: nothing to hand out.
func (s *SchedulerSuite) TestZeroCapacityAndNoItems() {
	t := s.T()
	prefs := twoByTwo(t)
	groups := [][]int{{0, 1}, {2, 3}}

	res, err := allocation.RoundRobinByGroup(4, 2, 0, groups, prefs)
	require.NoError(t, err)
	require.Equal(t, [][]int{{}, {}}, res.Bundles)
	require.Zero(t, res.Rounds)

	res, err = allocation.RoundRobinByGroup(0, 2, 2, groups, prefs)
	require.NoError(t, err)
	require.Equal(t, []float64{0, 0}, res.Utilities)
	require.Empty(t, res.Claims)
}

// TestFewerItemsThanAgents: candidate sets smaller than the group still solve.
func (s *SchedulerSuite) TestFewerItemsThanAgents() {
	t := s.T()
	prefs := randomPrefs(t, 9, 6, 2)

	for _, opts := range [][]allocation.Option{nil, {allocation.WithIncremental()}} {
		res, err := allocation.RoundRobinByGroup(2, 1, 2, [][]int{{0, 1, 2, 3, 4, 5}}, prefs, opts...)
		require.NoError(t, err)
		require.Equal(t, [][]int{{0, 1}}, res.Bundles)
	}
}

// TestShortPoolTransposes: once fewer candidates than agents remain, the
// group's matching runs item-major and the run still completes.
func (s *SchedulerSuite) TestShortPoolTransposes() {
	t := s.T()
	prefs := randomPrefs(t, 21, 6, 4)

	for _, opts := range [][]allocation.Option{nil, {allocation.WithIncremental()}} {
		res, err := allocation.RoundRobinByGroup(4, 2, 3, consecutiveGroups(2, 3), prefs, opts...)
		require.NoError(t, err)
		require.Equal(t, 2, res.Rounds)
		require.Len(t, res.Claims, 4)
		require.Len(t, res.Bundles[0], 2)
		require.Len(t, res.Bundles[1], 2)
	}
}

// TestTiesGoToLowestItems: indifferent agents claim items in id order.
func (s *SchedulerSuite) TestTiesGoToLowestItems() {
	t := s.T()
	prefs, err := matrix.NewDense(4, 4)
	require.NoError(t, err)
	for a := 0; a < 4; a++ {
		for i := 0; i < 4; i++ {
			require.NoError(t, prefs.Set(a, i, 1.0))
		}
	}

	res, err := allocation.RoundRobinByGroup(4, 2, 2, consecutiveGroups(2, 2), prefs)
	require.NoError(t, err)
	require.Equal(t, [][]int{{0, 2}, {1, 3}}, res.Bundles)
	require.Equal(t, []float64{2, 2}, res.Utilities)

	items := make([]int, 0, len(res.Claims))
	for _, c := range res.Claims {
		items = append(items, c.Item)
	}
	require.Equal(t, []int{0, 1, 2, 3}, items)
}

// TestQuantizedPreferencesKeepOneItemDiff: heavily tied valuations never make
// a recomputed bundle drop an item.
func (s *SchedulerSuite) TestQuantizedPreferencesKeepOneItemDiff() {
	t := s.T()
	levels := []float64{0, 0.5, 1}
	cases := []struct{ groups, size, capacity, items int }{
		{2, 2, 2, 4},
		{2, 3, 3, 7},
		{3, 2, 2, 6},
		{3, 3, 2, 9},
	}
	for i, tc := range cases {
		for seed := int64(0); seed < 40; seed++ {
			rng := rand.New(rand.NewSource(seed*31 + int64(i)))
			agents := tc.groups * tc.size
			prefs, err := matrix.NewDense(agents, tc.items)
			require.NoError(t, err)
			for a := 0; a < agents; a++ {
				for it := 0; it < tc.items; it++ {
					require.NoError(t, prefs.Set(a, it, levels[rng.Intn(len(levels))]))
				}
			}

			res, err := allocation.RoundRobinByGroup(tc.items, tc.groups, tc.capacity,
				consecutiveGroups(tc.groups, tc.size), prefs)
			require.NoError(t, err, "case %d seed %d", i, seed)
			for _, b := range res.Bundles {
				require.Len(t, b, tc.capacity)
			}
		}
	}
}

// TestInvalidInput: every precondition maps to its sentinel.
func (s *SchedulerSuite) TestInvalidInput() {
	t := s.T()
	prefs := twoByTwo(t)
	bad, err := matrix.NewDenseFromRows([][]float64{{0.1, math.NaN()}, {0, 0}})
	require.NoError(t, err)

	tests := []struct {
		name     string
		items    int
		groupsN  int
		capacity int
		groups   [][]int
		prefs    matrix.Matrix
		want     error
	}{
		{"NilPreferences", 4, 2, 2, [][]int{{0, 1}, {2, 3}}, nil, matrix.ErrNilMatrix},
		{"NaNPreference", 2, 1, 1, [][]int{{0, 1}}, bad, matrix.ErrNaNInf},
		{"TooManyItems", 5, 2, 2, [][]int{{0, 1}, {2, 3}}, prefs, allocation.ErrBadItemCount},
		{"GroupCount", 4, 3, 2, [][]int{{0, 1}, {2, 3}}, prefs, allocation.ErrGroupCount},
		{"NegativeCapacity", 4, 2, -1, [][]int{{0, 1}, {2, 3}}, prefs, allocation.ErrBadCapacity},
		{"CapacityAboveGroupSize", 4, 2, 2, [][]int{{0, 1}, {2}}, prefs, allocation.ErrBadCapacity},
		{"EmptyGroup", 4, 2, 0, [][]int{{0, 1}, {}}, prefs, allocation.ErrEmptyGroup},
		{"AgentOutOfRange", 4, 2, 1, [][]int{{0, 1}, {2, 4}}, prefs, allocation.ErrAgentOutOfRange},
		{"Overlap", 4, 2, 1, [][]int{{0, 1}, {1, 3}}, prefs, allocation.ErrOverlappingGroups},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := allocation.RoundRobinByGroup(tc.items, tc.groupsN, tc.capacity, tc.groups, tc.prefs)
			require.ErrorIs(t, err, tc.want)
		})
	}
}

// TestOptionPanics: invalid option arguments panic when applied.
func (s *SchedulerSuite) TestOptionPanics() {
	t := s.T()
	prefs := twoByTwo(t)
	groups := [][]int{{0, 1}, {2, 3}}

	require.Panics(t, func() {
		_, _ = allocation.RoundRobinByGroup(4, 2, 2, groups, prefs, allocation.WithObserver(nil))
	})
	require.Panics(t, func() {
		_, _ = allocation.RoundRobinByGroup(4, 2, 2, groups, prefs, allocation.WithScale(-1))
	})
}

func TestSchedulerSuite(t *testing.T) {
	suite.Run(t, new(SchedulerSuite))
}

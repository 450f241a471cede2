package allocation

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tomonatu8/envy-free-matching/matrix"
)

func TestDiff(t *testing.T) {
	tests := []struct {
		name          string
		prev, next    []int
		added, remove []int
	}{
		{"Grow", []int{1, 4}, []int{1, 3, 4}, []int{3}, nil},
		{"FromEmpty", []int{}, []int{7}, []int{7}, nil},
		{"Swap", []int{1, 4}, []int{2, 4, 5}, []int{2, 5}, []int{1}},
		{"Tail", []int{1, 2}, []int{1}, nil, []int{2}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			added, removed := diff(tc.prev, tc.next)
			require.Equal(t, tc.added, added)
			require.Equal(t, tc.remove, removed)
		})
	}
}

// TestStepRejectsBadDiff drives step with a group whose stored bundle is not
// part of the optimum, so the new bundle swaps items instead of adding one.
func TestStepRejectsBadDiff(t *testing.T) {
	prefs, err := matrix.NewDenseFromRows([][]float64{
		{1.0, 0.5, 0.25},
		{0.75, 1.0, 0.125},
	})
	require.NoError(t, err)
	s := newScheduler(3, 2, [][]int{{0, 1}}, prefs, DefaultOptions())
	s.round = 2
	// Pretend the group holds item 2 and nothing was matched yet.
	s.owner[2] = 0
	s.available = 2
	s.bundles[0] = []int{2}

	err = s.step(0)
	var de *DiffError
	require.True(t, errors.As(err, &de))
	require.True(t, errors.Is(err, ErrDiffInvariant))
	require.Equal(t, 2, de.Round)
	require.Equal(t, 0, de.Group)
	require.Equal(t, []int{0, 1}, de.Added)
	require.Equal(t, []int{2}, de.Removed)
	require.Contains(t, err.Error(), "round 2 group 0")
}

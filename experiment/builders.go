package experiment

import (
	"math/rand"

	"github.com/tomonatu8/envy-free-matching/matrix"
)

// Groups partitions agents [0, numGroups·nEach) into consecutive blocks:
// group p holds p·nEach … (p+1)·nEach−1.
func Groups(numGroups, nEach int) [][]int {
	groups := make([][]int, numGroups)
	for p := range groups {
		groups[p] = make([]int, nEach)
		for j := range groups[p] {
			groups[p][j] = p*nEach + j
		}
	}

	return groups
}

// RandomPreferences draws an agents×items matrix with entries uniform in [0, 1).
// Entries are drawn agent by agent, item by item, so a given rng state always
// yields the same matrix.
//
// Complexity: O(agents·items).
func RandomPreferences(rng *rand.Rand, agents, items int) (*matrix.Dense, error) {
	prefs, err := matrix.NewDense(agents, items)
	if err != nil {
		return nil, err
	}

	var a, i int
	for a = 0; a < agents; a++ {
		for i = 0; i < items; i++ {
			if err = prefs.Set(a, i, rng.Float64()); err != nil {
				return nil, err
			}
		}
	}

	return prefs, nil
}

// Preferences draws the preference matrix of trial index of a run with
// parameters p.
func Preferences(p Params, index int) (*matrix.Dense, error) {
	return RandomPreferences(rngFromSeed(TrialSeed(p.Seed, index)), p.NumGroups*p.NEach, p.NumItems)
}

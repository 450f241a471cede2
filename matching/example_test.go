// Package matching_test shows the matching engine on small instances.
// Each example is runnable via “go test -run Example”.
package matching_test

import (
	"fmt"

	"github.com/tomonatu8/envy-free-matching/matching"
	"github.com/tomonatu8/envy-free-matching/matrix"
)

// ExampleFixedSizeMaxWeight picks two disjoint pairs of maximum total weight.
func ExampleFixedSizeMaxWeight() {
	weights := [][]int64{
		{10, 2, 3},
		{4, 15, 6},
	}

	total, cols, err := matching.FixedSizeMaxWeight(weights, 2)
	if err != nil {
		fmt.Println("error:", err)
		return
	}
	fmt.Println(total, cols)
	// Output: 25 [0 1]
}

// ExampleMatcher grows a matching one pair at a time.
func ExampleMatcher() {
	mt, _ := matching.NewMatcher([][]int64{
		{20, 18, 0, 0},
		{0, 20, 18, 0},
		{19, 0, 0, 0},
	})

	for mt.Size() < mt.Rows() {
		if err := mt.Augment(); err != nil {
			fmt.Println("error:", err)
			return
		}
		fmt.Println(mt.Size(), mt.Weight(), mt.Columns())
	}
	// Output:
	// 1 20 [0]
	// 2 40 [0 1]
	// 3 55 [0 1 2]
}

// ExampleComputeMaxWeightMatching matches two agents to a subset of items.
func ExampleComputeMaxWeightMatching() {
	prefs, _ := matrix.NewDenseFromRows([][]float64{
		{0.5, 0.25, 0.125, 0.75},
		{0.5, 0.625, 0.25, 0.125},
	})

	got, err := matching.ComputeMaxWeightMatching([]int{0, 1}, []int{0, 1, 3}, prefs, 2)
	if err != nil {
		fmt.Println("error:", err)
		return
	}
	fmt.Printf("%.3f %v\n", got.Utility, got.Items)
	// Output: 1.375 [1 3]
}

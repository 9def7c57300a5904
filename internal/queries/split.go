// Package queries generates the consumer-style question set posed to AI
// platforms: 70% unbranded, 20% competitive, 10% branded.
package queries

import "github.com/scaile/openanalytics/internal/models"

// Allocation is the per-dimension query budget for one run.
type Allocation struct {
	Unbranded   int
	Competitive int
	Branded     int
}

// Total returns the allocation sum, which always equals the requested n.
func (a Allocation) Total() int {
	return a.Unbranded + a.Competitive + a.Branded
}

// ForDimension returns the budget for the named dimension.
func (a Allocation) ForDimension(dim string) int {
	switch dim {
	case models.DimensionUnbranded:
		return a.Unbranded
	case models.DimensionCompetitive:
		return a.Competitive
	case models.DimensionBranded:
		return a.Branded
	}
	return 0
}

// Dimension weights in tenths, so the allocation arithmetic stays exact.
var splitTenths = []int{7, 2, 1}

// SplitQueries allocates n queries across the dimensions by largest
// remainder: integer floors first, then leftover units to the largest
// remainders, ties resolved in dimension order (unbranded first).
func SplitQueries(n int) Allocation {
	if n <= 0 {
		return Allocation{}
	}

	counts := make([]int, len(splitTenths))
	remainders := make([]int, len(splitTenths))
	assigned := 0

	for i, tenths := range splitTenths {
		counts[i] = n * tenths / 10
		remainders[i] = n * tenths % 10
		assigned += counts[i]
	}

	for leftover := n - assigned; leftover > 0; leftover-- {
		best := 0
		for i := 1; i < len(remainders); i++ {
			if remainders[i] > remainders[best] {
				best = i
			}
		}
		counts[best]++
		remainders[best] = -1
	}

	return Allocation{
		Unbranded:   counts[0],
		Competitive: counts[1],
		Branded:     counts[2],
	}
}

package rfm

import "sort"

// quantile returns the linearly interpolated q-quantile of sorted values,
// matching the conventional h = (n-1)q definition used by the exported
// analysis files this package replaces.
func quantile(sorted []float64, q float64) float64 {
	n := len(sorted)
	if n == 0 {
		return 0
	}
	if n == 1 {
		return sorted[0]
	}
	h := float64(n-1) * q
	lo := int(h)
	if lo >= n-1 {
		return sorted[n-1]
	}
	frac := h - float64(lo)
	return sorted[lo] + frac*(sorted[lo+1]-sorted[lo])
}

// quartileEdges computes the 5 quartile boundaries of values and drops
// duplicate edges. A distribution with heavy mass at one value can therefore
// produce fewer than 4 bins; that degeneracy is intentional and callers
// scale their scores to the surviving bin count.
func quartileEdges(values []float64) []float64 {
	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)

	edges := make([]float64, 0, 5)
	for i := 0; i <= 4; i++ {
		e := quantile(sorted, float64(i)/4)
		if len(edges) == 0 || e > edges[len(edges)-1] {
			edges = append(edges, e)
		}
	}
	return edges
}

// bin assigns v to its 1-based quartile bin. Intervals are right-closed with
// the lowest bin absorbing the minimum. Returns 1 when the edges are fully
// degenerate (a single distinct value).
func bin(v float64, edges []float64) int {
	if len(edges) < 2 {
		return 1
	}
	for i := 1; i < len(edges); i++ {
		if v <= edges[i] {
			return i
		}
	}
	return len(edges) - 1
}

// binCount is the number of bins the deduplicated edges describe.
func binCount(edges []float64) int {
	if len(edges) < 2 {
		return 1
	}
	return len(edges) - 1
}

// rankFirst assigns each value its 1-based ascending rank, breaking ties by
// position (earlier observation gets the lower rank). Ranks are always
// distinct, which guarantees four non-degenerate quartile bins downstream.
func rankFirst(values []float64) []float64 {
	idx := make([]int, len(values))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool { return values[idx[a]] < values[idx[b]] })

	ranks := make([]float64, len(values))
	for pos, i := range idx {
		ranks[i] = float64(pos + 1)
	}
	return ranks
}

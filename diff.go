package ui

import (
	"slices"
)

// maxEditCost bounds the number of Myers rounds. Past it, the edit script
// removes every remaining item and inserts the new ones.
const maxEditCost = 1024

// shortestEditScript computes a Myers diff between a and b. It returns the
// indices of a that must be removed and the indices of b that must be
// inserted. Applying the removals in descending order and then the insertions
// in ascending order transforms a into b.
//
// The common prefix and suffix are skipped before diffing. When the remaining
// sequences differ by more than maxEditCost edits, the script is no longer
// minimal.
func shortestEditScript[T any](a, b []T, eq func(T, T) bool) (removed []int, inserted []int) {
	pre := 0
	for pre < len(a) && pre < len(b) && eq(a[pre], b[pre]) {
		pre++
	}
	suf := 0
	for suf < len(a)-pre && suf < len(b)-pre && eq(a[len(a)-1-suf], b[len(b)-1-suf]) {
		suf++
	}

	removed, inserted = myers(a[pre:len(a)-suf], b[pre:len(b)-suf], eq)
	for i := range removed {
		removed[i] += pre
	}
	for i := range inserted {
		inserted[i] += pre
	}
	return removed, inserted
}

func myers[T any](a, b []T, eq func(T, T) bool) (removed []int, inserted []int) {
	n, m := len(a), len(b)
	max := n + m
	if max == 0 {
		return nil, nil
	}
	offset := max
	v := make([]int, 2*max+2)
	// trace[d] holds diagonals -d..d of v as they were before round d.
	trace := make([][]int, 0, min(max, maxEditCost)+1)

	for d := 0; d <= max; d++ {
		if d > maxEditCost {
			return indices(n), indices(m)
		}
		trace = append(trace, append([]int(nil), v[offset-d:offset+d+1]...))

		for k := -d; k <= d; k += 2 {
			var x int
			if k == -d || (k != d && v[offset+k-1] < v[offset+k+1]) {
				x = v[offset+k+1]
			} else {
				x = v[offset+k-1] + 1
			}
			y := x - k
			for x < n && y < m && eq(a[x], b[y]) {
				x, y = x+1, y+1
			}
			v[offset+k] = x

			if x >= n && y >= m {
				return backtrackEditScript(trace, n, m)
			}
		}
	}
	return nil, nil
}

func backtrackEditScript(trace [][]int, n, m int) (removed []int, inserted []int) {
	x, y := n, m
	for d := len(trace) - 1; d > 0; d-- {
		v := trace[d]
		at := func(k int) int { return v[k+d] }
		k := x - y

		var prevK int
		if k == -d || (k != d && at(k-1) < at(k+1)) {
			prevK = k + 1
		} else {
			prevK = k - 1
		}
		prevX := at(prevK)
		prevY := prevX - prevK

		for x > prevX && y > prevY {
			x, y = x-1, y-1
		}
		if x == prevX {
			inserted = append(inserted, prevY)
		} else {
			removed = append(removed, prevX)
		}
		x, y = prevX, prevY
	}
	slices.Reverse(removed)
	slices.Reverse(inserted)
	return removed, inserted
}

func indices(n int) []int {
	res := make([]int, n)
	for i := range res {
		res[i] = i
	}
	return res
}

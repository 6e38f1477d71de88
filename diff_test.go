package ui

import (
	"math/rand"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
)

func applyEditScript(a, b []byte, removed, inserted []int) []byte {
	res := slices.Clone(a)
	for i := len(removed) - 1; i >= 0; i-- {
		res = slices.Delete(res, removed[i], removed[i]+1)
	}
	for _, j := range inserted {
		res = slices.Insert(res, j, b[j])
	}
	return res
}

func TestShortestEditScript(t *testing.T) {
	tests := []struct {
		a, b  string
		edits int
	}{
		{"", "", 0},
		{"abc", "abc", 0},
		{"", "abc", 3},
		{"abc", "", 3},
		{"abcabba", "cbabac", 5},
		{"abcd", "acbd", 2},
		{"xaby", "ab", 2},
	}
	eq := func(x, y byte) bool { return x == y }
	for _, tt := range tests {
		removed, inserted := shortestEditScript([]byte(tt.a), []byte(tt.b), eq)
		assert.Equal(t, tt.edits, len(removed)+len(inserted), "%q -> %q", tt.a, tt.b)
		assert.Equal(t, tt.b, string(applyEditScript([]byte(tt.a), []byte(tt.b), removed, inserted)))
	}
}

func TestShortestEditScriptRandom(t *testing.T) {
	rnd := rand.New(rand.NewSource(1))
	gen := func() []byte {
		s := make([]byte, rnd.Intn(20))
		for i := range s {
			s[i] = byte('a' + rnd.Intn(4))
		}
		return s
	}
	eq := func(x, y byte) bool { return x == y }
	for i := 0; i < 200; i++ {
		a, b := gen(), gen()
		removed, inserted := shortestEditScript(a, b, eq)
		assert.Equal(t, string(b), string(applyEditScript(a, b, removed, inserted)), "%q -> %q", a, b)
		assert.LessOrEqual(t, len(removed)+len(inserted), len(a)+len(b))
	}
}

func TestShortestEditScriptLarge(t *testing.T) {
	eq := func(x, y int) bool { return x == y }
	a := make([]int, 3000)
	b := make([]int, 3000)
	for i := range a {
		a[i] = i
		b[i] = i + len(a)
	}
	removed, inserted := shortestEditScript(a, b, eq)
	assert.Equal(t, indices(3000), removed)
	assert.Equal(t, indices(3000), inserted)

	// one insertion in the middle of a long list stays a single edit
	c := slices.Insert(slices.Clone(a), 1500, -1)
	removed, inserted = shortestEditScript(a, c, eq)
	assert.Empty(t, removed)
	assert.Equal(t, []int{1500}, inserted)

	// interleaved changes past the cost bound still produce a valid script
	d := slices.Clone(a)
	for i := 0; i < len(d); i += 2 {
		d[i] = -d[i]
	}
	removed, inserted = shortestEditScript(a, d, eq)
	res := slices.Clone(a)
	for i := len(removed) - 1; i >= 0; i-- {
		res = slices.Delete(res, removed[i], removed[i]+1)
	}
	for _, j := range inserted {
		res = slices.Insert(res, j, d[j])
	}
	assert.Equal(t, d, res)
}

package flow_test

import (
	"math/rand/v2"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openstimuli/cadence/pkg/flow"
)

func testRand() *rand.Rand {
	return rand.New(rand.NewPCG(7, 11))
}

func TestShuffle_PreservesMembership(t *testing.T) {
	tests := []struct {
		name string
		in   []int
	}{
		{"empty", nil},
		{"single", []int{42}},
		{"small", []int{1, 2, 3}},
		{"larger", []int{9, 8, 7, 6, 5, 4, 3, 2, 1, 0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := append([]int(nil), tt.in...)
			flow.Shuffle(testRand(), in)

			want := append([]int(nil), tt.in...)
			sort.Ints(want)
			got := append([]int(nil), in...)
			sort.Ints(got)
			assert.Equal(t, want, got, "shuffle must permute, never add or drop")
		})
	}
}

func TestShuffle_ShortSlicesUnchanged(t *testing.T) {
	var empty []string
	flow.Shuffle(testRand(), empty)
	assert.Empty(t, empty)

	one := []string{"only"}
	flow.Shuffle(testRand(), one)
	assert.Equal(t, []string{"only"}, one)
}

func TestShuffle_EventuallyPermutes(t *testing.T) {
	// With 6 elements and many attempts, at least one shuffle must differ
	// from the identity ordering.
	rng := testRand()
	original := []int{0, 1, 2, 3, 4, 5}
	for attempt := 0; attempt < 100; attempt++ {
		s := append([]int(nil), original...)
		flow.Shuffle(rng, s)
		if !assert.ObjectsAreEqual(original, s) {
			return
		}
	}
	require.Fail(t, "100 shuffles of 6 elements all produced the identity order")
}

package assign

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/donuts/internal/tally"
)

type roster int

func (r roster) Size() int { return int(r) }

const (
	alice = iota
	bob
	charlie
	diana
	eve
)

func together(a Assignment, x, y int) bool {
	for _, g := range a.Groups {
		if contains(g, x) && contains(g, y) {
			return true
		}
	}
	return false
}

func contains(g Group, id int) bool {
	for _, v := range g {
		if v == id {
			return true
		}
	}
	return false
}

func TestSolve_EmptyRoster(t *testing.T) {
	a, err := Solve(roster(0), nil)
	require.NoError(t, err)
	assert.Empty(t, a.Groups)
}

func TestSolve_SinglePersonRejected(t *testing.T) {
	_, err := Solve(roster(1), nil)
	require.Error(t, err)
	assert.True(t, IsInsufficientRoster(err))
	assert.Contains(t, err.Error(), "have 1")
}

func TestSolve_TwoPeopleAlwaysPaired(t *testing.T) {
	counts := tally.Counts{tally.NewPair(0, 1): 5}
	a, err := Solve(roster(2), counts)
	require.NoError(t, err)
	assert.Equal(t, []Group{{0, 1}}, a.Groups)
	assert.Equal(t, 5, a.Cost(counts))
}

func TestSolve_FourPeopleNoHistory(t *testing.T) {
	a, err := Solve(roster(4), nil)
	require.NoError(t, err)
	require.Len(t, a.Groups, 2)
	require.NoError(t, a.Validate(4))
	assert.Equal(t, []Group{{0, 3}, {1, 2}}, a.Groups)
}

func TestSolve_AvoidsRepeatedPair(t *testing.T) {
	counts := tally.Counts{tally.NewPair(alice, bob): 2}
	a, err := Solve(roster(4), counts)
	require.NoError(t, err)
	assert.False(t, together(a, alice, bob))
	assert.Equal(t, 0, a.Cost(counts))
}

func TestSolve_ThreePeopleFormTriplet(t *testing.T) {
	a, err := Solve(roster(3), nil)
	require.NoError(t, err)
	assert.Equal(t, []Group{{0, 1, 2}}, a.Groups)
}

func TestSolve_OddRosterTriplet(t *testing.T) {
	counts := tally.Counts{tally.NewPair(charlie, diana): 1}
	a, err := Solve(roster(5), counts)
	require.NoError(t, err)
	require.NoError(t, a.Validate(5))

	var triplet Group
	for _, g := range a.Groups {
		if len(g) == 3 {
			triplet = g
		}
	}
	require.NotNil(t, triplet)
	assert.Contains(t, triplet, eve)
	assert.False(t, together(a, charlie, diana))
	assert.Equal(t, 0, a.Cost(counts))
	assert.Equal(t, []Group{{alice, charlie, eve}, {bob, diana}}, a.Groups)
}

func TestSolve_TripletAvoidsHistory(t *testing.T) {
	// Alice has met both Bob and Charlie; whoever is left over must not
	// land in a group with someone they met when a cleaner option exists.
	counts := tally.Counts{
		tally.NewPair(alice, bob):     3,
		tally.NewPair(alice, charlie): 1,
	}
	a, err := Solve(roster(5), counts)
	require.NoError(t, err)
	require.NoError(t, a.Validate(5))
	assert.Equal(t, 0, a.Cost(counts))
	assert.Equal(t, []Group{{alice, eve}, {bob, charlie, diana}}, a.Groups)
}

func TestSolve_RepeatAcceptedWhenUnavoidable(t *testing.T) {
	counts := tally.Counts{
		tally.NewPair(0, 1): 1,
		tally.NewPair(0, 2): 1,
		tally.NewPair(0, 3): 1,
	}
	a, err := Solve(roster(4), counts)
	require.NoError(t, err)
	require.NoError(t, a.Validate(4))
	assert.Equal(t, 1, a.Cost(counts))
}

func TestBestTriplet_TieGoesToFirstPair(t *testing.T) {
	pairs := []Group{{0, 1}, {2, 3}, {4, 5}}
	assert.Equal(t, 0, bestTriplet(pairs, 6, nil))

	counts := tally.Counts{tally.NewPair(0, 6): 1}
	assert.Equal(t, 1, bestTriplet(pairs, 6, counts))

	counts = tally.Counts{
		tally.NewPair(0, 1): 2,
		tally.NewPair(2, 6): 1,
		tally.NewPair(4, 5): 1,
	}
	assert.Equal(t, 1, bestTriplet(pairs, 6, counts))
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		groups  []Group
		n       int
		wantErr string
	}{
		{name: "valid even", groups: []Group{{0, 1}, {2, 3}}, n: 4},
		{name: "valid odd", groups: []Group{{0, 1, 4}, {2, 3}}, n: 5},
		{name: "empty", n: 0},
		{name: "singleton group", groups: []Group{{0}, {1, 2}}, n: 3, wantErr: "has 1 members"},
		{name: "repeated id", groups: []Group{{0, 1}, {1, 2}}, n: 4, wantErr: "more than once"},
		{name: "missing id", groups: []Group{{0, 1}}, n: 4, wantErr: "not assigned"},
		{name: "out of range", groups: []Group{{0, 7}}, n: 2, wantErr: "unknown id 7"},
		{name: "two triplets", groups: []Group{{0, 1, 2}, {3, 4, 5}}, n: 6, wantErr: "at most one"},
		{name: "odd roster without triplet", groups: []Group{{0, 1}, {2, 3}, {4, 4}}, n: 5, wantErr: "more than once"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Assignment{Groups: tt.groups}.Validate(tt.n)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestCost_CountsEveryPairInGroup(t *testing.T) {
	counts := tally.Counts{
		tally.NewPair(0, 1): 1,
		tally.NewPair(0, 2): 2,
		tally.NewPair(1, 2): 3,
		tally.NewPair(3, 4): 4,
	}
	a := Assignment{Groups: []Group{{0, 1, 2}, {3, 4}}}
	assert.Equal(t, 10, a.Cost(counts))
}

func randomCounts(rng *rand.Rand, n int) tally.Counts {
	counts := make(tally.Counts)
	for u := 0; u < n; u++ {
		for v := u + 1; v < n; v++ {
			if c := rng.Intn(4); c > 0 && rng.Intn(2) == 0 {
				counts[tally.NewPair(u, v)] = c
			}
		}
	}
	return counts
}

// minPerfectCost returns the least cost of any perfect matching of ids.
func minPerfectCost(ids []int, counts tally.Counts) int {
	if len(ids) == 0 {
		return 0
	}
	best := -1
	first, rest := ids[0], ids[1:]
	for i, partner := range rest {
		remaining := make([]int, 0, len(rest)-1)
		remaining = append(remaining, rest[:i]...)
		remaining = append(remaining, rest[i+1:]...)
		cost := counts.Get(first, partner) + minPerfectCost(remaining, counts)
		if best == -1 || cost < best {
			best = cost
		}
	}
	return best
}

func TestSolve_PartitionProperty(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	for iter := 0; iter < 200; iter++ {
		n := 2 + rng.Intn(15)
		a, err := Solve(roster(n), randomCounts(rng, n))
		require.NoError(t, err)
		require.NoError(t, a.Validate(n), "n=%d groups=%v", n, a.Groups)
		for _, g := range a.Groups {
			assert.IsIncreasing(t, []int(g))
		}
	}
}

func TestSolve_OptimalForEvenRosters(t *testing.T) {
	rng := rand.New(rand.NewSource(11))
	for iter := 0; iter < 150; iter++ {
		n := 2 * (1 + rng.Intn(5))
		counts := randomCounts(rng, n)
		a, err := Solve(roster(n), counts)
		require.NoError(t, err)

		ids := make([]int, n)
		for i := range ids {
			ids[i] = i
		}
		assert.Equal(t, minPerfectCost(ids, counts), a.Cost(counts), "n=%d counts=%v", n, counts)
	}
}

func TestSolve_Deterministic(t *testing.T) {
	counts := randomCounts(rand.New(rand.NewSource(3)), 11)
	first, err := Solve(roster(11), counts)
	require.NoError(t, err)
	for i := 0; i < 5; i++ {
		again, err := Solve(roster(11), counts)
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}
}

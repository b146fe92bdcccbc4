package assign

import (
	"fmt"
	"slices"

	"github.com/roach88/donuts/internal/matching"
	"github.com/roach88/donuts/internal/tally"
)

// Roster is the part of a registry the solver needs. IDs are 0..Size()-1.
type Roster interface {
	Size() int
}

// Group is a set of person IDs meeting together, sorted ascending.
type Group []int

// Assignment is a partition of the roster into groups of two, with at most
// one group of three.
type Assignment struct {
	Groups []Group `json:"groups"`
}

// Solve computes the assignment for r given past meeting counts.
//
// An empty roster yields an empty Assignment. A roster of one person fails
// with *InsufficientRosterError.
func Solve(r Roster, counts tally.Counts) (Assignment, error) {
	n := r.Size()
	switch {
	case n == 0:
		return Assignment{}, nil
	case n < 2:
		return Assignment{}, &InsufficientRosterError{Size: n}
	}

	edges := make([]matching.Edge, 0, n*(n-1)/2)
	for u := 0; u < n; u++ {
		for v := u + 1; v < n; v++ {
			edges = append(edges, matching.Edge{U: u, V: v, Weight: -int64(counts.Get(u, v))})
		}
	}
	mate := matching.MaxWeightMatching(n, edges, true)

	groups := make([]Group, 0, n/2)
	leftover := matching.Unmatched
	for v, w := range mate {
		switch {
		case w == matching.Unmatched:
			if leftover != matching.Unmatched {
				return Assignment{}, fmt.Errorf("solve: people %d and %d both left unmatched", leftover, v)
			}
			leftover = v
		case v < w:
			groups = append(groups, Group{v, w})
		}
	}

	if leftover != matching.Unmatched {
		i := bestTriplet(groups, leftover, counts)
		triplet := Group{groups[i][0], groups[i][1], leftover}
		slices.Sort(triplet)
		groups[i] = triplet
	}

	a := Assignment{Groups: groups}
	if err := a.Validate(n); err != nil {
		return Assignment{}, fmt.Errorf("solve: %w", err)
	}
	return a, nil
}

// bestTriplet returns the index of the pair that x should join: the one
// minimizing the meeting counts among the three. The first minimum wins.
func bestTriplet(pairs []Group, x int, counts tally.Counts) int {
	best, bestCost := -1, 0
	for i, p := range pairs {
		cost := counts.Get(p[0], p[1]) + counts.Get(p[0], x) + counts.Get(p[1], x)
		if best == -1 || cost < bestCost {
			best, bestCost = i, cost
		}
	}
	return best
}

// Validate checks that a covers IDs 0..n-1 exactly once, in groups of two
// with at most one group of three.
func (a Assignment) Validate(n int) error {
	seen := make([]bool, n)
	triplets := 0
	for _, g := range a.Groups {
		switch len(g) {
		case 2:
		case 3:
			triplets++
		default:
			return fmt.Errorf("group %v has %d members", g, len(g))
		}
		for _, id := range g {
			if id < 0 || id >= n {
				return fmt.Errorf("group %v references unknown id %d", g, id)
			}
			if seen[id] {
				return fmt.Errorf("id %d appears more than once", id)
			}
			seen[id] = true
		}
	}
	if triplets > 1 {
		return fmt.Errorf("%d groups of three, want at most one", triplets)
	}
	if i := slices.Index(seen, false); i >= 0 {
		return fmt.Errorf("id %d is not assigned", i)
	}
	return nil
}

// Cost sums the meeting counts of every pair of people placed together.
func (a Assignment) Cost(counts tally.Counts) int {
	total := 0
	for _, g := range a.Groups {
		for i := 0; i < len(g); i++ {
			for j := i + 1; j < len(g); j++ {
				total += counts.Get(g[i], g[j])
			}
		}
	}
	return total
}

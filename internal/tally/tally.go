// Package tally reduces the meeting history to a count per unordered pair of
// people.
package tally

import (
	"fmt"
	"iter"
	"log/slog"

	"github.com/roach88/donuts/internal/ledger"
	"github.com/roach88/donuts/internal/source"
)

// Pair is an unordered pair of person IDs, stored with Lo < Hi.
type Pair struct {
	Lo, Hi int
}

// NewPair normalizes (a, b) so that (a, b) and (b, a) are the same key.
func NewPair(a, b int) Pair {
	if a > b {
		a, b = b, a
	}
	return Pair{Lo: a, Hi: b}
}

// Counts maps a pair to how many times its people have met. Pairs that never
// met are absent.
type Counts map[Pair]int

// Get returns the meeting count of a and b in either order.
func (c Counts) Get(a, b int) int {
	return c[NewPair(a, b)]
}

// Resolver maps an identifier to a person ID. *roster.Registry satisfies it.
type Resolver interface {
	Resolve(identifier string) (int, error)
}

// Aggregate counts meetings per pair. Entries naming someone the resolver
// does not know are skipped with a warning, as are entries whose two
// identifiers belong to the same person. An error from the sequence aborts
// the aggregation.
func Aggregate(entries iter.Seq2[ledger.Entry, error], r Resolver, logger *slog.Logger) (Counts, []source.Warning, error) {
	if logger == nil {
		logger = slog.Default()
	}

	counts := make(Counts)
	var warnings []source.Warning
	warn := func(msg string, e ledger.Entry) {
		logger.Warn(msg, "person_a", e.PersonA, "person_b", e.PersonB)
		warnings = append(warnings, source.Warning{Fields: e.Row(), Message: msg})
	}

	for e, err := range entries {
		if err != nil {
			return nil, nil, err
		}

		a, err := r.Resolve(e.PersonA)
		if err != nil {
			warn(fmt.Sprintf("person %s appears in history but not in registry, skipping", e.PersonA), e)
			continue
		}
		b, err := r.Resolve(e.PersonB)
		if err != nil {
			warn(fmt.Sprintf("person %s appears in history but not in registry, skipping", e.PersonB), e)
			continue
		}
		if a == b {
			warn(fmt.Sprintf("history pairs %s with themselves, skipping", e.PersonA), e)
			continue
		}

		counts[NewPair(a, b)]++
	}

	return counts, warnings, nil
}

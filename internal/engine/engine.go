package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"

	"github.com/roach88/donuts/internal/assign"
	"github.com/roach88/donuts/internal/ledger"
	"github.com/roach88/donuts/internal/roster"
	"github.com/roach88/donuts/internal/source"
	"github.com/roach88/donuts/internal/tally"
)

// Engine computes assignments and records confirmed meetings for one
// registry and one history store.
type Engine struct {
	registry *roster.Registry
	history  ledger.Store
	runIDs   RunIDGenerator
	logger   *slog.Logger
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the logger. Defaults to slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

// WithRunIDGenerator sets the run ID source. Defaults to UUIDv7Generator.
func WithRunIDGenerator(gen RunIDGenerator) Option {
	return func(e *Engine) {
		e.runIDs = gen
	}
}

// New creates an Engine. The engine does not take ownership of history;
// the caller closes it.
func New(registry *roster.Registry, history ledger.Store, opts ...Option) *Engine {
	e := &Engine{
		registry: registry,
		history:  history,
		runIDs:   UUIDv7Generator{},
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Result is the outcome of one assignment run.
type Result struct {
	RunID      string            `json:"run_id"`
	Assignment assign.Assignment `json:"-"`
	Groups     [][]roster.Person `json:"groups"`
	Cost       int               `json:"cost"`
	Warnings   []source.Warning  `json:"warnings,omitempty"`
}

// Assign counts past meetings and solves a new assignment. History rows
// naming people outside the registry are reported in Result.Warnings.
func (e *Engine) Assign(ctx context.Context) (*Result, error) {
	runID := e.runIDs.Generate()
	logger := e.logger.With("run_id", runID)

	counts, warnings, err := tally.Aggregate(e.history.Entries(ctx), e.registry, logger)
	if err != nil {
		return nil, fmt.Errorf("aggregate history: %w", err)
	}
	logger.Debug("aggregated history", "pairs", len(counts), "warnings", len(warnings))

	a, err := assign.Solve(e.registry, counts)
	if err != nil {
		return nil, err
	}

	res := &Result{
		RunID:      runID,
		Assignment: a,
		Groups:     make([][]roster.Person, len(a.Groups)),
		Cost:       a.Cost(counts),
		Warnings:   warnings,
	}
	for i, g := range a.Groups {
		people := make([]roster.Person, len(g))
		for j, id := range g {
			people[j], _ = e.registry.Get(id)
		}
		res.Groups[i] = people
	}

	logger.Info("assignment computed",
		"people", e.registry.Size(),
		"groups", len(res.Groups),
		"cost", res.Cost,
	)
	return res, nil
}

// Meeting describes one recorded (or deduplicated) pair.
type Meeting struct {
	A        roster.Person `json:"a"`
	B        roster.Person `json:"b"`
	Token    string        `json:"token,omitempty"`
	Recorded bool          `json:"recorded"`
}

// Record appends a confirmed meeting between a and b. Identifiers are
// matched case-insensitively and stored by canonical name. A token already
// in the history makes the call a no-op with Recorded false.
func (e *Engine) Record(ctx context.Context, a, b, token string) (Meeting, error) {
	pa, err := e.lookup(a)
	if err != nil {
		return Meeting{}, err
	}
	pb, err := e.lookup(b)
	if err != nil {
		return Meeting{}, err
	}
	if pa.ID == pb.ID {
		return Meeting{}, &RecordError{
			Code:       ErrCodeSelfMeeting,
			Message:    "cannot record a meeting of a person with themselves",
			Identifier: pa.Name,
		}
	}
	return e.append(ctx, pa, pb, token)
}

// RecordGroup records a meeting for every pair among people, typically the
// poster of a confirmation plus everyone they mention. Repeated mentions of
// one person count once. Each pair gets its own token derived from token,
// so replaying the same confirmation records nothing new.
//
// Two identifiers naming one person are a self-meeting, as with Record.
// All identifiers are validated before anything is written. A storage
// failure part way through leaves earlier pairs recorded; retrying with the
// same token completes the rest.
func (e *Engine) RecordGroup(ctx context.Context, people []string, token string) ([]Meeting, error) {
	var members []roster.Person
	for _, identifier := range people {
		p, err := e.lookup(identifier)
		if err != nil {
			return nil, err
		}
		if !slices.ContainsFunc(members, func(m roster.Person) bool { return m.ID == p.ID }) {
			members = append(members, p)
		}
	}
	if len(members) < 2 && len(people) == 2 {
		return nil, &RecordError{
			Code:       ErrCodeSelfMeeting,
			Message:    "cannot record a meeting of a person with themselves",
			Identifier: members[0].Name,
		}
	}
	if len(members) < 2 {
		return nil, &RecordError{
			Code:    ErrCodeGroupTooSmall,
			Message: fmt.Sprintf("a meeting needs at least two distinct people, got %d", len(members)),
		}
	}
	slices.SortFunc(members, func(x, y roster.Person) int { return x.ID - y.ID })

	var meetings []Meeting
	for i := 0; i < len(members); i++ {
		for j := i + 1; j < len(members); j++ {
			m, err := e.append(ctx, members[i], members[j], PairToken(token, members[i].ID, members[j].ID))
			if err != nil {
				return meetings, err
			}
			meetings = append(meetings, m)
		}
	}
	return meetings, nil
}

// PairToken derives the correlation token of one pair within a group
// confirmation. An empty token stays empty.
func PairToken(token string, a, b int) string {
	if token == "" {
		return ""
	}
	if a > b {
		a, b = b, a
	}
	return fmt.Sprintf("%s#%d-%d", token, a, b)
}

func (e *Engine) append(ctx context.Context, a, b roster.Person, token string) (Meeting, error) {
	recorded, err := e.history.Append(ctx, a.Name, b.Name, token)
	if err != nil {
		return Meeting{}, err
	}
	if !recorded {
		e.logger.Info("meeting already recorded", "a", a.Name, "b", b.Name, "token", token)
	}
	return Meeting{A: a, B: b, Token: token, Recorded: recorded}, nil
}

func (e *Engine) lookup(identifier string) (roster.Person, error) {
	id, err := e.registry.ResolveFold(identifier)
	switch {
	case errors.Is(err, roster.ErrAmbiguous):
		return roster.Person{}, &RecordError{
			Code:       ErrCodeAmbiguousPerson,
			Message:    "identifier matches more than one person",
			Identifier: identifier,
		}
	case err != nil:
		return roster.Person{}, &RecordError{
			Code:       ErrCodeUnknownPerson,
			Message:    "identifier is not in the registry",
			Identifier: identifier,
		}
	}
	p, _ := e.registry.Get(id)
	return p, nil
}

package roster

import (
	"fmt"
	"iter"
	"log/slog"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"

	"github.com/roach88/donuts/internal/source"
)

// ambiguous marks a folded identifier shared by more than one person.
const ambiguous = -1

// Person is one member of the roster. Name and Email both identify them.
type Person struct {
	ID    int    `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// Registry is the immutable set of people for one session.
type Registry struct {
	people []Person
	byKey  map[string]int
	byFold map[string]int
}

// FromRows builds a Registry from (name, email) rows.
//
// Rows with no fields are ignored. Every other row that is not exactly two
// non-empty fields, blank ones like ",", is skipped and reported as a warning. A name or email already bound to another
// person aborts the load with a *DuplicateIdentifierError.
func FromRows(rows [][]string, logger *slog.Logger) (*Registry, []source.Warning, error) {
	if logger == nil {
		logger = slog.Default()
	}

	r := &Registry{
		byKey:  make(map[string]int),
		byFold: make(map[string]int),
	}
	var warnings []source.Warning

	for i, row := range rows {
		if len(row) == 0 {
			continue
		}
		name, email, ok := parseRow(row)
		if !ok {
			w := source.Warning{
				Row:     i + 1,
				Fields:  row,
				Message: fmt.Sprintf("found odd line (will skip this): %q", row),
			}
			logger.Warn("skipping roster row", "row", w.Row, "fields", row)
			warnings = append(warnings, w)
			continue
		}

		id := len(r.people)
		for _, key := range []string{name, email} {
			if err := r.bind(key, id, i+1); err != nil {
				return nil, warnings, err
			}
		}
		r.people = append(r.people, Person{ID: id, Name: name, Email: email})
	}

	return r, warnings, nil
}

// LoadCSV reads a roster CSV file and builds a Registry from it.
func LoadCSV(path string, logger *slog.Logger) (*Registry, []source.Warning, error) {
	rows, err := source.ReadFile(path, source.KindRegistry)
	if err != nil {
		return nil, nil, err
	}
	return FromRows(rows, logger)
}

// bind records key -> id. A person may use the same string as both name and
// email; any other rebinding is a duplicate.
func (r *Registry) bind(key string, id, row int) error {
	key = normalize(key)
	if existing, ok := r.byKey[key]; ok {
		if existing == id {
			return nil
		}
		return &DuplicateIdentifierError{Identifier: key, Existing: existing, Row: row}
	}
	r.byKey[key] = id

	folded := fold(key)
	if existing, ok := r.byFold[folded]; ok && existing != id {
		r.byFold[folded] = ambiguous
	} else if !ok {
		r.byFold[folded] = id
	}
	return nil
}

// Resolve returns the ID bound to identifier, matched exactly.
func (r *Registry) Resolve(identifier string) (int, error) {
	id, ok := r.byKey[normalize(identifier)]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrNotFound, identifier)
	}
	return id, nil
}

// ResolveFold is Resolve with case-insensitive matching. It is meant for
// identifiers typed or supplied by people, such as chat mentions.
func (r *Registry) ResolveFold(identifier string) (int, error) {
	if id, err := r.Resolve(identifier); err == nil {
		return id, nil
	}
	id, ok := r.byFold[fold(normalize(identifier))]
	switch {
	case !ok:
		return 0, fmt.Errorf("%w: %q", ErrNotFound, identifier)
	case id == ambiguous:
		return 0, fmt.Errorf("%w: %q", ErrAmbiguous, identifier)
	}
	return id, nil
}

// Get returns the person with the given ID.
func (r *Registry) Get(id int) (Person, bool) {
	if id < 0 || id >= len(r.people) {
		return Person{}, false
	}
	return r.people[id], true
}

// All yields every person in ID order.
func (r *Registry) All() iter.Seq2[int, Person] {
	return func(yield func(int, Person) bool) {
		for id, p := range r.people {
			if !yield(id, p) {
				return
			}
		}
	}
}

// Size returns the number of people in the registry.
func (r *Registry) Size() int {
	return len(r.people)
}

// Names maps IDs to display names. Unknown IDs render as "#<id>".
func (r *Registry) Names(ids []int) []string {
	names := make([]string, len(ids))
	for i, id := range ids {
		if p, ok := r.Get(id); ok {
			names[i] = p.Name
		} else {
			names[i] = fmt.Sprintf("#%d", id)
		}
	}
	return names
}

func parseRow(row []string) (name, email string, ok bool) {
	if len(row) != 2 {
		return "", "", false
	}
	name, email = strings.TrimSpace(row[0]), strings.TrimSpace(row[1])
	if name == "" || email == "" {
		return "", "", false
	}
	return name, email, true
}

func normalize(s string) string {
	return norm.NFC.String(strings.TrimSpace(s))
}

func fold(s string) string {
	return cases.Fold().String(s)
}

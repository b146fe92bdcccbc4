package ledger

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/roach88/donuts/internal/source"
)

// Accepted history row widths: (a, b) or (a, b, token).
const (
	minColumns = 2
	maxColumns = 3
)

// ParseRows converts history rows into entries. Empty rows are ignored and
// rows of any other width than two or three fields are skipped with a
// warning. Identifiers are not checked here; unknown people are dropped
// later, when counts are aggregated against a registry.
func ParseRows(rows [][]string, logger *slog.Logger) ([]Entry, []source.Warning) {
	if logger == nil {
		logger = slog.Default()
	}

	var (
		entries  []Entry
		warnings []source.Warning
	)
	for i, row := range rows {
		if len(row) == 0 {
			continue
		}
		if len(row) < minColumns || len(row) > maxColumns {
			w := source.Warning{
				Row:     i + 1,
				Fields:  row,
				Message: fmt.Sprintf("found odd line (will skip this): %q", row),
			}
			logger.Warn("skipping history row", "row", w.Row, "fields", row)
			warnings = append(warnings, w)
			continue
		}
		entry := Entry{
			PersonA: strings.TrimSpace(row[0]),
			PersonB: strings.TrimSpace(row[1]),
		}
		if len(row) == maxColumns {
			entry.Token = NormalizeToken(row[2])
		}
		entries = append(entries, entry)
	}
	return entries, warnings
}

// NormalizeToken trims surrounding whitespace from a correlation token.
// Every Store compares tokens in this form.
func NormalizeToken(token string) string {
	return strings.TrimSpace(token)
}

// Row renders an entry in the history.csv layout.
func (e Entry) Row() []string {
	if e.Token == "" {
		return []string{e.PersonA, e.PersonB}
	}
	return []string{e.PersonA, e.PersonB, e.Token}
}

// ReadCSV reads a history CSV file for import. Unlike OpenCSV, a missing
// file is an error.
func ReadCSV(path string, logger *slog.Logger) ([]Entry, []source.Warning, error) {
	rows, err := source.ReadFile(path, source.KindHistory)
	if err != nil {
		return nil, nil, err
	}
	entries, warnings := ParseRows(rows, logger)
	return entries, warnings, nil
}

// Package source reads the row-oriented CSV files that feed the roster and
// the meeting history, and defines the non-fatal Warning reported for rows
// that are skipped.
package source

package ledger

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/donuts/internal/source"
)

func TestParseRows(t *testing.T) {
	rows := [][]string{
		{"Alice", "Bob"},
		{},
		{"Charlie", "Diana", "1712345678.000100"},
		{"lonely"},
		{"a", "b", "c", "d"},
		{" Eve ", "Alice", ""},
	}

	entries, warnings := ParseRows(rows, nil)
	require.Len(t, entries, 3)
	assert.Equal(t, Entry{PersonA: "Alice", PersonB: "Bob"}, entries[0])
	assert.Equal(t, Entry{PersonA: "Charlie", PersonB: "Diana", Token: "1712345678.000100"}, entries[1])
	assert.Equal(t, Entry{PersonA: "Eve", PersonB: "Alice"}, entries[2])

	require.Len(t, warnings, 2)
	assert.Equal(t, 4, warnings[0].Row)
	assert.Equal(t, 5, warnings[1].Row)
}

func TestEntryRow(t *testing.T) {
	assert.Equal(t, []string{"a", "b"}, Entry{PersonA: "a", PersonB: "b"}.Row())
	assert.Equal(t, []string{"a", "b", "t"}, Entry{PersonA: "a", PersonB: "b", Token: "t"}.Row())
}

func TestReadCSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.csv")
	require.NoError(t, os.WriteFile(path, []byte("Alice,Bob\nx\nBob,Charlie,t1\n"), 0644))

	entries, warnings, err := ReadCSV(path, nil)
	require.NoError(t, err)
	assert.Len(t, entries, 2)
	assert.Len(t, warnings, 1)
}

func TestReadCSV_Missing(t *testing.T) {
	_, _, err := ReadCSV(filepath.Join(t.TempDir(), "nope.csv"), nil)
	require.Error(t, err)
	assert.True(t, source.IsNotFound(err))
	assert.Contains(t, err.Error(), "history file not found")
}

func TestCollectAndSlice(t *testing.T) {
	in := []Entry{{PersonA: "a", PersonB: "b"}, {PersonA: "c", PersonB: "d", Token: "x"}}
	out, err := Collect(Slice(in))
	require.NoError(t, err)
	assert.Equal(t, in, out)
}

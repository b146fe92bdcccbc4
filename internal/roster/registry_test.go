package roster

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/donuts/internal/source"
)

func sampleRows() [][]string {
	return [][]string{
		{"Alice", "alice@example.com"},
		{"Bob", "bob@example.com"},
		{"Charlie", "charlie@example.com"},
		{"Diana", "diana@example.com"},
	}
}

func TestFromRows_AssignsSequentialIDs(t *testing.T) {
	reg, warnings, err := FromRows(sampleRows(), nil)
	require.NoError(t, err)
	assert.Empty(t, warnings)
	assert.Equal(t, 4, reg.Size())

	for id, p := range reg.All() {
		assert.Equal(t, id, p.ID)
	}
	p, ok := reg.Get(2)
	require.True(t, ok)
	assert.Equal(t, "Charlie", p.Name)
	assert.Equal(t, "charlie@example.com", p.Email)
}

func TestFromRows_RoundTripResolution(t *testing.T) {
	reg, _, err := FromRows(sampleRows(), nil)
	require.NoError(t, err)

	for id, p := range reg.All() {
		byName, err := reg.Resolve(p.Name)
		require.NoError(t, err)
		assert.Equal(t, id, byName)

		byEmail, err := reg.Resolve(p.Email)
		require.NoError(t, err)
		assert.Equal(t, id, byEmail)
	}
}

func TestFromRows_SkipsMalformedRows(t *testing.T) {
	rows := [][]string{
		{"OnlyOneField"},
		{"Alice", "alice@example.com"},
		{},
		{"Bob", ""},
		{"Carol", "carol@example.com", "extra"},
		{"Bob", "bob@example.com"},
	}

	reg, warnings, err := FromRows(rows, nil)
	require.NoError(t, err)
	assert.Equal(t, 2, reg.Size())
	require.Len(t, warnings, 3)
	assert.Equal(t, 1, warnings[0].Row)
	assert.Equal(t, 4, warnings[1].Row)
	assert.Equal(t, 5, warnings[2].Row)

	id, err := reg.Resolve("bob@example.com")
	require.NoError(t, err)
	assert.Equal(t, 1, id)
}

func TestFromRows_BlankFieldsWarn(t *testing.T) {
	rows := [][]string{
		{"", ""},
		{"Alice", "alice@example.com"},
		{"   "},
		{},
	}

	reg, warnings, err := FromRows(rows, nil)
	require.NoError(t, err)
	assert.Equal(t, 1, reg.Size())
	require.Len(t, warnings, 2)
	assert.Equal(t, 1, warnings[0].Row)
	assert.Equal(t, []string{"", ""}, warnings[0].Fields)
	assert.Equal(t, 3, warnings[1].Row)
}

func TestLoadCSV_BlankFieldRowWarns(t *testing.T) {
	path := filepath.Join(t.TempDir(), "registry.csv")
	require.NoError(t, os.WriteFile(path, []byte("Alice,alice@example.com\n,\n"), 0644))

	reg, warnings, err := LoadCSV(path, nil)
	require.NoError(t, err)
	assert.Equal(t, 1, reg.Size())
	require.Len(t, warnings, 1)
	assert.Equal(t, 2, warnings[0].Row)
}

func TestFromRows_TrimsWhitespace(t *testing.T) {
	reg, _, err := FromRows([][]string{{"  Alice ", " alice@example.com"}}, nil)
	require.NoError(t, err)

	p, _ := reg.Get(0)
	assert.Equal(t, "Alice", p.Name)
	_, err = reg.Resolve("alice@example.com")
	assert.NoError(t, err)
}

func TestFromRows_DuplicateEmailRejected(t *testing.T) {
	rows := [][]string{
		{"Alice", "alice@example.com"},
		{"Alicia", "alice@example.com"},
	}

	reg, _, err := FromRows(rows, nil)
	require.Error(t, err)
	assert.Nil(t, reg)
	assert.True(t, IsDuplicate(err))

	var de *DuplicateIdentifierError
	require.ErrorAs(t, err, &de)
	assert.Equal(t, "alice@example.com", de.Identifier)
	assert.Equal(t, 0, de.Existing)
	assert.Equal(t, 2, de.Row)
}

func TestFromRows_NameCollidingWithEmailRejected(t *testing.T) {
	rows := [][]string{
		{"Alice", "shared"},
		{"shared", "bob@example.com"},
	}
	_, _, err := FromRows(rows, nil)
	assert.True(t, IsDuplicate(err))
}

func TestFromRows_SameNameAndEmailForOnePerson(t *testing.T) {
	reg, _, err := FromRows([][]string{{"dug", "dug"}}, nil)
	require.NoError(t, err)
	id, err := reg.Resolve("dug")
	require.NoError(t, err)
	assert.Equal(t, 0, id)
}

func TestResolve_NotFound(t *testing.T) {
	reg, _, err := FromRows(sampleRows(), nil)
	require.NoError(t, err)

	_, err = reg.Resolve("Eve")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = reg.Resolve("alice") // exact match only
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestResolve_UnicodeNormalization(t *testing.T) {
	// "José" written with a combining acute accent.
	decomposed := "Jose\u0301"
	reg, _, err := FromRows([][]string{{decomposed, "jose@example.com"}}, nil)
	require.NoError(t, err)

	id, err := reg.Resolve("Jos\u00e9")
	require.NoError(t, err)
	assert.Equal(t, 0, id)
}

func TestResolveFold(t *testing.T) {
	reg, _, err := FromRows(sampleRows(), nil)
	require.NoError(t, err)

	id, err := reg.ResolveFold("ALICE@example.COM")
	require.NoError(t, err)
	assert.Equal(t, 0, id)

	id, err = reg.ResolveFold("diana")
	require.NoError(t, err)
	assert.Equal(t, 3, id)

	_, err = reg.ResolveFold("nobody")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestResolveFold_Ambiguous(t *testing.T) {
	rows := [][]string{
		{"sam", "sam1@example.com"},
		{"Sam", "sam2@example.com"},
	}
	reg, _, err := FromRows(rows, nil)
	require.NoError(t, err)

	// Exact matches still work.
	id, err := reg.ResolveFold("Sam")
	require.NoError(t, err)
	assert.Equal(t, 1, id)

	_, err = reg.ResolveFold("SAM")
	assert.ErrorIs(t, err, ErrAmbiguous)
}

func TestGet_OutOfRange(t *testing.T) {
	reg, _, err := FromRows(sampleRows(), nil)
	require.NoError(t, err)

	_, ok := reg.Get(-1)
	assert.False(t, ok)
	_, ok = reg.Get(4)
	assert.False(t, ok)
}

func TestNames(t *testing.T) {
	reg, _, err := FromRows(sampleRows(), nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"Diana", "Alice", "#9"}, reg.Names([]int{3, 0, 9}))
}

func TestLoadCSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "registry.csv")
	content := "Alice,alice@example.com\n\nBob,bob@example.com\nbroken\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	reg, warnings, err := LoadCSV(path, nil)
	require.NoError(t, err)
	assert.Equal(t, 2, reg.Size())
	assert.Len(t, warnings, 1)
}

func TestLoadCSV_MissingFile(t *testing.T) {
	_, _, err := LoadCSV(filepath.Join(t.TempDir(), "missing.csv"), nil)
	require.Error(t, err)
	assert.True(t, source.IsNotFound(err))
	assert.Contains(t, err.Error(), "registry file not found")
}

func TestEmptyRegistry(t *testing.T) {
	reg, warnings, err := FromRows(nil, nil)
	require.NoError(t, err)
	assert.Empty(t, warnings)
	assert.Equal(t, 0, reg.Size())
}

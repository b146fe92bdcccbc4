package source

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRead_VariableWidthRows(t *testing.T) {
	rows, err := Read(strings.NewReader("a,b\nc\n\nd,e,f\n"))
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"a", "b"}, {"c"}, {"d", "e", "f"}}, rows)
}

func TestRead_QuotedFields(t *testing.T) {
	rows, err := Read(strings.NewReader(`"Doe, Jane",jane@example.com` + "\n"))
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"Doe, Jane", "jane@example.com"}}, rows)
}

func TestRead_Malformed(t *testing.T) {
	_, err := Read(strings.NewReader("\"unterminated,x\n"))
	assert.Error(t, err)
}

func TestWrite_RoundTrip(t *testing.T) {
	rows := [][]string{{"Doe, Jane", "Bob"}, {"Alice", "Bob", "t1"}}
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, rows))
	assert.Equal(t, "\"Doe, Jane\",Bob\nAlice,Bob,t1\n", buf.String())

	got, err := Read(&buf)
	require.NoError(t, err)
	assert.Equal(t, rows, got)
}

func TestReadFile_NotFound(t *testing.T) {
	path := filepath.Join(t.TempDir(), "registry.csv")
	_, err := ReadFile(path, KindRegistry)
	require.Error(t, err)
	assert.True(t, IsNotFound(err))
	assert.Equal(t, "registry file not found: "+path, err.Error())
}

func TestReadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.csv")
	require.NoError(t, os.WriteFile(path, []byte("Alice,Bob,t1\n"), 0o644))

	rows, err := ReadFile(path, KindHistory)
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"Alice", "Bob", "t1"}}, rows)
}

func TestWarning_String(t *testing.T) {
	assert.Equal(t, "row 3: bad", Warning{Row: 3, Message: "bad"}.String())
	assert.Equal(t, "bad", Warning{Message: "bad"}.String())
}

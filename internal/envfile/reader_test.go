package envfile

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTemp(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func TestReadEntries_SimpleLines(t *testing.T) {
	path := writeTemp(t, "HUDE=FUDE\nRAX=KNAX")

	entries, err := ReadEntries(path)
	require.NoError(t, err)
	assert.Equal(t, []Entry{
		{Key: "HUDE", Value: "FUDE"},
		{Key: "RAX", Value: "KNAX"},
	}, entries)
}

func TestReadEntries_PreservesEmbeddedEquals(t *testing.T) {
	path := writeTemp(t, "PASSWORD=CXRGxO=o9%secret\nHUDE=FUDE")

	entries, err := ReadEntries(path)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, Entry{Key: "PASSWORD", Value: "CXRGxO=o9%secret"}, entries[0])
}

func TestReadEntries_SkipsCommentsAndBlankLines(t *testing.T) {
	path := writeTemp(t, "# database\n\n   \nDB_HOST=\"localhost\"\n  # indented comment\r\nDB_PORT=5432\r\n")

	entries, err := ReadEntries(path)
	require.NoError(t, err)
	assert.Equal(t, []Entry{
		{Key: "DB_HOST", Value: "localhost"},
		{Key: "DB_PORT", Value: "5432"},
	}, entries)
}

func TestReadEntries_KeepsDuplicateKeys(t *testing.T) {
	path := writeTemp(t, "A=1\nA=2")

	entries, err := ReadEntries(path)
	require.NoError(t, err)
	assert.Equal(t, []Entry{{Key: "A", Value: "1"}, {Key: "A", Value: "2"}}, entries)
}

func TestReadEntries_MissingFile(t *testing.T) {
	_, err := ReadEntries(filepath.Join(t.TempDir(), "missing.env"))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrFileRead)
	assert.Contains(t, err.Error(), "could not read secrets file or no file was provided")
}

func TestReadEntries_EmptyPath(t *testing.T) {
	_, err := ReadEntries("")
	assert.ErrorIs(t, err, ErrFileRead)
}

func TestParseLine_NoSeparator(t *testing.T) {
	assert.Equal(t, Entry{Key: "FLAG", Value: ""}, ParseLine("FLAG"))
}

func TestWriteEntries_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	entries := []Entry{
		{Key: "HUDE", Value: "FUDE"},
		{Key: "TOKEN", Value: "abc=="},
	}

	require.NoError(t, WriteEntries(path, entries))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "HUDE=\"FUDE\"\nTOKEN=\"abc==\"", string(raw))

	back, err := ReadEntries(path)
	require.NoError(t, err)
	assert.Equal(t, entries, back)
}

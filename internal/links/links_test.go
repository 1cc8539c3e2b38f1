package links

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtract_StripsPunctuationAndDeduplicates(t *testing.T) {
	got := Extract("See http://a.com/1.mp4, and http://a.com/2.pdf!")
	assert.Equal(t, []string{"http://a.com/1.mp4", "http://a.com/2.pdf"}, got)
}

func TestExtract_PreservesFirstSeenOrder(t *testing.T) {
	text := `
		https://b.com/x
		https://a.com/y.
		https://b.com/x
		https://c.com/z)
	`
	got := Extract(text)
	assert.Equal(t, []string{"https://b.com/x", "https://a.com/y", "https://c.com/z"}, got)
}

func TestExtract_NoURLs(t *testing.T) {
	assert.Empty(t, Extract("nothing to see here"))
}

func TestExtract_TrailingPunctuationRun(t *testing.T) {
	got := Extract("link: https://a.com/file.pdf!?!")
	assert.Equal(t, []string{"https://a.com/file.pdf"}, got)
}

func TestFromFile_ReadsAndRemoves(t *testing.T) {
	path := filepath.Join(t.TempDir(), "links.txt")
	require.NoError(t, os.WriteFile(path, []byte("http://a.com/v.mp4\nhttp://b.com/d.pdf"), 0o644))

	got, err := FromFile(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"http://a.com/v.mp4", "http://b.com/d.pdf"}, got)

	_, err = os.Stat(path)
	assert.True(t, os.IsNotExist(err), "link file should be removed after ingestion")
}

func TestFromFile_Missing(t *testing.T) {
	_, err := FromFile(filepath.Join(t.TempDir(), "nope.txt"))
	assert.Error(t, err)
}

package portal

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hyperifyio/courseport/internal/content"
	"github.com/hyperifyio/courseport/internal/pipeline"
)

func fixedClock() time.Time {
	return time.Date(2024, 3, 15, 10, 30, 0, 0, time.UTC)
}

func TestRenderWritesTimestampedFile(t *testing.T) {
	dir := t.TempDir()
	r := &Renderer{OutDir: dir, Now: fixedClock}

	items := []Item{
		{
			Title:       "Algebra - Lecture 1",
			Type:        content.MediaVideo,
			Duration:    "01:02:05",
			DownloadURL: "/files/lecture1.mp4",
			Qualities: []content.Quality{
				{Label: "720p", URL: "http://cdn.example/720.mp4", SizeDisplay: "1.50 KB"},
			},
		},
		{
			Title:       "Course Notes",
			Type:        content.MediaDocument,
			Duration:    "N/A",
			DownloadURL: "/files/notes.pdf",
		},
	}

	out, err := r.Render("Spring Batch", items)
	require.NoError(t, err)

	wantName := "course_portal_" + "1710498600" + ".html"
	assert.Equal(t, wantName, filepath.Base(out))

	body, err := os.ReadFile(out)
	require.NoError(t, err)
	page := string(body)

	assert.Contains(t, page, "Spring Batch")
	assert.Contains(t, page, "Algebra - Lecture 1")
	assert.Contains(t, page, "Course Notes")
	assert.Contains(t, page, "720p (1.50 KB)")
	assert.Contains(t, page, "searchContent()")
	assert.Contains(t, page, "2024-03-15 10:30:00")
}

func TestRenderPlaceholderThumbnail(t *testing.T) {
	r := &Renderer{OutDir: t.TempDir(), Now: fixedClock}
	out, err := r.Render("Batch", []Item{{Title: "No Thumb", Type: content.MediaDocument, DownloadURL: "/f.pdf"}})
	require.NoError(t, err)

	body, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Contains(t, string(body), "https://via.placeholder.com/300x180?text=No+Thumbnail")
}

func TestRenderEmptyItems(t *testing.T) {
	r := &Renderer{OutDir: t.TempDir(), Now: fixedClock}
	out, err := r.Render("Empty", nil)
	require.NoError(t, err)

	body, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Contains(t, string(body), "No content available yet")
}

func TestRenderEscapesTitles(t *testing.T) {
	r := &Renderer{OutDir: t.TempDir(), Now: fixedClock}
	out, err := r.Render("Batch", []Item{{
		Title:       `<script>alert("x")</script>`,
		Type:        content.MediaDocument,
		DownloadURL: "/f.pdf",
	}})
	require.NoError(t, err)

	body, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.NotContains(t, string(body), `<script>alert("x")</script>`)
}

func TestItemFromArtifact(t *testing.T) {
	desc, err := content.ForVideo(content.PlatformUtkarsh, "Lecture", "http://cdn.example/v.mp4", []content.Quality{
		{Label: "Original", URL: "http://cdn.example/v.mp4", SizeDisplay: "1.00 GB"},
	})
	require.NoError(t, err)
	desc.DurationDisplay = "00:10:00"

	it := ItemFromArtifact(pipeline.Artifact{Descriptor: desc, Path: "/tmp/downloaded_v.mp4"})
	assert.Equal(t, "Lecture", it.Title)
	assert.Equal(t, content.MediaVideo, it.Type)
	assert.Equal(t, "00:10:00", it.Duration)
	assert.Equal(t, "/tmp/downloaded_v.mp4", it.DownloadURL)
	assert.Len(t, it.Qualities, 1)
}

func TestItemFromArtifactMissingDuration(t *testing.T) {
	desc, err := content.ForDocument(content.PlatformGeneric, "Notes", "http://a.com/n.pdf")
	require.NoError(t, err)

	it := ItemFromArtifact(pipeline.Artifact{Descriptor: desc, Path: "/tmp/downloaded_n.pdf"})
	assert.Equal(t, "N/A", it.Duration)
}

func TestWritePDF(t *testing.T) {
	dir := t.TempDir()
	r := &Renderer{OutDir: dir, Now: fixedClock}

	out, err := r.WritePDF("Spring Batch", []Item{
		{Title: "Lecture", Type: content.MediaVideo, Duration: "00:10:00", DownloadURL: "/tmp/v.mp4"},
	})
	require.NoError(t, err)
	assert.Equal(t, "course_portal_1710498600.pdf", filepath.Base(out))

	body, err := os.ReadFile(out)
	require.NoError(t, err)
	require.NotEmpty(t, body)
	assert.True(t, strings.HasPrefix(string(body), "%PDF"))
}

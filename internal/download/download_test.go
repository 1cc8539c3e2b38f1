package download

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/hyperifyio/courseport/internal/content"
)

func TestFetch_Document(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("%PDF-1.4 fake"))
	}))
	defer srv.Close()

	d := &Downloader{Dir: t.TempDir()}
	desc, err := content.ForDocument(content.PlatformGeneric, "notes.pdf", srv.URL+"/files/notes.pdf")
	if err != nil {
		t.Fatalf("descriptor: %v", err)
	}

	dest, err := d.Fetch(context.Background(), desc)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if filepath.Base(dest) != "downloaded_notes.pdf" {
		t.Fatalf("unexpected file name %q", dest)
	}
	b, err := os.ReadFile(dest)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if string(b) != "%PDF-1.4 fake" {
		t.Fatalf("unexpected content %q", b)
	}
}

func TestFetch_DocumentNonSuccessStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer srv.Close()

	d := &Downloader{Dir: t.TempDir()}
	desc, _ := content.ForDocument(content.PlatformGeneric, "x", srv.URL+"/x.pdf")
	_, err := d.Fetch(context.Background(), desc)
	if !errors.Is(err, ErrDownload) {
		t.Fatalf("expected ErrDownload, got %v", err)
	}
}

func TestFetch_DocumentTransportFailure(t *testing.T) {
	d := &Downloader{Dir: t.TempDir(), HTTPClient: &http.Client{Timeout: 100 * time.Millisecond}}
	desc, _ := content.ForDocument(content.PlatformGeneric, "x", "http://127.0.0.1:1/x.pdf")
	_, err := d.Fetch(context.Background(), desc)
	if !errors.Is(err, ErrDownload) {
		t.Fatalf("expected ErrDownload, got %v", err)
	}
}

func TestFetch_VideoUsesPreferredQuality(t *testing.T) {
	// Point yt-dlp at a binary that cannot exist so we see the chosen URL in
	// the failure without shelling out for real.
	d := &Downloader{Dir: t.TempDir(), YtDlp: filepath.Join(t.TempDir(), "missing-yt-dlp")}
	desc, _ := content.ForVideo(content.PlatformAppx, "V", "https://cdn.example.com/plain.mp4", []content.Quality{
		{Label: "720p", URL: "https://cdn.example.com/720.mp4"},
	})
	_, err := d.Fetch(context.Background(), desc)
	if !errors.Is(err, ErrDownload) {
		t.Fatalf("expected ErrDownload, got %v", err)
	}
	if !strings.Contains(err.Error(), "720.mp4") {
		t.Fatalf("expected preferred quality URL in error, got %v", err)
	}
}

func TestYtdlpArgs(t *testing.T) {
	args := ytdlpArgs("work/downloaded_%(id)s.%(ext)s", "https://x/v.m3u8")
	joined := strings.Join(args, " ")
	for _, want := range []string{"--no-simulate", "after_move:filepath", "-o work/downloaded_%(id)s.%(ext)s", "https://x/v.m3u8"} {
		if !strings.Contains(joined, want) {
			t.Errorf("args missing %q: %s", want, joined)
		}
	}
	if args[len(args)-1] != "https://x/v.m3u8" {
		t.Errorf("URL must be the final argument")
	}
}

func TestFileName(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{"https://a.com/dir/file.pdf", "file.pdf"},
		{"https://a.com/dir/file.pdf?token=1", "file.pdf"},
		{"https://a.com/", "file"},
		{"https://a.com", "file"},
	}
	for _, tc := range cases {
		if got := fileName(tc.in); got != tc.want {
			t.Errorf("fileName(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestCleanTemp(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"downloaded_a.mp4", "protected_b.mp4", "keep.txt"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("x"), 0o644); err != nil {
			t.Fatalf("write: %v", err)
		}
	}

	if n := CleanTemp(dir, 0); n != 2 {
		t.Fatalf("expected 2 removed, got %d", n)
	}
	entries, _ := os.ReadDir(dir)
	if len(entries) != 1 || entries[0].Name() != "keep.txt" {
		t.Fatalf("unexpected survivors: %v", entries)
	}
}

func TestCleanTemp_RespectsAge(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "downloaded_new.mp4"), []byte("x"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if n := CleanTemp(dir, time.Hour); n != 0 {
		t.Fatalf("fresh file should survive, removed %d", n)
	}
}

func TestCleanTemp_MissingDir(t *testing.T) {
	if n := CleanTemp(filepath.Join(t.TempDir(), "nope"), 0); n != 0 {
		t.Fatalf("expected 0, got %d", n)
	}
}

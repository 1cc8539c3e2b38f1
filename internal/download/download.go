package download

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/hyperifyio/courseport/internal/content"
)

// ErrDownload is returned when a transfer fails, either on status or on
// transport. Acquisition is a single attempt; there is no retry.
var ErrDownload = errors.New("download failed")

// tempPrefix marks files the janitor may remove.
const tempPrefix = "downloaded_"

// Downloader transfers a descriptor's preferred resource to local storage.
// Videos go through yt-dlp so streaming manifest formats work; documents are
// a flat fetch.
type Downloader struct {
	HTTPClient *http.Client
	// Dir is the work directory for downloaded files. Empty means CWD.
	Dir string
	// YtDlp is the binary to invoke for stream downloads. Empty means "yt-dlp".
	YtDlp string
}

// Fetch acquires the resource named by the descriptor's preferred URL and
// returns the local path.
func (d *Downloader) Fetch(ctx context.Context, desc *content.Descriptor) (string, error) {
	src := desc.PreferredURL()
	if src == "" {
		return "", fmt.Errorf("%w: descriptor has no resource URL", ErrDownload)
	}
	if desc.MediaType == content.MediaVideo {
		return d.video(ctx, src)
	}
	return d.document(ctx, src)
}

func (d *Downloader) document(ctx context.Context, rawURL string) (string, error) {
	client := d.HTTPClient
	if client == nil {
		client = http.DefaultClient
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrDownload, err)
	}
	resp, err := client.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrDownload, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", fmt.Errorf("%w: HTTP %d for %s", ErrDownload, resp.StatusCode, rawURL)
	}

	dest := filepath.Join(d.workDir(), tempPrefix+fileName(rawURL))
	f, err := os.Create(dest)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrDownload, err)
	}
	if _, err := io.Copy(f, resp.Body); err != nil {
		f.Close()
		_ = os.Remove(dest)
		return "", fmt.Errorf("%w: %v", ErrDownload, err)
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(dest)
		return "", fmt.Errorf("%w: %v", ErrDownload, err)
	}
	return dest, nil
}

func (d *Downloader) workDir() string {
	if d.Dir != "" {
		return d.Dir
	}
	return "."
}

// fileName is the last URL path segment minus any query string, reduced to
// something safe to join into a local path.
func fileName(rawURL string) string {
	s := rawURL
	if i := strings.IndexByte(s, '?'); i >= 0 {
		s = s[:i]
	}
	if u, err := url.Parse(s); err == nil && u.Path != "" {
		s = u.Path
	}
	base := path.Base(s)
	if base == "/" || base == "." || base == "" {
		return "file"
	}
	return filepath.Base(base)
}

// CleanTemp removes downloader and protector work files under dir older than
// maxAge (zero removes regardless of age). Best-effort: errors are logged and
// never returned.
func CleanTemp(dir string, maxAge time.Duration) int {
	if dir == "" {
		dir = "."
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		if !os.IsNotExist(err) {
			log.Warn().Err(err).Str("dir", dir).Msg("temp cleanup: read dir")
		}
		return 0
	}
	cutoff := time.Now().Add(-maxAge)
	removed := 0
	for _, e := range entries {
		name := e.Name()
		if !strings.HasPrefix(name, tempPrefix) && !strings.HasPrefix(name, "protected_") {
			continue
		}
		if maxAge > 0 {
			info, err := e.Info()
			if err != nil || info.ModTime().After(cutoff) {
				continue
			}
		}
		if err := os.Remove(filepath.Join(dir, name)); err != nil {
			log.Warn().Err(err).Str("file", name).Msg("temp cleanup: remove")
			continue
		}
		removed++
	}
	return removed
}

package download

import (
	"context"
	"fmt"
	"os/exec"
	"path/filepath"
	"strings"
)

// video shells out to yt-dlp, which handles flat files and streaming
// manifests (HLS/DASH) alike. The final file path is printed by yt-dlp after
// any post-processing move.
func (d *Downloader) video(ctx context.Context, rawURL string) (string, error) {
	bin := d.YtDlp
	if bin == "" {
		bin = "yt-dlp"
	}
	template := filepath.Join(d.workDir(), tempPrefix+"%(id)s.%(ext)s")

	cmd := exec.CommandContext(ctx, bin, ytdlpArgs(template, rawURL)...)
	out, err := cmd.Output()
	if err != nil {
		var detail string
		if ee, ok := err.(*exec.ExitError); ok && len(ee.Stderr) > 0 {
			detail = ": " + strings.TrimSpace(string(ee.Stderr))
		}
		return "", fmt.Errorf("%w: %s %s%s", ErrDownload, bin, rawURL, detail)
	}

	// Last non-empty stdout line is the downloaded file path.
	lines := strings.Split(strings.TrimSpace(string(out)), "\n")
	dest := strings.TrimSpace(lines[len(lines)-1])
	if dest == "" {
		return "", fmt.Errorf("%w: %s reported no output file", ErrDownload, bin)
	}
	return dest, nil
}

func ytdlpArgs(template, rawURL string) []string {
	return []string{
		"--quiet",
		"--no-simulate",
		"--print", "after_move:filepath",
		"-f", "best",
		"-o", template,
		rawURL,
	}
}

package links

import (
	"os"
	"regexp"
)

var (
	urlPattern       = regexp.MustCompile(`https?://\S+`)
	trailingPunctRun = regexp.MustCompile(`[.,;!?)]+$`)
)

// Extract pulls every HTTP/HTTPS URL out of a text blob, strips trailing
// punctuation, and de-duplicates while preserving first-seen order.
func Extract(text string) []string {
	raw := urlPattern.FindAllString(text, -1)
	seen := make(map[string]struct{}, len(raw))
	out := make([]string, 0, len(raw))
	for _, u := range raw {
		u = trailingPunctRun.ReplaceAllString(u, "")
		if u == "" {
			continue
		}
		if _, ok := seen[u]; ok {
			continue
		}
		seen[u] = struct{}{}
		out = append(out, u)
	}
	return out
}

// FromFile reads a link-list file, extracts its URLs, and removes the file.
// The file is a transient upload; removal failures are ignored.
func FromFile(path string) ([]string, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	urls := Extract(string(b))
	_ = os.Remove(path)
	return urls, nil
}

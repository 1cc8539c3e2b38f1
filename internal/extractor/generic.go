package extractor

import (
	"context"
	"fmt"
	"net/url"
	"path"
	"strings"

	"github.com/hyperifyio/courseport/internal/content"
)

// GenericExtractor is the fallback for URLs with no platform match. It
// classifies by file suffix first, then by a metadata-only probe of the
// reported content type, then by a video suffix set. Document suffixes never
// touch the network.
type GenericExtractor struct {
	Client Getter
}

var documentSuffixes = []string{".pdf", ".doc", ".docx", ".ppt", ".pptx"}

var videoSuffixes = []string{".mp4", ".m3u8", ".mpd", ".mov", ".avi", ".mkv"}

func (e *GenericExtractor) Platform() content.Platform { return content.PlatformGeneric }

func (e *GenericExtractor) CanHandle(rawURL string) bool {
	return strings.HasPrefix(rawURL, "http://") || strings.HasPrefix(rawURL, "https://")
}

func (e *GenericExtractor) Extract(ctx context.Context, rawURL string) (*content.Descriptor, error) {
	mediaType, err := e.classify(ctx, rawURL)
	if err != nil {
		return nil, err
	}
	title := titleFromURL(rawURL)
	if mediaType == content.MediaDocument {
		return content.ForDocument(content.PlatformGeneric, title, rawURL)
	}
	return content.ForVideo(content.PlatformGeneric, title, rawURL, nil)
}

func (e *GenericExtractor) classify(ctx context.Context, rawURL string) (content.MediaType, error) {
	lower := strings.ToLower(stripQuery(rawURL))
	for _, s := range documentSuffixes {
		if strings.HasSuffix(lower, s) {
			return content.MediaDocument, nil
		}
	}

	if ct, err := e.Client.Head(ctx, rawURL); err == nil {
		ct = strings.ToLower(ct)
		switch {
		case strings.Contains(ct, "video"), strings.Contains(ct, "m3u8"), strings.Contains(ct, "mpd"):
			return content.MediaVideo, nil
		case strings.Contains(ct, "pdf"):
			return content.MediaDocument, nil
		}
	}

	for _, s := range videoSuffixes {
		if strings.HasSuffix(lower, s) {
			return content.MediaVideo, nil
		}
	}
	return "", fmt.Errorf("%w: %s", ErrUnknownContentType, rawURL)
}

// titleFromURL is the last path segment minus any query string.
func titleFromURL(rawURL string) string {
	s := stripQuery(rawURL)
	if u, err := url.Parse(s); err == nil && u.Path != "" {
		if base := path.Base(u.Path); base != "/" && base != "." {
			return base
		}
	}
	if i := strings.LastIndexByte(s, '/'); i >= 0 && i+1 < len(s) {
		return s[i+1:]
	}
	return s
}

func stripQuery(rawURL string) string {
	if i := strings.IndexByte(rawURL, '?'); i >= 0 {
		return rawURL[:i]
	}
	return rawURL
}

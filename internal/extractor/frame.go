package extractor

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/hyperifyio/courseport/internal/content"
)

// FrameExtractor handles platforms that host their media behind an embedded
// frame: the course page carries an iframe whose own body names the real
// media source in a player config assignment.
type FrameExtractor struct {
	Client Getter
}

var (
	classplusURLPattern = regexp.MustCompile(`^https?://(www\.)?classplus\.app/.+`)
	frameSourcePattern  = regexp.MustCompile(`(?i)source:\s*["']([^"']+\.(mp4|pdf))["']`)
)

func (e *FrameExtractor) Platform() content.Platform { return content.PlatformClassPlus }

func (e *FrameExtractor) CanHandle(rawURL string) bool {
	return classplusURLPattern.MatchString(rawURL)
}

func (e *FrameExtractor) Extract(ctx context.Context, rawURL string) (*content.Descriptor, error) {
	page, _, err := e.Client.Get(ctx, rawURL)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRemoteAPI, err)
	}

	frameURL, err := frameSrc(page)
	if err != nil {
		return nil, err
	}

	frame, _, err := e.Client.Get(ctx, frameURL)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRemoteAPI, err)
	}

	m := frameSourcePattern.FindSubmatch(frame)
	if m == nil {
		return nil, ErrContentURLNotFound
	}
	contentURL := string(m[1])

	mediaType := content.MediaDocument
	if strings.Contains(strings.ToLower(contentURL), "video") || strings.HasSuffix(strings.ToLower(contentURL), ".mp4") {
		mediaType = content.MediaVideo
	}

	if mediaType == content.MediaDocument {
		return content.ForDocument(content.PlatformClassPlus, "ClassPlus Content", contentURL)
	}
	return content.ForVideo(content.PlatformClassPlus, "ClassPlus Content", contentURL, []content.Quality{{
		Label:       "Original",
		URL:         contentURL,
		SizeDisplay: "Unknown",
	}})
}

// frameSrc locates the first iframe with a usable src attribute.
func frameSrc(page []byte) (string, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(page))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrFrameNotFound, err)
	}
	var src string
	doc.Find("iframe").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		if v, ok := s.Attr("src"); ok && v != "" && v != "about:blank" {
			src = v
			return false
		}
		return true
	})
	if src == "" {
		return "", ErrFrameNotFound
	}
	return src, nil
}

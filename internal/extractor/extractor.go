package extractor

import (
	"context"
	"errors"

	"github.com/hyperifyio/courseport/internal/content"
)

// Extractor is one platform-specific extraction strategy. CanHandle is a
// cheap pattern check with no network I/O; Extract may hit the network and
// returns a normalized descriptor or one of the sentinel errors below.
type Extractor interface {
	Platform() content.Platform
	CanHandle(rawURL string) bool
	Extract(ctx context.Context, rawURL string) (*content.Descriptor, error)
}

// Getter is the minimal fetch surface extractors need. fetch.Client satisfies
// it; tests substitute their own.
type Getter interface {
	Get(ctx context.Context, rawURL string) ([]byte, string, error)
	Head(ctx context.Context, rawURL string) (string, error)
}

// Extraction failures are terminal for the URL being processed. Each case is
// distinguishable with errors.Is; callers surface the message verbatim.
var (
	// ErrURLParse means a required identifier could not be derived from the URL.
	ErrURLParse = errors.New("could not parse identifier from URL")
	// ErrRemoteAPI means the upstream endpoint returned a non-success status.
	ErrRemoteAPI = errors.New("remote API error")
	// ErrNoContentFound means the course tree held no playable item.
	ErrNoContentFound = errors.New("no downloadable content found in course")
	// ErrFrameNotFound means the page had no embedded content frame.
	ErrFrameNotFound = errors.New("content frame not found in page")
	// ErrContentURLNotFound means the frame body had no media source reference.
	ErrContentURLNotFound = errors.New("content URL not found in frame")
	// ErrUnknownContentType means the generic extractor could not classify a URL.
	ErrUnknownContentType = errors.New("could not determine content type")
)

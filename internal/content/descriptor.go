package content

import (
	"errors"
	"fmt"
	"strings"
)

// MediaType determines which downstream handling branch applies to an item.
type MediaType string

const (
	MediaVideo    MediaType = "video"
	MediaDocument MediaType = "document"
)

// Platform tags which extractor produced a descriptor. Diagnostic only; the
// pipeline never branches on it.
type Platform string

const (
	PlatformAppx      Platform = "appx"
	PlatformClassPlus Platform = "classplus"
	PlatformUtkarsh   Platform = "utkarsh"
	PlatformGeneric   Platform = "generic"
)

// ErrMalformedContent is returned when a descriptor cannot be constructed
// because upstream data lacked a required field.
var ErrMalformedContent = errors.New("malformed content descriptor")

// Quality is one downloadable rendition of a video. Insertion order is
// preference order: the first entry is the default.
type Quality struct {
	Label       string
	URL         string
	SizeDisplay string
}

// Descriptor is the normalized result every extractor produces. It is built
// once per extraction and mutated only by the pipeline, which sets LocalPath
// after download and replaces it after protection.
type Descriptor struct {
	Title        string
	MediaType    MediaType
	Platform     Platform
	ThumbnailURL string
	DownloadURL  string
	Qualities    []Quality

	DurationSeconds int
	DurationDisplay string

	LocalPath string
}

// ForVideo builds a video descriptor. At least one of downloadURL or a
// non-empty qualities list is required.
func ForVideo(platform Platform, title, downloadURL string, qualities []Quality) (*Descriptor, error) {
	if strings.TrimSpace(title) == "" {
		return nil, fmt.Errorf("%w: empty title", ErrMalformedContent)
	}
	if downloadURL == "" && len(qualities) == 0 {
		return nil, fmt.Errorf("%w: video %q has no download URL and no qualities", ErrMalformedContent, title)
	}
	return &Descriptor{
		Title:       title,
		MediaType:   MediaVideo,
		Platform:    platform,
		DownloadURL: downloadURL,
		Qualities:   qualities,
	}, nil
}

// ForDocument builds a document descriptor. A download URL is required.
func ForDocument(platform Platform, title, downloadURL string) (*Descriptor, error) {
	if strings.TrimSpace(title) == "" {
		return nil, fmt.Errorf("%w: empty title", ErrMalformedContent)
	}
	if downloadURL == "" {
		return nil, fmt.Errorf("%w: document %q has no download URL", ErrMalformedContent, title)
	}
	return &Descriptor{
		Title:       title,
		MediaType:   MediaDocument,
		Platform:    platform,
		DownloadURL: downloadURL,
	}, nil
}

// PreferredURL is the resource the pipeline acquires: the first quality when
// any exist, otherwise the plain download URL. Never empty for a descriptor
// built through ForVideo or ForDocument.
func (d *Descriptor) PreferredURL() string {
	if len(d.Qualities) > 0 {
		return d.Qualities[0].URL
	}
	return d.DownloadURL
}

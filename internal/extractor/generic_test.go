package extractor

import (
	"context"
	"errors"
	"testing"

	"github.com/hyperifyio/courseport/internal/content"
)

// probeGetter counts metadata probes and serves a canned content type.
type probeGetter struct {
	contentType string
	err         error
	headCalls   int
}

func (g *probeGetter) Get(context.Context, string) ([]byte, string, error) {
	return nil, "", errors.New("GET not expected")
}

func (g *probeGetter) Head(context.Context, string) (string, error) {
	g.headCalls++
	return g.contentType, g.err
}

func TestGeneric_DocumentSuffixSkipsNetwork(t *testing.T) {
	g := &probeGetter{}
	e := &GenericExtractor{Client: g}
	d, err := e.Extract(context.Background(), "https://example.com/files/syllabus.pdf")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if g.headCalls != 0 {
		t.Fatalf("expected no network probe, got %d", g.headCalls)
	}
	if d.MediaType != content.MediaDocument {
		t.Fatalf("expected document, got %s", d.MediaType)
	}
	if d.Title != "syllabus.pdf" {
		t.Fatalf("unexpected title %q", d.Title)
	}
}

func TestGeneric_ProbeClassifiesVideo(t *testing.T) {
	g := &probeGetter{contentType: "video/mp4"}
	e := &GenericExtractor{Client: g}
	d, err := e.Extract(context.Background(), "https://example.com/stream/lecture")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if g.headCalls != 1 {
		t.Fatalf("expected one probe, got %d", g.headCalls)
	}
	if d.MediaType != content.MediaVideo {
		t.Fatalf("expected video, got %s", d.MediaType)
	}
	if d.DownloadURL != "https://example.com/stream/lecture" {
		t.Fatalf("unexpected download URL %q", d.DownloadURL)
	}
}

func TestGeneric_ProbeClassifiesDocument(t *testing.T) {
	g := &probeGetter{contentType: "application/pdf"}
	e := &GenericExtractor{Client: g}
	d, err := e.Extract(context.Background(), "https://example.com/dl/4815162342")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if d.MediaType != content.MediaDocument {
		t.Fatalf("expected document, got %s", d.MediaType)
	}
}

func TestGeneric_VideoSuffixFallbackWhenProbeFails(t *testing.T) {
	g := &probeGetter{err: errors.New("connection refused")}
	e := &GenericExtractor{Client: g}
	d, err := e.Extract(context.Background(), "https://cdn.example.com/v/intro.m3u8")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if d.MediaType != content.MediaVideo {
		t.Fatalf("expected video, got %s", d.MediaType)
	}
}

func TestGeneric_UnknownContentType(t *testing.T) {
	g := &probeGetter{contentType: "text/html"}
	e := &GenericExtractor{Client: g}
	_, err := e.Extract(context.Background(), "https://example.com/page")
	if !errors.Is(err, ErrUnknownContentType) {
		t.Fatalf("expected ErrUnknownContentType, got %v", err)
	}
}

func TestGeneric_TitleStripsQueryString(t *testing.T) {
	g := &probeGetter{}
	e := &GenericExtractor{Client: g}
	d, err := e.Extract(context.Background(), "https://example.com/docs/handout.pdf?token=abc&x=1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if d.Title != "handout.pdf" {
		t.Fatalf("unexpected title %q", d.Title)
	}
}

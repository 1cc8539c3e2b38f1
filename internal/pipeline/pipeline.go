package pipeline

import (
	"context"

	"github.com/rs/zerolog/log"

	"github.com/hyperifyio/courseport/internal/content"
	"github.com/hyperifyio/courseport/internal/extractor"
	"github.com/hyperifyio/courseport/internal/protect"
)

// Resolver selects the extraction variant for a URL. Selection itself cannot
// fail; the chosen variant's Extract can.
type Resolver interface {
	Resolve(rawURL string) extractor.Extractor
}

// Acquirer transfers a descriptor's preferred resource to local storage.
type Acquirer interface {
	Fetch(ctx context.Context, desc *content.Descriptor) (string, error)
}

// Artifact is the outcome of one pipeline run: a descriptor with its local
// file, protected when the protection stage ran.
type Artifact struct {
	Descriptor *content.Descriptor
	Path       string
	Protected  bool
}

// Failure records why one URL of a batch was abandoned. The message is shown
// to the requester verbatim.
type Failure struct {
	URL string
	Err error
}

func (f Failure) Reason() string { return f.Err.Error() }

// Pipeline runs resolve, extract, acquire, and protect strictly in order for
// one URL at a time.
type Pipeline struct {
	Resolver   Resolver
	Downloader Acquirer
	// Protect enables the confidentiality transform for downloaded videos.
	Protect bool

	// ProtectFile overrides the transform, mainly for tests. Nil means
	// protect.File.
	ProtectFile func(path string) (string, []byte, error)
}

// Run processes a single URL through all stages. Any stage error aborts this
// run only and is returned unwrapped so callers can inspect it with errors.Is.
func (p *Pipeline) Run(ctx context.Context, rawURL string) (*Artifact, error) {
	ext := p.Resolver.Resolve(rawURL)
	log.Debug().Str("url", rawURL).Str("platform", string(ext.Platform())).Msg("resolved extractor")

	desc, err := ext.Extract(ctx, rawURL)
	if err != nil {
		return nil, err
	}
	log.Info().Str("title", desc.Title).Str("platform", string(desc.Platform)).Msg("extracted content")

	path, err := p.Downloader.Fetch(ctx, desc)
	if err != nil {
		return nil, err
	}
	desc.LocalPath = path

	if !p.Protect || desc.MediaType != content.MediaVideo {
		return &Artifact{Descriptor: desc, Path: path}, nil
	}

	transform := p.ProtectFile
	if transform == nil {
		transform = func(path string) (string, []byte, error) { return protect.File(path) }
	}
	// The per-file key is discarded here: nothing in the system escrows it.
	out, _, err := transform(path)
	if err != nil {
		return nil, err
	}
	desc.LocalPath = out
	log.Info().Str("path", out).Msg("applied protection")
	return &Artifact{Descriptor: desc, Path: out, Protected: true}, nil
}

// RunBatch processes URLs one at a time. A failed URL never stops the batch;
// its reason is recorded for reporting.
func (p *Pipeline) RunBatch(ctx context.Context, urls []string) ([]Artifact, []Failure) {
	artifacts := make([]Artifact, 0, len(urls))
	var failures []Failure
	for _, u := range urls {
		a, err := p.Run(ctx, u)
		if err != nil {
			log.Warn().Err(err).Str("url", u).Msg("skipping URL")
			failures = append(failures, Failure{URL: u, Err: err})
			continue
		}
		artifacts = append(artifacts, *a)
	}
	return artifacts, failures
}

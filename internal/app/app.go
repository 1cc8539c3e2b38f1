package app

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/hyperifyio/courseport/internal/cache"
	"github.com/hyperifyio/courseport/internal/download"
	"github.com/hyperifyio/courseport/internal/extractor"
	"github.com/hyperifyio/courseport/internal/fetch"
	"github.com/hyperifyio/courseport/internal/links"
	"github.com/hyperifyio/courseport/internal/pipeline"
	"github.com/hyperifyio/courseport/internal/portal"
	"github.com/hyperifyio/courseport/internal/protect"
	"github.com/hyperifyio/courseport/internal/upload"
)

// ErrNoUsableContent is returned when a run ends with zero acquired
// artifacts. Per the exit code policy, this condition should result in a
// non-zero process exit.
var ErrNoUsableContent = fmt.Errorf("no usable content")

type App struct {
	cfg      Config
	pipeline *pipeline.Pipeline
	renderer *portal.Renderer
}

func New(ctx context.Context, cfg Config) (*App, error) {
	if cfg.WorkDir == "" {
		cfg.WorkDir = "."
	}
	if cfg.OutDir == "" {
		cfg.OutDir = "."
	}
	if err := os.MkdirAll(cfg.WorkDir, 0o755); err != nil {
		return nil, fmt.Errorf("work dir: %w", err)
	}

	var httpCache *cache.Cache
	if cfg.CacheDir != "" {
		if cfg.CacheClear {
			_ = cache.ClearDir(cfg.CacheDir)
		}
		httpCache = &cache.Cache{Dir: cfg.CacheDir}
		if cfg.CacheMaxAge > 0 {
			// Purge by age; ignore errors to avoid failing startup.
			_, _ = httpCache.PurgeByAge(cfg.CacheMaxAge)
		}
	}

	client := &fetch.Client{
		HTTPClient:        &http.Client{Timeout: 60 * time.Second},
		UserAgent:         cfg.UserAgent,
		PerRequestTimeout: cfg.Timeout,
		Cache:             httpCache,
	}

	dl := &download.Downloader{
		HTTPClient: &http.Client{},
		Dir:        cfg.WorkDir,
		YtDlp:      cfg.YtDlpPath,
	}

	p := &pipeline.Pipeline{
		Resolver:    extractor.NewResolver(client),
		Downloader:  dl,
		Protect:     cfg.Protect,
		ProtectFile: protect.File,
	}

	return &App{
		cfg:      cfg,
		pipeline: p,
		renderer: &portal.Renderer{OutDir: cfg.OutDir},
	}, nil
}

func (a *App) Close() {
	// nothing yet
}

// Pipeline exposes the configured pipeline for the daemon wiring.
func (a *App) Pipeline() *pipeline.Pipeline { return a.pipeline }

// Renderer exposes the portal renderer for the daemon wiring.
func (a *App) Renderer() *portal.Renderer { return a.renderer }

// Run processes every configured URL, publishes a portal page over the
// results, and reports how the batch went.
func (a *App) Run(ctx context.Context) error {
	urls, err := a.gatherURLs()
	if err != nil {
		return err
	}
	if len(urls) == 0 {
		return fmt.Errorf("%w: no links found in input", ErrNoUsableContent)
	}
	log.Info().Int("count", len(urls)).Msg("processing links")

	artifacts, failures := a.pipeline.RunBatch(ctx, urls)
	for _, f := range failures {
		log.Warn().Str("url", f.URL).Str("reason", f.Reason()).Msg("link failed")
	}
	if len(artifacts) == 0 {
		return fmt.Errorf("%w: all %d link(s) failed", ErrNoUsableContent, len(urls))
	}

	title := a.cfg.Title
	if title == "" {
		title = "Course Portal"
	}
	items := make([]portal.Item, 0, len(artifacts))
	for _, art := range artifacts {
		items = append(items, portal.ItemFromArtifact(art))
	}

	page, err := a.renderer.Render(title, items)
	if err != nil {
		return fmt.Errorf("publish portal: %w", err)
	}
	log.Info().Str("portal", page).Int("items", len(items)).Msg("portal written")

	outputs := []string{page}
	if a.cfg.EnablePDF {
		pdf, err := a.renderer.WritePDF(title, items)
		if err != nil {
			return fmt.Errorf("publish pdf: %w", err)
		}
		log.Info().Str("pdf", pdf).Msg("pdf index written")
		outputs = append(outputs, pdf)
	}

	if a.cfg.SFTP.Enabled() {
		for _, out := range outputs {
			if err := upload.File(ctx, a.cfg.SFTP, out); err != nil {
				return fmt.Errorf("upload %s: %w", out, err)
			}
			log.Info().Str("file", out).Str("host", a.cfg.SFTP.Host).Msg("uploaded")
		}
	}
	return nil
}

// gatherURLs merges inline URLs with the links file, when one is given. The
// links file is consumed: it is removed once read.
func (a *App) gatherURLs() ([]string, error) {
	urls := append([]string(nil), a.cfg.URLs...)
	if a.cfg.LinksFile != "" {
		fromFile, err := links.FromFile(a.cfg.LinksFile)
		if err != nil {
			return nil, fmt.Errorf("read links file: %w", err)
		}
		urls = append(urls, fromFile...)
	}

	seen := make(map[string]struct{}, len(urls))
	out := urls[:0]
	for _, u := range urls {
		if _, ok := seen[u]; ok {
			continue
		}
		seen[u] = struct{}{}
		out = append(out, u)
	}
	return out, nil
}

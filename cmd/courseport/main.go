package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/hyperifyio/courseport/internal/app"
	"github.com/hyperifyio/courseport/internal/upload"
)

func main() {
	// Logging setup
	zerolog.TimeFieldFormat = time.RFC3339
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	_ = godotenv.Load()

	var (
		configPath  string
		linksFile   string
		title       string
		outDir      string
		workDir     string
		enablePDF   bool
		protect     bool
		ytDlpPath   string
		userAgent   string
		timeout     time.Duration
		cacheDir    string
		cacheMaxAge time.Duration
		cacheClear  bool
		sftpHost    string
		sftpPort    int
		sftpUser    string
		sftpPass    string
		sftpDir     string
		verbose     bool
	)

	flag.StringVar(&configPath, "config", os.Getenv("COURSEPORT_CONFIG"), "Path to YAML config file")
	flag.StringVar(&linksFile, "links", "", "Path to a .txt file of content links (consumed after reading)")
	flag.StringVar(&title, "title", "", "Portal page title")
	flag.StringVar(&outDir, "out", ".", "Directory for portal output")
	flag.StringVar(&workDir, "work", ".", "Work directory for downloaded files")
	flag.BoolVar(&enablePDF, "enable.pdf", false, "Also write a PDF index of the portal")
	flag.BoolVar(&protect, "protect", false, "Encrypt downloaded videos at rest")
	flag.StringVar(&ytDlpPath, "ytdlp", os.Getenv("YTDLP_PATH"), "Path to the yt-dlp binary")
	flag.StringVar(&userAgent, "ua", "courseport/1.0 (+https://github.com/hyperifyio/courseport)", "User-Agent for platform requests")
	flag.DurationVar(&timeout, "timeout", 30*time.Second, "Per-request timeout")
	flag.StringVar(&cacheDir, "cache.dir", ".courseport-cache", "Cache directory path")
	flag.DurationVar(&cacheMaxAge, "cache.maxAge", 0, "Max age for cache entries before purge (e.g. 24h); 0 disables")
	flag.BoolVar(&cacheClear, "cache.clear", false, "Clear cache directory before run")
	flag.StringVar(&sftpHost, "sftp.host", os.Getenv("SFTP_HOST"), "SFTP host for portal publishing (optional)")
	flag.IntVar(&sftpPort, "sftp.port", 22, "SFTP port")
	flag.StringVar(&sftpUser, "sftp.user", os.Getenv("SFTP_USER"), "SFTP user")
	flag.StringVar(&sftpPass, "sftp.pass", os.Getenv("SFTP_PASS"), "SFTP password")
	flag.StringVar(&sftpDir, "sftp.dir", os.Getenv("SFTP_REMOTE_DIR"), "SFTP remote directory")
	flag.BoolVar(&verbose, "v", false, "Verbose logging")
	flag.Parse()

	if verbose {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}

	cfg := app.Config{
		LinksFile:   linksFile,
		URLs:        flag.Args(),
		OutDir:      outDir,
		WorkDir:     workDir,
		Title:       title,
		EnablePDF:   enablePDF,
		Protect:     protect,
		YtDlpPath:   ytDlpPath,
		UserAgent:   userAgent,
		Timeout:     timeout,
		CacheDir:    cacheDir,
		CacheMaxAge: cacheMaxAge,
		CacheClear:  cacheClear,
		SFTP: upload.Config{
			Host:      sftpHost,
			Port:      sftpPort,
			User:      sftpUser,
			Pass:      sftpPass,
			RemoteDir: sftpDir,
		},
		Verbose: verbose,
	}

	if configPath != "" {
		fc, err := app.LoadConfigFile(configPath)
		if err != nil {
			log.Error().Err(err).Str("path", configPath).Msg("config file")
			os.Exit(1)
		}
		app.ApplyFileConfig(&cfg, fc)
	}

	if err := app.ValidateConfig(cfg); err != nil {
		log.Error().Err(err).Msg("invalid configuration")
		os.Exit(1)
	}

	if err := run(cfg); err != nil {
		log.Error().Err(err).Msg("run failed")
		// Exit code policy: 2 when nothing at all could be acquired, 1 for
		// any other failure.
		if errors.Is(err, app.ErrNoUsableContent) {
			os.Exit(2)
		}
		os.Exit(1)
	}
}

func run(cfg app.Config) error {
	ctx := context.Background()

	a, err := app.New(ctx, cfg)
	if err != nil {
		return fmt.Errorf("init app: %w", err)
	}
	defer a.Close()

	return a.Run(ctx)
}

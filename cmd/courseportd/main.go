package main

import (
	"context"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/hyperifyio/courseport/internal/app"
	"github.com/hyperifyio/courseport/internal/command"
	"github.com/hyperifyio/courseport/internal/handler"
	"github.com/hyperifyio/courseport/internal/janitor"
	"github.com/hyperifyio/courseport/internal/store"
)

func main() {
	// Logging setup
	zerolog.TimeFieldFormat = time.RFC3339
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	_ = godotenv.Load()

	cfg := loadConfig()
	if cfg.Verbose {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	st, err := store.New(ctx, cfg.MongoURI, cfg.MongoDB)
	cancel()
	if err != nil {
		log.Fatal().Err(err).Str("uri", cfg.MongoURI).Msg("mongodb connect failed")
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := st.Close(ctx); err != nil {
			log.Error().Err(err).Msg("mongodb disconnect error")
		}
	}()

	a, err := app.New(context.Background(), cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("init app failed")
	}
	defer a.Close()

	router := command.NewRouter(st, a.Pipeline(), a.Renderer(), cfg.AdminID, log.Logger)

	j, err := janitor.New(cfg.WorkDir, cfg.CleanupMaxAge, cfg.CleanupEvery, log.Logger)
	if err != nil {
		log.Fatal().Err(err).Msg("init janitor failed")
	}
	if err := j.Start(); err != nil {
		log.Fatal().Err(err).Msg("start janitor failed")
	}
	defer j.Stop()

	web := fiber.New(fiber.Config{
		DisableStartupMessage: true,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			log.Error().Err(err).Str("path", c.Path()).Msg("request error")
			return c.Status(fiber.StatusInternalServerError).JSON(handler.ErrorResponse{Error: "internal error"})
		},
	})
	handler.NewMessageHandler(router).Register(web)

	go func() {
		log.Info().Str("addr", cfg.ListenAddr).Msg("listening")
		if err := web.Listen(cfg.ListenAddr); err != nil {
			log.Fatal().Err(err).Msg("server stopped")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down")
	if err := web.Shutdown(); err != nil {
		log.Error().Err(err).Msg("server shutdown error")
	}
}

func loadConfig() app.Config {
	cfg := app.Config{
		// Validation of links input does not apply to the daemon: URLs
		// arrive over the message API.
		ListenAddr:    envOr("LISTEN_ADDR", ":8080"),
		MongoURI:      envOr("MONGO_URI", "mongodb://localhost:27017"),
		MongoDB:       envOr("MONGO_DB", "courseport"),
		WorkDir:       envOr("WORK_DIR", "./work"),
		OutDir:        envOr("OUT_DIR", "./portal"),
		YtDlpPath:     os.Getenv("YTDLP_PATH"),
		UserAgent:     envOr("USER_AGENT", "courseport/1.0 (+https://github.com/hyperifyio/courseport)"),
		CacheDir:      envOr("CACHE_DIR", ".courseport-cache"),
		Protect:       os.Getenv("PROTECT_VIDEOS") == "true",
		Verbose:       os.Getenv("VERBOSE") == "true",
		CleanupMaxAge: durationOr("CLEANUP_MAX_AGE", time.Hour),
		CleanupEvery:  durationOr("CLEANUP_EVERY", 30*time.Minute),
	}
	if id := os.Getenv("ADMIN_ID"); id != "" {
		v, err := strconv.ParseInt(id, 10, 64)
		if err != nil {
			log.Fatal().Str("value", id).Msg("ADMIN_ID must be a number")
		}
		cfg.AdminID = v
	}
	if path := os.Getenv("COURSEPORT_CONFIG"); path != "" {
		fc, err := app.LoadConfigFile(path)
		if err != nil {
			log.Fatal().Err(err).Str("path", path).Msg("config file")
		}
		app.ApplyFileConfig(&cfg, fc)
	}
	return cfg
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func durationOr(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}

// Command server runs the MorseVerse backend API.
//
// Startup order: env → config → logging → tracing → stores → clients →
// router → HTTP server. Shutdown drains in-flight requests, then closes the
// Mongo connection and flushes traces.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/morseverse/backend/internal/config"
	"github.com/morseverse/backend/internal/drive"
	"github.com/morseverse/backend/internal/gateway"
	httpapi "github.com/morseverse/backend/internal/http"
	"github.com/morseverse/backend/internal/mail"
	"github.com/morseverse/backend/internal/observability"
	"github.com/morseverse/backend/internal/repo"
	"github.com/morseverse/backend/internal/storage"
	"github.com/morseverse/backend/internal/sysutil"
)

// version is stamped at build time via -ldflags "-X main.version=...".
var version = "dev"

func main() {
	// Local development convenience; absence of a .env file is fine.
	_ = godotenv.Load()

	cfg := config.MustLoad()

	sysutil.SetLogLevel(cfg.LogLevel)
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	if cfg.LogPretty {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownOTel, err := observability.SetupOTel(ctx, cfg.OTEL, version)
	if err != nil {
		log.Fatal().Err(err).Msg("otel setup")
	}

	store, err := repo.Connect(ctx, cfg.Mongo)
	if err != nil {
		log.Fatal().Err(err).Msg("mongo connect")
	}

	db, err := repo.OpenSQLite(cfg.DBPath)
	if err != nil {
		log.Fatal().Err(err).Msg("open idempotency store")
	}
	if err := repo.AutoMigrate(db); err != nil {
		log.Fatal().Err(err).Msg("migrate idempotency store")
	}

	// Expired idempotency records are only dead weight; sweep them hourly.
	go func() {
		t := time.NewTicker(time.Hour)
		defer t.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case now := <-t.C:
				if n, err := repo.PurgeExpiredIdempotency(ctx, db, now.UTC()); err != nil {
					log.Warn().Err(err).Msg("purge idempotency")
				} else if n > 0 {
					log.Debug().Int64("purged", n).Msg("purge idempotency")
				}
			}
		}
	}()

	deps := httpapi.Deps{
		Cfg:     cfg,
		DB:      db,
		Store:   store,
		Gateway: gateway.New(cfg.Agent),
		Mail:    mail.New(cfg.SMTP),
	}

	// Cloud collaborators are optional: a missing bucket or credentials file
	// disables the corresponding endpoints rather than the whole service.
	if cfg.GCS.Bucket != "" {
		content, err := storage.New(ctx, cfg.GCS)
		if err != nil {
			log.Fatal().Err(err).Msg("gcs client")
		}
		defer content.Close()
		deps.Content = content
	} else {
		log.Warn().Msg("GCS_BUCKET_NAME unset; content endpoints disabled")
	}
	if cfg.Drive.CredentialsFile != "" {
		dc, err := drive.New(ctx, cfg.Drive.CredentialsFile)
		if err != nil {
			log.Fatal().Err(err).Msg("drive client")
		}
		deps.Drive = dc
	} else {
		log.Warn().Msg("DRIVE_CREDENTIALS_FILE unset; file endpoints disabled")
	}

	gin.SetMode(cfg.GinMode)
	r := gin.New()
	httpapi.RegisterRoutes(r, deps)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadTimeout:       cfg.ReadTimeout,
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
		WriteTimeout:      cfg.WriteTimeout,
		IdleTimeout:       cfg.IdleTimeout,
		MaxHeaderBytes:    cfg.MaxHeaderBytes,
	}

	go func() {
		log.Info().Str("addr", srv.Addr).Str("version", version).Msg("server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("http shutdown")
	}
	if err := store.Close(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("mongo close")
	}
	if err := shutdownOTel(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("otel shutdown")
	}
}

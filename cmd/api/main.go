package main

import (
	"context"
	"errors"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"voxresumo/internal/audit"
	"voxresumo/internal/http/handlers"
	"voxresumo/internal/http/httpapi"
	"voxresumo/internal/identity"
	"voxresumo/internal/infra"
	"voxresumo/internal/infra/geoip"
	"voxresumo/internal/middleware"
	"voxresumo/internal/projects"
	"voxresumo/internal/providers/transcribe"
	"voxresumo/internal/quota"
	"voxresumo/internal/store"
)

func main() {
	_ = godotenv.Load()

	cfg, err := infra.LoadConfig()
	if err != nil {
		panic(err)
	}
	logger := infra.NewLogger(cfg.AppEnv)

	ctx := context.Background()

	kv, cleanup, err := openStore(ctx, cfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to open store")
	}
	defer cleanup()

	provider, err := buildProvider(cfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to build transcription provider")
	}

	var lookup middleware.CountryLookup
	resolver, err := geoip.Open(cfg.GeoIPDBPath)
	if err != nil {
		logger.Warn().Err(err).Msg("geoip disabled")
	} else if resolver != nil {
		defer resolver.Close()
		lookup = resolver.CountryCode
	}

	app := &handlers.App{
		Logger:         logger,
		Identity:       identity.NewProvider(kv),
		Ledger:         quota.NewLedger(kv, nil),
		Projects:       projects.NewRepository(kv),
		Provider:       provider,
		ProviderName:   cfg.TranscribeProvider,
		Audit:          audit.NewLogger(logger),
		SessionSecret:  cfg.SessionSecret,
		MaxUploadBytes: cfg.MaxUploadBytes,
	}

	router := httpapi.NewRouter(app, httpapi.Options{
		RateLimitPerMin: cfg.RateLimitPerMin,
		DefaultLocale:   "pt",
		CountryLookup:   lookup,
		AllowedOrigins:  cfg.CORSOrigins,
	})

	runCtx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	server := infra.NewHTTPServer(cfg, router, logger)
	if err := server.Run(runCtx, cfg.HTTPIdleTimeout); err != nil {
		logger.Fatal().Err(err).Msg("http server failed")
	}
}

func openStore(ctx context.Context, cfg *infra.Config) (store.Store, func(), error) {
	switch cfg.StoreBackend {
	case infra.StoreBackendMemory:
		return store.NewMemory(), func() {}, nil
	case infra.StoreBackendFile:
		s, err := store.NewFile(cfg.StoreFilePath)
		if err != nil {
			return nil, nil, err
		}
		return s, func() {}, nil
	case infra.StoreBackendPostgres:
		pool, err := infra.NewDBPool(ctx, cfg)
		if err != nil {
			return nil, nil, err
		}
		initCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
		defer cancel()
		s, err := store.NewPostgres(initCtx, pool)
		if err != nil {
			pool.Close()
			return nil, nil, err
		}
		return s, pool.Close, nil
	}
	return nil, nil, errors.New("unsupported store backend")
}

func buildProvider(cfg *infra.Config) (transcribe.Provider, error) {
	switch cfg.TranscribeProvider {
	case infra.TranscribeProviderGemini:
		return transcribe.NewGemini(transcribe.GeminiOptions{
			APIKey:  cfg.GeminiAPIKey,
			Model:   cfg.GeminiModel,
			BaseURL: cfg.GeminiBaseURL,
		})
	case infra.TranscribeProviderWhisper:
		return transcribe.NewWhisper(transcribe.WhisperOptions{
			APIKey:    cfg.OpenAIAPIKey,
			BaseURL:   cfg.OpenAIBaseURL,
			ChatModel: cfg.OpenAIModel,
		})
	case infra.TranscribeProviderStatic:
		return transcribe.NewStatic(), nil
	}
	return nil, errors.New("unsupported transcription provider")
}

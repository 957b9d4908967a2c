package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/salespilot/salespilot/internal/api"
	"github.com/salespilot/salespilot/internal/config"
	"github.com/salespilot/salespilot/internal/dataset"
	duckdbstore "github.com/salespilot/salespilot/internal/dataset/duckdb"
	postgresstore "github.com/salespilot/salespilot/internal/dataset/postgres"
	"github.com/salespilot/salespilot/internal/llm"
	"github.com/salespilot/salespilot/internal/observability"
	"github.com/salespilot/salespilot/internal/pipeline"
	s3store "github.com/salespilot/salespilot/internal/storage/s3"
)

func main() {
	cfg, err := config.LoadFromEnv("salespilot-api")
	if err != nil {
		slog.Error("failed to load config", slog.Any("error", err))
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg, os.Stdout)

	factory, readiness, cleanup, err := buildDatasetFactory(context.Background(), cfg, logger)
	if err != nil {
		logger.Error("failed to initialize dataset backend", slog.Any("error", err))
		os.Exit(1)
	}
	defer cleanup()

	provider, err := llm.NewOpenAIProvider(llm.OpenAIConfig{
		BaseURL: cfg.AI.BaseURL,
		APIKey:  cfg.AI.APIKey,
		Model:   cfg.AI.Model,
		Timeout: cfg.AI.Timeout,
	})
	if err != nil {
		logger.Error("failed to initialize model provider", slog.Any("error", err))
		os.Exit(1)
	}

	pipe := pipeline.New(provider, factory, logger)
	pipe.SynthTemperature = cfg.AI.SynthTemperature
	pipe.SummaryTemperature = cfg.AI.SummaryTemperature
	pipe.MaxRowsShown = cfg.AI.MaxResultRows

	handler := api.NewHandler(cfg, api.Dependencies{
		Logger:            logger,
		Pipeline:          pipe,
		Schema:            api.SchemaSource{Stores: factory, SampleRows: 5},
		Readiness:         readiness,
		DependencyTimeout: time.Second,
	})

	server := &http.Server{
		Addr:         cfg.HTTP.Address,
		Handler:      handler,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
		IdleTimeout:  cfg.HTTP.IdleTimeout,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		logger.Info("starting api server", slog.String("addr", cfg.HTTP.Address))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("api server failed", slog.Any("error", err))
			stop()
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	logger.Info("shutting down api server")
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", slog.Any("error", err))
		_ = server.Close()
		os.Exit(1)
	}
}

func buildDatasetFactory(ctx context.Context, cfg config.Config, logger *slog.Logger) (dataset.Factory, api.ReadinessCheck, func(), error) {
	switch cfg.Dataset.Backend {
	case config.DatasetBackendPostgres:
		factory, err := postgresstore.NewFactory(ctx, postgresstore.Config{
			DSN:             cfg.Dataset.DSN,
			MaxOpenConns:    cfg.Dataset.MaxOpenConns,
			MaxIdleConns:    cfg.Dataset.MaxIdleConns,
			ConnMaxIdleTime: cfg.Dataset.ConnMaxIdleTime,
			ConnMaxLifetime: cfg.Dataset.ConnMaxLifetime,
		})
		if err != nil {
			return nil, nil, nil, err
		}
		return factory, factory.Ping, func() { _ = factory.Close() }, nil

	case config.DatasetBackendDuckDB:
		path := cfg.Dataset.Path
		if cfg.ObjectStore.FetchKey != "" {
			store, err := s3store.New(s3store.Config{
				Endpoint:        cfg.ObjectStore.Endpoint,
				Region:          cfg.ObjectStore.Region,
				Bucket:          cfg.ObjectStore.Bucket,
				AccessKeyID:     cfg.ObjectStore.AccessKeyID,
				SecretAccessKey: cfg.ObjectStore.SecretAccessKey,
				UseSSL:          cfg.ObjectStore.UseSSL,
				Prefix:          cfg.ObjectStore.Prefix,
			})
			if err != nil {
				return nil, nil, nil, err
			}
			path, err = dataset.FetchFile(ctx, store, cfg.ObjectStore.FetchKey)
			if err != nil {
				return nil, nil, nil, err
			}
			logger.Info("fetched dataset from object store",
				slog.String("key", cfg.ObjectStore.FetchKey),
				slog.String("path", path),
			)
		}

		factory, err := duckdbstore.NewFactory(duckdbstore.Config{
			Path:   path,
			Format: cfg.Dataset.Format,
		})
		if err != nil {
			return nil, nil, nil, err
		}
		readiness := func(ctx context.Context) error {
			if _, err := os.Stat(path); err != nil {
				return err
			}
			return nil
		}
		return factory, readiness, func() {}, nil

	default:
		return nil, nil, nil, errors.New("unknown dataset backend")
	}
}

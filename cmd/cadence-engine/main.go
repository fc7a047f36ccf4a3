package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/cadencestack/cadence-engine/internal/api"
	"github.com/cadencestack/cadence-engine/internal/cache"
	"github.com/cadencestack/cadence-engine/internal/config"
	"github.com/cadencestack/cadence-engine/internal/engine"
	"github.com/cadencestack/cadence-engine/internal/metrics"
	"github.com/cadencestack/cadence-engine/internal/repo"
	"github.com/cadencestack/cadence-engine/internal/retrieval"
	"github.com/cadencestack/cadence-engine/internal/services"
	"github.com/cadencestack/cadence-engine/internal/utils"
)

func main() {
	var configPath string
	flag.StringVar(&configPath, "config", "", "Path to configuration file")
	flag.Parse()

	cfg, err := config.Load(configPath)
	if err != nil {
		slog.Error("failed to load config", slog.String("path", configPath), slog.Any("error", err))
		os.Exit(1)
	}

	logger := utils.NewLogger(cfg.Logging.Level, cfg.Logging.JSON)
	logger.Info("starting cadence-engine", slog.String("address", cfg.Server.Address))

	if err := metrics.Register(prometheus.DefaultRegisterer); err != nil {
		logger.Error("failed to register metrics", slog.Any("error", err))
		os.Exit(1)
	}

	var cacheProvider cache.Provider = cache.NoopProvider{}
	if cfg.Cache.Enabled {
		if cfg.Cache.Addr != "" {
			provider, err := cache.NewValkeyProvider(cache.ValkeyConfig{
				Addr:         cfg.Cache.Addr,
				Username:     cfg.Cache.Username,
				Password:     cfg.Cache.Password,
				DB:           cfg.Cache.DB,
				DialTimeout:  cfg.Cache.DialTimeout,
				ReadTimeout:  cfg.Cache.ReadTimeout,
				WriteTimeout: cfg.Cache.WriteTimeout,
				MaxRetries:   cfg.Cache.MaxRetries,
				TLS:          cfg.Cache.TLS,
			})
			if err != nil {
				logger.Warn("valkey cache unavailable, using in-memory cache", slog.Any("error", err))
				cacheProvider = cache.NewMemoryProvider()
			} else {
				cacheProvider = provider
			}
		} else {
			cacheProvider = cache.NewMemoryProvider()
		}
	}
	defer cacheProvider.Close()

	snippetRepo := repo.NewSnippetRepo(logger, cfg.Corpus.Source, cfg.Corpus.FetchTimeout, cacheProvider, cfg.Corpus.CacheTTL)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := snippetRepo.Reload(ctx); err != nil {
		logger.Error("failed to load snippet corpus", slog.String("source", cfg.Corpus.Source), slog.Any("error", err))
		os.Exit(1)
	}

	pipeline := engine.NewPipeline(
		logger,
		snippetRepo,
		retrieval.NewEngine(),
		cfg.Retrieval.DefaultK,
		cfg.Retrieval.MaxK,
	)

	analysisService, err := services.NewAnalysisService(logger, pipeline, cacheProvider, cfg.Cache.ReportTTL, cfg.Retrieval.ResultCacheSize)
	if err != nil {
		logger.Error("failed to create analysis service", slog.Any("error", err))
		os.Exit(1)
	}

	snippetRepo.OnReload(analysisService.InvalidateRetrievalCache)

	if cfg.Corpus.Watch && !snippetRepo.IsRemote() {
		if err := snippetRepo.Watch(ctx); err != nil {
			logger.Warn("corpus watch unavailable", slog.Any("error", err))
		}
	}

	handler := api.NewHandler(logger, analysisService)
	server, err := api.NewServer(cfg.Server, handler)
	if err != nil {
		logger.Error("failed to create HTTP server", slog.Any("error", err))
		os.Exit(1)
	}

	var metricsServer *http.Server
	if cfg.Server.MetricsAddress != "" {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.Handler())
		metricsServer = &http.Server{
			Addr:         cfg.Server.MetricsAddress,
			Handler:      mux,
			ReadTimeout:  5 * time.Second,
			WriteTimeout: 15 * time.Second,
		}
		go func() {
			logger.Info("metrics server listening", slog.String("address", cfg.Server.MetricsAddress))
			if err := metricsServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Error("metrics server exited", slog.Any("error", err))
				stop()
			}
		}()
	}

	go func() {
		if serveErr := server.Start(); serveErr != nil && !errors.Is(serveErr, http.ErrServerClosed) {
			logger.Error("HTTP server exited", slog.Any("error", serveErr))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.GracefulTimeout)
	defer cancel()
	server.Shutdown(shutdownCtx)

	if metricsServer != nil {
		metricsCtx, cancelMetrics := context.WithTimeout(context.Background(), 5*time.Second)
		if err := metricsServer.Shutdown(metricsCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Warn("metrics server shutdown", slog.Any("error", err))
		}
		cancelMetrics()
	}

	// Give remaining goroutines time to finish logging
	time.Sleep(100 * time.Millisecond)
	logger.Info("cadence-engine stopped")
}

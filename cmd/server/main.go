// Package main provides the trainerlog API server: it persists the
// team roster, enriches it from the reference API, and serves the
// aggregation dashboard endpoints.
package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/cory-johannsen/trainerlog/internal/config"
	"github.com/cory-johannsen/trainerlog/internal/enrich"
	"github.com/cory-johannsen/trainerlog/internal/httpapi"
	"github.com/cory-johannsen/trainerlog/internal/observability"
	"github.com/cory-johannsen/trainerlog/internal/pokeapi"
	"github.com/cory-johannsen/trainerlog/internal/roster"
	"github.com/cory-johannsen/trainerlog/internal/server"
	"github.com/cory-johannsen/trainerlog/internal/storage/postgres"
	"github.com/cory-johannsen/trainerlog/internal/tracker"
)

func main() {
	start := time.Now()

	configPath := flag.String("config", "configs/dev.yaml", "path to configuration file")
	flag.Parse()

	ctx := context.Background()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logging)
	if err != nil {
		log.Fatalf("initializing logger: %v", err)
	}
	defer logger.Sync()

	logger.Info("starting trainerlog server",
		zap.String("addr", cfg.Server.Addr()),
	)

	// Load the game catalog
	catalog := roster.DefaultCatalog()
	if cfg.Catalog.Path != "" {
		catalog, err = roster.LoadCatalogFromFile(cfg.Catalog.Path)
		if err != nil {
			logger.Fatal("loading catalog", zap.Error(err))
		}
	}
	logger.Info("catalog loaded",
		zap.Int("games", len(catalog.Games)),
		zap.Int("starter_bases", len(catalog.StarterBases)),
	)

	// Connect to PostgreSQL for roster persistence
	dbStart := time.Now()
	pool, err := postgres.NewPool(ctx, cfg.Database)
	if err != nil {
		logger.Fatal("connecting to database", zap.Error(err))
	}
	defer pool.Close()
	logger.Info("database connected",
		zap.String("host", cfg.Database.Host),
		zap.Duration("elapsed", time.Since(dbStart)),
	)
	rosterRepo := postgres.NewRosterRepository(pool.DB())

	// Optional Redis attribute cache
	var cache enrich.AttributeCache
	if cfg.Redis.Enabled {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err := rdb.Ping(ctx).Err(); err != nil {
			logger.Fatal("connecting to redis", zap.Error(err))
		}
		defer rdb.Close()
		cache = pokeapi.NewCache(rdb, cfg.Redis.TTL, logger)
		logger.Info("attribute cache connected", zap.String("addr", cfg.Redis.Addr))
	}

	// Reference client and enrichment engine
	client := pokeapi.NewClient(cfg.PokeAPI.BaseURL, cfg.PokeAPI.Timeout)
	resolver := pokeapi.NewResolver(client, catalog.StarterBaseSet(), logger)
	normalizer := pokeapi.NewNormalizer(catalog.FormOverrides)
	enricher := enrich.NewEnricher(resolver, cache, normalizer, cfg.PokeAPI.Workers, logger)

	svc := tracker.NewService(rosterRepo, enricher, client, catalog, cfg.PokeAPI.CatalogLimit, logger)
	handler := httpapi.NewHandler(svc, pool, logger)
	router := httpapi.NewRouter(handler, cfg.Server.AllowedOrigins)

	httpServer := &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	lifecycle := server.NewLifecycle(logger, 10*time.Second)
	lifecycle.AddTask("name-catalog-warmup", func(ctx context.Context) error {
		// Best effort: a cold reference API only delays the entry
		// form's autocomplete, never startup.
		if names := svc.KnownNames(ctx); len(names) > 0 {
			logger.Info("name catalog warmed", zap.Int("names", len(names)))
		}
		return nil
	})
	lifecycle.AddService("http", &server.ServiceFuncs{
		ServeFn: func() error {
			if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		},
		ShutdownFn: func(ctx context.Context) {
			if err := httpServer.Shutdown(ctx); err != nil {
				logger.Warn("http shutdown", zap.Error(err))
			}
		},
	})

	logger.Info("initialization complete", zap.Duration("elapsed", time.Since(start)))
	if err := lifecycle.Run(ctx); err != nil {
		logger.Fatal("lifecycle error", zap.Error(err))
	}
}

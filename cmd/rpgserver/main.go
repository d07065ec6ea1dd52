// Package main provides the RPG server binary: it loads game content, opens
// character storage, and serves the game through the console adapter and
// the Prometheus endpoint until interrupted.
package main

import (
	"context"
	"flag"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"

	"github.com/cory-johannsen/chatrpg/internal/config"
	"github.com/cory-johannsen/chatrpg/internal/console"
	"github.com/cory-johannsen/chatrpg/internal/game/combat"
	"github.com/cory-johannsen/chatrpg/internal/game/dice"
	"github.com/cory-johannsen/chatrpg/internal/gameserver"
	"github.com/cory-johannsen/chatrpg/internal/observability"
	"github.com/cory-johannsen/chatrpg/internal/server"
	"github.com/cory-johannsen/chatrpg/internal/storage"
	"github.com/cory-johannsen/chatrpg/internal/storage/cache"
	"github.com/cory-johannsen/chatrpg/internal/storage/memory"
	"github.com/cory-johannsen/chatrpg/internal/storage/postgres"
)

func main() {
	start := time.Now()

	configPath := flag.String("config", "configs/dev.yaml", "path to configuration file")
	flag.Parse()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// A missing .env is fine; real deployments set RPG_* directly.
	_ = godotenv.Load()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logging)
	if err != nil {
		log.Fatalf("initializing logger: %v", err)
	}
	defer logger.Sync()

	contentStart := time.Now()
	content, err := combat.LoadContent(cfg.Content.ItemsDir, cfg.Content.LootDir, cfg.Content.MonstersDir)
	if err != nil {
		logger.Fatal("loading content", zap.Error(err))
	}
	logger.Info("content loaded",
		zap.Int("items", content.Items.Len()),
		zap.Int("loot_tables", content.Loot.Len()),
		zap.Int("monsters", len(content.Monsters.All())),
		zap.Duration("elapsed", time.Since(contentStart)),
	)

	var src dice.Source = dice.NewCryptoSource()
	if cfg.Engine.Seed != 0 {
		src = dice.NewSeededSource(cfg.Engine.Seed)
		logger.Warn("using seeded dice", zap.Uint64("seed", cfg.Engine.Seed))
	}
	roller := dice.NewLoggedRoller(src, logger)

	repo, closeRepo := openRepository(ctx, cfg, content, logger)
	defer closeRepo()

	engine := combat.NewEngine(content, roller, logger,
		combat.WithTerminalMemory(cfg.Engine.TerminalSize, cfg.Engine.TerminalTTL),
	)

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	metrics := observability.NewMetrics(reg)

	svc := gameserver.NewService(repo, engine, content.Items, metrics, logger)

	lc := server.NewLifecycle(logger)
	if cfg.Metrics.Enabled {
		lc.Add("metrics", server.NewMetricsService(cfg.Metrics, reg, logger))
	}
	if cfg.Console.Enabled {
		con := console.New(svc, cfg.Console.UserID, os.Stdin, os.Stdout, logger)
		// Leaving the console shuts the whole server down.
		lc.Add("console", &server.FuncService{
			StartFn: func() error {
				defer cancel()
				return con.Start()
			},
			StopFn: con.Stop,
		})
	}

	logger.Info("rpg server ready",
		zap.String("storage", cfg.Storage.Backend),
		zap.Bool("metrics", cfg.Metrics.Enabled),
		zap.Bool("console", cfg.Console.Enabled),
		zap.Duration("startup", time.Since(start)),
	)

	if err := lc.Run(ctx); err != nil {
		logger.Error("server stopped with error", zap.Error(err))
		return
	}
	logger.Info("server stopped")
}

// openRepository builds the configured character store, wrapped in the
// read-through cache when one is configured.
func openRepository(ctx context.Context, cfg config.Config, content combat.Content, logger *zap.Logger) (storage.CharacterRepository, func()) {
	var (
		repo    storage.CharacterRepository
		closeFn = func() {}
	)
	switch cfg.Storage.Backend {
	case config.BackendPostgres:
		dbStart := time.Now()
		pool, err := postgres.NewPool(ctx, cfg.Database)
		if err != nil {
			logger.Fatal("connecting to database", zap.Error(err))
		}
		logger.Info("database connected",
			zap.String("host", cfg.Database.Host),
			zap.Duration("elapsed", time.Since(dbStart)),
		)
		repo = postgres.NewCharacterRepository(pool.DB(), content.Items)
		closeFn = pool.Close
	default:
		logger.Warn("using in-memory storage; characters are lost on exit")
		repo = memory.NewCharacterRepository()
	}

	if cfg.Storage.CacheSize > 0 {
		repo = cache.New(repo, cfg.Storage.CacheSize, cfg.Storage.CacheTTL)
		logger.Info("character cache enabled",
			zap.Int("size", cfg.Storage.CacheSize),
			zap.Duration("ttl", cfg.Storage.CacheTTL),
		)
	}
	return repo, closeFn
}

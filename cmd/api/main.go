package main

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/joho/godotenv/autoload"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/rizzource/rizzource-backend/internal/ailab"
	"github.com/rizzource/rizzource-backend/internal/auth"
	"github.com/rizzource/rizzource-backend/internal/cache"
	"github.com/rizzource/rizzource-backend/internal/config"
	"github.com/rizzource/rizzource-backend/internal/console"
	"github.com/rizzource/rizzource-backend/internal/database"
	"github.com/rizzource/rizzource-backend/internal/handler"
	"github.com/rizzource/rizzource-backend/internal/logger"
	"github.com/rizzource/rizzource-backend/internal/repository"
	"github.com/rizzource/rizzource-backend/internal/storage"
)

type application struct {
	DB         *pgxpool.Pool
	Redis      *redis.Client
	Logger     *zap.Logger
	Config     *config.Config
	Repository *repository.Repository
	Handler    *handler.Handler
}

func main() {
	ctx := context.Background()
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	log, _ := logger.NewLogger(cfg.Env)
	defer log.Sync()
	sugar := log.Sugar()
	sugar.Infof("config loaded, env=%s", cfg.Env)

	pool, err := database.Connect(ctx, cfg.DB)
	if err != nil {
		sugar.Fatal(err)
	}
	defer pool.Close()

	redisClient := cache.NewRedisClient(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
	if err := redisClient.Ping(ctx).Err(); err != nil {
		// dashboard stats just skip the cache when redis is down
		sugar.Warnf("redis unavailable: %v", err)
	}
	defer redisClient.Close()

	fileStore, err := storage.NewDiskStore(cfg.Storage.Dir, cfg.Storage.BaseURL)
	if err != nil {
		sugar.Fatal(err)
	}

	repo := repository.NewRepository(pool)
	gateway := repository.NewConsoleGateway(repo)

	handlerApp := &handler.Handler{
		Logger:      log,
		Repository:  repo,
		Gateway:     gateway,
		Exporter:    console.NewExporter(gateway, log),
		Storage:     fileStore,
		AI:          ailab.NewClient(cfg.AI.BaseURL, cfg.AI.APIKey, cfg.AI.Timeout),
		Stats:       cache.NewStatsCache(redisClient, cfg.Redis.StatsTTL),
		TokenMaker:  auth.NewJWTMaker(cfg.JWT.Secret),
		TokenTTL:    cfg.JWT.AccessTokenTTL,
		PageSize:    cfg.Console.PageSize,
		QuietPeriod: cfg.Console.QuietPeriod,
	}

	app := &application{
		DB:         pool,
		Redis:      redisClient,
		Logger:     log,
		Config:     cfg,
		Repository: repo,
		Handler:    handlerApp,
	}

	if err := app.serve(); err != nil {
		sugar.Fatal(err)
	}
}

package integration_test

import (
	"log/slog"
	"os"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/metinatakli/cinema-ticketing/internal/app"
	"github.com/metinatakli/cinema-ticketing/internal/service"
	"github.com/redis/go-redis/v9"
)

type TestApp struct {
	App         *app.Application
	DB          *pgxpool.Pool
	RedisClient *redis.Client
	Repos       service.Repositories
}

func newTestApp(cfg app.Config) (*TestApp, error) {
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))

	db, err := app.NewDatabasePool(cfg.DB)
	if err != nil {
		return nil, err
	}

	redisClient, err := app.NewRedisClient(cfg.Redis)
	if err != nil {
		db.Close()
		return nil, err
	}

	repos := app.NewPostgresRepositories(db)

	return &TestApp{
		App:         app.NewApp(cfg, logger, redisClient, repos),
		DB:          db,
		RedisClient: redisClient,
		Repos:       repos,
	}, nil
}

func (a *TestApp) Close() {
	a.DB.Close()
	_ = a.RedisClient.Close()
}

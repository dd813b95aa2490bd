package app

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/exaring/otelpgx"
	"github.com/go-playground/validator/v10"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/metinatakli/cinema-ticketing/internal/repository"
	"github.com/metinatakli/cinema-ticketing/internal/repository/memory"
	"github.com/metinatakli/cinema-ticketing/internal/service"
	appvalidator "github.com/metinatakli/cinema-ticketing/internal/validator"
	"github.com/metinatakli/cinema-ticketing/internal/vcs"
	"github.com/metinatakli/cinema-ticketing/internal/worker"
	"github.com/redis/go-redis/extra/redisotel/v9"
	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"
)

var (
	version = vcs.Version()
)

const (
	StoreMemory   = "memory"
	StorePostgres = "postgres"
)

type Application struct {
	config    Config
	logger    *slog.Logger
	redis     redis.UniversalClient
	validator *validator.Validate
	services  *service.Services
	sweeper   *worker.ExpiryWorker
}

type Config struct {
	Port             int
	Env              string
	Store            string
	OtelCollectorUrl string
	DB               DBConfig
	Redis            RedisConfig
	Booking          service.BookingConfig
	Sweeper          worker.ExpiryWorkerConfig
}

type DBConfig struct {
	DSN          string
	MaxOpenConns int
	MaxIdleTime  time.Duration
}

type RedisConfig struct {
	URL          string
	MaxOpenConns int
	MaxIdleConns int
	MaxIdleTime  time.Duration
	// IdempotencyTTL is how long a completed response is replayed for its key.
	IdempotencyTTL time.Duration
}

func Run() error {
	var cfg Config

	flag.IntVar(&cfg.Port, "port", 3000, "server port")
	flag.StringVar(&cfg.Env, "env", "dev", "Environment (dev|staging|prod)")
	flag.StringVar(&cfg.Store, "store", StorePostgres, "Ticket store (postgres|memory)")
	flag.StringVar(&cfg.OtelCollectorUrl, "otel-collector-url", "", "OpenTelemetry collector gRPC endpoint")

	flag.StringVar(&cfg.DB.DSN, "db-dsn", "", "PostgreSQL DSN")
	flag.IntVar(&cfg.DB.MaxOpenConns, "db-max-open-conns", 25, "PostgreSQL max open connections")
	flag.DurationVar(&cfg.DB.MaxIdleTime, "db-max-idle-time", 15*time.Minute, "PostgreSQL max idle time for connections")

	flag.StringVar(&cfg.Redis.URL, "redis-url", "", "Redis URL, idempotency keys are disabled when empty")
	flag.IntVar(&cfg.Redis.MaxOpenConns, "redis-max-open-conns", 25, "Redis max open connections")
	flag.IntVar(&cfg.Redis.MaxIdleConns, "redis-max-idle-conns", 10, "Redis max idle connections")
	flag.DurationVar(&cfg.Redis.MaxIdleTime, "redis-max-idle-time", 2*time.Minute, "Redis max idle time for connections")
	flag.DurationVar(&cfg.Redis.IdempotencyTTL, "idempotency-ttl", 24*time.Hour, "How long responses are replayed for an idempotency key")

	flag.DurationVar(&cfg.Booking.DefaultHoldTTL, "hold-ttl", service.DefaultHoldTTL, "Default seat hold duration")
	flag.DurationVar(&cfg.Booking.MaxHoldTTL, "max-hold-ttl", service.MaxHoldTTL, "Longest seat hold a client may request")

	sweeperDefaults := worker.DefaultExpiryWorkerConfig()
	flag.DurationVar(&cfg.Sweeper.ScanInterval, "sweep-interval", sweeperDefaults.ScanInterval, "Pause between expired hold sweeps")
	flag.IntVar(&cfg.Sweeper.BatchSize, "sweep-batch-size", sweeperDefaults.BatchSize, "Holds expired per sweep batch")

	displayVersion := flag.Bool("version", false, "Display version and exit")

	flag.Parse()

	if *displayVersion {
		fmt.Printf("Version:\t%s\n", version)
		os.Exit(0)
	}

	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))

	var repos service.Repositories

	switch cfg.Store {
	case StoreMemory:
		logger.Warn("using in-memory store, data will not persist")
		repos = NewMemoryRepositories()

	case StorePostgres:
		err := repository.Migrate(cfg.DB.DSN)
		if err != nil {
			return fmt.Errorf("failed to migrate database: %w", err)
		}

		db, err := NewDatabasePool(cfg.DB)
		if err != nil {
			return err
		}
		defer db.Close()

		repos = NewPostgresRepositories(db)

	default:
		return fmt.Errorf("unknown store %q", cfg.Store)
	}

	var redisClient redis.UniversalClient

	if cfg.Redis.URL != "" {
		client, err := NewRedisClient(cfg.Redis)
		if err != nil {
			return err
		}
		defer client.Close()

		redisClient = client
	}

	app := NewApp(cfg, logger, redisClient, repos)

	shutdownTelemetry, err := app.InitTelemetry()
	if err != nil {
		return err
	}
	defer shutdownTelemetry(context.Background())

	return app.run()
}

// NewApp wires the services on top of repos. redisClient may be nil, in which case
// idempotency keys are ignored.
func NewApp(cfg Config, logger *slog.Logger, redisClient redis.UniversalClient, repos service.Repositories) *Application {
	return &Application{
		config:    cfg,
		logger:    logger,
		redis:     redisClient,
		validator: appvalidator.NewValidator(),
		services:  service.New(repos, logger, time.Now, cfg.Booking),
		sweeper:   worker.NewExpiryWorker(repos.Tickets, cfg.Sweeper, logger, time.Now),
	}
}

func NewPostgresRepositories(db *pgxpool.Pool) service.Repositories {
	return service.Repositories{
		Movies:    repository.NewPostgresMovieRepository(db),
		Showrooms: repository.NewPostgresShowroomRepository(db),
		SeatTypes: repository.NewPostgresSeatTypeRepository(db),
		Seats:     repository.NewPostgresSeatRepository(db),
		Showtimes: repository.NewPostgresShowtimeRepository(db),
		Prices:    repository.NewPostgresPriceRepository(db),
		Tickets:   repository.NewPostgresTicketRepository(db),
	}
}

func NewMemoryRepositories() service.Repositories {
	repos := memory.NewStore().Repositories()

	return service.Repositories{
		Movies:    repos.Movies,
		Showrooms: repos.Showrooms,
		SeatTypes: repos.SeatTypes,
		Seats:     repos.Seats,
		Showtimes: repos.Showtimes,
		Prices:    repos.Prices,
		Tickets:   repos.Tickets,
	}
}

func NewRedisClient(cfg RedisConfig) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:            cfg.URL,
		MaxIdleConns:    cfg.MaxIdleConns,
		MaxActiveConns:  cfg.MaxOpenConns,
		ConnMaxIdleTime: cfg.MaxIdleTime,
	})

	err := errors.Join(redisotel.InstrumentTracing(rdb), redisotel.InstrumentMetrics(rdb))
	if err != nil {
		rdb.Close()
		return nil, err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	err = rdb.Ping(ctx).Err()
	if err != nil {
		rdb.Close()
		return nil, err
	}

	return rdb, nil
}

func NewDatabasePool(cfg DBConfig) (*pgxpool.Pool, error) {
	config, err := pgxpool.ParseConfig(cfg.DSN)
	if err != nil {
		return nil, err
	}

	config.MaxConnIdleTime = cfg.MaxIdleTime
	config.MaxConns = int32(cfg.MaxOpenConns)
	config.ConnConfig.Tracer = otelpgx.NewTracer()

	db, err := pgxpool.NewWithConfig(context.Background(), config)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	err = db.Ping(ctx)
	if err != nil {
		db.Close()
		return nil, err
	}

	return db, nil
}

// run serves HTTP and sweeps expired holds until SIGINT or SIGTERM arrives.
func (app *Application) run() error {
	srv := &http.Server{
		Addr:         fmt.Sprintf("0.0.0.0:%d", app.config.Port),
		Handler:      app.Routes(),
		IdleTimeout:  time.Minute,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		ErrorLog:     slog.NewLogLogger(app.logger.Handler(), slog.LevelDebug),
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		app.logger.Info("starting server", "addr", srv.Addr, "env", app.config.Env, "store", app.config.Store)

		err := srv.ListenAndServe()
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}

		return nil
	})

	g.Go(func() error {
		return app.sweeper.Run(gctx)
	})

	g.Go(func() error {
		<-gctx.Done()

		app.logger.Info("shutting down server", "cause", context.Cause(gctx))

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		return srv.Shutdown(shutdownCtx)
	})

	err := g.Wait()
	if err != nil {
		return err
	}

	app.logger.Info("stopped server", "addr", srv.Addr)

	return nil
}

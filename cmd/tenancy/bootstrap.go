package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/UDFJDC-ModelosProgramacion/MP-202530-G81-E5-ViviendaUniversitaria-Back-sub000/config"
	"github.com/UDFJDC-ModelosProgramacion/MP-202530-G81-E5-ViviendaUniversitaria-Back-sub000/internal/application/tenancy"
	"github.com/UDFJDC-ModelosProgramacion/MP-202530-G81-E5-ViviendaUniversitaria-Back-sub000/internal/domain/uow"
	"github.com/UDFJDC-ModelosProgramacion/MP-202530-G81-E5-ViviendaUniversitaria-Back-sub000/internal/infrastructure/persistence/memory"
	"github.com/UDFJDC-ModelosProgramacion/MP-202530-G81-E5-ViviendaUniversitaria-Back-sub000/internal/infrastructure/persistence/postgres"
	"github.com/UDFJDC-ModelosProgramacion/MP-202530-G81-E5-ViviendaUniversitaria-Back-sub000/internal/infrastructure/persistence/redis"
	"github.com/UDFJDC-ModelosProgramacion/MP-202530-G81-E5-ViviendaUniversitaria-Back-sub000/internal/interface/http/handlers"
	"github.com/UDFJDC-ModelosProgramacion/MP-202530-G81-E5-ViviendaUniversitaria-Back-sub000/pkg/logger"
	"github.com/UDFJDC-ModelosProgramacion/MP-202530-G81-E5-ViviendaUniversitaria-Back-sub000/pkg/retry"
	"github.com/UDFJDC-ModelosProgramacion/MP-202530-G81-E5-ViviendaUniversitaria-Back-sub000/pkg/timeutil"
)

// ══════════════════════════════════════════════════════════════════════════════
// BOOTSTRAP
// ══════════════════════════════════════════════════════════════════════════════

// app holds the wired infrastructure shared by the commands.
type app struct {
	cfg *config.Config
	log *logger.Logger

	units  uow.Factory
	locker tenancy.HousingLocker
	health *handlers.HealthChecker

	pg    *postgres.Connection
	store *memory.Store

	closers []func()
}

func newLogger(cfg *config.Config) *logger.Logger {
	return logger.New(logger.Options{
		Output:    os.Stdout,
		Level:     logger.ParseLevel(cfg.Observability.LogLevel),
		Format:    cfg.Observability.LogFormat,
		AddCaller: true,
	}).With(
		logger.String("service", cfg.App.Name),
		logger.String("env", string(cfg.App.Environment)),
	)
}

// loadConfig reads the configuration and builds the root logger.
func loadConfig() (*config.Config, *logger.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load config: %w", err)
	}
	return cfg, newLogger(cfg), nil
}

// connectWithRetry retries fn while a dependency is still starting. Errors
// matching one of fatal (a malformed URL, say) fail on the first attempt.
func connectWithRetry[T any](
	ctx context.Context,
	log *logger.Logger,
	target string,
	fn func(context.Context) (T, error),
	fatal ...error,
) (T, error) {
	attempt := func(ctx context.Context) (T, error) {
		v, err := fn(ctx)
		for _, fatalErr := range fatal {
			if errors.Is(err, fatalErr) {
				return v, retry.Permanent(err)
			}
		}
		return v, err
	}
	return retry.DoWithData(ctx, attempt, retry.WithOnRetry(func(attempt int, err error, delay time.Duration) {
		log.Warn("connection attempt failed, retrying",
			logger.String("target", target),
			logger.Int("attempt", attempt),
			logger.Duration("delay", delay),
			logger.Err(err),
		)
	}))
}

// connectPostgres opens the pool with start-up retries.
func connectPostgres(ctx context.Context, cfg *config.Config, log *logger.Logger) (*postgres.Connection, error) {
	opts := postgres.PoolOptions{
		MaxConns:        cfg.Database.MaxConns,
		MinConns:        cfg.Database.MinConns,
		MaxConnLifetime: cfg.Database.ConnMaxLifetime,
		MaxConnIdleTime: cfg.Database.ConnMaxIdleTime,
	}
	log.Info("connecting to database")
	conn, err := connectWithRetry(ctx, log, "postgres", func(ctx context.Context) (*postgres.Connection, error) {
		return postgres.Connect(ctx, cfg.Database.URL, opts)
	}, postgres.ErrInvalidURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	log.Info("database connection established")
	return conn, nil
}

// bootstrap wires the store, the housing lock and the health checks
// according to cfg.
func bootstrap(ctx context.Context, cfg *config.Config, log *logger.Logger) (*app, error) {
	a := &app{
		cfg:    cfg,
		log:    log,
		health: handlers.NewHealthChecker(cfg.App.Version),
	}

	switch cfg.Database.Driver {
	case config.DriverMemory:
		log.Warn("using in-memory store, data is lost on exit")
		a.store = memory.New()
		a.units = a.store
	default:
		conn, err := connectPostgres(ctx, cfg, log)
		if err != nil {
			return nil, err
		}
		a.pg = conn
		a.closers = append(a.closers, func() {
			log.Info("closing database connection")
			conn.Close()
		})
		a.units = postgres.NewUnitOfWorkFactory(conn)
		a.health.AddCheck("postgres", handlers.PingCheck(conn))

		if cfg.Database.AutoMigrate {
			applied, err := postgres.NewMigrator(conn).Up(ctx)
			if err != nil {
				a.Close()
				return nil, fmt.Errorf("failed to run migrations: %w", err)
			}
			log.Info("database schema is up to date", logger.Any("applied", applied))
		}
	}

	if cfg.Redis.Enabled {
		client, err := connectWithRetry(ctx, log, "redis", func(ctx context.Context) (*redis.Client, error) {
			return redis.Connect(ctx, redis.Config{
				URL:          cfg.Redis.URL,
				PoolSize:     cfg.Redis.PoolSize,
				DialTimeout:  cfg.Redis.DialTimeout,
				ReadTimeout:  cfg.Redis.ReadTimeout,
				WriteTimeout: cfg.Redis.WriteTimeout,
			})
		}, redis.ErrInvalidURL)
		if err != nil {
			a.Close()
			return nil, fmt.Errorf("failed to connect to redis: %w", err)
		}
		a.closers = append(a.closers, func() {
			log.Info("closing redis connection")
			_ = client.Close()
		})
		a.locker = redis.NewHousingLocker(client, redis.HousingLockOptions{
			TTL:  cfg.Redis.LockTTL,
			Wait: cfg.Redis.LockWait,
		}, log)
		a.health.AddCheck("redis", handlers.PingCheck(client))
		log.Info("using redis housing lock")
	} else {
		a.locker = tenancy.NewLocalLocker()
	}

	return a, nil
}

// engine builds the tenancy engine on the wired infrastructure.
func (a *app) engine() *tenancy.Engine {
	return tenancy.New(tenancy.Options{
		Units:  a.units,
		Locker: a.locker,
		Clock:  timeutil.NewSystemClock(a.cfg.App.Location),
		Logger: a.log,
	})
}

// Close releases connections in reverse order of creation.
func (a *app) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
	a.closers = nil
}

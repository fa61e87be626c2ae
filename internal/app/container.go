package app

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/felixgeelhaar/orbita/internal/scheduling/application/cascade"
	"github.com/felixgeelhaar/orbita/internal/scheduling/application/commands"
	"github.com/felixgeelhaar/orbita/internal/scheduling/application/decision"
	"github.com/felixgeelhaar/orbita/internal/scheduling/application/energy"
	"github.com/felixgeelhaar/orbita/internal/scheduling/domain"
	"github.com/felixgeelhaar/orbita/internal/scheduling/infrastructure/locking"
	schedulePersistence "github.com/felixgeelhaar/orbita/internal/scheduling/infrastructure/persistence"
	"github.com/felixgeelhaar/orbita/internal/scheduling/infrastructure/retry"
	sharedApplication "github.com/felixgeelhaar/orbita/internal/shared/application"
	"github.com/felixgeelhaar/orbita/internal/shared/infrastructure/eventbus"
	"github.com/felixgeelhaar/orbita/internal/shared/infrastructure/migrations"
	"github.com/felixgeelhaar/orbita/internal/shared/infrastructure/outbox"
	sharedPersistence "github.com/felixgeelhaar/orbita/internal/shared/infrastructure/persistence"
	"github.com/felixgeelhaar/orbita/pkg/config"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	_ "modernc.org/sqlite" // registers the "sqlite" database/sql driver
)

// Container holds every dependency the scheduler binaries need, wired
// once at startup and threaded through to the HTTP and CLI adapters.
type Container struct {
	Config *config.Config
	Logger *slog.Logger

	// Database
	Pool *pgxpool.Pool // nil in local/SQLite mode
	DB   *sql.DB       // nil in Postgres mode

	// Redis, used for the distributed lock in multi-instance deployments.
	RedisClient *redis.Client

	// Repositories
	Tasks    domain.TaskRepository
	Items    domain.ScheduleItemRepository
	Samples  domain.EnergySampleRepository
	Patterns domain.HistoricalPatternRepository
	Sleep    domain.SleepScheduleRepository

	OutboxRepo outbox.Repository
	UnitOfWork sharedApplication.UnitOfWork
	Locker     locking.Locker

	EventPublisher eventbus.Publisher

	Energy   *energy.Providers
	Engine   *decision.Engine
	Resolver *cascade.Resolver
	Handlers *commands.Handlers

	OutboxProcessor *outbox.Processor

	Location *time.Location
}

// NewContainer creates a production container backed by PostgreSQL,
// Redis (distributed locking) and RabbitMQ (event transport).
func NewContainer(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Container, error) {
	pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	logger.Info("connected to database")

	if err := migrations.RunPostgresMigrations(ctx, pool); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	loc, err := time.LoadLocation(cfg.DefaultTimezone)
	if err != nil {
		pool.Close()
		return nil, fmt.Errorf("invalid default timezone %q: %w", cfg.DefaultTimezone, err)
	}

	c := &Container{
		Config:   cfg,
		Logger:   logger,
		Pool:     pool,
		Location: loc,
	}

	c.Tasks = retry.WrapTaskRepository(schedulePersistence.NewPostgresTaskRepository(pool), retry.DefaultConfig())
	c.Items = retry.WrapScheduleItemRepository(schedulePersistence.NewPostgresScheduleItemRepository(pool), retry.DefaultConfig())
	c.Samples = schedulePersistence.NewPostgresEnergySampleRepository(pool)
	c.Patterns = schedulePersistence.NewPostgresHistoricalPatternRepository(pool)
	c.Sleep = schedulePersistence.NewPostgresSleepScheduleRepository(pool)
	c.OutboxRepo = outbox.NewPostgresRepository(pool)
	c.UnitOfWork = sharedPersistence.NewPostgresUnitOfWork(pool)

	if cfg.RedisURL != "" {
		opt, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			pool.Close()
			return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
		}
		redisClient := redis.NewClient(opt)
		if err := redisClient.Ping(ctx).Err(); err != nil {
			pool.Close()
			return nil, fmt.Errorf("failed to connect to Redis: %w", err)
		}
		c.RedisClient = redisClient
		c.Locker = locking.NewRedisLocker(redisClient, 30*time.Second)
		logger.Info("connected to Redis", "lock_mode", "distributed")
	} else {
		c.Locker = locking.NewKeyedMutex()
		logger.Warn("REDIS_URL not set, falling back to in-process locking (single-instance only)")
	}

	publisher, err := eventbus.NewRabbitMQPublisher(cfg.RabbitMQURL, logger)
	if err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}
	c.EventPublisher = publisher

	c.wireApplication(logger)

	processorConfig := outbox.ProcessorConfig{
		PollInterval: cfg.OutboxPollInterval,
		BatchSize:    cfg.OutboxBatchSize,
		MaxRetries:   cfg.OutboxMaxRetries,
	}
	c.OutboxProcessor = outbox.NewProcessor(c.OutboxRepo, c.EventPublisher, processorConfig, logger)

	return c, nil
}

// NewDevelopmentContainer wires an ephemeral in-memory SQLite-backed
// container for running the HTTP/CLI surface without any external
// services or a persistent data file; state is lost on exit.
func NewDevelopmentContainer(ctx context.Context, logger *slog.Logger) (*Container, error) {
	cfg := &config.Config{AppEnv: "development", DefaultTimezone: "UTC", SQLitePath: ":memory:"}
	c, err := NewLocalContainer(ctx, cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize development container: %w", err)
	}
	return c, nil
}

// NewLocalContainer wires a zero-config container backed by SQLite,
// for offline/single-user operation (the CLI's default mode).
func NewLocalContainer(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Container, error) {
	db, err := sql.Open("sqlite", cfg.SQLitePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open SQLite database: %w", err)
	}
	if cfg.SQLitePath == ":memory:" {
		// A pooled connection would otherwise open a fresh, empty
		// in-memory database per connection; pin the pool to one.
		db.SetMaxOpenConns(1)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping SQLite database: %w", err)
	}
	if err := migrations.RunSQLiteMigrations(ctx, db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	loc, err := time.LoadLocation(cfg.DefaultTimezone)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("invalid default timezone %q: %w", cfg.DefaultTimezone, err)
	}

	c := &Container{
		Config:   cfg,
		Logger:   logger,
		DB:       db,
		Location: loc,
	}

	c.Tasks = schedulePersistence.NewSQLiteTaskRepository(db)
	c.Items = schedulePersistence.NewSQLiteScheduleItemRepository(db)
	c.Samples = schedulePersistence.NewSQLiteEnergySampleRepository(db)
	c.Patterns = schedulePersistence.NewSQLiteHistoricalPatternRepository(db)
	c.Sleep = schedulePersistence.NewSQLiteSleepScheduleRepository(db)
	c.OutboxRepo = outbox.NewSQLiteRepository(db)
	c.UnitOfWork = sharedPersistence.NewSQLiteUnitOfWork(db)
	c.Locker = locking.NewKeyedMutex() // single-process local mode, no Redis
	c.EventPublisher = eventbus.NewNoopPublisher(logger)

	c.wireApplication(logger)

	logger.Info("local mode container initialized", "database", cfg.SQLitePath, "driver", "sqlite")
	return c, nil
}

// wireApplication builds the Energy Substrate, Decision Engine, Cascade
// Resolver and Core API Surface handlers on top of whichever
// repositories the caller has already assigned to c.
func (c *Container) wireApplication(logger *slog.Logger) {
	c.Energy = energy.NewProviders(c.Samples, c.Patterns, c.Sleep)
	c.Engine = decision.NewEngine(c.Energy, c.Items, c.Sleep, c.Location)
	c.Resolver = cascade.NewResolver(c.Tasks, c.Items, c.Engine, c.Location)
	c.Handlers = commands.NewHandlers(c.Tasks, c.Items, c.Engine, c.Resolver, c.OutboxRepo, c.UnitOfWork, c.Location, c.Locker)
	logger.Debug("scheduling application layer wired")
}

// Close releases every resource the container opened.
func (c *Container) Close() {
	if c.OutboxProcessor != nil {
		c.OutboxProcessor.Stop()
	}
	if c.EventPublisher != nil {
		if err := c.EventPublisher.Close(); err != nil {
			c.Logger.Warn("error closing event publisher", "error", err)
		}
	}
	if c.RedisClient != nil {
		if err := c.RedisClient.Close(); err != nil {
			c.Logger.Warn("error closing Redis connection", "error", err)
		}
	}
	if c.Pool != nil {
		c.Pool.Close()
		c.Logger.Info("PostgreSQL connection closed")
	}
	if c.DB != nil {
		if err := c.DB.Close(); err != nil {
			c.Logger.Warn("error closing SQLite connection", "error", err)
		} else {
			c.Logger.Info("SQLite connection closed")
		}
	}
}

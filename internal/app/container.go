// Package app wires configuration, storage, messaging and the
// application services into a single container consumed by the CLI.
package app

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	billingApp "github.com/felixgeelhaar/duet/internal/billing/application"
	billingDomain "github.com/felixgeelhaar/duet/internal/billing/domain"
	billingPersistence "github.com/felixgeelhaar/duet/internal/billing/infrastructure/persistence"
	contentApp "github.com/felixgeelhaar/duet/internal/content/application"
	contentDomain "github.com/felixgeelhaar/duet/internal/content/domain"
	contentPersistence "github.com/felixgeelhaar/duet/internal/content/infrastructure/persistence"
	"github.com/felixgeelhaar/duet/internal/notifications"
	onboardingApp "github.com/felixgeelhaar/duet/internal/onboarding/application"
	onboardingDomain "github.com/felixgeelhaar/duet/internal/onboarding/domain"
	onboardingPersistence "github.com/felixgeelhaar/duet/internal/onboarding/infrastructure/persistence"
	pairingApp "github.com/felixgeelhaar/duet/internal/pairing/application"
	pairingDomain "github.com/felixgeelhaar/duet/internal/pairing/domain"
	pairingInfra "github.com/felixgeelhaar/duet/internal/pairing/infrastructure"
	pairingPersistence "github.com/felixgeelhaar/duet/internal/pairing/infrastructure/persistence"
	"github.com/felixgeelhaar/duet/internal/readiness"
	sharedApplication "github.com/felixgeelhaar/duet/internal/shared/application"
	"github.com/felixgeelhaar/duet/internal/shared/infrastructure/database"
	"github.com/felixgeelhaar/duet/internal/shared/infrastructure/eventbus"
	"github.com/felixgeelhaar/duet/internal/shared/infrastructure/migrations"
	sharedPersistence "github.com/felixgeelhaar/duet/internal/shared/infrastructure/persistence"
	"github.com/felixgeelhaar/duet/pkg/config"
	"github.com/felixgeelhaar/duet/pkg/observability"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
)

// Container holds all application dependencies.
type Container struct {
	Config *config.Config
	Logger *slog.Logger
	UserID uuid.UUID

	// Database
	DBDriver database.Driver
	PgPool   *pgxpool.Pool
	SQLiteDB *sql.DB

	// Redis (nil in zero-config local mode)
	RedisClient *redis.Client

	// Repositories
	SubscriptionRepo billingDomain.SubscriptionRepository
	ConnectionRepo   pairingDomain.ConnectionRepository
	ProgressRepo     contentDomain.ProgressRepository
	AnswerRepo       onboardingDomain.AnswerRepository
	ProfileRepo      onboardingDomain.ProfileRepository
	CodeStore        pairingDomain.CodeStore

	// Messaging
	EventPublisher eventbus.Publisher

	// Unit of Work
	UnitOfWork sharedApplication.UnitOfWork

	// Services
	Billing    *billingApp.Service
	Pairing    *pairingApp.Service
	Progress   *contentApp.ProgressService
	Stream     *contentApp.StreamBuilder
	Waiter     *readiness.Waiter
	Onboarding *onboardingApp.Flow
}

// NewContainer builds the full dependency graph. Storage, code store and
// event transport are all selected from configuration: Postgres + Redis +
// RabbitMQ in server mode, SQLite + in-memory stores with no external
// services in local mode.
func NewContainer(ctx context.Context) (*Container, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return NewContainerWithConfig(ctx, cfg)
}

// NewContainerWithConfig builds the dependency graph from an explicit
// configuration.
func NewContainerWithConfig(ctx context.Context, cfg *config.Config) (*Container, error) {
	logger := observability.NewLogger(logConfigFor(cfg))

	userID, err := uuid.Parse(cfg.UserID)
	if err != nil {
		return nil, fmt.Errorf("invalid user id %q: %w", cfg.UserID, err)
	}

	c := &Container{
		Config:   cfg,
		Logger:   logger,
		UserID:   userID,
		DBDriver: database.DetectDriver(cfg.DatabaseURL),
	}

	if err := c.initDatabase(ctx); err != nil {
		return nil, err
	}
	if err := c.initRedis(ctx); err != nil {
		c.Close()
		return nil, err
	}
	if err := c.initMessaging(); err != nil {
		c.Close()
		return nil, err
	}
	c.initServices()

	logger.Info("container initialized",
		"driver", c.DBDriver,
		"redis", c.RedisClient != nil,
		"rabbitmq", cfg.RabbitMQURL != "",
	)
	return c, nil
}

func logConfigFor(cfg *config.Config) observability.LogConfig {
	logCfg := observability.DefaultLogConfig()
	if cfg.AppEnv == "production" {
		logCfg = observability.ProductionLogConfig()
	}
	logCfg.Level = observability.LogLevel(cfg.LogLevel)
	return logCfg
}

func (c *Container) initDatabase(ctx context.Context) error {
	switch c.DBDriver {
	case database.DriverPostgres:
		pool, err := database.NewPostgresPool(ctx, c.Config.DatabaseURL)
		if err != nil {
			return fmt.Errorf("failed to connect to postgres: %w", err)
		}
		c.PgPool = pool
		c.UnitOfWork = sharedPersistence.NewPostgresUnitOfWork(pool)
		c.SubscriptionRepo = billingPersistence.NewPostgresSubscriptionRepository(pool)
		c.ConnectionRepo = pairingPersistence.NewPostgresConnectionRepository(pool)
		c.ProgressRepo = contentPersistence.NewPostgresProgressRepository(pool)
		c.AnswerRepo = onboardingPersistence.NewPostgresAnswerRepository(pool)
		c.ProfileRepo = onboardingPersistence.NewPostgresProfileRepository(pool)

	case database.DriverSQLite:
		dbConn, err := database.NewSQLiteDB(ctx, c.Config.SQLitePath)
		if err != nil {
			return fmt.Errorf("failed to open sqlite database: %w", err)
		}
		if err := migrations.RunSQLiteMigrations(ctx, dbConn); err != nil {
			_ = dbConn.Close()
			return fmt.Errorf("failed to run sqlite migrations: %w", err)
		}
		c.SQLiteDB = dbConn
		c.UnitOfWork = sharedPersistence.NewSQLiteUnitOfWork(dbConn)
		c.SubscriptionRepo = billingPersistence.NewSQLiteSubscriptionRepository(dbConn)
		c.ConnectionRepo = pairingPersistence.NewSQLiteConnectionRepository(dbConn)
		c.ProgressRepo = contentPersistence.NewSQLiteProgressRepository(dbConn)
		c.AnswerRepo = onboardingPersistence.NewSQLiteAnswerRepository(dbConn)
		c.ProfileRepo = onboardingPersistence.NewSQLiteProfileRepository(dbConn)

	default:
		return fmt.Errorf("unsupported database driver: %s", c.DBDriver)
	}
	return nil
}

func (c *Container) initRedis(ctx context.Context) error {
	if c.Config.RedisURL == "" {
		c.CodeStore = pairingPersistence.NewMemoryCodeStore()
		return nil
	}

	opts, err := redis.ParseURL(c.Config.RedisURL)
	if err != nil {
		return fmt.Errorf("invalid redis url: %w", err)
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return fmt.Errorf("failed to connect to redis: %w", err)
	}
	c.RedisClient = client
	c.CodeStore = pairingPersistence.NewRedisCodeStore(client)
	return nil
}

func (c *Container) initMessaging() error {
	if c.Config.RabbitMQURL == "" {
		// Local mode: events dispatch synchronously to the same
		// consumers the worker would run against RabbitMQ.
		bus := eventbus.NewInProcessEventBus(c.Logger)
		bus.RegisterConsumer(notifications.NewConsumer(notifications.NewLogSender(c.Logger), c.Logger))
		c.EventPublisher = bus
		return nil
	}

	publisher, err := eventbus.NewRabbitMQPublisher(c.Config.RabbitMQURL, c.Logger)
	if err != nil {
		return fmt.Errorf("failed to connect to rabbitmq: %w", err)
	}
	c.EventPublisher = publisher
	return nil
}

func (c *Container) initServices() {
	c.Billing = billingApp.NewService(c.SubscriptionRepo)

	backend := pairingInfra.NewLocalBackend(
		c.CodeStore,
		c.ConnectionRepo,
		c.Billing,
		c.UnitOfWork,
		c.Config.PairingCodeTTL,
		c.Logger,
	)
	c.Pairing = pairingApp.NewService(c.UserID, backend, c.Billing, c.EventPublisher, c.Logger)

	c.Progress = contentApp.NewProgressService(c.UserID, c.ProgressRepo, c.EventPublisher, c.Logger)
	c.Stream = contentApp.NewStreamBuilder(c.Progress)

	c.Waiter = readiness.NewWaiter(readiness.Options{
		MinimumDuration: c.Config.ReadinessMinimum,
		MaximumTimeout:  c.Config.ReadinessTimeout,
		PollInterval:    c.Config.ReadinessPollInterval,
	}, c.Logger)

	c.Onboarding = onboardingApp.NewFlow(
		c.UserID,
		onboardingDomain.DefaultSequence(),
		c.AnswerRepo,
		c.ProfileRepo,
		c.Waiter,
		c.EventPublisher,
		c.Logger,
	)
}

// Close releases all held resources.
func (c *Container) Close() {
	if c.EventPublisher != nil {
		if err := c.EventPublisher.Close(); err != nil {
			c.Logger.Warn("failed to close event publisher", "error", err)
		}
	}
	if c.RedisClient != nil {
		if err := c.RedisClient.Close(); err != nil {
			c.Logger.Warn("failed to close redis client", "error", err)
		}
	}
	if c.PgPool != nil {
		c.PgPool.Close()
	}
	if c.SQLiteDB != nil {
		if err := c.SQLiteDB.Close(); err != nil {
			c.Logger.Warn("failed to close sqlite database", "error", err)
		}
	}
}

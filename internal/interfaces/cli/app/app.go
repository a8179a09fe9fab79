// Package app wires configuration, storage and the occupancy services for the
// command line entry points.
package app

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/mietwerk/mietwerk/internal/application/occupancy/services"
	rentalunitUsecases "github.com/mietwerk/mietwerk/internal/application/rentalunit/usecases"
	"github.com/mietwerk/mietwerk/internal/infrastructure/cache"
	"github.com/mietwerk/mietwerk/internal/infrastructure/config"
	"github.com/mietwerk/mietwerk/internal/infrastructure/database"
	"github.com/mietwerk/mietwerk/internal/infrastructure/repository"
	"github.com/mietwerk/mietwerk/internal/shared/biztime"
	"github.com/mietwerk/mietwerk/internal/shared/logger"
)

const redisPingTimeout = 5 * time.Second

// App holds the process wide dependencies of a command.
type App struct {
	Config *config.Config
	Log    logger.Interface
	DB     *gorm.DB

	Ledger       *services.CapacityLedger
	Hierarchy    *services.HierarchyAggregator
	Synchronizer *services.AvailabilitySynchronizer

	Recalculate  *rentalunitUsecases.RecalculateAvailabilityUseCase
	GetOccupancy *rentalunitUsecases.GetUnitOccupancyUseCase

	redisClient *redis.Client
}

// Bootstrap loads config, logger, business timezone and database for env.
// The returned App has no services yet; see Open.
func Bootstrap(env string) (*App, error) {
	cfg, err := config.Load(env)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	if err := logger.Init(&cfg.Logger); err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	if err := biztime.Init(cfg.Server.Timezone); err != nil {
		return nil, fmt.Errorf("failed to initialize business timezone: %w", err)
	}

	if err := database.Init(&cfg.Database); err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	return &App{
		Config: cfg,
		Log:    logger.NewLogger(),
		DB:     database.Get(),
	}, nil
}

// Open bootstraps env and builds the occupancy services on top of it.
func Open(ctx context.Context, env string) (*App, error) {
	a, err := Bootstrap(env)
	if err != nil {
		return nil, err
	}

	occupancyCache, err := a.occupancyCache(ctx)
	if err != nil {
		_ = a.Close()
		return nil, err
	}

	clock := biztime.SystemClock()
	unitRepo := repository.NewRentalUnitRepository(a.DB, a.Log)
	contractRepo := repository.NewContractRepository(a.DB, a.Log)
	assignmentRepo := repository.NewContractAssignmentRepository(a.DB, a.Log)

	a.Ledger = services.NewCapacityLedger(contractRepo, assignmentRepo, clock, a.Log)
	a.Hierarchy = services.NewHierarchyAggregator(unitRepo, a.Ledger, occupancyCache, a.Log)
	a.Synchronizer = services.NewAvailabilitySynchronizer(unitRepo, a.Ledger, a.Config.Availability.BatchSize, a.Log)

	a.Recalculate = rentalunitUsecases.NewRecalculateAvailabilityUseCase(a.Synchronizer, a.Log)
	a.GetOccupancy = rentalunitUsecases.NewGetUnitOccupancyUseCase(unitRepo, a.Ledger, a.Hierarchy, a.Log)

	return a, nil
}

// occupancyCache returns the Redis backed cache when enabled, a no-op cache otherwise.
func (a *App) occupancyCache(ctx context.Context) (services.OccupancyCache, error) {
	if !a.Config.Redis.Enabled {
		return cache.NopOccupancyCache{}, nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     a.Config.Redis.GetAddr(),
		Password: a.Config.Redis.Password,
		DB:       a.Config.Redis.DB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, redisPingTimeout)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}
	a.Log.Infow("redis connection established", "address", a.Config.Redis.GetAddr())

	a.redisClient = client
	return cache.NewRedisOccupancyCache(client, a.Config.Redis.OccupancyTTL(), biztime.SystemClock(), a.Log), nil
}

// Close releases redis and database connections and flushes the logger.
func (a *App) Close() error {
	if a.redisClient != nil {
		if err := a.redisClient.Close(); err != nil {
			a.Log.Warnw("failed to close redis client", "error", err)
		}
	}
	err := database.Close()
	_ = logger.Sync()
	return err
}

package commands

import (
	"context"
	"fmt"

	"github.com/vsinha/kitchen-mrp/pkg/config"
	"github.com/vsinha/kitchen-mrp/pkg/domain/repositories"
	"github.com/vsinha/kitchen-mrp/pkg/infrastructure/circuitbreaker"
	"github.com/vsinha/kitchen-mrp/pkg/infrastructure/repositories/memory"
	"github.com/vsinha/kitchen-mrp/pkg/infrastructure/repositories/mongodb"
	"github.com/vsinha/kitchen-mrp/pkg/infrastructure/repositories/postgres"
)

// Backend is the durable side of a run: the document store the outbox
// writes to and the notification repository the reorder monitor uses
type Backend struct {
	Name          string
	Store         repositories.DocumentStore
	Notifications repositories.NotificationRepository
	Breaker       *circuitbreaker.CircuitBreaker

	close func(ctx context.Context) error
}

// Close releases the backend's connections
func (b *Backend) Close(ctx context.Context) error {
	if b.close == nil {
		return nil
	}
	return b.close(ctx)
}

// OpenBackend connects to the store selected by cfg.Backend
func OpenBackend(ctx context.Context, cfg config.StoreConfig) (*Backend, error) {
	breaker := circuitbreaker.New(circuitbreaker.Config{
		FailureThreshold: cfg.CircuitBreakerFailureThreshold,
		SuccessThreshold: cfg.CircuitBreakerSuccessThreshold,
		Timeout:          cfg.CircuitBreakerTimeout,
		Name:             cfg.Backend,
	})

	switch cfg.Backend {
	case config.BackendMemory, "":
		return &Backend{
			Name:          config.BackendMemory,
			Store:         memory.NewDocumentStore(),
			Notifications: memory.NewNotificationRepository(),
			Breaker:       breaker,
		}, nil

	case config.BackendMongoDB:
		db, err := mongodb.Connect(ctx, cfg.MongoURI, cfg.MongoDatabase)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
		}
		return &Backend{
			Name:  config.BackendMongoDB,
			Store: mongodb.NewDocumentStore(db),
			Notifications: mongodb.NewNotificationRepositoryWithCircuitBreaker(
				mongodb.NewNotificationRepository(db), breaker),
			Breaker: breaker,
			close:   db.Close,
		}, nil

	case config.BackendPostgres:
		if cfg.PostgresURL == "" {
			return nil, fmt.Errorf("DATABASE_URL is required for the postgres backend")
		}
		pool, err := postgres.NewPool(ctx, cfg.PostgresURL)
		if err != nil {
			return nil, err
		}
		if err := postgres.Migrate(ctx, pool); err != nil {
			pool.Close()
			return nil, err
		}
		return &Backend{
			Name:  config.BackendPostgres,
			Store: postgres.NewDocumentStore(pool),
			Notifications: mongodb.NewNotificationRepositoryWithCircuitBreaker(
				postgres.NewNotificationRepository(pool), breaker),
			Breaker: breaker,
			close: func(context.Context) error {
				pool.Close()
				return nil
			},
		}, nil

	default:
		return nil, fmt.Errorf("unknown store backend: %s", cfg.Backend)
	}
}

package mongodb

import (
	"context"
	"errors"

	"github.com/vsinha/kitchen-mrp/pkg/domain/entities"
	"github.com/vsinha/kitchen-mrp/pkg/domain/repositories"
	"github.com/vsinha/kitchen-mrp/pkg/infrastructure/circuitbreaker"
)

// NotificationRepositoryWithCircuitBreaker wraps a NotificationRepository with circuit breaker protection.
type NotificationRepositoryWithCircuitBreaker struct {
	repo           repositories.NotificationRepository
	circuitBreaker *circuitbreaker.CircuitBreaker
}

// NewNotificationRepositoryWithCircuitBreaker creates a new repository wrapper with circuit breaker.
func NewNotificationRepositoryWithCircuitBreaker(repo repositories.NotificationRepository, cb *circuitbreaker.CircuitBreaker) *NotificationRepositoryWithCircuitBreaker {
	return &NotificationRepositoryWithCircuitBreaker{
		repo:           repo,
		circuitBreaker: cb,
	}
}

var _ repositories.NotificationRepository = (*NotificationRepositoryWithCircuitBreaker)(nil)

// Create stores a notification. A duplicate is a valid answer, not a store
// failure, so it does not count against the breaker.
func (r *NotificationRepositoryWithCircuitBreaker) Create(ctx context.Context, n *entities.Notification) error {
	var dup error
	err := r.circuitBreaker.Execute(ctx, func() error {
		cbErr := r.repo.Create(ctx, n)
		if errors.Is(cbErr, repositories.ErrDuplicateNotification) {
			dup = cbErr
			return nil
		}
		return cbErr
	})
	if dup != nil {
		return dup
	}
	return err
}

// ExistsByDedupeKey checks for an alert with circuit breaker protection.
func (r *NotificationRepositoryWithCircuitBreaker) ExistsByDedupeKey(ctx context.Context, key string) (bool, error) {
	var exists bool
	err := r.circuitBreaker.Execute(ctx, func() error {
		var cbErr error
		exists, cbErr = r.repo.ExistsByDedupeKey(ctx, key)
		return cbErr
	})
	return exists, err
}

// List returns notifications with circuit breaker protection.
func (r *NotificationRepositoryWithCircuitBreaker) List(ctx context.Context, outletID string) ([]*entities.Notification, error) {
	var result []*entities.Notification
	err := r.circuitBreaker.Execute(ctx, func() error {
		var cbErr error
		result, cbErr = r.repo.List(ctx, outletID)
		return cbErr
	})
	return result, err
}

// GetCircuitBreaker returns the underlying circuit breaker for monitoring.
func (r *NotificationRepositoryWithCircuitBreaker) GetCircuitBreaker() *circuitbreaker.CircuitBreaker {
	return r.circuitBreaker
}

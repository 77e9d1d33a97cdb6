package memory

import (
	"context"
	"sync"

	"github.com/vsinha/kitchen-mrp/pkg/domain/entities"
	"github.com/vsinha/kitchen-mrp/pkg/domain/repositories"
)

// NotificationRepository provides in-memory notification storage with a
// unique dedupe key
type NotificationRepository struct {
	mu            sync.RWMutex
	notifications []entities.Notification
	keys          map[string]bool
}

// NewNotificationRepository creates an empty notification repository
func NewNotificationRepository() *NotificationRepository {
	return &NotificationRepository{keys: make(map[string]bool)}
}

// Verify interface compliance
var _ repositories.NotificationRepository = (*NotificationRepository)(nil)

// Create stores n, failing with ErrDuplicateNotification on a repeated dedupe key
func (r *NotificationRepository) Create(ctx context.Context, n *entities.Notification) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if n.DedupeKey != "" {
		if r.keys[n.DedupeKey] {
			return repositories.ErrDuplicateNotification
		}
		r.keys[n.DedupeKey] = true
	}
	r.notifications = append(r.notifications, *n)
	return nil
}

// ExistsByDedupeKey reports whether a notification with key was stored
func (r *NotificationRepository) ExistsByDedupeKey(ctx context.Context, key string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.keys[key], nil
}

// List returns notifications for an outlet, or all when outletID is empty
func (r *NotificationRepository) List(ctx context.Context, outletID string) ([]*entities.Notification, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*entities.Notification, 0, len(r.notifications))
	for i := range r.notifications {
		if outletID != "" && r.notifications[i].OutletID != outletID {
			continue
		}
		n := r.notifications[i]
		out = append(out, &n)
	}
	return out, nil
}

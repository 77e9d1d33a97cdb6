package repositories

import (
	"context"
	"errors"

	"github.com/vsinha/kitchen-mrp/pkg/domain/entities"
)

// ErrDuplicateNotification is returned by Create when a notification with the
// same dedupe key already exists
var ErrDuplicateNotification = errors.New("duplicate notification")

// NotificationRepository stores notification-center entries
type NotificationRepository interface {
	Create(ctx context.Context, n *entities.Notification) error
	ExistsByDedupeKey(ctx context.Context, key string) (bool, error)
	List(ctx context.Context, outletID string) ([]*entities.Notification, error)
}

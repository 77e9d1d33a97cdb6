package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/vsinha/kitchen-mrp/pkg/domain/entities"
	"github.com/vsinha/kitchen-mrp/pkg/domain/repositories"
	"github.com/vsinha/kitchen-mrp/pkg/infrastructure/repositories/codec"
)

const uniqueViolation = "23505"

// NotificationRepository stores notifications with a unique dedupe_key column
type NotificationRepository struct {
	pool *pgxpool.Pool
}

func NewNotificationRepository(pool *pgxpool.Pool) *NotificationRepository {
	return &NotificationRepository{pool: pool}
}

var _ repositories.NotificationRepository = (*NotificationRepository)(nil)

func (r *NotificationRepository) Create(ctx context.Context, n *entities.Notification) error {
	doc, err := codec.ToDocument(n)
	if err != nil {
		return err
	}

	// NULL keys never collide under a UNIQUE constraint
	var key *string
	if n.DedupeKey != "" {
		key = &n.DedupeKey
	}

	_, err = r.pool.Exec(ctx, `
		INSERT INTO notifications (id, dedupe_key, outlet_id, created_at, data) VALUES ($1, $2, $3, $4, $5)
	`, n.ID, key, n.OutletID, n.Timestamp, doc)

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation && pgErr.ConstraintName != "notifications_pkey" {
		return fmt.Errorf("%w: %s", repositories.ErrDuplicateNotification, n.DedupeKey)
	}
	return err
}

func (r *NotificationRepository) ExistsByDedupeKey(ctx context.Context, key string) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx,
		"SELECT EXISTS (SELECT 1 FROM notifications WHERE dedupe_key = $1)", key,
	).Scan(&exists)
	return exists, err
}

// List returns notifications oldest first; an empty outletID lists all outlets
func (r *NotificationRepository) List(ctx context.Context, outletID string) ([]*entities.Notification, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT data FROM notifications
		WHERE $1 = '' OR outlet_id = $1
		ORDER BY created_at, id
	`, outletID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*entities.Notification
	for rows.Next() {
		var doc map[string]any
		if err := rows.Scan(&doc); err != nil {
			return nil, err
		}
		var n entities.Notification
		if err := codec.FromDocument(doc, &n); err != nil {
			return nil, err
		}
		out = append(out, &n)
	}
	return out, rows.Err()
}

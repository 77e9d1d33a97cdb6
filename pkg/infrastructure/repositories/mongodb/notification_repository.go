package mongodb

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/vsinha/kitchen-mrp/pkg/domain/entities"
	"github.com/vsinha/kitchen-mrp/pkg/domain/repositories"
)

// NotificationRepository stores notifications in the notifications collection.
// The unique dedupeKey index makes concurrent duplicate alerts fail on insert.
type NotificationRepository struct {
	collection *mongo.Collection
}

// NewNotificationRepository creates a notification repository on db
func NewNotificationRepository(db *MongoDB) *NotificationRepository {
	return &NotificationRepository{collection: db.Notifications}
}

var _ repositories.NotificationRepository = (*NotificationRepository)(nil)

func (r *NotificationRepository) Create(ctx context.Context, n *entities.Notification) error {
	_, err := r.collection.InsertOne(ctx, n)
	if mongo.IsDuplicateKeyError(err) {
		return fmt.Errorf("%w: %s", repositories.ErrDuplicateNotification, n.DedupeKey)
	}
	return err
}

func (r *NotificationRepository) ExistsByDedupeKey(ctx context.Context, key string) (bool, error) {
	count, err := r.collection.CountDocuments(ctx, bson.M{"dedupeKey": key}, options.Count().SetLimit(1))
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// List returns notifications oldest first; an empty outletID lists all outlets
func (r *NotificationRepository) List(ctx context.Context, outletID string) ([]*entities.Notification, error) {
	filter := bson.M{}
	if outletID != "" {
		filter["outletId"] = outletID
	}

	cursor, err := r.collection.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "timestamp", Value: 1}}))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var out []*entities.Notification
	if err := cursor.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Package mongodb provides the MongoDB document store and notification
// repository.
package mongodb

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// NotificationsCollection holds notification-center entries
const NotificationsCollection = "notifications"

// Config holds MongoDB connection pool configuration.
type Config struct {
	MaxPoolSize            uint64
	MinPoolSize            uint64
	MaxConnIdleTime        time.Duration
	ConnectTimeout         time.Duration
	ServerSelectionTimeout time.Duration
	SocketTimeout          time.Duration
}

// DefaultConfig returns a small pool suited to a single kitchen process.
func DefaultConfig() Config {
	return Config{
		MaxPoolSize:            20,
		MinPoolSize:            2,
		MaxConnIdleTime:        10 * time.Minute,
		ConnectTimeout:         10 * time.Second,
		ServerSelectionTimeout: 5 * time.Second,
		SocketTimeout:          30 * time.Second,
	}
}

// MongoDB provides MongoDB client and database access.
type MongoDB struct {
	Client        *mongo.Client
	Database      *mongo.Database
	Notifications *mongo.Collection
}

// Connect opens a connection with the default configuration.
func Connect(ctx context.Context, uri, databaseName string) (*MongoDB, error) {
	return ConnectWithConfig(ctx, uri, databaseName, DefaultConfig())
}

// ConnectWithConfig opens a connection, pings the server and creates indexes.
func ConnectWithConfig(ctx context.Context, uri, databaseName string, cfg Config) (*MongoDB, error) {
	ctx, cancel := context.WithTimeout(ctx, cfg.ConnectTimeout)
	defer cancel()

	clientOptions := options.Client().
		ApplyURI(uri).
		SetMaxPoolSize(cfg.MaxPoolSize).
		SetMinPoolSize(cfg.MinPoolSize).
		SetMaxConnIdleTime(cfg.MaxConnIdleTime).
		SetConnectTimeout(cfg.ConnectTimeout).
		SetServerSelectionTimeout(cfg.ServerSelectionTimeout).
		SetSocketTimeout(cfg.SocketTimeout).
		SetRetryWrites(true).
		SetRetryReads(true)

	client, err := mongo.Connect(ctx, clientOptions)
	if err != nil {
		return nil, err
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, err
	}

	db := client.Database(databaseName)
	m := &MongoDB{
		Client:        client,
		Database:      db,
		Notifications: db.Collection(NotificationsCollection),
	}
	if err := m.createIndexes(ctx); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, err
	}
	return m, nil
}

func (m *MongoDB) createIndexes(ctx context.Context) error {
	// sparse so notifications without a dedupe key never collide
	dedupeIndex := mongo.IndexModel{
		Keys:    bson.D{{Key: "dedupeKey", Value: 1}},
		Options: options.Index().SetUnique(true).SetSparse(true),
	}
	if _, err := m.Notifications.Indexes().CreateOne(ctx, dedupeIndex); err != nil {
		return err
	}

	outletIndex := mongo.IndexModel{
		Keys: bson.D{{Key: "outletId", Value: 1}, {Key: "timestamp", Value: 1}},
	}
	_, _ = m.Notifications.Indexes().CreateOne(ctx, outletIndex)
	return nil
}

// Close closes the MongoDB connection.
func (m *MongoDB) Close(ctx context.Context) error {
	return m.Client.Disconnect(ctx)
}

// HealthCheck verifies the MongoDB connection is healthy.
func (m *MongoDB) HealthCheck(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	return m.Client.Ping(ctx, nil)
}

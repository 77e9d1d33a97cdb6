package mongodb

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/vsinha/kitchen-mrp/pkg/domain/repositories"
	"github.com/vsinha/kitchen-mrp/pkg/infrastructure/repositories/codec"
)

// DocumentStore writes JSON-normalised documents keyed by _id
type DocumentStore struct {
	db *mongo.Database
}

// NewDocumentStore creates a document store on db
func NewDocumentStore(db *MongoDB) *DocumentStore {
	return &DocumentStore{db: db.Database}
}

var _ repositories.DocumentStore = (*DocumentStore)(nil)

// SetDocument replaces the document, inserting it when missing
func (s *DocumentStore) SetDocument(ctx context.Context, collection, id string, data any) error {
	doc, err := codec.ToDocument(data)
	if err != nil {
		return err
	}
	doc["_id"] = id

	_, err = s.db.Collection(collection).ReplaceOne(ctx, bson.M{"_id": id}, doc, options.Replace().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("set %s/%s: %w", collection, id, err)
	}
	return nil
}

// UpdateDocument sets the patch fields, inserting the document when missing
func (s *DocumentStore) UpdateDocument(ctx context.Context, collection, id string, patch map[string]any) error {
	doc, err := codec.ToDocument(patch)
	if err != nil {
		return err
	}
	delete(doc, "_id")
	if len(doc) == 0 {
		return nil
	}

	_, err = s.db.Collection(collection).UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": doc}, options.Update().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("update %s/%s: %w", collection, id, err)
	}
	return nil
}

// GetDocument loads a document without its _id
func (s *DocumentStore) GetDocument(ctx context.Context, collection, id string) (map[string]any, error) {
	var doc bson.M
	err := s.db.Collection(collection).FindOne(ctx, bson.M{"_id": id}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, fmt.Errorf("%s/%s: %w", collection, id, repositories.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	delete(doc, "_id")
	return map[string]any(doc), nil
}

package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/vsinha/kitchen-mrp/pkg/domain/repositories"
	"github.com/vsinha/kitchen-mrp/pkg/infrastructure/repositories/codec"
)

// DocumentStore keeps one JSONB row per (collection, id)
type DocumentStore struct {
	pool *pgxpool.Pool
}

// NewDocumentStore creates a document store on pool
func NewDocumentStore(pool *pgxpool.Pool) *DocumentStore {
	return &DocumentStore{pool: pool}
}

var _ repositories.DocumentStore = (*DocumentStore)(nil)

// SetDocument replaces the row's data
func (s *DocumentStore) SetDocument(ctx context.Context, collection, id string, data any) error {
	doc, err := codec.ToDocument(data)
	if err != nil {
		return err
	}

	_, err = s.pool.Exec(ctx, `
		INSERT INTO documents (collection, id, data) VALUES ($1, $2, $3)
		ON CONFLICT (collection, id) DO UPDATE SET data = EXCLUDED.data, updated_at = NOW()
	`, collection, id, doc)
	if err != nil {
		return fmt.Errorf("set %s/%s: %w", collection, id, err)
	}
	return nil
}

// UpdateDocument merges the patch into the row's data, inserting it when missing
func (s *DocumentStore) UpdateDocument(ctx context.Context, collection, id string, patch map[string]any) error {
	doc, err := codec.ToDocument(patch)
	if err != nil {
		return err
	}

	_, err = s.pool.Exec(ctx, `
		INSERT INTO documents (collection, id, data) VALUES ($1, $2, $3)
		ON CONFLICT (collection, id) DO UPDATE SET data = documents.data || EXCLUDED.data, updated_at = NOW()
	`, collection, id, doc)
	if err != nil {
		return fmt.Errorf("update %s/%s: %w", collection, id, err)
	}
	return nil
}

// GetDocument loads the row's data
func (s *DocumentStore) GetDocument(ctx context.Context, collection, id string) (map[string]any, error) {
	var doc map[string]any
	err := s.pool.QueryRow(ctx,
		"SELECT data FROM documents WHERE collection = $1 AND id = $2", collection, id,
	).Scan(&doc)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("%s/%s: %w", collection, id, repositories.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return doc, nil
}

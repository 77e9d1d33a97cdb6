package memory

import (
	"context"
	"sync"

	"github.com/vsinha/kitchen-mrp/pkg/domain/repositories"
	"github.com/vsinha/kitchen-mrp/pkg/infrastructure/repositories/codec"
)

// DocumentStore keeps JSON-normalised documents in memory. Stored values
// look exactly like what a JSON document database would return.
type DocumentStore struct {
	mu          sync.RWMutex
	collections map[string]map[string]map[string]any
}

// NewDocumentStore creates an empty document store
func NewDocumentStore() *DocumentStore {
	return &DocumentStore{collections: make(map[string]map[string]map[string]any)}
}

// Verify interface compliance
var _ repositories.DocumentStore = (*DocumentStore)(nil)

// SetDocument replaces the document
func (s *DocumentStore) SetDocument(ctx context.Context, collection, id string, data any) error {
	doc, err := codec.ToDocument(data)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.collection(collection)[id] = doc
	return nil
}

// UpdateDocument merges patch into the document, creating it if needed
func (s *DocumentStore) UpdateDocument(ctx context.Context, collection, id string, patch map[string]any) error {
	doc, err := codec.ToDocument(patch)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	existing, ok := s.collection(collection)[id]
	if !ok {
		existing = make(map[string]any, len(doc))
		s.collections[collection][id] = existing
	}
	for k, v := range doc {
		existing[k] = v
	}
	return nil
}

// GetDocument returns a copy of a stored document
func (s *DocumentStore) GetDocument(collection, id string) (map[string]any, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	doc, ok := s.collections[collection][id]
	if !ok {
		return nil, false
	}
	c := make(map[string]any, len(doc))
	for k, v := range doc {
		c[k] = v
	}
	return c, true
}

// Count returns the number of documents in a collection
func (s *DocumentStore) Count(collection string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.collections[collection])
}

func (s *DocumentStore) collection(name string) map[string]map[string]any {
	c, ok := s.collections[name]
	if !ok {
		c = make(map[string]map[string]any)
		s.collections[name] = c
	}
	return c
}

package repositories

import "context"

// DocumentStore is the persistence gateway the ledger writes through.
// Data and patch values are JSON-encodable.
type DocumentStore interface {
	SetDocument(ctx context.Context, collection, id string, data any) error
	UpdateDocument(ctx context.Context, collection, id string, patch map[string]any) error
}

// WriteKind distinguishes a full document write from a partial update
type WriteKind int

const (
	WriteSet WriteKind = iota
	WriteUpdate
)

// String method for WriteKind enum
func (k WriteKind) String() string {
	switch k {
	case WriteSet:
		return "SET"
	case WriteUpdate:
		return "UPDATE"
	default:
		return "UNKNOWN"
	}
}

// DocumentWrite is a single pending write against a DocumentStore
type DocumentWrite struct {
	Kind       WriteKind
	Collection string
	ID         string
	Data       any
	Patch      map[string]any
}

// Apply performs the write against store
func (w DocumentWrite) Apply(ctx context.Context, store DocumentStore) error {
	if w.Kind == WriteUpdate {
		return store.UpdateDocument(ctx, w.Collection, w.ID, w.Patch)
	}
	return store.SetDocument(ctx, w.Collection, w.ID, w.Data)
}

package repositories

import (
	"context"
	"time"

	"github.com/vsinha/kitchen-mrp/pkg/domain/entities"
)

// EventRepository provides access to catering events
type EventRepository interface {
	GetEvents(ctx context.Context) ([]*entities.Event, error)
	// GetEventsInRange returns events dated within [from, to), ordered by date
	GetEventsInRange(ctx context.Context, from, to time.Time) ([]*entities.Event, error)
	LoadEvents(ctx context.Context, events []*entities.Event) error
}

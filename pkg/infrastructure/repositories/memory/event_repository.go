package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/vsinha/kitchen-mrp/pkg/domain/entities"
	"github.com/vsinha/kitchen-mrp/pkg/domain/repositories"
)

// EventRepository provides in-memory catering event storage
type EventRepository struct {
	mu     sync.RWMutex
	events []entities.Event
}

// NewEventRepository creates a new in-memory event repository
func NewEventRepository() *EventRepository {
	return &EventRepository{}
}

// Verify interface compliance
var _ repositories.EventRepository = (*EventRepository)(nil)

// LoadEvents appends events
func (r *EventRepository) LoadEvents(ctx context.Context, events []*entities.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, e := range events {
		r.events = append(r.events, *e)
	}
	return nil
}

// GetEvents returns all events in load order
func (r *EventRepository) GetEvents(ctx context.Context) ([]*entities.Event, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*entities.Event, 0, len(r.events))
	for i := range r.events {
		e := r.events[i]
		out = append(out, &e)
	}
	return out, nil
}

// GetEventsInRange returns events dated within [from, to), ordered by date
func (r *EventRepository) GetEventsInRange(ctx context.Context, from, to time.Time) ([]*entities.Event, error) {
	all, _ := r.GetEvents(ctx)

	out := make([]*entities.Event, 0, len(all))
	for _, e := range all {
		if e.InRange(from, to) {
			out = append(out, e)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out, nil
}

package reorder

import (
	"context"
	"slices"

	"github.com/vsinha/kitchen-mrp/pkg/infrastructure/events"
)

// StockEventHandler runs a reorder check after every committed ledger mutation
type StockEventHandler struct {
	monitor *Monitor
}

// NewStockEventHandler creates a handler bound to monitor
func NewStockEventHandler(monitor *Monitor) *StockEventHandler {
	return &StockEventHandler{monitor: monitor}
}

var _ events.EventHandler = (*StockEventHandler)(nil)

func (h *StockEventHandler) Handle(ctx context.Context, event events.Event) error {
	id, ok := events.IngredientIDOf(event)
	if !ok {
		return nil
	}
	_, err := h.monitor.CheckAndNotify(ctx, id)
	return err
}

func (h *StockEventHandler) CanHandle(eventType string) bool {
	return slices.Contains(events.StockEventTypes, eventType)
}

// Subscribe attaches a new handler for the monitor to store
func (m *Monitor) Subscribe(store events.EventStore) (*StockEventHandler, error) {
	h := NewStockEventHandler(m)
	if err := store.Subscribe(events.StockEventTypes, h); err != nil {
		return nil, err
	}
	return h, nil
}

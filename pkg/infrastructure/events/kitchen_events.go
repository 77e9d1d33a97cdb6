package events

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/vsinha/kitchen-mrp/pkg/domain/entities"
)

const (
	StockReceivedEvent = "stock.received"
	StockMigratedEvent = "stock.migrated"
	StockConsumedEvent = "stock.consumed"
	StockLowEvent      = "stock.low"
)

// StockEventTypes lists every ledger mutation event
var StockEventTypes = []string{StockReceivedEvent, StockMigratedEvent, StockConsumedEvent}

type StockReceived struct {
	IngredientID entities.IngredientID `json:"ingredient_id"`
	Batch        entities.Batch        `json:"batch"`
	StockAfter   decimal.Decimal       `json:"stock_after"`
}

type StockMigrated struct {
	IngredientID entities.IngredientID `json:"ingredient_id"`
	Batch        entities.Batch        `json:"batch"`
}

type StockConsumed struct {
	IngredientID     entities.IngredientID `json:"ingredient_id"`
	Requested        decimal.Decimal       `json:"requested"`
	Consumed         decimal.Decimal       `json:"consumed"`
	Shortfall        decimal.Decimal       `json:"shortfall"`
	StockAfter       decimal.Decimal       `json:"stock_after"`
	DepletedBatchIDs []string              `json:"depleted_batch_ids,omitempty"`
}

type StockLow struct {
	IngredientID   entities.IngredientID `json:"ingredient_id"`
	Stock          decimal.Decimal       `json:"stock"`
	ReorderPoint   decimal.Decimal       `json:"reorder_point"`
	NotificationID string                `json:"notification_id"`
}

// NewStockReceivedEvent is published when a delivery becomes a batch
func NewStockReceivedEvent(batch entities.Batch, stockAfter decimal.Decimal) Event {
	return NewEventAt(StockReceivedEvent, string(batch.IngredientID), StockReceived{
		IngredientID: batch.IngredientID,
		Batch:        batch,
		StockAfter:   stockAfter,
	}, batch.ReceivedAt)
}

func NewStockMigratedEvent(batch entities.Batch) Event {
	return NewEventAt(StockMigratedEvent, string(batch.IngredientID), StockMigrated{
		IngredientID: batch.IngredientID,
		Batch:        batch,
	}, batch.ReceivedAt)
}

func NewStockConsumedEvent(data StockConsumed, at time.Time) Event {
	return NewEventAt(StockConsumedEvent, string(data.IngredientID), data, at)
}

// NewStockLowEvent is published once per raised low-stock notification
func NewStockLowEvent(n *entities.Notification, stock, reorderPoint decimal.Decimal) Event {
	return NewEventAt(StockLowEvent, string(n.IngredientID), StockLow{
		IngredientID:   n.IngredientID,
		Stock:          stock,
		ReorderPoint:   reorderPoint,
		NotificationID: n.ID,
	}, n.Timestamp)
}

// IngredientIDOf extracts the ingredient an event concerns, if any
func IngredientIDOf(e Event) (entities.IngredientID, bool) {
	switch d := e.Data().(type) {
	case StockReceived:
		return d.IngredientID, true
	case StockMigrated:
		return d.IngredientID, true
	case StockConsumed:
		return d.IngredientID, true
	case StockLow:
		return d.IngredientID, true
	default:
		return "", false
	}
}

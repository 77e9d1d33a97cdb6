package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/vsinha/kitchen-mrp/pkg/domain/entities"
)

// ExplosionResult contains the complete output of a demand explosion run
type ExplosionResult struct {
	Requirements   []entities.Requirement
	EventsExploded int
	EventsSkipped  int
	// EstimatedCost values every requirement at its ingredient's cost per unit
	EstimatedCost decimal.Decimal
	ComputedAt    time.Time
}

// ConsumptionResult reports what a single stock consumption did
type ConsumptionResult struct {
	IngredientID     entities.IngredientID
	Requested        decimal.Decimal
	Consumed         decimal.Decimal
	Shortfall        decimal.Decimal
	StockBefore      decimal.Decimal
	StockAfter       decimal.Decimal
	DepletedBatchIDs []string
	// Found is false when the ingredient was unknown and nothing happened
	Found bool
}

// HasShortfall reports whether less was consumed than requested
func (r *ConsumptionResult) HasShortfall() bool {
	return r.Shortfall.IsPositive()
}

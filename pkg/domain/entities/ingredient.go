package entities

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// IngredientID represents a unique raw ingredient identifier
type IngredientID string

// MaxWastageFactor is the ceiling applied to wastage factors at or above 1
var MaxWastageFactor = decimal.RequireFromString("0.99")

// Ingredient represents a raw ingredient with its stock batches
type Ingredient struct {
	ID            IngredientID    `json:"id"`
	Name          string          `json:"name"`
	Unit          string          `json:"unit"`
	CostPerUnit   decimal.Decimal `json:"costPerUnit"`
	WastageFactor decimal.Decimal `json:"wastageFactor"`
	ReorderPoint  decimal.Decimal `json:"reorderPoint"`
	Stock         decimal.Decimal `json:"stock"`
	OutletID      string          `json:"outletId,omitempty"`
	SupplierID    string          `json:"supplierId,omitempty"`

	// BatchTracked is false for legacy records whose stock is a bare scalar.
	BatchTracked bool      `json:"batchTracked"`
	Batches      []Batch   `json:"batches"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// NewIngredient creates a validated Ingredient with no batches
func NewIngredient(
	id IngredientID,
	name, unit string,
	costPerUnit, wastageFactor, reorderPoint decimal.Decimal,
) (*Ingredient, error) {
	if string(id) == "" {
		return nil, fmt.Errorf("ingredient id cannot be empty")
	}
	if name == "" {
		return nil, fmt.Errorf("ingredient name cannot be empty")
	}
	if unit == "" {
		return nil, fmt.Errorf("unit cannot be empty")
	}
	if costPerUnit.IsNegative() {
		return nil, fmt.Errorf("cost per unit cannot be negative, got %s", costPerUnit)
	}
	if wastageFactor.IsNegative() || wastageFactor.GreaterThanOrEqual(decimal.NewFromInt(1)) {
		return nil, fmt.Errorf("wastage factor must be in [0,1), got %s", wastageFactor)
	}
	if reorderPoint.IsNegative() {
		return nil, fmt.Errorf("reorder point cannot be negative, got %s", reorderPoint)
	}

	return &Ingredient{
		ID:            id,
		Name:          name,
		Unit:          unit,
		CostPerUnit:   costPerUnit,
		WastageFactor: wastageFactor,
		ReorderPoint:  reorderPoint,
		Stock:         decimal.Zero,
		BatchTracked:  true,
		Batches:       []Batch{},
	}, nil
}

// EffectiveWastage returns the wastage factor clamped into [0, MaxWastageFactor]
func (i *Ingredient) EffectiveWastage() decimal.Decimal {
	return ClampWastage(i.WastageFactor)
}

// NeedsReorder reports whether stock has fallen to or below a positive reorder point
func (i *Ingredient) NeedsReorder() bool {
	return i.ReorderPoint.IsPositive() && i.Stock.LessThanOrEqual(i.ReorderPoint)
}

// RecomputeStock sets Stock to the sum of the live batches
func (i *Ingredient) RecomputeStock() {
	i.Stock = TotalStock(i.Batches)
}

// Clone returns a deep copy so callers never share batch slices with the ledger
func (i *Ingredient) Clone() Ingredient {
	c := *i
	if i.Batches != nil {
		c.Batches = make([]Batch, len(i.Batches))
		copy(c.Batches, i.Batches)
	}
	return c
}

// ClampWastage guards the gross quantity division: values >= 1 become 0.99
// and negative values become 0
func ClampWastage(w decimal.Decimal) decimal.Decimal {
	if w.IsNegative() {
		return decimal.Zero
	}
	if w.GreaterThanOrEqual(decimal.NewFromInt(1)) {
		return MaxWastageFactor
	}
	return w
}

// GrossQuantity converts a net usable quantity into the quantity that must be
// purchased: net / (1 - wastage)
func GrossQuantity(net, wastage decimal.Decimal) decimal.Decimal {
	return net.Div(decimal.NewFromInt(1).Sub(ClampWastage(wastage)))
}

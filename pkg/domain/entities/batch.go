package entities

import (
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

// BatchStatus represents the status of a stock batch
type BatchStatus int

const (
	BatchActive BatchStatus = iota
	BatchDepleted
	BatchExpired
)

// String method for BatchStatus enum
func (s BatchStatus) String() string {
	switch s {
	case BatchActive:
		return "ACTIVE"
	case BatchDepleted:
		return "DEPLETED"
	case BatchExpired:
		return "EXPIRED"
	default:
		return "UNKNOWN"
	}
}

// MarshalText renders the status the way the document store expects it
func (s BatchStatus) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText parses a status written by MarshalText
func (s *BatchStatus) UnmarshalText(text []byte) error {
	switch string(text) {
	case "ACTIVE", "":
		*s = BatchActive
	case "DEPLETED":
		*s = BatchDepleted
	case "EXPIRED":
		*s = BatchExpired
	default:
		return fmt.Errorf("unknown batch status: %s", text)
	}
	return nil
}

// Batch represents a received lot of one ingredient
type Batch struct {
	ID              string          `json:"id"`
	IngredientID    IngredientID    `json:"ingredientId"`
	BatchNumber     string          `json:"batchNumber"`
	InitialQuantity decimal.Decimal `json:"initialQuantity"`
	CurrentQuantity decimal.Decimal `json:"currentQuantity"`
	Unit            string          `json:"unit"`
	UnitCost        decimal.Decimal `json:"unitCost"`
	ReceivedAt      time.Time       `json:"receivedAt"`
	ExpiresAt       time.Time       `json:"expiresAt"`
	SupplierID      string          `json:"supplierId,omitempty"`
	PurchaseOrderID string          `json:"purchaseOrderId,omitempty"`
	OutletID        string          `json:"outletId,omitempty"`
	Status          BatchStatus     `json:"status"`
}

// NewBatch creates a validated, full, active Batch
func NewBatch(
	id string,
	ingredientID IngredientID,
	batchNumber string,
	quantity, unitCost decimal.Decimal,
	receivedAt, expiresAt time.Time,
) (*Batch, error) {
	if id == "" {
		return nil, fmt.Errorf("batch id cannot be empty")
	}
	if string(ingredientID) == "" {
		return nil, fmt.Errorf("ingredient id cannot be empty")
	}
	if quantity.IsNegative() {
		return nil, fmt.Errorf("quantity cannot be negative, got %s", quantity)
	}
	if unitCost.IsNegative() {
		return nil, fmt.Errorf("unit cost cannot be negative, got %s", unitCost)
	}

	return &Batch{
		ID:              id,
		IngredientID:    ingredientID,
		BatchNumber:     batchNumber,
		InitialQuantity: quantity,
		CurrentQuantity: quantity,
		UnitCost:        unitCost,
		ReceivedAt:      receivedAt,
		ExpiresAt:       expiresAt,
		Status:          BatchActive,
	}, nil
}

// ExpiresWithin reports whether the batch expires at or before now+window
func (b *Batch) ExpiresWithin(now time.Time, window time.Duration) bool {
	return !b.ExpiresAt.After(now.Add(window))
}

// Deduct removes up to quantity from the batch and returns the amount taken
func (b *Batch) Deduct(quantity decimal.Decimal) decimal.Decimal {
	if !quantity.IsPositive() {
		return decimal.Zero
	}
	if quantity.GreaterThanOrEqual(b.CurrentQuantity) {
		taken := b.CurrentQuantity
		b.CurrentQuantity = decimal.Zero
		b.Status = BatchDepleted
		return taken
	}
	b.CurrentQuantity = b.CurrentQuantity.Sub(quantity)
	return quantity
}

// IsDepleted reports whether nothing remains in the batch
func (b *Batch) IsDepleted() bool {
	return !b.CurrentQuantity.IsPositive()
}

// Value returns the remaining quantity valued at the batch's unit cost
func (b *Batch) Value() decimal.Decimal {
	return b.CurrentQuantity.Mul(b.UnitCost)
}

// TotalStock sums CurrentQuantity across batches
func TotalStock(batches []Batch) decimal.Decimal {
	total := decimal.Zero
	for _, b := range batches {
		total = total.Add(b.CurrentQuantity)
	}
	return total
}

// SortByExpiry orders batches by expiry ascending, keeping insertion order on ties
func SortByExpiry(batches []Batch) {
	sort.SliceStable(batches, func(i, j int) bool {
		return batches[i].ExpiresAt.Before(batches[j].ExpiresAt)
	})
}

package ledger

import (
	"github.com/shopspring/decimal"

	"github.com/vsinha/kitchen-mrp/pkg/domain/entities"
)

// fifoOutcome reports one FIFO pass over an ingredient's batches
type fifoOutcome struct {
	Batches  []entities.Batch
	Consumed decimal.Decimal
	Depleted []string
}

// consumeFIFO takes quantity from batches in expiry order, soonest first.
// Depleted batches are dropped from the result and the input is left untouched.
func consumeFIFO(batches []entities.Batch, quantity decimal.Decimal) fifoOutcome {
	sorted := make([]entities.Batch, len(batches))
	copy(sorted, batches)
	entities.SortByExpiry(sorted)

	out := fifoOutcome{
		Batches:  make([]entities.Batch, 0, len(sorted)),
		Consumed: decimal.Zero,
	}
	remaining := quantity

	for _, batch := range sorted {
		if remaining.IsPositive() {
			taken := batch.Deduct(remaining)
			remaining = remaining.Sub(taken)
			out.Consumed = out.Consumed.Add(taken)
		}
		if batch.IsDepleted() {
			out.Depleted = append(out.Depleted, batch.ID)
			continue
		}
		out.Batches = append(out.Batches, batch)
	}

	return out
}

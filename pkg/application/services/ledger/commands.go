package ledger

import (
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/vsinha/kitchen-mrp/pkg/application/dto"
	"github.com/vsinha/kitchen-mrp/pkg/domain/entities"
	"github.com/vsinha/kitchen-mrp/pkg/domain/repositories"
	"github.com/vsinha/kitchen-mrp/pkg/infrastructure/events"
	"github.com/vsinha/kitchen-mrp/pkg/infrastructure/metrics"
)

// BatchData describes a delivery. Zero UnitCost falls back to the
// ingredient's cost per unit and zero ExpiresAt to the configured default.
type BatchData struct {
	Quantity        decimal.Decimal
	UnitCost        decimal.Decimal
	ExpiresAt       time.Time
	BatchNumber     string
	SupplierID      string
	PurchaseOrderID string
}

// command is one ledger mutation, applied with the ledger lock held
type command interface {
	name() string
	apply(l *Ledger) (effects, error)
}

// effects are the side effects of a committed command
type effects struct {
	writes    []repositories.DocumentWrite
	events    []events.Event
	shortfall bool
	noop      bool
}

func (fx effects) result() string {
	switch {
	case fx.noop:
		return "noop"
	case fx.shortfall:
		return "shortfall"
	default:
		return "ok"
	}
}

type upsertCommand struct {
	ingredient entities.Ingredient
}

func (c *upsertCommand) name() string { return "upsert" }

func (c *upsertCommand) apply(l *Ledger) (effects, error) {
	if c.ingredient.ID == "" {
		return effects{}, fmt.Errorf("ingredient id cannot be empty")
	}
	ing := c.ingredient
	if ing.OutletID == "" {
		ing.OutletID = l.config.OutletID
	}
	if ing.BatchTracked {
		ing.RecomputeStock()
	}
	ing.UpdatedAt = l.now()
	l.put(ing)

	return effects{writes: []repositories.DocumentWrite{l.setWrite(ing)}}, nil
}

type addBatchCommand struct {
	id    entities.IngredientID
	data  BatchData
	batch entities.Batch
}

func (c *addBatchCommand) name() string { return "add_batch" }

func (c *addBatchCommand) apply(l *Ledger) (effects, error) {
	if !c.data.Quantity.IsPositive() {
		return effects{}, fmt.Errorf("%w, got %s", ErrInvalidQuantity, c.data.Quantity)
	}
	current, ok := l.ingredients[c.id]
	if !ok {
		return effects{}, fmt.Errorf("%w: %s", ErrIngredientNotFound, c.id)
	}

	ing := current.Clone()
	now := l.now()
	var fx effects

	if !ing.BatchTracked {
		if ing.Stock.IsPositive() {
			migration := l.migrationBatch(&ing, now)
			ing.Batches = append(ing.Batches, migration)
			fx.events = append(fx.events, events.NewStockMigratedEvent(migration))
			l.log.Info().
				Str("ingredient_id", string(ing.ID)).
				Str("batch_id", migration.ID).
				Str("quantity", migration.CurrentQuantity.String()).
				Msg("migrated scalar stock into a batch")
		}
		ing.BatchTracked = true
	}

	unitCost := c.data.UnitCost
	if unitCost.IsZero() {
		unitCost = ing.CostPerUnit
	}
	expiresAt := c.data.ExpiresAt
	if expiresAt.IsZero() {
		expiresAt = now.Add(l.config.DefaultExpiry)
	}
	batchNumber := c.data.BatchNumber
	if batchNumber == "" {
		batchNumber = lotNumber(now)
	}

	batch, err := entities.NewBatch(l.newID(), ing.ID, batchNumber, c.data.Quantity, unitCost, now, expiresAt)
	if err != nil {
		return effects{}, err
	}
	batch.Unit = ing.Unit
	batch.SupplierID = c.data.SupplierID
	batch.PurchaseOrderID = c.data.PurchaseOrderID
	batch.OutletID = l.outletOf(&ing)

	ing.Batches = append(ing.Batches, *batch)
	ing.RecomputeStock()
	ing.UpdatedAt = now
	l.put(ing)
	c.batch = *batch

	fx.writes = append(fx.writes, l.setWrite(ing))
	fx.events = append(fx.events, events.NewStockReceivedEvent(*batch, ing.Stock))
	return fx, nil
}

type consumeCommand struct {
	id       entities.IngredientID
	quantity decimal.Decimal
	result   dto.ConsumptionResult
}

func (c *consumeCommand) name() string { return "consume" }

func (c *consumeCommand) apply(l *Ledger) (effects, error) {
	c.result = dto.ConsumptionResult{
		IngredientID: c.id,
		Requested:    c.quantity,
		Consumed:     decimal.Zero,
		Shortfall:    decimal.Zero,
		StockBefore:  decimal.Zero,
		StockAfter:   decimal.Zero,
	}
	if !c.quantity.IsPositive() {
		return effects{}, fmt.Errorf("%w, got %s", ErrInvalidQuantity, c.quantity)
	}

	current, ok := l.ingredients[c.id]
	if !ok {
		l.log.Warn().Str("ingredient_id", string(c.id)).Msg("consume on unknown ingredient ignored")
		return effects{noop: true}, nil
	}

	ing := current.Clone()
	now := l.now()
	if !ing.BatchTracked && ing.Stock.IsPositive() {
		ing.Batches = append(ing.Batches, l.migrationBatch(&ing, now))
	}
	ing.BatchTracked = true
	ing.RecomputeStock()

	before := ing.Stock
	out := consumeFIFO(ing.Batches, c.quantity)
	ing.Batches = out.Batches
	ing.RecomputeStock()
	ing.UpdatedAt = now
	l.put(ing)

	c.result.Found = true
	c.result.StockBefore = before
	c.result.Consumed = out.Consumed
	c.result.Shortfall = c.quantity.Sub(out.Consumed)
	c.result.StockAfter = ing.Stock
	c.result.DepletedBatchIDs = out.Depleted

	fx := effects{shortfall: c.result.HasShortfall()}
	if fx.shortfall {
		metrics.RecordShortfall()
		l.log.Warn().
			Str("ingredient_id", string(c.id)).
			Str("requested", c.quantity.String()).
			Str("consumed", out.Consumed.String()).
			Msg("consumption exceeded stock")
	}

	fx.writes = append(fx.writes, repositories.DocumentWrite{
		Kind:       repositories.WriteUpdate,
		Collection: l.config.Collection,
		ID:         string(ing.ID),
		Patch: map[string]any{
			"batches":      ing.Batches,
			"stock":        ing.Stock,
			"batchTracked": true,
			"updatedAt":    ing.UpdatedAt,
		},
	})
	fx.events = append(fx.events, events.NewStockConsumedEvent(events.StockConsumed{
		IngredientID:     c.id,
		Requested:        c.quantity,
		Consumed:         out.Consumed,
		Shortfall:        c.result.Shortfall,
		StockAfter:       ing.Stock,
		DepletedBatchIDs: out.Depleted,
	}, now))
	return fx, nil
}

// migrationBatch wraps legacy scalar stock into a single batch
func (l *Ledger) migrationBatch(ing *entities.Ingredient, now time.Time) entities.Batch {
	return entities.Batch{
		ID:              l.newID(),
		IngredientID:    ing.ID,
		BatchNumber:     lotNumber(now),
		InitialQuantity: ing.Stock,
		CurrentQuantity: ing.Stock,
		Unit:            ing.Unit,
		UnitCost:        ing.CostPerUnit,
		ReceivedAt:      now,
		ExpiresAt:       now.Add(l.config.DefaultExpiry),
		OutletID:        l.outletOf(ing),
		Status:          entities.BatchActive,
	}
}

func (l *Ledger) outletOf(ing *entities.Ingredient) string {
	if ing.OutletID != "" {
		return ing.OutletID
	}
	if l.config.OutletID != "" {
		return l.config.OutletID
	}
	return "unknown"
}

func (l *Ledger) setWrite(ing entities.Ingredient) repositories.DocumentWrite {
	return repositories.DocumentWrite{
		Kind:       repositories.WriteSet,
		Collection: l.config.Collection,
		ID:         string(ing.ID),
		Data:       ing,
	}
}

func lotNumber(t time.Time) string {
	return "LOT-" + t.UTC().Format("20060102")
}

func sortExpiring(batches []ExpiringBatch) {
	sort.SliceStable(batches, func(i, j int) bool {
		return batches[i].Batch.ExpiresAt.Before(batches[j].Batch.ExpiresAt)
	})
}

package ledger

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vsinha/kitchen-mrp/pkg/domain/entities"
	"github.com/vsinha/kitchen-mrp/pkg/domain/repositories"
	"github.com/vsinha/kitchen-mrp/pkg/infrastructure/events"
	"github.com/vsinha/kitchen-mrp/pkg/infrastructure/persistence"
	"github.com/vsinha/kitchen-mrp/pkg/infrastructure/repositories/memory"
)

var testNow = time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

type recordingPersister struct {
	mu     sync.Mutex
	writes []repositories.DocumentWrite
}

func (p *recordingPersister) Persist(w repositories.DocumentWrite) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.writes = append(p.writes, w)
}

func (p *recordingPersister) Writes() []repositories.DocumentWrite {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]repositories.DocumentWrite(nil), p.writes...)
}

func newTestLedger(persister Persister, publisher events.Publisher) *Ledger {
	seq := 0
	return New(Config{OutletID: "main"}, persister, publisher).
		WithClock(func() time.Time { return testNow }).
		WithIDGenerator(func() string {
			seq++
			return fmt.Sprintf("batch-%d", seq)
		})
}

func onion() entities.Ingredient {
	return entities.Ingredient{
		ID:           "ONION",
		Name:         "Onion",
		Unit:         "kg",
		CostPerUnit:  dec("1.20"),
		ReorderPoint: dec("2"),
		Stock:        decimal.Zero,
		BatchTracked: true,
	}
}

func TestLedger_ConsumeFIFOAcrossBatches(t *testing.T) {
	ctx := context.Background()
	l := newTestLedger(nil, nil)
	require.NoError(t, l.Upsert(ctx, onion()))

	_, err := l.AddBatch(ctx, "ONION", BatchData{Quantity: dec("10"), ExpiresAt: testNow.AddDate(0, 0, 9)})
	require.NoError(t, err)
	_, err = l.AddBatch(ctx, "ONION", BatchData{Quantity: dec("5"), ExpiresAt: testNow.AddDate(0, 0, 2)})
	require.NoError(t, err)

	result, err := l.ConsumeStock(ctx, "ONION", dec("7"))
	require.NoError(t, err)

	assert.True(t, result.Found)
	assert.True(t, result.StockBefore.Equal(dec("15")))
	assert.True(t, result.Consumed.Equal(dec("7")))
	assert.True(t, result.StockAfter.Equal(dec("8")))
	assert.False(t, result.HasShortfall())
	assert.Equal(t, []string{"batch-2"}, result.DepletedBatchIDs)

	ing, err := l.Ingredient("ONION")
	require.NoError(t, err)
	require.Len(t, ing.Batches, 1)
	assert.Equal(t, "batch-1", ing.Batches[0].ID)
	assert.True(t, ing.Batches[0].CurrentQuantity.Equal(dec("3")))
	assert.True(t, ing.Stock.Equal(dec("3")))
}

func TestLedger_OverConsumptionEmptiesStock(t *testing.T) {
	ctx := context.Background()
	l := newTestLedger(nil, nil)
	require.NoError(t, l.Upsert(ctx, onion()))
	_, err := l.AddBatch(ctx, "ONION", BatchData{Quantity: dec("4")})
	require.NoError(t, err)

	result, err := l.ConsumeStock(ctx, "ONION", dec("6.5"))
	require.NoError(t, err)

	assert.True(t, result.Consumed.Equal(dec("4")))
	assert.True(t, result.Shortfall.Equal(dec("2.5")))
	assert.True(t, result.StockAfter.IsZero())

	ing, _ := l.Ingredient("ONION")
	assert.Empty(t, ing.Batches)
	assert.False(t, ing.Stock.IsNegative())
}

func TestLedger_ConsumeUnknownIngredientIsNoop(t *testing.T) {
	persister := &recordingPersister{}
	l := newTestLedger(persister, nil)

	result, err := l.ConsumeStock(context.Background(), "GHOST", dec("1"))
	require.NoError(t, err)
	assert.False(t, result.Found)
	assert.Empty(t, persister.Writes())
	assert.Empty(t, l.Ingredients())
}

func TestLedger_RejectsInvalidQuantities(t *testing.T) {
	ctx := context.Background()
	l := newTestLedger(nil, nil)
	require.NoError(t, l.Upsert(ctx, onion()))

	_, err := l.ConsumeStock(ctx, "ONION", dec("0"))
	assert.ErrorIs(t, err, ErrInvalidQuantity)

	_, err = l.AddBatch(ctx, "ONION", BatchData{Quantity: dec("-1")})
	assert.ErrorIs(t, err, ErrInvalidQuantity)

	_, err = l.AddBatch(ctx, "GHOST", BatchData{Quantity: dec("1")})
	assert.ErrorIs(t, err, ErrIngredientNotFound)
}

func TestLedger_AddBatchDefaults(t *testing.T) {
	ctx := context.Background()
	l := newTestLedger(nil, nil)
	require.NoError(t, l.Upsert(ctx, onion()))

	batch, err := l.AddBatch(ctx, "ONION", BatchData{Quantity: dec("3"), SupplierID: "SUP-1"})
	require.NoError(t, err)

	assert.Equal(t, "batch-1", batch.ID)
	assert.Equal(t, "LOT-20250310", batch.BatchNumber)
	assert.True(t, batch.UnitCost.Equal(dec("1.20")), "unit cost snapshots the ingredient cost")
	assert.Equal(t, testNow.Add(30*24*time.Hour), batch.ExpiresAt)
	assert.Equal(t, testNow, batch.ReceivedAt)
	assert.Equal(t, entities.BatchActive, batch.Status)
	assert.Equal(t, "kg", batch.Unit)
	assert.Equal(t, "main", batch.OutletID)
	assert.Equal(t, "SUP-1", batch.SupplierID)
}

func TestLedger_MigratesScalarStock(t *testing.T) {
	ctx := context.Background()
	l := newTestLedger(nil, nil)

	legacy := onion()
	legacy.BatchTracked = false
	legacy.Stock = dec("6")
	l.Load([]*entities.Ingredient{&legacy})

	_, err := l.AddBatch(ctx, "ONION", BatchData{Quantity: dec("4")})
	require.NoError(t, err)

	ing, err := l.Ingredient("ONION")
	require.NoError(t, err)
	require.Len(t, ing.Batches, 2)
	assert.True(t, ing.BatchTracked)
	assert.True(t, ing.Batches[0].CurrentQuantity.Equal(dec("6")), "migration batch carries the old stock")
	assert.True(t, ing.Stock.Equal(dec("10")))
}

func TestLedger_ExpiringSoon(t *testing.T) {
	ctx := context.Background()
	l := newTestLedger(nil, nil)
	require.NoError(t, l.Upsert(ctx, onion()))

	_, err := l.AddBatch(ctx, "ONION", BatchData{Quantity: dec("1"), ExpiresAt: testNow.AddDate(0, 0, 2)})
	require.NoError(t, err)
	_, err = l.AddBatch(ctx, "ONION", BatchData{Quantity: dec("1"), ExpiresAt: testNow.AddDate(0, 0, 1)})
	require.NoError(t, err)
	_, err = l.AddBatch(ctx, "ONION", BatchData{Quantity: dec("1"), ExpiresAt: testNow.AddDate(0, 0, 10)})
	require.NoError(t, err)

	expiring := l.ExpiringSoon(3 * 24 * time.Hour)
	require.Len(t, expiring, 2)
	assert.Equal(t, "batch-2", expiring[0].Batch.ID)
	assert.Equal(t, "batch-1", expiring[1].Batch.ID)
	assert.Equal(t, "Onion", expiring[0].IngredientName)
}

func TestLedger_ConsumeRequirements(t *testing.T) {
	ctx := context.Background()
	l := newTestLedger(nil, nil)
	require.NoError(t, l.Upsert(ctx, onion()))
	_, err := l.AddBatch(ctx, "ONION", BatchData{Quantity: dec("5")})
	require.NoError(t, err)

	results, err := l.ConsumeRequirements(ctx, []entities.Requirement{
		{IngredientID: "ONION", TotalGrossQuantity: dec("3.125")},
		{IngredientID: "SALT", TotalGrossQuantity: dec("0.05")},
	})
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.True(t, results[0].StockAfter.Equal(dec("1.875")))
	assert.False(t, results[1].Found)
}

func TestLedger_ReadsReturnCopies(t *testing.T) {
	ctx := context.Background()
	l := newTestLedger(nil, nil)
	require.NoError(t, l.Upsert(ctx, onion()))
	_, err := l.AddBatch(ctx, "ONION", BatchData{Quantity: dec("5")})
	require.NoError(t, err)

	ing, _ := l.Ingredient("ONION")
	ing.Batches[0].CurrentQuantity = decimal.Zero

	assert.True(t, l.Snapshot()["ONION"].Equal(dec("5")))
	again, _ := l.Ingredient("ONION")
	assert.True(t, again.Batches[0].CurrentQuantity.Equal(dec("5")))
}

func TestLedger_ConcurrentConsumptionNeverGoesNegative(t *testing.T) {
	ctx := context.Background()
	l := newTestLedger(nil, nil)
	require.NoError(t, l.Upsert(ctx, onion()))
	_, err := l.AddBatch(ctx, "ONION", BatchData{Quantity: dec("50")})
	require.NoError(t, err)

	var wg sync.WaitGroup
	for range 100 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = l.ConsumeStock(ctx, "ONION", dec("1"))
		}()
	}
	wg.Wait()

	ing, _ := l.Ingredient("ONION")
	assert.True(t, ing.Stock.IsZero())
}

func TestLedger_PersistsThroughOutbox(t *testing.T) {
	ctx := context.Background()
	store := memory.NewDocumentStore()
	outbox := persistence.NewOutbox(store, nil, persistence.DefaultConfig())
	l := newTestLedger(outbox, nil)

	require.NoError(t, l.Upsert(ctx, onion()))
	_, err := l.AddBatch(ctx, "ONION", BatchData{Quantity: dec("5")})
	require.NoError(t, err)
	_, err = l.ConsumeStock(ctx, "ONION", dec("2"))
	require.NoError(t, err)

	assert.Equal(t, 3, outbox.Pending())
	require.NoError(t, outbox.Flush(ctx))
	assert.Equal(t, 0, outbox.Pending())

	doc, ok := store.GetDocument(DefaultCollection, "ONION")
	require.True(t, ok)
	assert.Equal(t, "3", doc["stock"])
	assert.Equal(t, "Onion", doc["name"])
	batches, ok := doc["batches"].([]any)
	require.True(t, ok)
	require.Len(t, batches, 1)
	assert.Equal(t, "3", batches[0].(map[string]any)["currentQuantity"])
}

func TestLedger_WriteKinds(t *testing.T) {
	ctx := context.Background()
	persister := &recordingPersister{}
	l := newTestLedger(persister, nil)

	require.NoError(t, l.Upsert(ctx, onion()))
	_, err := l.AddBatch(ctx, "ONION", BatchData{Quantity: dec("5")})
	require.NoError(t, err)
	_, err = l.ConsumeStock(ctx, "ONION", dec("1"))
	require.NoError(t, err)

	writes := persister.Writes()
	require.Len(t, writes, 3)
	assert.Equal(t, repositories.WriteSet, writes[1].Kind)
	assert.Equal(t, repositories.WriteUpdate, writes[2].Kind)
	assert.ElementsMatch(t, []string{"batches", "stock", "batchTracked", "updatedAt"}, keys(writes[2].Patch))
}

type collectingHandler struct {
	mu    sync.Mutex
	types []string
}

func (h *collectingHandler) Handle(ctx context.Context, e events.Event) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.types = append(h.types, e.Type())
	return nil
}

func (h *collectingHandler) CanHandle(eventType string) bool { return true }

func TestLedger_PublishesStockEvents(t *testing.T) {
	ctx := context.Background()
	store := events.NewInMemoryEventStore()
	handler := &collectingHandler{}
	require.NoError(t, store.Subscribe(events.StockEventTypes, handler))

	l := newTestLedger(nil, store)
	legacy := onion()
	legacy.BatchTracked = false
	legacy.Stock = dec("1")
	l.Load([]*entities.Ingredient{&legacy})

	_, err := l.AddBatch(ctx, "ONION", BatchData{Quantity: dec("2")})
	require.NoError(t, err)
	_, err = l.ConsumeStock(ctx, "ONION", dec("1"))
	require.NoError(t, err)
	store.Wait()

	stream, err := store.ReadEvents("ONION", 0)
	require.NoError(t, err)
	require.Len(t, stream, 3)
	assert.Equal(t, events.StockMigratedEvent, stream[0].Type())
	assert.Equal(t, events.StockReceivedEvent, stream[1].Type())
	assert.Equal(t, events.StockConsumedEvent, stream[2].Type())

	handler.mu.Lock()
	defer handler.mu.Unlock()
	assert.Len(t, handler.types, 3)
}

func TestLedger_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	l := newTestLedger(nil, nil)
	_, err := l.ConsumeStock(ctx, "ONION", dec("1"))
	assert.ErrorIs(t, err, context.Canceled)
}

func keys(m map[string]any) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	return out
}

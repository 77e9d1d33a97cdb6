// Package ledger keeps per-ingredient stock as expiry-dated batches. All
// mutations are command values applied under a single lock; durable writes
// are handed to a Persister and never roll back the in-memory state.
package ledger

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/vsinha/kitchen-mrp/pkg/application/dto"
	"github.com/vsinha/kitchen-mrp/pkg/domain/entities"
	"github.com/vsinha/kitchen-mrp/pkg/domain/repositories"
	"github.com/vsinha/kitchen-mrp/pkg/infrastructure/events"
	"github.com/vsinha/kitchen-mrp/pkg/infrastructure/logger"
	"github.com/vsinha/kitchen-mrp/pkg/infrastructure/metrics"
)

var (
	// ErrIngredientNotFound is returned by read APIs and AddBatch for unknown ids
	ErrIngredientNotFound = errors.New("ingredient not found")
	// ErrInvalidQuantity is returned for non-positive batch or consumption quantities
	ErrInvalidQuantity = errors.New("quantity must be positive")
)

// DefaultCollection is the document store collection inventory is written to
const DefaultCollection = "inventory"

// Persister accepts durable writes without blocking. The outbox implements it.
type Persister interface {
	Persist(w repositories.DocumentWrite)
}

// Config holds ledger settings
type Config struct {
	OutletID      string
	DefaultExpiry time.Duration
	Collection    string
}

// DefaultConfig returns a 30 day default expiry on the inventory collection
func DefaultConfig() Config {
	return Config{
		OutletID:      "",
		DefaultExpiry: 30 * 24 * time.Hour,
		Collection:    DefaultCollection,
	}
}

// Ledger is the single coordinator for stock mutations
type Ledger struct {
	mu          sync.Mutex
	ingredients map[entities.IngredientID]*entities.Ingredient
	order       []entities.IngredientID

	config    Config
	now       func() time.Time
	newID     func() string
	persister Persister
	publisher events.Publisher
	log       zerolog.Logger
}

// New creates an empty ledger. persister and publisher may be nil.
func New(config Config, persister Persister, publisher events.Publisher) *Ledger {
	if config.DefaultExpiry <= 0 {
		config.DefaultExpiry = DefaultConfig().DefaultExpiry
	}
	if config.Collection == "" {
		config.Collection = DefaultCollection
	}
	return &Ledger{
		ingredients: make(map[entities.IngredientID]*entities.Ingredient),
		config:      config,
		now:         time.Now,
		newID:       uuid.NewString,
		persister:   persister,
		publisher:   publisher,
		log:         logger.Component("ledger"),
	}
}

// WithClock replaces the time source
func (l *Ledger) WithClock(now func() time.Time) *Ledger {
	l.now = now
	return l
}

// WithIDGenerator replaces the batch id generator
func (l *Ledger) WithIDGenerator(newID func() string) *Ledger {
	l.newID = newID
	return l
}

// WithLogger replaces the ledger logger
func (l *Ledger) WithLogger(log zerolog.Logger) *Ledger {
	l.log = log
	return l
}

// Load seeds the ledger from a repository snapshot without persisting
func (l *Ledger) Load(ingredients []*entities.Ingredient) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, ing := range ingredients {
		l.put(ing.Clone())
	}
}

// LoadFrom seeds the ledger from an ingredient repository
func (l *Ledger) LoadFrom(ctx context.Context, repo repositories.IngredientRepository) error {
	ingredients, err := repo.GetAllIngredients(ctx)
	if err != nil {
		return fmt.Errorf("failed to load ingredients: %w", err)
	}
	l.Load(ingredients)
	return nil
}

// Upsert registers or replaces an ingredient and persists the full record
func (l *Ledger) Upsert(ctx context.Context, ingredient entities.Ingredient) error {
	return l.execute(ctx, &upsertCommand{ingredient: ingredient.Clone()})
}

// AddBatch receives a new batch for an ingredient
func (l *Ledger) AddBatch(ctx context.Context, id entities.IngredientID, data BatchData) (*entities.Batch, error) {
	cmd := &addBatchCommand{id: id, data: data}
	if err := l.execute(ctx, cmd); err != nil {
		return nil, err
	}
	return &cmd.batch, nil
}

// ConsumeStock deducts quantity FIFO by expiry. An unknown ingredient is a
// no-op reported through Found; consuming more than is held empties the
// ingredient and reports the difference as Shortfall.
func (l *Ledger) ConsumeStock(ctx context.Context, id entities.IngredientID, quantity decimal.Decimal) (dto.ConsumptionResult, error) {
	cmd := &consumeCommand{id: id, quantity: quantity}
	if err := l.execute(ctx, cmd); err != nil {
		return dto.ConsumptionResult{}, err
	}
	return cmd.result, nil
}

// ConsumeRequirements deducts every requirement of an explosion from stock
func (l *Ledger) ConsumeRequirements(ctx context.Context, requirements []entities.Requirement) ([]dto.ConsumptionResult, error) {
	results := make([]dto.ConsumptionResult, 0, len(requirements))
	for _, req := range requirements {
		result, err := l.ConsumeStock(ctx, req.IngredientID, req.TotalGrossQuantity)
		if err != nil {
			return results, fmt.Errorf("consume %s: %w", req.IngredientID, err)
		}
		results = append(results, result)
	}
	return results, nil
}

// Ingredient returns a copy of one ingredient
func (l *Ledger) Ingredient(id entities.IngredientID) (entities.Ingredient, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	ing, ok := l.ingredients[id]
	if !ok {
		return entities.Ingredient{}, fmt.Errorf("%w: %s", ErrIngredientNotFound, id)
	}
	return ing.Clone(), nil
}

// Ingredients returns copies of all ingredients in registration order
func (l *Ledger) Ingredients() []entities.Ingredient {
	l.mu.Lock()
	defer l.mu.Unlock()

	out := make([]entities.Ingredient, 0, len(l.order))
	for _, id := range l.order {
		out = append(out, l.ingredients[id].Clone())
	}
	return out
}

// Snapshot returns stock per ingredient
func (l *Ledger) Snapshot() map[entities.IngredientID]decimal.Decimal {
	l.mu.Lock()
	defer l.mu.Unlock()

	out := make(map[entities.IngredientID]decimal.Decimal, len(l.ingredients))
	for id, ing := range l.ingredients {
		out[id] = ing.Stock
	}
	return out
}

// ExpiringBatch is an active batch close to expiry
type ExpiringBatch struct {
	IngredientName string
	Batch          entities.Batch
}

// ExpiringSoon returns active batches expiring within the window, soonest first
func (l *Ledger) ExpiringSoon(within time.Duration) []ExpiringBatch {
	now := l.now()

	l.mu.Lock()
	var out []ExpiringBatch
	for _, id := range l.order {
		ing := l.ingredients[id]
		for _, b := range ing.Batches {
			if b.Status == entities.BatchActive && !b.IsDepleted() && b.ExpiresWithin(now, within) {
				out = append(out, ExpiringBatch{IngredientName: ing.Name, Batch: b})
			}
		}
	}
	l.mu.Unlock()

	sortExpiring(out)
	return out
}

// execute applies cmd under the lock. Writes are queued before the lock is
// released so the store sees them in commit order; events go out afterwards.
func (l *Ledger) execute(ctx context.Context, cmd command) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	l.mu.Lock()
	fx, err := cmd.apply(l)
	if err == nil && l.persister != nil {
		for _, w := range fx.writes {
			l.persister.Persist(w)
		}
	}
	l.mu.Unlock()

	if err != nil {
		metrics.RecordLedgerCommand(cmd.name(), "error")
		return err
	}
	metrics.RecordLedgerCommand(cmd.name(), fx.result())

	for _, e := range fx.events {
		l.publish(e)
	}
	return nil
}

func (l *Ledger) publish(e events.Event) {
	if l.publisher == nil {
		return
	}
	if err := l.publisher.AppendEvent(e.StreamID(), e); err != nil {
		l.log.Error().Err(err).Str("event_type", e.Type()).Msg("failed to publish ledger event")
	}
}

func (l *Ledger) put(ing entities.Ingredient) {
	if _, exists := l.ingredients[ing.ID]; !exists {
		l.order = append(l.order, ing.ID)
	}
	l.ingredients[ing.ID] = &ing
}

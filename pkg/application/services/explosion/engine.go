package explosion

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/vsinha/kitchen-mrp/pkg/application/dto"
	"github.com/vsinha/kitchen-mrp/pkg/domain/entities"
	"github.com/vsinha/kitchen-mrp/pkg/domain/services"
	"github.com/vsinha/kitchen-mrp/pkg/infrastructure/logger"
	"github.com/vsinha/kitchen-mrp/pkg/infrastructure/metrics"
)

// EngineConfig holds configuration for the explosion engine
type EngineConfig struct {
	// Workers bounds the number of events exploded in parallel by
	// ExplodeConcurrent. Values below 1 mean 1.
	Workers int
}

// Engine turns scheduled events into aggregated raw-ingredient requirements.
// It holds no per-run state and is safe for concurrent use.
type Engine struct {
	config    EngineConfig
	validator *services.RecipeValidator
	log       zerolog.Logger
	now       func() time.Time
}

// NewEngine creates an engine with default configuration
func NewEngine() *Engine {
	return NewEngineWithConfig(EngineConfig{Workers: 4})
}

// NewEngineWithConfig creates an engine with custom configuration
func NewEngineWithConfig(config EngineConfig) *Engine {
	if config.Workers < 1 {
		config.Workers = 1
	}
	return &Engine{
		config:    config,
		validator: services.NewRecipeValidator(),
		log:       logger.Component("explosion"),
		now:       time.Now,
	}
}

// WithLogger replaces the engine logger
func (e *Engine) WithLogger(log zerolog.Logger) *Engine {
	e.log = log
	return e
}

// Explode computes gross requirements for events. Events are processed in
// order and requirements are returned in the order ingredients were first
// reached. A cycle among base recipes fails with services.ErrCycleDetected.
func (e *Engine) Explode(events []*entities.Event, catalog *Catalog) ([]entities.Requirement, error) {
	visitor, _, err := e.explodeSequential(context.Background(), events, catalog, nil)
	if err != nil {
		return nil, err
	}
	return visitor.Requirements(), nil
}

// ExplodeConcurrent produces the same output as Explode, exploding events
// in parallel and merging the partial results in event order
func (e *Engine) ExplodeConcurrent(
	ctx context.Context,
	events []*entities.Event,
	catalog *Catalog,
) ([]entities.Requirement, error) {
	visitor, _, err := e.explodeParallel(ctx, events, catalog)
	if err != nil {
		return nil, err
	}
	return visitor.Requirements(), nil
}

// Trace explodes events while recording every visited node
func (e *Engine) Trace(ctx context.Context, events []*entities.Event, catalog *Catalog) ([]TraceStep, error) {
	trace := &TraceVisitor{}
	if _, _, err := e.explodeSequential(ctx, events, catalog, trace); err != nil {
		return nil, err
	}
	return trace.Steps, nil
}

// Run explodes events concurrently and returns a costed report
func (e *Engine) Run(ctx context.Context, events []*entities.Event, catalog *Catalog) (*dto.ExplosionResult, error) {
	start := e.now()

	visitor, exploded, err := e.explodeParallel(ctx, events, catalog)
	if err != nil {
		metrics.RecordExplosion(time.Since(start), "error")
		return nil, err
	}

	requirements := visitor.Requirements()
	cost := decimal.Zero
	for i := range requirements {
		if ing, ok := catalog.Ingredients[requirements[i].IngredientID]; ok {
			cost = cost.Add(requirements[i].EstimatedCost(ing.CostPerUnit))
		}
	}

	metrics.RecordExplosion(time.Since(start), "success")
	e.log.Info().
		Int("events", len(events)).
		Int("events_exploded", exploded).
		Int("requirements", len(requirements)).
		Str("estimated_cost", cost.StringFixed(2)).
		Msg("Demand explosion complete")

	return &dto.ExplosionResult{
		Requirements:   requirements,
		EventsExploded: exploded,
		EventsSkipped:  len(events) - exploded,
		EstimatedCost:  cost,
		ComputedAt:     start,
	}, nil
}

func (e *Engine) checkCatalog(catalog *Catalog) error {
	if catalog == nil {
		return fmt.Errorf("catalog cannot be nil")
	}
	if err := e.validator.CheckCycles(catalog.Recipes); err != nil {
		e.log.Error().Err(err).Msg("Refusing to explode cyclic recipe graph")
		return err
	}
	return nil
}

func (e *Engine) explodeSequential(
	ctx context.Context,
	events []*entities.Event,
	catalog *Catalog,
	extra RecipeNodeVisitor,
) (*RequirementVisitor, int, error) {
	if err := e.checkCatalog(catalog); err != nil {
		return nil, 0, err
	}

	traverser := NewRecipeTraverser(catalog, e.log)
	visitor := NewRequirementVisitor()
	var target RecipeNodeVisitor = visitor
	if extra != nil {
		target = extra
	}

	exploded := 0
	for _, event := range events {
		ok, err := traverser.TraverseEvent(ctx, event, target)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to explode event %s: %w", event.ID, err)
		}
		if ok {
			exploded++
		}
	}
	return visitor, exploded, nil
}

func (e *Engine) explodeParallel(
	ctx context.Context,
	events []*entities.Event,
	catalog *Catalog,
) (*RequirementVisitor, int, error) {
	if err := e.checkCatalog(catalog); err != nil {
		return nil, 0, err
	}

	traverser := NewRecipeTraverser(catalog, e.log)
	partials := make([]*RequirementVisitor, len(events))
	explodedFlags := make([]bool, len(events))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.config.Workers)
	for i, event := range events {
		g.Go(func() error {
			partial := NewRequirementVisitor()
			ok, err := traverser.TraverseEvent(gctx, event, partial)
			if err != nil {
				return fmt.Errorf("failed to explode event %s: %w", event.ID, err)
			}
			partials[i] = partial
			explodedFlags[i] = ok
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, 0, err
	}

	merged := NewRequirementVisitor()
	exploded := 0
	for i, partial := range partials {
		merged.Merge(partial)
		if explodedFlags[i] {
			exploded++
		}
	}
	return merged, exploded, nil
}

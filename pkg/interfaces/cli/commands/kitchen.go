package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog"

	"github.com/vsinha/kitchen-mrp/pkg/application/services/explosion"
	"github.com/vsinha/kitchen-mrp/pkg/application/services/ledger"
	"github.com/vsinha/kitchen-mrp/pkg/application/services/reorder"
	"github.com/vsinha/kitchen-mrp/pkg/config"
	"github.com/vsinha/kitchen-mrp/pkg/domain/services"
	"github.com/vsinha/kitchen-mrp/pkg/infrastructure/events"
	"github.com/vsinha/kitchen-mrp/pkg/infrastructure/logger"
	"github.com/vsinha/kitchen-mrp/pkg/infrastructure/persistence"
	"github.com/vsinha/kitchen-mrp/pkg/infrastructure/repositories/csv"
	"github.com/vsinha/kitchen-mrp/pkg/infrastructure/repositories/memory"
	"github.com/vsinha/kitchen-mrp/pkg/interfaces/cli/output"
)

// Config holds configuration shared by every kitchen command
type Config struct {
	ScenarioDir string
	OutputDir   string
	Format      string
	Verbose     bool
	Help        bool

	App config.Config
	// Out receives rendered results; nil means stdout
	Out io.Writer
}

func (c Config) writer() io.Writer {
	if c.Out == nil {
		return os.Stdout
	}
	return c.Out
}

func (c Config) outputConfig() output.Config {
	return output.Config{Format: c.Format, OutputDir: c.OutputDir, Verbose: c.Verbose}
}

func (c Config) validate() error {
	if c.ScenarioDir == "" {
		return fmt.Errorf("-scenario is required")
	}
	info, err := os.Stat(c.ScenarioDir)
	if err != nil {
		return fmt.Errorf("scenario directory: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("scenario path is not a directory: %s", c.ScenarioDir)
	}
	return c.outputConfig().Validate()
}

// Kitchen is one scenario wired to the ledger, the reorder monitor and a
// durable backend
type Kitchen struct {
	Scenario *csv.Scenario
	Catalog  *explosion.Catalog
	Engine   *explosion.Engine
	Ledger   *ledger.Ledger
	Monitor  *reorder.Monitor
	Events   *events.InMemoryEventStore
	Outbox   *persistence.Outbox
	Backend  *Backend

	outletID string
	handler  *reorder.StockEventHandler
	log      zerolog.Logger
}

// OpenKitchen loads the scenario in cfg.ScenarioDir and wires it to the
// configured backend
func OpenKitchen(ctx context.Context, cfg Config) (*Kitchen, error) {
	log := logger.Component("cli")

	scenario, err := csv.NewLoader().LoadScenario(cfg.ScenarioDir)
	if err != nil {
		return nil, fmt.Errorf("failed to load scenario: %w", err)
	}

	ingredientRepo := memory.NewIngredientRepository(len(scenario.Ingredients))
	if err := ingredientRepo.LoadIngredients(ctx, scenario.Ingredients); err != nil {
		return nil, err
	}
	recipeRepo := memory.NewRecipeRepository()
	if err := recipeRepo.LoadRecipes(ctx, scenario.Recipes); err != nil {
		return nil, err
	}
	if err := recipeRepo.LoadMenus(ctx, scenario.Menus); err != nil {
		return nil, err
	}

	catalog, err := explosion.LoadCatalog(ctx, ingredientRepo, recipeRepo, recipeRepo)
	if err != nil {
		return nil, err
	}
	if err := catalog.NormalizeUnits(services.NewRecipeValidator()); err != nil {
		return nil, fmt.Errorf("invalid recipe units: %w", err)
	}

	backend, err := OpenBackend(ctx, cfg.App.Store)
	if err != nil {
		return nil, err
	}

	app := cfg.App
	outbox := persistence.NewOutbox(backend.Store, backend.Breaker, persistence.Config{
		RetryInterval: app.Outbox.RetryInterval,
		MaxElapsed:    app.Outbox.MaxElapsed,
	})
	store := events.NewInMemoryEventStore()

	l := ledger.New(ledger.Config{
		OutletID:      app.Ledger.OutletID,
		DefaultExpiry: app.Ledger.DefaultExpiry,
	}, outbox, store)
	if err := l.LoadFrom(ctx, ingredientRepo); err != nil {
		_ = backend.Close(ctx)
		return nil, err
	}

	monitor := reorder.NewMonitor(l, backend.Notifications, reorder.Config{
		OutletID: app.Ledger.OutletID,
		Location: app.Reorder.Location(),
		Link:     app.Reorder.Link,
	}).WithPublisher(store)
	handler, err := monitor.Subscribe(store)
	if err != nil {
		_ = backend.Close(ctx)
		return nil, err
	}

	log.Debug().
		Str("scenario", cfg.ScenarioDir).
		Str("backend", backend.Name).
		Int("ingredients", len(scenario.Ingredients)).
		Int("recipes", len(scenario.Recipes)).
		Int("events", len(scenario.Events)).
		Msg("Kitchen opened")

	return &Kitchen{
		Scenario: scenario,
		Catalog:  catalog,
		Engine:   explosion.NewEngineWithConfig(explosion.EngineConfig{Workers: app.Explosion.Workers}),
		Ledger:   l,
		Monitor:  monitor,
		Events:   store,
		Outbox:   outbox,
		Backend:  backend,
		outletID: app.Ledger.OutletID,
		handler:  handler,
		log:      log,
	}, nil
}

// Settle waits for event handlers and drains queued document writes
func (k *Kitchen) Settle(ctx context.Context) error {
	k.Events.Wait()
	if err := k.Outbox.Flush(ctx); err != nil {
		k.log.Warn().Err(err).Int("pending", k.Outbox.Pending()).Msg("Document writes still pending")
		return err
	}
	return nil
}

// Close unsubscribes handlers and closes the backend
func (k *Kitchen) Close(ctx context.Context) error {
	return errors.Join(
		k.Events.Unsubscribe(k.handler),
		k.Backend.Close(ctx),
	)
}

package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/shopspring/decimal"

	"github.com/vsinha/kitchen-mrp/pkg/application/services/explosion"
	"github.com/vsinha/kitchen-mrp/pkg/application/services/ledger"
	"github.com/vsinha/kitchen-mrp/pkg/application/services/reorder"
	"github.com/vsinha/kitchen-mrp/pkg/domain/entities"
	"github.com/vsinha/kitchen-mrp/pkg/domain/services"
	"github.com/vsinha/kitchen-mrp/pkg/infrastructure/events"
	"github.com/vsinha/kitchen-mrp/pkg/infrastructure/logger"
	"github.com/vsinha/kitchen-mrp/pkg/infrastructure/persistence"
	"github.com/vsinha/kitchen-mrp/pkg/infrastructure/repositories/memory"
	"github.com/vsinha/kitchen-mrp/pkg/interfaces/cli/output"
)

func main() {
	ctx := context.Background()
	logger.Init("warn", true)

	ingredients := []*entities.Ingredient{
		must(entities.NewIngredient("BEEF", "Ground beef", "kg", dec("9.50"), dec("0"), dec("2"))),
		must(entities.NewIngredient("ONION", "Onion", "kg", dec("1.20"), dec("0.2"), dec("1"))),
		must(entities.NewIngredient("SALT", "Salt", "kg", dec("0.80"), dec("0"), dec("0"))),
	}
	sauce := must(entities.NewRecipe("SAUCE", "House sauce", 1, true, []entities.RecipeLine{
		*must(entities.NewRecipeLine("ONION", dec("0.5"), "kg")),
		*must(entities.NewRecipeLine("SALT", dec("10"), "g")),
	}))
	burger := must(entities.NewRecipe("BURGER", "Burger", 1, false, []entities.RecipeLine{
		*must(entities.NewRecipeLine("BEEF", dec("0.150"), "kg")),
		*must(entities.NewRecipeLine("SAUCE", dec("0.050"), "kg")),
	}))
	menu := must(entities.NewMenu("BURGER_MENU", "Burger menu", []entities.RecipeID{"BURGER"}))
	eventDate := time.Now().Add(48 * time.Hour)
	burgerNight := must(entities.NewEvent("EV-1", "Burger night", eventDate, 10, "BURGER_MENU"))

	catalog := explosion.NewCatalog(ingredients, []*entities.Recipe{sauce, burger}, []*entities.Menu{menu})
	if err := catalog.NormalizeUnits(services.NewRecipeValidator()); err != nil {
		fail(err)
	}

	fmt.Println("🍔 Exploding burger night for 10 guests...")
	result, err := explosion.NewEngine().Run(ctx, []*entities.Event{burgerNight}, catalog)
	if err != nil {
		fail(err)
	}
	if err := output.Generate(os.Stdout, result, output.Config{Format: output.FormatText, Verbose: true}); err != nil {
		fail(err)
	}

	// Durable writes go through the outbox into an in-memory document store
	docs := memory.NewDocumentStore()
	outbox := persistence.NewOutbox(docs, nil, persistence.DefaultConfig())
	store := events.NewInMemoryEventStore()

	l := ledger.New(ledger.Config{OutletID: "main"}, outbox, store)
	l.Load(ingredients)
	for _, delivery := range []struct {
		id  entities.IngredientID
		qty string
	}{{"BEEF", "2"}, {"BEEF", "1.5"}, {"ONION", "3"}, {"SALT", "1"}} {
		if _, err := l.AddBatch(ctx, delivery.id, ledger.BatchData{Quantity: dec(delivery.qty)}); err != nil {
			fail(err)
		}
	}

	notifications := memory.NewNotificationRepository()
	monitor := reorder.NewMonitor(l, notifications, reorder.Config{OutletID: "main", Link: "/inventory"})
	if _, err := monitor.Subscribe(store); err != nil {
		fail(err)
	}

	consumed, err := l.ConsumeRequirements(ctx, result.Requirements)
	if err != nil {
		fail(err)
	}
	store.Wait()
	if err := outbox.Flush(ctx); err != nil {
		fail(err)
	}

	textOutput := output.Config{Format: output.FormatText}
	if err := output.GenerateConsumption(os.Stdout, consumed, textOutput); err != nil {
		fail(err)
	}
	alerts, err := notifications.List(ctx, "main")
	if err != nil {
		fail(err)
	}
	if err := output.GenerateNotifications(os.Stdout, alerts, textOutput); err != nil {
		fail(err)
	}
	fmt.Printf("💾 %d inventory documents persisted\n", docs.Count(ledger.DefaultCollection))
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func must[T any](v T, err error) T {
	if err != nil {
		fail(err)
	}
	return v
}

func fail(err error) {
	fmt.Fprintf(os.Stderr, "❌ %v\n", err)
	os.Exit(1)
}

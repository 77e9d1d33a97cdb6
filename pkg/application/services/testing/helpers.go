package testing

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/vsinha/kitchen-mrp/pkg/domain/entities"
)

// Kitchen bundles catalog records for a test scenario
type Kitchen struct {
	Ingredients []*entities.Ingredient
	Recipes     []*entities.Recipe
	Menus       []*entities.Menu
	Events      []*entities.Event
}

// Dec parses a decimal literal, panicking on malformed input
func Dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

// mustCreateIngredient is a helper for tests - panics on validation error
func mustCreateIngredient(id, name, unit, cost, wastage, reorder string) *entities.Ingredient {
	ing, err := entities.NewIngredient(
		entities.IngredientID(id),
		name,
		unit,
		Dec(cost),
		Dec(wastage),
		Dec(reorder),
	)
	if err != nil {
		panic(err)
	}
	return ing
}

// mustCreateLine is a helper for tests - panics on validation error
func mustCreateLine(id, qty, unit string) entities.RecipeLine {
	line, err := entities.NewRecipeLine(entities.IngredientID(id), Dec(qty), unit)
	if err != nil {
		panic(err)
	}
	return *line
}

// mustCreateRecipe is a helper for tests - panics on validation error
func mustCreateRecipe(id, name string, yield int, isBase bool, lines ...entities.RecipeLine) *entities.Recipe {
	recipe, err := entities.NewRecipe(entities.RecipeID(id), name, yield, isBase, lines)
	if err != nil {
		panic(err)
	}
	return recipe
}

// MustCreateEvent is a helper for tests - panics on validation error
func MustCreateEvent(id, name string, date time.Time, pax int, menuID string) *entities.Event {
	event, err := entities.NewEvent(entities.EventID(id), name, date, pax, entities.MenuID(menuID))
	if err != nil {
		panic(err)
	}
	return event
}

// EventDate is the fixed date used by fixture events
var EventDate = time.Date(2025, 3, 14, 0, 0, 0, 0, time.UTC)

// BuildBurgerKitchen creates the nested burger/sauce scenario:
//
//	BURGER (yield 1): 0.150 kg BEEF, 0.050 kg SAUCE
//	SAUCE  (yield 1, base): 0.5 kg ONION (20% wastage), 0.01 kg SALT
//
// with one 10-pax event on BURGER_MENU.
func BuildBurgerKitchen() *Kitchen {
	return &Kitchen{
		Ingredients: []*entities.Ingredient{
			mustCreateIngredient("BEEF", "Ground beef", "kg", "9.50", "0", "2"),
			mustCreateIngredient("ONION", "Onion", "kg", "1.20", "0.2", "1"),
			mustCreateIngredient("SALT", "Salt", "kg", "0.80", "0", "0"),
			mustCreateIngredient("BUN", "Brioche bun", "un", "0.35", "0", "24"),
		},
		Recipes: []*entities.Recipe{
			mustCreateRecipe("BURGER", "Burger", 1, false,
				mustCreateLine("BEEF", "0.150", "kg"),
				mustCreateLine("SAUCE", "0.050", "kg"),
			),
			mustCreateRecipe("SAUCE", "House sauce", 1, true,
				mustCreateLine("ONION", "0.5", "kg"),
				mustCreateLine("SALT", "0.01", "kg"),
			),
		},
		Menus: []*entities.Menu{
			{ID: "BURGER_MENU", Name: "Burger night", RecipeIDs: []entities.RecipeID{"BURGER"}},
		},
		Events: []*entities.Event{
			MustCreateEvent("EV-1", "Burger night", EventDate, 10, "BURGER_MENU"),
		},
	}
}

// BuildBanquetKitchen creates a scenario with two menus sharing ONION, a
// yield-scaled base recipe and a second event
func BuildBanquetKitchen() *Kitchen {
	k := BuildBurgerKitchen()
	k.Ingredients = append(k.Ingredients,
		mustCreateIngredient("POTATO", "Potato", "kg", "0.90", "0.25", "10"),
		mustCreateIngredient("CREAM", "Cream", "L", "3.10", "0", "1"),
	)
	k.Recipes = append(k.Recipes,
		mustCreateRecipe("GRATIN", "Potato gratin", 4, false,
			mustCreateLine("POTATO", "0.6", "kg"),
			mustCreateLine("CREAM", "0.2", "L"),
			mustCreateLine("SAUCE", "0.1", "kg"),
		),
	)
	k.Menus = append(k.Menus, &entities.Menu{
		ID:        "BANQUET",
		Name:      "Banquet",
		RecipeIDs: []entities.RecipeID{"BURGER", "GRATIN"},
	})
	k.Events = append(k.Events,
		MustCreateEvent("EV-2", "Wedding", EventDate.AddDate(0, 0, 1), 40, "BANQUET"),
	)
	return k
}

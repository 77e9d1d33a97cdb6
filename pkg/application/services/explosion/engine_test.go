package explosion

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	fixtures "github.com/vsinha/kitchen-mrp/pkg/application/services/testing"
	"github.com/vsinha/kitchen-mrp/pkg/domain/entities"
	"github.com/vsinha/kitchen-mrp/pkg/domain/services"
)

func catalogOf(k *fixtures.Kitchen) *Catalog {
	return NewCatalog(k.Ingredients, k.Recipes, k.Menus)
}

func requireQty(t *testing.T, expected string, req entities.Requirement) {
	t.Helper()
	assert.True(t, req.TotalGrossQuantity.Equal(fixtures.Dec(expected)),
		"%s: expected %s, got %s", req.IngredientID, expected, req.TotalGrossQuantity)
}

func assertSameRequirements(t *testing.T, expected, actual []entities.Requirement) {
	t.Helper()
	require.Len(t, actual, len(expected))
	for i := range expected {
		assert.Equal(t, expected[i].IngredientID, actual[i].IngredientID)
		assert.True(t, expected[i].TotalGrossQuantity.Equal(actual[i].TotalGrossQuantity),
			"%s: %s != %s", expected[i].IngredientID, expected[i].TotalGrossQuantity, actual[i].TotalGrossQuantity)
		require.Len(t, actual[i].SubItems, len(expected[i].SubItems))
		for j := range expected[i].SubItems {
			assert.Equal(t, expected[i].SubItems[j].EventID, actual[i].SubItems[j].EventID)
			assert.True(t, expected[i].SubItems[j].Quantity.Equal(actual[i].SubItems[j].Quantity))
		}
	}
}

func TestEngine_BurgerWithNestedSauce(t *testing.T) {
	k := fixtures.BuildBurgerKitchen()

	reqs, err := NewEngine().Explode(k.Events, catalogOf(k))
	require.NoError(t, err)
	require.Len(t, reqs, 3)

	assert.Equal(t, entities.IngredientID("BEEF"), reqs[0].IngredientID)
	requireQty(t, "1.5", reqs[0])
	assert.Equal(t, "kg", reqs[0].Unit)

	assert.Equal(t, entities.IngredientID("ONION"), reqs[1].IngredientID)
	requireQty(t, "0.3125", reqs[1])
	assert.True(t, reqs[1].WastageFactor.Equal(fixtures.Dec("0.2")))
	assert.Equal(t, "Onion", reqs[1].IngredientName)

	assert.Equal(t, entities.IngredientID("SALT"), reqs[2].IngredientID)
	requireQty(t, "0.005", reqs[2])

	for _, req := range reqs {
		require.Len(t, req.SubItems, 1)
		assert.Equal(t, entities.EventID("EV-1"), req.SubItems[0].EventID)
		assert.Equal(t, "Burger night", req.SubItems[0].EventName)
	}
}

func TestEngine_FlatRecipeScalesByYield(t *testing.T) {
	testCases := []struct {
		name     string
		yield    int
		pax      int
		qty      string
		expected string
	}{
		{"yield four for ten guests", 4, 10, "1", "2.5"},
		{"yield one", 1, 12, "0.2", "2.4"},
		{"unset yield defaults to one", 0, 3, "0.5", "1.5"},
		{"yield above pax", 20, 5, "2", "0.5"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			catalog := NewCatalog(
				[]*entities.Ingredient{{ID: "RICE", Name: "Rice", Unit: "kg"}},
				[]*entities.Recipe{{ID: "PILAF", Name: "Pilaf", YieldPax: tc.yield, Lines: []entities.RecipeLine{
					{IngredientID: "RICE", Quantity: fixtures.Dec(tc.qty)},
				}}},
				[]*entities.Menu{{ID: "M", RecipeIDs: []entities.RecipeID{"PILAF"}}},
			)
			events := []*entities.Event{fixtures.MustCreateEvent("E", "Lunch", fixtures.EventDate, tc.pax, "M")}

			reqs, err := NewEngine().Explode(events, catalog)
			require.NoError(t, err)
			require.Len(t, reqs, 1)
			requireQty(t, tc.expected, reqs[0])
		})
	}
}

func TestEngine_TwoEventsAggregateIntoOneRequirement(t *testing.T) {
	k := fixtures.BuildBurgerKitchen()
	events := []*entities.Event{
		fixtures.MustCreateEvent("EV-A", "Lunch", fixtures.EventDate, 10, "BURGER_MENU"),
		fixtures.MustCreateEvent("EV-B", "Dinner", fixtures.EventDate, 20, "BURGER_MENU"),
	}

	reqs, err := NewEngine().Explode(events, catalogOf(k))
	require.NoError(t, err)
	require.Len(t, reqs, 3)

	beef := reqs[0]
	requireQty(t, "4.5", beef)
	require.Len(t, beef.SubItems, 2)
	assert.Equal(t, entities.EventID("EV-A"), beef.SubItems[0].EventID)
	assert.True(t, beef.SubItems[0].Quantity.Equal(fixtures.Dec("1.5")))
	assert.Equal(t, entities.EventID("EV-B"), beef.SubItems[1].EventID)
	assert.True(t, beef.SubItems[1].Quantity.Equal(fixtures.Dec("3")))
}

func TestEngine_BanquetSharesBaseRecipeAcrossMenus(t *testing.T) {
	k := fixtures.BuildBanquetKitchen()

	reqs, err := NewEngine().Explode(k.Events, catalogOf(k))
	require.NoError(t, err)

	ids := make([]entities.IngredientID, len(reqs))
	for i, r := range reqs {
		ids[i] = r.IngredientID
	}
	assert.Equal(t, []entities.IngredientID{"BEEF", "ONION", "SALT", "POTATO", "CREAM"}, ids)

	requireQty(t, "7.5", reqs[0])
	requireQty(t, "2.1875", reqs[1])
	assert.Len(t, reqs[1].SubItems, 3)
	requireQty(t, "0.035", reqs[2])
	requireQty(t, "8", reqs[3])
	requireQty(t, "2", reqs[4])
}

func TestEngine_IsIdempotent(t *testing.T) {
	k := fixtures.BuildBanquetKitchen()
	catalog := catalogOf(k)
	engine := NewEngine()

	first, err := engine.Explode(k.Events, catalog)
	require.NoError(t, err)
	second, err := engine.Explode(k.Events, catalog)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestEngine_SkipsUnresolvableInput(t *testing.T) {
	k := fixtures.BuildBurgerKitchen()
	catalog := catalogOf(k)
	catalog.Menus["PARTIAL"] = &entities.Menu{ID: "PARTIAL", RecipeIDs: []entities.RecipeID{"MISSING", "BURGER"}}
	catalog.Recipes["BURGER"].Lines = append(catalog.Recipes["BURGER"].Lines,
		entities.RecipeLine{IngredientID: "GHOST", Quantity: fixtures.Dec("1")})

	events := []*entities.Event{
		{ID: "NO-MENU", Name: "No menu", Pax: 10, MenuID: "UNKNOWN"},
		{ID: "NO-GUESTS", Name: "Empty", Pax: 0, MenuID: "BURGER_MENU"},
		{ID: "NEGATIVE", Name: "Negative", Pax: -3, MenuID: "BURGER_MENU"},
		{ID: "BLANK", Name: "Blank", Pax: 10},
		{ID: "OK", Name: "Partial", Pax: 10, MenuID: "PARTIAL"},
	}

	result, err := NewEngine().Run(context.Background(), events, catalog)
	require.NoError(t, err)

	assert.Equal(t, 1, result.EventsExploded)
	assert.Equal(t, 4, result.EventsSkipped)
	require.Len(t, result.Requirements, 3)
	requireQty(t, "1.5", result.Requirements[0])
	for _, req := range result.Requirements {
		assert.NotEqual(t, entities.IngredientID("GHOST"), req.IngredientID)
	}
}

func TestEngine_NoEvents(t *testing.T) {
	k := fixtures.BuildBurgerKitchen()

	reqs, err := NewEngine().Explode(nil, catalogOf(k))
	require.NoError(t, err)
	assert.Empty(t, reqs)
}

func TestEngine_RejectsCycles(t *testing.T) {
	k := fixtures.BuildBurgerKitchen()
	catalog := catalogOf(k)
	catalog.Recipes["A"] = &entities.Recipe{ID: "A", Name: "A", IsBase: true,
		Lines: []entities.RecipeLine{{IngredientID: "B", Quantity: fixtures.Dec("1")}}}
	catalog.Recipes["B"] = &entities.Recipe{ID: "B", Name: "B", IsBase: true,
		Lines: []entities.RecipeLine{{IngredientID: "A", Quantity: fixtures.Dec("1")}}}

	engine := NewEngine()

	_, err := engine.Explode(k.Events, catalog)
	require.Error(t, err)
	assert.True(t, errors.Is(err, services.ErrCycleDetected))

	_, err = engine.ExplodeConcurrent(context.Background(), k.Events, catalog)
	assert.ErrorIs(t, err, services.ErrCycleDetected)

	_, err = engine.Explode(k.Events, nil)
	assert.Error(t, err)
}

func TestEngine_ConcurrentMatchesSequential(t *testing.T) {
	k := fixtures.BuildBanquetKitchen()
	events := make([]*entities.Event, 0, 60)
	for i := 0; i < 60; i++ {
		menu := "BURGER_MENU"
		if i%3 == 0 {
			menu = "BANQUET"
		}
		events = append(events, fixtures.MustCreateEvent(
			fmt.Sprintf("EV-%02d", i), fmt.Sprintf("Event %d", i), fixtures.EventDate, 5+i, menu))
	}
	catalog := catalogOf(k)

	sequential, err := NewEngine().Explode(events, catalog)
	require.NoError(t, err)

	for _, workers := range []int{1, 3, 16} {
		t.Run(fmt.Sprintf("workers=%d", workers), func(t *testing.T) {
			concurrent, err := NewEngineWithConfig(EngineConfig{Workers: workers}).
				ExplodeConcurrent(context.Background(), events, catalog)
			require.NoError(t, err)
			assertSameRequirements(t, sequential, concurrent)
		})
	}
}

func TestEngine_ConcurrentHonoursCancellation(t *testing.T) {
	k := fixtures.BuildBurgerKitchen()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewEngine().ExplodeConcurrent(ctx, k.Events, catalogOf(k))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestEngine_RunEstimatesCost(t *testing.T) {
	k := fixtures.BuildBurgerKitchen()

	result, err := NewEngine().Run(context.Background(), k.Events, catalogOf(k))
	require.NoError(t, err)

	// 1.5 * 9.50 + 0.3125 * 1.20 + 0.005 * 0.80
	assert.True(t, result.EstimatedCost.Equal(fixtures.Dec("14.629")), "got %s", result.EstimatedCost)
	assert.Equal(t, 1, result.EventsExploded)
	assert.False(t, result.ComputedAt.IsZero())
}

func TestEngine_Trace(t *testing.T) {
	k := fixtures.BuildBurgerKitchen()

	steps, err := NewEngine().Trace(context.Background(), k.Events, catalogOf(k))
	require.NoError(t, err)
	require.Len(t, steps, 4)

	assert.Equal(t, entities.IngredientID("BEEF"), steps[0].TargetID)
	assert.Equal(t, 0, steps[0].Level)

	assert.True(t, steps[1].SubRecipe)
	assert.Equal(t, "House sauce", steps[1].TargetName)
	assert.True(t, steps[1].NetQuantity.Equal(fixtures.Dec("0.5")))

	assert.Equal(t, entities.IngredientID("ONION"), steps[2].TargetID)
	assert.Equal(t, 1, steps[2].Level)
	assert.True(t, steps[2].NetQuantity.Equal(fixtures.Dec("0.25")))
	assert.True(t, steps[2].GrossQuantity.Equal(fixtures.Dec("0.3125")))
}

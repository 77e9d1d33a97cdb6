package services

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vsinha/kitchen-mrp/pkg/domain/entities"
)

func line(id string, qty string, unit string) entities.RecipeLine {
	return entities.RecipeLine{
		IngredientID: entities.IngredientID(id),
		Quantity:     decimal.RequireFromString(qty),
		Unit:         unit,
	}
}

func recipes(rs ...*entities.Recipe) map[entities.RecipeID]*entities.Recipe {
	out := make(map[entities.RecipeID]*entities.Recipe, len(rs))
	for _, r := range rs {
		out[r.ID] = r
	}
	return out
}

func TestRecipeValidator_DetectSimpleCycle(t *testing.T) {
	// A -> B -> A, both base recipes
	catalog := recipes(
		&entities.Recipe{ID: "A", Name: "A", IsBase: true, Lines: []entities.RecipeLine{line("B", "1", "")}},
		&entities.Recipe{ID: "B", Name: "B", IsBase: true, Lines: []entities.RecipeLine{line("A", "1", "")}},
	)

	v := NewRecipeValidator()
	result := v.Validate(catalog, nil)

	assert.True(t, result.HasCycles)
	require.Len(t, result.CyclePaths, 1)
	assert.Equal(t, []entities.RecipeID{"A", "B", "A"}, result.CyclePaths[0])
	assert.NotEmpty(t, result.Errors)

	err := v.CheckCycles(catalog)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrCycleDetected))

	var cycleErr *CycleError
	require.True(t, errors.As(err, &cycleErr))
	assert.Equal(t, "recipe cycle detected: A -> B -> A", cycleErr.Error())
}

func TestRecipeValidator_DetectLongerCycle(t *testing.T) {
	// DISH -> A -> B -> C -> A
	catalog := recipes(
		&entities.Recipe{ID: "DISH", Name: "Dish", Lines: []entities.RecipeLine{line("A", "1", "")}},
		&entities.Recipe{ID: "A", Name: "A", IsBase: true, Lines: []entities.RecipeLine{line("B", "1", "")}},
		&entities.Recipe{ID: "B", Name: "B", IsBase: true, Lines: []entities.RecipeLine{line("C", "1", "")}},
		&entities.Recipe{ID: "C", Name: "C", IsBase: true, Lines: []entities.RecipeLine{line("A", "1", "")}},
	)

	err := NewRecipeValidator().CheckCycles(catalog)

	var cycleErr *CycleError
	require.True(t, errors.As(err, &cycleErr))
	assert.Equal(t, []entities.RecipeID{"A", "B", "C", "A"}, cycleErr.Path)
}

func TestRecipeValidator_NonBaseReferenceIsNotAnEdge(t *testing.T) {
	// B is not a base recipe, so A -> B is a leaf reference and cannot loop
	catalog := recipes(
		&entities.Recipe{ID: "A", Name: "A", IsBase: true, Lines: []entities.RecipeLine{line("B", "1", "")}},
		&entities.Recipe{ID: "B", Name: "B", Lines: []entities.RecipeLine{line("A", "1", "")}},
	)

	assert.NoError(t, NewRecipeValidator().CheckCycles(catalog))
}

func TestRecipeValidator_AcyclicAndMissingReferences(t *testing.T) {
	ingredients := map[entities.IngredientID]*entities.Ingredient{
		"BEEF":  {ID: "BEEF", Unit: "kg"},
		"ONION": {ID: "ONION", Unit: "kg"},
	}
	catalog := recipes(
		&entities.Recipe{ID: "BURGER", Name: "Burger", YieldPax: 1, Lines: []entities.RecipeLine{
			line("BEEF", "0.150", "kg"),
			line("SAUCE", "0.050", "kg"),
			line("GHOST", "1", "un"),
		}},
		&entities.Recipe{ID: "SAUCE", Name: "Sauce", YieldPax: 10, IsBase: true, Lines: []entities.RecipeLine{
			line("ONION", "0.200", "kg"),
		}},
	)

	result := NewRecipeValidator().Validate(catalog, ingredients)

	assert.False(t, result.HasCycles)
	assert.Equal(t, []string{"BURGER -> GHOST"}, result.MissingReferences)
	assert.Len(t, result.Errors, 1)
}

func TestRecipeValidator_NormalizeRecipe(t *testing.T) {
	ingredients := map[entities.IngredientID]*entities.Ingredient{
		"BEEF": {ID: "BEEF", Unit: "kg"},
		"MILK": {ID: "MILK", Unit: "L"},
		"EGG":  {ID: "EGG", Unit: "un"},
	}
	recipe := &entities.Recipe{ID: "R", Name: "R", Lines: []entities.RecipeLine{
		line("BEEF", "150", "g"),
		line("MILK", "25", "cl"),
		line("EGG", "2", ""),
		line("SAUCE", "50", "g"),
	}}

	v := NewRecipeValidator()
	normalized, err := v.NormalizeRecipe(recipe, ingredients)
	require.NoError(t, err)

	assert.True(t, normalized.Lines[0].Quantity.Equal(decimal.RequireFromString("0.15")))
	assert.Equal(t, "kg", normalized.Lines[0].Unit)
	assert.True(t, normalized.Lines[1].Quantity.Equal(decimal.RequireFromString("0.25")))
	assert.Equal(t, "L", normalized.Lines[1].Unit)
	assert.True(t, normalized.Lines[2].Quantity.Equal(decimal.NewFromInt(2)))
	assert.Equal(t, "g", normalized.Lines[3].Unit, "sub-recipe lines stay as authored")

	// the input recipe is not modified
	assert.Equal(t, "g", recipe.Lines[0].Unit)

	_, err = v.NormalizeRecipe(&entities.Recipe{ID: "BAD", Lines: []entities.RecipeLine{line("EGG", "100", "g")}}, ingredients)
	assert.ErrorIs(t, err, ErrIncompatibleUnits)
}

package entities

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// RecipeID represents a unique recipe identifier
type RecipeID string

// RecipeLine represents a single line in a recipe. IngredientID may name a
// raw ingredient or a base recipe.
type RecipeLine struct {
	IngredientID IngredientID    `json:"ingredientId"`
	Quantity     decimal.Decimal `json:"quantity"`
	// Unit is the unit Quantity is expressed in; empty means the referenced
	// ingredient's native unit
	Unit string `json:"unit,omitempty"`
}

// NewRecipeLine creates a validated RecipeLine
func NewRecipeLine(ingredientID IngredientID, quantity decimal.Decimal, unit string) (*RecipeLine, error) {
	if string(ingredientID) == "" {
		return nil, fmt.Errorf("ingredient id cannot be empty")
	}
	if !quantity.IsPositive() {
		return nil, fmt.Errorf("quantity must be positive, got %s", quantity)
	}

	return &RecipeLine{
		IngredientID: ingredientID,
		Quantity:     quantity,
		Unit:         unit,
	}, nil
}

// Recipe represents a bill of ingredients for YieldPax portions
type Recipe struct {
	ID       RecipeID     `json:"id"`
	Name     string       `json:"name"`
	YieldPax int          `json:"yieldPax,omitempty"`
	IsBase   bool         `json:"isBase,omitempty"`
	Lines    []RecipeLine `json:"lines"`
}

// NewRecipe creates a validated Recipe
func NewRecipe(id RecipeID, name string, yieldPax int, isBase bool, lines []RecipeLine) (*Recipe, error) {
	if string(id) == "" {
		return nil, fmt.Errorf("recipe id cannot be empty")
	}
	if name == "" {
		return nil, fmt.Errorf("recipe name cannot be empty")
	}
	if yieldPax < 0 {
		return nil, fmt.Errorf("yield pax cannot be negative, got %d", yieldPax)
	}
	for _, line := range lines {
		if string(line.IngredientID) == string(id) {
			return nil, fmt.Errorf("recipe %s cannot reference itself", id)
		}
	}

	return &Recipe{
		ID:       id,
		Name:     name,
		YieldPax: yieldPax,
		IsBase:   isBase,
		Lines:    lines,
	}, nil
}

// EffectiveYield returns YieldPax, defaulting to 1 when unset
func (r *Recipe) EffectiveYield() decimal.Decimal {
	if r.YieldPax <= 0 {
		return decimal.NewFromInt(1)
	}
	return decimal.NewFromInt(int64(r.YieldPax))
}

package explosion

import (
	"context"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/vsinha/kitchen-mrp/pkg/domain/entities"
	"github.com/vsinha/kitchen-mrp/pkg/infrastructure/metrics"
)

// RecipeNodeContext provides context information during recipe traversal
type RecipeNodeContext struct {
	Event  *entities.Event
	Recipe *entities.Recipe
	Line   entities.RecipeLine
	// NetQuantity is line quantity times the multiplier in effect
	NetQuantity decimal.Decimal
	Level       int
}

// RecipeNodeVisitor defines the interface for processing nodes during traversal
type RecipeNodeVisitor interface {
	// VisitSubRecipe is called before descending into a base recipe.
	// Returning false skips the sub-recipe.
	VisitSubRecipe(ctx context.Context, nodeCtx RecipeNodeContext, sub *entities.Recipe) (bool, error)

	// VisitIngredient is called for each resolved raw-ingredient leaf
	VisitIngredient(ctx context.Context, nodeCtx RecipeNodeContext, ingredient *entities.Ingredient) error
}

// RecipeTraverser walks events down to raw ingredients. It never mutates
// the catalog and is safe for concurrent use.
type RecipeTraverser struct {
	catalog *Catalog
	log     zerolog.Logger
}

// NewRecipeTraverser creates a new recipe traverser
func NewRecipeTraverser(catalog *Catalog, log zerolog.Logger) *RecipeTraverser {
	return &RecipeTraverser{catalog: catalog, log: log}
}

// TraverseEvent explodes one event. It returns false when the event was
// skipped for having no resolvable menu or no guests.
func (rt *RecipeTraverser) TraverseEvent(
	ctx context.Context,
	event *entities.Event,
	visitor RecipeNodeVisitor,
) (bool, error) {
	if event.Pax <= 0 || event.MenuID == "" {
		rt.log.Debug().Str("event_id", string(event.ID)).Int("pax", event.Pax).Msg("Skipping event without menu or guests")
		return false, nil
	}

	menu, ok := rt.catalog.Menus[event.MenuID]
	if !ok {
		rt.log.Warn().
			Str("event_id", string(event.ID)).
			Str("menu_id", string(event.MenuID)).
			Msg("Menu not found")
		metrics.RecordSkippedReference("menu")
		return false, nil
	}

	pax := decimal.NewFromInt(int64(event.Pax))
	for _, recipeID := range menu.RecipeIDs {
		if err := ctx.Err(); err != nil {
			return false, err
		}

		recipe, ok := rt.catalog.Recipes[recipeID]
		if !ok {
			rt.log.Warn().
				Str("event_id", string(event.ID)).
				Str("recipe_id", string(recipeID)).
				Msg("Recipe not found")
			metrics.RecordSkippedReference("recipe")
			continue
		}

		multiplier := pax.Div(recipe.EffectiveYield())
		if err := rt.traverseRecipe(ctx, event, recipe, multiplier, 0, visitor); err != nil {
			return false, err
		}
	}

	return true, nil
}

func (rt *RecipeTraverser) traverseRecipe(
	ctx context.Context,
	event *entities.Event,
	recipe *entities.Recipe,
	multiplier decimal.Decimal,
	level int,
	visitor RecipeNodeVisitor,
) error {
	for _, line := range recipe.Lines {
		nodeCtx := RecipeNodeContext{
			Event:       event,
			Recipe:      recipe,
			Line:        line,
			NetQuantity: line.Quantity.Mul(multiplier),
			Level:       level,
		}

		if sub, ok := rt.catalog.baseRecipe(line.IngredientID); ok {
			descend, err := visitor.VisitSubRecipe(ctx, nodeCtx, sub)
			if err != nil {
				return err
			}
			if !descend {
				continue
			}
			subMultiplier := nodeCtx.NetQuantity.Div(sub.EffectiveYield())
			if err := rt.traverseRecipe(ctx, event, sub, subMultiplier, level+1, visitor); err != nil {
				return err
			}
			continue
		}

		ingredient, ok := rt.catalog.Ingredients[line.IngredientID]
		if !ok {
			rt.log.Warn().
				Str("event_id", string(event.ID)).
				Str("recipe_id", string(recipe.ID)).
				Str("ingredient_id", string(line.IngredientID)).
				Msg("Ingredient not found")
			metrics.RecordSkippedReference("ingredient")
			continue
		}

		if err := visitor.VisitIngredient(ctx, nodeCtx, ingredient); err != nil {
			return err
		}
	}
	return nil
}

package explosion

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/vsinha/kitchen-mrp/pkg/domain/entities"
)

// TraceStep is one line of an explosion tree as rendered by verbose output
type TraceStep struct {
	EventID     entities.EventID
	RecipeID    entities.RecipeID
	TargetID    entities.IngredientID
	TargetName  string
	Level       int
	NetQuantity decimal.Decimal
	// GrossQuantity is zero for sub-recipe steps
	GrossQuantity decimal.Decimal
	Unit          string
	SubRecipe     bool
}

// TraceVisitor records every visited node in traversal order
type TraceVisitor struct {
	Steps []TraceStep
}

// VisitSubRecipe records the sub-recipe and descends
func (v *TraceVisitor) VisitSubRecipe(
	ctx context.Context,
	nodeCtx RecipeNodeContext,
	sub *entities.Recipe,
) (bool, error) {
	v.Steps = append(v.Steps, TraceStep{
		EventID:     nodeCtx.Event.ID,
		RecipeID:    nodeCtx.Recipe.ID,
		TargetID:    nodeCtx.Line.IngredientID,
		TargetName:  sub.Name,
		Level:       nodeCtx.Level,
		NetQuantity: nodeCtx.NetQuantity,
		Unit:        nodeCtx.Line.Unit,
		SubRecipe:   true,
	})
	return true, nil
}

// VisitIngredient records the leaf with its gross quantity
func (v *TraceVisitor) VisitIngredient(
	ctx context.Context,
	nodeCtx RecipeNodeContext,
	ingredient *entities.Ingredient,
) error {
	v.Steps = append(v.Steps, TraceStep{
		EventID:       nodeCtx.Event.ID,
		RecipeID:      nodeCtx.Recipe.ID,
		TargetID:      ingredient.ID,
		TargetName:    ingredient.Name,
		Level:         nodeCtx.Level,
		NetQuantity:   nodeCtx.NetQuantity,
		GrossQuantity: entities.GrossQuantity(nodeCtx.NetQuantity, ingredient.WastageFactor),
		Unit:          ingredient.Unit,
	})
	return nil
}

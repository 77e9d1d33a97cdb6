package explosion

import (
	"context"

	"github.com/vsinha/kitchen-mrp/pkg/domain/entities"
)

// RequirementVisitor implements RecipeNodeVisitor by aggregating gross
// quantities per ingredient in first-seen order
type RequirementVisitor struct {
	order []entities.IngredientID
	byID  map[entities.IngredientID]*entities.Requirement
}

// NewRequirementVisitor creates an empty requirement accumulator
func NewRequirementVisitor() *RequirementVisitor {
	return &RequirementVisitor{
		byID: make(map[entities.IngredientID]*entities.Requirement),
	}
}

// VisitSubRecipe always descends
func (v *RequirementVisitor) VisitSubRecipe(
	ctx context.Context,
	nodeCtx RecipeNodeContext,
	sub *entities.Recipe,
) (bool, error) {
	return true, nil
}

// VisitIngredient converts the net leaf quantity to gross and records it
func (v *RequirementVisitor) VisitIngredient(
	ctx context.Context,
	nodeCtx RecipeNodeContext,
	ingredient *entities.Ingredient,
) error {
	gross := entities.GrossQuantity(nodeCtx.NetQuantity, ingredient.WastageFactor)

	req := v.requirementFor(ingredient)
	req.TotalGrossQuantity = req.TotalGrossQuantity.Add(gross)
	req.SubItems = append(req.SubItems, entities.RequirementSource{
		EventID:   nodeCtx.Event.ID,
		EventName: nodeCtx.Event.Name,
		Quantity:  gross,
	})
	return nil
}

func (v *RequirementVisitor) requirementFor(ingredient *entities.Ingredient) *entities.Requirement {
	if req, ok := v.byID[ingredient.ID]; ok {
		return req
	}
	req := &entities.Requirement{
		IngredientID:   ingredient.ID,
		IngredientName: ingredient.Name,
		Unit:           ingredient.Unit,
		WastageFactor:  ingredient.WastageFactor,
		SubItems:       []entities.RequirementSource{},
	}
	v.byID[ingredient.ID] = req
	v.order = append(v.order, ingredient.ID)
	return req
}

// Merge folds other into v as if other's contributions had been visited
// after v's own
func (v *RequirementVisitor) Merge(other *RequirementVisitor) {
	for _, id := range other.order {
		src := other.byID[id]
		dst, ok := v.byID[id]
		if !ok {
			cp := *src
			cp.SubItems = append([]entities.RequirementSource{}, src.SubItems...)
			v.byID[id] = &cp
			v.order = append(v.order, id)
			continue
		}
		dst.TotalGrossQuantity = dst.TotalGrossQuantity.Add(src.TotalGrossQuantity)
		dst.SubItems = append(dst.SubItems, src.SubItems...)
	}
}

// Requirements returns copies of the aggregated requirements in first-seen order
func (v *RequirementVisitor) Requirements() []entities.Requirement {
	out := make([]entities.Requirement, 0, len(v.order))
	for _, id := range v.order {
		req := *v.byID[id]
		req.SubItems = append([]entities.RequirementSource{}, req.SubItems...)
		out = append(out, req)
	}
	return out
}

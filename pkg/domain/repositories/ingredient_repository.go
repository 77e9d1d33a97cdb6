package repositories

import (
	"context"

	"github.com/vsinha/kitchen-mrp/pkg/domain/entities"
)

// IngredientRepository provides access to ingredient master data and stock
type IngredientRepository interface {
	GetIngredient(ctx context.Context, id entities.IngredientID) (*entities.Ingredient, error)
	GetAllIngredients(ctx context.Context) ([]*entities.Ingredient, error)
	SaveIngredient(ctx context.Context, ingredient *entities.Ingredient) error
	LoadIngredients(ctx context.Context, ingredients []*entities.Ingredient) error
}

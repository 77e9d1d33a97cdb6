package repositories

import (
	"context"

	"github.com/vsinha/kitchen-mrp/pkg/domain/entities"
)

// RecipeRepository provides access to recipes, including base recipes
type RecipeRepository interface {
	GetRecipe(ctx context.Context, id entities.RecipeID) (*entities.Recipe, error)
	GetAllRecipes(ctx context.Context) ([]*entities.Recipe, error)
	LoadRecipes(ctx context.Context, recipes []*entities.Recipe) error
}

// MenuRepository provides access to menus
type MenuRepository interface {
	GetMenu(ctx context.Context, id entities.MenuID) (*entities.Menu, error)
	GetAllMenus(ctx context.Context) ([]*entities.Menu, error)
	LoadMenus(ctx context.Context, menus []*entities.Menu) error
}

package explosion

import (
	"context"
	"fmt"

	"github.com/vsinha/kitchen-mrp/pkg/domain/entities"
	"github.com/vsinha/kitchen-mrp/pkg/domain/repositories"
	"github.com/vsinha/kitchen-mrp/pkg/domain/services"
)

// Catalog is the read-only lookup data an explosion runs against
type Catalog struct {
	Menus       map[entities.MenuID]*entities.Menu
	Recipes     map[entities.RecipeID]*entities.Recipe
	Ingredients map[entities.IngredientID]*entities.Ingredient
}

// NewCatalog indexes the given records by id. Later duplicates win.
func NewCatalog(
	ingredients []*entities.Ingredient,
	recipes []*entities.Recipe,
	menus []*entities.Menu,
) *Catalog {
	c := &Catalog{
		Menus:       make(map[entities.MenuID]*entities.Menu, len(menus)),
		Recipes:     make(map[entities.RecipeID]*entities.Recipe, len(recipes)),
		Ingredients: make(map[entities.IngredientID]*entities.Ingredient, len(ingredients)),
	}
	for _, ing := range ingredients {
		c.Ingredients[ing.ID] = ing
	}
	for _, r := range recipes {
		c.Recipes[r.ID] = r
	}
	for _, m := range menus {
		c.Menus[m.ID] = m
	}
	return c
}

// LoadCatalog builds a Catalog from repositories
func LoadCatalog(
	ctx context.Context,
	ingredientRepo repositories.IngredientRepository,
	recipeRepo repositories.RecipeRepository,
	menuRepo repositories.MenuRepository,
) (*Catalog, error) {
	ingredients, err := ingredientRepo.GetAllIngredients(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load ingredients: %w", err)
	}
	recipes, err := recipeRepo.GetAllRecipes(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load recipes: %w", err)
	}
	menus, err := menuRepo.GetAllMenus(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load menus: %w", err)
	}
	return NewCatalog(ingredients, recipes, menus), nil
}

// NormalizeUnits rewrites every recipe line into its ingredient's native unit
func (c *Catalog) NormalizeUnits(validator *services.RecipeValidator) error {
	for id, recipe := range c.Recipes {
		normalized, err := validator.NormalizeRecipe(recipe, c.Ingredients)
		if err != nil {
			return err
		}
		c.Recipes[id] = normalized
	}
	return nil
}

func (c *Catalog) baseRecipe(id entities.IngredientID) (*entities.Recipe, bool) {
	r, ok := c.Recipes[entities.RecipeID(id)]
	if !ok || !r.IsBase {
		return nil, false
	}
	return r, true
}

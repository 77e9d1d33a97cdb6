package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/vsinha/kitchen-mrp/pkg/domain/entities"
	"github.com/vsinha/kitchen-mrp/pkg/domain/repositories"
)

// RecipeRepository provides in-memory recipe and menu storage
type RecipeRepository struct {
	mu         sync.RWMutex
	recipes    []*entities.Recipe
	recipesMap map[entities.RecipeID]int
	menus      []*entities.Menu
	menusMap   map[entities.MenuID]int
}

// NewRecipeRepository creates a new in-memory recipe repository
func NewRecipeRepository() *RecipeRepository {
	return &RecipeRepository{
		recipesMap: make(map[entities.RecipeID]int),
		menusMap:   make(map[entities.MenuID]int),
	}
}

// Verify interface compliance
var _ repositories.RecipeRepository = (*RecipeRepository)(nil)
var _ repositories.MenuRepository = (*RecipeRepository)(nil)

// LoadRecipes loads recipes, rejecting ids that are already present
func (r *RecipeRepository) LoadRecipes(ctx context.Context, recipes []*entities.Recipe) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, recipe := range recipes {
		if _, exists := r.recipesMap[recipe.ID]; exists {
			return fmt.Errorf("duplicate recipe id: %s", recipe.ID)
		}
		r.recipesMap[recipe.ID] = len(r.recipes)
		r.recipes = append(r.recipes, copyRecipe(recipe))
	}
	return nil
}

func copyRecipe(recipe *entities.Recipe) *entities.Recipe {
	c := *recipe
	c.Lines = append([]entities.RecipeLine(nil), recipe.Lines...)
	return &c
}

// GetRecipe returns a copy of one recipe
func (r *RecipeRepository) GetRecipe(ctx context.Context, id entities.RecipeID) (*entities.Recipe, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	index, exists := r.recipesMap[id]
	if !exists {
		return nil, fmt.Errorf("recipe %s: %w", id, repositories.ErrNotFound)
	}
	return copyRecipe(r.recipes[index]), nil
}

// GetAllRecipes returns copies of all recipes in insertion order
func (r *RecipeRepository) GetAllRecipes(ctx context.Context) ([]*entities.Recipe, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*entities.Recipe, 0, len(r.recipes))
	for _, recipe := range r.recipes {
		out = append(out, copyRecipe(recipe))
	}
	return out, nil
}

// LoadMenus loads menus, rejecting ids that are already present
func (r *RecipeRepository) LoadMenus(ctx context.Context, menus []*entities.Menu) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, menu := range menus {
		if _, exists := r.menusMap[menu.ID]; exists {
			return fmt.Errorf("duplicate menu id: %s", menu.ID)
		}
		c := *menu
		c.RecipeIDs = append([]entities.RecipeID(nil), menu.RecipeIDs...)
		r.menusMap[menu.ID] = len(r.menus)
		r.menus = append(r.menus, &c)
	}
	return nil
}

// GetMenu returns one menu
func (r *RecipeRepository) GetMenu(ctx context.Context, id entities.MenuID) (*entities.Menu, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	index, exists := r.menusMap[id]
	if !exists {
		return nil, fmt.Errorf("menu %s: %w", id, repositories.ErrNotFound)
	}
	c := *r.menus[index]
	return &c, nil
}

// GetAllMenus returns all menus in insertion order
func (r *RecipeRepository) GetAllMenus(ctx context.Context) ([]*entities.Menu, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*entities.Menu, 0, len(r.menus))
	for _, m := range r.menus {
		c := *m
		out = append(out, &c)
	}
	return out, nil
}

package testing

import (
	"context"

	fixtures "github.com/vsinha/kitchen-mrp/pkg/application/services/testing"
	"github.com/vsinha/kitchen-mrp/pkg/infrastructure/repositories/memory"
)

// Repositories holds in-memory repositories seeded from a fixture kitchen
type Repositories struct {
	Ingredients *memory.IngredientRepository
	Recipes     *memory.RecipeRepository
	Events      *memory.EventRepository
}

// LoadRepositories seeds fresh in-memory repositories with k
func LoadRepositories(k *fixtures.Kitchen) (*Repositories, error) {
	ctx := context.Background()
	repos := &Repositories{
		Ingredients: memory.NewIngredientRepository(len(k.Ingredients)),
		Recipes:     memory.NewRecipeRepository(),
		Events:      memory.NewEventRepository(),
	}

	if err := repos.Ingredients.LoadIngredients(ctx, k.Ingredients); err != nil {
		return nil, err
	}
	if err := repos.Recipes.LoadRecipes(ctx, k.Recipes); err != nil {
		return nil, err
	}
	if err := repos.Recipes.LoadMenus(ctx, k.Menus); err != nil {
		return nil, err
	}
	if err := repos.Events.LoadEvents(ctx, k.Events); err != nil {
		return nil, err
	}
	return repos, nil
}

// BuildBurgerRepositories seeds repositories with the burger/sauce kitchen
func BuildBurgerRepositories() *Repositories {
	repos, err := LoadRepositories(fixtures.BuildBurgerKitchen())
	if err != nil {
		panic(err)
	}
	return repos
}

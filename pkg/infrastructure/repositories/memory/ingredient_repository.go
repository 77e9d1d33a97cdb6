package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/vsinha/kitchen-mrp/pkg/domain/entities"
	"github.com/vsinha/kitchen-mrp/pkg/domain/repositories"
)

// IngredientRepository provides in-memory ingredient storage
type IngredientRepository struct {
	mu             sync.RWMutex
	ingredients    []entities.Ingredient
	ingredientsMap map[entities.IngredientID]int
}

// NewIngredientRepository creates a new in-memory ingredient repository
func NewIngredientRepository(expected int) *IngredientRepository {
	return &IngredientRepository{
		ingredients:    make([]entities.Ingredient, 0, expected),
		ingredientsMap: make(map[entities.IngredientID]int, expected),
	}
}

// Verify interface compliance
var _ repositories.IngredientRepository = (*IngredientRepository)(nil)

// LoadIngredients loads ingredients, rejecting ids that are already present
func (r *IngredientRepository) LoadIngredients(ctx context.Context, ingredients []*entities.Ingredient) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, ing := range ingredients {
		if _, exists := r.ingredientsMap[ing.ID]; exists {
			return fmt.Errorf("duplicate ingredient id: %s", ing.ID)
		}
		r.put(ing)
	}
	return nil
}

// SaveIngredient inserts or replaces an ingredient
func (r *IngredientRepository) SaveIngredient(ctx context.Context, ingredient *entities.Ingredient) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.put(ingredient)
	return nil
}

func (r *IngredientRepository) put(ing *entities.Ingredient) {
	c := ing.Clone()
	if index, exists := r.ingredientsMap[ing.ID]; exists {
		r.ingredients[index] = c
		return
	}
	r.ingredientsMap[ing.ID] = len(r.ingredients)
	r.ingredients = append(r.ingredients, c)
}

// GetIngredient returns a copy of one ingredient
func (r *IngredientRepository) GetIngredient(ctx context.Context, id entities.IngredientID) (*entities.Ingredient, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	index, exists := r.ingredientsMap[id]
	if !exists {
		return nil, fmt.Errorf("ingredient %s: %w", id, repositories.ErrNotFound)
	}
	c := r.ingredients[index].Clone()
	return &c, nil
}

// GetAllIngredients returns copies of all ingredients in insertion order
func (r *IngredientRepository) GetAllIngredients(ctx context.Context) ([]*entities.Ingredient, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*entities.Ingredient, 0, len(r.ingredients))
	for i := range r.ingredients {
		c := r.ingredients[i].Clone()
		out = append(out, &c)
	}
	return out, nil
}

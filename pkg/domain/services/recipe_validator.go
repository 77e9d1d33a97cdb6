package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/vsinha/kitchen-mrp/pkg/domain/entities"
)

// ErrCycleDetected is returned when base recipes reference each other in a loop
var ErrCycleDetected = errors.New("recipe cycle detected")

// CycleError carries the recipe path that closes a cycle, e.g. [A B A]
type CycleError struct {
	Path []entities.RecipeID
}

func (e *CycleError) Error() string {
	parts := make([]string, len(e.Path))
	for i, id := range e.Path {
		parts[i] = string(id)
	}
	return fmt.Sprintf("%s: %s", ErrCycleDetected, strings.Join(parts, " -> "))
}

// Is lets errors.Is match ErrCycleDetected
func (e *CycleError) Is(target error) bool {
	return target == ErrCycleDetected
}

// RecipeValidator provides validation for recipe graph integrity
type RecipeValidator struct {
	converter *UnitConverter
}

// NewRecipeValidator creates a new recipe validator
func NewRecipeValidator() *RecipeValidator {
	return &RecipeValidator{converter: NewUnitConverter()}
}

// ValidationResult contains the results of recipe validation
type ValidationResult struct {
	HasCycles         bool
	CyclePaths        [][]entities.RecipeID
	MissingReferences []string
	Errors            []string
}

// Validate inspects recipes for base-recipe cycles and lines that reference
// neither a known ingredient nor a known recipe
func (v *RecipeValidator) Validate(
	recipes map[entities.RecipeID]*entities.Recipe,
	ingredients map[entities.IngredientID]*entities.Ingredient,
) *ValidationResult {
	result := &ValidationResult{
		CyclePaths:        make([][]entities.RecipeID, 0),
		MissingReferences: make([]string, 0),
		Errors:            make([]string, 0),
	}

	result.CyclePaths = v.detectCycles(v.buildAdjacencyMap(recipes))
	result.HasCycles = len(result.CyclePaths) > 0
	for _, cycle := range result.CyclePaths {
		result.Errors = append(result.Errors, (&CycleError{Path: cycle}).Error())
	}

	for _, id := range sortedRecipeIDs(recipes) {
		for _, line := range recipes[id].Lines {
			if _, ok := recipes[entities.RecipeID(line.IngredientID)]; ok {
				continue
			}
			if _, ok := ingredients[line.IngredientID]; ok {
				continue
			}
			ref := fmt.Sprintf("%s -> %s", id, line.IngredientID)
			result.MissingReferences = append(result.MissingReferences, ref)
		}
	}
	if len(result.MissingReferences) > 0 {
		result.Errors = append(result.Errors,
			fmt.Sprintf("Found %d unresolved recipe lines", len(result.MissingReferences)))
	}

	return result
}

// CheckCycles returns a *CycleError for the first cycle among base recipes
func (v *RecipeValidator) CheckCycles(recipes map[entities.RecipeID]*entities.Recipe) error {
	cycles := v.detectCycles(v.buildAdjacencyMap(recipes))
	if len(cycles) == 0 {
		return nil
	}
	return &CycleError{Path: cycles[0]}
}

// buildAdjacencyMap creates recipe -> base sub-recipe edges. Lines that point
// at non-base recipes are leaves during explosion and are not edges.
func (v *RecipeValidator) buildAdjacencyMap(
	recipes map[entities.RecipeID]*entities.Recipe,
) map[entities.RecipeID][]entities.RecipeID {
	adjacencyMap := make(map[entities.RecipeID][]entities.RecipeID)

	for _, id := range sortedRecipeIDs(recipes) {
		seen := make(map[entities.RecipeID]bool)
		for _, line := range recipes[id].Lines {
			child := entities.RecipeID(line.IngredientID)
			sub, ok := recipes[child]
			if !ok || !sub.IsBase || seen[child] {
				continue
			}
			seen[child] = true
			adjacencyMap[id] = append(adjacencyMap[id], child)
		}
	}

	return adjacencyMap
}

// detectCycles uses DFS to find cycles in the recipe graph
func (v *RecipeValidator) detectCycles(adjacencyMap map[entities.RecipeID][]entities.RecipeID) [][]entities.RecipeID {
	visited := make(map[entities.RecipeID]bool)
	recursionStack := make(map[entities.RecipeID]bool)
	cycles := make([][]entities.RecipeID, 0)

	parents := make([]entities.RecipeID, 0, len(adjacencyMap))
	for parent := range adjacencyMap {
		parents = append(parents, parent)
	}
	sortRecipeIDs(parents)

	for _, parent := range parents {
		if !visited[parent] {
			v.dfsDetectCycle(parent, adjacencyMap, visited, recursionStack, nil, &cycles)
		}
	}

	return cycles
}

func (v *RecipeValidator) dfsDetectCycle(
	current entities.RecipeID,
	adjacencyMap map[entities.RecipeID][]entities.RecipeID,
	visited map[entities.RecipeID]bool,
	recursionStack map[entities.RecipeID]bool,
	path []entities.RecipeID,
	cycles *[][]entities.RecipeID,
) {
	visited[current] = true
	recursionStack[current] = true
	path = append(path, current)

	for _, child := range adjacencyMap[current] {
		if !visited[child] {
			v.dfsDetectCycle(child, adjacencyMap, visited, recursionStack, path, cycles)
			continue
		}
		if !recursionStack[child] {
			continue
		}
		for i, id := range path {
			if id == child {
				cycle := make([]entities.RecipeID, 0, len(path)-i+1)
				cycle = append(cycle, path[i:]...)
				cycle = append(cycle, child)
				*cycles = append(*cycles, cycle)
				break
			}
		}
	}

	recursionStack[current] = false
}

// NormalizeRecipe rewrites line quantities into the native unit of the
// referenced ingredient. Lines without a unit, lines already in the native
// unit and lines that reference sub-recipes are left unchanged.
func (v *RecipeValidator) NormalizeRecipe(
	recipe *entities.Recipe,
	ingredients map[entities.IngredientID]*entities.Ingredient,
) (*entities.Recipe, error) {
	out := *recipe
	out.Lines = make([]entities.RecipeLine, len(recipe.Lines))
	copy(out.Lines, recipe.Lines)

	for i, line := range out.Lines {
		ing, ok := ingredients[line.IngredientID]
		if !ok || line.Unit == "" || strings.EqualFold(line.Unit, ing.Unit) {
			continue
		}
		qty, err := v.converter.Convert(line.Quantity, line.Unit, ing.Unit)
		if err != nil {
			return nil, fmt.Errorf("recipe %s line %s: %w", recipe.ID, line.IngredientID, err)
		}
		out.Lines[i].Quantity = qty
		out.Lines[i].Unit = ing.Unit
	}

	return &out, nil
}

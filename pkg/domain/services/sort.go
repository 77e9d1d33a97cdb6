package services

import (
	"sort"

	"github.com/vsinha/kitchen-mrp/pkg/domain/entities"
)

func sortRecipeIDs(ids []entities.RecipeID) {
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
}

func sortedRecipeIDs(recipes map[entities.RecipeID]*entities.Recipe) []entities.RecipeID {
	ids := make([]entities.RecipeID, 0, len(recipes))
	for id := range recipes {
		ids = append(ids, id)
	}
	sortRecipeIDs(ids)
	return ids
}

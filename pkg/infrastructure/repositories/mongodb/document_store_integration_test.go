//go:build integration

package mongodb

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vsinha/kitchen-mrp/pkg/domain/entities"
	"github.com/vsinha/kitchen-mrp/pkg/domain/repositories"
)

func TestDocumentStore_Integration(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	store := NewDocumentStore(db)

	ing := entities.Ingredient{
		ID:           "BEEF",
		Name:         "Beef",
		Unit:         "kg",
		Stock:        decimal.RequireFromString("4.5"),
		BatchTracked: true,
		Batches: []entities.Batch{{
			ID:              "b1",
			IngredientID:    "BEEF",
			CurrentQuantity: decimal.RequireFromString("4.5"),
			ExpiresAt:       time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC),
		}},
	}

	t.Run("set then read", func(t *testing.T) {
		require.NoError(t, store.SetDocument(ctx, "inventory", "BEEF", ing))

		doc, err := store.GetDocument(ctx, "inventory", "BEEF")
		require.NoError(t, err)
		assert.Equal(t, "Beef", doc["name"])
		assert.Equal(t, "4.5", doc["stock"])
	})

	t.Run("update merges fields", func(t *testing.T) {
		require.NoError(t, store.UpdateDocument(ctx, "inventory", "BEEF", map[string]any{
			"stock":   decimal.RequireFromString("1.5"),
			"batches": []entities.Batch{},
		}))

		doc, err := store.GetDocument(ctx, "inventory", "BEEF")
		require.NoError(t, err)
		assert.Equal(t, "1.5", doc["stock"])
		assert.Equal(t, "Beef", doc["name"])
	})

	t.Run("update creates missing document", func(t *testing.T) {
		require.NoError(t, store.UpdateDocument(ctx, "inventory", "SALT", map[string]any{"stock": "2"}))

		doc, err := store.GetDocument(ctx, "inventory", "SALT")
		require.NoError(t, err)
		assert.Equal(t, "2", doc["stock"])
	})

	t.Run("missing document", func(t *testing.T) {
		_, err := store.GetDocument(ctx, "inventory", "GHOST")
		assert.ErrorIs(t, err, repositories.ErrNotFound)
	})
}

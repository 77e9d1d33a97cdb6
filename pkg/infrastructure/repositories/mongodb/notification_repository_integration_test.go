//go:build integration

package mongodb

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vsinha/kitchen-mrp/pkg/domain/entities"
	"github.com/vsinha/kitchen-mrp/pkg/domain/repositories"
)

func TestNotificationRepository_Integration(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	repo := NewNotificationRepository(db)
	at := time.Date(2025, 3, 9, 8, 0, 0, 0, time.UTC)

	alert := &entities.Notification{
		ID:           "n1",
		Type:         entities.NotificationSystem,
		Title:        "Low stock alert",
		Message:      "CRITICAL: stock of Onion is low (1 kg). Reorder point: 2.",
		Timestamp:    at,
		OutletID:     "main",
		DedupeKey:    "ONION:2025-03-09",
		IngredientID: "ONION",
	}

	t.Run("create and find by dedupe key", func(t *testing.T) {
		require.NoError(t, repo.Create(ctx, alert))

		exists, err := repo.ExistsByDedupeKey(ctx, "ONION:2025-03-09")
		require.NoError(t, err)
		assert.True(t, exists)

		exists, err = repo.ExistsByDedupeKey(ctx, "ONION:2025-03-10")
		require.NoError(t, err)
		assert.False(t, exists)
	})

	t.Run("unique index rejects a second alert", func(t *testing.T) {
		dup := *alert
		dup.ID = "n2"
		err := repo.Create(ctx, &dup)
		assert.ErrorIs(t, err, repositories.ErrDuplicateNotification)
	})

	t.Run("notifications without a key do not collide", func(t *testing.T) {
		require.NoError(t, repo.Create(ctx, &entities.Notification{ID: "n3", OutletID: "main", Timestamp: at.Add(time.Hour)}))
		require.NoError(t, repo.Create(ctx, &entities.Notification{ID: "n4", OutletID: "harbour", Timestamp: at.Add(2 * time.Hour)}))
	})

	t.Run("list by outlet", func(t *testing.T) {
		main, err := repo.List(ctx, "main")
		require.NoError(t, err)
		require.Len(t, main, 2)
		assert.Equal(t, "n1", main[0].ID)
		assert.Equal(t, entities.IngredientID("ONION"), main[0].IngredientID)
		assert.True(t, main[0].Timestamp.Equal(at))

		all, err := repo.List(ctx, "")
		require.NoError(t, err)
		assert.Len(t, all, 3)
	})
}

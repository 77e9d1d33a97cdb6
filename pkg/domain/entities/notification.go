package entities

import (
	"fmt"
	"time"
)

// NotificationType represents the category of a notification-center entry
type NotificationType string

const (
	NotificationSystem      NotificationType = "SYSTEM"
	NotificationHACCPAlert  NotificationType = "HACCP_ALERT"
	NotificationOrderUpdate NotificationType = "ORDER_UPDATE"
)

// Notification represents a record pushed to the notification center
type Notification struct {
	ID        string           `json:"id" bson:"_id"`
	Type      NotificationType `json:"type" bson:"type"`
	Title     string           `json:"title" bson:"title"`
	Message   string           `json:"message" bson:"message"`
	Read      bool             `json:"read" bson:"read"`
	Timestamp time.Time        `json:"timestamp" bson:"timestamp"`
	OutletID  string           `json:"outletId,omitempty" bson:"outletId,omitempty"`
	Link      string           `json:"link,omitempty" bson:"link,omitempty"`

	// DedupeKey identifies the alert subject and day, e.g. "onion:2025-03-01"
	DedupeKey    string       `json:"dedupeKey,omitempty" bson:"dedupeKey,omitempty"`
	IngredientID IngredientID `json:"ingredientId,omitempty" bson:"ingredientId,omitempty"`
}

// LowStockDedupeKey builds the structured de-duplication key for a low-stock
// alert on the calendar day of at
func LowStockDedupeKey(id IngredientID, at time.Time) string {
	return fmt.Sprintf("%s:%s", id, at.Format("2006-01-02"))
}

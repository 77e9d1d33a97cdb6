package entities

import (
	"fmt"
	"time"
)

// MenuID represents a unique menu identifier
type MenuID string

// EventID represents a unique catering event identifier
type EventID string

// Menu is a flat list of recipes, one portion-equivalent each
type Menu struct {
	ID        MenuID     `json:"id"`
	Name      string     `json:"name"`
	RecipeIDs []RecipeID `json:"recipeIds"`
}

// NewMenu creates a validated Menu
func NewMenu(id MenuID, name string, recipeIDs []RecipeID) (*Menu, error) {
	if string(id) == "" {
		return nil, fmt.Errorf("menu id cannot be empty")
	}

	return &Menu{
		ID:        id,
		Name:      name,
		RecipeIDs: recipeIDs,
	}, nil
}

// Event is the unit of demand: a menu served to Pax guests on Date
type Event struct {
	ID     EventID   `json:"id"`
	Name   string    `json:"name"`
	Date   time.Time `json:"date"`
	Pax    int       `json:"pax"`
	MenuID MenuID    `json:"menuId,omitempty"`
}

// NewEvent creates a validated Event
func NewEvent(id EventID, name string, date time.Time, pax int, menuID MenuID) (*Event, error) {
	if string(id) == "" {
		return nil, fmt.Errorf("event id cannot be empty")
	}
	if pax <= 0 {
		return nil, fmt.Errorf("pax must be positive, got %d", pax)
	}

	return &Event{
		ID:     id,
		Name:   name,
		Date:   date,
		Pax:    pax,
		MenuID: menuID,
	}, nil
}

// InRange reports whether the event date falls within [from, to)
func (e *Event) InRange(from, to time.Time) bool {
	return !e.Date.Before(from) && e.Date.Before(to)
}

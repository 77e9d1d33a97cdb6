package entities

import "github.com/shopspring/decimal"

// RequirementSource records one event's gross contribution to a Requirement
type RequirementSource struct {
	EventID   EventID         `json:"eventId"`
	EventName string          `json:"eventName"`
	Quantity  decimal.Decimal `json:"quantity"`
}

// Requirement represents the aggregated gross quantity of one raw ingredient
// needed by a set of events
type Requirement struct {
	IngredientID       IngredientID        `json:"ingredientId"`
	IngredientName     string              `json:"ingredientName"`
	TotalGrossQuantity decimal.Decimal     `json:"totalGrossQuantity"`
	Unit               string              `json:"unit"`
	WastageFactor      decimal.Decimal     `json:"wastageFactor"`
	SubItems           []RequirementSource `json:"subItems"`
}

// EstimatedCost values the requirement at the given unit cost
func (r *Requirement) EstimatedCost(costPerUnit decimal.Decimal) decimal.Decimal {
	return r.TotalGrossQuantity.Mul(costPerUnit)
}

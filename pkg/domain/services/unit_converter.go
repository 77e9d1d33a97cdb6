package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

var (
	// ErrUnknownUnit is returned for a unit symbol the converter does not know
	ErrUnknownUnit = errors.New("unknown unit")
	// ErrIncompatibleUnits is returned when converting across dimensions
	ErrIncompatibleUnits = errors.New("incompatible units")
)

// Dimension groups units that convert into each other by a constant factor
type Dimension int

const (
	Mass Dimension = iota
	Volume
	Count
)

// String method for Dimension enum
func (d Dimension) String() string {
	switch d {
	case Mass:
		return "MASS"
	case Volume:
		return "VOLUME"
	case Count:
		return "COUNT"
	default:
		return "UNKNOWN"
	}
}

type unitDef struct {
	dimension Dimension
	// toBase is the factor to g, ml or un
	toBase decimal.Decimal
}

func u(dim Dimension, factor string) unitDef {
	return unitDef{dimension: dim, toBase: decimal.RequireFromString(factor)}
}

var standardUnits = map[string]unitDef{
	"kg": u(Mass, "1000"),
	"g":  u(Mass, "1"),
	"mg": u(Mass, "0.001"),
	"lb": u(Mass, "453.592"),
	"oz": u(Mass, "28.3495"),

	"l":           u(Volume, "1000"),
	"dl":          u(Volume, "100"),
	"cl":          u(Volume, "10"),
	"ml":          u(Volume, "1"),
	"gal":         u(Volume, "3785.41"),
	"cup":         u(Volume, "236.588"),
	"taza":        u(Volume, "250"),
	"tbsp":        u(Volume, "14.7868"),
	"cucharada":   u(Volume, "15"),
	"tsp":         u(Volume, "4.92892"),
	"cucharadita": u(Volume, "5"),

	"un":     u(Count, "1"),
	"ud":     u(Count, "1"),
	"und":    u(Count, "1"),
	"unit":   u(Count, "1"),
	"pcs":    u(Count, "1"),
	"manojo": u(Count, "1"),
}

// UnitConverter converts quantities between units of the same dimension.
// Mass, volume and count never convert into each other.
type UnitConverter struct {
	units map[string]unitDef
}

// NewUnitConverter creates a converter over the standard kitchen units
func NewUnitConverter() *UnitConverter {
	return &UnitConverter{units: standardUnits}
}

func (c *UnitConverter) lookup(unit string) (unitDef, error) {
	def, ok := c.units[strings.ToLower(strings.TrimSpace(unit))]
	if !ok {
		return unitDef{}, fmt.Errorf("%w: %q", ErrUnknownUnit, unit)
	}
	return def, nil
}

// DimensionOf returns the dimension of unit
func (c *UnitConverter) DimensionOf(unit string) (Dimension, error) {
	def, err := c.lookup(unit)
	if err != nil {
		return 0, err
	}
	return def.dimension, nil
}

// Convert expresses quantity, given in from, in the unit to
func (c *UnitConverter) Convert(quantity decimal.Decimal, from, to string) (decimal.Decimal, error) {
	if strings.EqualFold(from, to) {
		return quantity, nil
	}

	src, err := c.lookup(from)
	if err != nil {
		return decimal.Zero, err
	}
	dst, err := c.lookup(to)
	if err != nil {
		return decimal.Zero, err
	}
	if src.dimension != dst.dimension {
		return decimal.Zero, fmt.Errorf("%w: %s (%s) to %s (%s)",
			ErrIncompatibleUnits, from, src.dimension, to, dst.dimension)
	}

	return quantity.Mul(src.toBase).Div(dst.toBase), nil
}

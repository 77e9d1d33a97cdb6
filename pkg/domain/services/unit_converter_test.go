package services

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUnitConverter_Convert(t *testing.T) {
	c := NewUnitConverter()

	testCases := []struct {
		name     string
		qty      string
		from     string
		to       string
		expected string
	}{
		{"grams to kilograms", "250", "g", "kg", "0.25"},
		{"kilograms to grams", "1.5", "kg", "g", "1500"},
		{"milligrams to grams", "500", "mg", "g", "0.5"},
		{"litres to millilitres", "2", "L", "ml", "2000"},
		{"decilitres to litres", "5", "dl", "l", "0.5"},
		{"centilitres to millilitres", "3", "cl", "ml", "30"},
		{"same unit", "7", "un", "un", "7"},
		{"bunch to units", "3", "manojo", "un", "3"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := c.Convert(decimal.RequireFromString(tc.qty), tc.from, tc.to)
			require.NoError(t, err)
			assert.True(t, got.Equal(decimal.RequireFromString(tc.expected)), "got %s", got)
		})
	}
}

func TestUnitConverter_Errors(t *testing.T) {
	c := NewUnitConverter()

	_, err := c.Convert(decimal.NewFromInt(1), "kg", "ml")
	assert.ErrorIs(t, err, ErrIncompatibleUnits)

	_, err = c.Convert(decimal.NewFromInt(1), "un", "g")
	assert.ErrorIs(t, err, ErrIncompatibleUnits)

	_, err = c.Convert(decimal.NewFromInt(1), "stone", "kg")
	assert.ErrorIs(t, err, ErrUnknownUnit)

	dim, err := c.DimensionOf("Kg")
	require.NoError(t, err)
	assert.Equal(t, Mass, dim)
}

package logger

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInit(t *testing.T) {
	tests := []struct {
		name     string
		level    string
		expected zerolog.Level
	}{
		{name: "debug level", level: "debug", expected: zerolog.DebugLevel},
		{name: "warn level", level: "warn", expected: zerolog.WarnLevel},
		{name: "error level", level: "error", expected: zerolog.ErrorLevel},
		{name: "upper case", level: "DEBUG", expected: zerolog.DebugLevel},
		{name: "invalid level defaults to info", level: "invalid", expected: zerolog.InfoLevel},
		{name: "empty level defaults to info", level: "", expected: zerolog.InfoLevel},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			Init(tt.level, false)
			assert.Equal(t, tt.expected, zerolog.GlobalLevel())
		})
	}
}

func TestComponent_AddsField(t *testing.T) {
	var buf bytes.Buffer
	InitWithWriter("info", false, &buf)

	log := Component("ledger")
	log.Info().Str("ingredient_id", "ONION").Msg("batch added")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "ledger", entry["component"])
	assert.Equal(t, "ONION", entry["ingredient_id"])
	assert.Equal(t, "batch added", entry["message"])
}

func TestWithContext(t *testing.T) {
	var buf bytes.Buffer
	InitWithWriter("info", false, &buf)

	log := WithContext(map[string]interface{}{"outlet_id": "main", "pax": 10})
	log.Info().Msg("hello")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "main", entry["outlet_id"])
	assert.Equal(t, float64(10), entry["pax"])
}

func TestInit_WithPrettyOutput(t *testing.T) {
	var buf bytes.Buffer
	InitWithWriter("info", true, &buf)

	l := Logger()
	l.Info().Msg("pretty")
	assert.Contains(t, buf.String(), "pretty")
}

package output

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vsinha/kitchen-mrp/pkg/application/dto"
	"github.com/vsinha/kitchen-mrp/pkg/application/services/explosion"
	"github.com/vsinha/kitchen-mrp/pkg/domain/entities"
)

func sampleResult() *dto.ExplosionResult {
	return &dto.ExplosionResult{
		Requirements: []entities.Requirement{
			{
				IngredientID:       "BEEF",
				IngredientName:     "Beef mince",
				TotalGrossQuantity: decimal.RequireFromString("1.5"),
				Unit:               "kg",
				WastageFactor:      decimal.Zero,
				SubItems:           []entities.RequirementSource{{EventID: "EV-1", EventName: "Burger night", Quantity: decimal.RequireFromString("1.5")}},
			},
			{
				IngredientID:       "ONION",
				IngredientName:     "Onion",
				TotalGrossQuantity: decimal.RequireFromString("0.3125"),
				Unit:               "kg",
				WastageFactor:      decimal.RequireFromString("0.2"),
			},
		},
		EventsExploded: 1,
		EstimatedCost:  decimal.RequireFromString("14.629"),
	}
}

func TestGenerate_Text(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Generate(&buf, sampleResult(), Config{Format: FormatText, Verbose: true}))

	out := buf.String()
	assert.Contains(t, out, "Events Exploded: 1")
	assert.Contains(t, out, "Estimated Cost: 14.63")
	assert.Contains(t, out, "BEEF")
	assert.Contains(t, out, "0.3125")
	assert.Contains(t, out, "Burger night")
}

func TestGenerate_JSONToWriter(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Generate(&buf, sampleResult(), Config{Format: FormatJSON}))

	var decoded struct {
		Requirements []entities.Requirement
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	require.Len(t, decoded.Requirements, 2)
	assert.True(t, decoded.Requirements[1].TotalGrossQuantity.Equal(decimal.RequireFromString("0.3125")))
}

func TestGenerate_CSVToDirectory(t *testing.T) {
	dir := t.TempDir()
	var buf bytes.Buffer
	require.NoError(t, Generate(&buf, sampleResult(), Config{Format: FormatCSV, OutputDir: dir}))

	data, err := os.ReadFile(filepath.Join(dir, "requirements.csv"))
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "ingredient_id,ingredient_name,total_gross_quantity,unit,wastage_factor,sources", lines[0])
	assert.Equal(t, "BEEF,Beef mince,1.5,kg,0,1", lines[1])
}

func TestConfig_Validate(t *testing.T) {
	assert.NoError(t, Config{Format: FormatCSV}.Validate())
	assert.EqualError(t, Config{Format: "xml"}.Validate(), "unsupported output format: xml")
	assert.Error(t, Generate(&bytes.Buffer{}, sampleResult(), Config{Format: "xml"}))
}

func TestGenerateTrace(t *testing.T) {
	var buf bytes.Buffer
	GenerateTrace(&buf, []explosion.TraceStep{
		{EventID: "EV-1", RecipeID: "BURGER", TargetName: "House sauce", Level: 0, NetQuantity: decimal.RequireFromString("0.5"), SubRecipe: true},
		{EventID: "EV-1", RecipeID: "SAUCE", TargetName: "Onion", Level: 1, NetQuantity: decimal.RequireFromString("0.25"), GrossQuantity: decimal.RequireFromString("0.3125"), Unit: "kg"},
	})

	out := buf.String()
	assert.Contains(t, out, "EV-1\n")
	assert.Contains(t, out, "  BURGER ▸ House sauce (0.5)")
	assert.Contains(t, out, "    SAUCE ▸ Onion net 0.25 gross 0.3125 kg")
}

func TestGenerateConsumptionAndNotifications(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, GenerateConsumption(&buf, []dto.ConsumptionResult{
		{IngredientID: "BEEF", Requested: decimal.RequireFromString("2"), Consumed: decimal.RequireFromString("1.5"),
			Shortfall: decimal.RequireFromString("0.5"), StockAfter: decimal.Zero, Found: true},
		{IngredientID: "BUN", Requested: decimal.RequireFromString("10")},
	}, Config{Format: FormatText}))
	assert.Contains(t, buf.String(), "not stocked")
	assert.Contains(t, buf.String(), "0.5")

	buf.Reset()
	require.NoError(t, GenerateNotifications(&buf, nil, Config{Format: FormatText}))
	assert.Contains(t, buf.String(), "No low-stock alerts")

	buf.Reset()
	require.NoError(t, GenerateNotifications(&buf, []*entities.Notification{{
		ID: "n1", IngredientID: "BEEF", DedupeKey: "BEEF:2025-03-14", Timestamp: time.Date(2025, 3, 14, 8, 0, 0, 0, time.UTC),
		Message: "CRITICAL: stock of Beef mince is low (0 kg). Reorder point: 2.",
	}}, Config{Format: FormatCSV}))
	assert.Contains(t, buf.String(), "n1,BEEF,BEEF:2025-03-14,2025-03-14T08:00:00Z,")
}

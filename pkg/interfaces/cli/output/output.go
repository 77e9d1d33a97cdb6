package output

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/vsinha/kitchen-mrp/pkg/application/dto"
	"github.com/vsinha/kitchen-mrp/pkg/application/services/explosion"
	"github.com/vsinha/kitchen-mrp/pkg/application/services/ledger"
	"github.com/vsinha/kitchen-mrp/pkg/domain/entities"
)

// Formats accepted by Config.Format
const (
	FormatText = "text"
	FormatJSON = "json"
	FormatCSV  = "csv"
)

// Config holds configuration for output generation
type Config struct {
	Format        string
	OutputDir     string
	Verbose       bool
	ExplosionTime time.Duration
}

// Validate rejects unknown formats before any work is done
func (c Config) Validate() error {
	switch c.Format {
	case FormatText, FormatJSON, FormatCSV:
		return nil
	default:
		return fmt.Errorf("unsupported output format: %s", c.Format)
	}
}

// Generate renders an explosion result. JSON and CSV go to a file when
// OutputDir is set, otherwise to w.
func Generate(w io.Writer, result *dto.ExplosionResult, config Config) error {
	switch config.Format {
	case FormatText:
		return generateTextOutput(w, result, config)
	case FormatJSON:
		return writeJSON(w, result, config, "requirements.json")
	case FormatCSV:
		return writeCSV(w, config, "requirements.csv", requirementRows(result.Requirements))
	default:
		return fmt.Errorf("unsupported output format: %s", config.Format)
	}
}

// generateTextOutput creates human-readable text output
func generateTextOutput(w io.Writer, result *dto.ExplosionResult, config Config) error {
	fmt.Fprintf(w, "📊 Demand Explosion Summary\n")
	fmt.Fprintf(w, "===========================\n\n")

	fmt.Fprintf(w, "Events Exploded: %d\n", result.EventsExploded)
	fmt.Fprintf(w, "Events Skipped: %d\n", result.EventsSkipped)
	fmt.Fprintf(w, "Requirements: %d\n", len(result.Requirements))
	fmt.Fprintf(w, "Estimated Cost: %s\n", result.EstimatedCost.StringFixed(2))
	if config.ExplosionTime > 0 {
		fmt.Fprintf(w, "Explosion Time: %v\n", config.ExplosionTime)
	}
	fmt.Fprintln(w)

	if len(result.Requirements) == 0 {
		return nil
	}

	fmt.Fprintf(w, "📋 Gross Requirements:\n")
	fmt.Fprintf(w, "%-15s %-22s %-12s %-6s %-8s %-8s\n",
		"Ingredient", "Name", "Gross Qty", "Unit", "Wastage", "Sources")
	fmt.Fprintf(w, "%-15s %-22s %-12s %-6s %-8s %-8s\n",
		"---------------", "----------------------", "------------", "------", "--------", "--------")

	for _, req := range result.Requirements {
		fmt.Fprintf(w, "%-15s %-22s %-12s %-6s %-8s %-8d\n",
			req.IngredientID,
			truncate(req.IngredientName, 22),
			req.TotalGrossQuantity.Round(4).String(),
			req.Unit,
			req.WastageFactor.String(),
			len(req.SubItems))

		if config.Verbose {
			for _, src := range req.SubItems {
				fmt.Fprintf(w, "    ↳ %-12s %-20s %s\n", src.EventID, truncate(src.EventName, 20), src.Quantity.Round(4).String())
			}
		}
	}
	fmt.Fprintln(w)
	return nil
}

// GenerateTrace renders the explosion tree as indented text
func GenerateTrace(w io.Writer, steps []explosion.TraceStep) {
	fmt.Fprintf(w, "🌳 Explosion Trace:\n")
	var event entities.EventID
	for _, step := range steps {
		if step.EventID != event {
			event = step.EventID
			fmt.Fprintf(w, "%s\n", event)
		}
		indent := strings.Repeat("  ", step.Level+1)
		if step.SubRecipe {
			fmt.Fprintf(w, "%s%s ▸ %s (%s)\n", indent, step.RecipeID, step.TargetName, step.NetQuantity.Round(4).String())
			continue
		}
		fmt.Fprintf(w, "%s%s ▸ %s net %s gross %s %s\n", indent, step.RecipeID, step.TargetName,
			step.NetQuantity.Round(4).String(), step.GrossQuantity.Round(4).String(), step.Unit)
	}
	fmt.Fprintln(w)
}

// GenerateConsumption renders the outcome of deducting requirements from stock
func GenerateConsumption(w io.Writer, results []dto.ConsumptionResult, config Config) error {
	switch config.Format {
	case FormatJSON:
		return writeJSON(w, results, config, "consumption.json")
	case FormatCSV:
		return writeCSV(w, config, "consumption.csv", consumptionRows(results))
	}

	fmt.Fprintf(w, "📦 Stock Consumption:\n")
	fmt.Fprintf(w, "%-15s %-12s %-12s %-12s %-12s\n",
		"Ingredient", "Requested", "Consumed", "Shortfall", "Stock After")
	fmt.Fprintf(w, "%-15s %-12s %-12s %-12s %-12s\n",
		"---------------", "------------", "------------", "------------", "------------")
	for _, r := range results {
		if !r.Found {
			fmt.Fprintf(w, "%-15s %-12s %s\n", r.IngredientID, r.Requested.Round(4).String(), "not stocked")
			continue
		}
		fmt.Fprintf(w, "%-15s %-12s %-12s %-12s %-12s\n",
			r.IngredientID,
			r.Requested.Round(4).String(),
			r.Consumed.Round(4).String(),
			r.Shortfall.Round(4).String(),
			r.StockAfter.Round(4).String())
	}
	fmt.Fprintln(w)
	return nil
}

// GenerateNotifications renders low-stock alerts
func GenerateNotifications(w io.Writer, notifications []*entities.Notification, config Config) error {
	switch config.Format {
	case FormatJSON:
		return writeJSON(w, notifications, config, "alerts.json")
	case FormatCSV:
		return writeCSV(w, config, "alerts.csv", notificationRows(notifications))
	}

	if len(notifications) == 0 {
		fmt.Fprintf(w, "✅ No low-stock alerts\n\n")
		return nil
	}
	fmt.Fprintf(w, "⚠️  Low-stock alerts:\n")
	for _, n := range notifications {
		fmt.Fprintf(w, "  [%s] %s\n", n.DedupeKey, n.Message)
	}
	fmt.Fprintln(w)
	return nil
}

// GenerateExpiring renders batches close to expiry as text
func GenerateExpiring(w io.Writer, batches []ledger.ExpiringBatch) {
	if len(batches) == 0 {
		return
	}
	fmt.Fprintf(w, "⏳ Expiring soon:\n")
	fmt.Fprintf(w, "%-15s %-16s %-10s %-12s\n", "Ingredient", "Batch", "Quantity", "Expires")
	fmt.Fprintf(w, "%-15s %-16s %-10s %-12s\n", "---------------", "----------------", "----------", "------------")
	for _, e := range batches {
		fmt.Fprintf(w, "%-15s %-16s %-10s %-12s\n",
			e.Batch.IngredientID,
			truncate(e.Batch.BatchNumber, 16),
			e.Batch.CurrentQuantity.Round(4).String(),
			e.Batch.ExpiresAt.Format("2006-01-02"))
	}
	fmt.Fprintln(w)
}

func writeJSON(w io.Writer, v any, config Config, filename string) error {
	jsonData, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	if config.OutputDir == "" {
		_, err = fmt.Fprintln(w, string(jsonData))
		return err
	}

	path, err := outputPath(config, filename)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, jsonData, 0644); err != nil {
		return fmt.Errorf("failed to write JSON file: %w", err)
	}
	if config.Verbose {
		fmt.Fprintf(w, "💾 JSON results saved to: %s\n", path)
	}
	return nil
}

func writeCSV(w io.Writer, config Config, filename string, rows [][]string) error {
	target := w
	var path string
	if config.OutputDir != "" {
		var err error
		path, err = outputPath(config, filename)
		if err != nil {
			return err
		}
		file, err := os.Create(path)
		if err != nil {
			return fmt.Errorf("failed to create CSV file: %w", err)
		}
		defer file.Close()
		target = file
	}

	cw := csv.NewWriter(target)
	if err := cw.WriteAll(rows); err != nil {
		return fmt.Errorf("failed to write CSV: %w", err)
	}

	if path != "" && config.Verbose {
		fmt.Fprintf(w, "💾 CSV results saved to: %s\n", path)
	}
	return nil
}

func outputPath(config Config, filename string) (string, error) {
	if err := os.MkdirAll(config.OutputDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}
	return filepath.Join(config.OutputDir, filename), nil
}

func requirementRows(requirements []entities.Requirement) [][]string {
	rows := [][]string{{"ingredient_id", "ingredient_name", "total_gross_quantity", "unit", "wastage_factor", "sources"}}
	for _, req := range requirements {
		rows = append(rows, []string{
			string(req.IngredientID),
			req.IngredientName,
			req.TotalGrossQuantity.String(),
			req.Unit,
			req.WastageFactor.String(),
			strconv.Itoa(len(req.SubItems)),
		})
	}
	return rows
}

func consumptionRows(results []dto.ConsumptionResult) [][]string {
	rows := [][]string{{"ingredient_id", "requested", "consumed", "shortfall", "stock_before", "stock_after", "found"}}
	for _, r := range results {
		rows = append(rows, []string{
			string(r.IngredientID),
			r.Requested.String(),
			r.Consumed.String(),
			r.Shortfall.String(),
			r.StockBefore.String(),
			r.StockAfter.String(),
			strconv.FormatBool(r.Found),
		})
	}
	return rows
}

func notificationRows(notifications []*entities.Notification) [][]string {
	rows := [][]string{{"id", "ingredient_id", "dedupe_key", "timestamp", "message"}}
	for _, n := range notifications {
		rows = append(rows, []string{
			n.ID,
			string(n.IngredientID),
			n.DedupeKey,
			n.Timestamp.Format(time.RFC3339),
			n.Message,
		})
	}
	return rows
}

func truncate(s string, n int) string {
	if len([]rune(s)) <= n {
		return s
	}
	return string([]rune(s)[:n-1]) + "…"
}

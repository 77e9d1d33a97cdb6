package csv

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/vsinha/kitchen-mrp/pkg/domain/entities"
)

const dateLayout = "2006-01-02"

// Scenario file names inside a scenario directory
const (
	IngredientsFile = "ingredients.csv"
	BatchesFile     = "batches.csv"
	RecipesFile     = "recipes.csv"
	RecipeLinesFile = "recipe_lines.csv"
	MenusFile       = "menus.csv"
	EventsFile      = "events.csv"
)

// Loader handles loading kitchen data from CSV files
type Loader struct{}

// NewLoader creates a new CSV loader
func NewLoader() *Loader {
	return &Loader{}
}

// Scenario is a complete kitchen loaded from one directory
type Scenario struct {
	Ingredients []*entities.Ingredient
	Recipes     []*entities.Recipe
	Menus       []*entities.Menu
	Events      []*entities.Event
}

// LoadScenario loads every scenario file from dir. batches.csv is optional;
// ingredients with a stock column but no batches stay as scalar stock.
func (l *Loader) LoadScenario(dir string) (*Scenario, error) {
	ingredients, err := l.LoadIngredients(filepath.Join(dir, IngredientsFile))
	if err != nil {
		return nil, err
	}

	batches, err := l.LoadBatches(filepath.Join(dir, BatchesFile))
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, err
	}
	if err := attachBatches(ingredients, batches); err != nil {
		return nil, err
	}

	recipes, err := l.LoadRecipes(filepath.Join(dir, RecipesFile), filepath.Join(dir, RecipeLinesFile))
	if err != nil {
		return nil, err
	}
	menus, err := l.LoadMenus(filepath.Join(dir, MenusFile))
	if err != nil {
		return nil, err
	}
	events, err := l.LoadEvents(filepath.Join(dir, EventsFile))
	if err != nil {
		return nil, err
	}

	return &Scenario{
		Ingredients: ingredients,
		Recipes:     recipes,
		Menus:       menus,
		Events:      events,
	}, nil
}

// LoadIngredients loads ingredients from a CSV file
func (l *Loader) LoadIngredients(filename string) ([]*entities.Ingredient, error) {
	expectedHeader := []string{"id", "name", "unit", "cost_per_unit", "wastage_factor", "reorder_point", "stock"}
	records, err := readRecords(filename, "ingredients", expectedHeader)
	if err != nil {
		return nil, err
	}

	var ingredients []*entities.Ingredient
	for i, record := range records {
		ing, err := parseIngredient(record)
		if err != nil {
			return nil, fmt.Errorf("ingredients CSV row %d: %w", i+2, err)
		}
		ingredients = append(ingredients, ing)
	}
	return ingredients, nil
}

// LoadBatches loads stock batches from a CSV file
func (l *Loader) LoadBatches(filename string) ([]*entities.Batch, error) {
	expectedHeader := []string{"batch_id", "ingredient_id", "batch_number", "quantity", "unit_cost", "received_at", "expires_at"}
	records, err := readRecords(filename, "batches", expectedHeader)
	if err != nil {
		return nil, err
	}

	var batches []*entities.Batch
	for i, record := range records {
		batch, err := parseBatch(record)
		if err != nil {
			return nil, fmt.Errorf("batches CSV row %d: %w", i+2, err)
		}
		batches = append(batches, batch)
	}
	return batches, nil
}

// LoadRecipes loads recipe headers and their lines from two CSV files
func (l *Loader) LoadRecipes(recipesFile, linesFile string) ([]*entities.Recipe, error) {
	headerRecords, err := readRecords(recipesFile, "recipes", []string{"id", "name", "yield_pax", "is_base"})
	if err != nil {
		return nil, err
	}
	lineRecords, err := readRecords(linesFile, "recipe lines", []string{"recipe_id", "ingredient_id", "quantity", "unit"})
	if err != nil {
		return nil, err
	}

	lines := make(map[entities.RecipeID][]entities.RecipeLine)
	for i, record := range lineRecords {
		quantity, err := parseDecimal("quantity", record[2])
		if err != nil {
			return nil, fmt.Errorf("recipe lines CSV row %d: %w", i+2, err)
		}
		line, err := entities.NewRecipeLine(entities.IngredientID(record[1]), quantity, strings.TrimSpace(record[3]))
		if err != nil {
			return nil, fmt.Errorf("recipe lines CSV row %d: %w", i+2, err)
		}
		recipeID := entities.RecipeID(record[0])
		lines[recipeID] = append(lines[recipeID], *line)
	}

	var recipes []*entities.Recipe
	seen := make(map[entities.RecipeID]bool)
	for i, record := range headerRecords {
		yieldPax := 0
		if s := strings.TrimSpace(record[2]); s != "" {
			yieldPax, err = strconv.Atoi(s)
			if err != nil {
				return nil, fmt.Errorf("recipes CSV row %d: invalid yield_pax: %s", i+2, record[2])
			}
		}
		isBase, err := parseBool(record[3])
		if err != nil {
			return nil, fmt.Errorf("recipes CSV row %d: %w", i+2, err)
		}

		id := entities.RecipeID(record[0])
		recipe, err := entities.NewRecipe(id, record[1], yieldPax, isBase, lines[id])
		if err != nil {
			return nil, fmt.Errorf("recipes CSV row %d: %w", i+2, err)
		}
		seen[id] = true
		recipes = append(recipes, recipe)
	}

	for id := range lines {
		if !seen[id] {
			return nil, fmt.Errorf("recipe lines reference unknown recipe: %s", id)
		}
	}
	return recipes, nil
}

// LoadMenus loads menus from a CSV file. recipe_ids is pipe separated.
func (l *Loader) LoadMenus(filename string) ([]*entities.Menu, error) {
	records, err := readRecords(filename, "menus", []string{"id", "name", "recipe_ids"})
	if err != nil {
		return nil, err
	}

	var menus []*entities.Menu
	for i, record := range records {
		var recipeIDs []entities.RecipeID
		for _, id := range strings.Split(record[2], "|") {
			if id = strings.TrimSpace(id); id != "" {
				recipeIDs = append(recipeIDs, entities.RecipeID(id))
			}
		}
		menu, err := entities.NewMenu(entities.MenuID(record[0]), record[1], recipeIDs)
		if err != nil {
			return nil, fmt.Errorf("menus CSV row %d: %w", i+2, err)
		}
		menus = append(menus, menu)
	}
	return menus, nil
}

// LoadEvents loads catering events from a CSV file
func (l *Loader) LoadEvents(filename string) ([]*entities.Event, error) {
	records, err := readRecords(filename, "events", []string{"id", "name", "date", "pax", "menu_id"})
	if err != nil {
		return nil, err
	}

	var events []*entities.Event
	for i, record := range records {
		date, err := time.Parse(dateLayout, record[2])
		if err != nil {
			return nil, fmt.Errorf("invalid date format in row %d: %s (expected YYYY-MM-DD)", i+2, record[2])
		}
		pax, err := strconv.Atoi(strings.TrimSpace(record[3]))
		if err != nil {
			return nil, fmt.Errorf("invalid pax in row %d: %s", i+2, record[3])
		}
		event, err := entities.NewEvent(entities.EventID(record[0]), record[1], date, pax, entities.MenuID(record[4]))
		if err != nil {
			return nil, fmt.Errorf("events CSV row %d: %w", i+2, err)
		}
		events = append(events, event)
	}
	return events, nil
}

// Helper functions for parsing CSV records

// readRecords returns the data rows of filename after checking its header
// and column counts
func readRecords(filename, kind string, expectedHeader []string) ([][]string, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s file %s: %w", kind, filename, err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1
	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read %s CSV: %w", kind, err)
	}

	if len(records) < 2 {
		return nil, fmt.Errorf("%s CSV must have header and at least one data row", kind)
	}

	header := records[0]
	if !validateHeader(header, expectedHeader) {
		return nil, fmt.Errorf("%s CSV header mismatch. Expected: %v, Got: %v", kind, expectedHeader, header)
	}

	for i, record := range records[1:] {
		if len(record) != len(expectedHeader) {
			return nil, fmt.Errorf("%s CSV row %d: expected %d columns, got %d", kind, i+2, len(expectedHeader), len(record))
		}
	}
	return records[1:], nil
}

func validateHeader(actual, expected []string) bool {
	if len(actual) != len(expected) {
		return false
	}

	for i, col := range expected {
		if strings.ToLower(strings.TrimSpace(actual[i])) != col {
			return false
		}
	}

	return true
}

func parseIngredient(record []string) (*entities.Ingredient, error) {
	cost, err := parseDecimal("cost_per_unit", record[3])
	if err != nil {
		return nil, err
	}
	wastage, err := parseDecimal("wastage_factor", record[4])
	if err != nil {
		return nil, err
	}
	reorderPoint, err := parseDecimal("reorder_point", record[5])
	if err != nil {
		return nil, err
	}
	stock, err := parseDecimal("stock", record[6])
	if err != nil {
		return nil, err
	}
	if stock.IsNegative() {
		return nil, fmt.Errorf("stock cannot be negative, got %s", stock)
	}

	ing, err := entities.NewIngredient(entities.IngredientID(record[0]), record[1], record[2], cost, wastage, reorderPoint)
	if err != nil {
		return nil, err
	}
	ing.Stock = stock
	return ing, nil
}

func parseBatch(record []string) (*entities.Batch, error) {
	quantity, err := parseDecimal("quantity", record[3])
	if err != nil {
		return nil, err
	}
	unitCost, err := parseDecimal("unit_cost", record[4])
	if err != nil {
		return nil, err
	}
	receivedAt, err := time.Parse(dateLayout, record[5])
	if err != nil {
		return nil, fmt.Errorf("invalid received_at format: %s (expected YYYY-MM-DD)", record[5])
	}
	expiresAt, err := time.Parse(dateLayout, record[6])
	if err != nil {
		return nil, fmt.Errorf("invalid expires_at format: %s (expected YYYY-MM-DD)", record[6])
	}

	return entities.NewBatch(record[0], entities.IngredientID(record[1]), record[2], quantity, unitCost, receivedAt, expiresAt)
}

// attachBatches moves batches onto their ingredients. Ingredients that
// receive batches are batch tracked with stock recomputed; the rest keep
// their scalar stock untracked until the ledger migrates it.
func attachBatches(ingredients []*entities.Ingredient, batches []*entities.Batch) error {
	byID := make(map[entities.IngredientID]*entities.Ingredient, len(ingredients))
	for _, ing := range ingredients {
		byID[ing.ID] = ing
	}

	tracked := make(map[entities.IngredientID]bool)
	for _, b := range batches {
		ing, ok := byID[b.IngredientID]
		if !ok {
			return fmt.Errorf("batch %s references unknown ingredient: %s", b.ID, b.IngredientID)
		}
		b.Unit = ing.Unit
		ing.Batches = append(ing.Batches, *b)
		tracked[ing.ID] = true
	}

	for _, ing := range ingredients {
		switch {
		case tracked[ing.ID]:
			ing.BatchTracked = true
			ing.RecomputeStock()
		case ing.Stock.IsPositive():
			ing.BatchTracked = false
		}
	}
	return nil
}

func parseDecimal(field, s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid %s: %s", field, s)
	}
	return d, nil
}

func parseBool(s string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "true", "yes", "1":
		return true, nil
	case "false", "no", "0", "":
		return false, nil
	default:
		return false, fmt.Errorf("invalid is_base: %s (expected true or false)", s)
	}
}

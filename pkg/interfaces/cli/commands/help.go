package commands

import (
	"fmt"
	"io"
	"strings"
)

// Usage lists the kitchen subcommands and flags
const Usage = `Kitchen MRP - demand explosion, batch ledger and reorder alerts

USAGE:
    kitchen <command> -scenario <dir> [options]

COMMANDS:
    explode    Explode scheduled events into gross ingredient requirements
    consume    Explode events and deduct the requirements from stock (FIFO)
    scan       Check every ingredient against its reorder point

OPTIONS:
    -scenario <dir>    Directory containing the scenario CSV files
    -format <format>   Output format: text, json, csv (default: text)
    -output <dir>      Write json/csv results to this directory
    -verbose           Print the explosion trace and per-event sources
    -help              Show this help message

SCENARIO FILES:
    ingredients.csv   id,name,unit,cost_per_unit,wastage_factor,reorder_point,stock
    batches.csv       batch_id,ingredient_id,batch_number,quantity,unit_cost,received_at,expires_at (optional)
    recipes.csv       id,name,yield_pax,is_base
    recipe_lines.csv  recipe_id,ingredient_id,quantity,unit
    menus.csv         id,name,recipe_ids (pipe separated)
    events.csv        id,name,date,pax,menu_id

ENVIRONMENT:
    STORE_BACKEND      memory, mongodb or postgres (default: memory)
    MONGODB_URI        MongoDB connection string
    DATABASE_URL       PostgreSQL connection string
    OUTLET_ID          Outlet stamped on batches and alerts (default: main)
    REORDER_TIMEZONE   Timezone deciding the alert day (default: UTC)
    METRICS_ADDR       Serve Prometheus metrics on this address
    LOG_LEVEL          debug, info, warn, error (default: info)

EXAMPLES:
    kitchen explode -scenario ./testdata/burger
    kitchen consume -scenario ./testdata/burger -format json
    kitchen scan -scenario ./testdata/burger -verbose
`

func showHelp(w io.Writer) {
	fmt.Fprint(w, Usage)
}

func printHeader(w io.Writer, command string, config Config) {
	fmt.Fprintf(w, "🍳 Kitchen MRP: %s\n", command)
	fmt.Fprintln(w, strings.Repeat("=", 16+len(command)))
	fmt.Fprintf(w, "📁 Scenario: %s\n", config.ScenarioDir)
	fmt.Fprintf(w, "🗄️  Backend: %s\n", config.App.Store.Backend)
	fmt.Fprintf(w, "📄 Format: %s\n", config.Format)
	if config.OutputDir != "" {
		fmt.Fprintf(w, "💾 Output: %s\n", config.OutputDir)
	}
	fmt.Fprintln(w)
}

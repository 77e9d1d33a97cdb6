package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/vsinha/kitchen-mrp/pkg/interfaces/cli/output"
)

// ExplodeCommand computes gross ingredient requirements for a scenario's events
type ExplodeCommand struct {
	config Config
}

// NewExplodeCommand creates an explode command with the given configuration
func NewExplodeCommand(config Config) *ExplodeCommand {
	return &ExplodeCommand{config: config}
}

// Execute runs the explode command
func (c *ExplodeCommand) Execute(ctx context.Context) error {
	if c.config.Help {
		showHelp(c.config.writer())
		return nil
	}
	if err := c.config.validate(); err != nil {
		return fmt.Errorf("validation error: %w", err)
	}

	w := c.config.writer()
	if c.config.Verbose {
		printHeader(w, "explode", c.config)
	}

	kitchen, err := OpenKitchen(ctx, c.config)
	if err != nil {
		return err
	}
	defer kitchen.Close(ctx)

	start := time.Now()
	result, err := kitchen.Engine.Run(ctx, kitchen.Scenario.Events, kitchen.Catalog)
	if err != nil {
		return fmt.Errorf("explosion failed: %w", err)
	}

	if c.config.Verbose && c.config.Format == output.FormatText {
		steps, err := kitchen.Engine.Trace(ctx, kitchen.Scenario.Events, kitchen.Catalog)
		if err != nil {
			return fmt.Errorf("trace failed: %w", err)
		}
		output.GenerateTrace(w, steps)
	}

	outputConfig := c.config.outputConfig()
	outputConfig.ExplosionTime = time.Since(start)
	return output.Generate(w, result, outputConfig)
}

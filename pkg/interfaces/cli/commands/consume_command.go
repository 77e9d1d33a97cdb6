package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/vsinha/kitchen-mrp/pkg/domain/entities"
	"github.com/vsinha/kitchen-mrp/pkg/interfaces/cli/output"
)

// ConsumeCommand explodes a scenario's events and deducts the requirements
// from stock, raising low-stock alerts on the way
type ConsumeCommand struct {
	config Config
}

// NewConsumeCommand creates a consume command with the given configuration
func NewConsumeCommand(config Config) *ConsumeCommand {
	return &ConsumeCommand{config: config}
}

// Execute runs the consume command
func (c *ConsumeCommand) Execute(ctx context.Context) error {
	if c.config.Help {
		showHelp(c.config.writer())
		return nil
	}
	if err := c.config.validate(); err != nil {
		return fmt.Errorf("validation error: %w", err)
	}

	w := c.config.writer()
	if c.config.Verbose {
		printHeader(w, "consume", c.config)
	}

	kitchen, err := OpenKitchen(ctx, c.config)
	if err != nil {
		return err
	}
	defer kitchen.Close(ctx)

	started := time.Now()
	result, err := kitchen.Engine.Run(ctx, kitchen.Scenario.Events, kitchen.Catalog)
	if err != nil {
		return fmt.Errorf("explosion failed: %w", err)
	}

	consumed, err := kitchen.Ledger.ConsumeRequirements(ctx, result.Requirements)
	if err != nil {
		return fmt.Errorf("consumption failed: %w", err)
	}
	if err := kitchen.Settle(ctx); err != nil {
		return err
	}

	alerts, err := raisedSince(ctx, kitchen, started)
	if err != nil {
		return err
	}

	outputConfig := c.config.outputConfig()
	if err := output.GenerateConsumption(w, consumed, outputConfig); err != nil {
		return err
	}
	if outputConfig.Format == output.FormatText {
		return output.GenerateNotifications(w, alerts, outputConfig)
	}
	return nil
}

// raisedSince lists the notifications created by this run
func raisedSince(ctx context.Context, k *Kitchen, since time.Time) ([]*entities.Notification, error) {
	all, err := k.Backend.Notifications.List(ctx, k.outletID)
	if err != nil {
		return nil, fmt.Errorf("failed to list notifications: %w", err)
	}
	var out []*entities.Notification
	for _, n := range all {
		if !n.Timestamp.Before(since) {
			out = append(out, n)
		}
	}
	return out, nil
}

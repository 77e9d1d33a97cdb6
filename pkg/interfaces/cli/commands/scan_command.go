package commands

import (
	"context"
	"fmt"

	"github.com/vsinha/kitchen-mrp/pkg/interfaces/cli/output"
)

// ScanCommand checks every ingredient against its reorder point and lists
// batches close to expiry
type ScanCommand struct {
	config Config
}

// NewScanCommand creates a scan command with the given configuration
func NewScanCommand(config Config) *ScanCommand {
	return &ScanCommand{config: config}
}

// Execute runs the scan command
func (c *ScanCommand) Execute(ctx context.Context) error {
	if c.config.Help {
		showHelp(c.config.writer())
		return nil
	}
	if err := c.config.validate(); err != nil {
		return fmt.Errorf("validation error: %w", err)
	}

	w := c.config.writer()
	if c.config.Verbose {
		printHeader(w, "scan", c.config)
	}

	kitchen, err := OpenKitchen(ctx, c.config)
	if err != nil {
		return err
	}
	defer kitchen.Close(ctx)

	alerts, err := kitchen.Monitor.ScanAll(ctx)
	if err != nil {
		return fmt.Errorf("scan failed: %w", err)
	}
	if err := kitchen.Settle(ctx); err != nil {
		return err
	}

	outputConfig := c.config.outputConfig()
	if err := output.GenerateNotifications(w, alerts, outputConfig); err != nil {
		return err
	}
	if outputConfig.Format == output.FormatText {
		output.GenerateExpiring(w, kitchen.Ledger.ExpiringSoon(c.config.App.Ledger.ExpiringSoon))
	}
	return nil
}

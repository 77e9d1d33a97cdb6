// Package reorder raises low-stock notifications, at most one per ingredient
// per calendar day.
package reorder

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/vsinha/kitchen-mrp/pkg/application/services/ledger"
	"github.com/vsinha/kitchen-mrp/pkg/domain/entities"
	"github.com/vsinha/kitchen-mrp/pkg/domain/repositories"
	"github.com/vsinha/kitchen-mrp/pkg/infrastructure/events"
	"github.com/vsinha/kitchen-mrp/pkg/infrastructure/logger"
	"github.com/vsinha/kitchen-mrp/pkg/infrastructure/metrics"
)

// AlertTitle is the title of every low-stock notification
const AlertTitle = "Low stock alert"

// StockReader is the read side of the ledger the monitor needs
type StockReader interface {
	Ingredient(id entities.IngredientID) (entities.Ingredient, error)
	Ingredients() []entities.Ingredient
}

// Config holds monitor settings. Location decides where a calendar day
// starts; nil means UTC.
type Config struct {
	OutletID string
	Location *time.Location
	Link     string
}

// Monitor checks stock against reorder points
type Monitor struct {
	// mu serialises check-then-create so concurrent checks cannot both alert
	mu sync.Mutex

	stock         StockReader
	notifications repositories.NotificationRepository
	publisher     events.Publisher
	config        Config
	now           func() time.Time
	newID         func() string
	log           zerolog.Logger
}

// NewMonitor creates a monitor reading stock from reader and storing alerts in repo
func NewMonitor(reader StockReader, repo repositories.NotificationRepository, config Config) *Monitor {
	if config.Location == nil {
		config.Location = time.UTC
	}
	return &Monitor{
		stock:         reader,
		notifications: repo,
		config:        config,
		now:           time.Now,
		newID:         uuid.NewString,
		log:           logger.Component("reorder"),
	}
}

// WithClock replaces the time source
func (m *Monitor) WithClock(now func() time.Time) *Monitor {
	m.now = now
	return m
}

// WithIDGenerator replaces the notification id generator
func (m *Monitor) WithIDGenerator(newID func() string) *Monitor {
	m.newID = newID
	return m
}

// WithPublisher makes the monitor publish a stock.low event per alert
func (m *Monitor) WithPublisher(p events.Publisher) *Monitor {
	m.publisher = p
	return m
}

// CheckAndNotify creates a low-stock notification for id if its stock is at
// or below a positive reorder point and no alert for it exists today. It
// returns the created notification, or nil when nothing was raised.
func (m *Monitor) CheckAndNotify(ctx context.Context, id entities.IngredientID) (*entities.Notification, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	ing, err := m.stock.Ingredient(id)
	if errors.Is(err, ledger.ErrIngredientNotFound) {
		metrics.RecordReorderCheck("missing")
		return nil, nil
	}
	if err != nil {
		metrics.RecordReorderCheck("error")
		return nil, err
	}
	return m.check(ctx, ing)
}

// ScanAll checks every ingredient. It is the entry point for a daily
// scheduled scan and shares the per-day de-duplication of CheckAndNotify.
func (m *Monitor) ScanAll(ctx context.Context) ([]*entities.Notification, error) {
	var (
		created []*entities.Notification
		errs    []error
	)
	for _, ing := range m.stock.Ingredients() {
		if err := ctx.Err(); err != nil {
			return created, err
		}
		n, err := m.check(ctx, ing)
		if err != nil {
			errs = append(errs, fmt.Errorf("check %s: %w", ing.ID, err))
			continue
		}
		if n != nil {
			created = append(created, n)
		}
	}

	m.log.Info().
		Int("alerts", len(created)).
		Int("errors", len(errs)).
		Msg("reorder scan completed")
	return created, errors.Join(errs...)
}

func (m *Monitor) check(ctx context.Context, ing entities.Ingredient) (*entities.Notification, error) {
	if !ing.NeedsReorder() {
		metrics.RecordReorderCheck("ok")
		return nil, nil
	}

	now := m.now()
	key := entities.LowStockDedupeKey(ing.ID, now.In(m.config.Location))

	m.mu.Lock()
	defer m.mu.Unlock()

	exists, err := m.notifications.ExistsByDedupeKey(ctx, key)
	if err != nil {
		metrics.RecordReorderCheck("error")
		return nil, fmt.Errorf("failed to look up alert %s: %w", key, err)
	}
	if exists {
		metrics.RecordReorderCheck("deduped")
		return nil, nil
	}

	n := &entities.Notification{
		ID:           m.newID(),
		Type:         entities.NotificationSystem,
		Title:        AlertTitle,
		Message:      alertMessage(ing),
		Read:         false,
		Timestamp:    now,
		OutletID:     m.outletOf(ing),
		Link:         m.config.Link,
		DedupeKey:    key,
		IngredientID: ing.ID,
	}
	if err := m.notifications.Create(ctx, n); err != nil {
		if errors.Is(err, repositories.ErrDuplicateNotification) {
			metrics.RecordReorderCheck("deduped")
			return nil, nil
		}
		metrics.RecordReorderCheck("error")
		return nil, fmt.Errorf("failed to create alert %s: %w", key, err)
	}

	metrics.RecordReorderCheck("alerted")
	m.log.Info().
		Str("ingredient_id", string(ing.ID)).
		Str("stock", ing.Stock.String()).
		Str("reorder_point", ing.ReorderPoint.String()).
		Str("dedupe_key", key).
		Msg("low stock alert raised")

	if m.publisher != nil {
		if err := m.publisher.AppendEvent(string(ing.ID), events.NewStockLowEvent(n, ing.Stock, ing.ReorderPoint)); err != nil {
			m.log.Error().Err(err).Str("ingredient_id", string(ing.ID)).Msg("failed to publish stock.low")
		}
	}
	return n, nil
}

func (m *Monitor) outletOf(ing entities.Ingredient) string {
	if m.config.OutletID != "" {
		return m.config.OutletID
	}
	return ing.OutletID
}

func alertMessage(ing entities.Ingredient) string {
	return fmt.Sprintf("CRITICAL: stock of %s is low (%s %s). Reorder point: %s.",
		ing.Name, ing.Stock.String(), ing.Unit, ing.ReorderPoint.String())
}

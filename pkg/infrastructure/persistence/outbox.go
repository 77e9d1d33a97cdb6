// Package persistence queues document writes and replays them against the
// durable store until they succeed.
package persistence

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/rs/zerolog"

	"github.com/vsinha/kitchen-mrp/pkg/domain/repositories"
	"github.com/vsinha/kitchen-mrp/pkg/infrastructure/circuitbreaker"
	"github.com/vsinha/kitchen-mrp/pkg/infrastructure/logger"
	"github.com/vsinha/kitchen-mrp/pkg/infrastructure/metrics"
)

// ErrPending is returned by Flush when writes remain queued after a pass
var ErrPending = errors.New("document writes still pending")

// Intent is a queued write and its delivery history
type Intent struct {
	Seq        uint64
	Write      repositories.DocumentWrite
	Attempts   int
	LastError  string
	EnqueuedAt time.Time
}

// Config holds outbox retry settings
type Config struct {
	// RetryInterval is the first backoff delay and the idle poll period of Run
	RetryInterval time.Duration
	// MaxElapsed bounds the retries spent on one intent within a single pass
	MaxElapsed time.Duration
}

// DefaultConfig returns the default retry settings
func DefaultConfig() Config {
	return Config{
		RetryInterval: 500 * time.Millisecond,
		MaxElapsed:    30 * time.Second,
	}
}

// Outbox is a write-ahead intent log. Writes are accepted without blocking
// and applied strictly in enqueue order; a failing head blocks the writes
// behind it so a later patch never lands before an earlier one.
type Outbox struct {
	store   repositories.DocumentStore
	breaker *circuitbreaker.CircuitBreaker
	config  Config
	log     zerolog.Logger

	mu      sync.Mutex
	queue   []*Intent
	seq     uint64
	drainMu sync.Mutex
	wake    chan struct{}
}

// NewOutbox creates an outbox writing to store through breaker
func NewOutbox(store repositories.DocumentStore, breaker *circuitbreaker.CircuitBreaker, config Config) *Outbox {
	if config.RetryInterval <= 0 {
		config.RetryInterval = DefaultConfig().RetryInterval
	}
	if breaker == nil {
		breaker = circuitbreaker.New(circuitbreaker.DefaultConfig())
	}
	return &Outbox{
		store:   store,
		breaker: breaker,
		config:  config,
		log:     logger.Component("outbox"),
		wake:    make(chan struct{}, 1),
	}
}

// Persist appends a write to the log and wakes the worker
func (o *Outbox) Persist(w repositories.DocumentWrite) {
	o.mu.Lock()
	o.seq++
	o.queue = append(o.queue, &Intent{Seq: o.seq, Write: w, EnqueuedAt: time.Now()})
	pending := len(o.queue)
	o.mu.Unlock()

	metrics.UpdateOutboxPending(pending)
	select {
	case o.wake <- struct{}{}:
	default:
	}
}

// Pending returns the number of queued writes
func (o *Outbox) Pending() int {
	o.mu.Lock()
	defer o.mu.Unlock()
	return len(o.queue)
}

// Intents returns a copy of the queued writes, oldest first
func (o *Outbox) Intents() []Intent {
	o.mu.Lock()
	defer o.mu.Unlock()
	out := make([]Intent, len(o.queue))
	for i, in := range o.queue {
		out[i] = *in
	}
	return out
}

// Run drains the log whenever a write arrives and on every RetryInterval
// tick until ctx is done
func (o *Outbox) Run(ctx context.Context) error {
	ticker := time.NewTicker(o.config.RetryInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-o.wake:
		case <-ticker.C:
		}
		if err := o.drain(ctx); err != nil && !errors.Is(err, context.Canceled) {
			o.log.Debug().Err(err).Int("pending", o.Pending()).Msg("Outbox pass ended with pending writes")
		}
	}
}

// Flush drains the log synchronously. It returns an error wrapping
// ErrPending if a write could not be applied.
func (o *Outbox) Flush(ctx context.Context) error {
	return o.drain(ctx)
}

func (o *Outbox) head() *Intent {
	o.mu.Lock()
	defer o.mu.Unlock()
	if len(o.queue) == 0 {
		return nil
	}
	return o.queue[0]
}

func (o *Outbox) pop(seq uint64) {
	o.mu.Lock()
	if len(o.queue) > 0 && o.queue[0].Seq == seq {
		o.queue[0] = nil
		o.queue = o.queue[1:]
	}
	pending := len(o.queue)
	o.mu.Unlock()
	metrics.UpdateOutboxPending(pending)
}

func (o *Outbox) drain(ctx context.Context) error {
	o.drainMu.Lock()
	defer o.drainMu.Unlock()

	for {
		intent := o.head()
		if intent == nil {
			return nil
		}

		if err := o.apply(ctx, intent); err != nil {
			o.log.Error().
				Err(err).
				Uint64("seq", intent.Seq).
				Str("collection", intent.Write.Collection).
				Str("document_id", intent.Write.ID).
				Int("attempts", intent.Attempts).
				Msg("Document write failed, will retry")
			return fmt.Errorf("%w: %d queued, head %s/%s: %v",
				ErrPending, o.Pending(), intent.Write.Collection, intent.Write.ID, err)
		}
		o.pop(intent.Seq)
	}
}

func (o *Outbox) apply(ctx context.Context, intent *Intent) error {
	kind := intent.Write.Kind.String()

	policy := backoff.NewExponentialBackOff()
	policy.InitialInterval = o.config.RetryInterval
	policy.MaxElapsedTime = o.config.MaxElapsed

	operation := func() error {
		err := o.breaker.Execute(ctx, func() error {
			return intent.Write.Apply(ctx, o.store)
		})

		o.mu.Lock()
		intent.Attempts++
		if err != nil {
			intent.LastError = err.Error()
		}
		o.mu.Unlock()

		if err == nil {
			metrics.RecordOutboxWrite(kind, "success")
			return nil
		}
		metrics.RecordOutboxWrite(kind, "error")
		if errors.Is(err, circuitbreaker.ErrCircuitOpen) || ctx.Err() != nil {
			return backoff.Permanent(err)
		}
		return err
	}

	return backoff.Retry(operation, backoff.WithContext(policy, ctx))
}

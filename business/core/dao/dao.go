// Package dao is the core API for the governance transaction lifecycle.
// It prepares and dispatches proposal and vote transactions, reconciles
// their records against contract events, and sweeps out transactions the
// ledger silently dropped.
package dao

import (
	"context"

	"github.com/daofund/governance/business/core/dao/nonce"
	"github.com/daofund/governance/business/core/dao/record"
	"github.com/daofund/governance/foundation/ledger"
)

// EventHandler defines a function that is called when events occur in
// the processing of transaction records.
type EventHandler func(v string, args ...any)

// Worker interface represents the behavior required to be implemented
// by any package providing support for event reconciliation and
// failure sweeping.
type Worker interface {
	Shutdown()
}

// =============================================================================

// Config represents the configuration required to construct the core.
type Config struct {
	Ledger    ledger.Client
	Store     record.Storer
	EvHandler EventHandler
}

// Core manages the governance transaction lifecycle.
type Core struct {
	ledger    ledger.Client
	store     record.Storer
	nonce     *nonce.Allocator
	evHandler EventHandler

	// Worker is registered by the worker package at startup.
	Worker Worker
}

// New constructs a core for managing the transaction lifecycle.
func New(cfg Config) *Core {

	// Build a safe event handler function for use.
	ev := func(v string, args ...any) {
		if cfg.EvHandler != nil {
			cfg.EvHandler(v, args...)
		}
	}

	return &Core{
		ledger:    cfg.Ledger,
		store:     cfg.Store,
		nonce:     nonce.New(cfg.Ledger),
		evHandler: ev,
	}
}

// Shutdown cleanly brings the background processing down.
func (c *Core) Shutdown() {
	if c.Worker != nil {
		c.Worker.Shutdown()
	}
}

// SubscribeEvents opens the contract event stream the reconciler
// consumes.
func (c *Core) SubscribeEvents(ctx context.Context) (ledger.Subscription, error) {
	return c.ledger.Subscribe(ctx)
}

// NonceCursor reports the allocator position for an account for
// operational visibility.
func (c *Core) NonceCursor(account string) (uint64, bool) {
	return c.nonce.Cursor(account)
}

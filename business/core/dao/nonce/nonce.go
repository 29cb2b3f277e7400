// Package nonce hands out per-account transaction sequence numbers.
// Allocation is serialized per account so concurrent callers never
// receive the same value, and values are never reused: a failed
// transaction burns its nonce.
package nonce

import (
	"context"
	"fmt"
	"sync"
)

// Ledger declares the node behavior the allocator depends on to seed a
// cursor after a restart.
type Ledger interface {
	PendingNonce(ctx context.Context, account string) (uint64, error)
}

// cursor tracks the next sequence number for a single account.
type cursor struct {
	mu     sync.Mutex
	next   uint64
	seeded bool
}

// Allocator manages a cursor per signing account.
type Allocator struct {
	ledger  Ledger
	mu      sync.Mutex
	cursors map[string]*cursor
}

// New constructs an allocator seeding its cursors from the ledger.
func New(ledger Ledger) *Allocator {
	return &Allocator{
		ledger:  ledger,
		cursors: make(map[string]*cursor),
	}
}

// Allocate returns the next unused nonce for the account. The first
// allocation for an account queries the ledger's account nonce; if that
// query fails, the allocation fails and nothing is consumed. Calls for
// different accounts do not contend.
func (a *Allocator) Allocate(ctx context.Context, account string) (uint64, error) {
	c := a.cursor(account)

	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.seeded {
		next, err := a.ledger.PendingNonce(ctx, account)
		if err != nil {
			return 0, fmt.Errorf("seeding nonce for account %s: %w", account, err)
		}
		c.next = next
		c.seeded = true
	}

	nonce := c.next
	c.next++

	return nonce, nil
}

// Cursor reports the next nonce the allocator would hand out for the
// account, and whether the account has allocated before.
func (a *Allocator) Cursor(account string) (uint64, bool) {
	c := a.cursor(account)

	c.mu.Lock()
	defer c.mu.Unlock()

	return c.next, c.seeded
}

// cursor returns the cursor for an account, creating it on first use.
func (a *Allocator) cursor(account string) *cursor {
	a.mu.Lock()
	defer a.mu.Unlock()

	c, exists := a.cursors[account]
	if !exists {
		c = &cursor{}
		a.cursors[account] = c
	}

	return c
}

package sim

import (
	"context"
	"sync"

	"github.com/daofund/governance/foundation/ledger"
)

// subscription implements the ledger.Subscription interface for the
// simulated ledger.
type subscription struct {
	client *Client
	events chan ledger.Event
	errs   chan error
	once   sync.Once
}

// Events returns the channel delivering contract events.
func (s *subscription) Events() <-chan ledger.Event {
	return s.events
}

// Err returns the channel delivering a terminal stream error. The
// simulation never fails a stream on its own.
func (s *subscription) Err() <-chan error {
	return s.errs
}

// Unsubscribe terminates the stream.
func (s *subscription) Unsubscribe() {
	s.once.Do(func() {
		s.client.mu.Lock()
		delete(s.client.subs, s)
		s.client.mu.Unlock()
		close(s.events)
	})
}

// Subscribe opens a stream of contract events across every DAO in the
// simulation.
func (c *Client) Subscribe(ctx context.Context) (ledger.Subscription, error) {
	s := subscription{
		client: c,
		events: make(chan ledger.Event, 128),
		errs:   make(chan error, 1),
	}

	c.mu.Lock()
	c.subs[&s] = struct{}{}
	c.mu.Unlock()

	return &s, nil
}

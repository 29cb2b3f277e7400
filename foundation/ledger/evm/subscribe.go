package evm

import (
	"context"
	"fmt"
	"math/big"
	"sync"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"

	"github.com/daofund/governance/foundation/ledger"
)

// subscription implements the ledger.Subscription interface over a
// go-ethereum log subscription.
type subscription struct {
	events chan ledger.Event
	errs   chan error
	quit   chan struct{}
	once   sync.Once
}

// Events returns the channel delivering decoded contract events.
func (s *subscription) Events() <-chan ledger.Event {
	return s.events
}

// Err returns the channel delivering a terminal stream error.
func (s *subscription) Err() <-chan error {
	return s.errs
}

// Unsubscribe terminates the stream.
func (s *subscription) Unsubscribe() {
	s.once.Do(func() {
		close(s.quit)
	})
}

// Subscribe opens a stream of contract events for the governance contract
// and every DAO contract it created. When a new DAO is created the log
// filter is re-issued to include the new contract address.
func (c *Client) Subscribe(ctx context.Context) (ledger.Subscription, error) {

	// Resolve the current DAO contract set so the filter covers every
	// existing event source.
	if _, err := c.DAOs(ctx); err != nil {
		return nil, fmt.Errorf("resolving dao contracts: %w", err)
	}

	logs := make(chan types.Log, 128)
	ethSub, err := c.subscribeLogs(ctx, logs)
	if err != nil {
		return nil, err
	}

	s := subscription{
		events: make(chan ledger.Event, 128),
		errs:   make(chan error, 1),
		quit:   make(chan struct{}),
	}

	go func() {
		defer close(s.events)
		defer ethSub.Unsubscribe()

		for {
			select {
			case <-s.quit:
				return

			case err := <-ethSub.Err():
				s.errs <- err
				return

			case l := <-logs:
				if l.Removed {
					continue
				}

				event, recognized := c.decodeLog(l)
				if !recognized {
					continue
				}

				// A new DAO is a new event source. Re-issue the filter so
				// its logs are captured from here on.
				if event.Kind == ledger.EventDAOCreated {
					ethSub.Unsubscribe()
					ethSub, err = c.subscribeLogs(ctx, logs)
					if err != nil {
						s.errs <- err
						return
					}
				}

				select {
				case s.events <- event:
				case <-s.quit:
					return
				}
			}
		}
	}()

	return &s, nil
}

// subscribeLogs issues a log filter covering the governance contract and
// the currently known DAO contracts.
func (c *Client) subscribeLogs(ctx context.Context, logs chan types.Log) (ethereum.Subscription, error) {
	c.mu.RLock()
	addrs := make([]common.Address, 0, len(c.daoAddrs)+1)
	addrs = append(addrs, c.govAddr)
	for _, addr := range c.daoAddrs {
		addrs = append(addrs, addr)
	}
	c.mu.RUnlock()

	query := ethereum.FilterQuery{
		Addresses: addrs,
	}

	sub, err := c.ethClient.SubscribeFilterLogs(ctx, query, logs)
	if err != nil {
		return nil, fmt.Errorf("subscribing to contract logs: %w", err)
	}

	return sub, nil
}

// decodeLog maps a raw contract log to a typed event. Logs that don't
// match the known event set are reported as unrecognized.
func (c *Client) decodeLog(l types.Log) (ledger.Event, bool) {
	if len(l.Topics) == 0 {
		return ledger.Event{}, false
	}

	c.mu.RLock()
	daoID, knownDAO := c.addrDAOs[l.Address]
	c.mu.RUnlock()

	event := ledger.Event{
		DAOID:  daoID,
		TxHash: l.TxHash.Hex(),
		Block:  l.BlockNumber,
	}

	switch l.Topics[0] {
	case c.govABI.Events["DAOCreated"].ID:
		event.Kind = ledger.EventDAOCreated
		event.DAOID = new(big.Int).SetBytes(l.Topics[1].Bytes()).Uint64()

		vals, err := c.govABI.Events["DAOCreated"].Inputs.NonIndexed().Unpack(l.Data)
		if err != nil {
			return ledger.Event{}, false
		}
		addr := vals[0].(common.Address)

		c.mu.Lock()
		c.daoAddrs[event.DAOID] = addr
		c.addrDAOs[addr] = event.DAOID
		c.mu.Unlock()

		return event, true

	case c.daoABI.Events["SubmitProposal"].ID:
		if !knownDAO || len(l.Topics) < 3 {
			return ledger.Event{}, false
		}
		event.Kind = ledger.EventSubmitProposal
		event.ProposalIndex = new(big.Int).SetBytes(l.Topics[1].Bytes()).Uint64()
		return event, true

	case c.daoABI.Events["SubmitVote"].ID:
		if !knownDAO || len(l.Topics) < 3 {
			return ledger.Event{}, false
		}
		event.Kind = ledger.EventSubmitVote
		event.ProposalIndex = new(big.Int).SetBytes(l.Topics[1].Bytes()).Uint64()
		event.Voter = common.BytesToAddress(l.Topics[2].Bytes()).Hex()

		vals, err := c.daoABI.Events["SubmitVote"].Inputs.NonIndexed().Unpack(l.Data)
		if err != nil {
			return ledger.Event{}, false
		}
		event.Vote = vals[0].(bool)

		return event, true

	case c.daoABI.Events["ProcessProposal"].ID:
		if !knownDAO || len(l.Topics) < 2 {
			return ledger.Event{}, false
		}
		event.Kind = ledger.EventProcessProposal
		event.ProposalIndex = new(big.Int).SetBytes(l.Topics[1].Bytes()).Uint64()
		return event, true
	}

	return ledger.Event{}, false
}

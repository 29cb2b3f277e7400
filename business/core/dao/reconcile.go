package dao

import (
	"context"
	"errors"

	"github.com/daofund/governance/business/core/dao/record"
	"github.com/daofund/governance/foundation/ledger"
)

// ApplyEvent reconciles a single contract event against the record
// store. Anomalies are logged and swallowed so the stream keeps making
// forward progress; redelivered events land on terminal records and
// become no-ops.
func (c *Core) ApplyEvent(ctx context.Context, event ledger.Event) {
	switch event.Kind {
	case ledger.EventSubmitProposal, ledger.EventProcessProposal:
		c.applyProposalEvent(ctx, event)

	case ledger.EventSubmitVote:
		c.applyVoteEvent(ctx, event)

	case ledger.EventDAOCreated:

		// The ledger client re-registers its log filter on its own; the
		// record store has nothing to reconcile for a new DAO.
		c.evHandler("dao: ApplyEvent: dao[%d] created", event.DAOID)

	default:
		c.evHandler("dao: ApplyEvent: unknown event kind %d: ignored", event.Kind)
	}
}

// applyProposalEvent confirms the proposal record matching the event's
// transaction hash and fills in the on-chain assigned proposal index.
func (c *Core) applyProposalEvent(ctx context.Context, event ledger.Event) {
	tx, err := c.store.ProposalByTxHash(ctx, event.TxHash)
	if err != nil {
		if errors.Is(err, record.ErrNotFound) {

			// Another process instance may have submitted this
			// transaction. Not an error.
			c.evHandler("dao: reconcile: %s: tx[%s]: no matching proposal record: ignored", event.Kind, event.TxHash)
			return
		}
		c.evHandler("dao: reconcile: %s: tx[%s]: ERROR: %s", event.Kind, event.TxHash, err)
		return
	}

	if tx.Status.Terminal() {
		c.evHandler("dao: reconcile: %s: tx[%s]: already %s: no-op", event.Kind, event.TxHash, tx.Status)
		return
	}

	proposalID := event.ProposalIndex
	changed, err := c.store.UpdateProposalStatus(ctx, event.TxHash, record.StatusConfirmed, &proposalID)
	if err != nil {
		c.evHandler("dao: reconcile: %s: tx[%s]: ERROR: %s", event.Kind, event.TxHash, err)
		return
	}
	if !changed {

		// The sweeper or a redelivered event won the race. The record is
		// terminal either way.
		c.evHandler("dao: reconcile: %s: tx[%s]: concurrent transition: no-op", event.Kind, event.TxHash)
		return
	}

	c.evHandler("dao: reconcile: %s: tx[%s] proposal[%d] CONFIRMED", event.Kind, event.TxHash, proposalID)
}

// applyVoteEvent confirms the vote record matching the event's
// transaction hash.
func (c *Core) applyVoteEvent(ctx context.Context, event ledger.Event) {
	tx, err := c.store.VoteByTxHash(ctx, event.TxHash)
	if err != nil {
		if errors.Is(err, record.ErrNotFound) {
			c.evHandler("dao: reconcile: %s: tx[%s]: no matching vote record: ignored", event.Kind, event.TxHash)
			return
		}
		c.evHandler("dao: reconcile: %s: tx[%s]: ERROR: %s", event.Kind, event.TxHash, err)
		return
	}

	if tx.Status.Terminal() {
		c.evHandler("dao: reconcile: %s: tx[%s]: already %s: no-op", event.Kind, event.TxHash, tx.Status)
		return
	}

	changed, err := c.store.UpdateVoteStatus(ctx, event.TxHash, record.StatusConfirmed)
	if err != nil {
		c.evHandler("dao: reconcile: %s: tx[%s]: ERROR: %s", event.Kind, event.TxHash, err)
		return
	}
	if !changed {
		c.evHandler("dao: reconcile: %s: tx[%s]: concurrent transition: no-op", event.Kind, event.TxHash)
		return
	}

	c.evHandler("dao: reconcile: %s: tx[%s] proposal[%d] CONFIRMED", event.Kind, event.TxHash, tx.ProposalID)
}

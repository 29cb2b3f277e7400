package dao

import (
	"context"
	"errors"
	"time"

	"github.com/daofund/governance/business/core/dao/record"
	"github.com/daofund/governance/foundation/ledger"
)

// Sweep runs one failure-detection pass over every in-flight record. A
// record whose nonce sits strictly below its account's confirmed nonce
// high-water mark was superseded on chain and is transitioned to FAILED.
// The transition is guarded by the record still being SENT, so a
// concurrent confirmation is never overwritten. The signature matches
// the scheduler task contract.
func (c *Core) Sweep(ctx context.Context, now time.Time, last time.Time) error {
	c.evHandler("dao: sweep: started")
	defer c.evHandler("dao: sweep: completed")

	proposals, err := c.store.SentProposals(ctx)
	if err != nil {
		return err
	}

	votes, err := c.store.SentVotes(ctx)
	if err != nil {
		return err
	}

	// One confirmed-nonce query per account with outstanding records.
	marks := make(map[string]uint64)
	for _, tx := range proposals {
		marks[tx.Account] = 0
	}
	for _, tx := range votes {
		marks[tx.Account] = 0
	}
	for account := range marks {
		mark, err := c.ledger.ConfirmedNonce(ctx, account)
		if err != nil {

			// Leave this account's records for the next pass rather than
			// stalling the sweep.
			c.evHandler("dao: sweep: account[%s]: ERROR: %s", account, err)
			delete(marks, account)
			continue
		}
		marks[account] = mark
	}

	for _, tx := range proposals {
		mark, ok := marks[tx.Account]
		if !ok {
			continue
		}
		c.sweepProposal(ctx, tx, mark)
	}

	for _, tx := range votes {
		mark, ok := marks[tx.Account]
		if !ok {
			continue
		}
		c.sweepVote(ctx, tx, mark)
	}

	return nil
}

// sweepProposal fails a single superseded proposal record.
func (c *Core) sweepProposal(ctx context.Context, tx record.ProposalTx, mark uint64) {
	if !c.superseded(ctx, tx.TxHash, tx.Nonce, mark) {
		return
	}

	changed, err := c.store.UpdateProposalStatus(ctx, tx.TxHash, record.StatusFailed, nil)
	if err != nil {
		c.evHandler("dao: sweep: tx[%s]: ERROR: %s", tx.TxHash, err)
		return
	}
	if !changed {

		// The reconciler confirmed it between the scan and this update.
		c.evHandler("dao: sweep: tx[%s]: concurrent transition: no-op", tx.TxHash)
		return
	}

	c.evHandler("dao: sweep: tx[%s] nonce[%d] FAILED: superseded by confirmed nonce %d", tx.TxHash, tx.Nonce, mark)
}

// sweepVote fails a single superseded vote record.
func (c *Core) sweepVote(ctx context.Context, tx record.VoteTx, mark uint64) {
	if !c.superseded(ctx, tx.TxHash, tx.Nonce, mark) {
		return
	}

	changed, err := c.store.UpdateVoteStatus(ctx, tx.TxHash, record.StatusFailed)
	if err != nil {
		c.evHandler("dao: sweep: tx[%s]: ERROR: %s", tx.TxHash, err)
		return
	}
	if !changed {
		c.evHandler("dao: sweep: tx[%s]: concurrent transition: no-op", tx.TxHash)
		return
	}

	c.evHandler("dao: sweep: tx[%s] nonce[%d] FAILED: superseded by confirmed nonce %d", tx.TxHash, tx.Nonce, mark)
}

// superseded reports whether a SENT record is provably superseded. A
// nonce below the account's confirmed high-water mark means a later
// transaction from the same account was mined first or in its place,
// unless the ledger holds a receipt for this very hash, in which case
// the confirmation event is merely late and the record is left alone.
func (c *Core) superseded(ctx context.Context, txHash string, nonce uint64, mark uint64) bool {
	if nonce >= mark {
		return false
	}

	if _, err := c.ledger.TxReceipt(ctx, txHash); err == nil {

		// Mined but not yet reconciled. The event stream owns this
		// transition because only the event carries the assigned index.
		c.evHandler("dao: sweep: tx[%s]: mined but unreconciled: awaiting event", txHash)
		return false
	} else if !errors.Is(err, ledger.ErrTxNotFound) {
		c.evHandler("dao: sweep: tx[%s]: receipt check: ERROR: %s", txHash, err)
		return false
	}

	return true
}

package dao

import (
	"context"
	"errors"

	"github.com/daofund/governance/business/core/dao/record"
)

// UpdateProposalStatus applies a caller-driven status override to a
// proposal record. Only SENT records can change, and only to a terminal
// status; the write-once terminal invariant is preserved even against a
// concurrent reconciler or sweeper transition.
func (c *Core) UpdateProposalStatus(ctx context.Context, txHash string, status string) (record.ProposalTx, error) {
	to, err := record.ParseStatus(status)
	if err != nil || !to.Terminal() {
		return record.ProposalTx{}, &StatusNotValidError{Kind: "proposal", Status: status}
	}

	tx, err := c.store.ProposalByTxHash(ctx, txHash)
	if err != nil {
		if errors.Is(err, record.ErrNotFound) {
			return record.ProposalTx{}, &TxHashNotFoundError{Kind: "proposal", TxHash: txHash}
		}
		return record.ProposalTx{}, err
	}

	if tx.Status.Terminal() {
		return record.ProposalTx{}, &StatusCannotChangeError{Kind: "proposal", Current: tx.Status}
	}

	changed, err := c.store.UpdateProposalStatus(ctx, txHash, to, nil)
	if err != nil {
		return record.ProposalTx{}, err
	}
	if !changed {

		// A background transition won the race between the read above
		// and this update.
		tx, err := c.store.ProposalByTxHash(ctx, txHash)
		if err != nil {
			return record.ProposalTx{}, err
		}
		return record.ProposalTx{}, &StatusCannotChangeError{Kind: "proposal", Current: tx.Status}
	}

	c.evHandler("dao: UpdateProposalStatus: tx[%s] forced to %s", txHash, to)

	return c.store.ProposalByTxHash(ctx, txHash)
}

// UpdateVoteStatus applies a caller-driven status override to a vote
// record, with the same guarantees as UpdateProposalStatus.
func (c *Core) UpdateVoteStatus(ctx context.Context, txHash string, status string) (record.VoteTx, error) {
	to, err := record.ParseStatus(status)
	if err != nil || !to.Terminal() {
		return record.VoteTx{}, &StatusNotValidError{Kind: "vote", Status: status}
	}

	tx, err := c.store.VoteByTxHash(ctx, txHash)
	if err != nil {
		if errors.Is(err, record.ErrNotFound) {
			return record.VoteTx{}, &TxHashNotFoundError{Kind: "vote", TxHash: txHash}
		}
		return record.VoteTx{}, err
	}

	if tx.Status.Terminal() {
		return record.VoteTx{}, &StatusCannotChangeError{Kind: "vote", Current: tx.Status}
	}

	changed, err := c.store.UpdateVoteStatus(ctx, txHash, to)
	if err != nil {
		return record.VoteTx{}, err
	}
	if !changed {
		tx, err := c.store.VoteByTxHash(ctx, txHash)
		if err != nil {
			return record.VoteTx{}, err
		}
		return record.VoteTx{}, &StatusCannotChangeError{Kind: "vote", Current: tx.Status}
	}

	c.evHandler("dao: UpdateVoteStatus: tx[%s] forced to %s", txHash, to)

	return c.store.VoteByTxHash(ctx, txHash)
}

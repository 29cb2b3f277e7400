package dao

import (
	"context"

	"github.com/daofund/governance/business/core/dao/record"
)

// PrepareVote validates the vote, allocates a nonce for the voter's
// account, and returns an unsigned transaction for external signing.
// Nothing is persisted; the call can be retried freely.
func (c *Core) PrepareVote(ctx context.Context, nv NewVote) (Prepared, error) {
	if nv.Voter == "" || nv.Vote == nil {
		return Prepared{}, &RequiredParamsError{Method: "voteProposal"}
	}

	n, err := c.nonce.Allocate(ctx, nv.Voter)
	if err != nil {
		return Prepared{}, err
	}

	unsignedTx, err := c.ledger.NewVoteTx(ctx, nv.DAOID, nv.ProposalID, *nv.Vote, n)
	if err != nil {
		return Prepared{}, err
	}

	return Prepared{UnsignedTx: unsignedTx, Nonce: n}, nil
}

// SubmitVote dispatches a signed vote transaction and persists a SENT
// record on acceptance. A ledger rejection leaves no record behind.
func (c *Core) SubmitVote(ctx context.Context, nv NewVote, signedTx []byte) (record.VoteTx, error) {
	if nv.Voter == "" || nv.Vote == nil || len(signedTx) == 0 {
		return record.VoteTx{}, &RequiredParamsError{Method: "voteProposal"}
	}

	pendingTx, err := c.ledger.SendTx(ctx, signedTx)
	if err != nil {
		return record.VoteTx{}, &VoteProposalError{ProposalID: nv.ProposalID, DAOID: nv.DAOID, Err: err}
	}

	tx := record.VoteTx{
		DAOID:      nv.DAOID,
		TxHash:     pendingTx.Hash,
		Status:     record.StatusSent,
		Nonce:      pendingTx.Nonce,
		Account:    nv.Voter,
		ProposalID: nv.ProposalID,
		Vote:       *nv.Vote,
		Voter:      nv.Voter,
	}

	tx, err = c.store.AddVote(ctx, tx)
	if err != nil {
		return record.VoteTx{}, err
	}

	c.evHandler("dao: SubmitVote: dao[%d] proposal[%d] tx[%s] nonce[%d] SENT", nv.DAOID, nv.ProposalID, tx.TxHash, tx.Nonce)

	return tx, nil
}

package dao

import (
	"context"

	"github.com/daofund/governance/business/core/dao/record"
)

// PrepareProposal validates the proposal, allocates a nonce for the
// proposer's account, and returns an unsigned transaction for external
// signing. Nothing is persisted; the call can be retried freely.
func (c *Core) PrepareProposal(ctx context.Context, np NewProposal) (Prepared, error) {
	if np.Proposer == "" || np.Applicant == "" || np.Description == "" || np.ProposalType == "" {
		return Prepared{}, &RequiredParamsError{Method: "newProposal"}
	}
	if !validProposalTypes[np.ProposalType] {
		return Prepared{}, ErrInvalidProposalType
	}

	n, err := c.nonce.Allocate(ctx, np.Proposer)
	if err != nil {
		return Prepared{}, err
	}

	unsignedTx, err := c.ledger.NewProposalTx(ctx, np.DAOID, np.ProposalType, np.Description, np.Applicant, n)
	if err != nil {
		return Prepared{}, err
	}

	return Prepared{UnsignedTx: unsignedTx, Nonce: n}, nil
}

// SubmitProposal dispatches a signed proposal transaction and persists a
// SENT record on acceptance. A ledger rejection leaves no record behind.
func (c *Core) SubmitProposal(ctx context.Context, np NewProposal, signedTx []byte) (record.ProposalTx, error) {
	if np.Proposer == "" || np.Applicant == "" || len(signedTx) == 0 {
		return record.ProposalTx{}, &RequiredParamsError{Method: "newProposal"}
	}

	pendingTx, err := c.ledger.SendTx(ctx, signedTx)
	if err != nil {
		return record.ProposalTx{}, &SubmitProposalError{DAOID: np.DAOID, Err: err}
	}

	tx := record.ProposalTx{
		DAOID:        np.DAOID,
		TxHash:       pendingTx.Hash,
		Status:       record.StatusSent,
		Nonce:        pendingTx.Nonce,
		Account:      np.Proposer,
		Applicant:    np.Applicant,
		Proposer:     np.Proposer,
		ProposalType: np.ProposalType,
		Description:  np.Description,
	}

	tx, err = c.store.AddProposal(ctx, tx)
	if err != nil {
		return record.ProposalTx{}, err
	}

	c.evHandler("dao: SubmitProposal: dao[%d] tx[%s] nonce[%d] SENT", np.DAOID, tx.TxHash, tx.Nonce)

	return tx, nil
}

// PrepareProcess validates the processing request, allocates a nonce,
// and returns an unsigned transaction processing the proposal.
func (c *Core) PrepareProcess(ctx context.Context, np NewProcess) (Prepared, error) {
	if np.Processor == "" {
		return Prepared{}, &RequiredParamsError{Method: "processProposal"}
	}

	n, err := c.nonce.Allocate(ctx, np.Processor)
	if err != nil {
		return Prepared{}, err
	}

	unsignedTx, err := c.ledger.NewProcessTx(ctx, np.DAOID, np.ProposalID, n)
	if err != nil {
		return Prepared{}, err
	}

	return Prepared{UnsignedTx: unsignedTx, Nonce: n}, nil
}

// SubmitProcess dispatches a signed processing transaction and persists
// a SENT record on acceptance. The record reuses the proposal variant
// with the processing marker type; its proposal index is known up front.
func (c *Core) SubmitProcess(ctx context.Context, np NewProcess, signedTx []byte) (record.ProposalTx, error) {
	if np.Processor == "" || len(signedTx) == 0 {
		return record.ProposalTx{}, &RequiredParamsError{Method: "processProposal"}
	}

	pendingTx, err := c.ledger.SendTx(ctx, signedTx)
	if err != nil {
		return record.ProposalTx{}, &ProcessProposalError{ProposalID: np.ProposalID, DAOID: np.DAOID, Err: err}
	}

	proposalID := np.ProposalID
	tx := record.ProposalTx{
		DAOID:        np.DAOID,
		TxHash:       pendingTx.Hash,
		Status:       record.StatusSent,
		Nonce:        pendingTx.Nonce,
		Account:      np.Processor,
		Proposer:     np.Processor,
		ProposalID:   &proposalID,
		ProposalType: proposalTypeProcessMarker,
	}

	tx, err = c.store.AddProposal(ctx, tx)
	if err != nil {
		return record.ProposalTx{}, err
	}

	c.evHandler("dao: SubmitProcess: dao[%d] proposal[%d] tx[%s] nonce[%d] SENT", np.DAOID, np.ProposalID, tx.TxHash, tx.Nonce)

	return tx, nil
}

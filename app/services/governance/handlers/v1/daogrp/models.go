package daogrp

import (
	"encoding/hex"
	"time"

	"github.com/daofund/governance/business/core/dao"
	"github.com/daofund/governance/business/core/dao/record"
	"github.com/daofund/governance/foundation/ledger"
)

// appNewProposal is the request to prepare a proposal transaction.
type appNewProposal struct {
	ProposalType string `json:"type" validate:"required"`
	Description  string `json:"description" validate:"required"`
	Applicant    string `json:"applicant" validate:"required"`
	Proposer     string `json:"proposer" validate:"required"`
}

func toCoreNewProposal(daoID uint64, app appNewProposal) dao.NewProposal {
	return dao.NewProposal{
		DAOID:        daoID,
		ProposalType: app.ProposalType,
		Description:  app.Description,
		Applicant:    app.Applicant,
		Proposer:     app.Proposer,
	}
}

// appSubmitProposal is the request to dispatch a signed proposal
// transaction.
type appSubmitProposal struct {
	appNewProposal
	SignedTx string `json:"signed_tx" validate:"required"`
}

// appNewVote is the request to prepare a vote transaction.
type appNewVote struct {
	Vote  *bool  `json:"vote" validate:"required"`
	Voter string `json:"voter" validate:"required"`
}

func toCoreNewVote(daoID uint64, proposalID uint64, app appNewVote) dao.NewVote {
	return dao.NewVote{
		DAOID:      daoID,
		ProposalID: proposalID,
		Vote:       app.Vote,
		Voter:      app.Voter,
	}
}

// appSubmitVote is the request to dispatch a signed vote transaction.
type appSubmitVote struct {
	appNewVote
	SignedTx string `json:"signed_tx" validate:"required"`
}

// appNewProcess is the request to prepare a processing transaction.
type appNewProcess struct {
	Processor string `json:"processor" validate:"required"`
}

// appSubmitProcess is the request to dispatch a signed processing
// transaction.
type appSubmitProcess struct {
	appNewProcess
	SignedTx string `json:"signed_tx" validate:"required"`
}

// =============================================================================

// appPrepared is the response to a prepare call: the unsigned
// transaction bytes for external signing and the nonce embedded in them.
type appPrepared struct {
	UnsignedTx string `json:"unsigned_tx"`
	Nonce      uint64 `json:"nonce"`
}

func toAppPrepared(prepared dao.Prepared) appPrepared {
	return appPrepared{
		UnsignedTx: hex.EncodeToString(prepared.UnsignedTx),
		Nonce:      prepared.Nonce,
	}
}

// appProposalTx is the response form for a proposal record.
type appProposalTx struct {
	ID           uint64    `json:"id"`
	DAOID        uint64    `json:"dao_id"`
	TxHash       string    `json:"tx_hash"`
	Status       string    `json:"status"`
	Nonce        uint64    `json:"nonce"`
	ProposalID   *uint64   `json:"proposal_id,omitempty"`
	Applicant    string    `json:"applicant"`
	Proposer     string    `json:"proposer"`
	ProposalType string    `json:"type"`
	Description  string    `json:"description"`
	CreatedAt    time.Time `json:"created_at"`
}

func toAppProposalTx(tx record.ProposalTx) appProposalTx {
	return appProposalTx{
		ID:           tx.ID,
		DAOID:        tx.DAOID,
		TxHash:       tx.TxHash,
		Status:       string(tx.Status),
		Nonce:        tx.Nonce,
		ProposalID:   tx.ProposalID,
		Applicant:    tx.Applicant,
		Proposer:     tx.Proposer,
		ProposalType: tx.ProposalType,
		Description:  tx.Description,
		CreatedAt:    tx.CreatedAt,
	}
}

func toAppProposalTxs(txs []record.ProposalTx) []appProposalTx {
	app := make([]appProposalTx, len(txs))
	for i, tx := range txs {
		app[i] = toAppProposalTx(tx)
	}
	return app
}

// appVoteTx is the response form for a vote record.
type appVoteTx struct {
	ID         uint64    `json:"id"`
	DAOID      uint64    `json:"dao_id"`
	TxHash     string    `json:"tx_hash"`
	Status     string    `json:"status"`
	Nonce      uint64    `json:"nonce"`
	ProposalID uint64    `json:"proposal_id"`
	Vote       bool      `json:"vote"`
	Voter      string    `json:"voter"`
	CreatedAt  time.Time `json:"created_at"`
}

func toAppVoteTx(tx record.VoteTx) appVoteTx {
	return appVoteTx{
		ID:         tx.ID,
		DAOID:      tx.DAOID,
		TxHash:     tx.TxHash,
		Status:     string(tx.Status),
		Nonce:      tx.Nonce,
		ProposalID: tx.ProposalID,
		Vote:       tx.Vote,
		Voter:      tx.Voter,
		CreatedAt:  tx.CreatedAt,
	}
}

func toAppVoteTxs(txs []record.VoteTx) []appVoteTx {
	app := make([]appVoteTx, len(txs))
	for i, tx := range txs {
		app[i] = toAppVoteTx(tx)
	}
	return app
}

// appProposal is the response form for on-chain proposal state.
type appProposal struct {
	Index          uint64 `json:"index"`
	Proposer       string `json:"proposer"`
	Applicant      string `json:"applicant"`
	ProposalType   string `json:"type"`
	Description    string `json:"description"`
	YesVotes       uint64 `json:"yes_votes"`
	NoVotes        uint64 `json:"no_votes"`
	DidPass        bool   `json:"did_pass"`
	Processed      bool   `json:"processed"`
	StartingPeriod uint64 `json:"starting_period"`
}

func toAppProposals(proposals []ledger.Proposal) []appProposal {
	app := make([]appProposal, len(proposals))
	for i, p := range proposals {
		app[i] = appProposal{
			Index:          p.Index,
			Proposer:       p.Proposer,
			Applicant:      p.Applicant,
			ProposalType:   p.ProposalType,
			Description:    p.Description,
			YesVotes:       p.YesVotes,
			NoVotes:        p.NoVotes,
			DidPass:        p.DidPass,
			Processed:      p.Processed,
			StartingPeriod: p.StartingPeriod,
		}
	}
	return app
}

// appMember is the response form for DAO membership.
type appMember struct {
	Address string `json:"address"`
	Role    string `json:"role"`
	Shares  uint64 `json:"shares"`
}

func toAppMember(member ledger.Member) appMember {
	return appMember{
		Address: member.Address,
		Role:    member.Role,
		Shares:  member.Shares,
	}
}

// Package record defines the persisted transaction records the engine
// tracks between dispatch and confirmation, and the behavior a store
// must implement to hold them.
package record

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned when a record lookup by transaction hash
// matches nothing.
var ErrNotFound = errors.New("record not found")

// Status represents the lifecycle state of a tracked transaction. SENT
// is the only non-terminal state; CONFIRMED and FAILED are write-once.
type Status string

// The set of record statuses.
const (
	StatusSent      Status = "SENT"
	StatusConfirmed Status = "CONFIRMED"
	StatusFailed    Status = "FAILED"
)

// ParseStatus validates a raw status value.
func ParseStatus(value string) (Status, error) {
	status := Status(value)
	switch status {
	case StatusSent, StatusConfirmed, StatusFailed:
		return status, nil
	}

	return "", errors.New("unknown status")
}

// Terminal reports whether no further transition can occur from
// this status.
func (s Status) Terminal() bool {
	return s == StatusConfirmed || s == StatusFailed
}

// =============================================================================

// ProposalTx represents a tracked proposal transaction. ProposalID is
// the on-chain assigned index and stays nil until the confirmation event
// is observed, except for processing transactions where the index is
// known at submission.
type ProposalTx struct {
	ID           uint64
	DAOID        uint64
	TxHash       string
	Status       Status
	Nonce        uint64
	Account      string
	ProposalID   *uint64
	Applicant    string
	Proposer     string
	ProposalType string
	Description  string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// VoteTx represents a tracked vote transaction.
type VoteTx struct {
	ID         uint64
	DAOID      uint64
	TxHash     string
	Status     Status
	Nonce      uint64
	Account    string
	ProposalID uint64
	Vote       bool
	Voter      string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// =============================================================================

// Storer declares the behavior a store must implement to persist and
// query transaction records. Every status mutation is a conditional
// update guarded by the current status being SENT; the boolean result
// reports whether the guard held and the row changed.
type Storer interface {
	AddProposal(ctx context.Context, tx ProposalTx) (ProposalTx, error)
	ProposalByTxHash(ctx context.Context, txHash string) (ProposalTx, error)
	ConfirmedProposal(ctx context.Context, daoID uint64, proposalID uint64) (ProposalTx, error)
	UpdateProposalStatus(ctx context.Context, txHash string, to Status, proposalID *uint64) (bool, error)
	SentProposals(ctx context.Context) ([]ProposalTx, error)
	SentProposalsByDAO(ctx context.Context, daoID uint64) ([]ProposalTx, error)

	AddVote(ctx context.Context, tx VoteTx) (VoteTx, error)
	VoteByTxHash(ctx context.Context, txHash string) (VoteTx, error)
	UpdateVoteStatus(ctx context.Context, txHash string, to Status) (bool, error)
	SentVotes(ctx context.Context) ([]VoteTx, error)
	SentVotesByDAO(ctx context.Context, daoID uint64) ([]VoteTx, error)
}

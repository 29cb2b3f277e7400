// Package ledger defines the capability surface the governance engine
// needs from the underlying blockchain node.
package ledger

import (
	"context"
	"errors"
)

// ErrTxNotFound is returned by TxReceipt when the node has no record of
// the transaction hash, mined or pending.
var ErrTxNotFound = errors.New("transaction not found")

// Proposal represents the on-chain state of a governance proposal as the
// DAO contract reports it.
type Proposal struct {
	Index          uint64
	Proposer       string
	Applicant      string
	ProposalType   string
	Description    string
	YesVotes       uint64
	NoVotes        uint64
	DidPass        bool
	Processed      bool
	StartingPeriod uint64
}

// Member represents DAO membership information for an address.
type Member struct {
	Address string
	Role    string
	Exists  bool
	Shares  uint64
}

// PendingTx is the handle a node returns after accepting a signed
// transaction for inclusion.
type PendingTx struct {
	Hash  string
	Nonce uint64
}

// Receipt reports the mined result for a transaction hash.
type Receipt struct {
	Hash        string
	BlockNumber uint64
	Success     bool
}

// =============================================================================

// EventKind identifies the closed set of contract events the engine
// reconciles against.
type EventKind int

// The set of known contract events.
const (
	EventSubmitProposal EventKind = iota + 1
	EventSubmitVote
	EventProcessProposal
	EventDAOCreated
)

// String implements the fmt.Stringer interface.
func (k EventKind) String() string {
	switch k {
	case EventSubmitProposal:
		return "SubmitProposal"
	case EventSubmitVote:
		return "SubmitVote"
	case EventProcessProposal:
		return "ProcessProposal"
	case EventDAOCreated:
		return "DAOCreated"
	}
	return "Unknown"
}

// Event represents a single decoded contract event. The fields that are
// meaningful depend on the Kind.
type Event struct {
	Kind          EventKind
	DAOID         uint64
	TxHash        string
	ProposalIndex uint64
	Vote          bool
	Voter         string
	Block         uint64
}

// Subscription represents a stream of contract events. The stream stays
// open across DAO creation; implementations re-register for each new DAO
// contract the governance contract creates.
type Subscription interface {
	Events() <-chan Event
	Err() <-chan error
	Unsubscribe()
}

// =============================================================================

// Client declares the node behavior the engine depends on. Two
// implementations exist, one speaking to a real EVM node and an in-memory
// simulator used by tests and local runs.
type Client interface {

	// PendingNonce returns the next nonce the node would accept for the
	// account, counting transactions still in the pending pool.
	PendingNonce(ctx context.Context, account string) (uint64, error)

	// ConfirmedNonce returns the account's nonce counting only mined
	// transactions. This is the sweep high-water mark.
	ConfirmedNonce(ctx context.Context, account string) (uint64, error)

	// NewProposalTx constructs an unsigned transaction submitting a
	// proposal to the DAO's governance contract.
	NewProposalTx(ctx context.Context, daoID uint64, proposalType string, description string, applicant string, nonce uint64) ([]byte, error)

	// NewVoteTx constructs an unsigned transaction casting a vote on the
	// specified proposal.
	NewVoteTx(ctx context.Context, daoID uint64, proposalIndex uint64, vote bool, nonce uint64) ([]byte, error)

	// NewProcessTx constructs an unsigned transaction processing a
	// proposal whose voting period has ended.
	NewProcessTx(ctx context.Context, daoID uint64, proposalIndex uint64, nonce uint64) ([]byte, error)

	// SendTx dispatches a signed transaction to the node.
	SendTx(ctx context.Context, signedTx []byte) (PendingTx, error)

	// TxReceipt returns the mined receipt for a hash, or ErrTxNotFound
	// when the node no longer knows the transaction.
	TxReceipt(ctx context.Context, hash string) (Receipt, error)

	// ProposalsByDAO returns every proposal the DAO contract holds with
	// current tallies.
	ProposalsByDAO(ctx context.Context, daoID uint64) ([]Proposal, error)

	// Member returns membership information for an address in a DAO.
	Member(ctx context.Context, daoID uint64, address string) (Member, error)

	// DAOs returns the ids of every DAO the governance contract created.
	DAOs(ctx context.Context) ([]uint64, error)

	// Subscribe opens a stream of contract events for the governance
	// contract and every DAO contract it created.
	Subscribe(ctx context.Context) (Subscription, error)
}

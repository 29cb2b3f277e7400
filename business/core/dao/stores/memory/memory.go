// Package memory implements the record store in memory. It exists for
// tests and local experimentation; nothing survives a restart.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/daofund/governance/business/core/dao/record"
)

// Store manages transaction records in maps keyed by transaction hash.
type Store struct {
	mu        sync.Mutex
	proposals map[string]record.ProposalTx
	votes     map[string]record.VoteTx
	lastID    uint64
}

// New constructs an empty store.
func New() *Store {
	return &Store{
		proposals: make(map[string]record.ProposalTx),
		votes:     make(map[string]record.VoteTx),
	}
}

// =============================================================================
// Proposal records

// AddProposal inserts a new proposal record.
func (s *Store) AddProposal(ctx context.Context, tx record.ProposalTx) (record.ProposalTx, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.lastID++
	tx.ID = s.lastID
	tx.CreatedAt = time.Now().UTC()
	tx.UpdatedAt = tx.CreatedAt
	s.proposals[tx.TxHash] = tx

	return tx, nil
}

// ProposalByTxHash returns the proposal record with the given hash.
func (s *Store) ProposalByTxHash(ctx context.Context, txHash string) (record.ProposalTx, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, exists := s.proposals[txHash]
	if !exists {
		return record.ProposalTx{}, record.ErrNotFound
	}

	return tx, nil
}

// ConfirmedProposal returns the confirmed proposal record carrying the
// given on-chain proposal index for a DAO.
func (s *Store) ConfirmedProposal(ctx context.Context, daoID uint64, proposalID uint64) (record.ProposalTx, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, tx := range s.proposals {
		if tx.Status == record.StatusConfirmed && tx.DAOID == daoID && tx.ProposalID != nil && *tx.ProposalID == proposalID {
			return tx, nil
		}
	}

	return record.ProposalTx{}, record.ErrNotFound
}

// UpdateProposalStatus transitions a proposal record to a terminal
// status, guarded by the record still being SENT.
func (s *Store) UpdateProposalStatus(ctx context.Context, txHash string, to record.Status, proposalID *uint64) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, exists := s.proposals[txHash]
	if !exists || tx.Status != record.StatusSent {
		return false, nil
	}

	tx.Status = to
	if proposalID != nil {
		id := *proposalID
		tx.ProposalID = &id
	}
	tx.UpdatedAt = time.Now().UTC()
	s.proposals[txHash] = tx

	return true, nil
}

// SentProposals returns every proposal record still in flight.
func (s *Store) SentProposals(ctx context.Context) ([]record.ProposalTx, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var txs []record.ProposalTx
	for _, tx := range s.proposals {
		if tx.Status == record.StatusSent {
			txs = append(txs, tx)
		}
	}

	return txs, nil
}

// SentProposalsByDAO returns the in-flight proposal records for a DAO.
func (s *Store) SentProposalsByDAO(ctx context.Context, daoID uint64) ([]record.ProposalTx, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var txs []record.ProposalTx
	for _, tx := range s.proposals {
		if tx.Status == record.StatusSent && tx.DAOID == daoID {
			txs = append(txs, tx)
		}
	}

	return txs, nil
}

// =============================================================================
// Vote records

// AddVote inserts a new vote record.
func (s *Store) AddVote(ctx context.Context, tx record.VoteTx) (record.VoteTx, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.lastID++
	tx.ID = s.lastID
	tx.CreatedAt = time.Now().UTC()
	tx.UpdatedAt = tx.CreatedAt
	s.votes[tx.TxHash] = tx

	return tx, nil
}

// VoteByTxHash returns the vote record with the given hash.
func (s *Store) VoteByTxHash(ctx context.Context, txHash string) (record.VoteTx, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, exists := s.votes[txHash]
	if !exists {
		return record.VoteTx{}, record.ErrNotFound
	}

	return tx, nil
}

// UpdateVoteStatus transitions a vote record to a terminal status,
// guarded by the record still being SENT.
func (s *Store) UpdateVoteStatus(ctx context.Context, txHash string, to record.Status) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, exists := s.votes[txHash]
	if !exists || tx.Status != record.StatusSent {
		return false, nil
	}

	tx.Status = to
	tx.UpdatedAt = time.Now().UTC()
	s.votes[txHash] = tx

	return true, nil
}

// SentVotes returns every vote record still in flight.
func (s *Store) SentVotes(ctx context.Context) ([]record.VoteTx, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var txs []record.VoteTx
	for _, tx := range s.votes {
		if tx.Status == record.StatusSent {
			txs = append(txs, tx)
		}
	}

	return txs, nil
}

// SentVotesByDAO returns the in-flight vote records for a DAO.
func (s *Store) SentVotesByDAO(ctx context.Context, daoID uint64) ([]record.VoteTx, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var txs []record.VoteTx
	for _, tx := range s.votes {
		if tx.Status == record.StatusSent && tx.DAOID == daoID {
			txs = append(txs, tx)
		}
	}

	return txs, nil
}

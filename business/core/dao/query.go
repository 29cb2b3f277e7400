package dao

import (
	"context"

	"github.com/daofund/governance/business/core/dao/record"
	"github.com/daofund/governance/foundation/ledger"
)

// ListProposals returns the authoritative proposal list for a DAO from
// the ledger. Tallies always reflect ledger truth; the local store only
// backfills proposer and description metadata the contract doesn't
// retain.
func (c *Core) ListProposals(ctx context.Context, daoID uint64) ([]ledger.Proposal, error) {
	proposals, err := c.ledger.ProposalsByDAO(ctx, daoID)
	if err != nil {
		return nil, err
	}

	for i, p := range proposals {
		if p.Proposer != "" && p.Description != "" {
			continue
		}

		rec, err := c.store.ConfirmedProposal(ctx, daoID, p.Index)
		if err != nil {
			continue
		}
		if proposals[i].Proposer == "" {
			proposals[i].Proposer = rec.Proposer
		}
		if proposals[i].Description == "" {
			proposals[i].Description = rec.Description
		}
	}

	return proposals, nil
}

// ListSentProposals returns the in-flight proposal records for a DAO
// from the local store only. These are operational visibility into
// pending submissions, not governance state.
func (c *Core) ListSentProposals(ctx context.Context, daoID uint64) ([]record.ProposalTx, error) {
	return c.store.SentProposalsByDAO(ctx, daoID)
}

// ListSentVotes returns the in-flight vote records for a DAO from the
// local store only.
func (c *Core) ListSentVotes(ctx context.Context, daoID uint64) ([]record.VoteTx, error) {
	return c.store.SentVotesByDAO(ctx, daoID)
}

// Member returns membership information for an address in a DAO
// straight from the ledger.
func (c *Core) Member(ctx context.Context, daoID uint64, address string) (ledger.Member, error) {
	member, err := c.ledger.Member(ctx, daoID, address)
	if err != nil {
		return ledger.Member{}, err
	}

	if !member.Exists {
		return ledger.Member{}, &MemberNotFoundError{Address: address, DAOID: daoID}
	}

	return member, nil
}

// DAOs returns the ids of every DAO straight from the ledger.
func (c *Core) DAOs(ctx context.Context) ([]uint64, error) {
	return c.ledger.DAOs(ctx)
}

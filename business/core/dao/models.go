package dao

// The recognized governance action kinds a proposal can carry.
const (
	ProposalTypeNewMember     = "NEW_MEMBER"
	ProposalTypeNewDAO        = "NEW_DAO"
	ProposalTypeAssignBank    = "ASSIGN_BANK"
	ProposalTypeAssignCurator = "ASSIGN_CURATOR"
	proposalTypeProcessMarker = "PROCESS"
)

// validProposalTypes is the closed set accepted by PrepareProposal.
var validProposalTypes = map[string]bool{
	ProposalTypeNewMember:     true,
	ProposalTypeNewDAO:        true,
	ProposalTypeAssignBank:    true,
	ProposalTypeAssignCurator: true,
}

// NewProposal contains the information needed to prepare and submit a
// proposal transaction. Proposer is the signing wallet address.
type NewProposal struct {
	DAOID        uint64
	ProposalType string
	Description  string
	Applicant    string
	Proposer     string
}

// NewVote contains the information needed to prepare and submit a vote
// transaction. Vote is a pointer so an absent value can be told apart
// from an explicit no.
type NewVote struct {
	DAOID      uint64
	ProposalID uint64
	Vote       *bool
	Voter      string
}

// NewProcess contains the information needed to prepare and submit a
// processing transaction for a proposal whose voting period ended.
type NewProcess struct {
	DAOID      uint64
	ProposalID uint64
	Processor  string
}

// Prepared is the result of a prepare operation: an unsigned transaction
// carrying the allocated nonce, ready for external signing. Nothing is
// persisted until the signed bytes come back through a submit call.
type Prepared struct {
	UnsignedTx []byte
	Nonce      uint64
}

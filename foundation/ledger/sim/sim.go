// Package sim implements the ledger client as an in-memory simulation.
// It exists so the engine can run and be tested without a node, with
// explicit control over mining, eviction, and event delivery.
package sim

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"

	"github.com/daofund/governance/foundation/ledger"
)

// txBlob is the wire form of a simulated transaction. Signing in the
// simulation attaches the sending account to the blob.
type txBlob struct {
	From          string `json:"from,omitempty"`
	DAOID         uint64 `json:"dao_id"`
	Nonce         uint64 `json:"nonce"`
	Action        string `json:"action"`
	ProposalType  string `json:"proposal_type,omitempty"`
	Description   string `json:"description,omitempty"`
	Applicant     string `json:"applicant,omitempty"`
	ProposalIndex uint64 `json:"proposal_index,omitempty"`
	Vote          bool   `json:"vote,omitempty"`
}

// account maintains per-account chain state.
type account struct {
	confirmed uint64
}

// dao maintains per-DAO contract state.
type dao struct {
	proposals []ledger.Proposal
	members   map[string]ledger.Member
}

// Client simulates a node for tests and local runs.
type Client struct {
	mu       sync.Mutex
	accounts map[string]*account
	pool     map[string]txBlob
	mined    map[string]ledger.Receipt
	daos     map[uint64]*dao
	subs     map[*subscription]struct{}
	block    uint64
	sendErr  error
}

// New constructs a simulated ledger with no DAOs.
func New() *Client {
	return &Client{
		accounts: make(map[string]*account),
		pool:     make(map[string]txBlob),
		mined:    make(map[string]ledger.Receipt),
		daos:     make(map[uint64]*dao),
		subs:     make(map[*subscription]struct{}),
	}
}

// =============================================================================
// ledger.Client implementation

// PendingNonce returns the next nonce counting pool transactions.
func (c *Client) PendingNonce(ctx context.Context, acct string) (uint64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	nonce := c.account(acct).confirmed
	for _, blob := range c.pool {
		if blob.From == acct && blob.Nonce >= nonce {
			nonce = blob.Nonce + 1
		}
	}

	return nonce, nil
}

// ConfirmedNonce returns the account's mined nonce high-water mark.
func (c *Client) ConfirmedNonce(ctx context.Context, acct string) (uint64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.account(acct).confirmed, nil
}

// NewProposalTx constructs an unsigned proposal transaction.
func (c *Client) NewProposalTx(ctx context.Context, daoID uint64, proposalType string, description string, applicant string, nonce uint64) ([]byte, error) {
	blob := txBlob{
		DAOID:        daoID,
		Nonce:        nonce,
		Action:       "submitProposal",
		ProposalType: proposalType,
		Description:  description,
		Applicant:    applicant,
	}

	return json.Marshal(blob)
}

// NewVoteTx constructs an unsigned vote transaction.
func (c *Client) NewVoteTx(ctx context.Context, daoID uint64, proposalIndex uint64, vote bool, nonce uint64) ([]byte, error) {
	blob := txBlob{
		DAOID:         daoID,
		Nonce:         nonce,
		Action:        "submitVote",
		ProposalIndex: proposalIndex,
		Vote:          vote,
	}

	return json.Marshal(blob)
}

// NewProcessTx constructs an unsigned process transaction.
func (c *Client) NewProcessTx(ctx context.Context, daoID uint64, proposalIndex uint64, nonce uint64) ([]byte, error) {
	blob := txBlob{
		DAOID:         daoID,
		Nonce:         nonce,
		Action:        "processProposal",
		ProposalIndex: proposalIndex,
	}

	return json.Marshal(blob)
}

// SendTx accepts a signed transaction into the pool.
func (c *Client) SendTx(ctx context.Context, signedTx []byte) (ledger.PendingTx, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.sendErr != nil {
		return ledger.PendingTx{}, c.sendErr
	}

	var blob txBlob
	if err := json.Unmarshal(signedTx, &blob); err != nil {
		return ledger.PendingTx{}, fmt.Errorf("decoding signed transaction: %w", err)
	}
	if blob.From == "" {
		return ledger.PendingTx{}, fmt.Errorf("transaction is not signed")
	}
	if blob.Nonce < c.account(blob.From).confirmed {
		return ledger.PendingTx{}, fmt.Errorf("nonce %d too low for account %s", blob.Nonce, blob.From)
	}

	hash := common.BytesToHash(crypto.Keccak256(signedTx)).Hex()
	c.pool[hash] = blob

	pt := ledger.PendingTx{
		Hash:  hash,
		Nonce: blob.Nonce,
	}

	return pt, nil
}

// TxReceipt returns the receipt for a mined transaction. Pool and unknown
// transactions report ledger.ErrTxNotFound.
func (c *Client) TxReceipt(ctx context.Context, hash string) (ledger.Receipt, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	r, exists := c.mined[hash]
	if !exists {
		return ledger.Receipt{}, ledger.ErrTxNotFound
	}

	return r, nil
}

// ProposalsByDAO returns the DAO's proposals with current tallies.
func (c *Client) ProposalsByDAO(ctx context.Context, daoID uint64) ([]ledger.Proposal, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	d, exists := c.daos[daoID]
	if !exists {
		return nil, fmt.Errorf("dao %d does not exist", daoID)
	}

	proposals := make([]ledger.Proposal, len(d.proposals))
	copy(proposals, d.proposals)

	return proposals, nil
}

// Member returns membership information for an address in a DAO.
func (c *Client) Member(ctx context.Context, daoID uint64, address string) (ledger.Member, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	d, exists := c.daos[daoID]
	if !exists {
		return ledger.Member{}, fmt.Errorf("dao %d does not exist", daoID)
	}

	member, exists := d.members[address]
	if !exists {
		return ledger.Member{Address: address}, nil
	}

	return member, nil
}

// DAOs returns the ids of every DAO created so far.
func (c *Client) DAOs(ctx context.Context) ([]uint64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	ids := make([]uint64, 0, len(c.daos))
	for id := uint64(0); id < uint64(len(c.daos)); id++ {
		ids = append(ids, id)
	}

	return ids, nil
}

// =============================================================================
// Simulation control surface

// Sign attaches the sending account to an unsigned transaction. This
// stands in for the external wallet signing step.
func Sign(unsignedTx []byte, acct string) ([]byte, error) {
	var blob txBlob
	if err := json.Unmarshal(unsignedTx, &blob); err != nil {
		return nil, fmt.Errorf("decoding unsigned transaction: %w", err)
	}

	blob.From = acct
	return json.Marshal(blob)
}

// CreateDAO adds a DAO to the governance contract and emits a DAOCreated
// event.
func (c *Client) CreateDAO() uint64 {
	c.mu.Lock()
	id := uint64(len(c.daos))
	c.daos[id] = &dao{
		members: make(map[string]ledger.Member),
	}
	c.block++
	event := ledger.Event{
		Kind:  ledger.EventDAOCreated,
		DAOID: id,
		Block: c.block,
	}
	c.mu.Unlock()

	c.emit(event)
	return id
}

// SetMember sets membership information for an address in a DAO.
func (c *Client) SetMember(daoID uint64, address string, role string, shares uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	d, exists := c.daos[daoID]
	if !exists {
		return
	}

	d.members[address] = ledger.Member{
		Address: address,
		Role:    role,
		Exists:  true,
		Shares:  shares,
	}
}

// FailSends forces every subsequent SendTx call to fail with the
// provided error. Passing nil restores normal behavior.
func (c *Client) FailSends(err error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.sendErr = err
}

// MineTx mines a pool transaction: the account nonce advances, contract
// state is applied, a receipt is recorded, and the matching contract
// event is emitted.
func (c *Client) MineTx(hash string) error {
	c.mu.Lock()

	blob, exists := c.pool[hash]
	if !exists {
		c.mu.Unlock()
		return fmt.Errorf("transaction %s not in pool", hash)
	}
	delete(c.pool, hash)

	acct := c.account(blob.From)
	if blob.Nonce >= acct.confirmed {
		acct.confirmed = blob.Nonce + 1
	}

	c.block++
	c.mined[hash] = ledger.Receipt{
		Hash:        hash,
		BlockNumber: c.block,
		Success:     true,
	}

	event := c.apply(blob, hash)
	c.mu.Unlock()

	c.emit(event)
	return nil
}

// DropTx evicts a pool transaction without mining it. No event is
// produced, matching a silently dropped transaction.
func (c *Client) DropTx(hash string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	delete(c.pool, hash)
}

// EmitEvent delivers an arbitrary event to every subscriber. Used to
// exercise redelivery after reconnects and reorganizations.
func (c *Client) EmitEvent(event ledger.Event) {
	c.emit(event)
}

// =============================================================================

// apply mutates contract state for a mined transaction and builds the
// event the contract would emit. Callers must hold the mutex.
func (c *Client) apply(blob txBlob, hash string) ledger.Event {
	event := ledger.Event{
		DAOID:  blob.DAOID,
		TxHash: hash,
		Block:  c.block,
	}

	d, exists := c.daos[blob.DAOID]
	if !exists {
		return event
	}

	switch blob.Action {
	case "submitProposal":
		event.Kind = ledger.EventSubmitProposal
		event.ProposalIndex = uint64(len(d.proposals))
		d.proposals = append(d.proposals, ledger.Proposal{
			Index:        event.ProposalIndex,
			Proposer:     blob.From,
			Applicant:    blob.Applicant,
			ProposalType: blob.ProposalType,
			Description:  blob.Description,
		})

	case "submitVote":
		event.Kind = ledger.EventSubmitVote
		event.ProposalIndex = blob.ProposalIndex
		event.Vote = blob.Vote
		event.Voter = blob.From
		if blob.ProposalIndex < uint64(len(d.proposals)) {
			if blob.Vote {
				d.proposals[blob.ProposalIndex].YesVotes++
			} else {
				d.proposals[blob.ProposalIndex].NoVotes++
			}
		}

	case "processProposal":
		event.Kind = ledger.EventProcessProposal
		event.ProposalIndex = blob.ProposalIndex
		if blob.ProposalIndex < uint64(len(d.proposals)) {
			p := &d.proposals[blob.ProposalIndex]
			p.Processed = true
			p.DidPass = p.YesVotes > p.NoVotes
		}
	}

	return event
}

// account returns the state for an account, creating it on first use.
// Callers must hold the mutex.
func (c *Client) account(acct string) *account {
	a, exists := c.accounts[acct]
	if !exists {
		a = &account{}
		c.accounts[acct] = a
	}
	return a
}

// emit fans an event out to every open subscription.
func (c *Client) emit(event ledger.Event) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for s := range c.subs {
		select {
		case s.events <- event:
		default:
		}
	}
}

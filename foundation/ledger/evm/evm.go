// Package evm implements the ledger client against an EVM node using the
// go-ethereum client libraries.
package evm

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"sync"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/ethclient"

	"github.com/daofund/governance/foundation/ledger"
)

// These gas settings are applied to every constructed transaction. The
// contracts in play are small enough that a fixed budget is sufficient.
const (
	gasLimit = 1_500_000
)

// proposalTypes maps the engine's proposal type tags to the enum values
// the DAO contract encodes.
var proposalTypes = map[string]uint8{
	"NEW_MEMBER":     0,
	"NEW_DAO":        1,
	"ASSIGN_BANK":    2,
	"ASSIGN_CURATOR": 3,
}

// roleNames maps the membership role enum the contract returns to the
// tags the application uses.
var roleNames = map[uint8]string{
	0: "MEMBER",
	1: "CURATOR",
	2: "BANK",
}

// Client provides ledger access against a running EVM node.
type Client struct {
	ethClient *ethclient.Client
	govAddr   common.Address
	govABI    abi.ABI
	daoABI    abi.ABI
	gasPrice  *big.Int

	mu       sync.RWMutex
	daoAddrs map[uint64]common.Address
	addrDAOs map[common.Address]uint64
}

// Connect dials the node and prepares the contract metadata needed to
// construct and decode governance transactions.
func Connect(ctx context.Context, nodeURL string, govContract string) (*Client, error) {
	ethClient, err := ethclient.DialContext(ctx, nodeURL)
	if err != nil {
		return nil, fmt.Errorf("dialing node: %w", err)
	}

	gABI, err := abi.JSON(strings.NewReader(governanceABI))
	if err != nil {
		return nil, fmt.Errorf("parsing governance abi: %w", err)
	}

	dABI, err := abi.JSON(strings.NewReader(daoABI))
	if err != nil {
		return nil, fmt.Errorf("parsing dao abi: %w", err)
	}

	gasPrice, err := ethClient.SuggestGasPrice(ctx)
	if err != nil {
		return nil, fmt.Errorf("querying gas price: %w", err)
	}

	c := Client{
		ethClient: ethClient,
		govAddr:   common.HexToAddress(govContract),
		govABI:    gABI,
		daoABI:    dABI,
		gasPrice:  gasPrice,
		daoAddrs:  make(map[uint64]common.Address),
		addrDAOs:  make(map[common.Address]uint64),
	}

	return &c, nil
}

// Close releases the underlying node connection.
func (c *Client) Close() {
	c.ethClient.Close()
}

// =============================================================================

// PendingNonce returns the next nonce the node would accept for the
// account, counting transactions still in the pending pool.
func (c *Client) PendingNonce(ctx context.Context, account string) (uint64, error) {
	nonce, err := c.ethClient.PendingNonceAt(ctx, common.HexToAddress(account))
	if err != nil {
		return 0, fmt.Errorf("querying pending nonce: %w", err)
	}

	return nonce, nil
}

// ConfirmedNonce returns the account's nonce counting only mined
// transactions.
func (c *Client) ConfirmedNonce(ctx context.Context, account string) (uint64, error) {
	nonce, err := c.ethClient.NonceAt(ctx, common.HexToAddress(account), nil)
	if err != nil {
		return 0, fmt.Errorf("querying confirmed nonce: %w", err)
	}

	return nonce, nil
}

// NewProposalTx constructs an unsigned transaction submitting a proposal
// to the DAO's contract.
func (c *Client) NewProposalTx(ctx context.Context, daoID uint64, proposalType string, description string, applicant string, nonce uint64) ([]byte, error) {
	pt, exists := proposalTypes[proposalType]
	if !exists {
		return nil, fmt.Errorf("unknown proposal type %q", proposalType)
	}

	data, err := c.daoABI.Pack("submitProposal", common.HexToAddress(applicant), pt, description)
	if err != nil {
		return nil, fmt.Errorf("packing submitProposal: %w", err)
	}

	return c.newTx(ctx, daoID, nonce, data)
}

// NewVoteTx constructs an unsigned transaction casting a vote on the
// specified proposal.
func (c *Client) NewVoteTx(ctx context.Context, daoID uint64, proposalIndex uint64, vote bool, nonce uint64) ([]byte, error) {
	data, err := c.daoABI.Pack("submitVote", new(big.Int).SetUint64(proposalIndex), vote)
	if err != nil {
		return nil, fmt.Errorf("packing submitVote: %w", err)
	}

	return c.newTx(ctx, daoID, nonce, data)
}

// NewProcessTx constructs an unsigned transaction processing a proposal
// whose voting period has ended.
func (c *Client) NewProcessTx(ctx context.Context, daoID uint64, proposalIndex uint64, nonce uint64) ([]byte, error) {
	data, err := c.daoABI.Pack("processProposal", new(big.Int).SetUint64(proposalIndex))
	if err != nil {
		return nil, fmt.Errorf("packing processProposal: %w", err)
	}

	return c.newTx(ctx, daoID, nonce, data)
}

// SendTx dispatches a signed transaction to the node.
func (c *Client) SendTx(ctx context.Context, signedTx []byte) (ledger.PendingTx, error) {
	var tx types.Transaction
	if err := tx.UnmarshalBinary(signedTx); err != nil {
		return ledger.PendingTx{}, fmt.Errorf("decoding signed transaction: %w", err)
	}

	if err := c.ethClient.SendTransaction(ctx, &tx); err != nil {
		return ledger.PendingTx{}, fmt.Errorf("sending transaction: %w", err)
	}

	pt := ledger.PendingTx{
		Hash:  tx.Hash().Hex(),
		Nonce: tx.Nonce(),
	}

	return pt, nil
}

// TxReceipt returns the mined receipt for a hash, or ledger.ErrTxNotFound
// when the node no longer knows the transaction.
func (c *Client) TxReceipt(ctx context.Context, hash string) (ledger.Receipt, error) {
	r, err := c.ethClient.TransactionReceipt(ctx, common.HexToHash(hash))
	if err != nil {
		if errors.Is(err, ethereum.NotFound) {
			return ledger.Receipt{}, ledger.ErrTxNotFound
		}
		return ledger.Receipt{}, fmt.Errorf("querying receipt: %w", err)
	}

	receipt := ledger.Receipt{
		Hash:        r.TxHash.Hex(),
		BlockNumber: r.BlockNumber.Uint64(),
		Success:     r.Status == types.ReceiptStatusSuccessful,
	}

	return receipt, nil
}

// =============================================================================

// ProposalsByDAO returns every proposal the DAO contract holds with
// current tallies.
func (c *Client) ProposalsByDAO(ctx context.Context, daoID uint64) ([]ledger.Proposal, error) {
	daoAddr, err := c.daoAddress(ctx, daoID)
	if err != nil {
		return nil, err
	}

	out, err := c.call(ctx, daoAddr, c.daoABI, "getAllProposals")
	if err != nil {
		return nil, err
	}

	type proposalResult struct {
		Proposer       common.Address
		Applicant      common.Address
		ProposalType   uint8
		Description    string
		YesVotes       *big.Int
		NoVotes        *big.Int
		DidPass        bool
		Processed      bool
		StartingPeriod *big.Int
	}

	results := *abi.ConvertType(out[0], new([]proposalResult)).(*[]proposalResult)

	proposals := make([]ledger.Proposal, len(results))
	for i, r := range results {
		proposals[i] = ledger.Proposal{
			Index:          uint64(i),
			Proposer:       r.Proposer.Hex(),
			Applicant:      r.Applicant.Hex(),
			ProposalType:   proposalTypeName(r.ProposalType),
			Description:    r.Description,
			YesVotes:       r.YesVotes.Uint64(),
			NoVotes:        r.NoVotes.Uint64(),
			DidPass:        r.DidPass,
			Processed:      r.Processed,
			StartingPeriod: r.StartingPeriod.Uint64(),
		}
	}

	return proposals, nil
}

// Member returns membership information for an address in a DAO.
func (c *Client) Member(ctx context.Context, daoID uint64, address string) (ledger.Member, error) {
	daoAddr, err := c.daoAddress(ctx, daoID)
	if err != nil {
		return ledger.Member{}, err
	}

	out, err := c.call(ctx, daoAddr, c.daoABI, "members", common.HexToAddress(address))
	if err != nil {
		return ledger.Member{}, err
	}

	member := ledger.Member{
		Address: address,
		Role:    roleNames[*abi.ConvertType(out[0], new(uint8)).(*uint8)],
		Exists:  *abi.ConvertType(out[1], new(bool)).(*bool),
		Shares:  (*abi.ConvertType(out[2], new(*big.Int)).(**big.Int)).Uint64(),
	}

	return member, nil
}

// DAOs returns the ids of every DAO the governance contract created.
func (c *Client) DAOs(ctx context.Context) ([]uint64, error) {
	out, err := c.call(ctx, c.govAddr, c.govABI, "daoCount")
	if err != nil {
		return nil, err
	}

	count := (*abi.ConvertType(out[0], new(*big.Int)).(**big.Int)).Uint64()

	ids := make([]uint64, 0, count)
	for id := uint64(0); id < count; id++ {
		if _, err := c.daoAddress(ctx, id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}

	return ids, nil
}

// =============================================================================

// newTx builds an unsigned legacy transaction addressed to the DAO's
// contract and returns its binary encoding for external signing.
func (c *Client) newTx(ctx context.Context, daoID uint64, nonce uint64, data []byte) ([]byte, error) {
	daoAddr, err := c.daoAddress(ctx, daoID)
	if err != nil {
		return nil, err
	}

	tx := types.NewTx(&types.LegacyTx{
		Nonce:    nonce,
		GasPrice: c.gasPrice,
		Gas:      gasLimit,
		To:       &daoAddr,
		Value:    big.NewInt(0),
		Data:     data,
	})

	bin, err := tx.MarshalBinary()
	if err != nil {
		return nil, fmt.Errorf("encoding transaction: %w", err)
	}

	return bin, nil
}

// daoAddress resolves and caches the contract address for a DAO id.
func (c *Client) daoAddress(ctx context.Context, daoID uint64) (common.Address, error) {
	c.mu.RLock()
	addr, exists := c.daoAddrs[daoID]
	c.mu.RUnlock()

	if exists {
		return addr, nil
	}

	out, err := c.call(ctx, c.govAddr, c.govABI, "daoAddress", new(big.Int).SetUint64(daoID))
	if err != nil {
		return common.Address{}, err
	}

	addr = *abi.ConvertType(out[0], new(common.Address)).(*common.Address)

	c.mu.Lock()
	c.daoAddrs[daoID] = addr
	c.addrDAOs[addr] = daoID
	c.mu.Unlock()

	return addr, nil
}

// call executes a read-only contract call and unpacks the result.
func (c *Client) call(ctx context.Context, to common.Address, cABI abi.ABI, method string, args ...any) ([]any, error) {
	data, err := cABI.Pack(method, args...)
	if err != nil {
		return nil, fmt.Errorf("packing %s: %w", method, err)
	}

	msg := ethereum.CallMsg{
		To:   &to,
		Data: data,
	}

	result, err := c.ethClient.CallContract(ctx, msg, nil)
	if err != nil {
		return nil, fmt.Errorf("calling %s: %w", method, err)
	}

	out, err := cABI.Unpack(method, result)
	if err != nil {
		return nil, fmt.Errorf("unpacking %s: %w", method, err)
	}

	return out, nil
}

// proposalTypeName reverses the contract's proposal type enum.
func proposalTypeName(pt uint8) string {
	for name, value := range proposalTypes {
		if value == pt {
			return name
		}
	}
	return "UNKNOWN"
}

package dao

import (
	"errors"
	"fmt"

	"github.com/daofund/governance/business/core/dao/record"
)

// ErrInvalidProposalType is returned when a proposal names a type
// outside the recognized governance action kinds.
var ErrInvalidProposalType = errors.New("invalid proposal type")

// RequiredParamsError is returned when an operation is called without
// all of its required parameters.
type RequiredParamsError struct {
	Method string
}

// Error implements the error interface.
func (e *RequiredParamsError) Error() string {
	return fmt.Sprintf("required params missing for %s", e.Method)
}

// SubmitProposalError is returned when the ledger rejects a dispatched
// proposal transaction.
type SubmitProposalError struct {
	DAOID uint64
	Err   error
}

// Error implements the error interface.
func (e *SubmitProposalError) Error() string {
	return fmt.Sprintf("error submitting proposal to dao %d: %s", e.DAOID, e.Err)
}

// Unwrap provides the wrapped dispatch error.
func (e *SubmitProposalError) Unwrap() error {
	return e.Err
}

// VoteProposalError is returned when the ledger rejects a dispatched
// vote transaction.
type VoteProposalError struct {
	ProposalID uint64
	DAOID      uint64
	Err        error
}

// Error implements the error interface.
func (e *VoteProposalError) Error() string {
	return fmt.Sprintf("error voting proposal %d in dao %d: %s", e.ProposalID, e.DAOID, e.Err)
}

// Unwrap provides the wrapped dispatch error.
func (e *VoteProposalError) Unwrap() error {
	return e.Err
}

// ProcessProposalError is returned when the ledger rejects a dispatched
// processing transaction.
type ProcessProposalError struct {
	ProposalID uint64
	DAOID      uint64
	Err        error
}

// Error implements the error interface.
func (e *ProcessProposalError) Error() string {
	return fmt.Sprintf("error processing proposal %d in dao %d: %s", e.ProposalID, e.DAOID, e.Err)
}

// Unwrap provides the wrapped dispatch error.
func (e *ProcessProposalError) Unwrap() error {
	return e.Err
}

// MemberNotFoundError is returned when an address has no membership in
// the specified DAO.
type MemberNotFoundError struct {
	Address string
	DAOID   uint64
}

// Error implements the error interface.
func (e *MemberNotFoundError) Error() string {
	return fmt.Sprintf("member %s not found in dao %d", e.Address, e.DAOID)
}

// TxHashNotFoundError is returned when a caller-driven status update
// targets a transaction hash with no matching record.
type TxHashNotFoundError struct {
	Kind   string
	TxHash string
}

// Error implements the error interface.
func (e *TxHashNotFoundError) Error() string {
	return fmt.Sprintf("can't find %s record with tx hash %s", e.Kind, e.TxHash)
}

// StatusNotValidError is returned when a caller-driven status update
// names an unknown status.
type StatusNotValidError struct {
	Kind   string
	Status string
}

// Error implements the error interface.
func (e *StatusNotValidError) Error() string {
	return fmt.Sprintf("%s status %q is not valid", e.Kind, e.Status)
}

// StatusCannotChangeError is returned when a caller-driven status update
// targets a record already in a terminal state.
type StatusCannotChangeError struct {
	Kind    string
	Current record.Status
}

// Error implements the error interface.
func (e *StatusCannotChangeError) Error() string {
	return fmt.Sprintf("%s status cannot change from %s", e.Kind, e.Current)
}

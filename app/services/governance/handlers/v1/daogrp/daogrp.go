// Package daogrp maintains the group of handlers for DAO governance
// access.
package daogrp

import (
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/daofund/governance/business/core/dao"
	v1 "github.com/daofund/governance/business/web/v1"
	"github.com/daofund/governance/foundation/events"
	"github.com/daofund/governance/foundation/validate"
	"github.com/daofund/governance/foundation/web"
)

// Handlers manages the set of DAO governance endpoints.
type Handlers struct {
	Log  *zap.SugaredLogger
	Core *dao.Core
	WS   websocket.Upgrader
	Evts *events.Events
}

// Events handles a web socket to provide lifecycle messages to a client.
func (h Handlers) Events(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	v, err := web.GetValues(ctx)
	if err != nil {
		return web.NewShutdownError("web value missing from context")
	}

	h.WS.CheckOrigin = func(r *http.Request) bool { return true }

	c, err := h.WS.Upgrade(w, r, nil)
	if err != nil {
		return err
	}
	defer c.Close()

	ch := h.Evts.Acquire(v.TraceID)
	defer h.Evts.Release(v.TraceID)

	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	for {
		select {
		case msg, wd := <-ch:
			if !wd {
				return nil
			}

			if err := c.WriteMessage(websocket.TextMessage, []byte(msg)); err != nil {
				return err
			}

		case <-ticker.C:
			if err := c.WriteMessage(websocket.PingMessage, []byte("ping")); err != nil {
				return nil
			}
		}
	}
}

// =============================================================================
// Proposals

// PrepareProposal constructs an unsigned proposal transaction for
// external signing.
func (h Handlers) PrepareProposal(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	daoID, err := daoParam(r)
	if err != nil {
		return v1.NewRequestError(err, http.StatusBadRequest)
	}

	var app appNewProposal
	if err := web.Decode(r, &app); err != nil {
		return fmt.Errorf("unable to decode payload: %w", err)
	}
	if err := validate.Check(app); err != nil {
		return err
	}

	prepared, err := h.Core.PrepareProposal(ctx, toCoreNewProposal(daoID, app))
	if err != nil {
		return coreError(err)
	}

	return web.Respond(ctx, w, toAppPrepared(prepared), http.StatusOK)
}

// SubmitProposal dispatches a signed proposal transaction.
func (h Handlers) SubmitProposal(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	v, err := web.GetValues(ctx)
	if err != nil {
		return web.NewShutdownError("web value missing from context")
	}

	daoID, err := daoParam(r)
	if err != nil {
		return v1.NewRequestError(err, http.StatusBadRequest)
	}

	var app appSubmitProposal
	if err := web.Decode(r, &app); err != nil {
		return fmt.Errorf("unable to decode payload: %w", err)
	}
	if err := validate.Check(app); err != nil {
		return err
	}

	signedTx, err := hex.DecodeString(app.SignedTx)
	if err != nil {
		return v1.NewRequestError(fmt.Errorf("signed_tx is not hex encoded: %w", err), http.StatusBadRequest)
	}

	h.Log.Infow("submit proposal", "traceid", v.TraceID, "dao", daoID, "type", app.ProposalType, "proposer", app.Proposer)
	tx, err := h.Core.SubmitProposal(ctx, toCoreNewProposal(daoID, app.appNewProposal), signedTx)
	if err != nil {
		return coreError(err)
	}

	return web.Respond(ctx, w, toAppProposalTx(tx), http.StatusCreated)
}

// Proposals returns the authoritative proposal list for a DAO.
func (h Handlers) Proposals(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	daoID, err := daoParam(r)
	if err != nil {
		return v1.NewRequestError(err, http.StatusBadRequest)
	}

	proposals, err := h.Core.ListProposals(ctx, daoID)
	if err != nil {
		return coreError(err)
	}

	return web.Respond(ctx, w, toAppProposals(proposals), http.StatusOK)
}

// SentProposals returns the in-flight proposal records for a DAO.
func (h Handlers) SentProposals(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	daoID, err := daoParam(r)
	if err != nil {
		return v1.NewRequestError(err, http.StatusBadRequest)
	}

	txs, err := h.Core.ListSentProposals(ctx, daoID)
	if err != nil {
		return coreError(err)
	}

	return web.Respond(ctx, w, toAppProposalTxs(txs), http.StatusOK)
}

// =============================================================================
// Votes

// PrepareVote constructs an unsigned vote transaction for external
// signing.
func (h Handlers) PrepareVote(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	daoID, err := daoParam(r)
	if err != nil {
		return v1.NewRequestError(err, http.StatusBadRequest)
	}
	proposalID, err := proposalParam(r)
	if err != nil {
		return v1.NewRequestError(err, http.StatusBadRequest)
	}

	var app appNewVote
	if err := web.Decode(r, &app); err != nil {
		return fmt.Errorf("unable to decode payload: %w", err)
	}
	if err := validate.Check(app); err != nil {
		return err
	}

	prepared, err := h.Core.PrepareVote(ctx, toCoreNewVote(daoID, proposalID, app))
	if err != nil {
		return coreError(err)
	}

	return web.Respond(ctx, w, toAppPrepared(prepared), http.StatusOK)
}

// SubmitVote dispatches a signed vote transaction.
func (h Handlers) SubmitVote(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	v, err := web.GetValues(ctx)
	if err != nil {
		return web.NewShutdownError("web value missing from context")
	}

	daoID, err := daoParam(r)
	if err != nil {
		return v1.NewRequestError(err, http.StatusBadRequest)
	}
	proposalID, err := proposalParam(r)
	if err != nil {
		return v1.NewRequestError(err, http.StatusBadRequest)
	}

	var app appSubmitVote
	if err := web.Decode(r, &app); err != nil {
		return fmt.Errorf("unable to decode payload: %w", err)
	}
	if err := validate.Check(app); err != nil {
		return err
	}

	signedTx, err := hex.DecodeString(app.SignedTx)
	if err != nil {
		return v1.NewRequestError(fmt.Errorf("signed_tx is not hex encoded: %w", err), http.StatusBadRequest)
	}

	h.Log.Infow("submit vote", "traceid", v.TraceID, "dao", daoID, "proposal", proposalID, "voter", app.Voter)
	tx, err := h.Core.SubmitVote(ctx, toCoreNewVote(daoID, proposalID, app.appNewVote), signedTx)
	if err != nil {
		return coreError(err)
	}

	return web.Respond(ctx, w, toAppVoteTx(tx), http.StatusCreated)
}

// SentVotes returns the in-flight vote records for a DAO.
func (h Handlers) SentVotes(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	daoID, err := daoParam(r)
	if err != nil {
		return v1.NewRequestError(err, http.StatusBadRequest)
	}

	txs, err := h.Core.ListSentVotes(ctx, daoID)
	if err != nil {
		return coreError(err)
	}

	return web.Respond(ctx, w, toAppVoteTxs(txs), http.StatusOK)
}

// =============================================================================
// Processing

// PrepareProcess constructs an unsigned processing transaction for
// external signing.
func (h Handlers) PrepareProcess(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	daoID, err := daoParam(r)
	if err != nil {
		return v1.NewRequestError(err, http.StatusBadRequest)
	}
	proposalID, err := proposalParam(r)
	if err != nil {
		return v1.NewRequestError(err, http.StatusBadRequest)
	}

	var app appNewProcess
	if err := web.Decode(r, &app); err != nil {
		return fmt.Errorf("unable to decode payload: %w", err)
	}
	if err := validate.Check(app); err != nil {
		return err
	}

	np := dao.NewProcess{
		DAOID:      daoID,
		ProposalID: proposalID,
		Processor:  app.Processor,
	}

	prepared, err := h.Core.PrepareProcess(ctx, np)
	if err != nil {
		return coreError(err)
	}

	return web.Respond(ctx, w, toAppPrepared(prepared), http.StatusOK)
}

// SubmitProcess dispatches a signed processing transaction.
func (h Handlers) SubmitProcess(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	daoID, err := daoParam(r)
	if err != nil {
		return v1.NewRequestError(err, http.StatusBadRequest)
	}
	proposalID, err := proposalParam(r)
	if err != nil {
		return v1.NewRequestError(err, http.StatusBadRequest)
	}

	var app appSubmitProcess
	if err := web.Decode(r, &app); err != nil {
		return fmt.Errorf("unable to decode payload: %w", err)
	}
	if err := validate.Check(app); err != nil {
		return err
	}

	signedTx, err := hex.DecodeString(app.SignedTx)
	if err != nil {
		return v1.NewRequestError(fmt.Errorf("signed_tx is not hex encoded: %w", err), http.StatusBadRequest)
	}

	np := dao.NewProcess{
		DAOID:      daoID,
		ProposalID: proposalID,
		Processor:  app.Processor,
	}

	tx, err := h.Core.SubmitProcess(ctx, np, signedTx)
	if err != nil {
		return coreError(err)
	}

	return web.Respond(ctx, w, toAppProposalTx(tx), http.StatusCreated)
}

// =============================================================================
// Membership

// Member returns membership information for an address in a DAO.
func (h Handlers) Member(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	daoID, err := daoParam(r)
	if err != nil {
		return v1.NewRequestError(err, http.StatusBadRequest)
	}
	address := web.Param(r, "address")

	member, err := h.Core.Member(ctx, daoID, address)
	if err != nil {
		return coreError(err)
	}

	return web.Respond(ctx, w, toAppMember(member), http.StatusOK)
}

// DAOs returns the ids of every DAO.
func (h Handlers) DAOs(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	ids, err := h.Core.DAOs(ctx)
	if err != nil {
		return coreError(err)
	}

	return web.Respond(ctx, w, ids, http.StatusOK)
}

// =============================================================================

// daoParam extracts the dao id from the route.
func daoParam(r *http.Request) (uint64, error) {
	daoID, err := strconv.ParseUint(web.Param(r, "dao"), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid dao id format")
	}
	return daoID, nil
}

// proposalParam extracts the proposal id from the route.
func proposalParam(r *http.Request) (uint64, error) {
	proposalID, err := strconv.ParseUint(web.Param(r, "proposal"), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid proposal id format")
	}
	return proposalID, nil
}

// coreError maps core errors to request errors with the right status.
func coreError(err error) error {
	var rpErr *dao.RequiredParamsError
	var mnfErr *dao.MemberNotFoundError

	switch {
	case errors.As(err, &rpErr), errors.Is(err, dao.ErrInvalidProposalType):
		return v1.NewRequestError(err, http.StatusBadRequest)

	case errors.As(err, &mnfErr):
		return v1.NewRequestError(err, http.StatusNotFound)
	}

	var spErr *dao.SubmitProposalError
	var vpErr *dao.VoteProposalError
	var ppErr *dao.ProcessProposalError
	switch {
	case errors.As(err, &spErr), errors.As(err, &vpErr), errors.As(err, &ppErr):
		return v1.NewRequestError(err, http.StatusBadRequest)
	}

	return err
}

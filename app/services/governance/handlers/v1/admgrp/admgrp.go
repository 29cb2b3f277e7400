// Package admgrp maintains the group of handlers for operational access.
package admgrp

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/daofund/governance/business/core/dao"
	v1 "github.com/daofund/governance/business/web/v1"
	"github.com/daofund/governance/foundation/validate"
	"github.com/daofund/governance/foundation/web"
)

// Handlers manages the set of operational endpoints.
type Handlers struct {
	Log  *zap.SugaredLogger
	Core *dao.Core
}

// appStatusOverride is the request to force a record transition.
type appStatusOverride struct {
	Status string `json:"status" validate:"required"`
}

// ProposalStatus forces a terminal status onto a SENT proposal record.
func (h Handlers) ProposalStatus(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	v, err := web.GetValues(ctx)
	if err != nil {
		return web.NewShutdownError("web value missing from context")
	}

	txHash := web.Param(r, "hash")

	var app appStatusOverride
	if err := web.Decode(r, &app); err != nil {
		return fmt.Errorf("unable to decode payload: %w", err)
	}
	if err := validate.Check(app); err != nil {
		return err
	}

	h.Log.Infow("proposal status override", "traceid", v.TraceID, "tx", txHash, "status", app.Status)
	tx, err := h.Core.UpdateProposalStatus(ctx, txHash, app.Status)
	if err != nil {
		return overrideError(err)
	}

	resp := struct {
		TxHash string `json:"tx_hash"`
		Status string `json:"status"`
	}{
		TxHash: tx.TxHash,
		Status: string(tx.Status),
	}

	return web.Respond(ctx, w, resp, http.StatusOK)
}

// VoteStatus forces a terminal status onto a SENT vote record.
func (h Handlers) VoteStatus(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	v, err := web.GetValues(ctx)
	if err != nil {
		return web.NewShutdownError("web value missing from context")
	}

	txHash := web.Param(r, "hash")

	var app appStatusOverride
	if err := web.Decode(r, &app); err != nil {
		return fmt.Errorf("unable to decode payload: %w", err)
	}
	if err := validate.Check(app); err != nil {
		return err
	}

	h.Log.Infow("vote status override", "traceid", v.TraceID, "tx", txHash, "status", app.Status)
	tx, err := h.Core.UpdateVoteStatus(ctx, txHash, app.Status)
	if err != nil {
		return overrideError(err)
	}

	resp := struct {
		TxHash string `json:"tx_hash"`
		Status string `json:"status"`
	}{
		TxHash: tx.TxHash,
		Status: string(tx.Status),
	}

	return web.Respond(ctx, w, resp, http.StatusOK)
}

// NonceCursor reports the allocator position for an account. A gap
// between the cursor and the account's in-flight records points at
// prepared transactions that were never submitted.
func (h Handlers) NonceCursor(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	account := web.Param(r, "account")

	next, seeded := h.Core.NonceCursor(account)

	resp := struct {
		Account string `json:"account"`
		Next    uint64 `json:"next"`
		Seeded  bool   `json:"seeded"`
	}{
		Account: account,
		Next:    next,
		Seeded:  seeded,
	}

	return web.Respond(ctx, w, resp, http.StatusOK)
}

// Sweep triggers one failure-detection pass outside the periodic
// schedule.
func (h Handlers) Sweep(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	now := time.Now().UTC()
	if err := h.Core.Sweep(ctx, now, now); err != nil {
		return err
	}

	resp := struct {
		Status string `json:"status"`
	}{
		Status: "sweep completed",
	}

	return web.Respond(ctx, w, resp, http.StatusOK)
}

// overrideError maps status override errors to request errors.
func overrideError(err error) error {
	var nfErr *dao.TxHashNotFoundError
	var nvErr *dao.StatusNotValidError
	var ccErr *dao.StatusCannotChangeError

	switch {
	case errors.As(err, &nfErr):
		return v1.NewRequestError(err, http.StatusNotFound)

	case errors.As(err, &nvErr), errors.As(err, &ccErr):
		return v1.NewRequestError(err, http.StatusConflict)
	}

	return err
}

// Package v1 contains the full set of handler functions and routes
// supported by the v1 web api.
package v1

import (
	"net/http"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/daofund/governance/app/services/governance/handlers/v1/admgrp"
	"github.com/daofund/governance/app/services/governance/handlers/v1/daogrp"
	"github.com/daofund/governance/business/core/dao"
	"github.com/daofund/governance/foundation/events"
	"github.com/daofund/governance/foundation/web"
)

const version = "v1"

// Config contains all the mandatory systems required by handlers.
type Config struct {
	Log  *zap.SugaredLogger
	Core *dao.Core
	Evts *events.Events
}

// PublicRoutes binds all the version 1 public routes.
func PublicRoutes(app *web.App, cfg Config) {
	dgh := daogrp.Handlers{
		Log:  cfg.Log,
		Core: cfg.Core,
		WS:   websocket.Upgrader{},
		Evts: cfg.Evts,
	}

	app.Handle(http.MethodGet, version, "/events", dgh.Events)
	app.Handle(http.MethodGet, version, "/dao/list", dgh.DAOs)
	app.Handle(http.MethodGet, version, "/dao/:dao/proposal/list", dgh.Proposals)
	app.Handle(http.MethodGet, version, "/dao/:dao/proposal/sent/list", dgh.SentProposals)
	app.Handle(http.MethodGet, version, "/dao/:dao/vote/sent/list", dgh.SentVotes)
	app.Handle(http.MethodGet, version, "/dao/:dao/member/:address", dgh.Member)
	app.Handle(http.MethodPost, version, "/dao/:dao/proposal/prepare", dgh.PrepareProposal)
	app.Handle(http.MethodPost, version, "/dao/:dao/proposal/submit", dgh.SubmitProposal)
	app.Handle(http.MethodPost, version, "/dao/:dao/proposal/:proposal/vote/prepare", dgh.PrepareVote)
	app.Handle(http.MethodPost, version, "/dao/:dao/proposal/:proposal/vote/submit", dgh.SubmitVote)
	app.Handle(http.MethodPost, version, "/dao/:dao/proposal/:proposal/process/prepare", dgh.PrepareProcess)
	app.Handle(http.MethodPost, version, "/dao/:dao/proposal/:proposal/process/submit", dgh.SubmitProcess)
}

// PrivateRoutes binds all the version 1 private routes.
func PrivateRoutes(app *web.App, cfg Config) {
	agh := admgrp.Handlers{
		Log:  cfg.Log,
		Core: cfg.Core,
	}

	app.Handle(http.MethodPost, version, "/admin/proposal/:hash/status", agh.ProposalStatus)
	app.Handle(http.MethodPost, version, "/admin/vote/:hash/status", agh.VoteStatus)
	app.Handle(http.MethodPost, version, "/admin/sweep", agh.Sweep)
	app.Handle(http.MethodGet, version, "/admin/nonce/:account", agh.NonceCursor)
}

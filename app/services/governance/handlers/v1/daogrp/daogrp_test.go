package daogrp_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"go.uber.org/zap"

	"github.com/daofund/governance/app/services/governance/handlers"
	"github.com/daofund/governance/business/core/dao"
	"github.com/daofund/governance/business/core/dao/stores/memory"
	"github.com/daofund/governance/foundation/events"
	"github.com/daofund/governance/foundation/ledger/sim"
)

// Success and failure markers.
const (
	success = "✓"
	failed  = "✗"
)

const voterAddr = "0xdd6B972ffcc631a62CAE1BB9d80b7ff429c8ebA4"

// errorResponse matches the uniform error form of the api.
type errorResponse struct {
	Error  string            `json:"error"`
	Fields map[string]string `json:"fields"`
}

// =============================================================================

func newTestMux(t *testing.T) http.Handler {
	client := sim.New()
	store := memory.New()

	core := dao.New(dao.Config{
		Ledger: client,
		Store:  store,
		EvHandler: func(v string, args ...any) {
			t.Logf("\t\tEVENT: "+v, args...)
		},
	})

	return handlers.PublicMux(handlers.MuxConfig{
		Shutdown: make(chan os.Signal, 1),
		Log:      zap.NewNop().Sugar(),
		Core:     core,
		Evts:     events.New(),
	})
}

// post sends a JSON body to the mux and decodes the response.
func post(t *testing.T, mux http.Handler, url string, body string, resp any) int {
	r := httptest.NewRequest(http.MethodPost, url, bytes.NewBufferString(body))
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, r)

	if resp != nil {
		if err := json.Unmarshal(w.Body.Bytes(), resp); err != nil {
			t.Fatalf("\t%s\tShould be able to decode the response: %v", failed, err)
		}
	}

	return w.Code
}

// =============================================================================

func Test_RequestValidation(t *testing.T) {
	t.Log("Given the need to reject incomplete request payloads.")
	{
		t.Log("\tTest 0:\tWhen preparing a vote without a voter.")
		{
			mux := newTestMux(t)

			var er errorResponse
			code := post(t, mux, "/v1/dao/0/proposal/0/vote/prepare", `{"vote":true}`, &er)

			if code != http.StatusBadRequest {
				t.Fatalf("\t%s\tTest 0:\tShould get status 400, got %d.", failed, code)
			}
			t.Logf("\t%s\tTest 0:\tShould get status 400.", success)

			if _, exists := er.Fields["voter"]; !exists {
				t.Errorf("\t%s\tTest 0:\tShould name the voter field in the response.", failed)
			} else {
				t.Logf("\t%s\tTest 0:\tShould name the voter field in the response.", success)
			}
		}

		t.Log("\tTest 1:\tWhen preparing a processing without a processor.")
		{
			mux := newTestMux(t)

			var er errorResponse
			code := post(t, mux, "/v1/dao/0/proposal/0/process/prepare", `{}`, &er)

			if code != http.StatusBadRequest {
				t.Fatalf("\t%s\tTest 1:\tShould get status 400, got %d.", failed, code)
			}
			t.Logf("\t%s\tTest 1:\tShould get status 400.", success)

			if _, exists := er.Fields["processor"]; !exists {
				t.Errorf("\t%s\tTest 1:\tShould name the processor field in the response.", failed)
			} else {
				t.Logf("\t%s\tTest 1:\tShould name the processor field in the response.", success)
			}
		}

		t.Log("\tTest 2:\tWhen submitting a processing without the signed bytes.")
		{
			mux := newTestMux(t)

			var er errorResponse
			code := post(t, mux, "/v1/dao/0/proposal/0/process/submit", `{"processor":"`+voterAddr+`"}`, &er)

			if code != http.StatusBadRequest {
				t.Fatalf("\t%s\tTest 2:\tShould get status 400, got %d.", failed, code)
			}
			t.Logf("\t%s\tTest 2:\tShould get status 400.", success)

			if _, exists := er.Fields["signed_tx"]; !exists {
				t.Errorf("\t%s\tTest 2:\tShould name the signed_tx field in the response.", failed)
			} else {
				t.Logf("\t%s\tTest 2:\tShould name the signed_tx field in the response.", success)
			}
		}

		t.Log("\tTest 3:\tWhen the vote payload is complete.")
		{
			mux := newTestMux(t)

			var prepared struct {
				UnsignedTx string `json:"unsigned_tx"`
				Nonce      uint64 `json:"nonce"`
			}
			code := post(t, mux, "/v1/dao/0/proposal/0/vote/prepare", `{"vote":true,"voter":"`+voterAddr+`"}`, &prepared)

			if code != http.StatusOK {
				t.Fatalf("\t%s\tTest 3:\tShould get status 200, got %d.", failed, code)
			}
			t.Logf("\t%s\tTest 3:\tShould get status 200.", success)

			if prepared.UnsignedTx == "" {
				t.Errorf("\t%s\tTest 3:\tShould get the unsigned transaction bytes back.", failed)
			} else {
				t.Logf("\t%s\tTest 3:\tShould get the unsigned transaction bytes back.", success)
			}
		}
	}
}

package dao_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/daofund/governance/business/core/dao"
	"github.com/daofund/governance/business/core/dao/record"
	"github.com/daofund/governance/business/core/dao/stores/memory"
	"github.com/daofund/governance/foundation/ledger"
	"github.com/daofund/governance/foundation/ledger/sim"
)

// Success and failure markers.
const (
	success = "✓"
	failed  = "✗"
)

const (
	proposerAddr  = "0xdd6B972ffcc631a62CAE1BB9d80b7ff429c8ebA4"
	applicantAddr = "0xF01813E4B85e178A83e29B8E7bF26BD830a25f32"
)

// =============================================================================

func newTestCore(t *testing.T) (*dao.Core, *sim.Client, *memory.Store) {
	client := sim.New()
	store := memory.New()

	core := dao.New(dao.Config{
		Ledger: client,
		Store:  store,
		EvHandler: func(v string, args ...any) {
			t.Logf("\t\tEVENT: "+v, args...)
		},
	})

	return core, client, store
}

// submitProposal pushes one proposal through prepare, sign, and submit.
func submitProposal(ctx context.Context, core *dao.Core, client *sim.Client, np dao.NewProposal) (record.ProposalTx, error) {
	prepared, err := core.PrepareProposal(ctx, np)
	if err != nil {
		return record.ProposalTx{}, err
	}

	signedTx, err := sim.Sign(prepared.UnsignedTx, np.Proposer)
	if err != nil {
		return record.ProposalTx{}, err
	}

	return core.SubmitProposal(ctx, np, signedTx)
}

// submitVote pushes one vote through prepare, sign, and submit.
func submitVote(ctx context.Context, core *dao.Core, nv dao.NewVote) (record.VoteTx, error) {
	prepared, err := core.PrepareVote(ctx, nv)
	if err != nil {
		return record.VoteTx{}, err
	}

	signedTx, err := sim.Sign(prepared.UnsignedTx, nv.Voter)
	if err != nil {
		return record.VoteTx{}, err
	}

	return core.SubmitVote(ctx, nv, signedTx)
}

// =============================================================================

func Test_SubmitProposal(t *testing.T) {
	t.Log("Given the need to dispatch proposal transactions.")
	{
		t.Log("\tTest 0:\tWhen submitting a signed proposal.")
		{
			ctx := context.Background()
			core, client, _ := newTestCore(t)
			client.CreateDAO()

			np := dao.NewProposal{
				DAOID:        0,
				ProposalType: dao.ProposalTypeNewMember,
				Description:  "add applicant as member",
				Applicant:    applicantAddr,
				Proposer:     proposerAddr,
			}

			tx, err := submitProposal(ctx, core, client, np)
			if err != nil {
				t.Fatalf("\t%s\tTest 0:\tShould be able to submit the proposal: %v", failed, err)
			}
			t.Logf("\t%s\tTest 0:\tShould be able to submit the proposal.", success)

			if tx.Status != record.StatusSent {
				t.Errorf("\t%s\tTest 0:\tShould have a SENT record, got %s.", failed, tx.Status)
			} else {
				t.Logf("\t%s\tTest 0:\tShould have a SENT record.", success)
			}

			if tx.TxHash == "" {
				t.Errorf("\t%s\tTest 0:\tShould have a transaction hash on the record.", failed)
			} else {
				t.Logf("\t%s\tTest 0:\tShould have a transaction hash on the record.", success)
			}

			if tx.Nonce != 0 {
				t.Errorf("\t%s\tTest 0:\tShould have nonce 0 on the first record, got %d.", failed, tx.Nonce)
			} else {
				t.Logf("\t%s\tTest 0:\tShould have nonce 0 on the first record.", success)
			}

			if tx.ProposalID != nil {
				t.Errorf("\t%s\tTest 0:\tShould not have a proposal id before confirmation.", failed)
			} else {
				t.Logf("\t%s\tTest 0:\tShould not have a proposal id before confirmation.", success)
			}

			sent, err := core.ListSentProposals(ctx, 0)
			if err != nil {
				t.Fatalf("\t%s\tTest 0:\tShould be able to list sent proposals: %v", failed, err)
			}
			if len(sent) != 1 {
				t.Errorf("\t%s\tTest 0:\tShould find one in-flight record, got %d.", failed, len(sent))
			} else {
				t.Logf("\t%s\tTest 0:\tShould find one in-flight record.", success)
			}
		}

		t.Log("\tTest 1:\tWhen the ledger rejects the dispatch.")
		{
			ctx := context.Background()
			core, client, _ := newTestCore(t)
			client.CreateDAO()
			client.FailSends(errors.New("connection refused"))

			np := dao.NewProposal{
				DAOID:        0,
				ProposalType: dao.ProposalTypeNewMember,
				Description:  "add applicant as member",
				Applicant:    applicantAddr,
				Proposer:     proposerAddr,
			}

			if _, err := submitProposal(ctx, core, client, np); err == nil {
				t.Fatalf("\t%s\tTest 1:\tShould get an error from a rejected dispatch.", failed)
			}
			t.Logf("\t%s\tTest 1:\tShould get an error from a rejected dispatch.", success)

			sent, err := core.ListSentProposals(ctx, 0)
			if err != nil {
				t.Fatalf("\t%s\tTest 1:\tShould be able to list sent proposals: %v", failed, err)
			}
			if len(sent) != 0 {
				t.Errorf("\t%s\tTest 1:\tShould leave no record behind, got %d.", failed, len(sent))
			} else {
				t.Logf("\t%s\tTest 1:\tShould leave no record behind.", success)
			}

			// The allocated nonce stays burned. The next prepare must
			// hand out the following nonce.
			client.FailSends(nil)
			prepared, err := core.PrepareProposal(ctx, np)
			if err != nil {
				t.Fatalf("\t%s\tTest 1:\tShould be able to prepare again: %v", failed, err)
			}
			if prepared.Nonce != 1 {
				t.Errorf("\t%s\tTest 1:\tShould burn the failed nonce, got nonce %d.", failed, prepared.Nonce)
			} else {
				t.Logf("\t%s\tTest 1:\tShould burn the failed nonce.", success)
			}
		}

		t.Log("\tTest 2:\tWhen the proposal type is not recognized.")
		{
			ctx := context.Background()
			core, client, _ := newTestCore(t)
			client.CreateDAO()

			np := dao.NewProposal{
				DAOID:        0,
				ProposalType: "UPGRADE_CONTRACT",
				Description:  "unsupported action",
				Applicant:    applicantAddr,
				Proposer:     proposerAddr,
			}

			if _, err := core.PrepareProposal(ctx, np); !errors.Is(err, dao.ErrInvalidProposalType) {
				t.Fatalf("\t%s\tTest 2:\tShould get ErrInvalidProposalType: %v", failed, err)
			}
			t.Logf("\t%s\tTest 2:\tShould get ErrInvalidProposalType.", success)
		}
	}
}

func Test_ProcessProposal(t *testing.T) {
	t.Log("Given the need to process proposals whose voting period ended.")
	{
		t.Log("\tTest 0:\tWhen processing a confirmed proposal.")
		{
			ctx := context.Background()
			core, client, store := newTestCore(t)
			client.CreateDAO()

			np := dao.NewProposal{
				DAOID:        0,
				ProposalType: dao.ProposalTypeNewMember,
				Description:  "add applicant as member",
				Applicant:    applicantAddr,
				Proposer:     proposerAddr,
			}

			proposal, err := submitProposal(ctx, core, client, np)
			if err != nil {
				t.Fatalf("\t%s\tTest 0:\tShould be able to submit the proposal: %v", failed, err)
			}
			if err := client.MineTx(proposal.TxHash); err != nil {
				t.Fatalf("\t%s\tTest 0:\tShould be able to mine the proposal: %v", failed, err)
			}
			core.ApplyEvent(ctx, ledger.Event{
				Kind:          ledger.EventSubmitProposal,
				DAOID:         0,
				TxHash:        proposal.TxHash,
				ProposalIndex: 0,
			})

			npr := dao.NewProcess{
				DAOID:      0,
				ProposalID: 0,
				Processor:  proposerAddr,
			}

			prepared, err := core.PrepareProcess(ctx, npr)
			if err != nil {
				t.Fatalf("\t%s\tTest 0:\tShould be able to prepare the processing: %v", failed, err)
			}

			signedTx, err := sim.Sign(prepared.UnsignedTx, npr.Processor)
			if err != nil {
				t.Fatalf("\t%s\tTest 0:\tShould be able to sign the processing: %v", failed, err)
			}

			tx, err := core.SubmitProcess(ctx, npr, signedTx)
			if err != nil {
				t.Fatalf("\t%s\tTest 0:\tShould be able to submit the processing: %v", failed, err)
			}
			t.Logf("\t%s\tTest 0:\tShould be able to submit the processing.", success)

			if tx.Status != record.StatusSent {
				t.Errorf("\t%s\tTest 0:\tShould have a SENT record, got %s.", failed, tx.Status)
			} else {
				t.Logf("\t%s\tTest 0:\tShould have a SENT record.", success)
			}

			// Processing targets a known proposal, so its index is on
			// the record before any event arrives.
			if tx.ProposalID == nil || *tx.ProposalID != 0 {
				t.Errorf("\t%s\tTest 0:\tShould carry the proposal id 0 up front.", failed)
			} else {
				t.Logf("\t%s\tTest 0:\tShould carry the proposal id 0 up front.", success)
			}

			if err := client.MineTx(tx.TxHash); err != nil {
				t.Fatalf("\t%s\tTest 0:\tShould be able to mine the processing: %v", failed, err)
			}
			core.ApplyEvent(ctx, ledger.Event{
				Kind:          ledger.EventProcessProposal,
				DAOID:         0,
				TxHash:        tx.TxHash,
				ProposalIndex: 0,
			})

			got, err := store.ProposalByTxHash(ctx, tx.TxHash)
			if err != nil {
				t.Fatalf("\t%s\tTest 0:\tShould be able to read the record back: %v", failed, err)
			}
			if got.Status != record.StatusConfirmed {
				t.Errorf("\t%s\tTest 0:\tShould have a CONFIRMED record, got %s.", failed, got.Status)
			} else {
				t.Logf("\t%s\tTest 0:\tShould have a CONFIRMED record.", success)
			}

			proposals, err := core.ListProposals(ctx, 0)
			if err != nil {
				t.Fatalf("\t%s\tTest 0:\tShould be able to list the proposals: %v", failed, err)
			}
			if len(proposals) != 1 || !proposals[0].Processed {
				t.Errorf("\t%s\tTest 0:\tShould show the proposal as processed on chain.", failed)
			} else {
				t.Logf("\t%s\tTest 0:\tShould show the proposal as processed on chain.", success)
			}
		}

		t.Log("\tTest 1:\tWhen the processor is missing.")
		{
			ctx := context.Background()
			core, client, _ := newTestCore(t)
			client.CreateDAO()

			npr := dao.NewProcess{
				DAOID:      0,
				ProposalID: 0,
			}

			var rpErr *dao.RequiredParamsError
			if _, err := core.PrepareProcess(ctx, npr); !errors.As(err, &rpErr) {
				t.Fatalf("\t%s\tTest 1:\tShould get a required params error: %v", failed, err)
			}
			t.Logf("\t%s\tTest 1:\tShould get a required params error.", success)

			if rpErr.Method != "processProposal" {
				t.Errorf("\t%s\tTest 1:\tShould name the processProposal method, got %q.", failed, rpErr.Method)
			} else {
				t.Logf("\t%s\tTest 1:\tShould name the processProposal method.", success)
			}
		}
	}
}

func Test_Reconcile(t *testing.T) {
	t.Log("Given the need to confirm records from contract events.")
	{
		t.Log("\tTest 0:\tWhen the submit proposal event arrives.")
		{
			ctx := context.Background()
			core, client, store := newTestCore(t)
			client.CreateDAO()

			np := dao.NewProposal{
				DAOID:        0,
				ProposalType: dao.ProposalTypeNewMember,
				Description:  "add applicant as member",
				Applicant:    applicantAddr,
				Proposer:     proposerAddr,
			}

			tx, err := submitProposal(ctx, core, client, np)
			if err != nil {
				t.Fatalf("\t%s\tTest 0:\tShould be able to submit the proposal: %v", failed, err)
			}
			t.Logf("\t%s\tTest 0:\tShould be able to submit the proposal.", success)

			event := ledger.Event{
				Kind:          ledger.EventSubmitProposal,
				DAOID:         0,
				TxHash:        tx.TxHash,
				ProposalIndex: 0,
			}
			core.ApplyEvent(ctx, event)

			got, err := store.ProposalByTxHash(ctx, tx.TxHash)
			if err != nil {
				t.Fatalf("\t%s\tTest 0:\tShould be able to read the record back: %v", failed, err)
			}
			if got.Status != record.StatusConfirmed {
				t.Errorf("\t%s\tTest 0:\tShould have a CONFIRMED record, got %s.", failed, got.Status)
			} else {
				t.Logf("\t%s\tTest 0:\tShould have a CONFIRMED record.", success)
			}
			if got.ProposalID == nil || *got.ProposalID != 0 {
				t.Errorf("\t%s\tTest 0:\tShould carry the assigned proposal id 0.", failed)
			} else {
				t.Logf("\t%s\tTest 0:\tShould carry the assigned proposal id 0.", success)
			}
		}

		t.Log("\tTest 1:\tWhen the same event is delivered twice.")
		{
			ctx := context.Background()
			core, client, store := newTestCore(t)
			client.CreateDAO()

			np := dao.NewProposal{
				DAOID:        0,
				ProposalType: dao.ProposalTypeNewMember,
				Description:  "add applicant as member",
				Applicant:    applicantAddr,
				Proposer:     proposerAddr,
			}

			tx, err := submitProposal(ctx, core, client, np)
			if err != nil {
				t.Fatalf("\t%s\tTest 1:\tShould be able to submit the proposal: %v", failed, err)
			}

			event := ledger.Event{
				Kind:          ledger.EventSubmitProposal,
				DAOID:         0,
				TxHash:        tx.TxHash,
				ProposalIndex: 0,
			}
			core.ApplyEvent(ctx, event)
			core.ApplyEvent(ctx, event)

			got, err := store.ProposalByTxHash(ctx, tx.TxHash)
			if err != nil {
				t.Fatalf("\t%s\tTest 1:\tShould be able to read the record back: %v", failed, err)
			}
			if got.Status != record.StatusConfirmed {
				t.Errorf("\t%s\tTest 1:\tShould still be CONFIRMED after redelivery, got %s.", failed, got.Status)
			} else {
				t.Logf("\t%s\tTest 1:\tShould still be CONFIRMED after redelivery.", success)
			}
			if got.ProposalID == nil || *got.ProposalID != 0 {
				t.Errorf("\t%s\tTest 1:\tShould keep the assigned proposal id.", failed)
			} else {
				t.Logf("\t%s\tTest 1:\tShould keep the assigned proposal id.", success)
			}
		}

		t.Log("\tTest 2:\tWhen the event matches no record.")
		{
			ctx := context.Background()
			core, _, store := newTestCore(t)

			event := ledger.Event{
				Kind:          ledger.EventSubmitProposal,
				DAOID:         0,
				TxHash:        "0xdeadbeef",
				ProposalIndex: 7,
			}
			core.ApplyEvent(ctx, event)

			if _, err := store.ProposalByTxHash(ctx, "0xdeadbeef"); !errors.Is(err, record.ErrNotFound) {
				t.Errorf("\t%s\tTest 2:\tShould not create a record for an unknown hash.", failed)
			} else {
				t.Logf("\t%s\tTest 2:\tShould not create a record for an unknown hash.", success)
			}
		}
	}

	t.Log("Given the need to confirm vote records from contract events.")
	{
		t.Log("\tTest 0:\tWhen the submit vote event arrives.")
		{
			ctx := context.Background()
			core, client, store := newTestCore(t)
			client.CreateDAO()

			yes := true
			nv := dao.NewVote{
				DAOID:      0,
				ProposalID: 0,
				Vote:       &yes,
				Voter:      proposerAddr,
			}

			prepared, err := core.PrepareVote(ctx, nv)
			if err != nil {
				t.Fatalf("\t%s\tTest 0:\tShould be able to prepare the vote: %v", failed, err)
			}

			signedTx, err := sim.Sign(prepared.UnsignedTx, nv.Voter)
			if err != nil {
				t.Fatalf("\t%s\tTest 0:\tShould be able to sign the vote: %v", failed, err)
			}

			tx, err := core.SubmitVote(ctx, nv, signedTx)
			if err != nil {
				t.Fatalf("\t%s\tTest 0:\tShould be able to submit the vote: %v", failed, err)
			}
			t.Logf("\t%s\tTest 0:\tShould be able to submit the vote.", success)

			event := ledger.Event{
				Kind:          ledger.EventSubmitVote,
				DAOID:         0,
				TxHash:        tx.TxHash,
				ProposalIndex: 0,
				Vote:          true,
				Voter:         proposerAddr,
			}
			core.ApplyEvent(ctx, event)

			got, err := store.VoteByTxHash(ctx, tx.TxHash)
			if err != nil {
				t.Fatalf("\t%s\tTest 0:\tShould be able to read the record back: %v", failed, err)
			}
			if got.Status != record.StatusConfirmed {
				t.Errorf("\t%s\tTest 0:\tShould have a CONFIRMED vote record, got %s.", failed, got.Status)
			} else {
				t.Logf("\t%s\tTest 0:\tShould have a CONFIRMED vote record.", success)
			}
		}

		t.Log("\tTest 1:\tWhen the vote field is missing.")
		{
			ctx := context.Background()
			core, client, _ := newTestCore(t)
			client.CreateDAO()

			nv := dao.NewVote{
				DAOID:      0,
				ProposalID: 0,
				Voter:      proposerAddr,
			}

			var rpErr *dao.RequiredParamsError
			if _, err := core.PrepareVote(ctx, nv); !errors.As(err, &rpErr) {
				t.Fatalf("\t%s\tTest 1:\tShould get a required params error: %v", failed, err)
			}
			t.Logf("\t%s\tTest 1:\tShould get a required params error.", success)

			if rpErr.Method != "voteProposal" {
				t.Errorf("\t%s\tTest 1:\tShould name the voteProposal method, got %q.", failed, rpErr.Method)
			} else {
				t.Logf("\t%s\tTest 1:\tShould name the voteProposal method.", success)
			}

			sent, err := core.ListSentVotes(ctx, 0)
			if err != nil {
				t.Fatalf("\t%s\tTest 1:\tShould be able to list sent votes: %v", failed, err)
			}
			if len(sent) != 0 {
				t.Errorf("\t%s\tTest 1:\tShould leave no record behind, got %d.", failed, len(sent))
			} else {
				t.Logf("\t%s\tTest 1:\tShould leave no record behind.", success)
			}
		}
	}
}

func Test_Sweep(t *testing.T) {
	t.Log("Given the need to fail transactions the chain silently dropped.")
	{
		t.Log("\tTest 0:\tWhen a later nonce confirms while an earlier one is dropped.")
		{
			ctx := context.Background()
			core, client, store := newTestCore(t)
			client.CreateDAO()

			np := dao.NewProposal{
				DAOID:        0,
				ProposalType: dao.ProposalTypeNewMember,
				Description:  "add applicant as member",
				Applicant:    applicantAddr,
				Proposer:     proposerAddr,
			}

			// Three in-flight proposals from the same account with
			// consecutive nonces.
			first, err := submitProposal(ctx, core, client, np)
			if err != nil {
				t.Fatalf("\t%s\tTest 0:\tShould be able to submit the first proposal: %v", failed, err)
			}
			second, err := submitProposal(ctx, core, client, np)
			if err != nil {
				t.Fatalf("\t%s\tTest 0:\tShould be able to submit the second proposal: %v", failed, err)
			}
			third, err := submitProposal(ctx, core, client, np)
			if err != nil {
				t.Fatalf("\t%s\tTest 0:\tShould be able to submit the third proposal: %v", failed, err)
			}
			t.Logf("\t%s\tTest 0:\tShould be able to submit three proposals.", success)

			// The chain drops the first transaction and mines the second.
			// Mining advances the account's confirmed nonce past both.
			client.DropTx(first.TxHash)
			if err := client.MineTx(second.TxHash); err != nil {
				t.Fatalf("\t%s\tTest 0:\tShould be able to mine the second transaction: %v", failed, err)
			}

			event := ledger.Event{
				Kind:          ledger.EventSubmitProposal,
				DAOID:         0,
				TxHash:        second.TxHash,
				ProposalIndex: 0,
			}
			core.ApplyEvent(ctx, event)

			if err := core.Sweep(ctx, time.Now(), time.Time{}); err != nil {
				t.Fatalf("\t%s\tTest 0:\tShould be able to run the sweep: %v", failed, err)
			}
			t.Logf("\t%s\tTest 0:\tShould be able to run the sweep.", success)

			got, _ := store.ProposalByTxHash(ctx, first.TxHash)
			if got.Status != record.StatusFailed {
				t.Errorf("\t%s\tTest 0:\tShould fail the superseded record, got %s.", failed, got.Status)
			} else {
				t.Logf("\t%s\tTest 0:\tShould fail the superseded record.", success)
			}

			got, _ = store.ProposalByTxHash(ctx, second.TxHash)
			if got.Status != record.StatusConfirmed {
				t.Errorf("\t%s\tTest 0:\tShould keep the confirmed record, got %s.", failed, got.Status)
			} else {
				t.Logf("\t%s\tTest 0:\tShould keep the confirmed record.", success)
			}

			got, _ = store.ProposalByTxHash(ctx, third.TxHash)
			if got.Status != record.StatusSent {
				t.Errorf("\t%s\tTest 0:\tShould leave the still-pending record alone, got %s.", failed, got.Status)
			} else {
				t.Logf("\t%s\tTest 0:\tShould leave the still-pending record alone.", success)
			}
		}

		t.Log("\tTest 1:\tWhen a superseded record was mined but not yet reconciled.")
		{
			ctx := context.Background()
			core, client, store := newTestCore(t)
			client.CreateDAO()

			np := dao.NewProposal{
				DAOID:        0,
				ProposalType: dao.ProposalTypeNewMember,
				Description:  "add applicant as member",
				Applicant:    applicantAddr,
				Proposer:     proposerAddr,
			}

			first, err := submitProposal(ctx, core, client, np)
			if err != nil {
				t.Fatalf("\t%s\tTest 1:\tShould be able to submit the first proposal: %v", failed, err)
			}
			second, err := submitProposal(ctx, core, client, np)
			if err != nil {
				t.Fatalf("\t%s\tTest 1:\tShould be able to submit the second proposal: %v", failed, err)
			}

			// Both transactions mine, but neither event has been applied
			// yet. The sweep must leave both records for the event stream
			// because only the event carries the assigned index.
			if err := client.MineTx(first.TxHash); err != nil {
				t.Fatalf("\t%s\tTest 1:\tShould be able to mine the first transaction: %v", failed, err)
			}
			if err := client.MineTx(second.TxHash); err != nil {
				t.Fatalf("\t%s\tTest 1:\tShould be able to mine the second transaction: %v", failed, err)
			}

			if err := core.Sweep(ctx, time.Now(), time.Time{}); err != nil {
				t.Fatalf("\t%s\tTest 1:\tShould be able to run the sweep: %v", failed, err)
			}

			got, _ := store.ProposalByTxHash(ctx, first.TxHash)
			if got.Status != record.StatusSent {
				t.Errorf("\t%s\tTest 1:\tShould leave the mined record for the reconciler, got %s.", failed, got.Status)
			} else {
				t.Logf("\t%s\tTest 1:\tShould leave the mined record for the reconciler.", success)
			}
		}

		t.Log("\tTest 2:\tWhen a vote is superseded while a later one confirms.")
		{
			ctx := context.Background()
			core, client, store := newTestCore(t)
			client.CreateDAO()

			yes := true
			nv := dao.NewVote{
				DAOID:      0,
				ProposalID: 0,
				Vote:       &yes,
				Voter:      proposerAddr,
			}

			first, err := submitVote(ctx, core, nv)
			if err != nil {
				t.Fatalf("\t%s\tTest 2:\tShould be able to submit the first vote: %v", failed, err)
			}
			second, err := submitVote(ctx, core, nv)
			if err != nil {
				t.Fatalf("\t%s\tTest 2:\tShould be able to submit the second vote: %v", failed, err)
			}
			t.Logf("\t%s\tTest 2:\tShould be able to submit two votes.", success)

			client.DropTx(first.TxHash)
			if err := client.MineTx(second.TxHash); err != nil {
				t.Fatalf("\t%s\tTest 2:\tShould be able to mine the second vote: %v", failed, err)
			}

			core.ApplyEvent(ctx, ledger.Event{
				Kind:          ledger.EventSubmitVote,
				DAOID:         0,
				TxHash:        second.TxHash,
				ProposalIndex: 0,
				Vote:          true,
				Voter:         proposerAddr,
			})

			if err := core.Sweep(ctx, time.Now(), time.Time{}); err != nil {
				t.Fatalf("\t%s\tTest 2:\tShould be able to run the sweep: %v", failed, err)
			}
			t.Logf("\t%s\tTest 2:\tShould be able to run the sweep.", success)

			got, _ := store.VoteByTxHash(ctx, first.TxHash)
			if got.Status != record.StatusFailed {
				t.Errorf("\t%s\tTest 2:\tShould fail the superseded vote, got %s.", failed, got.Status)
			} else {
				t.Logf("\t%s\tTest 2:\tShould fail the superseded vote.", success)
			}

			got, _ = store.VoteByTxHash(ctx, second.TxHash)
			if got.Status != record.StatusConfirmed {
				t.Errorf("\t%s\tTest 2:\tShould keep the confirmed vote, got %s.", failed, got.Status)
			} else {
				t.Logf("\t%s\tTest 2:\tShould keep the confirmed vote.", success)
			}
		}
	}
}

func Test_StatusOverride(t *testing.T) {
	t.Log("Given the need to force records into terminal states.")
	{
		t.Log("\tTest 0:\tWhen overriding a SENT record.")
		{
			ctx := context.Background()
			core, client, _ := newTestCore(t)
			client.CreateDAO()

			np := dao.NewProposal{
				DAOID:        0,
				ProposalType: dao.ProposalTypeNewMember,
				Description:  "add applicant as member",
				Applicant:    applicantAddr,
				Proposer:     proposerAddr,
			}

			tx, err := submitProposal(ctx, core, client, np)
			if err != nil {
				t.Fatalf("\t%s\tTest 0:\tShould be able to submit the proposal: %v", failed, err)
			}

			got, err := core.UpdateProposalStatus(ctx, tx.TxHash, "FAILED")
			if err != nil {
				t.Fatalf("\t%s\tTest 0:\tShould be able to override the status: %v", failed, err)
			}
			t.Logf("\t%s\tTest 0:\tShould be able to override the status.", success)

			if got.Status != record.StatusFailed {
				t.Errorf("\t%s\tTest 0:\tShould report the record as FAILED, got %s.", failed, got.Status)
			} else {
				t.Logf("\t%s\tTest 0:\tShould report the record as FAILED.", success)
			}
		}

		t.Log("\tTest 1:\tWhen overriding a terminal record.")
		{
			ctx := context.Background()
			core, client, _ := newTestCore(t)
			client.CreateDAO()

			np := dao.NewProposal{
				DAOID:        0,
				ProposalType: dao.ProposalTypeNewMember,
				Description:  "add applicant as member",
				Applicant:    applicantAddr,
				Proposer:     proposerAddr,
			}

			tx, err := submitProposal(ctx, core, client, np)
			if err != nil {
				t.Fatalf("\t%s\tTest 1:\tShould be able to submit the proposal: %v", failed, err)
			}

			if _, err := core.UpdateProposalStatus(ctx, tx.TxHash, "CONFIRMED"); err != nil {
				t.Fatalf("\t%s\tTest 1:\tShould be able to confirm the record: %v", failed, err)
			}

			var ccErr *dao.StatusCannotChangeError
			if _, err := core.UpdateProposalStatus(ctx, tx.TxHash, "FAILED"); !errors.As(err, &ccErr) {
				t.Fatalf("\t%s\tTest 1:\tShould refuse to change a terminal record: %v", failed, err)
			}
			t.Logf("\t%s\tTest 1:\tShould refuse to change a terminal record.", success)
		}

		t.Log("\tTest 2:\tWhen the target status is not terminal.")
		{
			ctx := context.Background()
			core, _, _ := newTestCore(t)

			var nvErr *dao.StatusNotValidError
			if _, err := core.UpdateProposalStatus(ctx, "0xdeadbeef", "SENT"); !errors.As(err, &nvErr) {
				t.Fatalf("\t%s\tTest 2:\tShould reject a non-terminal target: %v", failed, err)
			}
			t.Logf("\t%s\tTest 2:\tShould reject a non-terminal target.", success)
		}

		t.Log("\tTest 3:\tWhen the hash matches no record.")
		{
			ctx := context.Background()
			core, _, _ := newTestCore(t)

			var nfErr *dao.TxHashNotFoundError
			if _, err := core.UpdateProposalStatus(ctx, "0xdeadbeef", "FAILED"); !errors.As(err, &nfErr) {
				t.Fatalf("\t%s\tTest 3:\tShould report an unknown hash: %v", failed, err)
			}
			t.Logf("\t%s\tTest 3:\tShould report an unknown hash.", success)
		}
	}
}

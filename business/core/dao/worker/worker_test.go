package worker_test

import (
	"context"
	"testing"
	"time"

	"github.com/daofund/governance/business/core/dao"
	"github.com/daofund/governance/business/core/dao/record"
	"github.com/daofund/governance/business/core/dao/stores/memory"
	"github.com/daofund/governance/business/core/dao/worker"
	"github.com/daofund/governance/foundation/ledger/sim"
)

// Success and failure markers.
const (
	success = "✓"
	failed  = "✗"
)

const proposerAddr = "0xdd6B972ffcc631a62CAE1BB9d80b7ff429c8ebA4"

// =============================================================================

func Test_Worker(t *testing.T) {
	t.Log("Given the need to reconcile records from the live event stream.")
	{
		t.Log("\tTest 0:\tWhen a submitted transaction is mined.")
		{
			ctx := context.Background()
			client := sim.New()
			store := memory.New()

			core := dao.New(dao.Config{
				Ledger:    client,
				Store:     store,
				EvHandler: func(v string, args ...any) {},
			})

			// A long sweep interval keeps the sweeper quiet so the test
			// only observes the event stream.
			worker.Run(core, time.Hour, func(v string, args ...any) {})
			defer core.Shutdown()

			client.CreateDAO()

			np := dao.NewProposal{
				DAOID:        0,
				ProposalType: dao.ProposalTypeNewMember,
				Description:  "add applicant as member",
				Applicant:    "0xF01813E4B85e178A83e29B8E7bF26BD830a25f32",
				Proposer:     proposerAddr,
			}

			prepared, err := core.PrepareProposal(ctx, np)
			if err != nil {
				t.Fatalf("\t%s\tTest 0:\tShould be able to prepare the proposal: %v", failed, err)
			}

			signedTx, err := sim.Sign(prepared.UnsignedTx, np.Proposer)
			if err != nil {
				t.Fatalf("\t%s\tTest 0:\tShould be able to sign the proposal: %v", failed, err)
			}

			tx, err := core.SubmitProposal(ctx, np, signedTx)
			if err != nil {
				t.Fatalf("\t%s\tTest 0:\tShould be able to submit the proposal: %v", failed, err)
			}
			t.Logf("\t%s\tTest 0:\tShould be able to submit the proposal.", success)

			if err := client.MineTx(tx.TxHash); err != nil {
				t.Fatalf("\t%s\tTest 0:\tShould be able to mine the transaction: %v", failed, err)
			}

			// The reconciler runs on its own goroutine. Poll until the
			// record turns over or the deadline hits.
			deadline := time.Now().Add(2 * time.Second)
			for {
				got, err := store.ProposalByTxHash(ctx, tx.TxHash)
				if err != nil {
					t.Fatalf("\t%s\tTest 0:\tShould be able to read the record back: %v", failed, err)
				}
				if got.Status == record.StatusConfirmed {
					if got.ProposalID == nil || *got.ProposalID != 0 {
						t.Errorf("\t%s\tTest 0:\tShould carry the assigned proposal id 0.", failed)
					} else {
						t.Logf("\t%s\tTest 0:\tShould confirm the record with proposal id 0.", success)
					}
					break
				}
				if time.Now().After(deadline) {
					t.Fatalf("\t%s\tTest 0:\tShould confirm the record from the event stream, still %s.", failed, got.Status)
				}
				time.Sleep(10 * time.Millisecond)
			}
		}
	}
}

func Test_Shutdown(t *testing.T) {
	t.Log("Given the need to bring the background workflows down cleanly.")
	{
		t.Log("\tTest 0:\tWhen starting and shutting down repeatedly.")
		{
			for i := 0; i < 10; i++ {
				client := sim.New()
				store := memory.New()

				core := dao.New(dao.Config{
					Ledger:    client,
					Store:     store,
					EvHandler: func(v string, args ...any) {},
				})

				worker.Run(core, time.Hour, func(v string, args ...any) {})
				core.Shutdown()
			}
			t.Logf("\t%s\tTest 0:\tShould survive repeated start and shutdown cycles.", success)
		}
	}
}

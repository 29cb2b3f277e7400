// Package worker implements event reconciliation and failure sweeping
// for the governance transaction lifecycle.
package worker

import (
	"context"
	"sync"
	"time"

	"github.com/daofund/governance/business/core/dao"
	"github.com/daofund/governance/foundation/ledger"
	"github.com/daofund/governance/foundation/scheduler"
)

// sweepTaskName identifies the failure sweep in the scheduler.
const sweepTaskName = "failure-sweep"

// resubscribeDelay is how long the reconciler waits before re-opening
// a failed event stream.
const resubscribeDelay = 5 * time.Second

// =============================================================================

// Worker manages the background workflows for the transaction
// lifecycle.
type Worker struct {
	core      *dao.Core
	sched     *scheduler.Scheduler
	wg        sync.WaitGroup
	shut      chan struct{}
	cancel    context.CancelFunc
	evHandler dao.EventHandler
}

// Run creates a worker, registers the worker with the core package, and
// starts up all the background processes.
func Run(core *dao.Core, sweepInterval time.Duration, evHandler dao.EventHandler) {

	// The cancel function must be in place before the reconciler G
	// launches so Shutdown never races its assignment.
	ctx, cancel := context.WithCancel(context.Background())

	w := Worker{
		core:      core,
		sched:     scheduler.New(scheduler.EventHandler(evHandler)),
		shut:      make(chan struct{}),
		cancel:    cancel,
		evHandler: evHandler,
	}

	// Register this worker with the core package.
	core.Worker = &w

	// The failure sweep runs as a named task so it can be stopped and
	// restarted independently of the event stream.
	if err := w.sched.Register(sweepTaskName, sweepInterval, core.Sweep); err != nil {
		w.evHandler("worker: run: register %s: ERROR: %s", sweepTaskName, err)
	}
	if err := w.sched.Start(sweepTaskName); err != nil {
		w.evHandler("worker: run: start %s: ERROR: %s", sweepTaskName, err)
	}

	// We don't want to return until we know the reconciler G is up
	// and running.
	hasStarted := make(chan bool)

	w.wg.Add(1)
	go func() {
		defer w.wg.Done()
		hasStarted <- true
		w.eventOperations(ctx)
	}()

	<-hasStarted
}

// Shutdown terminates the goroutines performing work.
func (w *Worker) Shutdown() {
	w.evHandler("worker: shutdown: started")
	defer w.evHandler("worker: shutdown: completed")

	w.evHandler("worker: shutdown: stop scheduler")
	w.sched.Shutdown()

	w.evHandler("worker: shutdown: terminate goroutines")
	close(w.shut)
	w.cancel()
	w.wg.Wait()
}

// =============================================================================

// eventOperations consumes the contract event stream and applies each
// event against the record store. A broken stream is re-opened after a
// delay; no in-memory state is load-bearing, so a resubscribe is a full
// recovery.
func (w *Worker) eventOperations(ctx context.Context) {
	w.evHandler("worker: eventOperations: G started")
	defer w.evHandler("worker: eventOperations: G completed")

	for {
		if w.isShutdown() {
			return
		}

		sub, err := w.core.SubscribeEvents(ctx)
		if err != nil {
			w.evHandler("worker: eventOperations: subscribe: ERROR: %s", err)
			if !w.sleep(resubscribeDelay) {
				return
			}
			continue
		}

		w.consume(ctx, sub)
	}
}

// consume drains a single subscription until it fails or shutdown is
// signaled.
func (w *Worker) consume(ctx context.Context, sub ledger.Subscription) {
	defer sub.Unsubscribe()

	for {
		select {
		case event, open := <-sub.Events():
			if !open {
				return
			}
			w.core.ApplyEvent(ctx, event)

		case err := <-sub.Err():
			w.evHandler("worker: eventOperations: stream: ERROR: %s", err)
			if !w.sleep(resubscribeDelay) {
				return
			}
			return

		case <-w.shut:
			w.evHandler("worker: eventOperations: received shut signal")
			return
		}
	}
}

// sleep waits for the duration unless shutdown is signaled first. It
// reports whether the worker should keep running.
func (w *Worker) sleep(d time.Duration) bool {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-timer.C:
		return true
	case <-w.shut:
		return false
	}
}

// isShutdown is used to test if a shutdown has been signaled.
func (w *Worker) isShutdown() bool {
	select {
	case <-w.shut:
		return true
	default:
		return false
	}
}

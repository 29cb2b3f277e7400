package scheduler_test

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/daofund/governance/foundation/scheduler"
)

// Success and failure markers.
const (
	success = "✓"
	failed  = "✗"
)

// =============================================================================

func Test_Scheduler(t *testing.T) {
	t.Log("Given the need to run named periodic tasks.")
	{
		t.Log("\tTest 0:\tWhen starting and shutting down a task.")
		{
			s := scheduler.New(func(v string, args ...any) {
				t.Logf("\t\tEVENT: "+v, args...)
			})

			var ticks int32
			task := func(ctx context.Context, now time.Time, last time.Time) error {
				atomic.AddInt32(&ticks, 1)
				return nil
			}

			if err := s.Register("counter", 5*time.Millisecond, task); err != nil {
				t.Fatalf("\t%s\tTest 0:\tShould be able to register the task: %v", failed, err)
			}
			t.Logf("\t%s\tTest 0:\tShould be able to register the task.", success)

			if err := s.Register("counter", time.Second, task); err == nil {
				t.Fatalf("\t%s\tTest 0:\tShould reject a duplicate registration.", failed)
			}
			t.Logf("\t%s\tTest 0:\tShould reject a duplicate registration.", success)

			if err := s.Start("counter"); err != nil {
				t.Fatalf("\t%s\tTest 0:\tShould be able to start the task: %v", failed, err)
			}
			t.Logf("\t%s\tTest 0:\tShould be able to start the task.", success)

			time.Sleep(50 * time.Millisecond)
			s.Shutdown()

			got := atomic.LoadInt32(&ticks)
			if got == 0 {
				t.Errorf("\t%s\tTest 0:\tShould have executed the task at least once.", failed)
			} else {
				t.Logf("\t%s\tTest 0:\tShould have executed the task at least once.", success)
			}

			// The scheduler is down. The count must not move anymore.
			time.Sleep(20 * time.Millisecond)
			if atomic.LoadInt32(&ticks) != got {
				t.Errorf("\t%s\tTest 0:\tShould not execute after shutdown.", failed)
			} else {
				t.Logf("\t%s\tTest 0:\tShould not execute after shutdown.", success)
			}
		}

		t.Log("\tTest 1:\tWhen stopping a single task.")
		{
			s := scheduler.New(nil)

			var ticks int32
			task := func(ctx context.Context, now time.Time, last time.Time) error {
				atomic.AddInt32(&ticks, 1)
				return nil
			}

			if err := s.Register("counter", 5*time.Millisecond, task); err != nil {
				t.Fatalf("\t%s\tTest 1:\tShould be able to register the task: %v", failed, err)
			}

			if err := s.Start("missing"); err == nil {
				t.Fatalf("\t%s\tTest 1:\tShould reject starting an unknown task.", failed)
			}
			t.Logf("\t%s\tTest 1:\tShould reject starting an unknown task.", success)

			if err := s.Start("counter"); err != nil {
				t.Fatalf("\t%s\tTest 1:\tShould be able to start the task: %v", failed, err)
			}

			time.Sleep(30 * time.Millisecond)

			if err := s.Stop("counter"); err != nil {
				t.Fatalf("\t%s\tTest 1:\tShould be able to stop the task: %v", failed, err)
			}
			t.Logf("\t%s\tTest 1:\tShould be able to stop the task.", success)

			// Stopping again is a no-op.
			if err := s.Stop("counter"); err != nil {
				t.Fatalf("\t%s\tTest 1:\tShould tolerate a double stop: %v", failed, err)
			}
			t.Logf("\t%s\tTest 1:\tShould tolerate a double stop.", success)

			got := atomic.LoadInt32(&ticks)
			time.Sleep(20 * time.Millisecond)
			if atomic.LoadInt32(&ticks) != got {
				t.Errorf("\t%s\tTest 1:\tShould not execute after stop.", failed)
			} else {
				t.Logf("\t%s\tTest 1:\tShould not execute after stop.", success)
			}

			s.Shutdown()
		}

		t.Log("\tTest 2:\tWhen the task reports the previous run time.")
		{
			s := scheduler.New(nil)

			var sawZero int32
			var sawLast int32
			task := func(ctx context.Context, now time.Time, last time.Time) error {
				if last.IsZero() {
					atomic.StoreInt32(&sawZero, 1)
					return nil
				}
				if last.Before(now) {
					atomic.StoreInt32(&sawLast, 1)
				}
				return nil
			}

			if err := s.Register("times", 5*time.Millisecond, task); err != nil {
				t.Fatalf("\t%s\tTest 2:\tShould be able to register the task: %v", failed, err)
			}
			if err := s.Start("times"); err != nil {
				t.Fatalf("\t%s\tTest 2:\tShould be able to start the task: %v", failed, err)
			}

			time.Sleep(50 * time.Millisecond)
			s.Shutdown()

			if atomic.LoadInt32(&sawZero) != 1 {
				t.Errorf("\t%s\tTest 2:\tShould see a zero last time on the first run.", failed)
			} else {
				t.Logf("\t%s\tTest 2:\tShould see a zero last time on the first run.", success)
			}
			if atomic.LoadInt32(&sawLast) != 1 {
				t.Errorf("\t%s\tTest 2:\tShould see the previous run time afterwards.", failed)
			} else {
				t.Logf("\t%s\tTest 2:\tShould see the previous run time afterwards.", success)
			}
		}

		t.Log("\tTest 3:\tWhen restarting a stopped task.")
		{
			s := scheduler.New(nil)

			var ticks int32
			task := func(ctx context.Context, now time.Time, last time.Time) error {
				atomic.AddInt32(&ticks, 1)
				return nil
			}

			if err := s.Register("counter", 5*time.Millisecond, task); err != nil {
				t.Fatalf("\t%s\tTest 3:\tShould be able to register the task: %v", failed, err)
			}
			if err := s.Start("counter"); err != nil {
				t.Fatalf("\t%s\tTest 3:\tShould be able to start the task: %v", failed, err)
			}

			time.Sleep(30 * time.Millisecond)

			// Stop waits for the task goroutine, so the restart below
			// runs against fresh state.
			if err := s.Stop("counter"); err != nil {
				t.Fatalf("\t%s\tTest 3:\tShould be able to stop the task: %v", failed, err)
			}
			got := atomic.LoadInt32(&ticks)

			if err := s.Start("counter"); err != nil {
				t.Fatalf("\t%s\tTest 3:\tShould be able to restart the task: %v", failed, err)
			}
			t.Logf("\t%s\tTest 3:\tShould be able to restart the task.", success)

			time.Sleep(30 * time.Millisecond)
			s.Shutdown()

			if atomic.LoadInt32(&ticks) <= got {
				t.Errorf("\t%s\tTest 3:\tShould execute again after the restart.", failed)
			} else {
				t.Logf("\t%s\tTest 3:\tShould execute again after the restart.", success)
			}
		}
	}
}

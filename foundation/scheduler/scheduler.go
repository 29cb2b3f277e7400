// Package scheduler manages a set of named periodic tasks that can be
// started and stopped independently of each other.
package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// EventHandler defines a function that is called when events
// occur in the running of scheduled tasks.
type EventHandler func(v string, args ...any)

// Task defines a function that is executed on every tick of a registered
// task. The function receives the current time and the time of the previous
// run so it can operate without keeping state of its own.
type Task func(ctx context.Context, now time.Time, last time.Time) error

// task maintains individual task state. The ticker, shut, and done
// fields belong to a single run and are replaced on every Start.
type task struct {
	name     string
	interval time.Duration
	fn       Task
	ticker   *time.Ticker
	shut     chan struct{}
	done     chan struct{}
	last     time.Time
	running  bool
}

// Scheduler owns the set of registered tasks and the goroutines that
// execute them.
type Scheduler struct {
	evHandler EventHandler
	wg        sync.WaitGroup
	mu        sync.Mutex
	tasks     map[string]*task
}

// New constructs a scheduler with no tasks registered.
func New(evHandler EventHandler) *Scheduler {
	ev := func(v string, args ...any) {
		if evHandler != nil {
			evHandler(v, args...)
		}
	}

	return &Scheduler{
		evHandler: ev,
		tasks:     make(map[string]*task),
	}
}

// Register adds a named task to the scheduler. The task will not execute
// until Start is called for it.
func (s *Scheduler) Register(name string, interval time.Duration, fn Task) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.tasks[name]; exists {
		return fmt.Errorf("task %q already registered", name)
	}

	s.tasks[name] = &task{
		name:     name,
		interval: interval,
		fn:       fn,
	}

	return nil
}

// Start launches the goroutine executing the specified task on its
// interval. Starting a running task is a no-op.
func (s *Scheduler) Start(name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, exists := s.tasks[name]
	if !exists {
		return fmt.Errorf("task %q not registered", name)
	}
	if t.running {
		return nil
	}

	t.ticker = time.NewTicker(t.interval)
	t.shut = make(chan struct{})
	t.done = make(chan struct{})
	t.running = true

	// We don't want to return until we know the G is up and running.
	hasStarted := make(chan bool)

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		hasStarted <- true
		s.run(t)
	}()

	<-hasStarted
	return nil
}

// Stop terminates the goroutine executing the specified task and waits
// for it to exit, so a later Start never shares run state with the
// previous run. Stopping a stopped task is a no-op.
func (s *Scheduler) Stop(name string) error {
	s.mu.Lock()

	t, exists := s.tasks[name]
	if !exists {
		s.mu.Unlock()
		return fmt.Errorf("task %q not registered", name)
	}
	if !t.running {
		s.mu.Unlock()
		return nil
	}

	t.ticker.Stop()
	close(t.shut)
	t.running = false
	done := t.done
	s.mu.Unlock()

	<-done
	return nil
}

// Shutdown stops all running tasks and waits for their goroutines
// to terminate.
func (s *Scheduler) Shutdown() {
	s.evHandler("scheduler: shutdown: started")
	defer s.evHandler("scheduler: shutdown: completed")

	s.mu.Lock()
	for _, t := range s.tasks {
		if t.running {
			t.ticker.Stop()
			close(t.shut)
			t.running = false
		}
	}
	s.mu.Unlock()

	s.wg.Wait()
}

// run executes the task on every tick until the task is stopped.
func (s *Scheduler) run(t *task) {
	s.evHandler("scheduler: %s: G started", t.name)
	defer s.evHandler("scheduler: %s: G completed", t.name)
	defer close(t.done)

	for {
		select {
		case now := <-t.ticker.C:
			ctx, cancel := context.WithTimeout(context.Background(), t.interval)
			if err := t.fn(ctx, now, t.last); err != nil {
				s.evHandler("scheduler: %s: ERROR: %s", t.name, err)
			}
			cancel()
			t.last = now

		case <-t.shut:
			s.evHandler("scheduler: %s: received shut signal", t.name)
			return
		}
	}
}

// Package sched provides a cancellable handle for periodic cooperative
// callbacks. The animation loop and the playback time sampler are both
// bounded-lifetime tasks that must stop when their triggering condition goes
// away or their owner is disposed; a Task makes that teardown structural
// instead of a manually tracked timer id.
package sched

import (
	"sync"
	"time"
)

// Task is a handle to a running periodic callback
type Task struct {
	stop chan struct{}
	once sync.Once
	done chan struct{}
}

// Start invokes fn every interval until fn returns false or Stop is called
func Start(interval time.Duration, fn func(now time.Time) bool) *Task {
	t := &Task{
		stop: make(chan struct{}),
		done: make(chan struct{}),
	}

	go func() {
		defer close(t.done)
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-t.stop:
				return
			case now := <-ticker.C:
				if !fn(now) {
					return
				}
			}
		}
	}()

	return t
}

// Stop cancels the task. Safe to call any number of times. An already running
// callback invocation may still complete; use Done to wait for it.
func (t *Task) Stop() {
	t.once.Do(func() { close(t.stop) })
}

// Done is closed once the task's goroutine has exited and no further
// callbacks can fire.
func (t *Task) Done() <-chan struct{} {
	return t.done
}

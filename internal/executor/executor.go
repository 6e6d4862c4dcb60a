/*
 * Copyright (c) 2026 Firefly Software Solutions Inc.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

/*
Package executor implements the persistence core's external executor
collaborator (spec.md §6, component E1): a single-writer serialised task
queue that additionally buffers tasks submitted before the log has
finished loading.

Grounded on weaviate-weaviate's asyncwriter
(adapters/repos/db/asyncwriter/async_queued_writer.go): a background
goroutine drains a channel of pending work one item at a time, and a
golang.org/x/sync/semaphore.Weighted(1) is used as a single-owner gate
rather than a plain mutex, matching that file's use of the same
primitive to serialise its writer goroutine against Flush/Close callers.
*/
package executor

import (
	"context"
	"sync"

	"golang.org/x/sync/semaphore"

	"ledgerdb/internal/logging"
)

// Task is a unit of work dispatched one-at-a-time, in submission order.
type Task func()

// Executor serialises Task execution through a single background
// goroutine. Before Release is called, submitted tasks are held in a
// buffer instead of running; Release drains the buffer in order and
// then switches the Executor into direct-dispatch mode.
type Executor struct {
	log *logging.Logger

	mu       sync.Mutex
	buffered []Task
	released bool
	closed   bool

	tasks chan Task
	gate  *semaphore.Weighted

	wg   sync.WaitGroup
	done chan struct{}
}

// New creates an Executor in the buffering state: tasks submitted via
// Submit are held until Release is called.
func New() *Executor {
	e := &Executor{
		log:   logging.NewLogger("executor"),
		tasks: make(chan Task, 64),
		gate:  semaphore.NewWeighted(1),
		done:  make(chan struct{}),
	}
	e.wg.Add(1)
	go e.run()
	return e
}

func (e *Executor) run() {
	defer e.wg.Done()
	for {
		select {
		case task, ok := <-e.tasks:
			if !ok {
				return
			}
			e.execute(task)
		case <-e.done:
			// Drain whatever is already queued before exiting so a
			// Close racing with in-flight Submits never drops work
			// that was already accepted.
			for {
				select {
				case task := <-e.tasks:
					e.execute(task)
				default:
					return
				}
			}
		}
	}
}

func (e *Executor) execute(task Task) {
	ctx := context.Background()
	if err := e.gate.Acquire(ctx, 1); err != nil {
		e.log.Error("failed to acquire single-writer gate", "error", err)
		return
	}
	defer e.gate.Release(1)
	task()
}

// Submit enqueues task for serialised execution. Before Release has
// been called, task is buffered rather than dispatched. Submit never
// blocks the caller on task's own completion; callers that need to
// observe completion should close over a completion channel in task.
func (e *Executor) Submit(task Task) {
	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return
	}
	if !e.released {
		e.buffered = append(e.buffered, task)
		e.mu.Unlock()
		return
	}
	e.mu.Unlock()
	e.tasks <- task
}

// Release flushes every task buffered before load completed, in
// submission order, then switches the Executor into direct-dispatch
// mode for all future Submit calls. Release is idempotent.
func (e *Executor) Release() {
	e.mu.Lock()
	if e.released {
		e.mu.Unlock()
		return
	}
	pending := e.buffered
	e.buffered = nil
	e.released = true
	e.mu.Unlock()

	for _, task := range pending {
		e.tasks <- task
	}
}

// Close waits for the in-flight and queued tasks to finish, then stops
// the background goroutine. No further Submit calls will be dispatched
// afterward.
func (e *Executor) Close() {
	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return
	}
	e.closed = true
	e.mu.Unlock()

	close(e.done)
	e.wg.Wait()
}

// RunSync submits fn and blocks until it has completed, returning
// whatever error fn reports. Used by callers (the persistence
// controller's append/compact/close) that must observe the outcome of a
// single task synchronously rather than fire-and-forget. RunSync must
// never be called before Release: a task submitted to an unreleased
// Executor is only buffered, not dispatched, so RunSync would block
// forever waiting on a result that Release alone can unblock.
func RunSync(e *Executor, fn func() error) error {
	result := make(chan error, 1)
	e.Submit(func() {
		result <- fn()
	})
	return <-result
}

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

package persistence

import (
	"sync"
	"time"
)

// MinAutocompactionInterval is the floor spec.md §4.5 clamps
// set_autocompaction's interval to.
const MinAutocompactionInterval = 5 * time.Second

// autocompactor runs a non-overlapping timer loop: the next tick is
// armed only once the previous compaction attempt has finished,
// grounded on the teacher's checkpoint loop
// (internal/storage/disk/checkpoint.go's checkpointLoop) which uses a
// time.Ticker instead, but this operation's compaction can itself take
// longer than the interval, so a self-rearming time.Timer is used here
// in place of a Ticker to guarantee ticks never queue up.
type autocompactor struct {
	interval  time.Duration
	minWrites int

	stop chan struct{}
	done chan struct{}

	once sync.Once
}

// startAutocompaction cancels any previously running timer and starts
// a new one. Interval is clamped to MinAutocompactionInterval.
func (c *Controller) startAutocompaction(interval time.Duration, minWrites int) {
	c.stopAutocompaction()

	if interval < MinAutocompactionInterval {
		interval = MinAutocompactionInterval
	}

	a := &autocompactor{
		interval:  interval,
		minWrites: minWrites,
		stop:      make(chan struct{}),
		done:      make(chan struct{}),
	}
	c.mu.Lock()
	c.auto = a
	c.mu.Unlock()

	go a.run(c)
}

// stopAutocompaction cancels the pending timer, if any. It never
// interrupts a compaction already in flight; it only prevents the next
// one from being armed. Idempotent.
func (c *Controller) stopAutocompaction() {
	c.mu.Lock()
	a := c.auto
	c.auto = nil
	c.mu.Unlock()

	if a == nil {
		return
	}
	a.once.Do(func() { close(a.stop) })
	<-a.done
}

func (a *autocompactor) run(c *Controller) {
	defer close(a.done)

	timer := time.NewTimer(a.interval)
	defer timer.Stop()

	for {
		select {
		case <-a.stop:
			return
		case <-timer.C:
			if c.WrittenSinceCompaction() >= a.minWrites {
				c.Compact(true)
			}
			select {
			case <-a.stop:
				return
			default:
				timer.Reset(a.interval)
			}
		}
	}
}

// SetAutocompaction starts a background timer that, on each
// non-overlapping tick, compacts the log if at least minWrites
// appends have landed since the last compaction. Calling it again
// replaces any previously running timer.
func (c *Controller) SetAutocompaction(interval time.Duration, minWrites int) {
	if c.opts.InMemoryOnly {
		return
	}
	c.startAutocompaction(interval, minWrites)
}

// StopAutocompaction cancels the autocompaction timer. It is a no-op
// if none is running.
func (c *Controller) StopAutocompaction() {
	c.stopAutocompaction()
}

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
	"os"
	"path/filepath"
	"sync"

	"ledgerdb/internal/codec"
	"ledgerdb/internal/collection"
	"ledgerdb/internal/config"
	"ledgerdb/internal/document"
	cerrors "ledgerdb/internal/errors"
	"ledgerdb/internal/executor"
	"ledgerdb/internal/fold"
	"ledgerdb/internal/fsutil"
	"ledgerdb/internal/logging"
	"ledgerdb/internal/metrics"
)

// Controller is the persistence core's public contract (spec.md §4.5,
// component C5): open/load, append, compact, set_autocompaction and
// close, orchestrated through a single-writer Executor.
type Controller struct {
	opts    config.Options
	codec   *codec.Codec
	coll    *collection.Collection
	exec    *executor.Executor
	metrics *metrics.Metrics
	log     *logging.Logger

	mu           sync.Mutex
	file         *os.File
	writtenSince int

	auto *autocompactor
}

// New constructs a Controller. Options are validated but no I/O is
// performed until Open is called.
func New(opts config.Options, coll *collection.Collection, m *metrics.Metrics) (*Controller, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	cd, err := codec.New(opts.AfterSerialization, opts.BeforeDeserialization)
	if err != nil {
		return nil, err
	}
	if m == nil {
		m = metrics.New()
	}
	c := &Controller{
		opts:    opts,
		codec:   cd,
		coll:    coll,
		exec:    executor.New(),
		metrics: m,
		log:     logging.NewLogger("persistence"),
	}
	return c, nil
}

// Open performs spec.md §4.5's load() sequence: ensure the directory
// exists, run the integrity pass, stream and fold the log, install the
// resulting state, open the log for append, run a reopen compaction, then
// release any executor tasks buffered while Open was in flight.
//
// load runs directly on the calling goroutine rather than through the
// executor: the executor starts in its pre-Release buffering state, and
// a task submitted to it before Release only sits in the buffer — it is
// never dispatched, so routing load() through Submit/RunSync here would
// deadlock waiting on its own result. load is exactly the operation
// responsible for lifting that buffering state, so it must run outside
// it; Release, once load completes, flushes whatever callers queued
// while Open was in flight.
//
// In-memory-only mode skips all I/O and reports success immediately.
func (c *Controller) Open() error {
	if c.opts.InMemoryOnly {
		c.exec.Release()
		return nil
	}

	err := c.load()
	c.exec.Release()
	return err
}

func (c *Controller) load() error {
	if err := fsutil.MkdirP(filepath.Dir(c.opts.Filename)); err != nil {
		return err
	}
	if err := fsutil.EnsureDatafileIntegrity(c.opts.Filename); err != nil {
		return err
	}

	threshold := c.opts.ResolvedCorruptAlertThreshold()
	result, err := fold.Fold(c.opts.Filename, c.codec, threshold)
	if err != nil {
		c.coll.ResetIndexes(nil)
		return err
	}
	c.metrics.ObserveFold(result.Corrupt, result.Total)

	c.coll.Reset(result.Live)
	indexes := result.Indexes
	if indexes == nil {
		indexes = map[string]document.IndexDeclaration{}
	}
	c.coll.ResetIndexes(indexes)

	f, err := fsutil.OpenAppend(c.opts.Filename)
	if err != nil {
		return cerrors.NewOpenFailure(c.opts.Filename, err)
	}
	c.mu.Lock()
	c.file = f
	c.writtenSince = 0
	c.mu.Unlock()

	if _, err := c.compactLocked(true); err != nil {
		return err
	}

	return nil
}

// Append encodes and appends new_docs as one atomic write, per
// spec.md §4.5's append() contract. An empty batch is a no-op.
func (c *Controller) Append(docs []*document.Document) error {
	if len(docs) == 0 {
		return nil
	}
	if c.opts.InMemoryOnly {
		return nil
	}
	return executor.RunSync(c.exec, func() error {
		return c.appendLocked(docs)
	})
}

func (c *Controller) appendLocked(docs []*document.Document) error {
	c.mu.Lock()
	f := c.file
	c.mu.Unlock()
	if f == nil {
		return cerrors.NewOpenFailure(c.opts.Filename, errNotOpen)
	}

	var payload []byte
	for _, doc := range docs {
		text, err := document.Serialize(doc)
		if err != nil {
			return cerrors.IOFailure("append_serialize", err)
		}
		line := c.codec.Encode(text) + "\n"
		payload = append(payload, line...)
	}

	if err := fsutil.Append(f, payload); err != nil {
		return err
	}
	if err := fsutil.Fsync(f); err != nil {
		return err
	}

	c.mu.Lock()
	c.writtenSince += len(docs)
	c.mu.Unlock()

	c.metrics.ObserveAppend(len(docs), len(payload))
	return nil
}

// Compact enqueues a compaction task on the executor, per spec.md
// §4.5's compact() contract. The returned error reflects the outcome
// of the rename (and reopen, if requested).
func (c *Controller) Compact(reopen bool) error {
	if c.opts.InMemoryOnly {
		return nil
	}
	return executor.RunSync(c.exec, func() error {
		_, err := c.compactLocked(reopen)
		return err
	})
}

func (c *Controller) compactLocked(reopen bool) (compactionResult, error) {
	result, err := runCompaction(c.coll, c.codec, c.opts.Filename, c.metrics, c.log)
	if err != nil {
		return compactionResult{}, err
	}

	c.mu.Lock()
	old := c.file
	c.mu.Unlock()

	if reopen {
		f, err := fsutil.OpenAppend(c.opts.Filename)
		if err != nil {
			return compactionResult{}, cerrors.NewOpenFailure(c.opts.Filename, err)
		}
		if old != nil {
			old.Close()
		}
		c.mu.Lock()
		c.file = f
		c.writtenSince = 0
		c.mu.Unlock()
	} else if old != nil {
		old.Close()
		c.mu.Lock()
		c.file = nil
		c.mu.Unlock()
	}

	c.coll.Emit(collection.EventCompactionDone, result.recordsWritten, result.bytesWritten)
	return result, nil
}

// Close runs a terminal compaction (reopen = false) and stops the
// executor. Close does not delete the log.
func (c *Controller) Close() error {
	if c.opts.InMemoryOnly {
		c.stopAutocompaction()
		c.exec.Close()
		return nil
	}

	err := executor.RunSync(c.exec, func() error {
		_, err := c.compactLocked(false)
		return err
	})
	c.stopAutocompaction()
	c.exec.Close()
	return err
}

// WrittenSinceCompaction reports the append count observed since the
// last compaction, consumed by the autocompaction timer.
func (c *Controller) WrittenSinceCompaction() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.writtenSince
}

var errNotOpen = notOpenError{}

type notOpenError struct{}

func (notOpenError) Error() string { return "persistence controller is not open" }

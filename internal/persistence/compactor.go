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
Package persistence implements the persistence core's compactor (C4)
and controller (C5): spec.md §4.4 and §4.5.

Grounded on the teacher's checkpoint manager
(internal/storage/disk/checkpoint.go): the same "flush, sync, publish,
count" shape, generalised from flushing dirty buffer-pool pages to
rewriting the whole live-document set, and from a checkpoint marker
file to a crash-safe rename that is the sole commit point.
*/
package persistence

import (
	"os"
	"sort"
	"time"

	"ledgerdb/internal/codec"
	"ledgerdb/internal/collection"
	"ledgerdb/internal/document"
	cerrors "ledgerdb/internal/errors"
	"ledgerdb/internal/fsutil"
	"ledgerdb/internal/logging"
	"ledgerdb/internal/metrics"
)

// compactionResult reports what a single compact() pass accomplished,
// for controller bookkeeping and tests.
type compactionResult struct {
	recordsWritten int
	bytesWritten   int
}

// runCompaction implements spec.md §4.4's eight-step protocol. c is the
// live-document/index state to rewrite; logPath is the log's current
// path. When reopen is true, the returned *os.File-equivalent append
// handle is installed by the caller; runCompaction itself only
// produces the rewritten file at logPath and leaves opening it for
// append to the caller, since only the controller knows whether a
// prior descriptor must be closed first.
func runCompaction(c *collection.Collection, cd *codec.Codec, logPath string, m *metrics.Metrics, log *logging.Logger) (compactionResult, error) {
	start := time.Now()

	backupPath := fsutil.BackupPath(logPath)

	currentSize := int64(0)
	if fi, err := statSize(logPath); err == nil {
		currentSize = fi
	}
	prealloc := fsutil.MinPreallocationSize
	if currentSize > int64(prealloc) {
		prealloc = int(currentSize)
	}

	// The backup target must always start empty: if a prior compaction
	// died after writing a partial backup but before its rename, opening
	// for append here would tack this rewrite onto that stale content
	// instead of replacing it.
	f, err := fsutil.OpenTruncate(backupPath)
	if err != nil {
		return compactionResult{}, err
	}
	fsutil.Preallocate(f, int64(prealloc))

	var writeErr error
	recordsWritten := 0
	bytesWritten := 0

	c.ForEach(func(doc *document.Document) {
		if writeErr != nil {
			return
		}
		if err := writeRecord(f, cd, doc); err != nil {
			writeErr = err
			return
		}
		recordsWritten++
	})

	if writeErr == nil {
		indexes := c.Indexes()
		fieldNames := make([]string, 0, len(indexes))
		for fieldName := range indexes {
			fieldNames = append(fieldNames, fieldName)
		}
		sort.Strings(fieldNames)

		for _, fieldName := range fieldNames {
			indexDoc := document.NewIndexCreated(indexes[fieldName])
			if err := writeRecord(f, cd, indexDoc); err != nil {
				writeErr = err
				break
			}
			recordsWritten++
		}
	}

	if writeErr == nil {
		writeErr = fsutil.Fsync(f)
	}
	closeErr := f.Close()
	if writeErr == nil {
		writeErr = closeErr
	}
	if writeErr != nil {
		return compactionResult{}, writeErr
	}

	if err := fsutil.CrashSafeRename(backupPath, logPath); err != nil {
		return compactionResult{}, err
	}

	if fi, err := statSize(logPath); err == nil {
		bytesWritten = int(fi)
	}

	if m != nil {
		m.ObserveCompaction(time.Since(start))
	}
	if log != nil {
		log.Info("compaction complete", "records", recordsWritten, "bytes", bytesWritten)
	}

	return compactionResult{recordsWritten: recordsWritten, bytesWritten: bytesWritten}, nil
}

func writeRecord(f interface{ Write([]byte) (int, error) }, cd *codec.Codec, doc *document.Document) error {
	text, err := document.Serialize(doc)
	if err != nil {
		return cerrors.IOFailure("compact_serialize", err)
	}
	line := cd.Encode(text) + "\n"
	n, err := f.Write([]byte(line))
	if err != nil {
		return cerrors.IOFailure("compact_write", err)
	}
	if n != len(line) {
		return cerrors.IOFailure("compact_write", errShortWrite)
	}
	return nil
}

var errShortWrite = shortWriteError{}

type shortWriteError struct{}

func (shortWriteError) Error() string { return "short write during compaction" }

func statSize(path string) (int64, error) {
	info, err := os.Stat(path)
	if err != nil {
		return 0, err
	}
	return info.Size(), nil
}

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
Package fsutil implements the persistence core's "storage" external
collaborator (spec.md §6, component E2): mkdir-p, append, a crash-safe
rename, an fsync wrapper, and the datafile integrity pass that resolves an
orphaned backup file left by a compaction that died before its rename.

Grounded on the teacher's internal/storage/wal.go (OpenWAL's
directory-creation and wrapPathError conventions) and the rename-based
compaction idiom used throughout the retrieved corpus, e.g.
weaviate-weaviate/adapters/repos/db/lsmkv/segment_group_compaction.go's
os.Rename-to-publish pattern.
*/
package fsutil

import (
	"fmt"
	"os"
	"path/filepath"

	cerrors "ledgerdb/internal/errors"
)

// BackupSuffix is appended to a log's path to name its in-progress
// compaction target (spec.md §3 "Backup file").
const BackupSuffix = "~"

// BackupPath returns the backup sibling of a log path.
func BackupPath(logPath string) string {
	return logPath + BackupSuffix
}

// wrapPathError adds the failing path and operation to an *os.PathError,
// mirroring the teacher's wrapPathError in internal/storage/wal.go.
func wrapPathError(err error, path string, operation string) error {
	if os.IsPermission(err) {
		return fmt.Errorf("permission denied: cannot %s %q: %w", operation, path, err)
	}
	return fmt.Errorf("failed to %s %q: %w", operation, path, err)
}

// MkdirP ensures the directory containing path exists.
func MkdirP(dir string) error {
	if dir == "" || dir == "." {
		return nil
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return cerrors.IOFailure("mkdir_p", wrapPathError(err, dir, "create directory"))
	}
	return nil
}

// OpenAppend opens path for append-update: existing content is preserved,
// writes land at the end, and the descriptor is also readable. The
// integrity pass and the log reader work from the path, not from this
// descriptor.
func OpenAppend(path string) (*os.File, error) {
	if err := MkdirP(filepath.Dir(path)); err != nil {
		return nil, err
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_RDWR|os.O_APPEND, 0644)
	if err != nil {
		return nil, cerrors.NewOpenFailure(path, wrapPathError(err, path, "open"))
	}
	return f, nil
}

// OpenTruncate opens path for a from-scratch rewrite: any existing content
// (e.g. a stale backup left by a compaction that died before its rename) is
// discarded first, so the returned descriptor always starts empty. Used by
// the compactor, which must never append its rewrite onto a leftover
// partial backup.
func OpenTruncate(path string) (*os.File, error) {
	if err := MkdirP(filepath.Dir(path)); err != nil {
		return nil, err
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_RDWR|os.O_TRUNC, 0644)
	if err != nil {
		return nil, cerrors.NewOpenFailure(path, wrapPathError(err, path, "open"))
	}
	return f, nil
}

// Append writes data to f and reports an IOFailure on any short write or
// error; a batch either lands in full or is not reported as successful.
func Append(f *os.File, data []byte) error {
	n, err := f.Write(data)
	if err != nil {
		return cerrors.IOFailure("append", err)
	}
	if n != len(data) {
		return cerrors.IOFailure("append", fmt.Errorf("short write: wrote %d of %d bytes", n, len(data)))
	}
	return nil
}

// Fsync flushes f's data to stable storage. Some platforms/filesystems do
// not support fsync on every descriptor; such failures are reported, not
// silently ignored, since fsync is the durability boundary the spec
// relies on for append atomicity.
func Fsync(f *os.File) error {
	if err := f.Sync(); err != nil {
		return cerrors.IOFailure("fsync", err)
	}
	return nil
}

// CrashSafeRename publishes src as dst atomically. os.Rename is atomic on
// both POSIX and Windows when src and dst share a filesystem/volume; this
// wrapper additionally fsyncs the destination directory on POSIX so the
// rename itself survives a crash, not just the renamed file's content.
func CrashSafeRename(src, dst string) error {
	if err := os.Rename(src, dst); err != nil {
		return cerrors.IOFailure("crash_safe_rename", wrapPathError(err, src, "rename"))
	}
	fsyncDir(filepath.Dir(dst))
	return nil
}

// MinPreallocationSize is the floor for the compactor's best-effort space
// reservation on the backup file (spec.md §4.4 step 1).
const MinPreallocationSize = 32 * 1024

// Preallocate makes a best-effort space reservation of size bytes on f.
// Failure is never fatal: the reservation is an optimisation, not a
// correctness requirement, and its underlying syscall is not portable
// (spec.md §9).
func Preallocate(f *os.File, size int64) {
	_ = preallocate(f.Fd(), size)
}

// EnsureDatafileIntegrity resolves an orphaned backup file left behind by
// a compaction that died before (or during) its rename, per spec.md §3:
// "If a backup file exists at open time, exactly one of {log, backup}
// contains a complete collection; the integrity pass ... guarantees only
// one remains afterwards."
//
//   - backup exists, log does not: the backup is the only complete copy
//     (e.g. the log was never created before the first compaction ran);
//     promote it by renaming it to the log path.
//   - backup exists, log exists: CrashSafeRename is the sole commit point
//     of a compaction (spec.md §4.4 step 6), so if the rename had
//     completed the backup would no longer exist. Its presence means the
//     rename never happened; the log is therefore still the last
//     complete state and the stale backup is discarded.
//   - backup does not exist: nothing to do.
func EnsureDatafileIntegrity(logPath string) error {
	backup := BackupPath(logPath)

	backupExists := fileExists(backup)
	if !backupExists {
		return nil
	}

	if !fileExists(logPath) {
		return CrashSafeRename(backup, logPath)
	}

	if err := os.Remove(backup); err != nil && !os.IsNotExist(err) {
		return cerrors.IOFailure("ensure_datafile_integrity", wrapPathError(err, backup, "remove stale backup"))
	}
	return nil
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

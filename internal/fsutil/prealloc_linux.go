//go:build linux
// +build linux

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

package fsutil

import (
	"os"
	"syscall"
)

// preallocate makes a best-effort space reservation using fallocate(2).
// Per spec.md §9 "Open questions": the flag this relies on is not
// portable across platforms, so failure here is never fatal — the caller
// treats it purely as an optimisation hint. FALLOC_FL_KEEP_SIZE reserves
// blocks without changing the file's reported size, so the reservation
// never shows up as trailing bytes in the written file.
func preallocate(fd uintptr, size int64) error {
	const fallocFlKeepSize = 0x1 // FALLOC_FL_KEEP_SIZE
	return syscall.Fallocate(int(fd), fallocFlKeepSize, 0, size)
}

// fsyncDir best-effort fsyncs a directory so a rename within it is
// durable, not just the renamed file's own content.
func fsyncDir(dir string) {
	d, err := os.Open(dir)
	if err != nil {
		return
	}
	defer d.Close()
	_ = d.Sync()
}

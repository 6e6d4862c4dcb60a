//go:build !linux
// +build !linux

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
	"fmt"
	"os"
)

// preallocate has no portable implementation outside Linux's fallocate(2).
// Per spec.md §9 the reservation is an optimisation only, so returning an
// error here is always safe for the caller to ignore.
func preallocate(fd uintptr, size int64) error {
	return fmt.Errorf("preallocate: not supported on this platform")
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

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
	"path/filepath"
	"testing"
)

func TestEnsureDatafileIntegrityPromotesOrphanedBackup(t *testing.T) {
	dir := t.TempDir()
	logPath := filepath.Join(dir, "data.db")
	backup := BackupPath(logPath)

	if err := os.WriteFile(backup, []byte(`{"_id":"a"}`+"\n"), 0644); err != nil {
		t.Fatalf("seed backup: %v", err)
	}

	if err := EnsureDatafileIntegrity(logPath); err != nil {
		t.Fatalf("EnsureDatafileIntegrity: %v", err)
	}

	if fileExists(backup) {
		t.Fatalf("backup should have been promoted away")
	}
	if !fileExists(logPath) {
		t.Fatalf("log should now exist")
	}
}

func TestEnsureDatafileIntegrityDiscardsStaleBackupWhenLogExists(t *testing.T) {
	dir := t.TempDir()
	logPath := filepath.Join(dir, "data.db")
	backup := BackupPath(logPath)

	if err := os.WriteFile(logPath, []byte(`{"_id":"a","x":1}`+"\n"), 0644); err != nil {
		t.Fatalf("seed log: %v", err)
	}
	if err := os.WriteFile(backup, []byte(`{"_id":"a","x":2}`+"\n"), 0644); err != nil {
		t.Fatalf("seed backup: %v", err)
	}

	if err := EnsureDatafileIntegrity(logPath); err != nil {
		t.Fatalf("EnsureDatafileIntegrity: %v", err)
	}

	if fileExists(backup) {
		t.Fatalf("stale backup should have been discarded")
	}
	data, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	if string(data) != `{"_id":"a","x":1}`+"\n" {
		t.Fatalf("log content changed: %q", data)
	}
}

func TestEnsureDatafileIntegrityNoopWithoutBackup(t *testing.T) {
	dir := t.TempDir()
	logPath := filepath.Join(dir, "data.db")
	if err := os.WriteFile(logPath, []byte("{}\n"), 0644); err != nil {
		t.Fatalf("seed log: %v", err)
	}
	if err := EnsureDatafileIntegrity(logPath); err != nil {
		t.Fatalf("EnsureDatafileIntegrity: %v", err)
	}
}

func TestOpenTruncateDiscardsExistingContent(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "data.db~")

	if err := os.WriteFile(path, []byte("stale content\n"), 0644); err != nil {
		t.Fatalf("seed: %v", err)
	}

	f, err := OpenTruncate(path)
	if err != nil {
		t.Fatalf("OpenTruncate: %v", err)
	}
	if err := Append(f, []byte("fresh\n")); err != nil {
		t.Fatalf("Append: %v", err)
	}
	if err := Fsync(f); err != nil {
		t.Fatalf("Fsync: %v", err)
	}
	f.Close()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if string(data) != "fresh\n" {
		t.Fatalf("content = %q, want stale content discarded", data)
	}
}

func TestAppendAndCrashSafeRename(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "data.db~")
	dst := filepath.Join(dir, "data.db")

	f, err := OpenAppend(src)
	if err != nil {
		t.Fatalf("OpenAppend: %v", err)
	}
	if err := Append(f, []byte("hello\n")); err != nil {
		t.Fatalf("Append: %v", err)
	}
	if err := Fsync(f); err != nil {
		t.Fatalf("Fsync: %v", err)
	}
	f.Close()

	if err := CrashSafeRename(src, dst); err != nil {
		t.Fatalf("CrashSafeRename: %v", err)
	}

	data, err := os.ReadFile(dst)
	if err != nil {
		t.Fatalf("read dst: %v", err)
	}
	if string(data) != "hello\n" {
		t.Fatalf("dst content = %q", data)
	}
	if fileExists(src) {
		t.Fatalf("src should no longer exist after rename")
	}
}

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

package reader

import (
	"os"
	"path/filepath"
	"testing"

	"ledgerdb/internal/codec"
)

func defaultCodec(t *testing.T) *codec.Codec {
	t.Helper()
	c, err := codec.New(nil, nil)
	if err != nil {
		t.Fatalf("codec.New: %v", err)
	}
	return c
}

func TestStreamMissingFileIsEmptyNotError(t *testing.T) {
	dir := t.TempDir()
	total, corrupt, err := Stream(filepath.Join(dir, "missing.db"), defaultCodec(t), func(Outcome) {
		t.Fatalf("visit should not be called for a missing file")
	})
	if err != nil {
		t.Fatalf("Stream: %v", err)
	}
	if total != 0 || corrupt != 0 {
		t.Fatalf("total=%d corrupt=%d, want 0, 0", total, corrupt)
	}
}

func TestStreamParsesWellFormedRecords(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "data.db")
	content := `{"_id":"a","x":1}` + "\n" + `{"_id":"b","x":2}` + "\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("seed: %v", err)
	}

	var ids []string
	total, corrupt, err := Stream(path, defaultCodec(t), func(o Outcome) {
		if o.Corrupt {
			t.Fatalf("unexpected corrupt record")
		}
		ids = append(ids, o.Doc.ID())
	})
	if err != nil {
		t.Fatalf("Stream: %v", err)
	}
	if total != 2 || corrupt != 0 {
		t.Fatalf("total=%d corrupt=%d, want 2, 0", total, corrupt)
	}
	if len(ids) != 2 || ids[0] != "a" || ids[1] != "b" {
		t.Fatalf("ids = %v", ids)
	}
}

func TestStreamCountsCorruptLines(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "data.db")
	content := `{"_id":"a","x":1}` + "\n" + "not json at all" + "\n" + `{"_id":"b","x":2}` + "\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("seed: %v", err)
	}

	var corruptSeen, parsedSeen int
	total, corrupt, err := Stream(path, defaultCodec(t), func(o Outcome) {
		if o.Corrupt {
			corruptSeen++
		} else {
			parsedSeen++
		}
	})
	if err != nil {
		t.Fatalf("Stream: %v", err)
	}
	if total != 3 || corrupt != 1 {
		t.Fatalf("total=%d corrupt=%d, want 3, 1", total, corrupt)
	}
	if corruptSeen != 1 || parsedSeen != 2 {
		t.Fatalf("corruptSeen=%d parsedSeen=%d", corruptSeen, parsedSeen)
	}
}

func TestStreamTrailingIncompleteRecordCountsAsOneCorrupt(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "data.db")
	content := `{"_id":"a","x":1}` + "\n" + `{"_id":"b","x":2}` // no trailing newline
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("seed: %v", err)
	}

	total, corrupt, err := Stream(path, defaultCodec(t), func(Outcome) {})
	if err != nil {
		t.Fatalf("Stream: %v", err)
	}
	if total != 2 || corrupt != 1 {
		t.Fatalf("total=%d corrupt=%d, want 2, 1", total, corrupt)
	}
}

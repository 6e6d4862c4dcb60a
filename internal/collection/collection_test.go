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

package collection

import (
	"testing"

	"ledgerdb/internal/document"
)

func doc(id string) *document.Document {
	d := document.New()
	d.Set(document.FieldID, id)
	return d
}

func TestResetAndForEachPreservesOrder(t *testing.T) {
	c := New()
	c.Reset([]*document.Document{doc("b"), doc("a"), doc("c")})

	var ids []string
	c.ForEach(func(d *document.Document) { ids = append(ids, d.ID()) })

	want := []string{"b", "a", "c"}
	if len(ids) != len(want) {
		t.Fatalf("ids = %v, want %v", ids, want)
	}
	for i := range want {
		if ids[i] != want[i] {
			t.Fatalf("ids = %v, want %v", ids, want)
		}
	}
}

func TestResetIndexesNilClears(t *testing.T) {
	c := New()
	c.ResetIndexes(map[string]document.IndexDeclaration{
		"k": {FieldName: "k", Unique: true},
	})
	if len(c.Indexes()) != 1 {
		t.Fatalf("Indexes() = %v, want 1 entry", c.Indexes())
	}
	c.ResetIndexes(nil)
	if len(c.Indexes()) != 0 {
		t.Fatalf("Indexes() = %v, want empty", c.Indexes())
	}
}

func TestEmitNotifiesListenersInOrder(t *testing.T) {
	c := New()
	var seen []string
	c.OnEvent(func(event string, args ...interface{}) { seen = append(seen, event+":1") })
	c.OnEvent(func(event string, args ...interface{}) { seen = append(seen, event+":2") })

	c.Emit(EventCompactionDone)

	if len(seen) != 2 || seen[0] != "compaction.done:1" || seen[1] != "compaction.done:2" {
		t.Fatalf("seen = %v", seen)
	}
}

func TestGetAndLen(t *testing.T) {
	c := New()
	c.Reset([]*document.Document{doc("a")})
	if c.Len() != 1 {
		t.Fatalf("Len() = %d, want 1", c.Len())
	}
	if _, ok := c.Get("missing"); ok {
		t.Fatalf("Get(missing) = ok, want not found")
	}
	if _, ok := c.Get("a"); !ok {
		t.Fatalf("Get(a) = not found, want ok")
	}
}

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

package document

import "testing"

func TestFieldOrderPreserved(t *testing.T) {
	d := New()
	d.Set("z", 1)
	d.Set("a", 2)
	d.Set("m", 3)

	got := d.Keys()
	want := []string{"z", "a", "m"}
	if len(got) != len(want) {
		t.Fatalf("Keys() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("Keys()[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestSetOverwriteKeepsPosition(t *testing.T) {
	d := New()
	d.Set("a", 1)
	d.Set("b", 2)
	d.Set("a", 99)

	if len(d.Keys()) != 2 {
		t.Fatalf("expected 2 keys after overwrite, got %d", len(d.Keys()))
	}
	if keys := d.Keys(); keys[0] != "a" || keys[1] != "b" {
		t.Fatalf("Keys() = %v, want [a b]", keys)
	}
	v, _ := d.Get("a")
	if v != 99 {
		t.Fatalf("Get(a) = %v, want 99", v)
	}
}

func TestTombstone(t *testing.T) {
	ts := NewTombstone("abc")
	if ts.ID() != "abc" {
		t.Fatalf("ID() = %q, want abc", ts.ID())
	}
	if !ts.IsTombstone() {
		t.Fatalf("expected tombstone")
	}

	d := New()
	d.Set(FieldID, "abc")
	d.Set("x", 1)
	if d.IsTombstone() {
		t.Fatalf("ordinary document misidentified as tombstone")
	}
}

func TestSerializeDeserializeRoundTrip(t *testing.T) {
	d := New()
	d.Set(FieldID, "a1")
	d.Set("name", "alice")
	d.Set("age", float64(30))
	d.Set("tags", []interface{}{"x", "y"})

	text, err := Serialize(d)
	if err != nil {
		t.Fatalf("Serialize: %v", err)
	}

	back, err := Deserialize(text)
	if err != nil {
		t.Fatalf("Deserialize: %v", err)
	}

	if back.ID() != "a1" {
		t.Fatalf("round-tripped ID = %q, want a1", back.ID())
	}
	gotKeys := back.Keys()
	wantKeys := []string{"_id", "name", "age", "tags"}
	if len(gotKeys) != len(wantKeys) {
		t.Fatalf("Keys() = %v, want %v", gotKeys, wantKeys)
	}
	for i := range wantKeys {
		if gotKeys[i] != wantKeys[i] {
			t.Fatalf("Keys()[%d] = %q, want %q", i, gotKeys[i], wantKeys[i])
		}
	}
}

func TestIndexDeclarationRoundTrip(t *testing.T) {
	decl := IndexDeclaration{FieldName: "email", Unique: true, Sparse: false}
	d := NewIndexCreated(decl)

	text, err := Serialize(d)
	if err != nil {
		t.Fatalf("Serialize: %v", err)
	}
	back, err := Deserialize(text)
	if err != nil {
		t.Fatalf("Deserialize: %v", err)
	}
	got, ok := back.IndexCreated()
	if !ok {
		t.Fatalf("expected index declaration after round trip")
	}
	if got != decl {
		t.Fatalf("IndexCreated() = %+v, want %+v", got, decl)
	}
}

func TestSerializeEscapesNewlinesInValues(t *testing.T) {
	d := New()
	d.Set(FieldID, "a1")
	d.Set("note", "line one\nline two")

	text, err := Serialize(d)
	if err != nil {
		t.Fatalf("Serialize: %v", err)
	}
	for _, r := range text {
		if r == '\n' {
			t.Fatalf("serialized record contains a raw newline: %q", text)
		}
	}

	back, err := Deserialize(text)
	if err != nil {
		t.Fatalf("Deserialize: %v", err)
	}
	v, _ := back.Get("note")
	if v != "line one\nline two" {
		t.Fatalf("round-tripped note = %q", v)
	}
}

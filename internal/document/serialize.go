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
Serialize and Deserialize implement the line-safe textual encoding of a
Document: spec.md §1 calls this the "codec collaborator" and keeps it out
of the core's remit, but something in the repository has to provide it, so
it lives here rather than in package codec (which holds only the optional
afterSerialization/beforeDeserialization string transform, per spec.md
§4.1/§6). Grounded on the field-by-field marshaling style of
internal/sql/jsonb.go, generalized to preserve field order on both sides
using encoding/json's token stream rather than map[string]interface{}
(which the teacher's JSONB layer accepts losing, since SQL columns are not
order-sensitive; our documents are).
*/
package document

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// Serialize renders a Document as a single line of JSON text containing no
// embedded newline. Field order is preserved.
func Serialize(d *Document) (string, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, key := range d.Keys() {
		if i > 0 {
			buf.WriteByte(',')
		}
		keyBytes, err := json.Marshal(key)
		if err != nil {
			return "", fmt.Errorf("serialize: encode key %q: %w", key, err)
		}
		buf.Write(keyBytes)
		buf.WriteByte(':')

		val, _ := d.Get(key)
		valBytes, err := json.Marshal(val)
		if err != nil {
			return "", fmt.Errorf("serialize: encode field %q: %w", key, err)
		}
		buf.Write(valBytes)
	}
	buf.WriteByte('}')

	out := buf.String()
	if strings.ContainsRune(out, '\n') {
		return "", fmt.Errorf("serialize: encoded record contains an embedded newline")
	}
	return out, nil
}

// Deserialize parses one line of JSON text back into a Document, field
// order preserved.
func Deserialize(s string) (*Document, error) {
	dec := json.NewDecoder(strings.NewReader(s))

	tok, err := dec.Token()
	if err != nil {
		return nil, fmt.Errorf("deserialize: %w", err)
	}
	delim, ok := tok.(json.Delim)
	if !ok || delim != '{' {
		return nil, fmt.Errorf("deserialize: expected object, got %v", tok)
	}

	d := New()
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return nil, fmt.Errorf("deserialize: reading key: %w", err)
		}
		key, ok := keyTok.(string)
		if !ok {
			return nil, fmt.Errorf("deserialize: non-string key %v", keyTok)
		}

		var val interface{}
		if err := dec.Decode(&val); err != nil {
			return nil, fmt.Errorf("deserialize: reading field %q: %w", key, err)
		}
		d.Set(key, normalizeValue(val))
	}

	if _, err := dec.Token(); err != nil {
		return nil, fmt.Errorf("deserialize: closing object: %w", err)
	}
	if dec.More() {
		return nil, fmt.Errorf("deserialize: trailing data after object")
	}
	return d, nil
}

// normalizeValue returns v unchanged: a decoded index declaration stays a
// map[string]interface{}, which Document.IndexCreated reads field by field.
// Numbers decode as float64.
func normalizeValue(v interface{}) interface{} {
	m, ok := v.(map[string]interface{})
	if !ok {
		return v
	}
	_, hasFieldName := m["fieldName"]
	if !hasFieldName {
		return v
	}
	return m
}

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
Package fold implements the persistence core's state folder (spec.md
§4.3, component C3): a last-writer-wins reduction of a record stream
into a live-document map and an index-declaration map.

Grounded on the teacher's WAL replay accumulator
(internal/storage/wal.go's replay loop, which folds redo records into a
memtable in stream order) generalised to the five-way record dispatch
this format requires: tombstone, live assignment, index-created,
index-removed, and otherwise-corrupt.
*/
package fold

import (
	"ledgerdb/internal/codec"
	cerrors "ledgerdb/internal/errors"
	"ledgerdb/internal/document"
	"ledgerdb/internal/reader"
)

// DefaultCorruptAlertThreshold is the fraction of corrupt records above
// which Fold refuses to return a state (spec.md §4.3).
const DefaultCorruptAlertThreshold = 0.1

// Result is the reconstructed in-memory state of a collection.
type Result struct {
	// Live holds the most recent non-tombstone document per _id, in
	// insertion order of each id's first appearance in the stream.
	Live []*document.Document
	// Indexes holds the most recent index declaration per field name.
	Indexes map[string]document.IndexDeclaration
	// Total is the number of records seen (well-formed and corrupt).
	Total int
	// Corrupt is the number of records that failed decode, failed
	// parse, or were structurally unrecognized by the fold rules.
	Corrupt int
}

// Fold streams path via reader.Stream and reduces it to a Result,
// applying the rules of spec.md §4.3 in stream order. It fails with
// CorruptionThresholdExceeded when corrupt/total exceeds threshold. The
// check is skipped when total is 0, whatever the threshold (an empty or
// nonexistent log is never corrupt).
func Fold(path string, c *codec.Codec, threshold float64) (Result, error) {
	live := make(map[string]*document.Document)
	order := make([]string, 0)
	seen := make(map[string]bool)
	indexes := make(map[string]document.IndexDeclaration)
	unstructured := 0

	total, readerCorrupt, err := reader.Stream(path, c, func(o reader.Outcome) {
		if o.Corrupt {
			return
		}
		if !apply(o.Doc, live, &order, seen, indexes) {
			unstructured++
		}
	})
	if err != nil {
		return Result{}, err
	}

	corrupt := readerCorrupt + unstructured
	if total > 0 && ratio(corrupt, total) > threshold {
		return Result{}, cerrors.NewCorruptionThresholdExceeded(corrupt, total, threshold)
	}

	out := Result{
		Live:    make([]*document.Document, 0, len(order)),
		Indexes: indexes,
		Total:   total,
		Corrupt: corrupt,
	}
	for _, id := range order {
		if doc, ok := live[id]; ok {
			out.Live = append(out.Live, doc)
		}
	}
	return out, nil
}

// apply dispatches a single parsed document per spec.md §4.3's five
// ordered rules, mutating live/order/indexes in place. order records
// each id once, at its first appearance anywhere in the stream —
// including a tombstone that precedes any insert — so a later
// delete-then-reinsert of the same id (a normal last-writer-wins
// interleaving) never yields a duplicate entry in Live. It reports
// false when none of the recognized shapes match, i.e. the record is
// structurally unstructured and must be counted as Corrupt.
func apply(doc *document.Document, live map[string]*document.Document, order *[]string, seen map[string]bool, indexes map[string]document.IndexDeclaration) bool {
	id := doc.ID()

	switch {
	case id != "" && doc.IsTombstone():
		delete(live, id)
		if !seen[id] {
			seen[id] = true
			*order = append(*order, id)
		}
		return true

	case id != "":
		if !seen[id] {
			seen[id] = true
			*order = append(*order, id)
		}
		live[id] = doc
		return true

	case indexCreatedFieldName(doc) != "":
		decl, _ := doc.IndexCreated()
		indexes[decl.FieldName] = decl
		return true

	case indexRemovedFieldName(doc) != "":
		fieldName, _ := doc.IndexRemoved()
		delete(indexes, fieldName)
		return true

	default:
		return false
	}
}

func indexCreatedFieldName(doc *document.Document) string {
	decl, ok := doc.IndexCreated()
	if !ok {
		return ""
	}
	return decl.FieldName
}

func indexRemovedFieldName(doc *document.Document) string {
	fieldName, ok := doc.IndexRemoved()
	if !ok {
		return ""
	}
	return fieldName
}

func ratio(corrupt, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(corrupt) / float64(total)
}

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

package codec

import "strings"

// lengthClasses are the string lengths the verification sample spans, per
// spec.md §3: "~300 synthetic strings spanning length classes." Lengths
// are deterministic (no randomness), so codec validation is reproducible
// across runs. 0..99 covers the empty string, single characters, and
// short-to-medium records; combined with three alphabets below this
// yields the ~300-string sample the spec calls for.
var lengthClasses = func() []int {
	classes := make([]int, 100)
	for i := range classes {
		classes[i] = i
	}
	return classes
}()

// alphabets cover the character classes a document codec is likely to see
// in the wild: plain ASCII, punctuation that could collide with JSON
// syntax, and multi-byte UTF-8.
var alphabets = []string{
	"abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789",
	` "'{}[]:,\` + "`",
	"é中🙂ñ日本語Ω",
}

// verificationSample generates the deterministic sample strings used to
// check that a user-supplied codec pair is invertible. It produces one
// string per (length class, alphabet) pair, plus a handful of fixed edge
// cases, for roughly 300 total strings.
func verificationSample() []string {
	samples := make([]string, 0, len(lengthClasses)*len(alphabets)+8)

	for _, alphabet := range alphabets {
		runes := []rune(alphabet)
		for _, length := range lengthClasses {
			var b strings.Builder
			for i := 0; i < length; i++ {
				b.WriteRune(runes[i%len(runes)])
			}
			samples = append(samples, b.String())
		}
	}

	// A few fixed edge cases worth naming explicitly rather than relying
	// on the generated sweep to happen to cover them.
	samples = append(samples,
		"",
		"\x00",
		`{"_id":"a","$$deleted":true}`,
		strings.Repeat("x", 4096),
		"\t\r\n",
	)

	return samples
}

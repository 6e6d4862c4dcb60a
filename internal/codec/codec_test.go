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

import (
	"strings"
	"testing"

	cerrors "ledgerdb/internal/errors"
)

func TestDefaultCodecIsIdentity(t *testing.T) {
	c, err := New(nil, nil)
	if err != nil {
		t.Fatalf("New(nil, nil): %v", err)
	}
	encoded := c.Encode("hello")
	if encoded != "hello" {
		t.Fatalf("Encode(hello) = %q, want hello", encoded)
	}
	decoded, err := c.Decode(encoded)
	if err != nil || decoded != "hello" {
		t.Fatalf("Decode(%q) = (%q, %v), want (hello, nil)", encoded, decoded, err)
	}
}

func TestOneHookWithoutTheOtherIsConfigurationInconsistent(t *testing.T) {
	_, err := New(strings.ToUpper, nil)
	if err == nil {
		t.Fatalf("expected ConfigurationInconsistent error")
	}
	if !cerrors.AsKind(err, cerrors.KindConfigurationInconsistent) {
		t.Fatalf("expected ConfigurationInconsistent, got %v", err)
	}
}

func TestInvertiblePairIsAccepted(t *testing.T) {
	encode := func(s string) string {
		return strings.Map(func(r rune) rune { return r + 1 }, s)
	}
	decode := func(s string) (string, error) {
		return strings.Map(func(r rune) rune { return r - 1 }, s), nil
	}

	c, err := New(encode, decode)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	got := c.Encode("abc")
	back, _ := c.Decode(got)
	if back != "abc" {
		t.Fatalf("round trip = %q, want abc", back)
	}
}

func TestNonInvertiblePairIsRejected(t *testing.T) {
	encode := func(s string) string { return s + "!" }
	decode := func(s string) (string, error) { return s, nil } // does not strip the suffix

	_, err := New(encode, decode)
	if err == nil {
		t.Fatalf("expected CodecNotInvertible error")
	}
	if !cerrors.AsKind(err, cerrors.KindCodecNotInvertible) {
		t.Fatalf("expected CodecNotInvertible, got %v", err)
	}
}

func TestVerificationSampleSizeMatchesSpec(t *testing.T) {
	n := len(verificationSample())
	if n < 250 || n > 400 {
		t.Fatalf("verificationSample() has %d entries, want roughly 300", n)
	}
}

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
Package codec implements the persistence core's optional record-text
transform hooks (spec.md §4.1, component C1).

A Codec is a pair of pure functions applied on top of the document's
line-safe textual form (package document's Serialize/Deserialize):

	AfterSerialization:  encoded-document-text -> stored-record-text
	BeforeDeserialization: stored-record-text -> encoded-document-text

Construction validates the pair: supplying one hook but not the other is
a ConfigurationInconsistent error, and the pair is exercised against a
synthetic sample spanning several string-length classes — if
BeforeDeserialization(AfterSerialization(x)) != x for any sample string,
construction fails with CodecNotInvertible. Grounded on the teacher's
encryption layer (internal/storage/encryption.go) and its own
construction-time validation pattern in internal/config/config.go's
Config.Validate, generalized from "validate a parsed config" to
"validate an invertible pair of user hooks."
*/
package codec

import (
	cerrors "ledgerdb/internal/errors"
)

// EncodeFunc transforms serialized document text before it is written to
// the log. It must not introduce an embedded newline.
type EncodeFunc func(string) string

// DecodeFunc reverses EncodeFunc. It may fail if the stored text was
// corrupted or was never produced by the matching EncodeFunc.
type DecodeFunc func(string) (string, error)

// Codec is the validated encode/decode pair used by the log reader and
// the appender/compactor.
type Codec struct {
	Encode EncodeFunc
	Decode DecodeFunc
}

func identityEncode(s string) string { return s }

func identityDecode(s string) (string, error) { return s, nil }

// New validates and returns a Codec. Supplying both encode and decode as
// nil yields the identity codec (the log stores exactly the document's
// serialized text). Supplying exactly one is a ConfigurationInconsistent
// error. A supplied pair is verified for invertibility over a synthetic
// sample before it is returned.
func New(encode EncodeFunc, decode DecodeFunc) (*Codec, error) {
	if encode == nil && decode == nil {
		return &Codec{Encode: identityEncode, Decode: identityDecode}, nil
	}
	if encode == nil || decode == nil {
		return nil, cerrors.NewConfigurationInconsistent(
			"afterSerialization and beforeDeserialization must both be supplied, or neither")
	}

	c := &Codec{Encode: encode, Decode: decode}
	if err := c.verify(); err != nil {
		return nil, err
	}
	return c, nil
}

// verify checks decode(encode(x)) == x over verificationSample.
func (c *Codec) verify() error {
	for _, sample := range verificationSample() {
		encoded := c.Encode(sample)
		decoded, err := c.Decode(encoded)
		if err != nil || decoded != sample {
			return cerrors.NewCodecNotInvertible(sample)
		}
	}
	return nil
}

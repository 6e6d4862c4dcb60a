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
Package errors implements the persistence core's error taxonomy.

Every error the core raises is one of a small, closed set of categories:

  - ConfigurationInconsistent — codec pair incomplete, or filename reserved.
    Fatal at construction.
  - CodecNotInvertible — the codec failed decode(encode(x)) == x on the
    verification sample. Fatal at construction.
  - IOFailure — an underlying storage operation failed; the original error
    is preserved and wrapped for a stack-annotated cause chain.
  - CorruptionThresholdExceeded — a fold saw too high a corrupt/total ratio.
  - OpenFailure — the log file could not be opened for append.

Callers distinguish categories with errors.Is against the sentinel
*CoreError values (or AsKind with a Kind), and recover the underlying OS error from an IOFailure with
errors.As or Unwrap.
*/
package errors

import (
	"fmt"

	pkgerrors "github.com/pkg/errors"
)

// Kind identifies which member of the taxonomy an error belongs to.
type Kind string

const (
	KindConfigurationInconsistent   Kind = "ConfigurationInconsistent"
	KindCodecNotInvertible          Kind = "CodecNotInvertible"
	KindIOFailure                   Kind = "IOFailure"
	KindCorruptionThresholdExceeded Kind = "CorruptionThresholdExceeded"
	KindOpenFailure                 Kind = "OpenFailure"
)

// CoreError is the structured error type raised by every public operation
// in the persistence core.
type CoreError struct {
	Kind    Kind
	Op      string // the operation that failed, e.g. "append", "compact"
	Message string
	Cause   error
}

func (e *CoreError) Error() string {
	if e.Op != "" {
		return fmt.Sprintf("%s: %s: %s", e.Kind, e.Op, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// Unwrap exposes the underlying cause so errors.Is/errors.As reach it.
func (e *CoreError) Unwrap() error {
	return e.Cause
}

// Is reports whether target is the same taxonomy Kind, so callers can
// write errors.Is(err, errors.ConfigurationInconsistent) without needing
// a distinct sentinel per constructor.
func (e *CoreError) Is(target error) bool {
	other, ok := target.(*CoreError)
	if !ok {
		return false
	}
	return other.Kind == e.Kind && other.Op == ""
}

// Sentinel CoreErrors for use with errors.Is. Only Kind is compared.
var (
	ConfigurationInconsistent   = &CoreError{Kind: KindConfigurationInconsistent}
	CodecNotInvertible          = &CoreError{Kind: KindCodecNotInvertible}
	IOFailureKind               = &CoreError{Kind: KindIOFailure}
	CorruptionThresholdExceeded = &CoreError{Kind: KindCorruptionThresholdExceeded}
	OpenFailureKind             = &CoreError{Kind: KindOpenFailure}
)

// NewConfigurationInconsistent reports a construction-time option conflict.
func NewConfigurationInconsistent(message string) *CoreError {
	return &CoreError{Kind: KindConfigurationInconsistent, Message: message}
}

// NewCodecNotInvertible reports that decode(encode(x)) != x for some x in
// the verification sample.
func NewCodecNotInvertible(sample string) *CoreError {
	return &CoreError{
		Kind:    KindCodecNotInvertible,
		Message: fmt.Sprintf("codec is not invertible on sample %q", sample),
	}
}

// IOFailure reports a failed storage operation, wrapping cause with a
// stack trace via github.com/pkg/errors so %+v on the returned error
// prints the original fault site.
func IOFailure(op string, cause error) *CoreError {
	return &CoreError{
		Kind:    KindIOFailure,
		Op:      op,
		Message: cause.Error(),
		Cause:   pkgerrors.Wrapf(cause, "io failure during %s", op),
	}
}

// NewCorruptionThresholdExceeded reports that a fold's corrupt/total ratio
// exceeded the configured threshold.
func NewCorruptionThresholdExceeded(corrupt, total int, threshold float64) *CoreError {
	return &CoreError{
		Kind: KindCorruptionThresholdExceeded,
		Message: fmt.Sprintf(
			"corruption ratio %d/%d exceeds threshold %.3f", corrupt, total, threshold),
	}
}

// AsKind reports whether err is a *CoreError of the given Kind, anywhere
// in its Unwrap chain.
func AsKind(err error, kind Kind) bool {
	for err != nil {
		if ce, ok := err.(*CoreError); ok {
			if ce.Kind == kind {
				return true
			}
			err = ce.Cause
			continue
		}
		u, ok := err.(interface{ Unwrap() error })
		if !ok {
			return false
		}
		err = u.Unwrap()
	}
	return false
}

// NewOpenFailure reports that the log could not be opened for append.
func NewOpenFailure(path string, cause error) *CoreError {
	return &CoreError{
		Kind:    KindOpenFailure,
		Op:      "open",
		Message: fmt.Sprintf("cannot open log %q", path),
		Cause:   pkgerrors.Wrapf(cause, "opening log %q", path),
	}
}

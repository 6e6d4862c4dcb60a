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
Package config holds the construction-time options recognised by the
persistence controller (spec.md §6 "Configuration options").

The file-loading, environment-variable, and CLI-flag precedence chain
the teacher's internal/config/config.go implements is explicitly out of
scope here (spec.md §1): a persistence controller is constructed
in-process from an Options value, not from a config file. What carries
over from the teacher is the Validate() convention — a single method
that collects every violation before returning, rather than failing on
the first one.
*/
package config

import (
	"strings"

	"ledgerdb/internal/codec"
	cerrors "ledgerdb/internal/errors"
)

// DefaultCorruptAlertThreshold is applied when Options.CorruptAlertThreshold
// is left at its zero value.
const DefaultCorruptAlertThreshold = 0.1

// Options configures a persistence controller at construction, mirroring
// spec.md §6's table of recognised options.
type Options struct {
	// Filename is the log path. Must not end in "~" (that suffix is
	// reserved for the in-progress compaction backup). Required unless
	// InMemoryOnly is set.
	Filename string

	// InMemoryOnly disables all I/O: every operation becomes a no-op
	// that reports success, and Filename is ignored.
	InMemoryOnly bool

	// CorruptAlertThreshold is the corrupt/total ratio above which
	// load fails with CorruptionThresholdExceeded. Zero means
	// "unset"; ResolvedCorruptAlertThreshold() substitutes
	// DefaultCorruptAlertThreshold.
	CorruptAlertThreshold float64

	// AfterSerialization and BeforeDeserialization together form an
	// optional codec hook pair (internal/codec). Both or neither.
	AfterSerialization  codec.EncodeFunc
	BeforeDeserialization codec.DecodeFunc
}

// Validate checks Options for internal consistency, collecting every
// violation rather than stopping at the first.
func (o Options) Validate() error {
	var errs []string

	if strings.HasSuffix(o.Filename, "~") {
		errs = append(errs, "filename must not end in '~' (reserved for the compaction backup)")
	}
	if !o.InMemoryOnly && o.Filename == "" {
		errs = append(errs, "filename is required unless in_memory_only is set")
	}
	if o.CorruptAlertThreshold < 0 || o.CorruptAlertThreshold > 1 {
		errs = append(errs, "corrupt_alert_threshold must be in [0, 1]")
	}
	if (o.AfterSerialization == nil) != (o.BeforeDeserialization == nil) {
		errs = append(errs, "after_serialization and before_deserialization must both be supplied, or neither")
	}

	if len(errs) > 0 {
		return cerrors.NewConfigurationInconsistent(strings.Join(errs, "; "))
	}
	return nil
}

// ResolvedCorruptAlertThreshold returns o.CorruptAlertThreshold, or
// DefaultCorruptAlertThreshold when it is left at its zero value.
func (o Options) ResolvedCorruptAlertThreshold() float64 {
	if o.CorruptAlertThreshold == 0 {
		return DefaultCorruptAlertThreshold
	}
	return o.CorruptAlertThreshold
}

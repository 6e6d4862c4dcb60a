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
Package logging provides structured, component-scoped logging for ledgerdb.

The package wraps logrus so every component gets the same key-value,
leveled logging surface without each one reaching for a different
formatter:

	logger := logging.NewLogger("persistence")
	logger.Info("load complete", "records", 42, "corrupt", 1)
	logger.Error("compaction failed", "error", err)

Fields are supplied as alternating key/value pairs, matched against a
logrus.Fields map before the entry is emitted. A component logger is cheap
to create — each persistence controller owns one, not a shared global.
*/
package logging

import (
	"io"
	"os"
	"sync"

	"github.com/sirupsen/logrus"
)

// Level mirrors logrus.Level so callers never need to import logrus directly.
type Level = logrus.Level

const (
	DEBUG = logrus.DebugLevel
	INFO  = logrus.InfoLevel
	WARN  = logrus.WarnLevel
	ERROR = logrus.ErrorLevel
)

var (
	base   = logrus.New()
	baseMu sync.RWMutex
)

func init() {
	base.SetOutput(os.Stdout)
	base.SetLevel(INFO)
	base.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
}

// SetGlobalLevel sets the minimum level emitted by every Logger.
func SetGlobalLevel(level Level) {
	baseMu.Lock()
	defer baseMu.Unlock()
	base.SetLevel(level)
}

// SetGlobalOutput redirects every Logger's output.
func SetGlobalOutput(w io.Writer) {
	baseMu.Lock()
	defer baseMu.Unlock()
	base.SetOutput(w)
}

// SetJSONMode switches every Logger between text and JSON formatting.
func SetJSONMode(enabled bool) {
	baseMu.Lock()
	defer baseMu.Unlock()
	if enabled {
		base.SetFormatter(&logrus.JSONFormatter{})
	} else {
		base.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
}

// Logger is a component-scoped structured logger.
type Logger struct {
	entry *logrus.Entry
}

// NewLogger creates a Logger tagged with the given component name.
func NewLogger(component string) *Logger {
	return &Logger{entry: base.WithField("component", component)}
}

// With returns a Logger carrying additional default fields.
func (l *Logger) With(args ...interface{}) *Logger {
	return &Logger{entry: l.entry.WithFields(fieldsFrom(args))}
}

func (l *Logger) Debug(msg string, args ...interface{}) {
	l.entry.WithFields(fieldsFrom(args)).Debug(msg)
}

func (l *Logger) Info(msg string, args ...interface{}) {
	l.entry.WithFields(fieldsFrom(args)).Info(msg)
}

func (l *Logger) Warn(msg string, args ...interface{}) {
	l.entry.WithFields(fieldsFrom(args)).Warn(msg)
}

func (l *Logger) Error(msg string, args ...interface{}) {
	l.entry.WithFields(fieldsFrom(args)).Error(msg)
}

// fieldsFrom turns an alternating key/value slice into logrus.Fields.
// A trailing unpaired value is filed under "extra".
func fieldsFrom(args []interface{}) logrus.Fields {
	fields := make(logrus.Fields, len(args)/2+1)
	i := 0
	for ; i+1 < len(args); i += 2 {
		key, ok := args[i].(string)
		if !ok {
			key = "arg"
		}
		fields[key] = args[i+1]
	}
	if i < len(args) {
		fields["extra"] = args[i]
	}
	return fields
}

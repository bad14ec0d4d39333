// Copyright 2025 Google LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package logs emits levelled structured records on the tlog span
// carried by a context.
package logs

import (
	"context"
	"io"
	"strings"

	"github.com/pkg/errors"
	"tlog.app/go/tlog"
)

// Level of a log record.
type Level int

// Levels in increasing order of severity.
const (
	Debug Level = iota
	Info
	Warning
	Error
)

var levelNames = []string{"debug", "info", "warning", "error"}

// String representation of the level.
func (l Level) String() string {
	if l < Debug || l > Error {
		return "unknown"
	}
	return levelNames[l]
}

// ParseLevel parses a level name (case insensitive).
// "warn" is accepted as an alias of "warning".
func ParseLevel(s string) (Level, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "warn" {
		return Warning, nil
	}
	for i, name := range levelNames {
		if name == s {
			return Level(i), nil
		}
	}
	return Info, errors.Errorf("unknown log level %q: want one of %s", s, strings.Join(levelNames, ", "))
}

type levelKey struct{}

// NewContext returns a context carrying a span of a new logger writing
// to w, and the minimum level of records to emit.
func NewContext(ctx context.Context, w io.Writer, lvl Level) context.Context {
	logger := tlog.New(tlog.NewConsoleWriter(w, tlog.LstdFlags))
	ctx = tlog.ContextWithSpan(ctx, tlog.Span{Logger: logger})
	return WithLevel(ctx, lvl)
}

// WithLevel returns a context in which records below lvl are discarded.
func WithLevel(ctx context.Context, lvl Level) context.Context {
	return context.WithValue(ctx, levelKey{}, lvl)
}

// LevelFromContext returns the minimum level set in the context.
// Info is returned if no level has been set.
func LevelFromContext(ctx context.Context) Level {
	lvl, ok := ctx.Value(levelKey{}).(Level)
	if !ok {
		return Info
	}
	return lvl
}

// Enabled returns true if records at level lvl are emitted.
func Enabled(ctx context.Context, lvl Level) bool {
	return lvl >= LevelFromContext(ctx)
}

func printw(ctx context.Context, lvl Level, msg string, kvs []any) {
	if !Enabled(ctx, lvl) {
		return
	}
	span := tlog.SpanFromContext(ctx)
	if span.Logger == nil {
		return
	}
	kvs = append([]any{"level", lvl.String()}, kvs...)
	span.Printw(msg, kvs...)
}

// Debugw emits a debug record with key/value pairs.
func Debugw(ctx context.Context, msg string, kvs ...any) { printw(ctx, Debug, msg, kvs) }

// Infow emits an info record with key/value pairs.
func Infow(ctx context.Context, msg string, kvs ...any) { printw(ctx, Info, msg, kvs) }

// Warnw emits a warning record with key/value pairs.
func Warnw(ctx context.Context, msg string, kvs ...any) { printw(ctx, Warning, msg, kvs) }

// Errorw emits an error record with key/value pairs.
func Errorw(ctx context.Context, msg string, kvs ...any) { printw(ctx, Error, msg, kvs) }

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

package fmterr

import (
	"fmt"
	"strings"

	"github.com/seal5-go/seal5/base/logs"
	"go.uber.org/multierr"
)

// Diagnostic is a non-fatal message emitted by a pass.
type Diagnostic struct {
	// Level of the diagnostic.
	Level logs.Level
	// Context in which the diagnostic has been emitted,
	// for example "instruction set RV32I: instruction ADD".
	Context string
	// Err describes the diagnostic.
	Err error
}

// String representation of the diagnostic.
func (d Diagnostic) String() string {
	if d.Context == "" {
		return fmt.Sprintf("%s: %v", d.Level, d.Err)
	}
	return fmt.Sprintf("%s: %s: %v", d.Level, d.Context, d.Err)
}

// Appender accumulates fatal errors and diagnostics within a stack of contexts.
type Appender struct {
	stack []string
	diags []Diagnostic
	errs  error
}

// Push a new context in the stack.
func (app *Appender) Push(format string, a ...any) {
	app.stack = append(app.stack, fmt.Sprintf(format, a...))
}

// Pop removes the last context in the stack.
func (app *Appender) Pop() {
	if len(app.stack) == 0 {
		panic("fmterr: Pop called on an empty context stack")
	}
	app.stack = app.stack[:len(app.stack)-1]
}

// Context returns the current context as a string.
func (app *Appender) Context() string {
	return strings.Join(app.stack, ": ")
}

func (app *Appender) prefix(err error) error {
	if len(app.stack) == 0 {
		return err
	}
	return PrefixWith("%s: ", app.Context())(err)
}

// Append a fatal error.
// Always returns false so that callers can write ok = app.Append(err).
func (app *Appender) Append(err error) bool {
	app.errs = multierr.Append(app.errs, app.prefix(err))
	return false
}

// Appendf appends a fatal structural error.
func (app *Appender) Appendf(format string, a ...any) bool {
	return app.Append(Structuralf(format, a...))
}

// AppendInternalf appends an internal error.
func (app *Appender) AppendInternalf(format string, a ...any) bool {
	return app.Append(Internalf(format, a...))
}

// Diagnose records a non-fatal diagnostic at a given level.
func (app *Appender) Diagnose(lvl logs.Level, err error) {
	app.diags = append(app.diags, Diagnostic{
		Level:   lvl,
		Context: app.Context(),
		Err:     err,
	})
}

// Warn records a warning.
func (app *Appender) Warn(err error) {
	app.Diagnose(logs.Warning, err)
}

// Debugf records a formatted debug diagnostic.
func (app *Appender) Debugf(format string, a ...any) {
	app.Diagnose(logs.Debug, fmt.Errorf(format, a...))
}

// Diagnostics returns all the diagnostics recorded so far.
func (app *Appender) Diagnostics() []Diagnostic {
	return append([]Diagnostic{}, app.diags...)
}

// Errors returns the list of fatal errors.
func (app *Appender) Errors() []error {
	return multierr.Errors(app.errs)
}

// Err returns all the fatal errors combined in a single error,
// or nil if no fatal error has been appended.
func (app *Appender) Err() error {
	return app.errs
}

// Empty returns true if no fatal error has been appended.
func (app *Appender) Empty() bool {
	return app.errs == nil
}

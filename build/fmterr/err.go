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
	"runtime/debug"

	"github.com/pkg/errors"
)

// Kinds of errors. Use errors.Is to test the kind of an error.
var (
	// ErrStructural is a violation of a structural invariant of the model
	// (encoding width, slice bounds, empty or ambiguous model). Always fatal.
	ErrStructural = errors.New("structural violation")

	// ErrUnsupported is a construct a pass or the writer has no rule for.
	ErrUnsupported = errors.New("unsupported construct")

	// ErrPrecondition is a missing annotation required by a pass,
	// typically the inferred type of a node.
	ErrPrecondition = errors.New("missing precondition")

	// ErrUsage is an invalid configuration or command line.
	ErrUsage = errors.New("usage error")
)

type kindError struct {
	kind error
	err  error
}

func newKind(kind error, format string, a ...any) error {
	return kindError{kind: kind, err: errors.Errorf(format, a...)}
}

// Structuralf returns a structural error.
func Structuralf(format string, a ...any) error {
	return newKind(ErrStructural, format, a...)
}

// Unsupportedf returns an error for an unsupported construct.
func Unsupportedf(format string, a ...any) error {
	return newKind(ErrUnsupported, format, a...)
}

// Preconditionf returns an error for a missing precondition.
func Preconditionf(format string, a ...any) error {
	return newKind(ErrPrecondition, format, a...)
}

// Usagef returns a usage error.
func Usagef(format string, a ...any) error {
	return newKind(ErrUsage, format, a...)
}

// Error returns a string description of the error.
func (err kindError) Error() (s string) {
	defer func() {
		r := recover()
		if r == nil {
			return
		}
		s = fmt.Sprintf("recovered from panic when building error message: %T:\n%v", err.err, string(debug.Stack()))
	}()
	return err.kind.Error() + ": " + err.err.Error()
}

// Is reports whether the error is of the target kind.
func (err kindError) Is(target error) bool {
	return target == err.kind
}

// Unwrap the error.
func (err kindError) Unwrap() error {
	return err.err
}

// Format writes the error into the state of the formatter.
func (err kindError) Format(s fmt.State, verb rune) {
	format(err, s, verb)
}

// Internal marks an error as internal, potentially adding additional information.
func Internal(err error) error {
	return fmt.Errorf("seal5 internal error. This is a bug. Please report it. Error:\n%+v", err)
}

// Internalf returns a formatted internal error.
func Internalf(format string, a ...any) error {
	return Internal(errors.Errorf(format, a...))
}

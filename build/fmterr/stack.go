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
	"io"

	"github.com/pkg/errors"
)

type stackTracer interface {
	StackTrace() errors.StackTrace
}

// StackTrace returns the location where the first error of the chain
// carrying a stack trace has been created, or nil.
func StackTrace(err error) errors.StackTrace {
	var withSt stackTracer
	if !errors.As(err, &withSt) {
		return nil
	}
	return withSt.StackTrace()
}

// Describe returns the message of an error. The location where the error
// has been created is appended if verbose is true.
func Describe(err error, verbose bool) string {
	msg := err.Error()
	if !verbose {
		return msg
	}
	st := StackTrace(err)
	if st == nil {
		return msg
	}
	return fmt.Sprintf("%s\nerror generated at:%+v", msg, st)
}

func format(err error, s fmt.State, verb rune) {
	switch verb {
	case 'v':
		io.WriteString(s, Describe(err, s.Flag('+')))
	case 's':
		io.WriteString(s, err.Error())
	case 'q':
		fmt.Fprintf(s, "%q", err.Error())
	}
}

type verboseError struct {
	err error
}

// Verbose returns an error whose message includes the location where
// the error has been created.
func Verbose(err error) error {
	if err == nil {
		return nil
	}
	return verboseError{err: err}
}

func (err verboseError) Unwrap() error {
	return err.err
}

func (err verboseError) Error() string {
	return Describe(err.err, true)
}

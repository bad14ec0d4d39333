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

package fmterr_test

import (
	"strings"
	"testing"

	"github.com/pkg/errors"
	"github.com/seal5-go/seal5/base/logs"
	"github.com/seal5-go/seal5/build/fmterr"
)

func TestKinds(t *testing.T) {
	tests := []struct {
		err  error
		kind error
	}{
		{err: fmterr.Structuralf("encoding of %s has %d bits", "ADD", 31), kind: fmterr.ErrStructural},
		{err: fmterr.Unsupportedf("operator %q", "**"), kind: fmterr.ErrUnsupported},
		{err: fmterr.Preconditionf("no type"), kind: fmterr.ErrPrecondition},
		{err: fmterr.Usagef("bad flag"), kind: fmterr.ErrUsage},
	}
	all := []error{fmterr.ErrStructural, fmterr.ErrUnsupported, fmterr.ErrPrecondition, fmterr.ErrUsage}
	for i, test := range tests {
		for _, kind := range all {
			got := errors.Is(test.err, kind)
			if got != (kind == test.kind) {
				t.Errorf("test %d: errors.Is(%v, %v) = %v", i, test.err, kind, got)
			}
		}
		wrapped := errors.Wrap(test.err, "context")
		if !errors.Is(wrapped, test.kind) {
			t.Errorf("test %d: kind lost after wrapping: %v", i, wrapped)
		}
	}
}

func TestAppender(t *testing.T) {
	var app fmterr.Appender
	app.Push("instruction set %s", "RV32I")
	app.Push("instruction %s", "ADD")
	app.Warn(errors.New("no inferred type"))
	ok := app.Appendf("slice [%d:%d] is inverted", 0, 3)
	app.Pop()
	app.Debugf("done")
	app.Pop()

	if ok {
		t.Errorf("Appendf returned true")
	}
	if app.Empty() {
		t.Fatalf("appender should not be empty")
	}
	errs := app.Errors()
	if len(errs) != 1 {
		t.Fatalf("got %d errors but want 1", len(errs))
	}
	wantErr := "instruction set RV32I: instruction ADD: structural violation: slice [0:3] is inverted"
	if errs[0].Error() != wantErr {
		t.Errorf("got error %q but want %q", errs[0].Error(), wantErr)
	}
	if !errors.Is(app.Err(), fmterr.ErrStructural) {
		t.Errorf("combined error lost its kind: %v", app.Err())
	}
	diags := app.Diagnostics()
	if len(diags) != 2 {
		t.Fatalf("got %d diagnostics but want 2", len(diags))
	}
	if diags[0].Level != logs.Warning || diags[0].Context != "instruction set RV32I: instruction ADD" {
		t.Errorf("unexpected first diagnostic: %s", diags[0])
	}
	if diags[1].Level != logs.Debug || diags[1].Context != "instruction set RV32I" {
		t.Errorf("unexpected second diagnostic: %s", diags[1])
	}
	if !strings.HasPrefix(diags[0].String(), "warning: ") {
		t.Errorf("unexpected diagnostic string: %s", diags[0])
	}
}

func TestVerbose(t *testing.T) {
	err := fmterr.PrefixWith("instruction %s: ", "ADD")(fmterr.Structuralf("bad encoding"))
	const msg = "instruction ADD: structural violation: bad encoding"
	if got := fmterr.Describe(err, false); got != msg {
		t.Errorf("got %q but want %q", got, msg)
	}
	verbose := fmterr.Verbose(err)
	if !errors.Is(verbose, fmterr.ErrStructural) {
		t.Errorf("verbose error %v is not a structural error", verbose)
	}
	got := verbose.Error()
	if !strings.HasPrefix(got, msg+"\nerror generated at:") {
		t.Errorf("no stack trace in verbose message:\n%s", got)
	}
	if !strings.Contains(got, "TestVerbose") {
		t.Errorf("stack trace does not point to the test:\n%s", got)
	}
	if fmterr.StackTrace(errors.New("no stack")) == nil {
		t.Errorf("errors from github.com/pkg/errors carry a stack trace")
	}
	if fmterr.Verbose(nil) != nil {
		t.Errorf("Verbose(nil) is not nil")
	}
}

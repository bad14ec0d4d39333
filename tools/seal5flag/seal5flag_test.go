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

package seal5flag_test

import (
	"flag"
	"io"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/seal5-go/seal5/tools/seal5flag"
)

func newFlagSet() *flag.FlagSet {
	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	return fs
}

func TestStringList(t *testing.T) {
	tests := []struct {
		args []string
		want []string
	}{
		{
			args: nil,
			want: nil,
		},
		{
			args: []string{"--names=a,b"},
			want: []string{"a", "b"},
		},
		{
			args: []string{"--names", " a , ,b ", "--names=c"},
			want: []string{"a", "b", "c"},
		},
	}
	for i, test := range tests {
		fs := newFlagSet()
		got := seal5flag.StringList(fs, "names", "")
		if err := fs.Parse(test.args); err != nil {
			t.Errorf("test %d: cannot parse %v: %v", i, test.args, err)
			continue
		}
		if diff := cmp.Diff(test.want, *got, cmpopts.EquateEmpty()); diff != "" {
			t.Errorf("test %d: unexpected list: %s", i, diff)
		}
	}
}

func TestIntList(t *testing.T) {
	fs := newFlagSet()
	got := seal5flag.IntList(fs, "sizes", "")
	if err := fs.Parse([]string{"--sizes=16, 32", "--sizes=64"}); err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]int{16, 32, 64}, *got); diff != "" {
		t.Errorf("unexpected list: %s", diff)
	}

	fs = newFlagSet()
	seal5flag.IntList(fs, "sizes", "")
	if err := fs.Parse([]string{"--sizes=16,x"}); err == nil {
		t.Errorf("expected an error for a non-integer size")
	}
}

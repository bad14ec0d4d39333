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

package ordered_test

import (
	"bytes"
	"encoding/gob"
	"slices"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/seal5-go/seal5/base/ordered"
)

type entry struct {
	k string
	v int
}

func build(entries []entry) *ordered.Map[string, int] {
	m := ordered.NewMap[string, int]()
	for _, entry := range entries {
		m.Store(entry.k, entry.v)
	}
	return m
}

func collect(m *ordered.Map[string, int]) []entry {
	var got []entry
	for k, v := range m.Iter() {
		got = append(got, entry{k: k, v: v})
	}
	return got
}

func TestMap(t *testing.T) {
	tests := []struct {
		entries []entry
		want    []entry
	}{
		{
			entries: []entry{
				{k: "a", v: 1},
				{k: "b", v: 2},
				{k: "c", v: 3},
			},
			want: []entry{
				{k: "a", v: 1},
				{k: "b", v: 2},
				{k: "c", v: 3},
			},
		},
		{
			entries: []entry{
				{k: "a", v: 1},
				{k: "b", v: 2},
				{k: "a", v: 3},
			},
			want: []entry{
				{k: "a", v: 3},
				{k: "b", v: 2},
			},
		},
	}
	for ti, test := range tests {
		m := build(test.entries).Clone()
		if m.Size() != len(test.want) {
			t.Errorf("test %d: map has %d entries but want %d", ti, m.Size(), len(test.want))
			continue
		}
		if diff := cmp.Diff(test.want, collect(m), cmp.AllowUnexported(entry{})); diff != "" {
			t.Errorf("test %d: unexpected entries (-want +got):\n%s", ti, diff)
		}
		keys := slices.Collect(m.Keys())
		for i, k := range keys {
			if k != test.want[i].k {
				t.Errorf("test %d key %d: got %s but want %s", ti, i, k, test.want[i].k)
			}
		}
	}
}

func TestDeleteAndRetain(t *testing.T) {
	m := build([]entry{{"a", 1}, {"b", 2}, {"c", 3}, {"d", 4}})
	if !m.Delete("b") {
		t.Errorf("Delete(b) returned false")
	}
	if m.Delete("b") {
		t.Errorf("second Delete(b) returned true")
	}
	removed := m.Retain(func(_ string, v int) bool { return v%2 == 1 })
	if diff := cmp.Diff([]string{"d"}, removed); diff != "" {
		t.Errorf("unexpected removed keys (-want +got):\n%s", diff)
	}
	want := []entry{{"a", 1}, {"c", 3}}
	if diff := cmp.Diff(want, collect(m), cmp.AllowUnexported(entry{})); diff != "" {
		t.Errorf("unexpected entries (-want +got):\n%s", diff)
	}
	m.Store("b", 5)
	want = append(want, entry{"b", 5})
	if diff := cmp.Diff(want, collect(m), cmp.AllowUnexported(entry{})); diff != "" {
		t.Errorf("unexpected entries after re-store (-want +got):\n%s", diff)
	}
}

func TestGobKeepsOrder(t *testing.T) {
	in := build([]entry{{"z", 1}, {"a", 2}, {"m", 3}})
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(in); err != nil {
		t.Fatal(err)
	}
	out := ordered.NewMap[string, int]()
	if err := gob.NewDecoder(&buf).Decode(out); err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(collect(in), collect(out), cmp.AllowUnexported(entry{})); diff != "" {
		t.Errorf("order not preserved (-want +got):\n%s", diff)
	}
}

func TestNilMap(t *testing.T) {
	var m *ordered.Map[string, int]
	if m.Size() != 0 {
		t.Errorf("nil map has size %d", m.Size())
	}
	for range m.Iter() {
		t.Errorf("nil map yielded a value")
	}
}

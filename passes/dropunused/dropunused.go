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

// Package dropunused removes the constants, memories and functions of an
// instruction set which are not referenced by any of its instructions.
package dropunused

import (
	"context"
	"slices"

	"github.com/seal5-go/seal5/base/logs"
	"github.com/seal5-go/seal5/base/ordered"
	"github.com/seal5-go/seal5/build/fmterr"
	"github.com/seal5-go/seal5/build/ir"
	"github.com/seal5-go/seal5/internal/exprdeps"
)

// Tracker records which candidate names of a given kind are referenced.
type Tracker struct {
	kind exprdeps.Use
	kept *ordered.Map[string, bool]
}

// NewTracker returns a tracker for candidate definitions of a given kind.
func NewTracker(kind exprdeps.Use, candidates func(func(string) bool)) Tracker {
	t := Tracker{kind: kind, kept: ordered.NewMap[string, bool]()}
	for name := range candidates {
		t.kept.Store(name, false)
	}
	return t
}

// Track marks the candidates referenced in a behavior tree as kept.
func (t Tracker) Track(behavior *ir.Operation) {
	for _, ref := range exprdeps.Refs(behavior) {
		if !ref.Use.Matches(t.kind) {
			continue
		}
		if t.kept.Has(ref.Name) {
			t.kept.Store(ref.Name, true)
		}
	}
}

// ToDrop returns the candidates which have not been referenced,
// in candidate order.
func (t Tracker) ToDrop() []string {
	var drop []string
	for name, kept := range t.kept.Iter() {
		if !kept {
			drop = append(drop, name)
		}
	}
	return drop
}

// Dropped lists the definitions removed from an instruction set.
type Dropped struct {
	Set       string
	Constants []string
	Memories  []string
	Functions []string
}

// Report of the pass.
type Report struct {
	Dropped []Dropped
}

// Total returns the total number of definitions removed.
func (r *Report) Total() int {
	n := 0
	for _, d := range r.Dropped {
		n += len(d.Constants) + len(d.Memories) + len(d.Functions)
	}
	return n
}

func dropFrom[V any](m *ordered.Map[string, V], kind exprdeps.Use, instrs *ordered.Map[string, *ir.Instruction]) []string {
	tracker := NewTracker(kind, m.Keys())
	for instr := range instrs.Values() {
		tracker.Track(instr.Behavior)
	}
	drop := tracker.ToDrop()
	if len(drop) == 0 {
		return nil
	}
	m.Retain(func(name string, _ V) bool {
		return !slices.Contains(drop, name)
	})
	return drop
}

// RunSet removes the unused definitions of a single instruction set.
func RunSet(set *ir.InstructionSet) Dropped {
	return Dropped{
		Set:       set.Name,
		Constants: dropFrom(set.Constants, exprdeps.UseConstant, set.Instructions),
		Memories:  dropFrom(set.Memories, exprdeps.UseMemory, set.Instructions),
		Functions: dropFrom(set.Functions, exprdeps.UseFunction, set.Instructions),
	}
}

// Run removes the unused definitions of all the instruction sets of a model.
// Each set is processed independently of the others. Cores define no
// constants, memories, or functions and are left untouched.
func Run(ctx context.Context, m *ir.Model) (*Report, error) {
	if m == nil {
		return nil, fmterr.Preconditionf("no model to process")
	}
	report := &Report{}
	for set := range m.Sets.Values() {
		dropped := RunSet(set)
		logs.Infow(ctx, "dropped unused definitions",
			"set", set.Name,
			"constants", dropped.Constants,
			"memories", dropped.Memories,
			"functions", dropped.Functions)
		report.Dropped = append(report.Dropped, dropped)
	}
	return report, nil
}

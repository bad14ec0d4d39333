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

package dropunused_test

import (
	"context"
	"math/big"
	"slices"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/seal5-go/seal5/build/ir"
	"github.com/seal5-go/seal5/build/ir/irhelper"
	"github.com/seal5-go/seal5/internal/exprdeps"
	"github.com/seal5-go/seal5/passes/dropunused"
)

func newSet() *ir.InstructionSet {
	set := ir.NewInstructionSet("RV32I")
	for _, name := range []string{"XLEN", "UNUSED_C", "PC"} {
		set.AddConstant(&ir.Constant{Name: name, Value: big.NewInt(32)})
	}
	for _, name := range []string{"X", "PC", "MEM", "CSR"} {
		set.AddMemory(&ir.Memory{Name: name, Type: *ir.UnsignedType(32)})
	}
	for _, name := range []string{"sext", "zext", "raise"} {
		set.AddFunction(&ir.Function{Name: name, Extern: true})
	}
	add := ir.NewInstruction("ADD")
	add.Behavior = irhelper.Block(
		irhelper.Assign(
			irhelper.Index("X", irhelper.Ref("rd", ir.SymbolOther)),
			irhelper.Call("sext", irhelper.Const("XLEN")),
		),
	)
	jal := ir.NewInstruction("JAL")
	jal.Behavior = irhelper.Block(
		irhelper.Assign(irhelper.Ref("PC", ir.SymbolOther), irhelper.Int(0)),
		&ir.ProcedureCall{Name: "raise"},
	)
	set.AddInstruction(add).AddInstruction(jal)
	return set
}

func TestRun(t *testing.T) {
	model := ir.NewModel().AddSet(newSet())
	report, err := dropunused.Run(context.Background(), model)
	if err != nil {
		t.Fatal(err)
	}
	want := []dropunused.Dropped{{
		Set:       "RV32I",
		Constants: []string{"UNUSED_C"},
		Memories:  []string{"MEM", "CSR"},
		Functions: []string{"zext"},
	}}
	if diff := cmp.Diff(want, report.Dropped); diff != "" {
		t.Errorf("unexpected report (-want +got):\n%s", diff)
	}
	if got := report.Total(); got != 4 {
		t.Errorf("got %d dropped definitions but want 4", got)
	}
	set, _ := model.Sets.Load("RV32I")
	// PC is referenced without being resolved: it is kept both as a
	// constant and as a memory.
	checks := []struct {
		name string
		got  func(func(string) bool)
		want []string
	}{
		{name: "constants", got: set.Constants.Keys(), want: []string{"XLEN", "PC"}},
		{name: "memories", got: set.Memories.Keys(), want: []string{"X", "PC"}},
		{name: "functions", got: set.Functions.Keys(), want: []string{"sext", "raise"}},
	}
	for _, check := range checks {
		if diff := cmp.Diff(check.want, slices.Collect(check.got)); diff != "" {
			t.Errorf("unexpected %s (-want +got):\n%s", check.name, diff)
		}
	}
}

func TestNothingDropped(t *testing.T) {
	set := newSet()
	set.Instructions.Store("ALL", &ir.Instruction{
		Name: "ALL",
		Behavior: irhelper.Block(
			irhelper.Ref("UNUSED_C", ir.SymbolConstant),
			irhelper.Index("MEM", irhelper.Mem("CSR")),
			irhelper.Call("zext"),
		),
	})
	dropped := dropunused.RunSet(set)
	if dropped.Constants != nil || dropped.Memories != nil || dropped.Functions != nil {
		t.Errorf("expected nothing to be dropped but got %+v", dropped)
	}
	if got := set.Memories.Size(); got != 4 {
		t.Errorf("got %d memories but want 4", got)
	}
}

func TestTrackerKindsAreIndependent(t *testing.T) {
	names := func(yield func(string) bool) {
		for _, name := range []string{"A", "B"} {
			if !yield(name) {
				return
			}
		}
	}
	behavior := irhelper.Block(irhelper.Const("A"), irhelper.Mem("B"))
	tests := []struct {
		kind exprdeps.Use
		want []string
	}{
		{kind: exprdeps.UseConstant, want: []string{"B"}},
		{kind: exprdeps.UseMemory, want: []string{"A"}},
		{kind: exprdeps.UseFunction, want: []string{"A", "B"}},
	}
	for i, test := range tests {
		tracker := dropunused.NewTracker(test.kind, names)
		tracker.Track(behavior)
		if diff := cmp.Diff(test.want, tracker.ToDrop()); diff != "" {
			t.Errorf("test %d: unexpected names to drop (-want +got):\n%s", i, diff)
		}
	}
}

func TestNilModel(t *testing.T) {
	if _, err := dropunused.Run(context.Background(), nil); err == nil {
		t.Errorf("expected an error")
	}
}

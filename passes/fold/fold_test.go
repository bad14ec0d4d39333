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

package fold_test

import (
	"context"
	"math/big"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/seal5-go/seal5/base/logs"
	"github.com/seal5-go/seal5/build/ir"
	"github.com/seal5-go/seal5/build/ir/irhelper"
	"github.com/seal5-go/seal5/build/ir/irkind"
	"github.com/seal5-go/seal5/passes/fold"
)

var bigIntCmp = cmp.Options{
	cmp.Comparer(func(x, y *big.Int) bool { return x.Cmp(y) == 0 }),
	cmpopts.EquateEmpty(),
}

var (
	u8  = ir.UnsignedType(8)
	u16 = ir.UnsignedType(16)
)

func x() *ir.NamedReference { return irhelper.Scalar("x", nil) }

func assign(target, expr ir.Node) *ir.Operation {
	return irhelper.Block(irhelper.Assign(target, expr))
}

func TestFold(t *testing.T) {
	tests := []struct {
		in   *ir.Operation
		want *ir.Operation
	}{
		{
			in: assign(x(), irhelper.Bin(ir.OpMul,
				irhelper.Group(irhelper.Bin(ir.OpAdd, irhelper.Int(2), irhelper.Int(3))),
				irhelper.Int(4),
			)),
			want: assign(x(), irhelper.Int(20)),
		},
		{
			in:   assign(x(), irhelper.WithType(irhelper.Bin(ir.OpAdd, irhelper.Int(200), irhelper.Int(100)), u8)),
			want: assign(x(), irhelper.WithType(irhelper.Int(44), u8)),
		},
		{
			in:   assign(x(), irhelper.Bin(ir.OpDiv, irhelper.Int(1), irhelper.Int(0))),
			want: assign(x(), irhelper.Bin(ir.OpDiv, irhelper.Int(1), irhelper.Int(0))),
		},
		{
			in:   assign(x(), irhelper.Bin(ir.OpAdd, irhelper.Ref("a", ir.SymbolOther), irhelper.Int(0))),
			want: assign(x(), irhelper.Bin(ir.OpAdd, irhelper.Ref("a", ir.SymbolOther), irhelper.Int(0))),
		},
		{
			in:   assign(x(), irhelper.Unary(ir.OpLNot, irhelper.Bin(ir.OpLt, irhelper.Int(1), irhelper.Int(2)))),
			want: assign(x(), irhelper.Int(0)),
		},
		{
			in:   assign(x(), irhelper.Unary(ir.OpNot, irhelper.Int(5))),
			want: assign(x(), irhelper.Unary(ir.OpNot, irhelper.Int(5))),
		},
		{
			in:   assign(x(), irhelper.WithType(irhelper.Unary(ir.OpNot, irhelper.Int(5)), u8)),
			want: assign(x(), irhelper.WithType(irhelper.Int(250), u8)),
		},
		{
			in:   assign(x(), irhelper.Slice(irhelper.Int(0xabcd), 11, 4)),
			want: assign(x(), irhelper.Int(0xbc)),
		},
		{
			in:   assign(x(), &ir.ConcatOperation{Left: irhelper.Int(1), Right: irhelper.TypedInt(2, u8)}),
			want: assign(x(), irhelper.Int(0x102)),
		},
		{
			in: assign(x(), &ir.TypeConv{Kind: irkind.Signed, Width: 8, Expr: irhelper.Int(255)}),
			want: assign(x(), irhelper.WithType(&ir.IntLiteral{
				Value:  big.NewInt(-1),
				Width:  8,
				Signed: true,
			}, ir.SignedType(8))),
		},
		{
			in:   assign(x(), &ir.Ternary{Cond: irhelper.Int(0), Then: irhelper.Int(1), Else: irhelper.Ref("a", ir.SymbolOther)}),
			want: assign(x(), irhelper.Ref("a", ir.SymbolOther)),
		},
	}
	for i, test := range tests {
		got, _, err := fold.Behavior(test.in)
		if err != nil {
			t.Errorf("test %d: %v", i, err)
			continue
		}
		if diff := cmp.Diff(test.want, got, bigIntCmp); diff != "" {
			t.Errorf("test %d: unexpected behavior (-want +got):\n%s", i, diff)
		}
	}
}

func TestTruncation(t *testing.T) {
	sum := func() ir.Node {
		return irhelper.WithType(irhelper.Bin(ir.OpAdd,
			irhelper.Scalar("a", u16),
			irhelper.Scalar("b", u16),
		), u16)
	}
	in := assign(irhelper.Scalar("r", u8), sum())
	got, report, err := fold.Behavior(in)
	if err != nil {
		t.Fatal(err)
	}
	want := assign(
		irhelper.Scalar("r", u8),
		irhelper.WithType(irhelper.Slice(irhelper.Group(sum()), 7, 0), u8),
	)
	if diff := cmp.Diff(want, got, bigIntCmp); diff != "" {
		t.Errorf("unexpected behavior (-want +got):\n%s", diff)
	}
	if report.Truncated != 1 {
		t.Errorf("got %d truncations but want 1", report.Truncated)
	}
	// The original expression is wrapped, not duplicated.
	count := 0
	ir.Walk(got, func(n ir.Node) bool {
		if _, ok := n.(*ir.BinaryOperation); ok {
			count++
		}
		return true
	})
	if count != 1 {
		t.Errorf("got %d binary operations but want 1", count)
	}
}

func TestTruncationNotNeeded(t *testing.T) {
	tests := []struct {
		in    *ir.Operation
		debug int
	}{
		{in: assign(irhelper.Scalar("r", u16), irhelper.Scalar("a", u8))},
		{in: assign(irhelper.Scalar("r", u16), irhelper.Scalar("a", u16))},
		{in: assign(irhelper.Scalar("r", nil), irhelper.Scalar("a", u16)), debug: 1},
		{in: assign(irhelper.Scalar("r", u8), irhelper.Scalar("a", nil)), debug: 1},
	}
	for i, test := range tests {
		got, report, err := fold.Behavior(test.in)
		if err != nil {
			t.Errorf("test %d: %v", i, err)
			continue
		}
		if diff := cmp.Diff(test.in, got, bigIntCmp); diff != "" {
			t.Errorf("test %d: unexpected behavior (-want +got):\n%s", i, diff)
		}
		if len(report.Diagnostics) != test.debug {
			t.Errorf("test %d: got %d diagnostics but want %d", i, len(report.Diagnostics), test.debug)
		}
		for _, diag := range report.Diagnostics {
			if diag.Level != logs.Debug {
				t.Errorf("test %d: got diagnostic level %s but want %s", i, diag.Level, logs.Debug)
			}
		}
	}
}

func TestScalarDefinitionTruncation(t *testing.T) {
	in := irhelper.Block(&ir.ScalarDefinition{Name: "r", Declared: *u8, Init: irhelper.Scalar("a", u16)})
	got, _, err := fold.Behavior(in)
	if err != nil {
		t.Fatal(err)
	}
	want := irhelper.Block(&ir.ScalarDefinition{
		Name:     "r",
		Declared: *u8,
		Init:     irhelper.WithType(irhelper.Slice(irhelper.Group(irhelper.Scalar("a", u16)), 7, 0), u8),
	})
	if diff := cmp.Diff(want, got, bigIntCmp); diff != "" {
		t.Errorf("unexpected behavior (-want +got):\n%s", diff)
	}
}

func TestUnreachable(t *testing.T) {
	a := func() ir.Node { return assign(x(), irhelper.Int(1)) }
	b := func() ir.Node { return assign(x(), irhelper.Int(2)) }
	c := func() ir.Node { return assign(x(), irhelper.Int(3)) }
	cond := func() ir.Node { return irhelper.Ref("c", ir.SymbolOther) }
	tmp := func() ir.Node {
		return &ir.ScalarDefinition{Name: "tmp", Declared: *ir.UnsignedType(32), Init: irhelper.Int(1)}
	}
	tests := []struct {
		in      *ir.Operation
		want    *ir.Operation
		removed int
	}{
		{
			in:      irhelper.Block(irhelper.If(irhelper.Int(0), a(), irhelper.Int(1), b(), c())),
			want:    b().(*ir.Operation),
			removed: 2,
		},
		{
			in:      irhelper.Block(irhelper.If(irhelper.Int(0), a())),
			want:    irhelper.Block(),
			removed: 1,
		},
		{
			in:      irhelper.Block(irhelper.If(cond(), a(), irhelper.Int(0), b(), c())),
			want:    irhelper.Block(irhelper.If(cond(), a(), c())),
			removed: 1,
		},
		{
			in:      irhelper.Block(irhelper.If(cond(), a(), irhelper.Bin(ir.OpEq, irhelper.Int(1), irhelper.Int(1)), b(), c())),
			want:    irhelper.Block(irhelper.If(cond(), a(), b())),
			removed: 1,
		},
		{
			in:   irhelper.Block(irhelper.If(irhelper.Int(1), irhelper.Block(tmp())), tmp()),
			want: irhelper.Block(irhelper.Block(tmp()), tmp()),
		},
		{
			in:   irhelper.Block(irhelper.If(irhelper.Int(1), irhelper.Block(a(), b())), tmp()),
			want: irhelper.Block(a(), b(), tmp()),
		},
		{
			in:      irhelper.Block(irhelper.While(irhelper.Int(0), a()), b()),
			want:    irhelper.Block(b()),
			removed: 1,
		},
		{
			in:   irhelper.Block(&ir.Loop{Cond: irhelper.Int(0), Body: irhelper.Block(a()), PostTest: true}),
			want: irhelper.Block(&ir.Loop{Cond: irhelper.Int(0), Body: irhelper.Block(a()), PostTest: true}),
		},
	}
	for i, test := range tests {
		got, report, err := fold.Behavior(test.in)
		if err != nil {
			t.Errorf("test %d: %v", i, err)
			continue
		}
		if diff := cmp.Diff(test.want, got, bigIntCmp); diff != "" {
			t.Errorf("test %d: unexpected behavior (-want +got):\n%s", i, diff)
		}
		if len(report.Removals) != test.removed {
			t.Errorf("test %d: got %d removed statements but want %d", i, len(report.Removals), test.removed)
		}
		for _, removal := range report.Removals {
			if removal.Reason != fold.Unreachable {
				t.Errorf("test %d: got removal reason %s but want %s", i, removal.Reason, fold.Unreachable)
			}
		}
	}
}

func TestUnsupportedDropsStatementOnly(t *testing.T) {
	model := ir.NewModel()
	set := ir.NewInstructionSet("RV32I")
	instr := ir.NewInstruction("POW")
	instr.Behavior = irhelper.Block(
		irhelper.Assign(x(), irhelper.Bin(ir.Operator("**"), irhelper.Int(2), irhelper.Int(3))),
		irhelper.Assign(x(), irhelper.Bin(ir.OpAdd, irhelper.Int(2), irhelper.Int(3))),
	)
	model.AddSet(set.AddInstruction(instr))

	report, err := fold.Run(context.Background(), model)
	if err != nil {
		t.Fatal(err)
	}
	want := assign(x(), irhelper.Int(5))
	if diff := cmp.Diff(want, instr.Behavior, bigIntCmp); diff != "" {
		t.Errorf("unexpected behavior (-want +got):\n%s", diff)
	}
	if len(report.Removals) != 1 {
		t.Fatalf("got %d removals but want 1", len(report.Removals))
	}
	removal := report.Removals[0]
	if removal.Reason != fold.Unsupported {
		t.Errorf("got reason %s but want %s", removal.Reason, fold.Unsupported)
	}
	if want := "instruction set RV32I: instruction POW"; removal.Context != want {
		t.Errorf("got context %q but want %q", removal.Context, want)
	}
	warnings := 0
	for _, diag := range report.Diagnostics {
		if diag.Level == logs.Warning {
			warnings++
		}
	}
	if warnings != 1 {
		t.Errorf("got %d warnings but want 1", warnings)
	}
}

func TestRunCores(t *testing.T) {
	set := ir.NewInstructionSet("RV32I")
	add := ir.NewInstruction("ADD")
	add.Behavior = assign(x(), irhelper.Bin(ir.OpAdd, irhelper.Int(1), irhelper.Int(2)))
	sub := ir.NewInstruction("SUB")
	sub.Behavior = assign(x(), irhelper.Bin(ir.OpSub, irhelper.Int(3), irhelper.Int(2)))
	model := ir.NewModel().AddSet(set.AddInstruction(add))
	model.Cores.Store("RV32IM", &ir.CoreDef{
		Name:         "RV32IM",
		Instructions: ir.NewInstructionSet("").AddInstruction(sub).Instructions,
	})

	report, err := fold.Run(context.Background(), model)
	if err != nil {
		t.Fatal(err)
	}
	if report.Folded != 2 {
		t.Errorf("got %d folded operations but want 2", report.Folded)
	}
	if diff := cmp.Diff(assign(x(), irhelper.Int(1)), sub.Behavior, bigIntCmp); diff != "" {
		t.Errorf("unexpected behavior of the core instruction (-want +got):\n%s", diff)
	}
}

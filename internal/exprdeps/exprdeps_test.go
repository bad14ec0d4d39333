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

package exprdeps_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/seal5-go/seal5/build/ir"
	"github.com/seal5-go/seal5/build/ir/irhelper"
	"github.com/seal5-go/seal5/internal/exprdeps"
)

func TestRefs(t *testing.T) {
	xReg := irhelper.Index("X", irhelper.Ref("rs1", ir.SymbolOther))
	tests := []struct {
		node ir.Node
		want []exprdeps.Ref
	}{
		{
			node: irhelper.Const("XLEN"),
			want: []exprdeps.Ref{{Name: "XLEN", Use: exprdeps.UseConstant}},
		},
		{
			node: irhelper.Bin(ir.OpAdd, xReg, irhelper.Const("XLEN")),
			want: []exprdeps.Ref{
				{Name: "X", Use: exprdeps.UseMemory},
				{Name: "rs1", Use: exprdeps.UseAny},
				{Name: "XLEN", Use: exprdeps.UseConstant},
			},
		},
		{
			node: irhelper.Block(
				irhelper.Assign(irhelper.Scalar("tmp", ir.UnsignedType(32)), irhelper.Call("sext", irhelper.Mem("PC"))),
				irhelper.Assign(irhelper.Mem("PC"), irhelper.Call("sext", irhelper.Int(0))),
				&ir.ProcedureCall{Name: "raise"},
			),
			want: []exprdeps.Ref{
				{Name: "sext", Use: exprdeps.UseFunction},
				{Name: "PC", Use: exprdeps.UseMemory},
				{Name: "raise", Use: exprdeps.UseFunction},
			},
		},
	}
	for i, test := range tests {
		got := exprdeps.Refs(test.node)
		if diff := cmp.Diff(test.want, got); diff != "" {
			t.Errorf("test %d: incorrect references (-want +got):\n%s", i, diff)
		}
	}
}

func TestUseMatches(t *testing.T) {
	if !exprdeps.UseAny.Matches(exprdeps.UseFunction) {
		t.Errorf("an unresolved reference should match a function")
	}
	if exprdeps.UseConstant.Matches(exprdeps.UseMemory) {
		t.Errorf("a constant reference should not match a memory")
	}
}

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

package storage_test

import (
	"bytes"
	"encoding/gob"
	"errors"
	"math/big"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/seal5-go/seal5/backends/coredsl2"
	"github.com/seal5-go/seal5/build/fmterr"
	"github.com/seal5-go/seal5/build/ir"
	"github.com/seal5-go/seal5/build/ir/irhelper"
	"github.com/seal5-go/seal5/build/ir/irkind"
	"github.com/seal5-go/seal5/storage"
)

func newSet(name string) *ir.InstructionSet {
	set := ir.NewInstructionSet(name, "RISCVBase")
	set.AddConstant(&ir.Constant{Name: "XLEN", Value: big.NewInt(32), Type: ir.UnsignedType(32)})
	attrs := ir.NewAttributes()
	attrs.Store("is_main_reg", nil)
	attrs.Store("delete", ir.AttrList{ir.AttrString("b"), ir.AttrExpr{X: irhelper.Int(1)}})
	set.AddMemory(&ir.Memory{Name: "X", Type: *ir.UnsignedType(32), Length: 32, Attributes: attrs})
	set.AddFunction(&ir.Function{
		Name:   "sext",
		Return: *ir.SignedType(32),
		Params: []*ir.Param{{Name: "x", Type: *ir.UnsignedType(32)}},
		Body: irhelper.Block(&ir.Return{Expr: &ir.TypeConv{
			Kind: irkind.Signed,
			Expr: irhelper.Scalar("x", ir.UnsignedType(32)),
		}}),
	})
	instr := ir.NewInstruction("ADDI")
	instr.Operands.Store("imm", &ir.Operand{Name: "imm", Type: *ir.SignedType(12)})
	instr.Encoding = irhelper.IType(0, 0b0010011)
	instr.Mnemonic = "addi"
	instr.Assembly = "{name(rd)}, {name(rs1)}, {imm}"
	instr.Behavior = irhelper.Block(
		irhelper.If(
			irhelper.Bin(ir.OpNeq, irhelper.Ref("rd", ir.SymbolOther), irhelper.Int(0)),
			irhelper.Assign(
				irhelper.Index("X", irhelper.Ref("rd", ir.SymbolOther)),
				irhelper.Slice(irhelper.Group(irhelper.Bin(ir.OpAdd,
					irhelper.Index("X", irhelper.Ref("rs1", ir.SymbolOther)),
					irhelper.Call("sext", irhelper.Ref("imm", ir.SymbolOther)),
				)), 31, 0),
			),
		),
		irhelper.While(irhelper.Int(0), &ir.Break{}),
		&ir.ProcedureCall{Name: "raise", Args: []ir.Node{irhelper.Int(0)}},
	)
	return set.AddInstruction(instr)
}

func text(t *testing.T, m *ir.Model) string {
	units, err := coredsl2.Generate(m, coredsl2.Options{})
	if err != nil {
		t.Fatal(err)
	}
	return units[0].Text
}

func TestRoundTrip(t *testing.T) {
	sets := ir.NewModel().AddSet(newSet("RV32I")).AddSet(newSet("RV32M"))
	cores := ir.NewModel()
	core := &ir.CoreDef{Name: "RV32IM", Contributing: []string{"RV32I", "RV32M"}, Instructions: newSet("X").Instructions}
	cores.Cores.Store(core.Name, core)
	tests := []struct {
		file  string
		model *ir.Model
	}{
		{file: "model.seal5model", model: sets},
		{file: "model.m2isarmodel", model: sets},
		{file: "cores.m2isarmodel", model: cores},
	}
	for i, test := range tests {
		path := filepath.Join(t.TempDir(), test.file)
		if err := storage.Save(path, test.model); err != nil {
			t.Errorf("test %d: %v", i, err)
			continue
		}
		got, err := storage.Load(path)
		if err != nil {
			t.Errorf("test %d: %v", i, err)
			continue
		}
		if diff := cmp.Diff(text(t, test.model), text(t, got)); diff != "" {
			t.Errorf("test %d: model changed by a round trip (-want +got):\n%s", i, diff)
		}
	}
}

func TestInvalidModels(t *testing.T) {
	both := ir.NewModel().AddSet(newSet("RV32I"))
	both.Cores.Store("C", &ir.CoreDef{Name: "C"})
	dir := t.TempDir()
	if err := storage.Save(filepath.Join(dir, "m.m2isarmodel"), both); !errors.Is(err, fmterr.ErrStructural) {
		t.Errorf("got error %v but want a structural error", err)
	}
	if err := storage.Save(filepath.Join(dir, "m.seal5model"), both); !errors.Is(err, fmterr.ErrStructural) {
		t.Errorf("got error %v but want a structural error", err)
	}

	empty := filepath.Join(dir, "empty.m2isarmodel")
	if err := storage.Save(empty, ir.NewModel()); err != nil {
		t.Fatal(err)
	}
	if _, err := storage.Load(empty); !errors.Is(err, fmterr.ErrStructural) {
		t.Errorf("got error %v but want a structural error", err)
	}
}

type header struct {
	Format  storage.Format
	Version string
}

func TestVersion(t *testing.T) {
	tests := []struct {
		hdr header
		ok  bool
	}{
		{hdr: header{Format: storage.Seal5, Version: "v1.3.0"}, ok: true},
		{hdr: header{Format: storage.Seal5, Version: "v2.0.0"}},
		{hdr: header{Format: storage.Seal5, Version: "1.0.0"}},
		{hdr: header{Format: storage.Legacy, Version: storage.Version}},
	}
	for i, test := range tests {
		var buf bytes.Buffer
		enc := gob.NewEncoder(&buf)
		if err := enc.Encode(test.hdr); err != nil {
			t.Fatal(err)
		}
		if err := enc.Encode(ir.NewModel()); err != nil {
			t.Fatal(err)
		}
		_, err := storage.Decode(&buf, storage.Seal5)
		if test.ok {
			if err != nil {
				t.Errorf("test %d: %v", i, err)
			}
			continue
		}
		if !errors.Is(err, fmterr.ErrStructural) {
			t.Errorf("test %d: got error %v but want a structural error", i, err)
		}
	}
}

func TestOutputPath(t *testing.T) {
	tests := []struct {
		in, out string
		want    string
		err     bool
	}{
		{in: "a.seal5model", want: "a.seal5model"},
		{in: "a.m2isarmodel", want: "a.m2isarmodel"},
		{in: "a.m2isarmodel", out: "b.seal5model", want: "b.seal5model"},
		{in: "a.json", out: "b.seal5model", want: "b.seal5model"},
		{in: "a.json", err: true},
	}
	for i, test := range tests {
		got, err := storage.OutputPath(test.in, test.out)
		if test.err {
			if !errors.Is(err, fmterr.ErrUsage) {
				t.Errorf("test %d: got error %v but want a usage error", i, err)
			}
			continue
		}
		if err != nil {
			t.Errorf("test %d: %v", i, err)
			continue
		}
		if got != test.want {
			t.Errorf("test %d: got %q but want %q", i, got, test.want)
		}
	}
}

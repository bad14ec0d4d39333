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

package coredsl2

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/seal5-go/seal5/build/fmterr"
	"github.com/seal5-go/seal5/build/ir"
)

// attrValueString returns the representation of an attribute value.
// The elements of a list are sorted and a list of a single element is
// written as that element.
func attrValueString(v ir.AttrValue) (string, error) {
	switch vT := v.(type) {
	case ir.AttrExpr:
		return ExprString(vT.X)
	case ir.AttrString:
		return strconv.Quote(string(vT)), nil
	case ir.AttrList:
		els := make([]string, len(vT))
		for i, el := range vT {
			var err error
			if els[i], err = attrValueString(el); err != nil {
				return "", err
			}
		}
		slices.Sort(els)
		if len(els) == 1 {
			return els[0], nil
		}
		return "(" + strings.Join(els, ", ") + ")", nil
	}
	return "", fmterr.Unsupportedf("attribute value of type %T", v)
}

// WriteAttributes writes attributes after the current text of the line.
func (w *Writer) WriteAttributes(attrs *ir.Attributes) error {
	for name, value := range attrs.Iter() {
		if w.compat || value == nil {
			w.WriteWord("[[" + name + "]]")
			continue
		}
		s, err := attrValueString(value)
		if err != nil {
			return fmterr.PrefixWith("attribute %s: ", name)(err)
		}
		w.WriteWord("[[" + name + "=" + s + "]]")
	}
	return nil
}

// WriteBehavior writes the statements of a block between braces.
func (w *Writer) WriteBehavior(op *ir.Operation) error {
	if err := (printer{w: w}).block(op); err != nil {
		return err
	}
	w.WriteLine("")
	return nil
}

func (w *Writer) writeOperands(instr *ir.Instruction) error {
	w.Write("operands:")
	w.EnterBlock(true)
	for name, op := range instr.Operands.Iter() {
		typ, err := typeString(&op.Type)
		if err != nil {
			return fmterr.PrefixWith("operand %s: ", name)(err)
		}
		w.Write(typ + " " + name)
		if err := w.WriteAttributes(op.Attributes); err != nil {
			return err
		}
		w.WriteLine(";")
	}
	w.LeaveBlock(true)
	return nil
}

func (w *Writer) writeConstraints(instr *ir.Instruction) error {
	w.Write("constraints:")
	w.EnterBlock(true)
	for _, c := range instr.Constraints {
		s, err := ExprString(c.Expr)
		if err != nil {
			return err
		}
		w.WriteLine(s + ";")
	}
	w.LeaveBlock(true)
	return nil
}

func encodingFieldString(field ir.EncodingField) (string, error) {
	switch fT := field.(type) {
	case *ir.BitVal:
		return fmt.Sprintf("%d'b%s", fT.Length, fT.Bits()), nil
	case *ir.BitField:
		return fmt.Sprintf("%s[%d:%d]", fT.Name, fT.Range.Upper, fT.Range.Lower), nil
	}
	return "", fmterr.Unsupportedf("encoding field of type %T", field)
}

func (w *Writer) writeEncoding(instr *ir.Instruction) error {
	fields := make([]string, len(instr.Encoding))
	for i, field := range instr.Encoding {
		var err error
		if fields[i], err = encodingFieldString(field); err != nil {
			return err
		}
	}
	w.WriteLine("encoding: " + strings.Join(fields, " :: ") + ";")
	return nil
}

func (w *Writer) writeAssembly(instr *ir.Instruction) {
	if w.compat || instr.Mnemonic == "" {
		w.WriteLine("assembly: " + strconv.Quote(instr.Assembly) + ";")
		return
	}
	w.WriteLine("assembly: {" + strconv.Quote(instr.Mnemonic) + ", " + strconv.Quote(instr.Assembly) + "};")
}

// WriteInstruction writes an instruction.
func (w *Writer) WriteInstruction(instr *ir.Instruction) error {
	w.Write(instr.Name)
	if err := w.WriteAttributes(instr.Attributes); err != nil {
		return err
	}
	w.EnterBlock(true)
	if !w.compat {
		if err := w.writeOperands(instr); err != nil {
			return err
		}
		if len(instr.Constraints) > 0 {
			if err := w.writeConstraints(instr); err != nil {
				return err
			}
		}
	}
	if err := w.writeEncoding(instr); err != nil {
		return err
	}
	w.writeAssembly(instr)
	w.Write("behavior:")
	if err := w.WriteBehavior(instr.Behavior); err != nil {
		return err
	}
	w.LeaveBlock(true)
	return nil
}

// WriteFunction writes a function or the declaration of an extern function.
func (w *Writer) WriteFunction(f *ir.Function) error {
	ret, err := typeString(&f.Return)
	if err != nil {
		return fmterr.PrefixWith("return type: ")(err)
	}
	params := make([]string, len(f.Params))
	for i, param := range f.Params {
		typ, err := typeString(&param.Type)
		if err != nil {
			return fmterr.PrefixWith("parameter %s: ", param.Name)(err)
		}
		params[i] = typ + " " + param.Name
	}
	if f.Extern {
		w.Write("extern ")
	}
	w.Write(ret + " " + f.Name + "(" + strings.Join(params, ", ") + ")")
	if err := w.WriteAttributes(f.Attributes); err != nil {
		return err
	}
	if f.Extern || f.Body == nil {
		w.WriteLine(";")
		return nil
	}
	return w.WriteBehavior(f.Body)
}

func (w *Writer) writeConstant(c *ir.Constant) error {
	typ := "unsigned int"
	if c.Type != nil {
		var err error
		if typ, err = typeString(c.Type); err != nil {
			return err
		}
	}
	w.Write(typ + " " + c.Name)
	if c.Value != nil {
		w.Write(" = " + c.Value.String())
	}
	if err := w.WriteAttributes(c.Attributes); err != nil {
		return err
	}
	w.WriteLine(";")
	return nil
}

func (w *Writer) writeMemory(m *ir.Memory) error {
	typ, err := typeString(&m.Type)
	if err != nil {
		return err
	}
	w.Write(m.Storage.String() + " " + typ + " " + m.Name)
	if m.Length > 0 {
		w.Write(fmt.Sprintf("[%d]", m.Length))
	}
	if err := w.WriteAttributes(m.Attributes); err != nil {
		return err
	}
	w.WriteLine(";")
	return nil
}

func (w *Writer) writeArchState(set *ir.InstructionSet) error {
	if set.Constants.Size() == 0 && set.Memories.Size() == 0 {
		return nil
	}
	w.Write("architectural_state")
	w.EnterBlock(true)
	for c := range set.Constants.Values() {
		if err := w.writeConstant(c); err != nil {
			return fmterr.PrefixWith("constant %s: ", c.Name)(err)
		}
	}
	for m := range set.Memories.Values() {
		if err := w.writeMemory(m); err != nil {
			return fmterr.PrefixWith("memory %s: ", m.Name)(err)
		}
	}
	w.LeaveBlock(true)
	return nil
}

func (w *Writer) writeFunctions(set *ir.InstructionSet) error {
	if set.Functions.Size() == 0 {
		return nil
	}
	w.Write("functions")
	w.EnterBlock(true)
	for f := range set.Functions.Values() {
		if err := w.WriteFunction(f); err != nil {
			return fmterr.PrefixWith("function %s: ", f.Name)(err)
		}
	}
	w.LeaveBlock(true)
	return nil
}

func (w *Writer) writeInstructions(instrs func(func(*ir.Instruction) bool)) error {
	w.Write("instructions")
	w.EnterBlock(true)
	for instr := range instrs {
		if err := w.WriteInstruction(instr); err != nil {
			return fmterr.PrefixWith("instruction %s: ", instr.Name)(err)
		}
	}
	w.LeaveBlock(true)
	return nil
}

// WriteSet writes an instruction set.
func (w *Writer) WriteSet(set *ir.InstructionSet) error {
	w.Write("InstructionSet " + set.Name)
	if len(set.Extends) > 0 {
		w.Write(" extends " + strings.Join(set.Extends, ", "))
	}
	w.EnterBlock(true)
	if !w.compat {
		if err := w.writeArchState(set); err != nil {
			return err
		}
	}
	if err := w.writeFunctions(set); err != nil {
		return err
	}
	if set.Instructions.Size() > 0 {
		if err := w.writeInstructions(set.Instructions.Values()); err != nil {
			return err
		}
	}
	w.LeaveBlock(true)
	return nil
}

// WriteCore writes a core of a legacy model.
func (w *Writer) WriteCore(core *ir.CoreDef) error {
	w.Write("Core " + core.Name)
	if len(core.Contributing) > 0 {
		w.Write(" provides " + strings.Join(core.Contributing, ", "))
	}
	w.EnterBlock(true)
	if core.Instructions.Size() > 0 {
		if err := w.writeInstructions(core.Instructions.Values()); err != nil {
			return err
		}
	}
	w.LeaveBlock(true)
	return nil
}

// WriteModel writes all the instruction sets and cores of a model,
// in the order in which they have been added to the model.
func (w *Writer) WriteModel(m *ir.Model) error {
	first := true
	separate := func() {
		if !first {
			w.WriteLine("")
		}
		first = false
	}
	for set := range m.Sets.Values() {
		separate()
		if err := w.WriteSet(set); err != nil {
			return fmterr.PrefixWith("instruction set %s: ", set.Name)(err)
		}
	}
	for core := range m.Cores.Values() {
		separate()
		if err := w.WriteCore(core); err != nil {
			return fmterr.PrefixWith("core %s: ", core.Name)(err)
		}
	}
	return nil
}

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
	"math/big"
	"strconv"
	"strings"

	"github.com/seal5-go/seal5/build/fmterr"
	"github.com/seal5-go/seal5/build/ir"
	"github.com/seal5-go/seal5/build/ir/irkind"
)

type none = struct{}

// printer writes behavior trees.
type printer struct {
	w *Writer
}

var _ ir.Visitor[none] = printer{}

func (p printer) expr(n ir.Node) error {
	_, err := ir.Accept[none](p, n)
	return err
}

func (p printer) list(ns []ir.Node) error {
	for i, n := range ns {
		if i > 0 {
			p.w.Write(", ")
		}
		if err := p.expr(n); err != nil {
			return err
		}
	}
	return nil
}

// stmt writes a statement. Statements which are not blocks are
// terminated by a semicolon.
func (p printer) stmt(n ir.Node) error {
	if err := p.expr(n); err != nil {
		return err
	}
	if !ir.IsBlockStatement(n) {
		p.w.WriteLine(";")
	}
	return nil
}

// block writes the statements of a block between braces.
func (p printer) block(op *ir.Operation) error {
	p.w.EnterBlock(true)
	if op != nil {
		for _, stmt := range op.Statements {
			if err := p.stmt(stmt); err != nil {
				return err
			}
		}
	}
	p.w.leave(true)
	return nil
}

func (p printer) VisitOperation(n *ir.Operation) (none, error) {
	if err := p.block(n); err != nil {
		return none{}, err
	}
	p.w.WriteLine("")
	return none{}, nil
}

func (p printer) VisitBinaryOperation(n *ir.BinaryOperation) (none, error) {
	if err := p.expr(n.Left); err != nil {
		return none{}, err
	}
	p.w.Write(" " + string(n.Op) + " ")
	return none{}, p.expr(n.Right)
}

func (p printer) VisitUnaryOperation(n *ir.UnaryOperation) (none, error) {
	p.w.Write(string(n.Op))
	return none{}, p.expr(n.Operand)
}

func (p printer) VisitSliceOperation(n *ir.SliceOperation) (none, error) {
	if err := p.expr(n.Expr); err != nil {
		return none{}, err
	}
	p.w.Write("[")
	if err := p.expr(n.High); err != nil {
		return none{}, err
	}
	p.w.Write(":")
	if err := p.expr(n.Low); err != nil {
		return none{}, err
	}
	p.w.Write("]")
	return none{}, nil
}

func (p printer) VisitConcatOperation(n *ir.ConcatOperation) (none, error) {
	if err := p.expr(n.Left); err != nil {
		return none{}, err
	}
	p.w.Write(" :: ")
	return none{}, p.expr(n.Right)
}

func (p printer) VisitIntLiteral(n *ir.IntLiteral) (none, error) {
	if n.Value == nil {
		return none{}, fmterr.Internalf("integer literal without a value")
	}
	p.w.Write(literalString(n))
	return none{}, nil
}

// literalString returns a sized literal, such as 8'd3 or 8'sd3,
// if the literal has an explicit width.
func literalString(n *ir.IntLiteral) string {
	if n.Width <= 0 {
		return n.Value.String()
	}
	base := "'d"
	if n.Signed {
		base = "'sd"
	}
	s := strconv.Itoa(n.Width) + base + new(big.Int).Abs(n.Value).String()
	if n.Value.Sign() < 0 {
		return "-" + s
	}
	return s
}

func (p printer) VisitScalarDefinition(n *ir.ScalarDefinition) (none, error) {
	typ, err := typeString(&n.Declared)
	if err != nil {
		return none{}, err
	}
	p.w.Write(typ + " " + n.Name)
	if n.Init == nil {
		return none{}, nil
	}
	p.w.Write(" = ")
	return none{}, p.expr(n.Init)
}

func (p printer) VisitBreak(*ir.Break) (none, error) {
	p.w.Write("break")
	return none{}, nil
}

func (p printer) VisitAssignment(n *ir.Assignment) (none, error) {
	if err := p.expr(n.Target); err != nil {
		return none{}, err
	}
	p.w.Write(" = ")
	return none{}, p.expr(n.Expr)
}

func (p printer) VisitConditional(n *ir.Conditional) (none, error) {
	for i, branch := range n.Branches {
		switch {
		case i == 0:
			p.w.Write("if (")
		case i < len(n.Conds):
			p.w.Write(" else if (")
		default:
			p.w.Write(" else")
		}
		if i < len(n.Conds) {
			if err := p.expr(n.Conds[i]); err != nil {
				return none{}, err
			}
			p.w.Write(")")
		}
		if err := p.block(branch); err != nil {
			return none{}, err
		}
	}
	p.w.WriteLine("")
	return none{}, nil
}

func (p printer) VisitLoop(n *ir.Loop) (none, error) {
	if n.PostTest {
		p.w.Write("do")
		if err := p.block(n.Body); err != nil {
			return none{}, err
		}
		p.w.Write(" while (")
		if err := p.expr(n.Cond); err != nil {
			return none{}, err
		}
		p.w.Write(")")
		return none{}, nil
	}
	p.w.Write("while (")
	if err := p.expr(n.Cond); err != nil {
		return none{}, err
	}
	p.w.Write(")")
	if err := p.block(n.Body); err != nil {
		return none{}, err
	}
	p.w.WriteLine("")
	return none{}, nil
}

func (p printer) VisitTernary(n *ir.Ternary) (none, error) {
	if err := p.expr(n.Cond); err != nil {
		return none{}, err
	}
	p.w.Write(" ? ")
	if err := p.expr(n.Then); err != nil {
		return none{}, err
	}
	p.w.Write(" : ")
	return none{}, p.expr(n.Else)
}

func (p printer) VisitReturn(n *ir.Return) (none, error) {
	p.w.Write("return")
	if n.Expr == nil {
		return none{}, nil
	}
	p.w.Write(" ")
	return none{}, p.expr(n.Expr)
}

func (p printer) VisitNamedReference(n *ir.NamedReference) (none, error) {
	p.w.Write(n.Name)
	return none{}, nil
}

func (p printer) VisitIndexedReference(n *ir.IndexedReference) (none, error) {
	p.w.Write(n.Name + "[")
	if err := p.expr(n.Index); err != nil {
		return none{}, err
	}
	p.w.Write("]")
	return none{}, nil
}

// primary returns true if an expression does not need parentheses
// when used as the operand of a conversion.
func primary(n ir.Node) bool {
	switch n.(type) {
	case *ir.IntLiteral, *ir.NamedReference, *ir.IndexedReference, *ir.Callable, *ir.Group:
		return true
	}
	return false
}

func (p printer) VisitTypeConv(n *ir.TypeConv) (none, error) {
	if !n.Kind.HasWidth() {
		return none{}, fmterr.Unsupportedf("conversion to %s", n.Kind)
	}
	if n.Width == 0 {
		p.w.Write("(" + n.Kind.String() + ")")
	} else {
		p.w.Write("(" + (&ir.DataType{Kind: n.Kind, Width: n.Width}).String() + ")")
	}
	if primary(n.Expr) {
		return none{}, p.expr(n.Expr)
	}
	p.w.Write("(")
	if err := p.expr(n.Expr); err != nil {
		return none{}, err
	}
	p.w.Write(")")
	return none{}, nil
}

func (p printer) call(name string, args []ir.Node) error {
	p.w.Write(name + "(")
	if err := p.list(args); err != nil {
		return err
	}
	p.w.Write(")")
	return nil
}

func (p printer) VisitCallable(n *ir.Callable) (none, error) {
	return none{}, p.call(n.Name, n.Args)
}

func (p printer) VisitGroup(n *ir.Group) (none, error) {
	p.w.Write("(")
	if err := p.expr(n.Expr); err != nil {
		return none{}, err
	}
	p.w.Write(")")
	return none{}, nil
}

func (p printer) VisitProcedureCall(n *ir.ProcedureCall) (none, error) {
	return none{}, p.call(n.Name, n.Args)
}

// typeString returns the CoreDSL2 representation of a data type.
func typeString(typ *ir.DataType) (string, error) {
	if typ == nil {
		return "", fmterr.Preconditionf("missing data type")
	}
	switch typ.Kind {
	case irkind.Void:
		return "void", nil
	case irkind.Signed, irkind.Unsigned:
		if err := typ.Validate(); err != nil {
			return "", err
		}
		return typ.String(), nil
	}
	return "", fmterr.Unsupportedf("data type %s", typ)
}

// ExprString returns the CoreDSL2 representation of an expression.
func ExprString(n ir.Node) (string, error) {
	w := NewWriter()
	if err := (printer{w: w}).expr(n); err != nil {
		return "", err
	}
	return strings.TrimSuffix(w.String(), "\n"), nil
}

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

// Package irhelper provides helper functions to build IR nodes.
package irhelper

import (
	"math/big"

	"github.com/seal5-go/seal5/build/ir"
)

// WithType annotates a node with a type and returns the node.
func WithType[N ir.Node](n N, typ *ir.DataType) N {
	n.SetType(typ)
	return n
}

// Int returns a generic integer literal.
func Int(v int64) *ir.IntLiteral {
	return &ir.IntLiteral{Value: big.NewInt(v)}
}

// BigInt returns a generic integer literal from a big integer.
func BigInt(v *big.Int) *ir.IntLiteral {
	return &ir.IntLiteral{Value: new(big.Int).Set(v)}
}

// TypedInt returns an integer literal with an explicit type.
// The literal is also annotated with that type.
func TypedInt(v int64, typ *ir.DataType) *ir.IntLiteral {
	lit := &ir.IntLiteral{
		Value:  big.NewInt(v),
		Width:  typ.Width,
		Signed: typ.Signed(),
	}
	lit.SetType(typ)
	return lit
}

// Ref returns a reference to a named symbol.
func Ref(name string, kind ir.SymbolKind) *ir.NamedReference {
	return &ir.NamedReference{Name: name, Kind: kind}
}

// Const returns a reference to a constant.
func Const(name string) *ir.NamedReference {
	return Ref(name, ir.SymbolConstant)
}

// Mem returns a reference to a memory.
func Mem(name string) *ir.NamedReference {
	return Ref(name, ir.SymbolMemory)
}

// Scalar returns a reference to a local scalar annotated with a type.
func Scalar(name string, typ *ir.DataType) *ir.NamedReference {
	return WithType(Ref(name, ir.SymbolScalar), typ)
}

// Index returns a reference to an element of a memory.
func Index(name string, index ir.Node) *ir.IndexedReference {
	return &ir.IndexedReference{Name: name, Index: index}
}

// Bin returns a binary operation.
func Bin(op ir.Operator, left, right ir.Node) *ir.BinaryOperation {
	return &ir.BinaryOperation{Op: op, Left: left, Right: right}
}

// Unary returns a unary operation.
func Unary(op ir.Operator, operand ir.Node) *ir.UnaryOperation {
	return &ir.UnaryOperation{Op: op, Operand: operand}
}

// Slice returns a slice of an expression with literal bounds.
func Slice(expr ir.Node, high, low int64) *ir.SliceOperation {
	return &ir.SliceOperation{Expr: expr, High: Int(high), Low: Int(low)}
}

// Group returns a parenthesized expression with the type of the expression.
func Group(expr ir.Node) *ir.Group {
	return WithType(&ir.Group{Expr: expr}, expr.Type())
}

// Assign returns an assignment.
func Assign(target, expr ir.Node) *ir.Assignment {
	return &ir.Assignment{Target: target, Expr: expr}
}

// Block returns a block of statements.
func Block(stmts ...ir.Node) *ir.Operation {
	return &ir.Operation{Statements: stmts}
}

// If returns a conditional from alternating conditions and branches.
// A trailing branch without a condition is the else branch.
func If(condsAndBranches ...ir.Node) *ir.Conditional {
	cond := &ir.Conditional{}
	for i, n := range condsAndBranches {
		if i%2 == 0 && i < len(condsAndBranches)-1 {
			cond.Conds = append(cond.Conds, n)
			continue
		}
		cond.Branches = append(cond.Branches, ir.AsBlock(n))
	}
	return cond
}

// While returns a loop.
func While(cond ir.Node, body ...ir.Node) *ir.Loop {
	return &ir.Loop{Cond: cond, Body: Block(body...)}
}

// Call returns a call to a function.
func Call(name string, args ...ir.Node) *ir.Callable {
	return &ir.Callable{Name: name, Args: args}
}

// Val returns a fixed encoding field.
func Val(v uint64, length int) *ir.BitVal {
	return &ir.BitVal{Value: v, Length: length}
}

// Field returns a variable encoding field.
func Field(name string, upper, lower int) *ir.BitField {
	return &ir.BitField{Name: name, Range: ir.BitRange{Upper: upper, Lower: lower}}
}

// Encoding returns a list of encoding fields, most significant first.
func Encoding(fields ...ir.EncodingField) []ir.EncodingField {
	return fields
}

// RType returns the encoding of a RISC-V R-type instruction.
func RType(funct7 uint64, funct3 uint64, opcode uint64) []ir.EncodingField {
	return Encoding(
		Val(funct7, 7),
		Field("rs2", 4, 0),
		Field("rs1", 4, 0),
		Val(funct3, 3),
		Field("rd", 4, 0),
		Val(opcode, 7),
	)
}

// IType returns the encoding of a RISC-V I-type instruction.
func IType(funct3 uint64, opcode uint64) []ir.EncodingField {
	return Encoding(
		Field("imm", 11, 0),
		Field("rs1", 4, 0),
		Val(funct3, 3),
		Field("rd", 4, 0),
		Val(opcode, 7),
	)
}

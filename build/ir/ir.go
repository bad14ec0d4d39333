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

// Package ir is the representation of an instruction set architecture
// metamodel: instruction sets, their architectural state and functions,
// instructions, and the behavior trees describing what instructions do.
//
// Behavior trees are made of a closed set of nodes. Passes traverse them
// with a Visitor and return new nodes instead of modifying nodes in place.
package ir

import (
	"math/big"

	"github.com/seal5-go/seal5/build/ir/irkind"
)

// ----------------------------------------------------------------------------
// Node in a behavior tree.
type (
	// Node in a behavior tree.
	Node interface {
		// node marks a structure as a node structure.
		// It prevents external implementations of the interface.
		node()

		// Type returns the type inferred for the node
		// or nil if the node has not been annotated.
		Type() *DataType

		// SetType annotates the node with a type.
		SetType(*DataType)
	}

	// Typed stores the type inferred for a node.
	Typed struct {
		Typ *DataType
	}
)

// Type returns the type inferred for the node, nil if none.
func (t *Typed) Type() *DataType { return t.Typ }

// SetType annotates the node with a type.
func (t *Typed) SetType(typ *DataType) { t.Typ = typ }

// Operator of a unary or binary operation.
type Operator string

// Operators supported by the behavior language.
const (
	OpAdd Operator = "+"
	OpSub Operator = "-"
	OpMul Operator = "*"
	OpDiv Operator = "/"
	OpMod Operator = "%"
	OpShl Operator = "<<"
	OpShr Operator = ">>"
	OpAnd Operator = "&"
	OpOr  Operator = "|"
	OpXor Operator = "^"

	OpEq  Operator = "=="
	OpNeq Operator = "!="
	OpLt  Operator = "<"
	OpLte Operator = "<="
	OpGt  Operator = ">"
	OpGte Operator = ">="

	OpLAnd Operator = "&&"
	OpLOr  Operator = "||"

	OpNeg  Operator = "-"
	OpPlus Operator = "+"
	OpNot  Operator = "~"
	OpLNot Operator = "!"
)

// SymbolKind is the kind of symbol a reference has been resolved to.
type SymbolKind int

// Kinds of symbols. The zero value is SymbolOther.
const (
	SymbolOther SymbolKind = iota
	SymbolConstant
	SymbolMemory
	SymbolScalar
)

// String representation of the kind.
func (k SymbolKind) String() string {
	switch k {
	case SymbolConstant:
		return "constant"
	case SymbolMemory:
		return "memory"
	case SymbolScalar:
		return "scalar"
	}
	return "other"
}

// ----------------------------------------------------------------------------
// Statements and expressions.
type (
	// Operation is a block: an ordered list of statements.
	Operation struct {
		Typed
		Statements []Node
	}

	// BinaryOperation is an operator with two operands.
	BinaryOperation struct {
		Typed
		Op          Operator
		Left, Right Node
	}

	// UnaryOperation is an operator with a single operand.
	UnaryOperation struct {
		Typed
		Op      Operator
		Operand Node
	}

	// SliceOperation extracts the bits [High:Low] of an expression.
	SliceOperation struct {
		Typed
		Expr      Node
		High, Low Node
	}

	// ConcatOperation concatenates the bits of two expressions,
	// Left being the most significant part.
	ConcatOperation struct {
		Typed
		Left, Right Node
	}

	// IntLiteral is an integer literal.
	// A zero Width denotes a generic number; a positive Width an explicitly
	// typed literal.
	IntLiteral struct {
		Typed
		Value  *big.Int
		Width  int
		Signed bool
	}

	// ScalarDefinition declares a local scalar, optionally initialised.
	ScalarDefinition struct {
		Typed
		Name     string
		Declared DataType
		Init     Node
	}

	// Break exits the innermost loop.
	Break struct {
		Typed
	}

	// Assignment assigns the value of an expression to a target.
	Assignment struct {
		Typed
		Target Node
		Expr   Node
	}

	// Conditional is an if/else if/else chain.
	// len(Branches) is len(Conds) or len(Conds)+1 when there is a
	// trailing else branch.
	Conditional struct {
		Typed
		Conds    []Node
		Branches []*Operation
	}

	// Loop executes its body while a condition holds.
	// If PostTest is true, the condition is tested after the body
	// (do/while loop).
	Loop struct {
		Typed
		Cond     Node
		Body     *Operation
		PostTest bool
	}

	// Ternary selects between two expressions.
	Ternary struct {
		Typed
		Cond, Then, Else Node
	}

	// Return returns from a function, with an optional value.
	Return struct {
		Typed
		Expr Node
	}

	// NamedReference references a named symbol: a constant, a memory,
	// a local scalar or an operand.
	NamedReference struct {
		Typed
		Name string
		Kind SymbolKind
	}

	// IndexedReference references an element of a memory.
	IndexedReference struct {
		Typed
		Name  string
		Index Node
	}

	// TypeConv converts an expression to a type.
	// A zero Width keeps the width of the expression and only changes
	// its signedness.
	TypeConv struct {
		Typed
		Kind  irkind.Kind
		Width int
		Expr  Node
	}

	// Callable calls a function defined in the instruction set.
	Callable struct {
		Typed
		Name string
		Args []Node
	}

	// Group is an explicitly parenthesized expression.
	Group struct {
		Typed
		Expr Node
	}

	// ProcedureCall calls a procedure with no result.
	// Passes do not look inside procedure calls.
	ProcedureCall struct {
		Typed
		Name string
		Args []Node
	}
)

var (
	_ Node = (*Operation)(nil)
	_ Node = (*BinaryOperation)(nil)
	_ Node = (*UnaryOperation)(nil)
	_ Node = (*SliceOperation)(nil)
	_ Node = (*ConcatOperation)(nil)
	_ Node = (*IntLiteral)(nil)
	_ Node = (*ScalarDefinition)(nil)
	_ Node = (*Break)(nil)
	_ Node = (*Assignment)(nil)
	_ Node = (*Conditional)(nil)
	_ Node = (*Loop)(nil)
	_ Node = (*Ternary)(nil)
	_ Node = (*Return)(nil)
	_ Node = (*NamedReference)(nil)
	_ Node = (*IndexedReference)(nil)
	_ Node = (*TypeConv)(nil)
	_ Node = (*Callable)(nil)
	_ Node = (*Group)(nil)
	_ Node = (*ProcedureCall)(nil)
)

func (*Operation) node()        {}
func (*BinaryOperation) node()  {}
func (*UnaryOperation) node()   {}
func (*SliceOperation) node()   {}
func (*ConcatOperation) node()  {}
func (*IntLiteral) node()       {}
func (*ScalarDefinition) node() {}
func (*Break) node()            {}
func (*Assignment) node()       {}
func (*Conditional) node()      {}
func (*Loop) node()             {}
func (*Ternary) node()          {}
func (*Return) node()           {}
func (*NamedReference) node()   {}
func (*IndexedReference) node() {}
func (*TypeConv) node()         {}
func (*Callable) node()         {}
func (*Group) node()            {}
func (*ProcedureCall) node()    {}

// Int64 returns the value of the literal if it fits in an int64.
func (n *IntLiteral) Int64() (int64, bool) {
	if n.Value == nil || !n.Value.IsInt64() {
		return 0, false
	}
	return n.Value.Int64(), true
}

// HasElse returns true if the conditional has a trailing else branch.
func (n *Conditional) HasElse() bool {
	return len(n.Branches) == len(n.Conds)+1
}

// IsBlockStatement returns true if the node is a statement rendered as a block
// (as opposed to a statement terminated by a semicolon).
func IsBlockStatement(n Node) bool {
	switch nT := n.(type) {
	case *Operation, *Conditional:
		return true
	case *Loop:
		return !nT.PostTest
	}
	return false
}

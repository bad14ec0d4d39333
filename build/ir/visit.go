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

package ir

import (
	"math/big"

	"github.com/seal5-go/seal5/build/fmterr"
)

// Visitor is implemented by passes traversing a behavior tree.
// There is one method per node type: adding a node type to the IR
// requires all visitors to be updated.
type Visitor[R any] interface {
	VisitOperation(*Operation) (R, error)
	VisitBinaryOperation(*BinaryOperation) (R, error)
	VisitUnaryOperation(*UnaryOperation) (R, error)
	VisitSliceOperation(*SliceOperation) (R, error)
	VisitConcatOperation(*ConcatOperation) (R, error)
	VisitIntLiteral(*IntLiteral) (R, error)
	VisitScalarDefinition(*ScalarDefinition) (R, error)
	VisitBreak(*Break) (R, error)
	VisitAssignment(*Assignment) (R, error)
	VisitConditional(*Conditional) (R, error)
	VisitLoop(*Loop) (R, error)
	VisitTernary(*Ternary) (R, error)
	VisitReturn(*Return) (R, error)
	VisitNamedReference(*NamedReference) (R, error)
	VisitIndexedReference(*IndexedReference) (R, error)
	VisitTypeConv(*TypeConv) (R, error)
	VisitCallable(*Callable) (R, error)
	VisitGroup(*Group) (R, error)
	VisitProcedureCall(*ProcedureCall) (R, error)
}

// Accept dispatches a node to the method of the visitor matching its type.
func Accept[R any](v Visitor[R], n Node) (R, error) {
	switch nT := n.(type) {
	case *Operation:
		return v.VisitOperation(nT)
	case *BinaryOperation:
		return v.VisitBinaryOperation(nT)
	case *UnaryOperation:
		return v.VisitUnaryOperation(nT)
	case *SliceOperation:
		return v.VisitSliceOperation(nT)
	case *ConcatOperation:
		return v.VisitConcatOperation(nT)
	case *IntLiteral:
		return v.VisitIntLiteral(nT)
	case *ScalarDefinition:
		return v.VisitScalarDefinition(nT)
	case *Break:
		return v.VisitBreak(nT)
	case *Assignment:
		return v.VisitAssignment(nT)
	case *Conditional:
		return v.VisitConditional(nT)
	case *Loop:
		return v.VisitLoop(nT)
	case *Ternary:
		return v.VisitTernary(nT)
	case *Return:
		return v.VisitReturn(nT)
	case *NamedReference:
		return v.VisitNamedReference(nT)
	case *IndexedReference:
		return v.VisitIndexedReference(nT)
	case *TypeConv:
		return v.VisitTypeConv(nT)
	case *Callable:
		return v.VisitCallable(nT)
	case *Group:
		return v.VisitGroup(nT)
	case *ProcedureCall:
		return v.VisitProcedureCall(nT)
	}
	var zero R
	if n == nil {
		return zero, fmterr.Internalf("cannot visit a nil node")
	}
	return zero, fmterr.Internalf("node type %T not supported", n)
}

// Rewriter is a visitor returning a replacement for each node it visits.
// The replacement may have a different type than the node being replaced:
// callers always use the returned node.
type Rewriter = Visitor[Node]

// Transform is a Rewriter building new nodes from their rewritten
// children (post-order). Passes embed Transform, set Self to themselves
// and override the methods of the nodes they rewrite. Children are
// rewritten by Self so that overridden methods apply at every depth.
//
// The zero Transform deep copies a tree.
type Transform struct {
	Self Rewriter
}

var _ Rewriter = Transform{}

// Rewrite a node with the rewriter of the transform.
func (t Transform) Rewrite(n Node) (Node, error) {
	if t.Self == nil {
		return Accept[Node](t, n)
	}
	return Accept(t.Self, n)
}

// RewriteOpt rewrites an optional node. A nil node is returned as is.
func (t Transform) RewriteOpt(n Node) (Node, error) {
	if n == nil {
		return nil, nil
	}
	return t.Rewrite(n)
}

// RewriteList rewrites all the nodes of a list.
func (t Transform) RewriteList(ns []Node) ([]Node, error) {
	if ns == nil {
		return nil, nil
	}
	out := make([]Node, len(ns))
	for i, n := range ns {
		var err error
		if out[i], err = t.Rewrite(n); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// RewriteBlock rewrites a block. A statement rewritten as a non-block
// node is wrapped into a new block.
func (t Transform) RewriteBlock(op *Operation) (*Operation, error) {
	if op == nil {
		return nil, nil
	}
	n, err := t.Rewrite(op)
	if err != nil {
		return nil, err
	}
	return AsBlock(n), nil
}

// AsBlock returns n if it is a block or a new block with n as its
// only statement. A nil node returns an empty block.
func AsBlock(n Node) *Operation {
	switch nT := n.(type) {
	case nil:
		return &Operation{}
	case *Operation:
		return nT
	}
	return &Operation{Statements: []Node{n}}
}

// VisitOperation rewrites all the statements of a block.
// Statements rewritten to nil are removed from the block.
func (t Transform) VisitOperation(n *Operation) (Node, error) {
	stmts := make([]Node, 0, len(n.Statements))
	for _, stmt := range n.Statements {
		rw, err := t.Rewrite(stmt)
		if err != nil {
			return nil, err
		}
		if rw == nil {
			continue
		}
		stmts = append(stmts, rw)
	}
	return &Operation{Typed: n.Typed, Statements: stmts}, nil
}

// VisitBinaryOperation rewrites both operands.
func (t Transform) VisitBinaryOperation(n *BinaryOperation) (Node, error) {
	left, err := t.Rewrite(n.Left)
	if err != nil {
		return nil, err
	}
	right, err := t.Rewrite(n.Right)
	if err != nil {
		return nil, err
	}
	return &BinaryOperation{Typed: n.Typed, Op: n.Op, Left: left, Right: right}, nil
}

// VisitUnaryOperation rewrites the operand.
func (t Transform) VisitUnaryOperation(n *UnaryOperation) (Node, error) {
	operand, err := t.Rewrite(n.Operand)
	if err != nil {
		return nil, err
	}
	return &UnaryOperation{Typed: n.Typed, Op: n.Op, Operand: operand}, nil
}

// VisitSliceOperation rewrites the expression and the bounds.
func (t Transform) VisitSliceOperation(n *SliceOperation) (Node, error) {
	expr, err := t.Rewrite(n.Expr)
	if err != nil {
		return nil, err
	}
	high, err := t.Rewrite(n.High)
	if err != nil {
		return nil, err
	}
	low, err := t.Rewrite(n.Low)
	if err != nil {
		return nil, err
	}
	return &SliceOperation{Typed: n.Typed, Expr: expr, High: high, Low: low}, nil
}

// VisitConcatOperation rewrites both operands.
func (t Transform) VisitConcatOperation(n *ConcatOperation) (Node, error) {
	left, err := t.Rewrite(n.Left)
	if err != nil {
		return nil, err
	}
	right, err := t.Rewrite(n.Right)
	if err != nil {
		return nil, err
	}
	return &ConcatOperation{Typed: n.Typed, Left: left, Right: right}, nil
}

// VisitIntLiteral returns a copy of the literal.
func (t Transform) VisitIntLiteral(n *IntLiteral) (Node, error) {
	lit := *n
	if n.Value != nil {
		lit.Value = new(big.Int).Set(n.Value)
	}
	return &lit, nil
}

// VisitScalarDefinition rewrites the initialiser.
func (t Transform) VisitScalarDefinition(n *ScalarDefinition) (Node, error) {
	init, err := t.RewriteOpt(n.Init)
	if err != nil {
		return nil, err
	}
	return &ScalarDefinition{Typed: n.Typed, Name: n.Name, Declared: n.Declared, Init: init}, nil
}

// VisitBreak returns a copy of the statement.
func (t Transform) VisitBreak(n *Break) (Node, error) {
	return &Break{Typed: n.Typed}, nil
}

// VisitAssignment rewrites the target and the expression.
func (t Transform) VisitAssignment(n *Assignment) (Node, error) {
	target, err := t.Rewrite(n.Target)
	if err != nil {
		return nil, err
	}
	expr, err := t.Rewrite(n.Expr)
	if err != nil {
		return nil, err
	}
	return &Assignment{Typed: n.Typed, Target: target, Expr: expr}, nil
}

// VisitConditional rewrites all conditions and branches.
func (t Transform) VisitConditional(n *Conditional) (Node, error) {
	conds, err := t.RewriteList(n.Conds)
	if err != nil {
		return nil, err
	}
	branches := make([]*Operation, len(n.Branches))
	for i, branch := range n.Branches {
		if branches[i], err = t.RewriteBlock(branch); err != nil {
			return nil, err
		}
	}
	return &Conditional{Typed: n.Typed, Conds: conds, Branches: branches}, nil
}

// VisitLoop rewrites the condition and the body.
func (t Transform) VisitLoop(n *Loop) (Node, error) {
	cond, err := t.Rewrite(n.Cond)
	if err != nil {
		return nil, err
	}
	body, err := t.RewriteBlock(n.Body)
	if err != nil {
		return nil, err
	}
	return &Loop{Typed: n.Typed, Cond: cond, Body: body, PostTest: n.PostTest}, nil
}

// VisitTernary rewrites the condition and both alternatives.
func (t Transform) VisitTernary(n *Ternary) (Node, error) {
	cond, err := t.Rewrite(n.Cond)
	if err != nil {
		return nil, err
	}
	then, err := t.Rewrite(n.Then)
	if err != nil {
		return nil, err
	}
	els, err := t.Rewrite(n.Else)
	if err != nil {
		return nil, err
	}
	return &Ternary{Typed: n.Typed, Cond: cond, Then: then, Else: els}, nil
}

// VisitReturn rewrites the optional result.
func (t Transform) VisitReturn(n *Return) (Node, error) {
	expr, err := t.RewriteOpt(n.Expr)
	if err != nil {
		return nil, err
	}
	return &Return{Typed: n.Typed, Expr: expr}, nil
}

// VisitNamedReference returns a copy of the reference.
func (t Transform) VisitNamedReference(n *NamedReference) (Node, error) {
	ref := *n
	return &ref, nil
}

// VisitIndexedReference rewrites the index.
func (t Transform) VisitIndexedReference(n *IndexedReference) (Node, error) {
	index, err := t.Rewrite(n.Index)
	if err != nil {
		return nil, err
	}
	return &IndexedReference{Typed: n.Typed, Name: n.Name, Index: index}, nil
}

// VisitTypeConv rewrites the expression being converted.
func (t Transform) VisitTypeConv(n *TypeConv) (Node, error) {
	expr, err := t.Rewrite(n.Expr)
	if err != nil {
		return nil, err
	}
	return &TypeConv{Typed: n.Typed, Kind: n.Kind, Width: n.Width, Expr: expr}, nil
}

// VisitCallable rewrites the arguments.
func (t Transform) VisitCallable(n *Callable) (Node, error) {
	args, err := t.RewriteList(n.Args)
	if err != nil {
		return nil, err
	}
	return &Callable{Typed: n.Typed, Name: n.Name, Args: args}, nil
}

// VisitGroup rewrites the grouped expression.
func (t Transform) VisitGroup(n *Group) (Node, error) {
	expr, err := t.Rewrite(n.Expr)
	if err != nil {
		return nil, err
	}
	return &Group{Typed: n.Typed, Expr: expr}, nil
}

// VisitProcedureCall returns a copy of the call. Passes do not rewrite
// the arguments of a procedure call, but a copy is still a deep copy.
func (t Transform) VisitProcedureCall(n *ProcedureCall) (Node, error) {
	args := make([]Node, len(n.Args))
	for i, arg := range n.Args {
		args[i] = Clone(arg)
	}
	return &ProcedureCall{Typed: n.Typed, Name: n.Name, Args: args}, nil
}

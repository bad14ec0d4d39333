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
	"github.com/seal5-go/seal5/build/fmterr"
)

// Clone returns a deep copy of a behavior tree.
// Types are shared between the original and the copy since types
// are never modified in place.
func Clone(n Node) Node {
	if n == nil {
		return nil
	}
	cl, err := Transform{}.Rewrite(n)
	if err != nil {
		// Only reachable with a node type missing from Accept.
		panic(fmterr.Internal(err))
	}
	return cl
}

// CloneBlock returns a deep copy of a block.
func CloneBlock(op *Operation) *Operation {
	if op == nil {
		return nil
	}
	return AsBlock(Clone(op))
}

// Children returns the direct children of a node, in evaluation order.
// Optional children which are not set are omitted.
func Children(n Node) []Node {
	switch nT := n.(type) {
	case *Operation:
		return nT.Statements
	case *BinaryOperation:
		return []Node{nT.Left, nT.Right}
	case *UnaryOperation:
		return []Node{nT.Operand}
	case *SliceOperation:
		return []Node{nT.Expr, nT.High, nT.Low}
	case *ConcatOperation:
		return []Node{nT.Left, nT.Right}
	case *IntLiteral, *Break, *NamedReference:
		return nil
	case *ScalarDefinition:
		return optional(nT.Init)
	case *Assignment:
		return []Node{nT.Target, nT.Expr}
	case *Conditional:
		var children []Node
		for i, branch := range nT.Branches {
			if i < len(nT.Conds) {
				children = append(children, nT.Conds[i])
			}
			if branch != nil {
				children = append(children, branch)
			}
		}
		return children
	case *Loop:
		if nT.Body == nil {
			return []Node{nT.Cond}
		}
		return []Node{nT.Cond, nT.Body}
	case *Ternary:
		return []Node{nT.Cond, nT.Then, nT.Else}
	case *Return:
		return optional(nT.Expr)
	case *IndexedReference:
		return []Node{nT.Index}
	case *TypeConv:
		return []Node{nT.Expr}
	case *Callable:
		return nT.Args
	case *Group:
		return []Node{nT.Expr}
	case *ProcedureCall:
		return nT.Args
	}
	panic(fmterr.Internalf("node type %T not supported", n))
}

func optional(n Node) []Node {
	if n == nil {
		return nil
	}
	return []Node{n}
}

// Walk traverses a tree in pre-order. The children of a node are
// not visited if f returns false for that node.
func Walk(n Node, f func(Node) bool) {
	if n == nil {
		return
	}
	if !f(n) {
		return
	}
	for _, child := range Children(n) {
		Walk(child, f)
	}
}

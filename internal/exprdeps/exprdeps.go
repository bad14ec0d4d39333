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

// Package exprdeps extracts the symbols referenced by behavior trees.
package exprdeps

import (
	"slices"

	"github.com/seal5-go/seal5/base/ordered"
	"github.com/seal5-go/seal5/build/ir"
)

// Use is the kind of definition a reference may resolve to.
type Use int

// Uses of a symbol.
const (
	// UseAny is a reference which has not been resolved.
	// It may refer to a definition of any kind.
	UseAny Use = iota
	UseConstant
	UseMemory
	UseFunction
)

// String representation of the use.
func (u Use) String() string {
	switch u {
	case UseConstant:
		return "constant"
	case UseMemory:
		return "memory"
	case UseFunction:
		return "function"
	}
	return "any"
}

// Matches returns true if a reference with this use may resolve
// to a definition of kind other.
func (u Use) Matches(other Use) bool {
	return u == UseAny || u == other
}

// Ref is a symbol referenced in a tree.
type Ref struct {
	Name string
	Use  Use
}

func use(n ir.Node) (Ref, bool) {
	switch nT := n.(type) {
	case *ir.NamedReference:
		switch nT.Kind {
		case ir.SymbolConstant:
			return Ref{Name: nT.Name, Use: UseConstant}, true
		case ir.SymbolMemory:
			return Ref{Name: nT.Name, Use: UseMemory}, true
		case ir.SymbolScalar:
			return Ref{}, false
		}
		return Ref{Name: nT.Name, Use: UseAny}, true
	case *ir.IndexedReference:
		return Ref{Name: nT.Name, Use: UseMemory}, true
	case *ir.Callable:
		return Ref{Name: nT.Name, Use: UseFunction}, true
	case *ir.ProcedureCall:
		return Ref{Name: nT.Name, Use: UseFunction}, true
	}
	return Ref{}, false
}

func refs(done *ordered.Map[Ref, bool], n ir.Node) {
	ir.Walk(n, func(n ir.Node) bool {
		if ref, ok := use(n); ok {
			done.Store(ref, true)
		}
		return true
	})
}

// Refs returns all the symbols referenced in a tree, in the order in
// which they are first referenced. Local scalars are not included.
func Refs(n ir.Node) []Ref {
	done := ordered.NewMap[Ref, bool]()
	refs(done, n)
	return slices.Collect(done.Keys())
}

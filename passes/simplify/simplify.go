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

// Package simplify removes the slices selecting all the bits of an expression.
package simplify

import (
	"context"

	"github.com/seal5-go/seal5/base/logs"
	"github.com/seal5-go/seal5/build/fmterr"
	"github.com/seal5-go/seal5/build/ir"
)

// Report of the pass.
type Report struct {
	// Collapsed is the number of slices replaced by their expression.
	Collapsed int
	// Diagnostics lists the slices which could not be checked.
	Diagnostics []fmterr.Diagnostic
}

type simplifier struct {
	ir.Transform
	app       *fmterr.Appender
	collapsed int
}

func newSimplifier(app *fmterr.Appender) *simplifier {
	s := &simplifier{app: app}
	s.Self = s
	return s
}

func bound(n ir.Node) (int64, bool) {
	lit, ok := n.(*ir.IntLiteral)
	if !ok {
		return 0, false
	}
	return lit.Int64()
}

// VisitSliceOperation replaces a slice by its expression if the slice
// selects all the bits of the expression.
func (s *simplifier) VisitSliceOperation(n *ir.SliceOperation) (ir.Node, error) {
	rw, err := s.Transform.VisitSliceOperation(n)
	if err != nil {
		return nil, err
	}
	slice := rw.(*ir.SliceOperation)
	high, hOk := bound(slice.High)
	low, lOk := bound(slice.Low)
	if !hOk || !lOk {
		return slice, nil
	}
	src := slice.Expr.Type()
	if src == nil || !src.Kind.HasWidth() {
		s.app.Warn(fmterr.Preconditionf("slice [%d:%d]: expression has no inferred width", high, low))
		return slice, nil
	}
	if high < low {
		return nil, fmterr.Structuralf("slice [%d:%d] is inverted", high, low)
	}
	width := int64(src.Width)
	if target := high - low + 1; target > width {
		return nil, fmterr.Structuralf("slice [%d:%d] selects %d bits from an expression of %d bits", high, low, target, width)
	}
	if high >= width || low < 0 {
		return nil, fmterr.Structuralf("slice [%d:%d] is out of the bits of %s", high, low, src)
	}
	if high-low+1 != width {
		return slice, nil
	}
	s.collapsed++
	if group, ok := slice.Expr.(*ir.Group); ok {
		return group, nil
	}
	group := &ir.Group{Expr: slice.Expr}
	group.SetType(src)
	return group, nil
}

func (s *simplifier) behavior(op *ir.Operation) (*ir.Operation, error) {
	if op == nil {
		return nil, nil
	}
	return s.RewriteBlock(op)
}

// Behavior simplifies the slices of a behavior tree.
func Behavior(behavior *ir.Operation) (*ir.Operation, *Report, error) {
	app := &fmterr.Appender{}
	s := newSimplifier(app)
	op, err := s.behavior(behavior)
	if err != nil {
		return nil, nil, err
	}
	return op, &Report{Collapsed: s.collapsed, Diagnostics: app.Diagnostics()}, nil
}

// Run simplifies the slices of all the instructions of a model.
// An invalid slice aborts the pass.
func Run(ctx context.Context, m *ir.Model) (*Report, error) {
	if m == nil {
		return nil, fmterr.Preconditionf("no model to process")
	}
	app := &fmterr.Appender{}
	report := &Report{}
	for scope := range m.Scopes() {
		app.Push("%s", scope.Label)
		for instr := range scope.Instructions.Values() {
			app.Push("instruction %s", instr.Name)
			s := newSimplifier(app)
			behavior, err := s.behavior(instr.Behavior)
			if err != nil {
				app.Append(err)
				return nil, app.Err()
			}
			instr.Behavior = behavior
			report.Collapsed += s.collapsed
			app.Pop()
		}
		app.Pop()
	}
	report.Diagnostics = app.Diagnostics()
	for _, diag := range report.Diagnostics {
		logs.Warnw(ctx, "slice not simplified", "context", diag.Context, "err", diag.Err)
	}
	logs.Infow(ctx, "simplified slices", "collapsed", report.Collapsed)
	return report, nil
}

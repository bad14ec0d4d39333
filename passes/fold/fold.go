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

// Package fold evaluates the operations on literals of behavior trees,
// removes unreachable branches and makes narrowing assignments explicit.
package fold

import (
	"context"
	"fmt"

	"github.com/pkg/errors"
	"github.com/seal5-go/seal5/base/logs"
	"github.com/seal5-go/seal5/build/fmterr"
	"github.com/seal5-go/seal5/build/ir"
)

// Reason why a statement has been removed.
type Reason int

const (
	// Unreachable statements can never be executed.
	Unreachable Reason = iota
	// Unsupported statements contain an operation which cannot be folded.
	Unsupported
)

// String representation of the reason.
func (r Reason) String() string {
	if r == Unsupported {
		return "unsupported"
	}
	return "unreachable"
}

// Removal is a statement removed by the pass.
type Removal struct {
	Reason    Reason
	Context   string
	Statement ir.Node
	Err       error
}

// Report of the pass.
type Report struct {
	// Removals lists the statements which have been removed.
	Removals []Removal
	// Diagnostics lists the non-fatal messages emitted by the pass.
	Diagnostics []fmterr.Diagnostic
	// Folded is the number of operations replaced by a literal.
	Folded int
	// Truncated is the number of explicit truncations inserted.
	Truncated int
}

func (r *Report) merge(other *Report) {
	r.Removals = append(r.Removals, other.Removals...)
	r.Diagnostics = append(r.Diagnostics, other.Diagnostics...)
	r.Folded += other.Folded
	r.Truncated += other.Truncated
}

type folder struct {
	ir.Transform
	app    *fmterr.Appender
	report *Report
	// spliced are the blocks to insert into their enclosing block.
	spliced map[*ir.Operation]bool
}

func newFolder(app *fmterr.Appender) *folder {
	f := &folder{
		app:     app,
		report:  &Report{},
		spliced: make(map[*ir.Operation]bool),
	}
	f.Self = f
	return f
}

func (f *folder) remove(reason Reason, stmt ir.Node, err error) {
	f.report.Removals = append(f.report.Removals, Removal{
		Reason:    reason,
		Context:   f.app.Context(),
		Statement: stmt,
		Err:       err,
	})
	if reason == Unsupported {
		f.app.Warn(err)
	}
}

// VisitOperation folds all the statements of a block. Statements which
// cannot be folded are removed from the block, the other statements
// of the block are kept.
func (f *folder) VisitOperation(n *ir.Operation) (ir.Node, error) {
	stmts := make([]ir.Node, 0, len(n.Statements))
	for _, stmt := range n.Statements {
		rw, err := f.Rewrite(stmt)
		if errors.Is(err, fmterr.ErrUnsupported) {
			f.remove(Unsupported, stmt, err)
			continue
		}
		if err != nil {
			return nil, err
		}
		switch rwT := rw.(type) {
		case nil:
			continue
		case *ir.Operation:
			if f.spliced[rwT] {
				stmts = append(stmts, rwT.Statements...)
				continue
			}
		}
		stmts = append(stmts, rw)
	}
	return &ir.Operation{Typed: n.Typed, Statements: stmts}, nil
}

func (f *folder) literal(n ir.Node, v *bigValue) *ir.IntLiteral {
	f.report.Folded++
	return newLiteral(n.Type(), v)
}

// VisitBinaryOperation folds operations on two literals.
func (f *folder) VisitBinaryOperation(n *ir.BinaryOperation) (ir.Node, error) {
	rw, err := f.Transform.VisitBinaryOperation(n)
	if err != nil {
		return nil, err
	}
	bin := rw.(*ir.BinaryOperation)
	x, xOk := valueOf(bin.Left)
	y, yOk := valueOf(bin.Right)
	if !xOk || !yOk {
		return bin, nil
	}
	v, ok, err := binary(bin.Op, x, y)
	if err != nil {
		return nil, err
	}
	if !ok {
		return bin, nil
	}
	return f.literal(bin, v), nil
}

// VisitUnaryOperation folds operations on a literal.
func (f *folder) VisitUnaryOperation(n *ir.UnaryOperation) (ir.Node, error) {
	rw, err := f.Transform.VisitUnaryOperation(n)
	if err != nil {
		return nil, err
	}
	un := rw.(*ir.UnaryOperation)
	x, ok := valueOf(un.Operand)
	if !ok {
		return un, nil
	}
	if un.Op == ir.OpNot && literalWidth(un) == 0 {
		// The complement of a value depends on its width.
		return un, nil
	}
	v, err := unary(un.Op, x)
	if err != nil {
		return nil, err
	}
	return f.literal(un, v), nil
}

// VisitSliceOperation folds a slice of a literal with literal bounds.
func (f *folder) VisitSliceOperation(n *ir.SliceOperation) (ir.Node, error) {
	rw, err := f.Transform.VisitSliceOperation(n)
	if err != nil {
		return nil, err
	}
	slice := rw.(*ir.SliceOperation)
	x, xOk := valueOf(slice.Expr)
	high, hOk := valueOf(slice.High)
	low, lOk := valueOf(slice.Low)
	if !xOk || !hOk || !lOk {
		return slice, nil
	}
	v, ok := bits(x, high, low)
	if !ok {
		return slice, nil
	}
	return f.literal(slice, v), nil
}

// VisitConcatOperation folds the concatenation of two literals when the
// width of the right operand is known.
func (f *folder) VisitConcatOperation(n *ir.ConcatOperation) (ir.Node, error) {
	rw, err := f.Transform.VisitConcatOperation(n)
	if err != nil {
		return nil, err
	}
	concat := rw.(*ir.ConcatOperation)
	x, xOk := valueOf(concat.Left)
	y, yOk := valueOf(concat.Right)
	width := literalWidth(concat.Right)
	if !xOk || !yOk || width == 0 {
		return concat, nil
	}
	return f.literal(concat, concatenate(x, y, width)), nil
}

// VisitGroup collapses a group of a literal into the literal.
func (f *folder) VisitGroup(n *ir.Group) (ir.Node, error) {
	rw, err := f.Transform.VisitGroup(n)
	if err != nil {
		return nil, err
	}
	group := rw.(*ir.Group)
	lit, ok := group.Expr.(*ir.IntLiteral)
	if !ok || lit.Value == nil {
		return group, nil
	}
	if group.Type() != nil {
		lit.SetType(group.Type())
	}
	return lit, nil
}

// VisitTypeConv folds the conversion of a literal.
func (f *folder) VisitTypeConv(n *ir.TypeConv) (ir.Node, error) {
	rw, err := f.Transform.VisitTypeConv(n)
	if err != nil {
		return nil, err
	}
	conv := rw.(*ir.TypeConv)
	x, ok := valueOf(conv.Expr)
	if !ok {
		return conv, nil
	}
	width := conv.Width
	if width == 0 {
		width = literalWidth(conv.Expr)
	}
	if width == 0 || !conv.Kind.HasWidth() {
		return conv, nil
	}
	target := &ir.DataType{Kind: conv.Kind, Width: width}
	lit := newLiteral(target, x)
	lit.Width = width
	lit.Signed = target.Signed()
	f.report.Folded++
	return lit, nil
}

// VisitTernary selects an alternative if the condition is a literal.
func (f *folder) VisitTernary(n *ir.Ternary) (ir.Node, error) {
	rw, err := f.Transform.VisitTernary(n)
	if err != nil {
		return nil, err
	}
	tern := rw.(*ir.Ternary)
	cond, ok := valueOf(tern.Cond)
	if !ok {
		return tern, nil
	}
	f.report.Folded++
	if cond.truth() {
		return tern.Then, nil
	}
	return tern.Else, nil
}

// VisitConditional removes the branches which can never be executed.
// A conditional reduced to a single branch always executed is replaced
// by the statements of that branch, or by the branch as a nested block
// if it defines scalars.
func (f *folder) VisitConditional(n *ir.Conditional) (ir.Node, error) {
	out := &ir.Conditional{Typed: n.Typed}
	for i, branch := range n.Branches {
		if i >= len(n.Conds) {
			els, err := f.RewriteBlock(branch)
			if err != nil {
				return nil, err
			}
			out.Branches = append(out.Branches, els)
			break
		}
		cond, err := f.Rewrite(n.Conds[i])
		if err != nil {
			return nil, err
		}
		v, isLit := valueOf(cond)
		if isLit && !v.truth() {
			f.remove(Unreachable, branch, errors.Errorf("condition %d is always false", i))
			continue
		}
		block, err := f.RewriteBlock(branch)
		if err != nil {
			return nil, err
		}
		if !isLit {
			out.Conds = append(out.Conds, cond)
			out.Branches = append(out.Branches, block)
			continue
		}
		// The condition is always true: the branch becomes the else branch
		// and the following branches can never be executed.
		out.Branches = append(out.Branches, block)
		for j := i + 1; j < len(n.Branches); j++ {
			f.remove(Unreachable, n.Branches[j], errors.Errorf("condition %d is always true", i))
		}
		break
	}
	switch {
	case len(out.Branches) == 0:
		return nil, nil
	case len(out.Conds) == 0:
		block := out.Branches[0]
		if !declaresScalars(block) {
			f.spliced[block] = true
		}
		return block, nil
	}
	return out, nil
}

// declaresScalars returns true if a block defines scalars in its own scope.
// Such a block cannot be spliced into its enclosing block.
func declaresScalars(op *ir.Operation) bool {
	for _, stmt := range op.Statements {
		if _, ok := stmt.(*ir.ScalarDefinition); ok {
			return true
		}
	}
	return false
}

// VisitLoop removes loops which are never entered.
func (f *folder) VisitLoop(n *ir.Loop) (ir.Node, error) {
	cond, err := f.Rewrite(n.Cond)
	if err != nil {
		return nil, err
	}
	if v, ok := valueOf(cond); ok && !v.truth() && !n.PostTest {
		f.remove(Unreachable, n, errors.Errorf("loop condition is always false"))
		return nil, nil
	}
	body, err := f.RewriteBlock(n.Body)
	if err != nil {
		return nil, err
	}
	return &ir.Loop{Typed: n.Typed, Cond: cond, Body: body, PostTest: n.PostTest}, nil
}

func (f *folder) truncate(target *ir.DataType, expr ir.Node, what string) ir.Node {
	exprType := expr.Type()
	if target == nil || exprType == nil {
		f.app.Debugf("%s: missing type: no truncation inserted", what)
		return expr
	}
	if !target.Kind.HasWidth() || !exprType.Kind.HasWidth() {
		return expr
	}
	if target.Width >= exprType.Width {
		return expr
	}
	f.report.Truncated++
	group := &ir.Group{Expr: expr}
	group.SetType(exprType)
	slice := &ir.SliceOperation{
		Expr: group,
		High: &ir.IntLiteral{Value: bigInt(int64(target.Width - 1))},
		Low:  &ir.IntLiteral{Value: bigInt(0)},
	}
	slice.SetType(target)
	return slice
}

// VisitAssignment makes the truncation of the assigned value explicit
// when the target is narrower than the value.
func (f *folder) VisitAssignment(n *ir.Assignment) (ir.Node, error) {
	rw, err := f.Transform.VisitAssignment(n)
	if err != nil {
		return nil, err
	}
	assign := rw.(*ir.Assignment)
	assign.Expr = f.truncate(assign.Target.Type(), assign.Expr, "assignment")
	return assign, nil
}

// VisitScalarDefinition makes the truncation of the initial value explicit
// when the scalar is narrower than the value.
func (f *folder) VisitScalarDefinition(n *ir.ScalarDefinition) (ir.Node, error) {
	rw, err := f.Transform.VisitScalarDefinition(n)
	if err != nil {
		return nil, err
	}
	def := rw.(*ir.ScalarDefinition)
	if def.Init != nil {
		declared := def.Declared
		def.Init = f.truncate(&declared, def.Init, fmt.Sprintf("definition of %s", def.Name))
	}
	return def, nil
}

func (f *folder) behavior(op *ir.Operation) (*ir.Operation, error) {
	if op == nil {
		return nil, nil
	}
	rw, err := f.Rewrite(op)
	if err != nil {
		return nil, err
	}
	return ir.AsBlock(rw), nil
}

// Behavior folds a behavior tree.
func Behavior(behavior *ir.Operation) (*ir.Operation, *Report, error) {
	app := &fmterr.Appender{}
	f := newFolder(app)
	op, err := f.behavior(behavior)
	if err != nil {
		return nil, nil, err
	}
	f.report.Diagnostics = app.Diagnostics()
	return op, f.report, nil
}

// Run folds the behavior of all the instructions of a model.
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
			f := newFolder(app)
			behavior, err := f.behavior(instr.Behavior)
			if err != nil {
				return nil, fmterr.PrefixWith("%s: ", app.Context())(err)
			}
			instr.Behavior = behavior
			report.merge(f.report)
			app.Pop()
		}
		app.Pop()
	}
	report.Diagnostics = app.Diagnostics()
	for _, diag := range report.Diagnostics {
		switch diag.Level {
		case logs.Warning:
			logs.Warnw(ctx, "statement removed", "context", diag.Context, "err", diag.Err)
		case logs.Debug:
			logs.Debugw(ctx, diag.Err.Error(), "context", diag.Context)
		}
	}
	logs.Infow(ctx, "folded constants", "folded", report.Folded, "truncated", report.Truncated, "removed", len(report.Removals))
	return report, nil
}

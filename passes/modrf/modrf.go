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

// Package modrf removes the modulo operations by the size of the register
// file applied to register indices.
//
// Only the exact form `name % size` is rewritten. The commuted form
// `size % name` is left unchanged.
package modrf

import (
	"context"

	"github.com/seal5-go/seal5/base/logs"
	"github.com/seal5-go/seal5/build/fmterr"
	"github.com/seal5-go/seal5/build/ir"
)

// DefaultRegisterFileSize is the number of registers in a RISC-V register file.
const DefaultRegisterFileSize = 32

// Config of the pass.
type Config struct {
	// RegisterFileSize is the right operand of the modulo operations to remove.
	RegisterFileSize int64
}

// DefaultConfig returns the configuration for RISC-V register files.
func DefaultConfig() Config {
	return Config{RegisterFileSize: DefaultRegisterFileSize}
}

// Validate the configuration.
func (cfg Config) Validate() error {
	if cfg.RegisterFileSize <= 0 {
		return fmterr.Usagef("register file size must be positive, got %d", cfg.RegisterFileSize)
	}
	return nil
}

type rewriter struct {
	ir.Transform
	cfg     Config
	removed int
}

func (r *rewriter) VisitBinaryOperation(n *ir.BinaryOperation) (ir.Node, error) {
	if n.Op == ir.OpMod {
		ref, isRef := n.Left.(*ir.NamedReference)
		lit, isLit := n.Right.(*ir.IntLiteral)
		if isRef && isLit {
			if v, ok := lit.Int64(); ok && v == r.cfg.RegisterFileSize {
				r.removed++
				return r.Rewrite(ref)
			}
		}
	}
	return r.Transform.VisitBinaryOperation(n)
}

// Rewrite returns a behavior tree without the modulo operations by the
// register file size. It also returns the number of operations removed.
func Rewrite(cfg Config, behavior *ir.Operation) (*ir.Operation, int, error) {
	r := &rewriter{cfg: cfg}
	r.Self = r
	op, err := r.RewriteBlock(behavior)
	if err != nil {
		return nil, 0, err
	}
	return op, r.removed, nil
}

// Run rewrites the behavior of all the instructions of a model.
func Run(ctx context.Context, cfg Config, m *ir.Model) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	if m == nil {
		return fmterr.Preconditionf("no model to process")
	}
	for scope := range m.Scopes() {
		for instr := range scope.Instructions.Values() {
			behavior, removed, err := Rewrite(cfg, instr.Behavior)
			if err != nil {
				return fmterr.PrefixWith("%s: instruction %s: ", scope.Label, instr.Name)(err)
			}
			instr.Behavior = behavior
			if removed > 0 {
				logs.Debugw(ctx, "removed register file modulo", "scope", scope.Label, "instruction", instr.Name, "count", removed)
			}
		}
	}
	return nil
}

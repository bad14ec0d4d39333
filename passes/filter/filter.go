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

// Package filter selects the instruction sets and instructions of a model.
//
// Each selection axis has a list of names or patterns to keep and a list
// to drop. An entity is selected if it matches one of the patterns to keep
// (when there is any) and none of the patterns to drop.
package filter

import (
	"context"
	"regexp"
	"slices"

	"github.com/seal5-go/seal5/base/logs"
	"github.com/seal5-go/seal5/build/fmterr"
	"github.com/seal5-go/seal5/build/ir"
	"go.uber.org/multierr"
)

// Patterns are regular expressions matched against complete names.
type Patterns struct {
	Keep, Drop []string
}

// Opcodes are names or values of major opcodes.
type Opcodes struct {
	Keep, Drop []string
}

// Sizes are encoding widths, in bits.
type Sizes struct {
	Keep, Drop []int
}

// Config of a filter.
type Config struct {
	Sets         Patterns
	Instructions Patterns
	Opcodes      Opcodes
	Sizes        Sizes
}

// Empty returns true if the configuration selects everything.
func (cfg Config) Empty() bool {
	return len(cfg.Sets.Keep)+len(cfg.Sets.Drop)+
		len(cfg.Instructions.Keep)+len(cfg.Instructions.Drop)+
		len(cfg.Opcodes.Keep)+len(cfg.Opcodes.Drop)+
		len(cfg.Sizes.Keep)+len(cfg.Sizes.Drop) == 0
}

// selected combines the result of matching against the lists to keep
// and to drop.
func selected(keep []bool, drop []bool) bool {
	if len(keep) > 0 && !slices.Contains(keep, true) {
		return false
	}
	return !slices.Contains(drop, true)
}

func matchAll[T any](xs []T, match func(T) bool) []bool {
	if len(xs) == 0 {
		return nil
	}
	res := make([]bool, len(xs))
	for i, x := range xs {
		res[i] = match(x)
	}
	return res
}

type matcher struct {
	keep, drop []*regexp.Regexp
}

func compile(patterns []string) ([]*regexp.Regexp, error) {
	var errs error
	res := make([]*regexp.Regexp, 0, len(patterns))
	for _, pattern := range patterns {
		re, err := regexp.Compile("^(?:" + pattern + ")$")
		if err != nil {
			errs = multierr.Append(errs, fmterr.Usagef("invalid pattern %q: %v", pattern, err))
			continue
		}
		res = append(res, re)
	}
	return res, errs
}

func newMatcher(p Patterns) (matcher, error) {
	keep, kErr := compile(p.Keep)
	drop, dErr := compile(p.Drop)
	return matcher{keep: keep, drop: drop}, multierr.Combine(kErr, dErr)
}

func (m matcher) match(name string) bool {
	matchName := func(re *regexp.Regexp) bool { return re.MatchString(name) }
	return selected(matchAll(m.keep, matchName), matchAll(m.drop, matchName))
}

func parseOpcodes(names []string) ([]Opcode, error) {
	var errs error
	ops := make([]Opcode, 0, len(names))
	for _, name := range names {
		op, err := ParseOpcode(name)
		if err != nil {
			errs = multierr.Append(errs, err)
			continue
		}
		ops = append(ops, op)
	}
	return ops, errs
}

func checkSizes(sizes []int) error {
	var errs error
	for _, size := range sizes {
		if !ir.ValidEncodingWidth(size) {
			errs = multierr.Append(errs, fmterr.Usagef("invalid encoding size %d: want one of %v", size, ir.EncodingWidths))
		}
	}
	return errs
}

// Filter selects instruction sets and instructions.
type Filter struct {
	sets, instrs         matcher
	keepOps, dropOps     []Opcode
	keepSizes, dropSizes []int
}

// New returns a filter given a configuration.
// All the errors of the configuration are reported.
func New(cfg Config) (*Filter, error) {
	f := &Filter{
		keepSizes: cfg.Sizes.Keep,
		dropSizes: cfg.Sizes.Drop,
	}
	var errs, err error
	f.sets, err = newMatcher(cfg.Sets)
	errs = multierr.Append(errs, err)
	f.instrs, err = newMatcher(cfg.Instructions)
	errs = multierr.Append(errs, err)
	f.keepOps, err = parseOpcodes(cfg.Opcodes.Keep)
	errs = multierr.Append(errs, err)
	f.dropOps, err = parseOpcodes(cfg.Opcodes.Drop)
	errs = multierr.Append(errs, err)
	errs = multierr.Append(errs, checkSizes(cfg.Sizes.Keep))
	errs = multierr.Append(errs, checkSizes(cfg.Sizes.Drop))
	if errs != nil {
		return nil, errs
	}
	return f, nil
}

// SelectSet returns true if the instruction set is selected.
func (f *Filter) SelectSet(name string) bool {
	return f.sets.match(name)
}

// SelectInstruction returns true if the instruction is selected.
// Instructions without a major opcode are not filtered by opcode.
func (f *Filter) SelectInstruction(instr *ir.Instruction) bool {
	if !f.instrs.match(instr.Name) {
		return false
	}
	if op, ok := InstructionOpcode(instr); ok {
		isOp := func(other Opcode) bool { return other == op }
		if !selected(matchAll(f.keepOps, isOp), matchAll(f.dropOps, isOp)) {
			return false
		}
	}
	width := instr.EncodingWidth()
	isWidth := func(other int) bool { return other == width }
	return selected(matchAll(f.keepSizes, isWidth), matchAll(f.dropSizes, isWidth))
}

// Validate checks the encoding of all the instructions of a model.
func Validate(m *ir.Model) error {
	app := &fmterr.Appender{}
	for set := range m.Sets.Values() {
		app.Push("instruction set %s", set.Name)
		for instr := range set.Instructions.Values() {
			if err := instr.ValidateEncoding(); err != nil {
				app.Append(err)
			}
		}
		app.Pop()
	}
	return app.Err()
}

// Apply the filter on a model. Instruction sets left without any
// instruction are removed from the model.
// The model is not modified if any instruction has an invalid encoding.
func (f *Filter) Apply(ctx context.Context, m *ir.Model) error {
	if m == nil {
		return fmterr.Preconditionf("no model to filter")
	}
	if err := Validate(m); err != nil {
		return err
	}
	droppedSets := m.Sets.Retain(func(name string, _ *ir.InstructionSet) bool {
		return f.SelectSet(name)
	})
	for set := range m.Sets.Values() {
		dropped := set.Instructions.Retain(func(_ string, instr *ir.Instruction) bool {
			return f.SelectInstruction(instr)
		})
		logs.Debugw(ctx, "filtered instructions", "set", set.Name, "kept", set.Instructions.Size(), "dropped", dropped)
	}
	emptySets := m.Sets.Retain(func(_ string, set *ir.InstructionSet) bool {
		return set.Instructions.Size() > 0
	})
	logs.Infow(ctx, "filtered model",
		"sets", m.Sets.Size(),
		"dropped_sets", droppedSets,
		"empty_sets", emptySets)
	return nil
}

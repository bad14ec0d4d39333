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
	"github.com/seal5-go/seal5/build/fmterr"
	"github.com/seal5-go/seal5/build/ir"
)

// DefaultExt is the default extension of CoreDSL2 files.
const DefaultExt = "core_desc"

// Options of the generation of CoreDSL2 files.
type Options struct {
	// Compat selects the compat dialect.
	Compat bool
	// Split generates a unit per instruction instead of a single unit.
	Split bool
}

// Unit is the content of a generated file.
type Unit struct {
	// Set and Instruction are set in split mode only.
	Set         string
	Instruction string
	Text        string
}

// FileName returns the name of the file of the unit.
// stem is the name of the file in batch mode.
func (u Unit) FileName(stem, ext string) string {
	if ext == "" {
		ext = DefaultExt
	}
	if u.Instruction == "" {
		return stem + "." + ext
	}
	return u.Set + "_" + u.Instruction + "." + ext
}

func generateInstruction(set *ir.InstructionSet, instr *ir.Instruction, opts Options) (Unit, error) {
	single := set.CloneWithout().AddInstruction(instr.Clone())
	w := NewWriter(WithCompat(opts.Compat))
	if err := w.WriteSet(single); err != nil {
		return Unit{}, fmterr.PrefixWith("instruction set %s: ", set.Name)(err)
	}
	return Unit{Set: set.Name, Instruction: instr.Name, Text: w.String()}, nil
}

// Generate returns the CoreDSL2 units of a model: a single unit with the
// whole model or, in split mode, a unit per instruction of the instruction
// sets of the model. A unit of split mode contains the instruction and
// a copy of all the definitions of its instruction set.
func Generate(m *ir.Model, opts Options) ([]Unit, error) {
	if m == nil {
		return nil, fmterr.Preconditionf("no model to write")
	}
	if !opts.Split {
		w := NewWriter(WithCompat(opts.Compat))
		if err := w.WriteModel(m); err != nil {
			return nil, err
		}
		return []Unit{{Text: w.String()}}, nil
	}
	var units []Unit
	for set := range m.Sets.Values() {
		for instr := range set.Instructions.Values() {
			unit, err := generateInstruction(set, instr, opts)
			if err != nil {
				return nil, err
			}
			units = append(units, unit)
		}
	}
	return units, nil
}

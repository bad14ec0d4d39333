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

package storage

import (
	"github.com/seal5-go/seal5/base/ordered"
	"github.com/seal5-go/seal5/build/fmterr"
	"github.com/seal5-go/seal5/build/ir"
)

// toUnits returns the units of a legacy model: its instruction sets or
// its cores.
func toUnits(m *ir.Model) (*ordered.Map[string, any], error) {
	if m.Sets.Size() > 0 && m.Cores.Size() > 0 {
		return nil, fmterr.Structuralf("a legacy model defines either instruction sets or cores, not both")
	}
	units := ordered.NewMap[string, any]()
	for name, set := range m.Sets.Iter() {
		units.Store(name, set)
	}
	for name, core := range m.Cores.Iter() {
		units.Store(name, core)
	}
	return units, nil
}

// fromUnits builds a model from the units of a legacy model.
// The type of the first unit determines the type of all the units.
func fromUnits(units *ordered.Map[string, any]) (*ir.Model, error) {
	m := ir.NewModel()
	first := true
	var cores bool
	for name, unit := range units.Iter() {
		switch unitT := unit.(type) {
		case *ir.InstructionSet:
			if !first && cores {
				return nil, fmterr.Structuralf("ambiguous model: %s is an instruction set but previous units are cores", name)
			}
			m.Sets.Store(name, unitT)
		case *ir.CoreDef:
			if !first && !cores {
				return nil, fmterr.Structuralf("ambiguous model: %s is a core but previous units are instruction sets", name)
			}
			cores = true
			m.Cores.Store(name, unitT)
		default:
			return nil, fmterr.Structuralf("unit %s of type %T is neither an instruction set nor a core", name, unit)
		}
		first = false
	}
	if first {
		return nil, fmterr.Structuralf("empty model")
	}
	m.Normalize()
	return m, nil
}

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
	"fmt"
	"slices"

	"github.com/seal5-go/seal5/build/fmterr"
)

type (
	// EncodingField is a field of an instruction encoding.
	EncodingField interface {
		// Len returns the number of bits of the field.
		Len() int
		cloneField() EncodingField
	}

	// BitVal is a fixed bit pattern.
	BitVal struct {
		Value  uint64
		Length int
	}

	// BitRange is an inclusive range of bits.
	BitRange struct {
		Upper, Lower int
	}

	// BitField is a range of bits of an operand.
	BitField struct {
		Name  string
		Range BitRange
	}
)

var (
	_ EncodingField = (*BitVal)(nil)
	_ EncodingField = (*BitField)(nil)
)

// Len returns the number of bits of the value.
func (v *BitVal) Len() int { return v.Length }

func (v *BitVal) cloneField() EncodingField {
	cl := *v
	return &cl
}

// Bits returns the value as a binary string of Length digits.
func (v *BitVal) Bits() string {
	return fmt.Sprintf("%0*b", v.Length, v.Value)
}

// Len returns the number of bits in the range.
func (r BitRange) Len() int { return r.Upper - r.Lower + 1 }

// Len returns the number of bits of the field.
func (f *BitField) Len() int { return f.Range.Len() }

func (f *BitField) cloneField() EncodingField {
	cl := *f
	return &cl
}

// EncodingWidths are the valid total widths of an instruction encoding.
var EncodingWidths = []int{16, 32, 64, 128}

// ValidEncodingWidth returns true if w is a valid encoding width.
func ValidEncodingWidth(w int) bool {
	return slices.Contains(EncodingWidths, w)
}

// EncodingWidth returns the sum of the lengths of all the encoding fields.
func (instr *Instruction) EncodingWidth() int {
	w := 0
	for _, field := range instr.Encoding {
		w += field.Len()
	}
	return w
}

// ValidateEncoding checks the encoding fields and the total width of
// the encoding.
func (instr *Instruction) ValidateEncoding() error {
	for i, field := range instr.Encoding {
		if field.Len() <= 0 {
			return fmterr.Structuralf("instruction %s: encoding field %d has %d bits", instr.Name, i, field.Len())
		}
		if val, ok := field.(*BitVal); ok && val.Length < 64 && val.Value>>uint(val.Length) != 0 {
			return fmterr.Structuralf("instruction %s: value %#b does not fit in %d bits", instr.Name, val.Value, val.Length)
		}
	}
	w := instr.EncodingWidth()
	if !ValidEncodingWidth(w) {
		return fmterr.Structuralf("instruction %s: encoding has %d bits but want one of %v", instr.Name, w, EncodingWidths)
	}
	return nil
}

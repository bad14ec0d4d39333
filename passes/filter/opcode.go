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

package filter

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/seal5-go/seal5/build/fmterr"
	"github.com/seal5-go/seal5/build/ir"
	"golang.org/x/exp/maps"
)

// Opcode is the major opcode of a 32-bit RISC-V instruction: bits [6:2]
// of the encoding. Bits [1:0] are always set for these instructions.
type Opcode uint8

// String representation of the opcode.
func (op Opcode) String() string {
	if name, ok := opcodeNames[op]; ok {
		return name
	}
	return fmt.Sprintf("0b%05b", uint8(op))
}

var opcodes = map[string]Opcode{
	"LOAD":      0b00000,
	"LOAD-FP":   0b00001,
	"CUSTOM-0":  0b00010,
	"MISC-MEM":  0b00011,
	"OP-IMM":    0b00100,
	"AUIPC":     0b00101,
	"OP-IMM-32": 0b00110,
	"STORE":     0b01000,
	"STORE-FP":  0b01001,
	"CUSTOM-1":  0b01010,
	"AMO":       0b01011,
	"OP":        0b01100,
	"LUI":       0b01101,
	"OP-32":     0b01110,
	"MADD":      0b10000,
	"MSUB":      0b10001,
	"NMSUB":     0b10010,
	"NMADD":     0b10011,
	"OP-FP":     0b10100,
	"OP-V":      0b10101,
	"CUSTOM-2":  0b10110,
	"BRANCH":    0b11000,
	"JALR":      0b11001,
	"JAL":       0b11011,
	"SYSTEM":    0b11100,
	"CUSTOM-3":  0b11110,
}

var opcodeNames = func() map[Opcode]string {
	names := make(map[Opcode]string, len(opcodes))
	for name, op := range opcodes {
		names[op] = name
	}
	return names
}()

// OpcodeNames returns the names of all the known major opcodes, sorted.
func OpcodeNames() []string {
	names := maps.Keys(opcodes)
	slices.Sort(names)
	return names
}

// ParseOpcode returns the opcode given its name or its value.
// Names are case insensitive and '_' can be used instead of '-'.
// Values are parsed with their Go prefix (0b, 0x, 0o) and must fit in 5 bits.
func ParseOpcode(s string) (Opcode, error) {
	name := strings.ReplaceAll(strings.ToUpper(strings.TrimSpace(s)), "_", "-")
	if op, ok := opcodes[name]; ok {
		return op, nil
	}
	v, err := strconv.ParseUint(strings.TrimSpace(s), 0, 8)
	if err != nil {
		return 0, fmterr.Unsupportedf("unknown opcode %q: want a value or one of %s", s, strings.Join(OpcodeNames(), ", "))
	}
	if v >= 1<<5 {
		return 0, fmterr.Unsupportedf("opcode %q does not fit in 5 bits", s)
	}
	return Opcode(v), nil
}

// InstructionOpcode returns the major opcode of an instruction.
// The opcode is only defined if the least significant field of the
// encoding is a fixed 7-bit value.
func InstructionOpcode(instr *ir.Instruction) (Opcode, bool) {
	if len(instr.Encoding) == 0 {
		return 0, false
	}
	val, ok := instr.Encoding[len(instr.Encoding)-1].(*ir.BitVal)
	if !ok || val.Length != 7 {
		return 0, false
	}
	return Opcode(val.Value >> 2 & 0b11111), true
}

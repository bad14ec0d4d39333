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
	"math/big"

	"github.com/seal5-go/seal5/base/ordered"
)

// ----------------------------------------------------------------------------
// Attributes.
type (
	// AttrValue is the value of an attribute: an expression,
	// a string, or a list of values.
	AttrValue interface {
		attrValue()
	}

	// AttrExpr is an attribute value given by an expression.
	AttrExpr struct {
		X Node
	}

	// AttrString is an attribute value given by a string.
	AttrString string

	// AttrList is an attribute value given by a list of values.
	AttrList []AttrValue

	// Attributes maps attribute names to their optional value, in
	// declaration order. A nil value denotes an attribute with no value.
	Attributes = ordered.Map[string, AttrValue]
)

func (AttrExpr) attrValue()   {}
func (AttrString) attrValue() {}
func (AttrList) attrValue()   {}

// NewAttributes returns an empty set of attributes.
func NewAttributes() *Attributes {
	return ordered.NewMap[string, AttrValue]()
}

func cloneAttrValue(v AttrValue) AttrValue {
	switch vT := v.(type) {
	case AttrExpr:
		return AttrExpr{X: Clone(vT.X)}
	case AttrList:
		l := make(AttrList, len(vT))
		for i, el := range vT {
			l[i] = cloneAttrValue(el)
		}
		return l
	}
	return v
}

func cloneAttributes(attrs *Attributes) *Attributes {
	if attrs == nil {
		return NewAttributes()
	}
	return attrs.CloneFunc(cloneAttrValue)
}

// ----------------------------------------------------------------------------
// Architectural state and functions.
type (
	// MemoryStorage is the storage class of a memory.
	MemoryStorage int

	// Constant is a named compile-time constant of an instruction set.
	Constant struct {
		Name       string
		Value      *big.Int
		Type       *DataType
		Attributes *Attributes
	}

	// Memory is a register, a register file, or an addressable memory.
	Memory struct {
		Name    string
		Storage MemoryStorage
		Type    DataType
		// Length is the number of elements for a register file or a memory.
		// A zero length denotes a single register.
		Length     int64
		Attributes *Attributes
	}

	// Param is a function parameter.
	Param struct {
		Name string
		Type DataType
	}

	// Function is a function or a procedure defined in an instruction set.
	Function struct {
		Name       string
		Return     DataType
		Params     []*Param
		Attributes *Attributes
		Extern     bool
		// Body is nil for an extern function.
		Body *Operation
	}
)

// Storage classes of memories.
const (
	RegisterStorage MemoryStorage = iota
	ExternStorage
)

// String representation of the storage class.
func (s MemoryStorage) String() string {
	if s == ExternStorage {
		return "extern"
	}
	return "register"
}

// Clone returns a deep copy of the constant.
func (c *Constant) Clone() *Constant {
	cl := *c
	if c.Value != nil {
		cl.Value = new(big.Int).Set(c.Value)
	}
	cl.Attributes = cloneAttributes(c.Attributes)
	return &cl
}

// Clone returns a deep copy of the memory.
func (m *Memory) Clone() *Memory {
	cl := *m
	cl.Attributes = cloneAttributes(m.Attributes)
	return &cl
}

// Clone returns a deep copy of the function.
func (f *Function) Clone() *Function {
	cl := *f
	cl.Params = make([]*Param, len(f.Params))
	for i, p := range f.Params {
		param := *p
		cl.Params[i] = &param
	}
	cl.Attributes = cloneAttributes(f.Attributes)
	cl.Body = CloneBlock(f.Body)
	return &cl
}

// ----------------------------------------------------------------------------
// Instructions.
type (
	// Operand of an instruction.
	Operand struct {
		Name       string
		Type       DataType
		Attributes *Attributes
	}

	// Constraint is a predicate the operands of an instruction must satisfy.
	Constraint struct {
		Expr Node
	}

	// Instruction of an instruction set.
	Instruction struct {
		Name        string
		Attributes  *Attributes
		Operands    *ordered.Map[string, *Operand]
		Constraints []*Constraint
		// Encoding lists the fields of the encoding,
		// most significant field first.
		Encoding []EncodingField
		Mnemonic string
		Assembly string
		Behavior *Operation
	}
)

// NewInstruction returns an instruction with empty attributes and operands.
func NewInstruction(name string) *Instruction {
	return &Instruction{
		Name:       name,
		Attributes: NewAttributes(),
		Operands:   ordered.NewMap[string, *Operand](),
		Behavior:   &Operation{},
	}
}

// Clone returns a deep copy of the instruction.
func (instr *Instruction) Clone() *Instruction {
	cl := *instr
	cl.Attributes = cloneAttributes(instr.Attributes)
	cl.Operands = ordered.NewMap[string, *Operand]()
	for name, op := range instr.Operands.Iter() {
		opCl := *op
		opCl.Attributes = cloneAttributes(op.Attributes)
		cl.Operands.Store(name, &opCl)
	}
	cl.Constraints = make([]*Constraint, len(instr.Constraints))
	for i, c := range instr.Constraints {
		cl.Constraints[i] = &Constraint{Expr: Clone(c.Expr)}
	}
	cl.Encoding = make([]EncodingField, len(instr.Encoding))
	for i, field := range instr.Encoding {
		cl.Encoding[i] = field.cloneField()
	}
	cl.Behavior = CloneBlock(instr.Behavior)
	return &cl
}

// ----------------------------------------------------------------------------
// Instruction sets and the model.
type (
	// InstructionSet groups the architectural state, functions,
	// and instructions of an ISA extension.
	InstructionSet struct {
		Name string
		// Extends lists the names of the parent instruction sets.
		Extends      []string
		Constants    *ordered.Map[string, *Constant]
		Memories     *ordered.Map[string, *Memory]
		Functions    *ordered.Map[string, *Function]
		Instructions *ordered.Map[string, *Instruction]
	}

	// CoreDef is a processor core built from instruction sets.
	// Only legacy models define cores.
	CoreDef struct {
		Name string
		// Contributing lists the instruction sets the core is made of.
		Contributing []string
		Instructions *ordered.Map[string, *Instruction]
	}

	// Model is a set of instruction sets or cores.
	Model struct {
		Sets  *ordered.Map[string, *InstructionSet]
		Cores *ordered.Map[string, *CoreDef]
	}
)

// NewInstructionSet returns an empty instruction set.
func NewInstructionSet(name string, extends ...string) *InstructionSet {
	set := &InstructionSet{Name: name, Extends: extends}
	set.Normalize()
	return set
}

// Normalize allocates the maps that are nil.
// Decoded sets may have nil maps when they were empty when encoded.
func (set *InstructionSet) Normalize() {
	if set.Constants == nil {
		set.Constants = ordered.NewMap[string, *Constant]()
	}
	if set.Memories == nil {
		set.Memories = ordered.NewMap[string, *Memory]()
	}
	if set.Functions == nil {
		set.Functions = ordered.NewMap[string, *Function]()
	}
	if set.Instructions == nil {
		set.Instructions = ordered.NewMap[string, *Instruction]()
	}
	for instr := range set.Instructions.Values() {
		instr.normalize()
	}
}

func (instr *Instruction) normalize() {
	if instr.Attributes == nil {
		instr.Attributes = NewAttributes()
	}
	if instr.Operands == nil {
		instr.Operands = ordered.NewMap[string, *Operand]()
	}
	if instr.Behavior == nil {
		instr.Behavior = &Operation{}
	}
}

// AddConstant adds a constant to the set.
func (set *InstructionSet) AddConstant(c *Constant) *InstructionSet {
	set.Constants.Store(c.Name, c)
	return set
}

// AddMemory adds a memory to the set.
func (set *InstructionSet) AddMemory(m *Memory) *InstructionSet {
	set.Memories.Store(m.Name, m)
	return set
}

// AddFunction adds a function to the set.
func (set *InstructionSet) AddFunction(f *Function) *InstructionSet {
	set.Functions.Store(f.Name, f)
	return set
}

// AddInstruction adds an instruction to the set.
func (set *InstructionSet) AddInstruction(instr *Instruction) *InstructionSet {
	set.Instructions.Store(instr.Name, instr)
	return set
}

// CloneWithout returns a deep copy of the set without its instructions.
func (set *InstructionSet) CloneWithout() *InstructionSet {
	return &InstructionSet{
		Name:         set.Name,
		Extends:      append([]string{}, set.Extends...),
		Constants:    set.Constants.CloneFunc((*Constant).Clone),
		Memories:     set.Memories.CloneFunc((*Memory).Clone),
		Functions:    set.Functions.CloneFunc((*Function).Clone),
		Instructions: ordered.NewMap[string, *Instruction](),
	}
}

// Clone returns a deep copy of the set.
func (set *InstructionSet) Clone() *InstructionSet {
	cl := set.CloneWithout()
	cl.Instructions = set.Instructions.CloneFunc((*Instruction).Clone)
	return cl
}

// NewModel returns an empty model.
func NewModel() *Model {
	return &Model{
		Sets:  ordered.NewMap[string, *InstructionSet](),
		Cores: ordered.NewMap[string, *CoreDef](),
	}
}

// AddSet adds an instruction set to the model.
func (m *Model) AddSet(set *InstructionSet) *Model {
	m.Sets.Store(set.Name, set)
	return m
}

// Scope is a group of instructions of a model: the instructions of an
// instruction set or of a core.
type Scope struct {
	// Label names the scope in messages, for example "instruction set RV32I".
	Label        string
	Instructions *ordered.Map[string, *Instruction]
}

// Scopes returns an iterator over the instruction sets of the model
// followed by its cores.
func (m *Model) Scopes() func(func(Scope) bool) {
	return func(yield func(Scope) bool) {
		for set := range m.Sets.Values() {
			if !yield(Scope{Label: "instruction set " + set.Name, Instructions: set.Instructions}) {
				return
			}
		}
		for core := range m.Cores.Values() {
			if !yield(Scope{Label: "core " + core.Name, Instructions: core.Instructions}) {
				return
			}
		}
	}
}

// Normalize allocates the maps that are nil in the model and its sets.
func (m *Model) Normalize() {
	if m.Sets == nil {
		m.Sets = ordered.NewMap[string, *InstructionSet]()
	}
	if m.Cores == nil {
		m.Cores = ordered.NewMap[string, *CoreDef]()
	}
	for set := range m.Sets.Values() {
		set.Normalize()
	}
	for core := range m.Cores.Values() {
		if core.Instructions == nil {
			core.Instructions = ordered.NewMap[string, *Instruction]()
		}
		for instr := range core.Instructions.Values() {
			instr.normalize()
		}
	}
}

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

// Package irkind defines the kinds of the data types of the behavior IR.
package irkind

// Kind of a data type.
type Kind uint

// Kinds of data types.
const (
	Invalid Kind = iota

	// Unsigned integer of a given width.
	Unsigned
	// Signed (two's complement) integer of a given width.
	Signed
	// Void is the type of statements and functions returning nothing.
	Void
)

// String returns a string representation of a kind.
func (k Kind) String() string {
	switch k {
	case Unsigned:
		return "unsigned"
	case Signed:
		return "signed"
	case Void:
		return "void"
	}
	return "invalid"
}

// HasWidth returns true if a type of that kind carries a width.
func (k Kind) HasWidth() bool {
	return k == Unsigned || k == Signed
}

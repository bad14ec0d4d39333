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

	"github.com/seal5-go/seal5/build/fmterr"
	"github.com/seal5-go/seal5/build/ir/irkind"
)

// DataType is the type of a value: a signedness and a width in bits.
// A DataType is never modified once it has been assigned to a node;
// passes assign a new DataType instead.
type DataType struct {
	Kind  irkind.Kind
	Width int
}

// UnsignedType returns an unsigned type of a given width.
func UnsignedType(width int) *DataType {
	return &DataType{Kind: irkind.Unsigned, Width: width}
}

// SignedType returns a signed type of a given width.
func SignedType(width int) *DataType {
	return &DataType{Kind: irkind.Signed, Width: width}
}

// VoidType returns the void type.
func VoidType() *DataType {
	return &DataType{Kind: irkind.Void}
}

// Validate checks that the width is set if and only if the type is not void.
func (t *DataType) Validate() error {
	switch {
	case t == nil:
		return fmterr.Preconditionf("missing data type")
	case t.Kind == irkind.Void:
		if t.Width != 0 {
			return fmterr.Structuralf("void type cannot have a width (got %d)", t.Width)
		}
	case t.Kind.HasWidth():
		if t.Width <= 0 {
			return fmterr.Structuralf("%s type requires a positive width (got %d)", t.Kind, t.Width)
		}
	default:
		return fmterr.Structuralf("invalid type kind %d", t.Kind)
	}
	return nil
}

// Signed returns true if the type is a signed integer type.
func (t *DataType) Signed() bool {
	return t != nil && t.Kind == irkind.Signed
}

// Equal returns true if both types have the same kind and width.
func (t *DataType) Equal(other *DataType) bool {
	if t == nil || other == nil {
		return t == other
	}
	return *t == *other
}

// String representation of the type, using the CoreDSL2 syntax.
func (t *DataType) String() string {
	if t == nil {
		return "<nil>"
	}
	if !t.Kind.HasWidth() {
		return t.Kind.String()
	}
	return fmt.Sprintf("%s<%d>", t.Kind, t.Width)
}

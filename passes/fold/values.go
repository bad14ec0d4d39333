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

package fold

import (
	"math/big"

	"github.com/seal5-go/seal5/build/fmterr"
	"github.com/seal5-go/seal5/build/ir"
)

// maxShift is the largest shift amount folded.
const maxShift = 1 << 12

type bigValue struct {
	*big.Int
}

func bigInt(v int64) *big.Int {
	return big.NewInt(v)
}

func fromBool(b bool) *bigValue {
	if b {
		return &bigValue{bigInt(1)}
	}
	return &bigValue{bigInt(0)}
}

func (v *bigValue) truth() bool {
	return v.Sign() != 0
}

func valueOf(n ir.Node) (*bigValue, bool) {
	lit, ok := n.(*ir.IntLiteral)
	if !ok || lit.Value == nil {
		return nil, false
	}
	return &bigValue{lit.Value}, true
}

// literalWidth returns the width of a literal or of the type inferred
// for it, 0 if unknown.
func literalWidth(n ir.Node) int {
	if lit, ok := n.(*ir.IntLiteral); ok && lit.Width > 0 {
		return lit.Width
	}
	if typ := n.Type(); typ != nil && typ.Kind.HasWidth() {
		return typ.Width
	}
	return 0
}

func mask(width uint) *big.Int {
	m := new(big.Int).Lsh(bigInt(1), width)
	return m.Sub(m, bigInt(1))
}

// wrap returns the value represented by the bits of v in a type.
// v is returned as is if the type has no width.
func wrap(v *big.Int, typ *ir.DataType) *big.Int {
	if typ == nil || !typ.Kind.HasWidth() || typ.Width <= 0 {
		return new(big.Int).Set(v)
	}
	width := uint(typ.Width)
	u := new(big.Int).And(v, mask(width))
	if typ.Signed() && u.Bit(int(width-1)) == 1 {
		u.Sub(u, new(big.Int).Lsh(bigInt(1), width))
	}
	return u
}

func newLiteral(typ *ir.DataType, v *bigValue) *ir.IntLiteral {
	lit := &ir.IntLiteral{Value: wrap(v.Int, typ)}
	lit.SetType(typ)
	return lit
}

func shiftAmount(v *bigValue) (uint, bool) {
	if !v.IsInt64() {
		return 0, false
	}
	s := v.Int64()
	if s < 0 || s > maxShift {
		return 0, false
	}
	return uint(s), true
}

// binary computes the result of a binary operator on two values.
// It returns false if the operation cannot be evaluated for these
// operands (for example a division by zero).
func binary(op ir.Operator, x, y *bigValue) (*bigValue, bool, error) {
	z := new(big.Int)
	switch op {
	case ir.OpAdd:
		z.Add(x.Int, y.Int)
	case ir.OpSub:
		z.Sub(x.Int, y.Int)
	case ir.OpMul:
		z.Mul(x.Int, y.Int)
	case ir.OpDiv:
		if y.Sign() == 0 {
			return nil, false, nil
		}
		z.Quo(x.Int, y.Int)
	case ir.OpMod:
		if y.Sign() == 0 {
			return nil, false, nil
		}
		z.Rem(x.Int, y.Int)
	case ir.OpShl:
		s, ok := shiftAmount(y)
		if !ok {
			return nil, false, nil
		}
		z.Lsh(x.Int, s)
	case ir.OpShr:
		s, ok := shiftAmount(y)
		if !ok {
			return nil, false, nil
		}
		z.Rsh(x.Int, s)
	case ir.OpAnd:
		z.And(x.Int, y.Int)
	case ir.OpOr:
		z.Or(x.Int, y.Int)
	case ir.OpXor:
		z.Xor(x.Int, y.Int)
	case ir.OpEq:
		return fromBool(x.Cmp(y.Int) == 0), true, nil
	case ir.OpNeq:
		return fromBool(x.Cmp(y.Int) != 0), true, nil
	case ir.OpLt:
		return fromBool(x.Cmp(y.Int) < 0), true, nil
	case ir.OpLte:
		return fromBool(x.Cmp(y.Int) <= 0), true, nil
	case ir.OpGt:
		return fromBool(x.Cmp(y.Int) > 0), true, nil
	case ir.OpGte:
		return fromBool(x.Cmp(y.Int) >= 0), true, nil
	case ir.OpLAnd:
		return fromBool(x.truth() && y.truth()), true, nil
	case ir.OpLOr:
		return fromBool(x.truth() || y.truth()), true, nil
	default:
		return nil, false, fmterr.Unsupportedf("binary operator %q cannot be folded", op)
	}
	return &bigValue{z}, true, nil
}

// unary computes the result of a unary operator on a value.
func unary(op ir.Operator, x *bigValue) (*bigValue, error) {
	switch op {
	case ir.OpNeg:
		return &bigValue{new(big.Int).Neg(x.Int)}, nil
	case ir.OpPlus:
		return &bigValue{new(big.Int).Set(x.Int)}, nil
	case ir.OpNot:
		return &bigValue{new(big.Int).Not(x.Int)}, nil
	case ir.OpLNot:
		return fromBool(!x.truth()), nil
	}
	return nil, fmterr.Unsupportedf("unary operator %q cannot be folded", op)
}

// bits returns the bits [high:low] of x.
func bits(x, high, low *bigValue) (*bigValue, bool) {
	if !high.IsInt64() || !low.IsInt64() {
		return nil, false
	}
	h, l := high.Int64(), low.Int64()
	if l < 0 || h < l || h-l >= maxShift {
		return nil, false
	}
	z := new(big.Int).Rsh(x.Int, uint(l))
	return &bigValue{z.And(z, mask(uint(h-l+1)))}, true
}

// concatenate returns the bits of x followed by the width lower bits of y.
func concatenate(x, y *bigValue, width int) *bigValue {
	z := new(big.Int).Lsh(x.Int, uint(width))
	return &bigValue{z.Or(z, new(big.Int).And(y.Int, mask(uint(width))))}
}

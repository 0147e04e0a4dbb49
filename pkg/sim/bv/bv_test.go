// Copyright Consensys Software Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with
// the License. You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on
// an "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied. See the License for the
// specific language governing permissions and limitations under the License.
//
// SPDX-License-Identifier: Apache-2.0
package bv

import (
	"math/big"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testWidths = []uint{1, 7, 8, 63, 64, 65, 100, 128, 129, 200}

var rng = rand.New(rand.NewSource(1))

func Test_Arith_01(t *testing.T) {
	ops := map[string]struct {
		fn  func(dst, a, b []uint64, width uint)
		ref func(x, y *big.Int) *big.Int
	}{
		"add": {Add, func(x, y *big.Int) *big.Int { return new(big.Int).Add(x, y) }},
		"sub": {Sub, func(x, y *big.Int) *big.Int { return new(big.Int).Sub(x, y) }},
		"mul": {Mul, func(x, y *big.Int) *big.Int { return new(big.Int).Mul(x, y) }},
		"div": {Div, func(x, y *big.Int) *big.Int { return new(big.Int).Quo(x, y) }},
		"mod": {Mod, func(x, y *big.Int) *big.Int { return new(big.Int).Rem(x, y) }},
	}
	//
	for name, op := range ops {
		for _, width := range testWidths {
			for i := 0; i < 20; i++ {
				x, y := randomBig(width), randomBig(width)
				if y.Sign() == 0 {
					y.SetUint64(1)
				}
				//
				dst := make([]uint64, Chunks(width))
				op.fn(dst, fromBig(x, width), fromBig(y, width), width)
				assert.Equal(t, truncate(op.ref(x, y), width).String(), ToBig(dst, width).String(),
					"%s width %d", name, width)
			}
		}
	}
}

func Test_Arith_02(t *testing.T) {
	// Division by zero
	for _, width := range testWidths {
		x := randomBig(width)
		zero := make([]uint64, Chunks(width))
		dst := make([]uint64, Chunks(width))
		//
		Div(dst, fromBig(x, width), zero, width)
		assert.Equal(t, allOnes(width).String(), ToBig(dst, width).String())
		Mod(dst, fromBig(x, width), zero, width)
		assert.Equal(t, x.String(), ToBig(dst, width).String())
	}
}

func Test_Arith_03(t *testing.T) {
	// Destinations may alias operands
	width := uint(130)
	x, y := randomBig(width), randomBig(width)
	a := fromBig(x, width)
	Mul(a, a, fromBig(y, width), width)
	assert.Equal(t, truncate(new(big.Int).Mul(x, y), width).String(), ToBig(a, width).String())
	//
	a = fromBig(x, width)
	Add(a, a, a, width)
	assert.Equal(t, truncate(new(big.Int).Add(x, x), width).String(), ToBig(a, width).String())
}

func Test_Shift_01(t *testing.T) {
	for _, width := range testWidths {
		for _, amount := range []uint64{0, 1, 5, 63, 64, 65, uint64(width) - 1, uint64(width), uint64(width) + 3} {
			x := randomBig(width)
			dst := make([]uint64, Chunks(width))
			//
			Shl(dst, fromBig(x, width), amount, width)
			assert.Equal(t, truncate(new(big.Int).Lsh(x, uint(amount)), width).String(), ToBig(dst, width).String(),
				"shl %d width %d", amount, width)
			//
			Shr(dst, fromBig(x, width), amount, width)
			assert.Equal(t, new(big.Int).Rsh(x, uint(amount)).String(), ToBig(dst, width).String(),
				"shr %d width %d", amount, width)
			//
			Sra(dst, fromBig(x, width), amount, width)
			assert.Equal(t, truncate(new(big.Int).Rsh(signed(x, width), uint(amount)), width).String(),
				ToBig(dst, width).String(), "sra %d width %d", amount, width)
		}
	}
}

func Test_Shift_02(t *testing.T) {
	// In place shifts
	width := uint(200)
	x := randomBig(width)
	a := fromBig(x, width)
	Shl(a, a, 70, width)
	assert.Equal(t, truncate(new(big.Int).Lsh(x, 70), width).String(), ToBig(a, width).String())
	//
	a = fromBig(x, width)
	Shr(a, a, 70, width)
	assert.Equal(t, new(big.Int).Rsh(x, 70).String(), ToBig(a, width).String())
}

func Test_Extend_01(t *testing.T) {
	for _, in := range testWidths {
		out := in + 70
		x := randomBig(in)
		dst := make([]uint64, Chunks(out))
		//
		ZeroExtend(dst, fromBig(x, in), in, out)
		assert.Equal(t, x.String(), ToBig(dst, out).String())
		//
		SignExtend(dst, fromBig(x, in), in, out)
		assert.Equal(t, truncate(signed(x, in), out).String(), ToBig(dst, out).String())
	}
}

func Test_Extract_01(t *testing.T) {
	x := randomBig(200)
	a := fromBig(x, 200)
	//
	for _, r := range [][2]uint{{0, 0}, {63, 0}, {64, 1}, {199, 0}, {150, 70}, {199, 199}, {127, 64}} {
		hi, lo := r[0], r[1]
		width := hi - lo + 1
		dst := make([]uint64, Chunks(width))
		expected := truncate(new(big.Int).Rsh(x, lo), width)
		//
		Extract(dst, a, hi, lo)
		assert.Equal(t, expected.String(), ToBig(dst, width).String(), "[%d:%d]", hi, lo)
		//
		if width <= 64 {
			assert.Equal(t, expected.Uint64(), ExtractUint64(a, hi, lo), "[%d:%d]", hi, lo)
		}
	}
}

func Test_Concat_01(t *testing.T) {
	for _, hiWidth := range testWidths {
		for _, loWidth := range testWidths {
			x, y := randomBig(hiWidth), randomBig(loWidth)
			width := hiWidth + loWidth
			dst := make([]uint64, Chunks(width))
			//
			Concat(dst, fromBig(x, hiWidth), fromBig(y, loWidth), hiWidth, loWidth)
			//
			expected := new(big.Int).Lsh(x, loWidth)
			expected.Or(expected, y)
			assert.Equal(t, expected.String(), ToBig(dst, width).String(), "%d ++ %d", hiWidth, loWidth)
		}
	}
}

func Test_Query_01(t *testing.T) {
	for _, width := range testWidths {
		x, y := randomBig(width), randomBig(width)
		a, b := fromBig(x, width), fromBig(y, width)
		//
		count := uint64(0)
		for _, w := range x.Bits() {
			for ; w != 0; w &= w - 1 {
				count++
			}
		}
		//
		assert.Equal(t, count, PopCount(a, width))
		assert.Equal(t, x.Cmp(y) == 0, Eq(a, b, width))
		assert.Equal(t, x.Cmp(y) < 0, Lt(a, b, width))
		assert.Equal(t, x.Cmp(y) <= 0, Le(a, b, width))
		assert.True(t, Eq(a, a, width))
		assert.True(t, Le(a, a, width))
		assert.False(t, Lt(a, a, width))
	}
}

func Test_Convert_01(t *testing.T) {
	a := make([]uint64, 2)
	FromUint64(a, 0xff, 4)
	assert.Equal(t, uint64(0xf), Low(a))
	assert.Equal(t, uint64(0), a[1])
	//
	FromBig(a, allOnes(128), 100)
	assert.Equal(t, allOnes(100).String(), ToBig(a, 100).String())
	assert.Equal(t, uint64(0xfffffffff), a[1])
	//
	assert.Equal(t, uint64(1<<64-1), Saturate(a, 100))
	FromUint64(a, 77, 100)
	assert.Equal(t, uint64(77), Saturate(a, 100))
	assert.Equal(t, "4d", Format(a, 100, 16))
	assert.Equal(t, "1001101", Format(a, 100, 2))
}

func Test_Fill_01(t *testing.T) {
	a := make([]uint64, 3)
	Fill(a, true, 130)
	assert.Equal(t, allOnes(130).String(), ToBig(a, 130).String())
	assert.Equal(t, uint64(130), PopCount(a, 130))
	Fill(a, false, 130)
	assert.True(t, IsZero(a, 130))
}

func Test_Not_01(t *testing.T) {
	for _, width := range testWidths {
		x := randomBig(width)
		a := fromBig(x, width)
		//
		Not(a, a, width)
		require.Equal(t, new(big.Int).Xor(x, allOnes(width)).String(), ToBig(a, width).String())
	}
}

// ============================================================================
// Helpers
// ============================================================================

func randomBig(width uint) *big.Int {
	var x big.Int
	//
	for i := uint(0); i < Chunks(width); i++ {
		x.Lsh(&x, 64)
		x.Or(&x, new(big.Int).SetUint64(rng.Uint64()))
	}
	//
	return truncate(&x, width)
}

func fromBig(x *big.Int, width uint) []uint64 {
	a := make([]uint64, Chunks(width))
	FromBig(a, x, width)
	//
	return a
}

func allOnes(width uint) *big.Int {
	one := big.NewInt(1)
	return new(big.Int).Sub(new(big.Int).Lsh(one, width), one)
}

// Reduce modulo 2^width, mapping negative values onto their two's complement.
func truncate(x *big.Int, width uint) *big.Int {
	return new(big.Int).And(x, allOnes(width))
}

// Interpret a value as a two's complement signed integer.
func signed(x *big.Int, width uint) *big.Int {
	if x.Bit(int(width)-1) == 0 {
		return new(big.Int).Set(x)
	}
	//
	return new(big.Int).Sub(x, new(big.Int).Lsh(big.NewInt(1), width))
}

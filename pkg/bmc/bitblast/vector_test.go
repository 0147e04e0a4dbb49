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
package bitblast

import (
	"math/bits"
	"math/rand"
	"testing"

	"github.com/go-air/gini"
	"github.com/go-air/gini/z"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const width = 5

var rng = rand.New(rand.NewSource(7))

func Test_Vector_01(t *testing.T) {
	checkBinary(t, "add", (*Blaster).Add, func(x, y uint64) uint64 { return x + y })
	checkBinary(t, "sub", (*Blaster).Sub, func(x, y uint64) uint64 { return x - y })
	checkBinary(t, "mul", (*Blaster).Mul, func(x, y uint64) uint64 { return x * y })
}

func Test_Vector_02(t *testing.T) {
	checkBinary(t, "and", (*Blaster).And, func(x, y uint64) uint64 { return x & y })
	checkBinary(t, "or", (*Blaster).Or, func(x, y uint64) uint64 { return x | y })
	checkBinary(t, "xor", (*Blaster).Xor, func(x, y uint64) uint64 { return x ^ y })
	checkBinary(t, "not", func(b *Blaster, x, _ Vector) Vector { return b.Not(x) },
		func(x, _ uint64) uint64 { return ^x })
}

// Shift amounts are three bits wide, so may exceed the width.
func Test_Vector_03(t *testing.T) {
	for x := uint64(0); x < 1<<width; x++ {
		for y := uint64(0); y < 8; y++ {
			sign := uint64(0)
			//
			if x>>(width-1) == 1 {
				sign = ^uint64(0)
			}
			//
			assert.Equal(t, (x<<y)&mask, evaluate(t, (*Blaster).Shl, x, y, 3), "shl %d %d", x, y)
			assert.Equal(t, x>>y, evaluate(t, (*Blaster).Shr, x, y, 3), "shr %d %d", x, y)
			assert.Equal(t, uint64(int64(x|sign<<width)>>y)&mask, evaluate(t, (*Blaster).Sra, x, y, 3),
				"sra %d %d", x, y)
		}
	}
}

func Test_Vector_04(t *testing.T) {
	lift := func(fn func(*Blaster, Vector, Vector) z.Lit) func(*Blaster, Vector, Vector) Vector {
		return func(b *Blaster, x, y Vector) Vector { return Vector{fn(b, x, y)} }
	}
	//
	checkBinary(t, "eq", lift((*Blaster).Eq), func(x, y uint64) uint64 { return b2u(x == y) })
	checkBinary(t, "lt", lift((*Blaster).Lt), func(x, y uint64) uint64 { return b2u(x < y) })
	checkBinary(t, "le", lift((*Blaster).Le), func(x, y uint64) uint64 { return b2u(x <= y) })
}

func Test_Vector_05(t *testing.T) {
	for x := uint64(0); x < 1<<width; x++ {
		ones := evaluate(t, func(b *Blaster, x, _ Vector) Vector { return b.CountOnes(x, 3) }, x, 0, 1)
		assert.Equal(t, uint64(bits.OnesCount64(x)), ones)
		//
		ext := evaluate(t, func(b *Blaster, x, _ Vector) Vector { return b.SignExt(x, 8) }, x, 0, 1)
		assert.Equal(t, uint64(uint8(int8(x<<3)>>3)), ext)
		//
		ext = evaluate(t, func(b *Blaster, x, _ Vector) Vector { return b.ZeroExt(x, 8) }, x, 0, 1)
		assert.Equal(t, x, ext)
		//
		cat := evaluate(t, func(b *Blaster, x, y Vector) Vector { return b.Concat(y, x) }, x, 1, 1)
		assert.Equal(t, x|1<<width, cat)
		//
		mux := evaluate(t, func(b *Blaster, x, y Vector) Vector { return b.Mux(y[0], x, b.Not(x)) }, x, 1, 1)
		assert.Equal(t, x, mux)
		mux = evaluate(t, func(b *Blaster, x, y Vector) Vector { return b.Mux(y[0], x, b.Not(x)) }, x, 0, 1)
		assert.Equal(t, ^x&mask, mux)
	}
}

const mask = 1<<width - 1

func checkBinary(t *testing.T, name string, fn func(*Blaster, Vector, Vector) Vector, expected func(x, y uint64) uint64) {
	for i := 0; i < 50; i++ {
		x, y := rng.Uint64()&mask, rng.Uint64()&mask
		assert.Equal(t, expected(x, y)&mask, evaluate(t, fn, x, y, width), "%s %d %d", name, x, y)
	}
}

// Evaluate a circuit over two vectors fixed to given values.  The first has
// the default width, and the second a given width.
func evaluate(t *testing.T, fn func(*Blaster, Vector, Vector) Vector, x, y uint64, wy uint) uint64 {
	var (
		b      = NewBlaster()
		vx     = b.Fresh(width)
		vy     = b.Fresh(wy)
		result = fn(b, vx, vy)
		g      = gini.New()
	)
	//
	b.Circuit().ToCnf(g)
	g.Assume(b.Circuit().T)
	g.Assume(fix(vx, x)...)
	g.Assume(fix(vy, y)...)
	require.Equal(t, 1, g.Solve())
	//
	var r uint64
	//
	for i, bit := range result {
		if g.Value(bit) {
			r |= 1 << i
		}
	}
	//
	return r
}

func fix(v Vector, value uint64) []z.Lit {
	lits := make([]z.Lit, len(v))
	//
	for i, bit := range v {
		if value>>i&1 == 1 {
			lits[i] = bit
		} else {
			lits[i] = bit.Not()
		}
	}
	//
	return lits
}

func b2u(b bool) uint64 {
	if b {
		return 1
	}
	//
	return 0
}

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
	"math/big"

	"github.com/go-air/gini/logic"
	"github.com/go-air/gini/z"
)

// Vector is a bit-vector of circuit literals, least significant bit first.
type Vector []z.Lit

// Blaster constructs bit-vector operations as gates of an and-inverter
// circuit.
type Blaster struct {
	c *logic.C
}

// NewBlaster constructs a blaster over an empty circuit.
func NewBlaster() *Blaster {
	return &Blaster{logic.NewC()}
}

// Circuit returns the underlying circuit.
func (b *Blaster) Circuit() *logic.C {
	return b.c
}

// Fresh returns a vector of unconstrained literals.
func (b *Blaster) Fresh(width uint) Vector {
	v := make(Vector, width)
	//
	for i := range v {
		v[i] = b.c.Lit()
	}
	//
	return v
}

// Constant returns the vector representing a given value, truncated to a
// given width.
func (b *Blaster) Constant(value *big.Int, width uint) Vector {
	v := make(Vector, width)
	//
	for i := range v {
		v[i] = b.bit(value.Bit(i) == 1)
	}
	//
	return v
}

func (b *Blaster) bit(value bool) z.Lit {
	if value {
		return b.c.T
	}
	//
	return b.c.F
}

func (b *Blaster) fill(bit z.Lit, width uint) Vector {
	v := make(Vector, width)
	//
	for i := range v {
		v[i] = bit
	}
	//
	return v
}

// Add two vectors of equal width, discarding the final carry.
func (b *Blaster) Add(x, y Vector) Vector {
	return b.add(x, y, b.c.F)
}

// Sub subtracts y from x, as x + ~y + 1.
func (b *Blaster) Sub(x, y Vector) Vector {
	return b.add(x, b.Not(y), b.c.T)
}

func (b *Blaster) add(x, y Vector, carry z.Lit) Vector {
	sum := make(Vector, len(x))
	//
	for i := range x {
		half := b.c.Xor(x[i], y[i])
		sum[i] = b.c.Xor(half, carry)
		carry = b.c.Or(b.c.And(x[i], y[i]), b.c.And(half, carry))
	}
	//
	return sum
}

// Mul multiplies two vectors of equal width by shifting and adding.
func (b *Blaster) Mul(x, y Vector) Vector {
	var (
		width = uint(len(x))
		acc   = b.fill(b.c.F, width)
	)
	//
	for i := uint(0); i < width; i++ {
		partial := make(Vector, width)
		//
		for j := range partial {
			if uint(j) < i {
				partial[j] = b.c.F
			} else {
				partial[j] = b.c.And(y[i], x[uint(j)-i])
			}
		}
		//
		acc = b.Add(acc, partial)
	}
	//
	return acc
}

// And two vectors bitwise.
func (b *Blaster) And(x, y Vector) Vector {
	return b.zip(x, y, b.c.And)
}

// Or two vectors bitwise.
func (b *Blaster) Or(x, y Vector) Vector {
	return b.zip(x, y, b.c.Or)
}

// Xor two vectors bitwise.
func (b *Blaster) Xor(x, y Vector) Vector {
	return b.zip(x, y, b.c.Xor)
}

func (b *Blaster) zip(x, y Vector, fn func(z.Lit, z.Lit) z.Lit) Vector {
	v := make(Vector, len(x))
	//
	for i := range v {
		v[i] = fn(x[i], y[i])
	}
	//
	return v
}

// Not negates every bit of a vector.
func (b *Blaster) Not(x Vector) Vector {
	v := make(Vector, len(x))
	//
	for i := range v {
		v[i] = x[i].Not()
	}
	//
	return v
}

// Shl shifts x left by an unsigned amount, which need not have the same width
// as x.
func (b *Blaster) Shl(x, amount Vector) Vector {
	return b.barrel(x, amount, b.c.F, func(v Vector, n int, fill z.Lit) Vector {
		r := make(Vector, len(v))
		//
		for i := range r {
			if i < n {
				r[i] = fill
			} else {
				r[i] = v[i-n]
			}
		}
		//
		return r
	})
}

// Shr shifts x right by an unsigned amount, filling with zeros.
func (b *Blaster) Shr(x, amount Vector) Vector {
	return b.barrel(x, amount, b.c.F, shiftDown)
}

// Sra shifts x right by an unsigned amount, filling with its sign bit.
func (b *Blaster) Sra(x, amount Vector) Vector {
	return b.barrel(x, amount, x[len(x)-1], shiftDown)
}

func shiftDown(v Vector, n int, fill z.Lit) Vector {
	r := make(Vector, len(v))
	//
	for i := range r {
		if i+n < len(v) {
			r[i] = v[i+n]
		} else {
			r[i] = fill
		}
	}
	//
	return r
}

// Shift x by each set bit of an amount in turn.  Any set bit whose weight is
// at least the width of x shifts every bit out.
func (b *Blaster) barrel(x, amount Vector, fill z.Lit, shift func(Vector, int, z.Lit) Vector) Vector {
	width := len(x)
	//
	for i, bit := range amount {
		var shifted Vector
		//
		if i >= 62 || 1<<i >= width {
			shifted = b.fill(fill, uint(width))
		} else {
			shifted = shift(x, 1<<i, fill)
		}
		//
		x = b.Mux(bit, shifted, x)
	}
	//
	return x
}

// Mux selects between two vectors of equal width, yielding x when sel holds
// and y otherwise.
func (b *Blaster) Mux(sel z.Lit, x, y Vector) Vector {
	v := make(Vector, len(x))
	//
	for i := range v {
		v[i] = b.c.Choice(sel, x[i], y[i])
	}
	//
	return v
}

// Eq holds when two vectors are equal.
func (b *Blaster) Eq(x, y Vector) z.Lit {
	same := make([]z.Lit, len(x))
	//
	for i := range same {
		same[i] = b.c.Xor(x[i], y[i]).Not()
	}
	//
	return b.c.Ands(same...)
}

// Lt holds when x is less than y, treating both as unsigned.
func (b *Blaster) Lt(x, y Vector) z.Lit {
	lt := b.c.F
	// From the least significant bit, the highest differing bit decides.
	for i := range x {
		differ := b.c.Xor(x[i], y[i])
		lt = b.c.Choice(differ, y[i], lt)
	}
	//
	return lt
}

// Le holds when x is at most y, treating both as unsigned.
func (b *Blaster) Le(x, y Vector) z.Lit {
	return b.Lt(y, x).Not()
}

// ZeroExt extends a vector to a given width with zeros.
func (b *Blaster) ZeroExt(x Vector, width uint) Vector {
	return append(append(Vector{}, x...), b.fill(b.c.F, width-uint(len(x)))...)
}

// SignExt extends a vector to a given width with its sign bit.
func (b *Blaster) SignExt(x Vector, width uint) Vector {
	return append(append(Vector{}, x...), b.fill(x[len(x)-1], width-uint(len(x)))...)
}

// Concat places hi above lo.
func (b *Blaster) Concat(hi, lo Vector) Vector {
	return append(append(Vector{}, lo...), hi...)
}

// CountOnes sums the bits of a vector into a vector of a given width.
func (b *Blaster) CountOnes(x Vector, width uint) Vector {
	sum := b.fill(b.c.F, width)
	//
	for _, bit := range x {
		sum = b.Add(sum, b.ZeroExt(Vector{bit}, width)[:width])
	}
	//
	return sum
}

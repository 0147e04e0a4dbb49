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
// Package bv provides arbitrary precision bit-vector arithmetic over
// little-endian arrays of 64-bit words.  Every operation takes explicit
// bit-width arguments and leaves the bits of its result above the given width
// cleared.  Unless otherwise stated, the destination may alias any operand.
package bv

import (
	"math"
	"math/big"
	"math/bits"
)

// WordSize is the number of bits held in each chunk of a bit-vector.
const WordSize = 64

// Chunks returns the number of words required to hold a given number of bits.
func Chunks(width uint) uint {
	return (width + WordSize - 1) / WordSize
}

// Clear the bits of a bit-vector above a given width.
func mask(dst []uint64, width uint) {
	n := Chunks(width)
	//
	if r := width % WordSize; r != 0 {
		dst[n-1] &= (uint64(1) << r) - 1
	}
}

// ============================================================================
// Conversions
// ============================================================================

// FromUint64 assigns a machine word to a bit-vector of a given width.
func FromUint64(dst []uint64, value uint64, width uint) {
	n := Chunks(width)
	dst[0] = value
	//
	for i := uint(1); i < n; i++ {
		dst[i] = 0
	}
	//
	mask(dst, width)
}

// Low returns the least significant word of a bit-vector.
func Low(a []uint64) uint64 {
	return a[0]
}

// Saturate returns the value of a bit-vector of a given width as a machine
// word, or math.MaxUint64 if it does not fit.  This is used for shift amounts,
// where any amount beyond the width of the shifted value is equivalent.
func Saturate(a []uint64, width uint) uint64 {
	for i := uint(1); i < Chunks(width); i++ {
		if a[i] != 0 {
			return math.MaxUint64
		}
	}
	//
	return a[0]
}

// FromBig assigns a (non-negative) big integer to a bit-vector of a given
// width, truncating if necessary.
func FromBig(dst []uint64, value *big.Int, width uint) {
	var (
		n     = Chunks(width)
		words = value.Bits()
	)
	//
	for i := uint(0); i < n; i++ {
		dst[i] = 0
	}
	// Big words are platform sized, and never wider than a chunk.
	for i, w := range words {
		var (
			offset = uint(i) * bits.UintSize
			k      = offset / WordSize
		)
		//
		if k < n {
			dst[k] |= uint64(w) << (offset % WordSize)
		}
	}
	//
	mask(dst, width)
}

// ToBig converts a bit-vector of a given width into a big integer.
func ToBig(a []uint64, width uint) *big.Int {
	var (
		result big.Int
		word   big.Int
	)
	//
	for i := int(Chunks(width)) - 1; i >= 0; i-- {
		result.Lsh(&result, WordSize)
		result.Or(&result, word.SetUint64(a[i]))
	}
	//
	return &result
}

// Format renders a bit-vector of a given width in a given base (2, 10 or 16)
// without leading zeros.
func Format(a []uint64, width uint, base int) string {
	return ToBig(a, width).Text(base)
}

// Copy assigns one bit-vector of a given width to another.  This is how a
// borrowed value is turned back into an owned one.
func Copy(dst, a []uint64, width uint) {
	copy(dst[:Chunks(width)], a[:Chunks(width)])
}

// Fill sets every bit of a bit-vector of a given width to a given value.
func Fill(dst []uint64, bit bool, width uint) {
	var word uint64
	//
	if bit {
		word = math.MaxUint64
	}
	//
	for i := uint(0); i < Chunks(width); i++ {
		dst[i] = word
	}
	//
	mask(dst, width)
}

// ============================================================================
// Arithmetic
// ============================================================================

// Add computes a + b modulo 2^width.
func Add(dst, a, b []uint64, width uint) {
	var carry uint64
	//
	for i := uint(0); i < Chunks(width); i++ {
		dst[i], carry = bits.Add64(a[i], b[i], carry)
	}
	//
	mask(dst, width)
}

// Sub computes a - b modulo 2^width.
func Sub(dst, a, b []uint64, width uint) {
	var borrow uint64
	//
	for i := uint(0); i < Chunks(width); i++ {
		dst[i], borrow = bits.Sub64(a[i], b[i], borrow)
	}
	//
	mask(dst, width)
}

// Mul computes a * b modulo 2^width.
func Mul(dst, a, b []uint64, width uint) {
	var (
		n   = Chunks(width)
		acc = make([]uint64, n)
	)
	//
	for i := uint(0); i < n; i++ {
		var carry uint64
		//
		for j := uint(0); i+j < n; j++ {
			hi, lo := bits.Mul64(a[i], b[j])
			lo, c := bits.Add64(lo, acc[i+j], 0)
			hi += c
			lo, c = bits.Add64(lo, carry, 0)
			hi += c
			acc[i+j] = lo
			carry = hi
		}
	}
	//
	copy(dst[:n], acc)
	mask(dst, width)
}

// Div computes the unsigned quotient a / b.  Division by zero yields all ones.
func Div(dst, a, b []uint64, width uint) {
	if IsZero(b, width) {
		Fill(dst, true, width)
		return
	}
	//
	var q big.Int
	//
	q.Quo(ToBig(a, width), ToBig(b, width))
	FromBig(dst, &q, width)
}

// Mod computes the unsigned remainder a % b.  The remainder of division by
// zero is the dividend.
func Mod(dst, a, b []uint64, width uint) {
	if IsZero(b, width) {
		Copy(dst, a, width)
		return
	}
	//
	var r big.Int
	//
	r.Rem(ToBig(a, width), ToBig(b, width))
	FromBig(dst, &r, width)
}

// ============================================================================
// Shifts
// ============================================================================

// Shl computes a << amount modulo 2^width.
func Shl(dst, a []uint64, amount uint64, width uint) {
	if amount >= uint64(width) {
		Fill(dst, false, width)
		return
	}
	//
	var (
		n         = int(Chunks(width))
		wordShift = int(amount / WordSize)
		bitShift  = uint(amount % WordSize)
	)
	// Write from the top down, such that dst may alias a.
	for i := n - 1; i >= 0; i-- {
		var word uint64
		//
		if j := i - wordShift; j >= 0 {
			word = a[j] << bitShift
			//
			if j > 0 && bitShift != 0 {
				word |= a[j-1] >> (WordSize - bitShift)
			}
		}
		//
		dst[i] = word
	}
	//
	mask(dst, width)
}

// Shr computes the logical right shift a >> amount.
func Shr(dst, a []uint64, amount uint64, width uint) {
	if amount >= uint64(width) {
		Fill(dst, false, width)
		return
	}
	//
	n := Chunks(width)
	// Write from the bottom up, such that dst may alias a.
	for i := uint(0); i < n; i++ {
		dst[i] = window(a, n, uint(amount)+i*WordSize)
	}
	//
	mask(dst, width)
}

// Sra computes the arithmetic right shift of a, treating the bit at position
// width-1 as the sign.
func Sra(dst, a []uint64, amount uint64, width uint) {
	sign := Bit(a, width-1)
	//
	if amount >= uint64(width) {
		Fill(dst, sign, width)
		return
	}
	//
	Shr(dst, a, amount, width)
	//
	if sign {
		setOnes(dst, width-uint(amount), width)
	}
}

// ============================================================================
// Width changes
// ============================================================================

// ZeroExtend widens a value of width in to width out, filling with zeros.
func ZeroExtend(dst, a []uint64, in, out uint) {
	n := Chunks(in)
	//
	copy(dst[:n], a[:n])
	mask(dst, in)
	//
	for i := n; i < Chunks(out); i++ {
		dst[i] = 0
	}
}

// SignExtend widens a value of width in to width out, filling with copies of
// its most significant bit.
func SignExtend(dst, a []uint64, in, out uint) {
	sign := Bit(a, in-1)
	//
	ZeroExtend(dst, a, in, out)
	//
	if sign {
		setOnes(dst, in, out)
	}
}

// Extract selects the bits [hi:lo] of a, giving a value of width hi-lo+1.
func Extract(dst, a []uint64, hi, lo uint) {
	var (
		width = hi - lo + 1
		n     = Chunks(hi + 1)
	)
	// Source words are read at or above the word being written.
	for i := uint(0); i < Chunks(width); i++ {
		dst[i] = window(a, n, lo+i*WordSize)
	}
	//
	mask(dst, width)
}

// ExtractUint64 selects the bits [hi:lo] of a, where hi-lo < 64.
func ExtractUint64(a []uint64, hi, lo uint) uint64 {
	var (
		width = hi - lo + 1
		word  = window(a, Chunks(hi+1), lo)
	)
	//
	if width == WordSize {
		return word
	}
	//
	return word & ((uint64(1) << width) - 1)
}

// Concat computes the concatenation of hi (most significant) and lo, whose
// widths are given.  The destination must not alias hi.
func Concat(dst, hi, lo []uint64, hiWidth, loWidth uint) {
	width := hiWidth + loWidth
	//
	ZeroExtend(dst, lo, loWidth, width)
	//
	for i := uint(0); i < Chunks(hiWidth); i++ {
		var (
			word  = hi[i]
			start = loWidth + i*WordSize
			k     = start / WordSize
			shift = start % WordSize
		)
		//
		if i+1 == Chunks(hiWidth) && hiWidth%WordSize != 0 {
			word &= (uint64(1) << (hiWidth % WordSize)) - 1
		}
		//
		dst[k] |= word << shift
		//
		if shift != 0 && k+1 < Chunks(width) {
			dst[k+1] |= word >> (WordSize - shift)
		}
	}
}

// ============================================================================
// Queries
// ============================================================================

// PopCount returns the number of set bits in a value of a given width.
func PopCount(a []uint64, width uint) uint64 {
	var (
		count uint64
		n     = Chunks(width)
	)
	//
	for i := uint(0); i < n; i++ {
		word := a[i]
		//
		if i+1 == n && width%WordSize != 0 {
			word &= (uint64(1) << (width % WordSize)) - 1
		}
		//
		count += uint64(bits.OnesCount64(word))
	}
	//
	return count
}

// Bit returns the ith bit of a.
func Bit(a []uint64, i uint) bool {
	return (a[i/WordSize]>>(i%WordSize))&1 == 1
}

// IsZero checks whether a value of a given width is zero.
func IsZero(a []uint64, width uint) bool {
	for i := uint(0); i < Chunks(width); i++ {
		if a[i] != 0 {
			return false
		}
	}
	//
	return true
}

// Eq checks whether a == b.
func Eq(a, b []uint64, width uint) bool {
	return compare(a, b, width) == 0
}

// Lt checks whether a < b (unsigned).
func Lt(a, b []uint64, width uint) bool {
	return compare(a, b, width) < 0
}

// Le checks whether a <= b (unsigned).
func Le(a, b []uint64, width uint) bool {
	return compare(a, b, width) <= 0
}

func compare(a, b []uint64, width uint) int {
	for i := int(Chunks(width)) - 1; i >= 0; i-- {
		if a[i] < b[i] {
			return -1
		} else if a[i] > b[i] {
			return 1
		}
	}
	//
	return 0
}

// Read the 64 bits of a starting from a given bit offset, where bits beyond
// the first n words read as zero.
func window(a []uint64, n uint, offset uint) uint64 {
	var (
		k     = offset / WordSize
		shift = offset % WordSize
		word  uint64
	)
	//
	if k < n {
		word = a[k] >> shift
		//
		if shift != 0 && k+1 < n {
			word |= a[k+1] << (WordSize - shift)
		}
	}
	//
	return word
}

// Set the bits [from, to) of a bit-vector.
func setOnes(dst []uint64, from, to uint) {
	for i := from; i < to; i++ {
		dst[i/WordSize] |= uint64(1) << (i % WordSize)
	}
}

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

import "math"

// Operations on single machine words holding values of at most 64 bits.  These
// complement the native operators of Go where those do not directly implement
// fixed-width semantics.

// MaskWord returns a word whose lowest width bits are set.
func MaskWord(width uint) uint64 {
	if width >= WordSize {
		return math.MaxUint64
	}
	//
	return (uint64(1) << width) - 1
}

// DivWord computes the unsigned quotient a / b of values of a given width.
// Division by zero yields all ones.
func DivWord(a, b uint64, width uint) uint64 {
	if b == 0 {
		return MaskWord(width)
	}
	//
	return a / b
}

// ModWord computes the unsigned remainder a % b.  The remainder of division by
// zero is the dividend.
func ModWord(a, b uint64) uint64 {
	if b == 0 {
		return a
	}
	//
	return a % b
}

// SraWord computes the arithmetic right shift of a value of a given width.
func SraWord(a uint64, amount uint64, width uint) uint64 {
	var (
		ones = MaskWord(width)
		sign = (a>>(width-1))&1 == 1
	)
	//
	switch {
	case amount >= uint64(width) && sign:
		return ones
	case amount >= uint64(width):
		return 0
	case sign:
		return (a >> amount) | (ones &^ (ones >> amount))
	default:
		return a >> amount
	}
}

// SignExtendWord widens a value of width in to width out, filling with copies
// of its most significant bit.
func SignExtendWord(a uint64, in, out uint) uint64 {
	if (a>>(in-1))&1 == 1 {
		return (a | ^MaskWord(in)) & MaskWord(out)
	}
	//
	return a
}

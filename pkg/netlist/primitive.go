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
package netlist

import (
	"fmt"
	"math/big"
	"strings"
)

// Primitive identifies the operation performed by a net.  This is a closed sum
// type: the set of implementations is fixed by this package and every backend
// is expected to match on it exhaustively.
type Primitive interface {
	// Arity returns the number of inputs expected by this primitive.
	Arity() uint
	// OutputWidths returns the width of each output port driven by this
	// primitive, in port order.
	OutputWidths() []uint
	// String returns a short description of this primitive, as used when
	// reporting unsupported constructs.
	String() string
	// Marker method which closes the sum type.
	isPrimitive()
}

// ============================================================================
// Sources
// ============================================================================

// Const is a constant bit-vector of a given width.
type Const struct {
	Value *big.Int
	Width uint
}

// DontCare is a value of a given width whose bits are unconstrained.
type DontCare struct {
	Width uint
}

// In is an external input of the circuit.
type In struct {
	Name  string
	Width uint
}

// ============================================================================
// Arithmetic, bitwise, shifts and comparisons
// ============================================================================

// ArithOp identifies a binary arithmetic operator.
type ArithOp uint8

const (
	// OpAdd is addition modulo 2^w.
	OpAdd ArithOp = iota
	// OpSub is subtraction modulo 2^w.
	OpSub
	// OpMul is multiplication modulo 2^w.
	OpMul
	// OpDiv is unsigned division.
	OpDiv
	// OpMod is unsigned remainder.
	OpMod
)

func (op ArithOp) String() string {
	switch op {
	case OpAdd:
		return "add"
	case OpSub:
		return "sub"
	case OpMul:
		return "mul"
	case OpDiv:
		return "div"
	case OpMod:
		return "mod"
	default:
		panic(fmt.Sprintf("unknown arithmetic operator: %d", op))
	}
}

// Arith is a binary arithmetic operation whose operands and result share the
// same width.
type Arith struct {
	Op    ArithOp
	Width uint
}

// BitwiseOp identifies a binary bitwise operator.
type BitwiseOp uint8

const (
	// OpAnd is bitwise conjunction.
	OpAnd BitwiseOp = iota
	// OpOr is bitwise disjunction.
	OpOr
	// OpXor is bitwise exclusive-or.
	OpXor
)

func (op BitwiseOp) String() string {
	switch op {
	case OpAnd:
		return "and"
	case OpOr:
		return "or"
	case OpXor:
		return "xor"
	default:
		panic(fmt.Sprintf("unknown bitwise operator: %d", op))
	}
}

// Bitwise is a binary bitwise operation.
type Bitwise struct {
	Op    BitwiseOp
	Width uint
}

// Not is bitwise negation.
type Not struct {
	Width uint
}

// ShiftOp identifies a shift operator.
type ShiftOp uint8

const (
	// OpShl is a logical shift left.
	OpShl ShiftOp = iota
	// OpShr is a logical shift right.
	OpShr
	// OpSra is an arithmetic shift right.
	OpSra
)

func (op ShiftOp) String() string {
	switch op {
	case OpShl:
		return "shl"
	case OpShr:
		return "shr"
	case OpSra:
		return "sra"
	default:
		panic(fmt.Sprintf("unknown shift operator: %d", op))
	}
}

// Shift shifts its first input (of width Width) by the amount given in its
// second input (of width AmountWidth).
type Shift struct {
	Op          ShiftOp
	Width       uint
	AmountWidth uint
}

// CompareOp identifies an (unsigned) comparison operator.
type CompareOp uint8

const (
	// OpEq is equality.
	OpEq CompareOp = iota
	// OpNeq is disequality.
	OpNeq
	// OpLt is unsigned less-than.
	OpLt
	// OpLe is unsigned less-than-or-equal.
	OpLe
)

func (op CompareOp) String() string {
	switch op {
	case OpEq:
		return "eq"
	case OpNeq:
		return "neq"
	case OpLt:
		return "lt"
	case OpLe:
		return "le"
	default:
		panic(fmt.Sprintf("unknown comparison operator: %d", op))
	}
}

// Compare compares two operands of a given width, producing a single bit.
type Compare struct {
	Op    CompareOp
	Width uint
}

// ============================================================================
// Width changing
// ============================================================================

// ZeroExt pads its input with zeros up to the output width.
type ZeroExt struct {
	In  uint
	Out uint
}

// SignExt replicates the most significant bit of its input up to the output
// width.
type SignExt struct {
	In  uint
	Out uint
}

// Select extracts bits Hi down to Lo (inclusive) from an input of width
// InWidth.
type Select struct {
	InWidth uint
	Hi      uint
	Lo      uint
}

// Concat concatenates two inputs, with the first being most significant.
type Concat struct {
	WidthA uint
	WidthB uint
}

// Replicate replicates a single bit Width times.
type Replicate struct {
	Width uint
}

// ============================================================================
// Control
// ============================================================================

// Mux selects between its second and third inputs, based on its first (single
// bit) input.  A selector of zero picks the second input.
type Mux struct {
	Width uint
}

// Identity passes its input through unchanged.
type Identity struct {
	Width uint
}

// CountOnes counts the number of set bits in its input.
type CountOnes struct {
	InWidth  uint
	OutWidth uint
}

// ============================================================================
// State
// ============================================================================

// Register holds a value across clock cycles, loading its input on every
// active clock edge.
type Register struct {
	Init  *big.Int
	Width uint
}

// RegisterEn is a register which loads its data input (second) only when its
// enable input (first) is set.
type RegisterEn struct {
	Init  *big.Int
	Width uint
}

// ============================================================================
// Sinks and effects
// ============================================================================

// Output exposes its input as a named output of the circuit.
type Output struct {
	Name  string
	Width uint
}

// Radix determines how a bit argument of a display is formatted.
type Radix uint8

const (
	// Decimal formatting.
	Decimal Radix = iota
	// Hex formatting.
	Hex
	// Binary formatting.
	Binary
)

// FormatItem is either a literal string, or a bit argument consumed from the
// inputs of a display.
type FormatItem struct {
	// Literal text (when Width is zero).
	Literal string
	// Width of the bit argument, or zero for a literal.
	Width uint
	// Radix to use for bit arguments.
	Radix Radix
}

// IsLiteral checks whether this item is literal text.
func (p FormatItem) IsLiteral() bool {
	return p.Width == 0
}

// Display writes a formatted message whenever its enable input (first) is set.
// Its remaining inputs are consumed positionally by the bit arguments of its
// format.
type Display struct {
	Format []FormatItem
}

// Finish terminates simulation whenever its enable input is set.
type Finish struct{}

// ============================================================================
// Custom
// ============================================================================

// PortSpec describes a port of a custom primitive.  Name may be empty for
// positional connection.
type PortSpec struct {
	Name  string
	Width uint
}

// Param is a key-value parameter binding of a custom primitive.
type Param struct {
	Key   string
	Value string
}

// Custom is an opaque component which can only be instantiated by name.
type Custom struct {
	Name    string
	Inputs  []PortSpec
	Outputs []PortSpec
	Params  []Param
	Clocked bool
}

// ============================================================================
// Arity
// ============================================================================

// Arity implementation for Primitive interface.
func (p *Const) Arity() uint { return 0 }

// Arity implementation for Primitive interface.
func (p *DontCare) Arity() uint { return 0 }

// Arity implementation for Primitive interface.
func (p *In) Arity() uint { return 0 }

// Arity implementation for Primitive interface.
func (p *Arith) Arity() uint { return 2 }

// Arity implementation for Primitive interface.
func (p *Bitwise) Arity() uint { return 2 }

// Arity implementation for Primitive interface.
func (p *Not) Arity() uint { return 1 }

// Arity implementation for Primitive interface.
func (p *Shift) Arity() uint { return 2 }

// Arity implementation for Primitive interface.
func (p *Compare) Arity() uint { return 2 }

// Arity implementation for Primitive interface.
func (p *ZeroExt) Arity() uint { return 1 }

// Arity implementation for Primitive interface.
func (p *SignExt) Arity() uint { return 1 }

// Arity implementation for Primitive interface.
func (p *Select) Arity() uint { return 1 }

// Arity implementation for Primitive interface.
func (p *Concat) Arity() uint { return 2 }

// Arity implementation for Primitive interface.
func (p *Replicate) Arity() uint { return 1 }

// Arity implementation for Primitive interface.
func (p *Mux) Arity() uint { return 3 }

// Arity implementation for Primitive interface.
func (p *Identity) Arity() uint { return 1 }

// Arity implementation for Primitive interface.
func (p *CountOnes) Arity() uint { return 1 }

// Arity implementation for Primitive interface.
func (p *Register) Arity() uint { return 1 }

// Arity implementation for Primitive interface.
func (p *RegisterEn) Arity() uint { return 2 }

// Arity implementation for Primitive interface.
func (p *Output) Arity() uint { return 1 }

// Arity implementation for Primitive interface.
func (p *Display) Arity() uint {
	n := uint(1)
	//
	for _, item := range p.Format {
		if !item.IsLiteral() {
			n++
		}
	}
	//
	return n
}

// Arity implementation for Primitive interface.
func (p *Finish) Arity() uint { return 1 }

// Arity implementation for Primitive interface.
func (p *Custom) Arity() uint { return uint(len(p.Inputs)) }

// ============================================================================
// Output widths
// ============================================================================

// OutputWidths implementation for Primitive interface.
func (p *Const) OutputWidths() []uint { return []uint{p.Width} }

// OutputWidths implementation for Primitive interface.
func (p *DontCare) OutputWidths() []uint { return []uint{p.Width} }

// OutputWidths implementation for Primitive interface.
func (p *In) OutputWidths() []uint { return []uint{p.Width} }

// OutputWidths implementation for Primitive interface.
func (p *Arith) OutputWidths() []uint { return []uint{p.Width} }

// OutputWidths implementation for Primitive interface.
func (p *Bitwise) OutputWidths() []uint { return []uint{p.Width} }

// OutputWidths implementation for Primitive interface.
func (p *Not) OutputWidths() []uint { return []uint{p.Width} }

// OutputWidths implementation for Primitive interface.
func (p *Shift) OutputWidths() []uint { return []uint{p.Width} }

// OutputWidths implementation for Primitive interface.
func (p *Compare) OutputWidths() []uint { return []uint{1} }

// OutputWidths implementation for Primitive interface.
func (p *ZeroExt) OutputWidths() []uint { return []uint{p.Out} }

// OutputWidths implementation for Primitive interface.
func (p *SignExt) OutputWidths() []uint { return []uint{p.Out} }

// OutputWidths implementation for Primitive interface.
func (p *Select) OutputWidths() []uint { return []uint{p.Hi - p.Lo + 1} }

// OutputWidths implementation for Primitive interface.
func (p *Concat) OutputWidths() []uint { return []uint{p.WidthA + p.WidthB} }

// OutputWidths implementation for Primitive interface.
func (p *Replicate) OutputWidths() []uint { return []uint{p.Width} }

// OutputWidths implementation for Primitive interface.
func (p *Mux) OutputWidths() []uint { return []uint{p.Width} }

// OutputWidths implementation for Primitive interface.
func (p *Identity) OutputWidths() []uint { return []uint{p.Width} }

// OutputWidths implementation for Primitive interface.
func (p *CountOnes) OutputWidths() []uint { return []uint{p.OutWidth} }

// OutputWidths implementation for Primitive interface.
func (p *Register) OutputWidths() []uint { return []uint{p.Width} }

// OutputWidths implementation for Primitive interface.
func (p *RegisterEn) OutputWidths() []uint { return []uint{p.Width} }

// OutputWidths implementation for Primitive interface.
func (p *Output) OutputWidths() []uint { return nil }

// OutputWidths implementation for Primitive interface.
func (p *Display) OutputWidths() []uint { return nil }

// OutputWidths implementation for Primitive interface.
func (p *Finish) OutputWidths() []uint { return nil }

// OutputWidths implementation for Primitive interface.
func (p *Custom) OutputWidths() []uint {
	widths := make([]uint, len(p.Outputs))
	//
	for i, o := range p.Outputs {
		widths[i] = o.Width
	}
	//
	return widths
}

// ============================================================================
// Strings
// ============================================================================

func (p *Const) String() string {
	return fmt.Sprintf("const(%s,%d)", p.Value.String(), p.Width)
}

func (p *DontCare) String() string { return fmt.Sprintf("dontcare(%d)", p.Width) }

func (p *In) String() string { return fmt.Sprintf("input(%s,%d)", p.Name, p.Width) }

func (p *Arith) String() string { return fmt.Sprintf("%s(%d)", p.Op, p.Width) }

func (p *Bitwise) String() string { return fmt.Sprintf("%s(%d)", p.Op, p.Width) }

func (p *Not) String() string { return fmt.Sprintf("not(%d)", p.Width) }

func (p *Shift) String() string {
	return fmt.Sprintf("%s(%d,%d)", p.Op, p.Width, p.AmountWidth)
}

func (p *Compare) String() string { return fmt.Sprintf("%s(%d)", p.Op, p.Width) }

func (p *ZeroExt) String() string { return fmt.Sprintf("zext(%d,%d)", p.In, p.Out) }

func (p *SignExt) String() string { return fmt.Sprintf("sext(%d,%d)", p.In, p.Out) }

func (p *Select) String() string {
	return fmt.Sprintf("select(%d,%d,%d)", p.InWidth, p.Hi, p.Lo)
}

func (p *Concat) String() string { return fmt.Sprintf("concat(%d,%d)", p.WidthA, p.WidthB) }

func (p *Replicate) String() string { return fmt.Sprintf("replicate(%d)", p.Width) }

func (p *Mux) String() string { return fmt.Sprintf("mux(%d)", p.Width) }

func (p *Identity) String() string { return fmt.Sprintf("id(%d)", p.Width) }

func (p *CountOnes) String() string {
	return fmt.Sprintf("countones(%d,%d)", p.InWidth, p.OutWidth)
}

func (p *Register) String() string {
	return fmt.Sprintf("reg(%s,%d)", p.Init.String(), p.Width)
}

func (p *RegisterEn) String() string {
	return fmt.Sprintf("regen(%s,%d)", p.Init.String(), p.Width)
}

func (p *Output) String() string { return fmt.Sprintf("output(%s,%d)", p.Name, p.Width) }

func (p *Display) String() string {
	var builder strings.Builder
	//
	builder.WriteString("display(")
	//
	for i, item := range p.Format {
		if i != 0 {
			builder.WriteString(",")
		}
		//
		if item.IsLiteral() {
			builder.WriteString(fmt.Sprintf("%q", item.Literal))
		} else {
			builder.WriteString(fmt.Sprintf("%d", item.Width))
		}
	}
	//
	builder.WriteString(")")
	//
	return builder.String()
}

func (p *Finish) String() string { return "finish" }

func (p *Custom) String() string { return fmt.Sprintf("custom(%s)", p.Name) }

func (p *Const) isPrimitive()      {}
func (p *DontCare) isPrimitive()   {}
func (p *In) isPrimitive()         {}
func (p *Arith) isPrimitive()      {}
func (p *Bitwise) isPrimitive()    {}
func (p *Not) isPrimitive()        {}
func (p *Shift) isPrimitive()      {}
func (p *Compare) isPrimitive()    {}
func (p *ZeroExt) isPrimitive()    {}
func (p *SignExt) isPrimitive()    {}
func (p *Select) isPrimitive()     {}
func (p *Concat) isPrimitive()     {}
func (p *Replicate) isPrimitive()  {}
func (p *Mux) isPrimitive()        {}
func (p *Identity) isPrimitive()   {}
func (p *CountOnes) isPrimitive()  {}
func (p *Register) isPrimitive()   {}
func (p *RegisterEn) isPrimitive() {}
func (p *Output) isPrimitive()     {}
func (p *Display) isPrimitive()    {}
func (p *Finish) isPrimitive()     {}
func (p *Custom) isPrimitive()     {}

// ============================================================================
// Classification
// ============================================================================

// IsRegister checks whether a primitive holds state across cycles.
func IsRegister(p Primitive) bool {
	switch p.(type) {
	case *Register, *RegisterEn:
		return true
	default:
		return false
	}
}

// IsEffect checks whether a primitive is a side-effecting sink which only
// makes sense in a simulation context.
func IsEffect(p Primitive) bool {
	switch p.(type) {
	case *Display, *Finish:
		return true
	default:
		return false
	}
}

// IsLeaf checks whether the current-cycle value of a primitive is available
// without evaluating any of its inputs.
func IsLeaf(p Primitive) bool {
	switch p.(type) {
	case *In, *Register, *RegisterEn:
		return true
	default:
		return false
	}
}

// IsRoot checks whether a primitive anchors the evaluation order.  Roots are
// the nets whose value is observable from outside the combinational logic.
func IsRoot(p Primitive) bool {
	switch p.(type) {
	case *Output, *Register, *RegisterEn, *Display, *Finish:
		return true
	default:
		return false
	}
}

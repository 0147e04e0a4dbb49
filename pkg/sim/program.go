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
package sim

import (
	"fmt"
	"math"
	"math/big"
	"slices"

	"github.com/consensys/go-netlist/pkg/netlist"
	"github.com/consensys/go-netlist/pkg/sim/bv"
)

// NoSlot indicates the absence of an optional slot, such as the enable of a
// plain register.
const NoSlot uint = math.MaxUint

// Class is the storage class of a value, as determined by its width.
type Class uint8

const (
	// U8 is a native 8-bit word
	U8 Class = iota
	// U16 is a native 16-bit word
	U16
	// U32 is a native 32-bit word
	U32
	// U64 is a native 64-bit word
	U64
	// Wide is an array of 64-bit words
	Wide
)

// ClassOf determines the smallest storage class covering a given width.
func ClassOf(width uint) Class {
	switch {
	case width <= 8:
		return U8
	case width <= 16:
		return U16
	case width <= 32:
		return U32
	case width <= bv.WordSize:
		return U64
	default:
		return Wide
	}
}

// Bits returns the number of bits held by a native class.
func (c Class) Bits() uint {
	return 8 << c
}

// SlotKind determines where a slot lives and how it is written.
type SlotKind uint8

const (
	// Temp is a combinational value recomputed every cycle.
	Temp SlotKind = iota
	// Constant holds a fixed value (don't-care values are zero).
	Constant
	// Input is written by the environment between cycles.
	Input
	// Output is copied from its driver every cycle.
	Output
	// State holds a register, and persists across cycles.
	State
	// Snapshot holds the value of a register at the start of the cycle.
	Snapshot
	// View borrows the storage of another slot instead of owning any.
	View
)

// Slot is a single storage location of a program.
type Slot struct {
	Name  string
	Width uint
	Kind  SlotKind
	// External name of an input or output.
	Label string
	// Value of a constant, or initial value of a register.
	Init *big.Int
}

// Class returns the storage class of this slot.
func (p *Slot) Class() Class {
	return ClassOf(p.Width)
}

// IsWide checks whether this slot is stored as an array of words.
func (p *Slot) IsWide() bool {
	return p.Class() == Wide
}

// Stmt is a single statement of a program.
type Stmt interface {
	// Reads returns the slots read by this statement.
	Reads() []uint
	isStmt()
}

// Eval computes a combinational primitive from its arguments.
type Eval struct {
	Dst  uint
	Prim netlist.Primitive
	Args []uint
}

// Borrow binds a view to the storage of another slot.  With two candidates,
// the first is chosen when the (1-bit) selector is zero and the second
// otherwise.  With one candidate, the selector is NoSlot.
type Borrow struct {
	View       uint
	Select     uint
	Candidates []uint
}

// Copy assigns the value of one slot to another.
type Copy struct {
	Dst, Src uint
}

// Print writes a formatted message when its enable is set.
type Print struct {
	Enable uint
	Format []netlist.FormatItem
	Args   []uint
}

// Halt signals the end of simulation when its enable is set.
type Halt struct {
	Enable uint
}

// Update writes the next value of a register, provided its enable (if any)
// is set.
type Update struct {
	Reg    uint
	Enable uint
	Src    uint
}

// Reads implementation for Stmt interface.
func (p *Eval) Reads() []uint { return p.Args }

// Reads implementation for Stmt interface.
func (p *Borrow) Reads() []uint { return optional(p.Select, p.Candidates...) }

// Reads implementation for Stmt interface.
func (p *Copy) Reads() []uint { return []uint{p.Src} }

// Reads implementation for Stmt interface.
func (p *Print) Reads() []uint { return optional(p.Enable, p.Args...) }

// Reads implementation for Stmt interface.
func (p *Halt) Reads() []uint { return []uint{p.Enable} }

// Reads implementation for Stmt interface.
func (p *Update) Reads() []uint { return optional(p.Enable, p.Src) }

func (*Eval) isStmt()   {}
func (*Borrow) isStmt() {}
func (*Copy) isStmt()   {}
func (*Print) isStmt()  {}
func (*Halt) isStmt()   {}
func (*Update) isStmt() {}

func optional(slot uint, rest ...uint) []uint {
	if slot == NoSlot {
		return rest
	}
	//
	return append([]uint{slot}, rest...)
}

// Program is the sequential form of a netlist.  One cycle executes the
// snapshots, then the combinational statements (in topological order), then
// the effects and finally the register updates.
type Program struct {
	Slots         []Slot
	Snapshots     []*Copy
	Combinational []Stmt
	Effects       []Stmt
	Updates       []*Update
	// Borrow statement of each view.
	borrows map[uint]*Borrow
}

func newProgram() *Program {
	return &Program{borrows: make(map[uint]*Borrow)}
}

func (p *Program) add(slot Slot) uint {
	p.Slots = append(p.Slots, slot)
	return uint(len(p.Slots) - 1)
}

// Slot returns the slot with a given index.
func (p *Program) Slot(index uint) *Slot {
	return &p.Slots[index]
}

// Lookup finds the slot with a given name.
func (p *Program) Lookup(name string) (uint, bool) {
	for i, s := range p.Slots {
		if s.Name == name {
			return uint(i), true
		}
	}
	//
	return 0, false
}

// Port finds the input or output slot with a given external name.
func (p *Program) Port(label string) (uint, bool) {
	for i, s := range p.Slots {
		if (s.Kind == Input || s.Kind == Output) && s.Label == label {
			return uint(i), true
		}
	}
	//
	return 0, false
}

// SlotsOf returns the slots of a given kind, in ascending order.
func (p *Program) SlotsOf(kind SlotKind) []uint {
	var slots []uint
	//
	for i, s := range p.Slots {
		if s.Kind == kind {
			slots = append(slots, uint(i))
		}
	}
	//
	return slots
}

// Owners returns the slots whose storage a given view may borrow, following
// views of views.  For a slot which is not a view, this is just the slot
// itself.
func (p *Program) Owners(slot uint) []uint {
	b, ok := p.borrows[slot]
	if !ok {
		return []uint{slot}
	}
	//
	var owners []uint
	//
	for _, c := range b.Candidates {
		owners = append(owners, p.Owners(c)...)
	}
	//
	slices.Sort(owners)
	//
	return slices.Compact(owners)
}

// Borrowers returns the views which may borrow the storage of a given slot
// (directly or through other views), in ascending order.
func (p *Program) Borrowers(owner uint) []uint {
	var views []uint
	//
	for view := range p.borrows {
		if view != owner && slices.Contains(p.Owners(view), owner) {
			views = append(views, view)
		}
	}
	//
	slices.Sort(views)
	//
	return views
}

// Statements returns every statement of one cycle in execution order.
func (p *Program) Statements() []Stmt {
	var stmts []Stmt
	//
	for _, s := range p.Snapshots {
		stmts = append(stmts, s)
	}
	//
	stmts = append(stmts, p.Combinational...)
	stmts = append(stmts, p.Effects...)
	//
	for _, u := range p.Updates {
		stmts = append(stmts, u)
	}
	//
	return stmts
}

func (p *Program) String() string {
	return fmt.Sprintf("program(%d slots, %d snapshots, %d statements, %d updates)", len(p.Slots), len(p.Snapshots),
		len(p.Combinational)+len(p.Effects), len(p.Updates))
}

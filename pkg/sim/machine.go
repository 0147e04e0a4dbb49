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
	"io"
	"math/big"
	"strings"

	"github.com/consensys/go-netlist/pkg/netlist"
	"github.com/consensys/go-netlist/pkg/sim/bv"
)

var (
	arithOps = map[netlist.ArithOp]func(dst, a, b []uint64, width uint){
		netlist.OpAdd: bv.Add, netlist.OpSub: bv.Sub, netlist.OpMul: bv.Mul, netlist.OpDiv: bv.Div, netlist.OpMod: bv.Mod,
	}
	bitwiseOps = map[netlist.BitwiseOp]func(dst, a, b []uint64, width uint){
		netlist.OpAnd: bv.And, netlist.OpOr: bv.Or, netlist.OpXor: bv.Xor,
	}
	shiftOps = map[netlist.ShiftOp]func(dst, a []uint64, amount uint64, width uint){
		netlist.OpShl: bv.Shl, netlist.OpShr: bv.Shr, netlist.OpSra: bv.Sra,
	}
	compareOps = map[netlist.CompareOp]func(a, b []uint64, width uint) bool{
		netlist.OpEq: bv.Eq, netlist.OpNeq: neq, netlist.OpLt: bv.Lt, netlist.OpLe: bv.Le,
	}
	bases = map[netlist.Radix]int{netlist.Decimal: 10, netlist.Hex: 16, netlist.Binary: 2}
)

func neq(a, b []uint64, width uint) bool {
	return !bv.Eq(a, b, width)
}

// Machine interprets a program one clock cycle at a time.  Every slot is held
// as a bit-vector, except for views which are bound to the storage of another
// slot as the cycle executes.
type Machine struct {
	prog   *Program
	values [][]uint64
	// Slot whose storage each view currently borrows.
	binding []uint
	// Destination for displayed messages.
	out   io.Writer
	cycle uint
	// First error encountered writing output
	err error
}

// NewMachine constructs a machine for a given program, with every register at
// its initial value and every input zero.  Displayed messages are written to a
// given writer.
func NewMachine(prog *Program, out io.Writer) *Machine {
	m := &Machine{
		prog:    prog,
		values:  make([][]uint64, len(prog.Slots)),
		binding: make([]uint, len(prog.Slots)),
		out:     out,
	}
	//
	for i, s := range prog.Slots {
		m.binding[i] = NoSlot
		//
		if s.Kind == View {
			continue
		}
		//
		m.values[i] = make([]uint64, bv.Chunks(s.Width))
		//
		if s.Init != nil {
			bv.FromBig(m.values[i], s.Init, s.Width)
		}
	}
	//
	return m
}

// Program returns the program being interpreted.
func (m *Machine) Program() *Program {
	return m.prog
}

// Cycle returns the number of cycles executed so far.
func (m *Machine) Cycle() uint {
	return m.cycle
}

// Err returns the first error encountered writing displayed messages, if any.
func (m *Machine) Err() error {
	return m.err
}

// Set assigns the input with a given external name, which then holds until set
// again.
func (m *Machine) Set(label string, value *big.Int) error {
	slot, ok := m.prog.Port(label)
	//
	if !ok || m.prog.Slots[slot].Kind != Input {
		return fmt.Errorf("unknown input %q", label)
	}
	//
	width := m.prog.Slots[slot].Width
	//
	if value.Sign() < 0 || uint(value.BitLen()) > width {
		return fmt.Errorf("value %s does not fit input %q of %d bits", value, label, width)
	}
	//
	bv.FromBig(m.values[slot], value, width)
	//
	return nil
}

// Get returns the value of the input or output with a given external name.
// Outputs reflect the most recently executed cycle.
func (m *Machine) Get(label string) (*big.Int, error) {
	slot, ok := m.prog.Port(label)
	if !ok {
		return nil, fmt.Errorf("unknown port %q", label)
	}
	//
	return m.Value(slot), nil
}

// Value returns the current value of a given slot.  A view reads as the slot it
// most recently borrowed (or zero before its first binding).
func (m *Machine) Value(slot uint) *big.Int {
	if m.prog.Slots[slot].Kind == View && m.binding[slot] == NoSlot {
		return big.NewInt(0)
	}
	//
	return bv.ToBig(m.read(slot), m.prog.Slots[slot].Width)
}

// Step executes a single clock cycle, returning true if some finish fired.
func (m *Machine) Step() bool {
	var finished bool
	//
	for _, s := range m.prog.Snapshots {
		m.copy(s)
	}
	//
	for _, s := range m.prog.Combinational {
		m.exec(s)
	}
	//
	for _, s := range m.prog.Effects {
		finished = m.exec(s) || finished
	}
	//
	for _, u := range m.prog.Updates {
		m.exec(u)
	}
	//
	m.cycle++
	//
	return finished
}

// Run executes cycles until some finish fires, or a given number of cycles has
// been executed.  The number of cycles executed is returned.
func (m *Machine) Run(limit uint) uint {
	for i := uint(0); i < limit; i++ {
		if m.Step() {
			return i + 1
		}
	}
	//
	return limit
}

// Execute a single statement, returning true for a halt which fired.
func (m *Machine) exec(stmt Stmt) bool {
	switch s := stmt.(type) {
	case *Eval:
		m.eval(s)
	case *Borrow:
		m.borrow(s)
	case *Copy:
		m.copy(s)
	case *Print:
		if m.enabled(s.Enable) {
			m.print(s)
		}
	case *Halt:
		return m.enabled(s.Enable)
	case *Update:
		if s.Enable == NoSlot || m.enabled(s.Enable) {
			bv.Copy(m.values[s.Reg], m.read(s.Src), m.prog.Slots[s.Reg].Width)
		}
	default:
		panic(fmt.Sprintf("unknown statement %T", stmt))
	}
	//
	return false
}

func (m *Machine) eval(e *Eval) {
	var (
		dst  = m.values[e.Dst]
		args = make([][]uint64, len(e.Args))
	)
	//
	for i, arg := range e.Args {
		args[i] = m.read(arg)
	}
	//
	switch p := e.Prim.(type) {
	case *netlist.Arith:
		arithOps[p.Op](dst, args[0], args[1], p.Width)
	case *netlist.Bitwise:
		bitwiseOps[p.Op](dst, args[0], args[1], p.Width)
	case *netlist.Not:
		bv.Not(dst, args[0], p.Width)
	case *netlist.Shift:
		shiftOps[p.Op](dst, args[0], bv.Saturate(args[1], p.AmountWidth), p.Width)
	case *netlist.Compare:
		var bit uint64
		//
		if compareOps[p.Op](args[0], args[1], p.Width) {
			bit = 1
		}
		//
		bv.FromUint64(dst, bit, 1)
	case *netlist.ZeroExt:
		bv.ZeroExtend(dst, args[0], p.In, p.Out)
	case *netlist.SignExt:
		bv.SignExtend(dst, args[0], p.In, p.Out)
	case *netlist.Select:
		bv.Extract(dst, args[0], p.Hi, p.Lo)
	case *netlist.Concat:
		bv.Concat(dst, args[0], args[1], p.WidthA, p.WidthB)
	case *netlist.Replicate:
		bv.Fill(dst, bv.Bit(args[0], 0), p.Width)
	case *netlist.Mux:
		if bv.Bit(args[0], 0) {
			bv.Copy(dst, args[2], p.Width)
		} else {
			bv.Copy(dst, args[1], p.Width)
		}
	case *netlist.Identity:
		bv.Copy(dst, args[0], p.Width)
	case *netlist.CountOnes:
		bv.FromUint64(dst, bv.PopCount(args[0], p.InWidth), p.OutWidth)
	default:
		panic(fmt.Sprintf("cannot evaluate %s", e.Prim))
	}
}

func (m *Machine) borrow(b *Borrow) {
	chosen := b.Candidates[0]
	//
	if b.Select != NoSlot && m.enabled(b.Select) {
		chosen = b.Candidates[1]
	}
	//
	if m.prog.Slots[chosen].Kind == View {
		chosen = m.binding[chosen]
	}
	//
	m.binding[b.View] = chosen
}

func (m *Machine) copy(c *Copy) {
	bv.Copy(m.values[c.Dst], m.read(c.Src), m.prog.Slots[c.Dst].Width)
}

func (m *Machine) print(p *Print) {
	var (
		builder strings.Builder
		next    int
	)
	//
	for _, item := range p.Format {
		if item.IsLiteral() {
			builder.WriteString(item.Literal)
			continue
		}
		//
		arg := p.Args[next]
		builder.WriteString(bv.Format(m.read(arg), m.prog.Slots[arg].Width, bases[item.Radix]))
		next++
	}
	//
	if _, err := io.WriteString(m.out, builder.String()); err != nil && m.err == nil {
		m.err = err
	}
}

// Check whether the least significant bit of a given slot is set.
func (m *Machine) enabled(slot uint) bool {
	return bv.Bit(m.read(slot), 0)
}

// Read the storage of a given slot, following the binding of a view.
func (m *Machine) read(slot uint) []uint64 {
	if m.prog.Slots[slot].Kind == View {
		return m.values[m.binding[slot]]
	}
	//
	return m.values[slot]
}

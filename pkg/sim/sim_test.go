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
	"bytes"
	"go/parser"
	"go/token"
	"io"
	"math/big"
	"math/rand"
	"testing"

	"github.com/consensys/go-netlist/pkg/netlist"
	"github.com/consensys/go-netlist/pkg/sim/bv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// A four bit counter which finishes once it reaches ten.
func counter() *netlist.Netlist {
	b := netlist.NewBuilder()
	one := b.Const(1, 4)
	ten := b.Const(10, 4)
	r := b.Register(0, 4)
	b.Hint(r, "count")
	add := b.Apply(&netlist.Arith{Op: netlist.OpAdd, Width: 4}, r, one)
	b.Connect(r, netlist.Ref(add))
	done := b.Apply(&netlist.Compare{Op: netlist.OpEq, Width: 4}, r, ten)
	b.Apply(&netlist.Finish{}, done)
	b.Output("q", 4, r)
	//
	return b.Build()
}

// Two wide registers which swap when sel is clear.  Otherwise, both take the
// value of a.
func wideSwap(x, y *big.Int) *netlist.Netlist {
	b := netlist.NewBuilder()
	sel := b.Input("sel", 1)
	a := b.Add(&netlist.Register{Init: x, Width: 100}, nil, "a")
	r := b.Add(&netlist.Register{Init: y, Width: 100}, nil, "b")
	m := b.Apply(&netlist.Mux{Width: 100}, sel, r, a)
	b.Connect(a, netlist.Ref(m))
	b.Connect(r, netlist.Ref(a))
	b.Output("a", 100, a)
	//
	return b.Build()
}

func Test_Sim_01(t *testing.T) {
	prog := lower(t, counter())
	m := NewMachine(prog, io.Discard)
	//
	assert.Equal(t, uint(11), m.Run(100))
	assert.Equal(t, uint(11), m.Cycle())
	assert.Equal(t, int64(11), value(t, m, "count_2"))
	// Outputs reflect the last cycle executed.
	q, err := m.Get("q")
	require.NoError(t, err)
	assert.Equal(t, int64(10), q.Int64())
}

func Test_Sim_02(t *testing.T) {
	b := netlist.NewBuilder()
	en := b.Const(1, 1)
	r := b.Register(9, 4)
	one := b.Const(1, 4)
	b.Connect(r, netlist.Ref(b.Apply(&netlist.Arith{Op: netlist.OpAdd, Width: 4}, r, one)))
	b.Add(&netlist.Display{Format: []netlist.FormatItem{{Literal: "count="}, {Width: 4}, {Literal: " hex="},
		{Width: 4, Radix: netlist.Hex}, {Literal: "\n"}}}, []netlist.Input{netlist.Ref(en), netlist.Ref(r), netlist.Ref(r)})
	//
	var out bytes.Buffer
	//
	m := NewMachine(lower(t, b.Build()), &out)
	assert.Equal(t, uint(3), m.Run(3))
	assert.Equal(t, "count=9 hex=9\ncount=10 hex=a\ncount=11 hex=b\n", out.String())
	assert.NoError(t, m.Err())
}

// Registers exchanging values need a snapshot.
func Test_Sim_03(t *testing.T) {
	b := netlist.NewBuilder()
	x := b.Register(1, 8)
	y := b.Register(2, 8)
	b.Connect(x, netlist.Ref(y))
	b.Connect(y, netlist.Ref(x))
	//
	prog := lower(t, b.Build())
	assert.Len(t, prog.Snapshots, 1)
	assert.Len(t, prog.SlotsOf(Snapshot), 1)
	//
	m := NewMachine(prog, io.Discard)
	m.Step()
	assert.Equal(t, int64(2), value(t, m, "v_0"))
	assert.Equal(t, int64(1), value(t, m, "v_1"))
	m.Step()
	assert.Equal(t, int64(1), value(t, m, "v_0"))
	assert.Equal(t, int64(2), value(t, m, "v_1"))
}

// A shift chain needs no snapshots, provided later stages update first.
func Test_Sim_04(t *testing.T) {
	b := netlist.NewBuilder()
	in := b.Input("in", 8)
	r0 := b.Register(0, 8)
	r1 := b.Register(0, 8)
	r2 := b.Register(0, 8)
	b.Connect(r0, netlist.Ref(in))
	b.Connect(r1, netlist.Ref(r0))
	b.Connect(r2, netlist.Ref(r1))
	b.Output("out", 8, r2)
	//
	prog := lower(t, b.Build())
	assert.Empty(t, prog.Snapshots)
	//
	var names []string
	//
	for _, u := range prog.Updates {
		names = append(names, prog.Slot(u.Reg).Name)
	}
	//
	assert.Equal(t, []string{"v_3", "v_2", "v_1"}, names)
	//
	m := NewMachine(prog, io.Discard)
	require.NoError(t, m.Set("in", big.NewInt(5)))
	m.Step()
	require.NoError(t, m.Set("in", big.NewInt(0)))
	m.Step()
	assert.Equal(t, []int64{0, 5, 0}, []int64{value(t, m, "v_1"), value(t, m, "v_2"), value(t, m, "v_3")})
	m.Step()
	m.Step()
	//
	out, err := m.Get("out")
	require.NoError(t, err)
	assert.Equal(t, int64(5), out.Int64())
}

// A wide multiplexer borrows the storage of a register which is updated
// before the multiplexer is read, so must be redirected to a snapshot.
func Test_Sim_05(t *testing.T) {
	var (
		x = new(big.Int).Add(new(big.Int).Lsh(big.NewInt(1), 90), big.NewInt(5))
		y = new(big.Int).Add(new(big.Int).Lsh(big.NewInt(1), 99), big.NewInt(7))
	)
	//
	prog := lower(t, wideSwap(x, y))
	require.Len(t, prog.Snapshots, 1)
	//
	a, _ := prog.Lookup("a_1")
	view, _ := prog.Lookup("v_3")
	snap, _ := prog.Lookup("b_2_snap")
	//
	assert.Equal(t, View, prog.Slot(view).Kind)
	assert.ElementsMatch(t, []uint{a, snap}, prog.Owners(view))
	assert.Equal(t, []uint{view}, prog.Borrowers(a))
	//
	b, _ := prog.Lookup("b_2")
	m := NewMachine(prog, io.Discard)
	m.Step()
	assertBig(t, y, m.Value(a))
	assertBig(t, x, m.Value(b))
	assertBig(t, y, m.Value(snap))
	// Now select a for both
	require.NoError(t, m.Set("sel", big.NewInt(1)))
	m.Step()
	assertBig(t, y, m.Value(a))
	assertBig(t, y, m.Value(b))
}

// Native operations agree with masked machine arithmetic.
func Test_Sim_06(t *testing.T) {
	rng := rand.New(rand.NewSource(2))
	//
	for _, width := range []uint{1, 7, 8, 13, 32, 63, 64} {
		mask := bv.MaskWord(width)
		ops := []netlist.Primitive{
			&netlist.Arith{Op: netlist.OpAdd, Width: width}, &netlist.Arith{Op: netlist.OpSub, Width: width},
			&netlist.Arith{Op: netlist.OpMul, Width: width}, &netlist.Arith{Op: netlist.OpDiv, Width: width},
			&netlist.Arith{Op: netlist.OpMod, Width: width}, &netlist.Bitwise{Op: netlist.OpAnd, Width: width},
			&netlist.Bitwise{Op: netlist.OpOr, Width: width}, &netlist.Bitwise{Op: netlist.OpXor, Width: width},
			&netlist.Shift{Op: netlist.OpShl, Width: width, AmountWidth: width},
			&netlist.Shift{Op: netlist.OpShr, Width: width, AmountWidth: width},
		}
		want := []func(a, b uint64, width uint) uint64{
			func(a, b uint64, _ uint) uint64 { return (a + b) & mask },
			func(a, b uint64, _ uint) uint64 { return (a - b) & mask },
			func(a, b uint64, _ uint) uint64 { return (a * b) & mask },
			bv.DivWord,
			func(a, b uint64, _ uint) uint64 { return bv.ModWord(a, b) },
			func(a, b uint64, _ uint) uint64 { return a & b },
			func(a, b uint64, _ uint) uint64 { return a | b },
			func(a, b uint64, _ uint) uint64 { return a ^ b },
			func(a, b uint64, _ uint) uint64 { return (a << b) & mask },
			func(a, b uint64, _ uint) uint64 { return a >> b },
		}
		//
		for i, op := range ops {
			prog := lower(t, binary(op, width, width))
			m := NewMachine(prog, io.Discard)
			//
			for k := 0; k < 20; k++ {
				a, b := rng.Uint64()&mask, rng.Uint64()&mask
				//
				if k == 0 {
					b = 0
				} else if k%4 == 0 {
					b = b % uint64(width+2)
				}
				//
				got := run(t, m, new(big.Int).SetUint64(a), new(big.Int).SetUint64(b))
				assert.Equal(t, want[i](a, b, width), got.Uint64(), "%s(%d, %d)", op, a, b)
			}
		}
	}
}

// Wide operations agree with arbitrary precision arithmetic.
func Test_Sim_07(t *testing.T) {
	var (
		w = uint(130)
		x = new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 129), big.NewInt(12345))
		y = new(big.Int).Add(new(big.Int).Lsh(big.NewInt(1), 70), big.NewInt(99))
	)
	//
	check := func(op netlist.Primitive, wb uint, b *big.Int, expected *big.Int) {
		m := NewMachine(lower(t, binary(op, w, wb)), io.Discard)
		assertBig(t, expected, run(t, m, x, b), "%s", op)
	}
	//
	check(&netlist.Arith{Op: netlist.OpAdd, Width: w}, w, y, truncate(new(big.Int).Add(x, y), w))
	check(&netlist.Arith{Op: netlist.OpSub, Width: w}, w, y, truncate(new(big.Int).Sub(x, y), w))
	check(&netlist.Arith{Op: netlist.OpMul, Width: w}, w, y, truncate(new(big.Int).Mul(x, y), w))
	check(&netlist.Arith{Op: netlist.OpDiv, Width: w}, w, y, new(big.Int).Quo(x, y))
	check(&netlist.Shift{Op: netlist.OpShl, Width: w, AmountWidth: 8}, 8, big.NewInt(67), truncate(new(big.Int).Lsh(x, 67), w))
	check(&netlist.Shift{Op: netlist.OpShr, Width: w, AmountWidth: 8}, 8, big.NewInt(67), new(big.Int).Rsh(x, 67))
	check(&netlist.Shift{Op: netlist.OpSra, Width: w, AmountWidth: 8}, 8, big.NewInt(67),
		truncate(new(big.Int).Rsh(new(big.Int).Sub(x, new(big.Int).Lsh(big.NewInt(1), w)), 67), w))
	check(&netlist.Shift{Op: netlist.OpShl, Width: w, AmountWidth: w}, w, y, big.NewInt(0))
	check(&netlist.Compare{Op: netlist.OpLt, Width: w}, w, y, big.NewInt(0))
	check(&netlist.Compare{Op: netlist.OpLe, Width: w}, w, x, big.NewInt(1))
	check(&netlist.Compare{Op: netlist.OpNeq, Width: w}, w, y, big.NewInt(1))
	check(&netlist.Concat{WidthA: w, WidthB: 8}, 8, big.NewInt(0xab), new(big.Int).Or(new(big.Int).Lsh(x, 8), big.NewInt(0xab)))
	//
	unaryCheck := func(op netlist.Primitive, expected *big.Int) {
		m := NewMachine(lower(t, unary(op, w)), io.Discard)
		assertBig(t, expected, run(t, m, x), "%s", op)
	}
	//
	unaryCheck(&netlist.ZeroExt{In: w, Out: 200}, x)
	unaryCheck(&netlist.SignExt{In: w, Out: 200},
		new(big.Int).Add(x, new(big.Int).Lsh(new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 70), big.NewInt(1)), w)))
	unaryCheck(&netlist.Select{InWidth: w, Hi: 129, Lo: 3}, new(big.Int).Rsh(x, 3))
	unaryCheck(&netlist.Select{InWidth: w, Hi: 10, Lo: 3}, new(big.Int).And(new(big.Int).Rsh(x, 3), big.NewInt(0xff)))
	unaryCheck(&netlist.CountOnes{InWidth: w, OutWidth: 8}, big.NewInt(int64(popCount(x))))
	unaryCheck(&netlist.Not{Width: w}, truncate(new(big.Int).Not(x), w))
}

// Unsupported primitives and malformed netlists are rejected.
func Test_Sim_08(t *testing.T) {
	b := netlist.NewBuilder()
	a := b.Input("a", 1)
	c := b.Add(&netlist.Custom{Name: "ip", Inputs: []netlist.PortSpec{{Name: "a", Width: 1}},
		Outputs: []netlist.PortSpec{{Name: "z", Width: 1}}}, []netlist.Input{netlist.Ref(a)})
	b.Output("z", 1, c)
	checkUnsupported(t, b.Build())
	// Inlined inputs
	b = netlist.NewBuilder()
	a = b.Input("a", 8)
	n := b.Add(&netlist.Not{Width: 8}, []netlist.Input{netlist.Inline(&netlist.Not{Width: 8}, netlist.Ref(a))})
	b.Output("o", 8, n)
	checkUnsupported(t, b.Build())
	// Combinational cycle
	b = netlist.NewBuilder()
	x := b.Add(&netlist.Not{Width: 1}, nil)
	b.Connect(x, netlist.Ref(x))
	b.Output("o", 1, x)
	//
	_, err := Lower(b.Build())
	//
	var serr *netlist.StructuralError
	//
	require.ErrorAs(t, err, &serr)
	assert.Equal(t, netlist.CombinationalCycle, serr.Kind)
}

func Test_Sim_09(t *testing.T) {
	m := NewMachine(lower(t, counter()), io.Discard)
	//
	assert.Error(t, m.Set("nope", big.NewInt(0)))
	assert.Error(t, m.Set("q", big.NewInt(0)))
	//
	_, err := m.Get("nope")
	assert.Error(t, err)
	//
	m = NewMachine(lower(t, wideSwap(big.NewInt(0), big.NewInt(0))), io.Discard)
	assert.Error(t, m.Set("sel", big.NewInt(2)))
	assert.Error(t, m.Set("sel", big.NewInt(-1)))
	assert.NoError(t, m.Set("sel", big.NewInt(1)))
}

// Native storage classes.
func Test_Sim_10(t *testing.T) {
	assert.Equal(t, U8, ClassOf(1))
	assert.Equal(t, U8, ClassOf(8))
	assert.Equal(t, U16, ClassOf(9))
	assert.Equal(t, U32, ClassOf(32))
	assert.Equal(t, U64, ClassOf(33))
	assert.Equal(t, U64, ClassOf(64))
	assert.Equal(t, Wide, ClassOf(65))
	assert.Equal(t, uint(16), U16.Bits())
}

func Test_Sim_11(t *testing.T) {
	m := NewMachine(lower(t, counter()), io.Discard)
	//
	for i := int64(1); i <= 20; i++ {
		finished := m.Step()
		assert.Equal(t, i == 11, finished)
		assert.Equal(t, (i)%16, value(t, m, "count_2"))
	}
}

func lower(t *testing.T, nl *netlist.Netlist) *Program {
	prog, err := Lower(nl)
	require.NoError(t, err)
	//
	return prog
}

func value(t *testing.T, m *Machine, name string) int64 {
	slot, ok := m.prog.Lookup(name)
	require.True(t, ok, name)
	//
	return m.Value(slot).Int64()
}

func binary(prim netlist.Primitive, wa, wb uint) *netlist.Netlist {
	b := netlist.NewBuilder()
	x := b.Input("x", wa)
	y := b.Input("y", wb)
	b.Output("o", prim.OutputWidths()[0], b.Apply(prim, x, y))
	//
	return b.Build()
}

func unary(prim netlist.Primitive, width uint) *netlist.Netlist {
	b := netlist.NewBuilder()
	x := b.Input("x", width)
	b.Output("o", prim.OutputWidths()[0], b.Apply(prim, x))
	//
	return b.Build()
}

// Set the inputs x (and y) of a machine, execute one cycle and return the
// output o.
func run(t *testing.T, m *Machine, args ...*big.Int) *big.Int {
	for i, arg := range args {
		require.NoError(t, m.Set([]string{"x", "y"}[i], arg))
	}
	//
	m.Step()
	//
	o, err := m.Get("o")
	require.NoError(t, err)
	//
	return o
}

func checkUnsupported(t *testing.T, nl *netlist.Netlist) {
	_, err := Lower(nl)
	//
	var uerr *netlist.UnsupportedError
	//
	require.ErrorAs(t, err, &uerr)
	assert.Equal(t, "sim", uerr.Backend)
}

func assertBig(t *testing.T, expected, actual *big.Int, msgAndArgs ...any) {
	assert.Equal(t, expected.String(), actual.String(), msgAndArgs...)
}

func truncate(x *big.Int, width uint) *big.Int {
	ones := new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), width), big.NewInt(1))
	return new(big.Int).And(x, ones)
}

func popCount(x *big.Int) int {
	count := 0
	//
	for i := 0; i < x.BitLen(); i++ {
		count += int(x.Bit(i))
	}
	//
	return count
}

func parse(t *testing.T, src []byte) {
	_, err := parser.ParseFile(token.NewFileSet(), "state.go", src, parser.AllErrors)
	require.NoError(t, err, string(src))
}

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
	"testing"

	"github.com/consensys/go-netlist/pkg/bmc"
	"github.com/consensys/go-netlist/pkg/netlist"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// A four bit counter, whose property is that it is below ten.
func counter() (*netlist.Netlist, netlist.Id) {
	b := netlist.NewBuilder()
	r := b.Register(0, 4)
	one := b.Const(1, 4)
	b.Connect(r, netlist.Ref(b.Apply(&netlist.Arith{Op: netlist.OpAdd, Width: 4}, r, one)))
	ten := b.Const(10, 4)
	ok := b.Output("ok", 1, b.Apply(&netlist.Compare{Op: netlist.OpLt, Width: 4}, r, ten))
	//
	return b.Build(), ok
}

// A register which stays at zero.  Otherwise, it counts when enabled, which
// from the unreachable states one and two eventually leads to three.
func stutter() (*netlist.Netlist, netlist.Id) {
	b := netlist.NewBuilder()
	r := b.Register(0, 2)
	e := b.Input("e", 1)
	zero := b.Const(0, 2)
	one := b.Const(1, 2)
	three := b.Const(3, 2)
	isZero := b.Apply(&netlist.Compare{Op: netlist.OpEq, Width: 2}, r, zero)
	inc := b.Apply(&netlist.Arith{Op: netlist.OpAdd, Width: 2}, r, one)
	count := b.Apply(&netlist.Mux{Width: 2}, e, r, inc)
	b.Connect(r, netlist.Ref(b.Apply(&netlist.Mux{Width: 2}, isZero, count, zero)))
	ok := b.Output("ok", 1, b.Apply(&netlist.Compare{Op: netlist.OpNeq, Width: 2}, r, three))
	//
	return b.Build(), ok
}

func Test_Check_01(t *testing.T) {
	b := netlist.NewBuilder()
	ok := b.Output("ok", 1, b.Const(1, 1))
	//
	v := check(t, b.Build(), ok, bmc.DefaultOptions())
	assert.True(t, v.Proved())
	assert.Equal(t, "unsat unsat", v.String())
	assert.Empty(t, v.Trace)
}

func Test_Check_02(t *testing.T) {
	b := netlist.NewBuilder()
	ok := b.Output("ok", 1, b.Input("x", 1))
	//
	v := check(t, b.Build(), ok, bmc.DefaultOptions())
	assert.Equal(t, Sat, v.Base)
	assert.False(t, v.Proved())
	require.Len(t, v.Trace, 1)
	assert.Equal(t, int64(0), v.Trace[0]["x"].Int64())
}

func Test_Check_03(t *testing.T) {
	nl, ok := counter()
	//
	assert.Equal(t, Unsat, check(t, nl, ok, bmc.Options{Depth: 10}).Base)
	assert.Equal(t, Sat, check(t, nl, ok, bmc.Options{Depth: 11}).Base)
	// From nine, the counter reaches ten.
	assert.Equal(t, Sat, check(t, nl, ok, bmc.Options{Depth: 1}).Step)
}

func Test_Check_04(t *testing.T) {
	nl, ok := stutter()
	// Stuttering in state two defeats plain induction.
	assert.Equal(t, "unsat sat", check(t, nl, ok, bmc.Options{Depth: 3}).String())
	// The path through one and two is only two steps long.
	assert.Equal(t, "unsat sat", check(t, nl, ok, bmc.Options{Depth: 2, DistinctStates: true}).String())
	assert.True(t, check(t, nl, ok, bmc.Options{Depth: 3, DistinctStates: true}).Proved())
}

// Registers with enables hold their value unless enabled.
func Test_Check_05(t *testing.T) {
	b := netlist.NewBuilder()
	en := b.Input("en", 1)
	r := b.Add(&netlist.RegisterEn{Init: big.NewInt(5), Width: 8}, nil)
	b.Connect(r, netlist.Ref(en), netlist.Ref(b.Const(7, 8)))
	five := b.Const(5, 8)
	ok := b.Output("ok", 1, b.Apply(&netlist.Compare{Op: netlist.OpLe, Width: 8}, five, r))
	//
	assert.True(t, check(t, b.Build(), ok, bmc.Options{Depth: 2}).Proved())
}

// Division, modulo and custom primitives cannot be bit-blasted.
func Test_Check_06(t *testing.T) {
	for _, op := range []netlist.ArithOp{netlist.OpDiv, netlist.OpMod} {
		b := netlist.NewBuilder()
		x := b.Input("x", 4)
		q := b.Apply(&netlist.Arith{Op: op, Width: 4}, x, x)
		ok := b.Output("ok", 1, b.Apply(&netlist.Compare{Op: netlist.OpEq, Width: 4}, q, x))
		checkUnsupported(t, b.Build(), ok)
	}
	//
	b := netlist.NewBuilder()
	a := b.Input("a", 1)
	c := b.Add(&netlist.Custom{Name: "ip", Inputs: []netlist.PortSpec{{Name: "a", Width: 1}},
		Outputs: []netlist.PortSpec{{Name: "z", Width: 1}}}, []netlist.Input{netlist.Ref(a)})
	ok := b.Output("ok", 1, c)
	checkUnsupported(t, b.Build(), ok)
	// Zero depth
	_, err := Check(b.Build(), ok, bmc.Options{})
	assert.Error(t, err)
}

// Inlined inputs are expanded in place.
func Test_Check_07(t *testing.T) {
	b := netlist.NewBuilder()
	x := b.Input("x", 4)
	sum := netlist.Inline(&netlist.Arith{Op: netlist.OpAdd, Width: 4}, netlist.Ref(x), netlist.Ref(x))
	even := b.Add(&netlist.Select{InWidth: 4, Hi: 0, Lo: 0},
		[]netlist.Input{sum})
	zero := b.Const(0, 1)
	ok := b.Output("ok", 1, b.Apply(&netlist.Compare{Op: netlist.OpEq, Width: 1}, even, zero))
	//
	assert.True(t, check(t, b.Build(), ok, bmc.DefaultOptions()).Proved())
}

func check(t *testing.T, nl *netlist.Netlist, property netlist.Id, opts bmc.Options) Verdict {
	v, err := Check(nl, property, opts)
	require.NoError(t, err)
	//
	return v
}

func checkUnsupported(t *testing.T, nl *netlist.Netlist, property netlist.Id) {
	_, err := Check(nl, property, bmc.DefaultOptions())
	//
	var uerr *netlist.UnsupportedError
	//
	require.ErrorAs(t, err, &uerr)
	assert.Equal(t, "bitblast", uerr.Backend)
}

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
	"errors"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// An 8-bit counter: q = r, r' = r + 1
func counter() *Netlist {
	b := NewBuilder()
	one := b.Const(1, 8)
	r := b.Register(0, 8)
	add := b.Apply(&Arith{OpAdd, 8}, r, one)
	b.Connect(r, Ref(add))
	b.Output("q", 8, r)
	//
	return b.Build()
}

func Test_Order_01(t *testing.T) {
	order, err := Order(counter())
	require.NoError(t, err)
	assert.Equal(t, []Id{1, 0, 2, 3}, order)
}

func Test_Order_02(t *testing.T) {
	// Combinational loop through an and/not pair.
	b := NewBuilder()
	a := b.Input("a", 1)
	x := b.Add(&Bitwise{OpAnd, 1}, nil)
	y := b.Apply(&Not{1}, x)
	b.Connect(x, Ref(a), Ref(y))
	b.Output("o", 1, y)
	//
	_, err := Order(b.Build())
	checkStructuralError(t, err, CombinationalCycle)
}

func Test_Order_03(t *testing.T) {
	// Self-loop on a combinational net
	b := NewBuilder()
	x := b.Add(&Not{1}, nil)
	b.Connect(x, Ref(x))
	b.Output("o", 1, x)
	//
	_, err := Order(b.Build())
	checkStructuralError(t, err, CombinationalCycle)
}

func Test_Order_04(t *testing.T) {
	// Dead logic is omitted
	b := NewBuilder()
	a := b.Input("a", 4)
	dead := b.Apply(&Not{4}, a)
	out := b.Output("o", 4, a)
	//
	order, err := Order(b.Build())
	require.NoError(t, err)
	assert.Equal(t, []Id{a, out}, order)
	assert.NotContains(t, order, dead)
}

func Test_Order_05(t *testing.T) {
	// Feedback through a register is not a cycle.
	b := NewBuilder()
	r := b.Register(0, 1)
	n := b.Apply(&Not{1}, r)
	b.Connect(r, Ref(n))
	//
	order, err := Order(b.Build())
	require.NoError(t, err)
	assert.Equal(t, []Id{r, n}, order)
}

func Test_Order_06(t *testing.T) {
	_, err := OrderFrom(counter(), []Id{99})
	checkStructuralError(t, err, MissingInstance)
}

func Test_Order_07(t *testing.T) {
	b := NewBuilder()
	b.Add(&Output{"o", 1}, []Input{Ref(42)})
	//
	_, err := Order(b.Build())
	checkStructuralError(t, err, DanglingWire)
}

func Test_Order_08(t *testing.T) {
	// Effect sinks are roots
	b := NewBuilder()
	en := b.Input("en", 1)
	a := b.Input("a", 8)
	d := b.Add(&Display{[]FormatItem{{Literal: "a="}, {Width: 8, Radix: Hex}}}, []Input{Ref(en), Ref(a)})
	f := b.Apply(&Finish{}, en)
	//
	order, err := Order(b.Build())
	require.NoError(t, err)
	assert.Equal(t, []Id{en, a, d, f}, order)
}

func Test_Order_09(t *testing.T) {
	nl := randomNetlist(50)
	//
	o1, err := Order(nl)
	require.NoError(t, err)
	o2, err := Order(nl)
	require.NoError(t, err)
	assert.Equal(t, o1, o2)
	checkTopological(t, nl, o1)
}

func Test_Order_10(t *testing.T) {
	nl := counter()
	o1, err := OrderFrom(nl, []Id{3, 1})
	require.NoError(t, err)
	o2, err := OrderFrom(nl, []Id{1, 3})
	require.NoError(t, err)
	assert.Equal(t, o1, o2)
}

func Test_Order_11(t *testing.T) {
	// Deep chains do not exhaust the stack.
	b := NewBuilder()
	last := b.Input("a", 1)
	//
	for i := 0; i < 100000; i++ {
		last = b.Apply(&Not{1}, last)
	}
	//
	b.Output("o", 1, last)
	nl := b.Build()
	order, err := Order(nl)
	require.NoError(t, err)
	assert.Len(t, order, len(nl.Ids()))
}

func Test_Order_12(t *testing.T) {
	// Loops in dead logic are still rejected.
	b := NewBuilder()
	r := b.Register(0, 1)
	n := b.Apply(&Not{1}, r)
	b.Connect(r, Ref(n))
	x := b.Add(&Not{1}, nil)
	y := b.Apply(&Not{1}, x)
	b.Connect(x, Ref(y))
	//
	_, err := Order(b.Build())
	checkStructuralError(t, err, CombinationalCycle)
}

func Test_Order_13(t *testing.T) {
	// Acyclic dead logic hanging off live nets is excluded from the order.
	b := NewBuilder()
	r := b.Register(0, 1)
	n := b.Apply(&Not{1}, r)
	b.Connect(r, Ref(n))
	x := b.Apply(&Not{1}, n)
	y := b.Apply(&Bitwise{OpAnd, 1}, x, r)
	//
	order, err := Order(b.Build())
	require.NoError(t, err)
	assert.Equal(t, []Id{r, n}, order)
	assert.NotContains(t, order, x)
	assert.NotContains(t, order, y)
}

// ============================================================================
// Helpers
// ============================================================================

// Construct a layered netlist of a given size with deterministic wiring.
func randomNetlist(n uint) *Netlist {
	b := NewBuilder()
	a := b.Input("a", 8)
	r := b.Register(3, 8)
	last := []Id{a, r}
	//
	for i := uint(0); i < n; i++ {
		x := last[(i*7)%uint(len(last))]
		y := last[(i*13+1)%uint(len(last))]
		//
		switch i % 3 {
		case 0:
			last = append(last, b.Apply(&Arith{OpAdd, 8}, x, y))
		case 1:
			last = append(last, b.Apply(&Bitwise{OpXor, 8}, x, y))
		default:
			last = append(last, b.Apply(&Arith{OpMul, 8}, x, y))
		}
	}
	//
	b.Connect(r, Ref(last[len(last)-1]))
	b.Output("o", 8, last[len(last)/2])
	//
	return b.Build()
}

func checkTopological(t *testing.T, nl *Netlist, order []Id) {
	t.Helper()
	//
	for i, id := range order {
		n, _ := nl.Get(id)
		//
		if IsLeaf(n.Prim) {
			continue
		}
		//
		deps, err := nl.FanIn(id)
		require.NoError(t, err)
		//
		for _, d := range deps {
			j := slices.Index(order, d)
			assert.True(t, j >= 0 && j < i, "instance %d ordered before its dependency %d", id, d)
		}
	}
}

func checkStructuralError(t *testing.T, err error, kind StructuralErrorKind) {
	t.Helper()
	//
	var serr *StructuralError
	//
	require.Error(t, err)
	require.True(t, errors.As(err, &serr), "expected structural error, got %v", err)
	assert.Equal(t, kind, serr.Kind)
}

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
package bmc

import (
	"bytes"
	"os/exec"
	"strings"
	"testing"

	"github.com/consensys/go-netlist/pkg/netlist"
	"github.com/consensys/go-netlist/pkg/util/source/sexp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// A property which always holds.
func valid() (*netlist.Netlist, netlist.Id) {
	b := netlist.NewBuilder()
	ok := b.Output("ok", 1, b.Const(1, 1))
	//
	return b.Build(), ok
}

// A property which holds exactly when an input is set.
func follows() (*netlist.Netlist, netlist.Id) {
	b := netlist.NewBuilder()
	ok := b.Output("ok", 1, b.Input("x", 1))
	//
	return b.Build(), ok
}

// A wrapping four bit counter, whose property is that it is below ten.
func counter() (*netlist.Netlist, netlist.Id) {
	b := netlist.NewBuilder()
	r := b.Register(0, 4)
	one := b.Const(1, 4)
	b.Connect(r, netlist.Ref(b.Apply(&netlist.Arith{Op: netlist.OpAdd, Width: 4}, r, one)))
	ten := b.Const(10, 4)
	lt := b.Apply(&netlist.Compare{Op: netlist.OpLt, Width: 4}, r, ten)
	ok := b.Output("ok", 1, lt)
	//
	return b.Build(), ok
}

func Test_Bmc_01(t *testing.T) {
	nl, ok := valid()
	cmds, err := Transition(nl, ok)
	require.NoError(t, err)
	//
	assert.Equal(t, []string{
		"(declare-datatypes ((Inputs 0)) ((mkInputs)))",
		"(declare-datatypes ((State 0)) ((mkState)))",
		"(define-fun t ((inputs Inputs) (state State)) (Tuple2 Bool State) (mkTuple2 (= (_ bv1 1) #b1) mkState))",
	}, strs(cmds))
	assert.Equal(t, "mkState", InitialState(nl).String(true))
}

func Test_Bmc_02(t *testing.T) {
	nl, ok := counter()
	cmds, err := Transition(nl, ok)
	require.NoError(t, err)
	//
	got := strs(cmds)
	assert.Equal(t, "(declare-datatypes ((State 0)) ((mkState (st_v_0 (_ BitVec 4)))))", got[1])
	assert.Contains(t, got[2], "(let ((v_2 (bvadd (st_v_0 state) (_ bv1 4))))")
	assert.Contains(t, got[2], "(let ((v_4 (ite (bvult (st_v_0 state) (_ bv10 4)) #b1 #b0)))")
	assert.Contains(t, got[2], "(mkTuple2 (= v_4 #b1) (mkState v_2))")
	assert.Equal(t, "(mkState (_ bv0 4))", InitialState(nl).String(true))
}

func Test_Bmc_03(t *testing.T) {
	nl, ok := follows()
	cmds, err := Transition(nl, ok)
	require.NoError(t, err)
	//
	got := strs(cmds)
	assert.Equal(t, "(declare-datatypes ((Inputs 0)) ((mkInputs (in_x_0 (_ BitVec 1)))))", got[0])
	assert.Contains(t, got[2], "(mkTuple2 (= (in_x_0 inputs) #b1) mkState)")
}

func Test_Bmc_04(t *testing.T) {
	nl, _ := valid()
	//
	assert.Equal(t, []string{
		"(push 1)",
		"(declare-const in0 Inputs)",
		"(declare-const in1 Inputs)",
		"(assert (not (andList (fst3 (chain (lcons in0 (lcons in1 (as lnil (Lst Inputs)))) mkState)))))",
		"(check-sat)",
		"(pop 1)",
	}, strs(BaseCase(nl, 2)))
	//
	assert.Equal(t, []string{
		"(push 1)",
		"(declare-const in0 Inputs)",
		"(declare-const in1 Inputs)",
		"(declare-const s0 State)",
		"(assert (not (impliesList (fst3 (chain (lcons in0 (lcons in1 (as lnil (Lst Inputs)))) s0)))))",
		"(check-sat)",
		"(pop 1)",
	}, strs(InductionStep(1, false)))
	//
	step := strs(InductionStep(1, true))
	assert.Equal(t, "(assert (let ((run (chain (lcons in0 (lcons in1 (as lnil (Lst Inputs)))) s0))) "+
		"(and (not (impliesList (fst3 run))) (allDistinct (snd3 run)))))", step[4])
}

func Test_Bmc_05(t *testing.T) {
	nl, ok := counter()
	script, err := Emit(nl, ok, DefaultOptions())
	require.NoError(t, err)
	//
	text := script.String()
	assert.True(t, strings.HasPrefix(text, "(set-logic ALL)\n"))
	assert.Equal(t, 2, strings.Count(text, "(check-sat)"))
	assert.Equal(t, 2, strings.Count(text, "(push 1)"))
	assert.Equal(t, 2, strings.Count(text, "(pop 1)"))
	// Emission is deterministic
	again, err := Emit(nl, ok, DefaultOptions())
	require.NoError(t, err)
	assert.Equal(t, text, again.String())
	//
	var out bytes.Buffer
	//
	n, err := script.WriteTo(&out)
	require.NoError(t, err)
	assert.Equal(t, int64(len(text)), n)
	assert.Equal(t, text, out.String())
}

func Test_Bmc_06(t *testing.T) {
	nl, ok := valid()
	// Zero depth
	_, err := Emit(nl, ok, Options{Depth: 0, Width: 80})
	assert.Error(t, err)
	// Not an output
	_, err = Emit(nl, 0, DefaultOptions())
	assert.Error(t, err)
	// Too wide
	b := netlist.NewBuilder()
	wide := b.Output("ok", 2, b.Input("x", 2))
	_, err = Emit(b.Build(), wide, DefaultOptions())
	assert.Error(t, err)
	// Unknown
	_, err = Emit(nl, 10, DefaultOptions())
	assert.Error(t, err)
}

// Division, modulo and custom primitives cannot be translated.
func Test_Bmc_07(t *testing.T) {
	for _, op := range []netlist.ArithOp{netlist.OpDiv, netlist.OpMod} {
		b := netlist.NewBuilder()
		x := b.Input("x", 4)
		y := b.Input("y", 4)
		q := b.Apply(&netlist.Arith{Op: op, Width: 4}, x, y)
		eq := b.Apply(&netlist.Compare{Op: netlist.OpEq, Width: 4}, q, x)
		ok := b.Output("ok", 1, eq)
		checkUnsupported(t, b.Build(), ok)
	}
	//
	b := netlist.NewBuilder()
	a := b.Input("a", 1)
	c := b.Add(&netlist.Custom{Name: "ip", Inputs: []netlist.PortSpec{{Name: "a", Width: 1}},
		Outputs: []netlist.PortSpec{{Name: "z", Width: 1}}}, []netlist.Input{netlist.Ref(a)})
	ok := b.Output("ok", 1, c)
	checkUnsupported(t, b.Build(), ok)
}

// Effects are ignored.
func Test_Bmc_08(t *testing.T) {
	b := netlist.NewBuilder()
	x := b.Input("x", 1)
	b.Apply(&netlist.Finish{}, x)
	ok := b.Output("ok", 1, b.Const(1, 1))
	//
	script, err := Emit(b.Build(), ok, DefaultOptions())
	require.NoError(t, err)
	assert.NotContains(t, script.String(), "finish")
}

// Check verdicts against an external solver, when one is available.
func Test_Bmc_09(t *testing.T) {
	if _, err := exec.LookPath("z3"); err != nil {
		t.Skip("z3 not found")
	}
	//
	nl, ok := valid()
	assert.Equal(t, []string{"unsat", "unsat"}, solve(t, nl, ok, DefaultOptions()))
	//
	nl, ok = follows()
	assert.Equal(t, "sat", solve(t, nl, ok, DefaultOptions())[0])
	// The counter reaches ten after ten cycles, but not before.
	nl, ok = counter()
	assert.Equal(t, "unsat", solve(t, nl, ok, Options{Depth: 10, Width: 100})[0])
	assert.Equal(t, "sat", solve(t, nl, ok, Options{Depth: 11, Width: 100})[0])
}

func checkUnsupported(t *testing.T, nl *netlist.Netlist, property netlist.Id) {
	_, err := Emit(nl, property, DefaultOptions())
	//
	var uerr *netlist.UnsupportedError
	//
	require.ErrorAs(t, err, &uerr)
	assert.Equal(t, "bmc", uerr.Backend)
}

func solve(t *testing.T, nl *netlist.Netlist, property netlist.Id, opts Options) []string {
	script, err := Emit(nl, property, opts)
	require.NoError(t, err)
	//
	cmd := exec.Command("z3", "-in")
	cmd.Stdin = strings.NewReader(script.String())
	out, err := cmd.Output()
	require.NoError(t, err, string(out))
	//
	return strings.Fields(string(out))
}

func strs(cmds []sexp.SExp) []string {
	result := make([]string, len(cmds))
	//
	for i, c := range cmds {
		result[i] = c.String(true)
	}
	//
	return result
}

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
	"math/big"
	"testing"

	"github.com/consensys/go-netlist/pkg/util/source"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const exampleNetlist = `(net 0 (input a 8) (inputs) (hints a))
(net 1 (const 1 8) (inputs))
(net 2 (add 8) (inputs 0 1))
(net 3 (reg 0 8) (inputs 2) (hints count))
(net 4 (output q 8) (inputs 3) (hints q))
(net 5 (display "count=" (h 8)) (inputs 6 3))
(net 6 (eq 8) (inputs 3 1))
(net 7 (finish) (inputs 6))
(net 8 (custom ram (in (addr 4)) (out (data 8) (ready 1)) (params (DEPTH "16")) clocked) (inputs 9))
(net 9 (select 8 3 0) (inputs 0))
(net 10 (id 8) (inputs 8.data))
(net 11 (output r 1) (inputs 8.ready))
(net 12 (output s 8) (inputs (inline (add 8) 0 (inline (const 2 8)))))
(net 13 (regen 5 4) (inputs 6 9))
(net 14 (sra 8 3) (inputs 3 9))
`

func Test_Reader_01(t *testing.T) {
	nl, err := ReadString(exampleNetlist)
	require.NoError(t, err)
	assert.Len(t, nl.Ids(), 15)
	assert.Equal(t, exampleNetlist, LispString(nl))
}

func Test_Reader_02(t *testing.T) {
	nl, err := ReadString(exampleNetlist)
	require.NoError(t, err)
	//
	n, _ := nl.Get(8)
	custom := n.Prim.(*Custom)
	assert.True(t, custom.Clocked)
	assert.Equal(t, []Param{{"DEPTH", "16"}}, custom.Params)
	assert.Equal(t, "ready", n.Outputs[1].Name)
	//
	n, _ = nl.Get(5)
	display := n.Prim.(*Display)
	assert.Equal(t, []FormatItem{{Literal: "count="}, {Width: 8, Radix: Hex}}, display.Format)
	//
	n, _ = nl.Get(10)
	w, _ := n.InputWire(0)
	assert.Equal(t, NewNamedWire(8, "data"), w)
	//
	n, _ = nl.Get(13)
	assert.Equal(t, int64(5), n.Prim.(*RegisterEn).Init.Int64())
}

func Test_Reader_03(t *testing.T) {
	nl, err := ReadString("(net 0 (const 0xff 8) (inputs))")
	require.NoError(t, err)
	assert.Equal(t, "(net 0 (const 255 8) (inputs))\n", LispString(nl))
}

func Test_Reader_04(t *testing.T) {
	// Numeric port selectors
	nl, err := ReadString(`(net 0 (custom m (in) (out (x 1) (y 2)) (params)) (inputs))
(net 1 (output o 2) (inputs 0.1))`)
	require.NoError(t, err)
	n, _ := nl.Get(1)
	w, ok := n.InputWire(0)
	require.True(t, ok)
	assert.Equal(t, NewWire(0, 1), w)
}

func Test_Reader_Invalid_01(t *testing.T) {
	checkReadSyntaxError(t, "(net 0 (frob 8) (inputs))", "unknown primitive frob")
}

func Test_Reader_Invalid_02(t *testing.T) {
	checkReadSyntaxError(t, "(net 0 (const 256 8) (inputs))", "value does not fit in 8 bits")
}

func Test_Reader_Invalid_03(t *testing.T) {
	checkReadSyntaxError(t, "(net 0 (input a 1) (inputs))\n(net 0 (input b 1) (inputs))", "duplicate instance 0")
}

func Test_Reader_Invalid_04(t *testing.T) {
	checkReadSyntaxError(t, "(net 0 (add 0) (inputs))", "width must be positive")
}

func Test_Reader_Invalid_05(t *testing.T) {
	checkReadSyntaxError(t, "(net 0 (select 8 8 0) (inputs 0))", "invalid bit range [8:0] of 8 bits")
}

func Test_Reader_Invalid_06(t *testing.T) {
	checkReadSyntaxError(t, "(net x (not 1) (inputs))", "expected unsigned integer")
}

func Test_Reader_Invalid_07(t *testing.T) {
	checkReadSyntaxError(t, "(net 0 (not 1) (inputs 0.))", "invalid wire")
}

func Test_Reader_Invalid_08(t *testing.T) {
	checkReadSyntaxError(t, "(net 0 (not 1)", "unexpected end-of-file")
}

func Test_Reader_Invalid_09(t *testing.T) {
	_, err := ReadString("(net 0 (output o 1) (inputs 5))")
	checkStructuralError(t, err, DanglingWire)
	//
	_, err = ReadString("(net 0 (add 8) (inputs))")
	checkStructuralError(t, err, MalformedNet)
}

func checkReadSyntaxError(t *testing.T, input string, msg string) {
	t.Helper()
	//
	var serr *source.SyntaxError
	//
	_, err := ReadString(input)
	require.Error(t, err)
	require.True(t, errors.As(err, &serr), "expected syntax error, got %v", err)
	assert.Equal(t, msg, serr.Message())
}

func bigOne() *big.Int {
	return big.NewInt(1)
}

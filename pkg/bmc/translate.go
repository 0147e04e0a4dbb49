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
	"math/big"

	"github.com/consensys/go-netlist/pkg/netlist"
	"github.com/consensys/go-netlist/pkg/util/source/sexp"
)

const backend = "bmc"

var (
	arithOps   = map[netlist.ArithOp]string{netlist.OpAdd: "bvadd", netlist.OpSub: "bvsub", netlist.OpMul: "bvmul"}
	bitwiseOps = map[netlist.BitwiseOp]string{netlist.OpAnd: "bvand", netlist.OpOr: "bvor", netlist.OpXor: "bvxor"}
	shiftOps   = map[netlist.ShiftOp]string{netlist.OpShl: "bvshl", netlist.OpShr: "bvlshr", netlist.OpSra: "bvashr"}
	compareOps = map[netlist.CompareOp]string{netlist.OpEq: "=", netlist.OpNeq: "=", netlist.OpLt: "bvult", netlist.OpLe: "bvule"}
)

// InputField returns the name of the Inputs field holding a given net.
func InputField(n *netlist.Net) string {
	return "in_" + netlist.Identifier(n, 0)
}

// StateField returns the name of the State field holding a given register.
func StateField(n *netlist.Net) string {
	return "st_" + netlist.Identifier(n, 0)
}

// translator renders the nets of a netlist as terms of the transition
// function, whose parameters are named inputs and state.
type translator struct {
	nl *netlist.Netlist
}

// Transition returns the declarations of the Inputs and State records, and
// the definition of the transition function t for a given property.  The
// function let-binds every relevant combinational net in evaluation order, and
// returns whether the property holds along with the next state.
func Transition(nl *netlist.Netlist, property netlist.Id) ([]sexp.SExp, error) {
	order, err := Relevant(nl, property)
	if err != nil {
		return nil, err
	}
	//
	var (
		t        = translator{nl}
		inputs   []sexp.SExp
		fields   []sexp.SExp
		next     = []sexp.SExp{sym("mkState")}
		names    []string
		bindings []sexp.SExp
	)
	//
	for _, n := range Inputs(nl) {
		inputs = append(inputs, param(InputField(n), bitVec(n.Width())))
	}
	//
	for _, n := range Registers(nl) {
		fields = append(fields, param(StateField(n), bitVec(n.Width())))
		//
		value, err := t.next(n)
		if err != nil {
			return nil, err
		}
		//
		next = append(next, value)
	}
	//
	for _, id := range order {
		n, _ := nl.Get(id)
		//
		switch n.Prim.(type) {
		case *netlist.Const, *netlist.DontCare, *netlist.In, *netlist.Register, *netlist.RegisterEn,
			*netlist.Output:
			continue
		}
		//
		value, err := t.translateNet(n)
		if err != nil {
			return nil, err
		}
		//
		names = append(names, netlist.Identifier(n, 0))
		bindings = append(bindings, value)
	}
	//
	prop, _ := nl.Get(property)
	//
	ok, err := t.input(prop, 0)
	if err != nil {
		return nil, err
	}
	//
	body := sexp.SExp(apply("mkTuple2", isSet(ok), construct(next)))
	//
	for i := len(bindings) - 1; i >= 0; i-- {
		body = let(names[i], bindings[i], body)
	}
	//
	params := []sexp.SExp{param("inputs", sym(InputsSort)), param("state", sym(StateSort))}
	result := apply(Tuple2Sort, sym("Bool"), sym(StateSort))
	//
	return []sexp.SExp{
		record(InputsSort, "mkInputs", inputs),
		record(StateSort, "mkState", fields),
		defineFun(false, "t", params, result, body),
	}, nil
}

// Apply a record constructor, noting that a constructor without fields is a
// constant rather than a function.
func construct(ctor []sexp.SExp) sexp.SExp {
	if len(ctor) == 1 {
		return ctor[0]
	}
	//
	return sexp.NewList(ctor)
}

// InitialState returns the value of the State record at reset.
func InitialState(nl *netlist.Netlist) sexp.SExp {
	ctor := []sexp.SExp{sym("mkState")}
	//
	for _, n := range Registers(nl) {
		switch p := n.Prim.(type) {
		case *netlist.Register:
			ctor = append(ctor, literal(p.Init, p.Width))
		case *netlist.RegisterEn:
			ctor = append(ctor, literal(p.Init, p.Width))
		}
	}
	//
	return construct(ctor)
}

// Determine the next value of a register.
func (t *translator) next(n *netlist.Net) (sexp.SExp, error) {
	if _, ok := n.Prim.(*netlist.Register); ok {
		return t.input(n, 0)
	}
	//
	enable, err := t.input(n, 0)
	if err != nil {
		return nil, err
	}
	//
	data, err := t.input(n, 1)
	if err != nil {
		return nil, err
	}
	//
	return ite(isSet(enable), data, apply(StateField(n), sym("state"))), nil
}

func (t *translator) translateNet(n *netlist.Net) (sexp.SExp, error) {
	args := make([]sexp.SExp, len(n.Inputs))
	//
	for i := range n.Inputs {
		arg, err := t.input(n, uint(i))
		if err != nil {
			return nil, err
		}
		//
		args[i] = arg
	}
	//
	return t.translate(n.Id, n.Prim, args)
}

// Translate the ith input of a given net.
func (t *translator) input(n *netlist.Net, i uint) (sexp.SExp, error) {
	return t.translateInput(n.Id, n.Inputs[i])
}

func (t *translator) translateInput(id netlist.Id, input netlist.Input) (sexp.SExp, error) {
	switch input := input.(type) {
	case *netlist.WireInput:
		return t.reference(input.Wire)
	case *netlist.InlineInput:
		args := make([]sexp.SExp, len(input.Args))
		//
		for i, arg := range input.Args {
			term, err := t.translateInput(id, arg)
			if err != nil {
				return nil, err
			}
			//
			args[i] = term
		}
		//
		return t.translate(id, input.Prim, args)
	default:
		panic("unreachable")
	}
}

// Translate a reference to a given wire.  Constants are inlined, whilst
// inputs and registers are record accesses.
func (t *translator) reference(w netlist.Wire) (sexp.SExp, error) {
	if _, _, err := t.nl.Resolve(w); err != nil {
		return nil, err
	}
	//
	n, _ := t.nl.Get(w.Instance)
	//
	switch p := n.Prim.(type) {
	case *netlist.Const:
		return literal(p.Value, p.Width), nil
	case *netlist.In, *netlist.DontCare:
		return apply(InputField(n), sym("inputs")), nil
	case *netlist.Register, *netlist.RegisterEn:
		return apply(StateField(n), sym("state")), nil
	case *netlist.Custom:
		return nil, netlist.NewUnsupportedError(backend, n.Id, n.Prim)
	default:
		return sym(netlist.Identifier(n, 0)), nil
	}
}

// Translate a primitive applied to some arguments.
func (t *translator) translate(id netlist.Id, prim netlist.Primitive, args []sexp.SExp) (sexp.SExp, error) {
	switch p := prim.(type) {
	case *netlist.Const:
		return literal(p.Value, p.Width), nil
	case *netlist.Arith:
		if op, ok := arithOps[p.Op]; ok {
			return apply(op, args[0], args[1]), nil
		}
	case *netlist.Bitwise:
		return apply(bitwiseOps[p.Op], args[0], args[1]), nil
	case *netlist.Not:
		return apply("bvnot", args[0]), nil
	case *netlist.Shift:
		return apply(shiftOps[p.Op], args[0], amount(args[1], p.AmountWidth, p.Width)), nil
	case *netlist.Compare:
		cond := apply(compareOps[p.Op], args[0], args[1])
		//
		if p.Op == netlist.OpNeq {
			return ite(cond, bit(false), bit(true)), nil
		}
		//
		return ite(cond, bit(true), bit(false)), nil
	case *netlist.ZeroExt:
		if p.In == p.Out {
			return args[0], nil
		}
		//
		return apply("concat", zero(p.Out-p.In), args[0]), nil
	case *netlist.SignExt:
		if p.In == p.Out {
			return args[0], nil
		}
		//
		return let("sign", extract(p.In-1, p.In-1, args[0]), replicate(sym("sign"), p.Out-p.In, args[0])), nil
	case *netlist.Select:
		return extract(p.Hi, p.Lo, args[0]), nil
	case *netlist.Concat:
		return apply("concat", args[0], args[1]), nil
	case *netlist.Replicate:
		return replicate(args[0], p.Width-1, args[0]), nil
	case *netlist.Mux:
		return ite(isSet(args[0]), args[2], args[1]), nil
	case *netlist.Identity:
		return args[0], nil
	case *netlist.CountOnes:
		return countOnes(args[0], p.InWidth, p.OutWidth), nil
	}
	//
	return nil, netlist.NewUnsupportedError(backend, id, prim)
}

// Prepend n copies of a single bit onto a given value.
func replicate(b sexp.SExp, n uint, x sexp.SExp) sexp.SExp {
	for i := uint(0); i < n; i++ {
		x = apply("concat", b, x)
	}
	//
	return x
}

// Adapt a shift amount to the width of the value being shifted, since both
// operands of a bit-vector shift have the same width.  Amounts too large to
// fit saturate.
func amount(x sexp.SExp, from, to uint) sexp.SExp {
	switch {
	case from == to:
		return x
	case from < to:
		return apply("concat", zero(to-from), x)
	}
	//
	ones := new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), to), big.NewInt(1))
	//
	return ite(apply("bvult", x, literal(big.NewInt(int64(to)), from)), extract(to-1, 0, x), literal(ones, to))
}

// Sum the zero-extended bits of a value.
func countOnes(x sexp.SExp, in, out uint) sexp.SExp {
	var sum sexp.SExp
	//
	for i := uint(0); i < in; i++ {
		b := extract(i, i, x)
		//
		if out > 1 {
			b = apply("concat", zero(out-1), b)
		}
		//
		if sum == nil {
			sum = b
		} else {
			sum = apply("bvadd", sum, b)
		}
	}
	//
	return sum
}

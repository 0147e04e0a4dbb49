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

	"github.com/consensys/go-netlist/pkg/util/source/sexp"
)

// Names of the generic datatypes, their constructors and selectors.  The list
// sort is not called List, since some solvers predeclare a sort of that name.
const (
	ListSort   = "Lst"
	listNil    = "lnil"
	listCons   = "lcons"
	listHead   = "lhead"
	listTail   = "ltail"
	Tuple2Sort = "Tuple2"
	Tuple3Sort = "Tuple3"
	InputsSort = "Inputs"
	StateSort  = "State"
)

func sym(name string) *sexp.Symbol {
	return sexp.NewSymbol(name)
}

func apply(head string, args ...sexp.SExp) *sexp.List {
	return sexp.Apply(head, args...)
}

// (_ BitVec w)
func bitVec(width uint) sexp.SExp {
	return sexp.L(sym("_"), sym("BitVec"), sexp.Uint(width))
}

// (Lst sort)
func listOf(sort sexp.SExp) sexp.SExp {
	return apply(ListSort, sort)
}

// (_ bvN w)
func literal(value *big.Int, width uint) sexp.SExp {
	return sexp.L(sym("_"), sym("bv"+value.String()), sexp.Uint(width))
}

func zero(width uint) sexp.SExp {
	return literal(big.NewInt(0), width)
}

// #b1 or #b0
func bit(value bool) sexp.SExp {
	if value {
		return sym("#b1")
	}
	//
	return sym("#b0")
}

// Convert a 1-bit vector into a boolean.
func isSet(x sexp.SExp) sexp.SExp {
	return apply("=", x, bit(true))
}

func ite(cond, then, otherwise sexp.SExp) sexp.SExp {
	return apply("ite", cond, then, otherwise)
}

// ((_ extract hi lo) x)
func extract(hi, lo uint, x sexp.SExp) sexp.SExp {
	return sexp.L(sexp.L(sym("_"), sym("extract"), sexp.Uint(hi), sexp.Uint(lo)), x)
}

// (let ((name value)) body)
func let(name string, value, body sexp.SExp) sexp.SExp {
	return sexp.L(sym("let"), sexp.L(sexp.L(sym(name), value)), body)
}

// (as lnil (Lst sort))
func emptyList(sort sexp.SExp) sexp.SExp {
	return sexp.L(sym("as"), sym(listNil), listOf(sort))
}

// ((_ is lnil) xs)
func isEmpty(xs sexp.SExp) sexp.SExp {
	return sexp.L(sexp.L(sym("_"), sym("is"), sym(listNil)), xs)
}

// Build a list of a given sort from its elements.
func listFrom(sort sexp.SExp, elements []sexp.SExp) sexp.SExp {
	result := emptyList(sort)
	//
	for i := len(elements) - 1; i >= 0; i-- {
		result = apply(listCons, elements[i], result)
	}
	//
	return result
}

// A single parameter of a function definition.
func param(name string, sort sexp.SExp) sexp.SExp {
	return sexp.L(sym(name), sort)
}

func defineFun(rec bool, name string, params []sexp.SExp, result sexp.SExp, body sexp.SExp) sexp.SExp {
	head := "define-fun"
	//
	if rec {
		head = "define-fun-rec"
	}
	//
	return sexp.L(sym(head), sym(name), sexp.NewList(params), result, body)
}

// Declare a datatype with a single constructor and a given set of fields.
// Each field is a (selector sort) pair.
func record(sort string, constructor string, fields []sexp.SExp) sexp.SExp {
	ctor := sexp.NewList(append([]sexp.SExp{sym(constructor)}, fields...))
	//
	return sexp.L(sym("declare-datatypes"), sexp.L(sexp.L(sym(sort), sexp.Uint(0))), sexp.L(sexp.L(ctor)))
}

// Declare a datatype parameterised over some sorts, with a given set of
// constructors.
func generic(sort string, params []string, constructors ...sexp.SExp) sexp.SExp {
	vars := make([]sexp.SExp, len(params))
	//
	for i, p := range params {
		vars[i] = sym(p)
	}
	//
	decl := sexp.L(sym("par"), sexp.NewList(vars), sexp.NewList(constructors))
	//
	return sexp.L(sym("declare-datatypes"), sexp.L(sexp.L(sym(sort), sexp.Uint(uint(len(params))))), sexp.L(decl))
}

// Datatypes returns the declarations of the generic list and tuple datatypes.
func Datatypes() []sexp.SExp {
	return []sexp.SExp{
		generic(ListSort, []string{"T"},
			sexp.L(sym(listNil)),
			sexp.L(sym(listCons), param(listHead, sym("T")), param(listTail, listOf(sym("T"))))),
		generic(Tuple2Sort, []string{"A", "B"},
			sexp.L(sym("mkTuple2"), param("fst2", sym("A")), param("snd2", sym("B")))),
		generic(Tuple3Sort, []string{"A", "B", "C"},
			sexp.L(sym("mkTuple3"), param("fst3", sym("A")), param("snd3", sym("B")), param("thd3", sym("C")))),
	}
}

// Helpers returns the definitions of the list reductions used by the queries.
// Specifically, andList holds when every element holds; impliesList holds
// when a1 => (a2 => ... => an); notIn holds when a state does not occur in a
// list; and allDistinct holds when no state occurs twice in a list.
func Helpers() []sexp.SExp {
	var (
		xs     = sym("xs")
		x      = sym("x")
		head   = apply(listHead, xs)
		tail   = apply(listTail, xs)
		bools  = []sexp.SExp{param("xs", listOf(sym("Bool")))}
		states = []sexp.SExp{param("xs", listOf(sym(StateSort)))}
	)
	//
	return []sexp.SExp{
		defineFun(true, "andList", bools, sym("Bool"),
			ite(isEmpty(xs), sym("true"), apply("and", head, apply("andList", tail)))),
		defineFun(true, "impliesList", bools, sym("Bool"),
			ite(isEmpty(xs), sym("true"),
				ite(isEmpty(tail), head, apply("=>", head, apply("impliesList", tail))))),
		defineFun(true, "notIn", []sexp.SExp{param("x", sym(StateSort)), states[0]}, sym("Bool"),
			ite(isEmpty(xs), sym("true"), apply("and", apply("distinct", x, head), apply("notIn", x, tail)))),
		defineFun(true, "allDistinct", states, sym("Bool"),
			ite(isEmpty(xs), sym("true"), apply("and", apply("notIn", head, tail), apply("allDistinct", tail)))),
	}
}

// Chain returns the definition of the function folding the transition
// function over a list of inputs from a given state.  This yields the result
// of the property at each step, the state before each step and the final
// state.
func Chain() sexp.SExp {
	var (
		inputs = sym("inputs")
		state  = sym("state")
		step   = sym("step")
		rest   = sym("rest")
		result = apply(Tuple3Sort, listOf(sym("Bool")), listOf(sym(StateSort)), sym(StateSort))
		params = []sexp.SExp{param("inputs", listOf(sym(InputsSort))), param("state", sym(StateSort))}
	)
	//
	body := ite(isEmpty(inputs),
		apply("mkTuple3", emptyList(sym("Bool")), emptyList(sym(StateSort)), state),
		let("step", apply("t", apply(listHead, inputs), state),
			let("rest", apply("chain", apply(listTail, inputs), apply("snd2", step)),
				apply("mkTuple3",
					apply(listCons, apply("fst2", step), apply("fst3", rest)),
					apply(listCons, state, apply("snd3", rest)),
					apply("thd3", rest)))))
	//
	return defineFun(true, "chain", params, result, body)
}

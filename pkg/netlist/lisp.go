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
	"strings"

	"github.com/consensys/go-netlist/pkg/util/source/sexp"
)

// Lisp converts a netlist into a sequence of s-expressions, one per net in
// ascending order of id.  This is the same format accepted by Read.
func Lisp(nl *Netlist) []sexp.SExp {
	var terms []sexp.SExp
	//
	for _, n := range nl.Nets() {
		terms = append(terms, n.Lisp())
	}
	//
	return terms
}

// LispString renders a netlist in its textual interchange format.
func LispString(nl *Netlist) string {
	var builder strings.Builder
	//
	for _, term := range Lisp(nl) {
		builder.WriteString(term.String(true))
		builder.WriteString("\n")
	}
	//
	return builder.String()
}

// Lisp converts this net into an s-expression of the form "(net id (prim ...)
// (inputs ...) (hints ...))", where the hints are omitted if there are none.
func (p *Net) Lisp() *sexp.List {
	inputs := sexp.L(sexp.NewSymbol("inputs"))
	//
	for _, input := range p.Inputs {
		inputs.Append(lispInput(input))
	}
	//
	term := sexp.L(sexp.NewSymbol("net"), sexp.Uint(p.Id), LispPrimitive(p.Prim), inputs)
	//
	if len(p.Hints) > 0 {
		hints := sexp.L(sexp.NewSymbol("hints"))
		for _, h := range p.Hints {
			hints.Append(sexp.NewSymbol(h))
		}
		//
		term.Append(hints)
	}
	//
	return term
}

func lispInput(input Input) sexp.SExp {
	switch input := input.(type) {
	case *WireInput:
		return sexp.NewSymbol(input.Wire.String())
	case *InlineInput:
		term := sexp.L(sexp.NewSymbol("inline"), LispPrimitive(input.Prim))
		for _, arg := range input.Args {
			term.Append(lispInput(arg))
		}
		//
		return term
	default:
		panic("unreachable")
	}
}

// LispPrimitive converts a primitive into its s-expression form.
func LispPrimitive(prim Primitive) *sexp.List {
	switch p := prim.(type) {
	case *Const:
		return sexp.Apply("const", sexp.NewSymbol(p.Value.String()), sexp.Uint(p.Width))
	case *DontCare:
		return sexp.Apply("dontcare", sexp.Uint(p.Width))
	case *In:
		return sexp.Apply("input", sexp.NewSymbol(p.Name), sexp.Uint(p.Width))
	case *Arith:
		return sexp.Apply(p.Op.String(), sexp.Uint(p.Width))
	case *Bitwise:
		return sexp.Apply(p.Op.String(), sexp.Uint(p.Width))
	case *Not:
		return sexp.Apply("not", sexp.Uint(p.Width))
	case *Shift:
		return sexp.Apply(p.Op.String(), sexp.Uint(p.Width), sexp.Uint(p.AmountWidth))
	case *Compare:
		return sexp.Apply(p.Op.String(), sexp.Uint(p.Width))
	case *ZeroExt:
		return sexp.Apply("zext", sexp.Uint(p.In), sexp.Uint(p.Out))
	case *SignExt:
		return sexp.Apply("sext", sexp.Uint(p.In), sexp.Uint(p.Out))
	case *Select:
		return sexp.Apply("select", sexp.Uint(p.InWidth), sexp.Uint(p.Hi), sexp.Uint(p.Lo))
	case *Concat:
		return sexp.Apply("concat", sexp.Uint(p.WidthA), sexp.Uint(p.WidthB))
	case *Replicate:
		return sexp.Apply("replicate", sexp.Uint(p.Width))
	case *Mux:
		return sexp.Apply("mux", sexp.Uint(p.Width))
	case *Identity:
		return sexp.Apply("id", sexp.Uint(p.Width))
	case *CountOnes:
		return sexp.Apply("countones", sexp.Uint(p.InWidth), sexp.Uint(p.OutWidth))
	case *Register:
		return sexp.Apply("reg", sexp.NewSymbol(p.Init.String()), sexp.Uint(p.Width))
	case *RegisterEn:
		return sexp.Apply("regen", sexp.NewSymbol(p.Init.String()), sexp.Uint(p.Width))
	case *Output:
		return sexp.Apply("output", sexp.NewSymbol(p.Name), sexp.Uint(p.Width))
	case *Display:
		term := sexp.Apply("display")
		//
		for _, item := range p.Format {
			if item.IsLiteral() {
				term.Append(sexp.NewString(item.Literal))
			} else {
				term.Append(sexp.Apply(radixNames[item.Radix], sexp.Uint(item.Width)))
			}
		}
		//
		return term
	case *Finish:
		return sexp.Apply("finish")
	case *Custom:
		return lispCustom(p)
	default:
		panic(fmt.Sprintf("unknown primitive %s", prim))
	}
}

var radixNames = map[Radix]string{Decimal: "d", Hex: "h", Binary: "b"}

func lispCustom(p *Custom) *sexp.List {
	ports := func(head string, specs []PortSpec) *sexp.List {
		term := sexp.Apply(head)
		for _, s := range specs {
			term.Append(sexp.L(sexp.NewSymbol(s.Name), sexp.Uint(s.Width)))
		}
		//
		return term
	}
	//
	params := sexp.Apply("params")
	for _, kv := range p.Params {
		params.Append(sexp.L(sexp.NewSymbol(kv.Key), sexp.NewString(kv.Value)))
	}
	//
	term := sexp.Apply("custom", sexp.NewSymbol(p.Name), ports("in", p.Inputs), ports("out", p.Outputs), params)
	//
	if p.Clocked {
		term.Append(sexp.NewSymbol("clocked"))
	}
	//
	return term
}

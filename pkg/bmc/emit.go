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
	"fmt"
	"io"
	"strings"

	"github.com/consensys/go-netlist/pkg/netlist"
	"github.com/consensys/go-netlist/pkg/util"
	"github.com/consensys/go-netlist/pkg/util/source/sexp"
	log "github.com/sirupsen/logrus"
)

// Script is a complete SMT-LIB script.
type Script struct {
	Commands []sexp.SExp
	// Line width targeted when formatting
	width uint
}

// String formats this script, one command after another.
func (p *Script) String() string {
	var (
		builder   strings.Builder
		formatter = sexp.NewSmtFormatter(p.width)
	)
	//
	for _, cmd := range p.Commands {
		builder.WriteString(formatter.Format(cmd))
	}
	//
	return builder.String()
}

// WriteTo writes this script to a given writer.
func (p *Script) WriteTo(w io.Writer) (int64, error) {
	n, err := io.WriteString(w, p.String())
	return int64(n), err
}

// Emit produces a k-induction proof script for a given property, which must be
// a 1-bit output holding whenever the circuit is behaving correctly.  The
// script contains two queries, each delimited by push and pop: the base case
// and then the induction step.  The property holds for every reachable state
// when both queries are unsatisfiable.  Effects are ignored, don't-care values
// are chosen freely on every cycle, and division, modulo and custom
// primitives cannot be translated.
func Emit(nl *netlist.Netlist, property netlist.Id, opts Options) (*Script, error) {
	stats := util.NewPerfStats()
	//
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	//
	transition, err := Transition(nl, property)
	if err != nil {
		return nil, err
	}
	//
	cmds := []sexp.SExp{apply("set-logic", sym("ALL"))}
	cmds = append(cmds, Datatypes()...)
	cmds = append(cmds, transition...)
	cmds = append(cmds, Chain())
	cmds = append(cmds, Helpers()...)
	cmds = append(cmds, BaseCase(nl, opts.Depth)...)
	cmds = append(cmds, InductionStep(opts.Depth, opts.DistinctStates)...)
	//
	log.Debugf("bmc: %d commands for property %d (%s)", len(cmds), property, opts)
	stats.Log("bmc")
	//
	return &Script{cmds, opts.Width}, nil
}

// BaseCase returns a query which is satisfiable if the property fails within a
// given number of cycles from reset.
func BaseCase(nl *netlist.Netlist, depth uint) []sexp.SExp {
	cmds, inputs := declareInputs(depth)
	run := apply("chain", listFrom(sym(InputsSort), inputs), InitialState(nl))
	//
	cmds = append(cmds, apply("assert", apply("not", apply("andList", apply("fst3", run)))))
	//
	return append(cmds, apply("check-sat"), apply("pop", sexp.Uint(1)))
}

// InductionStep returns a query which is satisfiable if, from some state, the
// property can hold for a given number of cycles and then fail.  Optionally,
// the states visited are required to be distinct.
func InductionStep(depth uint, distinct bool) []sexp.SExp {
	cmds, inputs := declareInputs(depth + 1)
	cmds = append(cmds, apply("declare-const", sym("s0"), sym(StateSort)))
	//
	var (
		run   = apply("chain", listFrom(sym(InputsSort), inputs), sym("s0"))
		fails = apply("not", apply("impliesList", apply("fst3", run)))
	)
	//
	if distinct {
		cmds = append(cmds, apply("assert", let("run", run,
			apply("and", apply("not", apply("impliesList", apply("fst3", sym("run")))),
				apply("allDistinct", apply("snd3", sym("run")))))))
	} else {
		cmds = append(cmds, apply("assert", fails))
	}
	//
	return append(cmds, apply("check-sat"), apply("pop", sexp.Uint(1)))
}

// Open a scope declaring a given number of fresh inputs.
func declareInputs(n uint) ([]sexp.SExp, []sexp.SExp) {
	var (
		cmds   = []sexp.SExp{apply("push", sexp.Uint(1))}
		inputs = make([]sexp.SExp, n)
	)
	//
	for i := range inputs {
		inputs[i] = sym(fmt.Sprintf("in%d", i))
		cmds = append(cmds, apply("declare-const", inputs[i], sym(InputsSort)))
	}
	//
	return cmds, inputs
}

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
	"fmt"
	"math/big"

	"github.com/consensys/go-netlist/pkg/bmc"
	"github.com/consensys/go-netlist/pkg/netlist"
	"github.com/consensys/go-netlist/pkg/util"
	"github.com/go-air/gini"
	"github.com/go-air/gini/z"
	log "github.com/sirupsen/logrus"
)

const backend = "bitblast"

// Result is the outcome of a single query, named as an SMT solver would
// report it.
type Result uint8

const (
	// Unknown indicates the solver gave up.
	Unknown Result = iota
	// Sat indicates the query has a model, hence the property can fail.
	Sat
	// Unsat indicates the query has no model.
	Unsat
)

func (r Result) String() string {
	switch r {
	case Sat:
		return "sat"
	case Unsat:
		return "unsat"
	default:
		return "unknown"
	}
}

// Verdict holds the outcome of the base case and induction step queries, along
// with the input values which falsify the property from reset when the base
// case is satisfiable.
type Verdict struct {
	Base Result
	Step Result
	// Trace holds, for each cycle from reset, the value of every input.
	Trace []map[string]*big.Int
}

// Proved holds when the property holds for every reachable state.
func (v Verdict) Proved() bool {
	return v.Base == Unsat && v.Step == Unsat
}

func (v Verdict) String() string {
	return fmt.Sprintf("%s %s", v.Base, v.Step)
}

// Check decides the same base case and induction step queries as the script
// produced by bmc.Emit, by bit-blasting the netlist into a propositional
// circuit and solving it in process.
func Check(nl *netlist.Netlist, property netlist.Id, opts bmc.Options) (Verdict, error) {
	stats := util.NewPerfStats()
	//
	if err := opts.Validate(); err != nil {
		return Verdict{}, err
	}
	//
	order, err := bmc.Relevant(nl, property)
	if err != nil {
		return Verdict{}, err
	}
	//
	var (
		u        = unroller{NewBlaster(), nl, order, property}
		state    = u.initial()
		failures []z.Lit
		frames   []*frame
	)
	// Base case: the property fails within depth cycles from reset.
	for i := uint(0); i < opts.Depth; i++ {
		f, err := u.step(state)
		if err != nil {
			return Verdict{}, err
		}
		//
		failures = append(failures, f.holds.Not())
		frames = append(frames, f)
		state = f.next
	}
	//
	base := u.c.Ors(failures...)
	// Induction step: from any state, the property holds for depth cycles and
	// then fails.
	state = u.arbitrary()
	//
	var (
		states = []map[netlist.Id]Vector{state}
		holds  []z.Lit
	)
	//
	for i := uint(0); i <= opts.Depth; i++ {
		f, err := u.step(state)
		if err != nil {
			return Verdict{}, err
		}
		//
		if i < opts.Depth {
			holds = append(holds, f.holds)
			states = append(states, f.next)
		} else {
			holds = append(holds, f.holds.Not())
		}
		//
		state = f.next
	}
	//
	if opts.DistinctStates {
		holds = append(holds, u.distinct(states))
	}
	//
	step := u.c.Ands(holds...)
	//
	g := gini.New()
	u.c.ToCnf(g)
	//
	var verdict Verdict
	//
	if verdict.Base = solve(g, u.c.T, base); verdict.Base == Sat {
		verdict.Trace = u.trace(g, frames)
	}
	//
	verdict.Step = solve(g, u.c.T, step)
	//
	log.Debugf("bitblast: property %d (%s) gives %s", property, opts, verdict)
	stats.Log("bitblast")
	//
	return verdict, nil
}

func solve(g *gini.Gini, assumptions ...z.Lit) Result {
	g.Assume(assumptions...)
	//
	switch g.Solve() {
	case 1:
		return Sat
	case -1:
		return Unsat
	default:
		return Unknown
	}
}

// frame holds the circuit for a single cycle.
type frame struct {
	inputs map[netlist.Id]Vector
	values map[netlist.Id]Vector
	state  map[netlist.Id]Vector
	next   map[netlist.Id]Vector
	holds  z.Lit
}

// unroller constructs the circuit for successive cycles of a netlist.
type unroller struct {
	*Blaster
	nl       *netlist.Netlist
	order    []netlist.Id
	property netlist.Id
}

// State at reset.
func (u *unroller) initial() map[netlist.Id]Vector {
	state := make(map[netlist.Id]Vector)
	//
	for _, n := range bmc.Registers(u.nl) {
		switch p := n.Prim.(type) {
		case *netlist.Register:
			state[n.Id] = u.Constant(p.Init, p.Width)
		case *netlist.RegisterEn:
			state[n.Id] = u.Constant(p.Init, p.Width)
		}
	}
	//
	return state
}

// An unconstrained state.
func (u *unroller) arbitrary() map[netlist.Id]Vector {
	state := make(map[netlist.Id]Vector)
	//
	for _, n := range bmc.Registers(u.nl) {
		state[n.Id] = u.Fresh(n.Width())
	}
	//
	return state
}

// Holds when every pair of states differs.
func (u *unroller) distinct(states []map[netlist.Id]Vector) z.Lit {
	var (
		regs  = bmc.Registers(u.nl)
		pairs []z.Lit
	)
	//
	for i := range states {
		for j := i + 1; j < len(states); j++ {
			same := make([]z.Lit, len(regs))
			//
			for k, r := range regs {
				same[k] = u.Eq(states[i][r.Id], states[j][r.Id])
			}
			//
			pairs = append(pairs, u.c.Ands(same...).Not())
		}
	}
	//
	return u.c.Ands(pairs...)
}

// Construct the circuit for one cycle from a given state.
func (u *unroller) step(state map[netlist.Id]Vector) (*frame, error) {
	f := &frame{
		inputs: make(map[netlist.Id]Vector),
		values: make(map[netlist.Id]Vector),
		state:  state,
		next:   make(map[netlist.Id]Vector),
	}
	//
	for _, id := range u.order {
		n, _ := u.nl.Get(id)
		//
		switch n.Prim.(type) {
		case *netlist.Const, *netlist.DontCare, *netlist.In, *netlist.Register, *netlist.RegisterEn:
			continue
		}
		//
		value, err := u.net(f, n)
		if err != nil {
			return nil, err
		}
		//
		f.values[id] = value
	}
	//
	for _, n := range bmc.Registers(u.nl) {
		data, err := u.input(f, n, 0)
		if err != nil {
			return nil, err
		}
		//
		if _, ok := n.Prim.(*netlist.RegisterEn); ok {
			enable := data
			//
			if data, err = u.input(f, n, 1); err != nil {
				return nil, err
			}
			//
			data = u.Mux(enable[0], data, state[n.Id])
		}
		//
		f.next[n.Id] = data
	}
	//
	f.holds = f.values[u.property][0]
	//
	return f, nil
}

func (u *unroller) net(f *frame, n *netlist.Net) (Vector, error) {
	args := make([]Vector, len(n.Inputs))
	//
	for i := range n.Inputs {
		arg, err := u.input(f, n, uint(i))
		if err != nil {
			return nil, err
		}
		//
		args[i] = arg
	}
	//
	return u.blast(n.Id, n.Prim, args)
}

func (u *unroller) input(f *frame, n *netlist.Net, i uint) (Vector, error) {
	return u.translateInput(f, n.Id, n.Inputs[i])
}

func (u *unroller) translateInput(f *frame, id netlist.Id, input netlist.Input) (Vector, error) {
	switch input := input.(type) {
	case *netlist.WireInput:
		return u.reference(f, input.Wire)
	case *netlist.InlineInput:
		args := make([]Vector, len(input.Args))
		//
		for i, arg := range input.Args {
			v, err := u.translateInput(f, id, arg)
			if err != nil {
				return nil, err
			}
			//
			args[i] = v
		}
		//
		return u.blast(id, input.Prim, args)
	default:
		panic("unreachable")
	}
}

// Inputs and don't-care values are fresh on every cycle.
func (u *unroller) reference(f *frame, w netlist.Wire) (Vector, error) {
	if _, _, err := u.nl.Resolve(w); err != nil {
		return nil, err
	}
	//
	n, _ := u.nl.Get(w.Instance)
	//
	switch p := n.Prim.(type) {
	case *netlist.Const:
		return u.Constant(p.Value, p.Width), nil
	case *netlist.In, *netlist.DontCare:
		if _, ok := f.inputs[n.Id]; !ok {
			f.inputs[n.Id] = u.Fresh(n.Width())
		}
		//
		return f.inputs[n.Id], nil
	case *netlist.Register, *netlist.RegisterEn:
		return f.state[n.Id], nil
	case *netlist.Custom:
		return nil, netlist.NewUnsupportedError(backend, n.Id, n.Prim)
	default:
		return f.values[n.Id], nil
	}
}

// Construct the circuit for a primitive applied to some arguments.
func (u *unroller) blast(id netlist.Id, prim netlist.Primitive, args []Vector) (Vector, error) {
	switch p := prim.(type) {
	case *netlist.Const:
		return u.Constant(p.Value, p.Width), nil
	case *netlist.Arith:
		switch p.Op {
		case netlist.OpAdd:
			return u.Add(args[0], args[1]), nil
		case netlist.OpSub:
			return u.Sub(args[0], args[1]), nil
		case netlist.OpMul:
			return u.Mul(args[0], args[1]), nil
		}
	case *netlist.Bitwise:
		switch p.Op {
		case netlist.OpAnd:
			return u.And(args[0], args[1]), nil
		case netlist.OpOr:
			return u.Or(args[0], args[1]), nil
		case netlist.OpXor:
			return u.Xor(args[0], args[1]), nil
		}
	case *netlist.Not:
		return u.Not(args[0]), nil
	case *netlist.Shift:
		switch p.Op {
		case netlist.OpShl:
			return u.Shl(args[0], args[1]), nil
		case netlist.OpShr:
			return u.Shr(args[0], args[1]), nil
		case netlist.OpSra:
			return u.Sra(args[0], args[1]), nil
		}
	case *netlist.Compare:
		switch p.Op {
		case netlist.OpEq:
			return Vector{u.Eq(args[0], args[1])}, nil
		case netlist.OpNeq:
			return Vector{u.Eq(args[0], args[1]).Not()}, nil
		case netlist.OpLt:
			return Vector{u.Lt(args[0], args[1])}, nil
		case netlist.OpLe:
			return Vector{u.Le(args[0], args[1])}, nil
		}
	case *netlist.ZeroExt:
		return u.ZeroExt(args[0], p.Out), nil
	case *netlist.SignExt:
		return u.SignExt(args[0], p.Out), nil
	case *netlist.Select:
		return args[0][p.Lo : p.Hi+1], nil
	case *netlist.Concat:
		return u.Concat(args[0], args[1]), nil
	case *netlist.Replicate:
		return u.fill(args[0][0], p.Width), nil
	case *netlist.Mux:
		return u.Mux(args[0][0], args[2], args[1]), nil
	case *netlist.Identity, *netlist.Output:
		return args[0], nil
	case *netlist.CountOnes:
		return u.CountOnes(args[0], p.OutWidth), nil
	}
	//
	return nil, netlist.NewUnsupportedError(backend, id, prim)
}

// Read the inputs of each cycle from a satisfying assignment.
func (u *unroller) trace(g *gini.Gini, frames []*frame) []map[string]*big.Int {
	trace := make([]map[string]*big.Int, len(frames))
	//
	for i, f := range frames {
		trace[i] = make(map[string]*big.Int)
		//
		for id, v := range f.inputs {
			n, _ := u.nl.Get(id)
			name := netlist.Identifier(n, 0)
			//
			if in, ok := n.Prim.(*netlist.In); ok {
				name = in.Name
			}
			//
			trace[i][name] = value(g, v)
		}
	}
	//
	return trace
}

func value(g *gini.Gini, v Vector) *big.Int {
	val := new(big.Int)
	//
	for i, bit := range v {
		if g.Value(bit) {
			val.SetBit(val, i, 1)
		}
	}
	//
	return val
}

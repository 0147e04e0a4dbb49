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
	"math/big"
)

// Builder constructs a netlist incrementally, allocating dense instance ids.
// Inputs can be connected after a net is added, which permits feedback through
// registers.
type Builder struct {
	nets []*Net
}

// NewBuilder constructs an empty builder.
func NewBuilder() *Builder {
	return &Builder{}
}

// Ref constructs an input referring to the first output port of a given
// instance.
func Ref(id Id) Input {
	return &WireInput{NewWire(id, 0)}
}

// RefPort constructs an input referring to a given output port of a given
// instance.
func RefPort(id Id, port uint) Input {
	return &WireInput{NewWire(id, port)}
}

// Inline constructs an inlined subexpression input.
func Inline(prim Primitive, args ...Input) Input {
	return &InlineInput{prim, args}
}

// Add a net with a given primitive, inputs and naming hints, returning its id.
func (p *Builder) Add(prim Primitive, inputs []Input, hints ...string) Id {
	id := Id(len(p.nets))
	p.nets = append(p.nets, NewNet(id, prim, inputs, hints...))
	//
	return id
}

// Apply adds a net whose inputs are the first output ports of the given
// instances.
func (p *Builder) Apply(prim Primitive, args ...Id) Id {
	inputs := make([]Input, len(args))
	//
	for i, a := range args {
		inputs[i] = Ref(a)
	}
	//
	return p.Add(prim, inputs)
}

// Connect (re)assigns the inputs of a previously added net.
func (p *Builder) Connect(id Id, inputs ...Input) {
	p.nets[id].Inputs = inputs
}

// Hint attaches naming hints to a previously added net.
func (p *Builder) Hint(id Id, hints ...string) {
	n := p.nets[id]
	n.Hints = normaliseHints(append(n.Hints, hints...))
}

// Const adds a constant of a given width.
func (p *Builder) Const(value int64, width uint) Id {
	return p.Add(&Const{big.NewInt(value), width}, nil)
}

// Input adds an external input of a given width.
func (p *Builder) Input(name string, width uint) Id {
	return p.Add(&In{name, width}, nil, name)
}

// Output adds an output driven by a given instance.
func (p *Builder) Output(name string, width uint, driver Id) Id {
	return p.Add(&Output{name, width}, []Input{Ref(driver)}, name)
}

// Register adds a register of a given width and initial value, whose data
// input must be connected later.
func (p *Builder) Register(init int64, width uint) Id {
	return p.Add(&Register{big.NewInt(init), width}, nil)
}

// Build returns the netlist constructed so far.
func (p *Builder) Build() *Netlist {
	return New(p.nets...)
}

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
	"slices"
)

// Id identifies an instance (i.e. a net) within a netlist.
type Id = uint

// Wire identifies one output port of one net.  When Name is non-empty, the port
// is selected by name; otherwise, it is selected by index.
type Wire struct {
	Instance Id
	Port     uint
	Name     string
}

// NewWire constructs a wire referring to a given output port (by index) of a
// given instance.
func NewWire(instance Id, port uint) Wire {
	return Wire{instance, port, ""}
}

// NewNamedWire constructs a wire referring to a given output port (by name) of
// a given instance.
func NewNamedWire(instance Id, name string) Wire {
	return Wire{instance, 0, name}
}

func (p Wire) String() string {
	if p.Name != "" {
		return fmt.Sprintf("%d.%s", p.Instance, p.Name)
	} else if p.Port != 0 {
		return fmt.Sprintf("%d.%d", p.Instance, p.Port)
	}
	//
	return fmt.Sprintf("%d", p.Instance)
}

// Input is an input of a net.  This is either a reference to an existing wire,
// or an inlined subexpression (which bypasses materialising an intermediate
// wire).
type Input interface {
	// Wires returns the wires on which this input depends.
	Wires() []Wire
	// Marker method which closes the sum type.
	isInput()
}

// WireInput is an input referring to the output port of another net.
type WireInput struct {
	Wire Wire
}

// InlineInput is an input given by an inlined subexpression.  Only the
// verification backend accepts these.
type InlineInput struct {
	Prim Primitive
	Args []Input
}

// Wires implementation for Input interface.
func (p *WireInput) Wires() []Wire { return []Wire{p.Wire} }

// Wires implementation for Input interface.
func (p *InlineInput) Wires() []Wire {
	var wires []Wire
	//
	for _, arg := range p.Args {
		wires = append(wires, arg.Wires()...)
	}
	//
	return wires
}

func (p *WireInput) isInput()   {}
func (p *InlineInput) isInput() {}

// OutputPort describes an output port of a net.
type OutputPort struct {
	// Optional name of this port.
	Name string
	// Width (in bits) of this port.
	Width uint
}

// Net is a single instance of a primitive within a netlist.
type Net struct {
	Id      Id
	Prim    Primitive
	Inputs  []Input
	Outputs []OutputPort
	// Naming hints (sorted, without duplicates).  These are used only to
	// synthesise readable identifiers, and never affect semantics.
	Hints []string
}

// NewNet constructs a new net whose output ports are determined by its
// primitive.
func NewNet(id Id, prim Primitive, inputs []Input, hints ...string) *Net {
	widths := prim.OutputWidths()
	outputs := make([]OutputPort, len(widths))
	//
	for i, w := range widths {
		outputs[i] = OutputPort{Width: w}
	}
	// Name ports of custom primitives
	if c, ok := prim.(*Custom); ok {
		for i, o := range c.Outputs {
			outputs[i].Name = o.Name
		}
	}
	//
	return &Net{id, prim, inputs, outputs, normaliseHints(hints)}
}

// InputWire returns the wire of the ith input of this net, or false if that
// input is inlined.
func (p *Net) InputWire(i uint) (Wire, bool) {
	if w, ok := p.Inputs[i].(*WireInput); ok {
		return w.Wire, true
	}
	//
	return Wire{}, false
}

// Width returns the width of the first output port of this net.  This is
// convenient since most nets have exactly one output port.
func (p *Net) Width() uint {
	return p.Outputs[0].Width
}

// Hint returns the preferred naming hint of this net, or "" if none.
func (p *Net) Hint() string {
	if len(p.Hints) == 0 {
		return ""
	}
	//
	return p.Hints[0]
}

func normaliseHints(hints []string) []string {
	if len(hints) == 0 {
		return nil
	}
	//
	hints = slices.Clone(hints)
	slices.Sort(hints)
	//
	return slices.Compact(hints)
}

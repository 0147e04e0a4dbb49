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

// Netlist is a sparse arena of nets indexed by instance id.  Ids which have
// been pruned are simply absent.  Nets refer to each other only by id, hence a
// netlist may contain cycles as a data property (which the ordering pass
// checks for) without any ownership concerns.
type Netlist struct {
	nets []*Net
}

// New constructs a netlist from a given set of nets, each of which is stored
// at its own id.
func New(nets ...*Net) *Netlist {
	var arena []*Net
	//
	for _, n := range nets {
		for uint(len(arena)) <= n.Id {
			arena = append(arena, nil)
		}
		//
		if arena[n.Id] != nil {
			panic(fmt.Sprintf("duplicate instance %d", n.Id))
		}
		//
		arena[n.Id] = n
	}
	//
	return &Netlist{arena}
}

// Capacity returns one past the largest id which could be present.
func (p *Netlist) Capacity() uint {
	return uint(len(p.nets))
}

// Get returns the net with a given id, or false if no such net exists.
func (p *Netlist) Get(id Id) (*Net, bool) {
	if id >= uint(len(p.nets)) || p.nets[id] == nil {
		return nil, false
	}
	//
	return p.nets[id], true
}

// Net returns the net with a given id, or a structural error if no such net
// exists.
func (p *Netlist) Net(id Id) (*Net, error) {
	if n, ok := p.Get(id); ok {
		return n, nil
	}
	//
	return nil, &StructuralError{MissingInstance, id, ""}
}

// Ids returns the ids of all nets present, in ascending order.
func (p *Netlist) Ids() []Id {
	var ids []Id
	//
	for i, n := range p.nets {
		if n != nil {
			ids = append(ids, Id(i))
		}
	}
	//
	return ids
}

// Nets returns all nets present, in ascending order of id.
func (p *Netlist) Nets() []*Net {
	var nets []*Net
	//
	for _, n := range p.nets {
		if n != nil {
			nets = append(nets, n)
		}
	}
	//
	return nets
}

// Filter returns all nets present whose primitive satisfies a given predicate,
// in ascending order of id.
func (p *Netlist) Filter(pred func(Primitive) bool) []*Net {
	var nets []*Net
	//
	for _, n := range p.nets {
		if n != nil && pred(n.Prim) {
			nets = append(nets, n)
		}
	}
	//
	return nets
}

// Without returns a copy of this netlist with the given instances pruned.  The
// nets themselves are shared, since they are never mutated.
func (p *Netlist) Without(ids ...Id) *Netlist {
	arena := slices.Clone(p.nets)
	//
	for _, id := range ids {
		if id < uint(len(arena)) {
			arena[id] = nil
		}
	}
	//
	return &Netlist{arena}
}

// Resolve determines the output port (and its index) referred to by a given
// wire.
func (p *Netlist) Resolve(w Wire) (uint, OutputPort, error) {
	n, ok := p.Get(w.Instance)
	//
	if !ok {
		return 0, OutputPort{}, &StructuralError{DanglingWire, w.Instance, fmt.Sprintf("no instance for wire %s", w)}
	} else if w.Name != "" {
		for i, o := range n.Outputs {
			if o.Name == w.Name {
				return uint(i), o, nil
			}
		}
		//
		return 0, OutputPort{}, &StructuralError{DanglingWire, w.Instance, fmt.Sprintf("no port named %s", w.Name)}
	} else if w.Port >= uint(len(n.Outputs)) {
		return 0, OutputPort{}, &StructuralError{DanglingWire, w.Instance, fmt.Sprintf("no port %d", w.Port)}
	}
	//
	return w.Port, n.Outputs[w.Port], nil
}

// WidthOf determines the width of a given input.
func (p *Netlist) WidthOf(input Input) (uint, error) {
	switch input := input.(type) {
	case *WireInput:
		_, port, err := p.Resolve(input.Wire)
		return port.Width, err
	case *InlineInput:
		widths := input.Prim.OutputWidths()
		if len(widths) != 1 {
			return 0, fmt.Errorf("inlined primitive %s has %d outputs", input.Prim, len(widths))
		}
		//
		return widths[0], nil
	default:
		panic("unreachable")
	}
}

// FanIn returns the instances driving the inputs of a given net, in input
// order.  Instances referenced within inlined inputs are included, and
// duplicates are retained.
func (p *Netlist) FanIn(id Id) ([]Id, error) {
	n, err := p.Net(id)
	if err != nil {
		return nil, err
	}
	//
	var drivers []Id
	//
	for _, input := range n.Inputs {
		for _, w := range input.Wires() {
			if _, ok := p.Get(w.Instance); !ok {
				return nil, &StructuralError{DanglingWire, id, fmt.Sprintf("input references missing instance %d", w.Instance)}
			}
			//
			drivers = append(drivers, w.Instance)
		}
	}
	//
	return drivers, nil
}

// Validate checks the structural well-formedness of this netlist, excluding
// acyclicity (which is checked by Order).  Specifically, every net must have
// the number of inputs its primitive expects, and every wire referenced by an
// input must resolve to an existing output port.
func (p *Netlist) Validate() error {
	for _, n := range p.Nets() {
		if uint(len(n.Inputs)) != n.Prim.Arity() {
			return &StructuralError{MalformedNet, n.Id,
				fmt.Sprintf("%s expects %d inputs, found %d", n.Prim, n.Prim.Arity(), len(n.Inputs))}
		}
		//
		for _, input := range n.Inputs {
			if err := p.validateInput(n.Id, input); err != nil {
				return err
			}
		}
	}
	//
	return nil
}

func (p *Netlist) validateInput(id Id, input Input) error {
	switch input := input.(type) {
	case *WireInput:
		if _, _, err := p.Resolve(input.Wire); err != nil {
			return &StructuralError{DanglingWire, id, err.(*StructuralError).Detail}
		}
	case *InlineInput:
		if uint(len(input.Args)) != input.Prim.Arity() {
			return &StructuralError{MalformedNet, id,
				fmt.Sprintf("inlined %s expects %d inputs, found %d", input.Prim, input.Prim.Arity(), len(input.Args))}
		}
		//
		for _, arg := range input.Args {
			if err := p.validateInput(id, arg); err != nil {
				return err
			}
		}
	}
	//
	return nil
}

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
package sim

import (
	"math/big"

	"github.com/consensys/go-netlist/pkg/netlist"
	"github.com/consensys/go-netlist/pkg/util"
	log "github.com/sirupsen/logrus"
)

const backend = "sim"

// port identifies a single output port of a net.
type port struct {
	instance netlist.Id
	index    uint
}

// Lower translates a netlist into a sequential program.  Every output port of
// every relevant net is given its own slot, except for wide multiplexers and
// identities which borrow the storage of one of their inputs.  Register
// updates are ordered, and snapshots introduced, such that every update reads
// the values registers held at the start of the cycle.  The netlist must be
// structurally valid and free of combinational cycles.
func Lower(nl *netlist.Netlist) (*Program, error) {
	stats := util.NewPerfStats()
	//
	if err := nl.Validate(); err != nil {
		return nil, err
	}
	//
	order, err := netlist.Order(nl)
	if err != nil {
		return nil, err
	}
	//
	l := lowering{nl: nl, prog: newProgram(), slots: make(map[port]uint)}
	// Allocate first, since register inputs can refer forwards.
	for _, id := range order {
		if err := l.allocate(l.net(id)); err != nil {
			return nil, err
		}
	}
	//
	for _, id := range order {
		if err := l.lowerNet(l.net(id)); err != nil {
			return nil, err
		}
	}
	//
	sequentialize(l.prog)
	//
	log.Debugf("sim: %d slots, %d views, %d updates, %d snapshots", len(l.prog.Slots), len(l.prog.borrows),
		len(l.prog.Updates), len(l.prog.Snapshots))
	stats.Log("sim")
	//
	return l.prog, nil
}

type lowering struct {
	nl    *netlist.Netlist
	prog  *Program
	slots map[port]uint
}

func (l *lowering) net(id netlist.Id) *netlist.Net {
	n, _ := l.nl.Get(id)
	return n
}

func (l *lowering) allocate(n *netlist.Net) error {
	var (
		init  *big.Int
		label string
		name  = netlist.Identifier(n, 0)
		kind  = Temp
	)
	//
	switch p := n.Prim.(type) {
	case *netlist.Custom:
		return netlist.NewUnsupportedError(backend, n.Id, n.Prim)
	case *netlist.Display, *netlist.Finish:
		return nil
	case *netlist.Output:
		l.slots[port{n.Id, 0}] = l.prog.add(Slot{Name: name, Width: p.Width, Kind: Output, Label: p.Name})
		return nil
	case *netlist.In:
		kind, label = Input, p.Name
	case *netlist.Const:
		kind, init = Constant, p.Value
	case *netlist.DontCare:
		kind, init = Constant, big.NewInt(0)
	case *netlist.Register:
		kind, init = State, p.Init
	case *netlist.RegisterEn:
		kind, init = State, p.Init
	case *netlist.Mux, *netlist.Identity:
		if ClassOf(n.Width()) == Wide {
			kind = View
		}
	}
	//
	l.slots[port{n.Id, 0}] = l.prog.add(Slot{name, n.Width(), kind, label, init})
	//
	return nil
}

func (l *lowering) lowerNet(n *netlist.Net) error {
	switch n.Prim.(type) {
	case *netlist.Const, *netlist.DontCare, *netlist.In:
		return nil
	case *netlist.Output:
		src, err := l.input(n, 0)
		if err != nil {
			return err
		}
		//
		l.prog.Combinational = append(l.prog.Combinational, &Copy{l.slots[port{n.Id, 0}], src})
		//
		return nil
	case *netlist.Register:
		return l.lowerUpdate(n, NoSlot, 0)
	case *netlist.RegisterEn:
		enable, err := l.input(n, 0)
		if err != nil {
			return err
		}
		//
		return l.lowerUpdate(n, enable, 1)
	case *netlist.Display, *netlist.Finish:
		return l.lowerEffect(n)
	}
	//
	args, err := l.inputs(n)
	if err != nil {
		return err
	}
	//
	dst := l.slots[port{n.Id, 0}]
	//
	if l.prog.Slot(dst).Kind != View {
		l.prog.Combinational = append(l.prog.Combinational, &Eval{dst, n.Prim, args})
		return nil
	}
	//
	borrow := &Borrow{dst, NoSlot, args}
	//
	if _, ok := n.Prim.(*netlist.Mux); ok {
		borrow = &Borrow{dst, args[0], args[1:]}
	}
	//
	l.prog.borrows[dst] = borrow
	l.prog.Combinational = append(l.prog.Combinational, borrow)
	//
	return nil
}

func (l *lowering) lowerUpdate(n *netlist.Net, enable uint, data uint) error {
	src, err := l.input(n, data)
	if err != nil {
		return err
	}
	//
	l.prog.Updates = append(l.prog.Updates, &Update{l.slots[port{n.Id, 0}], enable, src})
	//
	return nil
}

func (l *lowering) lowerEffect(n *netlist.Net) error {
	args, err := l.inputs(n)
	if err != nil {
		return err
	}
	//
	switch p := n.Prim.(type) {
	case *netlist.Display:
		l.prog.Effects = append(l.prog.Effects, &Print{args[0], p.Format, args[1:]})
	default:
		l.prog.Effects = append(l.prog.Effects, &Halt{args[0]})
	}
	//
	return nil
}

func (l *lowering) inputs(n *netlist.Net) ([]uint, error) {
	args := make([]uint, len(n.Inputs))
	//
	for i := range n.Inputs {
		arg, err := l.input(n, uint(i))
		if err != nil {
			return nil, err
		}
		//
		args[i] = arg
	}
	//
	return args, nil
}

// Determine the slot holding the ith input of a given net.
func (l *lowering) input(n *netlist.Net, i uint) (uint, error) {
	w, ok := n.InputWire(i)
	if !ok {
		return 0, netlist.NewUnsupportedError(backend, n.Id, n.Inputs[i].(*netlist.InlineInput).Prim)
	}
	//
	index, _, err := l.nl.Resolve(w)
	if err != nil {
		return 0, err
	}
	//
	return l.slots[port{w.Instance, index}], nil
}

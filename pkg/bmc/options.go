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

	"github.com/consensys/go-netlist/pkg/netlist"
)

// Options configures the proof script produced for a property.
type Options struct {
	// Depth is the number of cycles covered by the base case, and the number
	// of steps assumed by the induction step.  This must be at least one.
	Depth uint
	// DistinctStates strengthens the induction step by requiring every state
	// visited to be distinct.
	DistinctStates bool
	// Width is the line width targeted when formatting the script.
	Width uint
}

// DefaultOptions returns options for a plain 1-induction proof.
func DefaultOptions() Options {
	return Options{Depth: 1, Width: 100}
}

func (p Options) String() string {
	return fmt.Sprintf("depth=%d distinct=%t width=%d", p.Depth, p.DistinctStates, p.Width)
}

// Validate checks these options are usable.
func (p Options) Validate() error {
	if p.Depth == 0 {
		return fmt.Errorf("induction depth must be at least 1")
	}
	//
	return nil
}

// Property checks that a given instance is a 1-bit output, returning the
// output net.
func Property(nl *netlist.Netlist, id netlist.Id) (*netlist.Net, error) {
	n, err := nl.Net(id)
	if err != nil {
		return nil, err
	}
	//
	if out, ok := n.Prim.(*netlist.Output); !ok || out.Width != 1 {
		return nil, fmt.Errorf("property %d is %s, not a 1-bit output", id, n.Prim)
	}
	//
	return n, nil
}

// Relevant determines an evaluation order for the nets on which a property,
// or the next state of any register, depends.  Effects are not relevant.
func Relevant(nl *netlist.Netlist, property netlist.Id) ([]netlist.Id, error) {
	if err := nl.Validate(); err != nil {
		return nil, err
	} else if _, err := Property(nl, property); err != nil {
		return nil, err
	}
	//
	roots := []netlist.Id{property}
	//
	for _, n := range Registers(nl) {
		roots = append(roots, n.Id)
	}
	//
	return netlist.OrderFrom(nl, roots)
}

// Registers returns the registers of a netlist, in ascending id order.
func Registers(nl *netlist.Netlist) []*netlist.Net {
	return nl.Filter(netlist.IsRegister)
}

// Inputs returns the nets whose values are chosen freely on every cycle,
// namely external inputs and don't-care values, in ascending id order.
func Inputs(nl *netlist.Netlist) []*netlist.Net {
	return nl.Filter(func(p netlist.Primitive) bool {
		switch p.(type) {
		case *netlist.In, *netlist.DontCare:
			return true
		default:
			return false
		}
	})
}

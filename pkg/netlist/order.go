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
	"slices"

	"github.com/bits-and-blooms/bitset"
	"github.com/consensys/go-netlist/pkg/util/collection/stack"
	log "github.com/sirupsen/logrus"
)

// traversalMarks records which nets are on the traversal stack, and which have been
// placed in the order.
type traversalMarks struct {
	inProgress *bitset.BitSet
	done       *bitset.BitSet
}

func newMarks(n uint) traversalMarks {
	return traversalMarks{bitset.New(n), bitset.New(n)}
}

// frame records the progress of the traversal through a single net.
type frame struct {
	id   Id
	deps []Id
	next int
}

// Order determines an evaluation order for the relevant nets of a netlist.
// The relevant nets are those reachable from the roots (outputs, registers and
// effect sinks), and the order is such that every net appears after all nets
// on which its current-cycle value depends.  Inputs and registers are leaves:
// their value this cycle does not depend upon their own drivers.  An error is
// returned if a combinational cycle is detected, or some input refers to a
// missing instance.
func Order(nl *Netlist) ([]Id, error) {
	var roots []Id
	//
	for _, n := range nl.Filter(IsRoot) {
		roots = append(roots, n.Id)
	}
	//
	return OrderFrom(nl, roots)
}

// OrderFrom determines an evaluation order for the nets of a netlist relevant
// to a given set of roots.  Roots are processed in ascending id order, hence
// the result is deterministic for a given netlist.  Nets unreachable from the
// roots are excluded from the order, but are still checked for combinational
// cycles.
func OrderFrom(nl *Netlist, roots []Id) ([]Id, error) {
	var (
		marks = newMarks(nl.Capacity())
		order = make([]Id, 0, nl.Capacity())
		work  = stack.NewStack[frame]()
	)
	//
	roots = slices.Clone(roots)
	slices.Sort(roots)
	//
	for _, root := range roots {
		n, err := nl.Net(root)
		if err != nil {
			return nil, err
		}
		// Anchor the root itself
		if order, err = visit(nl, root, marks, order, work); err != nil {
			return nil, err
		}
		// Registers additionally anchor the logic computing their next value.
		if IsRegister(n.Prim) {
			drivers, err := nl.FanIn(root)
			if err != nil {
				return nil, err
			}
			//
			for _, d := range drivers {
				if order, err = visit(nl, d, marks, order, work); err != nil {
					return nil, err
				}
			}
		}
	}
	// Dead logic is not ordered, but must still be acyclic.
	if err := checkUnreachable(nl, marks, work); err != nil {
		return nil, err
	}
	//
	log.Debugf("ordered %d of %d nets", len(order), len(nl.Ids()))
	//
	return order, nil
}

// Traverse every net not yet visited, discarding the order in which they
// complete.
func checkUnreachable(nl *Netlist, marks traversalMarks, work *stack.Stack[frame]) error {
	var (
		scratch []Id
		err     error
	)
	//
	for _, id := range nl.Ids() {
		if scratch, err = visit(nl, id, marks, scratch[:0], work); err != nil {
			return err
		}
	}
	//
	return nil
}

// Visit a given net using an iterative depth-first traversal, appending nets
// to the order as they complete.
func visit(nl *Netlist, id Id, marks traversalMarks, order []Id, work *stack.Stack[frame]) ([]Id, error) {
	if marks.done.Test(id) {
		return order, nil
	}
	//
	deps, err := dependencies(nl, id)
	if err != nil {
		return nil, err
	}
	//
	work.Clear()
	work.Push(frame{id, deps, 0})
	marks.inProgress.Set(id)
	//
	for !work.IsEmpty() {
		top := work.Top()
		//
		if top.next == len(top.deps) {
			// All dependencies completed
			marks.inProgress.Clear(top.id)
			marks.done.Set(top.id)
			order = append(order, top.id)
			work.Pop()
			//
			continue
		}
		//
		dep := top.deps[top.next]
		top.next++
		//
		if marks.done.Test(dep) {
			continue
		} else if marks.inProgress.Test(dep) {
			return nil, &StructuralError{CombinationalCycle, dep, ""}
		}
		//
		if deps, err = dependencies(nl, dep); err != nil {
			return nil, err
		}
		//
		marks.inProgress.Set(dep)
		work.Push(frame{dep, deps, 0})
	}
	//
	return order, nil
}

// Determine the nets on which the current-cycle value of a given net depends.
func dependencies(nl *Netlist, id Id) ([]Id, error) {
	n, err := nl.Net(id)
	if err != nil {
		return nil, err
	} else if IsLeaf(n.Prim) {
		return nil, nil
	}
	//
	return nl.FanIn(id)
}

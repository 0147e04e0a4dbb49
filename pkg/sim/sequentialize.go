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
	"fmt"
	"slices"

	"github.com/consensys/go-netlist/pkg/util/collection/stack"
)

// Marks used when scheduling updates.
const (
	unvisited uint8 = iota
	visiting
	visited
)

// schedule records the progress of the traversal through the readers of a
// single register.
type schedule struct {
	update int
	next   int
}

// Order the register updates of a program such that, as far as possible, every
// register is updated only after all updates which read its value.  Where this
// is impossible (e.g. two registers swapping values) the register's value is
// copied into a snapshot at the start of the cycle, and the late readers are
// rewired to read the snapshot instead.  Reads through views count as reads of
// every register the view may borrow.
func sequentialize(p *Program) {
	var (
		index   = make(map[uint]int)
		readers = make([][]int, len(p.Updates))
	)
	//
	for i, u := range p.Updates {
		index[u.Reg] = i
	}
	//
	for i, u := range p.Updates {
		for _, r := range p.registersRead(u) {
			if j, ok := index[r]; ok && j != i {
				readers[j] = append(readers[j], i)
			}
		}
	}
	//
	var (
		order    = scheduleUpdates(readers)
		position = make([]int, len(order))
		updates  = make([]*Update, len(order))
	)
	//
	for k, i := range order {
		position[i] = k
		updates[k] = p.Updates[i]
	}
	//
	for j, rs := range readers {
		var snapshot = NoSlot
		//
		for _, i := range rs {
			if position[i] < position[j] {
				continue
			} else if snapshot == NoSlot {
				snapshot = p.snapshot(p.Updates[j].Reg)
			}
			//
			p.rewire(p.Updates[i], p.Updates[j].Reg, snapshot)
		}
	}
	//
	p.Updates = updates
}

// Traverse the reader graph depth first, such that every update is placed
// after all of its readers (except those on a cycle).
func scheduleUpdates(readers [][]int) []int {
	var (
		marks = make([]uint8, len(readers))
		order = make([]int, 0, len(readers))
		work  = stack.NewStack[schedule]()
	)
	//
	for root := range readers {
		if marks[root] != unvisited {
			continue
		}
		//
		marks[root] = visiting
		work.Push(schedule{root, 0})
		//
		for !work.IsEmpty() {
			top := work.Top()
			//
			if top.next == len(readers[top.update]) {
				marks[top.update] = visited
				order = append(order, top.update)
				work.Pop()
				//
				continue
			}
			//
			next := readers[top.update][top.next]
			top.next++
			//
			if marks[next] == unvisited {
				marks[next] = visiting
				work.Push(schedule{next, 0})
			}
		}
	}
	//
	return order
}

// Determine the registers whose current value a given update reads, directly
// or through views.
func (p *Program) registersRead(u *Update) []uint {
	var regs []uint
	//
	for _, slot := range u.Reads() {
		for _, owner := range p.Owners(slot) {
			if p.Slots[owner].Kind == State {
				regs = append(regs, owner)
			}
		}
	}
	//
	slices.Sort(regs)
	//
	return slices.Compact(regs)
}

// Allocate a snapshot of a given register.
func (p *Program) snapshot(reg uint) uint {
	slot := p.Slots[reg]
	snapshot := p.add(Slot{Name: fmt.Sprintf("%s_snap", slot.Name), Width: slot.Width, Kind: Snapshot})
	p.Snapshots = append(p.Snapshots, &Copy{snapshot, reg})
	//
	return snapshot
}

// Redirect the reads of a given register made by an update to a snapshot,
// including those made through views borrowing the register.
func (p *Program) rewire(u *Update, reg uint, snapshot uint) {
	if u.Enable == reg {
		u.Enable = snapshot
	}
	//
	if u.Src == reg {
		u.Src = snapshot
	} else if borrowers := p.Borrowers(reg); slices.Contains(borrowers, u.Src) {
		p.rewireView(u.Src, reg, snapshot, borrowers)
	}
}

func (p *Program) rewireView(view uint, reg uint, snapshot uint, borrowers []uint) {
	b := p.borrows[view]
	//
	for i, c := range b.Candidates {
		if c == reg {
			b.Candidates[i] = snapshot
		} else if slices.Contains(borrowers, c) {
			p.rewireView(c, reg, snapshot, borrowers)
		}
	}
}

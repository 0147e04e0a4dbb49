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
package rtl

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/consensys/go-netlist/pkg/netlist"
	"github.com/consensys/go-netlist/pkg/util"
	log "github.com/sirupsen/logrus"
)

// Clock is the name of the clock port of every emitted module.
const Clock = "clock"

const backend = "rtl"

var (
	arithOps   = map[netlist.ArithOp]string{netlist.OpAdd: "+", netlist.OpSub: "-", netlist.OpMul: "*", netlist.OpDiv: "/", netlist.OpMod: "%"}
	bitwiseOps = map[netlist.BitwiseOp]string{netlist.OpAnd: "&", netlist.OpOr: "|", netlist.OpXor: "^"}
	shiftOps   = map[netlist.ShiftOp]string{netlist.OpShl: "<<", netlist.OpShr: ">>", netlist.OpSra: ">>>"}
	compareOps = map[netlist.CompareOp]string{netlist.OpEq: "==", netlist.OpNeq: "!=", netlist.OpLt: "<", netlist.OpLe: "<="}
	radixes    = map[netlist.Radix]string{netlist.Decimal: "%0d", netlist.Hex: "%0h", netlist.Binary: "%0b"}
	portName   = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)
)

// Emit translates a netlist into a single Verilog module with a given name.
// Every output port of every net is declared exactly once, with constants and
// registers initialised in their declaration.  External ports take the names
// of their input and output nets, which must be distinct legal identifiers.  Combinational nets become
// continuous assignments, whilst registers, displays and finishes share a
// single always block on the rising edge of the clock.  The netlist must be
// structurally valid and free of combinational cycles.
func Emit(nl *netlist.Netlist, name string) (*Module, error) {
	stats := util.NewPerfStats()
	//
	if err := nl.Validate(); err != nil {
		return nil, err
	} else if _, err := netlist.Order(nl); err != nil {
		return nil, err
	}
	//
	t := translator{nl: nl}
	//
	for _, n := range nl.Nets() {
		if err := t.translateNet(n); err != nil {
			return nil, err
		}
	}
	//
	if err := t.checkPorts(); err != nil {
		return nil, err
	}
	//
	module := &Module{Name: name}
	module.AddPort(Input, Clock, 1)
	module.Ports = append(module.Ports, t.ports...)
	module.Items = append(module.Items, t.decls...)
	module.Items = append(module.Items, t.assigns...)
	//
	if len(t.body) > 0 {
		module.Add(&Always{Clock, t.body})
	}
	//
	log.Debugf("rtl: %d ports, %d declarations, %d assignments, %d clocked statements", len(module.Ports),
		len(t.decls), len(t.assigns), len(t.body))
	stats.Log("rtl")
	//
	return module, nil
}

// translator accumulates the parts of a module whilst translating each net in
// turn.  The owners record the instance declaring each port.
type translator struct {
	nl      *netlist.Netlist
	ports   []Port
	owners  []netlist.Id
	decls   []Item
	assigns []Item
	body    []Stmt
}

func (t *translator) translateNet(n *netlist.Net) error {
	name := netlist.Identifier(n, 0)
	//
	switch p := n.Prim.(type) {
	case *netlist.In:
		t.ports = append(t.ports, Port{Input, p.Name, p.Width})
		t.owners = append(t.owners, n.Id)
		t.decls = append(t.decls, &Decl{Wire, name, p.Width, Id(p.Name)})
		//
		return nil
	case *netlist.Output:
		value, err := t.wire(n, 0)
		if err != nil {
			return err
		}
		//
		t.ports = append(t.ports, Port{Output, p.Name, p.Width})
		t.owners = append(t.owners, n.Id)
		t.assigns = append(t.assigns, &Assign{p.Name, value})
		//
		return nil
	case *netlist.Const:
		t.decls = append(t.decls, &Decl{Wire, name, p.Width, &Literal{p.Width, p.Value}})
		return nil
	case *netlist.DontCare:
		t.decls = append(t.decls, &Decl{Wire, name, p.Width, &Repeat{p.Width, &Undefined{}}})
		return nil
	case *netlist.Register:
		data, err := t.wire(n, 0)
		if err != nil {
			return err
		}
		//
		t.decls = append(t.decls, &Decl{Reg, name, p.Width, &Literal{p.Width, p.Init}})
		t.body = append(t.body, &NonBlocking{name, data})
		//
		return nil
	case *netlist.RegisterEn:
		return t.translateRegisterEn(n, p)
	case *netlist.Display:
		return t.translateDisplay(n, p)
	case *netlist.Finish:
		return t.guarded(n, &Task{"$finish", nil})
	case *netlist.Custom:
		return t.translateCustom(n, p)
	}
	// Everything else is combinational
	value, err := t.translateExpr(n)
	if err != nil {
		return err
	}
	//
	t.decls = append(t.decls, &Decl{Wire, name, n.Width(), nil})
	t.assigns = append(t.assigns, &Assign{name, value})
	//
	return nil
}

// Check every external port has a legal name, distinct from the clock, from
// every other port and from every generated identifier.
func (t *translator) checkPorts() error {
	used := map[string]bool{Clock: true}
	//
	for _, item := range t.decls {
		if decl, ok := item.(*Decl); ok {
			used[decl.Name] = true
		}
	}
	//
	for _, item := range t.assigns {
		if inst, ok := item.(*Instance); ok {
			used[inst.Name] = true
		}
	}
	//
	for i, port := range t.ports {
		var detail string
		//
		if !portName.MatchString(port.Name) {
			detail = fmt.Sprintf("invalid port name \"%s\"", port.Name)
		} else if used[port.Name] {
			detail = fmt.Sprintf("port name \"%s\" already in use", port.Name)
		} else {
			used[port.Name] = true
			continue
		}
		//
		return &netlist.StructuralError{Kind: netlist.PortConflict, Instance: t.owners[i], Detail: detail}
	}
	//
	return nil
}

func (t *translator) translateRegisterEn(n *netlist.Net, p *netlist.RegisterEn) error {
	name := netlist.Identifier(n, 0)
	//
	data, err := t.wire(n, 1)
	if err != nil {
		return err
	}
	//
	t.decls = append(t.decls, &Decl{Reg, name, p.Width, &Literal{p.Width, p.Init}})
	//
	return t.guarded(n, &NonBlocking{name, data})
}

func (t *translator) translateDisplay(n *netlist.Net, p *netlist.Display) error {
	var (
		format strings.Builder
		args   = []Expr{nil}
		next   = uint(1)
	)
	//
	for _, item := range p.Format {
		if item.IsLiteral() {
			format.WriteString(strings.ReplaceAll(item.Literal, "%", "%%"))
			continue
		}
		//
		arg, err := t.wire(n, next)
		if err != nil {
			return err
		}
		//
		format.WriteString(radixes[item.Radix])
		args = append(args, arg)
		next++
	}
	//
	args[0] = &StringLit{format.String()}
	//
	return t.guarded(n, &Task{"$write", args})
}

// Guard a statement by the enable signal given as the first input of a net.
func (t *translator) guarded(n *netlist.Net, stmt Stmt) error {
	enable, err := t.wire(n, 0)
	if err != nil {
		return err
	}
	//
	t.body = append(t.body, &If{Bin("==", enable, Bit(true)), []Stmt{stmt}})
	//
	return nil
}

func (t *translator) translateCustom(n *netlist.Net, p *netlist.Custom) error {
	var (
		named = true
		inst  = &Instance{Module: p.Name, Name: fmt.Sprintf("%s_inst", netlist.Identifier(n, 0))}
	)
	// Named connections are only possible when every port has a name.
	for _, port := range append(append([]netlist.PortSpec{}, p.Inputs...), p.Outputs...) {
		named = named && port.Name != ""
	}
	//
	connect := func(name string, value Expr) {
		if !named {
			name = ""
		}
		//
		inst.Ports = append(inst.Ports, Binding{name, value})
	}
	//
	for _, kv := range p.Params {
		inst.Params = append(inst.Params, Binding{kv.Key, Id(kv.Value)})
	}
	//
	if p.Clocked {
		connect(Clock, Id(Clock))
	}
	//
	for i, port := range p.Inputs {
		value, err := t.wire(n, uint(i))
		if err != nil {
			return err
		}
		//
		connect(port.Name, value)
	}
	//
	for i, port := range p.Outputs {
		name := netlist.Identifier(n, uint(i))
		t.decls = append(t.decls, &Decl{Wire, name, port.Width, nil})
		connect(port.Name, Id(name))
	}
	//
	t.assigns = append(t.assigns, inst)
	//
	return nil
}

// Translate a combinational net into the expression computing its value.
func (t *translator) translateExpr(n *netlist.Net) (Expr, error) {
	var args []*Ident
	//
	for i := range n.Inputs {
		arg, err := t.wire(n, uint(i))
		if err != nil {
			return nil, err
		}
		//
		args = append(args, arg)
	}
	//
	switch p := n.Prim.(type) {
	case *netlist.Arith:
		return Bin(arithOps[p.Op], args[0], args[1]), nil
	case *netlist.Bitwise:
		return Bin(bitwiseOps[p.Op], args[0], args[1]), nil
	case *netlist.Not:
		return &Unary{"~", args[0]}, nil
	case *netlist.Shift:
		if p.Op == netlist.OpSra {
			return Bin(shiftOps[p.Op], &Call{"$signed", []Expr{args[0]}}, args[1]), nil
		}
		//
		return Bin(shiftOps[p.Op], args[0], args[1]), nil
	case *netlist.Compare:
		return Bin(compareOps[p.Op], args[0], args[1]), nil
	case *netlist.ZeroExt:
		return extend(args[0], p.In, p.Out, Bit(false)), nil
	case *netlist.SignExt:
		return extend(args[0], p.In, p.Out, bitOf(args[0], p.In, p.In-1)), nil
	case *netlist.Select:
		if p.InWidth == 1 {
			return args[0], nil
		}
		//
		return &Slice{args[0], p.Hi, p.Lo}, nil
	case *netlist.Concat:
		return &Concat{[]Expr{args[0], args[1]}}, nil
	case *netlist.Replicate:
		return &Repeat{p.Width, args[0]}, nil
	case *netlist.Mux:
		return &Ternary{args[0], args[2], args[1]}, nil
	case *netlist.Identity:
		return args[0], nil
	case *netlist.CountOnes:
		return countOnes(args[0], p.InWidth, p.OutWidth), nil
	}
	//
	return nil, netlist.NewUnsupportedError(backend, n.Id, n.Prim)
}

// Pad a value of a given width on the left with copies of a given bit.
func extend(x *Ident, in, out uint, pad Expr) Expr {
	if in == out {
		return x
	}
	//
	return &Concat{[]Expr{&Repeat{out - in, pad}, x}}
}

// Render the population count of a value as a chain of additions of its
// zero-extended bits.
func countOnes(x *Ident, in, out uint) Expr {
	var sum Expr
	//
	for i := uint(0); i < in; i++ {
		bit := bitOf(x, in, i)
		//
		if out > 1 {
			bit = &Concat{[]Expr{&Repeat{out - 1, Bit(false)}, bit}}
		}
		//
		if sum == nil {
			sum = bit
		} else {
			sum = Bin("+", sum, bit)
		}
	}
	//
	return sum
}

// Select the ith bit of a value of a given width.  Scalars cannot be indexed.
func bitOf(x *Ident, width, i uint) Expr {
	if width == 1 {
		return x
	}
	//
	return &Slice{x, i, i}
}

// Determine the identifier of the wire connected to the ith input of a given
// net.  Inlined inputs are not supported by this backend.
func (t *translator) wire(n *netlist.Net, i uint) (*Ident, error) {
	w, ok := n.InputWire(i)
	if !ok {
		return nil, netlist.NewUnsupportedError(backend, n.Id, n.Inputs[i].(*netlist.InlineInput).Prim)
	}
	//
	index, _, err := t.nl.Resolve(w)
	if err != nil {
		return nil, err
	}
	//
	driver, _ := t.nl.Get(w.Instance)
	//
	return Id(netlist.Identifier(driver, index)), nil
}

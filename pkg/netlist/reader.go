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
	"math/big"
	"strconv"
	"strings"

	"github.com/consensys/go-netlist/pkg/util/source"
	"github.com/consensys/go-netlist/pkg/util/source/sexp"
	log "github.com/sirupsen/logrus"
)

// Read a netlist from a given source file in the s-expression interchange
// format (see Lisp).  Syntax errors are reported as *source.SyntaxError,
// whilst a syntactically correct netlist which fails validation is reported
// as a *StructuralError.
func Read(srcfile *source.File) (*Netlist, error) {
	terms, srcmap, serr := sexp.ParseAll(srcfile)
	if serr != nil {
		return nil, serr
	}
	//
	r := reader{srcfile, srcmap}
	seen := make(map[Id]bool)
	nets := make([]*Net, 0, len(terms))
	//
	for _, term := range terms {
		n, err := r.readNet(term)
		if err != nil {
			return nil, err
		} else if seen[n.Id] {
			return nil, r.error(term, fmt.Sprintf("duplicate instance %d", n.Id))
		}
		//
		seen[n.Id] = true
		nets = append(nets, n)
	}
	//
	nl := New(nets...)
	if err := nl.Validate(); err != nil {
		return nil, err
	}
	//
	log.Debugf("read %d nets from %s", len(nets), srcfile.Filename())
	//
	return nl, nil
}

// ReadString reads a netlist from a string, which is convenient for testing.
func ReadString(contents string) (*Netlist, error) {
	return Read(source.NewSourceFile("<string>", []byte(contents)))
}

type reader struct {
	srcfile *source.File
	srcmap  *source.Map[sexp.SExp]
}

func (r *reader) error(term sexp.SExp, msg string) *source.SyntaxError {
	return r.srcfile.SyntaxError(r.srcmap.Get(term), msg)
}

func (r *reader) readNet(term sexp.SExp) (*Net, *source.SyntaxError) {
	list := term.AsList()
	//
	if list == nil || !list.MatchSymbols(1, "net") || list.Len() < 4 || list.Len() > 5 {
		return nil, r.error(term, "expected (net id (primitive) (inputs ...) [(hints ...)])")
	}
	//
	id, err := r.readUint(list.Get(1))
	if err != nil {
		return nil, err
	}
	//
	prim, err := r.readPrimitive(list.Get(2))
	if err != nil {
		return nil, err
	}
	//
	inputs, err := r.readInputs(list.Get(3))
	if err != nil {
		return nil, err
	}
	//
	var hints []string
	//
	if list.Len() == 5 {
		if hints, err = r.readHints(list.Get(4)); err != nil {
			return nil, err
		}
	}
	//
	return NewNet(id, prim, inputs, hints...), nil
}

func (r *reader) readInputs(term sexp.SExp) ([]Input, *source.SyntaxError) {
	list := term.AsList()
	if list == nil || !list.MatchSymbols(1, "inputs") {
		return nil, r.error(term, "expected (inputs ...)")
	}
	//
	inputs := make([]Input, 0, list.Len()-1)
	//
	for _, e := range list.Elements[1:] {
		input, err := r.readInput(e)
		if err != nil {
			return nil, err
		}
		//
		inputs = append(inputs, input)
	}
	//
	return inputs, nil
}

func (r *reader) readInput(term sexp.SExp) (Input, *source.SyntaxError) {
	if sym := term.AsSymbol(); sym != nil {
		wire, ok := parseWire(sym.Value)
		if !ok {
			return nil, r.error(term, "invalid wire")
		}
		//
		return &WireInput{wire}, nil
	}
	//
	list := term.AsList()
	if list == nil || !list.MatchSymbols(1, "inline") || list.Len() < 2 {
		return nil, r.error(term, "expected wire or (inline (primitive) inputs...)")
	}
	//
	prim, err := r.readPrimitive(list.Get(1))
	if err != nil {
		return nil, err
	}
	//
	var args []Input
	//
	for _, e := range list.Elements[2:] {
		arg, err := r.readInput(e)
		if err != nil {
			return nil, err
		}
		//
		args = append(args, arg)
	}
	//
	return &InlineInput{prim, args}, nil
}

// parseWire parses a wire written as "id", "id.port" or "id.name".
func parseWire(s string) (Wire, bool) {
	parts := strings.SplitN(s, ".", 2)
	//
	id, err := strconv.ParseUint(parts[0], 10, 64)
	if err != nil {
		return Wire{}, false
	} else if len(parts) == 1 {
		return NewWire(uint(id), 0), true
	} else if parts[1] == "" {
		return Wire{}, false
	} else if port, err := strconv.ParseUint(parts[1], 10, 64); err == nil {
		return NewWire(uint(id), uint(port)), true
	}
	//
	return NewNamedWire(uint(id), parts[1]), true
}

func (r *reader) readHints(term sexp.SExp) ([]string, *source.SyntaxError) {
	list := term.AsList()
	if list == nil || !list.MatchSymbols(1, "hints") {
		return nil, r.error(term, "expected (hints ...)")
	}
	//
	var hints []string
	//
	for _, e := range list.Elements[1:] {
		sym := e.AsSymbol()
		if sym == nil {
			return nil, r.error(e, "expected hint")
		}
		//
		hints = append(hints, sym.Value)
	}
	//
	return hints, nil
}

var (
	arithOps   = opTable(OpAdd, OpSub, OpMul, OpDiv, OpMod)
	bitwiseOps = opTable(OpAnd, OpOr, OpXor)
	shiftOps   = opTable(OpShl, OpShr, OpSra)
	compareOps = opTable(OpEq, OpNeq, OpLt, OpLe)
	radixes    = map[string]Radix{"d": Decimal, "h": Hex, "b": Binary}
)

func opTable[T fmt.Stringer](ops ...T) map[string]T {
	table := make(map[string]T, len(ops))
	for _, op := range ops {
		table[op.String()] = op
	}
	//
	return table
}

// readPrimitive reads a primitive, such as "(add 8)" or "(select 16 7 0)".
func (r *reader) readPrimitive(term sexp.SExp) (Primitive, *source.SyntaxError) {
	list := term.AsList()
	if list == nil || list.Head() == "" {
		return nil, r.error(term, "expected primitive")
	}
	//
	head := list.Head()
	// Operator families first
	if op, ok := arithOps[head]; ok {
		ws, err := r.readWidths(list, 1)
		return wrap(err, func() Primitive { return &Arith{op, ws[0]} })
	} else if op, ok := bitwiseOps[head]; ok {
		ws, err := r.readWidths(list, 1)
		return wrap(err, func() Primitive { return &Bitwise{op, ws[0]} })
	} else if op, ok := shiftOps[head]; ok {
		ws, err := r.readWidths(list, 2)
		return wrap(err, func() Primitive { return &Shift{op, ws[0], ws[1]} })
	} else if op, ok := compareOps[head]; ok {
		ws, err := r.readWidths(list, 1)
		return wrap(err, func() Primitive { return &Compare{op, ws[0]} })
	}
	//
	switch head {
	case "const", "reg", "regen":
		if list.Len() != 3 {
			return nil, r.error(term, fmt.Sprintf("%s expects value and width", head))
		}
		//
		value, err := r.readBig(list.Get(1))
		if err != nil {
			return nil, err
		}
		//
		width, err := r.readWidth(list.Get(2))
		if err != nil {
			return nil, err
		} else if value.BitLen() > int(width) {
			return nil, r.error(list.Get(1), fmt.Sprintf("value does not fit in %d bits", width))
		}
		//
		switch head {
		case "const":
			return &Const{value, width}, nil
		case "reg":
			return &Register{value, width}, nil
		default:
			return &RegisterEn{value, width}, nil
		}
	case "input", "output":
		if list.Len() != 3 || list.Get(1).AsSymbol() == nil {
			return nil, r.error(term, fmt.Sprintf("%s expects name and width", head))
		}
		//
		name := list.Get(1).AsSymbol().Value
		//
		width, err := r.readWidth(list.Get(2))
		if err != nil {
			return nil, err
		} else if head == "input" {
			return &In{name, width}, nil
		}
		//
		return &Output{name, width}, nil
	case "dontcare":
		ws, err := r.readWidths(list, 1)
		return wrap(err, func() Primitive { return &DontCare{ws[0]} })
	case "not":
		ws, err := r.readWidths(list, 1)
		return wrap(err, func() Primitive { return &Not{ws[0]} })
	case "zext", "sext":
		ws, err := r.readWidths(list, 2)
		if err == nil && ws[1] < ws[0] {
			return nil, r.error(term, "extension cannot narrow")
		} else if head == "zext" {
			return wrap(err, func() Primitive { return &ZeroExt{ws[0], ws[1]} })
		}
		//
		return wrap(err, func() Primitive { return &SignExt{ws[0], ws[1]} })
	case "select":
		return r.readSelect(list)
	case "concat":
		ws, err := r.readWidths(list, 2)
		return wrap(err, func() Primitive { return &Concat{ws[0], ws[1]} })
	case "replicate":
		ws, err := r.readWidths(list, 1)
		return wrap(err, func() Primitive { return &Replicate{ws[0]} })
	case "mux":
		ws, err := r.readWidths(list, 1)
		return wrap(err, func() Primitive { return &Mux{ws[0]} })
	case "id":
		ws, err := r.readWidths(list, 1)
		return wrap(err, func() Primitive { return &Identity{ws[0]} })
	case "countones":
		ws, err := r.readWidths(list, 2)
		return wrap(err, func() Primitive { return &CountOnes{ws[0], ws[1]} })
	case "display":
		return r.readDisplay(list)
	case "finish":
		if list.Len() != 1 {
			return nil, r.error(term, "finish expects no parameters")
		}
		//
		return &Finish{}, nil
	case "custom":
		return r.readCustom(list)
	}
	//
	return nil, r.error(list.Get(0), fmt.Sprintf("unknown primitive %s", head))
}

func wrap(err *source.SyntaxError, fn func() Primitive) (Primitive, *source.SyntaxError) {
	if err != nil {
		return nil, err
	}
	//
	return fn(), nil
}

func (r *reader) readSelect(list *sexp.List) (Primitive, *source.SyntaxError) {
	if list.Len() != 4 {
		return nil, r.error(list, "select expects input width, hi and lo")
	}
	//
	var params [3]uint
	//
	for i := range params {
		v, err := r.readUint(list.Get(i + 1))
		if err != nil {
			return nil, err
		}
		//
		params[i] = v
	}
	//
	if params[1] < params[2] || params[1] >= params[0] {
		return nil, r.error(list, fmt.Sprintf("invalid bit range [%d:%d] of %d bits", params[1], params[2], params[0]))
	}
	//
	return &Select{params[0], params[1], params[2]}, nil
}

func (r *reader) readDisplay(list *sexp.List) (Primitive, *source.SyntaxError) {
	var items []FormatItem
	//
	for _, e := range list.Elements[1:] {
		if str := e.AsString(); str != nil {
			items = append(items, FormatItem{Literal: str.Value})
			continue
		}
		//
		arg := e.AsList()
		if arg == nil || arg.Len() != 2 {
			return nil, r.error(e, "expected literal or (d|h|b width)")
		}
		//
		radix, ok := radixes[arg.Head()]
		if !ok {
			return nil, r.error(arg.Get(0), "unknown radix")
		}
		//
		width, err := r.readWidth(arg.Get(1))
		if err != nil {
			return nil, err
		}
		//
		items = append(items, FormatItem{Width: width, Radix: radix})
	}
	//
	return &Display{items}, nil
}

func (r *reader) readCustom(list *sexp.List) (Primitive, *source.SyntaxError) {
	if list.Len() < 5 || list.Len() > 6 || list.Get(1).AsSymbol() == nil {
		return nil, r.error(list, "expected (custom name (in ...) (out ...) (params ...) [clocked])")
	}
	//
	custom := &Custom{Name: list.Get(1).AsSymbol().Value}
	//
	var err *source.SyntaxError
	//
	if custom.Inputs, err = r.readPorts(list.Get(2), "in"); err != nil {
		return nil, err
	} else if custom.Outputs, err = r.readPorts(list.Get(3), "out"); err != nil {
		return nil, err
	}
	//
	params := list.Get(4).AsList()
	if params == nil || !params.MatchSymbols(1, "params") {
		return nil, r.error(list.Get(4), "expected (params ...)")
	}
	//
	for _, e := range params.Elements[1:] {
		kv := e.AsList()
		if kv == nil || kv.Len() != 2 || kv.Get(0).AsSymbol() == nil || kv.Get(1).AsString() == nil {
			return nil, r.error(e, "expected (key \"value\")")
		}
		//
		custom.Params = append(custom.Params, Param{kv.Get(0).AsSymbol().Value, kv.Get(1).AsString().Value})
	}
	//
	if list.Len() == 6 {
		if sym := list.Get(5).AsSymbol(); sym == nil || sym.Value != "clocked" {
			return nil, r.error(list.Get(5), "expected clocked")
		}
		//
		custom.Clocked = true
	}
	//
	return custom, nil
}

func (r *reader) readPorts(term sexp.SExp, head string) ([]PortSpec, *source.SyntaxError) {
	list := term.AsList()
	if list == nil || !list.MatchSymbols(1, head) {
		return nil, r.error(term, fmt.Sprintf("expected (%s ...)", head))
	}
	//
	var ports []PortSpec
	//
	for _, e := range list.Elements[1:] {
		port := e.AsList()
		if port == nil || port.Len() != 2 || port.Get(0).AsSymbol() == nil {
			return nil, r.error(e, "expected (name width)")
		}
		//
		width, err := r.readWidth(port.Get(1))
		if err != nil {
			return nil, err
		}
		//
		ports = append(ports, PortSpec{port.Get(0).AsSymbol().Value, width})
	}
	//
	return ports, nil
}

// readWidths reads exactly n width parameters following the head of a list.
func (r *reader) readWidths(list *sexp.List, n int) ([]uint, *source.SyntaxError) {
	if list.Len() != n+1 {
		return nil, r.error(list, fmt.Sprintf("%s expects %d parameter(s)", list.Head(), n))
	}
	//
	widths := make([]uint, n)
	//
	for i := range widths {
		w, err := r.readWidth(list.Get(i + 1))
		if err != nil {
			return nil, err
		}
		//
		widths[i] = w
	}
	//
	return widths, nil
}

func (r *reader) readWidth(term sexp.SExp) (uint, *source.SyntaxError) {
	w, err := r.readUint(term)
	if err == nil && w == 0 {
		return 0, r.error(term, "width must be positive")
	}
	//
	return w, err
}

func (r *reader) readUint(term sexp.SExp) (uint, *source.SyntaxError) {
	if sym := term.AsSymbol(); sym != nil {
		if v, err := strconv.ParseUint(sym.Value, 10, 64); err == nil {
			return uint(v), nil
		}
	}
	//
	return 0, r.error(term, "expected unsigned integer")
}

func (r *reader) readBig(term sexp.SExp) (*big.Int, *source.SyntaxError) {
	if sym := term.AsSymbol(); sym != nil {
		if v, ok := new(big.Int).SetString(sym.Value, 0); ok && v.Sign() >= 0 {
			return v, nil
		}
	}
	//
	return nil, r.error(term, "expected unsigned integer")
}

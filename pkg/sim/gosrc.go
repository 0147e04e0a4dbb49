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
	"bytes"
	"fmt"
	"math/big"
	"strconv"
	"strings"

	"github.com/consensys/go-netlist/pkg/netlist"
	"github.com/consensys/go-netlist/pkg/sim/bv"
	"golang.org/x/tools/imports"
)

// RuntimePackage is the import path of the bit-vector package on which
// generated sources depend.
const RuntimePackage = "github.com/consensys/go-netlist/pkg/sim/bv"

var (
	nativeArith   = map[netlist.ArithOp]string{netlist.OpAdd: "+", netlist.OpSub: "-", netlist.OpMul: "*"}
	wideArith     = map[netlist.ArithOp]string{netlist.OpAdd: "Add", netlist.OpSub: "Sub", netlist.OpMul: "Mul", netlist.OpDiv: "Div", netlist.OpMod: "Mod"}
	nativeBitwise = map[netlist.BitwiseOp]string{netlist.OpAnd: "&", netlist.OpOr: "|", netlist.OpXor: "^"}
	wideBitwise   = map[netlist.BitwiseOp]string{netlist.OpAnd: "And", netlist.OpOr: "Or", netlist.OpXor: "Xor"}
	wideShift     = map[netlist.ShiftOp]string{netlist.OpShl: "Shl", netlist.OpShr: "Shr", netlist.OpSra: "Sra"}
	nativeCompare = map[netlist.CompareOp]string{netlist.OpEq: "==", netlist.OpNeq: "!=", netlist.OpLt: "<", netlist.OpLe: "<="}
	wideCompare   = map[netlist.CompareOp]string{netlist.OpEq: "bv.Eq", netlist.OpNeq: "!bv.Eq", netlist.OpLt: "bv.Lt", netlist.OpLe: "bv.Le"}
	verbs         = map[netlist.Radix]string{netlist.Decimal: "%d", netlist.Hex: "%x", netlist.Binary: "%b"}
)

// WriteGo renders a program as the source of a standalone Go package with a
// given name.  The package declares a State type holding the inputs, outputs
// and registers of the circuit, a constructor New returning the initial state,
// and a method Step executing one clock cycle (and reporting whether a finish
// fired).  Values of at most 64 bits use the smallest native unsigned type
// which holds them, whilst wider values are arrays of words manipulated with
// the bit-vector runtime.  Inputs must be kept within their declared widths.
func WriteGo(prog *Program, pkg string) ([]byte, error) {
	g := goWriter{prog: prog}
	//
	g.writeStep()
	//
	var out bytes.Buffer
	//
	out.WriteString("// Code generated by go-netlist. DO NOT EDIT.\n\n")
	fmt.Fprintf(&out, "package %s\n\n", pkg)
	g.writeImports(&out)
	g.writeState(&out)
	g.writeNew(&out)
	out.Write(g.body.Bytes())
	//
	if g.usesB2u {
		out.WriteString("\nfunc b2u(b bool) uint8 {\n\tif b {\n\t\treturn 1\n\t}\n\treturn 0\n}\n")
	}
	//
	return imports.Process(pkg+".go", out.Bytes(), &imports.Options{FormatOnly: true, Comments: true,
		TabIndent: true, TabWidth: 8})
}

type goWriter struct {
	prog *Program
	body bytes.Buffer
	// Packages and helpers referenced by the body
	usesFmt, usesBits, usesBv, usesB2u bool
}

func (g *goWriter) writeImports(out *bytes.Buffer) {
	var paths []string
	//
	if g.usesFmt {
		paths = append(paths, strconv.Quote("fmt"))
	}
	//
	if g.usesBits {
		paths = append(paths, strconv.Quote("math/bits"))
	}
	//
	if g.usesBv {
		paths = append(paths, "", strconv.Quote(RuntimePackage))
	}
	//
	if len(paths) > 0 {
		fmt.Fprintf(out, "import (\n%s\n)\n\n", strings.Join(paths, "\n"))
	}
}

func (g *goWriter) writeState(out *bytes.Buffer) {
	out.WriteString("// State holds the inputs, outputs and registers of a circuit.\n")
	out.WriteString("type State struct {\n")
	//
	for i, s := range g.prog.Slots {
		if !isField(s.Kind) {
			continue
		}
		//
		fmt.Fprintf(out, "%s %s", field(s.Name), goType(s.Width))
		//
		if s.Label != "" {
			fmt.Fprintf(out, " // %s", s.Label)
		} else if s.Kind == Snapshot {
			fmt.Fprintf(out, " // start of cycle value of %s", field(g.prog.Slots[g.snapshotOf(uint(i))].Name))
		}
		//
		out.WriteString("\n")
	}
	//
	out.WriteString("}\n\n")
}

func (g *goWriter) snapshotOf(slot uint) uint {
	for _, s := range g.prog.Snapshots {
		if s.Dst == slot {
			return s.Src
		}
	}
	//
	panic("unknown snapshot")
}

func (g *goWriter) writeNew(out *bytes.Buffer) {
	out.WriteString("// New constructs a state with every register at its initial value.\n")
	out.WriteString("func New() *State {\n\ts := &State{}\n")
	//
	for _, i := range g.prog.SlotsOf(State) {
		s := g.prog.Slots[i]
		//
		if s.Init.Sign() != 0 {
			fmt.Fprintf(out, "s.%s = %s\n", field(s.Name), literal(s.Init, s.Width))
		}
	}
	//
	out.WriteString("return s\n}\n\n")
}

func (g *goWriter) writeStep() {
	g.line("// Step executes a single clock cycle, returning true if the circuit finished.")
	g.line("func (s *State) Step() bool {")
	g.line("finished := false")
	//
	for _, c := range g.prog.Snapshots {
		g.line("%s = %s", g.ref(c.Dst), g.ref(c.Src))
	}
	//
	for _, i := range g.prog.SlotsOf(Constant) {
		c := g.prog.Slots[i]
		g.line("%s := %s", c.Name, literal(c.Init, c.Width))
	}
	//
	for _, stmt := range g.prog.Statements()[len(g.prog.Snapshots):] {
		g.writeStmt(stmt)
	}
	//
	g.line("return finished")
	g.line("}")
}

func (g *goWriter) writeStmt(stmt Stmt) {
	switch s := stmt.(type) {
	case *Eval:
		g.writeEval(s)
	case *Borrow:
		g.line("%s := %s", g.prog.Slots[s.View].Name, g.slice(s.Candidates[0]))
		//
		if s.Select != NoSlot {
			g.line("if %s != 0 {", g.ref(s.Select))
			g.line("%s = %s", g.prog.Slots[s.View].Name, g.slice(s.Candidates[1]))
			g.line("}")
		}
	case *Copy:
		g.assign(s.Dst, s.Src)
	case *Print:
		g.line("if %s != 0 {", g.ref(s.Enable))
		g.writePrint(s)
		g.line("}")
	case *Halt:
		g.line("if %s != 0 {", g.ref(s.Enable))
		g.line("finished = true")
		g.line("}")
	case *Update:
		if s.Enable != NoSlot {
			g.line("if %s != 0 {", g.ref(s.Enable))
			g.assign(s.Reg, s.Src)
			g.line("}")
		} else {
			g.assign(s.Reg, s.Src)
		}
	}
}

// Assign the value of one slot to another of the same width.
func (g *goWriter) assign(dst, src uint) {
	if g.prog.Slots[dst].IsWide() {
		g.line("bv.Copy(%s, %s, %d)", g.slice(dst), g.slice(src), g.prog.Slots[dst].Width)
		g.usesBv = true
	} else {
		g.line("%s = %s", g.ref(dst), g.ref(src))
	}
}

func (g *goWriter) writePrint(p *Print) {
	var (
		format strings.Builder
		args   []string
		next   int
	)
	//
	for _, item := range p.Format {
		if item.IsLiteral() {
			format.WriteString(strings.ReplaceAll(item.Literal, "%", "%%"))
			continue
		}
		//
		arg := p.Args[next]
		next++
		//
		if slot := g.prog.Slots[arg]; slot.IsWide() {
			format.WriteString("%s")
			args = append(args, fmt.Sprintf("bv.Format(%s, %d, %d)", g.slice(arg), slot.Width, bases[item.Radix]))
			g.usesBv = true
		} else {
			format.WriteString(verbs[item.Radix])
			args = append(args, g.ref(arg))
		}
	}
	//
	g.usesFmt = true
	//
	if len(args) == 0 {
		g.line("fmt.Print(%s)", strconv.Quote(strings.ReplaceAll(format.String(), "%%", "%")))
	} else {
		g.line("fmt.Printf(%s, %s)", strconv.Quote(format.String()), strings.Join(args, ", "))
	}
}

func (g *goWriter) writeEval(e *Eval) {
	var (
		dst  = g.prog.Slots[e.Dst]
		args = e.Args
	)
	//
	if _, ok := e.Prim.(*netlist.Mux); ok && !dst.IsWide() {
		g.line("%s := %s", dst.Name, g.ref(args[1]))
		g.line("if %s != 0 {", g.ref(args[0]))
		g.line("%s = %s", dst.Name, g.ref(args[2]))
		g.line("}")
		//
		return
	} else if !dst.IsWide() {
		g.line("%s := %s", dst.Name, g.native(e.Prim, dst.Width, args))
		return
	}
	//
	g.usesBv = true
	g.line("var %s %s", dst.Name, goType(dst.Width))
	//
	target := dst.Name + "[:]"
	//
	switch p := e.Prim.(type) {
	case *netlist.Arith:
		g.line("bv.%s(%s, %s, %s, %d)", wideArith[p.Op], target, g.slice(args[0]), g.slice(args[1]), p.Width)
	case *netlist.Bitwise:
		g.line("bv.%s(%s, %s, %s, %d)", wideBitwise[p.Op], target, g.slice(args[0]), g.slice(args[1]), p.Width)
	case *netlist.Not:
		g.line("bv.Not(%s, %s, %d)", target, g.slice(args[0]), p.Width)
	case *netlist.Shift:
		g.line("bv.%s(%s, %s, %s, %d)", wideShift[p.Op], target, g.slice(args[0]), g.amount(args[1]), p.Width)
	case *netlist.ZeroExt:
		g.line("bv.ZeroExtend(%s, %s, %d, %d)", target, g.slice(args[0]), p.In, p.Out)
	case *netlist.SignExt:
		g.line("bv.SignExtend(%s, %s, %d, %d)", target, g.slice(args[0]), p.In, p.Out)
	case *netlist.Select:
		g.line("bv.Extract(%s, %s, %d, %d)", target, g.slice(args[0]), p.Hi, p.Lo)
	case *netlist.Concat:
		g.line("bv.Concat(%s, %s, %s, %d, %d)", target, g.slice(args[0]), g.slice(args[1]), p.WidthA, p.WidthB)
	case *netlist.Replicate:
		g.line("bv.Fill(%s, %s != 0, %d)", target, g.ref(args[0]), p.Width)
	case *netlist.CountOnes:
		g.line("bv.FromUint64(%s, %s, %d)", target, g.popCount(args[0], p.InWidth), p.OutWidth)
	default:
		panic(fmt.Sprintf("cannot render %s", e.Prim))
	}
}

// Render the expression computing a primitive whose result is native.
func (g *goWriter) native(prim netlist.Primitive, width uint, args []uint) string {
	var (
		t    = goType(width)
		refs = make([]string, len(args))
	)
	//
	for i, arg := range args {
		refs[i] = g.ref(arg)
	}
	//
	switch p := prim.(type) {
	case *netlist.Arith:
		switch p.Op {
		case netlist.OpDiv:
			g.usesBv = true
			return fmt.Sprintf("%s(bv.DivWord(uint64(%s), uint64(%s), %d))", t, refs[0], refs[1], width)
		case netlist.OpMod:
			g.usesBv = true
			return fmt.Sprintf("%s(bv.ModWord(uint64(%s), uint64(%s)))", t, refs[0], refs[1])
		}
		//
		return masked(fmt.Sprintf("%s %s %s", refs[0], nativeArith[p.Op], refs[1]), width)
	case *netlist.Bitwise:
		return fmt.Sprintf("%s %s %s", refs[0], nativeBitwise[p.Op], refs[1])
	case *netlist.Not:
		return masked("^"+refs[0], width)
	case *netlist.Shift:
		amount := g.amount(args[1])
		//
		switch p.Op {
		case netlist.OpShl:
			return masked(fmt.Sprintf("%s << %s", refs[0], amount), width)
		case netlist.OpShr:
			return fmt.Sprintf("%s >> %s", refs[0], amount)
		default:
			g.usesBv = true
			return fmt.Sprintf("%s(bv.SraWord(uint64(%s), %s, %d))", t, refs[0], amount, width)
		}
	case *netlist.Compare:
		g.usesB2u = true
		//
		if ClassOf(p.Width) != Wide {
			return fmt.Sprintf("b2u(%s %s %s)", refs[0], nativeCompare[p.Op], refs[1])
		}
		//
		g.usesBv = true
		//
		return fmt.Sprintf("b2u(%s(%s, %s, %d))", wideCompare[p.Op], g.slice(args[0]), g.slice(args[1]), p.Width)
	case *netlist.ZeroExt:
		return fmt.Sprintf("%s(%s)", t, refs[0])
	case *netlist.SignExt:
		g.usesBv = true
		return fmt.Sprintf("%s(bv.SignExtendWord(uint64(%s), %d, %d))", t, refs[0], p.In, p.Out)
	case *netlist.Select:
		if ClassOf(p.InWidth) == Wide {
			g.usesBv = true
			return fmt.Sprintf("%s(bv.ExtractUint64(%s, %d, %d))", t, g.slice(args[0]), p.Hi, p.Lo)
		} else if p.Lo == 0 {
			return masked(fmt.Sprintf("%s(%s)", t, refs[0]), width)
		}
		//
		return masked(fmt.Sprintf("%s(%s >> %d)", t, refs[0], p.Lo), width)
	case *netlist.Concat:
		return fmt.Sprintf("%s(uint64(%s)<<%d | uint64(%s))", t, refs[0], p.WidthB, refs[1])
	case *netlist.Replicate:
		return masked(fmt.Sprintf("-%s(%s)", t, refs[0]), width)
	case *netlist.Identity:
		return refs[0]
	case *netlist.CountOnes:
		return masked(fmt.Sprintf("%s(%s)", t, g.popCount(args[0], p.InWidth)), width)
	}
	//
	panic(fmt.Sprintf("cannot render %s", prim))
}

// Render the number of set bits in a slot as a uint64.
func (g *goWriter) popCount(slot uint, width uint) string {
	if ClassOf(width) == Wide {
		g.usesBv = true
		return fmt.Sprintf("bv.PopCount(%s, %d)", g.slice(slot), width)
	}
	//
	g.usesBits = true
	//
	return fmt.Sprintf("uint64(bits.OnesCount64(uint64(%s)))", g.ref(slot))
}

// Render a shift amount.  Wide amounts saturate, since any amount beyond the
// width of the shifted value is equivalent.
func (g *goWriter) amount(slot uint) string {
	if s := g.prog.Slots[slot]; s.IsWide() {
		g.usesBv = true
		return fmt.Sprintf("bv.Saturate(%s, %d)", g.slice(slot), s.Width)
	}
	//
	return fmt.Sprintf("uint64(%s)", g.ref(slot))
}

// Render a reference to the value held in a given slot.
func (g *goWriter) ref(slot uint) string {
	s := g.prog.Slots[slot]
	//
	if isField(s.Kind) {
		return "s." + field(s.Name)
	}
	//
	return s.Name
}

// Render a given slot as a slice of words.
func (g *goWriter) slice(slot uint) string {
	switch s := g.prog.Slots[slot]; {
	case s.Kind == View:
		return s.Name
	case s.IsWide():
		return g.ref(slot) + "[:]"
	default:
		return fmt.Sprintf("[]uint64{uint64(%s)}", g.ref(slot))
	}
}

func (g *goWriter) line(format string, args ...any) {
	fmt.Fprintf(&g.body, format, args...)
	g.body.WriteString("\n")
}

// Slots of these kinds are held in the state, rather than recomputed locally on
// every cycle.
func isField(kind SlotKind) bool {
	return kind == Input || kind == Output || kind == State || kind == Snapshot
}

// Exported name of the state field holding a given slot.
func field(name string) string {
	return strings.ToUpper(name[:1]) + name[1:]
}

func goType(width uint) string {
	if c := ClassOf(width); c != Wide {
		return fmt.Sprintf("uint%d", c.Bits())
	}
	//
	return fmt.Sprintf("[%d]uint64", bv.Chunks(width))
}

// Clear the bits of a native expression above a given width, unless its type
// has exactly that width.
func masked(expr string, width uint) string {
	if ClassOf(width).Bits() == width {
		return expr
	}
	//
	return fmt.Sprintf("(%s) & %#x", expr, bv.MaskWord(width))
}

// Render a value of a given width as a Go literal of the corresponding type.
func literal(value *big.Int, width uint) string {
	if ClassOf(width) != Wide {
		return fmt.Sprintf("%s(%#x)", goType(width), value)
	}
	//
	var (
		words = make([]uint64, bv.Chunks(width))
		items = make([]string, len(words))
	)
	//
	bv.FromBig(words, value, width)
	//
	for i, w := range words {
		items[i] = fmt.Sprintf("%#x", w)
	}
	//
	return fmt.Sprintf("%s{%s}", goType(width), strings.Join(items, ", "))
}

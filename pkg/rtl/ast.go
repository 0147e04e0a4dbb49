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
	"math/big"
	"strings"
)

// ============================================================================
// Modules
// ============================================================================

// Module is a single Verilog module, consisting of a port list followed by a
// sequence of module items.
type Module struct {
	Name  string
	Ports []Port
	Items []Item
}

// Direction of a module port.
type Direction uint8

const (
	// Input port
	Input Direction = iota
	// Output port
	Output
)

func (d Direction) String() string {
	if d == Input {
		return "input"
	}
	//
	return "output"
}

// Port is a single port of a module.
type Port struct {
	Dir   Direction
	Name  string
	Width uint
}

// AddPort appends a port to this module.
func (m *Module) AddPort(dir Direction, name string, width uint) {
	m.Ports = append(m.Ports, Port{dir, name, width})
}

// Add appends an item to this module.
func (m *Module) Add(item Item) {
	m.Items = append(m.Items, item)
}

// Item is a module item: a declaration, continuous assignment, instantiation
// or always block.
type Item interface {
	isItem()
}

// DeclKind distinguishes net declarations from variable declarations.
type DeclKind uint8

const (
	// Wire declares a net.
	Wire DeclKind = iota
	// Reg declares a variable.
	Reg
)

func (k DeclKind) String() string {
	if k == Wire {
		return "wire"
	}
	//
	return "reg"
}

// Decl declares a wire or reg of a given width, optionally initialised.
type Decl struct {
	Kind  DeclKind
	Name  string
	Width uint
	// Initial value (or nil).
	Init Expr
}

// Assign is a continuous assignment.
type Assign struct {
	Target string
	Value  Expr
}

// Binding is a named or positional connection (when Name is empty), used for
// both parameter overrides and port connections of an instance.
type Binding struct {
	Name  string
	Value Expr
}

// Instance instantiates another module.
type Instance struct {
	Module string
	Name   string
	Params []Binding
	Ports  []Binding
}

// Always is an always block triggered on the rising edge of a clock.
type Always struct {
	Clock string
	Body  []Stmt
}

func (*Decl) isItem()     {}
func (*Assign) isItem()   {}
func (*Instance) isItem() {}
func (*Always) isItem()   {}

// ============================================================================
// Statements
// ============================================================================

// Stmt is a procedural statement within an always block.
type Stmt interface {
	isStmt()
}

// NonBlocking is a non-blocking assignment "target <= value".
type NonBlocking struct {
	Target string
	Value  Expr
}

// If is a conditional statement without an else branch.
type If struct {
	Cond Expr
	Body []Stmt
}

// Task is a system task invocation, such as "$finish".
type Task struct {
	Name string
	Args []Expr
}

func (*NonBlocking) isStmt() {}
func (*If) isStmt()          {}
func (*Task) isStmt()        {}

// ============================================================================
// Expressions
// ============================================================================

// Expr is a Verilog expression.  String renders an expression without
// enclosing brackets, whilst compound subexpressions are bracketed as needed.
type Expr interface {
	fmt.Stringer
	isExpr()
}

// Ident refers to a declared wire, reg or port.
type Ident struct {
	Name string
}

// Literal is a sized, unsigned literal.  Single bit literals are written in
// binary, all others in decimal.
type Literal struct {
	Width uint
	Value *big.Int
}

// Undefined is the single-bit undefined value 1'bx.
type Undefined struct{}

// StringLit is a string literal, used only as a system task argument.
type StringLit struct {
	Value string
}

// Unary applies a prefix operator.
type Unary struct {
	Op string
	X  Expr
}

// Binary applies an infix operator.
type Binary struct {
	Op   string
	X, Y Expr
}

// Ternary is the conditional operator "cond ? then : else".
type Ternary struct {
	Cond, Then, Else Expr
}

// Concat concatenates its parts, most significant first.
type Concat struct {
	Parts []Expr
}

// Repeat replicates an expression a given number of times.
type Repeat struct {
	Count uint
	X     Expr
}

// Slice selects the bits [Hi:Lo] of an identifier.
type Slice struct {
	X      *Ident
	Hi, Lo uint
}

// Call applies a system function, such as "$signed".
type Call struct {
	Name string
	Args []Expr
}

// Id constructs an identifier.
func Id(name string) *Ident {
	return &Ident{name}
}

// Bit constructs a single bit literal.
func Bit(value bool) *Literal {
	if value {
		return &Literal{1, big.NewInt(1)}
	}
	//
	return &Literal{1, big.NewInt(0)}
}

// Bin constructs a binary expression.
func Bin(op string, x, y Expr) *Binary {
	return &Binary{op, x, y}
}

func (e *Ident) String() string { return e.Name }

func (e *Literal) String() string {
	if e.Width == 1 {
		return fmt.Sprintf("1'b%s", e.Value.Text(2))
	}
	//
	return fmt.Sprintf("%d'd%s", e.Width, e.Value.String())
}

func (e *Undefined) String() string { return "1'bx" }

func (e *StringLit) String() string {
	var builder strings.Builder
	//
	builder.WriteString("\"")
	//
	for _, r := range e.Value {
		switch r {
		case '"':
			builder.WriteString("\\\"")
		case '\\':
			builder.WriteString("\\\\")
		case '\n':
			builder.WriteString("\\n")
		case '\t':
			builder.WriteString("\\t")
		default:
			builder.WriteRune(r)
		}
	}
	//
	builder.WriteString("\"")
	//
	return builder.String()
}

func (e *Unary) String() string { return e.Op + operand(e.X) }

func (e *Binary) String() string {
	return fmt.Sprintf("%s %s %s", operand(e.X), e.Op, operand(e.Y))
}

func (e *Ternary) String() string {
	return fmt.Sprintf("%s ? %s : %s", operand(e.Cond), operand(e.Then), operand(e.Else))
}

func (e *Concat) String() string {
	parts := make([]string, len(e.Parts))
	for i, p := range e.Parts {
		parts[i] = p.String()
	}
	//
	return fmt.Sprintf("{%s}", strings.Join(parts, ", "))
}

func (e *Repeat) String() string { return fmt.Sprintf("{%d{%s}}", e.Count, e.X) }

func (e *Slice) String() string {
	if e.Hi == e.Lo {
		return fmt.Sprintf("%s[%d]", e.X, e.Hi)
	}
	//
	return fmt.Sprintf("%s[%d:%d]", e.X, e.Hi, e.Lo)
}

func (e *Call) String() string {
	args := make([]string, len(e.Args))
	for i, a := range e.Args {
		args[i] = a.String()
	}
	//
	return fmt.Sprintf("%s(%s)", e.Name, strings.Join(args, ", "))
}

// Bracket compound operands
func operand(e Expr) string {
	switch e.(type) {
	case *Unary, *Binary, *Ternary:
		return fmt.Sprintf("(%s)", e)
	default:
		return e.String()
	}
}

func (*Ident) isExpr()     {}
func (*Literal) isExpr()   {}
func (*Undefined) isExpr() {}
func (*StringLit) isExpr() {}
func (*Unary) isExpr()     {}
func (*Binary) isExpr()    {}
func (*Ternary) isExpr()   {}
func (*Concat) isExpr()    {}
func (*Repeat) isExpr()    {}
func (*Slice) isExpr()     {}
func (*Call) isExpr()      {}

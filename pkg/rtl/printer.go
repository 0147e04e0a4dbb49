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
	"io"
	"strings"
)

// Printer renders modules as Verilog source text.
type Printer struct {
	// Indentation used for each level of nesting.
	indent string
}

// NewPrinter constructs a printer which indents each level of nesting by a
// given number of spaces.
func NewPrinter(indent uint) *Printer {
	return &Printer{strings.Repeat(" ", int(indent))}
}

// WriteTo implements io.WriterTo for Module, using a printer with the default
// indentation of two spaces.
func (m *Module) WriteTo(w io.Writer) (int64, error) {
	return NewPrinter(2).Print(w, m)
}

func (m *Module) String() string {
	var b strings.Builder
	_, _ = m.WriteTo(&b)
	//
	return b.String()
}

// Print a given module to a given writer, returning the number of bytes
// written.
func (p *Printer) Print(w io.Writer, m *Module) (int64, error) {
	var builder strings.Builder
	//
	builder.WriteString(fmt.Sprintf("module %s (\n", m.Name))
	//
	for i, port := range m.Ports {
		builder.WriteString(fmt.Sprintf("%s%s %s%s", p.indent, port.Dir, rangeOf(port.Width), port.Name))
		//
		if i+1 != len(m.Ports) {
			builder.WriteString(",")
		}
		//
		builder.WriteString("\n")
	}
	//
	builder.WriteString(");\n")
	//
	for _, item := range m.Items {
		p.printItem(&builder, item)
	}
	//
	builder.WriteString("endmodule\n")
	//
	n, err := io.WriteString(w, builder.String())
	//
	return int64(n), err
}

func (p *Printer) printItem(builder *strings.Builder, item Item) {
	switch item := item.(type) {
	case *Decl:
		builder.WriteString(fmt.Sprintf("%s%s %s%s", p.indent, item.Kind, rangeOf(item.Width), item.Name))
		//
		if item.Init != nil {
			builder.WriteString(fmt.Sprintf(" = %s", item.Init))
		}
		//
		builder.WriteString(";\n")
	case *Assign:
		builder.WriteString(fmt.Sprintf("%sassign %s = %s;\n", p.indent, item.Target, item.Value))
	case *Instance:
		builder.WriteString(p.indent)
		builder.WriteString(item.Module)
		//
		if len(item.Params) > 0 {
			builder.WriteString(fmt.Sprintf(" #(%s)", bindings(item.Params)))
		}
		//
		builder.WriteString(fmt.Sprintf(" %s (%s);\n", item.Name, bindings(item.Ports)))
	case *Always:
		builder.WriteString(fmt.Sprintf("%salways @(posedge %s) begin\n", p.indent, item.Clock))
		p.printStmts(builder, 2, item.Body)
		builder.WriteString(fmt.Sprintf("%send\n", p.indent))
	default:
		panic(fmt.Sprintf("unknown module item %T", item))
	}
}

func (p *Printer) printStmts(builder *strings.Builder, depth int, stmts []Stmt) {
	indent := strings.Repeat(p.indent, depth)
	//
	for _, stmt := range stmts {
		switch stmt := stmt.(type) {
		case *NonBlocking:
			builder.WriteString(fmt.Sprintf("%s%s <= %s;\n", indent, stmt.Target, stmt.Value))
		case *If:
			builder.WriteString(fmt.Sprintf("%sif (%s) begin\n", indent, stmt.Cond))
			p.printStmts(builder, depth+1, stmt.Body)
			builder.WriteString(fmt.Sprintf("%send\n", indent))
		case *Task:
			if len(stmt.Args) == 0 {
				builder.WriteString(fmt.Sprintf("%s%s;\n", indent, stmt.Name))
			} else {
				builder.WriteString(fmt.Sprintf("%s%s;\n", indent, &Call{stmt.Name, stmt.Args}))
			}
		default:
			panic(fmt.Sprintf("unknown statement %T", stmt))
		}
	}
}

func bindings(bs []Binding) string {
	parts := make([]string, len(bs))
	//
	for i, b := range bs {
		if b.Name == "" {
			parts[i] = b.Value.String()
		} else {
			parts[i] = fmt.Sprintf(".%s(%s)", b.Name, b.Value)
		}
	}
	//
	return strings.Join(parts, ", ")
}

func rangeOf(width uint) string {
	if width <= 1 {
		return ""
	}
	//
	return fmt.Sprintf("[%d:0] ", width-1)
}

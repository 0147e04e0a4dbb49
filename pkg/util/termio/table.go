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
package termio

import (
	"fmt"
	"io"
	"strings"
)

// Table accumulates rows of cells for printing to a terminal, with every
// column padded to its widest cell.
type Table struct {
	headers []string
	widths  []uint
	rows    [][]string
	escapes [][]string
	// Upper bound on the width of any column (or zero for none)
	maxWidth      uint
	enableEscapes bool
}

// NewTable constructs an empty table with the given column headers.
func NewTable(headers ...string) *Table {
	widths := make([]uint, len(headers))
	//
	for i, h := range headers {
		widths[i] = uint(len(h))
	}
	//
	return &Table{headers, widths, nil, nil, 0, true}
}

// Height returns the number of rows in this table, excluding the header.
func (p *Table) Height() uint {
	return uint(len(p.rows))
}

// AddRow appends a row to this table, returning its index.
func (p *Table) AddRow(vals ...string) uint {
	if len(vals) != len(p.widths) {
		panic("incorrect number of columns")
	}
	//
	for i, v := range vals {
		p.widths[i] = max(p.widths[i], uint(len(v)))
	}
	//
	p.rows = append(p.rows, vals)
	p.escapes = append(p.escapes, make([]string, len(vals)))
	//
	return uint(len(p.rows) - 1)
}

// SetEscape sets the escape used when printing a given cell.
func (p *Table) SetEscape(col uint, row uint, escape AnsiEscape) {
	p.escapes[row][col] = escape.Build()
}

// AnsiEscapes enables or disables escapes, which should be disabled when not
// writing to a terminal.
func (p *Table) AnsiEscapes(enable bool) {
	p.enableEscapes = enable
}

// SetMaxWidth bounds the width of every column, with longer cells being
// truncated.
func (p *Table) SetMaxWidth(width uint) {
	p.maxWidth = width
}

// Print this table to a given writer.
func (p *Table) Print(w io.Writer) error {
	var builder strings.Builder
	//
	p.printRow(&builder, p.headers, nil)
	//
	for i, width := range p.widths {
		if i != 0 {
			builder.WriteString("-+-")
		}
		//
		builder.WriteString(strings.Repeat("-", int(p.width(width))))
	}
	//
	builder.WriteString("\n")
	//
	for i, row := range p.rows {
		p.printRow(&builder, row, p.escapes[i])
	}
	//
	_, err := io.WriteString(w, builder.String())
	//
	return err
}

func (p *Table) printRow(builder *strings.Builder, row []string, escapes []string) {
	for j, cell := range row {
		width := p.width(p.widths[j])
		//
		if j != 0 {
			builder.WriteString(" | ")
		}
		//
		if uint(len(cell)) > width {
			cell = cell[:max(2, width)-2] + ".."
		}
		//
		if p.enableEscapes && escapes != nil && escapes[j] != "" {
			builder.WriteString(escapes[j])
			fmt.Fprintf(builder, "%-*s", width, cell)
			builder.WriteString(ResetAnsiEscape().Build())
		} else {
			fmt.Fprintf(builder, "%-*s", width, cell)
		}
	}
	//
	builder.WriteString("\n")
}

func (p *Table) width(natural uint) uint {
	if p.maxWidth != 0 {
		return min(natural, p.maxWidth)
	}
	//
	return natural
}

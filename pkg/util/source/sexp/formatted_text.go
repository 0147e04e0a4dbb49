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
package sexp

import "strings"

// IndentUnit is the text written per level of indentation.
const IndentUnit = "  "

// FormattedText is a block of lines under construction, where new lines start
// at the current indentation level.  The widest line is tracked as text is
// written, since the formatter queries it after every list.
type FormattedText struct {
	level int
	lines []string
	width uint
}

func (p *FormattedText) String() string {
	var builder strings.Builder
	//
	for _, line := range p.lines {
		builder.WriteString(line)
		builder.WriteByte('\n')
	}
	//
	return builder.String()
}

// Indent adjusts the indentation level of subsequent lines by a given amount.
func (p *FormattedText) Indent(delta int) {
	p.level += delta
}

// NewLine starts a new line at the current indentation level.
func (p *FormattedText) NewLine() {
	p.lines = append(p.lines, "")
	p.write(strings.Repeat(IndentUnit, max(0, p.level)))
}

// LineWidth returns the width of the current line.
func (p *FormattedText) LineWidth() uint {
	if len(p.lines) == 0 {
		return 0
	}
	//
	return uint(len(p.lines[len(p.lines)-1]))
}

// MaxWidth returns the width of the widest line.
func (p *FormattedText) MaxWidth() uint {
	return p.width
}

// WriteString appends a string to the current line, starting the first line
// if necessary.
func (p *FormattedText) WriteString(str string) {
	if len(p.lines) == 0 {
		p.lines = append(p.lines, "")
	}
	//
	p.write(str)
}

func (p *FormattedText) write(str string) {
	n := len(p.lines) - 1
	p.lines[n] += str
	p.width = max(p.width, uint(len(p.lines[n])))
}

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

import (
	"unicode"

	"github.com/consensys/go-netlist/pkg/util/source"
)

// Parse a given source file into exactly one S-expression, or return an error
// if it is malformed.  A source map is also returned for debugging purposes.
func Parse(s *source.File) (SExp, *source.Map[SExp], *source.SyntaxError) {
	p := NewParser(s)
	// Parse the input
	sExp, err := p.Parse()
	// Sanity check everything was parsed
	if err == nil {
		p.SkipWhiteSpace()
		//
		if p.index != len(p.text) {
			return nil, nil, p.error("unexpected remainder")
		}
	}
	// Done
	return sExp, p.SourceMap(), err
}

// ParseAll converts a given source file into zero or more S-expressions, or
// returns an error if it is malformed.  A source map is also returned for
// debugging purposes.  The key distinction from Parse is that this function
// continues parsing after the first S-expression is encountered.
func ParseAll(s *source.File) ([]SExp, *source.Map[SExp], *source.SyntaxError) {
	p := NewParser(s)
	//
	terms := make([]SExp, 0)
	// Parse the input
	for {
		term, err := p.Parse()
		// Sanity check everything was parsed
		if err != nil {
			return terms, p.srcmap, err
		} else if term == nil {
			// EOF reached
			return terms, p.srcmap, nil
		}

		terms = append(terms, term)
	}
}

// Parser represents a parser in the process of parsing a given string into one
// or more S-expressions.
type Parser struct {
	// Source file being parsed
	srcfile *source.File
	// Cache (for simplicity)
	text []rune
	// Determine current position within text
	index int
	// Mapping from constructed S-Expressions to their spans in the original text.
	srcmap *source.Map[SExp]
}

// NewParser constructs a new instance of Parser
func NewParser(srcfile *source.File) *Parser {
	// Construct initial parser.
	return &Parser{
		srcfile: srcfile,
		text:    srcfile.Contents(),
		index:   0,
		srcmap:  source.NewSourceMap[SExp](*srcfile),
	}
}

// SourceMap returns the internal source map constructing during parsing.  Using
// this one can determine, for each SExp, where in the original text it
// originated.  This is helpful, for example, when reporting syntax errors.
func (p *Parser) SourceMap() *source.Map[SExp] {
	return p.srcmap
}

// Parse the next S-Expression, or produce an error.  Nil is returned (without
// an error) when the end of the input is reached.
func (p *Parser) Parse() (SExp, *source.SyntaxError) {
	var term SExp
	// Skip over any whitespace.  This is import to get the correct starting
	// point for this term.
	p.SkipWhiteSpace()
	// Record start of this term
	start := p.index
	//
	if p.index == len(p.text) {
		return nil, nil
	}
	//
	switch p.text[p.index] {
	case ')':
		return nil, p.error("unexpected end-of-list")
	case '(':
		p.index++
		//
		elements, err := p.parseSequence()
		if err != nil {
			return nil, err
		}
		//
		term = &List{elements}
	case '"':
		value, err := p.parseString()
		if err != nil {
			return nil, err
		}
		//
		term = &String{value}
	case '|':
		value, err := p.parseQuotedSymbol()
		if err != nil {
			return nil, err
		}
		//
		term = &Symbol{value}
	default:
		term = &Symbol{string(p.parseSymbol())}
	}
	// Register item in source map
	p.srcmap.Put(term, source.NewSpan(start, p.index))
	// Done
	return term, nil
}

// SkipWhiteSpace skips over any whitespace, including comments.
func (p *Parser) SkipWhiteSpace() {
	for p.index < len(p.text) && (unicode.IsSpace(p.text[p.index]) || p.text[p.index] == ';') {
		// Skip comment
		if p.text[p.index] == ';' {
			for p.index < len(p.text) && p.text[p.index] != '\n' {
				p.index++
			}
		} else {
			// skip space
			p.index++
		}
	}
}

func (p *Parser) parseSymbol() []rune {
	start := p.index
	//
	for p.index < len(p.text) {
		c := p.text[p.index]
		if c == '(' || c == ')' || c == '"' || c == ';' || unicode.IsSpace(c) {
			break
		}
		//
		p.index++
	}
	//
	return p.text[start:p.index]
}

func (p *Parser) parseQuotedSymbol() (string, *source.SyntaxError) {
	// Skip opening bar
	p.index++
	start := p.index
	//
	for p.index < len(p.text) && p.text[p.index] != '|' {
		p.index++
	}
	//
	if p.index == len(p.text) {
		return "", p.error("unterminated quoted symbol")
	}
	//
	value := string(p.text[start:p.index])
	// Skip closing bar
	p.index++
	//
	return value, nil
}

func (p *Parser) parseString() (string, *source.SyntaxError) {
	var runes []rune
	// Skip opening quote
	p.index++
	//
	for p.index < len(p.text) {
		c := p.text[p.index]
		p.index++
		//
		if c != '"' {
			runes = append(runes, c)
		} else if p.index < len(p.text) && p.text[p.index] == '"' {
			// Escaped quote
			runes = append(runes, c)
			p.index++
		} else {
			return string(runes), nil
		}
	}
	//
	return "", p.error("unterminated string")
}

func (p *Parser) parseSequence() ([]SExp, *source.SyntaxError) {
	var elements []SExp
	//
	for {
		p.SkipWhiteSpace()
		//
		if p.index == len(p.text) {
			return nil, p.error("unexpected end-of-file")
		} else if p.text[p.index] == ')' {
			// Consume terminator
			p.index++
			return elements, nil
		}
		// Parse next element
		element, err := p.Parse()
		if err != nil {
			return nil, err
		}
		// Continue around!
		elements = append(elements, element)
	}
}

// Construct a parser error at the current position in the input stream.
func (p *Parser) error(msg string) *source.SyntaxError {
	end := min(p.index+1, len(p.text))
	span := source.NewSpan(min(p.index, end), end)
	//
	return p.srcfile.SyntaxError(span, msg)
}

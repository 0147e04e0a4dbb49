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
	"fmt"
	"strings"
)

// SExp is an S-Expression, which is either a List of zero or more
// S-Expressions, a Symbol or a String literal.  The concrete syntax follows
// SMT-LIB, so that the same trees can be used both for reading netlists and
// for writing solver scripts.
type SExp interface {
	// AsList checks whether this S-Expression is a list and, if
	// so, returns it.  Otherwise, it returns nil.
	AsList() *List
	// AsSymbol checks whether this S-Expression is a symbol and,
	// if so, returns it.  Otherwise, it returns nil.
	AsSymbol() *Symbol
	// AsString checks whether this S-Expression is a string literal and, if
	// so, returns it.  Otherwise, it returns nil.
	AsString() *String
	// String generates a string representation which may (may not) be quoted.
	// Quoting is used to manage symbol names which contain whitespace
	// characters and braces, etc.
	String(quote bool) string
}

// ===================================================================
// List
// ===================================================================

// List represents a list of zero or more S-Expressions.
type List struct {
	Elements []SExp
}

// NOTE: This is used for compile time type checking if the given type
// satisfies the given interface.
var _ SExp = (*List)(nil)

// EmptyList creates an empty list.
func EmptyList() *List {
	return &List{}
}

// NewList creates a new list from a given array of S-Expressions.
func NewList(elements []SExp) *List {
	return &List{elements}
}

// L creates a new list from zero or more S-Expressions.
func L(elements ...SExp) *List {
	return &List{elements}
}

// Apply creates a list whose head is a symbol, such as "(bvadd x y)".
func Apply(head string, args ...SExp) *List {
	elements := make([]SExp, 0, len(args)+1)
	elements = append(elements, NewSymbol(head))
	//
	return &List{append(elements, args...)}
}

// AsList returns the given list.
func (l *List) AsList() *List { return l }

// AsSymbol returns nil for a list.
func (l *List) AsSymbol() *Symbol { return nil }

// AsString returns nil for a list.
func (l *List) AsString() *String { return nil }

// Len gets the number of elements in this list.
func (l *List) Len() int { return len(l.Elements) }

// Get the ith element of this list
func (l *List) Get(i int) SExp { return l.Elements[i] }

// Append a new element onto this list.
func (l *List) Append(element SExp) {
	l.Elements = append(l.Elements, element)
}

func (l *List) String(quote bool) string {
	var builder strings.Builder
	//
	builder.WriteString("(")
	//
	for i, e := range l.Elements {
		if i != 0 {
			builder.WriteString(" ")
		}
		//
		builder.WriteString(e.String(quote))
	}
	//
	builder.WriteString(")")
	//
	return builder.String()
}

// Head returns the leading symbol of this list, or "" if there is none.
func (l *List) Head() string {
	if len(l.Elements) > 0 {
		if s := l.Elements[0].AsSymbol(); s != nil {
			return s.Value
		}
	}
	//
	return ""
}

// MatchSymbols matches a list which starts with at least n symbols, of which the
// first m match the given strings.
func (l *List) MatchSymbols(n int, symbols ...string) bool {
	if len(l.Elements) < n || len(symbols) > n {
		return false
	}

	for i := 0; i < len(symbols); i++ {
		switch ith := l.Elements[i].(type) {
		case *Symbol:
			if ith.Value != symbols[i] {
				return false
			}
		default:
			return false
		}
	}

	return true
}

// ===================================================================
// Symbol
// ===================================================================

// Symbol represents a terminating symbol.
type Symbol struct {
	Value string
}

// NOTE: This is used for compile time type checking if the given type
// satisfies the given interface.
var _ SExp = (*Symbol)(nil)

// NewSymbol creates a new symbol from a given string.
func NewSymbol(value string) *Symbol {
	return &Symbol{value}
}

// Uint creates a numeral symbol.
func Uint(value uint) *Symbol {
	return &Symbol{fmt.Sprintf("%d", value)}
}

// AsList returns nil for a symbol.
func (s *Symbol) AsList() *List { return nil }

// AsSymbol returns the given symbol
func (s *Symbol) AsSymbol() *Symbol { return s }

// AsString returns nil for a symbol.
func (s *Symbol) AsString() *String { return nil }

// String returns the symbol, surrounded by vertical bars if quoting is
// requested and the symbol contains characters outside of those permitted in
// a simple SMT-LIB symbol.
func (s *Symbol) String(quote bool) string {
	if quote && needsQuote(s.Value) {
		return fmt.Sprintf("|%s|", s.Value)
	}
	// No quote required
	return s.Value
}

func needsQuote(value string) bool {
	if value == "" {
		return true
	}
	//
	for _, r := range value {
		if !isSymbolLetter(r) {
			return true
		}
	}
	//
	return false
}

func isSymbolLetter(r rune) bool {
	switch {
	case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
		return true
	default:
		return strings.ContainsRune("~!@$%^&*_-+=<>.?/#:", r)
	}
}

// ===================================================================
// String
// ===================================================================

// String represents a string literal.  Within the concrete syntax, a double
// quote is escaped by doubling it, as in SMT-LIB.
type String struct {
	Value string
}

// NOTE: This is used for compile time type checking if the given type
// satisfies the given interface.
var _ SExp = (*String)(nil)

// NewString creates a new string literal.
func NewString(value string) *String {
	return &String{value}
}

// AsList returns nil for a string.
func (s *String) AsList() *List { return nil }

// AsSymbol returns nil for a string.
func (s *String) AsSymbol() *Symbol { return nil }

// AsString returns the given string literal.
func (s *String) AsString() *String { return s }

// String returns the quoted literal, regardless of the quote flag.
func (s *String) String(quote bool) string {
	return fmt.Sprintf("\"%s\"", strings.ReplaceAll(s.Value, "\"", "\"\""))
}

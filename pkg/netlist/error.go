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
)

// StructuralErrorKind identifies the kind of a structural error.
type StructuralErrorKind uint8

const (
	// CombinationalCycle indicates a dependency cycle not broken by a register.
	CombinationalCycle StructuralErrorKind = iota
	// DanglingWire indicates a net input referencing a non-existent wire.
	DanglingWire
	// MissingInstance indicates a query for an instance absent from the
	// netlist.
	MissingInstance
	// MalformedNet indicates a net whose inputs disagree with its primitive.
	MalformedNet
	// PortConflict indicates an external port whose name is invalid, or
	// clashes with another name.
	PortConflict
)

func (k StructuralErrorKind) String() string {
	switch k {
	case CombinationalCycle:
		return "combinational cycle"
	case DanglingWire:
		return "dangling wire"
	case MissingInstance:
		return "missing instance"
	case MalformedNet:
		return "malformed net"
	case PortConflict:
		return "port conflict"
	default:
		panic(fmt.Sprintf("unknown structural error: %d", k))
	}
}

// StructuralError reports a malformed netlist.  Such errors are fatal and
// abort the current pass entirely.
type StructuralError struct {
	Kind StructuralErrorKind
	// Instance on which the error is reported.
	Instance Id
	// Optional detail
	Detail string
}

// Error implements the error interface.
func (p *StructuralError) Error() string {
	if p.Detail != "" {
		return fmt.Sprintf("%s at instance %d (%s)", p.Kind, p.Instance, p.Detail)
	}
	//
	return fmt.Sprintf("%s at instance %d", p.Kind, p.Instance)
}

// UnsupportedError reports a primitive which a given backend cannot translate.
type UnsupportedError struct {
	// Backend reporting the error
	Backend string
	// Instance holding the primitive
	Instance Id
	// Description of the primitive
	Prim string
}

// NewUnsupportedError constructs an error for a primitive which the given
// backend cannot handle.
func NewUnsupportedError(backend string, instance Id, prim Primitive) *UnsupportedError {
	return &UnsupportedError{backend, instance, prim.String()}
}

// Error implements the error interface.
func (p *UnsupportedError) Error() string {
	return fmt.Sprintf("%s backend does not support %s (instance %d)", p.Backend, p.Prim, p.Instance)
}

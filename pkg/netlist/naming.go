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
	"strings"
)

// Identifier synthesises a readable identifier for a given output port of a
// given net.  Identifiers take the form "<prefix>_<id>" or, for ports other
// than the first, "<prefix>_<id>_<port>", where the prefix is the net's
// naming hint reduced to alphanumeric characters (or "v" when there is no
// usable hint).  Since a prefix never contains an underscore, distinct
// (instance, port) pairs always yield distinct identifiers.  Likewise, since
// every identifier contains an underscore followed by a digit, identifiers
// never collide with keywords of any target language.
func Identifier(n *Net, port uint) string {
	prefix := sanitise(n.Hint())
	//
	if port == 0 {
		return fmt.Sprintf("%s_%d", prefix, n.Id)
	}
	//
	return fmt.Sprintf("%s_%d_%d", prefix, n.Id, port)
}

func sanitise(hint string) string {
	var builder strings.Builder
	//
	for _, r := range hint {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') {
			builder.WriteRune(r)
		}
	}
	//
	prefix := builder.String()
	//
	if prefix == "" {
		return "v"
	} else if prefix[0] >= '0' && prefix[0] <= '9' {
		return "v" + prefix
	}
	//
	return prefix
}

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
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_Table_01(t *testing.T) {
	table := NewTable("net", "kind")
	table.AddRow("0", "register")
	table.AddRow("12", "output")
	//
	var out strings.Builder
	//
	require.NoError(t, table.Print(&out))
	assert.Equal(t, "net | kind    \n----+---------\n0   | register\n12  | output  \n", out.String())
	assert.Equal(t, uint(2), table.Height())
}

func Test_Table_02(t *testing.T) {
	table := NewTable("a")
	table.AddRow("abcdefgh")
	table.SetMaxWidth(5)
	//
	var out strings.Builder
	//
	require.NoError(t, table.Print(&out))
	assert.Equal(t, "a    \n-----\nabc..\n", out.String())
}

func Test_Table_03(t *testing.T) {
	table := NewTable("x")
	row := table.AddRow("y")
	table.SetEscape(0, row, BoldAnsiEscape().FgColour(TERM_RED))
	//
	var out strings.Builder
	//
	require.NoError(t, table.Print(&out))
	assert.Equal(t, "x\n-\n\033[1;31my\033[0m\n", out.String())
	//
	out.Reset()
	table.AnsiEscapes(false)
	require.NoError(t, table.Print(&out))
	assert.Equal(t, "x\n-\ny\n", out.String())
}

func Test_Escape_01(t *testing.T) {
	assert.Equal(t, "\033[32m", AnsiEscape{}.FgColour(TERM_GREEN).Build())
	assert.Equal(t, "\033[1;44m", BoldAnsiEscape().BgColour(TERM_BLUE).Build())
}

func Test_Width_01(t *testing.T) {
	f, err := os.CreateTemp(t.TempDir(), "width")
	require.NoError(t, err)
	defer f.Close()
	//
	assert.False(t, IsTerminal(f))
	assert.Equal(t, uint(80), Width(f, 80))
}

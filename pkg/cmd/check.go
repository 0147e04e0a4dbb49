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
package cmd

import (
	"fmt"
	"os"

	"github.com/consensys/go-netlist/pkg/netlist"
	"github.com/consensys/go-netlist/pkg/util/termio"
	"github.com/spf13/cobra"
)

var checkCmd = &cobra.Command{
	Use:   "check [flags] netlist_file",
	Short: "Check a netlist is well formed.",
	Long: "Check every wire of a netlist refers to an existing output port, and\n" +
		"that there are no combinational cycles.  A summary of the netlist is then\n" +
		"printed, or the netlist itself in normalised form.",
	Run: func(cmd *cobra.Command, args []string) {
		nl := getNetlist(cmd, args)
		//
		order, err := netlist.Order(nl)
		if err != nil {
			exitWith(err)
		}
		//
		if GetFlag(cmd, "print") {
			writeOutput(cmd, []byte(netlist.LispString(nl)))
			return
		}
		//
		table := summarise(nl, order)
		table.AnsiEscapes(termio.IsTerminal(os.Stdout))
		//
		if err := table.Print(os.Stdout); err != nil {
			exitWith(err)
		}
	},
}

// Count the nets of a netlist by kind.
func summarise(nl *netlist.Netlist, order []netlist.Id) *termio.Table {
	kinds := []struct {
		name string
		pred func(netlist.Primitive) bool
	}{
		{"inputs", func(p netlist.Primitive) bool { _, ok := p.(*netlist.In); return ok }},
		{"outputs", isOutput},
		{"registers", netlist.IsRegister},
		{"effects", netlist.IsEffect},
		{"custom", func(p netlist.Primitive) bool { _, ok := p.(*netlist.Custom); return ok }},
	}
	//
	table := termio.NewTable("kind", "count")
	row := table.AddRow("nets", fmt.Sprint(len(nl.Nets())))
	table.SetEscape(0, row, termio.BoldAnsiEscape())
	//
	for _, k := range kinds {
		table.AddRow(k.name, fmt.Sprint(len(nl.Filter(k.pred))))
	}
	//
	table.AddRow("ordered", fmt.Sprint(len(order)))
	//
	return table
}

func init() {
	rootCmd.AddCommand(checkCmd)
	checkCmd.Flags().Bool("print", false, "print the netlist in normalised form")
}

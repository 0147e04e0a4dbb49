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
	"sort"

	"github.com/consensys/go-netlist/pkg/bmc/bitblast"
	"github.com/consensys/go-netlist/pkg/util/termio"
	"github.com/spf13/cobra"
)

var bmcCmd = &cobra.Command{
	Use:   "bmc [flags] netlist_file",
	Short: "Translate a netlist property into a k-induction proof script.",
	Long: "Translate a netlist into an SMT-LIB script which proves a given 1-bit\n" +
		"output holds in every reachable state by k-induction.  The property holds\n" +
		"when both queries of the script are unsatisfiable.  Alternatively, decide\n" +
		"both queries directly by bit-blasting the netlist.",
	Run: func(cmd *cobra.Command, args []string) {
		nl := getNetlist(cmd, args)
		cfg := getConfig(cmd)
		//
		if !GetFlag(cmd, "solve") {
			bytes, err := emitBmc(nl, cfg)
			if err != nil {
				exitWith(err)
			}
			//
			writeOutput(cmd, bytes)
			//
			return
		}
		//
		property, err := findProperty(nl, cfg.Bmc.Property)
		if err != nil {
			exitWith(err)
		}
		//
		verdict, err := bitblast.Check(nl, property, bmcOptions(cfg))
		if err != nil {
			exitWith(err)
		}
		//
		table := report(verdict)
		table.AnsiEscapes(termio.IsTerminal(os.Stdout))
		//
		if err := table.Print(os.Stdout); err != nil {
			exitWith(err)
		}
		//
		if !verdict.Proved() {
			os.Exit(1)
		}
	},
}

// Tabulate the result of each query, followed by the inputs of each cycle of
// any counterexample.
func report(verdict bitblast.Verdict) *termio.Table {
	table := termio.NewTable("query", "result")
	//
	for _, q := range []struct {
		name   string
		result bitblast.Result
	}{{"base", verdict.Base}, {"step", verdict.Step}} {
		row := table.AddRow(q.name, q.result.String())
		//
		if q.result == bitblast.Unsat {
			table.SetEscape(1, row, termio.BoldAnsiEscape().FgColour(termio.TERM_GREEN))
		} else {
			table.SetEscape(1, row, termio.BoldAnsiEscape().FgColour(termio.TERM_RED))
		}
	}
	//
	for i, inputs := range verdict.Trace {
		names := make([]string, 0, len(inputs))
		//
		for name := range inputs {
			names = append(names, name)
		}
		//
		sort.Strings(names)
		//
		for _, name := range names {
			table.AddRow(fmt.Sprintf("cycle %d: %s", i, name), inputs[name].String())
		}
	}
	//
	return table
}

func init() {
	rootCmd.AddCommand(bmcCmd)
	bmcCmd.Flags().StringP("property", "p", "", "name of the output to prove")
	bmcCmd.Flags().UintP("depth", "k", 1, "induction depth")
	bmcCmd.Flags().Bool("distinct", false, "require distinct states in the induction step")
	bmcCmd.Flags().Bool("solve", false, "decide the queries in process")
}

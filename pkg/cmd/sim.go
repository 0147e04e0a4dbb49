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
	"io"
	"math/big"
	"os"
	"strings"

	"github.com/consensys/go-netlist/pkg/config"
	"github.com/consensys/go-netlist/pkg/netlist"
	"github.com/consensys/go-netlist/pkg/sim"
	"github.com/consensys/go-netlist/pkg/util/termio"
	"github.com/spf13/cobra"
)

var simCmd = &cobra.Command{
	Use:   "sim [flags] netlist_file",
	Short: "Translate a netlist into a cycle-accurate Go simulator.",
	Long: "Translate a netlist into a Go package implementing a cycle-accurate\n" +
		"simulator.  Alternatively, run the simulation directly for a bounded number\n" +
		"of cycles, holding inputs at fixed values, and report the final outputs.",
	Run: func(cmd *cobra.Command, args []string) {
		nl := getNetlist(cmd, args)
		cfg := getConfig(cmd)
		//
		if !GetFlag(cmd, "run") {
			bytes, err := emitSim(nl, cfg)
			if err != nil {
				exitWith(err)
			}
			//
			writeOutput(cmd, bytes)
			//
			return
		}
		//
		m, err := runSim(nl, cfg, GetStringArray(cmd, "set"), os.Stdout)
		if err != nil {
			exitWith(err)
		}
		//
		table := outputs(m)
		table.AnsiEscapes(termio.IsTerminal(os.Stdout))
		//
		if err := table.Print(os.Stdout); err != nil {
			exitWith(err)
		}
	},
}

// Simulate a netlist until it finishes or the cycle limit is reached, with
// inputs held at the values given as name=value assignments.
func runSim(nl *netlist.Netlist, cfg config.Config, assignments []string, out io.Writer) (*sim.Machine, error) {
	prog, err := sim.Lower(nl)
	if err != nil {
		return nil, err
	}
	//
	m := sim.NewMachine(prog, out)
	//
	for _, a := range assignments {
		name, text, ok := strings.Cut(a, "=")
		if !ok {
			return nil, fmt.Errorf("malformed assignment %q", a)
		}
		//
		value, ok := new(big.Int).SetString(text, 0)
		if !ok {
			return nil, fmt.Errorf("invalid value for %s: %q", name, text)
		}
		//
		if err := m.Set(name, value); err != nil {
			return nil, err
		}
	}
	//
	m.Run(cfg.Sim.Cycles)
	//
	return m, m.Err()
}

// Tabulate the outputs of a machine after running.
func outputs(m *sim.Machine) *termio.Table {
	table := termio.NewTable("output", "value")
	row := table.AddRow("cycles", fmt.Sprint(m.Cycle()))
	table.SetEscape(0, row, termio.BoldAnsiEscape())
	//
	for _, slot := range m.Program().SlotsOf(sim.Output) {
		table.AddRow(m.Program().Slot(slot).Label, m.Value(slot).String())
	}
	//
	return table
}

func init() {
	rootCmd.AddCommand(simCmd)
	simCmd.Flags().String("package", "netlist", "name of the generated Go package")
	simCmd.Flags().Bool("run", false, "run the simulation rather than generating it")
	simCmd.Flags().Uint("cycles", 1000, "maximum number of cycles to run")
	simCmd.Flags().StringArray("set", nil, "hold an input at a given value (name=value)")
}

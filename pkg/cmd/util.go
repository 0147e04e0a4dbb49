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
	"errors"
	"fmt"
	"os"

	"github.com/consensys/go-netlist/pkg/config"
	"github.com/consensys/go-netlist/pkg/netlist"
	"github.com/consensys/go-netlist/pkg/util/source"
	"github.com/consensys/go-netlist/pkg/util/termio"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// GetFlag gets an expected flag, or exits if an error arises.
func GetFlag(cmd *cobra.Command, flag string) bool {
	r, err := cmd.Flags().GetBool(flag)
	if err != nil {
		fmt.Println(err)
		os.Exit(2)
	}

	return r
}

// GetUint gets an expected unsigned flag, or exits if an error arises.
func GetUint(cmd *cobra.Command, flag string) uint {
	r, err := cmd.Flags().GetUint(flag)
	if err != nil {
		fmt.Println(err)
		os.Exit(2)
	}

	return r
}

// GetString gets an expected string flag, or exits if an error arises.
func GetString(cmd *cobra.Command, flag string) string {
	r, err := cmd.Flags().GetString(flag)
	if err != nil {
		fmt.Println(err)
		os.Exit(2)
	}

	return r
}

// GetStringArray gets an expected string array flag, or exits if an error
// arises.
func GetStringArray(cmd *cobra.Command, flag string) []string {
	r, err := cmd.Flags().GetStringArray(flag)
	if err != nil {
		fmt.Println(err)
		os.Exit(2)
	}

	return r
}

// Determine the configuration for a command, starting from the configuration
// file (if given) and then applying any flags set explicitly.  When no width
// is given and output goes to a terminal, the terminal width is used.
func getConfig(cmd *cobra.Command) config.Config {
	cfg := config.Default()
	//
	if filename := GetString(cmd, "config"); filename != "" {
		var err error
		//
		if cfg, err = config.Load(filename); err != nil {
			exitWith(err)
		}
	}
	//
	flags := cmd.Flags()
	//
	if flags.Changed("width") {
		cfg.Width = GetUint(cmd, "width")
	} else if GetString(cmd, "output") == "" && termio.IsTerminal(os.Stdout) {
		cfg.Width = max(40, termio.Width(os.Stdout, cfg.Width))
	}
	//
	overrides := []struct {
		flag  string
		apply func()
	}{
		{"module", func() { cfg.Rtl.Module = GetString(cmd, "module") }},
		{"indent", func() { cfg.Rtl.Indent = GetUint(cmd, "indent") }},
		{"package", func() { cfg.Sim.Package = GetString(cmd, "package") }},
		{"cycles", func() { cfg.Sim.Cycles = GetUint(cmd, "cycles") }},
		{"property", func() { cfg.Bmc.Property = GetString(cmd, "property") }},
		{"depth", func() { cfg.Bmc.Depth = GetUint(cmd, "depth") }},
		{"distinct", func() { cfg.Bmc.Distinct = GetFlag(cmd, "distinct") }},
	}
	//
	for _, o := range overrides {
		if flags.Lookup(o.flag) != nil && flags.Changed(o.flag) {
			o.apply()
		}
	}
	//
	if err := cfg.Validate(); err != nil {
		exitWith(err)
	}
	//
	log.Debugf("configuration: %+v", cfg)
	//
	return cfg
}

// Read the netlist named on the command line, or exit.
func getNetlist(cmd *cobra.Command, args []string) *netlist.Netlist {
	if len(args) != 1 {
		fmt.Println(cmd.UsageString())
		os.Exit(1)
	}
	//
	nl, err := readNetlist(args[0])
	if err != nil {
		exitWith(err)
	}
	//
	return nl
}

func readNetlist(filename string) (*netlist.Netlist, error) {
	srcfile, err := source.ReadFile(filename)
	if err != nil {
		return nil, err
	}
	//
	return netlist.Read(srcfile)
}

// Write the output of a command either to stdout, or to the file given by the
// output flag.
func writeOutput(cmd *cobra.Command, bytes []byte) {
	var err error
	//
	if filename := GetString(cmd, "output"); filename == "" || filename == "-" {
		_, err = os.Stdout.Write(bytes)
	} else {
		err = os.WriteFile(filename, bytes, 0o644)
	}
	//
	if err != nil {
		exitWith(err)
	}
}

// Report an error and exit.  Syntax errors are highlighted within their
// enclosing line.
func exitWith(err error) {
	var serr *source.SyntaxError
	//
	if errors.As(err, &serr) {
		fmt.Fprint(os.Stderr, serr.Highlight())
	} else {
		fmt.Fprintln(os.Stderr, err)
	}
	//
	os.Exit(2)
}

// Find the output port naming a property.
func findProperty(nl *netlist.Netlist, name string) (netlist.Id, error) {
	if name == "" {
		return 0, errors.New("no property given")
	}
	//
	for _, n := range nl.Filter(isOutput) {
		if n.Prim.(*netlist.Output).Name == name {
			return n.Id, nil
		}
	}
	//
	return 0, fmt.Errorf("unknown property %q", name)
}

func isOutput(p netlist.Primitive) bool {
	_, ok := p.(*netlist.Output)
	return ok
}

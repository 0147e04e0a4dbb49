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
	"os"
	"path/filepath"
	"strings"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var allCmd = &cobra.Command{
	Use:   "all [flags] netlist_file",
	Short: "Run every backend on a netlist.",
	Long: "Run every backend on a netlist, writing the Verilog module, simulator and\n" +
		"(when a property is given) proof script to files sharing a common prefix.\n" +
		"The prefix defaults to the netlist file name without its extension.",
	Run: func(cmd *cobra.Command, args []string) {
		nl := getNetlist(cmd, args)
		cfg := getConfig(cmd)
		prefix := GetString(cmd, "output")
		//
		if prefix == "" {
			prefix = strings.TrimSuffix(args[0], filepath.Ext(args[0]))
		}
		//
		artifacts, err := emitAll(nl, cfg)
		if err != nil {
			exitWith(err)
		}
		//
		for _, a := range artifacts {
			filename := prefix + a.Ext
			//
			if err := os.WriteFile(filename, a.Bytes, 0o644); err != nil {
				exitWith(err)
			}
			//
			log.Infof("wrote %s", filename)
		}
	},
}

func init() {
	rootCmd.AddCommand(allCmd)
	allCmd.Flags().String("module", "top", "name of the Verilog module")
	allCmd.Flags().Uint("indent", 2, "spaces per indentation level")
	allCmd.Flags().String("package", "netlist", "name of the generated Go package")
	allCmd.Flags().StringP("property", "p", "", "name of the output to prove")
	allCmd.Flags().UintP("depth", "k", 1, "induction depth")
	allCmd.Flags().Bool("distinct", false, "require distinct states in the induction step")
}

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
	"github.com/spf13/cobra"
)

var rtlCmd = &cobra.Command{
	Use:   "rtl [flags] netlist_file",
	Short: "Translate a netlist into a Verilog module.",
	Run: func(cmd *cobra.Command, args []string) {
		nl := getNetlist(cmd, args)
		cfg := getConfig(cmd)
		//
		bytes, err := emitRtl(nl, cfg)
		if err != nil {
			exitWith(err)
		}
		//
		writeOutput(cmd, bytes)
	},
}

func init() {
	rootCmd.AddCommand(rtlCmd)
	rtlCmd.Flags().String("module", "top", "name of the Verilog module")
	rtlCmd.Flags().Uint("indent", 2, "spaces per indentation level")
}

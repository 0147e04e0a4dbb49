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
package main

import (
	"fmt"
	"os"
	"os/exec"
	"slices"
	"strings"

	"github.com/consensys/bavard"
)

const copyrightHolder = "Consensys Software Inc."

type bitwiseOp struct {
	// Name of the generated function (which matches the big.Int method).
	Name string
	// Go operator implementing it on words.
	Symbol string
	// Description used in the generated documentation.
	Doc string
}

type config struct {
	Binary []bitwiseOp
}

//go:generate go run main.go
func main() {
	bgen := bavard.NewBatchGenerator(copyrightHolder, 2025, "go-netlist")
	//
	cfg := config{
		Binary: []bitwiseOp{
			{"And", "&", "conjunction"},
			{"Or", "|", "disjunction"},
			{"Xor", "^", "exclusive or"},
		},
	}
	//
	assertNoError(bgen.Generate(cfg, "bv", "templates",
		bavard.Entry{
			File:      "../../bitwise_gen.go",
			Templates: []string{"bitwise.go.tmpl"},
		},
		bavard.Entry{
			File:      "../../bitwise_gen_test.go",
			Templates: []string{"bitwise.test.go.tmpl"},
		},
	), "for package \"bv\"")
	// run gofmt on the package
	runCmd("gofmt", "-w", "../../")
}

func runCmd(name string, arg ...string) {
	fmt.Println(name, strings.Join(arg, " "))
	cmd := exec.Command(name, arg...)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	assertNoError(cmd.Run(), "")
}

func assertNoError(err error, contextAndArgs ...any) {
	if err != nil {
		msg := err.Error()

		if len(contextAndArgs) > 0 {
			allArgs := append(slices.Clone(contextAndArgs[1:]), err)
			msg = fmt.Sprintf(contextAndArgs[0].(string)+": %v", allArgs...)
		}

		fmt.Println(msg)
		os.Exit(1)
	}
}

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
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

var validate = validator.New()

// Config holds the settings shared by every backend.
type Config struct {
	// Width is the line width targeted when formatting output.
	Width uint `yaml:"width" validate:"min=40"`
	// Rtl configures the RTL emitter.
	Rtl RtlConfig `yaml:"rtl"`
	// Sim configures the simulator emitter.
	Sim SimConfig `yaml:"sim"`
	// Bmc configures the proof script emitter.
	Bmc BmcConfig `yaml:"bmc"`
}

// RtlConfig configures the RTL emitter.
type RtlConfig struct {
	// Module is the name of the emitted Verilog module.
	Module string `yaml:"module" validate:"required"`
	// Indent is the number of spaces per indentation level.
	Indent uint `yaml:"indent" validate:"min=1,max=8"`
}

// SimConfig configures the simulator emitter.
type SimConfig struct {
	// Package is the name of the generated Go package.
	Package string `yaml:"package" validate:"required"`
	// Cycles bounds the number of cycles executed by an in-process run.
	Cycles uint `yaml:"cycles" validate:"min=1"`
}

// BmcConfig configures the proof script emitter.
type BmcConfig struct {
	// Property names the 1-bit output to be proved.
	Property string `yaml:"property"`
	// Depth is the induction depth.
	Depth uint `yaml:"depth" validate:"min=1"`
	// Distinct requires states in the induction step to be distinct.
	Distinct bool `yaml:"distinct"`
}

// Default returns the configuration used when no file is given.
func Default() Config {
	return Config{
		Width: 100,
		Rtl:   RtlConfig{Module: "top", Indent: 2},
		Sim:   SimConfig{Package: "netlist", Cycles: 1000},
		Bmc:   BmcConfig{Depth: 1},
	}
}

// Load reads a configuration file, with any settings it omits taking their
// default values.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, err
	}
	//
	cfg, err := Parse(data)
	if err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	//
	return cfg, nil
}

// Parse a configuration from its YAML text.  Unknown keys are rejected.
func Parse(text []byte) (Config, error) {
	cfg := Default()
	decoder := yaml.NewDecoder(bytes.NewReader(text))
	decoder.KnownFields(true)
	//
	if err := decoder.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, err
	} else if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	//
	return cfg, nil
}

// Validate checks every setting lies within its permitted range.
func (p Config) Validate() error {
	return validate.Struct(p)
}

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
	"bytes"

	"github.com/consensys/go-netlist/pkg/bmc"
	"github.com/consensys/go-netlist/pkg/config"
	"github.com/consensys/go-netlist/pkg/netlist"
	"github.com/consensys/go-netlist/pkg/rtl"
	"github.com/consensys/go-netlist/pkg/sim"
	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// Artifact is the output of a single backend.
type Artifact struct {
	// Extension of the file holding this artifact
	Ext   string
	Bytes []byte
}

func emitRtl(nl *netlist.Netlist, cfg config.Config) ([]byte, error) {
	module, err := rtl.Emit(nl, cfg.Rtl.Module)
	if err != nil {
		return nil, err
	}
	//
	var buf bytes.Buffer
	//
	if _, err := rtl.NewPrinter(cfg.Rtl.Indent).Print(&buf, module); err != nil {
		return nil, err
	}
	//
	return buf.Bytes(), nil
}

func emitSim(nl *netlist.Netlist, cfg config.Config) ([]byte, error) {
	prog, err := sim.Lower(nl)
	if err != nil {
		return nil, err
	}
	//
	return sim.WriteGo(prog, cfg.Sim.Package)
}

func emitBmc(nl *netlist.Netlist, cfg config.Config) ([]byte, error) {
	property, err := findProperty(nl, cfg.Bmc.Property)
	if err != nil {
		return nil, err
	}
	//
	script, err := bmc.Emit(nl, property, bmcOptions(cfg))
	if err != nil {
		return nil, err
	}
	//
	return []byte(script.String()), nil
}

func bmcOptions(cfg config.Config) bmc.Options {
	return bmc.Options{Depth: cfg.Bmc.Depth, DistinctStates: cfg.Bmc.Distinct, Width: cfg.Width}
}

// Run every backend concurrently, since they share nothing but the (read
// only) netlist.  The proof script is only produced when a property is
// configured.  Either every artifact is returned, or none are.
func emitAll(nl *netlist.Netlist, cfg config.Config) ([]Artifact, error) {
	var (
		g         errgroup.Group
		emitters  = []func(*netlist.Netlist, config.Config) ([]byte, error){emitRtl, emitSim}
		artifacts = []Artifact{{Ext: ".v"}, {Ext: ".go"}}
	)
	//
	if cfg.Bmc.Property != "" {
		emitters = append(emitters, emitBmc)
		artifacts = append(artifacts, Artifact{Ext: ".smt2"})
	}
	//
	for i, emit := range emitters {
		g.Go(func() error {
			bytes, err := emit(nl, cfg)
			artifacts[i].Bytes = bytes
			//
			return err
		})
	}
	//
	if err := g.Wait(); err != nil {
		return nil, err
	}
	//
	log.Debugf("emitted %d artifacts", len(artifacts))
	//
	return artifacts, nil
}

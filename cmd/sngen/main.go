// Copyright (c) 2022, The GoKi Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Command sngen is a thin reference harness for github.com/emer/sncode:
// it builds one demo spec, finalizes it, partitions its groups, and
// runs it through internal/codegen against the in-repo reference
// backend, writing the result under -out. It exists to drive the
// library end to end, the way the original project's per-simulation
// model.cc files build one concrete network; it is not the public
// model-specification builder.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/emer/sncode/internal/backend/refbackend"
	"github.com/emer/sncode/internal/codegen"
	"github.com/emer/sncode/internal/merge"
	"github.com/emer/sncode/internal/model"
	"github.com/emer/sncode/internal/netspec"
)

var (
	outDir    = flag.String("out", "generated", "output directory for generated source, relative to where sngen is invoked")
	precision = flag.Int("precision", 32, "scalar precision for the demo spec: 32 or 64")
	mergePS   = flag.Bool("merge-postsynaptic", true, "merge linearly-combinable postsynaptic models sharing one target population")
)

func usage() {
	fmt.Fprintf(os.Stderr, "usage: sngen [flags]\n")
	flag.PrintDefaults()
}

func main() {
	flag.Usage = usage
	flag.Parse()
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	prec := netspec.Precision32
	if *precision == 64 {
		prec = netspec.Precision64
	} else if *precision != 32 {
		return fmt.Errorf("sngen: -precision must be 32 or 64, got %d", *precision)
	}

	spec := netspec.NewSpec(0.1) // 0.1 ms timestep
	spec.ScalarPrecision = prec
	spec.TimePrecision = prec
	spec.MergePostsynapticModels = *mergePS
	spec.Timing = true

	if err := buildDemoSpec(spec); err != nil {
		return err
	}
	if err := spec.Finalize(); err != nil {
		return err
	}

	part, err := merge.Partition(spec)
	if err != nil {
		return err
	}

	be := refbackend.New()
	files, err := codegen.Generate(spec, part, be)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(*outDir, 0755); err != nil {
		return err
	}
	for name, src := range files {
		path := filepath.Join(*outDir, name)
		if err := os.WriteFile(path, src, 0644); err != nil {
			return err
		}
		log.Printf("wrote %s", path)
	}
	return nil
}

// buildDemoSpec constructs a two-population excitatory/inhibitory
// network connected by a fixed-probability sparse projection, plus one
// constant current source on the excitatory population -- the shape of
// original_source/vogels/model.cc, reduced to what the reference
// backend can exercise end to end.
func buildDemoSpec(spec *netspec.Spec) error {
	lifParams := []float64{
		200.0, // C
		20.0,  // TauM
		-60.0, // Vrest
		-60.0, // Vreset
		-50.0, // Vthresh
		0.0,   // Ioffset
		2.0,   // TRefrac
	}
	restInit := netspec.VarInitRef{Init: model.UniformInit, Params: []float64{-60.0}}
	zeroRefrac := netspec.VarInitRef{Init: model.UniformInit, Params: []float64{0.0}}

	if _, err := spec.AddNeuronGroup("Exc", 4000, model.LIF, lifParams, []netspec.VarInitRef{restInit, zeroRefrac}); err != nil {
		return err
	}
	if _, err := spec.AddNeuronGroup("Inh", 1000, model.LIF, lifParams, []netspec.VarInitRef{restInit, zeroRefrac}); err != nil {
		return err
	}

	gInit := netspec.VarInitRef{Init: model.UniformInit, Params: []float64{0.02}}
	connInit := []float64{0.02} // P

	if _, err := spec.AddSynapseGroup("ExcToInh", netspec.SynapseGroupSpec{
		Source:         "Exc",
		Target:         "Inh",
		MatrixType:     netspec.SparseIndividual,
		WeightUpdate:   model.StaticPulse,
		WUVarInits:     []netspec.VarInitRef{gInit},
		WUPreVarInits:  nil,
		WUPostVarInits: nil,
		Postsynaptic:   model.ExpDecay,
		PSParams:       []float64{5.0}, // Tau
		ConnInit:       model.FixedProbability,
		ConnInitParams: connInit,
	}); err != nil {
		return err
	}

	if _, err := spec.AddCurrentSource("ExcDrive", "Exc", model.ConstantCurrent, []float64{20.0}); err != nil {
		return err
	}

	return nil
}

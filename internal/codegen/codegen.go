// Copyright (c) 2022, The GoKi Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package codegen is the Code Emitter: it walks a finalized spec's
// merged groups and writes initialization, neuron-update, and
// synapse-update source text through a backend.Backend, applying the
// Substitution Layer to every code fragment along the way. It never
// touches the filesystem -- Generate returns the emitted files as an
// in-memory map, the same shape the teacher's ProcessFiles builds
// before a caller decides whether and where to write them.
package codegen

import (
	"bytes"
	"fmt"

	"github.com/emer/sncode/internal/backend"
	"github.com/emer/sncode/internal/merge"
	"github.com/emer/sncode/internal/netspec"
	"github.com/emer/sncode/internal/subst"
)

// Generate runs all three emitters plus the common-definitions header
// over spec and part against be, returning one entry per output
// artifact (spec.md 6: one file each for init, neuron update, synapse
// update, plus a common header). It fails fast: the first error from
// any stage aborts the whole generation (spec.md 4.9).
func Generate(spec *netspec.Spec, part *merge.Partitions, be backend.Backend) (map[string][]byte, error) {
	out := map[string][]byte{}

	def, err := genDefinitions(spec, part)
	if err != nil {
		return nil, err
	}
	out["definitions.h"] = def

	initSrc, err := genInit(spec, part, be)
	if err != nil {
		return nil, err
	}
	out["init.c"] = initSrc

	neuronSrc, err := genNeuronUpdate(spec, part, be)
	if err != nil {
		return nil, err
	}
	out["neuronUpdate.c"] = neuronSrc

	synapseSrc, err := genSynapseUpdate(spec, part, be)
	if err != nil {
		return nil, err
	}
	out["synapseUpdate.c"] = synapseSrc

	return out, nil
}

// rootScope builds the generation-wide root substitution scope: system
// locals that never change identity across a run. Per-group and
// per-element scopes are children of this one.
func rootScope(be backend.Backend) *subst.Scope {
	root := subst.NewScope(nil)
	// addToInSyn is intentionally not installed here: it is only ever
	// referenced from weight-update sim code (e.g. model.StaticPulse),
	// which runs in the synapse-update kernel where there is no linSyn
	// local to add into -- genSynapseUpdateGroup installs a
	// group-correct override that writes the target's actual
	// inSyn_<mergeTarget> array.
	root.AddFuncSubstitution("injectCurrent", 1, "Isyn += $(0);")
	root.AddLiteralSubstitution("endRow", "break;")
	root.AddLiteralSubstitution("endCol", "break;")
	root.AddFuncSubstitution("addSynapse", 1, be.GetMergedGroupFieldPrefix()+"addSynapse($(0));")
	root.AddFuncSubstitution("skip", 1, "continue;")
	return root
}

func applyOrWrap(scope *subst.Scope, code, context string, precision netspec.ScalarPrecision) (string, error) {
	if code == "" {
		return "", nil
	}
	resolved, err := scope.ApplyCheckUnreplaced(code, context)
	if err != nil {
		return "", err
	}
	return string(subst.RewriteForPrecision([]byte(resolved), precision)), nil
}

func writeFrag(w *bytes.Buffer, scope *subst.Scope, code, context string, precision netspec.ScalarPrecision) error {
	s, err := applyOrWrap(scope, code, context, precision)
	if err != nil {
		return err
	}
	if s != "" {
		fmt.Fprintln(w, s)
	}
	return nil
}

// genDefinitions emits the common-definitions header: one struct per
// merged neuron-update and synapse-update class naming its
// heterogeneous fields, and an instance array declaration for each.
// Merged init classes get no struct.
func genDefinitions(spec *netspec.Spec, part *merge.Partitions) ([]byte, error) {
	var buf bytes.Buffer
	fmt.Fprintln(&buf, "#pragma once")
	fmt.Fprintln(&buf, "// auto-generated merged-group definitions")
	for _, g := range part.NeuronUpdate {
		fmt.Fprintf(&buf, "struct MergedNeuronUpdateGroup%d {\n", g.Index)
		fmt.Fprintln(&buf, "  unsigned int numNeurons;")
		for k, het := range g.ParamHet {
			if het.IsTrue() {
				fmt.Fprintf(&buf, "  float param%d[%d];\n", k, len(g.Members))
			}
		}
		for k, het := range g.DerivedParamHet {
			if het.IsTrue() {
				fmt.Fprintf(&buf, "  float derivedParam%d[%d];\n", k, len(g.Members))
			}
		}
		fmt.Fprintln(&buf, "};")
		fmt.Fprintf(&buf, "MergedNeuronUpdateGroup%d mergedNeuronUpdateGroup%d;\n", g.Index, g.Index)
	}
	for _, g := range part.SynapseUpdate {
		fmt.Fprintf(&buf, "struct MergedSynapseUpdateGroup%d {\n", g.Index)
		fmt.Fprintln(&buf, "  unsigned int numSrcNeurons, numTrgNeurons;")
		for k, het := range g.WUParamHet {
			if het.IsTrue() {
				fmt.Fprintf(&buf, "  float wuParam%d[%d];\n", k, len(g.Members))
			}
		}
		for k, het := range g.PSParamHet {
			if het.IsTrue() {
				fmt.Fprintf(&buf, "  float psParam%d[%d];\n", k, len(g.Members))
			}
		}
		fmt.Fprintln(&buf, "};")
		fmt.Fprintf(&buf, "MergedSynapseUpdateGroup%d mergedSynapseUpdateGroup%d;\n", g.Index, g.Index)
	}
	return buf.Bytes(), nil
}

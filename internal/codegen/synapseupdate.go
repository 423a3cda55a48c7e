// Copyright (c) 2022, The GoKi Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package codegen

import (
	"bytes"
	"fmt"
	"io"

	"github.com/emer/sncode/internal/backend"
	"github.com/emer/sncode/internal/merge"
	"github.com/emer/sncode/internal/netspec"
	"github.com/emer/sncode/internal/subst"
)

// genSynapseUpdate implements spec.md 4.8: five callback pathways per
// merged synapse-update group (pre-spike true-spike code, spike-like
// event code, procedural-connectivity row code, post-learning code,
// synapse-dynamics code), each applying its fragment through a scope
// carrying weight-update/postsynaptic parameters and both endpoints'
// neuron-side state.
func genSynapseUpdate(spec *netspec.Spec, part *merge.Partitions, be backend.Backend) ([]byte, error) {
	var buf bytes.Buffer
	root := rootScope(be)
	err := be.GenSynapseUpdate(&buf, len(part.SynapseUpdate), spec.Timing, func(w io.Writer, idx int) error {
		return genSynapseUpdateGroup(w.(*bytes.Buffer), spec, part.SynapseUpdate[idx], be, root)
	})
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// applySynapseSubstitutions builds the per-callback scope spec.md 4.8
// describes: weight-update/postsynaptic param+derived-param
// substitutions, pre/post weight-update variable substitutions
// (delay-offset prefixed when the corresponding delay is non-zero), and
// matrix-class-keyed weight-variable substitutions.
func applySynapseSubstitutions(spec *netspec.Spec, g *merge.MergedSynapseUpdateGroup, root *subst.Scope, be backend.Backend, idSynDeclared bool) *subst.Scope {
	arch := g.Archetype
	scope := subst.NewScope(root)
	scope.AddVarNameSubstitution([]string{"id_pre", "id_post"}, "", "", "")
	if idSynDeclared {
		scope.AddVarNameSubstitution([]string{"id_syn"}, "", "", "")
	}
	// addToInSyn writes into the target neuron group's own incoming-PS
	// accumulator array, indexed by the postsynaptic element -- there is
	// no linSyn local here (that only exists inside genIncomingPS).
	scope.AddFuncSubstitution("addToInSyn", 1, fmt.Sprintf("inSyn_%s[id_post] += $(0);", arch.MergeTargetName))

	scope.AddParamValueSubstitution(arch.WeightUpdate.ParamNames(), arch.WUParams, g.WUParamHet, be.GetMergedGroupFieldPrefix(), "wuParam", spec.ScalarPrecision)
	scope.AddParamValueSubstitution(arch.WeightUpdate.DerivedParamNames(), arch.WUDerivedParams, g.WUDerivedParamHet, be.GetMergedGroupFieldPrefix(), "wuDerivedParam", spec.ScalarPrecision)
	scope.AddParamValueSubstitution(arch.Postsynaptic.ParamNames(), arch.PSParams, g.PSParamHet, be.GetMergedGroupFieldPrefix(), "psParam", spec.ScalarPrecision)
	scope.AddParamValueSubstitution(arch.Postsynaptic.DerivedParamNames(), arch.PSDerivedParams, g.PSDerivedParamHet, be.GetMergedGroupFieldPrefix(), "psDerivedParam", spec.ScalarPrecision)

	preIdx, postIdx := "[id_pre]", "[id_post]"
	if arch.AxonalDelay > 0 {
		scope.AddVarNameSubstitution([]string{"id_pre"}, "", "preReadDelayOffset + ", "")
		preIdx = "[preReadDelayOffset + id_pre]"
	}
	if arch.BackPropDelay > 0 {
		scope.AddVarNameSubstitution([]string{"id_post"}, "", "postReadDelayOffset + ", "")
		postIdx = "[postReadDelayOffset + id_post]"
	}

	scope.AddVarNameSubstitution(varNames(arch.WeightUpdate.PreVars), "", "", preIdx)
	scope.AddVarNameSubstitution(varNames(arch.WeightUpdate.PostVars), "", "", postIdx)

	switch {
	case arch.MatrixType.HasIndividualVars():
		scope.AddVarNameSubstitution(varNames(arch.WeightUpdate.Vars), "", "", "[id_syn]")
	case arch.MatrixType == netspec.Procedural:
		// Procedural variables are declared and substituted by the
		// caller, which runs each variable's initializer in a fresh
		// inner scope before applying the body (spec.md 4.8).
	default:
		for i, v := range arch.WeightUpdate.Vars {
			vi := arch.WUVarInits[i]
			if vi.Init != nil {
				scope.AddVarValueSubstitution([]string{v.Name}, vi.Params, spec.ScalarPrecision)
			}
		}
	}

	scope.AddVarNameSubstitution(varNames(arch.Source.Model.Vars), "_pre", "", "[id_pre]")
	scope.AddVarNameSubstitution(varNames(arch.Target.Model.Vars), "_post", "", "[id_post]")

	return scope
}

func genSynapseUpdateGroup(w *bytes.Buffer, spec *netspec.Spec, g *merge.MergedSynapseUpdateGroup, be backend.Backend, root *subst.Scope) error {
	arch := g.Archetype
	ctx := fmt.Sprintf("synapse-update group %d (%s)", g.Index, arch.Name)
	idSyn := arch.MatrixType.HasIndividualVars()

	emit := func(buf *bytes.Buffer, code, label string) error {
		if code == "" {
			return nil
		}
		scope := applySynapseSubstitutions(spec, g, root, be, idSyn)
		if arch.MatrixType == netspec.Procedural {
			if err := declareProceduralVars(buf, spec, g, scope, be, ctx); err != nil {
				return err
			}
		}
		return writeFrag(buf, scope, code, ctx+" "+label, spec.ScalarPrecision)
	}

	genRow := func(body func(buf *bytes.Buffer) error) error {
		if arch.MatrixType == netspec.Procedural {
			fmt.Fprintln(w, "for (int id_pre = 0; id_pre < numSrcNeurons; id_pre++) {")
			fmt.Fprintln(w, "while (true) {")
			if err := body(w); err != nil {
				return err
			}
			fmt.Fprintln(w, "}")
			fmt.Fprintln(w, "}")
			return nil
		}
		return body(w)
	}

	// pre-spike true-spike code.
	if arch.WeightUpdate.SimCode != "" {
		if err := genRow(func(buf *bytes.Buffer) error {
			return emit(buf, arch.WeightUpdate.SimCode, "pre-spike sim code")
		}); err != nil {
			return err
		}
	}

	// spike-like event code.
	if arch.WeightUpdate.SpikeEventRequired {
		scope := applySynapseSubstitutions(spec, g, root, be, idSyn)
		cond, err := applyOrWrap(scope, arch.WeightUpdate.EventThresholdCode, ctx+" event threshold", spec.ScalarPrecision)
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "if (%s) {\n", cond)
		if err := genRow(func(buf *bytes.Buffer) error {
			return emit(buf, arch.WeightUpdate.EventCode, "spike-event code")
		}); err != nil {
			return err
		}
		fmt.Fprintln(w, "}")
	}

	// post-learning code.
	if arch.WeightUpdate.LearnPostCode != "" {
		if err := emit(w, arch.WeightUpdate.LearnPostCode, "post-learning code"); err != nil {
			return err
		}
	}

	// synapse-dynamics code: runs every timestep regardless of spiking.
	if arch.WeightUpdate.SynapseDynamicsCode != "" {
		if err := genRow(func(buf *bytes.Buffer) error {
			return emit(buf, arch.WeightUpdate.SynapseDynamicsCode, "synapse-dynamics code")
		}); err != nil {
			return err
		}
	}

	return nil
}

func declareProceduralVars(buf *bytes.Buffer, spec *netspec.Spec, g *merge.MergedSynapseUpdateGroup, scope *subst.Scope, be backend.Backend, ctx string) error {
	arch := g.Archetype
	for i, v := range arch.WeightUpdate.Vars {
		vi := arch.WUVarInits[i]
		if vi.Init == nil {
			continue
		}
		innerScope := subst.NewScope(scope)
		innerScope.AddLiteralSubstitution("value", "l"+v.Name)
		val, err := applyOrWrap(innerScope, vi.Init.Code, ctx+" procedural var "+v.Name, spec.ScalarPrecision)
		if err != nil {
			return err
		}
		fmt.Fprintf(buf, "%s l%s;\n{ %s }\n", v.Type.String(), v.Name, val)
		scope.AddVarNameSubstitution([]string{v.Name}, "", "l", "")
	}
	return nil
}

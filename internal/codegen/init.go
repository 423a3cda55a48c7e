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

// genInit implements spec.md 4.6: for each merged neuron-init group,
// zero the spike bookkeeping arrays, run every variable's initializer,
// run the merged-incoming-postsynaptic accumulators' initializers, and
// then walk each merged synapse-init group's connectivity.
func genInit(spec *netspec.Spec, part *merge.Partitions, be backend.Backend) ([]byte, error) {
	var buf bytes.Buffer
	if pre := be.RNGPreamble(spec.Seed); pre != "" {
		buf.WriteString(pre)
	}
	root := rootScope(be)
	groupCount := len(part.NeuronInit) + len(part.SynapseInit)

	err := be.GenInit(&buf, groupCount, func(w io.Writer, idx int) error {
		if idx < len(part.NeuronInit) {
			return genNeuronInitGroup(w.(*bytes.Buffer), spec, part.NeuronInit[idx], be, root)
		}
		return genSynapseInitGroup(w.(*bytes.Buffer), spec, part.SynapseInit[idx-len(part.NeuronInit)], be, root)
	})
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func genNeuronInitGroup(w *bytes.Buffer, spec *netspec.Spec, g *merge.MergedNeuronInitGroup, be backend.Backend, root *subst.Scope) error {
	arch := g.Archetype
	ctx := fmt.Sprintf("neuron-init group %d (%s)", g.Index, arch.Name)
	groupScope := subst.NewScope(root)

	delayed := arch.NumDelaySlots > 1

	// 1: zero spike counts.
	fmt.Fprintln(w, "spkCnt[0] = 0;")
	if arch.SpikeEventRequired {
		fmt.Fprintln(w, "spkCntEvnt[0] = 0;")
	}
	if delayed {
		fmt.Fprintf(w, "for (int d = 0; d < %d; d++) { spkCnt[d] = 0; }\n", arch.NumDelaySlots)
	}

	// 2-3: zero spike arrays and spike-time arrays -- per-element, so
	// routed through GenVariableInit. The queue pointer (4) is zeroed
	// once, after the per-element loop.
	err := be.GenVariableInit(w, "numNeurons", "id", groupScope, func(w io.Writer, scope *subst.Scope) error {
		buf := w.(*bytes.Buffer)
		slots := 1
		if delayed {
			slots = arch.NumDelaySlots
		}
		fmt.Fprintf(buf, "for (int d = 0; d < %d; d++) { spk[d*numNeurons + id] = 0; }\n", slots)
		if arch.SpikeEventRequired {
			fmt.Fprintf(buf, "for (int d = 0; d < %d; d++) { spkEvnt[d*numNeurons + id] = 0; }\n", slots)
		}
		if arch.SpikeTimeRequired {
			for _, name := range []string{"sT", "prevST"} {
				fmt.Fprintf(buf, "for (int d = 0; d < %d; d++) { %s[d*numNeurons + id] = -TIME_MAX; }\n", slots, name)
			}
		}
		if arch.SpikeEventRequired && arch.SpikeTimeRequired {
			for _, name := range []string{"seT", "prevSET"} {
				fmt.Fprintf(buf, "for (int d = 0; d < %d; d++) { %s[d*numNeurons + id] = -TIME_MAX; }\n", slots, name)
			}
		}

		// 5: per-variable initializer.
		for i, v := range arch.Model.Vars {
			vi := arch.VarInits[i]
			if vi.Init == nil || vi.Init.IsTrivial() {
				continue
			}
			varScope := subst.NewScope(scope)
			het := g.VarInitParamHet[i]
			varScope.AddParamValueSubstitution(vi.Init.ParamNames(), vi.Params, het, be.GetMergedGroupFieldPrefix(), v.Name+"InitParam", spec.ScalarPrecision)
			varScope.AddLiteralSubstitution("value", "l"+v.Name)
			varScope.AddLiteralSubstitution("randUniform", be.RandUniformExpr("id"))
			varScope.AddLiteralSubstitution("randNormal", be.RandNormalExpr("id"))
			fmt.Fprintf(buf, "%s l%s;\n", v.Type.String(), v.Name)
			if err := writeFrag(buf, varScope, vi.Init.Code, ctx+" var "+v.Name, spec.ScalarPrecision); err != nil {
				return err
			}
			fmt.Fprintf(buf, "%s[id] = l%s;\n", v.Name, v.Name)
		}
		return nil
	})
	if err != nil {
		return err
	}

	if delayed {
		fmt.Fprintln(w, "spkQuePtr = 0;")
	}

	// 6: merged-incoming-postsynaptic accumulators.
	for _, ps := range arch.IncomingPS {
		fmt.Fprintf(w, "for (int id = 0; id < numNeurons; id++) { inSyn_%s[id] = 0; }\n", ps.MergeTargetName)
		if ps.DendriticDelayRequired {
			fmt.Fprintf(w, "for (int id = 0; id < %d*numNeurons; id++) { denDelay_%s[id] = 0; }\n", ps.MaxDenDelay, ps.MergeTargetName)
			fmt.Fprintf(w, "denDelayPtr_%s = 0;\n", ps.MergeTargetName)
		}
		if ps.HasVarInit {
			psScope := subst.NewScope(groupScope)
			for i, v := range ps.Model.Vars {
				vi := ps.VarInits[i]
				if vi.Init == nil || vi.Init.IsTrivial() {
					continue
				}
				if err := writeFrag(w, psScope, vi.Init.Code, ctx+" postsynaptic var "+v.Name, spec.ScalarPrecision); err != nil {
					return err
				}
			}
		}
	}

	// 7: weight-update pre/post vars and current sources, delay-expanded.
	for _, sg := range arch.Incoming {
		for i, v := range sg.WeightUpdate.PostVars {
			vi := sg.WUPostVarInits[i]
			if vi.Init == nil || vi.Init.IsTrivial() {
				continue
			}
			if err := writeFrag(w, groupScope, vi.Init.Code, ctx+" post weight-update var "+v.Name, spec.ScalarPrecision); err != nil {
				return err
			}
		}
	}
	for _, sg := range arch.Outgoing {
		for i, v := range sg.WeightUpdate.PreVars {
			vi := sg.WUPreVarInits[i]
			if vi.Init == nil || vi.Init.IsTrivial() {
				continue
			}
			if err := writeFrag(w, groupScope, vi.Init.Code, ctx+" pre weight-update var "+v.Name, spec.ScalarPrecision); err != nil {
				return err
			}
		}
	}
	// Current sources carry no per-element variables of their own to
	// initialize here; their injection code runs at neuron-update time.

	return nil
}

func genSynapseInitGroup(w *bytes.Buffer, spec *netspec.Spec, g *merge.MergedSynapseInitGroup, be backend.Backend, root *subst.Scope) error {
	arch := g.Archetype
	ctx := fmt.Sprintf("synapse-init group %d (%s)", g.Index, arch.Name)
	groupScope := subst.NewScope(root)
	groupScope.AddVarNameSubstitution([]string{"id_pre", "id_post"}, "", "", "")

	switch {
	case arch.MatrixType == netspec.Dense:
		return be.GenVariableInit(w, "numSrcNeurons", "id_pre", groupScope, func(w io.Writer, scope *subst.Scope) error {
			buf := w.(*bytes.Buffer)
			return be.GenSynapseVariableRowInit(buf, "numTrgNeurons", scope, func(w io.Writer, rowScope *subst.Scope) error {
				return writeSynapseVarInits(w.(*bytes.Buffer), spec, g, arch, rowScope, "id_syn", ctx, be)
			})
		})
	case arch.MatrixType.IsSparse():
		if arch.ConnInit.HasRowBuild() {
			fmt.Fprintln(w, "for (int id_pre = 0; id_pre < numSrcNeurons; id_pre++) {")
			connScope := subst.NewScope(groupScope)
			connScope.AddParamValueSubstitution(arch.ConnInit.ParamNames(), arch.ConnInitParams, nil, be.GetMergedGroupFieldPrefix(), "connInitParam", spec.ScalarPrecision)
			connScope.AddLiteralSubstitution("randUniform", be.RandUniformExpr("id_pre"))
			connScope.AddLiteralSubstitution("randNormal", be.RandNormalExpr("id_pre"))
			connScope.AddLiteralSubstitution("num_post", "numTrgNeurons")
			fmt.Fprintln(w, "while (true) {")
			if err := writeFrag(w, connScope, arch.ConnInit.RowBuildCode, ctx+" row-build", spec.ScalarPrecision); err != nil {
				return err
			}
			fmt.Fprintln(w, "}")
			fmt.Fprintln(w, "}")
		}
		if arch.MatrixType == netspec.SparseIndividual {
			return be.GenVariableInit(w, "numSrcNeurons", "id_pre", groupScope, func(w io.Writer, scope *subst.Scope) error {
				buf := w.(*bytes.Buffer)
				return be.GenSynapseVariableRowInit(buf, "rowLength[id_pre]", scope, func(w io.Writer, rowScope *subst.Scope) error {
					return writeSynapseVarInits(w.(*bytes.Buffer), spec, g, arch, rowScope, "id_syn", ctx, be)
				})
			})
		}
		return nil
	case arch.MatrixType == netspec.Kernel:
		kernelScope := subst.NewScope(groupScope)
		kernelScope.AddVarNameSubstitution([]string{"id_kernel"}, "", "", "")
		return writeSynapseVarInits(w, spec, g, arch, kernelScope, "id_kernel", ctx, be)
	default:
		return nil
	}
}

func writeSynapseVarInits(w *bytes.Buffer, spec *netspec.Spec, g *merge.MergedSynapseInitGroup, arch *netspec.SynapseGroup, scope *subst.Scope, indexVar, ctx string, be backend.Backend) error {
	for i, v := range arch.WeightUpdate.Vars {
		vi := arch.WUVarInits[i]
		if vi.Init == nil || vi.Init.IsTrivial() {
			continue
		}
		varScope := subst.NewScope(scope)
		het := g.WUVarInitParamHet[i]
		varScope.AddParamValueSubstitution(vi.Init.ParamNames(), vi.Params, het, be.GetMergedGroupFieldPrefix(), v.Name+"InitParam", spec.ScalarPrecision)
		varScope.AddLiteralSubstitution("value", v.Name+"["+indexVar+"]")
		varScope.AddLiteralSubstitution("randUniform", be.RandUniformExpr(indexVar))
		varScope.AddLiteralSubstitution("randNormal", be.RandNormalExpr(indexVar))
		if err := writeFrag(w, varScope, vi.Init.Code, ctx+" weight-update var "+v.Name, spec.ScalarPrecision); err != nil {
			return err
		}
	}
	for i, v := range arch.Postsynaptic.Vars {
		vi := arch.PSVarInits[i]
		if vi.Init == nil || vi.Init.IsTrivial() {
			continue
		}
		varScope := subst.NewScope(scope)
		het := g.PSVarInitParamHet[i]
		varScope.AddParamValueSubstitution(vi.Init.ParamNames(), vi.Params, het, be.GetMergedGroupFieldPrefix(), v.Name+"InitParam", spec.ScalarPrecision)
		varScope.AddLiteralSubstitution("randUniform", be.RandUniformExpr(indexVar))
		varScope.AddLiteralSubstitution("randNormal", be.RandNormalExpr(indexVar))
		if err := writeFrag(w, varScope, vi.Init.Code, ctx+" postsynaptic var "+v.Name, spec.ScalarPrecision); err != nil {
			return err
		}
	}
	return nil
}

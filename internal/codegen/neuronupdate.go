// Copyright (c) 2022, The GoKi Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package codegen

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/emer/sncode/internal/backend"
	"github.com/emer/sncode/internal/merge"
	"github.com/emer/sncode/internal/model"
	"github.com/emer/sncode/internal/netspec"
	"github.com/emer/sncode/internal/subst"
)

// genNeuronUpdate implements spec.md 4.7: one per-element body per
// merged neuron-update group.
func genNeuronUpdate(spec *netspec.Spec, part *merge.Partitions, be backend.Backend) ([]byte, error) {
	var buf bytes.Buffer
	root := rootScope(be)
	err := be.GenNeuronUpdate(&buf, len(part.NeuronUpdate), spec.Timing, func(w io.Writer, idx int) error {
		return genNeuronUpdateGroup(w.(*bytes.Buffer), spec, part.NeuronUpdate[idx], be, root)
	})
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func genNeuronUpdateGroup(w *bytes.Buffer, spec *netspec.Spec, g *merge.MergedNeuronUpdateGroup, be backend.Backend, root *subst.Scope) error {
	arch := g.Archetype
	ctx := fmt.Sprintf("neuron-update group %d (%s)", g.Index, arch.Name)
	groupScope := subst.NewScope(root)
	groupScope.AddParamValueSubstitution(arch.Model.ParamNames(), arch.Params, g.ParamHet, be.GetMergedGroupFieldPrefix(), "param", spec.ScalarPrecision)
	groupScope.AddParamValueSubstitution(arch.Model.DerivedParamNames(), arch.DerivedParams, g.DerivedParamHet, be.GetMergedGroupFieldPrefix(), "derivedParam", spec.ScalarPrecision)

	delayed := arch.NumDelaySlots > 1

	return be.GenVariableInit(w, "numNeurons", "id", groupScope, func(w io.Writer, scope *subst.Scope) error {
		buf := w.(*bytes.Buffer)

		// 1: load neuron-model variables into locals.
		for _, v := range arch.Model.Vars {
			idxExpr := "id"
			if delayed {
				idxExpr = "readDelayOffset + id"
			}
			fmt.Fprintf(buf, "%s l%s = %s[%s];\n", v.Type.String(), v.Name, v.Name, idxExpr)
		}
		scope.AddVarNameSubstitution(varNames(arch.Model.Vars), "", "l", "")

		// 2: spike time.
		if arch.SpikeTimeRequired {
			idxExpr := "id"
			if delayed {
				idxExpr = "readDelayOffset + id"
			}
			fmt.Fprintf(buf, "scalar lsT = sT[%s];\n", idxExpr)
			scope.AddVarNameSubstitution([]string{"sT"}, "", "l", "")
		}

		// 3: Isyn accumulator.
		needsIsyn := arch.Model.NeedsIsyn
		for _, ps := range arch.IncomingPS {
			if strings.Contains(ps.Model.ApplyInputCode, "$(Isyn)") {
				needsIsyn = true
			}
		}
		if needsIsyn {
			fmt.Fprintln(buf, "scalar Isyn = 0;")
			scope.AddVarNameSubstitution([]string{"Isyn"}, "", "", "")
		}

		// 4: extra input vars.
		for _, iv := range arch.Model.ExtraInputVars {
			ivScope := subst.NewScope(scope)
			val, err := applyOrWrap(ivScope, iv.Init, ctx+" input var "+iv.Name, spec.ScalarPrecision)
			if err != nil {
				return err
			}
			fmt.Fprintf(buf, "%s %s = %s;\n", iv.Type.String(), iv.Name, val)
		}

		// 5: merged-incoming-postsynaptic accumulators.
		for _, ps := range arch.IncomingPS {
			if err := genIncomingPS(buf, spec, ps, scope, be, ctx); err != nil {
				return err
			}
		}

		// current sources: injection code runs alongside sim code.
		for _, cs := range arch.CurrentSources {
			csScope := subst.NewScope(scope)
			csScope.AddParamValueSubstitution(cs.Model.ParamNames(), cs.Params, nil, be.GetMergedGroupFieldPrefix(), "csParam", spec.ScalarPrecision)
			csScope.AddParamValueSubstitution(cs.Model.DerivedParamNames(), cs.DerivedParams, nil, be.GetMergedGroupFieldPrefix(), "csDerivedParam", spec.ScalarPrecision)
			if err := writeFrag(buf, csScope, cs.Model.InjectionCode, ctx+" current source "+cs.Name, spec.ScalarPrecision); err != nil {
				return err
			}
		}

		// 6: threshold condition, cached for auto-refractory.
		if arch.Model.AutoRefractory && arch.Model.ThresholdCode != "" {
			thVal, err := applyOrWrap(scope, arch.Model.ThresholdCode, ctx+" threshold (cached)", spec.ScalarPrecision)
			if err != nil {
				return err
			}
			fmt.Fprintf(buf, "bool oldSpike = (%s);\n", thVal)
		}

		// 7: sim code.
		if err := writeFrag(buf, scope, arch.Model.SimCode, ctx+" sim code", spec.ScalarPrecision); err != nil {
			return err
		}

		// 8: spike-like event.
		if arch.SpikeEventRequired {
			var conds []string
			for _, sg := range arch.Outgoing {
				if sg.WeightUpdate.SpikeEventRequired {
					v, err := applyOrWrap(scope, sg.WeightUpdate.EventThresholdCode, ctx+" event threshold", spec.ScalarPrecision)
					if err != nil {
						return err
					}
					conds = append(conds, "("+v+")")
				}
			}
			if len(conds) > 0 {
				fmt.Fprintf(buf, "bool spikeLikeEvent = %s;\n", strings.Join(conds, " || "))
				fmt.Fprintln(buf, "if (spikeLikeEvent) {")
				fmt.Fprintf(buf, "spkEvnt[%s] = id;\n", writeDelayIdx(delayed))
				fmt.Fprintln(buf, "}")
			}
		}

		// 9: true-spike threshold and reset.
		if arch.Model.ThresholdCode != "" {
			thVal, err := applyOrWrap(scope, arch.Model.ThresholdCode, ctx+" threshold", spec.ScalarPrecision)
			if err != nil {
				return err
			}
			cond := thVal
			if arch.Model.AutoRefractory {
				cond = "(" + thVal + ") && !oldSpike"
			}
			fmt.Fprintf(buf, "if (%s) {\n", cond)
			fmt.Fprintf(buf, "spk[%s] = id;\n", writeDelayIdx(delayed))
			if arch.SpikeTimeRequired {
				fmt.Fprintf(buf, "sT[%s] = t;\n", writeDelayIdx(delayed))
			}
			if err := writeFrag(buf, scope, arch.Model.ResetCode, ctx+" reset code", spec.ScalarPrecision); err != nil {
				return err
			}
			fmt.Fprintln(buf, "} else {")
			// 10: propagate previous spike time on the non-spiking branch.
			if delayed && arch.SpikeTimeRequired {
				fmt.Fprintf(buf, "sT[%s] = lsT;\n", writeDelayIdx(delayed))
			}
			fmt.Fprintln(buf, "}")
		}

		// 11: write back read-write / queued variables.
		for i, v := range arch.Model.Vars {
			queued := i < 64 && arch.QueueRequiredMask&(1<<uint(i)) != 0
			if v.Access != model.ReadWrite && !queued {
				continue
			}
			idxExpr := "id"
			if delayed {
				idxExpr = "writeDelayOffset + id"
			}
			fmt.Fprintf(buf, "%s[%s] = l%s;\n", v.Name, idxExpr, v.Name)
		}
		return nil
	})
}

func writeDelayIdx(delayed bool) string {
	if delayed {
		return "writeDelayOffset + id"
	}
	return "id"
}

func varNames(vars []model.Variable) []string {
	names := make([]string, len(vars))
	for i, v := range vars {
		names[i] = v.Name
	}
	return names
}

func genIncomingPS(buf *bytes.Buffer, spec *netspec.Spec, ps *netspec.IncomingPSGroup, scope *subst.Scope, be backend.Backend, ctx string) error {
	fmt.Fprintf(buf, "scalar linSyn = inSyn_%s[id];\n", ps.MergeTargetName)
	if ps.DendriticDelayRequired {
		fmt.Fprintf(buf, "linSyn += denDelay_%s[denDelayPtr_%s*numNeurons + id];\n", ps.MergeTargetName, ps.MergeTargetName)
		fmt.Fprintf(buf, "denDelay_%s[denDelayPtr_%s*numNeurons + id] = 0;\n", ps.MergeTargetName, ps.MergeTargetName)
	}
	psScope := subst.NewScope(scope)
	psScope.AddParamValueSubstitution(ps.Model.ParamNames(), ps.Params, nil, be.GetMergedGroupFieldPrefix(), "psParam", spec.ScalarPrecision)
	psScope.AddParamValueSubstitution(ps.Model.DerivedParamNames(), ps.DerivedParams, nil, be.GetMergedGroupFieldPrefix(), "psDerivedParam", spec.ScalarPrecision)
	psScope.AddVarNameSubstitution([]string{"inSyn"}, "", "l", "")
	for _, v := range ps.Model.Vars {
		fmt.Fprintf(buf, "%s lps%s = %s_%s[id];\n", v.Type.String(), v.Name, v.Name, ps.MergeTargetName)
	}
	psScope.AddVarNameSubstitution(varNames(ps.Model.Vars), "", "lps", "")
	if err := writeFrag(buf, psScope, ps.Model.ApplyInputCode, ctx+" apply-input "+ps.MergeTargetName, spec.ScalarPrecision); err != nil {
		return err
	}
	if err := writeFrag(buf, psScope, ps.Model.DecayCode, ctx+" decay "+ps.MergeTargetName, spec.ScalarPrecision); err != nil {
		return err
	}
	fmt.Fprintf(buf, "inSyn_%s[id] = linSyn;\n", ps.MergeTargetName)
	for _, v := range ps.Model.Vars {
		if v.Access == model.ReadWrite {
			fmt.Fprintf(buf, "%s_%s[id] = lps%s;\n", v.Name, ps.MergeTargetName, v.Name)
		}
	}
	return nil
}

// Copyright (c) 2022, The GoKi Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package merge

import (
	"golang.org/x/exp/slices"

	"github.com/emer/sncode/internal/netspec"
	"github.com/emer/sncode/internal/requirements"
)

func floatSliceEqual(a, b []float64) bool {
	return slices.Equal(a, b)
}

// varInitRefEqual reports whether two variable-initializer references
// use the same initializer snippet identity -- parameter equality is
// deliberately not required here, since a differing initializer
// parameter is promoted to a per-member field rather than blocking the
// merge (spec.md 4.4: "parameter equality optional: heterogeneity
// promoted to runtime field").
func varInitRefEqual(a, b netspec.VarInitRef) bool {
	return a.Init == b.Init
}

func varInitRefListMergeable(a, b []netspec.VarInitRef) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !varInitRefEqual(a[i], b[i]) {
			return false
		}
	}
	return true
}

// currentSourceListMergeable reports whether two current-source lists
// are pairwise mergeable (same model, same params) allowing reordering.
func currentSourceListMergeable(a, b []*netspec.CurrentSourceInst) bool {
	if len(a) != len(b) {
		return false
	}
	remaining := slices.Clone(b)
	for _, ca := range a {
		i := slices.IndexFunc(remaining, func(cb *netspec.CurrentSourceInst) bool {
			return ca.Model == cb.Model && floatSliceEqual(ca.Params, cb.Params)
		})
		if i < 0 {
			return false
		}
		remaining = slices.Delete(remaining, i, i+1)
	}
	return true
}

// postsynapticGroupMergeable reports whether two merged-incoming-
// postsynaptic accumulators are interchangeable for update-merging
// purposes: same model, same resolved params and derived params, and
// the same number of member synapse groups feeding them (so both sides
// read the same number of per-member fields at the same archetype
// positions).
func postsynapticGroupMergeable(a, b *netspec.IncomingPSGroup) bool {
	if a.Model != b.Model {
		return false
	}
	if !floatSliceEqual(a.Params, b.Params) || !floatSliceEqual(a.DerivedParams, b.DerivedParams) {
		return false
	}
	if len(a.Members) != len(b.Members) {
		return false
	}
	return varInitRefListMergeable(a.VarInits, b.VarInits)
}

func incomingPSListsMergeable(a, b *netspec.NeuronGroup) bool {
	if len(a.IncomingPS) != len(b.IncomingPS) {
		return false
	}
	remaining := slices.Clone(b.IncomingPS)
	for _, ga := range a.IncomingPS {
		i := slices.IndexFunc(remaining, func(gb *netspec.IncomingPSGroup) bool {
			return postsynapticGroupMergeable(ga, gb)
		})
		if i < 0 {
			return false
		}
		remaining = slices.Delete(remaining, i, i+1)
	}
	return true
}

func outgoingEventConditions(ng *netspec.NeuronGroup) []requirements.EventCondition {
	var out []requirements.EventCondition
	for _, sg := range ng.Outgoing {
		if sg.WeightUpdate.SpikeEventRequired {
			out = append(out, requirements.EventCondition{
				Code:      sg.WeightUpdate.EventThresholdCode,
				Namespace: sg.WeightUpdate.Name,
			})
		}
	}
	return out
}

// updateMergeable implements spec.md 4.4's update-phase equivalence
// relation for neuron groups.
func updateMergeable(a, b *netspec.NeuronGroup) bool {
	if a.Model != b.Model {
		return false
	}
	if !floatSliceEqual(a.Params, b.Params) || !floatSliceEqual(a.DerivedParams, b.DerivedParams) {
		return false
	}
	if a.SpikeTimeRequired != b.SpikeTimeRequired {
		return false
	}
	if a.QueueRequiredMask != b.QueueRequiredMask {
		return false
	}
	if !requirements.EventConditionSetsEqual(outgoingEventConditions(a), outgoingEventConditions(b)) {
		return false
	}
	if !currentSourceListMergeable(a.CurrentSources, b.CurrentSources) {
		return false
	}
	return incomingPSListsMergeable(a, b)
}

// initMergeable implements spec.md 4.4's init-phase equivalence relation
// for neuron groups.
func initMergeable(a, b *netspec.NeuronGroup) bool {
	if a.SpikeTimeRequired != b.SpikeTimeRequired {
		return false
	}
	if a.SpikeEventRequired != b.SpikeEventRequired {
		return false
	}
	if a.NumDelaySlots != b.NumDelaySlots {
		return false
	}
	if a.QueueRequiredMask != b.QueueRequiredMask {
		return false
	}
	return varInitRefListMergeable(a.VarInits, b.VarInits)
}

// synapseUpdateMergeable is the synapse-group analog of updateMergeable:
// same weight-update/postsynaptic model identity, resolved params, and
// derived params; the structural flags that matter are already folded
// into the owning neuron groups' update-mergeability, so a synapse
// group's own update-mergeability only needs the model/param/delay
// agreement that determines its own per-synapse code.
func synapseUpdateMergeable(a, b *netspec.SynapseGroup) bool {
	if a.WeightUpdate != b.WeightUpdate || a.Postsynaptic != b.Postsynaptic {
		return false
	}
	if a.MatrixType != b.MatrixType {
		return false
	}
	if !floatSliceEqual(a.WUParams, b.WUParams) || !floatSliceEqual(a.WUDerivedParams, b.WUDerivedParams) {
		return false
	}
	if !floatSliceEqual(a.PSParams, b.PSParams) || !floatSliceEqual(a.PSDerivedParams, b.PSDerivedParams) {
		return false
	}
	if a.AxonalDelay != b.AxonalDelay || a.BackPropDelay != b.BackPropDelay || a.DendriticDelay != b.DendriticDelay {
		return false
	}
	return true
}

// synapseInitMergeable requires the same matrix class and connectivity
// initializer identity, plus pairwise-mergeable variable initializers
// (parameter equality optional, as for neurons).
func synapseInitMergeable(a, b *netspec.SynapseGroup) bool {
	if a.MatrixType != b.MatrixType {
		return false
	}
	if a.ConnInit != b.ConnInit {
		return false
	}
	if !varInitRefListMergeable(a.WUVarInits, b.WUVarInits) {
		return false
	}
	if !varInitRefListMergeable(a.WUPreVarInits, b.WUPreVarInits) {
		return false
	}
	if !varInitRefListMergeable(a.WUPostVarInits, b.WUPostVarInits) {
		return false
	}
	return varInitRefListMergeable(a.PSVarInits, b.PSVarInits)
}

// Copyright (c) 2022, The GoKi Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package merge

import (
	"log"

	"github.com/emer/sncode/internal/gpubool"
	"github.com/emer/sncode/internal/merge/fieldlayout"
	"github.com/emer/sncode/internal/netspec"
)

// partitionGeneric implements spec.md 4.4's greedy partitioning: each
// unassigned item opens a new class with itself as archetype, then every
// remaining unassigned item that is mergeable with the archetype joins
// that class. Order of items (addition order) determines archetype
// choice, making partitioning deterministic (P6).
func partitionGeneric[T any](items []T, mergeable func(a, b T) bool) [][]T {
	assigned := make([]bool, len(items))
	var classes [][]T
	for i := range items {
		if assigned[i] {
			continue
		}
		class := []T{items[i]}
		assigned[i] = true
		for j := i + 1; j < len(items); j++ {
			if assigned[j] {
				continue
			}
			if mergeable(items[i], items[j]) {
				class = append(class, items[j])
				assigned[j] = true
			}
		}
		classes = append(classes, class)
	}
	return classes
}

// paramHeterogeneity reports, for each slot k across members (all of the
// same length), whether any member's value at k differs from the
// archetype's (members[0]) value at k. The result is a merged-group
// field-table flag array (gpubool.Bool), the accelerator-safe boolean
// every Het table is built from.
func paramHeterogeneity(members [][]float64) []gpubool.Bool {
	if len(members) == 0 || len(members[0]) == 0 {
		return nil
	}
	n := len(members[0])
	het := make([]gpubool.Bool, n)
	for _, m := range members[1:] {
		for k := 0; k < n; k++ {
			if m[k] != members[0][k] {
				het[k] = gpubool.True
			}
		}
	}
	return het
}

// varInitParamHeterogeneity computes, per model variable slot, the
// per-initializer-parameter heterogeneity across members' VarInitRef at
// that slot. Members lacking an initializer at a slot (Init == nil)
// contribute no parameters and are skipped; varInitRefListMergeable
// already guarantees either all members agree on Init identity (so
// either all are nil, or all point at the same *model.VarInit with the
// same parameter count).
func varInitParamHeterogeneity(refs [][]netspec.VarInitRef) [][]gpubool.Bool {
	if len(refs) == 0 {
		return nil
	}
	nSlots := len(refs[0])
	out := make([][]gpubool.Bool, nSlots)
	for slot := 0; slot < nSlots; slot++ {
		if refs[0][slot].Init == nil {
			continue
		}
		var vals [][]float64
		for _, r := range refs {
			vals = append(vals, r[slot].Params)
		}
		out[slot] = paramHeterogeneity(vals)
	}
	return out
}

// Partition runs the Merging Engine over a finalized spec, producing one
// set of merged classes per phase and kind. It panics if called before
// netspec.Spec.Finalize, mirroring the package's other operations'
// defense against out-of-order use.
func Partition(spec *netspec.Spec) (*Partitions, error) {
	if !spec.Finalized() {
		panic("merge: Partition called on a spec that has not been Finalized")
	}

	p := &Partitions{}

	neuronUpdateClasses := partitionGeneric(spec.NeuronGroups(), updateMergeable)
	for i, class := range neuronUpdateClasses {
		var params, derived [][]float64
		for _, ng := range class {
			params = append(params, ng.Params)
			derived = append(derived, ng.DerivedParams)
		}
		p.NeuronUpdate = append(p.NeuronUpdate, &MergedNeuronUpdateGroup{
			Index:           i,
			Members:         class,
			Archetype:       class[0],
			ParamHet:        paramHeterogeneity(params),
			DerivedParamHet: paramHeterogeneity(derived),
		})
	}

	neuronInitClasses := partitionGeneric(spec.NeuronGroups(), initMergeable)
	for i, class := range neuronInitClasses {
		var refs [][]netspec.VarInitRef
		for _, ng := range class {
			refs = append(refs, ng.VarInits)
		}
		p.NeuronInit = append(p.NeuronInit, &MergedNeuronInitGroup{
			Index:           i,
			Members:         class,
			Archetype:       class[0],
			VarInitParamHet: varInitParamHeterogeneity(refs),
		})
	}

	synapseUpdateClasses := partitionGeneric(spec.SynapseGroups(), synapseUpdateMergeable)
	for i, class := range synapseUpdateClasses {
		var wuParams, wuDerived, psParams, psDerived [][]float64
		for _, sg := range class {
			wuParams = append(wuParams, sg.WUParams)
			wuDerived = append(wuDerived, sg.WUDerivedParams)
			psParams = append(psParams, sg.PSParams)
			psDerived = append(psDerived, sg.PSDerivedParams)
		}
		mg := &MergedSynapseUpdateGroup{
			Index:             i,
			Members:           class,
			Archetype:         class[0],
			WUParamHet:        paramHeterogeneity(wuParams),
			WUDerivedParamHet: paramHeterogeneity(wuDerived),
			PSParamHet:        paramHeterogeneity(psParams),
			PSDerivedParamHet: paramHeterogeneity(psDerived),
		}
		p.SynapseUpdate = append(p.SynapseUpdate, mg)
		checkFieldLayout(sg0Name(class), mg.WUParamHet, mg.WUDerivedParamHet, mg.PSParamHet, mg.PSDerivedParamHet)
	}

	synapseInitClasses := partitionGeneric(spec.SynapseGroups(), synapseInitMergeable)
	for i, class := range synapseInitClasses {
		var wuRefs, psRefs [][]netspec.VarInitRef
		for _, sg := range class {
			wuRefs = append(wuRefs, sg.WUVarInits)
			psRefs = append(psRefs, sg.PSVarInits)
		}
		p.SynapseInit = append(p.SynapseInit, &MergedSynapseInitGroup{
			Index:             i,
			Members:           class,
			Archetype:         class[0],
			WUVarInitParamHet: varInitParamHeterogeneity(wuRefs),
			PSVarInitParamHet: varInitParamHeterogeneity(psRefs),
		})
	}

	return p, nil
}

func sg0Name(class []*netspec.SynapseGroup) string { return class[0].Name }

// checkFieldLayout is an advisory, non-fatal pass (spec.md leaves field
// packing as a quality-of-generation concern, not a correctness one): it
// logs when a merged synapse group's heterogeneous-field table would not
// pack to an even 16 byte multiple, the same diagnostic the teacher's
// alignsl prints for a misaligned HLSL struct.
func checkFieldLayout(name string, fieldSets ...[]gpubool.Bool) {
	var fields []fieldlayout.Field
	for _, het := range fieldSets {
		for k, h := range het {
			if h.IsTrue() {
				fields = append(fields, fieldlayout.Field{Name: indexedName(k), Kind: fieldlayout.Float32})
			}
		}
	}
	if ok, size := fieldlayout.Check(fields); !ok {
		log.Print(fieldlayout.Describe(name, fields, size))
	}
}

func indexedName(k int) string {
	const letters = "abcdefghijklmnopqrstuvwxyz"
	if k < len(letters) {
		return string(letters[k])
	}
	return "f" + string(rune('0'+k%10))
}

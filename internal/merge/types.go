// Copyright (c) 2022, The GoKi Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package merge is the Merging Engine: it partitions a finalized spec's
// groups into merged classes, one set per phase (init vs. update) and
// per kind (neuron vs. synapse), such that every member of a class
// admits the same emitted code up to a set of per-group field
// substitutions. For each class it names an archetype (the first
// member, chosen canonically) and records, per parameter slot, whether
// every member agrees (homogeneous, emitted as a literal) or some
// member disagrees (heterogeneous, emitted as a per-member field load).
package merge

import (
	"github.com/emer/sncode/internal/gpubool"
	"github.com/emer/sncode/internal/netspec"
)

// MergedNeuronUpdateGroup is one update-phase equivalence class of
// neuron groups.
type MergedNeuronUpdateGroup struct {
	Index     int
	Members   []*netspec.NeuronGroup
	Archetype *netspec.NeuronGroup

	ParamHet        []gpubool.Bool // per Model.Params slot
	DerivedParamHet []gpubool.Bool // per Model.DerivedParams slot
}

func (g *MergedNeuronUpdateGroup) IsParamHeterogeneous(k int) bool { return g.ParamHet[k].IsTrue() }
func (g *MergedNeuronUpdateGroup) IsDerivedParamHeterogeneous(k int) bool {
	return g.DerivedParamHet[k].IsTrue()
}

// MergedNeuronInitGroup is one init-phase equivalence class of neuron
// groups. Model parameters play no role in init-mergeability (spec.md
// 4.4); what varies per-slot is each model variable's initializer
// parameters.
type MergedNeuronInitGroup struct {
	Index     int
	Members   []*netspec.NeuronGroup
	Archetype *netspec.NeuronGroup

	// VarInitParamHet[v][k] is true when member initializers for model
	// variable v disagree on initializer-parameter slot k.
	VarInitParamHet [][]gpubool.Bool
}

func (g *MergedNeuronInitGroup) IsVarInitParamHeterogeneous(varIdx, paramIdx int) bool {
	return g.VarInitParamHet[varIdx][paramIdx].IsTrue()
}

// MergedSynapseUpdateGroup is one update-phase equivalence class of
// synapse groups.
type MergedSynapseUpdateGroup struct {
	Index     int
	Members   []*netspec.SynapseGroup
	Archetype *netspec.SynapseGroup

	WUParamHet        []gpubool.Bool
	WUDerivedParamHet []gpubool.Bool
	PSParamHet        []gpubool.Bool
	PSDerivedParamHet []gpubool.Bool
}

func (g *MergedSynapseUpdateGroup) IsWUParamHeterogeneous(k int) bool { return g.WUParamHet[k].IsTrue() }
func (g *MergedSynapseUpdateGroup) IsWUDerivedParamHeterogeneous(k int) bool {
	return g.WUDerivedParamHet[k].IsTrue()
}
func (g *MergedSynapseUpdateGroup) IsPSParamHeterogeneous(k int) bool { return g.PSParamHet[k].IsTrue() }
func (g *MergedSynapseUpdateGroup) IsPSDerivedParamHeterogeneous(k int) bool {
	return g.PSDerivedParamHet[k].IsTrue()
}

// MergedSynapseInitGroup is one init-phase equivalence class of synapse
// groups.
type MergedSynapseInitGroup struct {
	Index     int
	Members   []*netspec.SynapseGroup
	Archetype *netspec.SynapseGroup

	WUVarInitParamHet [][]gpubool.Bool
	PSVarInitParamHet [][]gpubool.Bool
}

// Partitions is the complete set of merged classes for a finalized spec,
// one slice per phase/kind.
type Partitions struct {
	NeuronUpdate  []*MergedNeuronUpdateGroup
	NeuronInit    []*MergedNeuronInitGroup
	SynapseUpdate []*MergedSynapseUpdateGroup
	SynapseInit   []*MergedSynapseInitGroup
}

// Copyright (c) 2022, The GoKi Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package netspec

import "github.com/emer/sncode/internal/model"

// VarInitRef pairs a variable initializer snippet with its resolved
// parameter values, the shape every per-variable initializer (neuron,
// postsynaptic, weight-update pre/post/per-synapse) takes throughout
// the spec.
type VarInitRef struct {
	Init   *model.VarInit
	Params []float64
}

// IncomingPSGroup is one merged-incoming-postsynaptic accumulator on a
// neuron group: one or more synapse groups that share a single inSyn
// buffer because their postsynaptic models are linearly combinable
// (model.LinearlyCombinable), or exactly one synapse group when merging
// is disabled or not applicable.
type IncomingPSGroup struct {
	MergeTargetName        string
	Model                  *model.Postsynaptic
	Params                 []float64
	DerivedParams          []float64
	VarInits               []VarInitRef
	Members                []*SynapseGroup
	DendriticDelayRequired bool
	MaxDenDelay            int

	// HasVarInit is true iff the representative member's PSVarInits
	// carries a non-trivial initializer -- a fact about this group's
	// own configuration, not about the (possibly shared, singleton)
	// Model descriptor. model.LinearlyCombinable merge decisions consult
	// this per-group value, never a field on Model itself.
	HasVarInit bool
}

// NeuronGroup is one population: a size, a neuron model, resolved
// parameter/variable values, and the incoming/outgoing synapse and
// current-source references that wire it into the network. Computed
// attributes (delay slots, requirement flags, queue mask, merged
// incoming list) are populated by Spec.Finalize and are read-only
// afterward.
type NeuronGroup struct {
	Name  string
	Size  int
	Model *model.Neuron

	Params       []float64
	VarInits     []VarInitRef // one per Model.Vars, in order
	VarLocations []VarLocation

	Incoming       []*SynapseGroup
	Outgoing       []*SynapseGroup
	CurrentSources []*CurrentSourceInst

	// computed by Finalize
	DerivedParams      []float64
	NumDelaySlots      int
	SpikeTimeRequired  bool
	TrueSpikesRequired bool
	SpikeEventRequired bool
	QueueRequiredMask  uint64
	InitRNGRequired    bool
	SimRNGRequired     bool
	IncomingPS         []*IncomingPSGroup
}

// ParamValues resolves this group's parameter values against its
// model's declared names.
func (ng *NeuronGroup) ParamValues() model.ParamValues {
	return model.NewParamValues(ng.Model.ParamNames(), ng.Params)
}

// SynapseGroup is one projection: source and target populations, a
// connectivity/matrix class, a weight-update model and a postsynaptic
// model each with their own resolved parameters and variable
// initializers, and axonal / back-propagation delays in timesteps.
type SynapseGroup struct {
	Name       string
	Source     *NeuronGroup
	Target     *NeuronGroup
	MatrixType MatrixType

	WeightUpdate   *model.WeightUpdate
	WUParams       []float64
	WUVarInits     []VarInitRef // per-synapse weight-update variables
	WUPreVarInits  []VarInitRef
	WUPostVarInits []VarInitRef

	Postsynaptic *model.Postsynaptic
	PSParams     []float64
	PSVarInits   []VarInitRef

	ConnInit       *model.SparseConnectivityInit
	ConnInitParams []float64

	AxonalDelay   int
	BackPropDelay int

	// DendriticDelay is the per-timestep ring-buffer depth smoothing this
	// synapse group's contribution to its target's incoming-postsynaptic
	// accumulator over multiple steps (spec.md Glossary: Dendritic delay).
	// It is independent of AxonalDelay/BackPropDelay, which size the
	// neuron groups' own spike-history queues rather than the
	// accumulator ring.
	DendriticDelay int

	// computed by Finalize
	WUDerivedParams []float64
	PSDerivedParams []float64
	MergeTargetName string
}

// WUParamValues resolves this group's weight-update parameter values.
func (sg *SynapseGroup) WUParamValues() model.ParamValues {
	return model.NewParamValues(sg.WeightUpdate.ParamNames(), sg.WUParams)
}

// PSParamValues resolves this group's postsynaptic parameter values.
func (sg *SynapseGroup) PSParamValues() model.ParamValues {
	return model.NewParamValues(sg.Postsynaptic.ParamNames(), sg.PSParams)
}

// MaxDelay returns the larger of the axonal and back-propagation delays,
// the quantity neuron-group delay-slot counts must exceed (P4).
func (sg *SynapseGroup) MaxDelay() int {
	if sg.AxonalDelay > sg.BackPropDelay {
		return sg.AxonalDelay
	}
	return sg.BackPropDelay
}

// CurrentSourceInst is one current source attached to exactly one
// neuron group.
type CurrentSourceInst struct {
	Name   string
	Model  *model.CurrentSource
	Params []float64
	Target *NeuronGroup

	// computed by Finalize
	DerivedParams []float64
}

// ParamValues resolves this current source's parameter values.
func (cs *CurrentSourceInst) ParamValues() model.ParamValues {
	return model.NewParamValues(cs.Model.ParamNames(), cs.Params)
}

// Copyright (c) 2022, The GoKi Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package netspec is the Model Specification container: populations of
// neuron groups, synapse groups, and current sources wired together by
// name, plus the global settings (timestep, precision, seed, default
// locations) that govern an entire generation run. A Spec is built with
// the Add* operations below, then finalized once via Finalize; after
// that it is read-only for the duration of merging and emission.
package netspec

import "github.com/emer/sncode/internal/model"

// Spec is the top-level model specification.
type Spec struct {
	Timestep                  float64
	ScalarPrecision           ScalarPrecision
	TimePrecision             ScalarPrecision
	Seed                      uint32
	DefaultVarLocation        VarLocation
	DefaultSparseConnLocation VarLocation
	MergePostsynapticModels   bool
	Timing                    bool

	neurons     map[string]*NeuronGroup
	neuronOrder []string

	synapses     map[string]*SynapseGroup
	synapseOrder []string

	currentSources     map[string]*CurrentSourceInst
	currentSourceOrder []string

	finalized bool
}

// NewSpec returns an empty spec with the given simulation timestep and
// otherwise conservative defaults (32 bit scalar precision, device
// variable location, postsynaptic merging enabled).
func NewSpec(timestep float64) *Spec {
	return &Spec{
		Timestep:                timestep,
		ScalarPrecision:         Precision32,
		TimePrecision:           Precision32,
		DefaultVarLocation:      Device,
		MergePostsynapticModels: true,
		neurons:                map[string]*NeuronGroup{},
		synapses:                map[string]*SynapseGroup{},
		currentSources:          map[string]*CurrentSourceInst{},
	}
}

// NeuronGroups returns all neuron groups in addition order.
func (s *Spec) NeuronGroups() []*NeuronGroup {
	out := make([]*NeuronGroup, len(s.neuronOrder))
	for i, n := range s.neuronOrder {
		out[i] = s.neurons[n]
	}
	return out
}

// SynapseGroups returns all synapse groups in addition order.
func (s *Spec) SynapseGroups() []*SynapseGroup {
	out := make([]*SynapseGroup, len(s.synapseOrder))
	for i, n := range s.synapseOrder {
		out[i] = s.synapses[n]
	}
	return out
}

// CurrentSources returns all current sources in addition order.
func (s *Spec) CurrentSources() []*CurrentSourceInst {
	out := make([]*CurrentSourceInst, len(s.currentSourceOrder))
	for i, n := range s.currentSourceOrder {
		out[i] = s.currentSources[n]
	}
	return out
}

// Finalized reports whether Finalize has already run.
func (s *Spec) Finalized() bool { return s.finalized }

func checkArity(group, what string, want, got int) error {
	if want != got {
		return &ParameterArityError{Group: group, What: what, Want: want, Got: got}
	}
	return nil
}

func checkVarInits(group, what string, vars []model.Variable, inits []VarInitRef) error {
	if err := checkArity(group, what, len(vars), len(inits)); err != nil {
		return err
	}
	for i, vi := range inits {
		if vi.Init == nil {
			continue
		}
		if err := checkArity(group, what+"["+vars[i].Name+"] init params", len(vi.Init.Params), len(vi.Params)); err != nil {
			return err
		}
	}
	return nil
}

// AddNeuronGroup adds a population of size neurons governed by m, with
// resolved parameter values and one variable initializer per model
// variable (in m.Vars order; a nil Init leaves that variable at its zero
// value). Returns ShapeMismatchError on a duplicate name,
// ParameterArityError on a params/varInits count mismatch.
func (s *Spec) AddNeuronGroup(name string, size int, m *model.Neuron, params []float64, varInits []VarInitRef) (*NeuronGroup, error) {
	if s.finalized {
		panic("netspec: AddNeuronGroup called after Finalize")
	}
	if _, has := s.neurons[name]; has {
		return nil, &ShapeMismatchError{Msg: "duplicate neuron group name " + name}
	}
	if err := checkArity(name, "params", len(m.Params), len(params)); err != nil {
		return nil, err
	}
	if err := checkVarInits(name, "vars", m.Vars, varInits); err != nil {
		return nil, err
	}
	locs := make([]VarLocation, len(m.Vars))
	for i := range locs {
		locs[i] = s.DefaultVarLocation
	}
	ng := &NeuronGroup{
		Name:         name,
		Size:         size,
		Model:        m,
		Params:       params,
		VarInits:     varInits,
		VarLocations: locs,
	}
	s.neurons[name] = ng
	s.neuronOrder = append(s.neuronOrder, name)
	return ng, nil
}

// SynapseGroupSpec bundles the arguments to AddSynapseGroup -- there are
// enough independent knobs (matrix class, two models each with their
// own params/var-inits, connectivity, two delays) that a value struct
// reads far better than a long positional parameter list.
type SynapseGroupSpec struct {
	Source, Target string
	MatrixType     MatrixType

	WeightUpdate   *model.WeightUpdate
	WUParams       []float64
	WUVarInits     []VarInitRef
	WUPreVarInits  []VarInitRef
	WUPostVarInits []VarInitRef

	Postsynaptic *model.Postsynaptic
	PSParams     []float64
	PSVarInits   []VarInitRef

	ConnInit       *model.SparseConnectivityInit
	ConnInitParams []float64

	AxonalDelay    int
	BackPropDelay  int
	DendriticDelay int
}

// AddSynapseGroup adds a projection from Source to Target neuron groups.
func (s *Spec) AddSynapseGroup(name string, sg SynapseGroupSpec) (*SynapseGroup, error) {
	if s.finalized {
		panic("netspec: AddSynapseGroup called after Finalize")
	}
	if _, has := s.synapses[name]; has {
		return nil, &ShapeMismatchError{Msg: "duplicate synapse group name " + name}
	}
	src, ok := s.neurons[sg.Source]
	if !ok {
		return nil, &BadReferenceError{Kind: "source", Name: sg.Source}
	}
	trg, ok := s.neurons[sg.Target]
	if !ok {
		return nil, &BadReferenceError{Kind: "target", Name: sg.Target}
	}
	if err := checkArity(name, "weight-update params", len(sg.WeightUpdate.Params), len(sg.WUParams)); err != nil {
		return nil, err
	}
	if err := checkVarInits(name, "weight-update vars", sg.WeightUpdate.Vars, sg.WUVarInits); err != nil {
		return nil, err
	}
	if err := checkVarInits(name, "weight-update pre vars", sg.WeightUpdate.PreVars, sg.WUPreVarInits); err != nil {
		return nil, err
	}
	if err := checkVarInits(name, "weight-update post vars", sg.WeightUpdate.PostVars, sg.WUPostVarInits); err != nil {
		return nil, err
	}
	if err := checkArity(name, "postsynaptic params", len(sg.Postsynaptic.Params), len(sg.PSParams)); err != nil {
		return nil, err
	}
	if err := checkVarInits(name, "postsynaptic vars", sg.Postsynaptic.Vars, sg.PSVarInits); err != nil {
		return nil, err
	}
	needsConn := sg.MatrixType.IsSparse() || sg.MatrixType == Procedural
	if needsConn && sg.ConnInit == nil {
		return nil, &ShapeMismatchError{Msg: name + ": matrix class requires a connectivity initializer"}
	}
	if !needsConn && sg.ConnInit != nil {
		return nil, &ShapeMismatchError{Msg: name + ": matrix class does not use a connectivity initializer"}
	}
	if sg.ConnInit != nil {
		if err := checkArity(name, "connectivity params", len(sg.ConnInit.Params), len(sg.ConnInitParams)); err != nil {
			return nil, err
		}
	}

	group := &SynapseGroup{
		Name:           name,
		Source:         src,
		Target:         trg,
		MatrixType:     sg.MatrixType,
		WeightUpdate:   sg.WeightUpdate,
		WUParams:       sg.WUParams,
		WUVarInits:     sg.WUVarInits,
		WUPreVarInits:  sg.WUPreVarInits,
		WUPostVarInits: sg.WUPostVarInits,
		Postsynaptic:   sg.Postsynaptic,
		PSParams:       sg.PSParams,
		PSVarInits:     sg.PSVarInits,
		ConnInit:       sg.ConnInit,
		ConnInitParams: sg.ConnInitParams,
		AxonalDelay:    sg.AxonalDelay,
		BackPropDelay:  sg.BackPropDelay,
		DendriticDelay: sg.DendriticDelay,
	}
	s.synapses[name] = group
	s.synapseOrder = append(s.synapseOrder, name)
	src.Outgoing = append(src.Outgoing, group)
	trg.Incoming = append(trg.Incoming, group)
	return group, nil
}

// AddCurrentSource attaches a current source governed by m to the named
// target neuron group.
func (s *Spec) AddCurrentSource(name string, target string, m *model.CurrentSource, params []float64) (*CurrentSourceInst, error) {
	if s.finalized {
		panic("netspec: AddCurrentSource called after Finalize")
	}
	if _, has := s.currentSources[name]; has {
		return nil, &ShapeMismatchError{Msg: "duplicate current source name " + name}
	}
	trg, ok := s.neurons[target]
	if !ok {
		return nil, &BadReferenceError{Kind: "neuron group", Name: target}
	}
	if err := checkArity(name, "params", len(m.Params), len(params)); err != nil {
		return nil, err
	}
	cs := &CurrentSourceInst{Name: name, Model: m, Params: params, Target: trg}
	s.currentSources[name] = cs
	s.currentSourceOrder = append(s.currentSourceOrder, name)
	trg.CurrentSources = append(trg.CurrentSources, cs)
	return cs, nil
}

// Copyright (c) 2022, The GoKi Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package netspec

import (
	"github.com/emer/sncode/internal/model"
	"github.com/emer/sncode/internal/requirements"
	"github.com/emer/sncode/internal/rng"
)

// Finalize computes every derived attribute spec.md 3's Lifecycle
// paragraph names -- derived parameters, merged-incoming-postsynaptic
// lists, per-variable queue-required masks, delay-slot counts, and
// RNG/spike requirement flags -- and marks the spec read-only. It is
// idempotent (P5): calling it again recomputes the same values from the
// same inputs and changes nothing observable.
//
// Merging (partitioning groups into merged classes) is deliberately not
// done here: it lives in package merge, which depends on netspec, so
// folding it into netspec.Finalize would require netspec to import its
// own downstream consumer. The pipeline is still spec -> finalize ->
// merge -> emit, in that order, as spec.md's Control Flow paragraph
// describes; merge.Partition is simply the next call a driver makes
// after Finalize succeeds, not a different phase of the lifecycle.
func (s *Spec) Finalize() error {
	for _, ng := range s.NeuronGroups() {
		if err := s.finalizeNeuronGroup(ng); err != nil {
			return err
		}
	}
	for _, sg := range s.SynapseGroups() {
		s.finalizeSynapseGroup(sg)
	}
	for _, cs := range s.CurrentSources() {
		cs.DerivedParams = cs.Model.EvalDerivedParams(cs.ParamValues(), s.Timestep)
	}
	for _, ng := range s.NeuronGroups() {
		s.finalizeDelaySlots(ng)
		s.finalizeSpikeRequirements(ng)
		s.finalizeRNGRequirements(ng)
		s.finalizeIncomingPS(ng)
	}
	s.finalized = true
	return nil
}

func (s *Spec) finalizeNeuronGroup(ng *NeuronGroup) error {
	ng.DerivedParams = ng.Model.EvalDerivedParams(ng.ParamValues(), s.Timestep)
	return nil
}

func (s *Spec) finalizeSynapseGroup(sg *SynapseGroup) {
	sg.WUDerivedParams = sg.WeightUpdate.EvalDerivedParams(sg.WUParamValues(), s.Timestep)
	sg.PSDerivedParams = sg.Postsynaptic.EvalDerivedParams(sg.PSParamValues(), s.Timestep)
}

// finalizeDelaySlots implements P4: a neuron group's delay-slot count
// must exceed the maximum axonal delay of any outgoing synapse group and
// the maximum back-propagation delay of any incoming one.
func (s *Spec) finalizeDelaySlots(ng *NeuronGroup) {
	maxDelay := 0
	for _, sg := range ng.Outgoing {
		if sg.AxonalDelay > maxDelay {
			maxDelay = sg.AxonalDelay
		}
	}
	for _, sg := range ng.Incoming {
		if sg.BackPropDelay > maxDelay {
			maxDelay = sg.BackPropDelay
		}
	}
	ng.NumDelaySlots = maxDelay + 1
}

func (s *Spec) finalizeSpikeRequirements(ng *NeuronGroup) {
	anyOutgoingPreSpikeTime := false
	anyOutgoingTrueSpikes := false
	anyOutgoingSpikeEvent := false
	for _, sg := range ng.Outgoing {
		if sg.WeightUpdate.PreSpikeTimeRequired {
			anyOutgoingPreSpikeTime = true
		}
		if sg.WeightUpdate.TrueSpikeRequired {
			anyOutgoingTrueSpikes = true
		}
		if sg.WeightUpdate.SpikeEventRequired {
			anyOutgoingSpikeEvent = true
		}
	}
	anyIncomingPostSpikeTime := false
	anyIncomingPostLearning := false
	for _, sg := range ng.Incoming {
		if sg.WeightUpdate.PostSpikeTimeRequired {
			anyIncomingPostSpikeTime = true
		}
		if sg.WeightUpdate.LearnPostCode != "" {
			anyIncomingPostLearning = true
		}
	}
	ng.SpikeTimeRequired = requirements.SpikeTimeRequired(anyIncomingPostSpikeTime, anyOutgoingPreSpikeTime)
	ng.TrueSpikesRequired = requirements.TrueSpikesRequired(anyOutgoingTrueSpikes, anyIncomingPostLearning)
	ng.SpikeEventRequired = requirements.SpikeEventRequired(anyOutgoingSpikeEvent)

	varNames := make([]string, len(ng.Model.Vars))
	for i, v := range ng.Model.Vars {
		varNames[i] = v.Name
	}
	var outgoing, incoming []string
	for _, sg := range ng.Outgoing {
		outgoing = append(outgoing, sg.WeightUpdate.SimCode, sg.WeightUpdate.EventCode, sg.WeightUpdate.SynapseDynamicsCode)
	}
	for _, sg := range ng.Incoming {
		incoming = append(incoming, sg.WeightUpdate.LearnPostCode, sg.WeightUpdate.SynapseDynamicsCode)
	}
	ng.QueueRequiredMask = requirements.QueueRequiredMask(varNames, outgoing, incoming)
}

func (s *Spec) finalizeRNGRequirements(ng *NeuronGroup) {
	var initFrags, simFrags []string
	for _, vi := range ng.VarInits {
		if vi.Init != nil {
			initFrags = append(initFrags, vi.Init.Code)
		}
	}
	for _, cs := range ng.CurrentSources {
		simFrags = append(simFrags, cs.Model.InjectionCode)
	}
	simFrags = append(simFrags, ng.Model.SimCode, ng.Model.ThresholdCode, ng.Model.ResetCode, ng.Model.SpikeEventCode)
	for _, sg := range ng.Incoming {
		simFrags = append(simFrags, sg.Postsynaptic.ApplyInputCode, sg.Postsynaptic.DecayCode)
	}
	ng.InitRNGRequired = requirements.InitRNGRequired(initFrags, rng.SentinelNames)
	ng.SimRNGRequired = requirements.SimRNGRequired(simFrags, rng.SentinelNames)
}

// finalizeIncomingPS resolves ng's merged-incoming-postsynaptic list:
// each incoming synapse group starts in its own IncomingPSGroup, and
// when MergePostsynapticModels is enabled, groups whose postsynaptic
// models are linearly combinable (model.LinearlyCombinable) are fused
// into one shared accumulator (spec.md 4.8).
func (s *Spec) finalizeIncomingPS(ng *NeuronGroup) {
	var groups []*IncomingPSGroup
	for _, sg := range ng.Incoming {
		hasVarInit := false
		for _, vi := range sg.PSVarInits {
			if vi.Init != nil && !vi.Init.IsTrivial() {
				hasVarInit = true
				break
			}
		}
		merged := false
		if s.MergePostsynapticModels {
			for _, g := range groups {
				rep := g.Members[0]
				if model.LinearlyCombinable(rep.Postsynaptic, sg.Postsynaptic, rep.PSParams, sg.PSParams, rep.PSDerivedParams, sg.PSDerivedParams, g.HasVarInit, hasVarInit) {
					g.Members = append(g.Members, sg)
					sg.MergeTargetName = g.MergeTargetName
					merged = true
					break
				}
			}
		}
		if !merged {
			g := &IncomingPSGroup{
				MergeTargetName: sg.Name,
				Model:           sg.Postsynaptic,
				Params:          sg.PSParams,
				DerivedParams:   sg.PSDerivedParams,
				VarInits:        sg.PSVarInits,
				Members:         []*SynapseGroup{sg},
				HasVarInit:      hasVarInit,
			}
			sg.MergeTargetName = g.MergeTargetName
			groups = append(groups, g)
		}
	}
	for _, g := range groups {
		maxDen := 0
		for _, m := range g.Members {
			if m.DendriticDelay > maxDen {
				maxDen = m.DendriticDelay
			}
		}
		g.MaxDenDelay = maxDen
		g.DendriticDelayRequired = maxDen > 0
	}
	ng.IncomingPS = groups
}

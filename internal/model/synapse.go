// Copyright (c) 2022, The GoKi Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package model

// WeightUpdate is the weight-update-model descriptor: the code that runs
// on a synapse in response to a presynaptic spike (SimCode), an optional
// spike-like event pathway, an optional postsynaptic-learning pathway
// that runs in response to a postsynaptic spike, and an optional
// synapse-dynamics pathway that runs every timestep regardless of
// spiking (continuous plasticity rules).
type WeightUpdate struct {
	Snippet

	// PreVars/PostVars are per-presynaptic-neuron / per-postsynaptic-neuron
	// weight-update variables (e.g. eligibility traces), distinct from
	// per-synapse Vars in the Snippet.
	PreVars  []Variable
	PostVars []Variable

	SimCode             string
	EventThresholdCode  string
	EventCode           string
	LearnPostCode       string
	SynapseDynamicsCode string

	// PreSpikeTimeRequired/PostSpikeTimeRequired declare that this model's
	// code fragments reference the pre- or post-synaptic neuron's spike
	// time; requirements.SpikeTimeRequired propagates these onto the
	// adjacent neuron groups.
	PreSpikeTimeRequired  bool
	PostSpikeTimeRequired bool

	// TrueSpikeRequired declares that this model needs true (thresholded)
	// presynaptic spikes delivered, as opposed to only spike-like events.
	TrueSpikeRequired bool

	// SpikeEventRequired declares that this model defines a spike-like
	// event pathway at all (EventThresholdCode/EventCode are non-empty).
	SpikeEventRequired bool
}

// Postsynaptic is the postsynaptic-model descriptor: code applied to the
// accumulated synaptic input every neuron-update step (ApplyInputCode,
// typically adding into $(Isyn)) and code that decays the accumulator
// (DecayCode).
type Postsynaptic struct {
	Snippet

	ApplyInputCode string
	DecayCode      string
}

// LinearlyCombinable reports whether a and b may share one accumulator
// (spec.md 4.8: identical model identity, identical params, identical
// derived params, no non-trivial variable initializers on either side).
// aHasVarInit/bHasVarInit are per-synapse-group facts -- whether that
// group's own PSVarInits carry a non-trivial initializer -- not a
// property of the (possibly shared) model descriptor itself, since a
// or b may be a package-level singleton like ExpDecay reused across
// many synapse groups with differing var-init configurations.
func LinearlyCombinable(a, b *Postsynaptic, aParams, bParams []float64, aDerived, bDerived []float64, aHasVarInit, bHasVarInit bool) bool {
	if a != b {
		return false
	}
	if aHasVarInit || bHasVarInit {
		return false
	}
	if len(aParams) != len(bParams) || len(aDerived) != len(bDerived) {
		return false
	}
	for i := range aParams {
		if aParams[i] != bParams[i] {
			return false
		}
	}
	for i := range aDerived {
		if aDerived[i] != bDerived[i] {
			return false
		}
	}
	return true
}

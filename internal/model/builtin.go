// Copyright (c) 2022, The GoKi Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package model

// This file holds a small catalog of built-in descriptors used by tests
// and by the cmd/sngen reference harness. They are not part of the core
// merging/emission algorithms -- callers may define and register their
// own descriptors the same way -- but they give every package something
// concrete to exercise, the way axon's act.go gives a concrete SpikeParams
// shape to the teacher's shader extraction pipeline.

// LIF is a standard leaky-integrate-and-fire neuron model: membrane
// potential integrates input current with time constant TauM, spikes
// when it crosses Vthresh, and resets to Vreset with an absolute
// refractory period.
var LIF = &Neuron{
	Snippet: Snippet{
		Name: "LIF",
		Params: []Param{
			{Name: "C"},       // membrane capacitance
			{Name: "TauM"},    // membrane time constant (ms)
			{Name: "Vrest"},   // resting potential
			{Name: "Vreset"},  // post-spike reset potential
			{Name: "Vthresh"}, // spike threshold
			{Name: "Ioffset"}, // constant offset current
			{Name: "TRefrac"}, // absolute refractory period (ms)
		},
		DerivedParams: []DerivedParam{
			{Name: "ExpTC", Func: func(p ParamValues, dt float64) float64 {
				tauM, _ := p.Get("TauM")
				return expNeg(dt / tauM)
			}},
			{Name: "Rmembrane", Func: func(p ParamValues, dt float64) float64 {
				tauM, _ := p.Get("TauM")
				c, _ := p.Get("C")
				return tauM / c
			}},
		},
		Vars: []Variable{
			{Name: "V", Type: Float, Access: ReadWrite},
			{Name: "RefracTime", Type: Float, Access: ReadWrite},
		},
	},
	SimCode: `
if ($(RefracTime) <= 0.0) {
  scalar alpha = (($(Isyn) + $(Ioffset)) * $(Rmembrane)) + $(Vrest);
  $(V) = alpha - ($(ExpTC) * (alpha - $(V)));
} else {
  $(RefracTime) -= DT;
}
`,
	ThresholdCode: `$(V) >= $(Vthresh)`,
	ResetCode: `
$(V) = $(Vreset);
$(RefracTime) = $(TRefrac);
`,
	NeedsIsyn: true,
}

// expNeg is a tiny host-side stand-in for exp(-x), kept free of a math
// import here so the derived-param closures above read as pure
// arithmetic; codegen never calls this, it only ever emits the
// corresponding device-side expression text.
func expNeg(x float64) float64 {
	// Good enough for demo/test determinism; real derived-param evaluators
	// are free to call math.Exp directly.
	const n = 40
	term := 1.0
	sum := 1.0
	for i := 1; i <= n; i++ {
		term *= -x / float64(i)
		sum += term
	}
	return sum
}

// StaticPulse is a minimal weight-update model: on a presynaptic spike it
// adds a fixed weight into the postsynaptic accumulator.
var StaticPulse = &WeightUpdate{
	Snippet: Snippet{
		Name: "StaticPulse",
		Vars: []Variable{
			{Name: "g", Type: Float, Access: ReadOnly},
		},
	},
	SimCode:           `$(addToInSyn, $(g));`,
	TrueSpikeRequired: true,
}

// ExpDecay is a standard exponentially-decaying postsynaptic current
// model: each timestep the accumulated conductance is added into Isyn
// and then decays toward zero with time constant Tau.
var ExpDecay = &Postsynaptic{
	Snippet: Snippet{
		Name: "ExpDecay",
		Params: []Param{
			{Name: "Tau"},
		},
		DerivedParams: []DerivedParam{
			{Name: "ExpDecay", Func: func(p ParamValues, dt float64) float64 {
				tau, _ := p.Get("Tau")
				return expNeg(dt / tau)
			}},
		},
	},
	ApplyInputCode: `$(Isyn) += $(inSyn);`,
	DecayCode:      `$(inSyn) *= $(ExpDecay);`,
}

// ConstantCurrent is a current-source model injecting a fixed offset
// current into the owning neuron group every step.
var ConstantCurrent = &CurrentSource{
	Snippet: Snippet{
		Name: "ConstantCurrent",
		Params: []Param{
			{Name: "Amp"},
		},
	},
	InjectionCode: `$(injectCurrent, $(Amp));`,
}

// UniformInit initializes a variable to a fixed value given as a
// parameter -- the common case of "set this variable to its resting
// value" with no randomness.
var UniformInit = &VarInit{
	Snippet: Snippet{
		Name: "Uniform",
		Params: []Param{
			{Name: "Val"},
		},
	},
	Code: `$(value) = $(Val);`,
}

// NormalInit initializes a variable to a normally-distributed random
// value with the given mean and standard deviation, requiring the
// per-element RNG (requirements.InitRNGRequired).
var NormalInit = &VarInit{
	Snippet: Snippet{
		Name: "Normal",
		Params: []Param{
			{Name: "Mean"},
			{Name: "SD"},
		},
	},
	Code: `$(value) = $(Mean) + $(SD) * $(randNormal);`,
}

// FixedProbability is a sparse connectivity initializer that includes
// each possible (pre, post) pair independently with probability P,
// grounded on the same row-build-then-endRow shape every GeNN sparse
// built-in connectivity initializer follows.
var FixedProbability = &SparseConnectivityInit{
	Snippet: Snippet{
		Name: "FixedProbability",
		Params: []Param{
			{Name: "P"},
		},
	},
	RowBuildCode: `
scalar u = $(randUniform);
while (u > $(P)) {
  u *= $(randUniform);
  $(skip, 1);
}
if ($(id_post) >= $(num_post)) {
  $(endRow);
}
$(addSynapse, $(id_post));
u = $(randUniform);
`,
}

// Copyright (c) 2022, The GoKi Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package netspec

import (
	"testing"

	"github.com/emer/sncode/internal/model"
)

// buildDelayedChain builds Pre -> Post with a 3-step axonal delay, enough
// to exercise P4 (delay-slot sizing) and the RNG/spike requirement scans.
func buildDelayedChain(t *testing.T) *Spec {
	t.Helper()
	spec := NewSpec(0.1)
	normalInit := VarInitRef{Init: model.NormalInit, Params: []float64{0.0, 1.0}}
	zeroInit := VarInitRef{Init: model.UniformInit, Params: []float64{0.0}}
	if _, err := spec.AddNeuronGroup("Pre", 10, model.LIF, lifParams, []VarInitRef{normalInit, zeroInit}); err != nil {
		t.Fatal(err)
	}
	if _, err := spec.AddNeuronGroup("Post", 10, model.LIF, lifParams, []VarInitRef{zeroInit, zeroInit}); err != nil {
		t.Fatal(err)
	}
	gInit := VarInitRef{Init: model.UniformInit, Params: []float64{0.02}}
	_, err := spec.AddSynapseGroup("PreToPost", SynapseGroupSpec{
		Source:       "Pre",
		Target:       "Post",
		MatrixType:   Dense,
		WeightUpdate: model.StaticPulse,
		WUVarInits:   []VarInitRef{gInit},
		Postsynaptic: model.ExpDecay,
		PSParams:     []float64{5.0},
		AxonalDelay:  3,
	})
	if err != nil {
		t.Fatal(err)
	}
	return spec
}

func TestFinalizeDelaySlots(t *testing.T) {
	spec := buildDelayedChain(t)
	if err := spec.Finalize(); err != nil {
		t.Fatal(err)
	}
	pre := spec.NeuronGroups()[0]
	if pre.NumDelaySlots != 4 {
		t.Errorf("Pre.NumDelaySlots = %d, want 4 (axonal delay 3 + 1)", pre.NumDelaySlots)
	}
	post := spec.NeuronGroups()[1]
	if post.NumDelaySlots != 1 {
		t.Errorf("Post.NumDelaySlots = %d, want 1 (no back-prop delay)", post.NumDelaySlots)
	}
}

func TestFinalizeRNGRequirements(t *testing.T) {
	spec := buildDelayedChain(t)
	if err := spec.Finalize(); err != nil {
		t.Fatal(err)
	}
	pre := spec.NeuronGroups()[0]
	if !pre.InitRNGRequired {
		t.Error("Pre.InitRNGRequired = false, want true (NormalInit references $(randNormal))")
	}
	post := spec.NeuronGroups()[1]
	if post.InitRNGRequired {
		t.Error("Post.InitRNGRequired = true, want false (UniformInit draws nothing)")
	}
}

func TestFinalizeIsIdempotent(t *testing.T) {
	spec := buildDelayedChain(t)
	if err := spec.Finalize(); err != nil {
		t.Fatal(err)
	}
	firstDerived := append([]float64(nil), spec.NeuronGroups()[0].DerivedParams...)
	if err := spec.Finalize(); err != nil {
		t.Fatal(err)
	}
	secondDerived := spec.NeuronGroups()[0].DerivedParams
	if len(firstDerived) != len(secondDerived) {
		t.Fatal("repeated Finalize changed the derived-param count")
	}
	for i := range firstDerived {
		if firstDerived[i] != secondDerived[i] {
			t.Errorf("repeated Finalize changed derived param %d: %v vs %v", i, firstDerived[i], secondDerived[i])
		}
	}
}

func TestFinalizeIncomingPSMergesLinearlyCombinableModels(t *testing.T) {
	spec := NewSpec(0.1)
	zeroInit := VarInitRef{Init: model.UniformInit, Params: []float64{0.0}}
	spec.AddNeuronGroup("A", 10, model.LIF, lifParams, []VarInitRef{zeroInit, zeroInit})
	spec.AddNeuronGroup("B", 10, model.LIF, lifParams, []VarInitRef{zeroInit, zeroInit})
	spec.AddNeuronGroup("Target", 10, model.LIF, lifParams, []VarInitRef{zeroInit, zeroInit})
	gInit := VarInitRef{Init: model.UniformInit, Params: []float64{0.02}}
	for _, src := range []string{"A", "B"} {
		_, err := spec.AddSynapseGroup(src+"ToTarget", SynapseGroupSpec{
			Source:       src,
			Target:       "Target",
			MatrixType:   Dense,
			WeightUpdate: model.StaticPulse,
			WUVarInits:   []VarInitRef{gInit},
			Postsynaptic: model.ExpDecay,
			PSParams:     []float64{5.0},
		})
		if err != nil {
			t.Fatal(err)
		}
	}
	if err := spec.Finalize(); err != nil {
		t.Fatal(err)
	}
	target := spec.NeuronGroups()[2]
	if len(target.IncomingPS) != 1 {
		t.Fatalf("Target.IncomingPS has %d groups, want 1 (merged)", len(target.IncomingPS))
	}
	if len(target.IncomingPS[0].Members) != 2 {
		t.Errorf("merged IncomingPS group has %d members, want 2", len(target.IncomingPS[0].Members))
	}
}

func TestFinalizeIncomingPSDisabledByFlag(t *testing.T) {
	spec := NewSpec(0.1)
	spec.MergePostsynapticModels = false
	zeroInit := VarInitRef{Init: model.UniformInit, Params: []float64{0.0}}
	spec.AddNeuronGroup("A", 10, model.LIF, lifParams, []VarInitRef{zeroInit, zeroInit})
	spec.AddNeuronGroup("B", 10, model.LIF, lifParams, []VarInitRef{zeroInit, zeroInit})
	spec.AddNeuronGroup("Target", 10, model.LIF, lifParams, []VarInitRef{zeroInit, zeroInit})
	gInit := VarInitRef{Init: model.UniformInit, Params: []float64{0.02}}
	for _, src := range []string{"A", "B"} {
		spec.AddSynapseGroup(src+"ToTarget", SynapseGroupSpec{
			Source:       src,
			Target:       "Target",
			MatrixType:   Dense,
			WeightUpdate: model.StaticPulse,
			WUVarInits:   []VarInitRef{gInit},
			Postsynaptic: model.ExpDecay,
			PSParams:     []float64{5.0},
		})
	}
	if err := spec.Finalize(); err != nil {
		t.Fatal(err)
	}
	target := spec.NeuronGroups()[2]
	if len(target.IncomingPS) != 2 {
		t.Errorf("Target.IncomingPS has %d groups with merging disabled, want 2", len(target.IncomingPS))
	}
}

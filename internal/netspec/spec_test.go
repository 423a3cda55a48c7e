// Copyright (c) 2022, The GoKi Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package netspec

import (
	"testing"

	"github.com/emer/sncode/internal/model"
)

func restVarInits() []VarInitRef {
	return []VarInitRef{
		{Init: model.UniformInit, Params: []float64{-60.0}},
		{Init: model.UniformInit, Params: []float64{0.0}},
	}
}

var lifParams = []float64{200.0, 20.0, -60.0, -60.0, -50.0, 0.0, 2.0}

func TestAddNeuronGroupDuplicateName(t *testing.T) {
	spec := NewSpec(0.1)
	if _, err := spec.AddNeuronGroup("A", 10, model.LIF, lifParams, restVarInits()); err != nil {
		t.Fatal(err)
	}
	if _, err := spec.AddNeuronGroup("A", 10, model.LIF, lifParams, restVarInits()); err == nil {
		t.Fatal("expected a duplicate-name error")
	} else if _, ok := err.(*ShapeMismatchError); !ok {
		t.Errorf("error type = %T, want *ShapeMismatchError", err)
	}
}

func TestAddNeuronGroupArityMismatch(t *testing.T) {
	spec := NewSpec(0.1)
	_, err := spec.AddNeuronGroup("A", 10, model.LIF, []float64{1.0}, restVarInits())
	if err == nil {
		t.Fatal("expected a param-arity error")
	}
	if _, ok := err.(*ParameterArityError); !ok {
		t.Errorf("error type = %T, want *ParameterArityError", err)
	}
}

func TestAddSynapseGroupBadReference(t *testing.T) {
	spec := NewSpec(0.1)
	if _, err := spec.AddNeuronGroup("A", 10, model.LIF, lifParams, restVarInits()); err != nil {
		t.Fatal(err)
	}
	_, err := spec.AddSynapseGroup("AtoB", SynapseGroupSpec{
		Source:       "A",
		Target:       "NoSuchPop",
		MatrixType:   Dense,
		WeightUpdate: model.StaticPulse,
		WUVarInits:   []VarInitRef{{Init: model.UniformInit, Params: []float64{0.02}}},
		Postsynaptic: model.ExpDecay,
		PSParams:     []float64{5.0},
	})
	if err == nil {
		t.Fatal("expected a bad-reference error")
	}
	if _, ok := err.(*BadReferenceError); !ok {
		t.Errorf("error type = %T, want *BadReferenceError", err)
	}
}

func TestAddSynapseGroupConnInitRequiredForSparse(t *testing.T) {
	spec := NewSpec(0.1)
	spec.AddNeuronGroup("A", 10, model.LIF, lifParams, restVarInits())
	spec.AddNeuronGroup("B", 10, model.LIF, lifParams, restVarInits())
	_, err := spec.AddSynapseGroup("AtoB", SynapseGroupSpec{
		Source:       "A",
		Target:       "B",
		MatrixType:   SparseIndividual,
		WeightUpdate: model.StaticPulse,
		WUVarInits:   []VarInitRef{{Init: model.UniformInit, Params: []float64{0.02}}},
		Postsynaptic: model.ExpDecay,
		PSParams:     []float64{5.0},
		// ConnInit deliberately omitted.
	})
	if err == nil {
		t.Fatal("expected an error for a sparse matrix class with no connectivity initializer")
	}
}

func TestAddNeuronGroupPanicsAfterFinalize(t *testing.T) {
	spec := NewSpec(0.1)
	spec.AddNeuronGroup("A", 10, model.LIF, lifParams, restVarInits())
	if err := spec.Finalize(); err != nil {
		t.Fatal(err)
	}
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic on AddNeuronGroup after Finalize")
		}
	}()
	spec.AddNeuronGroup("B", 10, model.LIF, lifParams, restVarInits())
}

func TestGroupAccessorsPreserveAdditionOrder(t *testing.T) {
	spec := NewSpec(0.1)
	spec.AddNeuronGroup("First", 1, model.LIF, lifParams, restVarInits())
	spec.AddNeuronGroup("Second", 1, model.LIF, lifParams, restVarInits())
	got := spec.NeuronGroups()
	if len(got) != 2 || got[0].Name != "First" || got[1].Name != "Second" {
		t.Errorf("NeuronGroups() = %v, want [First, Second]", got)
	}
}

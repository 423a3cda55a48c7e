// Copyright (c) 2022, The GoKi Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package merge

import (
	"testing"

	"github.com/emer/sncode/internal/model"
	"github.com/emer/sncode/internal/netspec"
)

// buildTwoExcOneInhSpec builds two identically-parameterized excitatory
// populations and one differently-parameterized inhibitory population, all
// projecting onto a shared target via identical StaticPulse/ExpDecay
// synapse groups -- enough shape to exercise both a same-class merge (the
// two Exc groups) and a separate class (Inh).
func buildTwoExcOneInhSpec(t *testing.T) *netspec.Spec {
	t.Helper()
	spec := netspec.NewSpec(0.1)

	lifParams := []float64{200.0, 20.0, -60.0, -60.0, -50.0, 0.0, 2.0}
	inhParams := []float64{200.0, 10.0, -60.0, -60.0, -50.0, 0.0, 2.0}
	restInit := netspec.VarInitRef{Init: model.UniformInit, Params: []float64{-60.0}}
	zeroInit := netspec.VarInitRef{Init: model.UniformInit, Params: []float64{0.0}}
	varInits := []netspec.VarInitRef{restInit, zeroInit}

	if _, err := spec.AddNeuronGroup("Exc1", 100, model.LIF, lifParams, varInits); err != nil {
		t.Fatal(err)
	}
	if _, err := spec.AddNeuronGroup("Exc2", 50, model.LIF, lifParams, varInits); err != nil {
		t.Fatal(err)
	}
	if _, err := spec.AddNeuronGroup("Inh", 25, model.LIF, inhParams, varInits); err != nil {
		t.Fatal(err)
	}
	if _, err := spec.AddNeuronGroup("Target", 10, model.LIF, lifParams, varInits); err != nil {
		t.Fatal(err)
	}

	gInit := netspec.VarInitRef{Init: model.UniformInit, Params: []float64{0.02}}
	for _, src := range []string{"Exc1", "Exc2", "Inh"} {
		_, err := spec.AddSynapseGroup(src+"ToTarget", netspec.SynapseGroupSpec{
			Source:       src,
			Target:       "Target",
			MatrixType:   netspec.Dense,
			WeightUpdate: model.StaticPulse,
			WUVarInits:   []netspec.VarInitRef{gInit},
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
	return spec
}

func TestPartitionMergesIdenticalGroups(t *testing.T) {
	spec := buildTwoExcOneInhSpec(t)
	part, err := Partition(spec)
	if err != nil {
		t.Fatal(err)
	}

	// Exc1 and Exc2 share identical params/derived params/requirements and
	// must land in the same update class; Inh and Target differ (params,
	// or presence of no outgoing synapse) and must not join that class.
	var excClassSize int
	for _, g := range part.NeuronUpdate {
		for _, m := range g.Members {
			if m.Name == "Exc1" {
				excClassSize = len(g.Members)
			}
		}
	}
	if excClassSize != 2 {
		t.Errorf("Exc1/Exc2 update class has %d members, want 2", excClassSize)
	}
	if len(part.NeuronUpdate) != 3 {
		t.Errorf("NeuronUpdate has %d classes, want 3 (Exc, Inh, Target)", len(part.NeuronUpdate))
	}

	// All three synapse groups share the same weight-update/postsynaptic
	// model identity, matrix class, and params, so they should all merge
	// into a single synapse-update class.
	if len(part.SynapseUpdate) != 1 {
		t.Fatalf("SynapseUpdate has %d classes, want 1", len(part.SynapseUpdate))
	}
	if len(part.SynapseUpdate[0].Members) != 3 {
		t.Errorf("synapse-update class has %d members, want 3", len(part.SynapseUpdate[0].Members))
	}
}

func TestPartitionIsDeterministic(t *testing.T) {
	spec := buildTwoExcOneInhSpec(t)
	p1, err := Partition(spec)
	if err != nil {
		t.Fatal(err)
	}
	p2, err := Partition(spec)
	if err != nil {
		t.Fatal(err)
	}
	if len(p1.NeuronUpdate) != len(p2.NeuronUpdate) {
		t.Fatal("repeated Partition calls produced different class counts")
	}
	for i := range p1.NeuronUpdate {
		if p1.NeuronUpdate[i].Archetype.Name != p2.NeuronUpdate[i].Archetype.Name {
			t.Errorf("class %d archetype changed between runs: %s vs %s", i,
				p1.NeuronUpdate[i].Archetype.Name, p2.NeuronUpdate[i].Archetype.Name)
		}
	}
}

func TestPartitionPanicsBeforeFinalize(t *testing.T) {
	spec := netspec.NewSpec(0.1)
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic on unfinalized spec")
		}
	}()
	Partition(spec)
}

func TestParamHeterogeneitySingleMemberClassesHomogeneous(t *testing.T) {
	spec := buildTwoExcOneInhSpec(t)
	part, err := Partition(spec)
	if err != nil {
		t.Fatal(err)
	}
	for _, g := range part.NeuronUpdate {
		if g.Archetype.Name != "Inh" && g.Archetype.Name != "Target" {
			continue
		}
		// Single-member classes must report no heterogeneity at all.
		for k := range g.ParamHet {
			if g.IsParamHeterogeneous(k) {
				t.Errorf("single-member class %q reports heterogeneous slot %d", g.Archetype.Name, k)
			}
		}
	}
}

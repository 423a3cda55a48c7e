// Copyright (c) 2022, The GoKi Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package model

import "testing"

func TestParamValues(t *testing.T) {
	pv := NewParamValues([]string{"TauM", "C"}, []float64{20.0, 200.0})
	if pv.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", pv.Len())
	}
	if v, ok := pv.Get("TauM"); !ok || v != 20.0 {
		t.Errorf("Get(TauM) = %v, %v, want 20.0, true", v, ok)
	}
	if _, ok := pv.Get("NoSuch"); ok {
		t.Errorf("Get(NoSuch) returned ok=true")
	}
	if pv.At(1) != 200.0 {
		t.Errorf("At(1) = %v, want 200.0", pv.At(1))
	}
}

func TestParamValuesArityPanic(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic on name/value length mismatch")
		}
	}()
	NewParamValues([]string{"a", "b"}, []float64{1.0})
}

func TestSnippetNames(t *testing.T) {
	if got := LIF.ParamNames(); len(got) != 7 {
		t.Errorf("LIF.ParamNames() has %d entries, want 7", len(got))
	}
	if got := LIF.DerivedParamNames(); len(got) != 2 || got[0] != "ExpTC" {
		t.Errorf("LIF.DerivedParamNames() = %v", got)
	}
}

func TestEvalDerivedParams(t *testing.T) {
	params := NewParamValues(LIF.ParamNames(), []float64{200.0, 20.0, -60.0, -60.0, -50.0, 0.0, 2.0})
	derived := LIF.EvalDerivedParams(params, 0.1)
	if len(derived) != 2 {
		t.Fatalf("EvalDerivedParams returned %d values, want 2", len(derived))
	}
	// Rmembrane = TauM / C = 20/200 = 0.1
	if got := derived[1]; got != 0.1 {
		t.Errorf("Rmembrane = %v, want 0.1", got)
	}
	// ExpTC = exp(-dt/TauM), strictly between 0 and 1 for dt, TauM > 0.
	if derived[0] <= 0 || derived[0] >= 1 {
		t.Errorf("ExpTC = %v, want in (0,1)", derived[0])
	}
}

func TestLinearlyCombinable(t *testing.T) {
	if !LinearlyCombinable(ExpDecay, ExpDecay, []float64{5.0}, []float64{5.0}, []float64{0.9}, []float64{0.9}, false, false) {
		t.Error("identical ExpDecay instances should be linearly combinable")
	}
	if LinearlyCombinable(ExpDecay, ExpDecay, []float64{5.0}, []float64{6.0}, []float64{0.9}, []float64{0.9}, false, false) {
		t.Error("differing params must block combination")
	}
	other := &Postsynaptic{Snippet: Snippet{Name: "Other"}}
	if LinearlyCombinable(ExpDecay, other, nil, nil, nil, nil, false, false) {
		t.Error("distinct model identities must block combination")
	}
	if LinearlyCombinable(ExpDecay, ExpDecay, []float64{5.0}, []float64{5.0}, []float64{0.9}, []float64{0.9}, true, false) {
		t.Error("a non-trivial variable initializer on either side must block combination")
	}
	// ExpDecay is a shared singleton: two synapse groups using it with
	// differing var-init configurations must not corrupt each other's
	// merge decision (spec.md 4.1 immutable record).
	if !LinearlyCombinable(ExpDecay, ExpDecay, []float64{5.0}, []float64{5.0}, []float64{0.9}, []float64{0.9}, false, false) {
		t.Error("a prior call with HasVarInit=true must not leak state onto ExpDecay itself")
	}
}

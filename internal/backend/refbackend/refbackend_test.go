// Copyright (c) 2022, The GoKi Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package refbackend

import (
	"bytes"
	"io"
	"strings"
	"testing"

	"github.com/emer/sncode/internal/backend"
	"github.com/emer/sncode/internal/subst"
)

func TestGenVariableInitWrapsBody(t *testing.T) {
	be := New()
	var buf bytes.Buffer
	root := subst.NewScope(nil)
	var sawID bool
	err := be.GenVariableInit(&buf, "numNeurons", "id", root, func(w io.Writer, scope *subst.Scope) error {
		if got := scope.Apply("$(id)"); got == "id" {
			sawID = true
		}
		w.Write([]byte("body();\n"))
		return nil
	})
	if err != nil {
		t.Fatal(err)
	}
	if !sawID {
		t.Error("child scope did not bind the loop index as a var-name substitution")
	}
	out := buf.String()
	if !strings.Contains(out, "for (int id = 0; id < numNeurons; id++)") {
		t.Errorf("output = %q, missing the expected loop header", out)
	}
	if !strings.Contains(out, "body();") {
		t.Errorf("output = %q, body callback was not invoked", out)
	}
}

func TestDeviceQualifier(t *testing.T) {
	be := New()
	if got := be.DeviceQualifier(backend.GlobalDeviceVar); got != "extern" {
		t.Errorf("DeviceQualifier(GlobalDeviceVar) = %q", got)
	}
	if got := be.DeviceQualifier(backend.LocalVar); got != "" {
		t.Errorf("DeviceQualifier(LocalVar) = %q, want empty", got)
	}
}

func TestRandExprsKeyedByIndex(t *testing.T) {
	be := New()
	if got := be.RandUniformExpr("id"); !strings.Contains(got, "rngNextFloat") || !strings.Contains(got, "id") {
		t.Errorf("RandUniformExpr(%q) = %q, want a rngNextFloat call keyed by id", "id", got)
	}
	if got := be.RandNormalExpr("id_pre"); !strings.Contains(got, "rngNextNormFloat") || !strings.Contains(got, "id_pre") {
		t.Errorf("RandNormalExpr(%q) = %q, want a rngNextNormFloat call keyed by id_pre", "id_pre", got)
	}
}

func TestRNGPreambleIsSeedDependent(t *testing.T) {
	be := New()
	p1 := be.RNGPreamble(1)
	p2 := be.RNGPreamble(2)
	if p1 == p2 {
		t.Errorf("RNGPreamble(1) and RNGPreamble(2) produced identical output, want distinct initial counters")
	}
	if !strings.Contains(p1, "rngUint2 rngCounter") || !strings.Contains(p1, "rngPhilox2x32") {
		t.Errorf("RNGPreamble output = %q, missing the runtime + counter declaration", p1)
	}
}

func TestGenNeuronUpdateTiming(t *testing.T) {
	be := New()
	var buf bytes.Buffer
	err := be.GenNeuronUpdate(&buf, 2, true, func(w io.Writer, idx int) error {
		w.Write([]byte("// group body\n"))
		return nil
	})
	if err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	if !strings.Contains(out, "timerStart") || !strings.Contains(out, "timerStop") {
		t.Errorf("output = %q, want timer calls when timing is enabled", out)
	}
	if strings.Count(out, "// group body") != 2 {
		t.Errorf("output = %q, want the group body invoked twice", out)
	}
}

// Copyright (c) 2022, The GoKi Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/emer/sncode/internal/netspec"
)

func TestRunWritesAllGeneratedFiles(t *testing.T) {
	dir := t.TempDir()
	*outDir = dir
	*precision = 32
	*mergePS = true

	if err := run(); err != nil {
		t.Fatal(err)
	}
	for _, name := range []string{"definitions.h", "init.c", "neuronUpdate.c", "synapseUpdate.c"} {
		if _, err := os.Stat(filepath.Join(dir, name)); err != nil {
			t.Errorf("run() did not write %s: %v", name, err)
		}
	}
}

func TestRunRejectsBadPrecision(t *testing.T) {
	dir := t.TempDir()
	*outDir = dir
	*precision = 16
	defer func() { *precision = 32 }()

	if err := run(); err == nil {
		t.Fatal("expected an error for an unsupported precision")
	}
}

func TestBuildDemoSpecIsFinalizable(t *testing.T) {
	spec := netspec.NewSpec(0.1)
	if err := buildDemoSpec(spec); err != nil {
		t.Fatal(err)
	}
	if err := spec.Finalize(); err != nil {
		t.Fatal(err)
	}
	if len(spec.NeuronGroups()) != 2 {
		t.Errorf("demo spec has %d neuron groups, want 2", len(spec.NeuronGroups()))
	}
}

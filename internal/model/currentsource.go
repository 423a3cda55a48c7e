// Copyright (c) 2022, The GoKi Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package model

// CurrentSource is the current-source-model descriptor: a per-element
// injection code fragment applied inside the owning neuron group's
// update body, typically adding into $(Isyn) or a model-declared input
// variable.
type CurrentSource struct {
	Snippet
	InjectionCode string
}

// VarInit is a variable-initializer snippet: per-element code that
// computes $(value) for one neuron-model, postsynaptic-model, or
// weight-update-model variable. An empty Code means "leave at its
// zero value" and is never emitted.
type VarInit struct {
	Snippet
	Code string
}

// IsTrivial reports whether this initializer has no code to run, the
// condition postsynaptic-model merging (model.LinearlyCombinable) checks
// for.
func (v *VarInit) IsTrivial() bool {
	return v == nil || v.Code == ""
}

// SparseConnectivityInit is a connectivity initializer snippet for
// sparse matrix classes: either a row-build or a column-build procedure
// (or both), run once per presynaptic (row) or postsynaptic (column)
// element to materialize a synapse's sparse indices. The build code is
// opaque text responsible for emitting entries via backend-supplied
// placeholders and terminating the loop via $(endRow)/$(endCol).
type SparseConnectivityInit struct {
	Snippet
	RowBuildCode string
	ColBuildCode string
}

func (c *SparseConnectivityInit) HasRowBuild() bool { return c.RowBuildCode != "" }
func (c *SparseConnectivityInit) HasColBuild() bool { return c.ColBuildCode != "" }

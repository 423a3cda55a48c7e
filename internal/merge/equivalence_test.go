// Copyright (c) 2022, The GoKi Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package merge

import (
	"testing"

	"github.com/emer/sncode/internal/model"
	"github.com/emer/sncode/internal/netspec"
)

func TestVarInitRefListMergeable(t *testing.T) {
	a := []netspec.VarInitRef{{Init: model.UniformInit, Params: []float64{1.0}}}
	b := []netspec.VarInitRef{{Init: model.UniformInit, Params: []float64{2.0}}}
	if !varInitRefListMergeable(a, b) {
		t.Error("same initializer identity with differing params must still be mergeable (promoted to a field)")
	}

	c := []netspec.VarInitRef{{Init: model.NormalInit, Params: []float64{0.0, 1.0}}}
	if varInitRefListMergeable(a, c) {
		t.Error("different initializer identities must not be mergeable")
	}

	if varInitRefListMergeable(a, nil) {
		t.Error("different lengths must not be mergeable")
	}
}

func TestCurrentSourceListMergeableReordering(t *testing.T) {
	c1 := &netspec.CurrentSourceInst{Model: model.ConstantCurrent, Params: []float64{10.0}}
	c2 := &netspec.CurrentSourceInst{Model: model.ConstantCurrent, Params: []float64{20.0}}
	a := []*netspec.CurrentSourceInst{c1, c2}
	b := []*netspec.CurrentSourceInst{c2, c1} // reordered
	if !currentSourceListMergeable(a, b) {
		t.Error("reordered current-source lists with matching multisets should be mergeable")
	}

	c3 := &netspec.CurrentSourceInst{Model: model.ConstantCurrent, Params: []float64{30.0}}
	if currentSourceListMergeable(a, []*netspec.CurrentSourceInst{c1, c3}) {
		t.Error("lists with a non-matching member must not be mergeable")
	}
}

func TestFloatSliceEqual(t *testing.T) {
	if !floatSliceEqual([]float64{1, 2, 3}, []float64{1, 2, 3}) {
		t.Error("identical slices should be equal")
	}
	if floatSliceEqual([]float64{1, 2}, []float64{1, 2, 3}) {
		t.Error("different-length slices should not be equal")
	}
	if floatSliceEqual(nil, []float64{1}) {
		t.Error("nil and non-empty slices should not be equal")
	}
}

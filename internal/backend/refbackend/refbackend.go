// Copyright (c) 2022, The GoKi Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package refbackend is a minimal, non-optimizing reference
// implementation of the backend.Backend capability bundle. It emits
// plain, portable C-like source text with no memory-space annotations
// and no kernel-partitioning strategy -- enough to drive every Code
// Emitter pathway in tests and in cmd/sngen, explicitly not a
// production accelerator target (spec.md 1 keeps the concrete backend
// out of scope).
package refbackend

import (
	"fmt"
	"io"

	"github.com/emer/sncode/internal/backend"
	"github.com/emer/sncode/internal/subst"
)

// Backend is the reference implementation.
type Backend struct{}

// New returns a ready-to-use reference backend.
func New() *Backend { return &Backend{} }

func (b *Backend) Name() string { return "refbackend" }

func (b *Backend) GetVarPrefix() string             { return "" }
func (b *Backend) GetMergedGroupFieldPrefix() string { return "group->" }

func (b *Backend) DeviceQualifier(loc backend.DeviceLocation) string {
	switch loc {
	case backend.GlobalDeviceVar:
		return "extern"
	case backend.KernelConstant:
		return "static const"
	default:
		return ""
	}
}

func (b *Backend) GenVariableInit(w io.Writer, countExpr, indexName string, parentScope *subst.Scope, body backend.ElemBody) error {
	fmt.Fprintf(w, "for (int %s = 0; %s < %s; %s++) {\n", indexName, indexName, countExpr, indexName)
	child := subst.NewScope(parentScope)
	child.AddVarNameSubstitution([]string{indexName}, "", "", "")
	if err := body(w, child); err != nil {
		return err
	}
	fmt.Fprint(w, "}\n")
	return nil
}

func (b *Backend) GenPopVariableInit(w io.Writer, parentScope *subst.Scope, body backend.ElemBody) error {
	fmt.Fprint(w, "{\n")
	child := subst.NewScope(parentScope)
	if err := body(w, child); err != nil {
		return err
	}
	fmt.Fprint(w, "}\n")
	return nil
}

func (b *Backend) GenSynapseVariableRowInit(w io.Writer, rowCountExpr string, parentScope *subst.Scope, body backend.ElemBody) error {
	fmt.Fprintf(w, "for (int id_syn = 0; id_syn < %s; id_syn++) {\n", rowCountExpr)
	child := subst.NewScope(parentScope)
	child.AddVarNameSubstitution([]string{"id_syn"}, "", "", "")
	if err := body(w, child); err != nil {
		return err
	}
	fmt.Fprint(w, "}\n")
	return nil
}

func (b *Backend) GenInit(w io.Writer, groupCount int, body backend.GroupBody) error {
	fmt.Fprint(w, "void sncodeInit() {\n")
	for i := 0; i < groupCount; i++ {
		fmt.Fprintf(w, "// merged group %d\n", i)
		if err := body(w, i); err != nil {
			return err
		}
	}
	fmt.Fprint(w, "}\n")
	return nil
}

func (b *Backend) GenNeuronUpdate(w io.Writer, groupCount int, timing bool, body backend.GroupBody) error {
	fmt.Fprint(w, "void sncodeNeuronUpdate() {\n")
	if timing {
		fmt.Fprint(w, "timerStart(\"neuronUpdate\");\n")
	}
	for i := 0; i < groupCount; i++ {
		fmt.Fprintf(w, "// merged group %d\n", i)
		if err := body(w, i); err != nil {
			return err
		}
	}
	if timing {
		fmt.Fprint(w, "timerStop(\"neuronUpdate\");\n")
	}
	fmt.Fprint(w, "}\n")
	return nil
}

func (b *Backend) GenSynapseUpdate(w io.Writer, groupCount int, timing bool, body backend.GroupBody) error {
	fmt.Fprint(w, "void sncodeSynapseUpdate() {\n")
	if timing {
		fmt.Fprint(w, "timerStart(\"synapseUpdate\");\n")
	}
	for i := 0; i < groupCount; i++ {
		fmt.Fprintf(w, "// merged group %d\n", i)
		if err := body(w, i); err != nil {
			return err
		}
	}
	if timing {
		fmt.Fprint(w, "timerStop(\"synapseUpdate\");\n")
	}
	fmt.Fprint(w, "}\n")
	return nil
}

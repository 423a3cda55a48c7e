// Copyright (c) 2022, The GoKi Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package backend declares the narrow capability bundle the Code
// Emitter consumes (spec.md 6). The core generator depends on nothing
// but this interface; a concrete accelerator backend lives outside this
// module entirely. internal/backend/refbackend ships one minimal,
// portable implementation used to exercise the emitter in tests and in
// cmd/sngen.
package backend

import (
	"io"

	"github.com/emer/sncode/internal/subst"
)

// ElemBody is called by GenVariableInit/GenPopVariableInit/
// GenSynapseVariableRowInit with a fresh child scope already carrying
// whatever index/locals the call site declared; it writes the body of
// the loop or once-per-member block into w.
type ElemBody func(w io.Writer, scope *subst.Scope) error

// GroupBody is called by GenInit/GenNeuronUpdate/GenSynapseUpdate once
// per merged group the emitter is walking; groupIndex is that group's
// position in its Partition slice.
type GroupBody func(w io.Writer, groupIndex int) error

// Backend is the capability bundle the emitter is written against. It
// never sees Go source or HLSL source specifically -- every method
// writes whatever text the backend's target language uses for the
// construct named, through textual placeholders resolved by the
// subst.Scope it is handed.
type Backend interface {
	// GenVariableInit emits a per-element loop of size countExpr,
	// binding indexName to the element index, and invokes body with a
	// child of parentScope that has indexName bound as a var-name
	// substitution.
	GenVariableInit(w io.Writer, countExpr, indexName string, parentScope *subst.Scope, body ElemBody) error

	// GenPopVariableInit emits code that runs once per merged-group
	// member (e.g. a constant/EGP push), invoking body with a child of
	// parentScope.
	GenPopVariableInit(w io.Writer, parentScope *subst.Scope, body ElemBody) error

	// GenSynapseVariableRowInit emits a per-row inner loop over a dense
	// synapse group's columns, binding id_syn, and invokes body with a
	// child of parentScope.
	GenSynapseVariableRowInit(w io.Writer, rowCountExpr string, parentScope *subst.Scope, body ElemBody) error

	// GenInit/GenNeuronUpdate/GenSynapseUpdate supply the outer kernel
	// skeleton (signature, loop-over-groups structure, and for the two
	// update kernels timer-scope hooks when timing is enabled) and invoke
	// body once per merged group in groupCount.
	GenInit(w io.Writer, groupCount int, body GroupBody) error
	GenNeuronUpdate(w io.Writer, groupCount int, timing bool, body GroupBody) error
	GenSynapseUpdate(w io.Writer, groupCount int, timing bool, body GroupBody) error

	// GetVarPrefix/GetMergedGroupFieldPrefix name the textual prefixes
	// the emitter uses when constructing array/field references.
	GetVarPrefix() string
	GetMergedGroupFieldPrefix() string

	// RandUniformExpr/RandNormalExpr render the call expression that
	// draws a uniform [0,1) / standard-normal value for the element
	// currently bound to indexVar, keyed by that element's own index --
	// the per-population-member RNG stream $(randUniform)/$(randNormal)
	// resolve to wherever a variable or connectivity initializer uses
	// them (model.NormalInit, model.FixedProbability).
	RandUniformExpr(indexVar string) string
	RandNormalExpr(indexVar string) string

	// RNGPreamble renders this backend's RNG runtime, seeded from seed,
	// to be emitted once at the top of init.c. A backend with no RNG
	// runtime of its own may return an empty string.
	RNGPreamble(seed uint32) string

	// DeviceQualifier returns the storage-class keyword (if any) the
	// backend wants prepended to a declaration at loc; an empty string
	// means no qualifier is emitted for that location.
	DeviceQualifier(loc DeviceLocation) string

	// Name identifies the backend for error context and logging.
	Name() string
}

// DeviceLocation names the storage classes a backend may qualify a
// declaration with.
type DeviceLocation int

const (
	LocalVar DeviceLocation = iota
	GlobalDeviceVar
	GlobalHostVar
	KernelConstant
)

// BackendUnsupportedError reports that a backend rejected a matrix
// class, storage location, or device-kernel combination the spec asked
// for.
type BackendUnsupportedError struct {
	Backend string
	Feature string
}

func (e *BackendUnsupportedError) Error() string {
	return "backend " + e.Backend + ": unsupported " + e.Feature
}

// PrecisionMismatchError reports a fragment referencing time precision
// in a scalar context or vice versa.
type PrecisionMismatchError struct {
	Context string
}

func (e *PrecisionMismatchError) Error() string {
	return "subst: precision mismatch in " + e.Context
}

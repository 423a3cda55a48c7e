// Copyright (c) 2022, The GoKi Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package model holds the immutable descriptor library: neuron models,
// weight-update models, postsynaptic models, current-source models, and
// the variable / connectivity initializer snippets that parameterize
// them. Every descriptor is a plain value built once by calling code and
// never mutated afterwards; the merging engine and code emitter both
// rely on that immutability to treat two descriptors with the same
// identity as interchangeable.
package model

// ScalarType names the device-resident scalar kind of a parameter,
// variable, or extra global parameter (EGP).
type ScalarType int

const (
	Float ScalarType = iota
	Double
	Int32
	Uint32
)

func (t ScalarType) String() string {
	switch t {
	case Float:
		return "float"
	case Double:
		return "double"
	case Int32:
		return "int"
	case Uint32:
		return "uint"
	default:
		return "unknown"
	}
}

// AccessMode controls whether the emitter writes a variable back to
// global (device) storage after an update, or treats it as an immutable
// local for the duration of the kernel body.
type AccessMode int

const (
	ReadOnly AccessMode = iota
	ReadWrite
)

// Param is a named scalar parameter slot. Values are supplied per-group
// in netspec, in the same order the owning snippet declares its params.
type Param struct {
	Name string
}

// ParamValues is a resolved, named view onto a group's parameter values,
// passed to DerivedParam funcs and to the substitution layer. It is built
// once per group from the snippet's Param list and the group's value
// slice; derived-param funcs must treat it as read-only.
type ParamValues struct {
	names []string
	vals  []float64
}

// NewParamValues pairs declared parameter names with a group's values.
// Panics if the lengths disagree -- this is a programmer error inside the
// package, not a spec-time user error (ParameterArity is checked earlier,
// in netspec, against the snippet's declared Param list).
func NewParamValues(names []string, vals []float64) ParamValues {
	if len(names) != len(vals) {
		panic("model: param name/value length mismatch")
	}
	return ParamValues{names: names, vals: vals}
}

// Get returns the value bound to name, or 0 and false if name is not a
// declared parameter.
func (p ParamValues) Get(name string) (float64, bool) {
	for i, n := range p.names {
		if n == name {
			return p.vals[i], true
		}
	}
	return 0, false
}

// Len returns the number of parameter slots.
func (p ParamValues) Len() int { return len(p.vals) }

// At returns the value at index i, exactly as declared order.
func (p ParamValues) At(i int) float64 { return p.vals[i] }

// DerivedParam is a pure function of a group's parameter values and the
// simulation timestep, computed once at finalization time. It must be
// deterministic and side-effect free: given the same params and dt it
// always returns the same scalar. This mirrors how axon's Params.Update()
// methods derive rate constants (ISIDt = 1/ISITau) purely from sibling
// parameter fields.
type DerivedParam struct {
	Name string
	Func func(p ParamValues, dt float64) float64
}

// Variable is a per-element model variable: a name, a device scalar
// type, and an access mode governing write-back.
type Variable struct {
	Name   string
	Type   ScalarType
	Access AccessMode
}

// EGP is an "extra global parameter" -- a value shared across all
// instances of a merged group rather than varying per-element, optionally
// backed by device pointer storage (IsPointer) rather than a scalar.
type EGP struct {
	Name      string
	Type      ScalarType
	IsPointer bool
}

// Snippet is the common shape shared by every model/initializer kind:
// a name used for identity comparison during merging, declared
// parameters, derived parameters, per-element variables, extra global
// parameters, and named code fragments. Code fragments are opaque text
// carrying $(...) placeholders; this package never inspects their
// contents beyond what requirements needs to scan for (see
// internal/requirements).
type Snippet struct {
	Name          string
	Params        []Param
	DerivedParams []DerivedParam
	Vars          []Variable
	EGPs          []EGP
}

// ParamNames returns the declared parameter names in order, the shape
// ParamValues and the substitution layer both key off of.
func (s *Snippet) ParamNames() []string {
	names := make([]string, len(s.Params))
	for i, p := range s.Params {
		names[i] = p.Name
	}
	return names
}

// DerivedParamNames returns the declared derived-parameter names in
// order.
func (s *Snippet) DerivedParamNames() []string {
	names := make([]string, len(s.DerivedParams))
	for i, d := range s.DerivedParams {
		names[i] = d.Name
	}
	return names
}

// EvalDerivedParams runs every derived-param function against the given
// resolved parameter values and timestep, in declaration order.
func (s *Snippet) EvalDerivedParams(p ParamValues, dt float64) []float64 {
	out := make([]float64, len(s.DerivedParams))
	for i, d := range s.DerivedParams {
		out[i] = d.Func(p, dt)
	}
	return out
}

// Copyright (c) 2022, The GoKi Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package netspec

import "fmt"

// BadReferenceError is returned when a synapse group or current source
// names a population that does not exist in the spec.
type BadReferenceError struct {
	Kind string // "source", "target", or "neuron group"
	Name string
}

func (e *BadReferenceError) Error() string {
	return fmt.Sprintf("netspec: unknown %s %q", e.Kind, e.Name)
}

// ShapeMismatchError is returned for duplicate population names or
// incompatible source/target sizes for a matrix class.
type ShapeMismatchError struct {
	Msg string
}

func (e *ShapeMismatchError) Error() string { return "netspec: " + e.Msg }

// ParameterArityError is returned when a supplied parameter or variable
// value count disagrees with the referenced model's declared schema.
type ParameterArityError struct {
	Group string
	What  string // "params", "vars", "derived params", etc.
	Want  int
	Got   int
}

func (e *ParameterArityError) Error() string {
	return fmt.Sprintf("netspec: group %q: %s arity mismatch: want %d, got %d", e.Group, e.What, e.Want, e.Got)
}

// Copyright (c) 2022, The Goki Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package fieldlayout checks that a merged group's per-member field
// table -- the struct of heterogeneous parameter/flag fields promoted
// to a runtime load rather than inlined as a literal -- packs the way
// accelerator memory systems like: an even multiple of 16 bytes (four
// 32 bit lanes), built only from 32 bit scalar kinds. This is a direct
// port of the teacher's alignsl package, adapted from checking a
// go/packages-loaded source file's struct types to checking a
// synthetic *types.Struct built from a merged group's field list, since
// sncode never parses the caller's Go source -- it only ever sees
// model descriptors and resolved values.
package fieldlayout

import (
	"fmt"
	"go/token"
	"go/types"
)

// Kind names a field's device scalar kind, the same restricted set
// alignsl.CheckStruct accepts.
type Kind int

const (
	Float32 Kind = iota
	Int32
	Uint32
)

func (k Kind) basic() *types.Basic {
	switch k {
	case Int32:
		return types.Typ[types.Int32]
	case Uint32:
		return types.Typ[types.Uint32]
	default:
		return types.Typ[types.Float32]
	}
}

// Field is one entry in a merged group's field table.
type Field struct {
	Name string
	Kind Kind
}

// sizes mirrors the 32 bit, 4 byte alignment assumption the teacher's
// alignsl uses implicitly for HLSL-bound structs (it consults
// pkg.TypesSizes from the loaded package; we have no loaded package, so
// we supply the same standard word/align size a 32 bit scalar-only
// struct implies).
var sizes = &types.StdSizes{WordSize: 4, MaxAlign: 4}

// Check reports whether fields would pack into a struct whose total
// size is an even multiple of 16 bytes -- the same test
// alignsl.CheckStruct performs -- and returns the packed size in bytes.
// An empty field list always packs trivially (size 0).
func Check(fields []Field) (ok bool, size int) {
	if len(fields) == 0 {
		return true, 0
	}
	vars := make([]*types.Var, len(fields))
	for i, f := range fields {
		vars[i] = types.NewVar(token.NoPos, nil, f.Name, f.Kind.basic())
	}
	st := types.NewStruct(vars, nil)
	offs := sizes.Offsetsof(vars)
	last := sizes.Sizeof(vars[len(vars)-1].Type())
	total := int(offs[len(vars)-1] + last)
	_ = st
	return total%16 == 0, total
}

// Describe renders a one-line diagnostic for a failed Check, in the same
// terse style alignsl.CheckStruct prints to stdout.
func Describe(groupName string, fields []Field, size int) string {
	return fmt.Sprintf("merged group %s: field table size %d not an even multiple of 16 (%d fields)", groupName, size, len(fields))
}

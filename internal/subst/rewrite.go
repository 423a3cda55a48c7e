// Copyright (c) 2022, The GoKi Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package subst

import (
	"regexp"
	"strings"

	"github.com/emer/sncode/internal/netspec"
)

// Rewrite is one entry of the scalar-precision rewrite table, directly
// mirroring the teacher's sledits.Replace{From, To []byte}.
type Rewrite struct {
	From, To string
}

// rewrites32 maps host-side numeric spellings backend fragments are
// written in down to their 32 bit device spellings -- the same table
// the teacher's sledits.Replaces carries for Go-to-HLSL, generalized
// with a rewrites64 counterpart for the spec's 64 bit time/scalar precision.
var rewrites32 = []Rewrite{
	{"float64", "float"},
	{"uint32", "uint"},
	{"int32", "int"},
	{"math.Exp(", "exp("},
	{"math.Log(", "log("},
	{"math.Pow(", "pow("},
	{"math.Cos(", "cos("},
	{"math.Sin(", "sin("},
	{"math.Abs(", "abs("},
	{"math.Sqrt(", "sqrt("},
	{"mat32.Exp(", "exp("},
	{"mat32.Log(", "log("},
	{"mat32.Pow(", "pow("},
	{"mat32.Cos(", "cos("},
	{"mat32.Sin(", "sin("},
	{"mat32.Abs(", "abs("},
	{"mat32.Sqrt(", "sqrt("},
}

var rewrites64 = []Rewrite{
	{"float32", "double"},
	{"float64", "double"},
	{"uint32", "uint"},
	{"int32", "int"},
	{"math.Exp(", "exp("},
	{"math.Log(", "log("},
	{"math.Pow(", "pow("},
	{"math.Cos(", "cos("},
	{"math.Sin(", "sin("},
	{"math.Abs(", "abs("},
	{"math.Sqrt(", "sqrt("},
	{"mat32.Exp(", "exp("},
	{"mat32.Log(", "log("},
	{"mat32.Pow(", "pow("},
	{"mat32.Cos(", "cos("},
	{"mat32.Sin(", "sin("},
	{"mat32.Abs(", "abs("},
	{"mat32.Sqrt(", "sqrt("},
}

var floatLiteral = regexp.MustCompile(`\b[0-9]+\.[0-9]+(?:[eE][+-]?[0-9]+)?\b`)

var suffixedFloatLiteral = regexp.MustCompile(`\b([0-9]+\.[0-9]+(?:[eE][+-]?[0-9]+)?)f\b`)

// RewriteForPrecision applies the precision-dependent call/type rewrite
// table followed by the literal-suffix pass (P7): under 32 bit
// precision every bare floating literal gains an f suffix; under 64 bit
// any such suffix already present is stripped. It is the mechanism
// behind "literal emission of a scalar must match the active precision"
// (spec.md 4.5).
func RewriteForPrecision(src []byte, precision netspec.ScalarPrecision) []byte {
	s := string(src)
	table := rewrites32
	if precision == netspec.Precision64 {
		table = rewrites64
	}
	for _, r := range table {
		s = strings.ReplaceAll(s, r.From, r.To)
	}
	if precision == netspec.Precision32 {
		s = floatLiteral.ReplaceAllStringFunc(s, func(m string) string { return m + "f" })
	} else {
		s = suffixedFloatLiteral.ReplaceAllString(s, "$1")
	}
	return []byte(s)
}

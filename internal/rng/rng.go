// Copyright (c) 2022, The GoKi Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package rng is a host-side mirror of the stateless, counter-based
// Philox2x32 random number generator that the generated accelerator
// kernels use on-device (one stream per element, keyed by element
// index, advanced by a shared counter each step). It is a direct port
// of the teacher's slrand package; sncode uses it for two things: to
// give requirements a concrete, stable list of RNG placeholder sentinel
// names to scan for, and to let the reference backend derive the
// initial counter of its generated runtime from the spec seed (and tests
// evaluate draws deterministically) without needing a device.
package rng

import "github.com/goki/mat32"

// SentinelNames lists the RNG placeholders that a code
// fragment may reference; a fragment containing $(name for any of these
// draws from the per-element RNG stream (requirements.ContainsSentinel).
var SentinelNames = []string{
	"randUniform",
	"randNormal",
	"randBinomial",
	"randExponential",
}

// Uint2 is the Go mirror of the device uint2 counter/result pair.
type Uint2 struct {
	X, Y uint32
}

// Float2 is the Go mirror of the device float2 result pair.
type Float2 struct {
	X, Y float32
}

// mulHiLo64 computes the high and low 32 bits of a*b using a 64 bit
// intermediate, the portable stand-in for the device's dedicated
// 32x32->64 multiply instruction.
func mulHiLo64(a, b uint32) (lo, hi uint32) {
	prod := uint64(a) * uint64(b)
	hi = uint32(prod >> 32)
	lo = uint32(prod)
	return
}

// philoxRound applies one round of the Philox2x32 counter update.
func philoxRound(counter *Uint2, key uint32) {
	lo, hi := mulHiLo64(0xD256D193, counter.X)
	counter.X = hi ^ key ^ counter.Y
	counter.Y = lo
}

// philoxBumpKey applies one round of the Philox2x32 key schedule.
func philoxBumpKey(key *uint32) {
	*key += 0x9E3779B9
}

// Philox2x32 runs the full 10-round Philox2x32 permutation, returning a
// pseudo-random Uint2 fully determined by counter and key.
func Philox2x32(counter Uint2, key uint32) Uint2 {
	for i := 0; i < 9; i++ {
		philoxRound(&counter, key)
		philoxBumpKey(&key)
	}
	philoxRound(&counter, key)
	return counter
}

// Uint32ToFloat maps a uint32 onto the half-open interval [0, 1).
func Uint32ToFloat(val uint32) float32 {
	const factor = float32(1.) / (float32(0xffffffff) + float32(1.))
	const halfFactor = float32(0.5) * factor
	return float32(val)*factor + halfFactor
}

// Uint32ToFloat11 maps a uint32 onto the interval [-1, 1).
func Uint32ToFloat11(val uint32) float32 {
	const factor = float32(1.) / (float32(0xffffffff) + float32(1.))
	const halfFactor = float32(0.5) * factor
	return 2.0 * (float32(int32(val))*factor + halfFactor)
}

// CounterIncr advances counter by one, as if it were a single uint64.
func CounterIncr(counter *Uint2) {
	if counter.X == 0xffffffff {
		counter.Y++
		counter.X = 0
	} else {
		counter.X++
	}
}

// RandUint32 returns a uniformly-distributed 32 bit unsigned integer for
// the given counter and key (the unique index of the element being
// updated).
func RandUint32(counter Uint2, key uint32) uint32 {
	return Philox2x32(counter, key).X
}

// RandFloat returns a uniformly-distributed float in [0, 1).
func RandFloat(counter Uint2, key uint32) float32 {
	return Uint32ToFloat(RandUint32(counter, key))
}

// RandFloat11 returns a uniformly-distributed float in [-1, 1).
func RandFloat11(counter Uint2, key uint32) float32 {
	return Uint32ToFloat11(RandUint32(counter, key))
}

// RandBoolP returns true with probability p.
func RandBoolP(counter Uint2, key uint32, p float32) bool {
	return RandFloat(counter, key) < p
}

func sincospi(x float32) (s, c float32) {
	const piF = 3.1415926535897932
	return mat32.Sincos(piF * x)
}

// RandNormFloat returns a standard-normal pseudo-random float, computed
// via the Box-Muller transform from two uniform draws.
func RandNormFloat(counter Uint2, key uint32) float32 {
	ur := Philox2x32(counter, key)
	s, _ := sincospi(Uint32ToFloat11(ur.X))
	r := mat32.Sqrt(-2. * mat32.Log(Uint32ToFloat(ur.Y)))
	return s * r
}

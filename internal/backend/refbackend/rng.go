// Copyright (c) 2022, The GoKi Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package refbackend

import (
	"fmt"

	"github.com/emer/sncode/internal/rng"
)

// rngRuntime is a direct C port of internal/rng's Philox2x32 algorithm:
// a counter-based generator advanced by one CounterIncr per draw and
// keyed by the index of the element being updated, the same per-
// population-member RNG stream backendBase.h's genPopulationRNG
// describes. It has no persistent per-element state of its own --
// CounterIncr on a single shared counter is enough to decorrelate
// successive draws within one row-build or variable-initializer loop.
const rngRuntime = `
typedef struct { unsigned int x, y; } rngUint2;

static void rngPhiloxRound(rngUint2 *ctr, unsigned int key) {
  unsigned long long prod = (unsigned long long)0xD256D193u * (unsigned long long)ctr->x;
  unsigned int hi = (unsigned int)(prod >> 32);
  unsigned int lo = (unsigned int)prod;
  ctr->x = hi ^ key ^ ctr->y;
  ctr->y = lo;
}

static void rngPhiloxBumpKey(unsigned int *key) { *key += 0x9E3779B9u; }

static rngUint2 rngPhilox2x32(rngUint2 ctr, unsigned int key) {
  for (int i = 0; i < 9; i++) {
    rngPhiloxRound(&ctr, key);
    rngPhiloxBumpKey(&key);
  }
  rngPhiloxRound(&ctr, key);
  return ctr;
}

static void rngCounterIncr(rngUint2 *ctr) {
  if (ctr->x == 0xffffffffu) {
    ctr->y++;
    ctr->x = 0;
  } else {
    ctr->x++;
  }
}

static float rngUint32ToFloat(unsigned int val) {
  const float factor = 1.0f / (4294967295.0f + 1.0f);
  const float halfFactor = 0.5f * factor;
  return (float)val * factor + halfFactor;
}

static float rngUint32ToFloat11(unsigned int val) {
  const float factor = 1.0f / (4294967295.0f + 1.0f);
  const float halfFactor = 0.5f * factor;
  return 2.0f * ((float)(int)val * factor + halfFactor);
}

static float rngNextFloat(rngUint2 *ctr, unsigned int key) {
  float v = rngUint32ToFloat(rngPhilox2x32(*ctr, key).x);
  rngCounterIncr(ctr);
  return v;
}

static float rngNextNormFloat(rngUint2 *ctr, unsigned int key) {
  rngUint2 ur = rngPhilox2x32(*ctr, key);
  float s = sinf(3.14159265358979323846f * rngUint32ToFloat11(ur.x));
  float r = sqrtf(-2.0f * logf(rngUint32ToFloat(ur.y)));
  rngCounterIncr(ctr);
  return s * r;
}
`

// rngPreamble renders rngRuntime plus a global counter seeded from
// seed. The counter's initial word is a real Philox2x32 evaluation
// (rng.RandUint32), not a copy of seed itself, so two specs seeded 1
// apart start from well-separated streams rather than adjacent ones.
func rngPreamble(seed uint32) string {
	x0 := rng.RandUint32(rng.Uint2{}, seed)
	return fmt.Sprintf("%srngUint2 rngCounter = {%du, 0u};\n", rngRuntime, x0)
}

// rngDrawExpr renders the call expression fn (one of rngNextFloat,
// rngNextNormFloat) resolves to when keyed by indexVar.
func rngDrawExpr(fn, indexVar string) string {
	return fmt.Sprintf("%s(&rngCounter, (unsigned int)%s)", fn, indexVar)
}

func (b *Backend) RandUniformExpr(indexVar string) string { return rngDrawExpr("rngNextFloat", indexVar) }
func (b *Backend) RandNormalExpr(indexVar string) string {
	return rngDrawExpr("rngNextNormFloat", indexVar)
}

func (b *Backend) RNGPreamble(seed uint32) string { return rngPreamble(seed) }
